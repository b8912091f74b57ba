package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/multivend/marketd/internal/domain"
	"github.com/multivend/marketd/pkg/common"
)

// StartSchedulerService runs enabled schedulers periodically
func (a *Application) StartSchedulerService(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(10 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				a.runSchedulers()
			}
		}
	}()
}

// runSchedulers executes enabled schedulers whose next_run_at has passed
func (a *Application) runSchedulers() {
	var schedulers []domain.Scheduler
	a.gormDB.Where("status = ?", common.ENABLED).Find(&schedulers)
	now := time.Now()
	for _, sched := range schedulers {
		if sched.NextRunAt.IsZero() || now.After(sched.NextRunAt) || now.Equal(sched.NextRunAt) {
			a.dispatchScheduler(&sched)
			a.gormDB.Model(&domain.Scheduler{}).Where("id = ?", sched.ID).
				Update("next_run_at", now.Add(time.Duration(sched.Interval)*time.Second))
		}
	}
}

func (a *Application) dispatchScheduler(sched *domain.Scheduler) {
	switch sched.TaskType {
	case "event_status_sweep":
		a.runEventStatusSweep(sched)
	case "assignment_auto_release":
		a.runAssignmentAutoRelease(sched)
	case "coupon_expiry_prune":
		a.runCouponExpiryPrune(sched)
	default:
		// unsupported task type
	}
}

// RunSchedulerNow triggers a scheduler execution immediately by ID
func (a *Application) RunSchedulerNow(id int64) error {
	var sched domain.Scheduler
	if err := a.gormDB.First(&sched, id).Error; err != nil {
		return err
	}

	a.dispatchScheduler(&sched)

	now := time.Now()
	a.gormDB.Model(&domain.Scheduler{}).Where("id = ?", sched.ID).Updates(map[string]interface{}{
		"last_run_at": now,
		"next_run_at": now.Add(time.Duration(sched.Interval) * time.Second),
	})
	return nil
}

func (a *Application) markSchedulerResult(sched *domain.Scheduler, result, message string) {
	a.gormDB.Model(&domain.Scheduler{}).Where("id = ?", sched.ID).Updates(map[string]interface{}{
		"last_run_at":  time.Now(),
		"last_result":  result,
		"last_message": message,
	})
}

// runEventStatusSweep marks events past their finish date as Finished.
func (a *Application) runEventStatusSweep(sched *domain.Scheduler) {
	res := a.gormDB.Model(&domain.Event{}).
		Where("status = ? AND finish_date < ?", domain.EventRunning, time.Now()).
		Updates(map[string]interface{}{"status": domain.EventFinished, "updated_at": time.Now()})
	if res.Error != nil {
		zap.L().Error("event status sweep failed", zap.Error(res.Error))
		a.markSchedulerResult(sched, "failed", res.Error.Error())
		return
	}
	if res.RowsAffected > 0 {
		zap.L().Info("event status sweep", zap.Int64("finished", res.RowsAffected))
	}
	a.markSchedulerResult(sched, "success", fmt.Sprintf("%d events finished", res.RowsAffected))
}

// runAssignmentAutoRelease declines stale pending offers and re-offers the
// order to the remaining coverage couriers. The per-offer work fans out on
// the worker pool.
func (a *Application) runAssignmentAutoRelease(sched *domain.Scheduler) {
	ttl := a.ConfigMgr().GetInt("delivery", "OfferTTLMinutes")
	if ttl <= 0 {
		ttl = 30
	}

	var stale []domain.OrderAssignment
	a.gormDB.Where("status = ? AND offered_at < ?", domain.AssignPending,
		time.Now().Add(-time.Duration(ttl)*time.Minute)).Find(&stale)
	if len(stale) == 0 {
		a.markSchedulerResult(sched, "success", "no stale offers")
		return
	}

	var wg sync.WaitGroup
	released := 0
	var mu sync.Mutex
	for _, offer := range stale {
		offer := offer
		wg.Add(1)
		submit := func() {
			defer wg.Done()
			now := time.Now()
			err := a.gormDB.Model(&domain.OrderAssignment{}).
				Where("id = ? AND status = ?", offer.ID, domain.AssignPending).
				Updates(map[string]interface{}{
					"status":       domain.AssignDeclined,
					"responded_at": now,
					"updated_at":   now,
				}).Error
			if err != nil {
				zap.L().Error("failed to release stale offer",
					zap.Int64("assignment_id", offer.ID), zap.Error(err))
				return
			}
			a.OfferOrderToCouriers(offer.OrderID, offer.CourierID)
			mu.Lock()
			released++
			mu.Unlock()
		}
		if a.pool != nil {
			if err := a.pool.Submit(submit); err != nil {
				submit()
			}
		} else {
			submit()
		}
	}
	wg.Wait()

	zap.L().Info("assignment auto release", zap.Int("released", released))
	a.markSchedulerResult(sched, "success", fmt.Sprintf("%d offers released", released))
}

// runCouponExpiryPrune deletes coupons expired beyond the retention window.
func (a *Application) runCouponExpiryPrune(sched *domain.Scheduler) {
	idays := a.ConfigMgr().GetInt("coupon", "ExpiredRetentionDays")
	if idays <= 0 {
		idays = 30
	}
	res := a.gormDB.
		Where("expires_at IS NOT NULL AND expires_at < ?", time.Now().Add(-time.Hour*24*time.Duration(idays))).
		Delete(&domain.Coupon{})
	if res.Error != nil {
		a.markSchedulerResult(sched, "failed", res.Error.Error())
		return
	}
	a.markSchedulerResult(sched, "success", fmt.Sprintf("%d coupons pruned", res.RowsAffected))
}
