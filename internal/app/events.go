package app

import (
	"fmt"
	"time"

	"github.com/asaskevich/EventBus"
	"go.uber.org/zap"

	"github.com/multivend/marketd/internal/domain"
	"github.com/multivend/marketd/pkg/common"
)

// Event bus topics. Handlers publish, the application subscribes; delivery
// is async so a slow subscriber never blocks a request.
const (
	TopicOrderStatusChanged = "order.status.changed"
	TopicSellerApproved     = "seller.approved"
	TopicCourierAssigned    = "courier.assigned"
)

func (a *Application) initBus() {
	a.bus = EventBus.New()

	if err := a.bus.SubscribeAsync(TopicOrderStatusChanged, a.onOrderStatusChanged, false); err != nil {
		zap.S().Errorf("bus subscribe error %s", err.Error())
	}
	if err := a.bus.SubscribeAsync(TopicSellerApproved, a.onSellerApproved, false); err != nil {
		zap.S().Errorf("bus subscribe error %s", err.Error())
	}
	if err := a.bus.SubscribeAsync(TopicCourierAssigned, a.onCourierAssigned, false); err != nil {
		zap.S().Errorf("bus subscribe error %s", err.Error())
	}
}

// onOrderStatusChanged reacts to order lifecycle transitions. The only
// transition with side effects here is the handoff to delivery partners.
func (a *Application) onOrderStatusChanged(orderID int64, status string) {
	if status != domain.OrderTransferred {
		return
	}
	a.OfferOrderToCouriers(orderID, 0)
}

// OfferOrderToCouriers creates pending delivery offers for every approved
// courier covering the order's shipping city. excludeCourierID skips a
// courier that already declined or timed out.
func (a *Application) OfferOrderToCouriers(orderID, excludeCourierID int64) {
	var order domain.Order
	if err := a.gormDB.First(&order, orderID).Error; err != nil {
		zap.L().Error("offer: order not found", zap.Int64("order_id", orderID), zap.Error(err))
		return
	}

	var couriers []domain.Courier
	q := a.gormDB.Model(&domain.Courier{}).
		Joins("JOIN mkt_courier_area ON mkt_courier_area.courier_id = mkt_courier.id").
		Where("mkt_courier.is_active = ? AND mkt_courier_area.city = ?", true, order.ShippingCity)
	if excludeCourierID > 0 {
		q = q.Where("mkt_courier.id != ?", excludeCourierID)
	}
	if err := q.Distinct("mkt_courier.*").Find(&couriers).Error; err != nil {
		zap.L().Error("offer: courier query failed", zap.Int64("order_id", orderID), zap.Error(err))
		return
	}
	if len(couriers) == 0 {
		zap.L().Warn("offer: no couriers cover city",
			zap.Int64("order_id", orderID), zap.String("city", order.ShippingCity))
		return
	}

	defaultKm := a.ConfigMgr().GetFloat64("delivery", "DefaultKm")
	if defaultKm <= 0 {
		defaultKm = 5
	}

	now := time.Now()
	for _, courier := range couriers {
		// one open offer per order+courier
		var count int64
		a.gormDB.Model(&domain.OrderAssignment{}).
			Where("order_id = ? AND courier_id = ? AND status IN ?",
				orderID, courier.ID, []string{domain.AssignPending, domain.AssignAccepted}).
			Count(&count)
		if count > 0 {
			continue
		}

		offer := domain.OrderAssignment{
			ID:        common.UUIDint64(),
			OrderID:   orderID,
			CourierID: courier.ID,
			Status:    domain.AssignPending,
			Fee:       courier.ChargePerKm * defaultKm,
			OfferedAt: now,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := a.gormDB.Create(&offer).Error; err != nil {
			zap.L().Error("offer: create failed",
				zap.Int64("order_id", orderID), zap.Int64("courier_id", courier.ID), zap.Error(err))
			continue
		}
		zap.L().Info("delivery offer created",
			zap.Int64("order_id", orderID), zap.Int64("courier_id", courier.ID))
	}
}

// onCourierAssigned tells the shop its order was picked up for delivery.
func (a *Application) onCourierAssigned(orderID, courierID int64) {
	var order domain.Order
	if err := a.gormDB.First(&order, orderID).Error; err != nil {
		zap.L().Error("assignment mail: order not found", zap.Int64("order_id", orderID), zap.Error(err))
		return
	}
	var shop domain.Shop
	if err := a.gormDB.First(&shop, order.ShopID).Error; err != nil {
		return
	}
	var courier domain.Courier
	if err := a.gormDB.First(&courier, courierID).Error; err != nil {
		return
	}

	subject := fmt.Sprintf("Order %d is on its way", order.ID)
	body := fmt.Sprintf("Hello %s,\n\n%s accepted the delivery of order %d.",
		shop.Name, courier.FullName, order.ID)
	if err := a.mailer.Send(shop.Email, subject, body); err != nil {
		zap.L().Warn("assignment mail not sent", zap.String("email", shop.Email), zap.Error(err))
	}
}

// onSellerApproved emails the shop owner about the approval decision.
func (a *Application) onSellerApproved(shopID int64) {
	var shop domain.Shop
	if err := a.gormDB.First(&shop, shopID).Error; err != nil {
		zap.L().Error("approval mail: shop not found", zap.Int64("shop_id", shopID), zap.Error(err))
		return
	}

	subject := a.ConfigMgr().GetString("mail", "SellerApprovedSubject")
	if subject == "" {
		subject = "Your shop has been approved"
	}
	body := "Hello " + shop.Name + ",\n\nYour shop is now approved and visible to buyers."
	if err := a.mailer.Send(shop.Email, subject, body); err != nil {
		zap.L().Warn("approval mail not sent", zap.String("email", shop.Email), zap.Error(err))
	}
}
