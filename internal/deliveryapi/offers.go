package deliveryapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/multivend/marketd/internal/app"
	"github.com/multivend/marketd/internal/domain"
	"github.com/multivend/marketd/internal/webserver"
)

func registerOfferRoutes() {
	webserver.DeliveryApiGET("/offers", listCourierOffers)
	webserver.DeliveryApiPUT("/offers/:id/accept", acceptCourierOffer)
	webserver.DeliveryApiPUT("/offers/:id/decline", declineCourierOffer)
	webserver.DeliveryApiPUT("/offers/:id/complete", completeCourierOffer)
	webserver.DeliveryApiGET("/history", listCourierHistory)
}

// offerView joins one pending assignment with the order facts a courier
// needs to decide.
type offerView struct {
	Assignment domain.OrderAssignment `json:"assignment"`
	Order      domain.Order           `json:"order"`
}

func listCourierOffers(c echo.Context) error {
	page, perPage := parsePagination(c)

	db := GetDB(c).Model(&domain.OrderAssignment{}).
		Where("courier_id = ? AND status = ?", courierID(c), domain.AssignPending)

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query offers", err.Error())
	}

	var rows []domain.OrderAssignment
	if err := db.Order("offered_at DESC").
		Offset((page - 1) * perPage).Limit(perPage).Find(&rows).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query offers", err.Error())
	}

	views := make([]offerView, 0, len(rows))
	for _, assignment := range rows {
		var order domain.Order
		if err := GetDB(c).Preload("Items").
			Where("id = ?", assignment.OrderID).First(&order).Error; err != nil {
			continue
		}
		views = append(views, offerView{Assignment: assignment, Order: order})
	}

	return paged(c, views, total, page, perPage)
}

// acceptCourierOffer claims the delivery: sibling pending offers for the
// same order are declined and the order moves to Shipping.
func acceptCourierOffer(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid offer ID", nil)
	}

	var assignment domain.OrderAssignment
	if err := GetDB(c).Where("id = ? AND courier_id = ?", id, courierID(c)).
		First(&assignment).Error; err != nil {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Offer not found", nil)
	}
	if assignment.Status != domain.AssignPending {
		return fail(c, http.StatusConflict, "INVALID_TRANSITION", "Offer already resolved", nil)
	}

	var order domain.Order
	if err := GetDB(c).Where("id = ?", assignment.OrderID).First(&order).Error; err != nil {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Order not found", nil)
	}
	if order.Status != domain.OrderTransferred {
		return fail(c, http.StatusConflict, "INVALID_TRANSITION", "Order is no longer awaiting pickup", nil)
	}

	now := time.Now()
	// claim atomically so two couriers cannot win the same order
	claim := GetDB(c).Model(&domain.OrderAssignment{}).
		Where("id = ? AND status = ?", assignment.ID, domain.AssignPending).
		Updates(map[string]interface{}{
			"status":       domain.AssignAccepted,
			"responded_at": &now,
			"updated_at":   now,
		})
	if claim.Error != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to accept offer", claim.Error.Error())
	}
	if claim.RowsAffected == 0 {
		return fail(c, http.StatusConflict, "INVALID_TRANSITION", "Offer already resolved", nil)
	}

	GetDB(c).Model(&domain.OrderAssignment{}).
		Where("order_id = ? AND id != ? AND status = ?", order.ID, assignment.ID, domain.AssignPending).
		Updates(map[string]interface{}{
			"status":       domain.AssignDeclined,
			"responded_at": &now,
			"updated_at":   now,
		})
	GetDB(c).Model(&order).Updates(map[string]interface{}{
		"status":     domain.OrderShipping,
		"updated_at": now,
	})

	GetAppContext(c).Bus().Publish(app.TopicCourierAssigned, order.ID, courierID(c))
	zap.L().Info("delivery accepted",
		zap.Int64("order_id", order.ID), zap.Int64("courier_id", courierID(c)))

	GetDB(c).Where("id = ?", assignment.ID).First(&assignment)
	return ok(c, assignment)
}

func declineCourierOffer(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid offer ID", nil)
	}

	var assignment domain.OrderAssignment
	if err := GetDB(c).Where("id = ? AND courier_id = ?", id, courierID(c)).
		First(&assignment).Error; err != nil {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Offer not found", nil)
	}
	if assignment.Status != domain.AssignPending {
		return fail(c, http.StatusConflict, "INVALID_TRANSITION", "Offer already resolved", nil)
	}

	now := time.Now()
	if err := GetDB(c).Model(&assignment).Updates(map[string]interface{}{
		"status":       domain.AssignDeclined,
		"responded_at": &now,
		"updated_at":   now,
	}).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to decline offer", err.Error())
	}

	GetDB(c).Where("id = ?", assignment.ID).First(&assignment)
	return ok(c, assignment)
}

// completeCourierOffer closes an accepted delivery: the fee lands on the
// courier's credit balance and the order becomes Delivered.
func completeCourierOffer(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid offer ID", nil)
	}

	var assignment domain.OrderAssignment
	if err := GetDB(c).Where("id = ? AND courier_id = ?", id, courierID(c)).
		First(&assignment).Error; err != nil {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Offer not found", nil)
	}
	if assignment.Status != domain.AssignAccepted {
		return fail(c, http.StatusConflict, "INVALID_TRANSITION", "Only accepted deliveries can complete", nil)
	}

	var order domain.Order
	if err := GetDB(c).Where("id = ?", assignment.OrderID).First(&order).Error; err != nil {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Order not found", nil)
	}

	now := time.Now()
	if err := GetDB(c).Model(&assignment).Updates(map[string]interface{}{
		"status":       domain.AssignCompleted,
		"responded_at": &now,
		"updated_at":   now,
	}).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to complete delivery", err.Error())
	}

	GetDB(c).Model(&domain.Courier{}).Where("id = ?", courierID(c)).
		Update("credit_balance", gorm.Expr("credit_balance + ?", assignment.Fee))
	if order.Status != domain.OrderDelivered {
		GetDB(c).Model(&order).Updates(map[string]interface{}{
			"status":       domain.OrderDelivered,
			"delivered_at": &now,
			"updated_at":   now,
		})
		// seller keeps 90%, the platform fee is 10%
		GetDB(c).Model(&domain.Shop{}).Where("id = ?", order.ShopID).
			Update("available_balance", gorm.Expr("available_balance + ?", order.TotalPrice*0.9))
	}

	GetAppContext(c).Bus().Publish(app.TopicOrderStatusChanged, order.ID, domain.OrderDelivered)
	zap.L().Info("delivery completed",
		zap.Int64("order_id", order.ID), zap.Int64("courier_id", courierID(c)),
		zap.Float64("fee", assignment.Fee))

	GetDB(c).Where("id = ?", assignment.ID).First(&assignment)
	return ok(c, assignment)
}

func listCourierHistory(c echo.Context) error {
	page, perPage := parsePagination(c)

	db := GetDB(c).Model(&domain.OrderAssignment{}).
		Where("courier_id = ? AND status != ?", courierID(c), domain.AssignPending)
	if status := strings.TrimSpace(c.QueryParam("status")); status != "" {
		db = db.Where("status = ?", status)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query history", err.Error())
	}

	var rows []domain.OrderAssignment
	if err := db.Order("updated_at DESC").
		Offset((page - 1) * perPage).Limit(perPage).Find(&rows).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query history", err.Error())
	}

	return paged(c, rows, total, page, perPage)
}
