package sellerapi

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
	"github.com/multivend/marketd/pkg/common"
)

func registerShopOrderRoutes() {
	webserver.ShopApiGET("/orders", listShopOrders)
	webserver.ShopApiGET("/orders/:id", getShopOrder)
	webserver.ShopApiPUT("/orders/:id/status", updateShopOrderStatus)
	webserver.ShopApiGET("/refunds", listShopRefunds)
	webserver.ShopApiPUT("/refunds/:id/approve", approveShopRefund)
}

// statusSuccessors maps each order status to the transitions a seller may
// trigger. The Shipping leg belongs to couriers, refunds to the refund
// endpoints.
var statusSuccessors = map[string][]string{
	domain.OrderProcessing:  {domain.OrderTransferred, domain.OrderCancelled},
	domain.OrderTransferred: {domain.OrderCancelled},
	domain.OrderShipping:    {domain.OrderReceived},
	domain.OrderReceived:    {domain.OrderDelivered},
}

func listShopOrders(c echo.Context) error {
	page, perPage := parsePagination(c)

	db := GetDB(c).Model(&domain.Order{}).Where("shop_id = ?", shopID(c))
	if status := strings.TrimSpace(c.QueryParam("status")); status != "" {
		db = db.Where("status = ?", status)
	}
	if q := strings.TrimSpace(c.QueryParam("q")); q != "" {
		db = db.Where("CAST(id AS TEXT) LIKE ?", "%"+q+"%")
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query orders", err.Error())
	}

	var rows []domain.Order
	if err := db.Preload("Items").Order("created_at DESC").
		Offset((page - 1) * perPage).Limit(perPage).Find(&rows).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query orders", err.Error())
	}

	return paged(c, rows, total, page, perPage)
}

func getShopOrder(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid order ID", nil)
	}
	var order domain.Order
	if err := GetDB(c).Preload("Items").
		Where("id = ? AND shop_id = ?", id, shopID(c)).First(&order).Error; err != nil {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Order not found", nil)
	}
	return ok(c, order)
}

// updateShopOrderStatus advances the order lifecycle. Moving to
// "Transferred to delivery partner" publishes the bus event that fans out
// delivery offers; reaching Delivered credits the shop's balance.
func updateShopOrderStatus(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid order ID", nil)
	}
	var payload struct {
		Status string `json:"status" validate:"required"`
	}
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse status", nil)
	}

	var order domain.Order
	if err := GetDB(c).Where("id = ? AND shop_id = ?", id, shopID(c)).First(&order).Error; err != nil {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Order not found", nil)
	}

	if !common.InSlice(payload.Status, statusSuccessors[order.Status]) {
		return fail(c, http.StatusConflict, "INVALID_TRANSITION",
			"Cannot move order from "+order.Status+" to "+payload.Status, nil)
	}

	updates := map[string]interface{}{
		"status":     payload.Status,
		"updated_at": time.Now(),
	}
	if payload.Status == domain.OrderDelivered {
		now := time.Now()
		updates["delivered_at"] = &now
	}
	if err := GetDB(c).Model(&order).Updates(updates).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update order", err.Error())
	}

	if payload.Status == domain.OrderDelivered {
		// seller keeps 90%, the platform fee is 10%
		GetDB(c).Model(&domain.Shop{}).Where("id = ?", order.ShopID).
			Update("available_balance", gorm.Expr("available_balance + ?", order.TotalPrice*0.9))
	}

	GetAppContext(c).Bus().Publish(app.TopicOrderStatusChanged, order.ID, payload.Status)
	zap.L().Info("order status changed",
		zap.Int64("order_id", order.ID), zap.String("status", payload.Status))

	GetDB(c).Preload("Items").Where("id = ?", order.ID).First(&order)
	return ok(c, order)
}

func listShopRefunds(c echo.Context) error {
	page, perPage := parsePagination(c)

	db := GetDB(c).Model(&domain.Refund{}).Where("shop_id = ?", shopID(c))
	if status := strings.TrimSpace(c.QueryParam("status")); status != "" {
		db = db.Where("status = ?", status)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query refunds", err.Error())
	}

	var rows []domain.Refund
	if err := db.Order("created_at DESC").
		Offset((page - 1) * perPage).Limit(perPage).Find(&rows).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query refunds", err.Error())
	}

	return paged(c, rows, total, page, perPage)
}

// approveShopRefund resolves a pending refund: the order flips to
// "Refund Approved" and sold stock returns to the products.
func approveShopRefund(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid refund ID", nil)
	}

	var refund domain.Refund
	if err := GetDB(c).Where("id = ? AND shop_id = ?", id, shopID(c)).First(&refund).Error; err != nil {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Refund not found", nil)
	}
	if refund.Status != "requested" {
		return fail(c, http.StatusConflict, "INVALID_TRANSITION", "Refund already resolved", nil)
	}

	var order domain.Order
	if err := GetDB(c).Preload("Items").Where("id = ?", refund.OrderID).First(&order).Error; err != nil {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Order not found", nil)
	}

	now := time.Now()
	if err := GetDB(c).Model(&refund).Updates(map[string]interface{}{
		"status":     "approved",
		"updated_at": now,
	}).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update refund", err.Error())
	}
	GetDB(c).Model(&order).Updates(map[string]interface{}{
		"status":     domain.OrderRefundApproved,
		"updated_at": now,
	})

	for _, item := range order.Items {
		GetDB(c).Model(&domain.Product{}).Where("id = ?", item.ProductID).
			Updates(map[string]interface{}{
				"stock":    gorm.Expr("stock + ?", item.Qty),
				"sold_out": gorm.Expr("sold_out - ?", item.Qty),
			})
	}

	GetAppContext(c).Bus().Publish(app.TopicOrderStatusChanged, order.ID, domain.OrderRefundApproved)
	zap.L().Info("refund approved",
		zap.Int64("refund_id", refund.ID), zap.Int64("order_id", order.ID))

	GetDB(c).Where("id = ?", refund.ID).First(&refund)
	return ok(c, refund)
}
