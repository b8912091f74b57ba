package adminapi

import (
	"errors"
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

type sellerApprovePayload struct {
	IsActive *bool `json:"is_active" validate:"required"`
}

// registerSellerRoutes registers seller moderation endpoints
func registerSellerRoutes() {
	webserver.ApiGET("/sellers", listSellers)
	webserver.ApiGET("/sellers/:id", getSeller)
	webserver.ApiPUT("/sellers/:id/approve", approveSeller)
	webserver.ApiDELETE("/sellers/:id", deleteSeller)
}

func listSellers(c echo.Context) error {
	page, perPage := parsePagination(c)

	db := GetDB(c).Model(&domain.Shop{})
	if q := strings.TrimSpace(c.QueryParam("q")); q != "" {
		if strings.EqualFold(db.Name(), "postgres") { //nolint:staticcheck
			db = db.Where("name ILIKE ? OR email ILIKE ? OR CAST(id AS TEXT) LIKE ?", "%"+q+"%", "%"+q+"%", "%"+q+"%")
		} else {
			db = db.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ? OR CAST(id AS TEXT) LIKE ?",
				"%"+strings.ToLower(q)+"%", "%"+strings.ToLower(q)+"%", "%"+q+"%")
		}
	}
	if pending := strings.TrimSpace(c.QueryParam("pending")); pending == "true" {
		db = db.Where("is_active = ?", false)
	}
	if tmpl := strings.TrimSpace(c.QueryParam("template")); tmpl != "" {
		db = db.Where("template = ?", tmpl)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query sellers", err.Error())
	}

	var rows []domain.Shop
	if err := db.Order("created_at DESC").Offset((page - 1) * perPage).Limit(perPage).Find(&rows).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query sellers", err.Error())
	}

	return paged(c, rows, total, page, perPage)
}

func getSeller(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid seller ID", nil)
	}
	var shop domain.Shop
	if err := GetDB(c).Where("id = ?", id).First(&shop).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "SELLER_NOT_FOUND", "Seller not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query seller", err.Error())
	}
	return ok(c, shop)
}

// approveSeller toggles the approval flag; a newly approved shop gets the
// notification mail through the event bus.
func approveSeller(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid seller ID", nil)
	}
	var payload sellerApprovePayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse approval", nil)
	}
	if payload.IsActive == nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "is_active is required", nil)
	}

	var shop domain.Shop
	if err := GetDB(c).Where("id = ?", id).First(&shop).Error; err != nil {
		return fail(c, http.StatusNotFound, "SELLER_NOT_FOUND", "Seller not found", nil)
	}

	wasActive := shop.IsActive
	if err := GetDB(c).Model(&shop).Updates(map[string]interface{}{
		"is_active":  *payload.IsActive,
		"updated_at": time.Now(),
	}).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update seller", err.Error())
	}

	if !wasActive && *payload.IsActive {
		GetAppContext(c).Bus().Publish(app.TopicSellerApproved, shop.ID)
	}
	zap.L().Info("seller approval updated", zap.Int64("id", id), zap.Bool("is_active", *payload.IsActive))

	GetDB(c).Where("id = ?", id).First(&shop)
	return ok(c, shop)
}

func deleteSeller(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid seller ID", nil)
	}
	// the shop's catalog goes with it
	if err := GetDB(c).Where("shop_id = ?", id).Delete(&domain.Product{}).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to delete seller products", err.Error())
	}
	if err := GetDB(c).Where("shop_id = ?", id).Delete(&domain.Event{}).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to delete seller events", err.Error())
	}
	if err := GetDB(c).Where("shop_id = ?", id).Delete(&domain.Coupon{}).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to delete seller coupons", err.Error())
	}
	if err := GetDB(c).Where("id = ?", id).Delete(&domain.Shop{}).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to delete seller", err.Error())
	}
	zap.L().Info("seller deleted", zap.Int64("id", id))
	return ok(c, map[string]interface{}{"id": id})
}
