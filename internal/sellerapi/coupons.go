package sellerapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/multivend/marketd/internal/domain"
	"github.com/multivend/marketd/internal/webserver"
	"github.com/multivend/marketd/pkg/common"
)

func registerShopCouponRoutes() {
	webserver.ShopApiGET("/coupons", listShopCoupons)
	webserver.ShopApiPOST("/coupons", createShopCoupon)
	webserver.ShopApiDELETE("/coupons/:id", deleteShopCoupon)
}

func listShopCoupons(c echo.Context) error {
	page, perPage := parsePagination(c)

	db := GetDB(c).Model(&domain.Coupon{}).Where("shop_id = ?", shopID(c))
	if q := strings.TrimSpace(c.QueryParam("q")); q != "" {
		if strings.EqualFold(db.Name(), "postgres") { //nolint:staticcheck
			db = db.Where("name ILIKE ?", "%"+q+"%")
		} else {
			db = db.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(q)+"%")
		}
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query coupons", err.Error())
	}

	var rows []domain.Coupon
	if err := db.Order("created_at DESC").
		Offset((page - 1) * perPage).Limit(perPage).Find(&rows).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query coupons", err.Error())
	}

	return paged(c, rows, total, page, perPage)
}

type couponPayload struct {
	Name              string     `json:"name" validate:"required"`
	Value             float64    `json:"value" validate:"required,gt=0,lte=100"`
	MinAmount         *float64   `json:"min_amount"`
	MaxAmount         *float64   `json:"max_amount"`
	SelectedProductID *int64     `json:"selected_product_id,string"`
	ExpiresAt         *time.Time `json:"expires_at"`
}

func createShopCoupon(c echo.Context) error {
	var payload couponPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse coupon", nil)
	}
	if err := c.Validate(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Coupon validation failed", err.Error())
	}

	// Coupon codes are unique per shop.
	var count int64
	GetDB(c).Model(&domain.Coupon{}).
		Where("shop_id = ? AND name = ?", shopID(c), payload.Name).Count(&count)
	if count > 0 {
		return fail(c, http.StatusConflict, "DUPLICATE_COUPON", "Coupon code already exists", nil)
	}

	if payload.SelectedProductID != nil {
		var pc int64
		GetDB(c).Model(&domain.Product{}).
			Where("id = ? AND shop_id = ?", *payload.SelectedProductID, shopID(c)).Count(&pc)
		if pc == 0 {
			return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Selected product does not belong to this shop", nil)
		}
	}

	now := time.Now()
	coupon := domain.Coupon{
		ID:                common.UUIDint64(),
		ShopID:            shopID(c),
		Name:              payload.Name,
		Value:             payload.Value,
		MinAmount:         payload.MinAmount,
		MaxAmount:         payload.MaxAmount,
		SelectedProductID: payload.SelectedProductID,
		ExpiresAt:         payload.ExpiresAt,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := GetDB(c).Create(&coupon).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create coupon", err.Error())
	}
	return ok(c, coupon)
}

func deleteShopCoupon(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid coupon ID", nil)
	}
	var coupon domain.Coupon
	if err := GetDB(c).Where("id = ? AND shop_id = ?", id, shopID(c)).First(&coupon).Error; err != nil {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Coupon not found", nil)
	}
	if err := GetDB(c).Where("id = ?", id).Delete(&domain.Coupon{}).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to delete coupon", err.Error())
	}
	return ok(c, map[string]interface{}{"id": id})
}
