package adminapi

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/multivend/marketd/internal/domain"
	"github.com/multivend/marketd/internal/webserver"
)

// registerCouponRoutes registers admin coupon moderation endpoints
func registerCouponRoutes() {
	webserver.ApiGET("/coupons", listCoupons)
	webserver.ApiGET("/coupons/:id", getCoupon)
	webserver.ApiDELETE("/coupons/:id", deleteCoupon)
}

func listCoupons(c echo.Context) error {
	page, perPage := parsePagination(c)

	db := GetDB(c).Model(&domain.Coupon{})
	if q := strings.TrimSpace(c.QueryParam("q")); q != "" {
		if strings.EqualFold(db.Name(), "postgres") { //nolint:staticcheck
			db = db.Where("name ILIKE ? OR CAST(id AS TEXT) LIKE ?", "%"+q+"%", "%"+q+"%")
		} else {
			db = db.Where("LOWER(name) LIKE ? OR CAST(id AS TEXT) LIKE ?", "%"+strings.ToLower(q)+"%", "%"+q+"%")
		}
	}
	if shop := strings.TrimSpace(c.QueryParam("shop_id")); shop != "" {
		if id, err := strconv.ParseInt(shop, 10, 64); err == nil {
			db = db.Where("shop_id = ?", id)
		}
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query coupons", err.Error())
	}

	var rows []domain.Coupon
	if err := db.Order("created_at DESC").Offset((page - 1) * perPage).Limit(perPage).Find(&rows).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query coupons", err.Error())
	}

	return paged(c, rows, total, page, perPage)
}

func getCoupon(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid coupon ID", nil)
	}
	var coupon domain.Coupon
	if err := GetDB(c).Where("id = ?", id).First(&coupon).Error; err != nil {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Coupon not found", nil)
	}
	return ok(c, coupon)
}

func deleteCoupon(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid coupon ID", nil)
	}
	if err := GetDB(c).Where("id = ?", id).Delete(&domain.Coupon{}).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to delete coupon", err.Error())
	}
	zap.L().Info("coupon deleted", zap.Int64("id", id))
	return ok(c, map[string]interface{}{"id": id})
}
