package adminapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/multivend/marketd/internal/domain"
	"github.com/multivend/marketd/internal/webserver"
)

type courierApprovePayload struct {
	IsActive *bool `json:"is_active" validate:"required"`
}

type courierCreditPayload struct {
	Delta  float64 `json:"delta" validate:"required"`
	Remark string  `json:"remark" validate:"omitempty,max=500"`
}

// registerCourierRoutes registers delivery-partner moderation endpoints
func registerCourierRoutes() {
	webserver.ApiGET("/couriers", listCouriers)
	webserver.ApiGET("/couriers/:id", getCourier)
	webserver.ApiPUT("/couriers/:id/approve", approveCourier)
	webserver.ApiPUT("/couriers/:id/credit", adjustCourierCredit)
	webserver.ApiDELETE("/couriers/:id", deleteCourier)
}

func listCouriers(c echo.Context) error {
	page, perPage := parsePagination(c)

	db := GetDB(c).Model(&domain.Courier{})
	if q := strings.TrimSpace(c.QueryParam("q")); q != "" {
		if strings.EqualFold(db.Name(), "postgres") { //nolint:staticcheck
			db = db.Where("full_name ILIKE ? OR email ILIKE ? OR CAST(id AS TEXT) LIKE ?", "%"+q+"%", "%"+q+"%", "%"+q+"%")
		} else {
			db = db.Where("LOWER(full_name) LIKE ? OR LOWER(email) LIKE ? OR CAST(id AS TEXT) LIKE ?",
				"%"+strings.ToLower(q)+"%", "%"+strings.ToLower(q)+"%", "%"+q+"%")
		}
	}
	if pending := strings.TrimSpace(c.QueryParam("pending")); pending == "true" {
		db = db.Where("is_active = ?", false)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query couriers", err.Error())
	}

	var rows []domain.Courier
	if err := db.Preload("Areas").Order("created_at DESC").
		Offset((page - 1) * perPage).Limit(perPage).Find(&rows).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query couriers", err.Error())
	}

	return paged(c, rows, total, page, perPage)
}

func getCourier(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid courier ID", nil)
	}
	var courier domain.Courier
	if err := GetDB(c).Preload("Areas").Where("id = ?", id).First(&courier).Error; err != nil {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Courier not found", nil)
	}
	return ok(c, courier)
}

func approveCourier(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid courier ID", nil)
	}
	var payload courierApprovePayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse approval", nil)
	}
	if payload.IsActive == nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "is_active is required", nil)
	}

	var courier domain.Courier
	if err := GetDB(c).Where("id = ?", id).First(&courier).Error; err != nil {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Courier not found", nil)
	}
	if err := GetDB(c).Model(&courier).Updates(map[string]interface{}{
		"is_active":  *payload.IsActive,
		"updated_at": time.Now(),
	}).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update courier", err.Error())
	}
	zap.L().Info("courier approval updated", zap.Int64("id", id), zap.Bool("is_active", *payload.IsActive))

	GetDB(c).Where("id = ?", id).First(&courier)
	return ok(c, courier)
}

// adjustCourierCredit applies a signed delta to the credit balance; a
// negative delta that would overdraw is rejected.
func adjustCourierCredit(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid courier ID", nil)
	}
	var payload courierCreditPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse credit adjustment", nil)
	}
	if payload.Delta == 0 {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "delta must be non-zero", nil)
	}

	var courier domain.Courier
	if err := GetDB(c).Where("id = ?", id).First(&courier).Error; err != nil {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Courier not found", nil)
	}
	if courier.CreditBalance+payload.Delta < 0 {
		return fail(c, http.StatusBadRequest, "INSUFFICIENT_BALANCE", "Adjustment would overdraw the credit balance", nil)
	}
	if err := GetDB(c).Model(&courier).Updates(map[string]interface{}{
		"credit_balance": courier.CreditBalance + payload.Delta,
		"updated_at":     time.Now(),
	}).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to adjust credit", err.Error())
	}
	zap.L().Info("courier credit adjusted", zap.Int64("id", id), zap.Float64("delta", payload.Delta))

	GetDB(c).Where("id = ?", id).First(&courier)
	return ok(c, courier)
}

func deleteCourier(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid courier ID", nil)
	}
	if err := GetDB(c).Where("courier_id = ?", id).Delete(&domain.CourierArea{}).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to delete courier areas", err.Error())
	}
	if err := GetDB(c).Where("id = ?", id).Delete(&domain.Courier{}).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to delete courier", err.Error())
	}
	zap.L().Info("courier deleted", zap.Int64("id", id))
	return ok(c, map[string]interface{}{"id": id})
}
