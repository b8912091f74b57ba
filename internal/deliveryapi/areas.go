package deliveryapi

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/multivend/marketd/internal/domain"
	"github.com/multivend/marketd/internal/webserver"
	"github.com/multivend/marketd/pkg/common"
)

func registerAreaRoutes() {
	webserver.DeliveryApiGET("/areas", listCourierAreas)
	webserver.DeliveryApiPOST("/areas", createCourierArea)
	webserver.DeliveryApiDELETE("/areas/:id", deleteCourierArea)
}

func listCourierAreas(c echo.Context) error {
	var rows []domain.CourierArea
	if err := GetDB(c).Where("courier_id = ?", courierID(c)).
		Order("city ASC, district ASC").Find(&rows).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query areas", err.Error())
	}
	return ok(c, rows)
}

func createCourierArea(c echo.Context) error {
	var payload struct {
		City     string `json:"city" validate:"required"`
		District string `json:"district"`
	}
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse area", nil)
	}
	if err := c.Validate(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Area validation failed", err.Error())
	}

	var count int64
	GetDB(c).Model(&domain.CourierArea{}).
		Where("courier_id = ? AND city = ? AND district = ?", courierID(c), payload.City, payload.District).
		Count(&count)
	if count > 0 {
		return fail(c, http.StatusConflict, "DUPLICATE_AREA", "Area already covered", nil)
	}

	area := domain.CourierArea{
		ID:        common.UUIDint64(),
		CourierID: courierID(c),
		City:      payload.City,
		District:  payload.District,
		CreatedAt: time.Now(),
	}
	if err := GetDB(c).Create(&area).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create area", err.Error())
	}
	return ok(c, area)
}

func deleteCourierArea(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid area ID", nil)
	}
	result := GetDB(c).Where("id = ? AND courier_id = ?", id, courierID(c)).
		Delete(&domain.CourierArea{})
	if result.Error != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to delete area", result.Error.Error())
	}
	if result.RowsAffected == 0 {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Area not found", nil)
	}
	return ok(c, map[string]interface{}{"id": id})
}

// profile

func registerCourierProfileRoutes() {
	webserver.DeliveryApiGET("/profile", getCourierProfile)
	webserver.DeliveryApiPUT("/profile", updateCourierProfile)
}

func getCourierProfile(c echo.Context) error {
	var courier domain.Courier
	if err := GetDB(c).Preload("Areas").
		Where("id = ?", courierID(c)).First(&courier).Error; err != nil {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Courier not found", nil)
	}
	return ok(c, courier)
}

func updateCourierProfile(c echo.Context) error {
	var payload struct {
		FullName    string  `json:"fullname" validate:"required"`
		Phone       string  `json:"phone"`
		ChargePerKm float64 `json:"charge_per_km" validate:"gte=0"`
	}
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse profile", nil)
	}
	if err := c.Validate(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Profile validation failed", err.Error())
	}

	var courier domain.Courier
	if err := GetDB(c).Where("id = ?", courierID(c)).First(&courier).Error; err != nil {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Courier not found", nil)
	}
	updates := map[string]interface{}{
		"full_name":  payload.FullName,
		"phone":      payload.Phone,
		"updated_at": time.Now(),
	}
	if payload.ChargePerKm > 0 {
		updates["charge_per_km"] = payload.ChargePerKm
	}
	if err := GetDB(c).Model(&courier).Updates(updates).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update profile", err.Error())
	}
	GetDB(c).Preload("Areas").Where("id = ?", courier.ID).First(&courier)
	return ok(c, courier)
}
