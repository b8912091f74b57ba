package adminapi

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/multivend/marketd/internal/domain"
	"github.com/multivend/marketd/internal/webserver"
)

type settingPayload struct {
	Type  string `json:"type" validate:"required,max=50"`
	Name  string `json:"name" validate:"required,max=100"`
	Value string `json:"value" validate:"omitempty,max=2000"`
}

// registerSettingsRoutes registers sys_config management endpoints
func registerSettingsRoutes() {
	webserver.ApiGET("/settings", listSettings)
	webserver.ApiPUT("/settings", updateSetting)
}

func listSettings(c echo.Context) error {
	db := GetDB(c).Model(&domain.SysConfig{})
	if t := strings.TrimSpace(c.QueryParam("type")); t != "" {
		db = db.Where("type = ?", t)
	}

	var rows []domain.SysConfig
	if err := db.Order("sort ASC").Find(&rows).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query settings", err.Error())
	}
	return ok(c, rows)
}

func updateSetting(c echo.Context) error {
	var payload settingPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse setting", nil)
	}
	if err := c.Validate(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Type and name are required", nil)
	}

	var row domain.SysConfig
	if err := GetDB(c).Where("type = ? AND name = ?", payload.Type, payload.Name).First(&row).Error; err != nil {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Setting not found", nil)
	}

	if err := GetDB(c).Model(&row).Update("value", payload.Value).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update setting", err.Error())
	}
	zap.L().Info("setting updated", zap.String("type", payload.Type), zap.String("name", payload.Name))

	GetDB(c).Where("id = ?", row.ID).First(&row)
	return ok(c, row)
}
