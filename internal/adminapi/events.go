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

// registerEventRoutes registers admin event moderation endpoints
func registerEventRoutes() {
	webserver.ApiGET("/events", listEvents)
	webserver.ApiGET("/events/:id", getEvent)
	webserver.ApiDELETE("/events/:id", deleteEvent)
}

func listEvents(c echo.Context) error {
	page, perPage := parsePagination(c)

	db := GetDB(c).Model(&domain.Event{})
	if q := strings.TrimSpace(c.QueryParam("q")); q != "" {
		if strings.EqualFold(db.Name(), "postgres") { //nolint:staticcheck
			db = db.Where("name ILIKE ? OR CAST(id AS TEXT) LIKE ?", "%"+q+"%", "%"+q+"%")
		} else {
			db = db.Where("LOWER(name) LIKE ? OR CAST(id AS TEXT) LIKE ?", "%"+strings.ToLower(q)+"%", "%"+q+"%")
		}
	}
	if status := strings.TrimSpace(c.QueryParam("status")); status != "" {
		db = db.Where("status = ?", status)
	}
	if shop := strings.TrimSpace(c.QueryParam("shop_id")); shop != "" {
		if id, err := strconv.ParseInt(shop, 10, 64); err == nil {
			db = db.Where("shop_id = ?", id)
		}
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query events", err.Error())
	}

	var rows []domain.Event
	if err := db.Order("created_at DESC").Offset((page - 1) * perPage).Limit(perPage).Find(&rows).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query events", err.Error())
	}

	return paged(c, rows, total, page, perPage)
}

func getEvent(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid event ID", nil)
	}
	var ev domain.Event
	if err := GetDB(c).Where("id = ?", id).First(&ev).Error; err != nil {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Event not found", nil)
	}
	return ok(c, ev)
}

func deleteEvent(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid event ID", nil)
	}
	if err := GetDB(c).Where("id = ?", id).Delete(&domain.Event{}).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to delete event", err.Error())
	}
	zap.L().Info("event deleted", zap.Int64("id", id))
	return ok(c, map[string]interface{}{"id": id})
}
