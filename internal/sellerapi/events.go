package sellerapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/multivend/marketd/internal/domain"
	"github.com/multivend/marketd/internal/webserver"
	"github.com/multivend/marketd/pkg/common"
)

func registerShopEventRoutes() {
	webserver.ShopApiGET("/events", listShopEvents)
	webserver.ShopApiGET("/events/:id", getShopEvent)
	webserver.ShopApiPOST("/events", createShopEvent)
	webserver.ShopApiDELETE("/events/:id", deleteShopEvent)
}

func listShopEvents(c echo.Context) error {
	page, perPage := parsePagination(c)

	db := GetDB(c).Model(&domain.Event{}).Where("shop_id = ?", shopID(c))
	if q := strings.TrimSpace(c.QueryParam("q")); q != "" {
		if strings.EqualFold(db.Name(), "postgres") { //nolint:staticcheck
			db = db.Where("name ILIKE ?", "%"+q+"%")
		} else {
			db = db.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(q)+"%")
		}
	}
	if status := strings.TrimSpace(c.QueryParam("status")); status != "" {
		db = db.Where("status = ?", status)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query events", err.Error())
	}

	var rows []domain.Event
	if err := db.Order("created_at DESC").
		Offset((page - 1) * perPage).Limit(perPage).Find(&rows).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query events", err.Error())
	}

	return paged(c, rows, total, page, perPage)
}

func getShopEvent(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid event ID", nil)
	}
	var ev domain.Event
	if err := GetDB(c).Where("id = ? AND shop_id = ?", id, shopID(c)).First(&ev).Error; err != nil {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Event not found", nil)
	}
	return ok(c, ev)
}

// createShopEvent accepts the event wizard's multipart submit. Dates come
// as free-form strings, dateparse accepts whatever the picker produced.
func createShopEvent(c echo.Context) error {
	name := strings.TrimSpace(c.FormValue("name"))
	if name == "" {
		return fail(c, http.StatusBadRequest, "MISSING_NAME", "Event name is required", nil)
	}

	startDate, err := dateparse.ParseIn(c.FormValue("start_date"), time.Local)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_DATE", "Unable to parse start date", err.Error())
	}
	finishDate, err := dateparse.ParseIn(c.FormValue("finish_date"), time.Local)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_DATE", "Unable to parse finish date", err.Error())
	}
	if !finishDate.After(startDate) {
		return fail(c, http.StatusBadRequest, "INVALID_DATE", "Finish date must be after start date", nil)
	}

	categoryID, _ := strconv.ParseInt(c.FormValue("category_id"), 10, 64)
	originalPrice, _ := strconv.ParseFloat(c.FormValue("original_price"), 64)
	discountPrice, _ := strconv.ParseFloat(c.FormValue("discount_price"), 64)
	var stock *int
	if v := c.FormValue("stock"); v != "" {
		if n, aerr := strconv.Atoi(v); aerr == nil && n >= 0 {
			stock = &n
		}
	}

	now := time.Now()
	ev := domain.Event{
		ID:            common.UUIDint64(),
		ShopID:        shopID(c),
		CategoryID:    categoryID,
		Name:          name,
		Description:   c.FormValue("description"),
		Tags:          strings.TrimSpace(c.FormValue("tags")),
		OriginalPrice: originalPrice,
		DiscountPrice: discountPrice,
		Stock:         stock,
		StartDate:     startDate,
		FinishDate:    finishDate,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	ev.Status = ev.WindowStatus(now)

	urls, err := saveUploadedImages(c, ev.ID)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "UPLOAD_FAILED", "Failed to store images", err.Error())
	}
	if len(urls) > 0 {
		bs, _ := json.Marshal(urls)
		ev.Images = string(bs)
	}

	if err := GetDB(c).Create(&ev).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create event", err.Error())
	}

	zap.L().Info("event created", zap.Int64("id", ev.ID), zap.Int64("shop_id", ev.ShopID))
	return ok(c, ev)
}

func deleteShopEvent(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid event ID", nil)
	}
	var ev domain.Event
	if err := GetDB(c).Where("id = ? AND shop_id = ?", id, shopID(c)).First(&ev).Error; err != nil {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Event not found", nil)
	}
	if err := GetDB(c).Where("id = ?", id).Delete(&domain.Event{}).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to delete event", err.Error())
	}
	zap.L().Info("event deleted", zap.Int64("id", id), zap.Int64("shop_id", shopID(c)))
	return ok(c, map[string]interface{}{"id": id})
}
