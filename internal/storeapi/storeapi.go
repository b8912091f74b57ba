// Package storeapi is the public, unauthenticated storefront catalog:
// read-only products, events and categories for buyers.
package storeapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/multivend/marketd/internal/domain"
	"github.com/multivend/marketd/internal/webserver"
)

// Init registers the public storefront routes; call after webserver.Init.
func Init() {
	webserver.PubGET("/store/products", listStoreProducts)
	webserver.PubGET("/store/products/:id", getStoreProduct)
	webserver.PubGET("/store/events", listStoreEvents)
	webserver.PubGET("/store/categories", listStoreCategories)
	webserver.PubGET("/store/shops/:id", getStoreShop)
}

var storeSortColumns = map[string]string{
	"created_at":     "created_at",
	"discount_price": "discount_price",
	"sold_out":       "sold_out",
}

// listStoreProducts serves the buyer catalog: only active products of
// approved shops, sortable by best-selling.
func listStoreProducts(c echo.Context) error {
	page, perPage := webserver.ParsePagination(c)

	db := webserver.GetAppContext(c).DB().Model(&domain.Product{}).
		Where("status = ?", domain.ProductActive).
		Where("shop_id IN (?)", webserver.GetAppContext(c).DB().
			Model(&domain.Shop{}).Select("id").Where("is_active = ?", true))

	if q := strings.TrimSpace(c.QueryParam("q")); q != "" {
		if strings.EqualFold(db.Name(), "postgres") { //nolint:staticcheck
			db = db.Where("name ILIKE ? OR tags ILIKE ?", "%"+q+"%", "%"+q+"%")
		} else {
			low := "%" + strings.ToLower(q) + "%"
			db = db.Where("LOWER(name) LIKE ? OR LOWER(tags) LIKE ?", low, low)
		}
	}
	if categoryID := strings.TrimSpace(c.QueryParam("category_id")); categoryID != "" {
		db = db.Where("category_id = ?", categoryID)
	}
	if shopIDParam := strings.TrimSpace(c.QueryParam("shop_id")); shopIDParam != "" {
		db = db.Where("shop_id = ?", shopIDParam)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return webserver.Fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query products", err.Error())
	}

	order := "created_at DESC"
	if col, okc := storeSortColumns[c.QueryParam("sort")]; okc {
		order = col + " DESC"
	}

	var rows []domain.Product
	if err := db.Preload("Images").Order(order).
		Offset((page - 1) * perPage).Limit(perPage).Find(&rows).Error; err != nil {
		return webserver.Fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query products", err.Error())
	}

	return webserver.Paged(c, rows, total, page, perPage)
}

func getStoreProduct(c echo.Context) error {
	id, err := webserver.ParseIDParam(c, "id")
	if err != nil {
		return webserver.Fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	var p domain.Product
	if err := webserver.GetAppContext(c).DB().Preload("Images").
		Where("id = ? AND status = ?", id, domain.ProductActive).First(&p).Error; err != nil {
		return webserver.Fail(c, http.StatusNotFound, "NOT_FOUND", "Product not found", nil)
	}
	return webserver.OK(c, p)
}

// listStoreEvents serves running promotions; the window is re-checked at
// read time so a finished event never shows between sweep runs.
func listStoreEvents(c echo.Context) error {
	page, perPage := webserver.ParsePagination(c)

	now := time.Now()
	db := webserver.GetAppContext(c).DB().Model(&domain.Event{}).
		Where("status = ? AND finish_date > ?", domain.EventRunning, now)

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return webserver.Fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query events", err.Error())
	}

	var rows []domain.Event
	if err := db.Order("finish_date ASC").
		Offset((page - 1) * perPage).Limit(perPage).Find(&rows).Error; err != nil {
		return webserver.Fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query events", err.Error())
	}

	return webserver.Paged(c, rows, total, page, perPage)
}

func listStoreCategories(c echo.Context) error {
	var rows []domain.Category
	if err := webserver.GetAppContext(c).DB().
		Order("sort ASC, name ASC").Find(&rows).Error; err != nil {
		return webserver.Fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query categories", err.Error())
	}
	return webserver.OK(c, rows)
}

// getStoreShop exposes the public face of an approved shop.
func getStoreShop(c echo.Context) error {
	id, err := webserver.ParseIDParam(c, "id")
	if err != nil {
		return webserver.Fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid shop ID", nil)
	}
	var shop domain.Shop
	if err := webserver.GetAppContext(c).DB().
		Where("id = ? AND is_active = ?", id, true).First(&shop).Error; err != nil {
		return webserver.Fail(c, http.StatusNotFound, "NOT_FOUND", "Shop not found", nil)
	}
	return webserver.OK(c, map[string]interface{}{
		"id":          shop.ID,
		"name":        shop.Name,
		"avatar":      shop.Avatar,
		"description": shop.Description,
		"address":     shop.Address,
		"template":    shop.Template,
		"created_at":  shop.CreatedAt,
	})
}
