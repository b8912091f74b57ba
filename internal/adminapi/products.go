package adminapi

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/multivend/marketd/internal/domain"
	"github.com/multivend/marketd/internal/webserver"
)

type stockPayload struct {
	Stock *int `json:"stock" validate:"required"`
}

type productStatusPayload struct {
	Status string `json:"status" validate:"required,oneof=Active Inactive"`
}

type transportationPayload struct {
	TransportationType *string `json:"transportation_type" validate:"omitempty,max=64"`
}

// registerProductRoutes registers admin product moderation endpoints
func registerProductRoutes() {
	webserver.ApiGET("/products", listProducts)
	webserver.ApiGET("/products/:id", getProduct)
	webserver.ApiDELETE("/products/:id", deleteProduct)
	webserver.ApiPUT("/products/:id/stock", updateProductStock)
	webserver.ApiPUT("/products/:id/status", updateProductStatus)
	webserver.ApiPUT("/products/:id/transportation", updateProductTransportation)
}

func listProducts(c echo.Context) error {
	page, perPage := parsePagination(c)

	// Filters: q substring over name, optional shop and category
	q := strings.TrimSpace(c.QueryParam("q"))

	// Sorting: field and order
	sortField := strings.TrimSpace(c.QueryParam("sort"))
	order := strings.ToUpper(strings.TrimSpace(c.QueryParam("order")))
	if order != "ASC" && order != "DESC" {
		order = "DESC"
	}

	// whitelist allowed sort columns to avoid SQL injection
	allowed := map[string]string{
		"id":             "id",
		"name":           "name",
		"original_price": "original_price",
		"discount_price": "discount_price",
		"sold_out":       "sold_out",
		"created_at":     "created_at",
		"updated_at":     "updated_at",
	}
	sortCol, okcol := allowed[sortField]
	if !okcol || sortCol == "" {
		sortCol = "created_at"
	}

	db := GetDB(c).Model(&domain.Product{})
	if q != "" {
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
	if cat := strings.TrimSpace(c.QueryParam("category_id")); cat != "" {
		if id, err := strconv.ParseInt(cat, 10, 64); err == nil {
			db = db.Where("category_id = ?", id)
		}
	}
	if status := strings.TrimSpace(c.QueryParam("status")); status != "" {
		db = db.Where("status = ?", status)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query products", err.Error())
	}

	var rows []domain.Product
	if err := db.Preload("Images").Order(sortCol + " " + order).
		Offset((page - 1) * perPage).Limit(perPage).Find(&rows).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query products", err.Error())
	}

	return paged(c, rows, total, page, perPage)
}

func getProduct(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	var p domain.Product
	if err := GetDB(c).Preload("Images").Where("id = ?", id).First(&p).Error; err != nil {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Product not found", nil)
	}
	return ok(c, p)
}

func deleteProduct(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	if err := GetDB(c).Where("product_id = ?", id).Delete(&domain.ProductImage{}).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to delete product images", err.Error())
	}
	if err := GetDB(c).Where("id = ?", id).Delete(&domain.Product{}).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to delete product", err.Error())
	}
	zap.L().Info("product deleted", zap.Int64("id", id))
	return ok(c, map[string]interface{}{"id": id})
}

// updateProductStock is the inline stock edit; only the stock column moves.
func updateProductStock(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	var payload stockPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse stock", nil)
	}
	if payload.Stock == nil || *payload.Stock < 0 {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Stock must be >= 0", nil)
	}

	var p domain.Product
	if err := GetDB(c).Where("id = ?", id).First(&p).Error; err != nil {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Product not found", nil)
	}
	if err := GetDB(c).Model(&p).Updates(map[string]interface{}{
		"stock":      *payload.Stock,
		"updated_at": time.Now(),
	}).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update stock", err.Error())
	}
	GetDB(c).Where("id = ?", id).First(&p)
	return ok(c, p)
}

func updateProductStatus(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	var payload productStatusPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse status", nil)
	}
	if err := c.Validate(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Status must be 'Active' or 'Inactive'", nil)
	}

	var p domain.Product
	if err := GetDB(c).Where("id = ?", id).First(&p).Error; err != nil {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Product not found", nil)
	}
	if err := GetDB(c).Model(&p).Updates(map[string]interface{}{
		"status":     payload.Status,
		"updated_at": time.Now(),
	}).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update status", err.Error())
	}
	GetDB(c).Where("id = ?", id).First(&p)
	return ok(c, p)
}

func updateProductTransportation(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	var payload transportationPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse transportation type", nil)
	}

	var p domain.Product
	if err := GetDB(c).Where("id = ?", id).First(&p).Error; err != nil {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Product not found", nil)
	}
	if err := GetDB(c).Model(&p).Updates(map[string]interface{}{
		"transportation_type": payload.TransportationType,
		"updated_at":          time.Now(),
	}).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update transportation type", err.Error())
	}
	GetDB(c).Where("id = ?", id).First(&p)
	return ok(c, p)
}
