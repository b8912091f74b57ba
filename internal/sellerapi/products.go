package sellerapi

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/multivend/marketd/internal/domain"
	"github.com/multivend/marketd/internal/webserver"
	"github.com/multivend/marketd/pkg/common"
)

// registerShopProductRoutes registers shop-scoped product endpoints. Create
// and update accept multipart form data because the edit wizard submits
// image files alongside fields.
func registerShopProductRoutes() {
	webserver.ShopApiGET("/products", listShopProducts)
	webserver.ShopApiGET("/products/:id", getShopProduct)
	webserver.ShopApiPOST("/products", createShopProduct)
	webserver.ShopApiPUT("/products/:id", updateShopProduct)
	webserver.ShopApiPUT("/products/:id/stock", updateShopProductStock)
	webserver.ShopApiDELETE("/products/:id", deleteShopProduct)
}

func listShopProducts(c echo.Context) error {
	page, perPage := parsePagination(c)

	db := GetDB(c).Model(&domain.Product{}).Where("shop_id = ?", shopID(c))
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

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query products", err.Error())
	}

	var rows []domain.Product
	if err := db.Preload("Images").Order("created_at DESC").
		Offset((page - 1) * perPage).Limit(perPage).Find(&rows).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query products", err.Error())
	}

	return paged(c, rows, total, page, perPage)
}

func getShopProduct(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	var p domain.Product
	if err := GetDB(c).Preload("Images").
		Where("id = ? AND shop_id = ?", id, shopID(c)).First(&p).Error; err != nil {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Product not found", nil)
	}
	return ok(c, p)
}

// productFormFields reads the wizard's flat multipart fields. Numeric
// parsing failures fall back to zero values; required checks happen in the
// handler.
type productFormFields struct {
	Name               string
	CategoryID         int64
	Tags               string
	Description        string
	OriginalPrice      float64
	DiscountPrice      float64
	Stock              *int
	Sizes              string
	Colors             string
	Status             string
	TransportationType *string
}

func parseProductForm(c echo.Context) productFormFields {
	f := productFormFields{
		Name:        strings.TrimSpace(c.FormValue("name")),
		Tags:        strings.TrimSpace(c.FormValue("tags")),
		Description: c.FormValue("description"),
		Sizes:       strings.TrimSpace(c.FormValue("sizes")),
		Colors:      strings.TrimSpace(c.FormValue("colors")),
		Status:      strings.TrimSpace(c.FormValue("status")),
	}
	f.CategoryID, _ = strconv.ParseInt(c.FormValue("category_id"), 10, 64)
	f.OriginalPrice, _ = strconv.ParseFloat(c.FormValue("original_price"), 64)
	f.DiscountPrice, _ = strconv.ParseFloat(c.FormValue("discount_price"), 64)
	if v := c.FormValue("stock"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			f.Stock = &n
		}
	}
	if v := strings.TrimSpace(c.FormValue("transportation_type")); v != "" {
		f.TransportationType = &v
	}
	return f
}

// saveUploadedImages stores multipart "images" files under the workdir and
// returns their public URLs in form order.
func saveUploadedImages(c echo.Context, productID int64) ([]string, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, nil // plain form submit without files
	}
	files := form.File["images"]
	if len(files) == 0 {
		return nil, nil
	}

	dir := filepath.Join(GetAppContext(c).Config().System.Workdir, "uploads")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	urls := make([]string, 0, len(files))
	for i, fh := range files {
		src, err := fh.Open()
		if err != nil {
			return nil, err
		}
		name := fmt.Sprintf("%d-%d%s", productID, i, filepath.Ext(fh.Filename))
		dst, err := os.Create(filepath.Join(dir, name))
		if err != nil {
			src.Close()
			return nil, err
		}
		_, err = io.Copy(dst, src)
		src.Close()
		dst.Close()
		if err != nil {
			return nil, err
		}
		urls = append(urls, "/uploads/"+name)
	}
	return urls, nil
}

func createShopProduct(c echo.Context) error {
	fields := parseProductForm(c)
	if fields.Name == "" {
		return fail(c, http.StatusBadRequest, "MISSING_NAME", "Product name is required", nil)
	}
	if fields.CategoryID == 0 {
		return fail(c, http.StatusBadRequest, "MISSING_CATEGORY", "Category is required", nil)
	}
	if fields.DiscountPrice <= 0 {
		return fail(c, http.StatusBadRequest, "INVALID_PRICE", "Discount price must be > 0", nil)
	}

	now := time.Now()
	p := domain.Product{
		ID:                 common.UUIDint64(),
		ShopID:             shopID(c),
		CategoryID:         fields.CategoryID,
		Name:               fields.Name,
		Slug:               strings.ToLower(strings.ReplaceAll(fields.Name, " ", "-")),
		Description:        fields.Description,
		Tags:               fields.Tags,
		OriginalPrice:      fields.OriginalPrice,
		DiscountPrice:      fields.DiscountPrice,
		Stock:              fields.Stock,
		Sizes:              fields.Sizes,
		Colors:             fields.Colors,
		Status:             domain.ProductActive,
		TransportationType: fields.TransportationType,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := GetDB(c).Create(&p).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create product", err.Error())
	}

	urls, err := saveUploadedImages(c, p.ID)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "UPLOAD_FAILED", "Failed to store images", err.Error())
	}
	for i, url := range urls {
		GetDB(c).Create(&domain.ProductImage{
			ID:        common.UUIDint64(),
			ProductID: p.ID,
			URL:       url,
			Position:  i,
			CreatedAt: now,
		})
	}

	zap.L().Info("product created", zap.Int64("id", p.ID), zap.Int64("shop_id", p.ShopID))
	GetDB(c).Preload("Images").Where("id = ?", p.ID).First(&p)
	return ok(c, p)
}

// updateShopProduct is the wizard's final submit: the whole draft arrives
// as one multipart PUT and replaces the record's editable fields. New image
// files replace the existing set.
func updateShopProduct(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	var p domain.Product
	if err := GetDB(c).Where("id = ? AND shop_id = ?", id, shopID(c)).First(&p).Error; err != nil {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Product not found", nil)
	}

	fields := parseProductForm(c)
	if fields.Name == "" {
		return fail(c, http.StatusBadRequest, "MISSING_NAME", "Product name is required", nil)
	}

	updates := map[string]interface{}{
		"name":                fields.Name,
		"slug":                strings.ToLower(strings.ReplaceAll(fields.Name, " ", "-")),
		"description":         fields.Description,
		"tags":                fields.Tags,
		"original_price":      fields.OriginalPrice,
		"discount_price":      fields.DiscountPrice,
		"sizes":               fields.Sizes,
		"colors":              fields.Colors,
		"transportation_type": fields.TransportationType,
		"updated_at":          time.Now(),
	}
	if fields.CategoryID != 0 {
		updates["category_id"] = fields.CategoryID
	}
	if fields.Stock != nil {
		updates["stock"] = *fields.Stock
	}
	if fields.Status == domain.ProductActive || fields.Status == domain.ProductInactive {
		updates["status"] = fields.Status
	}

	if err := GetDB(c).Model(&p).Updates(updates).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update product", err.Error())
	}

	urls, err := saveUploadedImages(c, p.ID)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "UPLOAD_FAILED", "Failed to store images", err.Error())
	}
	if len(urls) > 0 {
		GetDB(c).Where("product_id = ?", p.ID).Delete(&domain.ProductImage{})
		now := time.Now()
		for i, url := range urls {
			GetDB(c).Create(&domain.ProductImage{
				ID:        common.UUIDint64(),
				ProductID: p.ID,
				URL:       url,
				Position:  i,
				CreatedAt: now,
			})
		}
	}

	zap.L().Info("product updated", zap.Int64("id", p.ID), zap.Int64("shop_id", p.ShopID))
	GetDB(c).Preload("Images").Where("id = ?", p.ID).First(&p)
	return ok(c, p)
}

func updateShopProductStock(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	var payload struct {
		Stock *int `json:"stock" validate:"required"`
	}
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse stock", nil)
	}
	if payload.Stock == nil || *payload.Stock < 0 {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Stock must be >= 0", nil)
	}

	var p domain.Product
	if err := GetDB(c).Where("id = ? AND shop_id = ?", id, shopID(c)).First(&p).Error; err != nil {
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

func deleteShopProduct(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	var p domain.Product
	if err := GetDB(c).Where("id = ? AND shop_id = ?", id, shopID(c)).First(&p).Error; err != nil {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Product not found", nil)
	}
	if err := GetDB(c).Where("product_id = ?", id).Delete(&domain.ProductImage{}).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to delete product images", err.Error())
	}
	if err := GetDB(c).Where("id = ?", id).Delete(&domain.Product{}).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to delete product", err.Error())
	}
	zap.L().Info("product deleted", zap.Int64("id", id), zap.Int64("shop_id", shopID(c)))
	return ok(c, map[string]interface{}{"id": id})
}
