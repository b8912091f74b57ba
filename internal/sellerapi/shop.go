package sellerapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cast"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/multivend/marketd/internal/domain"
	"github.com/multivend/marketd/internal/webserver"
	"github.com/multivend/marketd/pkg/common"
)

func registerShopProfileRoutes() {
	webserver.ShopApiGET("/profile", getShopProfile)
	webserver.ShopApiPUT("/profile", updateShopProfile)
	webserver.ShopApiPUT("/template", switchShopTemplate)
	webserver.ShopApiPOST("/plan", purchaseShopPlan)
	webserver.ShopApiGET("/withdraws", listShopWithdraws)
	webserver.ShopApiPOST("/withdraws", requestShopWithdraw)
}

func getShopProfile(c echo.Context) error {
	var shop domain.Shop
	if err := GetDB(c).Where("id = ?", shopID(c)).First(&shop).Error; err != nil {
		return fail(c, http.StatusNotFound, "SELLER_NOT_FOUND", "Shop not found", nil)
	}
	return ok(c, shop)
}

type shopProfilePayload struct {
	Name        string `json:"name" validate:"required"`
	Phone       string `json:"phone"`
	Address     string `json:"address"`
	ZipCode     string `json:"zip_code"`
	Description string `json:"description"`
}

func updateShopProfile(c echo.Context) error {
	var payload shopProfilePayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse profile", nil)
	}
	if err := c.Validate(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Profile validation failed", err.Error())
	}

	var shop domain.Shop
	if err := GetDB(c).Where("id = ?", shopID(c)).First(&shop).Error; err != nil {
		return fail(c, http.StatusNotFound, "SELLER_NOT_FOUND", "Shop not found", nil)
	}
	if err := GetDB(c).Model(&shop).Updates(map[string]interface{}{
		"name":        payload.Name,
		"phone":       payload.Phone,
		"address":     payload.Address,
		"zip_code":    payload.ZipCode,
		"description": payload.Description,
		"updated_at":  time.Now(),
	}).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update profile", err.Error())
	}
	GetDB(c).Where("id = ?", shop.ID).First(&shop)
	return ok(c, shop)
}

// switchShopTemplate changes the storefront layout. Paid templates require
// an unexpired plan; downgrading to basic is always allowed.
func switchShopTemplate(c echo.Context) error {
	var payload struct {
		Template string `json:"template" validate:"required,oneof=basic growthplan proplan"`
	}
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse template", nil)
	}
	if err := c.Validate(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unknown template", err.Error())
	}

	var shop domain.Shop
	if err := GetDB(c).Where("id = ?", shopID(c)).First(&shop).Error; err != nil {
		return fail(c, http.StatusNotFound, "SELLER_NOT_FOUND", "Shop not found", nil)
	}

	if payload.Template != domain.TemplateBasic {
		if shop.PlanExpireAt == nil || shop.PlanExpireAt.Before(time.Now()) {
			return fail(c, http.StatusForbidden, "PLAN_EXPIRED", "An active plan is required for this template", nil)
		}
	}

	if err := GetDB(c).Model(&shop).Updates(map[string]interface{}{
		"template":   payload.Template,
		"updated_at": time.Now(),
	}).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to switch template", err.Error())
	}
	GetDB(c).Where("id = ?", shop.ID).First(&shop)
	return ok(c, shop)
}

// purchaseShopPlan pays for a paid template from the shop's available
// balance and extends the plan window.
func purchaseShopPlan(c echo.Context) error {
	var payload struct {
		Template string `json:"template" validate:"required,oneof=growthplan proplan"`
		Months   int    `json:"months" validate:"required,gte=1,lte=12"`
	}
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse plan request", nil)
	}
	if err := c.Validate(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Plan validation failed", err.Error())
	}

	appCtx := GetAppContext(c)
	priceKey := "GrowthPlanPriceMonthly"
	if payload.Template == domain.TemplateProPlan {
		priceKey = "ProPlanPriceMonthly"
	}
	monthly := cast.ToFloat64(appCtx.GetSettingsStringValue("shop", priceKey))
	if monthly <= 0 {
		monthly = 29
	}
	cost := monthly * float64(payload.Months)

	var shop domain.Shop
	if err := GetDB(c).Where("id = ?", shopID(c)).First(&shop).Error; err != nil {
		return fail(c, http.StatusNotFound, "SELLER_NOT_FOUND", "Shop not found", nil)
	}
	if shop.AvailableBalance < cost {
		return fail(c, http.StatusBadRequest, "INSUFFICIENT_BALANCE", "Available balance does not cover the plan", nil)
	}

	// extend from the later of now and the current expiry
	base := time.Now()
	if shop.PlanExpireAt != nil && shop.PlanExpireAt.After(base) {
		base = *shop.PlanExpireAt
	}
	expire := base.AddDate(0, payload.Months, 0)

	if err := GetDB(c).Model(&shop).Updates(map[string]interface{}{
		"available_balance": gorm.Expr("available_balance - ?", cost),
		"template":          payload.Template,
		"plan_expire_at":    &expire,
		"updated_at":        time.Now(),
	}).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to purchase plan", err.Error())
	}

	zap.L().Info("plan purchased", zap.Int64("shop_id", shop.ID),
		zap.String("template", payload.Template), zap.Float64("cost", cost))
	GetDB(c).Where("id = ?", shop.ID).First(&shop)
	return ok(c, shop)
}

func listShopWithdraws(c echo.Context) error {
	page, perPage := parsePagination(c)

	db := GetDB(c).Model(&domain.Withdraw{}).Where("shop_id = ?", shopID(c))
	if status := strings.TrimSpace(c.QueryParam("status")); status != "" {
		db = db.Where("status = ?", status)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query withdraws", err.Error())
	}

	var rows []domain.Withdraw
	if err := db.Order("created_at DESC").
		Offset((page - 1) * perPage).Limit(perPage).Find(&rows).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query withdraws", err.Error())
	}

	return paged(c, rows, total, page, perPage)
}

// requestShopWithdraw reserves the amount out of the available balance and
// opens a processing withdraw for the back office.
func requestShopWithdraw(c echo.Context) error {
	var payload struct {
		Amount float64 `json:"amount" validate:"required,gt=0"`
		Remark string  `json:"remark"`
	}
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse withdraw request", nil)
	}
	if err := c.Validate(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Withdraw validation failed", err.Error())
	}

	var shop domain.Shop
	if err := GetDB(c).Where("id = ?", shopID(c)).First(&shop).Error; err != nil {
		return fail(c, http.StatusNotFound, "SELLER_NOT_FOUND", "Shop not found", nil)
	}
	if shop.AvailableBalance < payload.Amount {
		return fail(c, http.StatusBadRequest, "INSUFFICIENT_BALANCE", "Withdraw exceeds available balance", nil)
	}

	now := time.Now()
	withdraw := domain.Withdraw{
		ID:        common.UUIDint64(),
		ShopID:    shop.ID,
		Amount:    payload.Amount,
		Status:    "processing",
		Remark:    payload.Remark,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := GetDB(c).Create(&withdraw).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create withdraw", err.Error())
	}
	GetDB(c).Model(&domain.Shop{}).Where("id = ?", shop.ID).
		Update("available_balance", gorm.Expr("available_balance - ?", payload.Amount))

	zap.L().Info("withdraw requested",
		zap.Int64("shop_id", shop.ID), zap.Float64("amount", payload.Amount))
	return ok(c, withdraw)
}
