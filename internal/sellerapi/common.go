package sellerapi

import (
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/multivend/marketd/internal/app"
	"github.com/multivend/marketd/internal/webserver"
)

// Init registers every seller dashboard route. Call after webserver.Init.
func Init() {
	registerShopProductRoutes()
	registerShopEventRoutes()
	registerShopCouponRoutes()
	registerShopOrderRoutes()
	registerShopProfileRoutes()
}

func parsePagination(c echo.Context) (page, perPage int) {
	return webserver.ParsePagination(c)
}

func parseIDParam(c echo.Context, name string) (int64, error) {
	return webserver.ParseIDParam(c, name)
}

func ok(c echo.Context, data interface{}) error {
	return webserver.OK(c, data)
}

func fail(c echo.Context, status int, code, message string, details interface{}) error {
	return webserver.Fail(c, status, code, message, details)
}

func paged(c echo.Context, items interface{}, total int64, page, perPage int) error {
	return webserver.Paged(c, items, total, page, perPage)
}

// GetDB returns the request-scoped database handle.
func GetDB(c echo.Context) *gorm.DB {
	return webserver.GetAppContext(c).DB()
}

// GetAppContext returns the application container.
func GetAppContext(c echo.Context) app.AppContext {
	return webserver.GetAppContext(c)
}

// shopID returns the authenticated shop's ID; every query in this package
// is constrained to it.
func shopID(c echo.Context) int64 {
	claims := webserver.GetLoginClaims(c)
	if claims == nil {
		return 0
	}
	return claims.UID
}
