package adminapi

import (
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/multivend/marketd/internal/app"
	"github.com/multivend/marketd/internal/webserver"
)

// Init registers every admin console route. Call after webserver.Init.
func Init() {
	registerProductRoutes()
	registerEventRoutes()
	registerCouponRoutes()
	registerSellerRoutes()
	registerUserRoutes()
	registerCourierRoutes()
	registerOrderRoutes()
	registerSchedulerRoutes()
	registerSettingsRoutes()
	registerCategoryRoutes()
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
