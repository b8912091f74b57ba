// Package deliveryapi is the courier-facing API surface. Every query is
// scoped by the courier ID carried in the JWT claims.
package deliveryapi

import (
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/multivend/marketd/internal/app"
	"github.com/multivend/marketd/internal/webserver"
)

// Init registers the delivery API routes; call after webserver.Init.
func Init() {
	registerOfferRoutes()
	registerAreaRoutes()
	registerCourierProfileRoutes()
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

// GetDB fetch gorm db client
func GetDB(c echo.Context) *gorm.DB {
	return webserver.GetAppContext(c).DB()
}

// GetAppContext fetch app context
func GetAppContext(c echo.Context) app.AppContext {
	return webserver.GetAppContext(c)
}

// courierID returns the authenticated courier's ID from the JWT claims.
func courierID(c echo.Context) int64 {
	return webserver.GetLoginClaims(c).UID
}
