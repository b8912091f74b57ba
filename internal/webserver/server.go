package webserver

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	jsoniter "github.com/json-iterator/go"
	"github.com/labstack/echo-contrib/session"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/multivend/marketd/internal/app"
	"github.com/multivend/marketd/internal/domain"

	"github.com/golang-jwt/jwt/v4"
	"github.com/gorilla/sessions"
)

// ContextKeyApp is the echo context key holding the application container.
const ContextKeyApp = "marketd_app"

type WebServer struct {
	root        *echo.Echo
	appCtx      app.AppContext
	pub         *echo.Group
	adminApi    *echo.Group
	shopApi     *echo.Group
	deliveryApi *echo.Group
}

var server *WebServer

// jsonSerializer adapts json-iterator to echo's serializer interface.
type jsonSerializer struct{}

func (jsonSerializer) Serialize(c echo.Context, i interface{}, indent string) error {
	enc := jsoniter.NewEncoder(c.Response())
	if indent != "" {
		enc.SetIndent("", indent)
	}
	return enc.Encode(i)
}

func (jsonSerializer) Deserialize(c echo.Context, i interface{}) error {
	return jsoniter.NewDecoder(c.Request().Body).Decode(i)
}

// CustomValidator wires go-playground/validator into echo binding.
type CustomValidator struct {
	validator *validator.Validate
}

func (cv *CustomValidator) Validate(i interface{}) error {
	if err := cv.validator.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

// Init builds the web server and its route groups. Call once at startup
// before any register* function.
func Init(appCtx app.AppContext) *WebServer {
	e := echo.New()
	e.HideBanner = true
	e.JSONSerializer = jsonSerializer{}
	e.Validator = &CustomValidator{validator: validator.New()}

	secret := appCtx.Config().Web.Secret

	e.Use(middleware.Recover())
	e.Use(session.Middleware(sessions.NewCookieStore([]byte(secret))))
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(ContextKeyApp, appCtx)
			return next(c)
		}
	})
	e.Use(zapLoggerMiddleware())

	jwtmw := echojwt.WithConfig(echojwt.Config{
		SigningKey: []byte(secret),
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return new(LoginClaims)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return Fail(c, http.StatusUnauthorized, "LOGIN_REQUIRED", "Login required", nil)
		},
	})

	s := &WebServer{
		root:        e,
		appCtx:      appCtx,
		pub:         e.Group("/api/v1"),
		adminApi:    e.Group("/api/v1/admin", jwtmw, requireAdmin, auditLog),
		shopApi:     e.Group("/api/v1/shop", jwtmw, requireShop),
		deliveryApi: e.Group("/api/v1/delivery", jwtmw, requireCourier),
	}
	server = s

	registerAuthRoutes()
	return s
}

// Start runs the HTTP listener; it blocks until the server stops.
func (s *WebServer) Start() error {
	cfg := s.appCtx.Config().Web
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	zap.L().Info("web server listening", zap.String("addr", addr))
	return s.root.Start(addr)
}

// Echo exposes the underlying engine (used by httptest in package tests).
func (s *WebServer) Echo() *echo.Echo {
	return s.root
}

func zapLoggerMiddleware() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:    true,
		LogStatus: true,
		LogMethod: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			if v.Status >= http.StatusInternalServerError {
				zap.L().Error("request",
					zap.String("method", v.Method),
					zap.String("uri", v.URI),
					zap.Int("status", v.Status))
			} else {
				zap.L().Debug("request",
					zap.String("method", v.Method),
					zap.String("uri", v.URI),
					zap.Int("status", v.Status))
			}
			return nil
		},
	})
}

// auditLog records non-read admin mutations into sys_opr_log.
func auditLog(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		err := next(c)
		if c.Request().Method == http.MethodGet {
			return err
		}
		appCtx := GetAppContext(c)
		claims := GetLoginClaims(c)
		name := ""
		if claims != nil {
			name = claims.Name
		}
		appCtx.DB().Create(&domain.SysOprLog{
			OprName:   name,
			OprIp:     c.RealIP(),
			OptAction: c.Request().Method,
			OptDesc:   c.Request().RequestURI,
			OptTime:   time.Now(),
		})
		return err
	}
}

// GetAppContext returns the application container from the echo context.
func GetAppContext(c echo.Context) app.AppContext {
	return c.Get(ContextKeyApp).(app.AppContext)
}

// Public route helpers (no auth)

func PubGET(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) {
	server.pub.GET(path, h, m...)
}

func PubPOST(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) {
	server.pub.POST(path, h, m...)
}

// Admin console route helpers

func ApiGET(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) {
	server.adminApi.GET(path, h, m...)
}

func ApiPOST(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) {
	server.adminApi.POST(path, h, m...)
}

func ApiPUT(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) {
	server.adminApi.PUT(path, h, m...)
}

func ApiDELETE(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) {
	server.adminApi.DELETE(path, h, m...)
}

// Seller dashboard route helpers

func ShopApiGET(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) {
	server.shopApi.GET(path, h, m...)
}

func ShopApiPOST(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) {
	server.shopApi.POST(path, h, m...)
}

func ShopApiPUT(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) {
	server.shopApi.PUT(path, h, m...)
}

func ShopApiDELETE(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) {
	server.shopApi.DELETE(path, h, m...)
}

// Courier dashboard route helpers

func DeliveryApiGET(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) {
	server.deliveryApi.GET(path, h, m...)
}

func DeliveryApiPOST(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) {
	server.deliveryApi.POST(path, h, m...)
}

func DeliveryApiPUT(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) {
	server.deliveryApi.PUT(path, h, m...)
}

func DeliveryApiDELETE(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) {
	server.deliveryApi.DELETE(path, h, m...)
}
