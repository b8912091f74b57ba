package webserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/multivend/marketd/internal/domain"
	"github.com/multivend/marketd/pkg/common"
)

// Account roles carried in JWT claims.
const (
	ClaimRoleAdmin   = "admin"
	ClaimRoleUser    = "user"
	ClaimRoleSeller  = "seller"
	ClaimRoleCourier = "courier"
)

const tokenTTL = 24 * time.Hour

// LoginClaims is the JWT payload for every account kind. UID points at the
// sys_user, shop or courier row depending on Role.
type LoginClaims struct {
	UID  int64  `json:"uid,string"`
	Name string `json:"name"`
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// GetLoginClaims returns the verified claims, or nil outside the JWT groups.
func GetLoginClaims(c echo.Context) *LoginClaims {
	token, ok := c.Get("user").(*jwt.Token)
	if !ok {
		return nil
	}
	claims, ok := token.Claims.(*LoginClaims)
	if !ok {
		return nil
	}
	return claims
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Token string `json:"token"`
	Role  string `json:"role"`
	ID    int64  `json:"id,string"`
	Name  string `json:"name"`
}

func registerAuthRoutes() {
	PubPOST("/auth/login", userLogin)
	PubPOST("/auth/shop-login", shopLogin)
	PubPOST("/auth/courier-login", courierLogin)
	PubPOST("/auth/logout", logout)
}

func issueToken(c echo.Context, uid int64, name, role string) (string, error) {
	secret := GetAppContext(c).Config().Web.Secret
	claims := &LoginClaims{
		UID:  uid,
		Name: name,
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// rememberSession stores the identity in the cookie session so credentialed
// browser requests survive page reloads.
func rememberSession(c echo.Context, uid int64, role string) {
	sess, err := session.Get("marketd_session", c)
	if err != nil {
		return
	}
	sess.Options.HttpOnly = true
	sess.Options.MaxAge = int(tokenTTL / time.Second)
	sess.Values["uid"] = uid
	sess.Values["role"] = role
	_ = sess.Save(c.Request(), c.Response())
}

func userLogin(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return Fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse login request", nil)
	}
	if err := c.Validate(&req); err != nil {
		return Fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Email and password are required", nil)
	}

	var user domain.SysUser
	if err := GetAppContext(c).DB().Where("email = ?", strings.ToLower(req.Email)).First(&user).Error; err != nil {
		return Fail(c, http.StatusUnauthorized, "BAD_CREDENTIALS", "Invalid email or password", nil)
	}
	if !common.CheckPassword(user.Password, req.Password) {
		return Fail(c, http.StatusUnauthorized, "BAD_CREDENTIALS", "Invalid email or password", nil)
	}
	if !strings.EqualFold(user.Status, common.ENABLED) {
		return Fail(c, http.StatusForbidden, "ACCOUNT_DISABLED", "Account is disabled", nil)
	}

	role := ClaimRoleUser
	if strings.EqualFold(user.Role, domain.RoleAdmin) {
		role = ClaimRoleAdmin
	}

	token, err := issueToken(c, user.ID, user.Name, role)
	if err != nil {
		return Fail(c, http.StatusInternalServerError, "TOKEN_ERROR", "Failed to issue token", nil)
	}

	GetAppContext(c).DB().Model(&domain.SysUser{}).Where("id = ?", user.ID).
		Update("last_login", time.Now())
	rememberSession(c, user.ID, role)
	zap.L().Info("user login", zap.Int64("uid", user.ID), zap.String("role", role))
	return OK(c, loginResponse{Token: token, Role: role, ID: user.ID, Name: user.Name})
}

func shopLogin(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return Fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse login request", nil)
	}
	if err := c.Validate(&req); err != nil {
		return Fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Email and password are required", nil)
	}

	var shop domain.Shop
	if err := GetAppContext(c).DB().Where("email = ?", strings.ToLower(req.Email)).First(&shop).Error; err != nil {
		return Fail(c, http.StatusUnauthorized, "BAD_CREDENTIALS", "Invalid email or password", nil)
	}
	if !common.CheckPassword(shop.Password, req.Password) {
		return Fail(c, http.StatusUnauthorized, "BAD_CREDENTIALS", "Invalid email or password", nil)
	}

	// unapproved shops may log in; the shop API guard keeps them on the
	// approval-pending surface
	token, err := issueToken(c, shop.ID, shop.Name, ClaimRoleSeller)
	if err != nil {
		return Fail(c, http.StatusInternalServerError, "TOKEN_ERROR", "Failed to issue token", nil)
	}
	rememberSession(c, shop.ID, ClaimRoleSeller)
	zap.L().Info("shop login", zap.Int64("shop_id", shop.ID))
	return OK(c, loginResponse{Token: token, Role: ClaimRoleSeller, ID: shop.ID, Name: shop.Name})
}

func courierLogin(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return Fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse login request", nil)
	}
	if err := c.Validate(&req); err != nil {
		return Fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Email and password are required", nil)
	}

	var courier domain.Courier
	if err := GetAppContext(c).DB().Where("email = ?", strings.ToLower(req.Email)).First(&courier).Error; err != nil {
		return Fail(c, http.StatusUnauthorized, "BAD_CREDENTIALS", "Invalid email or password", nil)
	}
	if !common.CheckPassword(courier.Password, req.Password) {
		return Fail(c, http.StatusUnauthorized, "BAD_CREDENTIALS", "Invalid email or password", nil)
	}

	token, err := issueToken(c, courier.ID, courier.FullName, ClaimRoleCourier)
	if err != nil {
		return Fail(c, http.StatusInternalServerError, "TOKEN_ERROR", "Failed to issue token", nil)
	}
	rememberSession(c, courier.ID, ClaimRoleCourier)
	zap.L().Info("courier login", zap.Int64("courier_id", courier.ID))
	return OK(c, loginResponse{Token: token, Role: ClaimRoleCourier, ID: courier.ID, Name: courier.FullName})
}

func logout(c echo.Context) error {
	sess, err := session.Get("marketd_session", c)
	if err == nil {
		sess.Options.MaxAge = -1
		_ = sess.Save(c.Request(), c.Response())
	}
	return OK(c, map[string]interface{}{"logout": true})
}

// requireAdmin admits only admin-role tokens.
func requireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims := GetLoginClaims(c)
		if claims == nil {
			return Fail(c, http.StatusUnauthorized, "LOGIN_REQUIRED", "Login required", nil)
		}
		if claims.Role != ClaimRoleAdmin {
			return Fail(c, http.StatusForbidden, "FORBIDDEN", "Admin access required", nil)
		}
		return next(c)
	}
}

// requireShop admits approved seller tokens; unapproved shops get the
// distinct pending code so the client can route to the waiting page.
func requireShop(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims := GetLoginClaims(c)
		if claims == nil {
			return Fail(c, http.StatusUnauthorized, "LOGIN_REQUIRED", "Login required", nil)
		}
		if claims.Role != ClaimRoleSeller {
			return Fail(c, http.StatusForbidden, "FORBIDDEN", "Seller access required", nil)
		}
		var shop domain.Shop
		if err := GetAppContext(c).DB().First(&shop, claims.UID).Error; err != nil {
			return Fail(c, http.StatusUnauthorized, "LOGIN_REQUIRED", "Login required", nil)
		}
		if !shop.IsActive {
			return Fail(c, http.StatusForbidden, "ACCOUNT_PENDING", "Shop is awaiting approval", nil)
		}
		return next(c)
	}
}

// requireCourier admits approved courier tokens.
func requireCourier(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims := GetLoginClaims(c)
		if claims == nil {
			return Fail(c, http.StatusUnauthorized, "LOGIN_REQUIRED", "Login required", nil)
		}
		if claims.Role != ClaimRoleCourier {
			return Fail(c, http.StatusForbidden, "FORBIDDEN", "Courier access required", nil)
		}
		var courier domain.Courier
		if err := GetAppContext(c).DB().First(&courier, claims.UID).Error; err != nil {
			return Fail(c, http.StatusUnauthorized, "LOGIN_REQUIRED", "Login required", nil)
		}
		if !courier.IsActive {
			return Fail(c, http.StatusForbidden, "ACCOUNT_PENDING", "Courier is awaiting approval", nil)
		}
		return next(c)
	}
}
