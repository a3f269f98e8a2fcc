// Package middleware provides the request authorization strategies and rate
// limiting applied in front of handlers.
//
// Two independent credential systems coexist: signed JWTs for the API
// surface and opaque purchase tokens for the legacy pay/chat routes. Each is
// an Authorizer; the router decides per route which one guards it. The
// scheme is never auto-detected from the token shape.
package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/obsicat/obsicat-api/internal/repository"
	"github.com/obsicat/obsicat-api/internal/utils"
)

// Context keys populated by JWTAuthorizer for downstream handlers.
const (
	CtxUserID = "user_id"
	CtxRole   = "role"
	CtxEmail  = "email"
)

// Authorizer is one named authorization strategy. Middleware returns the
// Echo middleware enforcing it.
type Authorizer interface {
	Middleware() echo.MiddlewareFunc
}

// JWTAuthorizer validates Bearer access tokens and injects the subject,
// role and email claims into the request context.
type JWTAuthorizer struct {
	Secret string
}

func (a JWTAuthorizer) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}
			raw := strings.TrimPrefix(auth, "Bearer ")

			claims, err := utils.VerifyToken(a.Secret, raw, utils.TokenTypeAccess)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}
			c.Set(CtxUserID, claims.UserID)
			c.Set(CtxRole, claims.Role)
			c.Set(CtxEmail, claims.Email)
			return next(c)
		}
	}
}

// RefreshTokenClaims extracts and validates a Bearer refresh token from the
// request. Used by the refresh endpoint, which is the only place a refresh
// token is ever accepted.
func RefreshTokenClaims(secret string, c echo.Context) (utils.Claims, error) {
	auth := c.Request().Header.Get("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") {
		return utils.Claims{}, utils.ErrInvalidToken
	}
	return utils.VerifyToken(secret, strings.TrimPrefix(auth, "Bearer "), utils.TokenTypeRefresh)
}

// PurchaseAuthorizer validates the legacy opaque purchase token carried in
// the request body's user_token field. Expired and unknown tokens are
// rejected with distinct messages, both as 403.
type PurchaseAuthorizer struct {
	Payments repository.PaymentStore
}

func (a PurchaseAuthorizer) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			var body struct {
				UserToken string `json:"user_token"`
			}
			// Bind consumes the body; keep a copy for the handler.
			if err := bindAndRestore(c, &body); err != nil {
				return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
			}
			err := a.Payments.ValidateToken(c.Request().Context(), body.UserToken)
			switch {
			case errors.Is(err, repository.ErrTokenExpired):
				return c.JSON(http.StatusForbidden, echo.Map{"error": "Token 已过期，请重新购买。"})
			case err != nil:
				return c.JSON(http.StatusForbidden, echo.Map{"error": "Token 无效，请检查或重新购买。"})
			}
			return next(c)
		}
	}
}
