package middleware // middleware provides shared request processing for handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/obsicat/obsicat-api/internal/model"
)

// RequireRole returns a middleware that enforces a minimum role on the
// authenticated user. Roles form a total order (free < premium < admin) and
// the claim must rank at least as high as required. A missing, malformed or
// unrecognized role claim ranks as free, so unknown roles fail closed. It
// assumes JWTAuthorizer already stored the role claim in the context.
func RequireRole(required string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get(CtxRole).(string)
			if !model.RoleAtLeast(role, required) {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "insufficient permissions"})
			}
			return next(c)
		}
	}
}
