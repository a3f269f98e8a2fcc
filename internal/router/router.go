// Package router wires handlers to routes and assigns each protected route
// its authorization strategy. The JWT and purchase-token schemes are both
// registered here by configuration; no route ever guesses the scheme from
// the shape of the credential it receives.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/obsicat/obsicat-api/internal/handler"
	"github.com/obsicat/obsicat-api/internal/middleware"
	"github.com/obsicat/obsicat-api/internal/model"
)

// Handlers collects everything the router needs.
type Handlers struct {
	Auth   *handler.AuthHandler
	Admin  *handler.AdminHandler
	Pay    *handler.PayHandler
	Chat   *handler.ChatHandler
	Upload *handler.UploadHandler
}

// Register attaches all routes to the Echo instance. jwtAuth guards the API
// surface, purchaseAuth guards the legacy pay-token routes.
func Register(e *echo.Echo, h Handlers, jwtAuth, purchaseAuth middleware.Authorizer) {
	e.GET("/health", handler.Health)

	// Auth surface: register/login/refresh live outside any guard; refresh
	// carries its credential itself and validates it in the handler.
	auth := e.Group("/auth")
	auth.POST("/register", h.Auth.Register)
	auth.POST("/login", h.Auth.Login)
	auth.POST("/refresh", h.Auth.Refresh)
	auth.GET("/me", h.Auth.Me, jwtAuth.Middleware())

	// Admin surface: access token plus the admin role.
	admin := e.Group("/admin", jwtAuth.Middleware(), middleware.RequireRole(model.RoleAdmin))
	admin.GET("/stats", h.Admin.Stats)
	admin.GET("/users", h.Admin.ListUsers)
	admin.PUT("/users/:id", h.Admin.UpdateUser)
	admin.DELETE("/users/:id", h.Admin.DeleteUser)

	// Legacy purchase surface. Order creation and payment are open; the
	// validation endpoint reports token state rather than guarding anything.
	e.GET("/pay", h.Pay.CreateOrder)
	e.POST("/pay/success", h.Pay.PaySuccess)
	e.POST("/validate_token", h.Pay.ValidateToken)

	// Legacy chat gates on the purchase token carried in the body.
	e.POST("/chat", h.Chat.LegacyChat, purchaseAuth.Middleware())

	// JWT-gated API surface.
	api := e.Group("/api/v1", jwtAuth.Middleware())
	api.POST("/chat", h.Chat.Chat)
	api.POST("/upload", h.Upload.Upload)
	api.GET("/upload/:id", h.Upload.Status)
}
