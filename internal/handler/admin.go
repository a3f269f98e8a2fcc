package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/obsicat/obsicat-api/internal/model"
	"github.com/obsicat/obsicat-api/internal/repository"
)

// AdminHandler serves the admin-only user management and stats endpoints.
// Role enforcement happens in middleware; handlers assume an admin caller.
type AdminHandler struct {
	Users    repository.UserStore
	Payments repository.PaymentStore
	Uploads  repository.UploadStore
}

func NewAdminHandler(users repository.UserStore, payments repository.PaymentStore, uploads repository.UploadStore) *AdminHandler {
	return &AdminHandler{Users: users, Payments: payments, Uploads: uploads}
}

type userUpdateReq struct {
	Role     *string `json:"role"`
	IsActive *bool   `json:"is_active"`
}

// Stats returns system-wide counters.
func (h *AdminHandler) Stats(c echo.Context) error {
	ctx := c.Request().Context()
	users, err := h.Users.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	active := 0
	for _, u := range users {
		if u.IsActive {
			active++
		}
	}
	payments, err := h.Payments.Count(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	uploads, err := h.Uploads.Count(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"total_users":    len(users),
		"total_payments": payments,
		"total_uploads":  uploads,
		"active_users":   active,
	})
}

// ListUsers returns every user record.
func (h *AdminHandler) ListUsers(c echo.Context) error {
	users, err := h.Users.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, users)
}

// UpdateUser mutates role and/or active flag. These are the only fields the
// admin path may touch.
func (h *AdminHandler) UpdateUser(c echo.Context) error {
	var req userUpdateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Role != nil && !model.ValidRole(*req.Role) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "role must be one of free, premium, admin"})
	}

	u, err := h.Users.Update(c.Request().Context(), c.Param("id"),
		repository.UserPatch{Role: req.Role, IsActive: req.IsActive})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, u)
}

// DeleteUser removes a user for good. Tokens already issued to the user die
// on their next store lookup.
func (h *AdminHandler) DeleteUser(c echo.Context) error {
	if err := h.Users.Delete(c.Request().Context(), c.Param("id")); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
