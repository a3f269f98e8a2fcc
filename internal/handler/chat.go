package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/obsicat/obsicat-api/internal/middleware"
	"github.com/obsicat/obsicat-api/internal/repository"
)

// ChatHandler serves both chat surfaces: the legacy purchase-token route and
// the JWT-gated API route. The reply itself is an echo stub; the value of
// these endpoints is exercising the two authorization strategies.
type ChatHandler struct {
	Users repository.UserStore
}

func NewChatHandler(users repository.UserStore) *ChatHandler {
	return &ChatHandler{Users: users}
}

type legacyChatReq struct {
	UserToken string `json:"user_token"`
	Message   string `json:"message"`
}

type chatReq struct {
	Message   string `json:"message"`
	ContextID string `json:"context_id"`
}

// LegacyChat answers on the purchase-token route. The token was already
// validated by PurchaseAuthorizer.
func (h *ChatHandler) LegacyChat(c echo.Context) error {
	var req legacyChatReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"reply": fmt.Sprintf("你好，欢迎来到 Obsi喵！你说的是：%s", req.Message),
	})
}

// Chat answers on the JWT route, greeting the caller by the email on file.
func (h *ChatHandler) Chat(c echo.Context) error {
	var req chatReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Message == "" || len(req.Message) > 5000 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "message must be 1-5000 characters"})
	}

	uid, _ := c.Get(middleware.CtxUserID).(string)
	u, err := h.Users.GetByID(c.Request().Context(), uid)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load user failed"})
	}

	contextID := req.ContextID
	if contextID == "" {
		contextID = "new-context"
	}
	return c.JSON(http.StatusOK, echo.Map{
		"reply":      fmt.Sprintf("你好 %s，欢迎来到 Obsi喵！你说的是：%s", u.Email, req.Message),
		"context_id": contextID,
	})
}
