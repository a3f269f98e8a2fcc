package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/obsicat/obsicat-api/internal/config"
	"github.com/obsicat/obsicat-api/internal/repository"
)

// PayHandler serves the legacy simulated-payment surface. Purchase tokens
// minted here form a credential system of their own, deliberately separate
// from the JWT stack: stateful, random, expiring by stored timestamp.
type PayHandler struct {
	Cfg      config.Config
	Payments repository.PaymentStore
}

func NewPayHandler(cfg config.Config, payments repository.PaymentStore) *PayHandler {
	return &PayHandler{Cfg: cfg, Payments: payments}
}

type paySuccessReq struct {
	OrderID string `json:"order_id"`
}

type validateTokenReq struct {
	UserToken string `json:"user_token"`
}

// CreateOrder opens a new pending order and hands back the payment QR code
// location. The historical route rendered an HTML page; the contract is the
// order id.
func (h *PayHandler) CreateOrder(c echo.Context) error {
	p, err := h.Payments.CreateOrder(c.Request().Context(), "")
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create order failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"order_id":    p.OrderID,
		"qr_code_url": h.Cfg.QRCodeURL,
	})
}

// PaySuccess transitions the order to paid and returns the purchase token.
// Only a pending order may transition; a repeated success call is rejected.
func (h *PayHandler) PaySuccess(c echo.Context) error {
	var req paySuccessReq
	if err := c.Bind(&req); err != nil || req.OrderID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "order_id required"})
	}

	p, err := h.Payments.MarkPaid(c.Request().Context(), req.OrderID)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotPending) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "订单无效或已支付"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "payment failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message":    "支付成功！",
		"user_token": p.UserToken,
	})
}

// ValidateToken checks a purchase token. Expired and unknown tokens are
// distinct failure reasons; both reject with 403.
func (h *PayHandler) ValidateToken(c echo.Context) error {
	var req validateTokenReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	err := h.Payments.ValidateToken(c.Request().Context(), req.UserToken)
	switch {
	case errors.Is(err, repository.ErrTokenExpired):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "Token 已过期，请重新购买。"})
	case err != nil:
		return c.JSON(http.StatusForbidden, echo.Map{"error": "Token 无效，请检查或重新购买。"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Token 有效"})
}
