package model

import "time"

// Payment statuses. The only legal transition is pending -> paid; it happens
// exactly once per order.
const (
	PaymentPending = "pending"
	PaymentPaid    = "paid"
	PaymentFailed  = "failed"
)

// Payment tracks a simulated payment order. UserToken is the opaque purchase
// token minted when the order is paid; it is empty while the order is
// pending. CreatedTime is reset at the moment of payment and anchors the
// token's validity window.
type Payment struct {
	OrderID     string    `json:"order_id"`
	UserID      string    `json:"user_id,omitempty"`
	Status      string    `json:"status"`
	CreatedTime time.Time `json:"created_time"`
	UserToken   string    `json:"user_token,omitempty"`
	Amount      float64   `json:"amount"`
}
