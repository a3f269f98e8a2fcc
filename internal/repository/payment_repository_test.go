package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/obsicat/obsicat-api/internal/model"
)

const purchaseTTL = 7 * 24 * time.Hour

func TestPaymentLifecycle(t *testing.T) {
	s := NewMemoryPaymentStore(purchaseTTL)
	ctx := context.Background()

	p, err := s.CreateOrder(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, model.PaymentPending, p.Status)
	assert.Empty(t, p.UserToken)

	paid, err := s.MarkPaid(ctx, p.OrderID)
	require.NoError(t, err)
	assert.Equal(t, model.PaymentPaid, paid.Status)
	assert.NotEmpty(t, paid.UserToken)

	// The transition is one-way; a second success call must be rejected.
	_, err = s.MarkPaid(ctx, p.OrderID)
	assert.ErrorIs(t, err, ErrOrderNotPending)
}

func TestMarkPaidUnknownOrder(t *testing.T) {
	s := NewMemoryPaymentStore(purchaseTTL)
	_, err := s.MarkPaid(context.Background(), "no-such-order")
	assert.ErrorIs(t, err, ErrOrderNotPending)
}

func TestValidateTokenWindow(t *testing.T) {
	s := NewMemoryPaymentStore(purchaseTTL)
	ctx := context.Background()

	now := time.Now().UTC()
	s.SetClock(func() time.Time { return now })

	p, err := s.CreateOrder(ctx, "")
	require.NoError(t, err)
	paid, err := s.MarkPaid(ctx, p.OrderID)
	require.NoError(t, err)

	// Valid immediately after issuance and right up to the window edge.
	assert.NoError(t, s.ValidateToken(ctx, paid.UserToken))
	now = now.Add(purchaseTTL)
	assert.NoError(t, s.ValidateToken(ctx, paid.UserToken))

	// One second past the window the token is expired, not unknown.
	now = now.Add(time.Second)
	assert.ErrorIs(t, s.ValidateToken(ctx, paid.UserToken), ErrTokenExpired)
}

func TestValidateTokenNotFound(t *testing.T) {
	s := NewMemoryPaymentStore(purchaseTTL)
	ctx := context.Background()
	assert.ErrorIs(t, s.ValidateToken(ctx, "bogus"), ErrTokenNotFound)
	assert.ErrorIs(t, s.ValidateToken(ctx, ""), ErrTokenNotFound)

	// A pending order has no token yet; the empty match must not validate.
	_, err := s.CreateOrder(ctx, "")
	require.NoError(t, err)
	assert.ErrorIs(t, s.ValidateToken(ctx, ""), ErrTokenNotFound)
}
