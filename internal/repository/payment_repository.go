package repository

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/obsicat/obsicat-api/internal/model"
	"github.com/obsicat/obsicat-api/internal/utils"
)

// PaymentStore tracks orders and the purchase tokens minted when they are
// paid. MarkPaid must be a compare-and-swap on the order status: the
// pending->paid transition fires at most once per order, even under
// concurrent success calls.
type PaymentStore interface {
	CreateOrder(ctx context.Context, userID string) (model.Payment, error)
	MarkPaid(ctx context.Context, orderID string) (model.Payment, error)
	ValidateToken(ctx context.Context, token string) error
	Count(ctx context.Context) (int, error)
}

// MemoryPaymentStore keeps orders in process memory behind a mutex. The
// clock is injectable so expiry behaviour is testable without sleeping.
type MemoryPaymentStore struct {
	mu     sync.Mutex
	orders map[string]model.Payment
	ttl    time.Duration
	now    func() time.Time
}

func NewMemoryPaymentStore(ttl time.Duration) *MemoryPaymentStore {
	return &MemoryPaymentStore{
		orders: make(map[string]model.Payment),
		ttl:    ttl,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// SetClock overrides the time source. Intended for tests.
func (s *MemoryPaymentStore) SetClock(now func() time.Time) { s.now = now }

// CreateOrder registers a new pending order.
func (s *MemoryPaymentStore) CreateOrder(ctx context.Context, userID string) (model.Payment, error) {
	p := model.Payment{
		OrderID:     uuid.NewString(),
		UserID:      userID,
		Status:      model.PaymentPending,
		CreatedTime: s.now(),
	}
	s.mu.Lock()
	s.orders[p.OrderID] = p
	s.mu.Unlock()
	return p, nil
}

// MarkPaid transitions an order from pending to paid and mints its purchase
// token. Any state other than pending, including a second success call on an
// already-paid order, fails with ErrOrderNotPending. CreatedTime is reset at
// payment so the token window is measured from issuance.
func (s *MemoryPaymentStore) MarkPaid(ctx context.Context, orderID string) (model.Payment, error) {
	token, err := utils.NewPurchaseToken()
	if err != nil {
		return model.Payment{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.orders[orderID]
	if !ok || p.Status != model.PaymentPending {
		return model.Payment{}, ErrOrderNotPending
	}
	p.Status = model.PaymentPaid
	p.UserToken = token
	p.CreatedTime = s.now()
	s.orders[orderID] = p
	return p, nil
}

// ValidateToken scans paid orders for the token. It reports ErrTokenNotFound
// and ErrTokenExpired as distinct reasons; both are rejections.
func (s *MemoryPaymentStore) ValidateToken(ctx context.Context, token string) error {
	if token == "" {
		return ErrTokenNotFound
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.orders {
		if p.UserToken != token {
			continue
		}
		if s.now().Sub(p.CreatedTime) > s.ttl {
			return ErrTokenExpired
		}
		return nil
	}
	return ErrTokenNotFound
}

func (s *MemoryPaymentStore) Count(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.orders), nil
}
