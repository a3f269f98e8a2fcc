package repository

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/obsicat/obsicat-api/internal/model"
	"github.com/obsicat/obsicat-api/internal/utils"
)

// UserPatch carries the fields the admin surface may mutate. Nil means
// "leave unchanged".
type UserPatch struct {
	Role     *string
	IsActive *bool
}

// UserStore is the keyed store behind registration, login and the admin
// surface. Create must be atomic with respect to the email-uniqueness check
// so that two concurrent registrations for the same address cannot both
// succeed.
type UserStore interface {
	Create(ctx context.Context, email, password string, cost int) (model.User, error)
	Authenticate(ctx context.Context, email, password string) (model.User, error)
	GetByID(ctx context.Context, id string) (model.User, error)
	List(ctx context.Context) ([]model.User, error)
	Update(ctx context.Context, id string, patch UserPatch) (model.User, error)
	Delete(ctx context.Context, id string) error
}

// MemoryUserStore keeps users in process memory. All mutations run under a
// single mutex; insert-if-absent on the email index enforces uniqueness.
type MemoryUserStore struct {
	mu      sync.RWMutex
	byID    map[string]model.User
	byEmail map[string]string // email -> id
}

func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{
		byID:    make(map[string]model.User),
		byEmail: make(map[string]string),
	}
}

// Create hashes the password and inserts the user if the email is free.
// New users start with the free role and an active account.
func (s *MemoryUserStore) Create(ctx context.Context, email, password string, cost int) (model.User, error) {
	email = strings.TrimSpace(email)
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return model.User{}, err
	}
	now := time.Now().UTC()
	u := model.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		Role:         model.RoleFree,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, taken := s.byEmail[email]; taken {
		return model.User{}, ErrEmailExists
	}
	s.byEmail[email] = u.ID
	s.byID[u.ID] = u
	return u, nil
}

// Authenticate returns the user only when the email exists and the password
// verifies. Both failure modes collapse into ErrNotFound so callers cannot
// distinguish an unknown address from a wrong password.
func (s *MemoryUserStore) Authenticate(ctx context.Context, email, password string) (model.User, error) {
	email = strings.TrimSpace(email)

	s.mu.RLock()
	id, ok := s.byEmail[email]
	u := s.byID[id]
	s.mu.RUnlock()

	if !ok || !utils.VerifyPassword(u.PasswordHash, password) {
		return model.User{}, ErrNotFound
	}
	return u, nil
}

func (s *MemoryUserStore) GetByID(ctx context.Context, id string) (model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.byID[id]
	if !ok {
		return model.User{}, ErrNotFound
	}
	return u, nil
}

func (s *MemoryUserStore) List(ctx context.Context) ([]model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.User, 0, len(s.byID))
	for _, u := range s.byID {
		out = append(out, u)
	}
	return out, nil
}

// Update applies an admin patch (role, active flag) and bumps UpdatedAt.
func (s *MemoryUserStore) Update(ctx context.Context, id string, patch UserPatch) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.byID[id]
	if !ok {
		return model.User{}, ErrNotFound
	}
	if patch.Role != nil {
		u.Role = *patch.Role
	}
	if patch.IsActive != nil {
		u.IsActive = *patch.IsActive
	}
	u.UpdatedAt = time.Now().UTC()
	s.byID[id] = u
	return u, nil
}

// Delete removes the user record for good. There is no soft-delete path.
func (s *MemoryUserStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.byID[id]
	if !ok {
		return ErrNotFound
	}
	delete(s.byID, id)
	delete(s.byEmail, u.Email)
	return nil
}
