package authclient

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/alexisbeaulieu97/shelf/internal/domain/shop"
	"github.com/alexisbeaulieu97/shelf/internal/ports"
)

// Demo account seeded into every LocalService.
const (
	DemoEmail    = "reader@shelf.dev"
	DemoPassword = "bookworm123"
	demoName     = "Demo Reader"
)

type account struct {
	user shop.User
	hash []byte
}

// LocalService is an in-process AuthService with bcrypt-hashed passwords.
// Accounts live only as long as the process.
type LocalService struct {
	mu       sync.RWMutex
	accounts map[string]account
	latency  time.Duration
	cost     int
}

// LocalOption customises a LocalService.
type LocalOption func(*LocalService)

// WithLatency delays every call, honouring context cancellation.
func WithLatency(d time.Duration) LocalOption {
	return func(s *LocalService) { s.latency = d }
}

// WithBcryptCost overrides the hashing cost; tests use bcrypt.MinCost.
func WithBcryptCost(cost int) LocalOption {
	return func(s *LocalService) { s.cost = cost }
}

// NewLocalService creates the service with the demo account registered.
func NewLocalService(opts ...LocalOption) (*LocalService, error) {
	s := &LocalService{
		accounts: make(map[string]account),
		cost:     bcrypt.DefaultCost,
	}
	for _, opt := range opts {
		opt(s)
	}
	if _, err := s.add(demoName, DemoEmail, DemoPassword); err != nil {
		return nil, err
	}
	return s, nil
}

// Verify checks the password against the stored hash. Unknown emails and
// wrong passwords are indistinguishable to the caller.
func (s *LocalService) Verify(ctx context.Context, creds shop.Credentials) (shop.User, error) {
	if err := s.wait(ctx); err != nil {
		return shop.User{}, err
	}
	s.mu.RLock()
	acct, ok := s.accounts[normalizeEmail(creds.Email)]
	s.mu.RUnlock()
	if !ok {
		return shop.User{}, shop.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(acct.hash, []byte(creds.Password)); err != nil {
		return shop.User{}, shop.ErrInvalidCredentials
	}
	return acct.user, nil
}

// Register adds an account. A taken email is InvalidCredentials.
func (s *LocalService) Register(ctx context.Context, reg shop.Registration) (shop.User, error) {
	if err := s.wait(ctx); err != nil {
		return shop.User{}, err
	}
	return s.add(reg.Name, reg.Email, reg.Password)
}

func (s *LocalService) add(name, email, password string) (shop.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return shop.User{}, shop.NewError(shop.ErrCodeInvalidCredentials, "password cannot be used", err, nil)
	}
	key := normalizeEmail(email)

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, taken := s.accounts[key]; taken {
		return shop.User{}, shop.NewError(shop.ErrCodeInvalidCredentials, "email is already registered", nil, map[string]interface{}{
			"email": key,
		})
	}
	user := shop.User{ID: uuid.NewString(), Name: strings.TrimSpace(name), Email: key}
	s.accounts[key] = account{user: user, hash: hash}
	return user, nil
}

func (s *LocalService) wait(ctx context.Context) error {
	if s.latency <= 0 {
		if err := ctx.Err(); err != nil {
			return shop.NewError(shop.ErrCodeServiceUnavailable, "request cancelled", err, nil)
		}
		return nil
	}
	timer := time.NewTimer(s.latency)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return shop.NewError(shop.ErrCodeServiceUnavailable, "request cancelled", ctx.Err(), nil)
	case <-timer.C:
		return nil
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

var _ ports.AuthService = (*LocalService)(nil)
