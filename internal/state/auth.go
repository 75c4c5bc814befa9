package state

import (
	"context"
	"errors"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/alexisbeaulieu97/shelf/internal/domain/shop"
	"github.com/alexisbeaulieu97/shelf/internal/ports"
)

var (
	validatorOnce sync.Once
	validateInst  *validator.Validate
)

func inputValidator() *validator.Validate {
	validatorOnce.Do(func() {
		validateInst = validator.New(validator.WithRequiredStructEnabled())
	})
	return validateInst
}

// AuthStore owns the authenticated user. Login, Register and Logout each
// start a new generation; an in-flight call from an older generation has its
// context cancelled and its result discarded, so only the most recently
// initiated call can change the state.
type AuthStore struct {
	mu       sync.Mutex
	state    shop.AuthState
	gen      uint64
	inFlight context.CancelFunc

	service   ports.AuthService
	logger    ports.Logger
	publisher ports.EventPublisher
	subs      broadcaster[shop.AuthState]
}

// NewAuthStore creates an anonymous store backed by service.
func NewAuthStore(service ports.AuthService, logger ports.Logger, publisher ports.EventPublisher) *AuthStore {
	return &AuthStore{
		service:   service,
		logger:    componentLogger(logger, "auth_store"),
		publisher: publisher,
		subs:      broadcaster[shop.AuthState]{clone: shop.AuthState.Clone},
	}
}

// Snapshot returns a copy of the current authentication state.
func (s *AuthStore) Snapshot() shop.AuthState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Subscribe registers fn for every sign-in and sign-out.
func (s *AuthStore) Subscribe(fn func(shop.AuthState)) ports.Subscription {
	return s.subs.subscribe(fn)
}

// Login verifies creds with the auth service. On failure the state is left
// untouched and an InvalidCredentials, ServiceUnavailable or Superseded
// error is returned.
func (s *AuthStore) Login(ctx context.Context, creds shop.Credentials) (shop.User, error) {
	if err := inputValidator().Struct(creds); err != nil {
		return shop.User{}, shop.NewError(shop.ErrCodeInvalidCredentials, "email and password are required", err, nil)
	}
	return s.authenticate(ctx, "login", func(ctx context.Context) (shop.User, error) {
		return s.service.Verify(ctx, creds)
	})
}

// Register creates an account; success signs the new user in exactly like a
// successful Login.
func (s *AuthStore) Register(ctx context.Context, reg shop.Registration) (shop.User, error) {
	if err := inputValidator().Struct(reg); err != nil {
		return shop.User{}, shop.NewError(shop.ErrCodeInvalidCredentials, "registration details are invalid", err, nil)
	}
	return s.authenticate(ctx, "register", func(ctx context.Context) (shop.User, error) {
		return s.service.Register(ctx, reg)
	})
}

// Logout signs the user out, supersedes any in-flight login and notifies
// subscribers even when nobody was signed in. The cart is not touched.
func (s *AuthStore) Logout() {
	s.mu.Lock()
	s.gen++
	s.cancelInFlightLocked()
	prev := s.state.User
	s.state = shop.AuthState{Status: shop.Anonymous, Version: s.state.Version + 1}
	snap := s.state
	s.subs.enqueue(snap)
	s.mu.Unlock()

	if prev != nil {
		s.logger.Info(context.Background(), "signed out", "user_id", prev.ID)
	}
	s.subs.drain()
	publish(s.publisher, ports.EventAuthChanged, map[string]interface{}{
		"status":  snap.Status.String(),
		"version": snap.Version,
	})
}

func (s *AuthStore) authenticate(ctx context.Context, op string, call func(context.Context) (shop.User, error)) (shop.User, error) {
	if s.service == nil {
		return shop.User{}, shop.NewError(shop.ErrCodeServiceUnavailable, "no auth service configured", nil, nil)
	}

	s.mu.Lock()
	s.gen++
	gen := s.gen
	s.cancelInFlightLocked()
	callCtx, cancel := context.WithCancel(ctx)
	s.inFlight = cancel
	s.mu.Unlock()
	defer cancel()

	s.logger.Debug(ctx, "auth request started", "op", op, "generation", gen)
	user, err := call(callCtx)

	s.mu.Lock()
	if gen != s.gen {
		s.mu.Unlock()
		s.logger.Debug(ctx, "auth result discarded", "op", op, "generation", gen)
		return shop.User{}, shop.NewError(shop.ErrCodeSuperseded, "superseded by a newer request", err, map[string]interface{}{
			"op": op,
		})
	}
	s.inFlight = nil
	if err != nil {
		s.mu.Unlock()
		translated := translateAuthError(op, err)
		s.logger.Warn(ctx, "auth request failed", "op", op, "error", translated)
		return shop.User{}, translated
	}

	u := user
	s.state = shop.AuthState{Status: shop.Authenticated, User: &u, Version: s.state.Version + 1}
	snap := s.state
	s.subs.enqueue(snap)
	s.mu.Unlock()

	s.logger.Info(ctx, "signed in", "op", op, "user_id", u.ID)
	s.subs.drain()
	publish(s.publisher, ports.EventAuthChanged, map[string]interface{}{
		"status":  snap.Status.String(),
		"user_id": u.ID,
		"version": snap.Version,
	})
	return u, nil
}

func (s *AuthStore) cancelInFlightLocked() {
	if s.inFlight != nil {
		s.inFlight()
		s.inFlight = nil
	}
}

// translateAuthError keeps InvalidCredentials and ServiceUnavailable errors,
// tagged with op, and maps everything else to ServiceUnavailable so raw
// transport errors never reach the UI.
func translateAuthError(op string, err error) error {
	var de *shop.DomainError
	if errors.As(err, &de) && shop.IsAuthError(de) && de.Code != shop.ErrCodeSuperseded {
		return de.WithContext(map[string]interface{}{"op": op})
	}
	return shop.NewError(shop.ErrCodeServiceUnavailable, "authentication service unavailable", err, map[string]interface{}{
		"op": op,
	})
}
