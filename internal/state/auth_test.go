package state

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexisbeaulieu97/shelf/internal/domain/shop"
)

// gatedAuth blocks each Verify call until the test releases it.
type gatedAuth struct {
	mu    sync.Mutex
	gates map[string]chan result
	calls chan string
}

type result struct {
	user shop.User
	err  error
}

func newGatedAuth() *gatedAuth {
	return &gatedAuth{gates: map[string]chan result{}, calls: make(chan string, 8)}
}

func (g *gatedAuth) gate(email string) chan result {
	g.mu.Lock()
	defer g.mu.Unlock()
	ch, ok := g.gates[email]
	if !ok {
		ch = make(chan result, 1)
		g.gates[email] = ch
	}
	return ch
}

func (g *gatedAuth) Verify(ctx context.Context, creds shop.Credentials) (shop.User, error) {
	ch := g.gate(creds.Email)
	g.calls <- creds.Email
	select {
	case r := <-ch:
		return r.user, r.err
	case <-ctx.Done():
		// Report the result late anyway so the store has to discard it.
		r := <-ch
		return r.user, r.err
	}
}

func (g *gatedAuth) Register(ctx context.Context, reg shop.Registration) (shop.User, error) {
	return g.Verify(ctx, shop.Credentials{Email: reg.Email, Password: reg.Password})
}

type stubAuth struct {
	user shop.User
	err  error
}

func (s stubAuth) Verify(context.Context, shop.Credentials) (shop.User, error) { return s.user, s.err }

func (s stubAuth) Register(_ context.Context, reg shop.Registration) (shop.User, error) {
	if s.err != nil {
		return shop.User{}, s.err
	}
	return shop.User{ID: "new", Name: reg.Name, Email: reg.Email}, nil
}

var (
	alice = shop.User{ID: "1", Name: "Alice", Email: "alice@example.com"}
	bob   = shop.User{ID: "2", Name: "Bob", Email: "bob@example.com"}
)

func TestAuthStoreLoginSuccess(t *testing.T) {
	t.Parallel()

	store := NewAuthStore(stubAuth{user: alice}, nil, nil)
	var seen []shop.AuthState
	store.Subscribe(func(s shop.AuthState) { seen = append(seen, s) })

	user, err := store.Login(context.Background(), shop.Credentials{Email: alice.Email, Password: "secret"})
	require.NoError(t, err)
	assert.Equal(t, alice, user)

	snap := store.Snapshot()
	assert.True(t, snap.IsAuthenticated())
	assert.Equal(t, "Alice", snap.DisplayName())
	require.Len(t, seen, 1)
	assert.Equal(t, shop.Authenticated, seen[0].Status)
}

func TestAuthStoreLoginFailureLeavesStateUnchanged(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		err  error
		code shop.ErrorCode
	}{
		{"rejected", shop.ErrInvalidCredentials, shop.ErrCodeInvalidCredentials},
		{"unavailable", shop.ErrServiceUnavailable, shop.ErrCodeServiceUnavailable},
		{"raw transport error", errors.New("connection reset"), shop.ErrCodeServiceUnavailable},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			store := NewAuthStore(stubAuth{err: tc.err}, nil, nil)
			var notified int
			store.Subscribe(func(shop.AuthState) { notified++ })

			_, err := store.Login(context.Background(), shop.Credentials{Email: "x@example.com", Password: "pw"})
			require.Error(t, err)
			assert.Equal(t, tc.code, shop.CodeOf(err))
			var de *shop.DomainError
			require.True(t, errors.As(err, &de))
			assert.Equal(t, "login", de.Context["op"])
			assert.False(t, store.Snapshot().IsAuthenticated())
			assert.Zero(t, notified)
		})
	}
}

func TestAuthStoreRejectsMalformedCredentialsLocally(t *testing.T) {
	t.Parallel()

	store := NewAuthStore(stubAuth{user: alice}, nil, nil)
	_, err := store.Login(context.Background(), shop.Credentials{Email: "not-an-email", Password: "pw"})
	assert.True(t, errors.Is(err, shop.ErrInvalidCredentials))

	_, err = store.Register(context.Background(), shop.Registration{Name: "A", Email: "a@example.com", Password: "short"})
	assert.True(t, errors.Is(err, shop.ErrInvalidCredentials))
	assert.False(t, store.Snapshot().IsAuthenticated())
}

func TestAuthStoreRegisterSignsIn(t *testing.T) {
	t.Parallel()

	store := NewAuthStore(stubAuth{}, nil, nil)
	user, err := store.Register(context.Background(), shop.Registration{Name: "Carol", Email: "carol@example.com", Password: "longenough"})
	require.NoError(t, err)
	assert.Equal(t, "Carol", user.Name)
	assert.Equal(t, "Carol", store.Snapshot().DisplayName())
}

func TestAuthStoreLogoutKeepsNothing(t *testing.T) {
	t.Parallel()

	store := NewAuthStore(stubAuth{user: alice}, nil, nil)
	_, err := store.Login(context.Background(), shop.Credentials{Email: alice.Email, Password: "pw"})
	require.NoError(t, err)

	var seen []shop.AuthState
	store.Subscribe(func(s shop.AuthState) { seen = append(seen, s) })
	store.Logout()

	assert.False(t, store.Snapshot().IsAuthenticated())
	assert.Nil(t, store.Snapshot().User)
	require.Len(t, seen, 1)
	assert.Equal(t, shop.Anonymous, seen[0].Status)

	store.Logout()
	require.Len(t, seen, 2)
	assert.Equal(t, shop.Anonymous, seen[1].Status)
	assert.Greater(t, seen[1].Version, seen[0].Version)
}

func TestAuthStoreLaterLoginWinsRace(t *testing.T) {
	t.Parallel()

	svc := newGatedAuth()
	store := NewAuthStore(svc, nil, nil)

	firstDone := make(chan error, 1)
	go func() {
		_, err := store.Login(context.Background(), shop.Credentials{Email: alice.Email, Password: "pw"})
		firstDone <- err
	}()
	require.Equal(t, alice.Email, <-svc.calls)

	secondDone := make(chan error, 1)
	go func() {
		_, err := store.Login(context.Background(), shop.Credentials{Email: bob.Email, Password: "pw"})
		secondDone <- err
	}()
	require.Equal(t, bob.Email, <-svc.calls)

	// The second call resolves first.
	svc.gate(bob.Email) <- result{user: bob}
	require.NoError(t, <-secondDone)

	// The first resolves later with a success that must be discarded.
	svc.gate(alice.Email) <- result{user: alice}
	err := <-firstDone
	assert.True(t, errors.Is(err, shop.ErrSuperseded))

	snap := store.Snapshot()
	require.True(t, snap.IsAuthenticated())
	assert.Equal(t, bob, *snap.User)
}

func TestAuthStoreLogoutSupersedesInFlightLogin(t *testing.T) {
	t.Parallel()

	svc := newGatedAuth()
	store := NewAuthStore(svc, nil, nil)

	done := make(chan error, 1)
	go func() {
		_, err := store.Login(context.Background(), shop.Credentials{Email: alice.Email, Password: "pw"})
		done <- err
	}()
	require.Equal(t, alice.Email, <-svc.calls)

	store.Logout()
	svc.gate(alice.Email) <- result{user: alice}

	select {
	case err := <-done:
		assert.True(t, errors.Is(err, shop.ErrSuperseded))
	case <-time.After(2 * time.Second):
		t.Fatal("login did not return")
	}
	assert.False(t, store.Snapshot().IsAuthenticated())
}

func TestAuthStoreWithoutServiceIsUnavailable(t *testing.T) {
	t.Parallel()

	store := NewAuthStore(nil, nil, nil)
	_, err := store.Login(context.Background(), shop.Credentials{Email: alice.Email, Password: "pw"})
	assert.True(t, errors.Is(err, shop.ErrServiceUnavailable))
}

func TestAuthStoreSnapshotsAreIsolated(t *testing.T) {
	t.Parallel()

	store := NewAuthStore(stubAuth{user: alice}, nil, nil)
	store.Subscribe(func(s shop.AuthState) { s.User.Name = "Eve" })
	store.Subscribe(func(s shop.AuthState) {
		assert.Equal(t, "Alice", s.User.Name)
	})

	_, err := store.Login(context.Background(), shop.Credentials{Email: alice.Email, Password: "secret"})
	require.NoError(t, err)

	snap := store.Snapshot()
	snap.User.Name = "Mallory"

	assert.Equal(t, "Alice", store.Snapshot().DisplayName())
	assert.Equal(t, "Alice", alice.Name)
}
