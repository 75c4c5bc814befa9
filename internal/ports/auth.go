package ports

import (
	"context"

	"github.com/alexisbeaulieu97/shelf/internal/domain/shop"
)

// AuthService verifies credentials and creates accounts. Implementations
// should report rejected credentials as shop.ErrInvalidCredentials and
// transport or backend failures as shop.ErrServiceUnavailable; the auth store
// translates anything else to ServiceUnavailable. Both calls must honour ctx
// cancellation, which is how a superseded login is abandoned.
type AuthService interface {
	Verify(ctx context.Context, creds shop.Credentials) (shop.User, error)
	Register(ctx context.Context, reg shop.Registration) (shop.User, error)
}
