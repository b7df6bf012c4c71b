package auth

import (
	"context"
	"time"

	"github.com/redmonkez12/account-api/internal/user"
)

// TokenService defines the interface for token creation and validation.
// Implementations include JWTService (HS256) and PasetoService (PASETO v4.local).
type TokenService interface {
	CreateToken(userID int64, duration time.Duration) (string, error)
	VerifyToken(tokenStr string) (*TokenClaims, error)
}

// PasswordHasher turns plaintext passwords into one-way salted digests.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, digest string) bool
}

// UserStore is the part of the credential store used by login and registration.
type UserStore interface {
	GetByEmail(ctx context.Context, email string) (*user.User, error)
	Create(ctx context.Context, name, email, passwordHash string) (*user.User, error)
	UpdateLastLogin(ctx context.Context, userID int64, at time.Time) error
}

// RateLimiter throttles unauthenticated endpoints per client IP.
type RateLimiter interface {
	// AllowIPRequestWithPurpose counts the request and reports whether it
	// is within the budget.
	AllowIPRequestWithPurpose(ctx context.Context, ip, purpose string) (bool, error)
}
