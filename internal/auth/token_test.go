package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testPasetoKey = []byte("0123456789abcdef0123456789abcdef")

func newTokenServices(t *testing.T) map[string]TokenService {
	t.Helper()

	jwtSvc, err := NewJWTService([]byte("super-secret"))
	require.NoError(t, err)

	pasetoSvc, err := NewPasetoService(testPasetoKey)
	require.NoError(t, err)

	return map[string]TokenService{
		"jwt":    jwtSvc,
		"paseto": pasetoSvc,
	}
}

func TestTokenService_RoundTrip(t *testing.T) {
	for name, svc := range newTokenServices(t) {
		t.Run(name, func(t *testing.T) {
			before := time.Now().Add(-time.Second)

			tok, err := svc.CreateToken(42, TokenValidity)
			require.NoError(t, err)
			require.NotEmpty(t, tok)

			claims, err := svc.VerifyToken(tok)
			require.NoError(t, err)
			assert.Equal(t, int64(42), claims.UserID)
			assert.NotEmpty(t, claims.ID)
			assert.WithinDuration(t, before.Add(TokenValidity), claims.ExpiresAt, 3*time.Second)
			assert.False(t, claims.IssuedAt.IsZero())
		})
	}
}

func TestTokenService_UniqueIDs(t *testing.T) {
	for name, svc := range newTokenServices(t) {
		t.Run(name, func(t *testing.T) {
			a, err := svc.CreateToken(1, time.Hour)
			require.NoError(t, err)
			b, err := svc.CreateToken(1, time.Hour)
			require.NoError(t, err)
			assert.NotEqual(t, a, b)
		})
	}
}

func TestTokenService_Expired(t *testing.T) {
	for name, svc := range newTokenServices(t) {
		t.Run(name, func(t *testing.T) {
			tok, err := svc.CreateToken(7, -2*time.Second)
			require.NoError(t, err)

			_, err = svc.VerifyToken(tok)
			assert.ErrorIs(t, err, ErrExpiredToken)
		})
	}
}

func TestTokenService_Malformed(t *testing.T) {
	for name, svc := range newTokenServices(t) {
		t.Run(name, func(t *testing.T) {
			for _, tok := range []string{"", "not.a.token", "v4.local.garbage"} {
				_, err := svc.VerifyToken(tok)
				assert.ErrorIs(t, err, ErrInvalidToken, "token %q", tok)
			}
		})
	}
}

func TestJWTService_WrongSecret(t *testing.T) {
	t.Parallel()

	a, err := NewJWTService([]byte("right-secret"))
	require.NoError(t, err)
	b, err := NewJWTService([]byte("wrong-secret"))
	require.NoError(t, err)

	tok, err := a.CreateToken(1, time.Hour)
	require.NoError(t, err)

	_, err = b.VerifyToken(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTService_RejectsOtherAlgorithms(t *testing.T) {
	t.Parallel()

	svc, err := NewJWTService([]byte("secret"))
	require.NoError(t, err)

	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, jwtClaims{
		UserID: 1,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	tok, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = svc.VerifyToken(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTService_RequiresUserIDAndExpiry(t *testing.T) {
	t.Parallel()

	secret := []byte("secret")
	svc, err := NewJWTService(secret)
	require.NoError(t, err)

	noID, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwtClaims{
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}).SignedString(secret)
	require.NoError(t, err)

	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwtClaims{UserID: 5}).SignedString(secret)
	require.NoError(t, err)

	for _, tok := range []string{noID, noExp} {
		_, err := svc.VerifyToken(tok)
		assert.ErrorIs(t, err, ErrInvalidToken)
	}
}

func TestNewJWTService_EmptySecret(t *testing.T) {
	_, err := NewJWTService(nil)
	assert.Error(t, err)
}

func TestPasetoService_WrongKey(t *testing.T) {
	t.Parallel()

	a, err := NewPasetoService(testPasetoKey)
	require.NoError(t, err)
	b, err := NewPasetoService([]byte(strings.Repeat("k", 32)))
	require.NoError(t, err)

	tok, err := a.CreateToken(1, time.Hour)
	require.NoError(t, err)

	_, err = b.VerifyToken(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestNewPasetoService_KeyLength(t *testing.T) {
	_, err := NewPasetoService([]byte("short"))
	assert.Error(t, err)
}
