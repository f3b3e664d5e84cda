package auth_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daniyar-kh/marketplace-backend/internal/listing/domain"
	"github.com/daniyar-kh/marketplace-backend/internal/platform/auth"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, claims jwt.Claims, method jwt.SigningMethod) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func TestVerify_ValidToken(t *testing.T) {
	verifier, err := auth.NewVerifier(testSecret)
	require.NoError(t, err)

	token := signToken(t, testSecret, auth.Claims{
		Email: "user@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-uuid-123",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}, jwt.SigningMethodHS256)

	principal, err := verifier.Verify(token)

	require.NoError(t, err)
	assert.Equal(t, "user-uuid-123", principal.ID)
	assert.Equal(t, "user@example.com", principal.Email)
}

func TestVerify_ExpiredToken(t *testing.T) {
	verifier, err := auth.NewVerifier(testSecret)
	require.NoError(t, err)

	token := signToken(t, testSecret, auth.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-uuid-123",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	}, jwt.SigningMethodHS256)

	_, err = verifier.Verify(token)
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestVerify_WrongSecret(t *testing.T) {
	verifier, err := auth.NewVerifier(testSecret)
	require.NoError(t, err)

	token := signToken(t, "another-secret", auth.Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "user-uuid-123"},
	}, jwt.SigningMethodHS256)

	_, err = verifier.Verify(token)
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestVerify_MissingSubject(t *testing.T) {
	verifier, err := auth.NewVerifier(testSecret)
	require.NoError(t, err)

	token := signToken(t, testSecret, auth.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}, jwt.SigningMethodHS256)

	_, err = verifier.Verify(token)
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestVerify_Garbage(t *testing.T) {
	verifier, err := auth.NewVerifier(testSecret)
	require.NoError(t, err)

	_, err = verifier.Verify("not-a-jwt")
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestNewVerifier_EmptySecret(t *testing.T) {
	_, err := auth.NewVerifier("")
	assert.Error(t, err)
}
