package middleware_test

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/daniyar-kh/marketplace-backend/internal/adapter/httpapi/middleware"
	"github.com/daniyar-kh/marketplace-backend/internal/listing/domain"
)

type fakeVerifier struct {
	principal domain.Principal
	err       error
}

func (f *fakeVerifier) Verify(token string) (domain.Principal, error) {
	if f.err != nil {
		return domain.Principal{}, f.err
	}
	return f.principal, nil
}

func runAuth(t *testing.T, verifier middleware.IdentityVerifier, authHeader string) (*httptest.ResponseRecorder, *domain.Principal) {
	t.Helper()

	var seen *domain.Principal
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if p, ok := middleware.PrincipalFromContext(r.Context()); ok {
			seen = &p
		}
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/me/listings", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()

	middleware.Auth(verifier, zap.NewNop())(next).ServeHTTP(rec, req)
	return rec, seen
}

func TestAuth_MissingHeader(t *testing.T) {
	rec, seen := runAuth(t, &fakeVerifier{}, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Nil(t, seen)
}

func TestAuth_MalformedHeaders(t *testing.T) {
	for _, header := range []string{
		"sometoken",
		"Bearer",
		"Bearer one two",
		"Basic dXNlcjpwYXNz",
	} {
		t.Run(header, func(t *testing.T) {
			rec, seen := runAuth(t, &fakeVerifier{}, header)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Nil(t, seen)
		})
	}
}

func TestAuth_RejectedToken(t *testing.T) {
	verifier := &fakeVerifier{err: fmt.Errorf("%w: signature invalid", domain.ErrUnauthenticated)}
	rec, seen := runAuth(t, verifier, "Bearer bad-token")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Nil(t, seen)
}

func TestAuth_ProviderFailureIsServerError(t *testing.T) {
	verifier := &fakeVerifier{err: fmt.Errorf("%w: %v", domain.ErrAuthProvider, errors.New("timeout"))}
	rec, seen := runAuth(t, verifier, "Bearer some-token")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Nil(t, seen)
}

func TestAuth_ValidTokenInjectsPrincipal(t *testing.T) {
	verifier := &fakeVerifier{principal: domain.Principal{ID: "user-a", Email: "a@example.com"}}
	rec, seen := runAuth(t, verifier, "Bearer good-token")

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, seen)
	assert.Equal(t, "user-a", seen.ID)
}

func TestAuth_SchemeIsCaseInsensitive(t *testing.T) {
	verifier := &fakeVerifier{principal: domain.Principal{ID: "user-a"}}
	rec, seen := runAuth(t, verifier, "bearer good-token")

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, seen)
}
