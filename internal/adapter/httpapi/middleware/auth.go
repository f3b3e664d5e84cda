package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/daniyar-kh/marketplace-backend/internal/listing/domain"
)

type contextKey string

const principalCtxKey contextKey = "principal"

// IdentityVerifier resolves a raw bearer token into a principal.
type IdentityVerifier interface {
	Verify(token string) (domain.Principal, error)
}

// Auth rejects requests without a valid `Authorization: Bearer <token>`
// header and stores the verified principal in the request context. The header
// must be exactly two space-separated tokens; the scheme is case-insensitive.
func Auth(verifier IdentityVerifier, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			parts := strings.Fields(r.Header.Get("Authorization"))
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				writeAuthError(w, http.StatusUnauthorized, "Authorization header is missing or invalid.")
				return
			}

			principal, err := verifier.Verify(parts[1])
			if err != nil {
				if errors.Is(err, domain.ErrAuthProvider) {
					logger.Error("auth provider failure", zap.Error(err))
					writeAuthError(w, http.StatusInternalServerError, "An unexpected error occurred.")
					return
				}
				logger.Debug("rejected bearer token", zap.Error(err))
				writeAuthError(w, http.StatusUnauthorized, "Invalid or expired token.")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), principal)))
		})
	}
}

func WithPrincipal(ctx context.Context, principal domain.Principal) context.Context {
	return context.WithValue(ctx, principalCtxKey, principal)
}

// PrincipalFromContext returns the principal stored by Auth.
func PrincipalFromContext(ctx context.Context) (domain.Principal, bool) {
	principal, ok := ctx.Value(principalCtxKey).(domain.Principal)
	return principal, ok
}

func writeAuthError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
