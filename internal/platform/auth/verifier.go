// Package auth verifies bearer tokens issued by the hosted auth provider.
// Tokens are HS256 JWTs signed with the project secret, so verification is
// local and needs no network round trip.
package auth

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/daniyar-kh/marketplace-backend/internal/listing/domain"
)

// Claims is the claim set the auth provider puts in its access tokens. The
// principal id travels in the registered "sub" claim.
type Claims struct {
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

type Verifier struct {
	secret []byte
}

func NewVerifier(secret string) (*Verifier, error) {
	if secret == "" {
		return nil, errors.New("auth: JWT secret must not be empty")
	}
	return &Verifier{secret: []byte(secret)}, nil
}

// Verify parses and validates a raw token and returns the principal it was
// issued to. Any token-level problem (bad signature, expiry, garbage input)
// maps to domain.ErrUnauthenticated.
func (v *Verifier) Verify(tokenString string) (domain.Principal, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return v.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return domain.Principal{}, fmt.Errorf("%w: %v", domain.ErrUnauthenticated, err)
	}
	if !token.Valid || claims.Subject == "" {
		return domain.Principal{}, domain.ErrUnauthenticated
	}

	return domain.Principal{ID: claims.Subject, Email: claims.Email}, nil
}
