// Package auth implements the caller-identity resolver over HS256
// bearer tokens. The pipeline only consumes the resolved identity;
// account management lives elsewhere.
package auth

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	domauth "github.com/bryanwahyu/mindanalyzer/internal/domain/auth"
)

// JWTResolver verifies HS256 tokens whose sub claim carries the
// numeric user id.
type JWTResolver struct {
	secret []byte
}

func NewJWTResolver(secret string) (*JWTResolver, error) {
	if secret == "" {
		return nil, fmt.Errorf("jwt secret is not set")
	}
	return &JWTResolver{secret: []byte(secret)}, nil
}

// Resolve returns the caller identity for a bearer credential. Any
// parse, signature or expiry problem collapses to ErrInvalidCredential;
// callers get no detail about which check failed.
func (r *JWTResolver) Resolve(_ context.Context, credential string) (domauth.UserID, error) {
	token, err := jwt.Parse(credential, func(t *jwt.Token) (any, error) {
		return r.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return 0, domauth.ErrInvalidCredential
	}

	sub, err := token.Claims.GetSubject()
	if err != nil || sub == "" {
		return 0, domauth.ErrInvalidCredential
	}
	id, err := strconv.ParseInt(sub, 10, 64)
	if err != nil {
		return 0, domauth.ErrInvalidCredential
	}
	return domauth.UserID(id), nil
}

// Issue mints a token for a user id. Used by the ops tooling and
// tests; the API itself does not expose token issuance.
func (r *JWTResolver) Issue(userID domauth.UserID, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(int64(userID), 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(r.secret)
}
