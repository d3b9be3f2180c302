package auth

import (
	"context"
	"errors"
)

// UserID is the opaque numeric caller identity. The pipeline treats it
// as an input parameter; it never mints or validates one itself.
type UserID int64

// Resolver turns a bearer credential into a caller identity
type Resolver interface {
	Resolve(ctx context.Context, credential string) (UserID, error)
}

// ErrInvalidCredential covers missing, malformed and expired credentials
var ErrInvalidCredential = errors.New("invalid or expired credential")
