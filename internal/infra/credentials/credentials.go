// Package credentials turns the ambient "is a usable API key present" check
// into an explicit value. Paid operations take a Token parameter instead of
// probing environment state; a zero Token fails the precondition before any
// network call is attempted.
package credentials

import (
	"strings"

	"brandforge/internal/domain"
)

// Token is proof that a usable credential was present when resolved. Only
// Resolve can mint a valid one; the zero value is invalid.
type Token struct {
	ok bool
}

// Resolve checks the supplied API key and mints a Token. An empty key yields
// domain.ErrMissingCredential, which is fatal until the user supplies one —
// it is never retried automatically.
func Resolve(apiKey string) (Token, error) {
	if strings.TrimSpace(apiKey) == "" {
		return Token{}, domain.ErrMissingCredential
	}
	return Token{ok: true}, nil
}

// Valid reports whether the token was minted by a successful Resolve.
func (t Token) Valid() bool {
	return t.ok
}

// Require returns the precondition failure for an invalid token, nil
// otherwise. Paid entry points call this first.
func (t Token) Require() error {
	if !t.ok {
		return domain.ErrMissingCredential
	}
	return nil
}
