// Package admin holds the password-gated back office: session tokens and the
// dashboard statistics.
package admin

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"sync"
)

var ErrInvalidPassword = errors.New("invalid admin password")

// Auth issues and tracks opaque admin session tokens. Tokens live in process
// memory and die with the server.
type Auth struct {
	password string

	mu     sync.Mutex
	tokens map[string]struct{}
}

func NewAuth(password string) *Auth {
	return &Auth{password: password, tokens: make(map[string]struct{})}
}

// Login exchanges the admin password for a session token.
func (a *Auth) Login(password string) (string, error) {
	if subtle.ConstantTimeCompare([]byte(password), []byte(a.password)) != 1 {
		return "", ErrInvalidPassword
	}

	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	token := base64.RawURLEncoding.EncodeToString(buf)

	a.mu.Lock()
	a.tokens[token] = struct{}{}
	a.mu.Unlock()
	return token, nil
}

// Verify reports whether the token belongs to a live session.
func (a *Auth) Verify(token string) bool {
	if token == "" {
		return false
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	_, ok := a.tokens[token]
	return ok
}

// Logout invalidates the token; unknown tokens are a no-op.
func (a *Auth) Logout(token string) {
	a.mu.Lock()
	delete(a.tokens, token)
	a.mu.Unlock()
}
