package auth

import (
	"errors"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrSignInRequired is returned when a request needs a bearer token and the
// session has none, the token has expired, or the backend answered 401/403.
// Callers surface it as a "please sign in" prompt.
var ErrSignInRequired = errors.New("sign in required")

// Session holds the bearer token for authenticated requests. It is safe for
// concurrent use; the token can be swapped after a fresh login.
type Session struct {
	mu    sync.RWMutex
	token string
}

// NewSession creates a session with an optional initial token.
func NewSession(token string) *Session {
	return &Session{token: token}
}

// SetToken replaces the session token after a login or refresh.
func (s *Session) SetToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
}

// Clear drops the token, e.g. after a logout or a 401 from the backend.
func (s *Session) Clear() {
	s.SetToken("")
}

// Token returns the current bearer token, empty when signed out.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// SignedIn reports whether a usable token is present. A token whose expiry
// claim is already in the past counts as signed out, so callers fail fast
// instead of sending a request the backend will reject.
func (s *Session) SignedIn() bool {
	token := s.Token()
	if token == "" {
		return false
	}
	return !expired(token)
}

// expired decodes the token without verifying the signature (verification is
// the backend's job) and checks the exp claim. Tokens that don't parse or
// carry no expiry are left to the backend to judge.
func expired(token string) bool {
	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(time.Now())
}
