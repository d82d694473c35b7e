// Package session keeps the API bearer token in the browser between requests.
package session

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/whimsyboard/whimsy/shared/domain"
	"github.com/whimsyboard/whimsy/shared/jwt"
	"github.com/whimsyboard/whimsy/shared/logger"
)

const CookieName = "accessToken"

// Session is the per-request view of the stored token.
type Session struct {
	Token domain.Token
	User  domain.User
}

type Manager struct {
	secureCookies bool
	ttl           time.Duration
	now           func() time.Time
}

func New(secureCookies bool, ttl time.Duration) *Manager {
	return &Manager{secureCookies: secureCookies, ttl: ttl, now: time.Now}
}

func (m *Manager) SecureCookies() bool {
	return m.secureCookies
}

// Store persists token. The cookie lives as long as the token's exp allows,
// or ttl for tokens without one.
func (m *Manager) Store(w http.ResponseWriter, token domain.Token) {
	maxAge := int(m.ttl.Seconds())
	if claims, err := jwt.Inspect(token); err == nil && !claims.ExpiresAt.IsZero() {
		maxAge = int(claims.ExpiresAt.Sub(m.now()).Seconds())
	}
	if maxAge <= 0 {
		maxAge = -1
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   m.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

// Load returns the session carried by r. Missing and expired tokens yield
// (nil, false).
func (m *Manager) Load(r *http.Request) (*Session, bool) {
	cookie, err := r.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return nil, false
	}

	s := &Session{Token: cookie.Value}
	claims, err := jwt.Inspect(cookie.Value)
	switch {
	case errors.Is(err, jwt.ErrNotJWT):
		return s, true
	case err != nil:
		logger.Log.Warn("unreadable session token", "error", err)
		return nil, false
	case claims.Expired(m.now()):
		return nil, false
	}
	s.User = claims.User
	return s, true
}

// Clear expires the session cookie.
func (m *Manager) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

type contextKey struct{}

func NewContext(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, contextKey{}, s)
}

// FromRequest returns the session put in context by the session middleware,
// or nil.
func FromRequest(r *http.Request) *Session {
	s, _ := r.Context().Value(contextKey{}).(*Session)
	return s
}
