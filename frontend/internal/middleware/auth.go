package middleware

import (
	"net/http"

	"github.com/whimsyboard/whimsy/frontend/internal/flash"
	"github.com/whimsyboard/whimsy/frontend/internal/session"
	internal_errors "github.com/whimsyboard/whimsy/shared/errors"
	"github.com/whimsyboard/whimsy/shared/utils"
)

const (
	loginPath     = "/login"
	LoginRequired = "Please log in to continue"
)

// Auth gates routes on the session cookie.
type Auth struct {
	sessions *session.Manager
}

func NewAuth(sessions *session.Manager) *Auth {
	return &Auth{sessions: sessions}
}

// NeedSession redirects visitors without a session to the login page. A 401
// written by the wrapped handler (the API rejected the token) clears the
// session and redirects the same way.
func (a *Auth) NeedSession() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s, ok := a.sessions.Load(r)
			if !ok {
				a.redirectToLogin(w, r, LoginRequired)
				return
			}

			wrapper := &authRedirectWriter{
				ResponseWriter: w,
				request:        r,
				auth:           a,
			}
			next.ServeHTTP(wrapper, r.WithContext(session.NewContext(r.Context(), s)))
		})
	}
}

// NeedSessionJSON is NeedSession for endpoints called from page scripts: it
// answers 401 with a JSON body instead of redirecting.
func (a *Auth) NeedSessionJSON() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s, ok := a.sessions.Load(r)
			if !ok {
				utils.WriteJSONError(w, internal_errors.New(LoginRequired, http.StatusUnauthorized))
				return
			}
			next.ServeHTTP(w, r.WithContext(session.NewContext(r.Context(), s)))
		})
	}
}

// OptionalSession populates the session when there is one; it never redirects.
func (a *Auth) OptionalSession() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if s, ok := a.sessions.Load(r); ok {
				r = r.WithContext(session.NewContext(r.Context(), s))
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (a *Auth) redirectToLogin(w http.ResponseWriter, r *http.Request, msg string) {
	flash.Redirect(w, r, loginPath, flash.Error, msg, a.sessions.SecureCookies())
}

// authRedirectWriter intercepts 401 responses and redirects to login
type authRedirectWriter struct {
	http.ResponseWriter
	request    *http.Request
	auth       *Auth
	redirected bool
}

func (w *authRedirectWriter) WriteHeader(statusCode int) {
	if w.redirected {
		return
	}

	if statusCode == http.StatusUnauthorized {
		w.redirected = true
		w.auth.sessions.Clear(w.ResponseWriter)
		w.auth.redirectToLogin(w.ResponseWriter, w.request, LoginRequired)
		return
	}

	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *authRedirectWriter) Write(data []byte) (int, error) {
	if w.redirected {
		return len(data), nil
	}
	return w.ResponseWriter.Write(data)
}
