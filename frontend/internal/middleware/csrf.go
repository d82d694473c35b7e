package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/whimsyboard/whimsy/shared/csrf"
	"github.com/whimsyboard/whimsy/shared/logger"
	"github.com/whimsyboard/whimsy/shared/validation"
)

const (
	csrfCookieName = "csrf_token"
	csrfFormField  = "csrf_token"
	CSRFHeader     = "X-CSRF-Token"
)

type csrfContextKey string

const csrfTokenContextKey csrfContextKey = "csrf_token"

// CSRFConfig holds CSRF middleware configuration
type CSRFConfig struct {
	SecureCookies bool // Use Secure flag on cookies (requires HTTPS)
	// Key signs issued tokens so that only tokens minted here are accepted.
	Key []byte
	// MaxMultipartSize caps multipart bodies parsed while looking for the token.
	MaxMultipartSize int64
}

// GenerateCSRFToken middleware issues a signed CSRF token cookie and exposes
// the token to templates through the request context.
func GenerateCSRFToken(config CSRFConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var token string
			if cookie, err := r.Cookie(csrfCookieName); err == nil && csrf.Verify(config.Key, cookie.Value) {
				token = cookie.Value
			} else {
				raw, err := csrf.GenerateToken()
				if err == nil {
					token, err = csrf.Sign(config.Key, raw)
				}
				if err != nil {
					logger.Log.Error("failed to generate CSRF token", "error", err)
					http.Error(w, "Internal server error", http.StatusInternalServerError)
					return
				}

				http.SetCookie(w, &http.Cookie{
					Name:     csrfCookieName,
					Value:    token,
					Path:     "/",
					HttpOnly: true,
					Secure:   config.SecureCookies,
					SameSite: http.SameSiteLaxMode,
					MaxAge:   86400,
				})
			}

			ctx := context.WithValue(r.Context(), csrfTokenContextKey, token)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ValidateCSRFToken middleware checks state-changing requests. The token comes
// from the X-CSRF-Token header (page scripts) or the csrf_token form field.
func ValidateCSRFToken(config CSRFConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost && r.Method != http.MethodPut &&
				r.Method != http.MethodPatch && r.Method != http.MethodDelete {
				next.ServeHTTP(w, r)
				return
			}

			cookie, err := r.Cookie(csrfCookieName)
			if err != nil {
				logger.Log.Warn("CSRF token cookie missing", "path", r.URL.Path)
				http.Error(w, "CSRF token missing", http.StatusForbidden)
				return
			}

			requestToken := r.Header.Get(CSRFHeader)
			if requestToken == "" {
				if err := parseForm(w, r, config.MaxMultipartSize); err != nil {
					if errors.Is(err, validation.ErrPayloadTooLarge) {
						http.Error(w, "Request too large", http.StatusRequestEntityTooLarge)
						return
					}
					logger.Log.Error("failed to parse form", "error", err)
					http.Error(w, "Invalid form data", http.StatusBadRequest)
					return
				}
				requestToken = r.FormValue(csrfFormField)
			}

			if !csrf.Verify(config.Key, cookie.Value) || !csrf.ValidateToken(cookie.Value, requestToken) {
				logger.Log.Warn("CSRF token validation failed", "path", r.URL.Path)
				http.Error(w, "CSRF token invalid", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func parseForm(w http.ResponseWriter, r *http.Request, maxMultipart int64) error {
	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "multipart/form-data") {
		return validation.ValidateAndParseMultipart(r, w, maxMultipart)
	}
	if r.Form == nil {
		return r.ParseForm()
	}
	return nil
}

// GetCSRFTokenFromContext retrieves CSRF token from request context
func GetCSRFTokenFromContext(r *http.Request) string {
	token, _ := r.Context().Value(csrfTokenContextKey).(string)
	return token
}
