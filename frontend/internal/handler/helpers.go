package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/whimsyboard/whimsy/frontend/internal/flash"
	"github.com/whimsyboard/whimsy/frontend/internal/session"
	"github.com/whimsyboard/whimsy/shared/domain"
	internal_errors "github.com/whimsyboard/whimsy/shared/errors"
	"github.com/whimsyboard/whimsy/shared/logger"
	"github.com/whimsyboard/whimsy/shared/validation"
)

func (h *Handler) setFlash(w http.ResponseWriter, name, msg string) {
	flash.Set(w, name, msg, h.Public.SecureCookies)
}

func (h *Handler) redirectWithFlash(w http.ResponseWriter, r *http.Request, targetURL, name, msg string) {
	flash.Redirect(w, r, targetURL, name, msg, h.Public.SecureCookies)
}

// redirectOnAPIError reports a failed API call. A rejected token is answered
// with 401, which the session middleware turns into a logout; anything else
// becomes a flash on targetURL.
func (h *Handler) redirectOnAPIError(w http.ResponseWriter, r *http.Request, err error, targetURL, msg string) {
	if internal_errors.IsUnauthorized(err) {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	logger.Log.Error("api call failed", "path", r.URL.Path, "error", err)
	h.redirectWithFlash(w, r, targetURL, flash.Error, msg)
}

// token returns the bearer token of the current session. Routes that call it
// sit behind NeedSession.
func token(r *http.Request) domain.Token {
	if s := session.FromRequest(r); s != nil {
		return s.Token
	}
	return ""
}

// parseForm parses url-encoded and multipart bodies, capping multipart ones
// at the upload limit. The CSRF middleware usually did this already.
func (h *Handler) parseForm(w http.ResponseWriter, r *http.Request) error {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		return validation.ValidateAndParseMultipart(r, w, validation.CalculateMaxRequestSize(h.Public.MaxUploadSize, 1<<20))
	}
	return r.ParseForm()
}

// formMessage turns a form parsing error into something to show the user.
func formMessage(err error) string {
	if errors.Is(err, validation.ErrPayloadTooLarge) {
		return "The upload is too large."
	}
	return "Invalid form data."
}

func parseEmail(r *http.Request) string {
	return strings.TrimSpace(r.FormValue("email"))
}
