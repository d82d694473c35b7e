// Package flash implements one-shot notifications carried in cookies across
// a redirect.
package flash

import (
	"encoding/base64"
	"net/http"
)

const (
	Error   = "flash_error"
	Success = "flash_success"
	// EmailPrefill carries the email to pre-fill on auth forms, so it never
	// ends up in a URL.
	EmailPrefill = "email_prefill"

	maxAge = 300 // enough to survive the redirect
)

// Set stores msg under name until the next Pop.
func Set(w http.ResponseWriter, name, msg string, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    base64.URLEncoding.EncodeToString([]byte(msg)),
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Pop returns the message stored under name and expires it. Missing or
// undecodable cookies yield "".
func Pop(w http.ResponseWriter, r *http.Request, name string, secure bool) string {
	cookie, err := r.Cookie(name)
	if err != nil || cookie.Value == "" {
		return ""
	}

	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})

	decoded, err := base64.URLEncoding.DecodeString(cookie.Value)
	if err != nil {
		return ""
	}
	return string(decoded)
}

// Redirect sets a flash and redirects with 303.
func Redirect(w http.ResponseWriter, r *http.Request, target, name, msg string, secure bool) {
	Set(w, name, msg, secure)
	http.Redirect(w, r, target, http.StatusSeeOther)
}
