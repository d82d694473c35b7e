package handler

import (
	"errors"
	"net/http"

	"github.com/whimsyboard/whimsy/frontend/internal/flash"
	internal_errors "github.com/whimsyboard/whimsy/shared/errors"
	"github.com/whimsyboard/whimsy/shared/logger"
)

func (h *Handler) SignupGetHandler(w http.ResponseWriter, r *http.Request) {
	h.renderTemplate(w, r, "signup.html", nil)
}

func (h *Handler) SignupPostHandler(w http.ResponseWriter, r *http.Request) {
	targetURL := "/signup"

	if err := h.parseForm(w, r); err != nil {
		h.redirectWithFlash(w, r, targetURL, flash.Error, formMessage(err))
		return
	}

	email := parseEmail(r)
	password := r.FormValue("password")

	msg := validateForm(
		field("Email", email, "required,email"),
		field("Password", password, "required,"+minLen(h.Public.PasswordMinLen)),
	)
	if msg != "" {
		h.setFlash(w, flash.EmailPrefill, email)
		h.redirectWithFlash(w, r, targetURL, flash.Error, msg)
		return
	}

	if err := h.APIClient.Register(r.Context(), email, password); err != nil {
		logger.Log.Info("registration rejected", "error", err)
		h.setFlash(w, flash.EmailPrefill, email)
		h.redirectWithFlash(w, r, targetURL, flash.Error, apiMessage(err, "Signup Failed!"))
		return
	}

	h.setFlash(w, flash.EmailPrefill, email)
	h.redirectWithFlash(w, r, "/login", flash.Success, "Account created! You can now log in.")
}

func (h *Handler) LoginGetHandler(w http.ResponseWriter, r *http.Request) {
	h.renderTemplate(w, r, "login.html", nil)
}

func (h *Handler) LoginPostHandler(w http.ResponseWriter, r *http.Request) {
	targetURL := "/login"

	if err := h.parseForm(w, r); err != nil {
		h.redirectWithFlash(w, r, targetURL, flash.Error, formMessage(err))
		return
	}

	email := parseEmail(r)
	password := r.FormValue("password")

	msg := validateForm(
		field("Email", email, "required,email"),
		field("Password", password, "required"),
	)
	if msg != "" {
		h.setFlash(w, flash.EmailPrefill, email)
		h.redirectWithFlash(w, r, targetURL, flash.Error, msg)
		return
	}

	token, err := h.APIClient.Login(r.Context(), email, password)
	if err != nil {
		logger.Log.Info("login rejected", "error", err)
		h.setFlash(w, flash.EmailPrefill, email)
		h.redirectWithFlash(w, r, targetURL, flash.Error, apiMessage(err, "Login Failed!!"))
		return
	}

	h.Sessions.Store(w, token)
	h.redirectWithFlash(w, r, "/", flash.Success, "Logged in successfully!")
}

func (h *Handler) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	h.Sessions.Clear(w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// apiMessage shows the API's own message for client errors and fallback for
// everything else.
func apiMessage(err error, fallback string) string {
	var withStatus *internal_errors.ErrorWithStatusCode
	if errors.As(err, &withStatus) && withStatus.StatusCode >= 400 && withStatus.StatusCode < 500 && withStatus.Message != "" {
		return withStatus.Message
	}
	return fallback
}
