package handler

import (
	"bytes"
	"fmt"
	"net/http"

	frontend_domain "github.com/whimsyboard/whimsy/frontend/internal/domain"
	"github.com/whimsyboard/whimsy/frontend/internal/flash"
	"github.com/whimsyboard/whimsy/frontend/internal/markdown"
	"github.com/whimsyboard/whimsy/frontend/internal/middleware"
	"github.com/whimsyboard/whimsy/frontend/internal/session"
	"github.com/whimsyboard/whimsy/shared/domain"
	"github.com/whimsyboard/whimsy/shared/logger"
)

// TemplateData wraps page-specific data with common template data.
// Templates access page data via .Data and common data via .Common.
type TemplateData struct {
	Data   any
	Common frontend_domain.CommonTemplateData
}

func (h *Handler) renderTemplate(w http.ResponseWriter, r *http.Request, name string, data any) {
	h.renderTemplateWithError(w, r, name, data, "")
}

func (h *Handler) renderTemplateWithError(w http.ResponseWriter, r *http.Request, name string, data any, errMsg string) {
	h.renderPage(w, r, name, data, errMsg, http.StatusOK)
}

// renderPage renders name with the given status. errMsg, when set, replaces
// any pending error flash.
func (h *Handler) renderPage(w http.ResponseWriter, r *http.Request, name string, data any, errMsg string, status int) {
	tmpl, ok := h.getTemplate(name)
	if !ok {
		http.Error(w, fmt.Sprintf("Template %s not found", name), http.StatusInternalServerError)
		return
	}

	common := h.initCommonTemplateData(w, r)
	if errMsg != "" {
		common.Error = errMsg
	}

	wrapped := TemplateData{
		Data:   data,
		Common: common,
	}

	buf := new(bytes.Buffer)
	if err := tmpl.Execute(buf, wrapped); err != nil {
		logger.Log.Error("error executing template", "template", name, "error", err)
		http.Error(w, "Internal Server Error rendering template", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// initCommonTemplateData consumes pending flashes and collects per-request
// data every page needs.
func (h *Handler) initCommonTemplateData(w http.ResponseWriter, r *http.Request) frontend_domain.CommonTemplateData {
	secure := h.Public.SecureCookies
	common := frontend_domain.CommonTemplateData{
		Error:            flash.Pop(w, r, flash.Error, secure),
		Success:          flash.Pop(w, r, flash.Success, secure),
		EmailPlaceholder: flash.Pop(w, r, flash.EmailPrefill, secure),
		CSRFToken:        middleware.GetCSRFTokenFromContext(r),
		CurrentPath:      r.URL.Path,
		Validation: frontend_domain.ValidationData{
			PasswordMinLen:         h.Public.PasswordMinLen,
			BoardNameMaxLen:        h.Public.BoardNameMaxLen,
			BoardDescriptionMaxLen: h.Public.BoardDescriptionMaxLen,
			PinTitleMaxLen:         h.Public.PinTitleMaxLen,
			PinDescriptionMaxLen:   h.Public.PinDescriptionMaxLen,
			MaxTagsPerPin:          h.Public.MaxTagsPerPin,
			MaxUploadSize:          h.Public.MaxUploadSize,
			AllowedImageMimeTypes:  h.Public.AllowedImageMimeTypes,
		},
	}

	if s := session.FromRequest(r); s != nil {
		common.LoggedIn = true
		if s.User.Id != "" || s.User.Email != "" {
			user := s.User
			common.User = &user
		}
	}
	return common
}

func (h *Handler) renderBoard(board domain.Board) *frontend_domain.Board {
	return &frontend_domain.Board{
		Board:           board,
		DescriptionHTML: h.TextProcessor.Render(board.Description),
	}
}

func (h *Handler) renderBoards(boards []domain.Board) []*frontend_domain.Board {
	rendered := make([]*frontend_domain.Board, len(boards))
	for i, board := range boards {
		rendered[i] = h.renderBoard(board)
	}
	return rendered
}

func (h *Handler) renderPin(pin domain.Pin) *frontend_domain.Pin {
	return &frontend_domain.Pin{
		Pin:             pin,
		DescriptionHTML: h.TextProcessor.Render(pin.Description),
		CaptionHTML:     h.TextProcessor.Render(pin.Caption),
		TagsInput:       markdown.JoinTags(pin.Tags),
	}
}

func (h *Handler) renderPins(pins []domain.Pin) []*frontend_domain.Pin {
	rendered := make([]*frontend_domain.Pin, len(pins))
	for i, pin := range pins {
		rendered[i] = h.renderPin(pin)
	}
	return rendered
}
