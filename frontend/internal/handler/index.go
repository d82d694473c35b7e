package handler

import (
	"net/http"
	"strings"

	frontend_domain "github.com/whimsyboard/whimsy/frontend/internal/domain"
	"github.com/whimsyboard/whimsy/frontend/internal/flash"
	"github.com/whimsyboard/whimsy/frontend/internal/middleware"
	"github.com/whimsyboard/whimsy/frontend/internal/session"
	"github.com/whimsyboard/whimsy/shared/api"
	internal_errors "github.com/whimsyboard/whimsy/shared/errors"
	"github.com/whimsyboard/whimsy/shared/logger"
)

// IndexGetHandler renders the dashboard. Visitors get the welcome page;
// logged-in users also get their boards with create, edit and delete forms.
func (h *Handler) IndexGetHandler(w http.ResponseWriter, r *http.Request) {
	var data frontend_domain.IndexPageData

	if s := session.FromRequest(r); s != nil {
		boards, err := h.APIClient.ListBoards(r.Context(), s.Token)
		switch {
		case internal_errors.IsUnauthorized(err):
			h.Sessions.Clear(w)
			h.redirectWithFlash(w, r, "/login", flash.Error, middleware.LoginRequired)
			return
		case err != nil:
			logger.Log.Error("listing boards for dashboard", "error", err)
			data.BoardsError = "Failed to fetch boards!"
		default:
			data.Boards = h.renderBoards(boards)
		}
	}

	h.renderTemplate(w, r, "index.html", data)
}

// IndexPostHandler creates a board from the dashboard form.
func (h *Handler) IndexPostHandler(w http.ResponseWriter, r *http.Request) {
	h.createBoard(w, r, "/")
}

func (h *Handler) createBoard(w http.ResponseWriter, r *http.Request, targetURL string) {
	if err := h.parseForm(w, r); err != nil {
		h.redirectWithFlash(w, r, targetURL, flash.Error, formMessage(err))
		return
	}

	req, msg := h.boardRequestFromForm(r)
	if msg != "" {
		h.redirectWithFlash(w, r, targetURL, flash.Error, msg)
		return
	}

	if _, err := h.APIClient.CreateBoard(r.Context(), token(r), req); err != nil {
		h.redirectOnAPIError(w, r, err, targetURL, "Error creating board!")
		return
	}

	h.redirectWithFlash(w, r, targetURL, flash.Success, "Board created!")
}

func (h *Handler) boardRequestFromForm(r *http.Request) (api.BoardRequest, string) {
	req := api.BoardRequest{
		Name:        strings.TrimSpace(r.FormValue("name")),
		Description: strings.TrimSpace(r.FormValue("description")),
	}
	msg := validateForm(
		field("Board name", req.Name, "required,"+maxLen(h.Public.BoardNameMaxLen)),
		field("Description", req.Description, "omitempty,"+maxLen(h.Public.BoardDescriptionMaxLen)),
	)
	return req, msg
}
