package handler

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	frontend_domain "github.com/whimsyboard/whimsy/frontend/internal/domain"
	"github.com/whimsyboard/whimsy/frontend/internal/flash"
	"github.com/whimsyboard/whimsy/shared/domain"
	"golang.org/x/sync/errgroup"
)

// SavePinGetHandler renders the save-to-board dialog: the pin and a select of
// the user's other boards.
func (h *Handler) SavePinGetHandler(w http.ResponseWriter, r *http.Request) {
	boardID := chi.URLParam(r, "boardID")
	pinID := chi.URLParam(r, "pinID")
	targetURL := boardURL(boardID)
	tok := token(r)

	var boards []domain.Board
	var pins []domain.Pin
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		var err error
		boards, err = h.APIClient.ListBoards(ctx, tok)
		return err
	})
	g.Go(func() error {
		var err error
		pins, err = h.APIClient.ListPins(ctx, tok, boardID)
		return err
	})
	if err := g.Wait(); err != nil {
		h.redirectOnAPIError(w, r, err, targetURL, "Could not fetch boards.")
		return
	}

	data := frontend_domain.SavePinPageData{BoardID: boardID}
	for _, pin := range pins {
		if pin.Id == pinID {
			data.Pin = h.renderPin(pin)
			break
		}
	}
	if data.Pin == nil {
		h.redirectWithFlash(w, r, targetURL, flash.Error, "Pin not found.")
		return
	}

	for _, board := range boards {
		if board.Id == boardID {
			data.Board = h.renderBoard(board)
			continue
		}
		data.Boards = append(data.Boards, board)
	}

	h.renderTemplate(w, r, "save_pin.html", data)
}

func (h *Handler) SavePinPostHandler(w http.ResponseWriter, r *http.Request) {
	boardID := chi.URLParam(r, "boardID")
	pinID := chi.URLParam(r, "pinID")
	formURL := boardURL(boardID) + "/pins/" + url.PathEscape(pinID) + "/save"

	if err := h.parseForm(w, r); err != nil {
		h.redirectWithFlash(w, r, formURL, flash.Error, formMessage(err))
		return
	}

	target := strings.TrimSpace(r.FormValue("board"))
	if msg := validateForm(field("Board", target, "required")); msg != "" {
		h.redirectWithFlash(w, r, formURL, flash.Error, msg)
		return
	}

	if err := h.APIClient.SavePin(r.Context(), token(r), pinID, target); err != nil {
		h.redirectOnAPIError(w, r, err, formURL, "Could not save pin to board.")
		return
	}

	h.redirectWithFlash(w, r, boardURL(boardID), flash.Success, "Pin saved to the board!")
}
