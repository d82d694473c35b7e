package handler

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	frontend_domain "github.com/whimsyboard/whimsy/frontend/internal/domain"
	"github.com/whimsyboard/whimsy/frontend/internal/flash"
	"github.com/whimsyboard/whimsy/shared/domain"
	internal_errors "github.com/whimsyboard/whimsy/shared/errors"
	"github.com/whimsyboard/whimsy/shared/logger"
	"golang.org/x/sync/errgroup"
)

func boardURL(id domain.BoardId) string {
	return fmt.Sprintf("/board/%s", url.PathEscape(id))
}

// BoardsGetHandler renders the board list.
func (h *Handler) BoardsGetHandler(w http.ResponseWriter, r *http.Request) {
	var data frontend_domain.BoardsPageData

	boards, err := h.APIClient.ListBoards(r.Context(), token(r))
	switch {
	case internal_errors.IsUnauthorized(err):
		w.WriteHeader(http.StatusUnauthorized)
		return
	case err != nil:
		logger.Log.Error("listing boards", "error", err)
		data.BoardsError = "Failed to fetch boards!"
	default:
		data.Boards = h.renderBoards(boards)
	}

	h.renderTemplate(w, r, "boards.html", data)
}

func (h *Handler) CreateBoardGetHandler(w http.ResponseWriter, r *http.Request) {
	h.renderTemplate(w, r, "create_board.html", nil)
}

func (h *Handler) CreateBoardPostHandler(w http.ResponseWriter, r *http.Request) {
	targetURL := "/create-board"

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
		h.redirectOnAPIError(w, r, err, targetURL, "Failed to create board!")
		return
	}

	h.redirectWithFlash(w, r, "/boards", flash.Success, "Board created!")
}

func (h *Handler) EditBoardGetHandler(w http.ResponseWriter, r *http.Request) {
	boardID := chi.URLParam(r, "boardID")

	board, err := h.APIClient.GetBoard(r.Context(), token(r), boardID)
	if err != nil {
		h.redirectOnAPIError(w, r, err, "/", "Unable to fetch Board data!")
		return
	}

	h.renderTemplate(w, r, "edit_board.html", frontend_domain.EditBoardPageData{Board: h.renderBoard(board)})
}

func (h *Handler) EditBoardPostHandler(w http.ResponseWriter, r *http.Request) {
	boardID := chi.URLParam(r, "boardID")
	formURL := boardURL(boardID) + "/edit"

	if err := h.parseForm(w, r); err != nil {
		h.redirectWithFlash(w, r, formURL, flash.Error, formMessage(err))
		return
	}
	req, msg := h.boardRequestFromForm(r)
	if msg != "" {
		h.redirectWithFlash(w, r, formURL, flash.Error, msg)
		return
	}

	if err := h.APIClient.UpdateBoard(r.Context(), token(r), boardID, req); err != nil {
		h.redirectOnAPIError(w, r, err, formURL, "Error updating the board!")
		return
	}

	h.redirectWithFlash(w, r, "/", flash.Success, "Board updated!")
}

func (h *Handler) DeleteBoardPostHandler(w http.ResponseWriter, r *http.Request) {
	boardID := chi.URLParam(r, "boardID")

	if err := h.APIClient.DeleteBoard(r.Context(), token(r), boardID); err != nil {
		h.redirectOnAPIError(w, r, err, "/", "Error deleting board")
		return
	}

	h.redirectWithFlash(w, r, "/", flash.Success, "Board deleted")
}

// BoardGetHandler renders a board with its pins. Both reads run concurrently
// and the page fails if either does.
func (h *Handler) BoardGetHandler(w http.ResponseWriter, r *http.Request) {
	boardID := chi.URLParam(r, "boardID")
	tok := token(r)

	var board domain.Board
	var pins []domain.Pin
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		var err error
		board, err = h.APIClient.GetBoard(ctx, tok, boardID)
		return err
	})
	g.Go(func() error {
		var err error
		pins, err = h.APIClient.ListPins(ctx, tok, boardID)
		return err
	})

	if err := g.Wait(); err != nil {
		if internal_errors.IsUnauthorized(err) {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		logger.Log.Error("fetching board detail", "board", boardID, "error", err)
		status := http.StatusBadGateway
		if internal_errors.StatusCode(err) == http.StatusNotFound {
			status = http.StatusNotFound
		}
		h.renderPage(w, r, "board.html", frontend_domain.BoardPageData{}, "Unable to fetch Board data!", status)
		return
	}

	data := frontend_domain.BoardPageData{
		Board:      h.renderBoard(board),
		Pins:       h.renderPins(pins),
		EditingPin: r.URL.Query().Get("edit"),
	}
	h.renderTemplate(w, r, "board.html", data)
}
