package api

import (
	"github.com/whimsyboard/whimsy/shared/domain"
)

// Request DTOs

// BoardRequest is used for both create and update.
type BoardRequest struct {
	Name        domain.BoardName        `json:"name"`
	Description domain.BoardDescription `json:"description"`
}

// Response DTOs

type BoardResponse struct {
	Message string       `json:"message,omitempty"`
	Board   domain.Board `json:"board"`
}

// BoardListResponse is the wrapped list shape. Some API versions answer with
// a bare array instead.
type BoardListResponse struct {
	Boards []domain.Board `json:"boards"`
}
