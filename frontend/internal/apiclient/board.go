package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/whimsyboard/whimsy/shared/api"
	"github.com/whimsyboard/whimsy/shared/domain"
	internal_errors "github.com/whimsyboard/whimsy/shared/errors"
)

// === Board Methods ===

// boardList accepts both a bare array and {"boards": [...]}.
type boardList []domain.Board

func (l *boardList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		return json.Unmarshal(data, (*[]domain.Board)(l))
	}
	var wrapped api.BoardListResponse
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return err
	}
	*l = wrapped.Boards
	return nil
}

// boardEnvelope accepts both {"board": {...}} and a bare board.
type boardEnvelope struct {
	domain.Board
}

func (e *boardEnvelope) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	if _, ok := fields["board"]; ok {
		var wrapped api.BoardResponse
		if err := json.Unmarshal(data, &wrapped); err != nil {
			return err
		}
		e.Board = wrapped.Board
		return nil
	}
	return json.Unmarshal(data, &e.Board)
}

func (c *APIClient) ListBoards(ctx context.Context, token domain.Token) ([]domain.Board, error) {
	var boards boardList
	if err := c.call(ctx, "list_boards", http.MethodGet, "/api/boards", token, nil, &boards); err != nil {
		return nil, err
	}
	if boards == nil {
		return []domain.Board{}, nil
	}
	return boards, nil
}

func (c *APIClient) GetBoard(ctx context.Context, token domain.Token, id domain.BoardId) (domain.Board, error) {
	var envelope boardEnvelope
	err := c.call(ctx, "get_board", http.MethodGet, "/api/boards/"+url.PathEscape(id), token, nil, &envelope)
	if internal_errors.StatusCode(err) == http.StatusNotFound {
		return domain.Board{}, &internal_errors.ErrorWithStatusCode{
			Message: fmt.Sprintf("board %s not found", id), StatusCode: http.StatusNotFound,
		}
	}
	if err != nil {
		return domain.Board{}, err
	}
	return envelope.Board, nil
}

func (c *APIClient) CreateBoard(ctx context.Context, token domain.Token, data api.BoardRequest) (domain.Board, error) {
	var envelope boardEnvelope
	if err := c.call(ctx, "create_board", http.MethodPost, "/api/boards", token, data, &envelope); err != nil {
		return domain.Board{}, err
	}
	return envelope.Board, nil
}

func (c *APIClient) UpdateBoard(ctx context.Context, token domain.Token, id domain.BoardId, data api.BoardRequest) error {
	return c.call(ctx, "update_board", http.MethodPatch, "/api/boards/"+url.PathEscape(id), token, data, nil)
}

func (c *APIClient) DeleteBoard(ctx context.Context, token domain.Token, id domain.BoardId) error {
	return c.call(ctx, "delete_board", http.MethodDelete, "/api/boards/"+url.PathEscape(id), token, nil, nil)
}
