package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/whimsyboard/whimsy/shared/api"
	"github.com/whimsyboard/whimsy/shared/domain"
)

// pinList accepts both a bare array and {"pins": [...]}.
type pinList []domain.Pin

func (l *pinList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		return json.Unmarshal(data, (*[]domain.Pin)(l))
	}
	var wrapped struct {
		Pins []domain.Pin `json:"pins"`
	}
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return err
	}
	*l = wrapped.Pins
	return nil
}

func (c *APIClient) ListPins(ctx context.Context, token domain.Token, boardID domain.BoardId) ([]domain.Pin, error) {
	var pins pinList
	if err := c.call(ctx, "list_pins", http.MethodGet, "/api/pins/board/"+url.PathEscape(boardID), token, nil, &pins); err != nil {
		return nil, err
	}
	if pins == nil {
		return []domain.Pin{}, nil
	}
	return pins, nil
}

func (c *APIClient) CreatePin(ctx context.Context, token domain.Token, data api.CreatePinRequest) (domain.Pin, error) {
	var response api.PinResponse
	if err := c.call(ctx, "create_pin", http.MethodPost, "/api/pins", token, data, &response); err != nil {
		return domain.Pin{}, err
	}
	return response.Pin, nil
}

func (c *APIClient) UpdatePin(ctx context.Context, token domain.Token, id domain.PinId, data api.UpdatePinRequest) error {
	return c.call(ctx, "update_pin", http.MethodPatch, "/api/pins/"+url.PathEscape(id), token, data, nil)
}

func (c *APIClient) DeletePin(ctx context.Context, token domain.Token, id domain.PinId) error {
	return c.call(ctx, "delete_pin", http.MethodDelete, "/api/pins/"+url.PathEscape(id), token, nil, nil)
}

// SavePin associates an existing pin with another of the user's boards.
func (c *APIClient) SavePin(ctx context.Context, token domain.Token, pinID domain.PinId, boardID domain.BoardId) error {
	return c.call(ctx, "save_pin", http.MethodPost, "/api/pins/"+url.PathEscape(pinID)+"/save", token,
		api.SavePinRequest{Board: boardID}, nil)
}

// GenerateMetadata asks the API's text generator for a caption and tags.
func (c *APIClient) GenerateMetadata(ctx context.Context, token domain.Token, data api.GenerateMetadataRequest) (api.GenerateMetadataResponse, error) {
	var response api.GenerateMetadataResponse
	if err := c.call(ctx, "generate_metadata", http.MethodPost, "/api/ai/generate", token, data, &response); err != nil {
		return api.GenerateMetadataResponse{}, err
	}
	return response, nil
}
