package api

import "github.com/whimsyboard/whimsy/shared/domain"

// Request DTOs

type CreatePinRequest struct {
	Title       domain.PinTitle `json:"title"`
	ImageURL    domain.ImageURL `json:"imageUrl"`
	Description string          `json:"description,omitempty"`
	Caption     string          `json:"caption,omitempty"`
	Tags        domain.Tags     `json:"tags,omitempty"`
	Board       domain.BoardId  `json:"board"`
}

// UpdatePinRequest is a partial update: nil fields are left untouched.
type UpdatePinRequest struct {
	Title       *domain.PinTitle `json:"title,omitempty"`
	Description *string          `json:"description,omitempty"`
	Caption     *string          `json:"caption,omitempty"`
	Tags        *domain.Tags     `json:"tags,omitempty"`
}

type SavePinRequest struct {
	Board domain.BoardId `json:"board"`
}

type GenerateMetadataRequest struct {
	ImageURL domain.ImageURL `json:"imageUrl"`
	Title    domain.PinTitle `json:"title,omitempty"`
}

// Response DTOs

type PinResponse struct {
	Message string     `json:"message,omitempty"`
	Pin     domain.Pin `json:"pin"`
}

type GenerateMetadataResponse struct {
	Caption string      `json:"caption"`
	Tags    domain.Tags `json:"tags"`
}

// UploadResponse is what the image host returns, and what the frontend's own
// upload endpoint returns to page scripts.
type UploadResponse struct {
	SecureURL string `json:"secure_url"`
}
