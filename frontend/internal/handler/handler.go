package handler

import (
	"context"
	"html/template"
	"sync"

	"github.com/whimsyboard/whimsy/frontend/internal/markdown"
	"github.com/whimsyboard/whimsy/frontend/internal/session"
	"github.com/whimsyboard/whimsy/shared/api"
	"github.com/whimsyboard/whimsy/shared/config"
	"github.com/whimsyboard/whimsy/shared/domain"
)

// Backend is the remote board API as seen by the handlers.
type Backend interface {
	Login(ctx context.Context, email domain.Email, password domain.Password) (domain.Token, error)
	Register(ctx context.Context, email domain.Email, password domain.Password) error

	ListBoards(ctx context.Context, token domain.Token) ([]domain.Board, error)
	GetBoard(ctx context.Context, token domain.Token, id domain.BoardId) (domain.Board, error)
	CreateBoard(ctx context.Context, token domain.Token, data api.BoardRequest) (domain.Board, error)
	UpdateBoard(ctx context.Context, token domain.Token, id domain.BoardId, data api.BoardRequest) error
	DeleteBoard(ctx context.Context, token domain.Token, id domain.BoardId) error

	ListPins(ctx context.Context, token domain.Token, boardID domain.BoardId) ([]domain.Pin, error)
	CreatePin(ctx context.Context, token domain.Token, data api.CreatePinRequest) (domain.Pin, error)
	UpdatePin(ctx context.Context, token domain.Token, id domain.PinId, data api.UpdatePinRequest) error
	DeletePin(ctx context.Context, token domain.Token, id domain.PinId) error
	SavePin(ctx context.Context, token domain.Token, pinID domain.PinId, boardID domain.BoardId) error

	GenerateMetadata(ctx context.Context, token domain.Token, data api.GenerateMetadataRequest) (api.GenerateMetadataResponse, error)
}

// ImageUploader stores a validated image and returns its public URL.
type ImageUploader interface {
	UploadImage(ctx context.Context, img *domain.PendingImage) (domain.ImageURL, error)
}

type Handler struct {
	templatesMu   sync.RWMutex
	Templates     map[string]*template.Template
	Public        config.Public
	TextProcessor *markdown.TextProcessor
	APIClient     Backend
	Images        ImageUploader
	Sessions      *session.Manager
}

func New(templates map[string]*template.Template, publicCfg config.Public, textProcessor *markdown.TextProcessor, apiClient Backend, images ImageUploader, sessions *session.Manager) *Handler {
	return &Handler{
		Templates:     templates,
		Public:        publicCfg,
		TextProcessor: textProcessor,
		APIClient:     apiClient,
		Images:        images,
		Sessions:      sessions,
	}
}

// SetTemplates swaps the template set; used by the development reloader.
func (h *Handler) SetTemplates(templates map[string]*template.Template) {
	h.templatesMu.Lock()
	defer h.templatesMu.Unlock()
	h.Templates = templates
}

func (h *Handler) getTemplate(name string) (*template.Template, bool) {
	h.templatesMu.RLock()
	defer h.templatesMu.RUnlock()
	tmpl, ok := h.Templates[name]
	return tmpl, ok
}
