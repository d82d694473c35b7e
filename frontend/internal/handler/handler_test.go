package handler

import (
	"context"
	"encoding/base64"
	"html/template"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
	"github.com/whimsyboard/whimsy/frontend/internal/markdown"
	"github.com/whimsyboard/whimsy/frontend/internal/session"
	"github.com/whimsyboard/whimsy/shared/api"
	"github.com/whimsyboard/whimsy/shared/config"
	"github.com/whimsyboard/whimsy/shared/domain"
)

type MockBackend struct {
	MockLogin            func(email, password string) (string, error)
	MockRegister         func(email, password string) error
	MockListBoards       func(token string) ([]domain.Board, error)
	MockGetBoard         func(token, id string) (domain.Board, error)
	MockCreateBoard      func(token string, data api.BoardRequest) (domain.Board, error)
	MockUpdateBoard      func(token, id string, data api.BoardRequest) error
	MockDeleteBoard      func(token, id string) error
	MockListPins         func(token, boardID string) ([]domain.Pin, error)
	MockCreatePin        func(token string, data api.CreatePinRequest) (domain.Pin, error)
	MockUpdatePin        func(token, id string, data api.UpdatePinRequest) error
	MockDeletePin        func(token, id string) error
	MockSavePin          func(token, pinID, boardID string) error
	MockGenerateMetadata func(token string, data api.GenerateMetadataRequest) (api.GenerateMetadataResponse, error)
}

func (m *MockBackend) Login(ctx context.Context, email, password string) (string, error) {
	if m.MockLogin != nil {
		return m.MockLogin(email, password)
	}
	return "", nil
}

func (m *MockBackend) Register(ctx context.Context, email, password string) error {
	if m.MockRegister != nil {
		return m.MockRegister(email, password)
	}
	return nil
}

func (m *MockBackend) ListBoards(ctx context.Context, token string) ([]domain.Board, error) {
	if m.MockListBoards != nil {
		return m.MockListBoards(token)
	}
	return nil, nil
}

func (m *MockBackend) GetBoard(ctx context.Context, token, id string) (domain.Board, error) {
	if m.MockGetBoard != nil {
		return m.MockGetBoard(token, id)
	}
	return domain.Board{Id: id}, nil
}

func (m *MockBackend) CreateBoard(ctx context.Context, token string, data api.BoardRequest) (domain.Board, error) {
	if m.MockCreateBoard != nil {
		return m.MockCreateBoard(token, data)
	}
	return domain.Board{}, nil
}

func (m *MockBackend) UpdateBoard(ctx context.Context, token, id string, data api.BoardRequest) error {
	if m.MockUpdateBoard != nil {
		return m.MockUpdateBoard(token, id, data)
	}
	return nil
}

func (m *MockBackend) DeleteBoard(ctx context.Context, token, id string) error {
	if m.MockDeleteBoard != nil {
		return m.MockDeleteBoard(token, id)
	}
	return nil
}

func (m *MockBackend) ListPins(ctx context.Context, token, boardID string) ([]domain.Pin, error) {
	if m.MockListPins != nil {
		return m.MockListPins(token, boardID)
	}
	return nil, nil
}

func (m *MockBackend) CreatePin(ctx context.Context, token string, data api.CreatePinRequest) (domain.Pin, error) {
	if m.MockCreatePin != nil {
		return m.MockCreatePin(token, data)
	}
	return domain.Pin{}, nil
}

func (m *MockBackend) UpdatePin(ctx context.Context, token, id string, data api.UpdatePinRequest) error {
	if m.MockUpdatePin != nil {
		return m.MockUpdatePin(token, id, data)
	}
	return nil
}

func (m *MockBackend) DeletePin(ctx context.Context, token, id string) error {
	if m.MockDeletePin != nil {
		return m.MockDeletePin(token, id)
	}
	return nil
}

func (m *MockBackend) SavePin(ctx context.Context, token, pinID, boardID string) error {
	if m.MockSavePin != nil {
		return m.MockSavePin(token, pinID, boardID)
	}
	return nil
}

func (m *MockBackend) GenerateMetadata(ctx context.Context, token string, data api.GenerateMetadataRequest) (api.GenerateMetadataResponse, error) {
	if m.MockGenerateMetadata != nil {
		return m.MockGenerateMetadata(token, data)
	}
	return api.GenerateMetadataResponse{}, nil
}

type MockUploader struct {
	MockUploadImage func(img *domain.PendingImage) (string, error)
}

func (m *MockUploader) UploadImage(ctx context.Context, img *domain.PendingImage) (string, error) {
	if m.MockUploadImage != nil {
		return m.MockUploadImage(img)
	}
	return "https://cdn.example/uploaded.png", nil
}

const testToken = "tok"

var testPublic = config.Public{
	SessionTTL:             time.Hour,
	BoardNameMaxLen:        20,
	BoardDescriptionMaxLen: 100,
	PinTitleMaxLen:         20,
	PinDescriptionMaxLen:   100,
	MaxTagsPerPin:          3,
	PasswordMinLen:         6,
	MaxUploadSize:          1 << 20,
	MaxImageDimension:      1024,
	AllowedImageMimeTypes:  []string{"image/png", "image/jpeg"},
}

// testTemplates render just enough of each page for assertions.
var testTemplates = map[string]string{
	"index.html":        `index|{{.Common.Error}}|{{.Common.Success}}|{{.Data.BoardsError}}|{{range .Data.Boards}}[{{.Name}}]{{end}}`,
	"boards.html":       `boards|{{.Data.BoardsError}}|{{range .Data.Boards}}[{{.Name}}:{{.DescriptionHTML}}]{{else}}No boards available!{{end}}`,
	"create_board.html": `create|{{.Common.Error}}`,
	"edit_board.html":   `edit|{{.Data.Board.Name}}`,
	"board.html":        `board|{{.Common.Error}}|{{with .Data.Board}}{{.Name}}{{end}}|{{range .Data.Pins}}[{{.Title}}{{if eq .Id $.Data.EditingPin}}:editing{{end}}]{{else}}No pins yet.{{end}}`,
	"save_pin.html":     `save|{{.Data.BoardID}}|{{.Data.Pin.Title}}|{{range .Data.Boards}}[{{.Id}}]{{end}}`,
	"login.html":        `login|{{.Common.Error}}|{{.Common.Success}}|{{.Common.EmailPlaceholder}}|{{.Common.CSRFToken}}`,
	"signup.html":       `signup|{{.Common.Error}}`,
}

func newTestHandler(t *testing.T, backend *MockBackend, uploader *MockUploader) *Handler {
	t.Helper()
	templates := make(map[string]*template.Template, len(testTemplates))
	for name, text := range testTemplates {
		templates[name] = template.Must(template.New(name).Parse(text))
	}
	if uploader == nil {
		uploader = &MockUploader{}
	}
	return New(templates, testPublic, markdown.New(), backend, uploader, session.New(false, time.Hour))
}

// newTestRouter mounts the handlers the way the real router does, with a
// session already in context.
func newTestRouter(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := session.NewContext(r.Context(), &session.Session{Token: testToken})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	})
	r.Get("/", h.IndexGetHandler)
	r.Post("/", h.IndexPostHandler)
	r.Get("/boards", h.BoardsGetHandler)
	r.Get("/create-board", h.CreateBoardGetHandler)
	r.Post("/create-board", h.CreateBoardPostHandler)
	r.Get("/board/{boardID}", h.BoardGetHandler)
	r.Get("/board/{boardID}/edit", h.EditBoardGetHandler)
	r.Post("/board/{boardID}/edit", h.EditBoardPostHandler)
	r.Post("/board/{boardID}/delete", h.DeleteBoardPostHandler)
	r.Post("/board/{boardID}/pins", h.PinCreatePostHandler)
	r.Post("/board/{boardID}/pins/{pinID}/edit", h.PinEditPostHandler)
	r.Post("/board/{boardID}/pins/{pinID}/delete", h.PinDeletePostHandler)
	r.Post("/board/{boardID}/pins/{pinID}/generate", h.PinGeneratePostHandler)
	r.Get("/board/{boardID}/pins/{pinID}/save", h.SavePinGetHandler)
	r.Post("/board/{boardID}/pins/{pinID}/save", h.SavePinPostHandler)
	r.Post("/upload", h.UploadPostHandler)
	r.Post("/generate", h.GeneratePostHandler)
	return r
}

func postForm(target string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

// flashValue decodes the flash cookie name set on the response, or "".
func flashValue(t *testing.T, rr *httptest.ResponseRecorder, name string) string {
	t.Helper()
	for _, c := range rr.Result().Cookies() {
		if c.Name == name && c.MaxAge > 0 {
			decoded, err := base64.URLEncoding.DecodeString(c.Value)
			require.NoError(t, err)
			return string(decoded)
		}
	}
	return ""
}
