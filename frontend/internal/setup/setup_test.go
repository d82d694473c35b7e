package setup

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	frontend_domain "github.com/whimsyboard/whimsy/frontend/internal/domain"
	"github.com/whimsyboard/whimsy/frontend/internal/handler"
	"github.com/whimsyboard/whimsy/shared/domain"
)

const templatesDir = "../../templates"

func TestDict(t *testing.T) {
	m, err := dict("a", 1, "b", "two")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": 1, "b": "two"}, m)

	_, err = dict("a")
	assert.Error(t, err)

	_, err = dict(1, 2)
	assert.Error(t, err)
}

func TestMimeTypeExtensions(t *testing.T) {
	assert.Equal(t, "jpeg, png, webp", mimeTypeExtensions([]string{"image/jpeg", "image/png", "image/webp"}))
	assert.Equal(t, "", mimeTypeExtensions(nil))
}

func TestBytesToMB(t *testing.T) {
	assert.Equal(t, int64(10), bytesToMB(10*1024*1024))
	assert.Equal(t, int64(0), bytesToMB(1024))
}

func TestLoadTemplates(t *testing.T) {
	templates, err := loadTemplates(templatesDir)
	require.NoError(t, err)

	for _, name := range []string{"index.html", "boards.html", "create_board.html", "edit_board.html", "board.html", "save_pin.html", "login.html", "signup.html"} {
		assert.Contains(t, templates, name)
	}
	assert.NotContains(t, templates, baseTemplate)
	assert.NotContains(t, templates, partialsTemplate)
}

func TestTemplatesRender(t *testing.T) {
	templates, err := loadTemplates(templatesDir)
	require.NoError(t, err)

	common := frontend_domain.CommonTemplateData{
		LoggedIn:  true,
		CSRFToken: "csrf-123",
		User:      &domain.User{Email: "ada@example.com"},
		Validation: frontend_domain.ValidationData{
			PasswordMinLen:        6,
			BoardNameMaxLen:       100,
			PinTitleMaxLen:        120,
			MaxTagsPerPin:         10,
			MaxUploadSize:         10 << 20,
			AllowedImageMimeTypes: []string{"image/jpeg", "image/png"},
		},
	}
	board := &frontend_domain.Board{Board: domain.Board{Id: "b1", Name: "Plants"}, DescriptionHTML: "<p>green</p>"}
	pin := &frontend_domain.Pin{
		Pin:       domain.Pin{Id: "p1", Title: "Fern", ImageURL: "https://img/1.png", Tags: domain.Tags{"moss"}, Board: domain.BoardRef{Id: "b1"}},
		TagsInput: "moss",
	}

	tests := []struct {
		name     string
		template string
		data     any
		common   frontend_domain.CommonTemplateData
		contains []string
	}{
		{
			name:     "dashboard",
			template: "index.html",
			data:     frontend_domain.IndexPageData{Boards: []*frontend_domain.Board{board}},
			common:   common,
			contains: []string{"Plants", `action="/board/b1/delete"`, `value="csrf-123"`, "ada@example.com"},
		},
		{
			name:     "welcome",
			template: "index.html",
			data:     frontend_domain.IndexPageData{},
			contains: []string{"Welcome to Whimsy Board", `href="/login"`},
		},
		{
			name:     "empty board list",
			template: "boards.html",
			data:     frontend_domain.BoardsPageData{},
			common:   common,
			contains: []string{"No boards available!"},
		},
		{
			name:     "board detail",
			template: "board.html",
			data:     frontend_domain.BoardPageData{Board: board, Pins: []*frontend_domain.Pin{pin}},
			common:   common,
			contains: []string{"Fern", "#moss", `accept="image/jpeg,image/png"`, "jpeg, png up to 10 MB", `/board/b1/pins/p1/generate`},
		},
		{
			name:     "board detail editing pin",
			template: "board.html",
			data:     frontend_domain.BoardPageData{Board: board, Pins: []*frontend_domain.Pin{pin}, EditingPin: "p1"},
			common:   common,
			contains: []string{`action="/board/b1/pins/p1/edit"`, `value="Fern"`},
		},
		{
			name:     "board without pins",
			template: "board.html",
			data:     frontend_domain.BoardPageData{Board: board},
			common:   common,
			contains: []string{"No pins yet."},
		},
		{
			name:     "board fetch failure",
			template: "board.html",
			data:     frontend_domain.BoardPageData{},
			common:   common,
			contains: []string{"Unable to fetch Board data!"},
		},
		{
			name:     "save dialog",
			template: "save_pin.html",
			data:     frontend_domain.SavePinPageData{BoardID: "b1", Board: board, Pin: pin, Boards: []domain.Board{{Id: "b2", Name: "Cats"}}},
			common:   common,
			contains: []string{`<option value="b2">Cats</option>`, `href="/board/b1"`},
		},
		{
			name:     "save dialog for pin without board reference",
			template: "save_pin.html",
			data:     frontend_domain.SavePinPageData{BoardID: "b1", Pin: &frontend_domain.Pin{Pin: domain.Pin{Id: "p1", Title: "Fern", ImageURL: "https://img/1.png"}}},
			common:   common,
			contains: []string{`<a href="/board/b1">Back</a>`, "No boards available!"},
		},
		{
			name:     "login with prefill",
			template: "login.html",
			common:   frontend_domain.CommonTemplateData{EmailPlaceholder: "ada@example.com", Error: "Login Failed!!"},
			contains: []string{`value="ada@example.com"`, "Login Failed!!"},
		},
		{
			name:     "signup",
			template: "signup.html",
			common:   frontend_domain.CommonTemplateData{Validation: frontend_domain.ValidationData{PasswordMinLen: 8}},
			contains: []string{`minlength="8"`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			err := templates[tt.template].Execute(&buf, handler.TemplateData{Data: tt.data, Common: tt.common})
			require.NoError(t, err)
			for _, s := range tt.contains {
				assert.Contains(t, buf.String(), s)
			}
		})
	}
}
