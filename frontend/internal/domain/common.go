package frontend_domain

import "github.com/whimsyboard/whimsy/shared/domain"

// CommonTemplateData holds fields that are common to all page templates.
// Available in templates as .Common via the TemplateData wrapper.
type CommonTemplateData struct {
	Error            string
	Success          string
	User             *domain.User
	LoggedIn         bool
	Validation       ValidationData
	CSRFToken        string // CSRF token for form submissions
	EmailPlaceholder string // Pre-filled email for auth forms (from cookie, not URL)
	CurrentPath      string
}

// ValidationData holds the limits templates put on form inputs so the
// browser enforces the same bounds the handlers do.
type ValidationData struct {
	// Auth-related validation
	PasswordMinLen int

	// Board-related validation
	BoardNameMaxLen        int
	BoardDescriptionMaxLen int

	// Pin-related validation
	PinTitleMaxLen       int
	PinDescriptionMaxLen int
	MaxTagsPerPin        int

	// Upload-related validation
	MaxUploadSize         int64
	AllowedImageMimeTypes []string
}
