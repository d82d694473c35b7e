package validation

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strings"
)

// ValidateAndParseMultipart caps the request body at maxSize and parses the
// multipart form. It is a no-op when the form was already parsed.
// Oversized bodies yield ErrPayloadTooLarge, anything else unparseable
// ErrInvalidForm.
//
// Exceeding the cap makes the server stop reading, which browsers report as
// a connection reset. Forms declare the limit so most users never hit it.
func ValidateAndParseMultipart(r *http.Request, w http.ResponseWriter, maxSize int64) error {
	if r.MultipartForm != nil {
		return nil
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxSize)
	if err := r.ParseMultipartForm(maxSize); err != nil {
		if isTooLarge(err) {
			return fmt.Errorf("%w: failed to parse multipart form", ErrPayloadTooLarge)
		}
		return fmt.Errorf("%w: %v", ErrInvalidForm, err)
	}

	return nil
}

func isTooLarge(err error) bool {
	var maxBytes *http.MaxBytesError
	return errors.As(err, &maxBytes) ||
		errors.Is(err, multipart.ErrMessageTooLarge) ||
		strings.Contains(err.Error(), "request body too large")
}

// CalculateMaxRequestSize returns the maximum request size including overhead buffer.
func CalculateMaxRequestSize(maxUploadSize int64, bufferSize int64) int64 {
	return maxUploadSize + bufferSize
}

// FormatSizeMB converts bytes to megabytes for user-friendly error messages.
func FormatSizeMB(bytes int64) float64 {
	return float64(bytes) / (1024 * 1024)
}
