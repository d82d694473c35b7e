package validation

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"slices"

	"github.com/whimsyboard/whimsy/shared/domain"
	_ "golang.org/x/image/webp"
)

// ValidateImage reads an uploaded image, checks its size and type, and
// returns it ready for upload.
func ValidateImage(fileHeader *multipart.FileHeader, allowedMimes []string, maxSize int64) (*domain.PendingImage, error) {
	if fileHeader == nil {
		return nil, ErrNoFile
	}
	if fileHeader.Size > maxSize {
		return nil, fmt.Errorf("%w: %s is %.1f MB, limit is %.1f MB", ErrPayloadTooLarge, fileHeader.Filename, FormatSizeMB(fileHeader.Size), FormatSizeMB(maxSize))
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read uploaded file: %w", err)
	}

	return ValidateImageBytes(fileHeader.Filename, fileHeader.Header.Get("Content-Type"), data, allowedMimes, maxSize)
}

// ValidateImageBytes is ValidateImage for data already in memory.
func ValidateImageBytes(filename, contentType string, data []byte, allowedMimes []string, maxSize int64) (*domain.PendingImage, error) {
	if int64(len(data)) > maxSize {
		return nil, fmt.Errorf("%w: %s exceeds %.1f MB", ErrPayloadTooLarge, filename, FormatSizeMB(maxSize))
	}
	if len(data) == 0 {
		return nil, ErrNoFile
	}

	mimeType, err := DetectMimeType(filename, contentType, data)
	if err != nil {
		return nil, err
	}
	if !slices.Contains(allowedMimes, mimeType) {
		return nil, fmt.Errorf("%w: %s (file: %s)", ErrInvalidMimeType, mimeType, filename)
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNotAnImage, filename)
	}

	return &domain.PendingImage{
		Filename: filename,
		MimeType: mimeType,
		Width:    cfg.Width,
		Height:   cfg.Height,
		Data:     data,
	}, nil
}

// DetectMimeType prefers the declared type, then the extension, then content sniffing.
func DetectMimeType(filename, contentType string, data []byte) (string, error) {
	mimeType := contentType
	if mimeType != "" {
		if parsed, _, err := mime.ParseMediaType(mimeType); err == nil {
			mimeType = parsed
		}
	}

	if mimeType == "" || mimeType == "application/octet-stream" {
		if byExt := mime.TypeByExtension(filepath.Ext(filename)); byExt != "" {
			mimeType, _, _ = mime.ParseMediaType(byExt)
		}
	}

	if (mimeType == "" || mimeType == "application/octet-stream") && len(data) > 0 {
		mimeType, _, _ = mime.ParseMediaType(http.DetectContentType(data))
	}

	if mimeType == "" {
		return "", fmt.Errorf("could not detect MIME type for file: %s", filename)
	}
	return mimeType, nil
}

// IsClientError reports whether err was caused by the uploaded content rather
// than by the server.
func IsClientError(err error) bool {
	return errors.Is(err, ErrPayloadTooLarge) || errors.Is(err, ErrInvalidMimeType) ||
		errors.Is(err, ErrNotAnImage) || errors.Is(err, ErrNoFile)
}
