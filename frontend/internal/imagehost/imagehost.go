// Package imagehost uploads pin images to the third-party image host using
// an unsigned upload preset.
package imagehost

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"path/filepath"
	"strings"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/whimsyboard/whimsy/shared/api"
	"github.com/whimsyboard/whimsy/shared/domain"
	internal_errors "github.com/whimsyboard/whimsy/shared/errors"
	"github.com/whimsyboard/whimsy/shared/logger"
	"github.com/whimsyboard/whimsy/shared/middleware/metrics"
	"github.com/whimsyboard/whimsy/shared/utils"
)

const publicIDLength = 12

type Client struct {
	UploadURL    string
	UploadPreset string
	// MaxDimension bounds the longer side of uploaded images; 0 disables resizing.
	MaxDimension int
	HttpClient   *http.Client
}

func New(uploadURL, uploadPreset string, maxDimension int, timeout time.Duration) *Client {
	return &Client{
		UploadURL:    uploadURL,
		UploadPreset: uploadPreset,
		MaxDimension: maxDimension,
		HttpClient:   &http.Client{Timeout: timeout},
	}
}

// UploadImage sends img to the host and returns the public https URL.
func (c *Client) UploadImage(ctx context.Context, img *domain.PendingImage) (domain.ImageURL, error) {
	img, err := Downscale(img, c.MaxDimension)
	if err != nil {
		return "", err
	}

	publicID, err := gonanoid.New(publicIDLength)
	if err != nil {
		return "", fmt.Errorf("failed to generate public id: %w", err)
	}

	body, contentType, err := buildForm(img, c.UploadPreset, publicID)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.UploadURL, body)
	if err != nil {
		return "", fmt.Errorf("failed to create upload request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.HttpClient.Do(req)
	if err != nil {
		metrics.ObserveUpstream("upload_image", metrics.Outcome(0))
		logger.Log.Warn("image upload failed", "error", err)
		return "", internal_errors.New("image host unavailable", http.StatusBadGateway)
	}
	defer resp.Body.Close()
	metrics.ObserveUpstream("upload_image", metrics.Outcome(resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		logger.Log.Warn("image host rejected upload", "status", resp.StatusCode, "body", string(detail))
		return "", internal_errors.New("image host rejected the upload", http.StatusBadGateway)
	}

	var uploaded api.UploadResponse
	if err := utils.Decode(resp.Body, &uploaded); err != nil {
		return "", fmt.Errorf("cannot decode upload response: %w", err)
	}
	if uploaded.SecureURL == "" {
		return "", internal_errors.New("image host returned no url", http.StatusBadGateway)
	}
	return uploaded.SecureURL, nil
}

func buildForm(img *domain.PendingImage, preset, publicID string) (io.Reader, string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	filename := img.Filename
	if filename == "" {
		filename = publicID
	}
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, escapeQuotes(filepath.Base(filename))))
	header.Set("Content-Type", img.MimeType)
	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create file part: %w", err)
	}
	if _, err := part.Write(img.Data); err != nil {
		return nil, "", fmt.Errorf("failed to write file part: %w", err)
	}

	if err := writer.WriteField("upload_preset", preset); err != nil {
		return nil, "", err
	}
	if err := writer.WriteField("public_id", publicID); err != nil {
		return nil, "", err
	}
	if err := writer.Close(); err != nil {
		return nil, "", err
	}
	return &buf, writer.FormDataContentType(), nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}
