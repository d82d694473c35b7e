package imagehost

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/whimsyboard/whimsy/shared/domain"
)

// Downscale fits img into a maxDimension square, keeping the aspect ratio.
// JPEG input stays JPEG; everything else is re-encoded as PNG, since the
// standard encoders cannot write GIF animation or WebP. Images already within
// bounds are returned unchanged.
func Downscale(img *domain.PendingImage, maxDimension int) (*domain.PendingImage, error) {
	if maxDimension <= 0 || (img.Width <= maxDimension && img.Height <= maxDimension) {
		return img, nil
	}

	decoded, err := imaging.Decode(bytes.NewReader(img.Data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image for resizing: %w", err)
	}
	resized := imaging.Fit(decoded, maxDimension, maxDimension, imaging.Lanczos)

	format, mimeType, ext := imaging.PNG, "image/png", ".png"
	if img.MimeType == "image/jpeg" {
		format, mimeType, ext = imaging.JPEG, "image/jpeg", ".jpg"
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, resized, format); err != nil {
		return nil, fmt.Errorf("failed to encode resized image: %w", err)
	}

	bounds := resized.Bounds()
	return &domain.PendingImage{
		Filename: strings.TrimSuffix(img.Filename, filepath.Ext(img.Filename)) + ext,
		MimeType: mimeType,
		Width:    bounds.Dx(),
		Height:   bounds.Dy(),
		Data:     buf.Bytes(),
	}, nil
}
