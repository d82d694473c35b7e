package validation

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allowed = []string{"image/jpeg", "image/png", "image/webp"}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func fileHeader(t *testing.T, filename, contentType string, data []byte) *multipart.FileHeader {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, filename))
	if contentType != "" {
		h.Set("Content-Type", contentType)
	}
	part, err := writer.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))
	return req.MultipartForm.File["file"][0]
}

func TestValidateImage(t *testing.T) {
	t.Run("valid png", func(t *testing.T) {
		fh := fileHeader(t, "fern.png", "image/png", pngBytes(t, 40, 30))

		img, err := ValidateImage(fh, allowed, 1<<20)
		require.NoError(t, err)
		assert.Equal(t, "fern.png", img.Filename)
		assert.Equal(t, "image/png", img.MimeType)
		assert.Equal(t, 40, img.Width)
		assert.Equal(t, 30, img.Height)
		assert.NotEmpty(t, img.Data)
	})

	t.Run("type from extension", func(t *testing.T) {
		fh := fileHeader(t, "fern.png", "application/octet-stream", pngBytes(t, 4, 4))

		img, err := ValidateImage(fh, allowed, 1<<20)
		require.NoError(t, err)
		assert.Equal(t, "image/png", img.MimeType)
	})

	t.Run("type from content", func(t *testing.T) {
		fh := fileHeader(t, "fern", "", pngBytes(t, 4, 4))

		img, err := ValidateImage(fh, allowed, 1<<20)
		require.NoError(t, err)
		assert.Equal(t, "image/png", img.MimeType)
	})

	t.Run("too large", func(t *testing.T) {
		fh := fileHeader(t, "fern.png", "image/png", pngBytes(t, 64, 64))

		_, err := ValidateImage(fh, allowed, 10)
		assert.ErrorIs(t, err, ErrPayloadTooLarge)
		assert.True(t, IsClientError(err))
	})

	t.Run("disallowed type", func(t *testing.T) {
		fh := fileHeader(t, "notes.txt", "text/plain", []byte("hello"))

		_, err := ValidateImage(fh, allowed, 1<<20)
		assert.ErrorIs(t, err, ErrInvalidMimeType)
	})

	t.Run("not an image", func(t *testing.T) {
		fh := fileHeader(t, "fake.png", "image/png", []byte("definitely not a png"))

		_, err := ValidateImage(fh, allowed, 1<<20)
		assert.ErrorIs(t, err, ErrNotAnImage)
	})

	t.Run("nil header", func(t *testing.T) {
		_, err := ValidateImage(nil, allowed, 1<<20)
		assert.ErrorIs(t, err, ErrNoFile)
	})
}

func TestDetectMimeType(t *testing.T) {
	mimeType, err := DetectMimeType("a.jpg", "image/jpeg; charset=binary", nil)
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", mimeType)

	_, err = DetectMimeType("noext", "", nil)
	assert.Error(t, err)
}

func TestValidateAndParseMultipart(t *testing.T) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	require.NoError(t, writer.WriteField("title", "Fern"))
	require.NoError(t, writer.Close())

	t.Run("within limit", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body.Bytes()))
		req.Header.Set("Content-Type", writer.FormDataContentType())

		require.NoError(t, ValidateAndParseMultipart(req, httptest.NewRecorder(), 1<<20))
		assert.Equal(t, "Fern", req.FormValue("title"))
		// second call is a no-op
		require.NoError(t, ValidateAndParseMultipart(req, httptest.NewRecorder(), 1))
	})

	t.Run("over limit", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body.Bytes()))
		req.Header.Set("Content-Type", writer.FormDataContentType())

		err := ValidateAndParseMultipart(req, httptest.NewRecorder(), 10)
		assert.ErrorIs(t, err, ErrPayloadTooLarge)
	})

	t.Run("malformed body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("no parts here"))
		req.Header.Set("Content-Type", "multipart/form-data; boundary=xyz")

		err := ValidateAndParseMultipart(req, httptest.NewRecorder(), 1<<20)
		assert.ErrorIs(t, err, ErrInvalidForm)
		assert.NotErrorIs(t, err, ErrPayloadTooLarge)
	})

	t.Run("missing boundary", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("x"))
		req.Header.Set("Content-Type", "multipart/form-data")

		err := ValidateAndParseMultipart(req, httptest.NewRecorder(), 1<<20)
		assert.ErrorIs(t, err, ErrInvalidForm)
	})
}

func TestFormatSizeMB(t *testing.T) {
	assert.Equal(t, 2.0, FormatSizeMB(2*1024*1024))
	assert.Equal(t, int64(11), CalculateMaxRequestSize(10, 1))
}
