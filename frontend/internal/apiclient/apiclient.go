package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/whimsyboard/whimsy/shared/api"
	internal_errors "github.com/whimsyboard/whimsy/shared/errors"
	"github.com/whimsyboard/whimsy/shared/logger"
	mw "github.com/whimsyboard/whimsy/shared/middleware"
	"github.com/whimsyboard/whimsy/shared/middleware/metrics"
	"github.com/whimsyboard/whimsy/shared/utils"
)

// APIClient struct handles all communication with the board API.
type APIClient struct {
	BaseURL    string
	HttpClient *http.Client
}

// New creates a client for the API rooted at baseURL (without the /api prefix).
func New(baseURL string, timeout time.Duration) *APIClient {
	return &APIClient{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HttpClient: &http.Client{Timeout: timeout},
	}
}

// do is the single helper for API requests. A non-empty token is sent as a
// bearer credential; a non-nil body is sent as JSON.
func (c *APIClient) do(ctx context.Context, method, path, token string, body any) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create API request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if id := mw.RequestIDFromContext(ctx); id != "" {
		req.Header.Set(mw.RequestIDHeader, id)
	}

	resp, err := c.HttpClient.Do(req)
	if err != nil {
		logger.Log.Warn("api request failed", "method", method, "path", path, "error", err)
		return nil, &internal_errors.ErrorWithStatusCode{
			Message:    "backend unavailable",
			StatusCode: http.StatusBadGateway,
		}
	}
	return resp, nil
}

// call performs a request and decodes a 2xx body into out (when out is
// non-nil). Any other status becomes an ErrorWithStatusCode carrying the
// API's message.
func (c *APIClient) call(ctx context.Context, operation, method, path, token string, body, out any) error {
	resp, err := c.do(ctx, method, path, token, body)
	if err != nil {
		metrics.ObserveUpstream(operation, metrics.Outcome(0))
		return err
	}
	defer resp.Body.Close()
	metrics.ObserveUpstream(operation, metrics.Outcome(resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return apiError(resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := utils.Decode(resp.Body, out); err != nil {
		return fmt.Errorf("cannot decode %s response: %w", operation, err)
	}
	return nil
}

// apiError extracts {"message": ...} (or {"error": ...}) from an error
// response, falling back to the raw body or the status text.
func apiError(resp *http.Response) error {
	bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))

	var parsed api.MessageResponse
	msg := ""
	if json.Unmarshal(bodyBytes, &parsed) == nil {
		msg = parsed.Message
		if msg == "" {
			msg = parsed.Error
		}
	} else {
		msg = strings.TrimSpace(string(bodyBytes))
	}
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}

	return &internal_errors.ErrorWithStatusCode{Message: msg, StatusCode: resp.StatusCode}
}
