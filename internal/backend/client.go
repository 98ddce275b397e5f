package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/berat-eth/huglu-storefront/internal/config"
	apperrors "github.com/berat-eth/huglu-storefront/pkg/errors"
)

// Client calls the remote commerce API (cart, orders, payments, wallet).
// All entity state lives on the backend; this client never caches writes.
type Client struct {
	baseURL    string
	serviceKey string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a commerce API client
func NewClient(cfg config.BackendConfig, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	// Normalize base URL - remove trailing slashes
	baseURL := strings.TrimSuffix(strings.TrimSpace(cfg.BaseURL), "/")

	return &Client{
		baseURL:    baseURL,
		serviceKey: cfg.ServiceKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
}

// apiResponse is the backend's standard JSON envelope.
type apiResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// apiError is a backend-reported business error; the raw message is kept so
// the workflow's translation table can match it.
type apiError struct {
	Status  int
	Message string
}

func (e *apiError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("backend returned status %d", e.Status)
}

// doRaw executes one JSON request against the backend and returns the
// response body as-is. Transport failures come back as
// *errors.ErrConnectivity; HTTP-level failures as *apiError with the backend
// message verbatim when one was sent.
func (c *Client) doRaw(ctx context.Context, method, path string, body interface{}) ([]byte, error) {
	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		reqBody = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.serviceKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.serviceKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("Backend request failed", zap.String("method", method), zap.String("path", path), zap.Error(err))
		return nil, &apperrors.ErrConnectivity{Op: method + " " + path, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &apperrors.ErrConnectivity{Op: "read " + path, Err: err}
	}

	if resp.StatusCode == http.StatusNotFound {
		return nil, &apperrors.ErrNotFound{Resource: "resource", ID: path}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var envelope apiResponse
		_ = json.Unmarshal(respBody, &envelope)
		return nil, &apiError{Status: resp.StatusCode, Message: envelope.Message}
	}

	return respBody, nil
}

// do executes one JSON request and unwraps the standard {success, message,
// data} envelope, returning data. A success=false envelope becomes an
// *apiError carrying the backend message verbatim.
func (c *Client) do(ctx context.Context, method, path string, body interface{}) (json.RawMessage, error) {
	respBody, err := c.doRaw(ctx, method, path, body)
	if err != nil {
		return nil, err
	}

	var envelope apiResponse
	if err := json.Unmarshal(respBody, &envelope); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w, body: %s", err, string(respBody))
	}
	if !envelope.Success {
		return nil, &apiError{Status: http.StatusOK, Message: envelope.Message}
	}

	return envelope.Data, nil
}

// IsBusinessError reports whether err is a backend-reported business error
// and returns its raw message.
func IsBusinessError(err error) (string, bool) {
	if apiErr, ok := err.(*apiError); ok {
		return apiErr.Message, true
	}
	return "", false
}
