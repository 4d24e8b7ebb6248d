package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/unifiedcampus/admin-gateway/internal/monitoring"
)

// APIError is an upstream failure the backend responded to: the request
// reached the server but came back with a non-2xx status. Transport-level
// failures (no response at all) are returned as plain wrapped errors
// instead.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("upstream error %d: %s", e.Status, e.Message)
}

// Client issues requests against the university-event backend. The bearer
// token is passed per call rather than held on the client so session
// handling stays with the caller.
type Client struct {
	baseURL string
	hc      *http.Client
	logger  *zap.Logger
}

func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		hc: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// doJSON sends body (already encoded, may be nil) as application/json and
// returns the raw response body. A non-2xx response becomes an *APIError
// carrying the backend's message field, or fallback when the body has none.
func (c *Client) doJSON(ctx context.Context, method, url, token string, body []byte, fallback string) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, fmt.Errorf("doJSON: http.NewRequestWithContext: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	setBearer(req, token)

	return c.do(req, fallback)
}

// doMultipart sends a multipart body. contentType must come from the
// multipart writer so the boundary is preserved; no JSON content-type is
// set.
func (c *Client) doMultipart(ctx context.Context, method, url, token, contentType string, body io.Reader, fallback string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("doMultipart: http.NewRequestWithContext: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	setBearer(req, token)

	return c.do(req, fallback)
}

func (c *Client) do(req *http.Request, fallback string) ([]byte, error) {
	resp, err := c.hc.Do(req)
	if err != nil {
		monitoring.ObserveUpstream(req.Method, "error")
		c.logger.Error("Upstream request failed",
			zap.String("method", req.Method),
			zap.String("url", req.URL.String()),
			zap.Error(err))
		return nil, fmt.Errorf("upstream %s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()
	monitoring.ObserveUpstream(req.Method, strconv.Itoa(resp.StatusCode))

	rbody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("upstream %s %s: read body: %w", req.Method, req.URL.Path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := errorMessage(rbody, fallback)
		c.logger.Error("Upstream returned error",
			zap.String("method", req.Method),
			zap.String("url", req.URL.String()),
			zap.Int("status", resp.StatusCode),
			zap.String("message", msg))
		return nil, &APIError{Status: resp.StatusCode, Message: msg}
	}

	return rbody, nil
}

func setBearer(req *http.Request, token string) {
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

// errorMessage pulls the best-available message out of an error response
// body: the backend uses "message" for expected failures and "error" for
// unexpected ones.
func errorMessage(body []byte, fallback string) string {
	var envelope struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil {
		if envelope.Message != "" {
			return envelope.Message
		}
		if envelope.Error != "" {
			return envelope.Error
		}
	}
	return fallback
}

// decodeList accepts both list shapes the backend produces: a bare JSON
// array, or an envelope with the array under "data".
func decodeList[T any](body []byte) ([]T, error) {
	var items []T
	if err := json.Unmarshal(body, &items); err == nil {
		return items, nil
	}

	var envelope struct {
		Data []T `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("decodeList: json.Unmarshal: %w", err)
	}
	if envelope.Data == nil {
		envelope.Data = []T{}
	}
	return envelope.Data, nil
}
