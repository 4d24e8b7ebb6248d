package upstream

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/unifiedcampus/admin-gateway/internal/monitoring"
)

// RegistrationsClient reads the registration snapshot. It is separate from
// Client because the endpoint is deployed out of band: deployments point it
// at an absolute URL and decide whether it requires the admin token
// (historically it was served unauthenticated).
type RegistrationsClient struct {
	endpoint    string
	requireAuth bool
	hc          *http.Client
	logger      *zap.Logger
}

func NewRegistrationsClient(endpoint string, requireAuth bool, timeout time.Duration, logger *zap.Logger) *RegistrationsClient {
	return &RegistrationsClient{
		endpoint:    strings.TrimRight(endpoint, "/"),
		requireAuth: requireAuth,
		hc: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// Fetch returns the full registration snapshot: every event with its
// registered teams. The snapshot is read-only and fetched fresh per call.
func (c *RegistrationsClient) Fetch(ctx context.Context, token string) ([]RegistrationEvent, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("Fetch: http.NewRequestWithContext: %w", err)
	}
	if c.requireAuth {
		setBearer(req, token)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		monitoring.ObserveUpstream(req.Method, "error")
		c.logger.Error("Failed to fetch registrations", zap.Error(err))
		return nil, fmt.Errorf("registrations fetch: %w", err)
	}
	defer resp.Body.Close()
	monitoring.ObserveUpstream(req.Method, strconv.Itoa(resp.StatusCode))

	rbody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("registrations fetch: read body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		msg := errorMessage(rbody, "Failed to fetch registration data.")
		c.logger.Error("Registrations endpoint returned error",
			zap.Int("status", resp.StatusCode),
			zap.String("message", msg))
		return nil, &APIError{Status: resp.StatusCode, Message: msg}
	}

	return decodeList[RegistrationEvent](rbody)
}

// Export streams the backend-generated spreadsheet. The caller owns the
// returned body and must close it; contentType and disposition are passed
// through so the download keeps its filename.
func (c *RegistrationsClient) Export(ctx context.Context, token string) (body io.ReadCloser, contentType, disposition string, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"/download", nil)
	if err != nil {
		return nil, "", "", fmt.Errorf("Export: http.NewRequestWithContext: %w", err)
	}
	if c.requireAuth {
		setBearer(req, token)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		monitoring.ObserveUpstream(req.Method, "error")
		c.logger.Error("Failed to export registrations", zap.Error(err))
		return nil, "", "", fmt.Errorf("registrations export: %w", err)
	}
	monitoring.ObserveUpstream(req.Method, strconv.Itoa(resp.StatusCode))

	if resp.StatusCode != http.StatusOK {
		rbody, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		msg := errorMessage(rbody, "Failed to export registrations")
		return nil, "", "", &APIError{Status: resp.StatusCode, Message: msg}
	}

	return resp.Body, resp.Header.Get("Content-Type"), resp.Header.Get("Content-Disposition"), nil
}

// FilterByName narrows a snapshot to events whose name contains term,
// case-insensitively. This is the one list view computed on our side
// rather than the backend's.
func FilterByName(events []RegistrationEvent, term string) []RegistrationEvent {
	if term == "" {
		return events
	}

	needle := strings.ToLower(term)
	filtered := []RegistrationEvent{}
	for _, ev := range events {
		if strings.Contains(strings.ToLower(ev.Name), needle) {
			filtered = append(filtered, ev)
		}
	}
	return filtered
}
