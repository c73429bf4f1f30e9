package gas

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/garyjia/settlement-portal/internal/application/port"
	"github.com/garyjia/settlement-portal/internal/domain/entity"
)

// LeaveClient is the leave sheet's web app.
type LeaveClient struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewLeaveClient creates a LeaveClient for the web app deployed at baseURL.
func NewLeaveClient(baseURL string, timeout time.Duration, logger *zap.Logger) *LeaveClient {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &LeaveClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

var _ port.LeaveSystem = (*LeaveClient)(nil)

// UpdateApproval posts one approval column change and relays the reply.
func (c *LeaveClient) UpdateApproval(ctx context.Context, update entity.LeaveApprovalUpdate) (json.RawMessage, error) {
	if c.baseURL == "" {
		return nil, fmt.Errorf("%w: LEAVE_GAS_API_URL is not set", port.ErrNotConfigured)
	}

	payload, err := json.Marshal(map[string]interface{}{
		"action":   "leave_approval",
		"rowIndex": update.RowIndex,
		"column":   update.Column,
		"value":    update.Value,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal leave update: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.relay(req, "leave_approval")
}

// ListPaidLeave fetches the paid leave balances and relays the reply.
func (c *LeaveClient) ListPaidLeave(ctx context.Context) (json.RawMessage, error) {
	if c.baseURL == "" {
		return nil, fmt.Errorf("%w: LEAVE_GAS_API_URL is not set", port.ErrNotConfigured)
	}

	params := url.Values{"action": {"leave_approval"}, "method": {"getPaidLeaveList"}}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	return c.relay(req, "getPaidLeaveList")
}

// relay returns the reply as-is when it is a JSON object. The leave sheet's
// success flag is left for the caller to show.
func (c *LeaveClient) relay(req *http.Request, method string) (json.RawMessage, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("Leave GAS request failed", zap.String("method", method), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", port.ErrUpstream, err)
	}
	defer resp.Body.Close()

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(resp.Body); err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %v", port.ErrUpstream, err)
	}

	body := bytes.TrimSpace(buf.Bytes())
	if len(body) == 0 || body[0] != '{' || !json.Valid(body) {
		c.logger.Error("Leave GAS returned non-JSON", zap.String("method", method), zap.String("body", snippet(body)))
		return nil, fmt.Errorf("%w: leave system", port.ErrUpstreamMisconfigured)
	}
	return json.RawMessage(body), nil
}
