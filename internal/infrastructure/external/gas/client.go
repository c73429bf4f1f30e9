package gas

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/garyjia/settlement-portal/internal/application/port"
	"github.com/garyjia/settlement-portal/internal/domain/entity"
)

const maxBodySize = 32 << 20

// Client is the expense spreadsheet's web app. It implements both
// port.SystemOfRecord and port.FileServer.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a Client for the web app deployed at baseURL.
func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

var (
	_ port.SystemOfRecord = (*Client)(nil)
	_ port.FileServer     = (*Client)(nil)
)

// ListApplications calls getApplications, filtered by month when set.
func (c *Client) ListApplications(ctx context.Context, month string) ([]*entity.Application, error) {
	params := url.Values{"method": {"getApplications"}}
	if month != "" {
		params.Set("month", month)
	}

	body, err := c.call(ctx, params)
	if err != nil {
		return nil, err
	}

	result, err := parseResult(body, func(b []byte) ([]*entity.Application, error) {
		var payload struct {
			Data []*entity.Application `json:"data"`
		}
		if err := json.Unmarshal(b, &payload); err != nil {
			return nil, err
		}
		if payload.Data == nil {
			payload.Data = []*entity.Application{}
		}
		return payload.Data, nil
	})
	if err != nil {
		return nil, err
	}
	return result.Unwrap()
}

// SubmitCheck calls submitCheck and returns the script's reply verbatim.
func (c *Client) SubmitCheck(ctx context.Context, s entity.CheckSubmission) (json.RawMessage, error) {
	params := url.Values{
		"method":        {"submitCheck"},
		"applicationId": {s.ApplicationID},
		"checkAction":   {s.Action},
		"checker":       {s.Checker},
	}
	if s.Comment != "" {
		params.Set("comment", s.Comment)
	}

	body, err := c.call(ctx, params)
	if err != nil {
		return nil, err
	}

	result, err := parseResult(body, func(b []byte) (json.RawMessage, error) {
		return json.RawMessage(append([]byte(nil), b...)), nil
	})
	if err != nil {
		return nil, err
	}
	return result.Unwrap()
}

// GetFile calls getImageBase64 for fileID.
func (c *Client) GetFile(ctx context.Context, fileID string) (*port.RemoteFile, error) {
	body, err := c.call(ctx, url.Values{
		"method": {"getImageBase64"},
		"fileId": {fileID},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", port.ErrFetchFailed, err)
	}

	result, err := parseResult(body, func(b []byte) (*port.RemoteFile, error) {
		var payload struct {
			Base64   *string `json:"base64"`
			MimeType string  `json:"mimeType"`
		}
		if err := json.Unmarshal(b, &payload); err != nil {
			return nil, err
		}
		if payload.Base64 == nil {
			return nil, fmt.Errorf("no base64 in response")
		}
		return &port.RemoteFile{Base64: *payload.Base64, MimeType: payload.MimeType}, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", port.ErrFetchFailed, err)
	}

	file, err := result.Unwrap()
	if err != nil {
		return nil, fmt.Errorf("%w: %s", port.ErrFetchFailed, result.Message())
	}
	return file, nil
}

func (c *Client) call(ctx context.Context, params url.Values) ([]byte, error) {
	if c.baseURL == "" {
		return nil, fmt.Errorf("%w: GAS_API_URL is not set", port.ErrNotConfigured)
	}
	params.Set("action", "api")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	return do(c.httpClient, c.logger, req, params.Get("method"))
}

func do(client *http.Client, logger *zap.Logger, req *http.Request, method string) ([]byte, error) {
	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		logger.Error("GAS request failed", zap.String("method", method), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", port.ErrUpstream, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %v", port.ErrUpstream, err)
	}

	logger.Debug("GAS request completed",
		zap.String("method", method),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var env envelope
		if json.Unmarshal(body, &env) == nil && env.Message != "" {
			return nil, fmt.Errorf("%w: %s", port.ErrUpstream, env.Message)
		}
		return nil, fmt.Errorf("%w: GAS API request failed with status %d", port.ErrUpstream, resp.StatusCode)
	}
	return body, nil
}
