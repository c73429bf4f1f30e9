// Package anthropic reads PDF receipts with Claude.
package anthropic

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"go.uber.org/zap"

	"github.com/garyjia/settlement-portal/internal/application/port"
)

// CredentialEnv is the environment variable holding the API key.
const CredentialEnv = "ANTHROPIC_API_KEY"

// Config configures the PDF receipt model.
type Config struct {
	APIKey     string
	BaseURL    string
	Model      string
	MaxTokens  int64
	MaxRetries int
}

// ReceiptModel implements port.ReceiptModel for PDF documents.
type ReceiptModel struct {
	client sdk.Client
	cfg    Config
	logger *zap.Logger
}

// NewReceiptModel creates the model. An empty API key yields a model that
// reports itself as not configured.
func NewReceiptModel(cfg Config, logger *zap.Logger) *ReceiptModel {
	if cfg.Model == "" {
		cfg.Model = "claude-sonnet-4-20250514"
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 2000
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(cfg.MaxRetries),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &ReceiptModel{
		client: sdk.NewClient(opts...),
		cfg:    cfg,
		logger: logger,
	}
}

var _ port.ReceiptModel = (*ReceiptModel)(nil)

func (m *ReceiptModel) Name() string           { return "Claude" }
func (m *ReceiptModel) Configured() bool       { return m.cfg.APIKey != "" }
func (m *ReceiptModel) CredentialName() string { return CredentialEnv }

// Complete sends the PDF as a base64 document block followed by the prompt.
func (m *ReceiptModel) Complete(ctx context.Context, req port.ModelRequest) (string, error) {
	m.logger.Debug("Sending receipt to Claude",
		zap.String("model", m.cfg.Model),
		zap.Int("bytes", len(req.Data)))

	params := sdk.MessageNewParams{
		Model:     sdk.Model(m.cfg.Model),
		MaxTokens: m.cfg.MaxTokens,
		Messages: []sdk.MessageParam{
			sdk.NewUserMessage(
				sdk.NewDocumentBlock(sdk.Base64PDFSourceParam{
					Data: base64.StdEncoding.EncodeToString(req.Data),
				}),
				sdk.NewTextBlock(req.Prompt),
			),
		},
	}
	if req.System != "" {
		params.System = []sdk.TextBlockParam{{Text: req.System}}
	}

	msg, err := m.client.Messages.New(ctx, params)
	if err != nil {
		m.logger.Error("Claude API call failed", zap.Error(err))
		return "", fmt.Errorf("Claude API call failed: %w", err)
	}

	var sb strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	return sb.String(), nil
}
