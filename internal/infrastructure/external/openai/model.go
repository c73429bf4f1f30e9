package openai

import (
	"context"
	"encoding/base64"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/garyjia/settlement-portal/internal/application/port"
)

// CredentialEnv is the environment variable holding the API key.
const CredentialEnv = "OPENAI_API_KEY"

// Config configures the image receipt model.
type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	MaxTokens   int
	Temperature float32
}

// ReceiptModel implements port.ReceiptModel for images using the chat
// completions vision input.
type ReceiptModel struct {
	client *openai.Client
	cfg    Config
	logger *zap.Logger
}

// NewReceiptModel creates the model. An empty API key yields a model that
// reports itself as not configured.
func NewReceiptModel(cfg Config, logger *zap.Logger) *ReceiptModel {
	if cfg.Model == "" {
		cfg.Model = openai.GPT4o
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 2000
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	return &ReceiptModel{
		client: openai.NewClientWithConfig(clientCfg),
		cfg:    cfg,
		logger: logger,
	}
}

var _ port.ReceiptModel = (*ReceiptModel)(nil)

func (m *ReceiptModel) Name() string           { return "OpenAI" }
func (m *ReceiptModel) Configured() bool       { return m.cfg.APIKey != "" }
func (m *ReceiptModel) CredentialName() string { return CredentialEnv }

// Complete sends the prompt and the image as a data URL and returns the text answer.
func (m *ReceiptModel) Complete(ctx context.Context, req port.ModelRequest) (string, error) {
	m.logger.Debug("Sending receipt to OpenAI",
		zap.String("model", m.cfg.Model),
		zap.String("mime_type", req.MimeType),
		zap.Int("bytes", len(req.Data)))

	messages := make([]openai.ChatCompletionMessage, 0, 2)
	if req.System != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.System,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role: openai.ChatMessageRoleUser,
		MultiContent: []openai.ChatMessagePart{
			{
				Type: openai.ChatMessagePartTypeText,
				Text: req.Prompt,
			},
			{
				Type: openai.ChatMessagePartTypeImageURL,
				ImageURL: &openai.ChatMessageImageURL{
					URL:    fmt.Sprintf("data:%s;base64,%s", req.MimeType, base64.StdEncoding.EncodeToString(req.Data)),
					Detail: openai.ImageURLDetailHigh,
				},
			},
		},
	})

	resp, err := m.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       m.cfg.Model,
		MaxTokens:   m.cfg.MaxTokens,
		Temperature: m.cfg.Temperature,
		Messages:    messages,
	})
	if err != nil {
		m.logger.Error("OpenAI API call failed", zap.Error(err))
		return "", fmt.Errorf("OpenAI API call failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}
