package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/garyjia/settlement-portal/internal/application/port"
)

func TestReceiptModel_Configured(t *testing.T) {
	assert.False(t, NewReceiptModel(Config{}, zap.NewNop()).Configured())
	assert.True(t, NewReceiptModel(Config{APIKey: "sk-test"}, zap.NewNop()).Configured())
	assert.Equal(t, CredentialEnv, NewReceiptModel(Config{}, zap.NewNop()).CredentialName())
}

func TestReceiptModel_Complete(t *testing.T) {
	var body map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/chat/completions"))
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"1","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"{\"riskLevel\":\"OK\"}"},"finish_reason":"stop"}]}`))
	}))
	defer srv.Close()

	m := NewReceiptModel(Config{APIKey: "sk-test", BaseURL: srv.URL, Model: "gpt-4o"}, zap.NewNop())
	text, err := m.Complete(context.Background(), port.ModelRequest{
		System:   "system",
		Prompt:   "check this",
		Data:     []byte{0xff, 0xd8},
		MimeType: "image/jpeg",
	})

	require.NoError(t, err)
	assert.Equal(t, `{"riskLevel":"OK"}`, text)

	messages := body["messages"].([]interface{})
	require.Len(t, messages, 2)
	user := messages[1].(map[string]interface{})
	parts := user["content"].([]interface{})
	image := parts[1].(map[string]interface{})["image_url"].(map[string]interface{})
	assert.Equal(t, "data:image/jpeg;base64,/9g=", image["url"])
	assert.Equal(t, "high", image["detail"])
}

func TestReceiptModel_CompleteError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"bad key","type":"invalid_request_error"}}`))
	}))
	defer srv.Close()

	m := NewReceiptModel(Config{APIKey: "sk-bad", BaseURL: srv.URL}, zap.NewNop())
	_, err := m.Complete(context.Background(), port.ModelRequest{Prompt: "x", MimeType: "image/png"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "OpenAI API call failed")
}
