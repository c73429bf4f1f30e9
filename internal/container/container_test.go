package container

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/garyjia/settlement-portal/internal/application/service"
)

func testConfig() *Config {
	cfg := DefaultConfig()
	cfg.Database.Path = ":memory:"
	cfg.Auth.Secret = "0123456789abcdef0123456789abcdef"
	cfg.GAS.APIURL = "http://127.0.0.1:1/exec"
	return cfg
}

func TestNewContainer_Validation(t *testing.T) {
	_, err := NewContainer(nil, zap.NewNop())
	assert.Error(t, err)

	_, err = NewContainer(testConfig(), nil)
	assert.Error(t, err)

	cfg := testConfig()
	cfg.Auth.Secret = "short"
	_, err = NewContainer(cfg, zap.NewNop())
	assert.Error(t, err)
}

func TestContainer_Lifecycle(t *testing.T) {
	c, err := NewContainer(testConfig(), zap.NewNop())
	require.NoError(t, err)

	require.NoError(t, c.Start(context.Background()))
	assert.True(t, c.Ready())
	assert.Error(t, c.Start(context.Background()))

	health := c.Health(context.Background())
	assert.True(t, health.Overall)
	assert.True(t, health.Components["database"].Healthy)
	assert.Equal(t, "disabled", health.Components["openai"].Message)

	services := c.Services()
	require.NotNil(t, services)
	assert.True(t, services.History.Available())

	item, err := services.History.Append(context.Background(), service.AppendHistoryInput{
		ApplicationID: "A1",
		Action:        "accounting_approve",
		Checker:       "経理担当者",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, item.ID)

	w := httptest.NewRecorder()
	c.Server().Router().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	require.NoError(t, c.Close())
	assert.False(t, c.Ready())
	assert.Error(t, c.Close())
	assert.Error(t, c.Start(context.Background()))
}

func TestContainer_NoStore(t *testing.T) {
	cfg := testConfig()
	cfg.Database.Driver = ""
	c, err := NewContainer(cfg, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, c.Start(context.Background()))
	defer c.Close()

	assert.Equal(t, "disabled", c.Health(context.Background()).Components["database"].Message)
	assert.False(t, c.Services().History.Available())

	_, err = c.Services().History.ListFor(context.Background(), "A1")
	assert.Error(t, err)
}

func TestConvertToZapFields(t *testing.T) {
	fields := convertToZapFields("application_id", "A1", 42, "skipped", "error", assert.AnError, "dangling")
	require.Len(t, fields, 2)
	assert.Equal(t, "application_id", fields[0].Key)
	assert.Equal(t, "error", fields[1].Key)
}
