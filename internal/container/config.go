// Package container provides dependency injection and lifecycle management
// for the settlement portal following Clean Architecture principles.
package container

import (
	"fmt"
	"time"

	"github.com/garyjia/settlement-portal/internal/application/service"
	"github.com/garyjia/settlement-portal/internal/infrastructure/external/anthropic"
	"github.com/garyjia/settlement-portal/internal/infrastructure/external/openai"
	httpserver "github.com/garyjia/settlement-portal/internal/interfaces/http"
	"github.com/garyjia/settlement-portal/pkg/database"
)

// Config holds all configuration for the Container.
// It aggregates configurations for all subsystems.
type Config struct {
	// Database configuration for approval history and the employee directory.
	// An empty driver runs without a store.
	Database database.Config

	// Collaborator endpoints
	GAS GASConfig

	// Auth holds session signing and the login allow-list
	Auth AuthConfig

	// Model configuration
	OpenAI    openai.Config
	Anthropic anthropic.Config

	// AICheck configuration
	AICheck AICheckConfig

	// Approval options
	Approval service.ApprovalOptions

	// Server configuration
	Server httpserver.ServerConfig
}

// GASConfig holds the Apps Script endpoints.
type GASConfig struct {
	// APIURL serves applications, submitCheck and receipt files
	APIURL string

	// LeaveAPIURL serves leave approvals
	LeaveAPIURL string

	// Timeout for each call
	Timeout time.Duration
}

// AuthConfig holds login settings.
type AuthConfig struct {
	// GoogleClientID is the audience of accepted identity tokens
	GoogleClientID string

	service.AuthConfig
}

// AICheckConfig holds receipt checking settings.
type AICheckConfig struct {
	// PromptsPath overrides the built-in prompts when set
	PromptsPath string

	// YenPerUSD is the exchange rate quoted to the model
	YenPerUSD int

	// MaxPDFPages adds a warning for longer documents
	MaxPDFPages int

	// Batch settings
	Batch service.BatchOptions
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Database: database.Config{
			Driver:          database.DriverSQLite,
			Path:            "data/settlement.db",
			MaxOpenConns:    10,
			MaxIdleConns:    5,
			ConnMaxLifetime: 5 * time.Minute,
		},
		GAS: GASConfig{
			Timeout: 30 * time.Second,
		},
		Auth: AuthConfig{
			AuthConfig: service.AuthConfig{SessionTTL: service.DefaultSessionTTL},
		},
		OpenAI: openai.Config{
			Model:       "gpt-4o",
			Temperature: 0.1,
			MaxTokens:   2000,
		},
		Anthropic: anthropic.Config{
			Model:      "claude-sonnet-4-20250514",
			MaxTokens:  2000,
			MaxRetries: 2,
		},
		AICheck: AICheckConfig{
			YenPerUSD:   150,
			MaxPDFPages: 5,
			Batch: service.BatchOptions{
				PageSize:    20,
				Concurrency: 4,
				RatePerSec:  1,
			},
		},
		Server: httpserver.DefaultServerConfig(),
	}
}

// Validate checks that required configuration values are present.
func (c *Config) Validate() error {
	if len(c.Auth.Secret) < 32 {
		return fmt.Errorf("auth secret must be at least 32 characters")
	}

	switch c.Database.Driver {
	case "", database.DriverSQLite, database.DriverPostgres:
	default:
		return fmt.Errorf("unknown database driver %q", c.Database.Driver)
	}

	if c.AICheck.Batch.PageSize < 0 || c.AICheck.Batch.Concurrency < 0 {
		return fmt.Errorf("batch page size and concurrency must not be negative")
	}

	return nil
}
