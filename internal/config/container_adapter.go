package config

import (
	"github.com/garyjia/settlement-portal/internal/application/service"
	"github.com/garyjia/settlement-portal/internal/container"
	"github.com/garyjia/settlement-portal/internal/infrastructure/external/anthropic"
	"github.com/garyjia/settlement-portal/internal/infrastructure/external/openai"
	httpserver "github.com/garyjia/settlement-portal/internal/interfaces/http"
	"github.com/garyjia/settlement-portal/pkg/database"
)

// ToContainerConfig converts the application Config to a container.Config.
// This provides a bridge between the file-based config loaded by viper
// and the container's configuration structure.
func (c *Config) ToContainerConfig() *container.Config {
	driver := c.History.Driver
	if driver == "" && c.History.URL != "" {
		driver = database.DriverPostgres
	}

	return &container.Config{
		Database: database.Config{
			Driver:          driver,
			URL:             c.History.URL,
			Path:            c.History.Path,
			MaxOpenConns:    c.History.MaxOpenConns,
			MaxIdleConns:    c.History.MaxIdleConns,
			ConnMaxLifetime: c.History.ConnMaxLifetime,
		},
		GAS: container.GASConfig{
			APIURL:      c.GAS.APIURL,
			LeaveAPIURL: c.GAS.LeaveAPIURL,
			Timeout:     c.GAS.Timeout,
		},
		Auth: container.AuthConfig{
			GoogleClientID: c.Auth.GoogleClientID,
			AuthConfig: service.AuthConfig{
				Secret:             c.Auth.Secret,
				SessionTTL:         c.Auth.SessionTTL,
				AllowedDepartments: c.Auth.Departments(),
				AllowedRoles:       c.Auth.Roles(),
				AllowedEmails:      c.Auth.Emails(),
			},
		},
		OpenAI: openai.Config{
			APIKey:      c.OpenAI.APIKey,
			BaseURL:     c.OpenAI.BaseURL,
			Model:       c.OpenAI.Model,
			MaxTokens:   c.OpenAI.MaxTokens,
			Temperature: c.OpenAI.Temperature,
		},
		Anthropic: anthropic.Config{
			APIKey:     c.Anthropic.APIKey,
			BaseURL:    c.Anthropic.BaseURL,
			Model:      c.Anthropic.Model,
			MaxTokens:  c.Anthropic.MaxTokens,
			MaxRetries: c.Anthropic.MaxRetries,
		},
		AICheck: container.AICheckConfig{
			PromptsPath: c.AICheck.PromptsPath,
			YenPerUSD:   c.AICheck.YenPerUSD,
			MaxPDFPages: c.AICheck.MaxPDFPages,
			Batch: service.BatchOptions{
				PageSize:    c.AICheck.BatchPageSize,
				Concurrency: c.AICheck.BatchWorkers,
				RatePerSec:  c.AICheck.BatchRatePerSec,
			},
		},
		Approval: service.ApprovalOptions{
			EnforceAcknowledgements: c.Approval.EnforceAcknowledgements,
		},
		Server: httpserver.ServerConfig{
			Host:           c.Server.Host,
			Port:           c.Server.Port,
			ReadTimeout:    c.Server.ReadTimeout,
			WriteTimeout:   c.Server.WriteTimeout,
			SecureCookies:  c.Server.SecureCookies,
			AllowedOrigins: c.Server.AllowedOrigins,
			LoginRate:      c.Server.LoginRate,
			AICheckRate:    c.Server.AICheckRate,
		},
	}
}
