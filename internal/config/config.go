package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/subosito/gotenv"

	"github.com/garyjia/settlement-portal/pkg/utils"
)

// MinSecretLength is the shortest accepted session signing secret.
const MinSecretLength = 32

// Config holds all application configuration
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Auth      AuthConfig      `mapstructure:"auth"`
	GAS       GASConfig       `mapstructure:"gas"`
	History   HistoryConfig   `mapstructure:"history"`
	OpenAI    OpenAIConfig    `mapstructure:"openai"`
	Anthropic AnthropicConfig `mapstructure:"anthropic"`
	AICheck   AICheckConfig   `mapstructure:"ai_check"`
	Approval  ApprovalConfig  `mapstructure:"approval"`
	Logger    LoggerConfig    `mapstructure:"logger"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host           string        `mapstructure:"host"`
	Port           int           `mapstructure:"port"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	SecureCookies  bool          `mapstructure:"secure_cookies"`
	AllowedOrigins []string      `mapstructure:"allowed_origins"`
	LoginRate      string        `mapstructure:"login_rate"`
	AICheckRate    string        `mapstructure:"ai_check_rate"`
}

// AuthConfig holds session and login allow-list configuration
type AuthConfig struct {
	Secret             string        `mapstructure:"secret"`
	SessionTTL         time.Duration `mapstructure:"session_ttl"`
	GoogleClientID     string        `mapstructure:"google_client_id"`
	AllowedDepartments string        `mapstructure:"allowed_departments"`
	AllowedRoles       string        `mapstructure:"allowed_roles"`
	AllowedEmails      string        `mapstructure:"allowed_emails"`
}

// GASConfig holds the Apps Script endpoints
type GASConfig struct {
	APIURL      string        `mapstructure:"api_url"`
	LeaveAPIURL string        `mapstructure:"leave_api_url"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

// HistoryConfig holds the approval history / employee store configuration.
// An empty driver disables the store.
type HistoryConfig struct {
	Driver          string        `mapstructure:"driver"`
	URL             string        `mapstructure:"url"`
	Path            string        `mapstructure:"path"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// OpenAIConfig holds the image model configuration
type OpenAIConfig struct {
	APIKey      string  `mapstructure:"api_key"`
	BaseURL     string  `mapstructure:"base_url"`
	Model       string  `mapstructure:"model"`
	Temperature float32 `mapstructure:"temperature"`
	MaxTokens   int     `mapstructure:"max_tokens"`
}

// AnthropicConfig holds the PDF model configuration
type AnthropicConfig struct {
	APIKey     string `mapstructure:"api_key"`
	BaseURL    string `mapstructure:"base_url"`
	Model      string `mapstructure:"model"`
	MaxTokens  int64  `mapstructure:"max_tokens"`
	MaxRetries int    `mapstructure:"max_retries"`
}

// AICheckConfig holds receipt checking configuration
type AICheckConfig struct {
	PromptsPath     string  `mapstructure:"prompts_path"`
	YenPerUSD       int     `mapstructure:"yen_per_usd"`
	MaxPDFPages     int     `mapstructure:"max_pdf_pages"`
	BatchPageSize   int     `mapstructure:"batch_page_size"`
	BatchWorkers    int     `mapstructure:"batch_workers"`
	BatchRatePerSec float64 `mapstructure:"batch_rate_per_sec"`
}

// ApprovalConfig holds action endpoint configuration
type ApprovalConfig struct {
	EnforceAcknowledgements bool `mapstructure:"enforce_acknowledgements"`
}

// LoggerConfig holds logger configuration
type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	OutputPath string `mapstructure:"output_path"`
	Format     string `mapstructure:"format"`
}

// Load loads configuration from file and environment variables. A .env
// file next to the working directory is applied to the environment first;
// variables already set win.
func Load(configPath string) (*Config, error) {
	if err := gotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := bindEnvVars(v); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 120*time.Second)
	v.SetDefault("server.secure_cookies", false)
	v.SetDefault("server.login_rate", "5-M")
	v.SetDefault("server.ai_check_rate", "30-M")

	// Auth defaults
	v.SetDefault("auth.session_ttl", 7*24*time.Hour)

	// GAS defaults
	v.SetDefault("gas.timeout", 30*time.Second)

	// History store defaults
	v.SetDefault("history.driver", "sqlite")
	v.SetDefault("history.path", "data/settlement.db")
	v.SetDefault("history.max_open_conns", 10)
	v.SetDefault("history.max_idle_conns", 5)
	v.SetDefault("history.conn_max_lifetime", 5*time.Minute)

	// Model defaults
	v.SetDefault("openai.model", "gpt-4o")
	v.SetDefault("openai.temperature", 0.1)
	v.SetDefault("openai.max_tokens", 2000)
	v.SetDefault("anthropic.model", "claude-sonnet-4-20250514")
	v.SetDefault("anthropic.max_tokens", 2000)
	v.SetDefault("anthropic.max_retries", 2)

	// AI check defaults
	v.SetDefault("ai_check.yen_per_usd", 150)
	v.SetDefault("ai_check.max_pdf_pages", 5)
	v.SetDefault("ai_check.batch_page_size", 20)
	v.SetDefault("ai_check.batch_workers", 4)
	v.SetDefault("ai_check.batch_rate_per_sec", 1.0)

	// Logger defaults
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.output_path", "stdout")
	v.SetDefault("logger.format", "json")
}

// bindEnvVars binds environment variables to configuration
func bindEnvVars(v *viper.Viper) error {
	bindings := map[string]string{
		"auth.secret":              "AUTH_SECRET",
		"auth.google_client_id":    "GOOGLE_CLIENT_ID",
		"auth.allowed_departments": "ALLOWED_DEPARTMENTS",
		"auth.allowed_roles":       "ALLOWED_ROLE",
		"auth.allowed_emails":      "ALLOWED_LOGIN_EMAILS",
		"gas.api_url":              "GAS_API_URL",
		"gas.leave_api_url":        "LEAVE_GAS_API_URL",
		"history.url":              "HISTORY_DATABASE_URL",
		"openai.api_key":           "OPENAI_API_KEY",
		"anthropic.api_key":        "ANTHROPIC_API_KEY",
	}
	for key, env := range bindings {
		if err := v.BindEnv(key, env); err != nil {
			return fmt.Errorf("failed to bind %s: %w", env, err)
		}
	}
	return nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if len(c.Auth.Secret) < MinSecretLength {
		return fmt.Errorf("auth.secret (AUTH_SECRET) must be at least %d characters", MinSecretLength)
	}

	switch c.History.Driver {
	case "", "sqlite", "postgres":
	default:
		return fmt.Errorf("history.driver must be sqlite, postgres or empty, got %q", c.History.Driver)
	}
	if c.History.Driver == "postgres" && c.History.URL == "" {
		return fmt.Errorf("history.url (HISTORY_DATABASE_URL) is required for the postgres driver")
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d is out of range", c.Server.Port)
	}

	return nil
}

// Departments returns the comma-separated department allow-list.
func (c AuthConfig) Departments() []string { return utils.SplitList(c.AllowedDepartments) }

// Roles returns the comma-separated role allow-list.
func (c AuthConfig) Roles() []string { return utils.SplitList(c.AllowedRoles) }

// Emails returns the comma-separated address allow-list.
func (c AuthConfig) Emails() []string { return utils.SplitList(c.AllowedEmails) }
