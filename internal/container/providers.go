package container

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/garyjia/settlement-portal/internal/application/aicheck"
	"github.com/garyjia/settlement-portal/internal/application/port"
	"github.com/garyjia/settlement-portal/internal/application/receipt"
	"github.com/garyjia/settlement-portal/internal/application/service"
	"github.com/garyjia/settlement-portal/internal/infrastructure/export"
	"github.com/garyjia/settlement-portal/internal/infrastructure/external/anthropic"
	"github.com/garyjia/settlement-portal/internal/infrastructure/external/gas"
	"github.com/garyjia/settlement-portal/internal/infrastructure/external/google"
	"github.com/garyjia/settlement-portal/internal/infrastructure/external/openai"
	"github.com/garyjia/settlement-portal/internal/infrastructure/external/pdf"
	"github.com/garyjia/settlement-portal/internal/infrastructure/persistence/repository"
	"github.com/garyjia/settlement-portal/internal/infrastructure/persistence/sqldb"
	httpserver "github.com/garyjia/settlement-portal/internal/interfaces/http"
	"github.com/garyjia/settlement-portal/pkg/database"
)

// DatabaseBundle holds the store and its repositories. Every field is nil
// when no store is configured.
type DatabaseBundle struct {
	DB        *database.DB
	History   port.HistoryRepository
	Employees port.EmployeeRepository
}

// ExternalBundle holds collaborator clients.
type ExternalBundle struct {
	Records  port.SystemOfRecord
	Files    port.FileServer
	Leave    port.LeaveSystem
	Identity port.IdentityVerifier
	Checker  *aicheck.Checker
}

// ProvideDatabase opens the store, runs pending migrations and creates the
// repositories.
func ProvideDatabase(ctx context.Context, cfg *database.Config, logger *zap.Logger) (*DatabaseBundle, error) {
	if cfg == nil {
		return nil, fmt.Errorf("database config is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if cfg.Driver == "" {
		logger.Info("No history database configured; approval history and login are disabled")
		return &DatabaseBundle{}, nil
	}

	db, err := database.Open(ctx, *cfg, logger)
	if err != nil {
		return nil, err
	}

	if err := database.Migrate(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	tx := sqldb.NewDB(db.DB, db.Driver(), logger)

	return &DatabaseBundle{
		DB:        db,
		History:   repository.NewHistoryRepository(tx, logger),
		Employees: repository.NewEmployeeRepository(tx, logger),
	}, nil
}

// ProvideExternalClients creates the Apps Script clients, the identity
// verifier and the receipt checker with both models.
func ProvideExternalClients(cfg *Config, logger *zap.Logger) (*ExternalBundle, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	records := gas.NewClient(cfg.GAS.APIURL, cfg.GAS.Timeout, logger)
	leave := gas.NewLeaveClient(cfg.GAS.LeaveAPIURL, cfg.GAS.Timeout, logger)
	if cfg.GAS.APIURL == "" {
		logger.Info("GAS_API_URL is not set; application endpoints will fail")
	}

	prompts, err := aicheck.LoadPrompts(cfg.AICheck.PromptsPath, cfg.AICheck.YenPerUSD)
	if err != nil {
		return nil, fmt.Errorf("failed to load prompts: %w", err)
	}

	imageModel := openai.NewReceiptModel(cfg.OpenAI, logger)
	pdfModel := anthropic.NewReceiptModel(cfg.Anthropic, logger)

	checker := aicheck.NewChecker(imageModel, pdfModel, prompts,
		aicheck.WithPDFInspector(pdf.NewInspector(), cfg.AICheck.MaxPDFPages),
		aicheck.WithLogger(&zapLoggerAdapter{logger: logger.Named("aicheck")}),
	)

	return &ExternalBundle{
		Records:  records,
		Files:    records,
		Leave:    leave,
		Identity: google.NewVerifier(cfg.Auth.GoogleClientID, logger),
		Checker:  checker,
	}, nil
}

// ServiceDeps holds dependencies needed to create services.
type ServiceDeps struct {
	Database *DatabaseBundle
	External *ExternalBundle
	Config   *Config
	Logger   *zap.Logger
}

// ProvideServices creates all application services.
func ProvideServices(deps *ServiceDeps) (*httpserver.Services, error) {
	if deps == nil || deps.Database == nil || deps.External == nil || deps.Config == nil {
		return nil, fmt.Errorf("service dependencies are required")
	}
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	log := &zapLoggerAdapter{logger: deps.Logger.Named("service")}
	caches := aicheck.NewRegistry()

	history := service.NewHistoryService(deps.Database.History, log)
	checks := service.NewReceiptCheckService(receipt.NewFetcher(deps.External.Files), deps.External.Checker, caches, log)

	exporters := map[string]port.ApplicationExporter{
		"csv":  export.CSVExporter{},
		"xlsx": export.XLSXExporter{},
	}

	return &httpserver.Services{
		Auth:          service.NewAuthService(deps.External.Identity, deps.Database.Employees, deps.Config.Auth.AuthConfig, log),
		Applications:  service.NewApplicationService(deps.External.Records, caches, exporters, log),
		Approval:      service.NewApprovalService(deps.External.Records, history, deps.Config.Approval, log),
		History:       history,
		ReceiptChecks: checks,
		Batch:         service.NewBatchCheckService(deps.External.Records, checks, deps.Config.AICheck.Batch, log),
		Leave:         service.NewLeaveService(deps.External.Leave, log),
	}, nil
}
