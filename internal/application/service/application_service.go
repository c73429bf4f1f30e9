package service

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/garyjia/settlement-portal/internal/application/aicheck"
	"github.com/garyjia/settlement-portal/internal/application/port"
	"github.com/garyjia/settlement-portal/internal/domain/entity"
	"github.com/garyjia/settlement-portal/pkg/utils"
)

// ExportFile describes a written export.
type ExportFile struct {
	Filename    string
	ContentType string
	Count       int
}

// ApplicationService lists applications and exports them.
type ApplicationService interface {
	// List returns the month's applications with the session's cached AI
	// verdicts attached. An empty month means the month being settled now.
	List(ctx context.Context, sessionID, month string) ([]*entity.Application, string, error)
	Export(ctx context.Context, w io.Writer, sessionID, month, format string) (*ExportFile, error)
}

type applicationServiceImpl struct {
	records   port.SystemOfRecord
	caches    *aicheck.Registry
	exporters map[string]port.ApplicationExporter
	now       func() time.Time
	logger    Logger
}

// NewApplicationService creates a new ApplicationService. exporters is keyed by format name.
func NewApplicationService(records port.SystemOfRecord, caches *aicheck.Registry, exporters map[string]port.ApplicationExporter, logger Logger) ApplicationService {
	if logger == nil {
		logger = nopLogger{}
	}
	if caches == nil {
		caches = aicheck.NewRegistry()
	}
	return &applicationServiceImpl{
		records:   records,
		caches:    caches,
		exporters: exporters,
		now:       time.Now,
		logger:    logger,
	}
}

func (s *applicationServiceImpl) List(ctx context.Context, sessionID, month string) ([]*entity.Application, string, error) {
	month = strings.TrimSpace(month)
	if month == "" {
		month = utils.CurrentTargetMonth(s.now())
	}
	if err := utils.ValidateMonth(month); err != nil {
		return nil, month, wrapInvalid(err)
	}

	apps, err := s.records.ListApplications(ctx, month)
	if err != nil {
		s.logger.Error("Failed to list applications", "month", month, "error", err)
		return nil, month, err
	}

	if sessionID != "" {
		cache := s.caches.For(sessionID)
		for _, app := range apps {
			if r, ok := cache.Get(app.ApplicationID); ok {
				app.AICheckResult = r
				app.AIRiskLevel = r.RiskLevel
			}
		}
	}
	return apps, month, nil
}

func (s *applicationServiceImpl) Export(ctx context.Context, w io.Writer, sessionID, month, format string) (*ExportFile, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = "csv"
	}
	exporter, ok := s.exporters[format]
	if !ok {
		return nil, fmt.Errorf("%w: unsupported export format %q", ErrInvalidRequest, format)
	}

	apps, month, err := s.List(ctx, sessionID, month)
	if err != nil {
		return nil, err
	}

	if err := exporter.Write(w, apps); err != nil {
		s.logger.Error("Export failed", "format", format, "month", month, "error", err)
		return nil, err
	}

	return &ExportFile{
		Filename:    fmt.Sprintf("applications_%s.%s", month, exporter.FileExtension()),
		ContentType: exporter.ContentType(),
		Count:       len(apps),
	}, nil
}

func wrapInvalid(err error) error {
	return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
}
