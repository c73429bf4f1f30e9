package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/garyjia/settlement-portal/internal/application/port"
	"github.com/garyjia/settlement-portal/internal/domain/entity"
	domainwf "github.com/garyjia/settlement-portal/internal/domain/workflow"
)

// AppendHistoryInput is one reviewer action to record.
type AppendHistoryInput struct {
	ApplicationID string
	Action        string
	Checker       string
	Comment       *string
}

// HistoryService records and lists the approval audit log.
type HistoryService interface {
	Append(ctx context.Context, in AppendHistoryInput) (*entity.ApprovalHistoryItem, error)
	ListFor(ctx context.Context, applicationID string) ([]*entity.ApprovalHistoryItem, error)
	Available() bool
}

type historyServiceImpl struct {
	repo   port.HistoryRepository
	logger Logger
}

// NewHistoryService creates a HistoryService. A nil repo means no store is
// configured and every call returns port.ErrStoreUnavailable.
func NewHistoryService(repo port.HistoryRepository, logger Logger) HistoryService {
	if logger == nil {
		logger = nopLogger{}
	}
	return &historyServiceImpl{repo: repo, logger: logger}
}

func (s *historyServiceImpl) Available() bool {
	return s.repo != nil
}

// Append validates in and inserts one row.
func (s *historyServiceImpl) Append(ctx context.Context, in AppendHistoryInput) (*entity.ApprovalHistoryItem, error) {
	applicationID := strings.TrimSpace(in.ApplicationID)
	checker := strings.TrimSpace(in.Checker)
	action := domainwf.Trigger(strings.TrimSpace(in.Action))

	if applicationID == "" || checker == "" || in.Action == "" {
		return nil, fmt.Errorf("%w: applicationId, action (one of %s), and checker are required",
			ErrInvalidRequest, domainwf.TriggerList())
	}
	if !action.IsValid() {
		return nil, fmt.Errorf("%w: applicationId, action (one of %s), and checker are required",
			ErrInvalidAction, domainwf.TriggerList())
	}

	if s.repo == nil {
		return nil, fmt.Errorf("%w: no history database is configured", port.ErrStoreUnavailable)
	}

	item := &entity.ApprovalHistoryItem{
		ApplicationID: applicationID,
		Action:        action.String(),
		Checker:       checker,
		Comment:       normalizeComment(in.Comment),
	}
	if err := s.repo.Create(ctx, item); err != nil {
		s.logger.Error("Failed to append history", "application_id", applicationID, "action", action, "error", err)
		return nil, fmt.Errorf("%w: %v", port.ErrStoreUnavailable, err)
	}

	return item, nil
}

// ListFor returns the rows of applicationID, oldest first.
func (s *historyServiceImpl) ListFor(ctx context.Context, applicationID string) ([]*entity.ApprovalHistoryItem, error) {
	applicationID = strings.TrimSpace(applicationID)
	if applicationID == "" {
		return nil, fmt.Errorf("%w: applicationId is required", ErrInvalidRequest)
	}
	if s.repo == nil {
		return nil, fmt.Errorf("%w: no history database is configured", port.ErrStoreUnavailable)
	}

	items, err := s.repo.ListByApplicationID(ctx, applicationID)
	if err != nil {
		s.logger.Error("Failed to list history", "application_id", applicationID, "error", err)
		return nil, fmt.Errorf("%w: %v", port.ErrStoreUnavailable, err)
	}
	if items == nil {
		items = []*entity.ApprovalHistoryItem{}
	}
	return items, nil
}

// normalizeComment maps blank comments to nil.
func normalizeComment(c *string) *string {
	if c == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*c)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
