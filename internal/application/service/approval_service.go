package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/garyjia/settlement-portal/internal/application/port"
	"github.com/garyjia/settlement-portal/internal/application/workflow"
	"github.com/garyjia/settlement-portal/internal/domain/entity"
	domainwf "github.com/garyjia/settlement-portal/internal/domain/workflow"
)

// SubmitCheckInput is a reviewer action on one application.
type SubmitCheckInput struct {
	ApplicationID string
	Action        string
	Checker       string
	Comment       string
	// TargetMonth narrows the status lookup; empty searches all months.
	TargetMonth      string
	ReceiptReviewed  bool
	ContentConfirmed bool
}

// SubmitCheckResult describes an accepted action.
type SubmitCheckResult struct {
	ApplicationID   string                      `json:"applicationId"`
	PreviousStatus  string                      `json:"previousStatus"`
	NewStatus       string                      `json:"newStatus"`
	Upstream        json.RawMessage             `json:"upstream,omitempty"`
	HistoryRecorded bool                        `json:"historyRecorded"`
	History         *entity.ApprovalHistoryItem `json:"history,omitempty"`
}

// ApprovalService applies reviewer actions: state check, system-of-record
// write, then history append.
type ApprovalService interface {
	Submit(ctx context.Context, in SubmitCheckInput) (*SubmitCheckResult, error)
}

// ApprovalOptions tunes ApprovalService.
type ApprovalOptions struct {
	// EnforceAcknowledgements requires both acknowledgement flags for accounting_approve.
	EnforceAcknowledgements bool
}

type approvalServiceImpl struct {
	records port.SystemOfRecord
	history HistoryService
	opts    ApprovalOptions
	logger  Logger
}

// NewApprovalService creates a new ApprovalService
func NewApprovalService(records port.SystemOfRecord, history HistoryService, opts ApprovalOptions, logger Logger) ApprovalService {
	if logger == nil {
		logger = nopLogger{}
	}
	return &approvalServiceImpl{
		records: records,
		history: history,
		opts:    opts,
		logger:  logger,
	}
}

// Submit runs one action. The system-of-record write and the history append
// are not atomic: a history failure after a successful write is logged and
// reported through HistoryRecorded.
func (s *approvalServiceImpl) Submit(ctx context.Context, in SubmitCheckInput) (*SubmitCheckResult, error) {
	in.ApplicationID = strings.TrimSpace(in.ApplicationID)
	in.Checker = strings.TrimSpace(in.Checker)
	in.Action = strings.TrimSpace(in.Action)

	if in.ApplicationID == "" || in.Action == "" || in.Checker == "" {
		return nil, fmt.Errorf("%w: Missing applicationId, action, or checker", ErrInvalidRequest)
	}
	action := domainwf.Trigger(in.Action)
	if !action.IsValid() {
		return nil, fmt.Errorf("%w: %q is not one of %s", ErrInvalidAction, in.Action, domainwf.TriggerList())
	}

	app, err := s.findApplication(ctx, in.ApplicationID, in.TargetMonth)
	if err != nil {
		return nil, err
	}

	current, err := domainwf.ParseState(app.CheckStatus)
	if err != nil {
		return nil, fmt.Errorf("application %s: %w", in.ApplicationID, err)
	}

	if s.opts.EnforceAcknowledgements {
		ctx = workflow.WithAcknowledgement(ctx, workflow.Acknowledgement{
			ReceiptReviewed:  in.ReceiptReviewed,
			ContentConfirmed: in.ContentConfirmed,
		})
	}

	next, err := workflow.Apply(ctx, current, action, in.Checker)
	if err != nil {
		return nil, err
	}

	reply, err := s.records.SubmitCheck(ctx, entity.CheckSubmission{
		ApplicationID: in.ApplicationID,
		Action:        in.Action,
		Checker:       in.Checker,
		Comment:       strings.TrimSpace(in.Comment),
	})
	if err != nil {
		s.logger.Error("System of record rejected check", "application_id", in.ApplicationID, "action", in.Action, "error", err)
		return nil, err
	}

	result := &SubmitCheckResult{
		ApplicationID:  in.ApplicationID,
		PreviousStatus: current.String(),
		NewStatus:      next.String(),
		Upstream:       reply,
	}

	var comment *string
	if in.Comment != "" {
		comment = &in.Comment
	}
	item, err := s.history.Append(ctx, AppendHistoryInput{
		ApplicationID: in.ApplicationID,
		Action:        in.Action,
		Checker:       in.Checker,
		Comment:       comment,
	})
	if err != nil {
		s.logger.Error("History append failed after check was recorded",
			"application_id", in.ApplicationID, "action", in.Action, "error", err)
	} else {
		result.HistoryRecorded = true
		result.History = item
	}

	s.logger.Info("Check submitted",
		"application_id", in.ApplicationID,
		"action", in.Action,
		"checker", in.Checker,
		"from", current.String(),
		"to", next.String())

	return result, nil
}

func (s *approvalServiceImpl) findApplication(ctx context.Context, applicationID, month string) (*entity.Application, error) {
	apps, err := s.records.ListApplications(ctx, month)
	if err != nil {
		if errors.Is(err, port.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrApplicationNotFound, applicationID)
		}
		return nil, err
	}
	for _, app := range apps {
		if app.ApplicationID == applicationID {
			return app, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrApplicationNotFound, applicationID)
}
