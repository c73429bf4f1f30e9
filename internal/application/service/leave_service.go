package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/garyjia/settlement-portal/internal/application/port"
	"github.com/garyjia/settlement-portal/internal/domain/entity"
)

var leaveColumns = map[string]bool{
	entity.LeaveColumnBranchManager: true,
	entity.LeaveColumnExecutive:     true,
	entity.LeaveColumnHR:            true,
	entity.LeaveColumnCancelled:     true,
}

// LeaveApprovalInput is a leave approval change; nil fields are missing.
type LeaveApprovalInput struct {
	RowIndex *int
	Column   string
	Value    interface{}
}

// LeaveService relays leave approvals to the leave system.
type LeaveService interface {
	UpdateApproval(ctx context.Context, in LeaveApprovalInput) (json.RawMessage, error)
	ListPaidLeave(ctx context.Context) (json.RawMessage, error)
}

type leaveServiceImpl struct {
	leave  port.LeaveSystem
	logger Logger
}

// NewLeaveService creates a new LeaveService
func NewLeaveService(leave port.LeaveSystem, logger Logger) LeaveService {
	if logger == nil {
		logger = nopLogger{}
	}
	return &leaveServiceImpl{leave: leave, logger: logger}
}

func (s *leaveServiceImpl) UpdateApproval(ctx context.Context, in LeaveApprovalInput) (json.RawMessage, error) {
	column := strings.TrimSpace(in.Column)
	if in.RowIndex == nil || column == "" || in.Value == nil {
		return nil, fmt.Errorf("%w: rowIndex, column, value が必要です", ErrInvalidRequest)
	}
	if !leaveColumns[column] {
		return nil, fmt.Errorf("%w: column must be one of %s, %s, %s, %s", ErrInvalidRequest,
			entity.LeaveColumnBranchManager, entity.LeaveColumnExecutive, entity.LeaveColumnHR, entity.LeaveColumnCancelled)
	}
	switch in.Value.(type) {
	case string, bool:
	default:
		return nil, fmt.Errorf("%w: value must be a string or boolean", ErrInvalidRequest)
	}

	reply, err := s.leave.UpdateApproval(ctx, entity.LeaveApprovalUpdate{
		RowIndex: *in.RowIndex,
		Column:   column,
		Value:    in.Value,
	})
	if err != nil {
		s.logger.Error("Leave approval update failed", "row_index", *in.RowIndex, "column", column, "error", err)
		return nil, err
	}

	s.logger.Info("Leave approval updated", "row_index", *in.RowIndex, "column", column)
	return reply, nil
}

func (s *leaveServiceImpl) ListPaidLeave(ctx context.Context) (json.RawMessage, error) {
	reply, err := s.leave.ListPaidLeave(ctx)
	if err != nil {
		s.logger.Error("Paid leave list failed", "error", err)
		return nil, err
	}
	return reply, nil
}
