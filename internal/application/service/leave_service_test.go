package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/garyjia/settlement-portal/internal/application/port"
	"github.com/garyjia/settlement-portal/internal/domain/entity"
)

func intPtr(i int) *int { return &i }

func TestLeaveService_UpdateApproval(t *testing.T) {
	tests := []struct {
		name    string
		input   LeaveApprovalInput
		wantErr error
	}{
		{name: "hr approval", input: LeaveApprovalInput{RowIndex: intPtr(5), Column: "hr", Value: "確認済"}},
		{name: "cancel", input: LeaveApprovalInput{RowIndex: intPtr(5), Column: "cancelled", Value: true}},
		{name: "missing row", input: LeaveApprovalInput{Column: "hr", Value: "確認済"}, wantErr: ErrInvalidRequest},
		{name: "missing value", input: LeaveApprovalInput{RowIndex: intPtr(5), Column: "hr"}, wantErr: ErrInvalidRequest},
		{name: "unknown column", input: LeaveApprovalInput{RowIndex: intPtr(5), Column: "ceo", Value: "x"}, wantErr: ErrInvalidRequest},
		{name: "value type", input: LeaveApprovalInput{RowIndex: intPtr(5), Column: "hr", Value: 3.5}, wantErr: ErrInvalidRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var sent *entity.LeaveApprovalUpdate
			leave := &mockLeave{updateFunc: func(ctx context.Context, u entity.LeaveApprovalUpdate) (json.RawMessage, error) {
				sent = &u
				return json.RawMessage(`{"success":true}`), nil
			}}
			svc := NewLeaveService(leave, nil)

			_, err := svc.UpdateApproval(context.Background(), tt.input)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("error = %v, want %v", err, tt.wantErr)
				}
				if sent != nil {
					t.Error("leave system called for invalid input")
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if sent == nil || sent.RowIndex != 5 || sent.Column != tt.input.Column {
				t.Errorf("sent = %+v", sent)
			}
		})
	}
}

func TestLeaveService_UpstreamError(t *testing.T) {
	leave := &mockLeave{updateFunc: func(context.Context, entity.LeaveApprovalUpdate) (json.RawMessage, error) {
		return nil, port.ErrUpstreamMisconfigured
	}}
	svc := NewLeaveService(leave, nil)

	_, err := svc.UpdateApproval(context.Background(), LeaveApprovalInput{RowIndex: intPtr(1), Column: "executive", Value: "承認"})
	if !errors.Is(err, port.ErrUpstreamMisconfigured) {
		t.Errorf("error = %v", err)
	}

	reply, err := svc.ListPaidLeave(context.Background())
	if err != nil || len(reply) == 0 {
		t.Errorf("ListPaidLeave() = %s, %v", reply, err)
	}
}
