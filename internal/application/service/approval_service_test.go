package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/garyjia/settlement-portal/internal/application/port"
	"github.com/garyjia/settlement-portal/internal/domain/entity"
	domainwf "github.com/garyjia/settlement-portal/internal/domain/workflow"
)

func TestApprovalService_Submit_SendToExecutive(t *testing.T) {
	records := &mockRecords{listFunc: appsWith(&entity.Application{ApplicationID: "APP-1", CheckStatus: "未確認"})}
	repo := &mockHistoryRepo{}
	svc := NewApprovalService(records, NewHistoryService(repo, nil), ApprovalOptions{}, nil)

	result, err := svc.Submit(context.Background(), SubmitCheckInput{
		ApplicationID: "APP-1",
		Action:        "send_to_executive",
		Checker:       "経理担当者",
	})
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	if result.PreviousStatus != "未確認" || result.NewStatus != "役員確認待ち" {
		t.Errorf("transition = %s -> %s, want 未確認 -> 役員確認待ち", result.PreviousStatus, result.NewStatus)
	}
	if !result.HistoryRecorded {
		t.Error("HistoryRecorded = false, want true")
	}
	if len(records.submitted) != 1 || records.submitted[0].Action != "send_to_executive" {
		t.Errorf("submitted = %+v", records.submitted)
	}
	if len(repo.items) != 1 {
		t.Fatalf("history rows = %d, want 1", len(repo.items))
	}
	if repo.items[0].Checker != "経理担当者" || repo.items[0].Comment != nil {
		t.Errorf("history row = %+v", repo.items[0])
	}
}

func TestApprovalService_Submit_ExecutiveReject(t *testing.T) {
	records := &mockRecords{listFunc: appsWith(&entity.Application{ApplicationID: "APP-2", CheckStatus: "役員確認待ち"})}
	repo := &mockHistoryRepo{}
	svc := NewApprovalService(records, NewHistoryService(repo, nil), ApprovalOptions{}, nil)

	result, err := svc.Submit(context.Background(), SubmitCheckInput{
		ApplicationID: "APP-2",
		Action:        "executive_reject",
		Checker:       "役員",
		Comment:       "領収書が不鮮明",
	})
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if result.NewStatus != "差し戻し" {
		t.Errorf("NewStatus = %s, want 差し戻し", result.NewStatus)
	}
	if records.submitted[0].Comment != "領収書が不鮮明" {
		t.Errorf("comment not relayed: %+v", records.submitted[0])
	}
	if repo.items[0].Comment == nil || *repo.items[0].Comment != "領収書が不鮮明" {
		t.Errorf("history comment = %v", repo.items[0].Comment)
	}
}

func TestApprovalService_Submit_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		status  string
		input   SubmitCheckInput
		wantErr error
	}{
		{
			name:    "missing checker",
			status:  "未確認",
			input:   SubmitCheckInput{ApplicationID: "APP-1", Action: "accounting_approve"},
			wantErr: ErrInvalidRequest,
		},
		{
			name:    "unknown action",
			status:  "未確認",
			input:   SubmitCheckInput{ApplicationID: "APP-1", Action: "approve_all", Checker: "x"},
			wantErr: ErrInvalidAction,
		},
		{
			name:    "unknown application",
			status:  "未確認",
			input:   SubmitCheckInput{ApplicationID: "APP-404", Action: "accounting_approve", Checker: "x"},
			wantErr: ErrApplicationNotFound,
		},
		{
			name:    "final approval only accepts cancel",
			status:  "最終承認済",
			input:   SubmitCheckInput{ApplicationID: "APP-1", Action: "accounting_approve", Checker: "x"},
			wantErr: domainwf.ErrInvalidTransition,
		},
		{
			name:    "executive approve from unconfirmed",
			status:  "未確認",
			input:   SubmitCheckInput{ApplicationID: "APP-1", Action: "executive_approve", Checker: "x"},
			wantErr: domainwf.ErrInvalidTransition,
		},
		{
			name:    "corrupt status",
			status:  "保留",
			input:   SubmitCheckInput{ApplicationID: "APP-1", Action: "accounting_approve", Checker: "x"},
			wantErr: domainwf.ErrInvalidState,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records := &mockRecords{listFunc: appsWith(&entity.Application{ApplicationID: "APP-1", CheckStatus: tt.status})}
			repo := &mockHistoryRepo{}
			svc := NewApprovalService(records, NewHistoryService(repo, nil), ApprovalOptions{}, nil)

			_, err := svc.Submit(context.Background(), tt.input)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Submit() error = %v, want %v", err, tt.wantErr)
			}
			if len(records.submitted) != 0 {
				t.Error("system of record must not be called for a rejected action")
			}
			if len(repo.items) != 0 {
				t.Error("history must not be written for a rejected action")
			}
		})
	}
}

func TestApprovalService_Submit_UpstreamFailure(t *testing.T) {
	records := &mockRecords{
		listFunc: appsWith(&entity.Application{ApplicationID: "APP-1", CheckStatus: "未確認"}),
		submitFunc: func(ctx context.Context, s entity.CheckSubmission) (json.RawMessage, error) {
			return nil, fmt.Errorf("%w: シートがロックされています", port.ErrUpstream)
		},
	}
	repo := &mockHistoryRepo{}
	svc := NewApprovalService(records, NewHistoryService(repo, nil), ApprovalOptions{}, nil)

	_, err := svc.Submit(context.Background(), SubmitCheckInput{ApplicationID: "APP-1", Action: "accounting_approve", Checker: "x"})
	if !errors.Is(err, port.ErrUpstream) {
		t.Fatalf("Submit() error = %v, want ErrUpstream", err)
	}
	if len(repo.items) != 0 {
		t.Error("history must not be written when the system of record fails")
	}
}

func TestApprovalService_Submit_HistoryFailureIsReported(t *testing.T) {
	records := &mockRecords{listFunc: appsWith(&entity.Application{ApplicationID: "APP-1", CheckStatus: "差し戻し"})}

	for name, history := range map[string]HistoryService{
		"store down": NewHistoryService(&mockHistoryRepo{createFunc: func(context.Context, *entity.ApprovalHistoryItem) error { return errors.New("connection refused") }}, nil),
		"no store":   NewHistoryService(nil, nil),
	} {
		t.Run(name, func(t *testing.T) {
			svc := NewApprovalService(records, history, ApprovalOptions{}, nil)
			result, err := svc.Submit(context.Background(), SubmitCheckInput{ApplicationID: "APP-1", Action: "accounting_approve", Checker: "x"})
			if err != nil {
				t.Fatalf("Submit() error = %v", err)
			}
			if result.HistoryRecorded {
				t.Error("HistoryRecorded = true, want false")
			}
			if result.NewStatus != "経理承認済" {
				t.Errorf("NewStatus = %s", result.NewStatus)
			}
		})
	}
}

func TestApprovalService_Submit_Acknowledgements(t *testing.T) {
	records := &mockRecords{listFunc: appsWith(&entity.Application{ApplicationID: "APP-1", CheckStatus: "未確認"})}
	svc := NewApprovalService(records, NewHistoryService(&mockHistoryRepo{}, nil), ApprovalOptions{EnforceAcknowledgements: true}, nil)

	_, err := svc.Submit(context.Background(), SubmitCheckInput{ApplicationID: "APP-1", Action: "accounting_approve", Checker: "x", ReceiptReviewed: true})
	if !errors.Is(err, domainwf.ErrGuardFailed) {
		t.Fatalf("Submit() error = %v, want ErrGuardFailed", err)
	}

	_, err = svc.Submit(context.Background(), SubmitCheckInput{ApplicationID: "APP-1", Action: "accounting_approve", Checker: "x", ReceiptReviewed: true, ContentConfirmed: true})
	if err != nil {
		t.Fatalf("Submit() with both acknowledgements error = %v", err)
	}

	// Other actions are not gated.
	_, err = svc.Submit(context.Background(), SubmitCheckInput{ApplicationID: "APP-1", Action: "send_to_executive", Checker: "x"})
	if err != nil {
		t.Fatalf("send_to_executive error = %v", err)
	}
}
