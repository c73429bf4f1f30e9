package service

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/garyjia/settlement-portal/internal/application/port"
	"github.com/garyjia/settlement-portal/internal/application/receipt"
	"github.com/garyjia/settlement-portal/internal/domain/entity"
)

type mockRecords struct {
	listFunc   func(ctx context.Context, month string) ([]*entity.Application, error)
	submitFunc func(ctx context.Context, s entity.CheckSubmission) (json.RawMessage, error)

	mu        sync.Mutex
	submitted []entity.CheckSubmission
}

func (m *mockRecords) ListApplications(ctx context.Context, month string) ([]*entity.Application, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, month)
	}
	return []*entity.Application{}, nil
}

func (m *mockRecords) SubmitCheck(ctx context.Context, s entity.CheckSubmission) (json.RawMessage, error) {
	m.mu.Lock()
	m.submitted = append(m.submitted, s)
	m.mu.Unlock()
	if m.submitFunc != nil {
		return m.submitFunc(ctx, s)
	}
	return json.RawMessage(`{"success":true}`), nil
}

type mockHistoryRepo struct {
	createFunc func(ctx context.Context, item *entity.ApprovalHistoryItem) error
	items      []*entity.ApprovalHistoryItem
}

func (m *mockHistoryRepo) Create(ctx context.Context, item *entity.ApprovalHistoryItem) error {
	if m.createFunc != nil {
		if err := m.createFunc(ctx, item); err != nil {
			return err
		}
	}
	item.ID = "id-" + item.Action
	m.items = append(m.items, item)
	return nil
}

func (m *mockHistoryRepo) ListByApplicationID(ctx context.Context, applicationID string) ([]*entity.ApprovalHistoryItem, error) {
	var out []*entity.ApprovalHistoryItem
	for _, item := range m.items {
		if item.ApplicationID == applicationID {
			out = append(out, item)
		}
	}
	return out, nil
}

type mockFetcher struct {
	fetchFunc func(ctx context.Context, url string) (*receipt.Receipt, error)

	mu    sync.Mutex
	calls int
}

func (m *mockFetcher) Fetch(ctx context.Context, url string) (*receipt.Receipt, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	if m.fetchFunc != nil {
		return m.fetchFunc(ctx, url)
	}
	return &receipt.Receipt{Data: []byte("img"), MimeType: "image/png"}, nil
}

func (m *mockFetcher) FetchByID(ctx context.Context, fileID string) (*receipt.Receipt, error) {
	return &receipt.Receipt{FileID: fileID, Data: []byte("img"), MimeType: "image/png"}, nil
}

type mockChecker struct {
	checkFunc func(ctx context.Context, data []byte, mimeType string, claim entity.Claim) *entity.AICheckResult
}

func (m *mockChecker) Check(ctx context.Context, data []byte, mimeType string, claim entity.Claim) *entity.AICheckResult {
	if m.checkFunc != nil {
		return m.checkFunc(ctx, data, mimeType, claim)
	}
	return &entity.AICheckResult{RiskLevel: entity.RiskOK, Findings: []string{}, Confidence: 0.9}
}

type mockVerifier struct {
	verifyFunc func(ctx context.Context, idToken string) (*port.Identity, error)
}

func (m *mockVerifier) Verify(ctx context.Context, idToken string) (*port.Identity, error) {
	return m.verifyFunc(ctx, idToken)
}

type mockEmployees struct {
	byEmail map[string]*entity.Employee
}

func (m *mockEmployees) FindByGoogleEmail(ctx context.Context, email string) (*entity.Employee, error) {
	if e, ok := m.byEmail[email]; ok {
		return e, nil
	}
	return nil, port.ErrNotFound
}

func (m *mockEmployees) ReplaceAll(ctx context.Context, employees []*entity.Employee) error {
	return nil
}

type mockLeave struct {
	updateFunc func(ctx context.Context, u entity.LeaveApprovalUpdate) (json.RawMessage, error)
}

func (m *mockLeave) UpdateApproval(ctx context.Context, u entity.LeaveApprovalUpdate) (json.RawMessage, error) {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, u)
	}
	return json.RawMessage(`{"success":true}`), nil
}

func (m *mockLeave) ListPaidLeave(ctx context.Context) (json.RawMessage, error) {
	return json.RawMessage(`{"success":true,"data":[]}`), nil
}

func appsWith(apps ...*entity.Application) func(ctx context.Context, month string) ([]*entity.Application, error) {
	return func(ctx context.Context, month string) ([]*entity.Application, error) {
		return apps, nil
	}
}
