package port

import (
	"context"

	"github.com/garyjia/settlement-portal/internal/domain/entity"
)

// HistoryRepository persists the approval audit log. Rows are only inserted.
type HistoryRepository interface {
	Create(ctx context.Context, item *entity.ApprovalHistoryItem) error
	ListByApplicationID(ctx context.Context, applicationID string) ([]*entity.ApprovalHistoryItem, error)
}

// EmployeeRepository is the employee directory consulted at login.
type EmployeeRepository interface {
	// FindByGoogleEmail returns ErrNotFound when no employee uses email.
	FindByGoogleEmail(ctx context.Context, email string) (*entity.Employee, error)

	// ReplaceAll swaps the whole directory for employees in one transaction.
	ReplaceAll(ctx context.Context, employees []*entity.Employee) error
}

// TransactionManager runs fn inside a database transaction carried by ctx.
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
