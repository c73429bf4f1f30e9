package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"go.uber.org/zap"

	"github.com/garyjia/settlement-portal/internal/application/port"
	"github.com/garyjia/settlement-portal/internal/domain/entity"
	"github.com/garyjia/settlement-portal/internal/infrastructure/persistence/sqldb"
)

// EmployeeRepository implements port.EmployeeRepository
type EmployeeRepository struct {
	db     *sqldb.DB
	logger *zap.Logger
}

// NewEmployeeRepository creates a new employee repository
func NewEmployeeRepository(db *sqldb.DB, logger *zap.Logger) *EmployeeRepository {
	return &EmployeeRepository{
		db:     db,
		logger: logger,
	}
}

var _ port.EmployeeRepository = (*EmployeeRepository)(nil)

// FindByGoogleEmail looks an employee up by sign-in address, ignoring case.
func (r *EmployeeRepository) FindByGoogleEmail(ctx context.Context, email string) (*entity.Employee, error) {
	email = normalizeEmail(email)
	if email == "" {
		return nil, port.ErrNotFound
	}

	query, args, err := r.db.Builder().
		Select("employee_number", "name", "department", "role", "company_email", "google_email").
		From("employees").
		Where(sq.Eq{"google_email": email}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select: %w", err)
	}

	var e entity.Employee
	err = r.db.Executor(ctx).QueryRowContext(ctx, query, args...).
		Scan(&e.EmployeeNumber, &e.Name, &e.Department, &e.Role, &e.CompanyEmail, &e.GoogleEmail)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, port.ErrNotFound
	}
	if err != nil {
		r.logger.Error("Failed to find employee", zap.Error(err))
		return nil, fmt.Errorf("failed to find employee: %w", err)
	}
	return &e, nil
}

// ReplaceAll swaps the directory for employees in one transaction. Rows
// without a sign-in address are skipped; later duplicates win.
func (r *EmployeeRepository) ReplaceAll(ctx context.Context, employees []*entity.Employee) error {
	unique := make(map[string]*entity.Employee, len(employees))
	order := make([]string, 0, len(employees))
	for _, e := range employees {
		email := normalizeEmail(e.GoogleEmail)
		if email == "" {
			continue
		}
		if _, seen := unique[email]; !seen {
			order = append(order, email)
		}
		unique[email] = e
	}

	return r.db.WithTransaction(ctx, func(ctx context.Context) error {
		exec := r.db.Executor(ctx)

		query, args, err := r.db.Builder().Delete("employees").ToSql()
		if err != nil {
			return fmt.Errorf("failed to build delete: %w", err)
		}
		if _, err := exec.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("failed to clear employees: %w", err)
		}

		for _, email := range order {
			e := unique[email]
			query, args, err := r.db.Builder().
				Insert("employees").
				Columns("employee_number", "name", "department", "role", "company_email", "google_email").
				Values(strings.TrimSpace(e.EmployeeNumber), strings.TrimSpace(e.Name), strings.TrimSpace(e.Department),
					strings.TrimSpace(e.Role), strings.TrimSpace(e.CompanyEmail), email).
				ToSql()
			if err != nil {
				return fmt.Errorf("failed to build insert: %w", err)
			}
			if _, err := exec.ExecContext(ctx, query, args...); err != nil {
				return fmt.Errorf("failed to insert employee %s: %w", email, err)
			}
		}

		r.logger.Info("Employee directory replaced", zap.Int("count", len(order)))
		return nil
	})
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
