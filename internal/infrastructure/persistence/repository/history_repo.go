package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/garyjia/settlement-portal/internal/application/port"
	"github.com/garyjia/settlement-portal/internal/domain/entity"
	"github.com/garyjia/settlement-portal/internal/infrastructure/persistence/sqldb"
)

// HistoryRepository implements port.HistoryRepository
type HistoryRepository struct {
	db     *sqldb.DB
	now    func() time.Time
	logger *zap.Logger
}

// NewHistoryRepository creates a new history repository
func NewHistoryRepository(db *sqldb.DB, logger *zap.Logger) *HistoryRepository {
	return &HistoryRepository{
		db:     db,
		now:    time.Now,
		logger: logger,
	}
}

var _ port.HistoryRepository = (*HistoryRepository)(nil)

// Create inserts a history row. ID and CreatedAt are assigned here and written
// back to item.
func (r *HistoryRepository) Create(ctx context.Context, item *entity.ApprovalHistoryItem) error {
	item.ID = uuid.NewString()
	item.CreatedAt = r.now().UTC().Truncate(time.Microsecond)

	query, args, err := r.db.Builder().
		Insert("approval_history").
		Columns("id", "application_id", "action", "checker", "comment", "created_at").
		Values(item.ID, item.ApplicationID, item.Action, item.Checker, nullString(item.Comment), item.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build insert: %w", err)
	}

	if _, err := r.db.Executor(ctx).ExecContext(ctx, query, args...); err != nil {
		r.logger.Error("Failed to create history record",
			zap.String("application_id", item.ApplicationID),
			zap.Error(err))
		return fmt.Errorf("failed to create history: %w", err)
	}

	r.logger.Info("History record created",
		zap.String("id", item.ID),
		zap.String("application_id", item.ApplicationID),
		zap.String("action", item.Action))
	return nil
}

// ListByApplicationID returns the rows of one application, oldest first.
// Rows with equal timestamps keep insertion order.
func (r *HistoryRepository) ListByApplicationID(ctx context.Context, applicationID string) ([]*entity.ApprovalHistoryItem, error) {
	query, args, err := r.db.Builder().
		Select("id", "application_id", "action", "checker", "comment", "created_at").
		From("approval_history").
		Where("application_id = ?", applicationID).
		OrderBy("created_at ASC", "seq ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select: %w", err)
	}

	rows, err := r.db.Executor(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to list history", zap.String("application_id", applicationID), zap.Error(err))
		return nil, fmt.Errorf("failed to list history: %w", err)
	}
	defer rows.Close()

	items := make([]*entity.ApprovalHistoryItem, 0)
	for rows.Next() {
		var (
			item    entity.ApprovalHistoryItem
			comment sql.NullString
		)
		if err := rows.Scan(&item.ID, &item.ApplicationID, &item.Action, &item.Checker, &comment, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan history: %w", err)
		}
		if comment.Valid {
			c := comment.String
			item.Comment = &c
		}
		item.CreatedAt = item.CreatedAt.UTC()
		items = append(items, &item)
	}

	return items, rows.Err()
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
