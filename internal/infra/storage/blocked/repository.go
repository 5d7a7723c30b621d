package blocked

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/avkuzn/Salon-BookingBot/internal/domain"
	"github.com/avkuzn/Salon-BookingBot/pkg/psqlbuilder"
	"github.com/avkuzn/Salon-BookingBot/pkg/txmanager"
)

// Repository репозиторий заблокированных интервалов (перерывы, отгулы)
type Repository struct {
	db txmanager.DBExecutor
}

// NewRepository создает новый экземпляр репозитория
func NewRepository(db txmanager.DBExecutor) *Repository {
	return &Repository{db: db}
}

// ListInWindow получает интервалы, пересекающие полуоткрытое окно [from, to)
func (r *Repository) ListInWindow(ctx context.Context, from, to time.Time) ([]*domain.BlockedInterval, error) {
	executor := txmanager.Executor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"start_at",
		"end_at",
		"reason",
		"created_at",
	).
		From("blocked_intervals").
		Where(squirrel.Lt{"start_at": to.UTC()}).
		Where(squirrel.Gt{"end_at": from.UTC()}).
		OrderBy("start_at ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListInWindow - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListInWindow - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	intervals := make([]*domain.BlockedInterval, 0)
	for rows.Next() {
		var b domain.BlockedInterval
		var createdAt sql.NullTime

		if err := rows.Scan(&b.ID, &b.StartAt, &b.EndAt, &b.Reason, &createdAt); err != nil {
			return nil, fmt.Errorf("%w: ListInWindow - scan row: %w", ErrScanRow, err)
		}

		b.StartAt = b.StartAt.UTC()
		b.EndAt = b.EndAt.UTC()
		b.CreatedAt = createdAt.Time
		intervals = append(intervals, &b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListInWindow - rows error: %w", ErrScanRow, err)
	}

	return intervals, nil
}

// Create создает новый заблокированный интервал
func (r *Repository) Create(ctx context.Context, b *domain.BlockedInterval) (*domain.BlockedInterval, error) {
	executor := txmanager.Executor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("blocked_intervals").
		Columns("start_at", "end_at", "reason").
		Values(b.StartAt.UTC(), b.EndAt.UTC(), b.Reason).
		Suffix("RETURNING id, created_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %w", ErrBuildQuery, err)
	}

	var createdAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&b.ID, &createdAt); err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	b.CreatedAt = createdAt.Time
	return b, nil
}

// Delete удаляет заблокированный интервал
func (r *Repository) Delete(ctx context.Context, id int64) error {
	executor := txmanager.Executor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("blocked_intervals").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %w", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Delete - execute delete: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Delete - get rows affected: %w", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrIntervalNotFound
	}

	return nil
}
