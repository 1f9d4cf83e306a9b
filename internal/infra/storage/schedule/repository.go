package schedule

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/m04kA/SMC-GroomingService/internal/domain"
	"github.com/m04kA/SMC-GroomingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-GroomingService/pkg/psqlbuilder"
)

const (
	businessHoursTable = "business_hours"
	blockedTimesTable  = "blocked_times"
)

// Repository репозиторий рабочих часов и блокировок времени
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория расписания
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetBusinessHours получает рабочие часы для дня недели (0 = воскресенье)
func (r *Repository) GetBusinessHours(ctx context.Context, dayOfWeek int) (*domain.BusinessHours, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"day_of_week",
		"open_time",
		"close_time",
		"is_closed",
		"updated_at",
	).
		From(businessHoursTable).
		Where(squirrel.Eq{"day_of_week": dayOfWeek}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetBusinessHours - build select query: %w", ErrBuildQuery, err)
	}

	var hours domain.BusinessHours
	var updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&hours.ID,
		&hours.DayOfWeek,
		&hours.OpenTime,
		&hours.CloseTime,
		&hours.IsClosed,
		&updatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBusinessHoursNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetBusinessHours - scan: %w", ErrScanRow, err)
	}

	hours.UpdatedAt = updatedAt.Time

	return &hours, nil
}

// ListBusinessHours получает рабочие часы всех дней, отсортированные по дню недели
func (r *Repository) ListBusinessHours(ctx context.Context) ([]*domain.BusinessHours, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"day_of_week",
		"open_time",
		"close_time",
		"is_closed",
		"updated_at",
	).
		From(businessHoursTable).
		OrderBy("day_of_week ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListBusinessHours - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListBusinessHours - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	result := make([]*domain.BusinessHours, 0, 7)
	for rows.Next() {
		var hours domain.BusinessHours
		var updatedAt sql.NullTime

		if err := rows.Scan(
			&hours.ID,
			&hours.DayOfWeek,
			&hours.OpenTime,
			&hours.CloseTime,
			&hours.IsClosed,
			&updatedAt,
		); err != nil {
			return nil, fmt.Errorf("%w: ListBusinessHours - scan row: %w", ErrScanRow, err)
		}

		hours.UpdatedAt = updatedAt.Time
		result = append(result, &hours)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListBusinessHours - rows error: %w", ErrScanRow, err)
	}

	return result, nil
}

// UpsertBusinessHours создает или обновляет запись дня недели (одна запись на день)
func (r *Repository) UpsertBusinessHours(ctx context.Context, hours *domain.BusinessHours) (*domain.BusinessHours, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(businessHoursTable).
		Columns("day_of_week", "open_time", "close_time", "is_closed").
		Values(hours.DayOfWeek, hours.OpenTime, hours.CloseTime, hours.IsClosed).
		Suffix(`ON CONFLICT (day_of_week) DO UPDATE SET
			open_time = EXCLUDED.open_time,
			close_time = EXCLUDED.close_time,
			is_closed = EXCLUDED.is_closed,
			updated_at = NOW()
		RETURNING id, updated_at`).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: UpsertBusinessHours - build insert query: %w", ErrBuildQuery, err)
	}

	var updatedAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&hours.ID, &updatedAt); err != nil {
		return nil, fmt.Errorf("%w: UpsertBusinessHours - execute insert: %w", ErrExecQuery, err)
	}

	hours.UpdatedAt = updatedAt.Time

	return hours, nil
}

// ListBlockedTimes получает блокировки на конкретную дату, отсортированные по времени начала
func (r *Repository) ListBlockedTimes(ctx context.Context, date time.Time) ([]*domain.BlockedTime, error) {
	return r.listBlockedTimes(ctx, "ListBlockedTimes", squirrel.Eq{"date": date.Format(domain.DateFormat)})
}

// ListBlockedTimesFrom получает блокировки начиная с даты (включительно)
func (r *Repository) ListBlockedTimesFrom(ctx context.Context, from time.Time) ([]*domain.BlockedTime, error) {
	return r.listBlockedTimes(ctx, "ListBlockedTimesFrom", squirrel.GtOrEq{"date": from.Format(domain.DateFormat)})
}

func (r *Repository) listBlockedTimes(ctx context.Context, op string, where squirrel.Sqlizer) ([]*domain.BlockedTime, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"date",
		"start_time",
		"end_time",
		"reason",
		"created_at",
	).
		From(blockedTimesTable).
		Where(where).
		OrderBy("date ASC", "start_time ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %w", ErrBuildQuery, op, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute query: %w", ErrExecQuery, op, err)
	}
	defer rows.Close()

	result := make([]*domain.BlockedTime, 0)
	for rows.Next() {
		block, err := scanBlockedTime(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %s - scan row: %w", ErrScanRow, op, err)
		}
		result = append(result, block)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s - rows error: %w", ErrScanRow, op, err)
	}

	return result, nil
}

// GetBlockedTime получает блокировку по ID
func (r *Repository) GetBlockedTime(ctx context.Context, id uuid.UUID) (*domain.BlockedTime, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"date",
		"start_time",
		"end_time",
		"reason",
		"created_at",
	).
		From(blockedTimesTable).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetBlockedTime - build select query: %w", ErrBuildQuery, err)
	}

	block, err := scanBlockedTime(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBlockedTimeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetBlockedTime - scan: %w", ErrScanRow, err)
	}

	return block, nil
}

// CreateBlockedTime создает блокировку времени
func (r *Repository) CreateBlockedTime(ctx context.Context, block *domain.BlockedTime) (*domain.BlockedTime, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(blockedTimesTable).
		Columns("date", "start_time", "end_time", "reason").
		Values(block.Date.Format(domain.DateFormat), block.StartTime, block.EndTime, block.Reason).
		Suffix("RETURNING id, created_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: CreateBlockedTime - build insert query: %w", ErrBuildQuery, err)
	}

	var createdAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&block.ID, &createdAt); err != nil {
		return nil, fmt.Errorf("%w: CreateBlockedTime - execute insert: %w", ErrExecQuery, err)
	}

	block.CreatedAt = createdAt.Time

	return block, nil
}

// UpdateBlockedTime обновляет блокировку
func (r *Repository) UpdateBlockedTime(ctx context.Context, block *domain.BlockedTime) (*domain.BlockedTime, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(blockedTimesTable).
		Set("date", block.Date.Format(domain.DateFormat)).
		Set("start_time", block.StartTime).
		Set("end_time", block.EndTime).
		Set("reason", block.Reason).
		Where(squirrel.Eq{"id": block.ID}).
		Suffix("RETURNING created_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: UpdateBlockedTime - build update query: %w", ErrBuildQuery, err)
	}

	var createdAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBlockedTimeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: UpdateBlockedTime - execute update: %w", ErrExecQuery, err)
	}

	block.CreatedAt = createdAt.Time

	return block, nil
}

// DeleteBlockedTime удаляет блокировку
func (r *Repository) DeleteBlockedTime(ctx context.Context, id uuid.UUID) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete(blockedTimesTable).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: DeleteBlockedTime - build delete query: %w", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: DeleteBlockedTime - execute delete: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: DeleteBlockedTime - get rows affected: %w", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrBlockedTimeNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBlockedTime(row rowScanner) (*domain.BlockedTime, error) {
	var block domain.BlockedTime
	var createdAt sql.NullTime

	if err := row.Scan(
		&block.ID,
		&block.Date,
		&block.StartTime,
		&block.EndTime,
		&block.Reason,
		&createdAt,
	); err != nil {
		return nil, err
	}

	block.CreatedAt = createdAt.Time

	return &block, nil
}
