package capacity

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/m04kA/SMC-GroomingService/internal/domain"
	"github.com/m04kA/SMC-GroomingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-GroomingService/pkg/psqlbuilder"
)

const (
	staffSchedulesTable  = "staff_schedules"
	defaultCapacityTable = "default_capacity"
)

var staffScheduleColumns = []string{
	"id",
	"day_of_week",
	"start_time",
	"end_time",
	"staff_count",
	"appointments_per_hour",
	"created_at",
	"updated_at",
}

// Repository репозиторий окон расписания персонала и глобальной вместимости
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория вместимости
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// ListStaffSchedules получает окна расписания персонала.
// Если dayOfWeek указан, возвращает только окна этого дня.
// Порядок детерминирован: (day_of_week, start_time, id)
func (r *Repository) ListStaffSchedules(ctx context.Context, dayOfWeek *int) ([]*domain.StaffSchedule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(staffScheduleColumns...).
		From(staffSchedulesTable).
		OrderBy("day_of_week ASC", "start_time ASC", "id ASC")

	if dayOfWeek != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"day_of_week": *dayOfWeek})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListStaffSchedules - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListStaffSchedules - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	result := make([]*domain.StaffSchedule, 0)
	for rows.Next() {
		schedule, err := scanStaffSchedule(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListStaffSchedules - scan row: %w", ErrScanRow, err)
		}
		result = append(result, schedule)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListStaffSchedules - rows error: %w", ErrScanRow, err)
	}

	return result, nil
}

// GetStaffSchedule получает окно по ID
func (r *Repository) GetStaffSchedule(ctx context.Context, id uuid.UUID) (*domain.StaffSchedule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(staffScheduleColumns...).
		From(staffSchedulesTable).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetStaffSchedule - build select query: %w", ErrBuildQuery, err)
	}

	schedule, err := scanStaffSchedule(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrStaffScheduleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetStaffSchedule - scan: %w", ErrScanRow, err)
	}

	return schedule, nil
}

// CreateStaffSchedule создает окно расписания персонала
func (r *Repository) CreateStaffSchedule(ctx context.Context, schedule *domain.StaffSchedule) (*domain.StaffSchedule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(staffSchedulesTable).
		Columns("day_of_week", "start_time", "end_time", "staff_count", "appointments_per_hour").
		Values(schedule.DayOfWeek, schedule.StartTime, schedule.EndTime, schedule.StaffCount, schedule.AppointmentsPerHour).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: CreateStaffSchedule - build insert query: %w", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&schedule.ID, &createdAt, &updatedAt); err != nil {
		return nil, fmt.Errorf("%w: CreateStaffSchedule - execute insert: %w", ErrExecQuery, err)
	}

	schedule.CreatedAt = createdAt.Time
	schedule.UpdatedAt = updatedAt.Time

	return schedule, nil
}

// UpdateStaffSchedule обновляет окно расписания персонала
func (r *Repository) UpdateStaffSchedule(ctx context.Context, schedule *domain.StaffSchedule) (*domain.StaffSchedule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(staffSchedulesTable).
		Set("day_of_week", schedule.DayOfWeek).
		Set("start_time", schedule.StartTime).
		Set("end_time", schedule.EndTime).
		Set("staff_count", schedule.StaffCount).
		Set("appointments_per_hour", schedule.AppointmentsPerHour).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": schedule.ID}).
		Suffix("RETURNING created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: UpdateStaffSchedule - build update query: %w", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrStaffScheduleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: UpdateStaffSchedule - execute update: %w", ErrExecQuery, err)
	}

	schedule.CreatedAt = createdAt.Time
	schedule.UpdatedAt = updatedAt.Time

	return schedule, nil
}

// DeleteStaffSchedule удаляет окно расписания персонала
func (r *Repository) DeleteStaffSchedule(ctx context.Context, id uuid.UUID) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete(staffSchedulesTable).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: DeleteStaffSchedule - build delete query: %w", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: DeleteStaffSchedule - execute delete: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: DeleteStaffSchedule - get rows affected: %w", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrStaffScheduleNotFound
	}

	return nil
}

// GetDefaultCapacity получает глобальную вместимость (единственная запись)
func (r *Repository) GetDefaultCapacity(ctx context.Context) (*domain.DefaultCapacity, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "appointments_per_hour", "updated_at").
		From(defaultCapacityTable).
		OrderBy("updated_at DESC").
		Limit(1).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetDefaultCapacity - build select query: %w", ErrBuildQuery, err)
	}

	var capacity domain.DefaultCapacity
	var updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(&capacity.ID, &capacity.AppointmentsPerHour, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrDefaultCapacityNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetDefaultCapacity - scan: %w", ErrScanRow, err)
	}

	capacity.UpdatedAt = updatedAt.Time

	return &capacity, nil
}

// SetDefaultCapacity обновляет глобальную вместимость, создавая запись при отсутствии
func (r *Repository) SetDefaultCapacity(ctx context.Context, appointmentsPerHour int) (*domain.DefaultCapacity, error) {
	current, err := r.GetDefaultCapacity(ctx)
	if err != nil && !errors.Is(err, ErrDefaultCapacityNotFound) {
		return nil, err
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	var (
		query string
		args  []interface{}
	)
	if current == nil {
		query, args, err = psqlbuilder.Insert(defaultCapacityTable).
			Columns("appointments_per_hour").
			Values(appointmentsPerHour).
			Suffix("RETURNING id, updated_at").
			ToSql()
	} else {
		query, args, err = psqlbuilder.Update(defaultCapacityTable).
			Set("appointments_per_hour", appointmentsPerHour).
			Set("updated_at", squirrel.Expr("NOW()")).
			Where(squirrel.Eq{"id": current.ID}).
			Suffix("RETURNING id, updated_at").
			ToSql()
	}
	if err != nil {
		return nil, fmt.Errorf("%w: SetDefaultCapacity - build query: %w", ErrBuildQuery, err)
	}

	capacity := domain.DefaultCapacity{AppointmentsPerHour: appointmentsPerHour}
	var updatedAt sql.NullTime

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&capacity.ID, &updatedAt); err != nil {
		return nil, fmt.Errorf("%w: SetDefaultCapacity - execute: %w", ErrExecQuery, err)
	}

	capacity.UpdatedAt = updatedAt.Time

	return &capacity, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanStaffSchedule(row rowScanner) (*domain.StaffSchedule, error) {
	var schedule domain.StaffSchedule
	var createdAt, updatedAt sql.NullTime

	if err := row.Scan(
		&schedule.ID,
		&schedule.DayOfWeek,
		&schedule.StartTime,
		&schedule.EndTime,
		&schedule.StaffCount,
		&schedule.AppointmentsPerHour,
		&createdAt,
		&updatedAt,
	); err != nil {
		return nil, err
	}

	schedule.CreatedAt = createdAt.Time
	schedule.UpdatedAt = updatedAt.Time

	return &schedule, nil
}
