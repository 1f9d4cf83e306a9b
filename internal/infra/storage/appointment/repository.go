package appointment

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
	"github.com/m04kA/SMC-GroomingService/pkg/types"
)

const (
	appointmentsTable        = "appointments"
	appointmentServicesTable = "appointment_services"
)

var appointmentColumns = []string{
	"id",
	"pet_id",
	"user_id",
	"scheduled_date",
	"scheduled_time",
	"end_time",
	"total_duration_minutes",
	"total_price",
	"status",
	"notes",
	"created_at",
	"updated_at",
}

// Repository репозиторий записей на груминг
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория записей
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает запись вместе с услугами (в порядке appt.Services).
// Вызывается внутри транзакции: при ошибке вставки услуг откатывается и сама запись
func (r *Repository) Create(ctx context.Context, appt *domain.Appointment) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(appointmentsTable).
		Columns(
			"pet_id",
			"user_id",
			"scheduled_date",
			"scheduled_time",
			"end_time",
			"total_duration_minutes",
			"total_price",
			"status",
			"notes",
		).
		Values(
			appt.PetID,
			appt.UserID,
			appt.ScheduledDate.Format(domain.DateFormat),
			appt.ScheduledTime,
			appt.EndTime,
			appt.TotalDurationMinutes,
			appt.TotalPrice,
			appt.Status,
			appt.Notes,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %w", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&appt.ID, &createdAt, &updatedAt); err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	appt.CreatedAt = createdAt.Time
	appt.UpdatedAt = updatedAt.Time

	if len(appt.Services) == 0 {
		return appt, nil
	}

	insertServices := psqlbuilder.Insert(appointmentServicesTable).
		Columns("appointment_id", "service_id", "position", "service_name", "duration_minutes", "price")

	for i := range appt.Services {
		appt.Services[i].Position = i
		line := appt.Services[i]
		insertServices = insertServices.Values(appt.ID, line.ServiceID, line.Position, line.Name, line.DurationMinutes, line.Price)
	}

	query, args, err = insertServices.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build services insert query: %w", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("%w: Create - insert services: %w", ErrExecQuery, err)
	}

	return appt, nil
}

// GetByID получает запись по ID вместе с услугами
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(appointmentColumns...).
		From(appointmentsTable).
		Where(squirrel.Eq{"id": id})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %w", ErrBuildQuery, err)
	}

	appt, err := scanAppointment(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAppointmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan appointment: %w", ErrScanRow, err)
	}

	if err := r.attachServices(ctx, []*domain.Appointment{appt}); err != nil {
		return nil, err
	}

	return appt, nil
}

// List получает записи с фильтрацией.
// Для одной даты сортирует по времени начала; внутри транзакции блокирует строки (FOR UPDATE),
// чтобы параллельные бронирования на тот же день сериализовались
func (r *Repository) List(ctx context.Context, filter domain.AppointmentFilter) ([]*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(appointmentColumns...).
		From(appointmentsTable).
		OrderBy("scheduled_date ASC", "scheduled_time ASC", "id ASC")

	if filter.UserID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"user_id": *filter.UserID})
	}
	if filter.DateFrom != nil {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"scheduled_date": filter.DateFrom.Format(domain.DateFormat)})
	}
	if filter.DateTo != nil {
		selectBuilder = selectBuilder.Where(squirrel.LtOrEq{"scheduled_date": filter.DateTo.Format(domain.DateFormat)})
	}
	if filter.ExcludeID != nil {
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"id": *filter.ExcludeID})
	}

	// Фильтрация по статусу
	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": string(*filter.Status)})
	} else if filter.OnlyActive {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": activeStatusStrings()})
	}

	if filter.Limit > 0 {
		selectBuilder = selectBuilder.Limit(uint64(filter.Limit))
	}

	if dbmetrics.IsInTransaction(ctx) && filter.IsSingleDay() {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %w", ErrExecQuery, err)
	}

	appointments := make([]*domain.Appointment, 0)
	for rows.Next() {
		appt, err := scanAppointment(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("%w: List - scan row: %w", ErrScanRow, err)
		}
		appointments = append(appointments, appt)
	}

	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("%w: List - rows error: %w", ErrScanRow, err)
	}
	// соединение транзакции должно освободиться до следующего запроса
	rows.Close()

	if err := r.attachServices(ctx, appointments); err != nil {
		return nil, err
	}

	return appointments, nil
}

// ListActiveForDay получает записи дня, занимающие вместимость
func (r *Repository) ListActiveForDay(ctx context.Context, date time.Time, excludeID *uuid.UUID) ([]*domain.Appointment, error) {
	return r.List(ctx, domain.AppointmentFilter{
		DateFrom:   &date,
		DateTo:     &date,
		OnlyActive: true,
		ExcludeID:  excludeID,
	})
}

// UpdateStatus меняет статус записи
func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.AppointmentStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(appointmentsTable).
		Set("status", string(status)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %w", ErrBuildQuery, err)
	}

	return r.execAffectingOne(ctx, executor, "UpdateStatus", query, args)
}

// Reschedule переносит запись на новую дату и время
func (r *Repository) Reschedule(ctx context.Context, id uuid.UUID, date time.Time, start, end types.TimeString) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(appointmentsTable).
		Set("scheduled_date", date.Format(domain.DateFormat)).
		Set("scheduled_time", start).
		Set("end_time", end).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Reschedule - build update query: %w", ErrBuildQuery, err)
	}

	return r.execAffectingOne(ctx, executor, "Reschedule", query, args)
}

// Delete физически удаляет запись (услуги удаляются каскадно)
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete(appointmentsTable).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %w", ErrBuildQuery, err)
	}

	return r.execAffectingOne(ctx, executor, "Delete", query, args)
}

func (r *Repository) execAffectingOne(ctx context.Context, executor DBExecutor, op, query string, args []interface{}) error {
	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %s - execute: %w", ErrExecQuery, op, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %w", ErrExecQuery, op, err)
	}

	if rowsAffected == 0 {
		return ErrAppointmentNotFound
	}

	return nil
}

// attachServices загружает услуги для набора записей одним запросом
func (r *Repository) attachServices(ctx context.Context, appointments []*domain.Appointment) error {
	if len(appointments) == 0 {
		return nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	byID := make(map[uuid.UUID]*domain.Appointment, len(appointments))
	ids := make([]uuid.UUID, 0, len(appointments))
	for _, appt := range appointments {
		byID[appt.ID] = appt
		ids = append(ids, appt.ID)
	}

	query, args, err := psqlbuilder.Select(
		"appointment_id",
		"service_id",
		"position",
		"service_name",
		"duration_minutes",
		"price",
	).
		From(appointmentServicesTable).
		Where(squirrel.Eq{"appointment_id": ids}).
		OrderBy("appointment_id", "position ASC").
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: attachServices - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: attachServices - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	for rows.Next() {
		var appointmentID uuid.UUID
		var line domain.AppointmentService

		if err := rows.Scan(
			&appointmentID,
			&line.ServiceID,
			&line.Position,
			&line.Name,
			&line.DurationMinutes,
			&line.Price,
		); err != nil {
			return fmt.Errorf("%w: attachServices - scan row: %w", ErrScanRow, err)
		}

		if appt, ok := byID[appointmentID]; ok {
			appt.Services = append(appt.Services, line)
		}
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("%w: attachServices - rows error: %w", ErrScanRow, err)
	}

	return nil
}

func activeStatusStrings() []string {
	result := make([]string, len(domain.ActiveStatuses))
	for i, s := range domain.ActiveStatuses {
		result[i] = string(s)
	}
	return result
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAppointment(row rowScanner) (*domain.Appointment, error) {
	var appt domain.Appointment
	var createdAt, updatedAt sql.NullTime

	if err := row.Scan(
		&appt.ID,
		&appt.PetID,
		&appt.UserID,
		&appt.ScheduledDate,
		&appt.ScheduledTime,
		&appt.EndTime,
		&appt.TotalDurationMinutes,
		&appt.TotalPrice,
		&appt.Status,
		&appt.Notes,
		&createdAt,
		&updatedAt,
	); err != nil {
		return nil, err
	}

	appt.CreatedAt = createdAt.Time
	appt.UpdatedAt = updatedAt.Time

	return &appt, nil
}
