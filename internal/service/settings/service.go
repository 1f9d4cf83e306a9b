package settings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-GroomingService/internal/domain"
	capacityRepo "github.com/m04kA/SMC-GroomingService/internal/infra/storage/capacity"
	scheduleRepo "github.com/m04kA/SMC-GroomingService/internal/infra/storage/schedule"
	"github.com/m04kA/SMC-GroomingService/internal/service/settings/models"
	"github.com/m04kA/SMC-GroomingService/pkg/types"
)

// fallbackCapacity используется, пока администратор не задал значение
const fallbackCapacity = 1

// Service сервис настроек салона
type Service struct {
	scheduleRepo ScheduleRepository
	capacityRepo CapacityRepository
	txManager    TransactionManager
	logger       Logger
}

// NewService создает новый экземпляр сервиса настроек
func NewService(
	scheduleRepo ScheduleRepository,
	capacityRepo CapacityRepository,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		scheduleRepo: scheduleRepo,
		capacityRepo: capacityRepo,
		txManager:    txManager,
		logger:       logger,
	}
}

// ListBusinessHours возвращает рабочие часы на все 7 дней
func (s *Service) ListBusinessHours(ctx context.Context) (*models.BusinessHoursListResponse, error) {
	hours, err := s.scheduleRepo.ListBusinessHours(ctx)
	if err != nil {
		s.logger.Error("ListBusinessHours: failed to list business hours: %v", err)
		return nil, fmt.Errorf("%w: ListBusinessHours - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainBusinessHoursList(hours), nil
}

// UpsertBusinessHours устанавливает рабочие часы дня недели
func (s *Service) UpsertBusinessHours(ctx context.Context, day int, req *models.BusinessHoursRequest) (*models.BusinessHoursResponse, error) {
	s.logger.Info("UpsertBusinessHours: day=%d, open=%s, close=%s, closed=%t", day, req.OpenTime, req.CloseTime, req.IsClosed)

	// 1. Валидация
	if !domain.IsValidDayOfWeek(day) {
		return nil, fmt.Errorf("%w: day of week must be 0..6", ErrInvalidInput)
	}
	if !req.IsClosed {
		if err := validateRange(req.OpenTime, req.CloseTime); err != nil {
			return nil, err
		}
	}

	// 2. Сохранение
	saved, err := s.scheduleRepo.UpsertBusinessHours(ctx, req.ToDomainBusinessHours(day))
	if err != nil {
		s.logger.Error("UpsertBusinessHours: failed to save day=%d: %v", day, err)
		return nil, fmt.Errorf("%w: UpsertBusinessHours - repository error: %v", ErrInternal, err)
	}

	resp := models.FromDomainBusinessHours(day, saved)
	return &resp, nil
}

// ListBlockedTimes возвращает блокировки начиная с указанной даты
func (s *Service) ListBlockedTimes(ctx context.Context, from time.Time) (*models.BlockedTimeListResponse, error) {
	blocks, err := s.scheduleRepo.ListBlockedTimesFrom(ctx, normalizeDate(from))
	if err != nil {
		s.logger.Error("ListBlockedTimes: failed to list blocked times from %s: %v", from.Format(domain.DateFormat), err)
		return nil, fmt.Errorf("%w: ListBlockedTimes - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainBlockedTimeList(blocks), nil
}

// CreateBlockedTime создает блокировку времени
func (s *Service) CreateBlockedTime(ctx context.Context, req *models.CreateBlockedTimeRequest) (*models.BlockedTimeResponse, error) {
	s.logger.Info("CreateBlockedTime: date=%s, %s-%s", req.Date.Format(domain.DateFormat), req.StartTime, req.EndTime)

	block := req.ToDomainBlockedTime()
	if err := validateBlockedTime(block); err != nil {
		return nil, err
	}
	block.Date = normalizeDate(block.Date)

	created, err := s.scheduleRepo.CreateBlockedTime(ctx, block)
	if err != nil {
		s.logger.Error("CreateBlockedTime: failed to create: %v", err)
		return nil, fmt.Errorf("%w: CreateBlockedTime - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("CreateBlockedTime: created id=%s", created.ID)
	return models.FromDomainBlockedTime(created), nil
}

// UpdateBlockedTime частично обновляет блокировку
func (s *Service) UpdateBlockedTime(ctx context.Context, id uuid.UUID, req *models.UpdateBlockedTimeRequest) (*models.BlockedTimeResponse, error) {
	s.logger.Info("UpdateBlockedTime: id=%s", id)

	// 1. Получаем текущее состояние
	block, err := s.scheduleRepo.GetBlockedTime(ctx, id)
	if err != nil {
		return nil, s.mapBlockedTimeError("UpdateBlockedTime", id, err)
	}

	// 2. Применяем изменения и валидируем результат
	req.ApplyToBlockedTime(block)
	if err := validateBlockedTime(block); err != nil {
		return nil, err
	}
	block.Date = normalizeDate(block.Date)

	// 3. Сохраняем
	updated, err := s.scheduleRepo.UpdateBlockedTime(ctx, block)
	if err != nil {
		return nil, s.mapBlockedTimeError("UpdateBlockedTime", id, err)
	}

	return models.FromDomainBlockedTime(updated), nil
}

// DeleteBlockedTime удаляет блокировку
func (s *Service) DeleteBlockedTime(ctx context.Context, id uuid.UUID) error {
	s.logger.Info("DeleteBlockedTime: id=%s", id)

	if err := s.scheduleRepo.DeleteBlockedTime(ctx, id); err != nil {
		return s.mapBlockedTimeError("DeleteBlockedTime", id, err)
	}
	return nil
}

// ListStaffSchedules возвращает окна расписания персонала.
// dayOfWeek опционален
func (s *Service) ListStaffSchedules(ctx context.Context, dayOfWeek *int) (*models.StaffScheduleListResponse, error) {
	if dayOfWeek != nil && !domain.IsValidDayOfWeek(*dayOfWeek) {
		return nil, fmt.Errorf("%w: day of week must be 0..6", ErrInvalidInput)
	}

	schedules, err := s.capacityRepo.ListStaffSchedules(ctx, dayOfWeek)
	if err != nil {
		s.logger.Error("ListStaffSchedules: failed to list: %v", err)
		return nil, fmt.Errorf("%w: ListStaffSchedules - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainStaffScheduleList(schedules), nil
}

// CreateStaffSchedule создает окно расписания персонала.
// Пересечение с другим окном того же дня недели отклоняется
func (s *Service) CreateStaffSchedule(ctx context.Context, req *models.StaffScheduleRequest) (*models.StaffScheduleResponse, error) {
	s.logger.Info("CreateStaffSchedule: day=%d, %s-%s, staff=%d, per_hour=%d",
		req.DayOfWeek, req.StartTime, req.EndTime, req.StaffCount, req.AppointmentsPerHour)

	schedule := req.ToDomainStaffSchedule()
	if err := validateStaffSchedule(schedule); err != nil {
		return nil, err
	}

	var created *domain.StaffSchedule
	err := s.txManager.DoSerializable(ctx, func(ctx context.Context) error {
		if err := s.checkOverlap(ctx, schedule); err != nil {
			return err
		}

		var err error
		created, err = s.capacityRepo.CreateStaffSchedule(ctx, schedule)
		if err != nil {
			return fmt.Errorf("%w: CreateStaffSchedule - repository error: %w", ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		return nil, s.mapStaffScheduleError("CreateStaffSchedule", uuid.Nil, err)
	}

	s.logger.Info("CreateStaffSchedule: created id=%s", created.ID)
	return models.FromDomainStaffSchedule(created), nil
}

// UpdateStaffSchedule частично обновляет окно расписания
func (s *Service) UpdateStaffSchedule(ctx context.Context, id uuid.UUID, req *models.UpdateStaffScheduleRequest) (*models.StaffScheduleResponse, error) {
	s.logger.Info("UpdateStaffSchedule: id=%s", id)

	var updated *domain.StaffSchedule
	err := s.txManager.DoSerializable(ctx, func(ctx context.Context) error {
		// 1. Получаем текущее окно
		schedule, err := s.capacityRepo.GetStaffSchedule(ctx, id)
		if err != nil {
			return err
		}

		// 2. Применяем изменения и валидируем
		req.ApplyToStaffSchedule(schedule)
		if err := validateStaffSchedule(schedule); err != nil {
			return err
		}

		// 3. Проверяем пересечения, исключая само окно
		if err := s.checkOverlap(ctx, schedule); err != nil {
			return err
		}

		// 4. Сохраняем
		updated, err = s.capacityRepo.UpdateStaffSchedule(ctx, schedule)
		return err
	})
	if err != nil {
		return nil, s.mapStaffScheduleError("UpdateStaffSchedule", id, err)
	}

	return models.FromDomainStaffSchedule(updated), nil
}

// DeleteStaffSchedule удаляет окно расписания
func (s *Service) DeleteStaffSchedule(ctx context.Context, id uuid.UUID) error {
	s.logger.Info("DeleteStaffSchedule: id=%s", id)

	if err := s.capacityRepo.DeleteStaffSchedule(ctx, id); err != nil {
		return s.mapStaffScheduleError("DeleteStaffSchedule", id, err)
	}
	return nil
}

// GetDefaultCapacity возвращает вместимость по умолчанию.
// Если значение не настроено, возвращает 1
func (s *Service) GetDefaultCapacity(ctx context.Context) (*models.DefaultCapacityResponse, error) {
	current, err := s.capacityRepo.GetDefaultCapacity(ctx)
	if errors.Is(err, capacityRepo.ErrDefaultCapacityNotFound) {
		return &models.DefaultCapacityResponse{AppointmentsPerHour: fallbackCapacity, IsFallback: true}, nil
	}
	if err != nil {
		s.logger.Error("GetDefaultCapacity: failed to get default capacity: %v", err)
		return nil, fmt.Errorf("%w: GetDefaultCapacity - repository error: %v", ErrInternal, err)
	}

	return &models.DefaultCapacityResponse{AppointmentsPerHour: current.AppointmentsPerHour}, nil
}

// SetDefaultCapacity устанавливает вместимость по умолчанию
func (s *Service) SetDefaultCapacity(ctx context.Context, req *models.DefaultCapacityRequest) (*models.DefaultCapacityResponse, error) {
	s.logger.Info("SetDefaultCapacity: appointments_per_hour=%d", req.AppointmentsPerHour)

	if req.AppointmentsPerHour < 1 {
		return nil, fmt.Errorf("%w: appointments_per_hour must be at least 1", ErrInvalidInput)
	}

	saved, err := s.capacityRepo.SetDefaultCapacity(ctx, req.AppointmentsPerHour)
	if err != nil {
		s.logger.Error("SetDefaultCapacity: failed to save: %v", err)
		return nil, fmt.Errorf("%w: SetDefaultCapacity - repository error: %v", ErrInternal, err)
	}

	return &models.DefaultCapacityResponse{AppointmentsPerHour: saved.AppointmentsPerHour}, nil
}

// checkOverlap отклоняет окно, пересекающееся с другим окном того же дня
func (s *Service) checkOverlap(ctx context.Context, schedule *domain.StaffSchedule) error {
	day := schedule.DayOfWeek
	existing, err := s.capacityRepo.ListStaffSchedules(ctx, &day)
	if err != nil {
		return fmt.Errorf("%w: checkOverlap - repository error: %w", ErrInternal, err)
	}

	for _, other := range existing {
		if other.ID == schedule.ID {
			continue
		}
		if schedule.Overlaps(other) {
			return fmt.Errorf("%w: conflicts with %s-%s", ErrScheduleOverlap, other.StartTime, other.EndTime)
		}
	}
	return nil
}

func (s *Service) mapBlockedTimeError(op string, id uuid.UUID, err error) error {
	if errors.Is(err, scheduleRepo.ErrBlockedTimeNotFound) {
		s.logger.Warn("%s: blocked time not found: id=%s", op, id)
		return ErrBlockedTimeNotFound
	}
	s.logger.Error("%s: failed for id=%s: %v", op, id, err)
	return fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
}

func (s *Service) mapStaffScheduleError(op string, id uuid.UUID, err error) error {
	switch {
	case errors.Is(err, capacityRepo.ErrStaffScheduleNotFound):
		s.logger.Warn("%s: staff schedule not found: id=%s", op, id)
		return ErrStaffScheduleNotFound
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrScheduleOverlap):
		s.logger.Warn("%s: rejected: %v", op, err)
		return err
	default:
		s.logger.Error("%s: failed for id=%s: %v", op, id, err)
		if errors.Is(err, ErrInternal) {
			return err
		}
		return fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
}

func validateRange(start, end types.TimeString) error {
	if err := start.Validate(); err != nil {
		return fmt.Errorf("%w: start time: %v", ErrInvalidInput, err)
	}
	if err := end.Validate(); err != nil {
		return fmt.Errorf("%w: end time: %v", ErrInvalidInput, err)
	}
	if !start.IsBefore(end) {
		return fmt.Errorf("%w: start time must be before end time", ErrInvalidInput)
	}
	return nil
}

func validateBlockedTime(b *domain.BlockedTime) error {
	if b.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	return validateRange(b.StartTime, b.EndTime)
}

func validateStaffSchedule(sch *domain.StaffSchedule) error {
	if !domain.IsValidDayOfWeek(sch.DayOfWeek) {
		return fmt.Errorf("%w: day of week must be 0..6", ErrInvalidInput)
	}
	if sch.StaffCount < 1 {
		return fmt.Errorf("%w: staff_count must be at least 1", ErrInvalidInput)
	}
	if sch.AppointmentsPerHour < 1 {
		return fmt.Errorf("%w: appointments_per_hour must be at least 1", ErrInvalidInput)
	}
	return validateRange(sch.StartTime, sch.EndTime)
}

func normalizeDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
