package appointments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-GroomingService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-GroomingService/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-GroomingService/internal/service/appointments/models"
	"github.com/m04kA/SMC-GroomingService/pkg/txmanager"
)

// maxRangeDays ограничивает календарный запрос администратора
const maxRangeDays = 92

// Service сервис для работы с записями
type Service struct {
	appointmentRepo AppointmentRepository
	petRepo         PetRepository
	profileRepo     ProfileRepository
	generator       SlotGenerator
	txManager       TransactionManager
	logger          Logger
}

// NewService создает новый экземпляр сервиса записей
func NewService(
	appointmentRepo AppointmentRepository,
	petRepo PetRepository,
	profileRepo ProfileRepository,
	generator SlotGenerator,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		appointmentRepo: appointmentRepo,
		petRepo:         petRepo,
		profileRepo:     profileRepo,
		generator:       generator,
		txManager:       txManager,
		logger:          logger,
	}
}

// ListMine получает записи клиента по возрастанию даты и времени.
// Опционально фильтрует по статусу
func (s *Service) ListMine(ctx context.Context, req *models.ListMineRequest) (*models.AppointmentListResponse, error) {
	s.logger.Info("ListMine: fetching appointments for user=%s, status=%v", req.UserID, req.Status)

	filter := domain.AppointmentFilter{
		UserID: &req.UserID,
		Limit:  normalizeLimit(req.Limit),
	}

	if req.Status != nil {
		status, err := models.ToDomainStatus(*req.Status)
		if err != nil {
			s.logger.Warn("ListMine: invalid status=%s for user=%s", *req.Status, req.UserID)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		filter.Status = &status
	}

	appointments, err := s.appointmentRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error("ListMine: repository error for user=%s: %v", req.UserID, err)
		return nil, fmt.Errorf("%w: ListMine - repository error: %v", ErrInternal, err)
	}

	if err := s.attachPets(ctx, appointments); err != nil {
		return nil, err
	}

	s.logger.Info("ListMine: successfully fetched %d appointments for user=%s", len(appointments), req.UserID)
	return models.FromDomainAppointmentList(appointments), nil
}

// ListByRange получает записи за период для календаря администратора
func (s *Service) ListByRange(ctx context.Context, req *models.ListByRangeRequest) (*models.AppointmentListResponse, error) {
	s.logger.Info("ListByRange: period=%s to %s, status=%v",
		req.From.Format(domain.DateFormat), req.To.Format(domain.DateFormat), req.Status)

	if req.From.IsZero() || req.To.IsZero() {
		return nil, fmt.Errorf("%w: from and to are required", ErrInvalidInput)
	}
	if req.To.Before(req.From) {
		return nil, fmt.Errorf("%w: to must not be before from", ErrInvalidInput)
	}
	if req.To.Sub(req.From) > maxRangeDays*24*time.Hour {
		return nil, fmt.Errorf("%w: period must not exceed %d days", ErrInvalidInput, maxRangeDays)
	}

	filter := domain.AppointmentFilter{
		DateFrom: &req.From,
		DateTo:   &req.To,
	}

	if req.Status != nil {
		status, err := models.ToDomainStatus(*req.Status)
		if err != nil {
			s.logger.Warn("ListByRange: invalid status=%s", *req.Status)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		filter.Status = &status
	}

	appointments, err := s.appointmentRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error("ListByRange: repository error: %v", err)
		return nil, fmt.Errorf("%w: ListByRange - repository error: %v", ErrInternal, err)
	}

	if err := s.attachPets(ctx, appointments); err != nil {
		return nil, err
	}
	if err := s.attachProfiles(ctx, appointments); err != nil {
		return nil, err
	}

	s.logger.Info("ListByRange: successfully fetched %d appointments", len(appointments))
	return models.FromDomainAppointmentList(appointments), nil
}

// Get получает запись по ID.
// Клиент видит только свои записи, администратор любые
func (s *Service) Get(ctx context.Context, id uuid.UUID, userID uuid.UUID, isAdmin bool) (*models.AppointmentResponse, error) {
	s.logger.Info("Get: fetching appointment id=%s for user=%s", id, userID)

	appt, err := s.getByID(ctx, "Get", id)
	if err != nil {
		return nil, err
	}

	// Проверяем права доступа
	if !isAdmin && !isOwner(appt, userID) {
		s.logger.Warn("Get: access denied for user=%s to appointment id=%s", userID, id)
		return nil, ErrAccessDenied
	}

	list := []*domain.Appointment{appt}
	if err := s.attachPets(ctx, list); err != nil {
		return nil, err
	}
	if err := s.attachProfiles(ctx, list); err != nil {
		return nil, err
	}

	s.logger.Info("Get: successfully fetched appointment id=%s", id)
	return models.FromDomainAppointment(appt), nil
}

// UpdateStatus обновляет статус записи (администратор)
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, req *models.UpdateStatusRequest) error {
	s.logger.Info("UpdateStatus: updating appointment id=%s to status=%s", id, req.Status)

	// Валидируем и конвертируем статус
	newStatus, err := models.ToDomainStatus(req.Status)
	if err != nil {
		s.logger.Warn("UpdateStatus: invalid status=%s for appointment id=%s", req.Status, id)
		return fmt.Errorf("%w: invalid status", ErrInvalidInput)
	}

	if err := s.appointmentRepo.UpdateStatus(ctx, id, newStatus); err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("UpdateStatus: appointment id=%s not found", id)
			return ErrAppointmentNotFound
		}
		s.logger.Error("UpdateStatus: repository error for appointment id=%s: %v", id, err)
		return fmt.Errorf("%w: UpdateStatus - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("UpdateStatus: successfully updated appointment id=%s to status=%s", id, newStatus)
	return nil
}

// Reschedule переносит запись (администратор).
// Новое время проверяется генератором без учета самой записи в сериализуемой транзакции
func (s *Service) Reschedule(ctx context.Context, id uuid.UUID, req *models.RescheduleRequest) (*models.AppointmentResponse, error) {
	s.logger.Info("Reschedule: moving appointment id=%s to %s %s", id, req.Date.Format(domain.DateFormat), req.Time)

	// 1. Валидация входных данных
	if req.Date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	if err := req.Time.Validate(); err != nil || req.Time.IsZero() {
		return nil, fmt.Errorf("%w: invalid time %q", ErrInvalidInput, req.Time)
	}

	now := s.generator.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	y, m, d := req.Date.Date()
	date := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	if date.Before(today) {
		return nil, fmt.Errorf("%w: date is in the past", ErrInvalidInput)
	}

	var result *domain.Appointment

	// 2. Проверка и перенос в сериализуемой транзакции
	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		appt, err := s.appointmentRepo.GetByID(txCtx, id)
		if err != nil {
			if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
				return ErrAppointmentNotFound
			}
			return fmt.Errorf("%w: Reschedule - get appointment: %w", ErrInternal, err)
		}

		if !appt.IsActive() {
			return ErrCannotReschedule
		}

		daySlots, err := s.generator.GenerateForDuration(txCtx, date, appt.TotalDurationMinutes, &appt.ID)
		if err != nil {
			return fmt.Errorf("%w: Reschedule - recompute slots: %w", ErrInternal, err)
		}

		slot, ok := domain.FindSlot(daySlots, req.Time)
		if !ok || !slot.Available {
			return ErrSlotNotAvailable
		}

		end, err := req.Time.AddMinutes(appt.TotalDurationMinutes)
		if err != nil {
			return ErrSlotNotAvailable
		}

		if err := s.appointmentRepo.Reschedule(txCtx, id, date, req.Time, end); err != nil {
			return fmt.Errorf("%w: Reschedule - update: %w", ErrInternal, err)
		}

		appt.ScheduledDate = date
		appt.ScheduledTime = req.Time
		appt.EndTime = end
		result = appt
		return nil
	})

	if err != nil {
		switch {
		case errors.Is(err, ErrAppointmentNotFound):
			s.logger.Warn("Reschedule: appointment id=%s not found", id)
		case errors.Is(err, ErrCannotReschedule), errors.Is(err, ErrSlotNotAvailable):
			s.logger.Warn("Reschedule: appointment id=%s: %v", id, err)
		case errors.Is(err, txmanager.ErrSerialization):
			s.logger.Warn("Reschedule: concurrent changes kept conflicting for id=%s: %v", id, err)
			return nil, ErrSlotNotAvailable
		default:
			s.logger.Error("Reschedule: failed for appointment id=%s: %v", id, err)
			if !errors.Is(err, ErrInternal) {
				return nil, fmt.Errorf("%w: Reschedule: %v", ErrInternal, err)
			}
		}
		return nil, err
	}

	s.logger.Info("Reschedule: successfully moved appointment id=%s", id)
	return models.FromDomainAppointment(result), nil
}

// Delete удаляет запись (администратор)
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	s.logger.Info("Delete: deleting appointment id=%s", id)

	if err := s.appointmentRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("Delete: appointment id=%s not found", id)
			return ErrAppointmentNotFound
		}
		s.logger.Error("Delete: repository error for appointment id=%s: %v", id, err)
		return fmt.Errorf("%w: Delete - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Delete: successfully deleted appointment id=%s", id)
	return nil
}

// Cancel отменяет запись.
// Владелец может отменить только ожидающую или подтвержденную запись
func (s *Service) Cancel(ctx context.Context, id uuid.UUID, userID uuid.UUID) error {
	s.logger.Info("Cancel: cancelling appointment id=%s by user=%s", id, userID)

	appt, err := s.getByID(ctx, "Cancel", id)
	if err != nil {
		return err
	}

	// Проверяем, является ли пользователь владельцем записи
	if !isOwner(appt, userID) {
		s.logger.Warn("Cancel: access denied for user=%s to cancel appointment id=%s", userID, id)
		return ErrAccessDenied
	}

	// Проверяем, можно ли отменить запись
	if !appt.CanBeCancelled() {
		s.logger.Warn("Cancel: appointment id=%s cannot be cancelled, status=%s", id, appt.Status)
		return ErrCannotCancel
	}

	if err := s.appointmentRepo.UpdateStatus(ctx, id, domain.StatusCancelled); err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("Cancel: appointment id=%s not found during cancellation", id)
			return ErrAppointmentNotFound
		}
		s.logger.Error("Cancel: repository error for appointment id=%s: %v", id, err)
		return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Cancel: successfully cancelled appointment id=%s", id)
	return nil
}

// Вспомогательные методы

func (s *Service) getByID(ctx context.Context, op string, id uuid.UUID) (*domain.Appointment, error) {
	appt, err := s.appointmentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("%s: appointment id=%s not found", op, id)
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("%s: repository error for appointment id=%s: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return appt, nil
}

// attachPets подгружает питомцев одним запросом
func (s *Service) attachPets(ctx context.Context, appointments []*domain.Appointment) error {
	if len(appointments) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, 0, len(appointments))
	seen := make(map[uuid.UUID]struct{}, len(appointments))
	for _, a := range appointments {
		if _, ok := seen[a.PetID]; !ok {
			seen[a.PetID] = struct{}{}
			ids = append(ids, a.PetID)
		}
	}

	pets, err := s.petRepo.GetByIDs(ctx, ids)
	if err != nil {
		s.logger.Error("attachPets: repository error: %v", err)
		return fmt.Errorf("%w: attachPets - repository error: %v", ErrInternal, err)
	}

	byID := make(map[uuid.UUID]*domain.Pet, len(pets))
	for _, p := range pets {
		byID[p.ID] = p
	}
	for _, a := range appointments {
		a.Pet = byID[a.PetID]
	}

	return nil
}

// attachProfiles подгружает профили владельцев одним запросом
func (s *Service) attachProfiles(ctx context.Context, appointments []*domain.Appointment) error {
	ids := make([]uuid.UUID, 0, len(appointments))
	seen := make(map[uuid.UUID]struct{}, len(appointments))
	for _, a := range appointments {
		if a.UserID == nil {
			continue
		}
		if _, ok := seen[*a.UserID]; !ok {
			seen[*a.UserID] = struct{}{}
			ids = append(ids, *a.UserID)
		}
	}

	if len(ids) == 0 {
		return nil
	}

	profiles, err := s.profileRepo.GetByIDs(ctx, ids)
	if err != nil {
		s.logger.Error("attachProfiles: repository error: %v", err)
		return fmt.Errorf("%w: attachProfiles - repository error: %v", ErrInternal, err)
	}

	byID := make(map[uuid.UUID]*domain.Profile, len(profiles))
	for _, p := range profiles {
		byID[p.ID] = p
	}
	for _, a := range appointments {
		if a.UserID != nil {
			a.Profile = byID[*a.UserID]
		}
	}

	return nil
}

func isOwner(appt *domain.Appointment, userID uuid.UUID) bool {
	return appt.UserID != nil && *appt.UserID == userID
}

func normalizeLimit(limit int) int {
	switch {
	case limit <= 0:
		return domain.DefaultListLimit
	case limit > domain.MaxListLimit:
		return domain.MaxListLimit
	default:
		return limit
	}
}
