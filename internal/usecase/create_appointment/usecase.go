package create_appointment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-GroomingService/internal/domain"
	"github.com/m04kA/SMC-GroomingService/internal/infra/reservation"
	petRepo "github.com/m04kA/SMC-GroomingService/internal/infra/storage/pet"
	profileRepo "github.com/m04kA/SMC-GroomingService/internal/infra/storage/profile"
	"github.com/m04kA/SMC-GroomingService/internal/service/slots"
	"github.com/m04kA/SMC-GroomingService/pkg/txmanager"
)

const releaseTimeout = 2 * time.Second

// UseCase use case для создания записи на груминг
type UseCase struct {
	generator       SlotGenerator
	appointmentRepo AppointmentRepository
	petRepo         PetRepository
	profileRepo     ProfileRepository
	locker          SlotLocker
	txManager       TransactionManager
	metrics         Metrics
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	generator SlotGenerator,
	appointmentRepo AppointmentRepository,
	petRepo PetRepository,
	profileRepo ProfileRepository,
	locker SlotLocker,
	txManager TransactionManager,
	metrics Metrics,
	logger Logger,
) *UseCase {
	if locker == nil {
		locker = reservation.NoopLocker{}
	}
	return &UseCase{
		generator:       generator,
		appointmentRepo: appointmentRepo,
		petRepo:         petRepo,
		profileRepo:     profileRepo,
		locker:          locker,
		txManager:       txManager,
		metrics:         metrics,
		logger:          logger,
	}
}

// Execute выполняет use case создания записи.
// Слот удерживается в Redis, а доступность перепроверяется в сериализуемой транзакции перед вставкой
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateAppointment: validation failed: %v", err)
		return nil, err
	}

	uc.logger.Info("CreateAppointment: actor=%s, source=%s, date=%s, time=%s, services=%d",
		req.ActorID, req.Source, req.Date.Format(domain.DateFormat), req.Time, len(req.ServiceIDs))

	// 2. Дата не должна быть в прошлом (часовой пояс салона)
	now := uc.generator.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	y, m, d := req.Date.Date()
	date := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	if date.Before(today) {
		uc.logger.Warn("CreateAppointment: date %s is in the past", date.Format(domain.DateFormat))
		return nil, ErrInvalidDate
	}

	// 3. Получаем услуги по актуальным записям каталога
	services, err := uc.generator.ResolveServices(ctx, req.ServiceIDs)
	if err != nil {
		switch {
		case errors.Is(err, slots.ErrInvalidInput):
			uc.logger.Warn("CreateAppointment: invalid services: %v", err)
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		case errors.Is(err, slots.ErrServiceNotFound):
			uc.logger.Warn("CreateAppointment: %v", err)
			return nil, fmt.Errorf("%w: %v", ErrServiceNotFound, err)
		default:
			uc.logger.Error("CreateAppointment: failed to load services: %v", err)
			return nil, fmt.Errorf("%w: failed to load services: %v", ErrInternal, err)
		}
	}

	totalDuration := slots.TotalDuration(services)
	endTime, err := req.Time.AddMinutes(totalDuration)
	if err != nil {
		uc.logger.Warn("CreateAppointment: %s + %d min is past the end of day", req.Time, totalDuration)
		return nil, uc.conflict("end_of_day")
	}

	// 4. Проверяем питомца и права на запись
	var pet *domain.Pet
	if req.PetID != nil {
		pet, err = uc.petRepo.GetByID(ctx, *req.PetID)
		if err != nil {
			if errors.Is(err, petRepo.ErrPetNotFound) {
				uc.logger.Warn("CreateAppointment: pet id=%s not found", *req.PetID)
				return nil, ErrPetNotFound
			}
			uc.logger.Error("CreateAppointment: failed to get pet id=%s: %v", *req.PetID, err)
			return nil, fmt.Errorf("%w: failed to get pet: %v", ErrInternal, err)
		}

		if req.Source == SourceClient && !pet.IsOwnedBy(req.ActorID) {
			uc.logger.Warn("CreateAppointment: user=%s is not the owner of pet id=%s", req.ActorID, pet.ID)
			return nil, ErrForbidden
		}
	}

	// 5. Удерживаем слот, чтобы параллельные запросы на то же время шли по очереди
	release, err := uc.locker.Acquire(ctx, date, req.Time)
	switch {
	case err == nil:
		defer func() {
			releaseCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), releaseTimeout)
			defer cancel()
			if err := release(releaseCtx); err != nil {
				uc.logger.Warn("CreateAppointment: failed to release slot hold: %v", err)
			}
		}()
	case errors.Is(err, reservation.ErrSlotHeld):
		uc.logger.Warn("CreateAppointment: slot %s %s is held by another booking", date.Format(domain.DateFormat), req.Time)
		return nil, uc.conflict("held")
	case errors.Is(err, reservation.ErrUnavailable):
		// транзакция ниже сама по себе исключает перебронирование
		uc.logger.Warn("CreateAppointment: slot hold skipped: %v", err)
	default:
		uc.logger.Error("CreateAppointment: failed to hold slot: %v", err)
		return nil, fmt.Errorf("%w: failed to hold slot: %v", ErrInternal, err)
	}

	// Переменная для хранения результата
	var result *domain.Appointment

	// 6. Перепроверка и вставка в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 6.1. Свежий расчет слотов, не из кэша
		daySlots, err := uc.generator.GenerateForDuration(txCtx, date, totalDuration, nil)
		if err != nil {
			uc.logger.Error("CreateAppointment: failed to recompute slots: %v", err)
			return fmt.Errorf("%w: failed to recompute slots: %w", ErrInternal, err)
		}

		// 6.2. Проверяем выбранное время
		slot, ok := domain.FindSlot(daySlots, req.Time)
		if !ok || !slot.Available {
			uc.logger.Warn("CreateAppointment: slot %s %s is not available (generated=%t)",
				date.Format(domain.DateFormat), req.Time, ok)
			return uc.conflict("unavailable")
		}

		// 6.3. Создаем питомца, если он передан вместе с записью
		apptPet := pet
		if req.NewPet != nil {
			created, err := uc.petRepo.Create(txCtx, newPet(req.NewPet))
			if err != nil {
				uc.logger.Error("CreateAppointment: failed to create pet: %v", err)
				return fmt.Errorf("%w: failed to create pet: %w", ErrInternal, err)
			}
			apptPet = created
		}

		// 6.4. Создаем запись со снимком услуг
		appt := &domain.Appointment{
			PetID:                apptPet.ID,
			UserID:               apptPet.OwnerID,
			ScheduledDate:        date,
			ScheduledTime:        req.Time,
			EndTime:              endTime,
			TotalDurationMinutes: totalDuration,
			TotalPrice:           totalPrice(services),
			Status:               domain.StatusPending,
			Notes:                req.Notes,
			Services:             serviceLines(services),
		}

		created, err := uc.appointmentRepo.Create(txCtx, appt)
		if err != nil {
			uc.logger.Error("CreateAppointment: failed to create appointment: %v", err)
			return fmt.Errorf("%w: failed to create appointment: %w", ErrInternal, err)
		}

		created.Pet = apptPet
		result = created
		return nil
	})

	if err != nil {
		if errors.Is(err, txmanager.ErrSerialization) {
			uc.logger.Warn("CreateAppointment: concurrent bookings kept conflicting: %v", err)
			return nil, uc.conflict("serialization")
		}
		if errors.Is(err, ErrSlotNotAvailable) || errors.Is(err, ErrInternal) {
			return nil, err
		}
		uc.logger.Error("CreateAppointment: transaction failed: %v", err)
		return nil, fmt.Errorf("%w: transaction failed: %v", ErrInternal, err)
	}

	// 7. Профиль владельца для ответа
	if result.UserID != nil {
		profile, err := uc.profileRepo.GetByID(ctx, *result.UserID)
		switch {
		case err == nil:
			result.Profile = profile
		case errors.Is(err, profileRepo.ErrProfileNotFound):
		default:
			uc.logger.Warn("CreateAppointment: failed to load profile id=%s: %v", *result.UserID, err)
		}
	}

	if uc.metrics != nil {
		uc.metrics.IncAppointmentCreated(string(req.Source))
	}

	uc.logger.Info("CreateAppointment: successfully created appointment id=%s", result.ID)

	return &Response{Appointment: result}, nil
}

func (uc *UseCase) conflict(reason string) error {
	if uc.metrics != nil {
		uc.metrics.IncAdmissionConflict(reason)
	}
	return ErrSlotNotAvailable
}

func newPet(p *NewPet) *domain.Pet {
	return &domain.Pet{
		OwnerID:  p.OwnerID,
		Name:     strings.TrimSpace(p.Name),
		Species:  p.Species,
		Breed:    p.Breed,
		Size:     p.Size,
		AgeYears: p.AgeYears,
		WeightKg: p.WeightKg,
		Notes:    p.Notes,
	}
}

func serviceLines(services []*domain.Service) []domain.AppointmentService {
	lines := make([]domain.AppointmentService, 0, len(services))
	for i, svc := range services {
		lines = append(lines, domain.AppointmentService{
			ServiceID:       svc.ID,
			Position:        i,
			Name:            svc.Name,
			DurationMinutes: svc.DurationMinutes,
			Price:           svc.Price,
		})
	}
	return lines
}

func totalPrice(services []*domain.Service) float64 {
	total := 0.0
	for _, svc := range services {
		total += svc.Price
	}
	return total
}
