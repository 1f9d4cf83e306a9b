package create_appointment

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-GroomingService/internal/domain"
	"github.com/m04kA/SMC-GroomingService/internal/infra/reservation"
	"github.com/m04kA/SMC-GroomingService/pkg/types"
)

// SlotGenerator интерфейс генератора слотов
type SlotGenerator interface {
	ResolveServices(ctx context.Context, serviceIDs []uuid.UUID) ([]*domain.Service, error)
	GenerateForDuration(ctx context.Context, date time.Time, totalDuration int, excludeID *uuid.UUID) ([]domain.TimeSlot, error)
	Now() time.Time
}

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	Create(ctx context.Context, appt *domain.Appointment) (*domain.Appointment, error)
}

// PetRepository интерфейс репозитория питомцев
type PetRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Pet, error)
	Create(ctx context.Context, pet *domain.Pet) (*domain.Pet, error)
}

// ProfileRepository интерфейс репозитория профилей
type ProfileRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Profile, error)
}

// SlotLocker удерживает слот на время записи
type SlotLocker interface {
	Acquire(ctx context.Context, date time.Time, clock types.TimeString) (reservation.ReleaseFunc, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Metrics счетчики записей
type Metrics interface {
	IncAppointmentCreated(source string)
	IncAdmissionConflict(reason string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
