package appointments

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-GroomingService/internal/domain"
	"github.com/m04kA/SMC-GroomingService/pkg/types"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Appointment, error)
	List(ctx context.Context, filter domain.AppointmentFilter) ([]*domain.Appointment, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.AppointmentStatus) error
	Reschedule(ctx context.Context, id uuid.UUID, date time.Time, start, end types.TimeString) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// PetRepository интерфейс репозитория питомцев
type PetRepository interface {
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.Pet, error)
}

// ProfileRepository интерфейс репозитория профилей
type ProfileRepository interface {
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.Profile, error)
}

// SlotGenerator интерфейс генератора слотов для переноса записи
type SlotGenerator interface {
	GenerateForDuration(ctx context.Context, date time.Time, totalDuration int, excludeID *uuid.UUID) ([]domain.TimeSlot, error)
	Now() time.Time
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
