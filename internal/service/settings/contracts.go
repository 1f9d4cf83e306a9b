package settings

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-GroomingService/internal/domain"
)

// ScheduleRepository интерфейс репозитория рабочих часов и блокировок
type ScheduleRepository interface {
	ListBusinessHours(ctx context.Context) ([]*domain.BusinessHours, error)
	UpsertBusinessHours(ctx context.Context, hours *domain.BusinessHours) (*domain.BusinessHours, error)
	ListBlockedTimesFrom(ctx context.Context, from time.Time) ([]*domain.BlockedTime, error)
	GetBlockedTime(ctx context.Context, id uuid.UUID) (*domain.BlockedTime, error)
	CreateBlockedTime(ctx context.Context, block *domain.BlockedTime) (*domain.BlockedTime, error)
	UpdateBlockedTime(ctx context.Context, block *domain.BlockedTime) (*domain.BlockedTime, error)
	DeleteBlockedTime(ctx context.Context, id uuid.UUID) error
}

// CapacityRepository интерфейс репозитория расписания персонала и вместимости
type CapacityRepository interface {
	ListStaffSchedules(ctx context.Context, dayOfWeek *int) ([]*domain.StaffSchedule, error)
	GetStaffSchedule(ctx context.Context, id uuid.UUID) (*domain.StaffSchedule, error)
	CreateStaffSchedule(ctx context.Context, schedule *domain.StaffSchedule) (*domain.StaffSchedule, error)
	UpdateStaffSchedule(ctx context.Context, schedule *domain.StaffSchedule) (*domain.StaffSchedule, error)
	DeleteStaffSchedule(ctx context.Context, id uuid.UUID) error
	GetDefaultCapacity(ctx context.Context) (*domain.DefaultCapacity, error)
	SetDefaultCapacity(ctx context.Context, appointmentsPerHour int) (*domain.DefaultCapacity, error)
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
