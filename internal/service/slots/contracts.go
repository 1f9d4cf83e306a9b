package slots

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-GroomingService/internal/domain"
	"github.com/m04kA/SMC-GroomingService/internal/service/capacity"
)

// ScheduleRepository источник рабочих часов и блокировок
type ScheduleRepository interface {
	GetBusinessHours(ctx context.Context, dayOfWeek int) (*domain.BusinessHours, error)
	ListBlockedTimes(ctx context.Context, date time.Time) ([]*domain.BlockedTime, error)
}

// AppointmentRepository источник записей, занимающих вместимость
type AppointmentRepository interface {
	ListActiveForDay(ctx context.Context, date time.Time, excludeID *uuid.UUID) ([]*domain.Appointment, error)
}

// ServiceRepository каталог услуг
type ServiceRepository interface {
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.Service, error)
}

// CapacityResolver правила вместимости на день недели
type CapacityResolver interface {
	ForDay(ctx context.Context, dayOfWeek int) (*capacity.DaySchedule, error)
}

// Metrics счетчики генерации слотов
type Metrics interface {
	IncSlotQuery(outcome string)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
