package capacity

import (
	"context"

	"github.com/m04kA/SMC-GroomingService/internal/domain"
)

// CapacityRepository источник окон расписания персонала и глобальной вместимости
type CapacityRepository interface {
	ListStaffSchedules(ctx context.Context, dayOfWeek *int) ([]*domain.StaffSchedule, error)
	GetDefaultCapacity(ctx context.Context) (*domain.DefaultCapacity, error)
}
