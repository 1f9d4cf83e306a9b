package settings

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-GroomingService/internal/service/settings/models"
)

type SettingsService interface {
	ListBusinessHours(ctx context.Context) (*models.BusinessHoursListResponse, error)
	UpsertBusinessHours(ctx context.Context, day int, req *models.BusinessHoursRequest) (*models.BusinessHoursResponse, error)

	ListBlockedTimes(ctx context.Context, from time.Time) (*models.BlockedTimeListResponse, error)
	CreateBlockedTime(ctx context.Context, req *models.CreateBlockedTimeRequest) (*models.BlockedTimeResponse, error)
	UpdateBlockedTime(ctx context.Context, id uuid.UUID, req *models.UpdateBlockedTimeRequest) (*models.BlockedTimeResponse, error)
	DeleteBlockedTime(ctx context.Context, id uuid.UUID) error

	ListStaffSchedules(ctx context.Context, dayOfWeek *int) (*models.StaffScheduleListResponse, error)
	CreateStaffSchedule(ctx context.Context, req *models.StaffScheduleRequest) (*models.StaffScheduleResponse, error)
	UpdateStaffSchedule(ctx context.Context, id uuid.UUID, req *models.UpdateStaffScheduleRequest) (*models.StaffScheduleResponse, error)
	DeleteStaffSchedule(ctx context.Context, id uuid.UUID) error

	GetDefaultCapacity(ctx context.Context) (*models.DefaultCapacityResponse, error)
	SetDefaultCapacity(ctx context.Context, req *models.DefaultCapacityRequest) (*models.DefaultCapacityResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
