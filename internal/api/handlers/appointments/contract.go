package appointments

import (
	"context"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-GroomingService/internal/service/appointments/models"
)

type AppointmentService interface {
	ListMine(ctx context.Context, req *models.ListMineRequest) (*models.AppointmentListResponse, error)
	ListByRange(ctx context.Context, req *models.ListByRangeRequest) (*models.AppointmentListResponse, error)
	Get(ctx context.Context, id uuid.UUID, userID uuid.UUID, isAdmin bool) (*models.AppointmentResponse, error)
	Cancel(ctx context.Context, id uuid.UUID, userID uuid.UUID) error
	UpdateStatus(ctx context.Context, id uuid.UUID, req *models.UpdateStatusRequest) error
	Reschedule(ctx context.Context, id uuid.UUID, req *models.RescheduleRequest) (*models.AppointmentResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
