package appointments

import (
	"github.com/m04kA/SMC-GroomingService/internal/api/handlers"
	"github.com/m04kA/SMC-GroomingService/internal/service/appointments/models"
	"github.com/m04kA/SMC-GroomingService/pkg/types"
)

// RescheduleRequest HTTP request model
type RescheduleRequest struct {
	ScheduledDate string `json:"scheduled_date"` // "2026-10-19"
	ScheduledTime string `json:"scheduled_time"` // "10:00"
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *RescheduleRequest) ToServiceRequest() (*models.RescheduleRequest, error) {
	date, err := handlers.ParseDate(r.ScheduledDate)
	if err != nil {
		return nil, err
	}

	start, err := types.NewTimeStringFromString(r.ScheduledTime)
	if err != nil {
		return nil, err
	}

	return &models.RescheduleRequest{Date: date, Time: start}, nil
}
