package settings

import (
	"github.com/m04kA/SMC-GroomingService/internal/api/handlers"
	"github.com/m04kA/SMC-GroomingService/internal/service/settings/models"
	"github.com/m04kA/SMC-GroomingService/pkg/types"
)

// BlockedTimeRequest HTTP request model для создания блокировки
type BlockedTimeRequest struct {
	Date      string           `json:"date"` // "2026-12-31"
	StartTime types.TimeString `json:"start_time"`
	EndTime   types.TimeString `json:"end_time"`
	Reason    *string          `json:"reason,omitempty"`
}

// UpdateBlockedTimeRequest HTTP request model для частичного обновления блокировки
type UpdateBlockedTimeRequest struct {
	Date      *string           `json:"date,omitempty"`
	StartTime *types.TimeString `json:"start_time,omitempty"`
	EndTime   *types.TimeString `json:"end_time,omitempty"`
	Reason    *string           `json:"reason,omitempty"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *BlockedTimeRequest) ToServiceRequest() (*models.CreateBlockedTimeRequest, error) {
	date, err := handlers.ParseDate(r.Date)
	if err != nil {
		return nil, err
	}

	return &models.CreateBlockedTimeRequest{
		Date:      date,
		StartTime: r.StartTime,
		EndTime:   r.EndTime,
		Reason:    r.Reason,
	}, nil
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *UpdateBlockedTimeRequest) ToServiceRequest() (*models.UpdateBlockedTimeRequest, error) {
	req := &models.UpdateBlockedTimeRequest{
		StartTime: r.StartTime,
		EndTime:   r.EndTime,
		Reason:    r.Reason,
	}

	if r.Date != nil {
		date, err := handlers.ParseDate(*r.Date)
		if err != nil {
			return nil, err
		}
		req.Date = &date
	}

	return req, nil
}
