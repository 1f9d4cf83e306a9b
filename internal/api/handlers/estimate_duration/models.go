package estimate_duration

import (
	"github.com/google/uuid"

	estimateDuration "github.com/m04kA/SMC-GroomingService/internal/usecase/estimate_duration"
)

// EstimateRequest HTTP request model
type EstimateRequest struct {
	PetID         *uuid.UUID  `json:"pet_id,omitempty"`
	Species       string      `json:"species,omitempty"`
	Breed         string      `json:"breed,omitempty"`
	Size          string      `json:"size,omitempty"`
	CoatCondition string      `json:"coat_condition"`
	ServiceIDs    []uuid.UUID `json:"service_ids"`
}

// ServiceEstimateResponse оценка одной услуги
type ServiceEstimateResponse struct {
	ServiceID   string `json:"service_id"`
	ServiceName string `json:"service_name"`
	TimeMinutes int    `json:"time_minutes"`
}

// EstimateResponse HTTP response model
type EstimateResponse struct {
	Estimations      []ServiceEstimateResponse `json:"estimations"`
	TotalTimeMinutes int                       `json:"total_time_minutes"`
	Notes            string                    `json:"notes,omitempty"`
	Source           string                    `json:"source"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *EstimateRequest) ToUseCaseRequest(actorID uuid.UUID, isAdmin bool) *estimateDuration.Request {
	return &estimateDuration.Request{
		ActorID:       actorID,
		IsAdmin:       isAdmin,
		PetID:         r.PetID,
		Species:       r.Species,
		Breed:         r.Breed,
		Size:          r.Size,
		CoatCondition: estimateDuration.CoatCondition(r.CoatCondition),
		ServiceIDs:    r.ServiceIDs,
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *estimateDuration.Response) *EstimateResponse {
	estimations := make([]ServiceEstimateResponse, 0, len(resp.Estimations))
	for _, e := range resp.Estimations {
		estimations = append(estimations, ServiceEstimateResponse{
			ServiceID:   e.ServiceID.String(),
			ServiceName: e.ServiceName,
			TimeMinutes: e.TimeMinutes,
		})
	}

	return &EstimateResponse{
		Estimations:      estimations,
		TotalTimeMinutes: resp.TotalMinutes,
		Notes:            resp.Notes,
		Source:           string(resp.Source),
	}
}
