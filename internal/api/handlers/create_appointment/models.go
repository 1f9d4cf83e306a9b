package create_appointment

import (
	"github.com/google/uuid"

	"github.com/m04kA/SMC-GroomingService/internal/api/handlers"
	"github.com/m04kA/SMC-GroomingService/internal/domain"
	"github.com/m04kA/SMC-GroomingService/internal/service/appointments/models"
	createAppointment "github.com/m04kA/SMC-GroomingService/internal/usecase/create_appointment"
	"github.com/m04kA/SMC-GroomingService/pkg/types"
)

// CreateAppointmentRequest HTTP request model
type CreateAppointmentRequest struct {
	PetID         *uuid.UUID  `json:"pet_id,omitempty"`
	Pet           *NewPet     `json:"pet,omitempty"` // только для администратора
	ServiceIDs    []uuid.UUID `json:"service_ids"`
	ScheduledDate string      `json:"scheduled_date"` // "2026-10-19"
	ScheduledTime string      `json:"scheduled_time"` // "10:00"
	Notes         *string     `json:"notes,omitempty"`
}

// NewPet питомец, создаваемый вместе с записью
type NewPet struct {
	OwnerID  *uuid.UUID `json:"owner_id,omitempty"`
	Name     string     `json:"name"`
	Species  string     `json:"species"`
	Breed    *string    `json:"breed,omitempty"`
	Size     string     `json:"size"`
	AgeYears *int       `json:"age_years,omitempty"`
	WeightKg *float64   `json:"weight_kg,omitempty"`
	Notes    *string    `json:"notes,omitempty"`
}

// errInvalidTime ошибка разбора времени начала
type errInvalidTime struct{ err error }

func (e errInvalidTime) Error() string { return e.err.Error() }

// ToUseCaseRequest конвертирует HTTP запрос в модель use case (с парсингом даты и времени)
func (r *CreateAppointmentRequest) ToUseCaseRequest(actorID uuid.UUID, source createAppointment.Source) (*createAppointment.Request, error) {
	date, err := handlers.ParseDate(r.ScheduledDate)
	if err != nil {
		return nil, err
	}

	start, err := types.NewTimeStringFromString(r.ScheduledTime)
	if err != nil {
		return nil, errInvalidTime{err: err}
	}

	req := &createAppointment.Request{
		ActorID:    actorID,
		Source:     source,
		PetID:      r.PetID,
		ServiceIDs: r.ServiceIDs,
		Date:       date,
		Time:       start,
		Notes:      r.Notes,
	}

	if r.Pet != nil {
		req.NewPet = &createAppointment.NewPet{
			OwnerID:  r.Pet.OwnerID,
			Name:     r.Pet.Name,
			Species:  domain.PetSpecies(r.Pet.Species),
			Breed:    r.Pet.Breed,
			Size:     domain.PetSize(r.Pet.Size),
			AgeYears: r.Pet.AgeYears,
			WeightKg: r.Pet.WeightKg,
			Notes:    r.Pet.Notes,
		}
	}

	return req, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createAppointment.Response) *models.AppointmentResponse {
	return models.FromDomainAppointment(resp.Appointment)
}
