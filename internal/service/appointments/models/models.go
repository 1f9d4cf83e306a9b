package models

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-GroomingService/internal/domain"
	"github.com/m04kA/SMC-GroomingService/pkg/types"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid appointment status")
)

// Request модели

// ListMineRequest запрос на получение записей клиента
type ListMineRequest struct {
	UserID uuid.UUID
	Status *string
	Limit  int
}

// ListByRangeRequest запрос календаря администратора
type ListByRangeRequest struct {
	From   time.Time
	To     time.Time
	Status *string
}

// UpdateStatusRequest запрос на смену статуса
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// RescheduleRequest запрос на перенос записи
type RescheduleRequest struct {
	Date time.Time
	Time types.TimeString
}

// Response модели

// AppointmentResponse ответ с данными записи
type AppointmentResponse struct {
	ID                   string  `json:"id"`
	PetID                string  `json:"pet_id"`
	UserID               *string `json:"user_id,omitempty"`
	ScheduledDate        string  `json:"scheduled_date"` // "2026-10-19"
	ScheduledTime        string  `json:"scheduled_time"` // "10:00"
	EndTime              string  `json:"end_time"`
	TotalDurationMinutes int     `json:"total_duration_minutes"`
	TotalPrice           float64 `json:"total_price"`
	Status               string  `json:"status"`
	Notes                *string `json:"notes,omitempty"`

	Services []ServiceLineResponse `json:"services"`
	Pet      *PetResponse          `json:"pet,omitempty"`
	Profile  *ProfileResponse      `json:"profile,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ServiceLineResponse услуга в составе записи
type ServiceLineResponse struct {
	ServiceID       string  `json:"service_id"`
	Position        int     `json:"position"`
	Name            string  `json:"name"`
	DurationMinutes int     `json:"duration_minutes"`
	Price           float64 `json:"price"`
}

// PetResponse краткие данные питомца
type PetResponse struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Species  string  `json:"species"`
	Breed    *string `json:"breed,omitempty"`
	Size     string  `json:"size"`
	PhotoURL *string `json:"photo_url,omitempty"`
}

// ProfileResponse краткие данные владельца
type ProfileResponse struct {
	ID       string  `json:"id"`
	FullName *string `json:"full_name,omitempty"`
	Email    *string `json:"email,omitempty"`
	Phone    *string `json:"phone,omitempty"`
}

// AppointmentListResponse ответ со списком записей
type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
}

// Методы конвертации

// FromDomainAppointment конвертирует domain модель в DTO
func FromDomainAppointment(a *domain.Appointment) *AppointmentResponse {
	if a == nil {
		return nil
	}

	resp := &AppointmentResponse{
		ID:                   a.ID.String(),
		PetID:                a.PetID.String(),
		ScheduledDate:        a.ScheduledDate.Format(domain.DateFormat),
		ScheduledTime:        a.ScheduledTime.String(),
		EndTime:              a.EndTime.String(),
		TotalDurationMinutes: a.TotalDurationMinutes,
		TotalPrice:           a.TotalPrice,
		Status:               string(a.Status),
		Notes:                a.Notes,
		Services:             make([]ServiceLineResponse, 0, len(a.Services)),
		Pet:                  FromDomainPet(a.Pet),
		CreatedAt:            a.CreatedAt,
		UpdatedAt:            a.UpdatedAt,
	}

	if a.UserID != nil {
		userID := a.UserID.String()
		resp.UserID = &userID
	}

	for _, line := range a.Services {
		resp.Services = append(resp.Services, ServiceLineResponse{
			ServiceID:       line.ServiceID.String(),
			Position:        line.Position,
			Name:            line.Name,
			DurationMinutes: line.DurationMinutes,
			Price:           line.Price,
		})
	}

	if a.Profile != nil {
		resp.Profile = &ProfileResponse{
			ID:       a.Profile.ID.String(),
			FullName: a.Profile.FullName,
			Email:    a.Profile.Email,
			Phone:    a.Profile.Phone,
		}
	}

	return resp
}

// FromDomainPet конвертирует питомца в краткий DTO
func FromDomainPet(p *domain.Pet) *PetResponse {
	if p == nil {
		return nil
	}
	return &PetResponse{
		ID:       p.ID.String(),
		Name:     p.Name,
		Species:  string(p.Species),
		Breed:    p.Breed,
		Size:     string(p.Size),
		PhotoURL: p.PhotoURL,
	}
}

// FromDomainAppointmentList конвертирует список domain моделей в DTO
func FromDomainAppointmentList(appointments []*domain.Appointment) *AppointmentListResponse {
	resp := &AppointmentListResponse{
		Appointments: make([]AppointmentResponse, 0, len(appointments)),
	}

	for _, appt := range appointments {
		if apptResp := FromDomainAppointment(appt); apptResp != nil {
			resp.Appointments = append(resp.Appointments, *apptResp)
		}
	}

	return resp
}

// ToDomainStatus конвертирует строку в domain.AppointmentStatus с валидацией
func ToDomainStatus(status string) (domain.AppointmentStatus, error) {
	s := domain.AppointmentStatus(status)
	if !s.IsValid() {
		return "", ErrInvalidStatus
	}
	return s, nil
}
