package models

import (
	"time"

	"github.com/m04kA/SMC-GroomingService/internal/domain"
)

// Request модели

// CreateServiceRequest запрос на создание услуги
type CreateServiceRequest struct {
	Name            string  `json:"name"`
	Description     *string `json:"description,omitempty"`
	DurationMinutes int     `json:"duration_minutes"`
	Price           float64 `json:"price"`
}

// UpdateServiceRequest запрос на обновление услуги
// Все поля опциональны - обновляются только переданные значения
type UpdateServiceRequest struct {
	Name            *string  `json:"name,omitempty"`
	Description     *string  `json:"description,omitempty"`
	DurationMinutes *int     `json:"duration_minutes,omitempty"`
	Price           *float64 `json:"price,omitempty"`
	IsActive        *bool    `json:"is_active,omitempty"`
}

// CreatePetRequest запрос на создание питомца
type CreatePetRequest struct {
	Name     string   `json:"name"`
	Species  string   `json:"species"`
	Breed    *string  `json:"breed,omitempty"`
	Size     string   `json:"size"`
	AgeYears *int     `json:"age_years,omitempty"`
	WeightKg *float64 `json:"weight_kg,omitempty"`
	Notes    *string  `json:"notes,omitempty"`
}

// UpdatePetRequest запрос на обновление питомца
// Все поля опциональны - обновляются только переданные значения
type UpdatePetRequest struct {
	Name     *string  `json:"name,omitempty"`
	Species  *string  `json:"species,omitempty"`
	Breed    *string  `json:"breed,omitempty"`
	Size     *string  `json:"size,omitempty"`
	AgeYears *int     `json:"age_years,omitempty"`
	WeightKg *float64 `json:"weight_kg,omitempty"`
	Notes    *string  `json:"notes,omitempty"`
}

// UploadPhotoRequest загрузка фотографии питомца
type UploadPhotoRequest struct {
	Content []byte
}

// Response модели

// ServiceResponse услуга каталога
type ServiceResponse struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Description     *string   `json:"description,omitempty"`
	DurationMinutes int       `json:"duration_minutes"`
	Price           float64   `json:"price"`
	IsActive        bool      `json:"is_active"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// ServiceListResponse список услуг
type ServiceListResponse struct {
	Services []ServiceResponse `json:"services"`
}

// PetResponse карточка питомца
type PetResponse struct {
	ID        string    `json:"id"`
	OwnerID   *string   `json:"owner_id,omitempty"`
	Name      string    `json:"name"`
	Species   string    `json:"species"`
	Breed     *string   `json:"breed,omitempty"`
	Size      string    `json:"size"`
	AgeYears  *int      `json:"age_years,omitempty"`
	WeightKg  *float64  `json:"weight_kg,omitempty"`
	Notes     *string   `json:"notes,omitempty"`
	PhotoURL  *string   `json:"photo_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PetListResponse список питомцев
type PetListResponse struct {
	Pets []PetResponse `json:"pets"`
}

// Методы конвертации

// FromDomainService конвертирует domain модель в DTO
func FromDomainService(s *domain.Service) *ServiceResponse {
	if s == nil {
		return nil
	}
	return &ServiceResponse{
		ID:              s.ID.String(),
		Name:            s.Name,
		Description:     s.Description,
		DurationMinutes: s.DurationMinutes,
		Price:           s.Price,
		IsActive:        s.IsActive,
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
	}
}

// FromDomainServiceList конвертирует список domain моделей в DTO
func FromDomainServiceList(services []*domain.Service) *ServiceListResponse {
	resp := &ServiceListResponse{Services: make([]ServiceResponse, 0, len(services))}
	for _, s := range services {
		resp.Services = append(resp.Services, *FromDomainService(s))
	}
	return resp
}

// ToDomainService конвертирует запрос в domain модель
func (r *CreateServiceRequest) ToDomainService() *domain.Service {
	return &domain.Service{
		Name:            r.Name,
		Description:     r.Description,
		DurationMinutes: r.DurationMinutes,
		Price:           r.Price,
		IsActive:        true,
	}
}

// ApplyToService применяет обновления к существующей услуге
func (r *UpdateServiceRequest) ApplyToService(s *domain.Service) {
	if r.Name != nil {
		s.Name = *r.Name
	}
	if r.Description != nil {
		s.Description = r.Description
	}
	if r.DurationMinutes != nil {
		s.DurationMinutes = *r.DurationMinutes
	}
	if r.Price != nil {
		s.Price = *r.Price
	}
	if r.IsActive != nil {
		s.IsActive = *r.IsActive
	}
}

// FromDomainPet конвертирует domain модель в DTO
func FromDomainPet(p *domain.Pet) *PetResponse {
	if p == nil {
		return nil
	}

	resp := &PetResponse{
		ID:        p.ID.String(),
		Name:      p.Name,
		Species:   string(p.Species),
		Breed:     p.Breed,
		Size:      string(p.Size),
		AgeYears:  p.AgeYears,
		WeightKg:  p.WeightKg,
		Notes:     p.Notes,
		PhotoURL:  p.PhotoURL,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
	if p.OwnerID != nil {
		owner := p.OwnerID.String()
		resp.OwnerID = &owner
	}
	return resp
}

// FromDomainPetList конвертирует список domain моделей в DTO
func FromDomainPetList(pets []*domain.Pet) *PetListResponse {
	resp := &PetListResponse{Pets: make([]PetResponse, 0, len(pets))}
	for _, p := range pets {
		resp.Pets = append(resp.Pets, *FromDomainPet(p))
	}
	return resp
}

// ToDomainPet конвертирует запрос в domain модель
func (r *CreatePetRequest) ToDomainPet() *domain.Pet {
	return &domain.Pet{
		Name:     r.Name,
		Species:  domain.PetSpecies(r.Species),
		Breed:    r.Breed,
		Size:     domain.PetSize(r.Size),
		AgeYears: r.AgeYears,
		WeightKg: r.WeightKg,
		Notes:    r.Notes,
	}
}

// ApplyToPet применяет обновления к существующему питомцу
func (r *UpdatePetRequest) ApplyToPet(p *domain.Pet) {
	if r.Name != nil {
		p.Name = *r.Name
	}
	if r.Species != nil {
		p.Species = domain.PetSpecies(*r.Species)
	}
	if r.Breed != nil {
		p.Breed = r.Breed
	}
	if r.Size != nil {
		p.Size = domain.PetSize(*r.Size)
	}
	if r.AgeYears != nil {
		p.AgeYears = r.AgeYears
	}
	if r.WeightKg != nil {
		p.WeightKg = r.WeightKg
	}
	if r.Notes != nil {
		p.Notes = r.Notes
	}
}
