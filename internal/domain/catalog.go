package domain

import (
	"time"

	"github.com/google/uuid"
)

// Service is a grooming service offered by the salon
type Service struct {
	ID              uuid.UUID
	Name            string
	Description     *string
	DurationMinutes int
	Price           float64
	IsActive        bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// PetSpecies is the kind of animal
type PetSpecies string

const (
	SpeciesDog   PetSpecies = "dog"
	SpeciesCat   PetSpecies = "cat"
	SpeciesOther PetSpecies = "other"
)

// IsValid reports whether the species is supported
func (s PetSpecies) IsValid() bool {
	return s == SpeciesDog || s == SpeciesCat || s == SpeciesOther
}

// PetSize is the size class used for pricing and estimates
type PetSize string

const (
	SizeSmall  PetSize = "small"
	SizeMedium PetSize = "medium"
	SizeLarge  PetSize = "large"
)

// IsValid reports whether the size is supported
func (s PetSize) IsValid() bool {
	return s == SizeSmall || s == SizeMedium || s == SizeLarge
}

// Pet is an animal registered by a client or by staff
type Pet struct {
	ID        uuid.UUID
	OwnerID   *uuid.UUID
	Name      string
	Species   PetSpecies
	Breed     *string
	Size      PetSize
	AgeYears  *int
	WeightKg  *float64
	Notes     *string
	PhotoURL  *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsOwnedBy reports whether userID owns the pet
func (p *Pet) IsOwnedBy(userID uuid.UUID) bool {
	return p.OwnerID != nil && *p.OwnerID == userID
}
