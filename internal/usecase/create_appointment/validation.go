package create_appointment

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-GroomingService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req == nil {
		return fmt.Errorf("%w: request is required", ErrInvalidInput)
	}

	if req.ActorID == uuid.Nil {
		return fmt.Errorf("%w: actor is required", ErrInvalidInput)
	}

	if req.Source != SourceClient && req.Source != SourceAdmin {
		return fmt.Errorf("%w: unknown source %q", ErrInvalidInput, req.Source)
	}

	// Ровно один способ указать питомца
	switch {
	case req.PetID == nil && req.NewPet == nil:
		return fmt.Errorf("%w: pet_id is required", ErrInvalidInput)
	case req.PetID != nil && req.NewPet != nil:
		return fmt.Errorf("%w: pet_id and new pet are mutually exclusive", ErrInvalidInput)
	case req.PetID != nil && *req.PetID == uuid.Nil:
		return fmt.Errorf("%w: pet_id must not be empty", ErrInvalidInput)
	}

	if req.NewPet != nil {
		if req.Source != SourceAdmin {
			return fmt.Errorf("%w: only staff can create a pet with an appointment", ErrForbidden)
		}
		if err := validateNewPet(req.NewPet); err != nil {
			return err
		}
	}

	if len(req.ServiceIDs) == 0 {
		return fmt.Errorf("%w: at least one service is required", ErrInvalidInput)
	}

	// Проверяем, что дата не является нулевой
	if req.Date.IsZero() {
		return fmt.Errorf("%w: scheduled_date is required", ErrInvalidInput)
	}

	// Проверяем, что время начала указано
	if req.Time.IsZero() {
		return fmt.Errorf("%w: scheduled_time is required", ErrInvalidInput)
	}

	// Валидируем формат времени
	if err := req.Time.Validate(); err != nil {
		return fmt.Errorf("%w: invalid scheduled_time format: %v", ErrInvalidInput, err)
	}

	if req.Notes != nil && len(*req.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes must be at most %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	return nil
}

// validateNewPet проверяет обязательные поля питомца
func validateNewPet(p *NewPet) error {
	name := strings.TrimSpace(p.Name)
	if name == "" {
		return fmt.Errorf("%w: pet name is required", ErrInvalidInput)
	}
	if len(name) > domain.MaxNameLength {
		return fmt.Errorf("%w: pet name must be at most %d characters", ErrInvalidInput, domain.MaxNameLength)
	}
	if !p.Species.IsValid() {
		return fmt.Errorf("%w: invalid species %q", ErrInvalidInput, p.Species)
	}
	if !p.Size.IsValid() {
		return fmt.Errorf("%w: invalid size %q", ErrInvalidInput, p.Size)
	}
	if p.AgeYears != nil && *p.AgeYears < 0 {
		return fmt.Errorf("%w: age must not be negative", ErrInvalidInput)
	}
	if p.WeightKg != nil && *p.WeightKg <= 0 {
		return fmt.Errorf("%w: weight must be positive", ErrInvalidInput)
	}
	return nil
}
