package estimate_duration

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/m04kA/SMC-GroomingService/internal/domain"
	"github.com/m04kA/SMC-GroomingService/internal/integrations/estimator"
	petRepo "github.com/m04kA/SMC-GroomingService/internal/infra/storage/pet"
	"github.com/m04kA/SMC-GroomingService/internal/service/slots"
)

// UseCase use case для оценки длительности груминга
type UseCase struct {
	services  ServiceResolver
	petRepo   PetRepository
	estimator Estimator
	logger    Logger
}

// NewUseCase создает новый экземпляр use case.
// estimator может быть nil, тогда всегда используется эвристика
func NewUseCase(services ServiceResolver, petRepo PetRepository, estimator Estimator, logger Logger) *UseCase {
	return &UseCase{
		services:  services,
		petRepo:   petRepo,
		estimator: estimator,
		logger:    logger,
	}
}

// Execute выполняет оценку длительности
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("EstimateDuration: validation failed: %v", err)
		return nil, err
	}

	// 2. Профиль животного: из карточки питомца или из запроса
	species, breed, size := domain.PetSpecies(req.Species), req.Breed, domain.PetSize(req.Size)
	if req.PetID != nil {
		pet, err := uc.petRepo.GetByID(ctx, *req.PetID)
		if err != nil {
			if errors.Is(err, petRepo.ErrPetNotFound) {
				return nil, ErrPetNotFound
			}
			uc.logger.Error("EstimateDuration: failed to get pet=%s: %v", *req.PetID, err)
			return nil, fmt.Errorf("%w: failed to get pet: %v", ErrInternal, err)
		}
		if !req.IsAdmin && !pet.IsOwnedBy(req.ActorID) {
			uc.logger.Warn("EstimateDuration: user=%s is not the owner of pet=%s", req.ActorID, pet.ID)
			return nil, ErrForbidden
		}
		species, size = pet.Species, pet.Size
		if pet.Breed != nil {
			breed = *pet.Breed
		}
	}
	if species == "" {
		species = domain.SpeciesDog
	}
	if !size.IsValid() {
		return nil, fmt.Errorf("%w: size must be small, medium or large", ErrInvalidInput)
	}

	// 3. Услуги
	services, err := uc.services.ResolveServices(ctx, req.ServiceIDs)
	if err != nil {
		switch {
		case errors.Is(err, slots.ErrInvalidInput):
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		case errors.Is(err, slots.ErrServiceNotFound):
			return nil, fmt.Errorf("%w: %v", ErrServiceNotFound, err)
		default:
			uc.logger.Error("EstimateDuration: failed to resolve services: %v", err)
			return nil, fmt.Errorf("%w: failed to resolve services: %v", ErrInternal, err)
		}
	}

	uc.logger.Info("EstimateDuration: species=%s, size=%s, coat=%s, services=%d", species, size, req.CoatCondition, len(services))

	// 4. Эвристическая оценка (всегда считается, используется как запасной вариант)
	fallback := heuristicResponse(services, size, req.CoatCondition)

	// 5. Внешний сервис, если настроен
	if uc.estimator == nil {
		return fallback, nil
	}

	external, err := uc.estimator.EstimateWithGracefulDegradation(ctx, toEstimatorRequest(species, breed, size, req.CoatCondition, services))
	if err != nil {
		uc.logger.Warn("EstimateDuration: estimator failed, using heuristic: %v", err)
		return fallback, nil
	}

	return mergeExternal(external, fallback), nil
}

func validateRequest(req *Request) error {
	if req == nil {
		return fmt.Errorf("%w: request is nil", ErrInvalidInput)
	}
	if len(req.ServiceIDs) == 0 {
		return fmt.Errorf("%w: service_ids must not be empty", ErrInvalidInput)
	}
	if !req.CoatCondition.IsValid() {
		return fmt.Errorf("%w: coat_condition must be good, tangled, very_tangled or matted", ErrInvalidInput)
	}
	if req.PetID == nil {
		if req.Species != "" && !domain.PetSpecies(req.Species).IsValid() {
			return fmt.Errorf("%w: species must be dog, cat or other", ErrInvalidInput)
		}
		if !domain.PetSize(req.Size).IsValid() {
			return fmt.Errorf("%w: size must be small, medium or large", ErrInvalidInput)
		}
	}
	return nil
}

func heuristicResponse(services []*domain.Service, size domain.PetSize, coat CoatCondition) *Response {
	resp := &Response{
		Estimations: make([]ServiceEstimate, 0, len(services)),
		Notes:       heuristicNotes(coat),
		Source:      SourceHeuristic,
	}
	for _, svc := range services {
		minutes := heuristicEstimate(svc.DurationMinutes, size, coat)
		resp.Estimations = append(resp.Estimations, ServiceEstimate{
			ServiceID:   svc.ID,
			ServiceName: svc.Name,
			TimeMinutes: minutes,
		})
		resp.TotalMinutes += minutes
	}
	return resp
}

func toEstimatorRequest(species domain.PetSpecies, breed string, size domain.PetSize, coat CoatCondition, services []*domain.Service) *estimator.EstimateRequest {
	in := &estimator.EstimateRequest{
		Species:       string(species),
		Breed:         strings.TrimSpace(breed),
		Size:          string(size),
		CoatCondition: string(coat),
		Services:      make([]estimator.ServiceInput, 0, len(services)),
	}
	for _, svc := range services {
		in.Services = append(in.Services, estimator.ServiceInput{
			ID:              svc.ID.String(),
			Name:            svc.Name,
			DurationMinutes: svc.DurationMinutes,
		})
	}
	return in
}

// mergeExternal берет оценки внешнего сервиса, подставляя эвристику
// для услуг, которые он не вернул
func mergeExternal(external *estimator.EstimateResponse, fallback *Response) *Response {
	byID := make(map[string]int, len(external.Estimations))
	for _, e := range external.Estimations {
		if e.TimeMinutes > 0 {
			byID[e.ServiceID] = e.TimeMinutes
		}
	}

	resp := &Response{
		Estimations:  make([]ServiceEstimate, 0, len(fallback.Estimations)),
		TotalMinutes: external.EstimatedMinutes,
		Notes:        external.Notes,
		Source:       SourceEstimator,
	}
	for _, est := range fallback.Estimations {
		if minutes, ok := byID[est.ServiceID.String()]; ok {
			est.TimeMinutes = minutes
		}
		resp.Estimations = append(resp.Estimations, est)
	}
	return resp
}
