package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-GroomingService/internal/domain"
	serviceRepo "github.com/m04kA/SMC-GroomingService/internal/infra/storage/service"
	"github.com/m04kA/SMC-GroomingService/internal/service/catalog/models"
)

const (
	minServiceDuration = 1
	maxServiceDuration = 480
	maxNameLength      = 200
)

// Service сервис каталога услуг и питомцев
type Service struct {
	serviceRepo    ServiceRepository
	petRepo        PetRepository
	photos         PhotoStorage
	maxPhotoBytes  int64
	maxSearchLimit int
	logger         Logger
}

// NewService создает новый экземпляр сервиса каталога.
// photos может быть nil, тогда загрузка фотографий недоступна
func NewService(serviceRepo ServiceRepository, petRepo PetRepository, photos PhotoStorage, maxPhotoBytes int64, logger Logger) *Service {
	return &Service{
		serviceRepo:    serviceRepo,
		petRepo:        petRepo,
		photos:         photos,
		maxPhotoBytes:  maxPhotoBytes,
		maxSearchLimit: 50,
		logger:         logger,
	}
}

// ListServices возвращает услуги. Клиенты видят только активные
func (s *Service) ListServices(ctx context.Context, onlyActive bool) (*models.ServiceListResponse, error) {
	services, err := s.serviceRepo.List(ctx, onlyActive)
	if err != nil {
		s.logger.Error("ListServices: failed to list services: %v", err)
		return nil, fmt.Errorf("%w: ListServices - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainServiceList(services), nil
}

// GetService возвращает услугу по ID
func (s *Service) GetService(ctx context.Context, id uuid.UUID) (*models.ServiceResponse, error) {
	svc, err := s.serviceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, s.mapServiceError("GetService", id, err)
	}

	return models.FromDomainService(svc), nil
}

// CreateService создает услугу
func (s *Service) CreateService(ctx context.Context, req *models.CreateServiceRequest) (*models.ServiceResponse, error) {
	s.logger.Info("CreateService: name=%q, duration=%d, price=%.2f", req.Name, req.DurationMinutes, req.Price)

	svc := req.ToDomainService()
	svc.Name = strings.TrimSpace(svc.Name)
	if err := validateService(svc); err != nil {
		return nil, err
	}

	created, err := s.serviceRepo.Create(ctx, svc)
	if err != nil {
		s.logger.Error("CreateService: failed to create: %v", err)
		return nil, fmt.Errorf("%w: CreateService - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("CreateService: created id=%s", created.ID)
	return models.FromDomainService(created), nil
}

// UpdateService частично обновляет услугу
func (s *Service) UpdateService(ctx context.Context, id uuid.UUID, req *models.UpdateServiceRequest) (*models.ServiceResponse, error) {
	s.logger.Info("UpdateService: id=%s", id)

	// 1. Получаем текущее состояние
	svc, err := s.serviceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, s.mapServiceError("UpdateService", id, err)
	}

	// 2. Применяем изменения и валидируем
	req.ApplyToService(svc)
	svc.Name = strings.TrimSpace(svc.Name)
	if err := validateService(svc); err != nil {
		return nil, err
	}

	// 3. Сохраняем
	updated, err := s.serviceRepo.Update(ctx, svc)
	if err != nil {
		return nil, s.mapServiceError("UpdateService", id, err)
	}

	return models.FromDomainService(updated), nil
}

// DeactivateService снимает услугу с продажи. Существующие записи не затрагиваются
func (s *Service) DeactivateService(ctx context.Context, id uuid.UUID) error {
	s.logger.Info("DeactivateService: id=%s", id)

	if err := s.serviceRepo.Deactivate(ctx, id); err != nil {
		return s.mapServiceError("DeactivateService", id, err)
	}
	return nil
}

func (s *Service) mapServiceError(op string, id uuid.UUID, err error) error {
	if errors.Is(err, serviceRepo.ErrServiceNotFound) {
		s.logger.Warn("%s: service not found: id=%s", op, id)
		return ErrServiceNotFound
	}
	s.logger.Error("%s: failed for id=%s: %v", op, id, err)
	return fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
}

func validateService(svc *domain.Service) error {
	if svc.Name == "" || len(svc.Name) > maxNameLength {
		return fmt.Errorf("%w: name is required and must be at most %d characters", ErrInvalidInput, maxNameLength)
	}
	if svc.DurationMinutes < minServiceDuration || svc.DurationMinutes > maxServiceDuration {
		return fmt.Errorf("%w: duration_minutes must be between %d and %d", ErrInvalidInput, minServiceDuration, maxServiceDuration)
	}
	if svc.Price < 0 {
		return fmt.Errorf("%w: price must not be negative", ErrInvalidInput)
	}
	return nil
}
