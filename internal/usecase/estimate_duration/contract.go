package estimate_duration

import (
	"context"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-GroomingService/internal/domain"
	"github.com/m04kA/SMC-GroomingService/internal/integrations/estimator"
)

// ServiceResolver интерфейс получения активных услуг в порядке запроса
type ServiceResolver interface {
	ResolveServices(ctx context.Context, serviceIDs []uuid.UUID) ([]*domain.Service, error)
}

// PetRepository интерфейс репозитория питомцев
type PetRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Pet, error)
}

// Estimator интерфейс внешнего сервиса оценки
type Estimator interface {
	EstimateWithGracefulDegradation(ctx context.Context, in *estimator.EstimateRequest) (*estimator.EstimateResponse, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
