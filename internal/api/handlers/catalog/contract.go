package catalog

import (
	"context"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-GroomingService/internal/service/catalog/models"
)

type CatalogService interface {
	ListServices(ctx context.Context, onlyActive bool) (*models.ServiceListResponse, error)
	GetService(ctx context.Context, id uuid.UUID) (*models.ServiceResponse, error)
	CreateService(ctx context.Context, req *models.CreateServiceRequest) (*models.ServiceResponse, error)
	UpdateService(ctx context.Context, id uuid.UUID, req *models.UpdateServiceRequest) (*models.ServiceResponse, error)
	DeactivateService(ctx context.Context, id uuid.UUID) error

	ListMyPets(ctx context.Context, ownerID uuid.UUID) (*models.PetListResponse, error)
	SearchPets(ctx context.Context, query string, limit int) (*models.PetListResponse, error)
	GetPet(ctx context.Context, id, actorID uuid.UUID, isAdmin bool) (*models.PetResponse, error)
	CreatePet(ctx context.Context, ownerID uuid.UUID, req *models.CreatePetRequest) (*models.PetResponse, error)
	UpdatePet(ctx context.Context, id, actorID uuid.UUID, isAdmin bool, req *models.UpdatePetRequest) (*models.PetResponse, error)
	DeletePet(ctx context.Context, id, actorID uuid.UUID, isAdmin bool) error
	UploadPetPhoto(ctx context.Context, id, actorID uuid.UUID, isAdmin bool, req *models.UploadPhotoRequest) (*models.PetResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
