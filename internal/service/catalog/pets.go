package catalog

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-GroomingService/internal/domain"
	petRepo "github.com/m04kA/SMC-GroomingService/internal/infra/storage/pet"
	"github.com/m04kA/SMC-GroomingService/internal/service/catalog/models"
)

// расширения поддерживаемых форматов фотографий
var photoExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// ListMyPets возвращает питомцев пользователя
func (s *Service) ListMyPets(ctx context.Context, ownerID uuid.UUID) (*models.PetListResponse, error) {
	pets, err := s.petRepo.ListByOwner(ctx, ownerID)
	if err != nil {
		s.logger.Error("ListMyPets: failed to list pets for owner=%s: %v", ownerID, err)
		return nil, fmt.Errorf("%w: ListMyPets - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainPetList(pets), nil
}

// SearchPets ищет питомцев по имени (для администратора)
func (s *Service) SearchPets(ctx context.Context, query string, limit int) (*models.PetListResponse, error) {
	if limit <= 0 || limit > s.maxSearchLimit {
		limit = s.maxSearchLimit
	}

	pets, err := s.petRepo.Search(ctx, query, limit)
	if err != nil {
		s.logger.Error("SearchPets: failed to search %q: %v", query, err)
		return nil, fmt.Errorf("%w: SearchPets - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainPetList(pets), nil
}

// GetPet возвращает питомца владельцу или администратору
func (s *Service) GetPet(ctx context.Context, id, actorID uuid.UUID, isAdmin bool) (*models.PetResponse, error) {
	pet, err := s.getAccessiblePet(ctx, "GetPet", id, actorID, isAdmin)
	if err != nil {
		return nil, err
	}

	return models.FromDomainPet(pet), nil
}

// CreatePet создает питомца текущего пользователя
func (s *Service) CreatePet(ctx context.Context, ownerID uuid.UUID, req *models.CreatePetRequest) (*models.PetResponse, error) {
	s.logger.Info("CreatePet: owner=%s, name=%q, species=%s, size=%s", ownerID, req.Name, req.Species, req.Size)

	pet := req.ToDomainPet()
	pet.OwnerID = &ownerID
	pet.Name = strings.TrimSpace(pet.Name)
	if err := validatePet(pet); err != nil {
		return nil, err
	}

	created, err := s.petRepo.Create(ctx, pet)
	if err != nil {
		s.logger.Error("CreatePet: failed to create: %v", err)
		return nil, fmt.Errorf("%w: CreatePet - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("CreatePet: created id=%s", created.ID)
	return models.FromDomainPet(created), nil
}

// UpdatePet частично обновляет карточку питомца
func (s *Service) UpdatePet(ctx context.Context, id, actorID uuid.UUID, isAdmin bool, req *models.UpdatePetRequest) (*models.PetResponse, error) {
	s.logger.Info("UpdatePet: id=%s, actor=%s", id, actorID)

	// 1. Проверяем доступ
	pet, err := s.getAccessiblePet(ctx, "UpdatePet", id, actorID, isAdmin)
	if err != nil {
		return nil, err
	}

	// 2. Применяем изменения и валидируем
	req.ApplyToPet(pet)
	pet.Name = strings.TrimSpace(pet.Name)
	if err := validatePet(pet); err != nil {
		return nil, err
	}

	// 3. Сохраняем
	updated, err := s.petRepo.Update(ctx, pet)
	if err != nil {
		return nil, s.mapPetError("UpdatePet", id, err)
	}

	return models.FromDomainPet(updated), nil
}

// DeletePet удаляет питомца. Питомца с записями удалить нельзя
func (s *Service) DeletePet(ctx context.Context, id, actorID uuid.UUID, isAdmin bool) error {
	s.logger.Info("DeletePet: id=%s, actor=%s", id, actorID)

	if _, err := s.getAccessiblePet(ctx, "DeletePet", id, actorID, isAdmin); err != nil {
		return err
	}

	if err := s.petRepo.Delete(ctx, id); err != nil {
		return s.mapPetError("DeletePet", id, err)
	}
	return nil
}

// UploadPetPhoto загружает фотографию питомца в хранилище и сохраняет ссылку
func (s *Service) UploadPetPhoto(ctx context.Context, id, actorID uuid.UUID, isAdmin bool, req *models.UploadPhotoRequest) (*models.PetResponse, error) {
	s.logger.Info("UploadPetPhoto: id=%s, actor=%s, size=%d", id, actorID, len(req.Content))

	// 1. Хранилище должно быть настроено
	if s.photos == nil {
		return nil, ErrPhotoStorageDisabled
	}

	// 2. Проверяем файл
	if len(req.Content) == 0 {
		return nil, fmt.Errorf("%w: photo is empty", ErrInvalidInput)
	}
	if s.maxPhotoBytes > 0 && int64(len(req.Content)) > s.maxPhotoBytes {
		return nil, fmt.Errorf("%w: limit is %d bytes", ErrPhotoTooLarge, s.maxPhotoBytes)
	}
	contentType := http.DetectContentType(req.Content)
	ext, ok := photoExtensions[contentType]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedMedia, contentType)
	}

	// 3. Проверяем доступ
	pet, err := s.getAccessiblePet(ctx, "UploadPetPhoto", id, actorID, isAdmin)
	if err != nil {
		return nil, err
	}

	// 4. Загружаем
	key := fmt.Sprintf("pets/%s/%s%s", pet.ID, uuid.New(), ext)
	url, err := s.photos.Upload(ctx, key, contentType, bytes.NewReader(req.Content), int64(len(req.Content)))
	if err != nil {
		s.logger.Error("UploadPetPhoto: failed to upload key=%s: %v", key, err)
		return nil, fmt.Errorf("%w: UploadPetPhoto - storage error: %v", ErrInternal, err)
	}

	// 5. Сохраняем ссылку
	pet.PhotoURL = &url
	updated, err := s.petRepo.Update(ctx, pet)
	if err != nil {
		return nil, s.mapPetError("UploadPetPhoto", id, err)
	}

	s.logger.Info("UploadPetPhoto: stored photo for pet=%s at %s", id, url)
	return models.FromDomainPet(updated), nil
}

func (s *Service) getAccessiblePet(ctx context.Context, op string, id, actorID uuid.UUID, isAdmin bool) (*domain.Pet, error) {
	pet, err := s.petRepo.GetByID(ctx, id)
	if err != nil {
		return nil, s.mapPetError(op, id, err)
	}

	if !isAdmin && !pet.IsOwnedBy(actorID) {
		s.logger.Warn("%s: access denied for user=%s to pet=%s", op, actorID, id)
		return nil, ErrAccessDenied
	}
	return pet, nil
}

func (s *Service) mapPetError(op string, id uuid.UUID, err error) error {
	switch {
	case errors.Is(err, petRepo.ErrPetNotFound):
		s.logger.Warn("%s: pet not found: id=%s", op, id)
		return ErrPetNotFound
	case errors.Is(err, petRepo.ErrPetInUse):
		s.logger.Warn("%s: pet has appointments: id=%s", op, id)
		return ErrPetInUse
	default:
		s.logger.Error("%s: failed for id=%s: %v", op, id, err)
		return fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
}

func validatePet(pet *domain.Pet) error {
	if pet.Name == "" || len(pet.Name) > maxNameLength {
		return fmt.Errorf("%w: name is required and must be at most %d characters", ErrInvalidInput, maxNameLength)
	}
	if !pet.Species.IsValid() {
		return fmt.Errorf("%w: species must be dog, cat or other", ErrInvalidInput)
	}
	if !pet.Size.IsValid() {
		return fmt.Errorf("%w: size must be small, medium or large", ErrInvalidInput)
	}
	if pet.AgeYears != nil && *pet.AgeYears < 0 {
		return fmt.Errorf("%w: age_years must not be negative", ErrInvalidInput)
	}
	if pet.WeightKg != nil && *pet.WeightKg <= 0 {
		return fmt.Errorf("%w: weight_kg must be positive", ErrInvalidInput)
	}
	return nil
}
