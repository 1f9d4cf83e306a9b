package catalog

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-GroomingService/internal/domain"
	petRepo "github.com/m04kA/SMC-GroomingService/internal/infra/storage/pet"
	serviceRepo "github.com/m04kA/SMC-GroomingService/internal/infra/storage/service"
	"github.com/m04kA/SMC-GroomingService/internal/service/catalog/models"
	"github.com/m04kA/SMC-GroomingService/pkg/logger"
	"github.com/m04kA/SMC-GroomingService/pkg/ptr"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

type fakeServices struct {
	items      map[uuid.UUID]*domain.Service
	onlyActive bool
}

func (f *fakeServices) List(_ context.Context, onlyActive bool) ([]*domain.Service, error) {
	f.onlyActive = onlyActive
	result := make([]*domain.Service, 0, len(f.items))
	for _, s := range f.items {
		if onlyActive && !s.IsActive {
			continue
		}
		result = append(result, s)
	}
	return result, nil
}

func (f *fakeServices) GetByID(_ context.Context, id uuid.UUID) (*domain.Service, error) {
	s, ok := f.items[id]
	if !ok {
		return nil, serviceRepo.ErrServiceNotFound
	}
	copied := *s
	return &copied, nil
}

func (f *fakeServices) Create(_ context.Context, s *domain.Service) (*domain.Service, error) {
	s.ID = uuid.New()
	f.items[s.ID] = s
	return s, nil
}

func (f *fakeServices) Update(_ context.Context, s *domain.Service) (*domain.Service, error) {
	f.items[s.ID] = s
	return s, nil
}

func (f *fakeServices) Deactivate(_ context.Context, id uuid.UUID) error {
	s, ok := f.items[id]
	if !ok {
		return serviceRepo.ErrServiceNotFound
	}
	s.IsActive = false
	return nil
}

type fakePets struct {
	items     map[uuid.UUID]*domain.Pet
	deleteErr error
	lastLimit int
}

func (f *fakePets) GetByID(_ context.Context, id uuid.UUID) (*domain.Pet, error) {
	p, ok := f.items[id]
	if !ok {
		return nil, petRepo.ErrPetNotFound
	}
	copied := *p
	return &copied, nil
}

func (f *fakePets) ListByOwner(_ context.Context, ownerID uuid.UUID) ([]*domain.Pet, error) {
	result := make([]*domain.Pet, 0)
	for _, p := range f.items {
		if p.IsOwnedBy(ownerID) {
			result = append(result, p)
		}
	}
	return result, nil
}

func (f *fakePets) Search(_ context.Context, _ string, limit int) ([]*domain.Pet, error) {
	f.lastLimit = limit
	return []*domain.Pet{}, nil
}

func (f *fakePets) Create(_ context.Context, p *domain.Pet) (*domain.Pet, error) {
	p.ID = uuid.New()
	f.items[p.ID] = p
	return p, nil
}

func (f *fakePets) Update(_ context.Context, p *domain.Pet) (*domain.Pet, error) {
	f.items[p.ID] = p
	return p, nil
}

func (f *fakePets) Delete(_ context.Context, id uuid.UUID) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	delete(f.items, id)
	return nil
}

type fakePhotos struct {
	key         string
	contentType string
	size        int64
	err         error
}

func (f *fakePhotos) Upload(_ context.Context, key, contentType string, body io.Reader, size int64) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	_, _ = io.ReadAll(body)
	f.key, f.contentType, f.size = key, contentType, size
	return "https://cdn.example.com/" + key, nil
}

func newCatalog(photos PhotoStorage) (*Service, *fakeServices, *fakePets) {
	services := &fakeServices{items: map[uuid.UUID]*domain.Service{}}
	pets := &fakePets{items: map[uuid.UUID]*domain.Pet{}}
	return NewService(services, pets, photos, 1024, logger.Nop()), services, pets
}

func TestServices_CRUD(t *testing.T) {
	svc, repo, _ := newCatalog(nil)
	ctx := context.Background()

	created, err := svc.CreateService(ctx, &models.CreateServiceRequest{Name: "  Bath ", DurationMinutes: 60, Price: 1500})
	require.NoError(t, err)
	assert.Equal(t, "Bath", created.Name)
	assert.True(t, created.IsActive)

	id := uuid.MustParse(created.ID)
	updated, err := svc.UpdateService(ctx, id, &models.UpdateServiceRequest{Price: ptr.Ptr(1700.0)})
	require.NoError(t, err)
	assert.Equal(t, 1700.0, updated.Price)
	assert.Equal(t, 60, updated.DurationMinutes)

	require.NoError(t, svc.DeactivateService(ctx, id))
	list, err := svc.ListServices(ctx, true)
	require.NoError(t, err)
	assert.Empty(t, list.Services)
	assert.True(t, repo.onlyActive)

	list, err = svc.ListServices(ctx, false)
	require.NoError(t, err)
	assert.Len(t, list.Services, 1)

	_, err = svc.GetService(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrServiceNotFound)
	assert.ErrorIs(t, svc.DeactivateService(ctx, uuid.New()), ErrServiceNotFound)
}

func TestServices_Validation(t *testing.T) {
	tests := []struct {
		name string
		req  models.CreateServiceRequest
	}{
		{"empty name", models.CreateServiceRequest{Name: "  ", DurationMinutes: 30}},
		{"zero duration", models.CreateServiceRequest{Name: "Bath"}},
		{"duration over 8h", models.CreateServiceRequest{Name: "Bath", DurationMinutes: 481}},
		{"negative price", models.CreateServiceRequest{Name: "Bath", DurationMinutes: 30, Price: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, _ := newCatalog(nil)
			_, err := svc.CreateService(context.Background(), &tt.req)
			assert.ErrorIs(t, err, ErrInvalidInput)
			assert.Empty(t, repo.items)
		})
	}

	svc, _, _ := newCatalog(nil)
	created, err := svc.CreateService(context.Background(), &models.CreateServiceRequest{Name: "Cut", DurationMinutes: 480})
	require.NoError(t, err)
	_, err = svc.UpdateService(context.Background(), uuid.MustParse(created.ID), &models.UpdateServiceRequest{DurationMinutes: ptr.Ptr(0)})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestPets_OwnerAccess(t *testing.T) {
	svc, _, pets := newCatalog(nil)
	ctx := context.Background()
	owner := uuid.New()
	stranger := uuid.New()

	created, err := svc.CreatePet(ctx, owner, &models.CreatePetRequest{Name: "Rex", Species: "dog", Size: "medium"})
	require.NoError(t, err)
	require.NotNil(t, created.OwnerID)
	assert.Equal(t, owner.String(), *created.OwnerID)
	id := uuid.MustParse(created.ID)

	mine, err := svc.ListMyPets(ctx, owner)
	require.NoError(t, err)
	assert.Len(t, mine.Pets, 1)

	_, err = svc.GetPet(ctx, id, stranger, false)
	assert.ErrorIs(t, err, ErrAccessDenied)
	_, err = svc.GetPet(ctx, id, stranger, true)
	assert.NoError(t, err)

	updated, err := svc.UpdatePet(ctx, id, owner, false, &models.UpdatePetRequest{Size: ptr.Ptr("large")})
	require.NoError(t, err)
	assert.Equal(t, "large", updated.Size)

	_, err = svc.UpdatePet(ctx, id, owner, false, &models.UpdatePetRequest{Species: ptr.Ptr("parrot")})
	assert.ErrorIs(t, err, ErrInvalidInput)

	assert.ErrorIs(t, svc.DeletePet(ctx, id, stranger, false), ErrAccessDenied)

	pets.deleteErr = petRepo.ErrPetInUse
	assert.ErrorIs(t, svc.DeletePet(ctx, id, owner, false), ErrPetInUse)

	pets.deleteErr = nil
	require.NoError(t, svc.DeletePet(ctx, id, owner, false))
	assert.ErrorIs(t, svc.DeletePet(ctx, id, owner, false), ErrPetNotFound)
}

func TestPets_Validation(t *testing.T) {
	tests := []struct {
		name string
		req  models.CreatePetRequest
	}{
		{"empty name", models.CreatePetRequest{Species: "dog", Size: "small"}},
		{"bad species", models.CreatePetRequest{Name: "Rex", Species: "fish", Size: "small"}},
		{"bad size", models.CreatePetRequest{Name: "Rex", Species: "dog", Size: "huge"}},
		{"negative age", models.CreatePetRequest{Name: "Rex", Species: "dog", Size: "small", AgeYears: ptr.Ptr(-1)}},
		{"zero weight", models.CreatePetRequest{Name: "Rex", Species: "dog", Size: "small", WeightKg: ptr.Ptr(0.0)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, _ := newCatalog(nil)
			_, err := svc.CreatePet(context.Background(), uuid.New(), &tt.req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestSearchPets_ClampsLimit(t *testing.T) {
	svc, _, pets := newCatalog(nil)

	_, err := svc.SearchPets(context.Background(), "re", 1000)
	require.NoError(t, err)
	assert.Equal(t, 50, pets.lastLimit)

	_, err = svc.SearchPets(context.Background(), "re", 10)
	require.NoError(t, err)
	assert.Equal(t, 10, pets.lastLimit)
}

func TestUploadPetPhoto(t *testing.T) {
	photos := &fakePhotos{}
	svc, _, pets := newCatalog(photos)
	ctx := context.Background()
	owner := uuid.New()
	created, err := svc.CreatePet(ctx, owner, &models.CreatePetRequest{Name: "Tom", Species: "cat", Size: "small"})
	require.NoError(t, err)
	id := uuid.MustParse(created.ID)

	resp, err := svc.UploadPetPhoto(ctx, id, owner, false, &models.UploadPhotoRequest{Content: pngHeader})

	require.NoError(t, err)
	require.NotNil(t, resp.PhotoURL)
	assert.Equal(t, "image/png", photos.contentType)
	assert.Equal(t, int64(len(pngHeader)), photos.size)
	assert.Contains(t, photos.key, "pets/"+id.String()+"/")
	assert.Equal(t, "https://cdn.example.com/"+photos.key, *pets.items[id].PhotoURL)

	t.Run("unsupported format", func(t *testing.T) {
		_, err := svc.UploadPetPhoto(ctx, id, owner, false, &models.UploadPhotoRequest{Content: []byte("plain text")})
		assert.ErrorIs(t, err, ErrUnsupportedMedia)
	})

	t.Run("too large", func(t *testing.T) {
		big := append(append([]byte{}, pngHeader...), make([]byte, 2048)...)
		_, err := svc.UploadPetPhoto(ctx, id, owner, false, &models.UploadPhotoRequest{Content: big})
		assert.ErrorIs(t, err, ErrPhotoTooLarge)
	})

	t.Run("foreign pet", func(t *testing.T) {
		_, err := svc.UploadPetPhoto(ctx, id, uuid.New(), false, &models.UploadPhotoRequest{Content: pngHeader})
		assert.ErrorIs(t, err, ErrAccessDenied)
	})

	t.Run("storage failure", func(t *testing.T) {
		photos.err = errors.New("bucket gone")
		defer func() { photos.err = nil }()

		_, err := svc.UploadPetPhoto(ctx, id, owner, false, &models.UploadPhotoRequest{Content: pngHeader})
		assert.ErrorIs(t, err, ErrInternal)
	})
}

func TestUploadPetPhoto_Disabled(t *testing.T) {
	svc, _, _ := newCatalog(nil)

	_, err := svc.UploadPetPhoto(context.Background(), uuid.New(), uuid.New(), true, &models.UploadPhotoRequest{Content: pngHeader})

	assert.ErrorIs(t, err, ErrPhotoStorageDisabled)
}
