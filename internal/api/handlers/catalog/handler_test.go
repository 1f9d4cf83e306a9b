package catalog

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-GroomingService/internal/api/middleware"
	"github.com/m04kA/SMC-GroomingService/internal/domain"
	"github.com/m04kA/SMC-GroomingService/internal/service/catalog"
	"github.com/m04kA/SMC-GroomingService/internal/service/catalog/models"
	"github.com/m04kA/SMC-GroomingService/pkg/logger"
)

type fakeCatalog struct {
	CatalogService

	uploaded   []byte
	search     string
	onlyActive *bool
	err        error
}

func (f *fakeCatalog) ListServices(_ context.Context, onlyActive bool) (*models.ServiceListResponse, error) {
	f.onlyActive = &onlyActive
	return &models.ServiceListResponse{Services: []models.ServiceResponse{}}, f.err
}

func (f *fakeCatalog) SearchPets(_ context.Context, query string, _ int) (*models.PetListResponse, error) {
	f.search = query
	return &models.PetListResponse{Pets: []models.PetResponse{}}, f.err
}

func (f *fakeCatalog) DeletePet(context.Context, uuid.UUID, uuid.UUID, bool) error {
	return f.err
}

func (f *fakeCatalog) UploadPetPhoto(_ context.Context, id, _ uuid.UUID, _ bool, req *models.UploadPhotoRequest) (*models.PetResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.uploaded = req.Content
	url := "https://cdn.example.com/pets/" + id.String() + "/photo.png"
	return &models.PetResponse{ID: id.String(), PhotoURL: &url}, nil
}

var pngHeader = []byte("\x89PNG\r\n\x1a\n0000")

func petRequest(method, target string, body *bytes.Buffer, petID uuid.UUID) *http.Request {
	r := httptest.NewRequest(method, target, body)
	r = mux.SetURLVars(r, map[string]string{"id": petID.String()})
	return r.WithContext(middleware.WithPrincipal(r.Context(), middleware.Principal{UserID: uuid.New(), Role: domain.RoleClient}))
}

func TestUploadPetPhoto_Multipart(t *testing.T) {
	svc := &fakeCatalog{}
	h := NewHandler(svc, 1024, logger.Nop())

	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	part, err := mw.CreateFormFile(photoFormField, "rex.png")
	require.NoError(t, err)
	_, _ = part.Write(pngHeader)
	require.NoError(t, mw.Close())

	req := petRequest(http.MethodPost, "/api/v1/pets/x/photo", body, uuid.New())
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()

	h.UploadPetPhoto(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, pngHeader, svc.uploaded)
	assert.Contains(t, rec.Body.String(), "photo_url")
}

func TestUploadPetPhoto_RawBody(t *testing.T) {
	svc := &fakeCatalog{}
	h := NewHandler(svc, 1024, logger.Nop())

	req := petRequest(http.MethodPost, "/", bytes.NewBuffer(pngHeader), uuid.New())
	req.Header.Set("Content-Type", "image/png")
	rec := httptest.NewRecorder()

	h.UploadPetPhoto(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, pngHeader, svc.uploaded)
}

func TestUploadPetPhoto_TooLarge(t *testing.T) {
	svc := &fakeCatalog{}
	h := NewHandler(svc, 8, logger.Nop())

	req := petRequest(http.MethodPost, "/", bytes.NewBuffer(pngHeader), uuid.New())
	rec := httptest.NewRecorder()

	h.UploadPetPhoto(rec, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Nil(t, svc.uploaded)
}

func TestUploadPetPhoto_ServiceErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"disabled", catalog.ErrPhotoStorageDisabled, http.StatusServiceUnavailable},
		{"unsupported", catalog.ErrUnsupportedMedia, http.StatusUnsupportedMediaType},
		{"foreign pet", catalog.ErrAccessDenied, http.StatusForbidden},
		{"missing pet", catalog.ErrPetNotFound, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHandler(&fakeCatalog{err: tt.err}, 1024, logger.Nop())
			rec := httptest.NewRecorder()

			h.UploadPetPhoto(rec, petRequest(http.MethodPost, "/", bytes.NewBuffer(pngHeader), uuid.New()))

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestDeletePet_InUse(t *testing.T) {
	h := NewHandler(&fakeCatalog{err: catalog.ErrPetInUse}, 1024, logger.Nop())
	rec := httptest.NewRecorder()

	h.DeletePet(rec, petRequest(http.MethodDelete, "/", &bytes.Buffer{}, uuid.New()))

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestDeletePet_InvalidID(t *testing.T) {
	h := NewHandler(&fakeCatalog{}, 1024, logger.Nop())
	r := httptest.NewRequest(http.MethodDelete, "/", nil)
	r = mux.SetURLVars(r, map[string]string{"id": "42"})
	r = r.WithContext(middleware.WithPrincipal(r.Context(), middleware.Principal{UserID: uuid.New(), Role: domain.RoleAdmin}))
	rec := httptest.NewRecorder()

	h.DeletePet(rec, r)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListServices_PublicShowsOnlyActive(t *testing.T) {
	svc := &fakeCatalog{}
	h := NewHandler(svc, 1024, logger.Nop())

	h.ListServices(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/services", nil))
	require.NotNil(t, svc.onlyActive)
	assert.True(t, *svc.onlyActive)

	h.ListAllServices(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/admin/services", nil))
	assert.False(t, *svc.onlyActive)
}

func TestSearchPets(t *testing.T) {
	svc := &fakeCatalog{}
	h := NewHandler(svc, 1024, logger.Nop())

	rec := httptest.NewRecorder()
	h.SearchPets(rec, httptest.NewRequest(http.MethodGet, "/admin/pets?q=%20rex%20", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "rex", svc.search)

	rec = httptest.NewRecorder()
	h.SearchPets(rec, httptest.NewRequest(http.MethodGet, "/admin/pets", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, svc.search)

	rec = httptest.NewRecorder()
	h.SearchPets(rec, httptest.NewRequest(http.MethodGet, "/admin/pets?q=rex&limit=-1", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreatePet_InvalidBody(t *testing.T) {
	h := NewHandler(&fakeCatalog{}, 1024, logger.Nop())
	r := httptest.NewRequest(http.MethodPost, "/pets", strings.NewReader("not json"))
	r = r.WithContext(middleware.WithPrincipal(r.Context(), middleware.Principal{UserID: uuid.New(), Role: domain.RoleClient}))
	rec := httptest.NewRecorder()

	h.CreatePet(rec, r)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
