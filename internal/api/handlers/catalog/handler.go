package catalog

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-GroomingService/internal/api/handlers"
	"github.com/m04kA/SMC-GroomingService/internal/api/middleware"
	"github.com/m04kA/SMC-GroomingService/internal/service/catalog"
	"github.com/m04kA/SMC-GroomingService/internal/service/catalog/models"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidID          = "некорректный ID"
	msgInvalidLimit       = "некорректный лимит"
	msgInvalidInput       = "некорректные данные"
	msgServiceNotFound    = "услуга не найдена"
	msgPetNotFound        = "питомец не найден"
	msgAccessDenied       = "питомец принадлежит другому пользователю"
	msgPetInUse           = "у питомца есть записи, удаление невозможно"
	msgPhotoDisabled      = "загрузка фотографий не настроена"
	msgUnsupportedMedia   = "поддерживаются только JPEG, PNG и WebP"
	msgPhotoTooLarge      = "файл слишком большой"
	msgInvalidPhoto       = "не удалось прочитать файл"
	msgUnauthorized       = "требуется авторизация"
)

type Handler struct {
	service        CatalogService
	maxUploadBytes int64
	logger         Logger
}

func NewHandler(service CatalogService, maxUploadBytes int64, logger Logger) *Handler {
	return &Handler{
		service:        service,
		maxUploadBytes: maxUploadBytes,
		logger:         logger,
	}
}

// ListServices GET /api/v1/services
// Публичный список содержит только активные услуги
func (h *Handler) ListServices(w http.ResponseWriter, r *http.Request) {
	h.listServices(w, r, "GET /services", true)
}

// ListAllServices GET /api/v1/admin/services
func (h *Handler) ListAllServices(w http.ResponseWriter, r *http.Request) {
	h.listServices(w, r, "GET /admin/services", false)
}

func (h *Handler) listServices(w http.ResponseWriter, r *http.Request, route string, onlyActive bool) {
	result, err := h.service.ListServices(r.Context(), onlyActive)
	if err != nil {
		h.respondServiceError(w, route, err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, result)
}

// GetService GET /api/v1/services/{id}
func (h *Handler) GetService(w http.ResponseWriter, r *http.Request) {
	id, err := handlers.PathUUID(r, "id")
	if err != nil {
		h.logger.Warn("GET /services/{id} - Invalid ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidID)
		return
	}

	result, err := h.service.GetService(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, "GET /services/{id}", err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, result)
}

// CreateService POST /api/v1/admin/services
func (h *Handler) CreateService(w http.ResponseWriter, r *http.Request) {
	var req models.CreateServiceRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /admin/services - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.CreateService(r.Context(), &req)
	if err != nil {
		h.respondServiceError(w, "POST /admin/services", err)
		return
	}

	h.logger.Info("POST /admin/services - Service created: id=%s, name=%s", result.ID, result.Name)
	handlers.RespondJSON(w, http.StatusCreated, result)
}

// UpdateService PATCH /api/v1/admin/services/{id}
func (h *Handler) UpdateService(w http.ResponseWriter, r *http.Request) {
	id, err := handlers.PathUUID(r, "id")
	if err != nil {
		h.logger.Warn("PATCH /admin/services/{id} - Invalid ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidID)
		return
	}

	var req models.UpdateServiceRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /admin/services/{id} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.UpdateService(r.Context(), id, &req)
	if err != nil {
		h.respondServiceError(w, "PATCH /admin/services/{id}", err)
		return
	}

	h.logger.Info("PATCH /admin/services/{id} - Service updated: id=%s", id)
	handlers.RespondJSON(w, http.StatusOK, result)
}

// DeactivateService DELETE /api/v1/admin/services/{id}
// Услуга не удаляется, а становится неактивной: на нее ссылаются прошлые записи
func (h *Handler) DeactivateService(w http.ResponseWriter, r *http.Request) {
	id, err := handlers.PathUUID(r, "id")
	if err != nil {
		h.logger.Warn("DELETE /admin/services/{id} - Invalid ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidID)
		return
	}

	if err := h.service.DeactivateService(r.Context(), id); err != nil {
		h.respondServiceError(w, "DELETE /admin/services/{id}", err)
		return
	}

	h.logger.Info("DELETE /admin/services/{id} - Service deactivated: id=%s", id)
	handlers.RespondNoContent(w)
}

// ListMyPets GET /api/v1/pets
func (h *Handler) ListMyPets(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	result, err := h.service.ListMyPets(r.Context(), principal.UserID)
	if err != nil {
		h.respondServiceError(w, "GET /pets", err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, result)
}

// SearchPets GET /api/v1/admin/pets
// Query params: q (optional, поиск по имени), limit (optional)
func (h *Handler) SearchPets(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))

	limit := 0
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed < 0 {
			h.logger.Warn("GET /admin/pets - Invalid limit: %s", limitStr)
			handlers.RespondBadRequest(w, msgInvalidLimit)
			return
		}
		limit = parsed
	}

	result, err := h.service.SearchPets(r.Context(), query, limit)
	if err != nil {
		h.respondServiceError(w, "GET /admin/pets", err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, result)
}

// GetPet GET /api/v1/pets/{id}
func (h *Handler) GetPet(w http.ResponseWriter, r *http.Request) {
	principal, id, ok := h.petRequest(w, r, "GET /pets/{id}")
	if !ok {
		return
	}

	result, err := h.service.GetPet(r.Context(), id, principal.UserID, principal.IsAdmin())
	if err != nil {
		h.respondServiceError(w, "GET /pets/{id}", err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, result)
}

// CreatePet POST /api/v1/pets
func (h *Handler) CreatePet(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	var req models.CreatePetRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /pets - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.CreatePet(r.Context(), principal.UserID, &req)
	if err != nil {
		h.respondServiceError(w, "POST /pets", err)
		return
	}

	h.logger.Info("POST /pets - Pet created: id=%s, owner=%s", result.ID, principal.UserID)
	handlers.RespondJSON(w, http.StatusCreated, result)
}

// UpdatePet PATCH /api/v1/pets/{id}
func (h *Handler) UpdatePet(w http.ResponseWriter, r *http.Request) {
	principal, id, ok := h.petRequest(w, r, "PATCH /pets/{id}")
	if !ok {
		return
	}

	var req models.UpdatePetRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /pets/{id} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.UpdatePet(r.Context(), id, principal.UserID, principal.IsAdmin(), &req)
	if err != nil {
		h.respondServiceError(w, "PATCH /pets/{id}", err)
		return
	}

	h.logger.Info("PATCH /pets/{id} - Pet updated: id=%s", id)
	handlers.RespondJSON(w, http.StatusOK, result)
}

// DeletePet DELETE /api/v1/pets/{id}
func (h *Handler) DeletePet(w http.ResponseWriter, r *http.Request) {
	principal, id, ok := h.petRequest(w, r, "DELETE /pets/{id}")
	if !ok {
		return
	}

	if err := h.service.DeletePet(r.Context(), id, principal.UserID, principal.IsAdmin()); err != nil {
		h.respondServiceError(w, "DELETE /pets/{id}", err)
		return
	}

	h.logger.Info("DELETE /pets/{id} - Pet deleted: id=%s", id)
	handlers.RespondNoContent(w)
}

// UploadPetPhoto POST /api/v1/pets/{id}/photo
// Принимает multipart/form-data (поле photo) или файл в теле запроса
func (h *Handler) UploadPetPhoto(w http.ResponseWriter, r *http.Request) {
	principal, id, ok := h.petRequest(w, r, "POST /pets/{id}/photo")
	if !ok {
		return
	}

	req, err := readPhoto(w, r, h.maxUploadBytes)
	if err != nil {
		if errors.Is(err, errPhotoTooLarge) {
			h.logger.Warn("POST /pets/{id}/photo - Photo too large: pet_id=%s", id)
			handlers.RespondError(w, http.StatusRequestEntityTooLarge, msgPhotoTooLarge)
			return
		}
		h.logger.Warn("POST /pets/{id}/photo - Failed to read photo: %v", err)
		handlers.RespondBadRequest(w, msgInvalidPhoto)
		return
	}

	result, err := h.service.UploadPetPhoto(r.Context(), id, principal.UserID, principal.IsAdmin(), req)
	if err != nil {
		h.respondServiceError(w, "POST /pets/{id}/photo", err)
		return
	}

	h.logger.Info("POST /pets/{id}/photo - Photo uploaded: pet_id=%s, size=%d", id, len(req.Content))
	handlers.RespondJSON(w, http.StatusOK, result)
}

func (h *Handler) petRequest(w http.ResponseWriter, r *http.Request, route string) (middleware.Principal, uuid.UUID, bool) {
	principal, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return principal, uuid.Nil, false
	}

	id, err := handlers.PathUUID(r, "id")
	if err != nil {
		h.logger.Warn("%s - Invalid pet ID: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidID)
		return principal, uuid.Nil, false
	}

	return principal, id, true
}

func (h *Handler) respondServiceError(w http.ResponseWriter, route string, err error) {
	switch {
	case errors.Is(err, catalog.ErrServiceNotFound):
		h.logger.Warn("%s - Service not found: %v", route, err)
		handlers.RespondNotFound(w, msgServiceNotFound)

	case errors.Is(err, catalog.ErrPetNotFound):
		h.logger.Warn("%s - Pet not found: %v", route, err)
		handlers.RespondNotFound(w, msgPetNotFound)

	case errors.Is(err, catalog.ErrAccessDenied):
		h.logger.Warn("%s - Access denied: %v", route, err)
		handlers.RespondForbidden(w, msgAccessDenied)

	case errors.Is(err, catalog.ErrPetInUse):
		h.logger.Warn("%s - Pet in use: %v", route, err)
		handlers.RespondConflict(w, msgPetInUse)

	case errors.Is(err, catalog.ErrPhotoStorageDisabled):
		h.logger.Warn("%s - Photo storage disabled", route)
		handlers.RespondError(w, http.StatusServiceUnavailable, msgPhotoDisabled)

	case errors.Is(err, catalog.ErrUnsupportedMedia):
		h.logger.Warn("%s - Unsupported media: %v", route, err)
		handlers.RespondError(w, http.StatusUnsupportedMediaType, msgUnsupportedMedia)

	case errors.Is(err, catalog.ErrPhotoTooLarge):
		h.logger.Warn("%s - Photo too large: %v", route, err)
		handlers.RespondError(w, http.StatusRequestEntityTooLarge, msgPhotoTooLarge)

	case errors.Is(err, catalog.ErrInvalidInput):
		h.logger.Warn("%s - Invalid input: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidInput)

	default:
		h.logger.Error("%s - Internal error: %v", route, err)
		handlers.RespondInternalError(w)
	}
}
