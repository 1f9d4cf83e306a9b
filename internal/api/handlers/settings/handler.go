package settings

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-GroomingService/internal/api/handlers"
	"github.com/m04kA/SMC-GroomingService/internal/service/settings"
	"github.com/m04kA/SMC-GroomingService/internal/service/settings/models"
)

const (
	msgInvalidRequestBody    = "некорректное тело запроса"
	msgInvalidDay            = "некорректный день недели, ожидается 0-6"
	msgInvalidID             = "некорректный ID"
	msgInvalidDate           = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidInput          = "некорректные данные"
	msgBlockedTimeNotFound   = "блокировка не найдена"
	msgStaffScheduleNotFound = "окно расписания не найдено"
	msgScheduleOverlap       = "окно пересекается с существующим окном этого дня"
)

type Handler struct {
	service SettingsService
	logger  Logger
}

func NewHandler(service SettingsService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// ListBusinessHours GET /api/v1/business-hours
func (h *Handler) ListBusinessHours(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.ListBusinessHours(r.Context())
	if err != nil {
		h.respondServiceError(w, "GET /business-hours", err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, result)
}

// UpsertBusinessHours PUT /api/v1/admin/business-hours/{day}
func (h *Handler) UpsertBusinessHours(w http.ResponseWriter, r *http.Request) {
	day, err := strconv.Atoi(mux.Vars(r)["day"])
	if err != nil || day < 0 || day > 6 {
		h.logger.Warn("PUT /admin/business-hours/{day} - Invalid day: %s", mux.Vars(r)["day"])
		handlers.RespondBadRequest(w, msgInvalidDay)
		return
	}

	var req models.BusinessHoursRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /admin/business-hours/{day} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.UpsertBusinessHours(r.Context(), day, &req)
	if err != nil {
		h.respondServiceError(w, "PUT /admin/business-hours/{day}", err)
		return
	}

	h.logger.Info("PUT /admin/business-hours/{day} - Business hours saved: day=%d, closed=%t", day, result.IsClosed)
	handlers.RespondJSON(w, http.StatusOK, result)
}

// ListBlockedTimes GET /api/v1/admin/blocked-times
// Query params: from (optional, YYYY-MM-DD, по умолчанию сегодня)
func (h *Handler) ListBlockedTimes(w http.ResponseWriter, r *http.Request) {
	from := time.Now().UTC().Truncate(24 * time.Hour)
	if fromStr := r.URL.Query().Get("from"); fromStr != "" {
		parsed, err := handlers.ParseDate(fromStr)
		if err != nil {
			h.logger.Warn("GET /admin/blocked-times - Invalid from: %v", err)
			handlers.RespondBadRequest(w, msgInvalidDate)
			return
		}
		from = parsed
	}

	result, err := h.service.ListBlockedTimes(r.Context(), from)
	if err != nil {
		h.respondServiceError(w, "GET /admin/blocked-times", err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, result)
}

// CreateBlockedTime POST /api/v1/admin/blocked-times
func (h *Handler) CreateBlockedTime(w http.ResponseWriter, r *http.Request) {
	var req BlockedTimeRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /admin/blocked-times - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	serviceReq, err := req.ToServiceRequest()
	if err != nil {
		h.logger.Warn("POST /admin/blocked-times - Invalid date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.service.CreateBlockedTime(r.Context(), serviceReq)
	if err != nil {
		h.respondServiceError(w, "POST /admin/blocked-times", err)
		return
	}

	h.logger.Info("POST /admin/blocked-times - Blocked time created: id=%s, date=%s", result.ID, result.Date)
	handlers.RespondJSON(w, http.StatusCreated, result)
}

// UpdateBlockedTime PATCH /api/v1/admin/blocked-times/{id}
func (h *Handler) UpdateBlockedTime(w http.ResponseWriter, r *http.Request) {
	id, err := handlers.PathUUID(r, "id")
	if err != nil {
		h.logger.Warn("PATCH /admin/blocked-times/{id} - Invalid ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidID)
		return
	}

	var req UpdateBlockedTimeRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /admin/blocked-times/{id} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	serviceReq, err := req.ToServiceRequest()
	if err != nil {
		h.logger.Warn("PATCH /admin/blocked-times/{id} - Invalid date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.service.UpdateBlockedTime(r.Context(), id, serviceReq)
	if err != nil {
		h.respondServiceError(w, "PATCH /admin/blocked-times/{id}", err)
		return
	}

	h.logger.Info("PATCH /admin/blocked-times/{id} - Blocked time updated: id=%s", id)
	handlers.RespondJSON(w, http.StatusOK, result)
}

// DeleteBlockedTime DELETE /api/v1/admin/blocked-times/{id}
func (h *Handler) DeleteBlockedTime(w http.ResponseWriter, r *http.Request) {
	id, err := handlers.PathUUID(r, "id")
	if err != nil {
		h.logger.Warn("DELETE /admin/blocked-times/{id} - Invalid ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidID)
		return
	}

	if err := h.service.DeleteBlockedTime(r.Context(), id); err != nil {
		h.respondServiceError(w, "DELETE /admin/blocked-times/{id}", err)
		return
	}

	h.logger.Info("DELETE /admin/blocked-times/{id} - Blocked time deleted: id=%s", id)
	handlers.RespondNoContent(w)
}

// ListStaffSchedules GET /api/v1/staff-schedules
// Query params: day_of_week (optional, 0-6)
func (h *Handler) ListStaffSchedules(w http.ResponseWriter, r *http.Request) {
	var dayOfWeek *int
	if dayStr := r.URL.Query().Get("day_of_week"); dayStr != "" {
		day, err := strconv.Atoi(dayStr)
		if err != nil || day < 0 || day > 6 {
			h.logger.Warn("GET /staff-schedules - Invalid day_of_week: %s", dayStr)
			handlers.RespondBadRequest(w, msgInvalidDay)
			return
		}
		dayOfWeek = &day
	}

	result, err := h.service.ListStaffSchedules(r.Context(), dayOfWeek)
	if err != nil {
		h.respondServiceError(w, "GET /staff-schedules", err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, result)
}

// CreateStaffSchedule POST /api/v1/admin/staff-schedules
func (h *Handler) CreateStaffSchedule(w http.ResponseWriter, r *http.Request) {
	var req models.StaffScheduleRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /admin/staff-schedules - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.CreateStaffSchedule(r.Context(), &req)
	if err != nil {
		h.respondServiceError(w, "POST /admin/staff-schedules", err)
		return
	}

	h.logger.Info("POST /admin/staff-schedules - Window created: id=%s, day=%d, %s-%s",
		result.ID, result.DayOfWeek, result.StartTime, result.EndTime)
	handlers.RespondJSON(w, http.StatusCreated, result)
}

// UpdateStaffSchedule PATCH /api/v1/admin/staff-schedules/{id}
func (h *Handler) UpdateStaffSchedule(w http.ResponseWriter, r *http.Request) {
	id, err := handlers.PathUUID(r, "id")
	if err != nil {
		h.logger.Warn("PATCH /admin/staff-schedules/{id} - Invalid ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidID)
		return
	}

	var req models.UpdateStaffScheduleRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /admin/staff-schedules/{id} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.UpdateStaffSchedule(r.Context(), id, &req)
	if err != nil {
		h.respondServiceError(w, "PATCH /admin/staff-schedules/{id}", err)
		return
	}

	h.logger.Info("PATCH /admin/staff-schedules/{id} - Window updated: id=%s", id)
	handlers.RespondJSON(w, http.StatusOK, result)
}

// DeleteStaffSchedule DELETE /api/v1/admin/staff-schedules/{id}
func (h *Handler) DeleteStaffSchedule(w http.ResponseWriter, r *http.Request) {
	id, err := handlers.PathUUID(r, "id")
	if err != nil {
		h.logger.Warn("DELETE /admin/staff-schedules/{id} - Invalid ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidID)
		return
	}

	if err := h.service.DeleteStaffSchedule(r.Context(), id); err != nil {
		h.respondServiceError(w, "DELETE /admin/staff-schedules/{id}", err)
		return
	}

	h.logger.Info("DELETE /admin/staff-schedules/{id} - Window deleted: id=%s", id)
	handlers.RespondNoContent(w)
}

// GetDefaultCapacity GET /api/v1/default-capacity
func (h *Handler) GetDefaultCapacity(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.GetDefaultCapacity(r.Context())
	if err != nil {
		h.respondServiceError(w, "GET /default-capacity", err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, result)
}

// SetDefaultCapacity PUT /api/v1/admin/default-capacity
func (h *Handler) SetDefaultCapacity(w http.ResponseWriter, r *http.Request) {
	var req models.DefaultCapacityRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /admin/default-capacity - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.SetDefaultCapacity(r.Context(), &req)
	if err != nil {
		h.respondServiceError(w, "PUT /admin/default-capacity", err)
		return
	}

	h.logger.Info("PUT /admin/default-capacity - Default capacity set: %d", result.AppointmentsPerHour)
	handlers.RespondJSON(w, http.StatusOK, result)
}

func (h *Handler) respondServiceError(w http.ResponseWriter, route string, err error) {
	switch {
	case errors.Is(err, settings.ErrBlockedTimeNotFound):
		h.logger.Warn("%s - Blocked time not found: %v", route, err)
		handlers.RespondNotFound(w, msgBlockedTimeNotFound)

	case errors.Is(err, settings.ErrStaffScheduleNotFound):
		h.logger.Warn("%s - Staff schedule not found: %v", route, err)
		handlers.RespondNotFound(w, msgStaffScheduleNotFound)

	case errors.Is(err, settings.ErrScheduleOverlap):
		h.logger.Warn("%s - Overlap: %v", route, err)
		handlers.RespondConflict(w, msgScheduleOverlap)

	case errors.Is(err, settings.ErrInvalidInput):
		h.logger.Warn("%s - Invalid input: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidInput)

	default:
		h.logger.Error("%s - Internal error: %v", route, err)
		handlers.RespondInternalError(w)
	}
}
