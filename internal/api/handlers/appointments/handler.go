package appointments

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/m04kA/SMC-GroomingService/internal/api/handlers"
	"github.com/m04kA/SMC-GroomingService/internal/api/middleware"
	"github.com/m04kA/SMC-GroomingService/internal/service/appointments"
	"github.com/m04kA/SMC-GroomingService/internal/service/appointments/models"
)

const (
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgInvalidAppointmentID = "некорректный ID записи"
	msgInvalidLimit         = "некорректный лимит"
	msgInvalidDate          = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidDateTime      = "некорректная дата или время, ожидается YYYY-MM-DD и HH:MM"
	msgMissingRange         = "параметры from и to обязательны"
	msgInvalidInput         = "некорректные параметры запроса"
	msgAppointmentNotFound  = "запись не найдена"
	msgAccessDenied         = "нет доступа к записи"
	msgCannotCancel         = "запись нельзя отменить в текущем статусе"
	msgCannotReschedule     = "завершенную или отмененную запись нельзя перенести"
	msgSlotNotAvailable     = "выбранное время уже недоступно"
	msgUnauthorized         = "требуется авторизация"
)

type Handler struct {
	service AppointmentService
	logger  Logger
}

func NewHandler(service AppointmentService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// ListMine GET /api/v1/appointments
// Query params: status (optional), limit (optional)
func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	req := &models.ListMineRequest{UserID: principal.UserID}
	query := r.URL.Query()
	if status := query.Get("status"); status != "" {
		req.Status = &status
	}
	if limitStr := query.Get("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil || limit < 0 {
			h.logger.Warn("GET /appointments - Invalid limit: %s", limitStr)
			handlers.RespondBadRequest(w, msgInvalidLimit)
			return
		}
		req.Limit = limit
	}

	result, err := h.service.ListMine(r.Context(), req)
	if err != nil {
		h.respondServiceError(w, "GET /appointments", err)
		return
	}

	h.logger.Info("GET /appointments - Appointments retrieved: user_id=%s, count=%d", principal.UserID, len(result.Appointments))
	handlers.RespondJSON(w, http.StatusOK, result)
}

// Get GET /api/v1/appointments/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	id, err := handlers.PathUUID(r, "id")
	if err != nil {
		h.logger.Warn("GET /appointments/{id} - Invalid appointment ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidAppointmentID)
		return
	}

	result, err := h.service.Get(r.Context(), id, principal.UserID, principal.IsAdmin())
	if err != nil {
		h.respondServiceError(w, "GET /appointments/{id}", err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Cancel PATCH /api/v1/appointments/{id}/cancel
func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	id, err := handlers.PathUUID(r, "id")
	if err != nil {
		h.logger.Warn("PATCH /appointments/{id}/cancel - Invalid appointment ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidAppointmentID)
		return
	}

	if err := h.service.Cancel(r.Context(), id, principal.UserID); err != nil {
		h.respondServiceError(w, "PATCH /appointments/{id}/cancel", err)
		return
	}

	h.logger.Info("PATCH /appointments/{id}/cancel - Appointment cancelled: appointment_id=%s, user_id=%s", id, principal.UserID)
	handlers.RespondNoContent(w)
}

// ListByRange GET /api/v1/admin/appointments
// Query params: from, to (required, YYYY-MM-DD), status (optional)
func (h *Handler) ListByRange(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	fromStr, toStr := query.Get("from"), query.Get("to")
	if fromStr == "" || toStr == "" {
		h.logger.Warn("GET /admin/appointments - Missing range")
		handlers.RespondBadRequest(w, msgMissingRange)
		return
	}

	from, err := handlers.ParseDate(fromStr)
	if err != nil {
		h.logger.Warn("GET /admin/appointments - Invalid from: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}
	to, err := handlers.ParseDate(toStr)
	if err != nil {
		h.logger.Warn("GET /admin/appointments - Invalid to: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	req := &models.ListByRangeRequest{From: from, To: to}
	if status := query.Get("status"); status != "" {
		req.Status = &status
	}

	result, err := h.service.ListByRange(r.Context(), req)
	if err != nil {
		h.respondServiceError(w, "GET /admin/appointments", err)
		return
	}

	h.logger.Info("GET /admin/appointments - Calendar retrieved: from=%s, to=%s, count=%d", fromStr, toStr, len(result.Appointments))
	handlers.RespondJSON(w, http.StatusOK, result)
}

// UpdateStatus PATCH /api/v1/admin/appointments/{id}/status
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := handlers.PathUUID(r, "id")
	if err != nil {
		h.logger.Warn("PATCH /admin/appointments/{id}/status - Invalid appointment ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidAppointmentID)
		return
	}

	var req models.UpdateStatusRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /admin/appointments/{id}/status - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	if err := h.service.UpdateStatus(r.Context(), id, &req); err != nil {
		h.respondServiceError(w, "PATCH /admin/appointments/{id}/status", err)
		return
	}

	h.logger.Info("PATCH /admin/appointments/{id}/status - Status updated: appointment_id=%s, status=%s", id, req.Status)
	handlers.RespondNoContent(w)
}

// Reschedule PATCH /api/v1/admin/appointments/{id}/reschedule
func (h *Handler) Reschedule(w http.ResponseWriter, r *http.Request) {
	id, err := handlers.PathUUID(r, "id")
	if err != nil {
		h.logger.Warn("PATCH /admin/appointments/{id}/reschedule - Invalid appointment ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidAppointmentID)
		return
	}

	var req RescheduleRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /admin/appointments/{id}/reschedule - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	serviceReq, err := req.ToServiceRequest()
	if err != nil {
		h.logger.Warn("PATCH /admin/appointments/{id}/reschedule - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDateTime)
		return
	}

	result, err := h.service.Reschedule(r.Context(), id, serviceReq)
	if err != nil {
		h.respondServiceError(w, "PATCH /admin/appointments/{id}/reschedule", err)
		return
	}

	h.logger.Info("PATCH /admin/appointments/{id}/reschedule - Appointment moved: appointment_id=%s, date=%s, time=%s",
		id, result.ScheduledDate, result.ScheduledTime)
	handlers.RespondJSON(w, http.StatusOK, result)
}

// Delete DELETE /api/v1/admin/appointments/{id}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := handlers.PathUUID(r, "id")
	if err != nil {
		h.logger.Warn("DELETE /admin/appointments/{id} - Invalid appointment ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidAppointmentID)
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		h.respondServiceError(w, "DELETE /admin/appointments/{id}", err)
		return
	}

	h.logger.Info("DELETE /admin/appointments/{id} - Appointment deleted: appointment_id=%s", id)
	handlers.RespondNoContent(w)
}

func (h *Handler) respondServiceError(w http.ResponseWriter, route string, err error) {
	switch {
	case errors.Is(err, appointments.ErrAppointmentNotFound):
		h.logger.Warn("%s - Appointment not found: %v", route, err)
		handlers.RespondNotFound(w, msgAppointmentNotFound)

	case errors.Is(err, appointments.ErrAccessDenied):
		h.logger.Warn("%s - Access denied: %v", route, err)
		handlers.RespondForbidden(w, msgAccessDenied)

	case errors.Is(err, appointments.ErrCannotCancel):
		h.logger.Warn("%s - Cannot cancel: %v", route, err)
		handlers.RespondConflict(w, msgCannotCancel)

	case errors.Is(err, appointments.ErrCannotReschedule):
		h.logger.Warn("%s - Cannot reschedule: %v", route, err)
		handlers.RespondConflict(w, msgCannotReschedule)

	case errors.Is(err, appointments.ErrSlotNotAvailable):
		h.logger.Warn("%s - Slot not available: %v", route, err)
		handlers.RespondConflict(w, msgSlotNotAvailable)

	case errors.Is(err, appointments.ErrInvalidInput):
		h.logger.Warn("%s - Invalid input: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidInput)

	default:
		h.logger.Error("%s - Internal error: %v", route, err)
		handlers.RespondInternalError(w)
	}
}
