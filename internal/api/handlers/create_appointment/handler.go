package create_appointment

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-GroomingService/internal/api/handlers"
	"github.com/m04kA/SMC-GroomingService/internal/api/middleware"
	createAppointment "github.com/m04kA/SMC-GroomingService/internal/usecase/create_appointment"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDate        = "некорректный формат даты записи, ожидается YYYY-MM-DD"
	msgInvalidTime        = "некорректный формат времени начала, ожидается HH:MM"
	msgInlinePetForbidden = "создавать питомца при записи может только администратор"
	msgSlotNotAvailable   = "выбранное время уже недоступно"
	msgServiceNotFound    = "услуга не найдена или неактивна"
	msgPetNotFound        = "питомец не найден"
	msgForbidden          = "нельзя записать чужого питомца"
	msgInvalidBookingDate = "нельзя записаться на прошедшую дату"
	msgInvalidInput       = "некорректные данные записи"
	msgUnauthorized       = "требуется авторизация"
)

type Handler struct {
	useCase CreateAppointmentUseCase
	logger  Logger
}

func NewHandler(useCase CreateAppointmentUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/appointments
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	h.handle(w, r, "POST /appointments", createAppointment.SourceClient)
}

// HandleAdmin POST /api/v1/admin/appointments
// Администратор может записать любого питомца или создать нового в теле запроса
func (h *Handler) HandleAdmin(w http.ResponseWriter, r *http.Request) {
	h.handle(w, r, "POST /admin/appointments", createAppointment.SourceAdmin)
}

func (h *Handler) handle(w http.ResponseWriter, r *http.Request, route string, source createAppointment.Source) {
	principal, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	var req CreateAppointmentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("%s - Invalid request body: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	if source == createAppointment.SourceClient && req.Pet != nil {
		h.logger.Warn("%s - Inline pet from non-admin: user_id=%s", route, principal.UserID)
		handlers.RespondBadRequest(w, msgInlinePetForbidden)
		return
	}

	// Конвертируем HTTP запрос в модель use case (с парсингом даты и времени)
	useCaseReq, err := req.ToUseCaseRequest(principal.UserID, source)
	if err != nil {
		h.logger.Warn("%s - Failed to parse request: %v", route, err)
		var timeErr errInvalidTime
		if errors.As(err, &timeErr) {
			handlers.RespondBadRequest(w, msgInvalidTime)
		} else {
			handlers.RespondBadRequest(w, msgInvalidDate)
		}
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createAppointment.ErrSlotNotAvailable):
			h.logger.Warn("%s - Slot not available: user_id=%s, date=%s, time=%s",
				route, principal.UserID, req.ScheduledDate, req.ScheduledTime)
			handlers.RespondConflict(w, msgSlotNotAvailable)

		case errors.Is(err, createAppointment.ErrServiceNotFound):
			h.logger.Warn("%s - Service not found: user_id=%s", route, principal.UserID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, createAppointment.ErrPetNotFound):
			h.logger.Warn("%s - Pet not found: user_id=%s", route, principal.UserID)
			handlers.RespondNotFound(w, msgPetNotFound)

		case errors.Is(err, createAppointment.ErrForbidden):
			h.logger.Warn("%s - Foreign pet: user_id=%s", route, principal.UserID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, createAppointment.ErrInvalidDate):
			h.logger.Warn("%s - Date in the past: user_id=%s, date=%s", route, principal.UserID, req.ScheduledDate)
			handlers.RespondBadRequest(w, msgInvalidBookingDate)

		case errors.Is(err, createAppointment.ErrInvalidInput):
			h.logger.Warn("%s - Invalid input: user_id=%s, error=%v", route, principal.UserID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("%s - Failed to create appointment: user_id=%s, error=%v", route, principal.UserID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	response := FromUseCaseResponse(result)

	h.logger.Info("%s - Appointment created successfully: appointment_id=%s, user_id=%s",
		route, response.ID, principal.UserID)
	handlers.RespondJSON(w, http.StatusCreated, response)
}
