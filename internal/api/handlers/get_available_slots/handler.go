package get_available_slots

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-GroomingService/internal/api/handlers"
	getAvailableSlots "github.com/m04kA/SMC-GroomingService/internal/usecase/get_available_slots"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingDate        = "дата обязательна"
	msgInvalidDate        = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgMissingServices    = "необходимо выбрать хотя бы одну услугу"
	msgInvalidServiceID   = "некорректный ID услуги"
	msgInvalidInput       = "некорректный набор услуг"
	msgServiceNotFound    = "услуга не найдена или неактивна"
)

type Handler struct {
	useCase GetAvailableSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailableSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/slots/available
// Body: {"date": "YYYY-MM-DD", "service_ids": ["..."]}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req AvailableSlotsRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /slots/available - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	h.serve(w, r, "POST", &req)
}

// HandleGet GET /api/v1/slots/available
// Query params: date (required, YYYY-MM-DD), service_ids (required, comma-separated)
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	serviceIDs, err := handlers.ParseUUIDList(query.Get("service_ids"))
	if err != nil {
		h.logger.Warn("GET /slots/available - Invalid service ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidServiceID)
		return
	}

	h.serve(w, r, "GET", &AvailableSlotsRequest{
		Date:       query.Get("date"),
		ServiceIDs: serviceIDs,
	})
}

func (h *Handler) serve(w http.ResponseWriter, r *http.Request, method string, req *AvailableSlotsRequest) {
	if req.Date == "" {
		h.logger.Warn("%s /slots/available - Missing date", method)
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}
	if len(req.ServiceIDs) == 0 {
		h.logger.Warn("%s /slots/available - Missing services", method)
		handlers.RespondBadRequest(w, msgMissingServices)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest()
	if err != nil {
		h.logger.Warn("%s /slots/available - Invalid date format: %v", method, err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, getAvailableSlots.ErrServiceNotFound):
			h.logger.Warn("%s /slots/available - Service not found: %v", method, err)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, getAvailableSlots.ErrInvalidInput):
			h.logger.Warn("%s /slots/available - Invalid input: %v", method, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("%s /slots/available - Failed to get slots: date=%s, error=%v", method, req.Date, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("%s /slots/available - Slots retrieved successfully: date=%s, services=%d, slots_count=%d",
		method, req.Date, len(req.ServiceIDs), len(result.Slots))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
