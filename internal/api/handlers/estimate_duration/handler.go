package estimate_duration

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-GroomingService/internal/api/handlers"
	"github.com/m04kA/SMC-GroomingService/internal/api/middleware"
	estimateDuration "github.com/m04kA/SMC-GroomingService/internal/usecase/estimate_duration"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidInput       = "некорректные параметры оценки"
	msgServiceNotFound    = "услуга не найдена или неактивна"
	msgPetNotFound        = "питомец не найден"
	msgForbidden          = "питомец принадлежит другому пользователю"
	msgUnauthorized       = "требуется авторизация"
)

type Handler struct {
	useCase EstimateDurationUseCase
	logger  Logger
}

func NewHandler(useCase EstimateDurationUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/appointments/estimate
// Оценка носит рекомендательный характер и не влияет на расчет слотов
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	var req EstimateRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /appointments/estimate - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(principal.UserID, principal.IsAdmin()))
	if err != nil {
		switch {
		case errors.Is(err, estimateDuration.ErrInvalidInput):
			h.logger.Warn("POST /appointments/estimate - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, estimateDuration.ErrServiceNotFound):
			h.logger.Warn("POST /appointments/estimate - Service not found: %v", err)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, estimateDuration.ErrPetNotFound):
			h.logger.Warn("POST /appointments/estimate - Pet not found: user_id=%s", principal.UserID)
			handlers.RespondNotFound(w, msgPetNotFound)

		case errors.Is(err, estimateDuration.ErrForbidden):
			h.logger.Warn("POST /appointments/estimate - Foreign pet: user_id=%s", principal.UserID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("POST /appointments/estimate - Failed to estimate: user_id=%s, error=%v", principal.UserID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /appointments/estimate - Estimated: user_id=%s, total=%d, source=%s",
		principal.UserID, result.TotalMinutes, result.Source)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
