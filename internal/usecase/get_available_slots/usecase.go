package get_available_slots

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-GroomingService/internal/domain"
	"github.com/m04kA/SMC-GroomingService/internal/service/slots"
)

// UseCase use case для получения слотов для записи
type UseCase struct {
	generator SlotGenerator
	logger    Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(generator SlotGenerator, logger Logger) *UseCase {
	return &UseCase{
		generator: generator,
		logger:    logger,
	}
}

// Execute выполняет use case получения слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	uc.logger.Info("GetAvailableSlots: date=%s, services=%d", req.Date.Format(domain.DateFormat), len(req.ServiceIDs))

	// 2. Генерируем слоты по актуальным длительностям услуг
	generated, err := uc.generator.Generate(ctx, req.Date, req.ServiceIDs)
	if err != nil {
		switch {
		case errors.Is(err, slots.ErrInvalidInput):
			uc.logger.Warn("GetAvailableSlots: invalid services: %v", err)
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		case errors.Is(err, slots.ErrServiceNotFound):
			uc.logger.Warn("GetAvailableSlots: %v", err)
			return nil, fmt.Errorf("%w: %v", ErrServiceNotFound, err)
		default:
			uc.logger.Error("GetAvailableSlots: failed to generate slots: %v", err)
			return nil, fmt.Errorf("%w: failed to generate slots: %v", ErrInternal, err)
		}
	}

	// 3. Формируем ответ
	result := make([]Slot, 0, len(generated))
	for _, s := range generated {
		result = append(result, Slot{StartTime: s.Time, Available: s.Available})
	}

	return &Response{
		Date:  req.Date,
		Slots: result,
	}, nil
}
