package slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-GroomingService/internal/domain"
	scheduleRepo "github.com/m04kA/SMC-GroomingService/internal/infra/storage/schedule"
	"github.com/m04kA/SMC-GroomingService/pkg/types"
)

// Generator вычисляет сетку слотов на дату
type Generator struct {
	schedule     ScheduleRepository
	appointments AppointmentRepository
	services     ServiceRepository
	capacity     CapacityResolver
	location     *time.Location
	timeProvider TimeProvider
	metrics      Metrics
	logger       Logger
}

// NewGenerator создает новый экземпляр генератора слотов.
// location - часовой пояс салона: "сегодня" и минимальное время до записи считаются в нем
func NewGenerator(
	schedule ScheduleRepository,
	appointments AppointmentRepository,
	services ServiceRepository,
	capacity CapacityResolver,
	location *time.Location,
	metrics Metrics,
	logger Logger,
) *Generator {
	if location == nil {
		location = time.UTC
	}
	return &Generator{
		schedule:     schedule,
		appointments: appointments,
		services:     services,
		capacity:     capacity,
		location:     location,
		timeProvider: &RealTimeProvider{},
		metrics:      metrics,
		logger:       logger,
	}
}

// WithTimeProvider подменяет источник времени
func (g *Generator) WithTimeProvider(tp TimeProvider) *Generator {
	g.timeProvider = tp
	return g
}

// Location возвращает часовой пояс салона
func (g *Generator) Location() *time.Location {
	return g.location
}

// Now возвращает текущее время в часовом поясе салона
func (g *Generator) Now() time.Time {
	return g.timeProvider.Now().In(g.location)
}

// ResolveServices проверяет список услуг и возвращает их в порядке запроса.
// Пустой список и дубликаты - ErrInvalidInput, отсутствующая или неактивная услуга - ErrServiceNotFound
func (g *Generator) ResolveServices(ctx context.Context, serviceIDs []uuid.UUID) ([]*domain.Service, error) {
	if len(serviceIDs) == 0 {
		return nil, fmt.Errorf("%w: at least one service is required", ErrInvalidInput)
	}
	if len(serviceIDs) > domain.MaxServicesPerAppointment {
		return nil, fmt.Errorf("%w: too many services (max %d)", ErrInvalidInput, domain.MaxServicesPerAppointment)
	}

	seen := make(map[uuid.UUID]struct{}, len(serviceIDs))
	for _, id := range serviceIDs {
		if id == uuid.Nil {
			return nil, fmt.Errorf("%w: empty service id", ErrInvalidInput)
		}
		if _, ok := seen[id]; ok {
			return nil, fmt.Errorf("%w: duplicate service id %s", ErrInvalidInput, id)
		}
		seen[id] = struct{}{}
	}

	found, err := g.services.GetByIDs(ctx, serviceIDs)
	if err != nil {
		return nil, fmt.Errorf("%w: load services: %w", ErrDependencyUnavailable, err)
	}

	byID := make(map[uuid.UUID]*domain.Service, len(found))
	for _, svc := range found {
		byID[svc.ID] = svc
	}

	result := make([]*domain.Service, 0, len(serviceIDs))
	for _, id := range serviceIDs {
		svc, ok := byID[id]
		if !ok || !svc.IsActive {
			return nil, fmt.Errorf("%w: %s", ErrServiceNotFound, id)
		}
		result = append(result, svc)
	}

	return result, nil
}

// TotalDuration суммирует длительность услуг
func TotalDuration(services []*domain.Service) int {
	total := 0
	for _, svc := range services {
		total += svc.DurationMinutes
	}
	return total
}

// Generate вычисляет слоты на дату для набора услуг.
// Длительность всегда берется из текущих записей услуг, а не от клиента
func (g *Generator) Generate(ctx context.Context, date time.Time, serviceIDs []uuid.UUID) ([]domain.TimeSlot, error) {
	services, err := g.ResolveServices(ctx, serviceIDs)
	if err != nil {
		g.logger.Warn("GenerateSlots: services rejected: %v", err)
		g.incMetric("error")
		return nil, err
	}

	return g.GenerateForDuration(ctx, date, TotalDuration(services), nil)
}

// GenerateForDuration вычисляет слоты для заданной суммарной длительности.
// excludeID исключает запись из подсчета занятости (перенос существующей записи)
func (g *Generator) GenerateForDuration(
	ctx context.Context,
	date time.Time,
	totalDuration int,
	excludeID *uuid.UUID,
) ([]domain.TimeSlot, error) {
	if totalDuration <= 0 {
		g.incMetric("error")
		return nil, fmt.Errorf("%w: total duration must be positive", ErrInvalidInput)
	}

	// 1. Нормализуем дату в часовой пояс салона
	now := g.Now()
	day := g.dayOf(date)
	today := g.dayOf(now)

	if day.Before(today) {
		g.logger.Info("GenerateSlots: date %s is in the past", day.Format(domain.DateFormat))
		g.incMetric("closed")
		return []domain.TimeSlot{}, nil
	}

	dayOfWeek := int(day.Weekday())

	// 2. Рабочие часы дня недели
	hours, err := g.schedule.GetBusinessHours(ctx, dayOfWeek)
	if err != nil && !errors.Is(err, scheduleRepo.ErrBusinessHoursNotFound) {
		g.logger.Error("GenerateSlots: failed to get business hours for day=%d: %v", dayOfWeek, err)
		g.incMetric("error")
		return nil, fmt.Errorf("%w: business hours: %w", ErrDependencyUnavailable, err)
	}
	if !hours.IsOpen() {
		g.logger.Info("GenerateSlots: salon is closed on %s", day.Format(domain.DateFormat))
		g.incMetric("closed")
		return []domain.TimeSlot{}, nil
	}

	// 3. Кандидаты с шагом SlotStepMinutes от открытия
	candidates := g.candidates(hours, day, day.Equal(today), now, totalDuration)
	if len(candidates) == 0 {
		g.incMetric("ok")
		return []domain.TimeSlot{}, nil
	}

	// 4. Блокировки, записи и вместимость дня
	blocks, err := g.schedule.ListBlockedTimes(ctx, day)
	if err != nil {
		g.logger.Error("GenerateSlots: failed to list blocked times for %s: %v", day.Format(domain.DateFormat), err)
		g.incMetric("error")
		return nil, fmt.Errorf("%w: blocked times: %w", ErrDependencyUnavailable, err)
	}

	appointments, err := g.appointments.ListActiveForDay(ctx, day, excludeID)
	if err != nil {
		g.logger.Error("GenerateSlots: failed to list appointments for %s: %v", day.Format(domain.DateFormat), err)
		g.incMetric("error")
		return nil, fmt.Errorf("%w: appointments: %w", ErrDependencyUnavailable, err)
	}

	daySchedule, err := g.capacity.ForDay(ctx, dayOfWeek)
	if err != nil {
		g.logger.Error("GenerateSlots: failed to resolve capacity for day=%d: %v", dayOfWeek, err)
		g.incMetric("error")
		return nil, fmt.Errorf("%w: capacity: %w", ErrDependencyUnavailable, err)
	}

	// 5. Доступность каждого кандидата
	result := make([]domain.TimeSlot, 0, len(candidates))
	for _, cursor := range candidates {
		available := !isBlocked(cursor, blocks) &&
			countOverlapping(cursor, totalDuration, appointments) < daySchedule.At(cursor)

		result = append(result, domain.TimeSlot{Time: cursor, Available: available})
	}

	g.logger.Info("GenerateSlots: %d slots for %s (duration=%d, appointments=%d, blocks=%d)",
		len(result), day.Format(domain.DateFormat), totalDuration, len(appointments), len(blocks))
	g.incMetric("ok")

	return result, nil
}

// candidates перебирает старты от открытия с фиксированным шагом.
// Не помещающиеся до закрытия старты пропускаются по одному, а не обрывают перебор;
// на сегодня отбрасываются старты не позже now + MinBookingLeadMinutes
func (g *Generator) candidates(
	hours *domain.BusinessHours,
	day time.Time,
	isToday bool,
	now time.Time,
	totalDuration int,
) []types.TimeString {
	open := hours.OpenTime.Minutes()
	closing := hours.CloseTime.Minutes()
	leadCutoff := now.Add(domain.MinBookingLeadMinutes * time.Minute)

	result := make([]types.TimeString, 0, (closing-open)/domain.SlotStepMinutes+1)

	for m := open; m < closing; m += domain.SlotStepMinutes {
		if m+totalDuration > closing {
			continue
		}

		cursor, err := types.FromMinutes(m)
		if err != nil {
			continue
		}

		if isToday && !cursor.OnDate(day, g.location).After(leadCutoff) {
			continue
		}

		result = append(result, cursor)
	}

	return result
}

// dayOf возвращает полночь календарного дня t в часовом поясе салона.
// Для даты без времени (полночь UTC из "YYYY-MM-DD") берется ее календарный день
func (g *Generator) dayOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, g.location)
}

func (g *Generator) incMetric(outcome string) {
	if g.metrics != nil {
		g.metrics.IncSlotQuery(outcome)
	}
}

// isBlocked проверяет попадание старта в [start, end) любой блокировки
func isBlocked(cursor types.TimeString, blocks []*domain.BlockedTime) bool {
	for _, b := range blocks {
		if b.Covers(cursor) {
			return true
		}
	}
	return false
}

// countOverlapping считает активные записи, пересекающиеся с [cursor, cursor+duration).
// Граничащие интервалы не пересекаются
func countOverlapping(cursor types.TimeString, duration int, appointments []*domain.Appointment) int {
	count := 0
	for _, appt := range appointments {
		if appt.IsActive() && appt.Overlaps(cursor, duration) {
			count++
		}
	}
	return count
}
