package capacity

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-GroomingService/internal/domain"
	capacityRepo "github.com/m04kA/SMC-GroomingService/internal/infra/storage/capacity"
	"github.com/m04kA/SMC-GroomingService/pkg/types"
)

// ErrDependencyUnavailable is returned when capacity records cannot be read
var ErrDependencyUnavailable = errors.New("capacity: dependency unavailable")

// Resolver answers how many appointments the salon can run at once.
type Resolver struct {
	repo CapacityRepository
}

// NewResolver creates a resolver over repo.
func NewResolver(repo CapacityRepository) *Resolver {
	return &Resolver{repo: repo}
}

// DaySchedule is a snapshot of capacity rules for one weekday.
type DaySchedule struct {
	DayOfWeek int
	Windows   []*domain.StaffSchedule // in (start_time, id) order
	Default   int
}

// At returns the appointments_per_hour of the first window containing clock,
// or the default capacity. Never less than 1.
func (d *DaySchedule) At(clock types.TimeString) int {
	for _, w := range d.Windows {
		if w.Contains(clock) {
			return atLeastOne(w.AppointmentsPerHour)
		}
	}
	return atLeastOne(d.Default)
}

// ForDay loads the capacity rules for dayOfWeek with one read per table.
func (r *Resolver) ForDay(ctx context.Context, dayOfWeek int) (*DaySchedule, error) {
	windows, err := r.repo.ListStaffSchedules(ctx, &dayOfWeek)
	if err != nil {
		return nil, fmt.Errorf("%w: list staff schedules: %w", ErrDependencyUnavailable, err)
	}

	def := domain.FallbackCapacity
	capacity, err := r.repo.GetDefaultCapacity(ctx)
	switch {
	case err == nil:
		def = capacity.AppointmentsPerHour
	case errors.Is(err, capacityRepo.ErrDefaultCapacityNotFound):
	default:
		return nil, fmt.Errorf("%w: get default capacity: %w", ErrDependencyUnavailable, err)
	}

	return &DaySchedule{
		DayOfWeek: dayOfWeek,
		Windows:   windows,
		Default:   def,
	}, nil
}

// Resolve returns the capacity at clock on dayOfWeek.
func (r *Resolver) Resolve(ctx context.Context, dayOfWeek int, clock types.TimeString) (int, error) {
	day, err := r.ForDay(ctx, dayOfWeek)
	if err != nil {
		return 0, err
	}
	return day.At(clock), nil
}

func atLeastOne(n int) int {
	if n < 1 {
		return domain.FallbackCapacity
	}
	return n
}
