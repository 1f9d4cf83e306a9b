package domain

import "github.com/m04kA/SMC-GroomingService/pkg/types"

// TimeSlot is a computed candidate start time.
type TimeSlot struct {
	Time      types.TimeString
	Available bool
}

// FindSlot returns the slot starting at clock, if it was generated.
func FindSlot(slots []TimeSlot, clock types.TimeString) (TimeSlot, bool) {
	for _, s := range slots {
		if s.Time.Equal(clock) {
			return s, true
		}
	}
	return TimeSlot{}, false
}
