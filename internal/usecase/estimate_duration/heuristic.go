package estimate_duration

import (
	"math"

	"github.com/m04kA/SMC-GroomingService/internal/domain"
)

// roundTo шаг округления оценки вверх, минут
const roundTo = 5

var sizeFactors = map[domain.PetSize]float64{
	domain.SizeSmall:  0.8,
	domain.SizeMedium: 1.0,
	domain.SizeLarge:  1.4,
}

var coatFactors = map[CoatCondition]float64{
	CoatGood:        1.0,
	CoatTangled:     1.5,
	CoatVeryTangled: 2.0,
	CoatMatted:      2.0,
}

// heuristicEstimate длительность услуги = базовая x размер x шерсть,
// округленная вверх до 5 минут
func heuristicEstimate(baseMinutes int, size domain.PetSize, coat CoatCondition) int {
	sizeFactor, ok := sizeFactors[size]
	if !ok {
		sizeFactor = 1.0
	}
	coatFactor, ok := coatFactors[coat]
	if !ok {
		coatFactor = 1.0
	}

	minutes := int(math.Ceil(float64(baseMinutes) * sizeFactor * coatFactor))
	if rem := minutes % roundTo; rem != 0 {
		minutes += roundTo - rem
	}
	return minutes
}

func heuristicNotes(coat CoatCondition) string {
	switch coat {
	case CoatTangled:
		return "Tangled coat adds about 50% to brushing and bathing time."
	case CoatVeryTangled, CoatMatted:
		return "Heavily tangled or matted coat roughly doubles brushing time."
	}
	return ""
}
