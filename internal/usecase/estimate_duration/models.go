package estimate_duration

import "github.com/google/uuid"

// CoatCondition состояние шерсти
type CoatCondition string

const (
	CoatGood        CoatCondition = "good"
	CoatTangled     CoatCondition = "tangled"
	CoatVeryTangled CoatCondition = "very_tangled"
	CoatMatted      CoatCondition = "matted"
)

// IsValid проверяет допустимость значения
func (c CoatCondition) IsValid() bool {
	switch c {
	case CoatGood, CoatTangled, CoatVeryTangled, CoatMatted:
		return true
	}
	return false
}

// Source источник оценки
type Source string

const (
	SourceEstimator Source = "estimator"
	SourceHeuristic Source = "heuristic"
)

// Request входные данные для оценки длительности.
// Если указан PetID, вид, порода и размер берутся из карточки питомца
type Request struct {
	ActorID       uuid.UUID
	IsAdmin       bool
	PetID         *uuid.UUID
	Species       string
	Breed         string
	Size          string
	CoatCondition CoatCondition
	ServiceIDs    []uuid.UUID
}

// Response результат оценки. Носит рекомендательный характер
type Response struct {
	Estimations  []ServiceEstimate
	TotalMinutes int
	Notes        string
	Source       Source
}

// ServiceEstimate оценка одной услуги
type ServiceEstimate struct {
	ServiceID   uuid.UUID
	ServiceName string
	TimeMinutes int
}
