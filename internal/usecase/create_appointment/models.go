package create_appointment

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-GroomingService/internal/domain"
	"github.com/m04kA/SMC-GroomingService/pkg/types"
)

// Source источник записи
type Source string

const (
	SourceClient Source = "client" // клиент записывает своего питомца
	SourceAdmin  Source = "admin"  // администратор записывает любого питомца или создает нового
)

// Request модель запроса на создание записи
type Request struct {
	ActorID    uuid.UUID        // ID пользователя, выполняющего запрос
	Source     Source           // Клиентская или административная запись
	PetID      *uuid.UUID       // Существующий питомец
	NewPet     *NewPet          // Питомец, создаваемый вместе с записью (только администратор)
	ServiceIDs []uuid.UUID      // Услуги в порядке выполнения
	Date       time.Time        // Дата записи (без времени)
	Time       types.TimeString // Время начала (например, "10:00")
	Notes      *string          // Заметки (опционально)
}

// NewPet данные питомца для создания на месте
type NewPet struct {
	OwnerID  *uuid.UUID
	Name     string
	Species  domain.PetSpecies
	Breed    *string
	Size     domain.PetSize
	AgeYears *int
	WeightKg *float64
	Notes    *string
}

// Response модель ответа с созданной записью
type Response struct {
	Appointment *domain.Appointment // Запись с услугами, питомцем и профилем владельца
}
