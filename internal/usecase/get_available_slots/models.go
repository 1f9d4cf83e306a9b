package get_available_slots

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-GroomingService/pkg/types"
)

// Request модель запроса на получение слотов
type Request struct {
	Date       time.Time   // Дата для получения слотов (без времени)
	ServiceIDs []uuid.UUID // Услуги; длительность считается на сервере
}

// Response модель ответа со списком слотов
type Response struct {
	Date  time.Time // Дата, на которую запрашивались слоты
	Slots []Slot    // Слоты по возрастанию времени
}

// Slot модель временного слота
type Slot struct {
	StartTime types.TimeString // Время начала слота (например, "10:00")
	Available bool             // Можно ли записаться на это время
}
