package estimator

// EstimateRequest запрос к внешнему сервису оценки длительности
type EstimateRequest struct {
	Species       string         `json:"species"`
	Breed         string         `json:"breed,omitempty"`
	Size          string         `json:"size"`
	CoatCondition string         `json:"coat_condition"`
	Services      []ServiceInput `json:"services"`
}

// ServiceInput услуга в запросе оценки
type ServiceInput struct {
	ID              string `json:"service_id"`
	Name            string `json:"name"`
	DurationMinutes int    `json:"duration_minutes"`
}

// ServiceEstimate оценка одной услуги
type ServiceEstimate struct {
	ServiceID   string `json:"service_id"`
	ServiceName string `json:"service_name"`
	TimeMinutes int    `json:"time_minutes"`
}

// EstimateResponse ответ внешнего сервиса
type EstimateResponse struct {
	Estimations      []ServiceEstimate `json:"estimations"`
	EstimatedMinutes int               `json:"total_time_minutes"`
	Notes            string            `json:"notes,omitempty"`
}

// ErrorResponse модель ошибки от сервиса оценки
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
