package estimator

import "errors"

var (
	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("estimator client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("estimator client: invalid response")

	// ErrServiceDegraded возвращается при применении graceful degradation.
	// Вызывающий код должен использовать эвристическую оценку
	ErrServiceDegraded = errors.New("estimator unavailable: graceful degradation applied")
)
