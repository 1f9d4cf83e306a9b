package slots

import "errors"

var (
	// ErrInvalidInput возвращается при пустом или некорректном списке услуг
	ErrInvalidInput = errors.New("slots: invalid input")

	// ErrServiceNotFound возвращается, когда услуга не существует или неактивна
	ErrServiceNotFound = errors.New("slots: service not found or inactive")

	// ErrDependencyUnavailable возвращается при ошибке чтения из хранилища.
	// Генератор не подменяет ответ догадкой о доступности
	ErrDependencyUnavailable = errors.New("slots: dependency unavailable")
)
