package estimate_duration

import "errors"

var (
	// ErrServiceNotFound возвращается, когда услуга не найдена или неактивна
	ErrServiceNotFound = errors.New("estimate_duration: service not found")

	// ErrPetNotFound возвращается, когда питомец не найден
	ErrPetNotFound = errors.New("estimate_duration: pet not found")

	// ErrForbidden возвращается, когда питомец принадлежит другому пользователю
	ErrForbidden = errors.New("estimate_duration: access denied")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("estimate_duration: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("estimate_duration: internal error")
)
