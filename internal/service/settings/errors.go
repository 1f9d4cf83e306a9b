package settings

import "errors"

var (
	// ErrBlockedTimeNotFound возвращается, когда блокировка не найдена
	ErrBlockedTimeNotFound = errors.New("blocked time not found")

	// ErrStaffScheduleNotFound возвращается, когда окно расписания не найдено
	ErrStaffScheduleNotFound = errors.New("staff schedule not found")

	// ErrScheduleOverlap возвращается при пересечении окон одного дня недели
	ErrScheduleOverlap = errors.New("staff schedule overlaps an existing window")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
