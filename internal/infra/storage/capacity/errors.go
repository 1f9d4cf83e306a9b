package capacity

import "errors"

var (
	// ErrStaffScheduleNotFound возвращается, когда окно расписания персонала не найдено
	ErrStaffScheduleNotFound = errors.New("capacity.repository: staff schedule not found")

	// ErrDefaultCapacityNotFound возвращается, когда глобальная вместимость не настроена
	ErrDefaultCapacityNotFound = errors.New("capacity.repository: default capacity not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("capacity.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("capacity.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("capacity.repository: failed to scan row")
)
