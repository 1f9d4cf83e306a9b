package catalog

import "errors"

var (
	// ErrServiceNotFound возвращается, когда услуга не найдена
	ErrServiceNotFound = errors.New("service not found")

	// ErrPetNotFound возвращается, когда питомец не найден
	ErrPetNotFound = errors.New("pet not found")

	// ErrAccessDenied возвращается, когда питомец принадлежит другому пользователю
	ErrAccessDenied = errors.New("access denied")

	// ErrPetInUse возвращается при удалении питомца с записями
	ErrPetInUse = errors.New("pet has appointments")

	// ErrPhotoStorageDisabled возвращается, когда хранилище фотографий не настроено
	ErrPhotoStorageDisabled = errors.New("photo storage is not configured")

	// ErrUnsupportedMedia возвращается для файлов, не являющихся JPEG, PNG или WebP
	ErrUnsupportedMedia = errors.New("unsupported photo format")

	// ErrPhotoTooLarge возвращается при превышении размера файла
	ErrPhotoTooLarge = errors.New("photo is too large")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
