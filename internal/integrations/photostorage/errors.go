package photostorage

import "errors"

var (
	// ErrDisabled возвращается, когда хранилище не настроено
	ErrDisabled = errors.New("photostorage: storage is disabled")

	// ErrUpload возвращается при ошибке загрузки объекта
	ErrUpload = errors.New("photostorage: failed to upload object")
)
