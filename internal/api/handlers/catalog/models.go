package catalog

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/m04kA/SMC-GroomingService/internal/service/catalog/models"
)

// photoFormField имя поля multipart формы с файлом
const photoFormField = "photo"

var errPhotoTooLarge = errors.New("photo exceeds upload limit")

// readPhoto читает фотографию из multipart формы (поле photo) или из тела запроса целиком.
// Чтение ограничено maxBytes
func readPhoto(w http.ResponseWriter, r *http.Request, maxBytes int64) (*models.UploadPhotoRequest, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes+1024)

	var src io.Reader = r.Body
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if strings.HasPrefix(mediaType, "multipart/") {
		file, _, err := r.FormFile(photoFormField)
		if err != nil {
			return nil, mapReadError(err)
		}
		defer file.Close()
		src = file
	}

	content, err := io.ReadAll(io.LimitReader(src, maxBytes+1))
	if err != nil {
		return nil, mapReadError(err)
	}
	if int64(len(content)) > maxBytes {
		return nil, errPhotoTooLarge
	}

	return &models.UploadPhotoRequest{Content: content}, nil
}

func mapReadError(err error) error {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return errPhotoTooLarge
	}
	return err
}
