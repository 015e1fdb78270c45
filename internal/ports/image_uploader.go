package ports

import (
	"context"
	"io"
)

// ImageUploader — загрузка изображения товара во внешний хостинг; возвращает публичный URL.
type ImageUploader interface {
	Upload(ctx context.Context, filename, contentType string, body io.Reader) (string, error)
}
