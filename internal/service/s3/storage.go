// storage.go
package s3

import (
	"context"
	"errors"
)

// ErrObjectNotFound объект с таким ключом отсутствует в бакете
var ErrObjectNotFound = errors.New("object not found")

// Storage определяет интерфейс для работы с S3-совместимым хранилищем
type Storage interface {
	GetObject(ctx context.Context, key string) ([]byte, error)
	UploadBytes(ctx context.Context, key string, data []byte) error
}
