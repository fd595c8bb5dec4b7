package repository

import (
	"context"
	"errors"
	"fmt"
	"path"

	"tallykeeper/internal/domain"
	"tallykeeper/internal/service/s3"
)

const documentObjectName = "document.json"

// S3DocumentRepository хранит документ одним объектом в бакете
type S3DocumentRepository struct {
	storage s3.Storage
	key     string
}

func NewS3DocumentRepository(storage s3.Storage, prefix string) *S3DocumentRepository {
	return &S3DocumentRepository{
		storage: storage,
		key:     path.Join(prefix, documentObjectName),
	}
}

func (r *S3DocumentRepository) Key() string {
	return r.key
}

// Load возвращает документ по умолчанию, пока объекта нет, но не создает его:
// объект появляется при первом Save
func (r *S3DocumentRepository) Load(ctx context.Context) (*domain.Document, error) {
	data, err := r.storage.GetObject(ctx, r.key)
	if err != nil {
		if errors.Is(err, s3.ErrObjectNotFound) {
			return domain.NewDocument(), nil
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrStorageFailure, err)
	}

	return decodeAndUpgrade(ctx, r, data)
}

func (r *S3DocumentRepository) Save(ctx context.Context, doc *domain.Document) error {
	data, err := doc.Encode()
	if err != nil {
		return err
	}

	if err := r.storage.UploadBytes(ctx, r.key, data); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStorageFailure, err)
	}

	return nil
}
