package repository

import (
	"context"

	"tallykeeper/internal/domain"
)

// DocumentRepository хранит документ целиком: каждое чтение возвращает
// весь документ, каждая запись полностью заменяет сохраненное состояние.
//
// Load возвращает документ по умолчанию, если ничего еще не сохранено.
// Все ошибки носителя оборачиваются в domain.ErrStorageFailure.
type DocumentRepository interface {
	Load(ctx context.Context) (*domain.Document, error)
	Save(ctx context.Context, doc *domain.Document) error
}

// decodeAndUpgrade разбирает сохраненные байты и, если документ пришлось
// мигрировать, сразу сохраняет обновленную версию
func decodeAndUpgrade(ctx context.Context, repo DocumentRepository, data []byte) (*domain.Document, error) {
	doc, upgraded, err := domain.DecodeDocument(data)
	if err != nil {
		return nil, err
	}

	if upgraded {
		if err := repo.Save(ctx, doc); err != nil {
			return nil, err
		}
	}

	return doc, nil
}
