package service

import (
	"context"

	"tallykeeper/internal/domain"
)

// ResetAll безвозвратно обнуляет счетчик и очищает оба списка истории.
// В отличие от ClearHistory, записи не попадают в корзину.
func (s *DocumentService) ResetAll(ctx context.Context) error {
	_, err := s.mutate(ctx, func(doc *domain.Document) error {
		doc.Reset()
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info(ctx, "document reset")
	return nil
}
