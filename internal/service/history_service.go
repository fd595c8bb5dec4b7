package service

import (
	"context"

	"tallykeeper/internal/domain"
)

// SaveSnapshot сохраняет текущее значение счетчика в историю
func (s *DocumentService) SaveSnapshot(ctx context.Context) (domain.HistoryEntry, error) {
	var entry domain.HistoryEntry

	_, err := s.mutate(ctx, func(doc *domain.Document) error {
		entry = domain.NewHistoryEntry(s.newID(), doc.Counter, s.now())
		doc.AppendHistory(entry)
		return nil
	})
	if err != nil {
		return domain.HistoryEntry{}, err
	}

	s.logger.Debug(ctx, "snapshot saved", "id", entry.ID, "value", entry.Value)
	return entry, nil
}

// ListHistory возвращает активную историю в порядке сохранения
func (s *DocumentService) ListHistory(ctx context.Context) ([]domain.HistoryEntry, error) {
	doc, err := s.read(ctx)
	if err != nil {
		return nil, err
	}
	return doc.History, nil
}

// ListDeleted возвращает стек удаленных записей: последней идет удаленная позже всех
func (s *DocumentService) ListDeleted(ctx context.Context) ([]domain.HistoryEntry, error) {
	doc, err := s.read(ctx)
	if err != nil {
		return nil, err
	}
	return doc.DeletedHistory, nil
}

// DeleteOne переносит запись в корзину. Отсутствующий id не считается ошибкой.
func (s *DocumentService) DeleteOne(ctx context.Context, id string) error {
	found := false

	_, err := s.mutate(ctx, func(doc *domain.Document) error {
		found = doc.SoftDelete(id)
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Debug(ctx, "history entry deleted", "id", id, "found", found)
	return nil
}

// ClearHistory переносит всю историю в корзину, запись можно вернуть через RestoreLast
func (s *DocumentService) ClearHistory(ctx context.Context) error {
	moved := 0

	_, err := s.mutate(ctx, func(doc *domain.Document) error {
		moved = doc.SoftDeleteAll()
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Debug(ctx, "history cleared", "moved", moved)
	return nil
}

// RestoreLast возвращает в историю последнюю удаленную запись.
// Если корзина пуста, возвращает domain.ErrNothingToRestore.
func (s *DocumentService) RestoreLast(ctx context.Context) (domain.HistoryEntry, error) {
	var entry domain.HistoryEntry

	_, err := s.mutate(ctx, func(doc *domain.Document) error {
		var err error
		entry, err = doc.RestoreLast()
		return err
	})
	if err != nil {
		return domain.HistoryEntry{}, err
	}

	s.logger.Debug(ctx, "history entry restored", "id", entry.ID)
	return entry, nil
}
