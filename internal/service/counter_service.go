package service

import (
	"context"

	"tallykeeper/internal/domain"
)

// GetCounter возвращает текущее значение счетчика
func (s *DocumentService) GetCounter(ctx context.Context) (int64, error) {
	doc, err := s.read(ctx)
	if err != nil {
		return 0, err
	}
	return doc.Counter, nil
}

// Increment увеличивает счетчик на amount
func (s *DocumentService) Increment(ctx context.Context, amount int64) (int64, error) {
	doc, err := s.mutate(ctx, func(doc *domain.Document) error {
		return doc.AddToCounter(amount)
	})
	if err != nil {
		return 0, err
	}

	s.logger.Debug(ctx, "counter incremented", "amount", amount, "value", doc.Counter)
	return doc.Counter, nil
}

// Decrement уменьшает счетчик на amount
func (s *DocumentService) Decrement(ctx context.Context, amount int64) (int64, error) {
	doc, err := s.mutate(ctx, func(doc *domain.Document) error {
		return doc.SubtractFromCounter(amount)
	})
	if err != nil {
		return 0, err
	}

	s.logger.Debug(ctx, "counter decremented", "amount", amount, "value", doc.Counter)
	return doc.Counter, nil
}

// ResetCounter обнуляет только счетчик, история не затрагивается
func (s *DocumentService) ResetCounter(ctx context.Context) (int64, error) {
	doc, err := s.mutate(ctx, func(doc *domain.Document) error {
		doc.Counter = 0
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.logger.Debug(ctx, "counter reset")
	return doc.Counter, nil
}
