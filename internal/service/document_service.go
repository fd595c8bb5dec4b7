package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"tallykeeper/internal/domain"
	"tallykeeper/internal/logging"
	"tallykeeper/internal/repository"
)

// DefaultAmount шаг изменения счетчика, если величина не задана
const DefaultAmount int64 = 1

// DocumentService выполняет операции над счетчиком и историей.
//
// Каждая операция заново читает документ из хранилища, изменяет его в памяти
// и сохраняет целиком. Мьютекс удерживается на всю последовательность
// чтение-изменение-запись, поэтому параллельные запросы в одном процессе
// не теряют обновления. Доступ из нескольких процессов не синхронизируется.
//
// Ожидание мьютекса не учитывает ctx: запрос, стоящий в очереди за медленной
// операцией S3 или Postgres, дождется ее завершения даже после таймаута.
// Операции выполняются до конца или завершаются ошибкой хранилища.
type DocumentService struct {
	repo   repository.DocumentRepository
	logger logging.Logger

	mu    sync.Mutex
	now   func() time.Time
	newID func() string
}

// Option настраивает DocumentService
type Option func(*DocumentService)

// WithClock подменяет источник времени для снимков
func WithClock(now func() time.Time) Option {
	return func(s *DocumentService) {
		s.now = now
	}
}

// WithIDGenerator подменяет генератор идентификаторов снимков
func WithIDGenerator(newID func() string) Option {
	return func(s *DocumentService) {
		s.newID = newID
	}
}

func NewDocumentService(repo repository.DocumentRepository, logger logging.Logger, opts ...Option) *DocumentService {
	s := &DocumentService{
		repo:   repo,
		logger: logger,
		now:    time.Now,
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// read загружает свежую копию документа
func (s *DocumentService) read(ctx context.Context) (*domain.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.repo.Load(ctx)
}

// mutate загружает документ, применяет fn и сохраняет результат.
// Если fn вернула ошибку, ничего не сохраняется.
func (s *DocumentService) mutate(ctx context.Context, fn func(doc *domain.Document) error) (*domain.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.repo.Load(ctx)
	if err != nil {
		return nil, err
	}

	if err := fn(doc); err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, doc); err != nil {
		return nil, err
	}

	return doc, nil
}

// Probe проверяет, что документ читается
func (s *DocumentService) Probe(ctx context.Context) error {
	_, err := s.read(ctx)
	return err
}
