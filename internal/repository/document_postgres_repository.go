package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"tallykeeper/internal/domain"
)

// documentRowID в таблице всегда одна строка
const documentRowID = 1

// PostgresDocumentRepository хранит документ в одной строке таблицы counter_documents
type PostgresDocumentRepository struct {
	db *sqlx.DB
}

func NewPostgresDocumentRepository(db *sqlx.DB) *PostgresDocumentRepository {
	return &PostgresDocumentRepository{db: db}
}

// Load возвращает документ по умолчанию, пока строки нет, но не вставляет ее:
// строка появляется при первом Save. Файловое хранилище, напротив, пишет
// документ по умолчанию уже при открытии.
func (r *PostgresDocumentRepository) Load(ctx context.Context) (*domain.Document, error) {
	var body []byte

	err := r.db.GetContext(ctx, &body,
		`SELECT body FROM counter_documents WHERE id = $1`,
		documentRowID)
	if err != nil {
		// Строки еще нет: документ по умолчанию
		if errors.Is(err, sql.ErrNoRows) {
			return domain.NewDocument(), nil
		}
		return nil, fmt.Errorf("%w: select document: %v", domain.ErrStorageFailure, err)
	}

	return decodeAndUpgrade(ctx, r, body)
}

func (r *PostgresDocumentRepository) Save(ctx context.Context, doc *domain.Document) error {
	body, err := doc.Encode()
	if err != nil {
		return err
	}

	query := `
        INSERT INTO counter_documents (id, body, updated_at)
        VALUES ($1, $2, CURRENT_TIMESTAMP)
        ON CONFLICT (id) DO UPDATE
        SET body = EXCLUDED.body,
            updated_at = CURRENT_TIMESTAMP`

	if _, err := r.db.ExecContext(ctx, query, documentRowID, body); err != nil {
		return fmt.Errorf("%w: upsert document: %v", domain.ErrStorageFailure, err)
	}

	return nil
}
