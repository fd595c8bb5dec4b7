package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tallykeeper/internal/domain"
)

var (
	selectDocumentQuery = regexp.QuoteMeta(`SELECT body FROM counter_documents WHERE id = $1`)
	upsertDocumentQuery = `INSERT INTO counter_documents .* ON CONFLICT \(id\) DO UPDATE`
)

func newPostgresRepoWithMock(t *testing.T) (*PostgresDocumentRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewPostgresDocumentRepository(sqlx.NewDb(db, "postgres")), mock
}

func TestPostgresRepository_LoadExisting(t *testing.T) {
	repo, mock := newPostgresRepoWithMock(t)

	mock.ExpectQuery(selectDocumentQuery).
		WithArgs(documentRowID).
		WillReturnRows(sqlmock.NewRows([]string{"body"}).
			AddRow([]byte(`{"counter":4,"history":[{"id":"a","value":4,"savedAt":"2024-01-01T00:00:00.000Z"}],"deletedHistory":[]}`)))

	doc, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(4), doc.Counter)
	assert.Len(t, doc.History, 1)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_LoadNoRowsIsDefault(t *testing.T) {
	repo, mock := newPostgresRepoWithMock(t)

	mock.ExpectQuery(selectDocumentQuery).
		WithArgs(documentRowID).
		WillReturnError(sql.ErrNoRows)

	doc, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.NewDocument(), doc)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_LoadUpgradesDocument(t *testing.T) {
	repo, mock := newPostgresRepoWithMock(t)

	mock.ExpectQuery(selectDocumentQuery).
		WithArgs(documentRowID).
		WillReturnRows(sqlmock.NewRows([]string{"body"}).AddRow([]byte(`{"counter":2,"history":[]}`)))
	mock.ExpectExec(upsertDocumentQuery).
		WithArgs(documentRowID, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	doc, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), doc.Counter)
	assert.NotNil(t, doc.DeletedHistory)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_LoadError(t *testing.T) {
	repo, mock := newPostgresRepoWithMock(t)

	mock.ExpectQuery(selectDocumentQuery).
		WithArgs(documentRowID).
		WillReturnError(errors.New("connection refused"))

	_, err := repo.Load(context.Background())
	assert.ErrorIs(t, err, domain.ErrStorageFailure)
}

func TestPostgresRepository_Save(t *testing.T) {
	repo, mock := newPostgresRepoWithMock(t)

	doc := domain.NewDocument()
	doc.Counter = 8
	body, err := doc.Encode()
	require.NoError(t, err)

	mock.ExpectExec(upsertDocumentQuery).
		WithArgs(documentRowID, body).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Save(context.Background(), doc))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_SaveError(t *testing.T) {
	repo, mock := newPostgresRepoWithMock(t)

	mock.ExpectExec(upsertDocumentQuery).
		WithArgs(documentRowID, sqlmock.AnyArg()).
		WillReturnError(errors.New("disk full"))

	err := repo.Save(context.Background(), domain.NewDocument())
	assert.ErrorIs(t, err, domain.ErrStorageFailure)
}
