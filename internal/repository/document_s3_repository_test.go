package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tallykeeper/internal/domain"
	"tallykeeper/internal/service/s3"
)

type fakeObjectStorage struct {
	objects map[string][]byte
	getErr  error
	putErr  error
	puts    int
}

func newFakeObjectStorage() *fakeObjectStorage {
	return &fakeObjectStorage{objects: map[string][]byte{}}
}

func (f *fakeObjectStorage) GetObject(ctx context.Context, key string) ([]byte, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	data, ok := f.objects[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", s3.ErrObjectNotFound, key)
	}
	return data, nil
}

func (f *fakeObjectStorage) UploadBytes(ctx context.Context, key string, data []byte) error {
	if f.putErr != nil {
		return f.putErr
	}
	f.puts++
	f.objects[key] = data
	return nil
}

func TestS3Repository_Key(t *testing.T) {
	assert.Equal(t, "tallykeeper/document.json", NewS3DocumentRepository(newFakeObjectStorage(), "tallykeeper").Key())
	assert.Equal(t, "document.json", NewS3DocumentRepository(newFakeObjectStorage(), "").Key())
}

func TestS3Repository_MissingObjectIsDefault(t *testing.T) {
	storage := newFakeObjectStorage()
	repo := NewS3DocumentRepository(storage, "p")

	doc, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.NewDocument(), doc)
	assert.Zero(t, storage.puts)
}

func TestS3Repository_SaveLoad(t *testing.T) {
	storage := newFakeObjectStorage()
	repo := NewS3DocumentRepository(storage, "p")
	ctx := context.Background()

	doc := domain.NewDocument()
	doc.Counter = 11
	doc.AppendHistory(domain.HistoryEntry{ID: "a", Value: 11, SavedAt: "2024-01-01T00:00:00.000Z"})
	require.NoError(t, repo.Save(ctx, doc))

	loaded, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, doc, loaded)
}

func TestS3Repository_UpgradePersists(t *testing.T) {
	storage := newFakeObjectStorage()
	storage.objects["p/document.json"] = []byte(`{"counter":1,"history":[]}`)
	repo := NewS3DocumentRepository(storage, "p")

	doc, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, doc.DeletedHistory)
	assert.Equal(t, 1, storage.puts)
	assert.Contains(t, string(storage.objects["p/document.json"]), "deletedHistory")
}

func TestS3Repository_Failures(t *testing.T) {
	ctx := context.Background()

	storage := newFakeObjectStorage()
	storage.getErr = errors.New("connection reset")
	_, err := NewS3DocumentRepository(storage, "p").Load(ctx)
	assert.ErrorIs(t, err, domain.ErrStorageFailure)

	storage = newFakeObjectStorage()
	storage.putErr = errors.New("access denied")
	err = NewS3DocumentRepository(storage, "p").Save(ctx, domain.NewDocument())
	assert.ErrorIs(t, err, domain.ErrStorageFailure)
}
