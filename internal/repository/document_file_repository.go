package repository

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"tallykeeper/internal/domain"
)

const documentFileMode = 0o644

// FileDocumentRepository хранит документ в одном JSON-файле
type FileDocumentRepository struct {
	fs   afero.Fs
	path string
}

// NewFileDocumentRepository открывает хранилище по пути path.
// Если файла еще нет, он создается с документом по умолчанию.
func NewFileDocumentRepository(ctx context.Context, fs afero.Fs, path string) (*FileDocumentRepository, error) {
	if path == "" {
		return nil, fmt.Errorf("document path is required")
	}

	r := &FileDocumentRepository{fs: fs, path: path}

	if err := fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("%w: create data directory: %v", domain.ErrStorageFailure, err)
	}

	exists, err := afero.Exists(fs, path)
	if err != nil {
		return nil, fmt.Errorf("%w: stat %s: %v", domain.ErrStorageFailure, path, err)
	}
	if !exists {
		if err := r.Save(ctx, domain.NewDocument()); err != nil {
			return nil, err
		}
	}

	return r, nil
}

func (r *FileDocumentRepository) Path() string {
	return r.path
}

func (r *FileDocumentRepository) Load(ctx context.Context) (*domain.Document, error) {
	data, err := afero.ReadFile(r.fs, r.path)
	if err != nil {
		// Файл могли удалить вручную после открытия
		if errors.Is(err, os.ErrNotExist) {
			return domain.NewDocument(), nil
		}
		return nil, fmt.Errorf("%w: read %s: %v", domain.ErrStorageFailure, r.path, err)
	}

	return decodeAndUpgrade(ctx, r, data)
}

// Save записывает документ во временный файл рядом с целевым и переименовывает его,
// поэтому читатель видит либо старую, либо новую версию целиком
func (r *FileDocumentRepository) Save(ctx context.Context, doc *domain.Document) error {
	data, err := doc.Encode()
	if err != nil {
		return err
	}

	tmp, err := afero.TempFile(r.fs, filepath.Dir(r.path), filepath.Base(r.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: create temp file: %v", domain.ErrStorageFailure, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		r.fs.Remove(tmpName)
		return fmt.Errorf("%w: write temp file: %v", domain.ErrStorageFailure, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		r.fs.Remove(tmpName)
		return fmt.Errorf("%w: sync temp file: %v", domain.ErrStorageFailure, err)
	}
	if err := tmp.Close(); err != nil {
		r.fs.Remove(tmpName)
		return fmt.Errorf("%w: close temp file: %v", domain.ErrStorageFailure, err)
	}

	if err := r.fs.Chmod(tmpName, documentFileMode); err != nil {
		r.fs.Remove(tmpName)
		return fmt.Errorf("%w: chmod temp file: %v", domain.ErrStorageFailure, err)
	}

	if err := r.fs.Rename(tmpName, r.path); err != nil {
		r.fs.Remove(tmpName)
		return fmt.Errorf("%w: replace %s: %v", domain.ErrStorageFailure, r.path, err)
	}

	return nil
}
