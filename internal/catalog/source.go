// Package catalog reads the read-only order, product and policy documents.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/cloo-solutions/vitrine/internal/domain"
	"github.com/cloo-solutions/vitrine/internal/storage"
)

// Source returns the full content of a named document in a single read, so callers
// always parse a complete snapshot.
type Source interface {
	Read(ctx context.Context, name string) ([]byte, error)
}

// FileSource reads documents from the local filesystem.
type FileSource struct{}

func (FileSource) Read(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(name)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, domain.ErrDocumentNotFound.Wrap(err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	return data, nil
}

// ObjectReader is the subset of the S3 client used for catalog documents.
type ObjectReader interface {
	GetObject(ctx context.Context, key string) ([]byte, error)
}

// S3Source reads documents from an S3-compatible bucket.
type S3Source struct {
	client ObjectReader
}

func NewS3Source(client ObjectReader) *S3Source {
	return &S3Source{client: client}
}

func (s *S3Source) Read(ctx context.Context, name string) ([]byte, error) {
	data, err := s.client.GetObject(ctx, name)
	if errors.Is(err, storage.ErrObjectNotFound) {
		return nil, domain.ErrDocumentNotFound.Wrap(err)
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}
