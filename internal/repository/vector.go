package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/cloo-solutions/vitrine/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
)

// VectorRepository stores collections in the vector_documents table.
type VectorRepository struct {
	pool *pgxpool.Pool
}

func NewVectorRepository(pool *pgxpool.Pool) *VectorRepository {
	return &VectorRepository{pool: pool}
}

// Replace deletes the collection and inserts docs in one transaction.
func (r *VectorRepository) Replace(ctx context.Context, collection string, docs []domain.VectorDocument) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM vector_documents WHERE collection = $1`, collection); err != nil {
		return fmt.Errorf("failed to clear collection %s: %w", collection, err)
	}

	batch := &pgx.Batch{}
	for _, d := range docs {
		metadata := d.Metadata
		if metadata == nil {
			metadata = map[string]string{}
		}
		meta, err := json.Marshal(metadata)
		if err != nil {
			return fmt.Errorf("failed to encode metadata for %s: %w", d.ID, err)
		}
		batch.Queue(
			`INSERT INTO vector_documents (collection, id, content, metadata, embedding)
			 VALUES ($1, $2, $3, $4, $5)`,
			collection, d.ID, d.Content, meta, pgvector.NewVector(d.Embedding),
		)
	}

	if batch.Len() > 0 {
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("failed to insert into %s: %w", collection, err)
		}
	}

	return tx.Commit(ctx)
}

// Search ranks by cosine similarity, 1 - cosine distance.
func (r *VectorRepository) Search(ctx context.Context, collection string, embedding []float32, k int) ([]domain.VectorMatch, error) {
	if k <= 0 {
		return []domain.VectorMatch{}, nil
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id, content, metadata, 1 - (embedding <=> $1) AS score
		FROM vector_documents
		WHERE collection = $2
		ORDER BY embedding <=> $1, created_at, id
		LIMIT $3`,
		pgvector.NewVector(embedding), collection, k,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	matches := make([]domain.VectorMatch, 0, k)
	for rows.Next() {
		var m domain.VectorMatch
		var meta []byte
		if err := rows.Scan(&m.ID, &m.Content, &meta, &m.Score); err != nil {
			return nil, err
		}
		if len(meta) > 0 {
			if err := json.Unmarshal(meta, &m.Metadata); err != nil {
				return nil, fmt.Errorf("failed to decode metadata for %s: %w", m.ID, err)
			}
		}
		matches = append(matches, m)
	}

	return matches, rows.Err()
}

func (r *VectorRepository) Count(ctx context.Context, collection string) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT count(*) FROM vector_documents WHERE collection = $1`, collection).Scan(&n)
	return n, err
}
