package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/cloo-solutions/vitrine/internal/domain"
	"github.com/rs/zerolog"
)

const metadataTypeProduct = "product"

// Indexer embeds catalog content into the vector store at startup.
type Indexer struct {
	embedding EmbeddingClient
	store     VectorStore
	chunkCfg  ChunkConfig
	logger    zerolog.Logger
}

func NewIndexer(embedding EmbeddingClient, store VectorStore, chunkCfg ChunkConfig, logger zerolog.Logger) *Indexer {
	return &Indexer{
		embedding: embedding,
		store:     store,
		chunkCfg:  chunkCfg,
		logger:    logger.With().Str("component", "indexer").Logger(),
	}
}

// IndexProducts replaces the product collection with one document per product.
func (ix *Indexer) IndexProducts(ctx context.Context, products []domain.Product) error {
	start := time.Now()
	docs := make([]domain.VectorDocument, 0, len(products))
	for _, p := range products {
		text := p.IndexText()
		embedding, err := ix.embedding.GenerateEmbedding(ctx, text)
		if err != nil {
			return fmt.Errorf("failed to embed product %s: %w", p.ID, err)
		}
		docs = append(docs, domain.VectorDocument{
			ID:        p.ID.String(),
			Content:   text,
			Metadata:  map[string]string{"type": metadataTypeProduct, "id": p.ID.String()},
			Embedding: embedding,
		})
	}

	if err := ix.store.Replace(ctx, domain.CollectionProducts, docs); err != nil {
		return fmt.Errorf("failed to store product index: %w", err)
	}

	ix.logger.Info().
		Int("documents", len(docs)).
		Dur("elapsed", time.Since(start)).
		Msg("product index built")
	return nil
}

// IndexPolicies chunks every policy document and replaces the policy collection.
func (ix *Indexer) IndexPolicies(ctx context.Context, docs []domain.PolicyDocument) ([]domain.PolicyChunk, error) {
	start := time.Now()
	var chunks []domain.PolicyChunk
	for _, doc := range docs {
		for i, content := range ChunkText(doc.Text, ix.chunkCfg) {
			chunks = append(chunks, domain.PolicyChunk{
				ID:         doc.Name + "#" + strconv.Itoa(i),
				Source:     doc.Name,
				Type:       domain.PolicyChunkType,
				ChunkIndex: i,
				Content:    content,
			})
		}
	}

	vectors := make([]domain.VectorDocument, 0, len(chunks))
	for _, c := range chunks {
		embedding, err := ix.embedding.GenerateEmbedding(ctx, c.Content)
		if err != nil {
			return nil, fmt.Errorf("failed to embed policy chunk %s: %w", c.ID, err)
		}
		vectors = append(vectors, domain.VectorDocument{
			ID:      c.ID,
			Content: c.Content,
			Metadata: map[string]string{
				"type":        c.Type,
				"source":      c.Source,
				"chunk_index": strconv.Itoa(c.ChunkIndex),
			},
			Embedding: embedding,
		})
	}

	if err := ix.store.Replace(ctx, domain.CollectionPolicies, vectors); err != nil {
		return nil, fmt.Errorf("failed to store policy index: %w", err)
	}

	ix.logger.Info().
		Int("documents", len(docs)).
		Int("chunks", len(chunks)).
		Dur("elapsed", time.Since(start)).
		Msg("policy index built")
	return chunks, nil
}
