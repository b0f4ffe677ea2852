package agent

import (
	"context"
	"fmt"

	"nba-chat/internal/models"
)

// Embedder turns text into an embedding
type Embedder interface {
	EmbedText(ctx context.Context, text string) ([]float64, error)
}

// ChunkSearcher finds the chunks of an index nearest to an embedding
type ChunkSearcher interface {
	QuerySimilar(ctx context.Context, index string, embedding []float64, limit int) ([]models.TextChunk, error)
}

// KnowledgeRetriever searches knowledge indexes by embedding similarity
type KnowledgeRetriever struct {
	embedder Embedder
	searcher ChunkSearcher
}

// NewKnowledgeRetriever creates a retriever over the given index store
func NewKnowledgeRetriever(embedder Embedder, searcher ChunkSearcher) *KnowledgeRetriever {
	return &KnowledgeRetriever{embedder: embedder, searcher: searcher}
}

// Retrieve returns up to k chunks of index relevant to query
func (r *KnowledgeRetriever) Retrieve(ctx context.Context, index, query string, k int) ([]models.TextChunk, error) {
	queryEmbedding, err := r.embedder.EmbedText(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to create query embedding: %w", err)
	}

	chunks, err := r.searcher.QuerySimilar(ctx, index, queryEmbedding, k)
	if err != nil {
		return nil, fmt.Errorf("failed to search index %s: %w", index, err)
	}
	return chunks, nil
}
