// Package embedding turns knowledge chunks and chat questions into vectors
// with an Ollama embedding model.
package embedding

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"nba-chat/internal/models"

	"github.com/ollama/ollama/api"
	"github.com/ollama/ollama/envconfig"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultMaxRetries    = 3
	DefaultRetryDelay    = time.Second
	DefaultTimeout       = 30 * time.Second
	DefaultMaxConcurrent = 3
)

// OllamaEmbedder calls the Ollama embeddings endpoint. Failed calls are
// retried MaxRetries times with a linearly growing delay.
type OllamaEmbedder struct {
	Client        *api.Client
	Model         string
	MaxRetries    int
	RetryDelay    time.Duration
	Timeout       time.Duration // per attempt
	MaxConcurrent int           // batch requests in flight
}

// NewOllamaEmbedder creates an embedder for model. An empty host falls back
// to OLLAMA_HOST.
func NewOllamaEmbedder(host string, model string) (*OllamaEmbedder, error) {
	hostURL := envconfig.Host()
	if host != "" {
		u, err := url.Parse(host)
		if err != nil {
			return nil, fmt.Errorf("invalid ollama host %q: %w", host, err)
		}
		hostURL = u
	}

	return &OllamaEmbedder{
		Client:        api.NewClient(hostURL, http.DefaultClient),
		Model:         model,
		MaxRetries:    DefaultMaxRetries,
		RetryDelay:    DefaultRetryDelay,
		Timeout:       DefaultTimeout,
		MaxConcurrent: DefaultMaxConcurrent,
	}, nil
}

// EmbedText returns the embedding of text. It stops retrying as soon as ctx
// is done.
func (e *OllamaEmbedder) EmbedText(ctx context.Context, text string) ([]float64, error) {
	var lastErr error
	for attempt := 0; attempt <= e.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(time.Duration(attempt) * e.RetryDelay):
			}
		}

		vec, err := e.embedOnce(ctx, text)
		if err == nil {
			return vec, nil
		}
		lastErr = err
	}

	return nil, fmt.Errorf("failed to create embedding after %d retries: %w", e.MaxRetries, lastErr)
}

func (e *OllamaEmbedder) embedOnce(ctx context.Context, text string) ([]float64, error) {
	ctx, cancel := context.WithTimeout(ctx, e.Timeout)
	defer cancel()

	resp, err := e.Client.Embeddings(ctx, &api.EmbeddingRequest{
		Model:  e.Model,
		Prompt: text,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create embedding: %w", err)
	}
	if len(resp.Embedding) == 0 {
		return nil, fmt.Errorf("empty embedding returned for model %s", e.Model)
	}
	return resp.Embedding, nil
}

// EmbedBatchWithProgress fills in the Embedding of every chunk, running at
// most MaxConcurrent requests at once. progress, if set, is called after
// each chunk with the number done so far. The first failure cancels the
// rest and is returned.
func (e *OllamaEmbedder) EmbedBatchWithProgress(ctx context.Context, chunks []models.TextChunk,
	progress func(processed, total int)) ([]models.TextChunk, error) {

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, e.MaxConcurrent))

	var mu sync.Mutex
	done := 0

	for i := range chunks {
		g.Go(func() error {
			vec, err := e.EmbedText(gctx, chunks[i].Content)
			if err != nil {
				return fmt.Errorf("failed to embed chunk %d: %w", chunks[i].ID, err)
			}
			chunks[i].Embedding = vec

			mu.Lock()
			defer mu.Unlock()
			done++
			if progress != nil {
				progress(done, len(chunks))
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return chunks, nil
}
