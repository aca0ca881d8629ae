// Package embedindex owns the embedding side of retrieval: producing vectors
// for text, comparing them, and pinning the vector dimension for the lifetime
// of the index.
package embedindex

import (
	"context"
	"strings"
	"sync"

	"github.com/pkg/errors"
)

// ErrEmbeddingUnavailable is returned when no vector can be produced: empty
// input, no configured backend, or a backend failure. Callers degrade to
// lexical-only retrieval.
var ErrEmbeddingUnavailable = errors.New("embedding unavailable")

// Embedder produces a vector for a text string. *ai.Provider satisfies this.
type Embedder interface {
	Embedding(ctx context.Context, text string) ([]float32, error)
}

// Index produces and compares embedding vectors for one model. The dimension
// is pinned on the first successful embed; a backend returning a different
// dimension afterwards is an error rather than a silent mixed comparison.
type Index struct {
	embedder Embedder
	model    string

	mu        sync.Mutex
	dimension int
}

// NewIndex creates an embedding index for the given model.
func NewIndex(embedder Embedder, model string) *Index {
	return &Index{
		embedder: embedder,
		model:    model,
	}
}

// Model returns the model identifier vectors are keyed by.
func (i *Index) Model() string {
	return i.model
}

// Dimension returns the pinned vector dimension, or 0 before the first embed.
func (i *Index) Dimension() int {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.dimension
}

// Embed produces a fixed-length vector for the given text.
func (i *Index) Embed(ctx context.Context, text string) ([]float32, error) {
	if i == nil || i.embedder == nil {
		return nil, errors.Wrap(ErrEmbeddingUnavailable, "no embedding backend configured")
	}
	if strings.TrimSpace(text) == "" {
		return nil, errors.Wrap(ErrEmbeddingUnavailable, "empty text")
	}

	vector, err := i.embedder.Embedding(ctx, text)
	if err != nil {
		return nil, errors.Wrapf(ErrEmbeddingUnavailable, "backend error: %v", err)
	}
	if len(vector) == 0 {
		return nil, errors.Wrap(ErrEmbeddingUnavailable, "backend returned empty vector")
	}

	i.mu.Lock()
	defer i.mu.Unlock()
	if i.dimension == 0 {
		i.dimension = len(vector)
	} else if i.dimension != len(vector) {
		return nil, errors.Errorf("embedding dimension changed: have %d, got %d", i.dimension, len(vector))
	}

	return vector, nil
}
