package retrieve

import (
	"context"

	"github.com/NeilARaman/Echo/internal/domain"
)

// Embedder produces a vector for a query string.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}

// Searcher exposes similarity search over the passage store.
type Searcher interface {
	Search(query []float32, k int) ([]domain.Hit, error)
	Len() int
}
