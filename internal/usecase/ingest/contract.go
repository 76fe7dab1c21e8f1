package ingest

import (
	"context"

	"github.com/NeilARaman/Echo/internal/domain"
)

// BatchEmbedder vectorizes chunk batches.
type BatchEmbedder interface {
	BatchEmbed(ctx context.Context, texts []string) (domain.BatchEmbeddingResult, error)
}

// Appender is the passage store write surface.
type Appender interface {
	Append(passages []domain.Passage, vecs [][]float32) error
	Reset() error
}
