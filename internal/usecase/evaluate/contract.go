package evaluate

import (
	"context"

	"github.com/NeilARaman/Echo/internal/domain"
	"github.com/NeilARaman/Echo/internal/usecase/invoke"
)

// Retriever fetches the most relevant stored passages for a query.
type Retriever interface {
	Retrieve(ctx context.Context, query string, k int) ([]domain.Hit, error)
}

// TextGenerator produces a completion through the model fallback chain.
type TextGenerator interface {
	Generate(ctx context.Context, system, user string, temperature float32, maxTokens int) (invoke.Result, error)
}

// PersonaGenerator produces draft-specific audience personas.
type PersonaGenerator interface {
	Generate(ctx context.Context, draft string, hits []domain.Hit, n int) []domain.EvaluatorSpec
}
