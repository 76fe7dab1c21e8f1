package persona

import (
	"context"

	"github.com/NeilARaman/Echo/internal/usecase/invoke"
)

// TextGenerator produces a completion through the model fallback chain.
type TextGenerator interface {
	Generate(ctx context.Context, system, user string, temperature float32, maxTokens int) (invoke.Result, error)
}
