package echo

import "github.com/NeilARaman/Echo/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrEmptyDraft             = domain.ErrEmptyDraft
	ErrEmbeddingProviderError = domain.ErrEmbeddingProviderError
	ErrModelUnavailable       = domain.ErrModelUnavailable
	ErrModelNotFound          = domain.ErrModelNotFound
	ErrDimensionMismatch      = domain.ErrDimensionMismatch
)
