package domain

import "errors"

var (
	// ErrEmptyDraft signals a missing or empty draft in a review request.
	ErrEmptyDraft = errors.New("draft is empty")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrModelUnavailable signals that every candidate model in the
	// fallback chain failed. Fatal for the call, not for the batch.
	ErrModelUnavailable = errors.New("model unavailable")
	// ErrModelNotFound signals an unrecognized model identifier.
	ErrModelNotFound = errors.New("model not found")
	// ErrDimensionMismatch signals a vector of the wrong dimension.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")
	// ErrDraftNotFound signals a missing or expired draft handoff token.
	ErrDraftNotFound = errors.New("draft not found")
)
