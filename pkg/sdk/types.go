package echo

import (
	"github.com/NeilARaman/Echo/internal/domain"
	"github.com/NeilARaman/Echo/internal/usecase/evaluate"
	"github.com/NeilARaman/Echo/internal/usecase/ingest"
)

// Public aliases for the domain and use case types the client surfaces.
// The internal packages stay unimportable; these are the supported names.
type (
	// Hit is one retrieved passage with its similarity score.
	Hit = domain.Hit

	// EvaluatorSpec describes one editorial persona.
	EvaluatorSpec = domain.EvaluatorSpec

	// Stats reports what an ingest pass read and indexed.
	Stats = ingest.Stats

	// Request configures one draft review. Zero fields fall back to the
	// client defaults.
	Request = evaluate.Request

	// Analysis is the full review: per-persona results, consensus rollups,
	// and the retrieval trace.
	Analysis = evaluate.Analysis
)
