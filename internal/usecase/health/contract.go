package health

import "context"

// CachePinger checks the optional KV cache availability.
type CachePinger interface {
	Ping(ctx context.Context) error
}

// EmbeddingChecker checks embedding provider availability.
type EmbeddingChecker interface {
	HealthCheck(ctx context.Context) error
}

// PassageCounter reports the size of the passage store.
type PassageCounter interface {
	Len() int
}
