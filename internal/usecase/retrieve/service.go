// Package retrieve embeds a query and returns the most similar stored
// passages, de-duplicated by text content.
package retrieve

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/NeilARaman/Echo/internal/domain"
)

// overfetchFactor widens the raw search so that duplicate passages can be
// collapsed without starving the final top-k.
const overfetchFactor = 3

type Service struct {
	embedder Embedder
	store    Searcher
	log      *zap.Logger
}

func New(embedder Embedder, store Searcher, log *zap.Logger) *Service {
	return &Service{embedder: embedder, store: store, log: log}
}

// Retrieve returns up to k passages ranked by similarity to the query.
// Passages whose trimmed text is identical are collapsed, keeping the
// highest-ranked occurrence. An empty store yields an empty result.
func (s *Service) Retrieve(ctx context.Context, query string, k int) ([]domain.Hit, error) {
	if k <= 0 {
		return nil, nil
	}
	total := s.store.Len()
	if total == 0 {
		return []domain.Hit{}, nil
	}

	res, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	vec := make([]float32, len(res.Embedding))
	copy(vec, res.Embedding)
	domain.Normalize(vec)

	fetch := k * overfetchFactor
	if fetch > total {
		fetch = total
	}
	hits, err := s.store.Search(vec, fetch)
	if err != nil {
		return nil, fmt.Errorf("search store: %w", err)
	}

	seen := make(map[string]struct{}, len(hits))
	out := make([]domain.Hit, 0, k)
	for _, h := range hits {
		key := textHash(h.Text)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, h)
		if len(out) == k {
			break
		}
	}

	s.log.Debug("retrieved passages",
		zap.Int("requested", k),
		zap.Int("fetched", len(hits)),
		zap.Int("returned", len(out)),
	)
	return out, nil
}

func textHash(text string) string {
	sum := sha1.Sum([]byte(strings.TrimSpace(text)))
	return hex.EncodeToString(sum[:])
}
