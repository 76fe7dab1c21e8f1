package retrieve

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/NeilARaman/Echo/internal/domain"
)

type mockEmbedder struct {
	vec []float32
	err error
}

func (m *mockEmbedder) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	if m.err != nil {
		return domain.EmbeddingResult{}, m.err
	}
	return domain.EmbeddingResult{Embedding: m.vec}, nil
}

type mockStore struct {
	hits     []domain.Hit
	n        int
	gotK     int
	searches int
}

func (m *mockStore) Search(_ []float32, k int) ([]domain.Hit, error) {
	m.gotK = k
	m.searches++
	if k > len(m.hits) {
		k = len(m.hits)
	}
	return m.hits[:k], nil
}

func (m *mockStore) Len() int { return m.n }

func hit(score float64, text string) domain.Hit {
	return domain.Hit{Score: score, Text: text, Source: "doc", ChunkIndex: 0}
}

func TestRetrieve_EmptyStore(t *testing.T) {
	svc := New(&mockEmbedder{vec: []float32{1, 0}}, &mockStore{n: 0}, zap.NewNop())

	hits, err := svc.Retrieve(context.Background(), "query", 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hits == nil || len(hits) != 0 {
		t.Errorf("expected empty non-nil slice, got %v", hits)
	}
}

func TestRetrieve_OverfetchCappedAtStoreSize(t *testing.T) {
	store := &mockStore{
		n:    4,
		hits: []domain.Hit{hit(0.9, "a"), hit(0.8, "b"), hit(0.7, "c"), hit(0.6, "d")},
	}
	svc := New(&mockEmbedder{vec: []float32{1, 0}}, store, zap.NewNop())

	hits, err := svc.Retrieve(context.Background(), "query", 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.gotK != 4 {
		t.Errorf("expected search k capped at 4, got %d", store.gotK)
	}
	if len(hits) != 2 {
		t.Errorf("expected 2 hits, got %d", len(hits))
	}
}

func TestRetrieve_DeduplicatesByText(t *testing.T) {
	store := &mockStore{
		n: 6,
		hits: []domain.Hit{
			hit(0.9, "same text"),
			hit(0.8, "  same text  "), // whitespace variants collapse
			hit(0.7, "other"),
			hit(0.6, "same text"),
			hit(0.5, "third"),
			hit(0.4, "fourth"),
		},
	}
	svc := New(&mockEmbedder{vec: []float32{1, 0}}, store, zap.NewNop())

	hits, err := svc.Retrieve(context.Background(), "query", 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"same text", "other", "third"}
	if len(hits) != len(want) {
		t.Fatalf("expected %d hits, got %d", len(want), len(hits))
	}
	for i, w := range want {
		if hits[i].Text != w {
			t.Errorf("hit %d: expected %q, got %q", i, w, hits[i].Text)
		}
	}
}

func TestRetrieve_DedupIdempotent(t *testing.T) {
	store := &mockStore{
		n:    3,
		hits: []domain.Hit{hit(0.9, "a"), hit(0.8, "a"), hit(0.7, "b")},
	}
	svc := New(&mockEmbedder{vec: []float32{1, 0}}, store, zap.NewNop())

	first, err := svc.Retrieve(context.Background(), "q", 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := svc.Retrieve(context.Background(), "q", 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(first) != len(second) {
		t.Fatalf("expected stable result, got %d then %d", len(first), len(second))
	}
	for i := range first {
		if first[i].Text != second[i].Text {
			t.Errorf("hit %d differs across calls: %q vs %q", i, first[i].Text, second[i].Text)
		}
	}
}

func TestRetrieve_EmbedError(t *testing.T) {
	svc := New(&mockEmbedder{err: errors.New("provider down")}, &mockStore{n: 1, hits: []domain.Hit{hit(1, "a")}}, zap.NewNop())

	if _, err := svc.Retrieve(context.Background(), "q", 1); err == nil {
		t.Fatal("expected error")
	}
}

func TestRetrieve_ZeroK(t *testing.T) {
	svc := New(&mockEmbedder{vec: []float32{1}}, &mockStore{n: 3}, zap.NewNop())

	hits, err := svc.Retrieve(context.Background(), "q", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hits != nil {
		t.Errorf("expected nil, got %v", hits)
	}
}
