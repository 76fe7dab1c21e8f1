// Package ingest turns source documents into indexed passages: chunk,
// embed, normalize, append. It also knows how to unpack the JSON container
// shapes that arrive from scrapers and how to seed a demo corpus.
package ingest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/NeilARaman/Echo/internal/chunker"
	"github.com/NeilARaman/Echo/internal/domain"
)

// Stats summarizes one ingestion run.
type Stats struct {
	IngestedFiles  int `json:"ingested_files,omitempty"`
	IngestedDocs   int `json:"ingested_docs"`
	IngestedChunks int `json:"ingested_chunks"`
}

type Service struct {
	chunker  *chunker.Chunker
	embedder BatchEmbedder
	store    Appender
	dataDir  string
	log      *zap.Logger
}

func New(ch *chunker.Chunker, embedder BatchEmbedder, store Appender, dataDir string, log *zap.Logger) *Service {
	return &Service{chunker: ch, embedder: embedder, store: store, dataDir: dataDir, log: log}
}

// IngestDocs chunks and embeds each document and appends the resulting
// passages to the store in one batch. Documents that chunk to nothing are
// skipped.
func (s *Service) IngestDocs(ctx context.Context, docs []domain.SourceDoc) (Stats, error) {
	var (
		passages []domain.Passage
		texts    []string
		stats    Stats
	)
	for _, doc := range docs {
		chunks := s.chunker.Split(doc.Text)
		if len(chunks) == 0 {
			continue
		}
		for i, ch := range chunks {
			passages = append(passages, domain.NewPassage(doc.Label, i, ch))
			texts = append(texts, ch)
		}
		stats.IngestedDocs++
		stats.IngestedChunks += len(chunks)
	}
	if len(passages) == 0 {
		return Stats{}, nil
	}

	res, err := s.embedder.BatchEmbed(ctx, texts)
	if err != nil {
		return Stats{}, fmt.Errorf("embed chunks: %w", err)
	}
	if len(res.Embeddings) != len(texts) {
		return Stats{}, fmt.Errorf("embed chunks: got %d vectors for %d chunks", len(res.Embeddings), len(texts))
	}
	vecs := make([][]float32, len(res.Embeddings))
	for i, e := range res.Embeddings {
		v := make([]float32, len(e))
		copy(v, e)
		domain.Normalize(v)
		vecs[i] = v
	}

	if err := s.store.Append(passages, vecs); err != nil {
		return Stats{}, fmt.Errorf("append passages: %w", err)
	}

	s.log.Info("ingested documents",
		zap.Int("docs", stats.IngestedDocs),
		zap.Int("chunks", stats.IngestedChunks),
	)
	return stats, nil
}

// IngestGlob ingests every file matched by pattern. JSON files are unpacked
// as containers; everything else is read as plain text. A pattern that
// matches nothing is reported through Stats, not an error.
func (s *Service) IngestGlob(ctx context.Context, pattern string) (Stats, error) {
	paths, err := filepath.Glob(pattern)
	if err != nil {
		return Stats{}, fmt.Errorf("glob %q: %w", pattern, err)
	}
	if len(paths) == 0 {
		return Stats{}, nil
	}

	var docs []domain.SourceDoc
	for _, p := range paths {
		extracted, err := s.extractFile(p)
		if err != nil {
			s.log.Warn("skipping unreadable file", zap.String("path", p), zap.Error(err))
			continue
		}
		docs = append(docs, extracted...)
	}

	stats, err := s.IngestDocs(ctx, docs)
	if err != nil {
		return Stats{}, err
	}
	stats.IngestedFiles = len(paths)
	return stats, nil
}

func (s *Service) extractFile(path string) ([]domain.SourceDoc, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		docs, err := ExtractSources(raw, filepath.Base(path))
		if err == nil {
			return docs, nil
		}
		// Malformed JSON falls back to raw text ingestion.
	}
	text := string(raw)
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	return []domain.SourceDoc{{Label: path, Text: text}}, nil
}

// Seed writes the demo corpus into the data directory, resets the store,
// and ingests the fresh files.
func (s *Service) Seed(ctx context.Context) (Stats, error) {
	if err := os.MkdirAll(s.dataDir, 0o755); err != nil {
		return Stats{}, fmt.Errorf("create data dir: %w", err)
	}
	for name, content := range seedDocs {
		if err := os.WriteFile(filepath.Join(s.dataDir, name), []byte(content), 0o644); err != nil {
			return Stats{}, fmt.Errorf("write seed file %s: %w", name, err)
		}
	}
	if err := s.store.Reset(); err != nil {
		return Stats{}, fmt.Errorf("reset store: %w", err)
	}
	return s.IngestGlob(ctx, filepath.Join(s.dataDir, "*.*"))
}
