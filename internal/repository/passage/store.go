// Package passage persists Passage metadata in lockstep with the vector
// index: the record at ordinal position i always describes the vector at
// position i.
package passage

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"github.com/NeilARaman/Echo/internal/domain"
	"github.com/NeilARaman/Echo/internal/index"
)

const (
	indexFile = "index.bin"
	metaFile  = "meta.jsonl"
)

// Store couples the vector index with an append-only JSONL metadata file.
//
// Append ordering is store-before-commit: the vector blob is written first,
// the metadata lines after. Open reconciles by trimming vectors beyond the
// metadata length, so a crash between the two writes never leaves a torn
// pairing visible.
type Store struct {
	mu     sync.Mutex
	dir    string
	idx    *index.Flat
	meta   []domain.Passage
	logger *zap.Logger
}

// Open loads the store from dir, creating it when missing. Empty or absent
// files yield an empty store.
func Open(dir string, dim int, logger *zap.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}

	idx, err := index.Load(filepath.Join(dir, indexFile), dim)
	if err != nil {
		return nil, fmt.Errorf("load vector index: %w", err)
	}

	meta, err := loadMeta(filepath.Join(dir, metaFile))
	if err != nil {
		return nil, fmt.Errorf("load metadata: %w", err)
	}

	if idx.Len() > len(meta) {
		logger.Warn("trimming uncommitted vectors",
			zap.Int("vectors", idx.Len()),
			zap.Int("records", len(meta)),
		)
		idx.Truncate(len(meta))
	}
	if len(meta) > idx.Len() {
		// Metadata ahead of vectors should not happen with the current
		// write ordering; keep only the paired prefix.
		logger.Warn("trimming unpaired metadata records",
			zap.Int("vectors", idx.Len()),
			zap.Int("records", len(meta)),
		)
		meta = meta[:idx.Len()]
	}

	return &Store{dir: dir, idx: idx, meta: meta, logger: logger}, nil
}

func loadMeta(path string) ([]domain.Passage, error) {
	f, err := os.Open(filepath.Clean(path))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open metadata: %w", err)
	}
	defer f.Close()

	var rows []domain.Passage
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for sc.Scan() {
		line := sc.Bytes()
		if len(line) == 0 {
			continue
		}
		var p domain.Passage
		if err := json.Unmarshal(line, &p); err != nil {
			return nil, fmt.Errorf("parse metadata line %d: %w", len(rows)+1, err)
		}
		rows = append(rows, p)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scan metadata: %w", err)
	}
	return rows, nil
}

// Append adds passages and their vectors as one transaction. Lengths must
// match; appends serialize with each other but not with searches.
func (s *Store) Append(passages []domain.Passage, vecs [][]float32) error {
	if len(passages) != len(vecs) {
		return fmt.Errorf("passage/vector count mismatch: %d vs %d", len(passages), len(vecs))
	}
	if len(passages) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.idx.Len()
	if err := s.idx.Add(vecs); err != nil {
		return fmt.Errorf("add vectors: %w", err)
	}
	if err := s.idx.Save(filepath.Join(s.dir, indexFile)); err != nil {
		s.idx.Truncate(prev)
		return fmt.Errorf("persist vectors: %w", err)
	}

	if err := s.appendMeta(passages); err != nil {
		// Vectors past the metadata length are invisible to readers and
		// trimmed on the next Open.
		s.idx.Truncate(prev)
		return fmt.Errorf("persist metadata: %w", err)
	}

	s.meta = append(s.meta, passages...)
	return nil
}

func (s *Store) appendMeta(passages []domain.Passage) error {
	f, err := os.OpenFile(filepath.Join(s.dir, metaFile),
		os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("open metadata: %w", err)
	}

	w := bufio.NewWriter(f)
	for _, p := range passages {
		line, err := json.Marshal(p)
		if err == nil {
			_, err = w.Write(append(line, '\n'))
		}
		if err != nil {
			_ = f.Close()
			return fmt.Errorf("write metadata: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		_ = f.Close()
		return fmt.Errorf("flush metadata: %w", err)
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		return fmt.Errorf("sync metadata: %w", err)
	}
	return f.Close()
}

// Search returns the k nearest passages with similarity scores.
func (s *Store) Search(query []float32, k int) ([]domain.Hit, error) {
	results, err := s.idx.Search(query, k)
	if err != nil {
		return nil, fmt.Errorf("index search: %w", err)
	}

	s.mu.Lock()
	meta := s.meta
	s.mu.Unlock()

	hits := make([]domain.Hit, 0, len(results))
	for _, r := range results {
		if r.Position < 0 || r.Position >= len(meta) {
			continue
		}
		p := meta[r.Position]
		hits = append(hits, domain.Hit{
			Score:      r.Score,
			Text:       p.Text,
			Source:     p.Source,
			ChunkIndex: p.ChunkIndex,
		})
	}
	return hits, nil
}

// Len returns the number of stored passages.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.meta)
}

// Reset drops all passages and vectors, removing the on-disk files.
func (s *Store) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, name := range []string{indexFile, metaFile} {
		if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("remove %s: %w", name, err)
		}
	}
	s.idx = index.New(s.idx.Dimension())
	s.meta = nil
	return nil
}
