// Package index implements a flat inner-product vector index persisted as a
// single binary blob. Vectors are expected to be unit-length so that inner
// product equals cosine similarity.
package index

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/NeilARaman/Echo/internal/domain"
)

// File format: magic, version, dimension, count, then count*dimension
// float32 values, all little-endian.
const (
	fileMagic   uint32 = 0x45434849 // "ECHI"
	fileVersion uint32 = 1
)

// Flat is an append-only brute-force index. Add serializes with itself;
// Search snapshots the vector slice and may run concurrently with Add.
type Flat struct {
	mu   sync.RWMutex
	dim  int
	vecs [][]float32
}

// New creates an empty index for vectors of the given dimension.
func New(dim int) *Flat {
	return &Flat{dim: dim}
}

// Load reads an index blob from path. A missing file yields an empty index,
// not an error.
func Load(path string, dim int) (*Flat, error) {
	f, err := os.Open(filepath.Clean(path))
	if errors.Is(err, os.ErrNotExist) {
		return New(dim), nil
	}
	if err != nil {
		return nil, fmt.Errorf("open index: %w", err)
	}
	defer f.Close()

	var header [4]uint32
	if err := binary.Read(f, binary.LittleEndian, &header); err != nil {
		return nil, fmt.Errorf("read index header: %w", err)
	}
	if header[0] != fileMagic || header[1] != fileVersion {
		return nil, fmt.Errorf("unrecognized index file %s", path)
	}
	fileDim := int(header[2])
	count := int(header[3])
	if fileDim != dim {
		return nil, fmt.Errorf("index dimension %d, expected %d: %w",
			fileDim, dim, domain.ErrDimensionMismatch)
	}

	vecs := make([][]float32, 0, count)
	for i := 0; i < count; i++ {
		v := make([]float32, dim)
		if err := binary.Read(f, binary.LittleEndian, v); err != nil {
			if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
				// Truncated tail from an interrupted write: keep what loaded.
				break
			}
			return nil, fmt.Errorf("read vector %d: %w", i, err)
		}
		vecs = append(vecs, v)
	}

	return &Flat{dim: dim, vecs: vecs}, nil
}

// Dimension returns the vector dimension.
func (f *Flat) Dimension() int { return f.dim }

// Len returns the number of stored vectors.
func (f *Flat) Len() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.vecs)
}

// Add appends vectors, assigning them the next sequential positions.
func (f *Flat) Add(vecs [][]float32) error {
	for i, v := range vecs {
		if len(v) != f.dim {
			return fmt.Errorf("vector %d has dimension %d, expected %d: %w",
				i, len(v), f.dim, domain.ErrDimensionMismatch)
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.vecs = append(f.vecs, vecs...)
	return nil
}

// Truncate drops vectors beyond n. Used by the loader to reconcile with the
// metadata store after an interrupted append.
func (f *Flat) Truncate(n int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if n >= 0 && n < len(f.vecs) {
		f.vecs = f.vecs[:n]
	}
}

// Result is one nearest-neighbor match.
type Result struct {
	Position int
	Score    float64
}

// Search returns the k nearest positions by inner product, descending.
// Fewer than k results are returned when the index holds fewer vectors;
// an empty index returns none.
func (f *Flat) Search(query []float32, k int) ([]Result, error) {
	if len(query) != f.dim {
		return nil, fmt.Errorf("query has dimension %d, expected %d: %w",
			len(query), f.dim, domain.ErrDimensionMismatch)
	}
	if k <= 0 {
		return nil, nil
	}

	f.mu.RLock()
	vecs := f.vecs
	f.mu.RUnlock()

	if len(vecs) == 0 {
		return nil, nil
	}

	results := make([]Result, len(vecs))
	for i, v := range vecs {
		var dot float64
		for j := range v {
			dot += float64(v[j]) * float64(query[j])
		}
		results[i] = Result{Position: i, Score: dot}
	}

	sort.SliceStable(results, func(a, b int) bool {
		return results[a].Score > results[b].Score
	})

	if k < len(results) {
		results = results[:k]
	}
	return results, nil
}

// Save writes the index blob atomically (temp file + rename).
func (f *Flat) Save(path string) error {
	f.mu.RLock()
	defer f.mu.RUnlock()

	tmp, err := os.CreateTemp(filepath.Dir(path), ".index-*")
	if err != nil {
		return fmt.Errorf("create temp index: %w", err)
	}
	tmpName := tmp.Name()

	header := [4]uint32{fileMagic, fileVersion, uint32(f.dim), uint32(len(f.vecs))}
	err = binary.Write(tmp, binary.LittleEndian, header)
	for _, v := range f.vecs {
		if err != nil {
			break
		}
		err = binary.Write(tmp, binary.LittleEndian, v)
	}
	if err == nil {
		err = tmp.Sync()
	}
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("write index: %w", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("commit index: %w", err)
	}
	return nil
}
