// Package chunker provides a fixed-size overlapping text chunker.
package chunker

import "strings"

// DefaultSize is the default number of characters per chunk.
const DefaultSize = 900

// DefaultOverlap is the default number of overlapping characters.
const DefaultOverlap = 140

// Chunker splits text into overlapping fixed-size passages. Boundaries are
// character offsets, not word or sentence breaks: a deliberate
// simplicity/determinism trade-off.
type Chunker struct {
	size    int
	overlap int
}

// Option configures the chunker.
type Option func(*Chunker)

// WithSize sets the chunk size in characters.
func WithSize(size int) Option {
	return func(c *Chunker) {
		if size > 0 {
			c.size = size
		}
	}
}

// WithOverlap sets the overlap between consecutive chunks in characters.
func WithOverlap(overlap int) Option {
	return func(c *Chunker) {
		if overlap >= 0 {
			c.overlap = overlap
		}
	}
}

// New creates a chunker with the given options.
func New(opts ...Option) *Chunker {
	c := &Chunker{size: DefaultSize, overlap: DefaultOverlap}
	for _, opt := range opts {
		opt(c)
	}
	// Overlap must stay below the window or the cursor never advances.
	if c.overlap >= c.size {
		c.overlap = c.size / 4
	}
	return c
}

// Split unifies line endings, trims the text, and emits text[i:i+size]
// windows advancing by size-overlap. Whitespace-only chunks are dropped;
// empty input yields nil.
func (c *Chunker) Split(text string) []string {
	text = strings.TrimSpace(strings.ReplaceAll(text, "\r\n", "\n"))
	if text == "" {
		return nil
	}

	step := c.size - c.overlap
	out := make([]string, 0, len(text)/step+1)
	for i := 0; i < len(text); i += step {
		end := i + c.size
		if end > len(text) {
			end = len(text)
		}
		chunk := text[i:end]
		if strings.TrimSpace(chunk) != "" {
			out = append(out, chunk)
		}
	}
	return out
}
