package domain

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
)

// Passage is a chunked unit of source text. Immutable once written; its
// ordinal position in the metadata store equals the position of its vector
// in the index.
type Passage struct {
	ID         string `json:"id"`
	Source     string `json:"source"`
	ChunkIndex int    `json:"chunk_index"`
	Text       string `json:"text"`
}

// NewPassage derives the content hash ID from (source, chunk index, length).
func NewPassage(source string, chunkIndex int, text string) Passage {
	return Passage{
		ID:         HashID(fmt.Sprintf("%s|%d|%d", source, chunkIndex, len(text))),
		Source:     source,
		ChunkIndex: chunkIndex,
		Text:       text,
	}
}

// HashID returns the hex sha1 of s.
func HashID(s string) string {
	h := sha1.Sum([]byte(s))
	return hex.EncodeToString(h[:])
}

// Hit is a single retrieval result. Ephemeral, produced per query.
type Hit struct {
	Score      float64 `json:"score"`
	Text       string  `json:"text"`
	Source     string  `json:"source"`
	ChunkIndex int     `json:"chunk_index"`
}

// SourceDoc is one ingestable (label, text) pair. How the text was extracted
// is the caller's concern.
type SourceDoc struct {
	Label string
	Text  string
}
