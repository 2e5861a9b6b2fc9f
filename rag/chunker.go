package rag

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/tmc/langchaingo/textsplitter"
)

const (
	DefaultChunkSize    = 1000
	DefaultChunkOverlap = 200
)

// Chunker splits documents into overlapping windows of at most size
// characters, preferring paragraph, then line, then word boundaries before
// falling back to a raw character cut.
type Chunker struct {
	splitter textsplitter.RecursiveCharacter
	size     int
	overlap  int
}

func NewChunker(size, overlap int) (*Chunker, error) {
	if size <= 0 {
		return nil, fmt.Errorf("chunk size must be positive, got %d", size)
	}
	if overlap < 0 || overlap >= size {
		return nil, fmt.Errorf("chunk overlap must be in [0, %d), got %d", size, overlap)
	}
	return &Chunker{
		splitter: textsplitter.NewRecursiveCharacter(
			textsplitter.WithChunkSize(size),
			textsplitter.WithChunkOverlap(overlap),
			textsplitter.WithSeparators([]string{"\n\n", "\n", " ", ""}),
		),
		size:    size,
		overlap: overlap,
	}, nil
}

// Split cuts one document into chunks tagged with the document's source.
// Blank documents yield no chunks.
func (c *Chunker) Split(doc Document) ([]Chunk, error) {
	if strings.TrimSpace(doc.Text) == "" {
		return nil, nil
	}
	parts, err := c.splitter.SplitText(doc.Text)
	if err != nil {
		return nil, fmt.Errorf("failed to split %s: %w", doc.Source, err)
	}

	chunks := make([]Chunk, 0, len(parts))
	for _, p := range parts {
		if p == "" {
			continue
		}
		chunks = append(chunks, Chunk{
			ID:      uuid.NewString(),
			Index:   len(chunks),
			Content: p,
			Source:  doc.Source,
		})
	}
	return chunks, nil
}

// SplitAll chunks every document in order.
func (c *Chunker) SplitAll(docs []Document) ([]Chunk, error) {
	var all []Chunk
	for _, d := range docs {
		chunks, err := c.Split(d)
		if err != nil {
			return nil, err
		}
		all = append(all, chunks...)
	}
	return all, nil
}
