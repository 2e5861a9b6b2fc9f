package rag

// Document is the full text of one source file.
type Document struct {
	Source string // path as collected
	Text   string
}

// Chunk of a document
type Chunk struct {
	ID        string
	Index     int // position within the source document
	Content   string
	Source    string // originating file path
	Embedding []float64
}

// Simple query result
type SearchResult struct {
	Chunk Chunk
	Score float64
}

// Answer is what a question produces: the generated text plus the chunks it
// was conditioned on, in retrieval order.
type Answer struct {
	Text    string
	Sources []SearchResult
}

// SourcePaths lists the provenance of every source chunk. Duplicates are kept
// so the list lines up with Sources.
func (a *Answer) SourcePaths() []string {
	paths := make([]string, 0, len(a.Sources))
	for _, s := range a.Sources {
		p := s.Chunk.Source
		if p == "" {
			p = "Unknown"
		}
		paths = append(paths, p)
	}
	return paths
}
