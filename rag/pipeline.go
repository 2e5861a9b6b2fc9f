package rag

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
)

const DefaultEmbedBatchSize = 100

var (
	// ErrNoDocuments means nothing under the root survived filtering,
	// loading and chunking.
	ErrNoDocuments = errors.New("no valid project files were loaded")
	ErrEmptyQuery  = errors.New("query is empty")
)

// Options tunes a Pipeline. Zero values fall back to the defaults, except
// ChunkOverlap: it is only defaulted together with an unset ChunkSize, so an
// explicit size with zero overlap means no overlap.
type Options struct {
	Filter         Filter
	ChunkSize      int
	ChunkOverlap   int
	TopK           int
	EmbedBatchSize int
}

func (o Options) withDefaults() Options {
	if len(o.Filter.Extensions) == 0 {
		o.Filter.Extensions = DefaultExtensions
	}
	if len(o.Filter.ExcludeDirs) == 0 {
		o.Filter.ExcludeDirs = DefaultExcludeDirs
	}
	if o.ChunkSize == 0 {
		o.ChunkSize = DefaultChunkSize
		if o.ChunkOverlap == 0 {
			o.ChunkOverlap = DefaultChunkOverlap
		}
	}
	if o.TopK == 0 {
		o.TopK = DefaultTopK
	}
	if o.EmbedBatchSize == 0 {
		o.EmbedBatchSize = DefaultEmbedBatchSize
	}
	return o
}

// Pipeline builds an Index from a directory: collect, load, chunk, embed.
type Pipeline struct {
	logger    *zap.Logger
	opts      Options
	chunker   *Chunker
	embedder  Embedder
	generator Generator
}

func NewPipeline(logger *zap.Logger, embedder Embedder, generator Generator, opts Options) (*Pipeline, error) {
	opts = opts.withDefaults()
	if opts.EmbedBatchSize < 0 || opts.TopK < 0 {
		return nil, fmt.Errorf("invalid pipeline options: top_k=%d batch=%d", opts.TopK, opts.EmbedBatchSize)
	}
	chunker, err := NewChunker(opts.ChunkSize, opts.ChunkOverlap)
	if err != nil {
		return nil, err
	}
	return &Pipeline{
		logger:    logger,
		opts:      opts,
		chunker:   chunker,
		embedder:  embedder,
		generator: generator,
	}, nil
}

// BuildIndex scans root and embeds everything it finds. It returns
// ErrNoDocuments before any embedding call when there is nothing to index.
func (p *Pipeline) BuildIndex(ctx context.Context, root string) (*Index, error) {
	start := time.Now()

	p.logger.Info("Loading codebase", zap.String("directory", root),
		zap.Strings("exclude", p.opts.Filter.ExcludeDirs))
	paths, err := Collect(root, p.opts.Filter)
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", root, err)
	}
	docs := LoadAll(p.logger, paths)

	p.logger.Info("Splitting documents", zap.Int("files", len(paths)), zap.Int("documents", len(docs)))
	chunks, err := p.chunker.SplitAll(docs)
	if err != nil {
		return nil, err
	}
	if len(chunks) == 0 {
		return nil, ErrNoDocuments
	}

	p.logger.Info("Generating embeddings", zap.Int("chunks", len(chunks)))
	for i := 0; i < len(chunks); i += p.opts.EmbedBatchSize {
		end := i + p.opts.EmbedBatchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		texts := make([]string, 0, end-i)
		for _, ch := range chunks[i:end] {
			texts = append(texts, ch.Content)
		}
		vectors, err := p.embedder.Embed(ctx, texts)
		if err != nil {
			return nil, fmt.Errorf("failed to generate embeddings: %w", err)
		}
		if len(vectors) != len(texts) {
			return nil, fmt.Errorf("embedder returned %d vectors for %d chunks", len(vectors), len(texts))
		}
		for j, v := range vectors {
			chunks[i+j].Embedding = v
		}
	}

	store := NewInMemoryStore()
	store.Add(chunks...)

	p.logger.Info("Index ready",
		zap.Int("chunks", store.Len()),
		zap.String("duration", time.Since(start).String()),
		zap.String("directory", root))

	return &Index{
		logger:    p.logger,
		store:     store,
		embedder:  p.embedder,
		generator: p.generator,
		topK:      p.opts.TopK,
	}, nil
}

// Index is a built, read-only vector index plus what it needs to answer
// questions. Each question is independent of the ones before it.
type Index struct {
	logger    *zap.Logger
	store     *InMemoryStore
	embedder  Embedder
	generator Generator
	topK      int
}

// Len is the number of indexed chunks.
func (ix *Index) Len() int { return ix.store.Len() }

// Retrieve embeds query and returns the top-k most similar chunks.
func (ix *Index) Retrieve(ctx context.Context, query string) ([]SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}
	vectors, err := ix.embedder.Embed(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}
	if len(vectors) != 1 {
		return nil, fmt.Errorf("embedder returned %d vectors for the query", len(vectors))
	}
	results := ix.store.Search(vectors[0], ix.topK)
	ix.logger.Debug("Retrieved context", zap.String("query", query), zap.Int("results", len(results)))
	return results, nil
}

// Ask retrieves context for question and has the generator answer it.
func (ix *Index) Ask(ctx context.Context, question string) (*Answer, error) {
	results, err := ix.Retrieve(ctx, question)
	if err != nil {
		return nil, err
	}
	chunks := make([]Chunk, 0, len(results))
	for _, r := range results {
		chunks = append(chunks, r.Chunk)
	}
	text, err := ix.generator.Generate(ctx, question, chunks)
	if err != nil {
		return nil, err
	}
	return &Answer{Text: text, Sources: results}, nil
}
