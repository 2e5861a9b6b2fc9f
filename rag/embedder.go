package rag

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"go.uber.org/zap"
)

// Embedder is an interface so later you can swap implementation
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float64, error)
}

// OpenAIEmbedder turns text into vectors through the embeddings endpoint.
type OpenAIEmbedder struct {
	client openai.Client
	model  string
	logger *zap.Logger
}

func NewOpenAIEmbedder(logger *zap.Logger, client openai.Client, model string) *OpenAIEmbedder {
	if model == "" {
		model = DefaultEmbeddingModel
	}
	return &OpenAIEmbedder{client: client, model: model, logger: logger}
}

// Embed issues a single request for texts and returns one vector per input,
// in input order.
func (e *OpenAIEmbedder) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	if len(texts) == 0 {
		return [][]float64{}, nil
	}
	resp, err := e.client.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Input: openai.EmbeddingNewParamsInputUnion{OfArrayOfStrings: texts},
		Model: openai.EmbeddingModel(e.model),
	})
	if err != nil {
		return nil, fmt.Errorf("embeddings request failed: %w", err)
	}
	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("embeddings response has %d vectors for %d inputs", len(resp.Data), len(texts))
	}

	vectors := make([][]float64, len(texts))
	for _, d := range resp.Data {
		if d.Index < 0 || int(d.Index) >= len(vectors) {
			return nil, fmt.Errorf("embeddings response index %d out of range", d.Index)
		}
		vectors[d.Index] = d.Embedding
	}
	e.logger.Debug("Generated embeddings batch",
		zap.Int("batch_size", len(texts)),
		zap.Int64("tokens_used", resp.Usage.TotalTokens))
	return vectors, nil
}
