package rag

import (
	"context"
	"errors"
	"strings"
)

var vocab = []string{"alpha", "beta", "gamma", "delta"}

// keywordEmbedder maps text onto keyword counts, with a small constant
// dimension so no vector is all zeros.
type keywordEmbedder struct {
	calls  int
	inputs []string
	err    error
}

func (e *keywordEmbedder) Embed(_ context.Context, texts []string) ([][]float64, error) {
	e.calls++
	e.inputs = append(e.inputs, texts...)
	if e.err != nil {
		return nil, e.err
	}
	out := make([][]float64, 0, len(texts))
	for _, t := range texts {
		lower := strings.ToLower(t)
		v := make([]float64, 0, len(vocab)+1)
		for _, w := range vocab {
			v = append(v, float64(strings.Count(lower, w)))
		}
		v = append(v, 0.01)
		out = append(out, v)
	}
	return out, nil
}

type recordingGenerator struct {
	question string
	chunks   []Chunk
	answer   string
	err      error
}

func (g *recordingGenerator) Generate(_ context.Context, question string, chunks []Chunk) (string, error) {
	g.question = question
	g.chunks = chunks
	if g.err != nil {
		return "", g.err
	}
	return g.answer, nil
}

var errRemote = errors.New("remote unavailable")
