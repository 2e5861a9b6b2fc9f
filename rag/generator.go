package rag

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"text/template"

	"github.com/openai/openai-go"
	"go.uber.org/zap"
)

// Generator answers a question from the chunks retrieved for it.
type Generator interface {
	Generate(ctx context.Context, question string, chunks []Chunk) (string, error)
}

const systemPromptTemplate = `Use the following pieces of context from a codebase to answer the user's question.
If you don't know the answer, just say that you don't know, don't try to make up an answer.
----------------
{{range $i, $c := .Chunks}}{{if $i}}

{{end}}File: {{source $c.Source}}
{{$c.Content}}{{end}}`

var systemPrompt = template.Must(template.New("system").Funcs(template.FuncMap{
	"source": func(s string) string {
		if s == "" {
			return "Unknown"
		}
		return s
	},
}).Parse(systemPromptTemplate))

// BuildPrompt stuffs every chunk, with its source path, into one system
// prompt.
func BuildPrompt(chunks []Chunk) (string, error) {
	var buf bytes.Buffer
	if err := systemPrompt.Execute(&buf, map[string]any{"Chunks": chunks}); err != nil {
		return "", fmt.Errorf("error executing template: %w", err)
	}
	return buf.String(), nil
}

// OpenAIGenerator calls the chat completion endpoint at temperature 0.
type OpenAIGenerator struct {
	client openai.Client
	model  string
	logger *zap.Logger
}

func NewOpenAIGenerator(logger *zap.Logger, client openai.Client, model string) *OpenAIGenerator {
	if model == "" {
		model = DefaultChatModel
	}
	return &OpenAIGenerator{client: client, model: model, logger: logger}
}

func (g *OpenAIGenerator) Generate(ctx context.Context, question string, chunks []Chunk) (string, error) {
	system, err := BuildPrompt(chunks)
	if err != nil {
		return "", err
	}
	resp, err := g.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(g.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(question),
		},
		Temperature: openai.Float(0),
	})
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("chat completion returned no choices")
	}
	g.logger.Debug("Generated answer",
		zap.String("model", resp.Model),
		zap.Int("context_chunks", len(chunks)),
		zap.Int64("tokens_used", resp.Usage.TotalTokens))
	return resp.Choices[0].Message.Content, nil
}
