package rag

import (
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const (
	DefaultChatModel      = "gpt-4"
	DefaultEmbeddingModel = "text-embedding-ada-002"
)

// OpenAIOptions configures the client shared by the embedder and generator.
type OpenAIOptions struct {
	APIKey  string
	BaseURL string // empty means the public endpoint
}

// NewOpenAIClient builds a client with retries disabled: a failed call is
// reported to the caller as-is.
func NewOpenAIClient(opts OpenAIOptions) openai.Client {
	reqOpts := []option.RequestOption{
		option.WithAPIKey(opts.APIKey),
		option.WithMaxRetries(0),
	}
	if opts.BaseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(opts.BaseURL))
	}
	return openai.NewClient(reqOpts...)
}
