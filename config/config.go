// Package config loads codenav settings from the environment and an optional
// .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/spf13/viper"

	"codenav/rag"
)

// Config holds every tunable. Environment variables take precedence over
// values read from the .env file.
type Config struct {
	APIKey         string   `mapstructure:"openai_api_key"`
	BaseURL        string   `mapstructure:"openai_base_url"`
	DirectoryPath  string   `mapstructure:"directory_path"`
	ChatModel      string   `mapstructure:"chat_model"`
	EmbeddingModel string   `mapstructure:"embedding_model"`
	Addr           string   `mapstructure:"codenav_addr"`
	Debug          bool     `mapstructure:"codenav_debug"`
	Extensions     []string `mapstructure:"codenav_extensions"`
	ChunkSize      int      `mapstructure:"chunk_size"`
	ChunkOverlap   int      `mapstructure:"chunk_overlap"`
	TopK           int      `mapstructure:"top_k"`
	EmbedBatchSize int      `mapstructure:"embed_batch_size"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("openai_api_key", "")
	v.SetDefault("openai_base_url", "")
	v.SetDefault("directory_path", "./your-codebase")
	v.SetDefault("chat_model", rag.DefaultChatModel)
	v.SetDefault("embedding_model", rag.DefaultEmbeddingModel)
	v.SetDefault("codenav_addr", ":8501")
	v.SetDefault("codenav_debug", false)
	v.SetDefault("codenav_extensions", rag.DefaultExtensions)
	v.SetDefault("chunk_size", rag.DefaultChunkSize)
	v.SetDefault("chunk_overlap", rag.DefaultChunkOverlap)
	v.SetDefault("top_k", rag.DefaultTopK)
	v.SetDefault("embed_batch_size", rag.DefaultEmbedBatchSize)
}

// Load reads envFile (if it exists) and the process environment. An empty
// envFile skips the file entirely.
func Load(envFile string) (Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if envFile != "" {
		v.SetConfigFile(envFile)
		v.SetConfigType("env")
		if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("failed to read %s: %w", envFile, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal the config: %w", err)
	}
	cfg.Extensions = normalizeExtensions(cfg.Extensions)
	return cfg, cfg.Validate()
}

func normalizeExtensions(exts []string) []string {
	out := make([]string, 0, len(exts))
	for _, e := range exts {
		e = strings.TrimSpace(e)
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		out = append(out, e)
	}
	return out
}

func (c Config) Validate() error {
	if c.ChunkSize <= 0 {
		return fmt.Errorf("chunk_size must be positive, got %d", c.ChunkSize)
	}
	if c.ChunkOverlap < 0 || c.ChunkOverlap >= c.ChunkSize {
		return fmt.Errorf("chunk_overlap must be in [0, chunk_size), got %d", c.ChunkOverlap)
	}
	if c.TopK <= 0 {
		return fmt.Errorf("top_k must be positive, got %d", c.TopK)
	}
	if c.EmbedBatchSize <= 0 {
		return fmt.Errorf("embed_batch_size must be positive, got %d", c.EmbedBatchSize)
	}
	if len(c.Extensions) == 0 {
		return errors.New("codenav_extensions must name at least one extension")
	}
	return nil
}

// PipelineOptions maps the config onto rag.Options.
func (c Config) PipelineOptions() rag.Options {
	return rag.Options{
		Filter: rag.Filter{
			Extensions:  c.Extensions,
			ExcludeDirs: rag.DefaultExcludeDirs,
		},
		ChunkSize:      c.ChunkSize,
		ChunkOverlap:   c.ChunkOverlap,
		TopK:           c.TopK,
		EmbedBatchSize: c.EmbedBatchSize,
	}
}
