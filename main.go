package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"codenav/config"
	"codenav/logger"
	"codenav/rag"
)

const noDocumentsMessage = "No valid project files were loaded. Please check your file filters or directory path."

// asker is the query side of a built index.
type asker interface {
	Ask(ctx context.Context, question string) (*rag.Answer, error)
}

// indexBuilder scans dir and returns something that can answer questions
// about it, using apiKey for the remote calls.
type indexBuilder func(ctx context.Context, apiKey, dir string) (asker, error)

// backendFactory supplies the remote embedder and generator for a credential.
type backendFactory func(apiKey string) (rag.Embedder, rag.Generator)

func openAIBackends(logger *zap.Logger, cfg config.Config) backendFactory {
	return func(apiKey string) (rag.Embedder, rag.Generator) {
		client := rag.NewOpenAIClient(rag.OpenAIOptions{APIKey: apiKey, BaseURL: cfg.BaseURL})
		return rag.NewOpenAIEmbedder(logger, client, cfg.EmbeddingModel),
			rag.NewOpenAIGenerator(logger, client, cfg.ChatModel)
	}
}

func pipelineBuilder(logger *zap.Logger, cfg config.Config, backends backendFactory) indexBuilder {
	return func(ctx context.Context, apiKey, dir string) (asker, error) {
		embedder, generator := backends(apiKey)
		p, err := rag.NewPipeline(logger, embedder, generator, cfg.PipelineOptions())
		if err != nil {
			return nil, err
		}
		idx, err := p.BuildIndex(ctx, dir)
		if err != nil {
			return nil, err
		}
		return idx, nil
	}
}

// runTerminal builds the index for the configured directory and hands over
// to the interactive loop.
func runTerminal(ctx context.Context, logger *zap.Logger, cfg config.Config, build indexBuilder, in io.Reader, out, errOut io.Writer) error {
	idx, err := build(ctx, cfg.APIKey, cfg.DirectoryPath)
	if err != nil {
		if errors.Is(err, rag.ErrNoDocuments) {
			fmt.Fprintln(errOut, noDocumentsMessage)
		} else {
			logger.Error("failed to build the index", zap.Error(err))
		}
		return err
	}
	fmt.Fprint(out, "\nCodebase Navigator Ready. Ask a question about the project.\n\n")
	return runREPL(ctx, logger, in, out, idx)
}

func newRootCmd(ctx context.Context, logger *zap.Logger, cfg config.Config) *cobra.Command {
	build := pipelineBuilder(logger, cfg, openAIBackends(logger, cfg))

	root := &cobra.Command{
		Use:           "codenav",
		Short:         "Ask questions about a codebase using AI",
		Long:          "Scans DIRECTORY_PATH, indexes it and starts an interactive question loop.\nConfiguration comes from the environment or a .env file.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTerminal(ctx, logger, cfg, build, cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
	root.AddCommand(newWebCmd(logger, cfg, build))
	return root
}

func newWebCmd(logger *zap.Logger, cfg config.Config, build indexBuilder) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "web",
		Short:   "Serve the codebase navigator web form",
		Example: `codenav web --addr=":8501"`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			addr, err := cmd.Flags().GetString("addr")
			if err != nil {
				return err
			}
			srv := NewServer(logger, cfg.DirectoryPath, build)
			logger.Info("Web form running", zap.String("addr", addr))
			return http.ListenAndServe(addr, srv.Routes())
		},
	}
	cmd.Flags().String("addr", cfg.Addr, "Address the web form listens on")
	return cmd
}

func main() {
	cfg, err := config.Load(".env")
	if err != nil {
		fmt.Fprintln(os.Stderr, "invalid configuration:", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Debug)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if err := newRootCmd(context.Background(), log, cfg).Execute(); err != nil {
		_ = log.Sync()
		os.Exit(1)
	}
}
