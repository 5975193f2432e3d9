// Package cli implements the veridoc command line interface.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/veridoc-labs/veridoc-cli/internal/adapters/driven/config/file"
	embeddingollama "github.com/veridoc-labs/veridoc-cli/internal/adapters/driven/embedding/ollama"
	embeddingopenai "github.com/veridoc-labs/veridoc-cli/internal/adapters/driven/embedding/openai"
	"github.com/veridoc-labs/veridoc-cli/internal/adapters/driven/index/memory"
	"github.com/veridoc-labs/veridoc-cli/internal/adapters/driven/index/sqlite"
	llmollama "github.com/veridoc-labs/veridoc-cli/internal/adapters/driven/llm/ollama"
	llmopenai "github.com/veridoc-labs/veridoc-cli/internal/adapters/driven/llm/openai"
	"github.com/veridoc-labs/veridoc-cli/internal/chunker"
	"github.com/veridoc-labs/veridoc-cli/internal/core/ports/driven"
	"github.com/veridoc-labs/veridoc-cli/internal/core/ports/driving"
	"github.com/veridoc-labs/veridoc-cli/internal/core/services"
	"github.com/veridoc-labs/veridoc-cli/internal/extractors"
	"github.com/veridoc-labs/veridoc-cli/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// Persistent flags.
var (
	verbose    bool
	configPath string
	dataDir    string
	ephemeral  bool
)

// dataStore is the slice of the storage backends the commands need.
type dataStore interface {
	DocumentStore() driven.DocumentStore
	VectorIndex() driven.VectorIndex
	Close() error
}

// Shared state wired up before any command runs.
var (
	cfg             *file.Config
	store           dataStore
	registry        *extractors.Registry
	ingestService   driving.IngestService
	queryService    driving.QueryService
	documentService driving.DocumentService
)

// supportedExtensions lists the file extensions ingestion accepts.
func supportedExtensions() []string {
	if registry == nil {
		return nil
	}
	return registry.SupportedExtensions()
}

var rootCmd = &cobra.Command{
	Use:   "veridoc",
	Short: "Ask questions about your documents, with verifiable citations",
	Long: `veridoc ingests documents, indexes them with position tracking, and
answers questions about them. Every answer carries citations that point
back to the exact page and character range the evidence came from.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		logger.SetVerbose(verbose)
		if cmd.Name() == "version" || cmd.Name() == "help" {
			return nil
		}
		return initServices()
	},
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		if store != nil {
			store.Close() //nolint:errcheck
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file path (default ~/.veridoc/config.toml)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "Data directory (default ~/.veridoc/data)")
	rootCmd.PersistentFlags().BoolVar(&ephemeral, "ephemeral", false, "Keep documents in memory only, nothing written to disk")
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}

// initServices loads configuration and wires the pipelines. Called once
// per invocation from the root command's PersistentPreRunE.
func initServices() error {
	path := configPath
	if path == "" {
		var err error
		path, err = file.DefaultPath()
		if err != nil {
			return err
		}
	}

	var err error
	cfg, err = file.Load(path)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if dataDir == "" {
		dataDir = cfg.DataDir
	}

	if ephemeral {
		store = memory.NewStore()
	} else {
		sqlStore, serr := sqlite.NewStore(dataDir)
		if serr != nil {
			return fmt.Errorf("opening store: %w", serr)
		}
		store = sqlStore
	}

	embedder, llm, err := buildProviders(cfg)
	if err != nil {
		return err
	}

	registry = extractors.DefaultRegistry()
	chk := chunker.New(
		chunker.WithChunkSize(cfg.Chunking.Size),
		chunker.WithOverlap(cfg.Chunking.Overlap),
	)

	var limiter *rate.Limiter
	if cfg.Retrieval.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.Retrieval.RequestsPerSecond), 1)
	}

	docStore := store.DocumentStore()
	index := store.VectorIndex()

	ingestService = services.NewIngestService(docStore, index, embedder, registry, chk, limiter)
	retriever := services.NewRetriever(embedder, index,
		services.WithRelevanceThreshold(cfg.Retrieval.Threshold))
	queryService = services.NewQueryService(docStore, retriever, llm)
	documentService = services.NewDocumentService(docStore, index)

	return nil
}

// buildProviders creates the embedding and LLM clients for the
// configured backend.
func buildProviders(cfg *file.Config) (driven.EmbeddingService, driven.LLMService, error) {
	switch cfg.Provider {
	case file.ProviderOpenAI:
		embedder, err := embeddingopenai.NewEmbeddingService(embeddingopenai.Config{
			APIKey:  cfg.OpenAI.APIKey,
			BaseURL: cfg.OpenAI.BaseURL,
			Model:   cfg.OpenAI.EmbeddingModel,
		})
		if err != nil {
			return nil, nil, err
		}
		llm, err := llmopenai.NewLLMService(llmopenai.Config{
			APIKey:  cfg.OpenAI.APIKey,
			BaseURL: cfg.OpenAI.BaseURL,
			Model:   cfg.OpenAI.ChatModel,
		})
		if err != nil {
			return nil, nil, err
		}
		return embedder, llm, nil

	case file.ProviderOllama:
		embedder := embeddingollama.NewEmbeddingService(embeddingollama.Config{
			BaseURL: cfg.Ollama.BaseURL,
			Model:   cfg.Ollama.EmbeddingModel,
		})
		llm := llmollama.NewLLMService(llmollama.Config{
			BaseURL: cfg.Ollama.BaseURL,
			Model:   cfg.Ollama.ChatModel,
		})
		return embedder, llm, nil

	default:
		return nil, nil, fmt.Errorf("unknown provider %q", cfg.Provider)
	}
}
