// Package file loads veridoc configuration from a TOML file, filling
// in defaults for anything unset.
package file

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/veridoc-labs/veridoc-cli/internal/chunker"
	"github.com/veridoc-labs/veridoc-cli/internal/core/services"
)

// Provider names accepted in the [provider] section.
const (
	ProviderOpenAI = "openai"
	ProviderOllama = "ollama"
)

// Config is the full veridoc configuration.
type Config struct {
	// DataDir is where the document database lives
	// (default: ~/.veridoc/data).
	DataDir string `toml:"data_dir"`

	// Provider selects the embedding and LLM backend: openai or ollama
	// (default: ollama, which needs no API key).
	Provider string `toml:"provider"`

	Chunking  ChunkingConfig  `toml:"chunking"`
	Retrieval RetrievalConfig `toml:"retrieval"`
	OpenAI    OpenAIConfig    `toml:"openai"`
	Ollama    OllamaConfig    `toml:"ollama"`
	Server    ServerConfig    `toml:"server"`
}

// ChunkingConfig controls how documents are split.
type ChunkingConfig struct {
	// Size is the target chunk size in characters.
	Size int `toml:"size"`

	// Overlap is how many characters consecutive chunks share.
	Overlap int `toml:"overlap"`
}

// RetrievalConfig controls similarity search.
type RetrievalConfig struct {
	// Threshold is the minimum relevance score for a citation.
	Threshold float64 `toml:"threshold"`

	// RequestsPerSecond rate limits embedding requests. Zero disables
	// the limiter.
	RequestsPerSecond float64 `toml:"requests_per_second"`
}

// OpenAIConfig holds OpenAI backend settings.
type OpenAIConfig struct {
	// APIKey can be left empty and provided via OPENAI_API_KEY instead.
	APIKey         string `toml:"api_key"`
	BaseURL        string `toml:"base_url"`
	EmbeddingModel string `toml:"embedding_model"`
	ChatModel      string `toml:"chat_model"`
}

// OllamaConfig holds Ollama backend settings.
type OllamaConfig struct {
	BaseURL        string `toml:"base_url"`
	EmbeddingModel string `toml:"embedding_model"`
	ChatModel      string `toml:"chat_model"`
}

// ServerConfig holds HTTP API settings.
type ServerConfig struct {
	// Addr is the listen address (default: 127.0.0.1:8080).
	Addr string `toml:"addr"`
}

// Default returns a configuration with all defaults applied.
func Default() *Config {
	return &Config{
		Provider: ProviderOllama,
		Chunking: ChunkingConfig{
			Size:    chunker.DefaultChunkSize,
			Overlap: chunker.DefaultChunkOverlap,
		},
		Retrieval: RetrievalConfig{
			Threshold:         services.DefaultRelevanceThreshold,
			RequestsPerSecond: 10,
		},
		Server: ServerConfig{
			Addr: "127.0.0.1:8080",
		},
	}
}

// DefaultPath returns the default config file location,
// ~/.veridoc/config.toml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".veridoc", "config.toml"), nil
}

// Load reads configuration from the given path. A missing file yields
// the defaults; a present file overrides them field by field. The
// OPENAI_API_KEY environment variable takes precedence over the file so
// the key never has to be written to disk.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	} else if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		cfg.OpenAI.APIKey = key
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration to the given path with restricted
// permissions, creating the directory if needed.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	return os.WriteFile(path, data, 0600)
}

// validate rejects settings the pipelines cannot work with.
func (c *Config) validate() error {
	if c.Provider != ProviderOpenAI && c.Provider != ProviderOllama {
		return fmt.Errorf("unknown provider %q (want %s or %s)", c.Provider, ProviderOpenAI, ProviderOllama)
	}
	if c.Chunking.Size <= 0 {
		return fmt.Errorf("chunking size must be positive, got %d", c.Chunking.Size)
	}
	if c.Chunking.Overlap < 0 {
		return fmt.Errorf("chunking overlap cannot be negative, got %d", c.Chunking.Overlap)
	}
	if c.Retrieval.Threshold < 0 || c.Retrieval.Threshold > 1 {
		return fmt.Errorf("retrieval threshold must be in [0, 1], got %g", c.Retrieval.Threshold)
	}
	return nil
}
