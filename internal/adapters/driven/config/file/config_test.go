package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veridoc-labs/veridoc-cli/internal/chunker"
	"github.com/veridoc-labs/veridoc-cli/internal/core/services"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)

	assert.Equal(t, ProviderOllama, cfg.Provider)
	assert.Equal(t, chunker.DefaultChunkSize, cfg.Chunking.Size)
	assert.Equal(t, chunker.DefaultChunkOverlap, cfg.Chunking.Overlap)
	assert.Equal(t, services.DefaultRelevanceThreshold, cfg.Retrieval.Threshold)
	assert.Equal(t, 10.0, cfg.Retrieval.RequestsPerSecond)
	assert.Equal(t, "127.0.0.1:8080", cfg.Server.Addr)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")

	path := filepath.Join(t.TempDir(), "config.toml")
	content := `provider = "openai"

[chunking]
size = 500
overlap = 64

[openai]
api_key = "file-key"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ProviderOpenAI, cfg.Provider)
	assert.Equal(t, 500, cfg.Chunking.Size)
	assert.Equal(t, 64, cfg.Chunking.Overlap)
	assert.Equal(t, "file-key", cfg.OpenAI.APIKey)

	// Untouched sections keep their defaults.
	assert.Equal(t, services.DefaultRelevanceThreshold, cfg.Retrieval.Threshold)
}

func TestLoad_EnvOverridesAPIKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "env-key")

	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`[openai]
api_key = "file-key"
`), 0600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "env-key", cfg.OpenAI.APIKey)
}

func TestLoad_Invalid(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")

	tests := []struct {
		name    string
		content string
	}{
		{"unknown provider", `provider = "cohere"`},
		{"zero chunk size", "[chunking]\nsize = 0"},
		{"negative overlap", "[chunking]\noverlap = -1"},
		{"threshold out of range", "[retrieval]\nthreshold = 1.5"},
		{"malformed toml", "provider = "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0600))

			_, err := Load(path)
			assert.Error(t, err)
		})
	}
}

func TestSaveAndReload(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")

	path := filepath.Join(t.TempDir(), "sub", "config.toml")

	cfg := Default()
	cfg.Provider = ProviderOpenAI
	cfg.OpenAI.ChatModel = "gpt-4o-mini"
	require.NoError(t, cfg.Save(path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ProviderOpenAI, loaded.Provider)
	assert.Equal(t, "gpt-4o-mini", loaded.OpenAI.ChatModel)
}
