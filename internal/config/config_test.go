package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"legalrag/internal/domain"
)

// chdir mirrors testing.T.Chdir (Go 1.24+) for older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))

	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := writeConfig(t, `
chunker:
  chunk_size: 200
  overlap: 20
server:
  addr: ":8080"
`)

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, ChunkerConfig{ChunkSize: 200, Overlap: 20}, cfg.Chunker)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, EmbedderLexicon, cfg.Embedder.Type)
	assert.Equal(t, 3, cfg.Retrieval.TopK)
	assert.Equal(t, []string{".txt", ".md"}, cfg.Watch.Extensions)
}

func TestLoad_RemoteBackendsGetDefaults(t *testing.T) {
	path := writeConfig(t, `
embedder:
  type: openai
generator:
  type: gemini
`)

	cfg, err := Load(path)

	require.NoError(t, err)
	require.NotNil(t, cfg.Embedder.OpenAI)
	assert.Equal(t, "OPENAI_API_KEY", cfg.Embedder.OpenAI.APIKeyEnv)
	assert.Equal(t, "https://api.openai.com/v1", cfg.Embedder.OpenAI.BaseURL)
	require.NotNil(t, cfg.Generator.Gemini)
	assert.Equal(t, "GEMINI_API_KEY", cfg.Generator.Gemini.APIKeyEnv)
	assert.Equal(t, 30, cfg.Generator.Gemini.TimeoutSecs)
}

func TestLoad_InvalidGeometryFailsFast(t *testing.T) {
	path := writeConfig(t, `
chunker:
  chunk_size: 50
  overlap: 50
`)

	_, err := Load(path)

	assert.ErrorIs(t, err, domain.ErrInvalidConfig)
}

func TestLoad_BadYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "chunker: [unclosed"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*AppConfig)
	}{
		{"zero chunk size", func(c *AppConfig) { c.Chunker.ChunkSize = 0 }},
		{"negative overlap", func(c *AppConfig) { c.Chunker.Overlap = -1 }},
		{"overlap exceeds size", func(c *AppConfig) { c.Chunker.Overlap = 600 }},
		{"unknown embedder", func(c *AppConfig) { c.Embedder.Type = "word2vec" }},
		{"openai without section", func(c *AppConfig) { c.Embedder.Type = EmbedderOpenAI }},
		{"unknown generator", func(c *AppConfig) { c.Generator.Type = "llama" }},
		{"unknown log format", func(c *AppConfig) { c.Log.Format = "xml" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			assert.ErrorIs(t, cfg.Validate(), domain.ErrInvalidConfig)
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := Default()
	cfg.Watch.Dir = "/srv/contracts"

	require.NoError(t, Save(path, cfg))
	loaded, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoadDefault_WritesUserConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	chdir(t, t.TempDir())

	cfg, path, err := LoadDefault()

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".config", "legalrag", "config.yaml"), path)
	assert.Equal(t, Default(), cfg)
	assert.FileExists(t, path)
}

func TestLoadDefault_PrefersWorkingDirectory(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	dir := t.TempDir()
	chdir(t, dir)
	require.NoError(t, os.WriteFile("config.yaml", []byte("retrieval:\n  top_k: 7\n"), 0o644))

	cfg, path, err := LoadDefault()

	require.NoError(t, err)
	assert.Equal(t, "config.yaml", path)
	assert.Equal(t, 7, cfg.Retrieval.TopK)
}
