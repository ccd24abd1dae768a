package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khaledsulayman/data-ingestion/domain"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, DefaultMaxChunkTokens, cfg.Chunk.MaxChunkTokens)
	assert.Equal(t, DefaultMinChunkTokens, cfg.Chunk.MinChunkTokens)
	assert.Equal(t, DefaultOverlapTokens, cfg.Chunk.OverlapTokens)
	assert.Equal(t, DefaultGroundingThreshold, cfg.Ground.Threshold)
	require.NoError(t, cfg.Chunk.Validate())
	require.NoError(t, cfg.Ground.Validate())
}

func TestParseFull(t *testing.T) {
	data := []byte(`
max_chunk_tokens = 800
min_chunk_tokens = 200
overlap_tokens = 40
grounding_threshold = 0.9
workers = 8
seed_filename = "seeds.yaml"
`)
	cfg, err := Parse(data)
	require.NoError(t, err)

	assert.Equal(t, 800, cfg.Chunk.MaxChunkTokens)
	assert.Equal(t, 200, cfg.Chunk.MinChunkTokens)
	assert.Equal(t, 40, cfg.Chunk.OverlapTokens)
	assert.Equal(t, 0.9, cfg.Ground.Threshold)
	assert.Equal(t, 8, cfg.Workers)
	assert.Equal(t, "seeds.yaml", cfg.SeedFilename)
}

func TestParseEmptyUsesDefaults(t *testing.T) {
	cfg, err := Parse([]byte(""))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestParsePartial(t *testing.T) {
	cfg, err := Parse([]byte("max_chunk_tokens = 1000\n"))
	require.NoError(t, err)

	assert.Equal(t, 1000, cfg.Chunk.MaxChunkTokens)
	assert.Equal(t, DefaultMinChunkTokens, cfg.Chunk.MinChunkTokens)
	assert.Equal(t, DefaultGroundingThreshold, cfg.Ground.Threshold)
}

func TestParseInvalidCombination(t *testing.T) {
	_, err := Parse([]byte("overlap_tokens = 600\n"))
	require.Error(t, err)

	var cfgErr *domain.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "overlap_tokens", cfgErr.Field)
}

func TestParseInvalidThreshold(t *testing.T) {
	_, err := Parse([]byte("grounding_threshold = 1.5\n"))
	require.Error(t, err)

	var cfgErr *domain.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "grounding_threshold", cfgErr.Field)
}

func TestParseMalformedTOML(t *testing.T) {
	_, err := Parse([]byte("max_chunk_tokens = = 5"))
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ingest.toml")
	require.NoError(t, os.WriteFile(path, []byte("max_chunk_tokens = 750\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 750, cfg.Chunk.MaxChunkTokens)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	assert.Error(t, err)
}
