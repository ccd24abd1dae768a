package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkConfigValidate(t *testing.T) {
	tests := []struct {
		name      string
		cfg       ChunkConfig
		wantField string
	}{
		{
			name: "valid minimal",
			cfg:  ChunkConfig{MaxChunkTokens: 500},
		},
		{
			name: "valid full",
			cfg:  ChunkConfig{MaxChunkTokens: 500, MinChunkTokens: 130, OverlapTokens: 50},
		},
		{
			name:      "zero max",
			cfg:       ChunkConfig{},
			wantField: "max_chunk_tokens",
		},
		{
			name:      "negative max",
			cfg:       ChunkConfig{MaxChunkTokens: -1},
			wantField: "max_chunk_tokens",
		},
		{
			name:      "negative min",
			cfg:       ChunkConfig{MaxChunkTokens: 500, MinChunkTokens: -1},
			wantField: "min_chunk_tokens",
		},
		{
			name:      "negative overlap",
			cfg:       ChunkConfig{MaxChunkTokens: 500, OverlapTokens: -1},
			wantField: "overlap_tokens",
		},
		{
			name:      "overlap equals max",
			cfg:       ChunkConfig{MaxChunkTokens: 500, OverlapTokens: 500},
			wantField: "overlap_tokens",
		},
		{
			name:      "min exceeds max",
			cfg:       ChunkConfig{MaxChunkTokens: 100, MinChunkTokens: 200},
			wantField: "min_chunk_tokens",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			var cfgErr *ConfigError
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, tt.wantField, cfgErr.Field)
		})
	}
}

func TestConfigErrorMessage(t *testing.T) {
	err := &ConfigError{Field: "max_chunk_tokens", Reason: "must be positive"}
	assert.Equal(t, "invalid config: max_chunk_tokens must be positive", err.Error())
}

func TestSchemaErrorUnwrap(t *testing.T) {
	err := &SchemaError{Field: "seed_examples.0", Reason: "context is required"}
	assert.True(t, errors.Is(err, ErrSchema))
	assert.Contains(t, err.Error(), "seed_examples.0")
	assert.Contains(t, err.Error(), "context is required")

	rootless := &SchemaError{Reason: "empty seed file"}
	assert.True(t, errors.Is(rootless, ErrSchema))
	assert.Contains(t, rootless.Error(), "empty seed file")
}
