// Package config loads run configuration from a TOML file.
//
// The core never reads configuration implicitly: budgets and thresholds are
// passed explicitly per invocation. This package is a convenience for
// callers that keep their run settings in a file; the defaults below are
// the documented fallbacks and the only ones anywhere in the module.
package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/khaledsulayman/data-ingestion/domain"
	"github.com/khaledsulayman/data-ingestion/pipeline"
)

// Documented fallbacks, applied for fields absent from the file.
const (
	// DefaultMaxChunkTokens matches the upstream generation context
	// budget per chunk.
	DefaultMaxChunkTokens = 500

	// DefaultMinChunkTokens is the short-chunk fusion threshold.
	DefaultMinChunkTokens = 130

	// DefaultOverlapTokens disables overlap unless requested.
	DefaultOverlapTokens = 0

	// DefaultGroundingThreshold accepts strong fuzzy matches while
	// rejecting topic-level similarity.
	DefaultGroundingThreshold = 0.75
)

// fileSchema mirrors the TOML structure.
type fileSchema struct {
	MaxChunkTokens     int     `toml:"max_chunk_tokens"`
	MinChunkTokens     int     `toml:"min_chunk_tokens"`
	OverlapTokens      int     `toml:"overlap_tokens"`
	GroundingThreshold float64 `toml:"grounding_threshold"`
	Workers            int     `toml:"workers"`
	SeedFilename       string  `toml:"seed_filename"`
}

// Default returns the documented fallback configuration.
func Default() pipeline.Config {
	return pipeline.Config{
		Chunk: domain.ChunkConfig{
			MaxChunkTokens: DefaultMaxChunkTokens,
			MinChunkTokens: DefaultMinChunkTokens,
			OverlapTokens:  DefaultOverlapTokens,
		},
		Ground: domain.GroundConfig{
			Threshold: DefaultGroundingThreshold,
		},
	}
}

// Load reads a TOML configuration file, applying the documented fallbacks
// for absent fields. The result is validated before being returned.
func Load(path string) (pipeline.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return pipeline.Config{}, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// Parse parses TOML configuration bytes.
func Parse(data []byte) (pipeline.Config, error) {
	var fs fileSchema
	if err := toml.Unmarshal(data, &fs); err != nil {
		return pipeline.Config{}, fmt.Errorf("parse config: %w", err)
	}

	cfg := Default()
	if fs.MaxChunkTokens > 0 {
		cfg.Chunk.MaxChunkTokens = fs.MaxChunkTokens
	}
	if fs.MinChunkTokens > 0 {
		cfg.Chunk.MinChunkTokens = fs.MinChunkTokens
	}
	if fs.OverlapTokens > 0 {
		cfg.Chunk.OverlapTokens = fs.OverlapTokens
	}
	if fs.GroundingThreshold > 0 {
		cfg.Ground.Threshold = fs.GroundingThreshold
	}
	if fs.Workers > 0 {
		cfg.Workers = fs.Workers
	}
	if fs.SeedFilename != "" {
		cfg.SeedFilename = fs.SeedFilename
	}

	if err := cfg.Chunk.Validate(); err != nil {
		return pipeline.Config{}, err
	}
	if err := cfg.Ground.Validate(); err != nil {
		return pipeline.Config{}, err
	}
	return cfg, nil
}
