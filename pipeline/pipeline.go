// Package pipeline orchestrates the ingestion stages: document loading,
// chunking, grounding and dataset assembly.
//
// Each stage is a pure transform exposed as its own method, and every stage
// boundary is a first-class value on Result — callers can run the whole
// pipeline with Run, or drive the stages individually and inspect or
// reroute intermediate output between steps.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/khaledsulayman/data-ingestion/chunker"
	"github.com/khaledsulayman/data-ingestion/dataset"
	"github.com/khaledsulayman/data-ingestion/domain"
	"github.com/khaledsulayman/data-ingestion/grounder"
	"github.com/khaledsulayman/data-ingestion/internal/identity"
	"github.com/khaledsulayman/data-ingestion/internal/logger"
	"github.com/khaledsulayman/data-ingestion/loaders"
	"github.com/khaledsulayman/data-ingestion/seed"
)

// DefaultWorkers bounds per-document parallelism when the caller does not.
const DefaultWorkers = 4

// Config carries the caller-supplied configuration for one run.
// Nothing here is global: concurrent runs with different configurations in
// the same process are supported.
type Config struct {
	// Chunk bounds the chunker.
	Chunk domain.ChunkConfig

	// Ground configures the grounder.
	Ground domain.GroundConfig

	// Workers is the number of documents processed concurrently.
	// Defaults to DefaultWorkers.
	Workers int

	// SeedFilename is the seed specification filename inside the
	// knowledge directory. Defaults to seed.DefaultFilename.
	SeedFilename string
}

// fingerprint folds the output-relevant configuration into a stable string
// for run identity. Workers is excluded: parallelism does not change the
// output.
func (c Config) fingerprint() string {
	return fmt.Sprintf("%d:%d:%d:%g:%s",
		c.Chunk.MaxChunkTokens, c.Chunk.MinChunkTokens, c.Chunk.OverlapTokens,
		c.Ground.Threshold, c.SeedFilename)
}

// FileFailure records one document file that could not contribute to the
// run. Failures are surfaced as a summary alongside the partial dataset,
// never silently swallowed.
type FileFailure struct {
	Path string
	Err  error
}

// Result holds every stage boundary of a completed run.
type Result struct {
	// RunID identifies the run, derived deterministically from the input
	// directory and configuration so re-runs on unchanged inputs resolve
	// to the same stored artifacts.
	RunID string

	// SeedFile is the parsed seed specification.
	SeedFile *domain.SeedFile

	// Documents are the successfully loaded documents, in path order.
	Documents []*domain.Document

	// Chunks is the full chunk sequence across documents, in
	// (document path, index) order.
	Chunks []domain.Chunk

	// Groundings holds one entry per seed record, in seed order,
	// including explicit Ungrounded results.
	Groundings []domain.Grounding

	// Dataset is the assembled output for the SDG stage.
	Dataset *domain.Dataset

	// Skipped lists files with no registered loader.
	Skipped []string

	// Failures lists files that failed extraction.
	Failures []FileFailure
}

// FailureErr joins all per-file failures into a single error, nil when
// every document loaded cleanly.
func (r *Result) FailureErr() error {
	if len(r.Failures) == 0 {
		return nil
	}
	errs := make([]error, 0, len(r.Failures))
	for _, f := range r.Failures {
		errs = append(errs, fmt.Errorf("%s: %w", f.Path, f.Err))
	}
	return errors.Join(errs...)
}

// Summary returns a one-line account of the run for logs and reports.
func (r *Result) Summary() string {
	ungrounded := 0
	if r.Dataset != nil {
		ungrounded = len(r.Dataset.Ungrounded)
	}
	return fmt.Sprintf(
		"documents=%d chunks=%d seeds=%d ungrounded=%d skipped=%d failed=%d",
		len(r.Documents), len(r.Chunks), len(r.Groundings),
		ungrounded, len(r.Skipped), len(r.Failures),
	)
}

// Pipeline runs the ingestion stages over one knowledge directory.
type Pipeline struct {
	cfg      Config
	registry *loaders.Registry
	chunker  *chunker.Chunker
	grounder *grounder.Grounder
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithRegistry replaces the default loader registry.
func WithRegistry(r *loaders.Registry) Option {
	return func(p *Pipeline) {
		if r != nil {
			p.registry = r
		}
	}
}

// WithChunker replaces the chunker built from Config.Chunk, for callers
// that need a custom token counter.
func WithChunker(c *chunker.Chunker) Option {
	return func(p *Pipeline) {
		if c != nil {
			p.chunker = c
		}
	}
}

// WithGrounder replaces the grounder built from Config.Ground, for callers
// that need a custom scorer.
func WithGrounder(g *grounder.Grounder) Option {
	return func(p *Pipeline) {
		if g != nil {
			p.grounder = g
		}
	}
}

// New creates a pipeline, validating the configuration up front.
func New(cfg Config, opts ...Option) (*Pipeline, error) {
	if cfg.Workers <= 0 {
		cfg.Workers = DefaultWorkers
	}
	if cfg.SeedFilename == "" {
		cfg.SeedFilename = seed.DefaultFilename
	}

	ck, err := chunker.New(cfg.Chunk)
	if err != nil {
		return nil, err
	}
	gr, err := grounder.New(cfg.Ground)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		cfg:      cfg,
		registry: loaders.NewDefaultRegistry(),
		chunker:  ck,
		grounder: gr,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Run executes the full pipeline over a knowledge directory: one seed
// specification file plus zero-or-more sibling documents.
//
// Only seed-file malformation aborts the run; document failures are
// collected on the result next to the partial dataset.
func (p *Pipeline) Run(ctx context.Context, dir string) (*Result, error) {
	logger.Section("Ingestion Run")
	logger.Info("Knowledge directory: %s", dir)

	seedFile, docPaths, skipped, err := p.enumerate(dir)
	if err != nil {
		return nil, err
	}

	result := &Result{
		RunID:    identity.RunID(dir, p.cfg.fingerprint()),
		SeedFile: seedFile,
		Skipped:  skipped,
	}

	docs, chunks, failures, err := p.LoadAndChunk(ctx, docPaths)
	if err != nil {
		return nil, err
	}
	result.Documents = docs
	result.Chunks = chunks
	result.Failures = failures

	groundings, err := p.Ground(ctx, seedFile.Records, chunks)
	if err != nil {
		return nil, err
	}
	result.Groundings = groundings

	result.Dataset = dataset.Build(chunks, seedFile.Records, groundings)

	logger.Info("Run complete: %s", result.Summary())
	return result, nil
}

// Ground resolves each seed record against the full chunk sequence, the
// second pipeline stage.
func (p *Pipeline) Ground(ctx context.Context, seeds []domain.SeedRecord, chunks []domain.Chunk) ([]domain.Grounding, error) {
	return p.grounder.Ground(ctx, seeds, chunks)
}

// enumerate lists the knowledge directory, parses the seed file and
// returns the document paths in deterministic (sorted) order.
func (p *Pipeline) enumerate(dir string) (*domain.SeedFile, []string, []string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("read knowledge directory: %w", err)
	}

	var seedPath string
	var docPaths, skipped []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if entry.Name() == p.cfg.SeedFilename {
			seedPath = path
			continue
		}
		if !p.registry.Supported(path) {
			logger.Warn("Skipping unsupported file: %s", path)
			skipped = append(skipped, path)
			continue
		}
		docPaths = append(docPaths, path)
	}

	if seedPath == "" {
		return nil, nil, nil, fmt.Errorf("%w: no %s in %s",
			domain.ErrInvalidInput, p.cfg.SeedFilename, dir)
	}

	// File-system iteration order is platform-dependent; sort for
	// reproducible output.
	sort.Strings(docPaths)
	sort.Strings(skipped)

	seedFile, err := seed.ParseFile(seedPath)
	if err != nil {
		return nil, nil, nil, err
	}
	logger.Info("Parsed %d seed examples from %s", len(seedFile.Records), seedPath)

	return seedFile, docPaths, skipped, nil
}

// LoadAndChunk loads and chunks each document, the first pipeline stage.
// Documents are independent, so they are processed in parallel with no
// shared mutable state: each worker owns its slot in the result slices.
//
// Exposed separately from Run so callers can inspect or reroute documents
// and chunks between stages.
func (p *Pipeline) LoadAndChunk(ctx context.Context, docPaths []string) ([]*domain.Document, []domain.Chunk, []FileFailure, error) {
	type slot struct {
		doc    *domain.Document
		chunks []domain.Chunk
		err    error
	}
	slots := make([]slot, len(docPaths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.cfg.Workers)

	for i, path := range docPaths {
		g.Go(func() error {
			doc, err := p.registry.Load(gctx, path)
			if err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					return err
				}
				slots[i].err = err
				return nil
			}
			logger.Debug("Loaded %s: %d blocks", path, len(doc.Blocks))

			chunks, err := p.chunker.ChunkDocument(gctx, doc)
			if err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					return err
				}
				slots[i].err = err
				return nil
			}
			logger.Debug("Chunked %s: %d chunks", path, len(chunks))

			slots[i].doc = doc
			slots[i].chunks = chunks
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, nil, err
	}

	var docs []*domain.Document
	var chunks []domain.Chunk
	var failures []FileFailure
	for i, s := range slots {
		if s.err != nil {
			logger.Warn("Document failed: %s: %v", docPaths[i], s.err)
			failures = append(failures, FileFailure{Path: docPaths[i], Err: s.err})
			continue
		}
		docs = append(docs, s.doc)
		chunks = append(chunks, s.chunks...)
	}

	return docs, chunks, failures, nil
}
