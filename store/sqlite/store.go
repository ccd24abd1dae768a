// Package sqlite persists pipeline stage outputs to a SQLite database.
//
// The store is an artifact cache, not a source of truth: every value it
// holds is recomputable from the source directory. Persisting stage
// boundaries lets callers inspect a past run's documents, chunks and
// groundings, or re-run a later stage from cached intermediates without
// re-extracting the documents.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/khaledsulayman/data-ingestion/domain"
	"github.com/khaledsulayman/data-ingestion/store/sqlite/migrations"
)

// Store is a SQLite-backed artifact store for pipeline runs.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates (or opens) an artifact store at the given database path.
// Parent directories are created as needed.
func NewStore(dbPath string) (*Store, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("artifact store: %w: empty path", domain.ErrInvalidInput)
	}

	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
	}

	// WAL mode for concurrent readers while a run is being written
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// migrate applies any pending .up.sql migrations from the embedded set.
func (s *Store) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			upFiles = append(upFiles, entry.Name())
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("applying migration %s: %w", name, err)
		}
		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// SaveRun registers a run. Saving an existing run ID replaces all of its
// artifacts, since a re-run supersedes the previous generation wholesale.
func (s *Store) SaveRun(ctx context.Context, runID, dir string) error {
	if err := s.DeleteRun(ctx, runID); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO runs (id, dir) VALUES (?, ?)", runID, dir)
	if err != nil {
		return fmt.Errorf("saving run: %w", err)
	}
	return nil
}

// DeleteRun removes a run and all of its artifacts.
func (s *Store) DeleteRun(ctx context.Context, runID string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM runs WHERE id = ?", runID); err != nil {
		return fmt.Errorf("deleting run: %w", err)
	}
	return nil
}

// SaveDocuments persists loaded documents for a run. Block structure is
// stored as JSON so documents round-trip exactly.
func (s *Store) SaveDocuments(ctx context.Context, runID string, docs []*domain.Document) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	for _, doc := range docs {
		blocks, err := json.Marshal(doc.Blocks)
		if err != nil {
			return fmt.Errorf("marshal blocks for %s: %w", doc.Path, err)
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO documents (id, run_id, path, format, pages, blocks)
			VALUES (?, ?, ?, ?, ?, ?)`,
			doc.ID, runID, doc.Path, doc.Format, doc.Pages, string(blocks))
		if err != nil {
			return fmt.Errorf("saving document %s: %w", doc.Path, err)
		}
	}

	return tx.Commit()
}

// GetDocuments returns a run's documents in path order.
func (s *Store) GetDocuments(ctx context.Context, runID string) ([]*domain.Document, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, path, format, pages, blocks
		FROM documents WHERE run_id = ? ORDER BY path`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying documents: %w", err)
	}
	defer rows.Close()

	var docs []*domain.Document
	for rows.Next() {
		doc := &domain.Document{}
		var blocks string
		if err := rows.Scan(&doc.ID, &doc.Path, &doc.Format, &doc.Pages, &blocks); err != nil {
			return nil, fmt.Errorf("scanning document: %w", err)
		}
		if err := json.Unmarshal([]byte(blocks), &doc.Blocks); err != nil {
			return nil, fmt.Errorf("unmarshal blocks for %s: %w", doc.Path, err)
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

// SaveChunks persists a run's chunk sequence.
func (s *Store) SaveChunks(ctx context.Context, runID string, chunks []domain.Chunk) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	for _, c := range chunks {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO chunks
			(id, run_id, document_id, document_path, content, token_count,
			 idx, start_block, end_block, page, oversized)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			c.ID, runID, c.DocumentID, c.DocumentPath, c.Text, c.TokenCount,
			c.Index, c.StartBlock, c.EndBlock, c.Page, boolToInt(c.Oversized))
		if err != nil {
			return fmt.Errorf("saving chunk %s: %w", c.ID, err)
		}
	}

	return tx.Commit()
}

// GetChunks returns a run's chunks in (document path, index) order.
func (s *Store) GetChunks(ctx context.Context, runID string) ([]domain.Chunk, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, document_id, document_path, content, token_count,
		       idx, start_block, end_block, page, oversized
		FROM chunks WHERE run_id = ? ORDER BY document_path, idx`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying chunks: %w", err)
	}
	defer rows.Close()

	var chunks []domain.Chunk
	for rows.Next() {
		var c domain.Chunk
		var oversized int
		err := rows.Scan(&c.ID, &c.DocumentID, &c.DocumentPath, &c.Text,
			&c.TokenCount, &c.Index, &c.StartBlock, &c.EndBlock, &c.Page, &oversized)
		if err != nil {
			return nil, fmt.Errorf("scanning chunk: %w", err)
		}
		c.Oversized = oversized != 0
		chunks = append(chunks, c)
	}
	return chunks, rows.Err()
}

// SaveGroundings persists a run's groundings, including ungrounded ones.
func (s *Store) SaveGroundings(ctx context.Context, runID string, groundings []domain.Grounding) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	for _, g := range groundings {
		chunkIDs, err := json.Marshal(g.ChunkIDs)
		if err != nil {
			return fmt.Errorf("marshal chunk ids for %s: %w", g.SeedID, err)
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO groundings
			(run_id, seed_id, chunk_ids, confidence, method,
			 span_start, span_end, ungrounded)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			runID, g.SeedID, string(chunkIDs), g.Confidence, int(g.Method),
			g.MatchedSpan.Start, g.MatchedSpan.End, boolToInt(g.Ungrounded))
		if err != nil {
			return fmt.Errorf("saving grounding %s: %w", g.SeedID, err)
		}
	}

	return tx.Commit()
}

// GetGroundings returns a run's groundings in seed order.
func (s *Store) GetGroundings(ctx context.Context, runID string) ([]domain.Grounding, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT seed_id, chunk_ids, confidence, method,
		       span_start, span_end, ungrounded
		FROM groundings WHERE run_id = ? ORDER BY rowid`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying groundings: %w", err)
	}
	defer rows.Close()

	var groundings []domain.Grounding
	for rows.Next() {
		var g domain.Grounding
		var chunkIDs string
		var method, ungrounded int
		err := rows.Scan(&g.SeedID, &chunkIDs, &g.Confidence, &method,
			&g.MatchedSpan.Start, &g.MatchedSpan.End, &ungrounded)
		if err != nil {
			return nil, fmt.Errorf("scanning grounding: %w", err)
		}
		if err := json.Unmarshal([]byte(chunkIDs), &g.ChunkIDs); err != nil {
			return nil, fmt.Errorf("unmarshal chunk ids for %s: %w", g.SeedID, err)
		}
		g.Method = domain.GroundingMethod(method)
		g.Ungrounded = ungrounded != 0
		groundings = append(groundings, g)
	}
	return groundings, rows.Err()
}

// SaveResultArtifacts persists every stage boundary of a completed run.
func (s *Store) SaveResultArtifacts(ctx context.Context, runID, dir string,
	docs []*domain.Document, chunks []domain.Chunk, groundings []domain.Grounding) error {

	if err := s.SaveRun(ctx, runID, dir); err != nil {
		return err
	}
	if err := s.SaveDocuments(ctx, runID, docs); err != nil {
		return err
	}
	if err := s.SaveChunks(ctx, runID, chunks); err != nil {
		return err
	}
	return s.SaveGroundings(ctx, runID, groundings)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
