// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists a generated citation index in SQLite so the
// downstream consumer can query it instead of rescanning citations.json.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/citeindex/pkg/types"
)

const dbFile = "citations.db"

// Store manages the citation SQLite database.
type Store struct {
	db         *sql.DB
	indexDir   string
	maxResults int
}

// NewStore opens or creates the citation database at
// indexDir/citations.db, creating the schema if it does not exist.
func NewStore(cfg types.StoreConfig) (*Store, error) {
	if err := os.MkdirAll(cfg.IndexDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}

	dbPath := filepath.Join(cfg.IndexDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 20
	}

	s := &Store{
		db:         db,
		indexDir:   cfg.IndexDir,
		maxResults: maxResults,
	}

	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS documents (
			source_id TEXT PRIMARY KEY,
			source_type TEXT NOT NULL,
			title TEXT,
			url TEXT,
			pages INTEGER
		)`,
		`CREATE TABLE IF NOT EXISTS records (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			source_id TEXT NOT NULL REFERENCES documents(source_id),
			page INTEGER,
			text TEXT NOT NULL,
			url TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_records_source ON records(source_id)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	// FTS5 virtual table with triggers for sync. mattn/go-sqlite3 only
	// compiles the fts5 module under the sqlite_fts5 build tag; mage
	// Build/Test pass it.
	var ftsExists int
	if err := s.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='records_fts'`,
	).Scan(&ftsExists); err != nil {
		return fmt.Errorf("checking FTS table: %w", err)
	}

	if ftsExists == 0 {
		ftsStatements := []string{
			`CREATE VIRTUAL TABLE records_fts USING fts5(text, content=records, content_rowid=rowid)`,
			`CREATE TRIGGER records_ai AFTER INSERT ON records BEGIN
				INSERT INTO records_fts(rowid, text) VALUES (new.rowid, new.text);
			END`,
			`CREATE TRIGGER records_ad AFTER DELETE ON records BEGIN
				INSERT INTO records_fts(records_fts, rowid, text) VALUES('delete', old.rowid, old.text);
			END`,
			`CREATE TRIGGER records_au AFTER UPDATE ON records BEGIN
				INSERT INTO records_fts(records_fts, rowid, text) VALUES('delete', old.rowid, old.text);
				INSERT INTO records_fts(rowid, text) VALUES (new.rowid, new.text);
			END`,
		}
		for _, stmt := range ftsStatements {
			if _, err := s.db.Exec(stmt); err != nil {
				return fmt.Errorf("creating FTS infrastructure: %w", err)
			}
		}
	}

	return nil
}

// IngestSummary holds counts from a citation index load.
type IngestSummary struct {
	Documents int
	Records   int
	Replaced  int
}

// Ingest loads a citations.json file produced by the build pipeline
// into the database. Documents already present under the same source
// identifier are replaced wholesale; runs are not merged.
func (s *Store) Ingest(ctx context.Context, path string, w io.Writer) (IngestSummary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return IngestSummary{}, fmt.Errorf("reading citation index %s: %w", path, err)
	}

	var records []types.CitationRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return IngestSummary{}, fmt.Errorf("parsing citation index %s: %w", path, err)
	}

	// Group into documents, preserving first-seen order.
	var order []string
	grouped := make(map[string][]types.CitationRecord)
	for _, r := range records {
		if _, seen := grouped[r.SourceID]; !seen {
			order = append(order, r.SourceID)
		}
		grouped[r.SourceID] = append(grouped[r.SourceID], r)
	}

	var summary IngestSummary
	for _, sourceID := range order {
		group := grouped[sourceID]

		replaced, err := s.ingestDocument(ctx, sourceID, group)
		if err != nil {
			return summary, fmt.Errorf("ingesting %s: %w", sourceID, err)
		}

		if replaced {
			summary.Replaced++
			fmt.Fprintf(w, "replaced %s (%d records)\n", sourceID, len(group))
		} else {
			fmt.Fprintf(w, "indexed  %s (%d records)\n", sourceID, len(group))
		}
		summary.Documents++
		summary.Records += len(group)
	}

	fmt.Fprintf(w, "\ndocuments: %d, records: %d, replaced: %d\n",
		summary.Documents, summary.Records, summary.Replaced)
	return summary, nil
}

func (s *Store) ingestDocument(ctx context.Context, sourceID string, group []types.CitationRecord) (replaced bool, err error) {
	var exists int
	if err := s.db.QueryRowContext(ctx,
		`SELECT count(*) FROM documents WHERE source_id = ?`, sourceID,
	).Scan(&exists); err != nil {
		return false, err
	}
	replaced = exists > 0

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	if replaced {
		if _, err := tx.ExecContext(ctx, `DELETE FROM records WHERE source_id = ?`, sourceID); err != nil {
			return false, err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM documents WHERE source_id = ?`, sourceID); err != nil {
			return false, err
		}
	}

	first := group[0]
	pages := 0
	for _, r := range group {
		if r.PageNumber != nil {
			pages++
		}
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO documents (source_id, source_type, title, url, pages) VALUES (?, ?, ?, ?, ?)`,
		sourceID, string(first.SourceType), first.DocumentTitle, first.URL, pages,
	); err != nil {
		return false, err
	}

	for _, r := range group {
		var page any
		if r.PageNumber != nil {
			page = *r.PageNumber
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO records (source_id, page, text, url) VALUES (?, ?, ?, ?)`,
			r.SourceID, page, r.TextSnippet, r.URL,
		); err != nil {
			return false, err
		}
	}

	return replaced, tx.Commit()
}
