// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package library persists analysis plans in a SQLite catalog. Each
// analyzed document keeps one row plus its chapter sequence, and chapter
// titles are indexed for full-text search.
package library

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/ppopescu/chapterize/pkg/types"
)

const dbFile = "chapterize.db"

// ErrNotFound reports that no stored document matches a reference.
var ErrNotFound = errors.New("document not found in library")

// Store manages the catalog SQLite database.
type Store struct {
	db         *sql.DB
	maxResults int
}

// Open opens or creates the catalog database at cfg.Path. It creates the
// schema if it does not exist.
func Open(cfg types.LibraryConfig) (*Store, error) {
	path := cfg.Path
	if path == "" {
		path = dbFile
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating library directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 20
	}

	s := &Store{db: db, maxResults: maxResults}

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
			id TEXT PRIMARY KEY,
			path TEXT NOT NULL UNIQUE,
			pages INTEGER NOT NULL,
			tool TEXT,
			analyzed_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS chapters (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			document_id TEXT NOT NULL REFERENCES documents(id),
			seq INTEGER NOT NULL,
			title TEXT NOT NULL,
			start_page INTEGER NOT NULL,
			end_page INTEGER NOT NULL,
			level INTEGER NOT NULL,
			source TEXT NOT NULL,
			confidence REAL NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_chapters_document_id ON chapters(document_id)`,
		`CREATE INDEX IF NOT EXISTS idx_chapters_source ON chapters(source)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	// FTS5 virtual table with triggers for sync.
	var ftsExists int
	if err := s.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='chapters_fts'`,
	).Scan(&ftsExists); err != nil {
		return fmt.Errorf("checking FTS table: %w", err)
	}

	if ftsExists == 0 {
		ftsStatements := []string{
			`CREATE VIRTUAL TABLE chapters_fts USING fts5(title, content=chapters, content_rowid=rowid)`,
			`CREATE TRIGGER chapters_ai AFTER INSERT ON chapters BEGIN
				INSERT INTO chapters_fts(rowid, title) VALUES (new.rowid, new.title);
			END`,
			`CREATE TRIGGER chapters_ad AFTER DELETE ON chapters BEGIN
				INSERT INTO chapters_fts(chapters_fts, rowid, title) VALUES('delete', old.rowid, old.title);
			END`,
			`CREATE TRIGGER chapters_au AFTER UPDATE ON chapters BEGIN
				INSERT INTO chapters_fts(chapters_fts, rowid, title) VALUES('delete', old.rowid, old.title);
				INSERT INTO chapters_fts(rowid, title) VALUES (new.rowid, new.title);
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

// Save stores a plan, replacing any prior analysis of the same source
// path. The document id is generated on first save and kept stable across
// re-analysis. Returns the id.
func (s *Store) Save(ctx context.Context, plan *types.Plan) (string, error) {
	if plan.Source == "" {
		return "", fmt.Errorf("plan has no source path")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var id string
	err = tx.QueryRowContext(ctx,
		`SELECT id FROM documents WHERE path = ?`, plan.Source,
	).Scan(&id)
	switch {
	case err == sql.ErrNoRows:
		id = uuid.New().String()
	case err != nil:
		return "", fmt.Errorf("looking up document: %w", err)
	default:
		if _, err := tx.ExecContext(ctx, `DELETE FROM chapters WHERE document_id = ?`, id); err != nil {
			return "", fmt.Errorf("deleting old chapters: %w", err)
		}
	}

	analyzedAt := plan.GeneratedAt
	if analyzedAt.IsZero() {
		analyzedAt = time.Now().UTC()
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO documents (id, path, pages, tool, analyzed_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			pages=excluded.pages, tool=excluded.tool, analyzed_at=excluded.analyzed_at`,
		id, plan.Source, plan.Pages, plan.Tool, analyzedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return "", fmt.Errorf("upserting document: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO chapters (document_id, seq, title, start_page, end_page, level, source, confidence)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, ch := range plan.Chapters {
		_, err := stmt.ExecContext(ctx,
			id, i, ch.Title, ch.StartPage, ch.EndPage, ch.Level,
			string(ch.Source), ch.Confidence,
		)
		if err != nil {
			return "", fmt.Errorf("inserting chapter %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}
	return id, nil
}

// Delete removes a stored document and its chapters. The reference may be
// a document id or a source path.
func (s *Store) Delete(ctx context.Context, ref string) error {
	id, err := s.resolveRef(ctx, ref)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM chapters WHERE document_id = ?`, id); err != nil {
		return fmt.Errorf("deleting chapters: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM documents WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting document: %w", err)
	}

	return tx.Commit()
}

func (s *Store) resolveRef(ctx context.Context, ref string) (string, error) {
	var id string
	err := s.db.QueryRowContext(ctx,
		`SELECT id FROM documents WHERE id = ? OR path = ?`, ref, ref,
	).Scan(&id)
	if err == sql.ErrNoRows {
		return "", fmt.Errorf("%w: %s", ErrNotFound, ref)
	}
	if err != nil {
		return "", fmt.Errorf("resolving document reference: %w", err)
	}
	return id, nil
}
