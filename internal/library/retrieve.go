// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package library

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/ppopescu/chapterize/pkg/types"
)

// DocumentRecord summarizes one stored document for listings.
type DocumentRecord struct {
	ID         string
	Path       string
	Pages      int
	Chapters   int
	Tool       string
	AnalyzedAt time.Time
}

// List returns all stored documents, most recently analyzed first.
func (s *Store) List(ctx context.Context) ([]DocumentRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT d.id, d.path, d.pages, d.tool, d.analyzed_at, COUNT(c.rowid)
		 FROM documents d
		 LEFT JOIN chapters c ON c.document_id = d.id
		 GROUP BY d.id
		 ORDER BY d.analyzed_at DESC, d.path`)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}
	defer rows.Close()

	var records []DocumentRecord
	for rows.Next() {
		var (
			rec      DocumentRecord
			tool     sql.NullString
			analyzed string
		)
		if err := rows.Scan(&rec.ID, &rec.Path, &rec.Pages, &tool, &analyzed, &rec.Chapters); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		if tool.Valid {
			rec.Tool = tool.String
		}
		if t, err := time.Parse(time.RFC3339Nano, analyzed); err == nil {
			rec.AnalyzedAt = t
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}

// QueryOptions holds parameters for chapter searches.
type QueryOptions struct {
	// Query is the FTS5 full-text search string over chapter titles.
	Query string

	// Source filters by detection signal.
	Source types.Source

	// MinConfidence drops chapters below the given confidence.
	MinConfidence float64

	// Document filters by document id or source path.
	Document string

	// MaxResults limits result count. Zero uses the store default.
	MaxResults int
}

// IsEmpty reports whether the query has no search terms or filters.
func (q QueryOptions) IsEmpty() bool {
	return q.Query == "" && q.Source == "" && q.MinConfidence == 0 && q.Document == ""
}

// SearchResult is a stored chapter with its owning document.
type SearchResult struct {
	types.Chapter
	DocumentID   string `json:"document_id" yaml:"document_id"`
	DocumentPath string `json:"document_path" yaml:"document_path"`
}

// Search queries stored chapters with optional full-text search and
// structured filters. Results are ranked by relevance for full-text
// queries or sorted by document path and chapter order otherwise.
func (s *Store) Search(ctx context.Context, opts QueryOptions) ([]SearchResult, error) {
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = s.maxResults
	}

	var (
		qb     strings.Builder
		args   []any
		useFTS = opts.Query != ""
	)

	if useFTS {
		qb.WriteString(
			`SELECT c.title, c.start_page, c.end_page, c.level, c.source, c.confidence,
				d.id, d.path, chapters_fts.rank
			FROM chapters_fts
			JOIN chapters c ON c.rowid = chapters_fts.rowid
			JOIN documents d ON c.document_id = d.id
			WHERE chapters_fts MATCH ?`)
		args = append(args, opts.Query)
	} else {
		qb.WriteString(
			`SELECT c.title, c.start_page, c.end_page, c.level, c.source, c.confidence,
				d.id, d.path, 0 AS rank
			FROM chapters c
			JOIN documents d ON c.document_id = d.id
			WHERE 1=1`)
	}

	if opts.Source != "" {
		qb.WriteString(` AND c.source = ?`)
		args = append(args, string(opts.Source))
	}

	if opts.MinConfidence > 0 {
		qb.WriteString(` AND c.confidence >= ?`)
		args = append(args, opts.MinConfidence)
	}

	if opts.Document != "" {
		qb.WriteString(` AND (d.id = ? OR d.path = ?)`)
		args = append(args, opts.Document, opts.Document)
	}

	if useFTS {
		qb.WriteString(` ORDER BY chapters_fts.rank`)
	} else {
		qb.WriteString(` ORDER BY d.path, c.seq`)
	}

	qb.WriteString(` LIMIT ?`)
	args = append(args, maxResults)

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying library: %w", err)
	}
	defer rows.Close()

	var results []SearchResult
	for rows.Next() {
		var (
			sr     SearchResult
			source string
			rank   float64
		)
		if err := rows.Scan(
			&sr.Title, &sr.StartPage, &sr.EndPage, &sr.Level, &source, &sr.Confidence,
			&sr.DocumentID, &sr.DocumentPath, &rank,
		); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		sr.Source = types.Source(source)
		results = append(results, sr)
	}

	return results, rows.Err()
}
