// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package library

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/ppopescu/chapterize/pkg/types"
)

// Plan reconstructs the stored analysis plan for a document. The result
// can be written back to disk and fed to split. The reference may be a
// document id or a source path.
func (s *Store) Plan(ctx context.Context, ref string) (*types.Plan, error) {
	id, err := s.resolveRef(ctx, ref)
	if err != nil {
		return nil, err
	}

	var (
		plan     types.Plan
		tool     sql.NullString
		analyzed string
	)
	err = s.db.QueryRowContext(ctx,
		`SELECT path, pages, tool, analyzed_at FROM documents WHERE id = ?`, id,
	).Scan(&plan.Source, &plan.Pages, &tool, &analyzed)
	if err != nil {
		return nil, fmt.Errorf("reading document: %w", err)
	}
	if tool.Valid {
		plan.Tool = tool.String
	}
	if t, err := time.Parse(time.RFC3339Nano, analyzed); err == nil {
		plan.GeneratedAt = t
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT title, start_page, end_page, level, source, confidence
		 FROM chapters WHERE document_id = ? ORDER BY seq`, id)
	if err != nil {
		return nil, fmt.Errorf("reading chapters: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			ch     types.Chapter
			source string
		)
		if err := rows.Scan(&ch.Title, &ch.StartPage, &ch.EndPage, &ch.Level, &source, &ch.Confidence); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		ch.Source = types.Source(source)
		plan.Chapters = append(plan.Chapters, ch)
	}

	return &plan, rows.Err()
}

// ExportYAML writes the stored plan for a document as YAML.
func (s *Store) ExportYAML(ctx context.Context, ref string, w io.Writer) error {
	plan, err := s.Plan(ctx, ref)
	if err != nil {
		return err
	}
	data, err := yaml.Marshal(plan)
	if err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	_, err = w.Write(data)
	return err
}

// ExportJSON writes the stored plan for a document as indented JSON.
func (s *Store) ExportJSON(ctx context.Context, ref string, w io.Writer) error {
	plan, err := s.Plan(ctx, ref)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(plan, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}
