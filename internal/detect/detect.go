// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package detect locates chapter boundaries in paginated documents.
// Four independent extractors each propose candidates from one signal
// (outline tree, heading typography, printed table of contents, structural
// markers); a merge stage reconciles the candidate lists into a single
// ordered, non-overlapping chapter sequence covering the whole document.
package detect

import (
	"context"
	"fmt"

	"github.com/ppopescu/chapterize/internal/document"
	"github.com/ppopescu/chapterize/internal/pagelabels"
	"github.com/ppopescu/chapterize/pkg/types"
)

// Extractor proposes chapter candidates from a single detection signal.
// Implementations return a possibly-empty ordered list with Source set
// and EndPage unset. Pages that cannot be analyzed are skipped; only
// context cancellation aborts a scan.
type Extractor interface {
	Name() string
	Extract(ctx context.Context, doc document.Document) ([]types.Chapter, error)
}

// extractorOrder is the priority order for candidate concatenation. The
// merger keeps the first candidate at a contested start page, so earlier
// extractors win ties.
var extractorOrder = []string{
	string(types.SourceOutline),
	string(types.SourceTypography),
	string(types.SourceTOC),
	string(types.SourceStructural),
}

// buildExtractors instantiates the extractors named in cfg.Extractors,
// always in priority order regardless of how the names were given. An
// empty list selects all four.
func buildExtractors(cfg types.DetectConfig, index *pagelabels.Index) ([]Extractor, error) {
	selected := make(map[string]bool, len(cfg.Extractors))
	for _, name := range cfg.Extractors {
		switch name {
		case string(types.SourceOutline), string(types.SourceTypography),
			string(types.SourceTOC), string(types.SourceStructural):
			selected[name] = true
		default:
			return nil, fmt.Errorf("unknown extractor %q", name)
		}
	}
	all := len(selected) == 0

	var extractors []Extractor
	for _, name := range extractorOrder {
		if !all && !selected[name] {
			continue
		}
		switch name {
		case string(types.SourceOutline):
			extractors = append(extractors, NewOutline())
		case string(types.SourceTypography):
			extractors = append(extractors, NewTypography(cfg))
		case string(types.SourceTOC):
			extractors = append(extractors, NewTOC(cfg, index))
		case string(types.SourceStructural):
			extractors = append(extractors, NewStructural(cfg))
		}
	}
	return extractors, nil
}
