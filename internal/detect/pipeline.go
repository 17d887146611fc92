// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package detect

import (
	"context"
	"log/slog"
	"time"

	"github.com/ppopescu/chapterize/internal/document"
	"github.com/ppopescu/chapterize/internal/pagelabels"
	"github.com/ppopescu/chapterize/pkg/types"
)

// Detect runs the configured extractors against doc and merges their
// candidates into a chapter plan. One extractor failing is logged and
// skipped, not fatal: any readable document yields a usable plan, in the
// worst case the single-chapter fallback. Only context cancellation and a
// bad extractor selection abort.
func Detect(ctx context.Context, doc document.Document, cfg types.DetectConfig, logger *slog.Logger) (*types.Plan, error) {
	if logger == nil {
		logger = slog.Default()
	}

	index := pagelabels.Build(doc)
	logger.Debug("page label index built",
		"strategy", index.Strategy(), "entries", index.Len())

	extractors, err := buildExtractors(cfg, index)
	if err != nil {
		return nil, err
	}

	lists := make([][]types.Chapter, 0, len(extractors))
	for _, ex := range extractors {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		candidates, err := ex.Extract(ctx, doc)
		if err != nil {
			if ctx.Err() != nil {
				return nil, err
			}
			logger.Warn("extractor failed", "extractor", ex.Name(), "error", err)
			continue
		}
		logger.Debug("extractor finished",
			"extractor", ex.Name(), "candidates", len(candidates))
		lists = append(lists, candidates)
	}

	return &types.Plan{
		Pages:       doc.PageCount(),
		GeneratedAt: time.Now().UTC(),
		Chapters:    Merge(lists, doc.PageCount()),
	}, nil
}
