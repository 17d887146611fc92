// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package detect

import (
	"context"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/ppopescu/chapterize/internal/document"
	"github.com/ppopescu/chapterize/pkg/types"
)

// typographyConfidence ranks formatting-derived boundaries below outline
// and contents evidence.
const typographyConfidence = 0.6

// defaultMedianSize is assumed when no run in the document carries a
// usable font size.
const defaultMedianSize = 12.0

// Chapter-label patterns recognized in heading text: English and Romanian
// keyword forms, numbered headings, and roman-numbered headings.
var chapterPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^(chapter|capitolul|capitol|cap\.|part|partea|section|sec[țt]iunea|sec[țt]iune)\s+\S+`),
	regexp.MustCompile(`^\d{1,3}[.)]\s+\p{Lu}`),
	regexp.MustCompile(`^[IVXLCDM]{1,10}[.)]\s+\p{Lu}`),
}

// Typography scans text lines for heading-like formatting: a font size
// well above the document median, or bold text carrying a chapter label.
type Typography struct {
	minRatio float64
	maxLen   int
}

// NewTypography returns the typography extractor with cfg's thresholds,
// falling back to the defaults for unset values.
func NewTypography(cfg types.DetectConfig) *Typography {
	minRatio := cfg.MinHeadingRatio
	if minRatio <= 0 {
		minRatio = 1.20
	}
	maxLen := cfg.MaxHeadingLen
	if maxLen <= 0 {
		maxLen = 200
	}
	return &Typography{minRatio: minRatio, maxLen: maxLen}
}

// Name implements Extractor.
func (t *Typography) Name() string { return string(types.SourceTypography) }

// Extract implements Extractor. At most one heading is accepted per page,
// first match wins, which suppresses running headers repeated per line.
func (t *Typography) Extract(ctx context.Context, doc document.Document) ([]types.Chapter, error) {
	median := medianFontSize(doc)

	var chapters []types.Chapter
	for i := 0; i < doc.PageCount(); i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for _, run := range doc.PageTextRuns(i) {
			text := strings.TrimSpace(run.Text)
			if text == "" || utf8.RuneCountInString(text) > t.maxLen {
				continue
			}
			if !t.isHeading(text, run, median) {
				continue
			}
			chapters = append(chapters, types.Chapter{
				Title:      text,
				StartPage:  i,
				Level:      1,
				Source:     types.SourceTypography,
				Confidence: typographyConfidence,
			})
			break
		}
	}
	return chapters, nil
}

// isHeading applies the heading heuristic: the line must stand out
// (oversized or bold) and look like a heading (chapter label or
// oversized).
func (t *Typography) isHeading(text string, run document.TextRun, median float64) bool {
	big := run.FontSize > 0 && run.FontSize/median >= t.minRatio
	if !big && !run.Bold {
		return false
	}
	return big || matchesChapterPattern(text)
}

// matchesChapterPattern reports whether text starts like a chapter label.
func matchesChapterPattern(text string) bool {
	for _, re := range chapterPatterns {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}

// medianFontSize computes the document-wide median over all runs with a
// positive font size.
func medianFontSize(doc document.Document) float64 {
	var sizes []float64
	for i := 0; i < doc.PageCount(); i++ {
		for _, run := range doc.PageTextRuns(i) {
			if run.FontSize > 0 {
				sizes = append(sizes, run.FontSize)
			}
		}
	}
	if len(sizes) == 0 {
		return defaultMedianSize
	}
	sort.Float64s(sizes)
	n := len(sizes)
	if n%2 == 1 {
		return sizes[n/2]
	}
	return (sizes[n/2-1] + sizes[n/2]) / 2
}
