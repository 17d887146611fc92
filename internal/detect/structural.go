// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package detect

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/ppopescu/chapterize/internal/document"
	"github.com/ppopescu/chapterize/internal/numerals"
	"github.com/ppopescu/chapterize/pkg/types"
)

// structuralConfidence is the lowest in the set: structural cues are
// conventions, not declarations.
const structuralConfidence = 0.4

// maxHeaderLen caps how long a first line may be and still count as a
// running header. Longer lines are body prose.
const maxHeaderLen = 80

// minHeaderStreak is how many consecutive even pages must repeat a header
// token before a change counts as a boundary. Body text never repeats its
// leading word page after page; real running headers do.
const minHeaderStreak = 2

// blankMarkerRe matches "intentionally blank" marker phrases on
// normalized page text.
var blankMarkerRe = regexp.MustCompile(`\b(this )?page (is )?intentionally (left )?blank\b|\bintentionally left blank\b`)

// Structural infers boundaries from layout conventions rather than
// content: explicit "intentionally blank" delimiter pages, and changes in
// the even-page running header.
type Structural struct {
	policy types.MarkerPolicy
}

// NewStructural returns the structural extractor honoring cfg's marker
// policy: the chapter start is the delimiter page itself or the page
// immediately preceding it.
func NewStructural(cfg types.DetectConfig) *Structural {
	policy := cfg.MarkerPolicy
	if policy == "" {
		policy = types.MarkerDelimiter
	}
	return &Structural{policy: policy}
}

// Name implements Extractor.
func (s *Structural) Name() string { return string(types.SourceStructural) }

// boundary is a structural cue before title synthesis. Header
// discontinuities carry the new header as title; marker pages carry none.
type boundary struct {
	page  int
	title string
}

// Extract implements Extractor. Both modes run; their boundaries are
// merged by page, and untitled ones get synthesized "Section N" titles in
// page order.
func (s *Structural) Extract(ctx context.Context, doc document.Document) ([]types.Chapter, error) {
	markers, err := s.markerStarts(ctx, doc)
	if err != nil {
		return nil, err
	}
	headers, err := headerBoundaries(ctx, doc)
	if err != nil {
		return nil, err
	}

	all := make([]boundary, 0, len(markers)+len(headers))
	for _, p := range markers {
		all = append(all, boundary{page: p})
	}
	all = append(all, headers...)
	sort.SliceStable(all, func(i, j int) bool { return all[i].page < all[j].page })

	var chapters []types.Chapter
	seen := make(map[int]bool)
	section := 0
	for _, b := range all {
		if seen[b.page] {
			continue
		}
		seen[b.page] = true
		title := b.title
		if title == "" {
			section++
			title = fmt.Sprintf("Section %d", section)
		}
		chapters = append(chapters, types.Chapter{
			Title:      title,
			StartPage:  b.page,
			Level:      1,
			Source:     types.SourceStructural,
			Confidence: structuralConfidence,
		})
	}
	return chapters, nil
}

// markerStarts finds "intentionally blank" pages and converts each to a
// chapter start under the configured policy. A marker on the first page
// has no preceding page and is dropped under the preceding policy.
func (s *Structural) markerStarts(ctx context.Context, doc document.Document) ([]int, error) {
	var starts []int
	for i := 0; i < doc.PageCount(); i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !blankMarkerRe.MatchString(normalizeText(doc.PageText(i))) {
			continue
		}
		start := i
		if s.policy == types.MarkerPreceding {
			start = i - 1
		}
		if start < 0 {
			continue
		}
		starts = append(starts, start)
	}
	return starts, nil
}

// headerBoundaries compares the running header of consecutive even pages.
// Even pages conventionally repeat the current chapter title, so a change
// after a stable streak marks the page where a new chapter has begun.
// Marker pages neither break nor extend a streak.
func headerBoundaries(ctx context.Context, doc document.Document) ([]boundary, error) {
	var bounds []boundary
	prev := ""
	streak := 0
	for i := 0; i < doc.PageCount(); i += 2 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		text := doc.PageText(i)
		if blankMarkerRe.MatchString(normalizeText(text)) {
			continue
		}
		title, key := runningHeader(text)
		if key == "" {
			continue
		}
		if key == prev {
			streak++
			continue
		}
		if prev != "" && streak >= minHeaderStreak {
			bounds = append(bounds, boundary{page: i, title: title})
		}
		prev, streak = key, 1
	}
	return bounds, nil
}

// runningHeader returns the header text of a page and its comparison key:
// the first line with page-label tokens stripped, keyed by its leading
// word. Pages whose first line is blank, overlong, or label-only have no
// header.
func runningHeader(text string) (title, key string) {
	for _, l := range strings.Split(text, "\n") {
		l = strings.TrimSpace(l)
		if l == "" {
			continue
		}
		if len(l) > maxHeaderLen {
			return "", ""
		}
		fields := strings.Fields(l)
		for len(fields) > 0 && isLabelToken(strings.ToLower(fields[0])) {
			fields = fields[1:]
		}
		if len(fields) == 0 {
			return "", ""
		}
		return strings.Join(fields, " "), strings.ToLower(fields[0])
	}
	return "", ""
}

// isLabelToken reports whether tok is a bare page label (arabic digits or
// a roman numeral) rather than header text.
func isLabelToken(tok string) bool {
	if tok == "" {
		return false
	}
	if _, err := strconv.Atoi(tok); err == nil {
		return true
	}
	return numerals.IsRoman(tok)
}

// normalizeText lowercases and collapses all whitespace to single spaces.
func normalizeText(text string) string {
	return strings.Join(strings.Fields(strings.ToLower(text)), " ")
}
