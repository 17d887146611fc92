// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package detect

import (
	"context"
	"regexp"
	"strings"

	"github.com/ppopescu/chapterize/internal/document"
	"github.com/ppopescu/chapterize/internal/pagelabels"
	"github.com/ppopescu/chapterize/pkg/types"
)

// tocConfidence ranks printed-contents evidence just below the outline
// tree: the page labels still have to survive resolution.
const tocConfidence = 0.8

// minLeaderLines is the number of leader-dot runs a page needs before it
// counts as contents-like without a heading token.
const minLeaderLines = 3

// contentsTokens mark a printed table-of-contents heading. Lowercase,
// matched by containment against the folded page text.
var contentsTokens = []string{"table of contents", "contents", "cuprins"}

// tocLineRe parses one contents line: a title, a leader run of two or
// more dot/dash/space characters, and a trailing page label.
var tocLineRe = regexp.MustCompile(`^(.+?)\s*[.\-\s]{2,}\s*(\d{1,6}|[ivxlcdmIVXLCDM]{1,10})\s*$`)

// leaderRunRe matches one run of three or more leader dots.
var leaderRunRe = regexp.MustCompile(`\.{3,}`)

// indexLineRes reject index-style cross references that parse like
// contents lines but point at notes or page lists rather than chapters.
var indexLineRes = []*regexp.Regexp{
	regexp.MustCompile(`(?i),\s*(see|vezi)\b`),
	regexp.MustCompile(`(?i)\bsee\s+(also\s+)?note\b`),
	regexp.MustCompile(`,\s*\d+(\s*,\s*\d+)+$`),
}

// leaderNormalizer folds typographic leader characters into ASCII dots so
// one pattern covers all printings.
var leaderNormalizer = strings.NewReplacer("·", ".", "•", ".", "…", "...")

// TOC locates a printed table of contents near the front of the document
// and parses its entries, resolving printed page labels to physical
// indices through the label index.
type TOC struct {
	windowFrac float64
	windowMin  int
	index      *pagelabels.Index
}

// NewTOC returns the contents extractor. The index is consulted per
// parsed line; lines whose label does not resolve are dropped.
func NewTOC(cfg types.DetectConfig, index *pagelabels.Index) *TOC {
	frac := cfg.TOCWindow
	if frac <= 0 {
		frac = 0.20
	}
	minPages := cfg.TOCWindowMin
	if minPages <= 0 {
		minPages = 20
	}
	return &TOC{windowFrac: frac, windowMin: minPages, index: index}
}

// Name implements Extractor.
func (t *TOC) Name() string { return string(types.SourceTOC) }

// Extract implements Extractor. Fewer than two surviving entries are
// discarded wholesale: a single parsed line is indistinguishable from
// noise.
func (t *TOC) Extract(ctx context.Context, doc document.Document) ([]types.Chapter, error) {
	start, err := t.findStart(ctx, doc)
	if err != nil {
		return nil, err
	}
	if start < 0 {
		return nil, nil
	}

	pageCount := doc.PageCount()
	type entryKey struct {
		title string
		page  int
	}
	seen := make(map[entryKey]bool)
	var chapters []types.Chapter

	for i := start; i < pageCount; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		text := doc.PageText(i)
		if i > start && !looksLikeContents(text) {
			break
		}
		for _, line := range strings.Split(text, "\n") {
			title, label, ok := parseContentsLine(line)
			if !ok {
				continue
			}
			if isIndexLike(title) {
				continue
			}
			page, err := t.index.Resolve(label)
			if err != nil {
				continue
			}
			if page < 0 || page >= pageCount {
				continue
			}
			k := entryKey{title, page}
			if seen[k] {
				continue
			}
			seen[k] = true
			chapters = append(chapters, types.Chapter{
				Title:      title,
				StartPage:  page,
				Level:      1,
				Source:     types.SourceTOC,
				Confidence: tocConfidence,
			})
		}
	}

	if len(chapters) < 2 {
		return nil, nil
	}
	return chapters, nil
}

// findStart scans the leading window of the document for a contents page.
// A page carrying a heading token wins over any dot-dense page; the first
// dot-dense page is the fallback when no token appears in the window.
// Returns -1 when neither is found.
func (t *TOC) findStart(ctx context.Context, doc document.Document) (int, error) {
	limit := int(float64(doc.PageCount()) * t.windowFrac)
	if limit < t.windowMin {
		limit = t.windowMin
	}
	if limit > doc.PageCount() {
		limit = doc.PageCount()
	}

	dotted := -1
	for i := 0; i < limit; i++ {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		text := doc.PageText(i)
		if hasContentsToken(text) {
			return i, nil
		}
		if dotted < 0 && countLeaderRuns(text) >= minLeaderLines {
			dotted = i
		}
	}
	return dotted, nil
}

// looksLikeContents reports whether a page still belongs to the contents
// section, used to extend the parse window past the first page.
func looksLikeContents(text string) bool {
	return hasContentsToken(text) || countLeaderRuns(text) >= minLeaderLines
}

// hasContentsToken reports whether the page text carries a contents
// heading in any recognized language.
func hasContentsToken(text string) bool {
	lower := strings.ToLower(text)
	for _, tok := range contentsTokens {
		if strings.Contains(lower, tok) {
			return true
		}
	}
	return false
}

// countLeaderRuns counts runs of three or more leader dots after
// normalization.
func countLeaderRuns(text string) int {
	return len(leaderRunRe.FindAllString(leaderNormalizer.Replace(text), -1))
}

// parseContentsLine splits one line into title and trailing page label.
// Returns ok=false for lines that do not follow the contents shape.
func parseContentsLine(line string) (title, label string, ok bool) {
	line = strings.TrimSpace(leaderNormalizer.Replace(line))
	if line == "" {
		return "", "", false
	}
	m := tocLineRe.FindStringSubmatch(line)
	if m == nil {
		return "", "", false
	}
	title = strings.TrimSpace(strings.TrimRight(m[1], ".- "))
	if title == "" {
		return "", "", false
	}
	return title, m[2], true
}

// isIndexLike reports whether a parsed title is an index cross reference
// rather than a chapter title.
func isIndexLike(title string) bool {
	for _, re := range indexLineRes {
		if re.MatchString(title) {
			return true
		}
	}
	return false
}
