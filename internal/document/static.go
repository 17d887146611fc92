// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package document

import "strings"

// StaticPage is one page of a Static document.
type StaticPage struct {
	// Text is the plain page text. When empty, PageText falls back to
	// joining the run texts line by line.
	Text string

	// Runs are the positioned text lines of the page.
	Runs []TextRun

	// Label is the printed page label, when the fixture declares one.
	Label string
}

// Static is an in-memory Document. Tests build fixtures from it, and it
// serves callers whose paginated content does not come from a PDF.
type Static struct {
	Pages   []StaticPage
	Nodes   []OutlineNode
	Catalog []NumberingRange

	// Named maps named destinations to zero-based page indices for
	// ResolveDest. Destinations absent from the map do not resolve.
	Named map[string]int
}

// NewStatic builds a Static document from pages.
func NewStatic(pages ...StaticPage) *Static {
	return &Static{Pages: pages}
}

// PageCount returns the number of pages.
func (s *Static) PageCount() int {
	return len(s.Pages)
}

// PageText returns the page text, synthesized from runs when unset.
func (s *Static) PageText(i int) string {
	if i < 0 || i >= len(s.Pages) {
		return ""
	}
	p := s.Pages[i]
	if p.Text != "" || len(p.Runs) == 0 {
		return p.Text
	}
	lines := make([]string, 0, len(p.Runs))
	for _, r := range p.Runs {
		lines = append(lines, r.Text)
	}
	return strings.Join(lines, "\n")
}

// PageTextRuns returns the page's text runs.
func (s *Static) PageTextRuns(i int) []TextRun {
	if i < 0 || i >= len(s.Pages) {
		return nil
	}
	return s.Pages[i].Runs
}

// Outline returns the declared outline tree.
func (s *Static) Outline() []OutlineNode {
	return s.Nodes
}

// ResolveDest resolves one-based page destinations and named destinations
// registered in Named.
func (s *Static) ResolveDest(d Dest) (int, bool) {
	if d.Page >= 1 && d.Page <= len(s.Pages) {
		return d.Page - 1, true
	}
	if d.Name != "" {
		if idx, ok := s.Named[d.Name]; ok && idx >= 0 && idx < len(s.Pages) {
			return idx, true
		}
	}
	return 0, false
}

// NumberingCatalog returns the declared numbering ranges.
func (s *Static) NumberingCatalog() []NumberingRange {
	return s.Catalog
}

// NativePageLabel returns the declared label of page i, when present.
func (s *Static) NativePageLabel(i int) (string, bool) {
	if i < 0 || i >= len(s.Pages) || s.Pages[i].Label == "" {
		return "", false
	}
	return s.Pages[i].Label, true
}
