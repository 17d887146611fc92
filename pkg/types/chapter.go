// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"
	"time"
)

// Source identifies which detection signal produced a chapter boundary.
type Source string

const (
	SourceOutline    Source = "outline"
	SourceTypography Source = "typography"
	SourceTOC        Source = "toc"
	SourceStructural Source = "structural"
	SourceFallback   Source = "fallback"
)

// ParseSource converts a string to a Source, rejecting unknown values.
func ParseSource(s string) (Source, error) {
	switch Source(s) {
	case SourceOutline, SourceTypography, SourceTOC, SourceStructural, SourceFallback:
		return Source(s), nil
	default:
		return "", fmt.Errorf("unknown boundary source %q", s)
	}
}

// Chapter is one detected boundary with its resolved page range.
type Chapter struct {
	// Title is the chapter heading as discovered (outline text, heading line,
	// or contents entry). May be synthesized for structural boundaries.
	Title string `json:"title" yaml:"title"`

	// StartPage is the zero-based physical index of the first page.
	StartPage int `json:"start_page" yaml:"start_page"`

	// EndPage is the exclusive zero-based end of the range. Zero on a
	// candidate that has not been through the merge stage; the merger sets
	// it to the next chapter's start or to the document page count.
	EndPage int `json:"end_page" yaml:"end_page"`

	// Level is the nesting depth, 1 for top-level chapters. Extractors in
	// this package only emit level 1; deeper outline items are traversed
	// but not emitted.
	Level int `json:"level" yaml:"level"`

	// Source records the signal that proposed this boundary.
	Source Source `json:"source" yaml:"source"`

	// Confidence is a float between 0.0 and 1.0 indicating how reliable the
	// producing signal is. Fixed per source, not per candidate.
	Confidence float64 `json:"confidence" yaml:"confidence"`
}

// PageRange is the half-open physical page interval handed to the writer.
type PageRange struct {
	// Title is the sanitizable chapter title for filename derivation.
	Title string `json:"title" yaml:"title"`

	// Start is the zero-based first page of the range.
	Start int `json:"start" yaml:"start"`

	// End is the exclusive zero-based end, clamped to the page count.
	End int `json:"end" yaml:"end"`
}

// Pages returns the number of pages covered by the range.
func (r PageRange) Pages() int {
	return r.End - r.Start
}

// Plan is a serialized analysis result. Written as YAML next to the source
// document so a run can be inspected, hand-edited, and fed back to split.
type Plan struct {
	// Source is the path of the analyzed document.
	Source string `json:"source" yaml:"source"`

	// Pages is the physical page count at analysis time.
	Pages int `json:"pages" yaml:"pages"`

	// GeneratedAt records when the analysis ran.
	GeneratedAt time.Time `json:"generated_at" yaml:"generated_at"`

	// Tool is the version string of the binary that produced the plan.
	Tool string `json:"tool,omitempty" yaml:"tool,omitempty"`

	// Chapters is the final merged boundary sequence, sorted by start page.
	Chapters []Chapter `json:"chapters" yaml:"chapters"`
}

// Ranges converts the plan's chapters to writer page ranges, dropping
// chapters that fall outside the page count or collapse to zero pages.
func (p *Plan) Ranges() []PageRange {
	ranges := make([]PageRange, 0, len(p.Chapters))
	for _, ch := range p.Chapters {
		if ch.StartPage < 0 || ch.StartPage >= p.Pages {
			continue
		}
		end := ch.EndPage
		if end > p.Pages {
			end = p.Pages
		}
		if end <= ch.StartPage {
			continue
		}
		ranges = append(ranges, PageRange{Title: ch.Title, Start: ch.StartPage, End: end})
	}
	return ranges
}
