// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package document exposes paginated documents to the detection pipeline:
// page text, positioned text runs, the outline tree, and page numbering
// metadata. The PDF backend combines pdfcpu (structure) with ledongthuc/pdf
// (text); Static provides the same surface from in-memory fixtures.
package document

import "errors"

// ErrUnreadable marks a document that cannot be opened or parsed at all.
// It is the only fatal error in the pipeline; every other condition
// degrades to partial or empty results.
var ErrUnreadable = errors.New("document unreadable")

// TextRun is one line of positioned text with its dominant font attributes.
// Coordinates follow the PDF convention: X grows right, Y grows up, so a
// page header has a larger Y than a footer.
type TextRun struct {
	Text     string
	FontSize float64
	Bold     bool
	X, Y, W  float64
}

// Dest is an outline destination. Page is a one-based page number when the
// producer resolved the target directly; Name refers to a named destination
// that still needs lookup. A zero Dest never resolves.
type Dest struct {
	Page int
	Name string
}

// OutlineNode is one entry of the document outline (bookmark) tree.
type OutlineNode struct {
	Title    string
	Dest     Dest
	Children []OutlineNode
}

// NumberingStyle is the rendering style of one page numbering range.
type NumberingStyle string

const (
	StyleDecimal    NumberingStyle = "decimal"
	StyleRomanLower NumberingStyle = "lower-roman"
	StyleRomanUpper NumberingStyle = "upper-roman"
	StyleAlphaLower NumberingStyle = "lower-alpha"
	StyleAlphaUpper NumberingStyle = "upper-alpha"
	StyleLiteral    NumberingStyle = "literal"
)

// NumberingRange declares the printed labels for a run of physical pages:
// page Start+k is labeled Prefix + render(Style, FirstValue+k). End is
// inclusive. Literal ranges render the prefix alone for every page.
type NumberingRange struct {
	Start      int
	End        int
	Style      NumberingStyle
	Prefix     string
	FirstValue int
}

// Document is the read-only page-level view the detection pipeline works
// against. Implementations must tolerate concurrent reads and must never
// fail a single-page accessor: a page that cannot be analyzed yields empty
// results instead.
type Document interface {
	// PageCount returns the number of physical pages.
	PageCount() int

	// PageText returns the plain text of page i (zero-based), or "" when
	// the page has none or cannot be read.
	PageText(i int) string

	// PageTextRuns returns the positioned text lines of page i in reading
	// order, or nil.
	PageTextRuns(i int) []TextRun

	// Outline returns the outline tree, or nil when the document has none.
	Outline() []OutlineNode

	// ResolveDest maps an outline destination to a zero-based physical
	// page index. The second result is false when the destination does
	// not resolve.
	ResolveDest(d Dest) (int, bool)

	// NumberingCatalog returns the declared page numbering ranges in
	// ascending order, or nil when the document declares none.
	NumberingCatalog() []NumberingRange

	// NativePageLabel returns the printed label of page i when the
	// backend can produce it directly. The second result is false when
	// no native label exists.
	NativePageLabel(i int) (string, bool)
}
