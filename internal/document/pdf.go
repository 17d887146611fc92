// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package document

import (
	"fmt"
	"math"
	"os"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// lineTolerance is the maximum baseline distance, in points, between text
// fragments that still belong to the same line.
const lineTolerance = 2.0

// PDF is a Document backed by a PDF file. Structure (page count, outline,
// numbering catalog) is read once at open time via pdfcpu; text accessors
// go through a ledongthuc/pdf reader, which panics on some malformed
// content streams, so every page access is recover-guarded.
type PDF struct {
	path    string
	file    *os.File
	reader  *pdf.Reader
	pages   int
	outline []OutlineNode
	catalog []NumberingRange
}

// Open opens a PDF document for reading. The returned handle must be
// closed on every exit path. A file that cannot be parsed as a PDF at all
// returns an error wrapping ErrUnreadable.
func Open(path string) (*PDF, error) {
	file, reader, err := openReader(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnreadable, path, err)
	}

	d := &PDF{path: path, file: file, reader: reader}
	d.pages = d.numPages()
	if d.pages <= 0 {
		file.Close()
		return nil, fmt.Errorf("%w: %s: no pages", ErrUnreadable, path)
	}

	d.loadStructure()
	return d, nil
}

// Close releases the underlying file handle.
func (d *PDF) Close() error {
	return d.file.Close()
}

// Path returns the file path the document was opened from.
func (d *PDF) Path() string {
	return d.path
}

// PageCount returns the number of physical pages.
func (d *PDF) PageCount() int {
	return d.pages
}

// PageText returns the plain text of page i, or "" when the page cannot
// be read.
func (d *PDF) PageText(i int) (text string) {
	defer func() {
		if recover() != nil {
			text = ""
		}
	}()

	p := d.reader.Page(i + 1)
	if p.V.IsNull() {
		return ""
	}
	text, err := p.GetPlainText(nil)
	if err != nil {
		return ""
	}
	return text
}

// PageTextRuns returns the text of page i assembled into positioned lines.
func (d *PDF) PageTextRuns(i int) (runs []TextRun) {
	defer func() {
		if recover() != nil {
			runs = nil
		}
	}()

	p := d.reader.Page(i + 1)
	if p.V.IsNull() {
		return nil
	}
	return assembleLines(p.Content().Text)
}

// Outline returns the bookmark tree read at open time.
func (d *PDF) Outline() []OutlineNode {
	return d.outline
}

// ResolveDest maps a destination to a zero-based page index. Bookmark
// destinations arrive pre-resolved as one-based page numbers; named
// destinations the parser could not resolve stay unresolved here too.
func (d *PDF) ResolveDest(dest Dest) (int, bool) {
	if dest.Page >= 1 && dest.Page <= d.pages {
		return dest.Page - 1, true
	}
	return 0, false
}

// NumberingCatalog returns the /PageLabels ranges read at open time.
func (d *PDF) NumberingCatalog() []NumberingRange {
	return d.catalog
}

// NativePageLabel always reports absent: PDF declares printed labels
// through the numbering catalog, not per page.
func (d *PDF) NativePageLabel(int) (string, bool) {
	return "", false
}

// openReader wraps pdf.Open, converting parser panics on malformed files
// into errors.
func openReader(path string) (file *os.File, reader *pdf.Reader, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			file, reader = nil, nil
			err = fmt.Errorf("parse: %v", rec)
		}
	}()
	return pdf.Open(path)
}

func (d *PDF) numPages() (n int) {
	defer func() {
		if recover() != nil {
			n = 0
		}
	}()
	return d.reader.NumPage()
}

// loadStructure reads outline and numbering metadata through pdfcpu. Both
// are optional; any failure leaves the corresponding field empty.
func (d *PDF) loadStructure() {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	if f, err := os.Open(d.path); err == nil {
		if bms, err := api.Bookmarks(f, conf); err == nil {
			d.outline = convertBookmarks(bms)
		}
		f.Close()
	}

	if f, err := os.Open(d.path); err == nil {
		if ctx, err := api.ReadValidateAndOptimize(f, conf); err == nil {
			d.catalog = pageLabelCatalog(ctx, d.pages)
		}
		f.Close()
	}
}

// convertBookmarks maps pdfcpu bookmarks to outline nodes. PageFrom is
// one-based; entries pdfcpu could not resolve carry PageFrom <= 0 and
// produce a zero Dest that later fails resolution.
func convertBookmarks(bms []pdfcpu.Bookmark) []OutlineNode {
	nodes := make([]OutlineNode, 0, len(bms))
	for _, bm := range bms {
		node := OutlineNode{
			Title:    strings.TrimSpace(bm.Title),
			Children: convertBookmarks(bm.Kids),
		}
		if bm.PageFrom > 0 {
			node.Dest = Dest{Page: bm.PageFrom}
		}
		nodes = append(nodes, node)
	}
	return nodes
}

// assembleLines groups raw text fragments (often single glyphs) into lines
// by baseline, ordered top-to-bottom then left-to-right. A fragment whose
// horizontal gap from its predecessor exceeds a third of the font size
// gets a separating space.
func assembleLines(texts []pdf.Text) []TextRun {
	if len(texts) == 0 {
		return nil
	}

	byLine := make([][]pdf.Text, 0, 8)
	for _, t := range texts {
		placed := false
		for li := len(byLine) - 1; li >= 0; li-- {
			if math.Abs(byLine[li][0].Y-t.Y) <= lineTolerance {
				byLine[li] = append(byLine[li], t)
				placed = true
				break
			}
		}
		if !placed {
			byLine = append(byLine, []pdf.Text{t})
		}
	}

	sort.SliceStable(byLine, func(i, j int) bool {
		return byLine[i][0].Y > byLine[j][0].Y
	})

	runs := make([]TextRun, 0, len(byLine))
	for _, line := range byLine {
		sort.SliceStable(line, func(i, j int) bool {
			return line[i].X < line[j].X
		})

		var sb strings.Builder
		var size, minX, maxX, endX float64
		bold := false
		for fi, frag := range line {
			if fi == 0 {
				minX = frag.X
			} else {
				threshold := frag.FontSize / 3
				if threshold <= 0 {
					threshold = 1.0
				}
				if frag.X-endX > threshold && !strings.HasSuffix(sb.String(), " ") {
					sb.WriteString(" ")
				}
			}
			sb.WriteString(frag.S)
			endX = frag.X + frag.W
			if endX > maxX {
				maxX = endX
			}
			if frag.FontSize > size {
				size = frag.FontSize
			}
			if isBoldFont(frag.Font) {
				bold = true
			}
		}

		text := strings.TrimSpace(sb.String())
		if text == "" {
			continue
		}
		runs = append(runs, TextRun{
			Text:     text,
			FontSize: size,
			Bold:     bold,
			X:        minX,
			Y:        line[0].Y,
			W:        maxX - minX,
		})
	}
	return runs
}

// isBoldFont reports whether a PostScript font name declares a bold face
// (e.g. "Helvetica-Bold", "ABCDEF+TimesNewRomanPS-BoldMT").
func isBoldFont(name string) bool {
	return strings.Contains(strings.ToLower(name), "bold")
}
