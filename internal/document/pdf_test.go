// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package document

import (
	"testing"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
)

func frag(s string, x, y, w, size float64, font string) pdf.Text {
	return pdf.Text{S: s, X: x, Y: y, W: w, FontSize: size, Font: font}
}

func TestAssembleLines(t *testing.T) {
	texts := []pdf.Text{
		// Heading line at the top (Y = 700), glyph by glyph, no word gaps.
		frag("C", 72, 700, 12, 18, "Times-Bold"),
		frag("h", 84, 700, 10, 18, "Times-Bold"),
		frag("1", 96, 700.5, 10, 18, "Times-Bold"),
		// Body line lower on the page, two words with a wide gap.
		frag("Body", 72, 650, 30, 10, "Times-Roman"),
		frag("text", 110, 650, 26, 10, "Times-Roman"),
	}

	runs := assembleLines(texts)
	if len(runs) != 2 {
		t.Fatalf("assembleLines returned %d runs, want 2", len(runs))
	}

	head := runs[0]
	if head.Text != "Ch1" {
		t.Errorf("heading text = %q, want %q", head.Text, "Ch1")
	}
	if !head.Bold {
		t.Error("heading not marked bold")
	}
	if head.FontSize != 18 {
		t.Errorf("heading size = %v, want 18", head.FontSize)
	}
	if head.Y != 700 {
		t.Errorf("heading Y = %v, want 700", head.Y)
	}

	body := runs[1]
	if body.Text != "Body text" {
		t.Errorf("body text = %q, want %q", body.Text, "Body text")
	}
	if body.Bold {
		t.Error("body marked bold")
	}
}

func TestAssembleLinesOrdersTopToBottom(t *testing.T) {
	texts := []pdf.Text{
		frag("footer", 72, 30, 40, 9, "Helvetica"),
		frag("header", 72, 760, 40, 9, "Helvetica"),
		frag("middle", 72, 400, 40, 11, "Helvetica"),
	}
	runs := assembleLines(texts)
	if len(runs) != 3 {
		t.Fatalf("got %d runs, want 3", len(runs))
	}
	want := []string{"header", "middle", "footer"}
	for i, w := range want {
		if runs[i].Text != w {
			t.Errorf("runs[%d].Text = %q, want %q", i, runs[i].Text, w)
		}
	}
}

func TestAssembleLinesEmpty(t *testing.T) {
	if got := assembleLines(nil); got != nil {
		t.Errorf("assembleLines(nil) = %v, want nil", got)
	}
	// Whitespace-only fragments produce no runs.
	runs := assembleLines([]pdf.Text{frag("  ", 72, 700, 5, 10, "F")})
	if len(runs) != 0 {
		t.Errorf("whitespace fragment produced %d runs", len(runs))
	}
}

func TestIsBoldFont(t *testing.T) {
	bold := []string{"Helvetica-Bold", "ABCDEF+TimesNewRomanPS-BoldMT", "Arial-BoldItalic", "FreeSansBold"}
	for _, f := range bold {
		if !isBoldFont(f) {
			t.Errorf("isBoldFont(%q) = false, want true", f)
		}
	}
	regular := []string{"Helvetica", "Times-Roman", "ABCDEF+Garamond-Italic", ""}
	for _, f := range regular {
		if isBoldFont(f) {
			t.Errorf("isBoldFont(%q) = true, want false", f)
		}
	}
}

func TestConvertBookmarks(t *testing.T) {
	bms := []pdfcpu.Bookmark{
		{
			Title:    " Introduction ",
			PageFrom: 1,
			Kids: []pdfcpu.Bookmark{
				{Title: "Motivation", PageFrom: 2},
			},
		},
		{Title: "Unresolved", PageFrom: 0},
		{Title: "Results", PageFrom: 40},
	}

	nodes := convertBookmarks(bms)
	if len(nodes) != 3 {
		t.Fatalf("got %d nodes, want 3", len(nodes))
	}
	if nodes[0].Title != "Introduction" {
		t.Errorf("title not trimmed: %q", nodes[0].Title)
	}
	if nodes[0].Dest != (Dest{Page: 1}) {
		t.Errorf("nodes[0].Dest = %+v", nodes[0].Dest)
	}
	if len(nodes[0].Children) != 1 || nodes[0].Children[0].Title != "Motivation" {
		t.Errorf("children not converted: %+v", nodes[0].Children)
	}
	if nodes[1].Dest != (Dest{}) {
		t.Errorf("unresolved bookmark should carry zero Dest, got %+v", nodes[1].Dest)
	}
	if nodes[2].Dest.Page != 40 {
		t.Errorf("nodes[2].Dest.Page = %d, want 40", nodes[2].Dest.Page)
	}
}
