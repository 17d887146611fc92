package main

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"

	"github.com/ppopescu/chapterize/internal/pagelabels"
	"github.com/ppopescu/chapterize/pkg/types"
)

var (
	// headerStyle for report titles
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39"))

	// dimStyle for muted metadata text
	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	// sourceStyles for coloring chapter rows by the producing signal
	sourceStyles = map[types.Source]lipgloss.Style{
		types.SourceOutline:    lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		types.SourceTypography: lipgloss.NewStyle().Foreground(lipgloss.Color("81")),
		types.SourceTOC:        lipgloss.NewStyle().Foreground(lipgloss.Color("220")),
		types.SourceStructural: lipgloss.NewStyle().Foreground(lipgloss.Color("135")),
		types.SourceFallback:   lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
	}
)

// renderPlanReport writes the chapter table for an analysis run. Page
// numbers are printed one-based and inclusive.
func renderPlanReport(w io.Writer, plan *types.Plan) {
	name := plan.Source
	if name == "" {
		name = "document"
	}
	fmt.Fprintf(w, "%s  %s\n\n",
		headerStyle.Render(filepath.Base(name)),
		dimStyle.Render(fmt.Sprintf("%d pages", plan.Pages)))

	fmt.Fprintf(w, "%-3s  %-52s  %-11s  %-10s  %s\n", "#", "Title", "Pages", "Source", "Conf")
	fmt.Fprintln(w, strings.Repeat("-", 88))

	for i, ch := range plan.Chapters {
		pages := fmt.Sprintf("%d-%d", ch.StartPage+1, ch.EndPage)

		// Pad before styling so escape codes do not skew the columns.
		source := fmt.Sprintf("%-10s", ch.Source)
		if style, ok := sourceStyles[ch.Source]; ok {
			source = style.Render(source)
		}

		fmt.Fprintf(w, "%-3d  %-52s  %-11s  %s  %.1f\n",
			i+1, truncate(ch.Title, 52), pages, source, ch.Confidence)
	}

	fmt.Fprintf(w, "\n%s\n", dimStyle.Render(fmt.Sprintf("%d chapters", len(plan.Chapters))))
}

// renderLabelsReport writes the page label index table.
func renderLabelsReport(w io.Writer, index *pagelabels.Index, pageCount int) {
	meta := fmt.Sprintf("strategy: %s, %d labels, %d pages", index.Strategy(), index.Len(), pageCount)
	fmt.Fprintf(w, "%s  %s\n\n", headerStyle.Render("Page labels"), dimStyle.Render(meta))

	entries := index.Entries()
	if len(entries) == 0 {
		fmt.Fprintln(w, "No printed page labels detected.")
		return
	}

	fmt.Fprintf(w, "%-16s  %s\n", "Label", "Physical page")
	fmt.Fprintln(w, strings.Repeat("-", 31))
	for _, e := range entries {
		fmt.Fprintf(w, "%-16s  %d\n", e.Label, e.Page+1)
	}
}

func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max-3]) + "..."
}
