// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package split writes one PDF artifact per chapter range of a source
// document.
package split

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/ppopescu/chapterize/pkg/types"
)

// maxFilenameRunes caps the sanitized title portion of a chapter filename.
const maxFilenameRunes = 80

// unsafeFilenameRe matches characters never allowed in chapter filenames.
var unsafeFilenameRe = regexp.MustCompile(`[\\/*?:"<>|]`)

// BatchResult holds counts from one split run.
type BatchResult struct {
	Written int
	Skipped int
	Failed  int
}

// Total returns the number of ranges processed.
func (r BatchResult) Total() int {
	return r.Written + r.Skipped + r.Failed
}

// HasFailures reports whether any chapter failed to write.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// Writer extracts chapter page ranges into separate PDF files. Page
// extraction goes through pdfcpu with relaxed validation, matching the
// tolerance of the analysis stage.
type Writer struct {
	cfg      types.SplitConfig
	conf     *model.Configuration
	progress io.Writer
}

// NewWriter returns a Writer reporting progress to w. A nil w discards
// progress output.
func NewWriter(cfg types.SplitConfig, w io.Writer) *Writer {
	if w == nil {
		w = io.Discard
	}
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return &Writer{cfg: cfg, conf: conf, progress: w}
}

// Split writes one file per range, continuing past individual failures.
// Existing files are skipped unless the config forces overwrites; in dry
// run mode nothing is written and every range reports as written. The
// error return covers setup problems and cancellation only, per-chapter
// failures are counted in the result.
func (w *Writer) Split(ctx context.Context, srcPath string, ranges []types.PageRange) (BatchResult, error) {
	outDir := w.cfg.OutputDir
	if outDir == "" {
		outDir = DefaultOutputDir(srcPath)
	}
	if !w.cfg.DryRun {
		if err := os.MkdirAll(outDir, 0o755); err != nil {
			return BatchResult{}, fmt.Errorf("creating output directory %s: %w", outDir, err)
		}
	}

	var result BatchResult
	for i, r := range ranges {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		name := ChapterFilename(i+1, r.Title)
		outPath := filepath.Join(outDir, name)

		if !w.cfg.Force {
			if _, err := os.Stat(outPath); err == nil {
				fmt.Fprintf(w.progress, "skipped: %s exists\n", name)
				result.Skipped++
				continue
			}
		}

		if w.cfg.DryRun {
			fmt.Fprintf(w.progress, "writing: %s (pages %d-%d, dry run)\n", name, r.Start+1, r.End)
			result.Written++
			continue
		}

		// pdfcpu selections are 1-based and inclusive.
		selection := []string{fmt.Sprintf("%d-%d", r.Start+1, r.End)}
		if err := api.TrimFile(srcPath, outPath, selection, w.conf); err != nil {
			fmt.Fprintf(w.progress, "failed:  %s: %v\n", name, err)
			result.Failed++
			continue
		}
		fmt.Fprintf(w.progress, "writing: %s (pages %d-%d)\n", name, r.Start+1, r.End)
		result.Written++
	}
	return result, nil
}

// DefaultOutputDir derives the chapter directory from the source path:
// the source stem plus "_chapters", alongside the source.
func DefaultOutputDir(srcPath string) string {
	return strings.TrimSuffix(srcPath, filepath.Ext(srcPath)) + "_chapters"
}

// ChapterFilename builds "NN_title.pdf" for the n-th chapter, 1-based.
func ChapterFilename(n int, title string) string {
	return fmt.Sprintf("%02d_%s.pdf", n, sanitizeTitle(title))
}

// sanitizeTitle makes a chapter title safe for filenames: forbidden
// characters become underscores, whitespace collapses to single spaces,
// and overlong titles are cut at maxFilenameRunes.
func sanitizeTitle(title string) string {
	s := unsafeFilenameRe.ReplaceAllString(title, "_")
	s = strings.Join(strings.Fields(s), " ")
	runes := []rune(s)
	if len(runes) > maxFilenameRunes {
		s = strings.TrimSpace(string(runes[:maxFilenameRunes]))
	}
	if s == "" {
		return "untitled"
	}
	return s
}
