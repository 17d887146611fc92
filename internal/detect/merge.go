// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package detect

import (
	"sort"

	"github.com/ppopescu/chapterize/pkg/types"
)

// fallbackTitle labels the degenerate single chapter produced when no
// extractor finds a boundary.
const fallbackTitle = "Full Document"

// Merge reconciles candidate lists into one ordered, non-overlapping
// chapter sequence. Lists must be given in extractor priority order:
// exact (title, start) duplicates keep the first occurrence, and when two
// candidates contest the same start page the earlier one wins. End pages
// are chained so each chapter ends where the next begins, the last at
// pageCount. Empty input yields a single whole-document fallback chapter,
// never an error.
func Merge(lists [][]types.Chapter, pageCount int) []types.Chapter {
	type dupKey struct {
		title string
		page  int
	}
	seen := make(map[dupKey]bool)
	var merged []types.Chapter
	for _, list := range lists {
		for _, c := range list {
			k := dupKey{c.Title, c.StartPage}
			if seen[k] {
				continue
			}
			seen[k] = true
			merged = append(merged, c)
		}
	}

	if len(merged) == 0 {
		return []types.Chapter{{
			Title:      fallbackTitle,
			StartPage:  0,
			EndPage:    pageCount,
			Level:      1,
			Source:     types.SourceFallback,
			Confidence: 0,
		}}
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].StartPage < merged[j].StartPage
	})

	chapters := merged[:0]
	for _, c := range merged {
		if len(chapters) > 0 && chapters[len(chapters)-1].StartPage == c.StartPage {
			continue
		}
		chapters = append(chapters, c)
	}

	for i := range chapters {
		if i+1 < len(chapters) {
			chapters[i].EndPage = chapters[i+1].StartPage
		} else {
			chapters[i].EndPage = pageCount
		}
	}
	return chapters
}

// BuildRanges converts merged chapters into half-open physical page
// ranges, clamped to the page count, with empty ranges dropped.
func BuildRanges(chapters []types.Chapter, pageCount int) []types.PageRange {
	plan := types.Plan{Pages: pageCount, Chapters: chapters}
	return plan.Ranges()
}
