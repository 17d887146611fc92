// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package detect

import (
	"context"
	"strings"

	"github.com/ppopescu/chapterize/internal/document"
	"github.com/ppopescu/chapterize/pkg/types"
)

// outlineConfidence reflects that an author-supplied bookmark tree is the
// most reliable boundary signal available.
const outlineConfidence = 0.9

// Outline reads the document's bookmark tree. Only top-level items become
// candidates; deeper levels are descended for traversal but never emitted,
// which keeps sub-headings out of the boundary list.
type Outline struct{}

// NewOutline returns the outline extractor.
func NewOutline() *Outline { return &Outline{} }

// Name implements Extractor.
func (o *Outline) Name() string { return string(types.SourceOutline) }

// Extract implements Extractor. Items with an empty title or an
// unresolvable destination are dropped silently.
func (o *Outline) Extract(ctx context.Context, doc document.Document) ([]types.Chapter, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var chapters []types.Chapter
	walkOutline(doc.Outline(), 0, func(node document.OutlineNode) {
		title := strings.TrimSpace(node.Title)
		if title == "" {
			return
		}
		page, ok := doc.ResolveDest(node.Dest)
		if !ok {
			return
		}
		chapters = append(chapters, types.Chapter{
			Title:      title,
			StartPage:  page,
			Level:      1,
			Source:     types.SourceOutline,
			Confidence: outlineConfidence,
		})
	})
	return chapters, nil
}

// walkOutline traverses the tree depth-first, invoking emit for depth-0
// nodes only.
func walkOutline(nodes []document.OutlineNode, depth int, emit func(document.OutlineNode)) {
	for _, node := range nodes {
		if depth == 0 {
			emit(node)
		}
		walkOutline(node.Children, depth+1, emit)
	}
}
