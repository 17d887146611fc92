// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package document

import (
	"sort"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// maxTreeDepth bounds /PageLabels number-tree recursion so a cyclic Kids
// chain in a corrupt file cannot loop forever.
const maxTreeDepth = 8

// derefFunc resolves a possibly-indirect object, returning nil when it
// cannot be resolved.
type derefFunc func(types.Object) types.Object

// numberedDict is one number-tree leaf: a physical start index paired with
// its page label dictionary.
type numberedDict struct {
	start int
	dict  types.Dict
}

// pageLabelCatalog reads the catalog's /PageLabels number tree into
// numbering ranges. Returns nil when the document declares none or the
// tree is unusable.
func pageLabelCatalog(ctx *model.Context, pageCount int) []NumberingRange {
	root, err := ctx.Catalog()
	if err != nil {
		return nil
	}
	obj, found := root.Find("PageLabels")
	if !found {
		return nil
	}

	deref := func(o types.Object) types.Object {
		r, err := ctx.Dereference(o)
		if err != nil {
			return nil
		}
		return r
	}
	return labelRanges(deref, obj, pageCount)
}

// labelRanges flattens a number tree and derives the inclusive end of each
// range from the start of the next.
func labelRanges(deref derefFunc, tree types.Object, pageCount int) []NumberingRange {
	entries := collectNums(deref, tree, 0)
	if len(entries) == 0 {
		return nil
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].start < entries[j].start
	})

	ranges := make([]NumberingRange, 0, len(entries))
	for i, e := range entries {
		if e.start < 0 || e.start >= pageCount {
			continue
		}
		end := pageCount - 1
		if i+1 < len(entries) {
			end = entries[i+1].start - 1
		}
		if end > pageCount-1 {
			end = pageCount - 1
		}
		if end < e.start {
			continue
		}
		ranges = append(ranges, labelRange(deref, e, end))
	}
	return ranges
}

// collectNums gathers (index, dict) pairs from a number-tree node,
// recursing through Kids. Malformed pairs are skipped.
func collectNums(deref derefFunc, obj types.Object, depth int) []numberedDict {
	if depth > maxTreeDepth {
		return nil
	}
	node, ok := deref(obj).(types.Dict)
	if !ok {
		return nil
	}

	var out []numberedDict
	if numsObj, found := node.Find("Nums"); found {
		if arr, ok := deref(numsObj).(types.Array); ok {
			for k := 0; k+1 < len(arr); k += 2 {
				idx, ok := deref(arr[k]).(types.Integer)
				if !ok {
					continue
				}
				dict, ok := deref(arr[k+1]).(types.Dict)
				if !ok {
					continue
				}
				out = append(out, numberedDict{start: idx.Value(), dict: dict})
			}
		}
	}
	if kidsObj, found := node.Find("Kids"); found {
		if arr, ok := deref(kidsObj).(types.Array); ok {
			for _, kid := range arr {
				out = append(out, collectNums(deref, kid, depth+1)...)
			}
		}
	}
	return out
}

// labelRange parses one label dictionary (/S style, /P prefix, /St start
// value). A dictionary without /S is a literal range: prefix only.
func labelRange(deref derefFunc, e numberedDict, end int) NumberingRange {
	nr := NumberingRange{Start: e.start, End: end, Style: StyleLiteral, FirstValue: 1}

	if o, found := e.dict.Find("S"); found {
		if name, ok := deref(o).(types.Name); ok {
			switch name {
			case "D":
				nr.Style = StyleDecimal
			case "r":
				nr.Style = StyleRomanLower
			case "R":
				nr.Style = StyleRomanUpper
			case "a":
				nr.Style = StyleAlphaLower
			case "A":
				nr.Style = StyleAlphaUpper
			}
		}
	}
	if o, found := e.dict.Find("P"); found {
		nr.Prefix = textString(deref(o))
	}
	if o, found := e.dict.Find("St"); found {
		if i, ok := deref(o).(types.Integer); ok && i.Value() >= 1 {
			nr.FirstValue = i.Value()
		}
	}
	return nr
}

// textString decodes a PDF text string object.
func textString(o types.Object) string {
	switch s := o.(type) {
	case types.StringLiteral:
		if dec, err := types.StringLiteralToString(s); err == nil {
			return dec
		}
		return s.Value()
	case types.HexLiteral:
		if dec, err := types.HexLiteralToString(s); err == nil {
			return dec
		}
	}
	return ""
}
