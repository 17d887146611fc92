// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package document

import (
	"testing"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// identityDeref serves tests: fixture objects are always direct.
func identityDeref(o types.Object) types.Object { return o }

func TestLabelRangesFrontMatter(t *testing.T) {
	// Roman front matter, then arabic body from physical page 3.
	tree := types.Dict{
		"Nums": types.Array{
			types.Integer(0), types.Dict{"S": types.Name("r")},
			types.Integer(3), types.Dict{"S": types.Name("D"), "St": types.Integer(1)},
		},
	}

	ranges := labelRanges(identityDeref, tree, 10)
	if len(ranges) != 2 {
		t.Fatalf("got %d ranges, want 2", len(ranges))
	}

	want := []NumberingRange{
		{Start: 0, End: 2, Style: StyleRomanLower, FirstValue: 1},
		{Start: 3, End: 9, Style: StyleDecimal, FirstValue: 1},
	}
	for i, w := range want {
		if ranges[i] != w {
			t.Errorf("ranges[%d] = %+v, want %+v", i, ranges[i], w)
		}
	}
}

func TestLabelRangesKidsRecursion(t *testing.T) {
	tree := types.Dict{
		"Kids": types.Array{
			types.Dict{"Nums": types.Array{
				types.Integer(0), types.Dict{"S": types.Name("R")},
			}},
			types.Dict{"Nums": types.Array{
				types.Integer(5), types.Dict{"S": types.Name("a"), "St": types.Integer(3)},
			}},
		},
	}

	ranges := labelRanges(identityDeref, tree, 8)
	if len(ranges) != 2 {
		t.Fatalf("got %d ranges, want 2", len(ranges))
	}
	if ranges[0].Style != StyleRomanUpper || ranges[0].End != 4 {
		t.Errorf("ranges[0] = %+v", ranges[0])
	}
	if ranges[1].Style != StyleAlphaLower || ranges[1].FirstValue != 3 || ranges[1].End != 7 {
		t.Errorf("ranges[1] = %+v", ranges[1])
	}
}

func TestLabelRangesPrefixAndLiteral(t *testing.T) {
	tree := types.Dict{
		"Nums": types.Array{
			// Appendix pages labeled "A-1", "A-2", ...
			types.Integer(0), types.Dict{"S": types.Name("D"), "P": types.StringLiteral("A-")},
			// Literal range: prefix only, no style.
			types.Integer(4), types.Dict{"P": types.StringLiteral("Cover")},
		},
	}

	ranges := labelRanges(identityDeref, tree, 6)
	if len(ranges) != 2 {
		t.Fatalf("got %d ranges, want 2", len(ranges))
	}
	if ranges[0].Prefix != "A-" || ranges[0].Style != StyleDecimal {
		t.Errorf("ranges[0] = %+v", ranges[0])
	}
	if ranges[1].Style != StyleLiteral || ranges[1].Prefix != "Cover" {
		t.Errorf("ranges[1] = %+v", ranges[1])
	}
}

func TestLabelRangesMalformed(t *testing.T) {
	tests := []struct {
		name string
		tree types.Object
		want int
	}{
		{"not a dict", types.Integer(4), 0},
		{"empty dict", types.Dict{}, 0},
		{"odd nums array", types.Dict{"Nums": types.Array{types.Integer(0)}}, 0},
		{"non-integer key skipped", types.Dict{"Nums": types.Array{
			types.Name("x"), types.Dict{},
			types.Integer(0), types.Dict{"S": types.Name("D")},
		}}, 1},
		{"start beyond page count", types.Dict{"Nums": types.Array{
			types.Integer(99), types.Dict{"S": types.Name("D")},
		}}, 0},
		{"negative start", types.Dict{"Nums": types.Array{
			types.Integer(-2), types.Dict{"S": types.Name("D")},
		}}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := labelRanges(identityDeref, tt.tree, 10)
			if len(got) != tt.want {
				t.Errorf("got %d ranges, want %d: %+v", len(got), tt.want, got)
			}
		})
	}
}

func TestLabelRangesDepthLimit(t *testing.T) {
	// A self-referencing node must terminate at the depth bound.
	node := types.Dict{}
	node["Kids"] = types.Array{node}
	if got := labelRanges(identityDeref, node, 10); got != nil {
		t.Errorf("cyclic tree produced %+v", got)
	}
}
