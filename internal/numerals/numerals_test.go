// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package numerals

import (
	"strings"
	"testing"
)

func TestRomanToInt(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int
	}{
		// Positive: canonical forms.
		{"single I", "I", 1},
		{"subtractive IV", "IV", 4},
		{"subtractive IX", "IX", 9},
		{"xiv", "XIV", 14},
		{"xlix", "XLIX", 49},
		{"mcmxciv", "MCMXCIV", 1994},
		{"max repeats", "MMMCMXCIX", 3999},

		// Case-insensitive.
		{"lowercase ii", "ii", 2},
		{"mixed case", "XiV", 14},

		// Negative: malformed or non-canonical.
		{"empty", "", 0},
		{"four I", "IIII", 0},
		{"repeated V", "VV", 0},
		{"repeated L", "LL", 0},
		{"bad subtractive IL", "IL", 0},
		{"bad subtractive VX", "VX", 0},
		{"bad subtractive IC", "IC", 0},
		{"non-roman chars", "ABC", 0},
		{"digit", "12", 0},
		{"roman with space", "X I", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RomanToInt(tt.input); got != tt.want {
				t.Errorf("RomanToInt(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestRomanRoundTrip(t *testing.T) {
	for n := 1; n <= 3999; n++ {
		s := IntToRoman(n)
		if s == "" {
			t.Fatalf("IntToRoman(%d) = empty", n)
		}
		if got := RomanToInt(s); got != n {
			t.Fatalf("RomanToInt(IntToRoman(%d)) = %d via %q", n, got, s)
		}
	}
}

func TestRomanCanonicalForm(t *testing.T) {
	// A valid numeral in any case re-renders as its uppercase canonical form.
	for _, s := range []string{"iv", "XIV", "mcmxciv", "iii", "CdXliV"} {
		v := RomanToInt(s)
		if v == 0 {
			t.Fatalf("RomanToInt(%q) = 0, want valid", s)
		}
		if got := IntToRoman(v); got != strings.ToUpper(s) {
			t.Errorf("IntToRoman(RomanToInt(%q)) = %q, want %q", s, got, strings.ToUpper(s))
		}
	}
}

func TestIntToRoman(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{0, ""},
		{-5, ""},
		{1, "I"},
		{4, "IV"},
		{9, "IX"},
		{40, "XL"},
		{90, "XC"},
		{400, "CD"},
		{900, "CM"},
		{1994, "MCMXCIV"},
		{3999, "MMMCMXCIX"},
	}
	for _, tt := range tests {
		if got := IntToRoman(tt.n); got != tt.want {
			t.Errorf("IntToRoman(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestIntToAlpha(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{0, ""},
		{-1, ""},
		{1, "A"},
		{2, "B"},
		{26, "Z"},
		{27, "AA"},
		{28, "AB"},
		{52, "AZ"},
		{53, "BA"},
		{702, "ZZ"},
		{703, "AAA"},
	}
	for _, tt := range tests {
		if got := IntToAlpha(tt.n); got != tt.want {
			t.Errorf("IntToAlpha(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestIntToAlphaInjective(t *testing.T) {
	seen := make(map[string]int, 1000)
	prevLen := 0
	for n := 1; n <= 1000; n++ {
		s := IntToAlpha(n)
		if prior, ok := seen[s]; ok {
			t.Fatalf("IntToAlpha(%d) = %q collides with IntToAlpha(%d)", n, s, prior)
		}
		seen[s] = n

		// Length is non-decreasing and steps up exactly at 27, 703, ...
		if len(s) < prevLen {
			t.Fatalf("IntToAlpha(%d) = %q shorter than predecessor", n, s)
		}
		prevLen = len(s)
	}
	if len(IntToAlpha(26)) != 1 || len(IntToAlpha(27)) != 2 {
		t.Errorf("alpha length step at 27 broken: %q -> %q", IntToAlpha(26), IntToAlpha(27))
	}
	if len(IntToAlpha(702)) != 2 || len(IntToAlpha(703)) != 3 {
		t.Errorf("alpha length step at 703 broken: %q -> %q", IntToAlpha(702), IntToAlpha(703))
	}
}

func TestIsRoman(t *testing.T) {
	for _, s := range []string{"i", "IV", "mmxxiv"} {
		if !IsRoman(s) {
			t.Errorf("IsRoman(%q) = false, want true", s)
		}
	}
	for _, s := range []string{"", "IIII", "A1", "chapter"} {
		if IsRoman(s) {
			t.Errorf("IsRoman(%q) = true, want false", s)
		}
	}
}
