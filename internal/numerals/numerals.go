// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package numerals converts between integers and the numeral styles used by
// printed page labels: roman numerals and bijective alphabetic sequences.
package numerals

import "strings"

var romanValues = map[byte]int{
	'I': 1, 'V': 5, 'X': 10, 'L': 50,
	'C': 100, 'D': 500, 'M': 1000,
}

// RomanToInt converts a roman numeral to its integer value. Input is
// case-insensitive. Returns 0 for empty input, for characters outside
// IVXLCDM, and for strings that are not in canonical form (so "IIII" and
// "IL" are rejected, "IV" and "XLIX" accepted).
func RomanToInt(s string) int {
	if s == "" {
		return 0
	}
	s = strings.ToUpper(s)

	result := 0
	for i := 0; i < len(s); i++ {
		val, ok := romanValues[s[i]]
		if !ok {
			return 0
		}
		if i+1 < len(s) && romanValues[s[i+1]] > val {
			result -= val
		} else {
			result += val
		}
	}
	if result < 1 {
		return 0
	}
	// The subtractive scan accepts malformed spellings like "IIII" or "VX".
	// Re-rendering the value and comparing enforces the canonical grammar.
	if IntToRoman(result) != s {
		return 0
	}
	return result
}

// IsRoman reports whether s is a valid canonical roman numeral.
func IsRoman(s string) bool {
	return RomanToInt(s) > 0
}

var (
	intValues  = []int{1000, 900, 500, 400, 100, 90, 50, 40, 10, 9, 5, 4, 1}
	intSymbols = []string{"M", "CM", "D", "CD", "C", "XC", "L", "XL", "X", "IX", "V", "IV", "I"}
)

// IntToRoman converts an integer to its canonical uppercase roman numeral.
// Defined for n >= 1; returns "" otherwise.
func IntToRoman(n int) string {
	if n < 1 {
		return ""
	}

	var result strings.Builder
	for i := 0; i < len(intValues); i++ {
		for n >= intValues[i] {
			n -= intValues[i]
			result.WriteString(intSymbols[i])
		}
	}
	return result.String()
}

// IntToAlpha converts an integer to a bijective base-26 label
// (1 = "A", 26 = "Z", 27 = "AA"). Defined for n >= 1; returns "" otherwise.
func IntToAlpha(n int) string {
	if n < 1 {
		return ""
	}

	var buf [8]byte
	i := len(buf)
	for n > 0 {
		n--
		i--
		buf[i] = byte('A' + n%26)
		n /= 26
	}
	return string(buf[i:])
}
