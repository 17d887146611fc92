// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pagelabels maps printed page labels ("iv", "12", "A-3") to
// physical zero-based page indices. Front matter is commonly numbered in
// roman numerals with the arabic sequence restarting at the body, so the
// printed number on a page rarely equals its physical position; the index
// reconstructs that mapping from document metadata when available and from
// page-corner text when not.
package pagelabels

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/ppopescu/chapterize/internal/document"
	"github.com/ppopescu/chapterize/internal/numerals"
)

// ErrNotFound reports a label no strategy could place on a physical page.
var ErrNotFound = errors.New("page label not found")

// cornerBand is the fraction of the page's vertical text extent treated as
// header/footer territory during corner scans.
const cornerBand = 0.12

// probeRadius bounds how far around the offset-derived candidate page the
// resolver searches for a printed arabic number.
const probeRadius = 5

// Strategy names the construction strategy that populated the index.
type Strategy string

const (
	StrategyNative  Strategy = "native"
	StrategyCatalog Strategy = "catalog"
	StrategyScan    Strategy = "corner-scan"
	StrategyNone    Strategy = "none"
)

// Entry is one registered label with its physical page index.
type Entry struct {
	Label string
	Page  int
}

// Index is a built-once, read-many label map for a single document
// session. Registration keeps the first page seen for a label; lookups
// fall back to a lowercased secondary key.
type Index struct {
	doc      document.Document
	entries  []Entry
	labels   map[string]int
	lower    map[string]int
	strategy Strategy

	mu      sync.Mutex
	corners map[int]string
}

// Build constructs the index for doc. Strategies run in order, each only
// when the previous produced nothing: native per-page labels, the
// numbering catalog, then a heuristic scan of page corners.
func Build(doc document.Document) *Index {
	x := &Index{
		doc:      doc,
		labels:   make(map[string]int),
		lower:    make(map[string]int),
		strategy: StrategyNone,
		corners:  make(map[int]string),
	}

	x.fromNative()
	if len(x.entries) == 0 {
		x.fromCatalog()
	}
	if len(x.entries) == 0 {
		x.fromScan()
	}
	return x
}

// Strategy reports which construction strategy populated the index.
func (x *Index) Strategy() Strategy {
	return x.strategy
}

// Len returns the number of registered labels.
func (x *Index) Len() int {
	return len(x.entries)
}

// Entries returns the registered labels in registration order.
func (x *Index) Entries() []Entry {
	out := make([]Entry, len(x.entries))
	copy(out, x.entries)
	return out
}

// Resolve maps a printed label to its physical page index. The strategies
// grade from a direct map hit down to an exhaustive corner scan; failure
// of all of them returns an error wrapping ErrNotFound.
func (x *Index) Resolve(label string) (int, error) {
	label = strings.TrimSpace(label)
	if label == "" {
		return 0, fmt.Errorf("empty label: %w", ErrNotFound)
	}

	if idx, ok := x.labels[label]; ok {
		return idx, nil
	}
	if idx, ok := x.lower[strings.ToLower(label)]; ok {
		return idx, nil
	}

	if v := numerals.RomanToInt(label); v > 0 {
		if idx, ok := x.byRomanValue(v); ok {
			return idx, nil
		}
	}

	if v, err := strconv.Atoi(label); err == nil && v > 0 {
		if idx, ok := x.byArabicOffset(v); ok {
			return idx, nil
		}
		if idx, ok := x.scanAllPages(strconv.Itoa(v)); ok {
			return idx, nil
		}
	}

	return 0, fmt.Errorf("label %q: %w", label, ErrNotFound)
}

func (x *Index) register(label string, page int) {
	label = strings.TrimSpace(label)
	if label == "" {
		return
	}
	if _, ok := x.labels[label]; !ok {
		x.labels[label] = page
		x.entries = append(x.entries, Entry{Label: label, Page: page})
	}
	lo := strings.ToLower(label)
	if _, ok := x.lower[lo]; !ok {
		x.lower[lo] = page
	}
}

func (x *Index) fromNative() {
	for i := 0; i < x.doc.PageCount(); i++ {
		if label, ok := x.doc.NativePageLabel(i); ok {
			x.register(label, i)
		}
	}
	if len(x.entries) > 0 {
		x.strategy = StrategyNative
	}
}

func (x *Index) fromCatalog() {
	pages := x.doc.PageCount()
	for _, nr := range x.doc.NumberingCatalog() {
		for p := nr.Start; p <= nr.End && p < pages; p++ {
			if p < 0 {
				continue
			}
			label := nr.Prefix + renderStyled(nr.Style, nr.FirstValue+p-nr.Start)
			x.register(label, p)
		}
	}
	if len(x.entries) > 0 {
		x.strategy = StrategyCatalog
	}
}

func (x *Index) fromScan() {
	for i := 0; i < x.doc.PageCount(); i++ {
		if token := firstLabelToken(x.cornerText(i)); token != "" {
			x.register(token, i)
		}
	}
	if len(x.entries) > 0 {
		x.strategy = StrategyScan
	}
}

// renderStyled renders a numbering value in the given style. Literal
// ranges carry their text entirely in the prefix. Unknown styles and
// out-of-domain values render empty, which register ignores.
func renderStyled(style document.NumberingStyle, v int) string {
	switch style {
	case document.StyleDecimal:
		if v < 0 {
			return ""
		}
		return strconv.Itoa(v)
	case document.StyleRomanLower:
		return strings.ToLower(numerals.IntToRoman(v))
	case document.StyleRomanUpper:
		return numerals.IntToRoman(v)
	case document.StyleAlphaLower:
		return strings.ToLower(numerals.IntToAlpha(v))
	case document.StyleAlphaUpper:
		return numerals.IntToAlpha(v)
	case document.StyleLiteral:
		return ""
	}
	return ""
}

// byRomanValue scans registered labels for one whose decoded roman value
// matches, tolerating case and spelling drift between the query and the
// printed form. Keys are visited in sorted order to keep the answer
// stable.
func (x *Index) byRomanValue(value int) (int, bool) {
	keys := make([]string, 0, len(x.labels))
	for k := range x.labels {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if numerals.RomanToInt(k) == value {
			return x.labels[k], true
		}
	}
	return 0, false
}

// byArabicOffset estimates the physical page of an arabic label from the
// modal offset between printed numbers and physical indices, then demands
// printed evidence: the candidate page (or a near neighbor) must actually
// show the number in its corner text.
func (x *Index) byArabicOffset(value int) (int, bool) {
	offset, ok := x.modalOffset()
	if !ok {
		return 0, false
	}

	pages := x.doc.PageCount()
	token := strconv.Itoa(value)
	candidate := value + offset - 1

	tryPage := func(p int) bool {
		return p >= 0 && p < pages && containsToken(x.cornerText(p), token)
	}

	if tryPage(candidate) {
		return candidate, true
	}
	for d := 1; d <= probeRadius; d++ {
		if tryPage(candidate + d) {
			return candidate + d, true
		}
		if tryPage(candidate - d) {
			return candidate - d, true
		}
	}
	return 0, false
}

// modalOffset returns the most common physicalIndex-arabicValue offset
// over arabic-keyed entries, ties broken by first registration.
func (x *Index) modalOffset() (int, bool) {
	counts := make(map[int]int)
	firstSeen := make(map[int]int)

	for order, e := range x.entries {
		v, err := strconv.Atoi(e.Label)
		if err != nil || v <= 0 {
			continue
		}
		off := e.Page - v
		counts[off]++
		if _, ok := firstSeen[off]; !ok {
			firstSeen[off] = order
		}
	}
	if len(counts) == 0 {
		return 0, false
	}

	best, bestCount, bestOrder := 0, -1, 0
	for off, n := range counts {
		if n > bestCount || (n == bestCount && firstSeen[off] < bestOrder) {
			best, bestCount, bestOrder = off, n, firstSeen[off]
		}
	}
	return best, true
}

// scanAllPages is the last resort for an arabic label: walk every page
// looking for the number printed in a corner.
func (x *Index) scanAllPages(token string) (int, bool) {
	for i := 0; i < x.doc.PageCount(); i++ {
		if containsToken(x.cornerText(i), token) {
			return i, true
		}
	}
	return 0, false
}

// cornerText returns the header and footer text of page i: runs whose
// baseline falls in the top or bottom band of the page's text extent.
// Pages without positioned runs fall back to the first and last lines of
// the plain text. Results are cached; resolution probes revisit pages.
func (x *Index) cornerText(i int) string {
	x.mu.Lock()
	if text, ok := x.corners[i]; ok {
		x.mu.Unlock()
		return text
	}
	x.mu.Unlock()

	text := extractCorners(x.doc, i)

	x.mu.Lock()
	x.corners[i] = text
	x.mu.Unlock()
	return text
}

func extractCorners(doc document.Document, i int) string {
	runs := doc.PageTextRuns(i)
	if len(runs) == 0 {
		return edgeLines(doc.PageText(i))
	}

	minY, maxY := runs[0].Y, runs[0].Y
	for _, r := range runs[1:] {
		if r.Y < minY {
			minY = r.Y
		}
		if r.Y > maxY {
			maxY = r.Y
		}
	}
	band := (maxY - minY) * cornerBand

	var parts []string
	for _, r := range runs {
		if r.Y >= maxY-band || r.Y <= minY+band {
			parts = append(parts, r.Text)
		}
	}
	return strings.Join(parts, "\n")
}

// edgeLines keeps the two leading and two trailing non-blank lines.
func edgeLines(text string) string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) <= 4 {
		return strings.Join(lines, "\n")
	}
	edge := append([]string{}, lines[:2]...)
	edge = append(edge, lines[len(lines)-2:]...)
	return strings.Join(edge, "\n")
}

var (
	arabicTokenRe = regexp.MustCompile(`^\d{1,6}$`)
	romanTokenRe  = regexp.MustCompile(`^[ivxlcdmIVXLCDM]{1,10}$`)
	splitTokenRe  = regexp.MustCompile(`[^0-9A-Za-z]+`)
)

// firstLabelToken returns the first standalone token of text that looks
// like a page label: a short arabic number or a run of roman numeral
// characters.
func firstLabelToken(text string) string {
	for _, tok := range splitTokenRe.Split(text, -1) {
		if tok == "" {
			continue
		}
		if arabicTokenRe.MatchString(tok) || romanTokenRe.MatchString(tok) {
			return tok
		}
	}
	return ""
}

// containsToken reports whether text contains token as a standalone word.
func containsToken(text, token string) bool {
	for _, tok := range splitTokenRe.Split(text, -1) {
		if tok == token {
			return true
		}
	}
	return false
}
