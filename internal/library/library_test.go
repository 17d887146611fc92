package library

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/ppopescu/chapterize/pkg/types"
)

// --- test helpers ---

func testStore(t *testing.T) *Store {
	t.Helper()
	cfg := types.LibraryConfig{
		Path:       filepath.Join(t.TempDir(), "library", "chapterize.db"),
		MaxResults: 20,
	}
	store, err := Open(cfg)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func samplePlan(path string) *types.Plan {
	return &types.Plan{
		Source:      path,
		Pages:       90,
		GeneratedAt: time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC),
		Tool:        "chapterize v0.1.0",
		Chapters: []types.Chapter{
			{Title: "Introduction", StartPage: 12, EndPage: 40, Level: 1, Source: types.SourceTOC, Confidence: 0.8},
			{Title: "Methods of Analysis", StartPage: 40, EndPage: 68, Level: 1, Source: types.SourceTOC, Confidence: 0.8},
			{Title: "Conclusions", StartPage: 68, EndPage: 90, Level: 1, Source: types.SourceOutline, Confidence: 0.9},
		},
	}
}

func saveHelper(t *testing.T, store *Store, path string) string {
	t.Helper()
	id, err := store.Save(context.Background(), samplePlan(path))
	if err != nil {
		t.Fatal(err)
	}
	return id
}

// --- schema tests ---

func TestOpenCreatesSchema(t *testing.T) {
	store := testStore(t)

	tables := []string{"documents", "chapters", "chapters_fts"}
	for _, table := range tables {
		var count int
		err := store.db.QueryRow(
			`SELECT count(*) FROM sqlite_master WHERE type IN ('table','view') AND name = ?`, table,
		).Scan(&count)
		if err != nil {
			t.Fatalf("checking table %s: %v", table, err)
		}
		if count == 0 {
			t.Errorf("table %s does not exist", table)
		}
	}
}

func TestOpenCreatesDBFile(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "dir", "catalog.db")

	store, err := Open(types.LibraryConfig{Path: dbPath})
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Errorf("database file not created at %s", dbPath)
	}
}

// --- save tests ---

func TestSaveAndPlanRoundTrip(t *testing.T) {
	store := testStore(t)
	id := saveHelper(t, store, "books/history.pdf")

	plan, err := store.Plan(context.Background(), id)
	if err != nil {
		t.Fatal(err)
	}

	want := samplePlan("books/history.pdf")
	if plan.Source != want.Source {
		t.Errorf("Source = %q, want %q", plan.Source, want.Source)
	}
	if plan.Pages != want.Pages {
		t.Errorf("Pages = %d, want %d", plan.Pages, want.Pages)
	}
	if plan.Tool != want.Tool {
		t.Errorf("Tool = %q, want %q", plan.Tool, want.Tool)
	}
	if !plan.GeneratedAt.Equal(want.GeneratedAt) {
		t.Errorf("GeneratedAt = %v, want %v", plan.GeneratedAt, want.GeneratedAt)
	}
	if len(plan.Chapters) != len(want.Chapters) {
		t.Fatalf("got %d chapters, want %d", len(plan.Chapters), len(want.Chapters))
	}
	for i, ch := range plan.Chapters {
		if ch != want.Chapters[i] {
			t.Errorf("chapter %d = %+v, want %+v", i, ch, want.Chapters[i])
		}
	}
}

func TestSaveGeneratesStableIDs(t *testing.T) {
	store := testStore(t)

	idA := saveHelper(t, store, "a.pdf")
	idB := saveHelper(t, store, "b.pdf")

	if idA == "" || idB == "" {
		t.Fatal("Save returned an empty id")
	}
	if idA == idB {
		t.Errorf("distinct paths share id %q", idA)
	}
}

func TestSaveReplacesPriorAnalysis(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	first := saveHelper(t, store, "book.pdf")

	updated := &types.Plan{
		Source: "book.pdf",
		Pages:  95,
		Chapters: []types.Chapter{
			{Title: "Full Document", StartPage: 0, EndPage: 95, Level: 1, Source: types.SourceFallback},
		},
	}
	second, err := store.Save(ctx, updated)
	if err != nil {
		t.Fatal(err)
	}
	if second != first {
		t.Errorf("re-analysis changed id: %q -> %q", first, second)
	}

	plan, err := store.Plan(ctx, first)
	if err != nil {
		t.Fatal(err)
	}
	if plan.Pages != 95 {
		t.Errorf("Pages = %d, want 95", plan.Pages)
	}
	if len(plan.Chapters) != 1 {
		t.Fatalf("got %d chapters, want 1 (old chapters should be removed)", len(plan.Chapters))
	}
	if plan.Chapters[0].Title != "Full Document" {
		t.Errorf("title = %q, want %q", plan.Chapters[0].Title, "Full Document")
	}

	// The FTS index must not retain the replaced titles.
	var count int
	err = store.db.QueryRow(
		`SELECT count(*) FROM chapters_fts WHERE chapters_fts MATCH ?`, "introduction",
	).Scan(&count)
	if err != nil {
		t.Fatal(err)
	}
	if count != 0 {
		t.Errorf("FTS index still matches %d replaced titles", count)
	}

	records, err := store.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 {
		t.Errorf("got %d documents, want 1", len(records))
	}
}

func TestSaveRejectsMissingSource(t *testing.T) {
	store := testStore(t)

	_, err := store.Save(context.Background(), &types.Plan{Pages: 10})
	if err == nil {
		t.Fatal("expected error for plan without source path")
	}
}

// --- list tests ---

func TestList(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	saveHelper(t, store, "old.pdf")
	recent := samplePlan("recent.pdf")
	recent.GeneratedAt = recent.GeneratedAt.Add(time.Hour)
	if _, err := store.Save(ctx, recent); err != nil {
		t.Fatal(err)
	}

	records, err := store.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}

	// Most recently analyzed first.
	if records[0].Path != "recent.pdf" {
		t.Errorf("records[0].Path = %q, want %q", records[0].Path, "recent.pdf")
	}

	r := records[0]
	if r.ID == "" {
		t.Error("record missing id")
	}
	if r.Pages != 90 {
		t.Errorf("Pages = %d, want 90", r.Pages)
	}
	if r.Chapters != 3 {
		t.Errorf("Chapters = %d, want 3", r.Chapters)
	}
	if r.Tool != "chapterize v0.1.0" {
		t.Errorf("Tool = %q", r.Tool)
	}
	if r.AnalyzedAt.IsZero() {
		t.Error("AnalyzedAt not parsed")
	}
}

func TestListEmpty(t *testing.T) {
	store := testStore(t)

	records, err := store.List(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 0 {
		t.Errorf("got %d records, want 0", len(records))
	}
}

// --- search tests ---

func TestSearchFullText(t *testing.T) {
	store := testStore(t)
	saveHelper(t, store, "fts.pdf")

	tests := []struct {
		name      string
		query     string
		wantCount int
		wantTitle string
	}{
		{"matching term", "methods", 1, "Methods of Analysis"},
		{"case folded", "INTRODUCTION", 1, "Introduction"},
		{"no match", "quantum xyzzy", 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results, err := store.Search(context.Background(), QueryOptions{Query: tt.query})
			if err != nil {
				t.Fatal(err)
			}
			if len(results) != tt.wantCount {
				t.Fatalf("got %d results, want %d", len(results), tt.wantCount)
			}
			if tt.wantTitle != "" && results[0].Title != tt.wantTitle {
				t.Errorf("title = %q, want %q", results[0].Title, tt.wantTitle)
			}
		})
	}
}

func TestSearchIncludesDocument(t *testing.T) {
	store := testStore(t)
	id := saveHelper(t, store, "owner.pdf")

	results, err := store.Search(context.Background(), QueryOptions{Query: "conclusions"})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}
	if results[0].DocumentID != id {
		t.Errorf("DocumentID = %q, want %q", results[0].DocumentID, id)
	}
	if results[0].DocumentPath != "owner.pdf" {
		t.Errorf("DocumentPath = %q, want %q", results[0].DocumentPath, "owner.pdf")
	}
}

func TestSearchBySource(t *testing.T) {
	store := testStore(t)
	saveHelper(t, store, "sources.pdf")

	tests := []struct {
		source    types.Source
		wantCount int
	}{
		{types.SourceTOC, 2},
		{types.SourceOutline, 1},
		{types.SourceStructural, 0},
	}

	for _, tt := range tests {
		t.Run(string(tt.source), func(t *testing.T) {
			results, err := store.Search(context.Background(), QueryOptions{Source: tt.source})
			if err != nil {
				t.Fatal(err)
			}
			if len(results) != tt.wantCount {
				t.Errorf("got %d results, want %d", len(results), tt.wantCount)
			}
			for _, r := range results {
				if r.Source != tt.source {
					t.Errorf("result source = %q, want %q", r.Source, tt.source)
				}
			}
		})
	}
}

func TestSearchByMinConfidence(t *testing.T) {
	store := testStore(t)
	saveHelper(t, store, "conf.pdf")

	results, err := store.Search(context.Background(), QueryOptions{MinConfidence: 0.85})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}
	if results[0].Title != "Conclusions" {
		t.Errorf("title = %q, want %q", results[0].Title, "Conclusions")
	}
}

func TestSearchByDocument(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	idA := saveHelper(t, store, "a.pdf")
	saveHelper(t, store, "b.pdf")

	// Filter by path.
	results, err := store.Search(ctx, QueryOptions{Document: "a.pdf"})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 3 {
		t.Fatalf("got %d results, want 3", len(results))
	}
	for _, r := range results {
		if r.DocumentPath != "a.pdf" {
			t.Errorf("result path = %q, want %q", r.DocumentPath, "a.pdf")
		}
	}

	// Filter by id.
	results, err = store.Search(ctx, QueryOptions{Document: idA})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 3 {
		t.Errorf("got %d results by id, want 3", len(results))
	}
}

func TestSearchRespectsMaxResults(t *testing.T) {
	store := testStore(t)
	saveHelper(t, store, "limit.pdf")

	results, err := store.Search(context.Background(), QueryOptions{MaxResults: 2})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Errorf("got %d results, want 2", len(results))
	}
}

func TestSearchCombinedQuery(t *testing.T) {
	store := testStore(t)
	saveHelper(t, store, "combo.pdf")

	results, err := store.Search(context.Background(), QueryOptions{
		Query:  "introduction OR conclusions",
		Source: types.SourceOutline,
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}
	if results[0].Title != "Conclusions" {
		t.Errorf("title = %q, want %q", results[0].Title, "Conclusions")
	}
}

func TestSearchStructuredSortOrder(t *testing.T) {
	store := testStore(t)
	saveHelper(t, store, "zzz.pdf")
	saveHelper(t, store, "aaa.pdf")

	results, err := store.Search(context.Background(), QueryOptions{Source: types.SourceTOC})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 4 {
		t.Fatalf("got %d results, want 4", len(results))
	}
	// Structured queries are sorted by document path, then chapter order.
	if results[0].DocumentPath != "aaa.pdf" {
		t.Errorf("results[0].DocumentPath = %q, want %q", results[0].DocumentPath, "aaa.pdf")
	}
	if results[0].Title != "Introduction" || results[1].Title != "Methods of Analysis" {
		t.Errorf("chapter order not preserved: %q, %q", results[0].Title, results[1].Title)
	}
}

func TestQueryOptionsIsEmpty(t *testing.T) {
	tests := []struct {
		name string
		opts QueryOptions
		want bool
	}{
		{"empty", QueryOptions{}, true},
		{"max results only", QueryOptions{MaxResults: 5}, true},
		{"query", QueryOptions{Query: "war"}, false},
		{"source", QueryOptions{Source: types.SourceTOC}, false},
		{"confidence", QueryOptions{MinConfidence: 0.5}, false},
		{"document", QueryOptions{Document: "a.pdf"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.opts.IsEmpty(); got != tt.want {
				t.Errorf("IsEmpty() = %v, want %v", got, tt.want)
			}
		})
	}
}

// --- export tests ---

func TestExportYAML(t *testing.T) {
	store := testStore(t)
	saveHelper(t, store, "export.pdf")

	var buf bytes.Buffer
	if err := store.ExportYAML(context.Background(), "export.pdf", &buf); err != nil {
		t.Fatal(err)
	}

	var plan types.Plan
	if err := yaml.Unmarshal(buf.Bytes(), &plan); err != nil {
		t.Fatalf("invalid YAML: %v", err)
	}
	if plan.Source != "export.pdf" {
		t.Errorf("Source = %q, want %q", plan.Source, "export.pdf")
	}
	if len(plan.Chapters) != 3 {
		t.Errorf("got %d chapters, want 3", len(plan.Chapters))
	}
}

func TestExportJSON(t *testing.T) {
	store := testStore(t)
	id := saveHelper(t, store, "export.pdf")

	var buf bytes.Buffer
	if err := store.ExportJSON(context.Background(), id, &buf); err != nil {
		t.Fatal(err)
	}

	var plan types.Plan
	if err := json.Unmarshal(buf.Bytes(), &plan); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if plan.Pages != 90 {
		t.Errorf("Pages = %d, want 90", plan.Pages)
	}
	if len(plan.Chapters) != 3 {
		t.Errorf("got %d chapters, want 3", len(plan.Chapters))
	}
}

func TestExportNotFound(t *testing.T) {
	store := testStore(t)

	var buf bytes.Buffer
	err := store.ExportYAML(context.Background(), "missing.pdf", &buf)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

// --- delete tests ---

func TestDelete(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	saveHelper(t, store, "keep.pdf")
	saveHelper(t, store, "drop.pdf")

	if err := store.Delete(ctx, "drop.pdf"); err != nil {
		t.Fatal(err)
	}

	records, err := store.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 || records[0].Path != "keep.pdf" {
		t.Errorf("records = %+v, want only keep.pdf", records)
	}

	// Chapter rows must go with the document.
	var count int
	err = store.db.QueryRow(`SELECT count(*) FROM chapters`).Scan(&count)
	if err != nil {
		t.Fatal(err)
	}
	if count != 3 {
		t.Errorf("got %d chapter rows, want 3", count)
	}
}

func TestDeleteByID(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	id := saveHelper(t, store, "by-id.pdf")
	if err := store.Delete(ctx, id); err != nil {
		t.Fatal(err)
	}

	_, err := store.Plan(ctx, id)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestDeleteNotFound(t *testing.T) {
	store := testStore(t)

	err := store.Delete(context.Background(), "missing.pdf")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}
