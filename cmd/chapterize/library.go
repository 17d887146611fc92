// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ppopescu/chapterize/internal/library"
	"github.com/ppopescu/chapterize/pkg/types"
)

var libraryCmd = &cobra.Command{
	Use:   "library",
	Short: "Manage the catalog of analyzed documents",
	Long: `Library manages a local SQLite catalog of analysis plans. Plans land
here through analyze --store; subcommands list stored documents, search
chapter titles, re-emit stored plans, and remove entries.`,
}

// --- list subcommand ---

var libraryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored documents",
	RunE:  runLibraryList,
}

func runLibraryList(cmd *cobra.Command, args []string) error {
	store, err := openLibrary(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	records, err := store.List(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(records) == 0 {
		fmt.Fprintln(out, "Library is empty.")
		return nil
	}

	fmt.Fprintf(out, "%-36s  %-40s  %6s  %8s  %s\n",
		"ID", "Path", "Pages", "Chapters", "Analyzed")
	fmt.Fprintln(out, strings.Repeat("-", 110))

	for _, r := range records {
		path := r.Path
		if len(path) > 40 {
			path = path[:37] + "..."
		}
		fmt.Fprintf(out, "%-36s  %-40s  %6d  %8d  %s\n",
			r.ID, path, r.Pages, r.Chapters, r.AnalyzedAt.Format("2006-01-02 15:04"))
	}

	fmt.Fprintf(out, "\n%d documents\n", len(records))
	return nil
}

// --- search subcommand ---

var librarySearchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search stored chapters with full-text search and filters",
	Long: `Search queries stored chapter titles using FTS5 full-text search,
structured filters (source, confidence, document), or a combination of
both. Results carry the owning document so a match can be exported or
split again.`,
	RunE: runLibrarySearch,
}

func runLibrarySearch(cmd *cobra.Command, args []string) error {
	opts, err := queryOptsFromFlags(cmd, args)
	if err != nil {
		return err
	}
	if opts.IsEmpty() {
		return fmt.Errorf("query or filter required: provide a search query, --source, --min-confidence, or --document")
	}

	store, err := openLibrary(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	results, err := store.Search(cmd.Context(), opts)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatSearchOutput(cmd, results, jsonOutput)
}

func formatSearchOutput(cmd *cobra.Command, results []library.SearchResult, jsonOutput bool) error {
	out := cmd.OutOrStdout()

	if jsonOutput {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	if len(results) == 0 {
		fmt.Fprintln(out, "No results found.")
		return nil
	}

	fmt.Fprintf(out, "%-4s  %-44s  %-11s  %-10s  %-5s  %s\n",
		"Rank", "Title", "Pages", "Source", "Conf", "Document")
	fmt.Fprintln(out, strings.Repeat("-", 110))

	for i, r := range results {
		title := r.Title
		if len(title) > 44 {
			title = title[:41] + "..."
		}
		doc := r.DocumentPath
		if len(doc) > 24 {
			doc = doc[:21] + "..."
		}
		pages := fmt.Sprintf("%d-%d", r.StartPage+1, r.EndPage)
		fmt.Fprintf(out, "%-4d  %-44s  %-11s  %-10s  %-5.1f  %s\n",
			i+1, title, pages, r.Source, r.Confidence, doc)
	}

	fmt.Fprintf(out, "\n%d results\n", len(results))
	return nil
}

// --- export subcommand ---

var libraryExportCmd = &cobra.Command{
	Use:   "export [id|path]",
	Short: "Re-emit a stored plan as YAML or JSON",
	Long: `Export writes the stored plan of one document to stdout, in the same
format analyze --plan produces. The output can be hand-edited and fed
back to split --plan.`,
	Args: cobra.ExactArgs(1),
	RunE: runLibraryExport,
}

func runLibraryExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")

	store, err := openLibrary(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	switch format {
	case "yaml", "":
		return store.ExportYAML(cmd.Context(), args[0], cmd.OutOrStdout())
	case "json":
		return store.ExportJSON(cmd.Context(), args[0], cmd.OutOrStdout())
	default:
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}
}

// --- rm subcommand ---

var libraryRmCmd = &cobra.Command{
	Use:   "rm [id|path]",
	Short: "Remove a stored document and its chapters",
	Args:  cobra.ExactArgs(1),
	RunE:  runLibraryRm,
}

func runLibraryRm(cmd *cobra.Command, args []string) error {
	store, err := openLibrary(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Delete(cmd.Context(), args[0]); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", args[0])
	return nil
}

// --- shared helpers ---

func openLibrary(cmd *cobra.Command) (*library.Store, error) {
	cfg := loadConfig().Library

	if db, _ := cmd.Flags().GetString("db"); db != "" {
		cfg.Path = db
	}
	if maxResults, _ := cmd.Flags().GetInt("max-results"); maxResults > 0 {
		cfg.MaxResults = maxResults
	}

	return library.Open(cfg)
}

func queryOptsFromFlags(cmd *cobra.Command, args []string) (library.QueryOptions, error) {
	queryText, _ := cmd.Flags().GetString("query")
	if queryText == "" && len(args) > 0 {
		queryText = strings.Join(args, " ")
	}

	opts := library.QueryOptions{Query: queryText}

	if raw, _ := cmd.Flags().GetString("source"); raw != "" {
		source, err := types.ParseSource(raw)
		if err != nil {
			return opts, err
		}
		opts.Source = source
	}
	opts.MinConfidence, _ = cmd.Flags().GetFloat64("min-confidence")
	opts.Document, _ = cmd.Flags().GetString("document")
	opts.MaxResults, _ = cmd.Flags().GetInt("limit")

	return opts, nil
}

func init() {
	// Shared flags on the parent command, inherited by subcommands.
	libraryCmd.PersistentFlags().String("db", "", "library database file (default from config)")
	libraryCmd.PersistentFlags().Int("max-results", 0, "maximum number of query results (0 = use default)")

	// Search flags.
	librarySearchCmd.Flags().String("query", "", "full-text search query over chapter titles")
	librarySearchCmd.Flags().String("source", "", "filter by signal: outline, typography, toc, structural, fallback")
	librarySearchCmd.Flags().Float64("min-confidence", 0, "drop chapters below this confidence")
	librarySearchCmd.Flags().String("document", "", "filter by document id or path")
	librarySearchCmd.Flags().Int("limit", 0, "maximum results (0 = use default)")
	librarySearchCmd.Flags().Bool("json", false, "output results as JSON")

	// Export flags.
	libraryExportCmd.Flags().String("format", "yaml", "export format: yaml or json")

	// Wire subcommands.
	libraryCmd.AddCommand(libraryListCmd)
	libraryCmd.AddCommand(librarySearchCmd)
	libraryCmd.AddCommand(libraryExportCmd)
	libraryCmd.AddCommand(libraryRmCmd)

	rootCmd.AddCommand(libraryCmd)
}
