package types

import "fmt"

// MarkerPolicy selects which page becomes a chapter start relative to a
// detected delimiter page (an "intentionally blank" marker).
type MarkerPolicy string

const (
	// MarkerDelimiter starts the chapter on the marker page itself.
	MarkerDelimiter MarkerPolicy = "delimiter"

	// MarkerPreceding starts the chapter on the page before the marker.
	MarkerPreceding MarkerPolicy = "preceding"
)

// ParseMarkerPolicy converts a string to a MarkerPolicy, rejecting unknown values.
func ParseMarkerPolicy(s string) (MarkerPolicy, error) {
	switch MarkerPolicy(s) {
	case MarkerDelimiter, MarkerPreceding:
		return MarkerPolicy(s), nil
	}
	return "", fmt.Errorf("unknown marker policy %q", s)
}

// DetectConfig holds settings for the boundary detection stage.
type DetectConfig struct {
	// Extractors names the signals to run, in priority order. Valid names:
	// outline, typography, toc, structural. Empty means all four.
	Extractors []string `json:"extractors" yaml:"extractors" mapstructure:"extractors"`

	// MinHeadingRatio is the font-size-to-median ratio above which a text
	// line counts as heading-sized (default 1.20).
	MinHeadingRatio float64 `json:"min_heading_ratio" yaml:"min_heading_ratio" mapstructure:"min_heading_ratio"`

	// MaxHeadingLen is the maximum rune length of a candidate heading
	// (default 200). Longer lines are body text, not headings.
	MaxHeadingLen int `json:"max_heading_len" yaml:"max_heading_len" mapstructure:"max_heading_len"`

	// TOCWindow is the fraction of leading pages scanned for a printed
	// table of contents (default 0.20). At least TOCWindowMin pages are
	// always scanned.
	TOCWindow float64 `json:"toc_window" yaml:"toc_window" mapstructure:"toc_window"`

	// TOCWindowMin is the minimum number of leading pages scanned
	// (default 20).
	TOCWindowMin int `json:"toc_window_min" yaml:"toc_window_min" mapstructure:"toc_window_min"`

	// MarkerPolicy selects the chapter start page relative to a delimiter
	// page: delimiter or preceding (default delimiter).
	MarkerPolicy MarkerPolicy `json:"marker_policy" yaml:"marker_policy" mapstructure:"marker_policy"`
}

// DefaultDetectConfig returns the detection defaults.
func DefaultDetectConfig() DetectConfig {
	return DetectConfig{
		MinHeadingRatio: 1.20,
		MaxHeadingLen:   200,
		TOCWindow:       0.20,
		TOCWindowMin:    20,
		MarkerPolicy:    MarkerDelimiter,
	}
}

// SplitConfig holds settings for the artifact writing stage.
type SplitConfig struct {
	// OutputDir is the directory for per-chapter files. Empty derives
	// "<stem>_chapters" next to the source document.
	OutputDir string `json:"output_dir" yaml:"output_dir" mapstructure:"output_dir"`

	// DryRun reports what would be written without writing anything.
	DryRun bool `json:"dry_run" yaml:"dry_run" mapstructure:"dry_run"`

	// Force overwrites chapter files that already exist. Without it,
	// existing files are skipped.
	Force bool `json:"force" yaml:"force" mapstructure:"force"`
}

// LibraryConfig holds settings for the analysis catalog.
type LibraryConfig struct {
	// Path is the sqlite database file (default "chapterize.db" in the
	// working directory).
	Path string `json:"path" yaml:"path" mapstructure:"path"`

	// MaxResults is the default maximum number of search results (default 20).
	MaxResults int `json:"max_results" yaml:"max_results" mapstructure:"max_results"`
}

// DefaultLibraryConfig returns the catalog defaults.
func DefaultLibraryConfig() LibraryConfig {
	return LibraryConfig{MaxResults: 20}
}

// Config groups all stage configurations.
type Config struct {
	Detect  DetectConfig  `json:"detect" yaml:"detect" mapstructure:"detect"`
	Split   SplitConfig   `json:"split" yaml:"split" mapstructure:"split"`
	Library LibraryConfig `json:"library" yaml:"library" mapstructure:"library"`
}

// DefaultConfig returns the full default configuration.
func DefaultConfig() Config {
	return Config{
		Detect:  DefaultDetectConfig(),
		Library: DefaultLibraryConfig(),
	}
}
