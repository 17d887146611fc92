// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the chapterize CLI.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ppopescu/chapterize/pkg/types"
)

// Build identity, set at build time via ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootCmd is the base command for the chapterize CLI.
var rootCmd = &cobra.Command{
	Use:   "chapterize",
	Short: "Split paginated documents into chapters",
	Long: `chapterize detects chapter boundaries in paginated documents and writes
one PDF per chapter. Detection combines four signals: the embedded outline,
typographic headings, the printed table of contents, and structural markers.
Printed contents entries are resolved through a page label index, so front
matter numbered in roman numerals does not shift the result.

Each stage is a subcommand: analyze proposes a chapter plan, split writes
the per-chapter files, labels inspects page numbering, and library manages
the catalog of past analyses.`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./.chapterize.yaml or ~/.chapterize.yaml)")
	rootCmd.PersistentFlags().Bool("verbose", false, "enable debug logging")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName(".chapterize")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
	}

	viper.SetEnvPrefix("CHAPTERIZE")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// loadConfig resolves the effective configuration: built-in defaults
// overlaid with the config file and CHAPTERIZE_ environment variables.
func loadConfig() types.Config {
	cfg := types.DefaultConfig()
	if err := viper.Unmarshal(&cfg); err != nil {
		fmt.Fprintln(os.Stderr, "Warning: ignoring invalid config:", err)
		return types.DefaultConfig()
	}
	return cfg
}

// newLogger builds the diagnostic logger for one command invocation.
// Pipeline diagnostics go to stderr; --verbose lowers the level to debug.
func newLogger(cmd *cobra.Command) *slog.Logger {
	level := slog.LevelWarn
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
