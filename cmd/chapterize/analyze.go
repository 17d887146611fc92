// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/ppopescu/chapterize/internal/detect"
	"github.com/ppopescu/chapterize/internal/document"
	"github.com/ppopescu/chapterize/internal/library"
	"github.com/ppopescu/chapterize/pkg/types"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [file.pdf]",
	Short: "Detect chapter boundaries and produce a split plan",
	Long: `Analyze opens a paginated document, runs the boundary detectors, and
prints the merged chapter plan. The plan can be written to a YAML file
with --plan for inspection or hand editing, and stored in the library
with --store for later search and export.

Detection never fails on a readable document: when no signal produces a
usable boundary the plan degrades to a single full-document chapter.`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringSlice("extractors", nil, "signals to run, in priority order: outline, typography, toc, structural")
	analyzeCmd.Flags().Float64("min-heading-ratio", 0, "font-size-to-median ratio for heading detection (default 1.20)")
	analyzeCmd.Flags().String("marker-policy", "", "chapter start relative to blank marker pages: delimiter or preceding")
	analyzeCmd.Flags().String("plan", "", "write the resulting plan to this YAML file")
	analyzeCmd.Flags().Bool("store", false, "save the plan into the library")
	analyzeCmd.Flags().Bool("json", false, "output the plan as JSON")

	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	detectCfg, err := detectConfigFromFlags(cmd, cfg.Detect)
	if err != nil {
		return err
	}

	doc, err := document.Open(args[0])
	if err != nil {
		return err
	}
	defer doc.Close()

	plan, err := detect.Detect(cmd.Context(), doc, detectCfg, newLogger(cmd))
	if err != nil {
		return err
	}
	plan.Source = args[0]
	plan.Tool = "chapterize " + version

	if planPath, _ := cmd.Flags().GetString("plan"); planPath != "" {
		if err := writePlan(plan, planPath); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Plan written to %s\n", planPath)
	}

	if save, _ := cmd.Flags().GetBool("store"); save {
		lib, err := library.Open(cfg.Library)
		if err != nil {
			return err
		}
		defer lib.Close()

		id, err := lib.Save(cmd.Context(), plan)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Stored in library as %s\n", id)
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(plan)
	}

	renderPlanReport(cmd.OutOrStdout(), plan)
	return nil
}

// detectConfigFromFlags overlays explicitly set analyze flags on the
// configured detection settings.
func detectConfigFromFlags(cmd *cobra.Command, cfg types.DetectConfig) (types.DetectConfig, error) {
	if cmd.Flags().Changed("extractors") {
		cfg.Extractors, _ = cmd.Flags().GetStringSlice("extractors")
	}
	if cmd.Flags().Changed("min-heading-ratio") {
		cfg.MinHeadingRatio, _ = cmd.Flags().GetFloat64("min-heading-ratio")
	}
	if cmd.Flags().Changed("marker-policy") {
		raw, _ := cmd.Flags().GetString("marker-policy")
		policy, err := types.ParseMarkerPolicy(raw)
		if err != nil {
			return cfg, err
		}
		cfg.MarkerPolicy = policy
	}
	return cfg, nil
}

func writePlan(plan *types.Plan, path string) error {
	data, err := yaml.Marshal(plan)
	if err != nil {
		return fmt.Errorf("marshaling plan: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
