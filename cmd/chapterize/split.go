package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/ppopescu/chapterize/internal/detect"
	"github.com/ppopescu/chapterize/internal/document"
	"github.com/ppopescu/chapterize/internal/split"
	"github.com/ppopescu/chapterize/pkg/types"
)

var splitCmd = &cobra.Command{
	Use:   "split [file.pdf]",
	Short: "Write one PDF per detected chapter",
	Long: `Split writes each chapter of a document to its own PDF file. Without
--plan it runs the same detection as analyze first; with --plan it uses a
previously written, possibly hand-edited, plan file instead.

Chapter files are named NN_title.pdf and land in --output-dir, which
defaults to <stem>_chapters next to the source document. Existing files
are skipped unless --force is given.`,
	Args: cobra.ExactArgs(1),
	RunE: runSplit,
}

func init() {
	splitCmd.Flags().String("plan", "", "read the chapter plan from this YAML file instead of analyzing")
	splitCmd.Flags().String("output-dir", "", "directory for chapter files (default <stem>_chapters)")
	splitCmd.Flags().Bool("dry-run", false, "report what would be written without writing")
	splitCmd.Flags().Bool("force", false, "overwrite chapter files that already exist")

	rootCmd.AddCommand(splitCmd)
}

func runSplit(cmd *cobra.Command, args []string) error {
	srcPath := args[0]
	cfg := loadConfig()

	var (
		plan *types.Plan
		err  error
	)
	if planPath, _ := cmd.Flags().GetString("plan"); planPath != "" {
		plan, err = loadPlan(planPath)
		if err != nil {
			return err
		}
	} else {
		doc, err := document.Open(srcPath)
		if err != nil {
			return err
		}
		plan, err = detect.Detect(cmd.Context(), doc, cfg.Detect, newLogger(cmd))
		doc.Close()
		if err != nil {
			return err
		}
	}

	ranges := plan.Ranges()
	if len(ranges) == 0 {
		return fmt.Errorf("plan contains no usable page ranges")
	}

	splitCfg := cfg.Split
	if outDir, _ := cmd.Flags().GetString("output-dir"); outDir != "" {
		splitCfg.OutputDir = outDir
	}
	if cmd.Flags().Changed("dry-run") {
		splitCfg.DryRun, _ = cmd.Flags().GetBool("dry-run")
	}
	if cmd.Flags().Changed("force") {
		splitCfg.Force, _ = cmd.Flags().GetBool("force")
	}

	writer := split.NewWriter(splitCfg, cmd.OutOrStdout())
	result, err := writer.Split(cmd.Context(), srcPath, ranges)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "\nwritten: %d, skipped: %d, failed: %d\n",
		result.Written, result.Skipped, result.Failed)

	if result.HasFailures() {
		return fmt.Errorf("%d chapter(s) failed to write", result.Failed)
	}
	return nil
}

func loadPlan(path string) (*types.Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading plan: %w", err)
	}
	var plan types.Plan
	if err := yaml.Unmarshal(data, &plan); err != nil {
		return nil, fmt.Errorf("parsing plan %s: %w", path, err)
	}
	return &plan, nil
}
