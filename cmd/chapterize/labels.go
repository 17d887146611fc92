package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ppopescu/chapterize/internal/document"
	"github.com/ppopescu/chapterize/internal/pagelabels"
)

var labelsCmd = &cobra.Command{
	Use:   "labels [file.pdf]",
	Short: "Inspect the page label index of a document",
	Long: `Labels builds the page label index used during detection and prints
the construction strategy together with the registered label table. Use
--resolve to map one printed label to its physical page.`,
	Args: cobra.ExactArgs(1),
	RunE: runLabels,
}

func init() {
	labelsCmd.Flags().String("resolve", "", "resolve a single printed label to a physical page")

	rootCmd.AddCommand(labelsCmd)
}

func runLabels(cmd *cobra.Command, args []string) error {
	doc, err := document.Open(args[0])
	if err != nil {
		return err
	}
	defer doc.Close()

	index := pagelabels.Build(doc)

	if label, _ := cmd.Flags().GetString("resolve"); label != "" {
		page, err := index.Resolve(label)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s -> physical page %d\n", label, page+1)
		return nil
	}

	renderLabelsReport(cmd.OutOrStdout(), index, doc.PageCount())
	return nil
}
