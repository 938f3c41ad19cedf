// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pdiddy/corpus-curator/internal/classify"
	"github.com/pdiddy/corpus-curator/internal/report"
	"github.com/pdiddy/corpus-curator/internal/ris"
)

var classifyCmd = &cobra.Command{
	Use:   "classify [file|dir ...]",
	Short: "Classify papers across the review taxonomy",
	Long: `Classify labels each record along the seven taxonomy dimensions (method
family, ICD version, input data, task framing, dataset, contribution,
evaluation metric), writes one CSV row per record, and prints per-dimension
counts plus the method-by-version cross-tabulation.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runClassify,
}

func runClassify(cmd *cobra.Command, args []string) error {
	outCSV, _ := cmd.Flags().GetString("out")

	files, err := risInputs(args)
	if err != nil {
		return err
	}

	var records []ris.Record
	for _, f := range files {
		recs, err := ris.ParseFile(f)
		if err != nil {
			return err
		}
		records = append(records, recs...)
	}

	tax := classify.DefaultTaxonomy()
	classifications := make([]classify.Classification, len(records))
	for i, rec := range records {
		classifications[i] = tax.Classify(rec)
	}

	if dir := filepath.Dir(outCSV); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}
	f, err := os.Create(outCSV)
	if err != nil {
		return fmt.Errorf("creating %s: %w", outCSV, err)
	}
	defer f.Close()
	if err := report.ExportClassificationsCSV(f, tax, records, classifications); err != nil {
		return err
	}

	report.RenderTaxonomy(os.Stdout, tax, tax.Summarize(classifications))
	fmt.Printf("Wrote %s (%d papers)\n", outCSV, len(records))
	return nil
}

func init() {
	classifyCmd.Flags().String("out", "classifications.csv", "taxonomy CSV output file")

	rootCmd.AddCommand(classifyCmd)
}
