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
	"github.com/pdiddy/corpus-curator/pkg/types"
)

var selectCmd = &cobra.Command{
	Use:   "select [file|dir ...]",
	Short: "Pick representative papers per method-family bucket",
	Long: `Select scores each paper (evaluation metrics, novelty claims, explicit
coding task, abstract length), groups papers into buckets by method family
and challenge (or dataset, or family alone with --mode), and keeps the top
scorers per bucket. Papers that never mention ICD are skipped.

Outputs: tagged_papers.csv (every scored paper), selected_representatives.csv
(the chosen sample with bucket assignments), and selected.ris.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSelect,
}

func runSelect(cmd *cobra.Command, args []string) error {
	outDir, _ := cmd.Flags().GetString("out")
	topPerBucket, _ := cmd.Flags().GetInt("top-per-bucket")
	mode, _ := cmd.Flags().GetString("mode")
	totalCap, _ := cmd.Flags().GetInt("total-cap")

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

	cfg := types.SelectConfig{
		TopPerBucket: topPerBucket,
		Mode:         types.BucketMode(mode),
		TotalCap:     totalCap,
	}
	sel := classify.SelectRepresentatives(records, cfg)

	fmt.Printf("Tagged:   %d papers\n", len(sel.Tagged))
	fmt.Printf("Skipped:  %d papers (no ICD mention)\n", sel.Skipped)
	fmt.Printf("Buckets:  %d\n", sel.Buckets)
	fmt.Printf("Selected: %d representatives\n", len(sel.Selected))

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	taggedCSV := filepath.Join(outDir, "tagged_papers.csv")
	f, err := os.Create(taggedCSV)
	if err != nil {
		return fmt.Errorf("creating %s: %w", taggedCSV, err)
	}
	if err := report.ExportTaggedCSV(f, sel.Tagged); err != nil {
		f.Close()
		return err
	}
	f.Close()

	selectedCSV := filepath.Join(outDir, "selected_representatives.csv")
	f, err = os.Create(selectedCSV)
	if err != nil {
		return fmt.Errorf("creating %s: %w", selectedCSV, err)
	}
	if err := report.ExportSelectedCSV(f, sel.Selected); err != nil {
		f.Close()
		return err
	}
	f.Close()

	selectedRecords := make([]ris.Record, len(sel.Selected))
	for i, r := range sel.Selected {
		selectedRecords[i] = r.Record
	}
	selectedRIS := filepath.Join(outDir, "selected.ris")
	if err := writeRecords(selectedRIS, selectedRecords); err != nil {
		return err
	}

	fmt.Printf("\nWrote %s, %s, %s\n", taggedCSV, selectedCSV, selectedRIS)
	return nil
}

func init() {
	selectCmd.Flags().String("out", "selected", "output directory")
	selectCmd.Flags().Int("top-per-bucket", 0, "papers kept per bucket (0 = default 3)")
	selectCmd.Flags().String("mode", string(types.BucketPhaseChallenge), "bucket key: phase_only, phase_x_challenge, or phase_x_dataset")
	selectCmd.Flags().Int("total-cap", 0, "overall selection cap (0 = no cap)")

	rootCmd.AddCommand(selectCmd)
}
