// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pdiddy/corpus-curator/internal/report"
	"github.com/pdiddy/corpus-curator/internal/ris"
)

var exportCmd = &cobra.Command{
	Use:   "export [file|dir ...]",
	Short: "Export RIS records to a review spreadsheet CSV",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runExport,
}

func runExport(cmd *cobra.Command, args []string) error {
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

	if err := report.ExportCSV(f, records); err != nil {
		return err
	}
	fmt.Printf("Exported %d records to %s\n", len(records), outCSV)
	return nil
}

func init() {
	exportCmd.Flags().String("out", "records.csv", "CSV output file")

	rootCmd.AddCommand(exportCmd)
}
