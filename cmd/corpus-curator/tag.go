// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/pdiddy/corpus-curator/internal/classify"
	"github.com/pdiddy/corpus-curator/internal/ris"
)

var tagCmd = &cobra.Command{
	Use:   "tag [file|dir ...]",
	Short: "Annotate records with method-family and period tags",
	Long: `Tag derives method family, research challenges, benchmark datasets, and
publication-period labels for each record and appends them as an
[AUTO_TAGS] note. The input records are otherwise unchanged.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runTag,
}

func runTag(cmd *cobra.Command, args []string) error {
	outFile, _ := cmd.Flags().GetString("out")

	files, err := risInputs(args)
	if err != nil {
		return err
	}

	var tagged []ris.Record
	phaseCounts := make(map[string]int)
	bucketCounts := make(map[string]int)
	for _, f := range files {
		records, err := ris.ParseFile(f)
		if err != nil {
			return err
		}
		for _, rec := range records {
			tags := classify.Apply(rec)
			tagged = append(tagged, classify.Annotate(rec, tags))
			phase := classify.PhaseUnspecified
			if len(tags.Phases) > 0 {
				phase = tags.Phases[0]
			}
			phaseCounts[phase]++
			bucketCounts[tags.YearBucket]++
		}
	}

	if err := writeRecords(outFile, tagged); err != nil {
		return err
	}

	fmt.Printf("Tagged %d records -> %s\n", len(tagged), outFile)

	fmt.Println("\nBy primary method family:")
	phases := make([]string, 0, len(phaseCounts))
	for p := range phaseCounts {
		phases = append(phases, p)
	}
	sort.Strings(phases)
	for _, p := range phases {
		fmt.Printf("  %-20s %6d\n", p, phaseCounts[p])
	}

	fmt.Println("\nBy period:")
	for _, b := range classify.YearBuckets() {
		if bucketCounts[b] > 0 {
			fmt.Printf("  %-20s %6d\n", b, bucketCounts[b])
		}
	}
	return nil
}

func init() {
	tagCmd.Flags().String("out", "tagged.ris", "tagged RIS output file")

	rootCmd.AddCommand(tagCmd)
}
