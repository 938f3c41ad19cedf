// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/corpus-curator/internal/dedup"
	"github.com/pdiddy/corpus-curator/internal/ris"
)

var mergeCmd = &cobra.Command{
	Use:   "merge [file|dir ...]",
	Short: "Merge RIS files and deduplicate by DOI",
	Long: `Merge flattens the given RIS files (or directories of RIS files) into a
single collection and removes duplicates by normalized DOI. The first record
seen for a DOI wins; later copies are logged to duplicates.csv next to the
merged output. Records without a DOI are always kept.

Source and keyphrase provenance is derived from each file name: the part
before the first underscore is the source label, the rest is the keyphrase
slug (the layout fetch writes).`,
	Args: cobra.MinimumNArgs(1),
	RunE: runMerge,
}

// fileLabels splits "pubmed_automated_icd_coding.ris" into source
// "pubmed" and keyphrase "automated icd coding".
func fileLabels(path string) (source, keyphrase string) {
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	source, rest, found := strings.Cut(stem, "_")
	if !found {
		return stem, ""
	}
	return source, strings.ReplaceAll(rest, "_", " ")
}

func runMerge(cmd *cobra.Command, args []string) error {
	outFile, _ := cmd.Flags().GetString("out")

	files, err := risInputs(args)
	if err != nil {
		return err
	}

	var collections []dedup.Collection
	for _, f := range files {
		records, err := ris.ParseFile(f)
		if err != nil {
			return err
		}
		source, keyphrase := fileLabels(f)
		collections = append(collections, dedup.Collection{
			Source:    source,
			File:      filepath.Base(f),
			Keyphrase: keyphrase,
			Records:   records,
		})
		fmt.Printf("  %-44s %6d records\n", filepath.Base(f), len(records))
	}

	res := dedup.Merge(collections)

	if err := writeRecords(outFile, res.Unique); err != nil {
		return err
	}
	dupFile := filepath.Join(filepath.Dir(outFile), "duplicates.csv")
	if err := writeDuplicates(dupFile, res.Duplicates); err != nil {
		return err
	}

	st := res.Stats
	fmt.Printf("\nRecords before:     %6d\n", st.Before)
	fmt.Printf("  with DOI:         %6d\n", st.WithDOI)
	fmt.Printf("  without DOI:      %6d\n", st.WithoutDOI)
	fmt.Printf("Duplicates removed: %6d\n", st.Removed)
	fmt.Printf("Records after:      %6d\n", st.After)

	sources := make([]string, 0, len(st.PerSource))
	for s := range st.PerSource {
		sources = append(sources, s)
	}
	sort.Strings(sources)
	fmt.Println("\nBy source:")
	for _, s := range sources {
		fmt.Printf("  %-20s %6d\n", s, st.PerSource[s])
	}

	fmt.Printf("\nWrote %s and %s\n", outFile, dupFile)
	return nil
}

func writeDuplicates(path string, dups []dedup.Duplicate) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating duplicate log: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"doi", "title", "source", "kept_title", "kept_source"}); err != nil {
		return fmt.Errorf("writing duplicate log: %w", err)
	}
	for _, d := range dups {
		if err := w.Write([]string{d.DOI, d.Title, d.Source, d.KeptTitle, d.KeptSource}); err != nil {
			return fmt.Errorf("writing duplicate log: %w", err)
		}
	}
	w.Flush()
	return w.Error()
}

func init() {
	mergeCmd.Flags().String("out", filepath.Join("merged", "merged.ris"), "merged RIS output file")

	rootCmd.AddCommand(mergeCmd)
}
