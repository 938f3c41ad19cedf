// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/corpus-curator/internal/ris"
	"github.com/pdiddy/corpus-curator/internal/store"
	"github.com/pdiddy/corpus-curator/pkg/types"
)

var storeCmd = &cobra.Command{
	Use:   "store [file|dir ...]",
	Short: "Persist a RIS record set to the corpus database",
	Long: `Store saves the given RIS files into the SQLite corpus database as one
run, indexing titles and abstracts for full-text search. Use history to
list stored runs and search to query the index.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runStore,
}

func openStore(cmd *cobra.Command) (*store.Store, error) {
	dir, _ := cmd.Flags().GetString("store-dir")
	maxResults, _ := cmd.Flags().GetInt("max-results")
	return store.NewStore(types.StoreConfig{Dir: dir, MaxResults: maxResults})
}

func runStore(cmd *cobra.Command, args []string) error {
	stage, _ := cmd.Flags().GetString("stage")

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

	s, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	runID, err := s.SaveRun(context.Background(), stage, records, nil)
	if err != nil {
		return err
	}
	fmt.Printf("Saved run %s (%d records)\n", runID, len(records))
	return nil
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List stored pipeline runs, or trace a DOI's verdicts",
	RunE:  runHistory,
}

func runHistory(cmd *cobra.Command, args []string) error {
	doi, _ := cmd.Flags().GetString("doi")

	s, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	if doi != "" {
		trail, err := s.Trail(context.Background(), ris.NormalizeDOI(doi))
		if err != nil {
			return err
		}
		if len(trail) == 0 {
			fmt.Println("No verdicts recorded for that DOI.")
			return nil
		}
		for _, e := range trail {
			verdict := "KEEP"
			if !e.Keep {
				verdict = "REJECT"
			}
			fmt.Printf("%-20s  %-14s  %-6s  %s\n", e.Started, e.Stage, verdict, e.Reason)
		}
		return nil
	}

	runs, err := s.History(context.Background())
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("No runs stored.")
		return nil
	}

	fmt.Printf("%-36s  %-20s  %-14s  %7s  %6s  %7s\n", "Run", "Started", "Stage", "Records", "Kept", "Removed")
	for _, r := range runs {
		fmt.Printf("%-36s  %-20s  %-14s  %7d  %6d  %7d\n", r.ID, r.Started, r.Stage, r.RecordCount, r.Kept, r.Removed)
	}
	return nil
}

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Full-text search over stored titles and abstracts",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSearch,
}

func runSearch(cmd *cobra.Command, args []string) error {
	s, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	hits, err := s.Search(context.Background(), strings.Join(args, " "))
	if err != nil {
		return err
	}
	if len(hits) == 0 {
		fmt.Println("No results found.")
		return nil
	}

	for i, h := range hits {
		title := h.Title
		if len(title) > 70 {
			title = title[:67] + "..."
		}
		fmt.Printf("%-4d  %-70s  %-6s  %s\n", i+1, title, h.Year, h.DOI)
	}
	fmt.Printf("\n%d results\n", len(hits))
	return nil
}

func init() {
	for _, c := range []*cobra.Command{storeCmd, historyCmd, searchCmd} {
		c.Flags().String("store-dir", "corpus", "directory containing the corpus database")
		c.Flags().Int("max-results", 20, "maximum number of query results")
	}
	storeCmd.Flags().String("stage", "store", "stage label recorded with the run")
	historyCmd.Flags().String("doi", "", "show the stored verdict trail for one DOI")

	rootCmd.AddCommand(storeCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(searchCmd)
}
