// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package dedup merges record collections from multiple sources and
// removes duplicates keyed by normalized DOI.
package dedup

import (
	"github.com/pdiddy/corpus-curator/internal/ris"
)

// Collection is one source's batch of records, labelled with where it
// came from. The labels are copied onto each record's provenance during
// the merge.
type Collection struct {
	Source    string
	File      string
	Keyphrase string
	Records   []ris.Record
}

// Duplicate describes one dropped record and the record that shadowed it.
type Duplicate struct {
	DOI        string
	Title      string
	Source     string
	KeptTitle  string
	KeptSource string
}

// Stats summarizes a merge run.
type Stats struct {
	PerSource    map[string]int
	PerKeyphrase map[string]int
	Before       int
	WithDOI      int
	WithoutDOI   int
	Removed      int
	After        int
}

// Result holds the merged record set and its audit trail.
type Result struct {
	Unique     []ris.Record
	Duplicates []Duplicate
	Stats      Stats
}

// Merge flattens the collections in input order and deduplicates by
// normalized DOI. The first record seen for a DOI is authoritative;
// later ones are logged and dropped. Records without a DOI cannot be
// identified with confidence and are always kept: they are appended
// after the DOI-keyed block, preserving their relative order.
//
// Merging an already-merged set again removes nothing further.
func Merge(collections []Collection) Result {
	stats := Stats{
		PerSource:    make(map[string]int),
		PerKeyphrase: make(map[string]int),
	}

	type kept struct {
		index int // position in unique
		rec   ris.Record
	}
	seen := make(map[string]kept)

	var unique []ris.Record
	var noDOI []ris.Record
	var duplicates []Duplicate

	for _, col := range collections {
		for _, rec := range col.Records {
			rec.Provenance = ris.Provenance{
				Source:     col.Source,
				SourceFile: col.File,
				Keyphrase:  col.Keyphrase,
			}
			stats.Before++
			stats.PerSource[col.Source]++
			if col.Keyphrase != "" {
				stats.PerKeyphrase[col.Keyphrase]++
			}

			doi := rec.DOI()
			if doi == "" {
				stats.WithoutDOI++
				noDOI = append(noDOI, rec)
				continue
			}

			stats.WithDOI++
			if prior, ok := seen[doi]; ok {
				stats.Removed++
				duplicates = append(duplicates, Duplicate{
					DOI:        doi,
					Title:      rec.Title(),
					Source:     col.Source,
					KeptTitle:  prior.rec.Title(),
					KeptSource: prior.rec.Provenance.Source,
				})
				continue
			}

			seen[doi] = kept{index: len(unique), rec: rec}
			unique = append(unique, rec)
		}
	}

	unique = append(unique, noDOI...)
	stats.After = len(unique)

	return Result{
		Unique:     unique,
		Duplicates: duplicates,
		Stats:      stats,
	}
}
