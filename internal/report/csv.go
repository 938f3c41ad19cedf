// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/pdiddy/corpus-curator/internal/classify"
	"github.com/pdiddy/corpus-curator/internal/ris"
)

var exportHeader = []string{
	"Title", "Authors", "Year", "Journal", "Volume", "Issue", "Pages",
	"ISSN", "DOI", "URL", "Abstract", "Keywords", "Type", "Source", "Keyphrase",
}

func pages(rec ris.Record) string {
	sp := rec.First(ris.TagStartPage)
	ep := rec.First(ris.TagEndPage)
	switch {
	case sp != "" && ep != "":
		return sp + "-" + ep
	case sp != "":
		return sp
	default:
		return ep
	}
}

// ExportCSV flattens records to the review spreadsheet layout. Repeated
// tags (authors, keywords) are joined with "; ".
func ExportCSV(w io.Writer, records []ris.Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}
	for _, rec := range records {
		row := []string{
			rec.Title(),
			strings.Join(rec.Tags[ris.TagAuthor], "; "),
			rec.Year(),
			rec.Journal(),
			rec.First(ris.TagVolume),
			rec.First(ris.TagIssue),
			pages(rec),
			rec.First(ris.TagISSN),
			rec.DOI(),
			rec.First(ris.TagURL),
			rec.First(ris.TagAbstract),
			strings.Join(rec.Tags[ris.TagKeyword], "; "),
			rec.First(ris.TagType),
			rec.Provenance.Source,
			rec.Provenance.Keyphrase,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing CSV row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

var taggedHeader = []string{
	"id", "source_file", "year", "year_bucket", "journal", "doi", "title",
	"phase", "primary_challenge", "all_challenges", "dataset_tag",
	"has_metrics", "has_novelty", "has_coding_task", "score",
}

func flag(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

func taggedRow(id int, c classify.Candidate) []string {
	return []string{
		strconv.Itoa(id),
		c.Record.Provenance.SourceFile,
		c.Year,
		c.YearBucket,
		c.Journal,
		c.DOI,
		c.Title,
		c.Phase,
		c.PrimaryChallenge,
		strings.Join(c.AllChallenges, ";"),
		c.Dataset,
		flag(c.HasMetrics),
		flag(c.HasNovelty),
		flag(c.HasCodingTask),
		strconv.Itoa(c.Score),
	}
}

// ExportTaggedCSV writes one row per tagged paper.
func ExportTaggedCSV(w io.Writer, tagged []classify.Candidate) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(taggedHeader); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}
	for i, c := range tagged {
		if err := cw.Write(taggedRow(i, c)); err != nil {
			return fmt.Errorf("writing CSV row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ExportSelectedCSV writes the chosen representatives with their bucket
// assignment appended to the tagged columns.
func ExportSelectedCSV(w io.Writer, selected []classify.Representative) error {
	cw := csv.NewWriter(w)
	header := append(append([]string{}, taggedHeader...), "bucket_phase", "bucket_dim", "bucket")
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}
	for i, r := range selected {
		row := append(taggedRow(i, r.Candidate), r.BucketPhase, r.BucketDim, r.Bucket())
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing CSV row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ExportClassificationsCSV writes one row per record with the matched
// categories of every taxonomy dimension, joined with "; ".
func ExportClassificationsCSV(w io.Writer, tax *classify.Taxonomy, records []ris.Record, classifications []classify.Classification) error {
	header := []string{"Title", "DOI", "Year"}
	for _, dim := range tax.Dimensions {
		header = append(header, dim.Name)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}
	for i, rec := range records {
		if i >= len(classifications) {
			break
		}
		row := []string{rec.Title(), rec.DOI(), rec.Year()}
		for _, dim := range tax.Dimensions {
			row = append(row, strings.Join(classifications[i][dim.Name], "; "))
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing CSV row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// RenderTaxonomy writes per-dimension category counts and the
// method-by-version cross-tabulation.
func RenderTaxonomy(w io.Writer, tax *classify.Taxonomy, stats classify.TaxonomyStats) {
	fmt.Fprintln(w)
	ruler(w, "=")
	fmt.Fprintf(w, "TAXONOMY CLASSIFICATION (%d papers)\n", stats.Total)
	ruler(w, "=")

	for _, dim := range tax.Dimensions {
		counts := stats.Counts[dim.Name]
		if len(counts) == 0 {
			continue
		}
		fmt.Fprintf(w, "\n%s:\n", dim.Name)
		for _, name := range sortedReasons(counts) {
			fmt.Fprintf(w, "    %-40s %5d (%.1f%%)\n", name, counts[name], Pct(counts[name], stats.Total))
		}
	}

	if len(stats.CrossTab) > 0 {
		fmt.Fprintln(w)
		ruler(w, "-")
		fmt.Fprintln(w, "ML METHOD x ICD VERSION:")
		ruler(w, "-")
		methods := make([]string, 0, len(stats.CrossTab))
		for m := range stats.CrossTab {
			methods = append(methods, m)
		}
		sort.Strings(methods)
		for _, m := range methods {
			versions := stats.CrossTab[m]
			for _, v := range sortedReasons(versions) {
				fmt.Fprintf(w, "  %-30s %-15s %5d\n", m, v, versions[v])
			}
		}
	}
	fmt.Fprintln(w)
}
