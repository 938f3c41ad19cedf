// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/corpus-curator/internal/classify"
	"github.com/pdiddy/corpus-curator/internal/filter"
	"github.com/pdiddy/corpus-curator/internal/ris"
)

func TestPctZeroGuard(t *testing.T) {
	assert.Equal(t, 0.0, Pct(5, 0))
	assert.Equal(t, 50.0, Pct(1, 2))
	assert.Equal(t, 0.0, Pct(0, 10))
}

func TestSummaryAggregation(t *testing.T) {
	s := NewSummary("content")
	s.AddFile("pubmed_icd.ris", filter.Stats{
		Before: 10, Kept: 6, Removed: 4,
		KeptReasons:    map[string]int{"Strong positive signals": 6},
		RemovedReasons: map[string]int{"No clear ICD coding task signals": 4},
	})
	s.AddFile("scopus_icd.ris", filter.Stats{
		Before: 5, Kept: 2, Removed: 3,
		KeptReasons:    map[string]int{"Strong positive signals": 1, "Moderate positive signals": 1},
		RemovedReasons: map[string]int{"No clear ICD coding task signals": 3},
	})

	assert.Equal(t, 15, s.Before)
	assert.Equal(t, 8, s.After)
	assert.Equal(t, 7, s.Removed())
	assert.Equal(t, 7, s.KeptReasons["Strong positive signals"])
	assert.Equal(t, 7, s.RemovedReasons["No clear ICD coding task signals"])

	var buf bytes.Buffer
	s.Render(&buf)
	out := buf.String()
	assert.Contains(t, out, "SUMMARY: content")
	assert.Contains(t, out, "Files processed:           2")
	assert.Contains(t, out, "Retention rate:            53.3%")
	assert.Contains(t, out, "pubmed_icd.ris")
}

func TestRenderEmptySummary(t *testing.T) {
	var buf bytes.Buffer
	NewSummary("journal").Render(&buf)
	out := buf.String()
	assert.Contains(t, out, "Retention rate:            0.0%")
	assert.NotContains(t, out, "NaN")
}

func TestWriteYAML(t *testing.T) {
	s := NewSummary("journal")
	s.AddFile("merged.ris", filter.Stats{
		Before: 4, Kept: 1, Removed: 3,
		KeptReasons:    map[string]int{"Matched journal: IEEE Access": 1},
		RemovedReasons: map[string]int{"Journal not in target list": 3},
	})

	path := filepath.Join(t.TempDir(), "summary.yaml")
	require.NoError(t, s.WriteYAML(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)
	assert.Contains(t, out, "stage: journal")
	assert.Contains(t, out, "retention_pct: 25")
	assert.Contains(t, out, "Matched journal: IEEE Access")
}

func exportRecord() ris.Record {
	rec := ris.NewRecord()
	rec.Add(ris.TagType, "JOUR")
	rec.Add(ris.TagTitle, "Deep learning for ICD-10 coding")
	rec.Add(ris.TagAuthor, "Smith John")
	rec.Add(ris.TagAuthor, "Doe Jane")
	rec.Add(ris.TagYear, "2022")
	rec.Add(ris.TagJournal, "JMIR Medical Informatics")
	rec.Add(ris.TagVolume, "10")
	rec.Add(ris.TagIssue, "4")
	rec.Add(ris.TagStartPage, "100")
	rec.Add(ris.TagEndPage, "112")
	rec.Add(ris.TagDOI, "10.1000/abc")
	rec.Add(ris.TagKeyword, "icd coding")
	rec.Add(ris.TagKeyword, "deep learning")
	rec.Provenance.Source = "pubmed"
	rec.Provenance.Keyphrase = "automated icd coding"
	return rec
}

func TestExportCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, ExportCSV(&buf, []ris.Record{exportRecord()}))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, strings.Join(exportHeader, ","), lines[0])
	assert.Contains(t, lines[1], "Deep learning for ICD-10 coding")
	assert.Contains(t, lines[1], "Smith John; Doe Jane")
	assert.Contains(t, lines[1], "100-112")
	assert.Contains(t, lines[1], "icd coding; deep learning")
	assert.Contains(t, lines[1], "pubmed")
}

func TestExportTaggedAndSelectedCSV(t *testing.T) {
	c := classify.Candidate{
		Title:            "CAML for ICD-9",
		DOI:              "10.1/x",
		Year:             "2018",
		YearBucket:       "2017_2019",
		Journal:          "JAMIA",
		Phase:            "DEEP_CNN_RNN",
		PrimaryChallenge: "EXTREME_MULTILABEL",
		AllChallenges:    []string{"EXTREME_MULTILABEL", "HIERARCHY"},
		Dataset:          "MIMIC",
		HasMetrics:       true,
		HasCodingTask:    true,
		Score:            6,
	}

	var buf bytes.Buffer
	require.NoError(t, ExportTaggedCSV(&buf, []classify.Candidate{c}))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, strings.Join(taggedHeader, ","), lines[0])
	assert.Contains(t, lines[1], "EXTREME_MULTILABEL;HIERARCHY")
	assert.Contains(t, lines[1], ",1,0,1,6")

	buf.Reset()
	rep := classify.Representative{Candidate: c, BucketPhase: "DEEP_CNN_RNN", BucketDim: "EXTREME_MULTILABEL"}
	require.NoError(t, ExportSelectedCSV(&buf, []classify.Representative{rep}))
	lines = strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "bucket_phase,bucket_dim,bucket")
	assert.Contains(t, lines[1], "DEEP_CNN_RNN__EXTREME_MULTILABEL")
}

func TestExportClassificationsCSV(t *testing.T) {
	tax := classify.DefaultTaxonomy()
	rec := exportRecord()
	rec.Add(ris.TagAbstract, "We fine-tune BERT to predict ICD-10 codes from discharge summaries in MIMIC-III.")
	cls := tax.Classify(rec)

	var buf bytes.Buffer
	require.NoError(t, ExportClassificationsCSV(&buf, tax, []ris.Record{rec}, []classify.Classification{cls}))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "ML_Method")
	assert.Contains(t, lines[1], "BERT")
	assert.Contains(t, lines[1], "ICD-10")
}

func TestRenderTaxonomy(t *testing.T) {
	tax := classify.DefaultTaxonomy()
	rec := exportRecord()
	rec.Add(ris.TagAbstract, "We fine-tune BERT to predict ICD-10 codes from discharge summaries.")
	stats := tax.Summarize([]classify.Classification{tax.Classify(rec)})

	var buf bytes.Buffer
	RenderTaxonomy(&buf, tax, stats)
	out := buf.String()
	assert.Contains(t, out, "TAXONOMY CLASSIFICATION (1 papers)")
	assert.Contains(t, out, "ML_Method")
	assert.Contains(t, out, "ML METHOD x ICD VERSION:")
}
