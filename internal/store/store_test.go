// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/corpus-curator/internal/filter"
	"github.com/pdiddy/corpus-curator/internal/ris"
	"github.com/pdiddy/corpus-curator/pkg/types"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(types.StoreConfig{Dir: t.TempDir()})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func testRecord(title, doi, abstract string) ris.Record {
	rec := ris.NewRecord()
	rec.Add(ris.TagType, "JOUR")
	rec.Add(ris.TagTitle, title)
	rec.Add(ris.TagDOI, doi)
	rec.Add(ris.TagAbstract, abstract)
	rec.Add(ris.TagYear, "2023")
	rec.Add(ris.TagJournal, "JMIR Medical Informatics")
	rec.Provenance.Source = "pubmed"
	rec.Provenance.Keyphrase = "icd coding"
	return rec
}

func TestSaveRunAndHistory(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	records := []ris.Record{
		testRecord("BERT for ICD-10 coding", "10.1000/a", "Transformer coding of discharge summaries."),
	}
	outcomes := []filter.Outcome{
		{Title: "BERT for ICD-10 coding", DOI: "10.1000/a", Keep: true, Reason: "Kept type: JOUR"},
		{Title: "Billing audit review", DOI: "10.1000/b", Keep: false, Reason: "Excluded type: CHAP"},
	}

	runID, err := s.SaveRun(ctx, "type", records, outcomes)
	require.NoError(t, err)
	assert.NotEmpty(t, runID)

	runs, err := s.History(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, runID, runs[0].ID)
	assert.Equal(t, "type", runs[0].Stage)
	assert.Equal(t, 2, runs[0].RecordCount)
	assert.Equal(t, 1, runs[0].Kept)
	assert.Equal(t, 1, runs[0].Removed)
}

func TestSaveRunWithoutOutcomes(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	records := []ris.Record{
		testRecord("First", "10.1/a", "abstract one"),
		testRecord("Second", "10.1/b", "abstract two"),
	}
	_, err := s.SaveRun(ctx, "merge", records, nil)
	require.NoError(t, err)

	runs, err := s.History(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, 2, runs[0].RecordCount)
	assert.Equal(t, 2, runs[0].Kept)
	assert.Equal(t, 0, runs[0].Removed)
}

func TestOutcomesRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	outcomes := []filter.Outcome{
		{Title: "Paper A", DOI: "10.1/a", Keep: true, Reason: "Strong positive signals"},
		{Title: "Paper B", DOI: "10.1/b", Keep: false, Reason: "No clear ICD coding task signals"},
	}
	runID, err := s.SaveRun(ctx, "content", nil, outcomes)
	require.NoError(t, err)

	got, err := s.Outcomes(ctx, runID)
	require.NoError(t, err)
	assert.Equal(t, outcomes, got)
}

func TestTrailSpansRuns(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first := []filter.Outcome{{Title: "Paper A", DOI: "10.1/a", Keep: true, Reason: "Kept type: JOUR"}}
	second := []filter.Outcome{{Title: "Paper A", DOI: "10.1/a", Keep: false, Reason: "No methodology or evaluation signals"}}

	_, err := s.SaveRun(ctx, "type", nil, first)
	require.NoError(t, err)
	_, err = s.SaveRun(ctx, "methodology", nil, second)
	require.NoError(t, err)

	trail, err := s.Trail(ctx, "10.1/a")
	require.NoError(t, err)
	require.Len(t, trail, 2)
	assert.Equal(t, "type", trail[0].Stage)
	assert.True(t, trail[0].Keep)
	assert.Equal(t, "methodology", trail[1].Stage)
	assert.False(t, trail[1].Keep)
	assert.Equal(t, "No methodology or evaluation signals", trail[1].Reason)

	trail, err = s.Trail(ctx, "10.1/missing")
	require.NoError(t, err)
	assert.Empty(t, trail)
}

func TestSearchMatchesTitleAndAbstract(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	records := []ris.Record{
		testRecord("Attention networks for code assignment", "10.1/a", "We predict ICD-9 codes from clinical notes."),
		testRecord("Cardiology cohort outcomes", "10.1/b", "A retrospective registry study."),
	}
	runID, err := s.SaveRun(ctx, "merge", records, nil)
	require.NoError(t, err)

	hits, err := s.Search(ctx, "clinical notes")
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "10.1/a", hits[0].DOI)
	assert.Equal(t, runID, hits[0].RunID)

	hits, err = s.Search(ctx, "attention")
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "Attention networks for code assignment", hits[0].Title)

	hits, err = s.Search(ctx, "radiology")
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestSearchHonorsMaxResults(t *testing.T) {
	s, err := NewStore(types.StoreConfig{Dir: t.TempDir(), MaxResults: 2})
	require.NoError(t, err)
	defer s.Close()
	ctx := context.Background()

	var records []ris.Record
	for _, title := range []string{"ICD one", "ICD two", "ICD three", "ICD four"} {
		records = append(records, testRecord(title, "", "automated icd coding"))
	}
	_, err = s.SaveRun(ctx, "merge", records, nil)
	require.NoError(t, err)

	hits, err := s.Search(ctx, "icd")
	require.NoError(t, err)
	assert.Len(t, hits, 2)
}

func TestSchemaIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	s1, err := NewStore(types.StoreConfig{Dir: dir})
	require.NoError(t, err)
	_, err = s1.SaveRun(context.Background(), "merge", []ris.Record{testRecord("A", "10.1/a", "icd")}, nil)
	require.NoError(t, err)
	require.NoError(t, s1.Close())

	s2, err := NewStore(types.StoreConfig{Dir: dir})
	require.NoError(t, err)
	defer s2.Close()

	runs, err := s2.History(context.Background())
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}
