// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package classify

import (
	"testing"

	"github.com/pdiddy/corpus-curator/internal/ris"
	"github.com/pdiddy/corpus-curator/pkg/types"
)

func candidate(title, abstract, year string) ris.Record {
	r := ris.NewRecord()
	r.Add(ris.TagTitle, title)
	r.Add(ris.TagAbstract, abstract)
	r.Add(ris.TagYear, year)
	return r
}

func TestSelectSkipsNonICD(t *testing.T) {
	sel := SelectRepresentatives([]ris.Record{
		candidate("Sentiment analysis of movie reviews", "bert fine-tuned on imdb", "2021"),
		candidate("ICD coding with BERT", "we propose bert for icd coding, micro-f1 reported", "2021"),
	}, types.SelectConfig{TopPerBucket: 3, Mode: types.BucketPhaseChallenge})

	if sel.Skipped != 1 {
		t.Errorf("Skipped = %d, want 1", sel.Skipped)
	}
	if len(sel.Tagged) != 1 {
		t.Errorf("Tagged = %d, want 1", len(sel.Tagged))
	}
}

func TestSelectTopPerBucket(t *testing.T) {
	// Four transformer papers with no challenge signals land in the
	// same bucket; only the top three survive.
	records := []ris.Record{
		candidate("A", "bert for icd coding, micro-f1 reported, we propose a method", "2022"),
		candidate("B", "bert for icd coding, micro-f1 reported", "2021"),
		candidate("C", "bert applied to icd records", "2020"),
		candidate("D", "bert for icd coding, micro-f1 reported, we propose another", "2019"),
	}
	sel := SelectRepresentatives(records, types.SelectConfig{TopPerBucket: 3, Mode: types.BucketPhaseChallenge})

	if sel.Buckets != 1 {
		t.Fatalf("Buckets = %d, want 1", sel.Buckets)
	}
	if len(sel.Selected) != 3 {
		t.Fatalf("Selected = %d, want 3", len(sel.Selected))
	}
	// Highest scorers first, year breaking the tie between A and D.
	if sel.Selected[0].Title != "A" || sel.Selected[1].Title != "D" {
		t.Errorf("order = %q, %q; want A then D", sel.Selected[0].Title, sel.Selected[1].Title)
	}
	for _, r := range sel.Selected {
		if r.Title == "C" {
			t.Error("lowest scorer C selected")
		}
	}
	if got := sel.Selected[0].Bucket(); got != "TRANSFORMER__GENERAL" {
		t.Errorf("bucket = %q, want TRANSFORMER__GENERAL", got)
	}
}

func TestSelectTitleLengthTieBreak(t *testing.T) {
	// Same score, same year: the longer title wins.
	records := []ris.Record{
		candidate("Short", "bert for icd coding, micro-f1, we propose", "2021"),
		candidate("A considerably longer title", "bert for icd coding, micro-f1, we propose", "2021"),
	}
	sel := SelectRepresentatives(records, types.SelectConfig{TopPerBucket: 1, Mode: types.BucketPhaseChallenge})

	if len(sel.Selected) != 1 || sel.Selected[0].Title != "A considerably longer title" {
		t.Errorf("selected = %+v, want the longer title", sel.Selected)
	}
}

func TestSelectBucketModes(t *testing.T) {
	records := []ris.Record{
		candidate("BERT on MIMIC", "bert for icd coding on mimic-iii", "2021"),
		candidate("BERT on claims", "bert for icd coding on claims data", "2021"),
	}

	phaseOnly := SelectRepresentatives(records, types.SelectConfig{TopPerBucket: 3, Mode: types.BucketPhaseOnly})
	if phaseOnly.Buckets != 1 {
		t.Errorf("phase_only buckets = %d, want 1", phaseOnly.Buckets)
	}
	if phaseOnly.Selected[0].BucketDim != "ALL" {
		t.Errorf("phase_only dim = %q, want ALL", phaseOnly.Selected[0].BucketDim)
	}

	byDataset := SelectRepresentatives(records, types.SelectConfig{TopPerBucket: 3, Mode: types.BucketPhaseDataset})
	if byDataset.Buckets != 2 {
		t.Errorf("phase_x_dataset buckets = %d, want 2", byDataset.Buckets)
	}
}

func TestSelectTotalCap(t *testing.T) {
	records := []ris.Record{
		candidate("LLM paper", "gpt prompting for icd coding, micro-f1, we propose", "2024"),
		candidate("BERT paper", "bert for icd coding, micro-f1", "2021"),
		candidate("Rule paper", "rule-based icd assignment", "2009"),
	}
	sel := SelectRepresentatives(records, types.SelectConfig{TopPerBucket: 3, Mode: types.BucketPhaseOnly, TotalCap: 2})

	if len(sel.Selected) != 2 {
		t.Fatalf("Selected = %d, want capped at 2", len(sel.Selected))
	}
	// The cap keeps the best-scoring papers overall.
	if sel.Selected[0].Title != "LLM paper" {
		t.Errorf("first after cap = %q, want LLM paper", sel.Selected[0].Title)
	}
	for _, r := range sel.Selected {
		if r.Title == "Rule paper" {
			t.Error("cap kept the weakest paper")
		}
	}
}

func TestSelectDeterministic(t *testing.T) {
	records := []ris.Record{
		candidate("One", "bert icd coding micro-f1", "2021"),
		candidate("Two", "lstm icd coding accuracy", "2020"),
		candidate("Three", "svm icd classification precision", "2015"),
		candidate("Four", "rule-based icd assignment heuristic", "2008"),
	}
	cfg := types.SelectConfig{TopPerBucket: 2, Mode: types.BucketPhaseChallenge}

	a := SelectRepresentatives(records, cfg)
	b := SelectRepresentatives(records, cfg)
	if len(a.Selected) != len(b.Selected) {
		t.Fatalf("sizes differ: %d vs %d", len(a.Selected), len(b.Selected))
	}
	for i := range a.Selected {
		if a.Selected[i].Title != b.Selected[i].Title || a.Selected[i].Bucket() != b.Selected[i].Bucket() {
			t.Errorf("run order differs at %d: %q/%q vs %q/%q", i,
				a.Selected[i].Title, a.Selected[i].Bucket(), b.Selected[i].Title, b.Selected[i].Bucket())
		}
	}
}
