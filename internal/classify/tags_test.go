// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package classify

import (
	"reflect"
	"strings"
	"testing"

	"github.com/pdiddy/corpus-curator/internal/ris"
)

func TestYearBucket(t *testing.T) {
	tests := []struct {
		year string
		want string
	}{
		{"1999", "pre2012"},
		{"2011", "pre2012"},
		{"2012", "2012_2016"},
		{"2016", "2012_2016"},
		{"2017", "2017_2019"},
		{"2019", "2017_2019"},
		{"2020", "2020_2022"},
		{"2022", "2020_2022"},
		{"2023", "2023_plus"},
		{"2026", "2023_plus"},
		{"", BucketUnknown},
		{"n.d.", BucketUnknown},
	}
	for _, tc := range tests {
		if got := YearBucket(tc.year); got != tc.want {
			t.Errorf("YearBucket(%q) = %q, want %q", tc.year, got, tc.want)
		}
	}
}

func TestPrimaryPhasePriority(t *testing.T) {
	// A paper mentioning both GPT and BERT lands in the LLM family:
	// rules are ordered and the first match wins.
	text := "we prompt gpt-4 and compare against a fine-tuned bert baseline"
	if got := PrimaryPhase(text); got != "LLM_RAG_XAI" {
		t.Errorf("PrimaryPhase = %q, want LLM_RAG_XAI", got)
	}

	if got := PrimaryPhase("a bert model with an lstm layer"); got != "TRANSFORMER" {
		t.Errorf("PrimaryPhase = %q, want TRANSFORMER", got)
	}
	if got := PrimaryPhase("nothing recognizable"); got != PhaseUnspecified {
		t.Errorf("PrimaryPhase = %q, want %q", got, PhaseUnspecified)
	}
}

func TestChallengesSentinel(t *testing.T) {
	got := Challenges("hierarchical multi-label classification with umls concepts")
	want := []string{"HIERARCHY", "EXTREME_MULTILABEL", "KNOWLEDGE_AUG"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Challenges = %v, want %v", got, want)
	}

	if got := Challenges("nothing special"); !reflect.DeepEqual(got, []string{ChallengeGeneral}) {
		t.Errorf("Challenges fallback = %v, want [%s]", got, ChallengeGeneral)
	}
}

func TestApplyCollectsAllPhases(t *testing.T) {
	rec := ris.NewRecord()
	rec.Add(ris.TagTitle, "Hybrid ICD coding")
	rec.Add(ris.TagAbstract, "We propose combining a bert encoder with rule-based post-processing, reporting macro-f1 on mimic-iii.")
	rec.Add(ris.TagYear, "2021")

	tags := Apply(rec)
	if !reflect.DeepEqual(tags.Phases, []string{"TRANSFORMER", "RULE_BASED"}) {
		t.Errorf("Phases = %v", tags.Phases)
	}
	if !reflect.DeepEqual(tags.Datasets, []string{"MIMIC"}) {
		t.Errorf("Datasets = %v", tags.Datasets)
	}
	if tags.YearBucket != "2020_2022" {
		t.Errorf("YearBucket = %q", tags.YearBucket)
	}
	if !tags.HasMetrics || !tags.HasNovelty || !tags.HasCodingTask {
		t.Errorf("flags = metrics:%v novelty:%v coding:%v, want all true",
			tags.HasMetrics, tags.HasNovelty, tags.HasCodingTask)
	}
}

func TestCodingTaskRequiresAbstract(t *testing.T) {
	rec := ris.NewRecord()
	rec.Add(ris.TagTitle, "ICD coding at scale")

	if tags := Apply(rec); tags.HasCodingTask {
		t.Error("HasCodingTask set for a record without an abstract")
	}
}

func TestAnnotate(t *testing.T) {
	rec := ris.NewRecord()
	rec.Add(ris.TagTitle, "Transformers for clinical coding")
	rec.Add(ris.TagAbstract, "bert fine-tuned on mimic, micro-f1 reported")
	rec.Add(ris.TagYear, "2020")

	tags := Apply(rec)
	out := Annotate(rec, tags)

	notes := out.Tags[ris.TagNote]
	if len(notes) != 1 {
		t.Fatalf("notes = %v, want one auto-tag note", notes)
	}
	note := notes[0]
	if !strings.HasPrefix(note, "[AUTO_TAGS] ") {
		t.Errorf("note = %q, want [AUTO_TAGS] prefix", note)
	}
	for _, want := range []string{"PERIOD: 2020_2022", "METHODS: TRANSFORMER", "DATASETS: MIMIC", "HAS_METRICS"} {
		if !strings.Contains(note, want) {
			t.Errorf("note %q missing %q", note, want)
		}
	}

	// The input record is untouched.
	if len(rec.Tags[ris.TagNote]) != 0 {
		t.Error("Annotate modified its input")
	}
}
