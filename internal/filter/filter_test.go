// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package filter

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pdiddy/corpus-curator/internal/ris"
	"github.com/pdiddy/corpus-curator/pkg/types"
)

func paper(title, abstract string) ris.Record {
	r := ris.NewRecord()
	r.Add(ris.TagType, "JOUR")
	r.Add(ris.TagTitle, title)
	r.Add(ris.TagAbstract, abstract)
	return r
}

func TestJournalFilter(t *testing.T) {
	f := NewJournalFilter(DefaultRules().Journals)

	tests := []struct {
		name    string
		tag     string
		journal string
		keep    bool
	}{
		{"exact match", "JO", "Journal of Biomedical Informatics", true},
		{"case and punctuation ignored", "JO", "journal of biomedical informatics.", true},
		{"allow entry as substring", "JF", "Journal of Biomedical Informatics: Official Journal of the AMIA", true},
		{"secondary title fallback", "T2", "IEEE Access", true},
		{"unlisted journal", "JO", "Nature Medicine", false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := ris.NewRecord()
			r.Add(tc.tag, tc.journal)
			if v := f.Judge(r); v.Keep != tc.keep {
				t.Errorf("Judge(%q) keep = %v (%s), want %v", tc.journal, v.Keep, v.Reason, tc.keep)
			}
		})
	}

	t.Run("missing journal rejected", func(t *testing.T) {
		if v := f.Judge(ris.NewRecord()); v.Keep {
			t.Errorf("record without venue kept: %s", v.Reason)
		}
	})
}

func TestTypeFilter(t *testing.T) {
	rules := DefaultRules()
	f := NewTypeFilter(rules.KeepTypes, rules.DenyTypes)

	tests := []struct {
		ty   string
		keep bool
	}{
		{"JOUR", true},
		{"CONF", true},
		{"BOOK", false},
		{"CHAP", false},
		{"THES", true}, // unlisted, fail open
		{"", true},     // absent, fail open
	}
	for _, tc := range tests {
		r := ris.NewRecord()
		if tc.ty != "" {
			r.Add(ris.TagType, tc.ty)
		}
		if v := f.Judge(r); v.Keep != tc.keep {
			t.Errorf("type %q: keep = %v (%s), want %v", tc.ty, v.Keep, v.Reason, tc.keep)
		}
	}
}

func TestTypeFilterKeepListWins(t *testing.T) {
	// A custom rules file can list a type on both sides; the keep list
	// takes precedence.
	f := NewTypeFilter([]string{"CONF"}, []string{"CONF", "BOOK"})

	r := ris.NewRecord()
	r.Add(ris.TagType, "CONF")
	if v := f.Judge(r); !v.Keep {
		t.Errorf("CONF on both lists rejected: %s", v.Reason)
	}

	r = ris.NewRecord()
	r.Add(ris.TagType, "BOOK")
	if v := f.Judge(r); v.Keep {
		t.Errorf("BOOK kept: %s", v.Reason)
	}
}

func TestContentFilterDecisionTable(t *testing.T) {
	f, err := NewContentFilter(DefaultRules(), types.DefaultContentThresholds())
	if err != nil {
		t.Fatalf("NewContentFilter: %v", err)
	}

	tests := []struct {
		name     string
		title    string
		abstract string
		keep     bool
		reason   string
	}{
		{
			name:     "strong positive from title and phrases",
			title:    "Automated ICD-10 coding of discharge summaries",
			abstract: "We present a transformer model that assigns ICD codes to clinical notes.",
			keep:     true,
			reason:   "Strong positive signals",
		},
		{
			name:     "strong positive overrides cohort language",
			title:    "Automatic ICD coding with deep learning",
			abstract: "Evaluated on a retrospective cohort; we report incidence and mortality in the study population.",
			keep:     true,
			reason:   "Strong positive signals",
		},
		{
			name:     "weak positive kept",
			title:    "Text mining of discharge letters",
			abstract: "We apply machine learning to clinical narratives.",
			keep:     true,
			reason:   "Weak positive signals",
		},
		{
			name:     "cohort study rejected",
			title:    "Diabetes outcomes in an administrative database",
			abstract: "Patients identified using ICD codes in a retrospective cohort study of incidence and mortality.",
			keep:     false,
			reason:   "Strong negative signals (cohort/metadata use)",
		},
		{
			name:     "no signals rejected",
			title:    "A study of hospital admissions",
			abstract: "We describe admission trends over a decade.",
			keep:     false,
			reason:   "No clear ICD coding task signals",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			v, sc := f.Score(paper(tc.title, tc.abstract))
			if v.Keep != tc.keep || v.Reason != tc.reason {
				t.Errorf("got keep=%v reason=%q (scores %+v), want keep=%v reason=%q",
					v.Keep, v.Reason, sc, tc.keep, tc.reason)
			}
		})
	}
}

func TestScoringStagesRejectEmptyText(t *testing.T) {
	rules := DefaultRules()
	cf, err := NewContentFilter(rules, types.DefaultContentThresholds())
	if err != nil {
		t.Fatalf("NewContentFilter: %v", err)
	}
	mf, err := NewMethodologyFilter(rules)
	if err != nil {
		t.Fatalf("NewMethodologyFilter: %v", err)
	}

	empty := ris.NewRecord()
	empty.Add(ris.TagType, "JOUR")
	for _, s := range []Stage{cf, mf} {
		v := s.Judge(empty)
		if v.Keep || v.Reason != ReasonNoText {
			t.Errorf("%s: got keep=%v reason=%q, want reject with %q", s.Name(), v.Keep, v.Reason, ReasonNoText)
		}
	}
}

func TestContentFilterMLSignalCap(t *testing.T) {
	f, err := NewContentFilter(DefaultRules(), types.DefaultContentThresholds())
	if err != nil {
		t.Fatalf("NewContentFilter: %v", err)
	}

	// ML vocabulary alone cannot push a record into strong-positive
	// territory: its contribution is capped.
	rec := paper("Survey of neural architectures",
		"transformer encoder decoder attention bert nlp deep learning machine learning")
	_, sc := f.Score(rec)
	if sc.MLSignals != types.DefaultContentThresholds().SignalCap {
		t.Errorf("MLSignals = %d, want capped at %d", sc.MLSignals, types.DefaultContentThresholds().SignalCap)
	}
}

func TestMethodologyFilter(t *testing.T) {
	f, err := NewMethodologyFilter(DefaultRules())
	if err != nil {
		t.Fatalf("NewMethodologyFilter: %v", err)
	}

	tests := []struct {
		name     string
		abstract string
		keep     bool
		reason   string
	}{
		{
			name:     "deny beats method vocabulary",
			abstract: "A BERT classifier compared against billing audit records.",
			keep:     false,
			reason:   "Non-methodological focus (audit/billing/qualitative/guideline)",
		},
		{
			name:     "method and evaluation",
			abstract: "Our neural network achieves a macro-F1 of 0.62 on the test set.",
			keep:     true,
			reason:   "Strong methodology signals (method + evaluation)",
		},
		{
			name:     "method only",
			abstract: "A rule-based approach built on SNOMED mappings.",
			keep:     true,
			reason:   "Method signals present",
		},
		{
			name:     "neither",
			abstract: "Hospitals admitted more patients this winter.",
			keep:     false,
			reason:   "No methodology or evaluation signals",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			v := f.Judge(paper("Untitled", tc.abstract))
			if v.Keep != tc.keep || v.Reason != tc.reason {
				t.Errorf("got keep=%v reason=%q, want keep=%v reason=%q", v.Keep, v.Reason, tc.keep, tc.reason)
			}
		})
	}
}

func TestRunConservation(t *testing.T) {
	rules := DefaultRules()
	f := NewTypeFilter(rules.KeepTypes, rules.DenyTypes)

	records := []ris.Record{
		paper("A", ""), paper("B", ""), paper("C", ""),
	}
	records[1].Tags[ris.TagType] = []string{"CHAP"}

	res := Run(f, records)
	if res.Stats.Kept+res.Stats.Removed != res.Stats.Before {
		t.Errorf("stats not conserved: %+v", res.Stats)
	}
	if len(res.Kept)+len(res.Rejected) != len(records) {
		t.Errorf("kept %d + rejected %d != %d input records", len(res.Kept), len(res.Rejected), len(records))
	}
	if len(res.Outcomes) != len(records) {
		t.Errorf("outcomes = %d, want one per record", len(res.Outcomes))
	}
	if len(res.Kept) != 2 {
		t.Errorf("kept = %d, want 2", len(res.Kept))
	}
	if res.Stats.RemovedReasons["Excluded type: CHAP"] != 1 {
		t.Errorf("removal reason missing: %v", res.Stats.RemovedReasons)
	}
}

func TestRunPreservesRejectedRecords(t *testing.T) {
	rules := DefaultRules()
	f := NewTypeFilter(rules.KeepTypes, rules.DenyTypes)

	// No DOI on the rejected record: the audit trail cannot identify it,
	// so the record itself must survive in the rejected set.
	rejected := ris.NewRecord()
	rejected.Add(ris.TagType, "BOOK")
	rejected.Add(ris.TagTitle, "Handbook without a DOI")
	rejected.Add(ris.TagAbstract, "Full text that must remain recoverable.")

	res := Run(f, []ris.Record{paper("Kept", "abstract"), rejected})
	if len(res.Rejected) != 1 {
		t.Fatalf("rejected = %d, want 1", len(res.Rejected))
	}
	got := res.Rejected[0]
	if got.Title() != "Handbook without a DOI" {
		t.Errorf("rejected title = %q", got.Title())
	}
	if got.First(ris.TagAbstract) != "Full text that must remain recoverable." {
		t.Errorf("rejected record lost its abstract: %v", got.Tags)
	}
}

func TestLoadRulesPartialOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	content := "journals:\n  - Nature Medicine\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing rules: %v", err)
	}

	rules, err := LoadRules(path)
	if err != nil {
		t.Fatalf("LoadRules: %v", err)
	}
	if len(rules.Journals) != 1 || rules.Journals[0] != "Nature Medicine" {
		t.Errorf("journals = %v, want override", rules.Journals)
	}
	// Sections the file omits keep their defaults.
	if len(rules.PositivePhrases) == 0 || len(rules.DenySignals) == 0 {
		t.Error("omitted sections lost their defaults")
	}
}

func TestDefaultRulesCompile(t *testing.T) {
	rules := DefaultRules()
	for name, patterns := range map[string][]string{
		"positive": rules.PositivePhrases,
		"ml":       rules.MLSignals,
		"negative": rules.NegativePhrases,
		"method":   rules.MethodSignals,
		"eval":     rules.EvalSignals,
		"deny":     rules.DenySignals,
	} {
		if _, err := compileAll(patterns); err != nil {
			t.Errorf("%s patterns: %v", name, err)
		}
	}
	if _, err := NewContentFilter(rules, types.DefaultContentThresholds()); err != nil {
		t.Errorf("content filter: %v", err)
	}
}
