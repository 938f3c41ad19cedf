// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package filter implements the screening cascade that narrows a merged
// record set down to methodological papers on automated ICD coding.
// Each stage inspects one record at a time and every record receives an
// explicit keep-or-reject verdict with a reason.
package filter

import (
	"github.com/pdiddy/corpus-curator/internal/ris"
)

// ReasonNoText rejects records whose title, abstract, and keywords are
// all empty: scoring stages treat missing text as absence of evidence.
const ReasonNoText = "No text content"

// Verdict is one stage's decision for one record.
type Verdict struct {
	Keep   bool
	Reason string
}

// Stage screens records one at a time.
type Stage interface {
	Name() string
	Judge(rec ris.Record) Verdict
}

// Outcome pairs a record with the verdict it received, for audit logs.
type Outcome struct {
	Title  string
	DOI    string
	Keep   bool
	Reason string
}

// Stats counts verdicts by reason. Kept plus Removed always equals Before.
type Stats struct {
	Stage          string
	Before         int
	Kept           int
	Removed        int
	KeptReasons    map[string]int
	RemovedReasons map[string]int
}

// Result is the output of running one stage over a record set. Every
// input record lands in exactly one of Kept or Rejected, so rejected
// records stay recoverable in full even without a DOI.
type Result struct {
	Kept     []ris.Record
	Rejected []ris.Record
	Outcomes []Outcome
	Stats    Stats
}

// Run applies a stage to every record in input order. Records are not
// modified; the kept and rejected slices share the input's backing
// records.
func Run(s Stage, records []ris.Record) Result {
	res := Result{
		Stats: Stats{
			Stage:          s.Name(),
			Before:         len(records),
			KeptReasons:    make(map[string]int),
			RemovedReasons: make(map[string]int),
		},
	}

	for _, rec := range records {
		v := s.Judge(rec)
		res.Outcomes = append(res.Outcomes, Outcome{
			Title:  rec.Title(),
			DOI:    rec.DOI(),
			Keep:   v.Keep,
			Reason: v.Reason,
		})
		if v.Keep {
			res.Kept = append(res.Kept, rec)
			res.Stats.Kept++
			res.Stats.KeptReasons[v.Reason]++
		} else {
			res.Rejected = append(res.Rejected, rec)
			res.Stats.Removed++
			res.Stats.RemovedReasons[v.Reason]++
		}
	}

	return res
}
