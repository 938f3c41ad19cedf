// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package filter

import (
	"fmt"
	"strings"

	"github.com/pdiddy/corpus-curator/internal/ris"
)

// JournalFilter keeps records published in an allow-listed venue. The
// record's venue is taken from JO, then JF, then T2.
type JournalFilter struct {
	targets []string // normalized allow-list entries
	labels  []string // original spelling, for reasons
}

func NewJournalFilter(journals []string) *JournalFilter {
	f := &JournalFilter{}
	for _, j := range journals {
		f.targets = append(f.targets, normalizeJournal(j))
		f.labels = append(f.labels, j)
	}
	return f
}

func (f *JournalFilter) Name() string { return "journal" }

func (f *JournalFilter) Judge(rec ris.Record) Verdict {
	journal := rec.Journal()
	if journal == "" {
		return Verdict{Keep: false, Reason: "No journal information"}
	}

	norm := normalizeJournal(journal)
	for i, target := range f.targets {
		if norm == target || strings.Contains(norm, target) {
			return Verdict{Keep: true, Reason: fmt.Sprintf("Matched journal: %s", f.labels[i])}
		}
	}
	return Verdict{Keep: false, Reason: "Journal not in target list"}
}

// normalizeJournal lowercases, drops punctuation that varies between
// indexers, and collapses runs of whitespace.
func normalizeJournal(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = strings.NewReplacer(":", "", ",", "", ".", "").Replace(s)
	return strings.Join(strings.Fields(s), " ")
}
