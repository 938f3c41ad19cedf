// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package filter

import (
	"fmt"

	"github.com/pdiddy/corpus-curator/internal/ris"
)

// TypeFilter screens on the TY reference type. Types on the keep list
// pass, types on the deny list are rejected, and anything else passes
// too: sources label grey literature inconsistently, so an unknown type
// is not evidence against a record. The keep list wins when a type is
// on both.
type TypeFilter struct {
	keep map[string]bool
	deny map[string]bool
}

func NewTypeFilter(keep, deny []string) *TypeFilter {
	f := &TypeFilter{keep: make(map[string]bool), deny: make(map[string]bool)}
	for _, t := range keep {
		f.keep[t] = true
	}
	for _, t := range deny {
		f.deny[t] = true
	}
	return f
}

func (f *TypeFilter) Name() string { return "type" }

func (f *TypeFilter) Judge(rec ris.Record) Verdict {
	ty := rec.First(ris.TagType)
	switch {
	case ty == "":
		return Verdict{Keep: true, Reason: "No reference type, kept"}
	case f.keep[ty]:
		return Verdict{Keep: true, Reason: fmt.Sprintf("Kept type: %s", ty)}
	case f.deny[ty]:
		return Verdict{Keep: false, Reason: fmt.Sprintf("Excluded type: %s", ty)}
	default:
		return Verdict{Keep: true, Reason: fmt.Sprintf("Unlisted type %s, kept", ty)}
	}
}
