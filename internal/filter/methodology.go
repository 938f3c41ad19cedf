// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package filter

import (
	"regexp"

	"github.com/pdiddy/corpus-curator/internal/ris"
)

// MethodologyFilter keeps papers that build or evaluate a system and
// rejects audit, billing, qualitative, and guideline literature. The
// deny list is unconditional: a paper mentioning both a classifier and
// a billing audit is still rejected, because audit papers freely borrow
// methods vocabulary.
type MethodologyFilter struct {
	method []*regexp.Regexp
	eval   []*regexp.Regexp
	deny   []*regexp.Regexp
}

func NewMethodologyFilter(rules *Rules) (*MethodologyFilter, error) {
	method, err := compileAll(rules.MethodSignals)
	if err != nil {
		return nil, err
	}
	eval, err := compileAll(rules.EvalSignals)
	if err != nil {
		return nil, err
	}
	deny, err := compileAll(rules.DenySignals)
	if err != nil {
		return nil, err
	}
	return &MethodologyFilter{method: method, eval: eval, deny: deny}, nil
}

func (f *MethodologyFilter) Name() string { return "methodology" }

func (f *MethodologyFilter) Judge(rec ris.Record) Verdict {
	text := rec.CombinedText()
	if text == "" {
		return Verdict{Keep: false, Reason: ReasonNoText}
	}

	if anyMatch(text, f.deny) {
		return Verdict{Keep: false, Reason: "Non-methodological focus (audit/billing/qualitative/guideline)"}
	}

	hasMethod := anyMatch(text, f.method)
	hasEval := anyMatch(text, f.eval)
	switch {
	case hasMethod && hasEval:
		return Verdict{Keep: true, Reason: "Strong methodology signals (method + evaluation)"}
	case hasMethod:
		return Verdict{Keep: true, Reason: "Method signals present"}
	case hasEval:
		return Verdict{Keep: true, Reason: "Evaluation signals present"}
	default:
		return Verdict{Keep: false, Reason: "No methodology or evaluation signals"}
	}
}
