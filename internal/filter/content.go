// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package filter

import (
	"fmt"
	"regexp"

	"github.com/pdiddy/corpus-curator/internal/ris"
	"github.com/pdiddy/corpus-curator/pkg/types"
)

// ContentFilter decides whether ICD coding is the paper's task rather
// than its metadata. It scores positive signals (task phrases, model
// verbs near "icd", ML vocabulary, title mentions) against negative
// signals (cohort and claims-data phrasing) and applies an ordered
// decision table, checked top to bottom with the first match winning:
//
//	positive >= StrongPositive                         keep
//	positive >= ModeratePositive and negative small    keep
//	negative >= StrongNegative and positive weak       reject
//	positive > 0                                       keep
//	otherwise                                          reject
//
// A paper with overwhelming task evidence is kept even when cohort
// language is present, since methods papers routinely describe their
// clinical data in cohort terms.
type ContentFilter struct {
	thresholds types.ContentThresholds
	positive   []*regexp.Regexp
	verbs      []*regexp.Regexp
	mlSignals  []*regexp.Regexp
	negative   []*regexp.Regexp
}

// ContentScores records how a verdict was reached.
type ContentScores struct {
	Positive   int
	Negative   int
	Phrases    int
	Verbs      int
	MLSignals  int
	TitleBonus int
}

func NewContentFilter(rules *Rules, th types.ContentThresholds) (*ContentFilter, error) {
	pos, err := compileAll(rules.PositivePhrases)
	if err != nil {
		return nil, err
	}
	neg, err := compileAll(rules.NegativePhrases)
	if err != nil {
		return nil, err
	}
	ml, err := compileAll(rules.MLSignals)
	if err != nil {
		return nil, err
	}

	verbs := make([]string, 0, len(rules.ModelVerbs))
	for _, v := range rules.ModelVerbs {
		q := regexp.QuoteMeta(v)
		verbs = append(verbs, fmt.Sprintf(`\b%s\w*\b.{0,50}\bicd\b|\bicd\b.{0,50}\b%s\w*\b`, q, q))
	}
	verbRes, err := compileAll(verbs)
	if err != nil {
		return nil, err
	}

	return &ContentFilter{
		thresholds: th,
		positive:   pos,
		verbs:      verbRes,
		mlSignals:  ml,
		negative:   neg,
	}, nil
}

func (f *ContentFilter) Name() string { return "content" }

func (f *ContentFilter) Judge(rec ris.Record) Verdict {
	v, _ := f.Score(rec)
	return v
}

// Score returns the verdict together with its score breakdown.
func (f *ContentFilter) Score(rec ris.Record) (Verdict, ContentScores) {
	text := rec.CombinedText()
	title := rec.TitleText()
	th := f.thresholds

	var sc ContentScores
	if text == "" {
		return Verdict{Keep: false, Reason: ReasonNoText}, sc
	}
	sc.Phrases = countMatches(text, f.positive)
	for _, re := range f.verbs {
		// Each verb counts once no matter how often it co-occurs.
		if re.MatchString(text) {
			sc.Verbs++
		}
	}
	sc.MLSignals = countMatches(text, f.mlSignals)
	if sc.MLSignals > th.SignalCap {
		sc.MLSignals = th.SignalCap
	}
	for _, re := range f.positive {
		if re.MatchString(title) {
			sc.TitleBonus += th.TitleBonus
		}
	}
	sc.Positive = sc.Phrases + sc.Verbs + sc.MLSignals + sc.TitleBonus

	sc.Negative = countMatches(text, f.negative)
	for _, re := range f.negative {
		if re.MatchString(title) {
			sc.Negative += th.TitlePenalty
		}
	}

	switch {
	case sc.Positive >= th.StrongPositive:
		return Verdict{Keep: true, Reason: "Strong positive signals"}, sc
	case sc.Positive >= th.ModeratePositive && sc.Negative <= th.ModerateNegativeMax:
		return Verdict{Keep: true, Reason: "Moderate positive signals"}, sc
	case sc.Negative >= th.StrongNegative && sc.Positive < th.ModeratePositive:
		return Verdict{Keep: false, Reason: "Strong negative signals (cohort/metadata use)"}, sc
	case sc.Positive > 0:
		return Verdict{Keep: true, Reason: "Weak positive signals"}, sc
	default:
		return Verdict{Keep: false, Reason: "No clear ICD coding task signals"}, sc
	}
}
