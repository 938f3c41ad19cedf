// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package classify

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/pdiddy/corpus-curator/internal/ris"
)

// Sentinels for records that match no tagging rule.
const (
	PhaseUnspecified = "UNSPECIFIED"
	ChallengeGeneral = "GENERAL"
	DatasetUnknown   = "UNKNOWN"
	BucketUnknown    = "UNKNOWN"
)

type taggingRule struct {
	label string
	re    *regexp.Regexp
}

// phaseRules are ordered by method-family recency. The order matters
// when selecting a single phase: a paper that prompts an LLM on top of
// a BERT encoder is an LLM paper.
var phaseRules = []taggingRule{
	{"LLM_RAG_XAI", regexp.MustCompile(`(?i)\b(llm|large language model|gpt|chatgpt|prompt|rag|retrieval[- ]augmented|agent)\b`)},
	{"TRANSFORMER", regexp.MustCompile(`(?i)\b(transformer|bert|roberta|deberta|longformer|bigbird|sparse attention)\b`)},
	{"DEEP_CNN_RNN", regexp.MustCompile(`(?i)\b(cnn|convolutional|rnn|lstm|bilstm|gru|attention mechanism)\b`)},
	{"CLASSICAL_ML", regexp.MustCompile(`(?i)\b(svm|support vector|logistic regression|naive bayes|random forest|xgboost|crf|hmm)\b`)},
	{"RULE_BASED", regexp.MustCompile(`(?i)\b(rule[- ]based|heuristic|dictionary[- ]based|pattern matching|regular expression)\b`)},
}

var challengeRules = []taggingRule{
	{"HIERARCHY", regexp.MustCompile(`(?i)\b(hierarch(y|ical)|taxonomy|tree[- ]structured|parent[- ]child)\b`)},
	{"RARE_LABELS", regexp.MustCompile(`(?i)\b(rare (labels?|codes?)|long[- ]tail|few[- ]shot|low[- ]resource|data sparsity|imbalanced)\b`)},
	{"LONG_TEXT", regexp.MustCompile(`(?i)\b(long (documents?|notes?)|long[- ]text|sequence length|truncation|segmentation|chunking)\b`)},
	{"EXTREME_MULTILABEL", regexp.MustCompile(`(?i)\b(extreme multi[- ]label|xmlc|multi[- ]label)\b`)},
	{"COOCCURRENCE_RULES", regexp.MustCompile(`(?i)\b(co[- ]occurr|combination rules|code (dependencies|constraints)|post[- ]coordination)\b`)},
	{"MAPPING_INTEROP", regexp.MustCompile(`(?i)\b(map(ping)?|crosswalk|interoperab|icd[- ]9|icd[- ]10|icd[- ]11|version (transition|mapping))\b`)},
	{"KNOWLEDGE_AUG", regexp.MustCompile(`(?i)\b(ontology|knowledge graph|umls|snomed|concept normalization|lexical knowledge)\b`)},
	{"EXPLAINABILITY", regexp.MustCompile(`(?i)\b(explainab|interpretab|lime|shap|integrated gradients|rationale)\b`)},
}

var datasetRules = []taggingRule{
	{"MIMIC", regexp.MustCompile(`(?i)\b(mimic[- ]?iii|mimic[- ]?iv|mimic)\b`)},
	{"EICU", regexp.MustCompile(`(?i)\b(eicu)\b`)},
	{"UCSF", regexp.MustCompile(`(?i)\b(ucsf)\b`)},
	{"CLAIMS", regexp.MustCompile(`(?i)\b(claims data|administrative claims)\b`)},
}

var (
	metricPat     = regexp.MustCompile(`(?i)\b(f1|micro[- ]?f1|macro[- ]?f1|precision|recall|accuracy|auc|auroc|auprc|hamming loss|exact match|p@k|r@k|top[- ]?k)\b`)
	noveltyPat    = regexp.MustCompile(`(?i)\b(we propose|we present|a novel|novel|new framework|new model|first (to|study)|introduc(e|es) a)\b`)
	codingTaskPat = regexp.MustCompile(`(?i)\b(code assignment|icd coding|clinical coding|medical coding|auto[- ]coding|computer[- ]assisted)\b`)
	icdPat        = regexp.MustCompile(`(?i)\bicd\b`)
)

// Tags is the per-record annotation produced by Apply.
type Tags struct {
	Year          string
	YearBucket    string
	Phases        []string
	Challenges    []string
	Datasets      []string
	HasMetrics    bool
	HasNovelty    bool
	HasCodingTask bool
}

// Apply evaluates every tagging rule against the record's combined
// text. All matching phases, challenges, and datasets are collected.
func Apply(rec ris.Record) Tags {
	text := rec.CombinedText()
	year := rec.Year()

	tags := Tags{
		Year:       year,
		YearBucket: YearBucket(year),
	}
	for _, r := range phaseRules {
		if r.re.MatchString(text) {
			tags.Phases = append(tags.Phases, r.label)
		}
	}
	for _, r := range challengeRules {
		if r.re.MatchString(text) {
			tags.Challenges = append(tags.Challenges, r.label)
		}
	}
	for _, r := range datasetRules {
		if r.re.MatchString(text) {
			tags.Datasets = append(tags.Datasets, r.label)
		}
	}
	tags.HasMetrics = metricPat.MatchString(text)
	tags.HasNovelty = noveltyPat.MatchString(text)
	tags.HasCodingTask = rec.First(ris.TagAbstract) != "" && codingTaskPat.MatchString(text)

	return tags
}

// PrimaryPhase returns the highest-priority matching method family, or
// PhaseUnspecified.
func PrimaryPhase(text string) string {
	for _, r := range phaseRules {
		if r.re.MatchString(text) {
			return r.label
		}
	}
	return PhaseUnspecified
}

// Challenges returns every matching challenge label, or the
// ChallengeGeneral sentinel when none match.
func Challenges(text string) []string {
	var out []string
	for _, r := range challengeRules {
		if r.re.MatchString(text) {
			out = append(out, r.label)
		}
	}
	if len(out) == 0 {
		return []string{ChallengeGeneral}
	}
	return out
}

// PrimaryDataset returns the first matching dataset label, or
// DatasetUnknown.
func PrimaryDataset(text string) string {
	for _, r := range datasetRules {
		if r.re.MatchString(text) {
			return r.label
		}
	}
	return DatasetUnknown
}

// MentionsICD reports whether the text refers to ICD at all.
func MentionsICD(text string) bool {
	return icdPat.MatchString(text)
}

// YearBucket maps a publication year to its period label.
func YearBucket(year string) string {
	y, err := strconv.Atoi(year)
	if err != nil {
		return BucketUnknown
	}
	switch {
	case y <= 2011:
		return "pre2012"
	case y <= 2016:
		return "2012_2016"
	case y <= 2019:
		return "2017_2019"
	case y <= 2022:
		return "2020_2022"
	default:
		return "2023_plus"
	}
}

// YearBuckets lists the period labels in chronological order, for
// reporting.
func YearBuckets() []string {
	return []string{"pre2012", "2012_2016", "2017_2019", "2020_2022", "2023_plus", BucketUnknown}
}

// Annotate returns a copy of the record with the tags summarized in an
// N1 note. Records with nothing to report come back unchanged apart
// from the copy.
func Annotate(rec ris.Record, tags Tags) ris.Record {
	out := rec.Clone()

	var lines []string
	if tags.YearBucket != BucketUnknown {
		lines = append(lines, fmt.Sprintf("PERIOD: %s", tags.YearBucket))
	}
	if len(tags.Phases) > 0 {
		lines = append(lines, fmt.Sprintf("METHODS: %s", strings.Join(tags.Phases, ", ")))
	}
	if len(tags.Challenges) > 0 {
		lines = append(lines, fmt.Sprintf("CHALLENGES: %s", strings.Join(tags.Challenges, ", ")))
	}
	if len(tags.Datasets) > 0 {
		lines = append(lines, fmt.Sprintf("DATASETS: %s", strings.Join(tags.Datasets, ", ")))
	}

	var flags []string
	if tags.HasMetrics {
		flags = append(flags, "HAS_METRICS")
	}
	if tags.HasNovelty {
		flags = append(flags, "NOVEL")
	}
	if tags.HasCodingTask {
		flags = append(flags, "CODING_TASK")
	}
	if len(flags) > 0 {
		lines = append(lines, fmt.Sprintf("FLAGS: %s", strings.Join(flags, ", ")))
	}

	if len(lines) > 0 {
		out.AppendNote("[AUTO_TAGS] " + strings.Join(lines, " | "))
	}
	return out
}
