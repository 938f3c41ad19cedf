// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package filter

import (
	"fmt"
	"os"
	"regexp"

	"go.yaml.in/yaml/v3"
)

// Rules holds the pattern tables driving every screening stage. The
// zero value is unusable; start from DefaultRules or LoadRules.
type Rules struct {
	// Journal allow-list. A record matches when its normalized journal
	// name equals an entry or contains an entry as a substring.
	Journals []string `yaml:"journals"`

	// Reference types to keep and to reject. Types on neither list are
	// kept, since sources disagree on how they label grey literature.
	KeepTypes []string `yaml:"keep_types"`
	DenyTypes []string `yaml:"deny_types"`

	// Content stage: phrases asserting ICD coding is the task, verbs
	// that imply prediction when they appear near "icd", generic ML/NLP
	// vocabulary, and phrases marking metadata-only use of ICD codes.
	PositivePhrases []string `yaml:"positive_phrases"`
	ModelVerbs      []string `yaml:"model_verbs"`
	MLSignals       []string `yaml:"ml_signals"`
	NegativePhrases []string `yaml:"negative_phrases"`

	// Methodology stage: system-building vocabulary, evaluation
	// vocabulary, and hard-reject vocabulary (audit, billing,
	// qualitative, guideline).
	MethodSignals []string `yaml:"method_signals"`
	EvalSignals   []string `yaml:"eval_signals"`
	DenySignals   []string `yaml:"deny_signals"`
}

// DefaultRules returns the built-in tables tuned for the automated
// ICD-coding literature.
func DefaultRules() *Rules {
	return &Rules{
		Journals: []string{
			"Journal of Biomedical Informatics",
			"Journal of the American Medical Informatics Association",
			"International Journal of Medical Informatics",
			"BMC Medical Informatics and Decision Making",
			"Studies in Health Technology and Informatics",
			"Computers in Biology and Medicine",
			"IEEE Access",
			"Expert Systems with Applications",
			"Biomedical Signal Processing and Control",
			"Sensors",
			"Applied Sciences Switzerland",
		},
		KeepTypes: []string{"JOUR", "CONF"},
		DenyTypes: []string{"BOOK", "CHAP"},
		PositivePhrases: []string{
			`\bicd coding\b`,
			`\bclinical coding\b`,
			`\bmedical coding\b`,
			`\bcode assignment\b`,
			`\bicd code assignment\b`,
			`\bautomatic icd\b`,
			`\bautomated icd\b`,
			`\bcomputer[- ]assisted\b.*\bcoding\b`,
			`\bcomputer[- ]aided\b.*\bcoding\b`,
			`\bauto[- ]coding\b`,
			`\bautomatic coding\b`,
			`\bautomated coding\b`,
			`\b(icd-?10|icd-?11)\s+(classification|coding|assignment|prediction)\b`,
		},
		ModelVerbs: []string{
			"predict", "prediction", "classify", "classification", "assign", "assignment",
			"automate", "automated", "automatic", "extract", "extraction", "label", "labeling",
			"map", "mapping", "code", "coding", "generate", "generation",
		},
		MLSignals: []string{
			`\bmachine learning\b`, `\bdeep learning\b`, `\bneural\b`, `\btransformer\b`,
			`\bb(i|e)lstm\b`, `\bbert\b`, `\bllm\b`, `\blarge language model\b`,
			`\bnlp\b`, `\bnatural language processing\b`,
			`\bmulti[- ]label\b`, `\bhierarch(y|ical)\b`, `\bsequence[- ]to[- ]sequence\b`,
			`\bencoder\b`, `\bdecoder\b`, `\battention\b`, `\bretrieval[- ]augmented\b`,
		},
		NegativePhrases: []string{
			`\bused icd (codes? )?to identify\b`,
			`\bpatients? (were )?identified using icd\b`,
			`\b(icd|icd-?10|icd-?11).{0,30}\b(cohort|case definition|case-defining|phenotype|phenotyping)\b`,
			`\bbased on icd codes\b`,
			`\b(icd|icd-?10|icd-?11).{0,30}\b(administrative data|claims data|billing)\b`,
			`\bretrospective cohort\b`,
			`\bpopulation[- ]based\b`,
			`\bincidence\b|\bprevalence\b|\bmortality\b|\brisk factors?\b|\bhealth services\b|\bcost(s)?\b`,
		},
		MethodSignals: []string{
			`\b(machine learning|deep learning|neural network|neural|transformer|bert|lstm|bilstm|cnn|rnn)\b`,
			`\b(nlp|natural language processing|language model|large language model|llm|gpt)\b`,
			`\b(classifier|classification|predictor|prediction|model|algorithm|pipeline|framework|system|architecture)\b`,
			`\b(multi[- ]label|hierarch(?:y|ical)|extreme multi[- ]label|xmlc)\b`,
			`\b(weak supervision|distant supervision|self[- ]supervised|semi[- ]supervised)\b`,
			`\b(retrieval[- ]augmented|rag|retrieval|rerank|prompt|prompting|in[- ]context)\b`,
			`\b(embedding|representation learning|fine[- ]tune|finetune|pretrain|pre[- ]train)\b`,
			`\b(ontology|knowledge graph|knowledge[- ]based|snomed|umls)\b`,
			`\b(rule[- ]based|heuristic|dictionary[- ]based|pattern matching|regular expression)\b`,
		},
		EvalSignals: []string{
			`\b(f1|micro[- ]f1|macro[- ]f1|precision|recall|accuracy)\b`,
			`\b(auc|auroc|auprc|area under the curve)\b`,
			`\b(hamming loss|exact match|top[- ]k|p@k|r@k|precision@k|recall@k)\b`,
			`\b(sensitivity|specificity|ppv|npv)\b`,
			`\b(evaluat(?:e|ed|ion)|performance|benchmark|baseline|compare|comparison)\b`,
			`\b(cross[- ]validation|cross validation|train(?:ing)? set|test set|validation set|held[- ]out|external validation)\b`,
			`\b(ablation|error analysis|confusion matrix|statistical significance)\b`,
		},
		DenySignals: []string{
			`\b(audit|chart review|manual review|coding quality|coding accuracy)\b`,
			`\b(inter[- ]rater|interrater|kappa|agreement)\b`,
			`\b(coder training|coding training|education program|workforce)\b`,
			`\b(billing|reimbursement|drg|claims processing|administrative claims)\b`,
			`\b(qualitative|interview|focus group|survey|implementation study|workflow)\b`,
			`\b(guideline|policy|position paper|editorial|commentary)\b`,
		},
	}
}

// LoadRules reads a YAML rules file. Sections absent from the file fall
// back to the defaults, so a file may override just the journal list.
func LoadRules(path string) (*Rules, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading rules file: %w", err)
	}

	var loaded Rules
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		return nil, fmt.Errorf("parsing rules file %s: %w", path, err)
	}

	rules := DefaultRules()
	if len(loaded.Journals) > 0 {
		rules.Journals = loaded.Journals
	}
	if len(loaded.KeepTypes) > 0 {
		rules.KeepTypes = loaded.KeepTypes
	}
	if len(loaded.DenyTypes) > 0 {
		rules.DenyTypes = loaded.DenyTypes
	}
	if len(loaded.PositivePhrases) > 0 {
		rules.PositivePhrases = loaded.PositivePhrases
	}
	if len(loaded.ModelVerbs) > 0 {
		rules.ModelVerbs = loaded.ModelVerbs
	}
	if len(loaded.MLSignals) > 0 {
		rules.MLSignals = loaded.MLSignals
	}
	if len(loaded.NegativePhrases) > 0 {
		rules.NegativePhrases = loaded.NegativePhrases
	}
	if len(loaded.MethodSignals) > 0 {
		rules.MethodSignals = loaded.MethodSignals
	}
	if len(loaded.EvalSignals) > 0 {
		rules.EvalSignals = loaded.EvalSignals
	}
	if len(loaded.DenySignals) > 0 {
		rules.DenySignals = loaded.DenySignals
	}
	return rules, nil
}

func compileAll(patterns []string) ([]*regexp.Regexp, error) {
	out := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile("(?i)" + p)
		if err != nil {
			return nil, fmt.Errorf("compiling pattern %q: %w", p, err)
		}
		out = append(out, re)
	}
	return out, nil
}

func countMatches(text string, res []*regexp.Regexp) int {
	n := 0
	for _, re := range res {
		n += len(re.FindAllString(text, -1))
	}
	return n
}

func anyMatch(text string, res []*regexp.Regexp) bool {
	for _, re := range res {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}
