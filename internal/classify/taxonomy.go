// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package classify assigns taxonomy labels, method-family tags, and
// representativeness scores to screened records.
package classify

import (
	"regexp"

	"github.com/pdiddy/corpus-curator/internal/ris"
)

// Unclassified marks a dimension with no matching category.
const Unclassified = "Unclassified"

// Category is one label within a taxonomy dimension. A record carries
// the label when any of its patterns matches; within a category the
// first hit is enough.
type Category struct {
	Name     string
	patterns []*regexp.Regexp
}

// Dimension is one axis of the taxonomy, checked independently of the
// others. A record may match several categories per dimension.
type Dimension struct {
	Name       string
	Categories []Category
}

// Taxonomy classifies records across all its dimensions.
type Taxonomy struct {
	Dimensions []Dimension
}

// Classification maps dimension name to matched category names, in
// table order. A dimension with no match holds [Unclassified].
type Classification map[string][]string

func cat(name string, patterns ...string) Category {
	c := Category{Name: name}
	for _, p := range patterns {
		c.patterns = append(c.patterns, regexp.MustCompile("(?i)"+p))
	}
	return c
}

// DefaultTaxonomy covers the dimensions of the automated ICD-coding
// literature: method family, ICD version, input data, task framing,
// benchmark dataset, contribution type, and evaluation metric.
func DefaultTaxonomy() *Taxonomy {
	return &Taxonomy{Dimensions: []Dimension{
		{Name: "ML_Method", Categories: []Category{
			cat("Traditional_ML",
				`\bSVM\b`, `\brandom forest\b`, `\bnaive bayes\b`,
				`\blogistic regression\b`, `\bk-nearest`, `\bdecision tree`,
				`\bXGBoost\b`, `\bgradient boosting\b`, `\bCRF\b`,
				`\bconditional random field\b`, `\blinear model\b`),
			cat("RNN_LSTM",
				`\bRNN\b`, `\bLSTM\b`, `\bGRU\b`, `\brecurrent neural\b`,
				`\bbi-LSTM\b`, `\bbidirectional LSTM\b`, `\bBiLSTM\b`),
			cat("CNN",
				`\bCNN\b`, `\bconvolutional neural\b`, `\bTextCNN\b`, `\bconvolution\b`),
			cat("Attention",
				`\battention mechanism\b`, `\bself-attention\b`,
				`\bmulti-head attention\b`, `\battention-based\b`, `\battention layer\b`),
			cat("BERT_Transformers",
				`\bBERT\b`, `\bRoBERTa\b`, `\bClinicalBERT\b`, `\bBioBERT\b`,
				`\btransformer\b`, `\bXLNet\b`, `\bALBERT\b`, `\bELECTRA\b`,
				`\bDeBERTa\b`, `\bLongformer\b`, `\bBigBird\b`),
			cat("LLM",
				`\bLLM\b`, `\blarge language model\b`, `\bGPT\b`,
				`\bClaude\b`, `\bLLaMA\b`, `\bgemini\b`, `\bChatGPT\b`,
				`\bfew-shot prompt\b`, `\bin-context learning\b`),
			cat("Graph_Neural",
				`\bGCN\b`, `\bGAT\b`, `\bgraph neural\b`, `\bRGCN\b`,
				`\bgraph convolutional\b`, `\bgraph attention\b`),
			cat("Multi_task",
				`\bmulti-task\b`, `\bmultitask\b`, `\bjoint learning\b`, `\bjoint training\b`),
			cat("Ensemble",
				`\bensemble\b`, `\bhybrid model\b`, `\bcombination\b`,
				`\bstacking\b`, `\bvoting\b`),
			cat("Rule_Based",
				`\brule-based\b`, `\brule system\b`, `\bheuristic\b`,
				`\bregular expression\b`, `\bpattern matching\b`, `\bdictionary-based\b`),
		}},
		{Name: "ICD_Version", Categories: []Category{
			cat("ICD-9", `\bICD-?9\b`, `\bICD-?9-?CM\b`, `\bICD-?9-?PCS\b`),
			cat("ICD-10", `\bICD-?10\b`, `\bICD-?10-?CM\b`, `\bICD-?10-?AM\b`, `\bICD-?10-?PCS\b`),
			cat("ICD-11", `\bICD-?11\b`),
			cat("ICD-O", `\bICD-?O\b`, `\boncology.*ICD\b`),
			cat("Multiple_Versions", `\bICD-?9.*ICD-?10\b`, `\bICD-?10.*ICD-?9\b`, `\bcrosswalk\b`, `\bmapping\b`),
		}},
		{Name: "Input_Data", Categories: []Category{
			cat("Discharge_Summary", `\bdischarge summar\w+\b`, `\bdischarge note\b`),
			cat("Clinical_Notes",
				`\bclinical note\b`, `\bclinical text\b`, `\bclinical document\b`,
				`\bprogress note\b`, `\bdoctor.*note\b`, `\bphysician note\b`),
			cat("Radiology", `\bradiology report\b`, `\bradiology\b`, `\bimaging report\b`),
			cat("Pathology", `\bpathology report\b`, `\bpathology\b`),
			cat("EHR",
				`\bEHR\b`, `\belectronic health record\b`,
				`\belectronic medical record\b`, `\bEMR\b`),
			cat("Nursing", `\bnursing note\b`, `\bnursing documentation\b`),
			cat("Operative", `\boperative note\b`, `\bsurgery note\b`, `\bsurgical report\b`),
			cat("Emergency", `\bemergency.*note\b`, `\bED note\b`, `\bemergency department\b`),
		}},
		{Name: "Task_Type", Categories: []Category{
			cat("Multi_label", `\bmulti-label\b`, `\bmultilabel\b`, `\bmultiple code\b`),
			cat("Hierarchical", `\bhierarchical\b`, `\bhierarchy\b`, `\btree structure\b`),
			cat("Explainable",
				`\bexplain\w+\b`, `\binterpret\w+\b`, `\bevidence\b`,
				`\battention visualization\b`, `\bXAI\b`, `\bLIME\b`, `\bSHAP\b`),
			cat("Few_shot", `\bfew-shot\b`, `\bzero-shot\b`, `\blow-resource\b`),
			cat("Imbalance", `\bimbalanc\w+\b`, `\blong-tail\b`, `\brare code\b`, `\bdata scarcity\b`),
			cat("Extreme_Multilabel", `\bextreme multi-label\b`, `\bXMLC\b`, `\bthousands of code\b`),
			cat("Code_Assignment", `\bcode assignment\b`, `\bautomatic.*assign\b`, `\bautomatic.*cod\b`),
		}},
		{Name: "Dataset", Categories: []Category{
			cat("MIMIC-III", `\bMIMIC-?III\b`, `\bMIMIC-?3\b`, `\bMIMIC3\b`),
			cat("MIMIC-IV", `\bMIMIC-?IV\b`, `\bMIMIC-?4\b`, `\bMIMIC4\b`),
			cat("eICU", `\beICU\b`, `\be-ICU\b`),
			cat("CMC", `\bCMC\b`, `\bComputational Medicine Center\b`),
			cat("Private_Hospital", `\bprivate.*hospital\b`, `\bhospital.*data\b`, `\binstitutional\b`),
			cat("Claims", `\bclaims data\b`, `\badministrative.*data\b`, `\binsurance.*data\b`),
		}},
		{Name: "Key_Contribution", Categories: []Category{
			cat("Knowledge_Graph",
				`\bknowledge graph\b`, `\bontology\b`, `\bKG\b`,
				`\bSNOMED\b`, `\bUMLS\b`, `\bmedical ontology\b`),
			cat("Transfer_Learning",
				`\btransfer learning\b`, `\bpre-train\w+\b`, `\bfine-tun\w+\b`,
				`\bdomain adaptation\b`),
			cat("Efficiency",
				`\befficiency\b`, `\bfast\w*\b`, `\bscalabl\w+\b`,
				`\breal-time\b`, `\bcomputational cost\b`, `\bspeed\b`),
			cat("Weakly_Supervised",
				`\bweakly supervised\b`, `\bdistant supervision\b`,
				`\bself-supervised\b`, `\bunsupervised\b`),
			cat("Active_Learning", `\bactive learning\b`, `\bhuman-in-the-loop\b`),
			cat("Retrieval_Augmented", `\bRAG\b`, `\bretrieval.*augmented\b`, `\bretrieval-based\b`),
			cat("Prompt_Engineering", `\bprompt\b`, `\bprompting\b`, `\binstruction.*tuning\b`),
		}},
		{Name: "Evaluation_Metric", Categories: []Category{
			cat("F1_Score", `\bF1\b`, `\bF-?1 score\b`, `\bmacro.*F1\b`, `\bmicro.*F1\b`),
			cat("Precision_Recall", `\bprecision\b`, `\brecall\b`, `\bPPV\b`, `\bsensitivity\b`),
			cat("Accuracy", `\baccuracy\b`, `\bcorrect.*rate\b`),
			cat("AUC", `\bAUC\b`, `\bAUROC\b`, `\barea under\b`),
			cat("Top_K", `\btop-?k\b`, `\btop-?5\b`, `\btop-?10\b`, `\btop k accuracy\b`),
			cat("Hamming", `\bHamming\b`, `\bHamming loss\b`),
		}},
	}}
}

// Classify labels a record across every dimension.
func (t *Taxonomy) Classify(rec ris.Record) Classification {
	text := rec.CombinedText()
	out := make(Classification, len(t.Dimensions))

	for _, dim := range t.Dimensions {
		var matches []string
		for _, c := range dim.Categories {
			for _, re := range c.patterns {
				if re.MatchString(text) {
					matches = append(matches, c.Name)
					break
				}
			}
		}
		if len(matches) == 0 {
			matches = []string{Unclassified}
		}
		out[dim.Name] = matches
	}
	return out
}

// TaxonomyStats aggregates classifications over a record set.
type TaxonomyStats struct {
	Total int
	// Counts maps dimension name to category counts. Multi-labelled
	// records count once per matched category, so a dimension's counts
	// may sum past Total.
	Counts map[string]map[string]int
	// CrossTab counts records by primary ML method and primary ICD
	// version, where primary means the first matched category.
	CrossTab map[string]map[string]int
}

// Summarize tallies a batch of classifications.
func (t *Taxonomy) Summarize(classifications []Classification) TaxonomyStats {
	stats := TaxonomyStats{
		Total:    len(classifications),
		Counts:   make(map[string]map[string]int),
		CrossTab: make(map[string]map[string]int),
	}
	for _, dim := range t.Dimensions {
		stats.Counts[dim.Name] = make(map[string]int)
	}

	for _, cls := range classifications {
		for dim, cats := range cls {
			for _, c := range cats {
				stats.Counts[dim][c]++
			}
		}
		method := cls["ML_Method"][0]
		version := cls["ICD_Version"][0]
		if stats.CrossTab[method] == nil {
			stats.CrossTab[method] = make(map[string]int)
		}
		stats.CrossTab[method][version]++
	}
	return stats
}
