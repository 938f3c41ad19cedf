// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared configuration structures for the
// corpus-curator pipeline.
package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "corpus-curator/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// FetchConfig holds settings for the bibliographic fetch stage.
type FetchConfig struct {
	HTTPConfig `yaml:",inline"`

	// MaxResults is the maximum number of records to retrieve per query (0 = all).
	MaxResults int `json:"max_results" yaml:"max_results"`

	// PageSize is the number of records requested per API page (default 200).
	PageSize int `json:"page_size" yaml:"page_size"`

	// EnablePubMed controls whether the PubMed source is used.
	EnablePubMed bool `json:"enable_pubmed" yaml:"enable_pubmed"`

	// EnableScopus controls whether the Scopus source is used.
	EnableScopus bool `json:"enable_scopus" yaml:"enable_scopus"`

	// PubMedAPIKey raises the NCBI E-utilities rate limit from 3 to 10 req/s.
	PubMedAPIKey string `json:"pubmed_api_key,omitempty" yaml:"pubmed_api_key,omitempty"`

	// PubMedEmail is sent with E-utilities requests per NCBI usage policy.
	PubMedEmail string `json:"pubmed_email,omitempty" yaml:"pubmed_email,omitempty"`

	// ScopusAPIKey authenticates against the Elsevier Scopus Search API.
	ScopusAPIKey string `json:"scopus_api_key,omitempty" yaml:"scopus_api_key,omitempty"`

	// RequestsPerSecond paces API calls (default 3).
	RequestsPerSecond float64 `json:"requests_per_second" yaml:"requests_per_second"`
}

// ContentThresholds holds the decision-table cut-offs for the content
// relevance filter. The defaults are empirically tuned values carried over
// from earlier screening rounds; treat them as calibration knobs, not
// derived constants.
type ContentThresholds struct {
	// StrongPositive keeps a record outright when the positive score
	// reaches this value (default 3).
	StrongPositive int `json:"strong_positive" yaml:"strong_positive"`

	// ModeratePositive keeps a record when the positive score reaches this
	// value and the negative score stays at or below ModerateNegativeMax
	// (defaults 2 and 2).
	ModeratePositive    int `json:"moderate_positive" yaml:"moderate_positive"`
	ModerateNegativeMax int `json:"moderate_negative_max" yaml:"moderate_negative_max"`

	// StrongNegative rejects a record when the negative score reaches this
	// value and the positive score is below ModeratePositive (default 3).
	StrongNegative int `json:"strong_negative" yaml:"strong_negative"`

	// TitleBonus is added per strong phrase found in the title (default 2).
	TitleBonus int `json:"title_bonus" yaml:"title_bonus"`

	// TitlePenalty is added to the negative score per deny phrase found in
	// the title (default 3).
	TitlePenalty int `json:"title_penalty" yaml:"title_penalty"`

	// SignalCap limits the contribution of generic ML/NLP signals (default 3).
	SignalCap int `json:"signal_cap" yaml:"signal_cap"`
}

// DefaultContentThresholds returns the tuned decision-table values.
func DefaultContentThresholds() ContentThresholds {
	return ContentThresholds{
		StrongPositive:      3,
		ModeratePositive:    2,
		ModerateNegativeMax: 2,
		StrongNegative:      3,
		TitleBonus:          2,
		TitlePenalty:        3,
		SignalCap:           3,
	}
}

// FilterConfig holds settings for the classification filter stages.
type FilterConfig struct {
	// RulesFile optionally points to a YAML file overriding the built-in
	// rule tables. Empty means use the defaults.
	RulesFile string `json:"rules_file,omitempty" yaml:"rules_file,omitempty"`

	// Content holds the content-filter decision thresholds.
	Content ContentThresholds `json:"content" yaml:"content"`
}

// BucketMode selects the grouping key for representative selection.
type BucketMode string

const (
	BucketPhaseOnly      BucketMode = "phase_only"
	BucketPhaseChallenge BucketMode = "phase_x_challenge"
	BucketPhaseDataset   BucketMode = "phase_x_dataset"
)

// SelectConfig holds settings for the representative-selection stage.
type SelectConfig struct {
	// TopPerBucket is the number of papers kept per bucket (default 3).
	TopPerBucket int `json:"top_per_bucket" yaml:"top_per_bucket"`

	// Mode selects the bucket key: phase_only, phase_x_challenge, or
	// phase_x_dataset (default phase_x_challenge).
	Mode BucketMode `json:"mode" yaml:"mode"`

	// TotalCap optionally limits the overall selection (0 = no cap).
	TotalCap int `json:"total_cap" yaml:"total_cap"`
}

// StoreConfig holds settings for the corpus database.
type StoreConfig struct {
	// Dir is the directory containing the SQLite database (default "corpus").
	Dir string `json:"dir" yaml:"dir"`

	// MaxResults is the default maximum number of query results (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// PipelineConfig groups all stage configurations for the pipeline.
type PipelineConfig struct {
	Fetch  FetchConfig  `json:"fetch" yaml:"fetch"`
	Filter FilterConfig `json:"filter" yaml:"filter"`
	Select SelectConfig `json:"select" yaml:"select"`
	Store  StoreConfig  `json:"store" yaml:"store"`
}
