// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ris implements the bibliographic record model and the RIS
// exchange format used between all pipeline stages. A record is a mapping
// from a two-character tag to an ordered list of values; repeated tags
// (authors, keywords) accumulate in file order.
package ris

import (
	"regexp"
	"strings"
)

// Well-known RIS tags used throughout the pipeline.
const (
	TagType        = "TY"
	TagTitle       = "TI"
	TagAuthor      = "AU"
	TagYear        = "PY"
	TagDate        = "DA"
	TagJournal     = "JO"
	TagJournalFull = "JF"
	TagSecondary   = "T2"
	TagAbstract    = "AB"
	TagKeyword     = "KW"
	TagDOI         = "DO"
	TagNote        = "N1"
	TagVolume      = "VL"
	TagIssue       = "IS"
	TagStartPage   = "SP"
	TagEndPage     = "EP"
	TagISSN        = "SN"
	TagURL         = "UR"
	TagPublisher   = "PB"
	TagAccession   = "AN"
)

// Provenance records where a record came from. It is attached by the
// merge stage, never by the parser, and is not part of the tag set.
type Provenance struct {
	Source     string
	SourceFile string
	Keyphrase  string
}

// Record is one bibliographic entry. Tag codes are case-sensitive and the
// set is open: unknown tags survive parse and serialize untouched.
type Record struct {
	Tags       map[string][]string
	Provenance Provenance
}

// NewRecord returns an empty record.
func NewRecord() Record {
	return Record{Tags: make(map[string][]string)}
}

// Add appends a value to the tag's list. Empty values are dropped.
func (r *Record) Add(tag, value string) {
	if value == "" {
		return
	}
	if r.Tags == nil {
		r.Tags = make(map[string][]string)
	}
	r.Tags[tag] = append(r.Tags[tag], value)
}

// First returns the tag's first value, or "" when the tag is absent.
func (r Record) First(tag string) string {
	if vals := r.Tags[tag]; len(vals) > 0 {
		return vals[0]
	}
	return ""
}

// FirstNonEmpty returns the first value of the first populated tag in
// priority order. Every stage that extracts a "best" field (journal, DOI,
// title) goes through this helper so tie-break behavior is identical
// everywhere.
func (r Record) FirstNonEmpty(tags ...string) string {
	for _, tag := range tags {
		if v := strings.TrimSpace(r.First(tag)); v != "" {
			return v
		}
	}
	return ""
}

// Clone returns a deep copy. Annotation stages clone before appending
// notes so earlier stage outputs stay untouched.
func (r Record) Clone() Record {
	out := Record{
		Tags:       make(map[string][]string, len(r.Tags)),
		Provenance: r.Provenance,
	}
	for tag, vals := range r.Tags {
		out.Tags[tag] = append([]string(nil), vals...)
	}
	return out
}

// AppendNote adds a free-text N1 note to the record.
func (r *Record) AppendNote(note string) {
	r.Add(TagNote, note)
}

// Title returns the record's title, or "" when absent.
func (r Record) Title() string {
	return r.FirstNonEmpty(TagTitle)
}

// Journal returns the journal name from the first populated tag among
// JO, JF, T2, in that priority order.
func (r Record) Journal() string {
	return r.FirstNonEmpty(TagJournal, TagJournalFull, TagSecondary)
}

var yearRe = regexp.MustCompile(`\d{4}`)

// Year returns the four-digit publication year from PY, falling back to
// DA. Returns "" when neither tag yields a year.
func (r Record) Year() string {
	for _, tag := range []string{TagYear, TagDate} {
		if m := yearRe.FindString(r.First(tag)); m != "" {
			return m
		}
	}
	return ""
}

// CombinedText returns the lowercased concatenation of title, abstract,
// and keywords, the text every classification stage scores against.
// Multi-value tags are space-joined; interior whitespace is collapsed.
func (r Record) CombinedText() string {
	parts := []string{
		strings.Join(r.Tags[TagTitle], " "),
		strings.Join(r.Tags[TagAbstract], " "),
		strings.Join(r.Tags[TagKeyword], " "),
	}
	joined := strings.Join(parts, " ")
	return strings.ToLower(strings.Join(strings.Fields(joined), " "))
}

// TitleText returns the lowercased title for title-specific scoring.
func (r Record) TitleText() string {
	return strings.ToLower(strings.Join(r.Tags[TagTitle], " "))
}

var (
	doiURLRe    = regexp.MustCompile(`^https?://(dx\.)?doi\.org/`)
	doiSchemeRe = regexp.MustCompile(`^doi:\s*`)
)

// NormalizeDOI lowercases a DOI and strips URL and scheme prefixes so
// that the same work cited as "https://doi.org/10.1/X", "doi:10.1/X",
// and "10.1/x" maps to one dedup key. Returns "" for an empty input.
func NormalizeDOI(doi string) string {
	doi = strings.ToLower(strings.TrimSpace(doi))
	doi = doiURLRe.ReplaceAllString(doi, "")
	doi = doiSchemeRe.ReplaceAllString(doi, "")
	return strings.TrimSpace(doi)
}

// DOI returns the record's normalized DOI, or "" when the DO tag is
// absent or blank. Absence is a normal state, not an error.
func (r Record) DOI() string {
	return NormalizeDOI(r.First(TagDOI))
}
