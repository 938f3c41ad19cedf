// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/time/rate"

	"github.com/pdiddy/corpus-curator/internal/httputil"
	"github.com/pdiddy/corpus-curator/internal/ris"
	"github.com/pdiddy/corpus-curator/pkg/types"
)

// scopusBase is the Elsevier API root. Declared as a var so tests can
// substitute an httptest server.
var scopusBase = "https://api.elsevier.com"

// scopusPageSize is the per-request ceiling for standard API keys.
const scopusPageSize = 25

// ScopusSource queries the Scopus Search API.
type ScopusSource struct {
	Client  *http.Client
	APIKey  string
	limiter *rate.Limiter
}

func NewScopusSource(client *http.Client, apiKey string, rps float64) *ScopusSource {
	if rps <= 0 {
		rps = 3
	}
	return &ScopusSource{
		Client:  client,
		APIKey:  apiKey,
		limiter: rate.NewLimiter(rate.Limit(rps), 1),
	}
}

func (s *ScopusSource) Name() string { return "scopus" }

type scopusResponse struct {
	SearchResults struct {
		TotalResults string        `json:"opensearch:totalResults"`
		Entries      []scopusEntry `json:"entry"`
	} `json:"search-results"`
}

type scopusEntry struct {
	Title       string `json:"dc:title"`
	Creator     string `json:"dc:creator"`
	Description string `json:"dc:description"`
	PubName     string `json:"prism:publicationName"`
	CoverDate   string `json:"prism:coverDate"`
	DOI         string `json:"prism:doi"`
	ISSN        string `json:"prism:issn"`
	Volume      string `json:"prism:volume"`
	PageRange   string `json:"prism:pageRange"`
	Identifier  string `json:"dc:identifier"`
	Subtype     string `json:"subtypeDescription"`
	CitedBy     string `json:"citedby-count"`
	Links       []struct {
		Ref  string `json:"@ref"`
		Href string `json:"@href"`
	} `json:"link"`
	Error string `json:"error"`
}

// Fetch pages through Scopus search results for the keyphrase, up to
// cfg.MaxResults (0 means all).
func (s *ScopusSource) Fetch(ctx context.Context, keyphrase string, cfg types.FetchConfig) ([]ris.Record, error) {
	if s.APIKey == "" {
		return nil, fmt.Errorf("scopus API key not configured")
	}

	var records []ris.Record
	for start := 0; ; start += scopusPageSize {
		params := url.Values{
			"query": {fmt.Sprintf("TITLE-ABS-KEY(%s)", keyphrase)},
			"start": {fmt.Sprintf("%d", start)},
			"count": {fmt.Sprintf("%d", scopusPageSize)},
		}

		var sr scopusResponse
		if err := s.getJSON(ctx, scopusBase+"/content/search/scopus?"+params.Encode(), cfg, &sr); err != nil {
			return nil, fmt.Errorf("scopus search: %w", err)
		}

		entries := sr.SearchResults.Entries
		if len(entries) == 0 {
			break
		}
		for _, e := range entries {
			if e.Error != "" {
				continue
			}
			records = append(records, scopusToRIS(e))
			if cfg.MaxResults > 0 && len(records) >= cfg.MaxResults {
				return records[:cfg.MaxResults], nil
			}
		}
		if len(entries) < scopusPageSize {
			break
		}
	}
	return records, nil
}

// scopusDocType maps Scopus subtype descriptions to RIS reference
// types. Unknown subtypes default to journal article.
func scopusDocType(subtype string) string {
	st := strings.ToLower(subtype)
	switch {
	case strings.Contains(st, "conference"), strings.Contains(st, "proceeding"):
		return "CONF"
	case strings.Contains(st, "chapter"):
		return "CHAP"
	case strings.Contains(st, "book"):
		return "BOOK"
	default:
		return "JOUR"
	}
}

func scopusToRIS(e scopusEntry) ris.Record {
	r := ris.NewRecord()

	docType := scopusDocType(e.Subtype)
	r.Add(ris.TagType, docType)
	r.Add(ris.TagTitle, e.Title)

	// Scopus lists authors semicolon- or comma-separated in dc:creator.
	sep := ","
	if strings.Contains(e.Creator, ";") {
		sep = ";"
	}
	for _, au := range strings.Split(e.Creator, sep) {
		r.Add(ris.TagAuthor, strings.TrimSpace(au))
	}

	if e.CoverDate != "" {
		if year, _, ok := strings.Cut(e.CoverDate, "-"); ok || len(year) == 4 {
			r.Add(ris.TagYear, year)
		}
		r.Add(ris.TagDate, e.CoverDate)
	}

	if e.PubName != "" {
		if docType == "CONF" {
			r.Add(ris.TagSecondary, e.PubName)
		} else {
			r.Add(ris.TagJournal, e.PubName)
			r.Add(ris.TagJournalFull, e.PubName)
		}
	}

	r.Add(ris.TagVolume, e.Volume)
	if sp, ep := splitPageRange(e.PageRange); sp != "" {
		r.Add(ris.TagStartPage, sp)
		r.Add(ris.TagEndPage, ep)
	}
	r.Add(ris.TagISSN, e.ISSN)
	r.Add(ris.TagAbstract, e.Description)
	r.Add(ris.TagDOI, e.DOI)

	if e.Identifier != "" {
		id := e.Identifier
		if i := strings.LastIndex(id, ":"); i >= 0 {
			id = id[i+1:]
		}
		r.Add(ris.TagAccession, "Scopus:"+id)
	}
	for _, l := range e.Links {
		if l.Ref == "scopus" && l.Href != "" {
			r.Add(ris.TagURL, l.Href)
			break
		}
	}
	if e.CitedBy != "" && e.CitedBy != "0" {
		r.Add(ris.TagNote, "Cited by: "+e.CitedBy)
	}
	if e.Subtype != "" {
		r.Add(ris.TagNote, "Document Type: "+e.Subtype)
	}

	return r
}

// splitPageRange splits "100-110" style ranges, tolerating en-dashes.
func splitPageRange(pages string) (string, string) {
	if pages == "" {
		return "", ""
	}
	for _, dash := range []string{"-", "–"} {
		if sp, ep, ok := strings.Cut(pages, dash); ok {
			return strings.TrimSpace(sp), strings.TrimSpace(ep)
		}
	}
	return strings.TrimSpace(pages), ""
}

func (s *ScopusSource) getJSON(ctx context.Context, reqURL string, cfg types.FetchConfig, v any) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("X-ELS-APIKey", s.APIKey)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", cfg.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, s.Client, req, 0)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(v)
}
