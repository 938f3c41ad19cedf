// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fetch

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/time/rate"

	"github.com/pdiddy/corpus-curator/internal/httputil"
	"github.com/pdiddy/corpus-curator/internal/ris"
	"github.com/pdiddy/corpus-curator/pkg/types"
)

// pubmedBase is the NCBI E-utilities endpoint. Declared as a var so
// tests can substitute an httptest server.
var pubmedBase = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils"

const (
	pubmedPageMax   = 10000 // esearch retmax ceiling
	pubmedBatchSize = 200   // efetch IDs per request
)

// PubMedSource queries PubMed through esearch and efetch. NCBI asks for
// an email on every request and grants a higher rate with an API key.
type PubMedSource struct {
	Client  *http.Client
	APIKey  string
	Email   string
	limiter *rate.Limiter
}

// NewPubMedSource builds a source that paces its requests. Without an
// API key NCBI allows 3 requests per second; rps <= 0 uses that.
func NewPubMedSource(client *http.Client, apiKey, email string, rps float64) *PubMedSource {
	if rps <= 0 {
		rps = 3
	}
	return &PubMedSource{
		Client:  client,
		APIKey:  apiKey,
		Email:   email,
		limiter: rate.NewLimiter(rate.Limit(rps), 1),
	}
}

func (s *PubMedSource) Name() string { return "pubmed" }

// Fetch searches PubMed for the keyphrase and retrieves full article
// metadata for every hit, up to cfg.MaxResults (0 means all).
func (s *PubMedSource) Fetch(ctx context.Context, keyphrase string, cfg types.FetchConfig) ([]ris.Record, error) {
	pmids, err := s.search(ctx, keyphrase, cfg)
	if err != nil {
		return nil, err
	}
	if len(pmids) == 0 {
		return nil, nil
	}
	return s.fetchDetails(ctx, pmids, cfg)
}

type esearchResponse struct {
	ESearchResult struct {
		Count  string   `json:"count"`
		IDList []string `json:"idlist"`
	} `json:"esearchresult"`
}

func (s *PubMedSource) search(ctx context.Context, keyphrase string, cfg types.FetchConfig) ([]string, error) {
	pageSize := cfg.PageSize
	if pageSize <= 0 || pageSize > pubmedPageMax {
		pageSize = 500
	}

	var pmids []string
	for start := 0; ; start += pageSize {
		params := url.Values{
			"db":       {"pubmed"},
			"term":     {keyphrase},
			"retstart": {fmt.Sprintf("%d", start)},
			"retmax":   {fmt.Sprintf("%d", pageSize)},
			"retmode":  {"json"},
		}
		s.auth(params)

		var er esearchResponse
		if err := s.getJSON(ctx, pubmedBase+"/esearch.fcgi?"+params.Encode(), cfg, &er); err != nil {
			return nil, fmt.Errorf("pubmed esearch: %w", err)
		}

		pmids = append(pmids, er.ESearchResult.IDList...)
		if cfg.MaxResults > 0 && len(pmids) >= cfg.MaxResults {
			pmids = pmids[:cfg.MaxResults]
			break
		}
		if len(er.ESearchResult.IDList) < pageSize {
			break
		}
	}
	return pmids, nil
}

// efetch XML shapes, limited to the fields the record needs.
type pubmedArticleSet struct {
	Articles []pubmedArticle `xml:"PubmedArticle"`
}

type pubmedArticle struct {
	Citation struct {
		PMID    string `xml:"PMID"`
		Article struct {
			Title    string `xml:"ArticleTitle"`
			Abstract struct {
				Texts []struct {
					Label string `xml:"Label,attr"`
					Text  string `xml:",chardata"`
				} `xml:"AbstractText"`
			} `xml:"Abstract"`
			Authors []struct {
				LastName string `xml:"LastName"`
				ForeName string `xml:"ForeName"`
			} `xml:"AuthorList>Author"`
			Journal struct {
				Title string `xml:"Title"`
				ISSN  string `xml:"ISSN"`
				Issue struct {
					Volume  string `xml:"Volume"`
					PubDate struct {
						Year  string `xml:"Year"`
						Month string `xml:"Month"`
						Day   string `xml:"Day"`
					} `xml:"PubDate"`
				} `xml:"JournalIssue"`
			} `xml:"Journal"`
			PublicationTypes []string `xml:"PublicationTypeList>PublicationType"`
		} `xml:"Article"`
		MeshTerms []string `xml:"MeshHeadingList>MeshHeading>DescriptorName"`
		Keywords  []string `xml:"KeywordList>Keyword"`
	} `xml:"MedlineCitation"`
	IDs []struct {
		Type string `xml:"IdType,attr"`
		ID   string `xml:",chardata"`
	} `xml:"PubmedData>ArticleIdList>ArticleId"`
}

func (s *PubMedSource) fetchDetails(ctx context.Context, pmids []string, cfg types.FetchConfig) ([]ris.Record, error) {
	var records []ris.Record
	for start := 0; start < len(pmids); start += pubmedBatchSize {
		end := start + pubmedBatchSize
		if end > len(pmids) {
			end = len(pmids)
		}

		params := url.Values{
			"db":      {"pubmed"},
			"id":      {strings.Join(pmids[start:end], ",")},
			"retmode": {"xml"},
		}
		s.auth(params)

		body, err := s.get(ctx, pubmedBase+"/efetch.fcgi?"+params.Encode(), cfg)
		if err != nil {
			return nil, fmt.Errorf("pubmed efetch: %w", err)
		}

		var set pubmedArticleSet
		if err := xml.Unmarshal(body, &set); err != nil {
			return nil, fmt.Errorf("parsing pubmed efetch response: %w", err)
		}
		for _, a := range set.Articles {
			records = append(records, pubmedToRIS(a))
		}
	}
	return records, nil
}

// pubmedToRIS maps one efetch article to a RIS record. PubMed carries
// journal literature, so TY is always JOUR.
func pubmedToRIS(a pubmedArticle) ris.Record {
	r := ris.NewRecord()
	cit := a.Citation
	art := cit.Article

	r.Add(ris.TagType, "JOUR")
	r.Add(ris.TagTitle, art.Title)
	for _, au := range art.Authors {
		name := au.LastName
		if au.ForeName != "" && name != "" {
			name = au.ForeName + " " + name
		}
		r.Add(ris.TagAuthor, name)
	}

	pd := art.Journal.Issue.PubDate
	if pd.Year != "" {
		r.Add(ris.TagYear, pd.Year)
		var parts []string
		for _, p := range []string{pd.Year, pd.Month, pd.Day} {
			if p != "" {
				parts = append(parts, p)
			}
		}
		r.Add(ris.TagDate, strings.Join(parts, "-"))
	}

	if art.Journal.Title != "" {
		r.Add(ris.TagJournal, art.Journal.Title)
		r.Add(ris.TagJournalFull, art.Journal.Title)
	}
	r.Add(ris.TagVolume, art.Journal.Issue.Volume)
	r.Add(ris.TagISSN, art.Journal.ISSN)

	var abs []string
	for _, t := range art.Abstract.Texts {
		text := strings.TrimSpace(t.Text)
		if text == "" {
			continue
		}
		if t.Label != "" {
			abs = append(abs, t.Label+": "+text)
		} else {
			abs = append(abs, text)
		}
	}
	r.Add(ris.TagAbstract, strings.Join(abs, " "))

	for _, kw := range cit.Keywords {
		r.Add(ris.TagKeyword, strings.TrimSpace(kw))
	}
	for _, mh := range cit.MeshTerms {
		r.Add(ris.TagKeyword, strings.TrimSpace(mh))
	}

	for _, id := range a.IDs {
		if id.Type == "doi" {
			r.Add(ris.TagDOI, strings.TrimSpace(id.ID))
		}
		if id.Type == "pmc" {
			r.Add(ris.TagNote, "PMC:"+strings.TrimSpace(id.ID))
		}
	}
	if cit.PMID != "" {
		r.Add(ris.TagAccession, "PMID:"+cit.PMID)
		r.Add(ris.TagURL, fmt.Sprintf("https://pubmed.ncbi.nlm.nih.gov/%s/", cit.PMID))
	}
	if len(art.PublicationTypes) > 0 {
		r.Add(ris.TagNote, "Publication Types: "+strings.Join(art.PublicationTypes, ", "))
	}

	return r
}

func (s *PubMedSource) auth(params url.Values) {
	if s.Email != "" {
		params.Set("email", s.Email)
	}
	if s.APIKey != "" {
		params.Set("api_key", s.APIKey)
	}
}

func (s *PubMedSource) get(ctx context.Context, reqURL string, cfg types.FetchConfig) ([]byte, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", cfg.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, s.Client, req, 0)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

func (s *PubMedSource) getJSON(ctx context.Context, reqURL string, cfg types.FetchConfig, v any) error {
	body, err := s.get(ctx, reqURL, cfg)
	if err != nil {
		return err
	}
	return json.Unmarshal(body, v)
}
