// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package classify

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/pdiddy/corpus-curator/internal/ris"
	"github.com/pdiddy/corpus-curator/pkg/types"
)

// Candidate is a tagged paper considered for selection.
type Candidate struct {
	Record           ris.Record
	Title            string
	DOI              string
	Journal          string
	Year             string
	YearBucket       string
	Phase            string
	PrimaryChallenge string
	AllChallenges    []string
	Dataset          string
	HasMetrics       bool
	HasNovelty       bool
	HasCodingTask    bool
	Score            int

	yearInt int
}

// Representative is a selected candidate with its bucket attached.
type Representative struct {
	Candidate
	BucketPhase string
	BucketDim   string
}

// Bucket formats the combined bucket key.
func (r Representative) Bucket() string {
	return fmt.Sprintf("%s__%s", r.BucketPhase, r.BucketDim)
}

// Selection is the output of SelectRepresentatives.
type Selection struct {
	Tagged   []Candidate
	Selected []Representative
	Skipped  int // records with no ICD mention
	Buckets  int
}

// Score rates how well a paper represents its bucket: reported
// metrics weigh most, then novelty language and explicit coding-task
// framing, with a small bonus for a substantial abstract.
func Score(text string) int {
	score := 0
	if metricPat.MatchString(text) {
		score += 3
	}
	if noveltyPat.MatchString(text) {
		score += 2
	}
	if codingTaskPat.MatchString(text) {
		score += 2
	}
	if len(text) > 600 {
		score++
	}
	return score
}

// SelectRepresentatives buckets tagged papers and picks the top scorers
// from each bucket. Records that never mention ICD are skipped before
// tagging. Within a bucket papers are ordered by score, then year, then
// title length, all descending, with input order breaking remaining
// ties; the whole procedure is deterministic for a given input order.
func SelectRepresentatives(records []ris.Record, cfg types.SelectConfig) Selection {
	var sel Selection

	type bucketKey struct{ phase, dim string }
	buckets := make(map[bucketKey][]Candidate)
	var bucketOrder []bucketKey

	for _, rec := range records {
		text := rec.CombinedText()
		if !MentionsICD(text) {
			sel.Skipped++
			continue
		}

		year := rec.Year()
		challenges := Challenges(text)
		primary := challenges[0]
		for _, c := range challenges {
			if c != ChallengeGeneral {
				primary = c
				break
			}
		}

		c := Candidate{
			Record:           rec,
			Title:            rec.Title(),
			DOI:              rec.DOI(),
			Journal:          rec.Journal(),
			Year:             year,
			YearBucket:       YearBucket(year),
			Phase:            PrimaryPhase(text),
			PrimaryChallenge: primary,
			AllChallenges:    challenges,
			Dataset:          PrimaryDataset(text),
			HasMetrics:       metricPat.MatchString(text),
			HasNovelty:       noveltyPat.MatchString(text),
			HasCodingTask:    codingTaskPat.MatchString(text),
			Score:            Score(text),
		}
		if y, err := strconv.Atoi(year); err == nil {
			c.yearInt = y
		}
		sel.Tagged = append(sel.Tagged, c)

		key := bucketKey{phase: c.Phase}
		switch cfg.Mode {
		case types.BucketPhaseOnly:
			key.dim = "ALL"
		case types.BucketPhaseDataset:
			key.dim = c.Dataset
		default:
			key.dim = c.PrimaryChallenge
		}
		if _, ok := buckets[key]; !ok {
			bucketOrder = append(bucketOrder, key)
		}
		buckets[key] = append(buckets[key], c)
	}

	sel.Buckets = len(buckets)

	topN := cfg.TopPerBucket
	if topN <= 0 {
		topN = 3
	}

	for _, key := range bucketOrder {
		items := buckets[key]
		sort.SliceStable(items, func(i, j int) bool {
			if items[i].Score != items[j].Score {
				return items[i].Score > items[j].Score
			}
			if items[i].yearInt != items[j].yearInt {
				return items[i].yearInt > items[j].yearInt
			}
			return len(items[i].Title) > len(items[j].Title)
		})
		n := topN
		if n > len(items) {
			n = len(items)
		}
		for _, c := range items[:n] {
			sel.Selected = append(sel.Selected, Representative{
				Candidate:   c,
				BucketPhase: key.phase,
				BucketDim:   key.dim,
			})
		}
	}

	if cfg.TotalCap > 0 && len(sel.Selected) > cfg.TotalCap {
		sort.SliceStable(sel.Selected, func(i, j int) bool {
			if sel.Selected[i].Score != sel.Selected[j].Score {
				return sel.Selected[i].Score > sel.Selected[j].Score
			}
			return sel.Selected[i].yearInt > sel.Selected[j].yearInt
		})
		sel.Selected = sel.Selected[:cfg.TotalCap]
	}

	return sel
}
