// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report renders pipeline statistics and exports curated record
// sets to CSV for the review spreadsheets.
package report

import (
	"fmt"
	"io"
	"os"
	"sort"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/corpus-curator/internal/filter"
)

const rulerWidth = 70

// FileStats holds one input file's before/after counts for a stage.
type FileStats struct {
	File    string
	Before  int
	After   int
	Removed int
}

// Summary aggregates a stage's results across all processed files.
type Summary struct {
	Stage          string
	Files          []FileStats
	Before         int
	After          int
	KeptReasons    map[string]int
	RemovedReasons map[string]int
}

// NewSummary returns an empty summary for a stage.
func NewSummary(stage string) *Summary {
	return &Summary{
		Stage:          stage,
		KeptReasons:    make(map[string]int),
		RemovedReasons: make(map[string]int),
	}
}

// AddFile folds one file's stage statistics into the summary.
func (s *Summary) AddFile(file string, st filter.Stats) {
	s.Files = append(s.Files, FileStats{
		File:    file,
		Before:  st.Before,
		After:   st.Kept,
		Removed: st.Removed,
	})
	s.Before += st.Before
	s.After += st.Kept
	for reason, n := range st.KeptReasons {
		s.KeptReasons[reason] += n
	}
	for reason, n := range st.RemovedReasons {
		s.RemovedReasons[reason] += n
	}
}

// Removed is the total number of records the stage rejected.
func (s *Summary) Removed() int {
	return s.Before - s.After
}

// Pct is a zero-guarded percentage.
func Pct(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return float64(part) / float64(whole) * 100
}

// summaryFile is the YAML form written next to a stage's output so runs
// can be compared without re-reading console logs.
type summaryFile struct {
	Stage          string         `yaml:"stage"`
	Before         int            `yaml:"before"`
	After          int            `yaml:"after"`
	Removed        int            `yaml:"removed"`
	RetentionPct   float64        `yaml:"retention_pct"`
	Files          []FileStats    `yaml:"files,omitempty"`
	KeptReasons    map[string]int `yaml:"kept_reasons,omitempty"`
	RemovedReasons map[string]int `yaml:"removed_reasons,omitempty"`
}

// WriteYAML saves the summary to path.
func (s *Summary) WriteYAML(path string) error {
	data, err := yaml.Marshal(summaryFile{
		Stage:          s.Stage,
		Before:         s.Before,
		After:          s.After,
		Removed:        s.Removed(),
		RetentionPct:   Pct(s.After, s.Before),
		Files:          s.Files,
		KeptReasons:    s.KeptReasons,
		RemovedReasons: s.RemovedReasons,
	})
	if err != nil {
		return fmt.Errorf("marshalling summary: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing summary: %w", err)
	}
	return nil
}

func ruler(w io.Writer, ch string) {
	for i := 0; i < rulerWidth; i++ {
		fmt.Fprint(w, ch)
	}
	fmt.Fprintln(w)
}

func sortedReasons(m map[string]int) []string {
	reasons := make([]string, 0, len(m))
	for r := range m {
		reasons = append(reasons, r)
	}
	sort.Slice(reasons, func(i, j int) bool {
		if m[reasons[i]] != m[reasons[j]] {
			return m[reasons[i]] > m[reasons[j]]
		}
		return reasons[i] < reasons[j]
	})
	return reasons
}

// Render writes the stage summary in the pipeline's console format.
func (s *Summary) Render(w io.Writer) {
	fmt.Fprintln(w)
	ruler(w, "=")
	fmt.Fprintf(w, "SUMMARY: %s\n", s.Stage)
	ruler(w, "=")

	fmt.Fprintln(w, "\nOVERALL STATISTICS:")
	fmt.Fprintf(w, "  Files processed:           %d\n", len(s.Files))
	fmt.Fprintf(w, "  Total records BEFORE:      %6d\n", s.Before)
	fmt.Fprintf(w, "  Total records AFTER:       %6d\n", s.After)
	fmt.Fprintf(w, "  Total records removed:     %6d (%.1f%%)\n", s.Removed(), Pct(s.Removed(), s.Before))
	fmt.Fprintf(w, "  Retention rate:            %.1f%%\n", Pct(s.After, s.Before))

	if len(s.KeptReasons) > 0 {
		fmt.Fprintln(w, "\nKEPT REASONS:")
		for _, reason := range sortedReasons(s.KeptReasons) {
			fmt.Fprintf(w, "    - %-50s %5d\n", reason, s.KeptReasons[reason])
		}
	}
	if len(s.RemovedReasons) > 0 {
		fmt.Fprintln(w, "\nREMOVED REASONS:")
		for _, reason := range sortedReasons(s.RemovedReasons) {
			fmt.Fprintf(w, "    - %-50s %5d\n", reason, s.RemovedReasons[reason])
		}
	}

	if len(s.Files) > 0 {
		fmt.Fprintln(w)
		ruler(w, "-")
		fmt.Fprintln(w, "BREAKDOWN BY FILE:")
		ruler(w, "-")
		fmt.Fprintf(w, "%-44s %8s %8s %8s\n", "File", "Before", "After", "Removed")
		ruler(w, "-")
		for _, f := range s.Files {
			name := f.File
			if len(name) > 44 {
				name = name[:41] + "..."
			}
			fmt.Fprintf(w, "%-44s %8d %8d %8d\n", name, f.Before, f.After, f.Removed)
		}
	}
	fmt.Fprintln(w)
}
