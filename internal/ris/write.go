// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ris

import (
	"fmt"
	"io"
	"os"
	"sort"
)

// preferredOrder is the tag order reference managers expect. Tags outside
// this list are written afterwards in lexicographic order so output is
// deterministic across runs.
var preferredOrder = []string{
	"TY", "TI", "AU", "PY", "DA", "JO", "JF", "T2", "VL", "IS",
	"SP", "EP", "SN", "AB", "KW", "DO", "UR", "AN", "N1",
	"PB", "CY", "BT", "ED", "T3",
}

// Write serializes records to RIS text. Each record ends with the
// terminator line and a blank separator line. Parsing the output yields
// records with the same tag content and value order as the input.
func Write(w io.Writer, records []Record) error {
	known := make(map[string]bool, len(preferredOrder))
	for _, tag := range preferredOrder {
		known[tag] = true
	}

	for _, rec := range records {
		for _, tag := range preferredOrder {
			for _, value := range rec.Tags[tag] {
				if _, err := fmt.Fprintf(w, "%s  - %s\n", tag, value); err != nil {
					return fmt.Errorf("writing tag %s: %w", tag, err)
				}
			}
		}

		var extra []string
		for tag := range rec.Tags {
			if !known[tag] {
				extra = append(extra, tag)
			}
		}
		sort.Strings(extra)

		for _, tag := range extra {
			for _, value := range rec.Tags[tag] {
				if _, err := fmt.Fprintf(w, "%s  - %s\n", tag, value); err != nil {
					return fmt.Errorf("writing tag %s: %w", tag, err)
				}
			}
		}

		if _, err := fmt.Fprint(w, "ER  - \n\n"); err != nil {
			return fmt.Errorf("writing terminator: %w", err)
		}
	}
	return nil
}

// WriteFile serializes records to a RIS file.
func WriteFile(path string, records []Record) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating RIS file %s: %w", path, err)
	}
	defer f.Close()
	return Write(f, records)
}
