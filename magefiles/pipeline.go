//go:build mage

package main

import (
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

func curator(args ...string) error {
	return sh.RunV(filepath.Join(binDir, binName), args...)
}

// Merge deduplicates the raw per-source RIS files into merged/merged.ris.
func Merge() error {
	mg.Deps(Build)
	return curator("merge", "raw", "--out", filepath.Join("merged", "merged.ris"))
}

// Screen runs the full filter cascade over the merged record set.
func Screen() error {
	mg.Deps(Merge)
	stages := [][2]string{
		{"journal", "merged"},
		{"type", filepath.Join("filtered", "journal")},
		{"content", filepath.Join("filtered", "type")},
		{"methodology", filepath.Join("filtered", "content")},
	}
	for _, s := range stages {
		if err := curator("filter", s[0], s[1], "--out", filepath.Join("filtered", s[0])); err != nil {
			return err
		}
	}
	return nil
}

// Sample tags the screened papers and selects the representative set.
func Sample() error {
	mg.Deps(Screen)
	in := filepath.Join("filtered", "methodology")
	if err := curator("tag", in, "--out", filepath.Join("selected", "tagged.ris")); err != nil {
		return err
	}
	return curator("select", in, "--out", "selected")
}
