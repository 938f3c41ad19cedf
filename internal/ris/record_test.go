// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ris

import "testing"

func TestNormalizeDOI(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bare DOI", "10.1016/j.jbi.2023.104323", "10.1016/j.jbi.2023.104323"},
		{"uppercase", "10.1016/J.JBI.2023.104323", "10.1016/j.jbi.2023.104323"},
		{"https prefix", "https://doi.org/10.1093/jamia/ocab123", "10.1093/jamia/ocab123"},
		{"http dx prefix", "http://dx.doi.org/10.1093/jamia/ocab123", "10.1093/jamia/ocab123"},
		{"doi scheme", "doi:10.1109/access.2021.3071234", "10.1109/access.2021.3071234"},
		{"whitespace", "  10.1186/s12911-020-1 \t", "10.1186/s12911-020-1"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeDOI(tt.in); got != tt.want {
				t.Errorf("NormalizeDOI(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestFirstNonEmpty(t *testing.T) {
	rec := NewRecord()
	rec.Add("JF", "Journal of Biomedical Informatics")
	rec.Add("T2", "Proceedings of Something")

	if got := rec.FirstNonEmpty("JO", "JF", "T2"); got != "Journal of Biomedical Informatics" {
		t.Errorf("FirstNonEmpty = %q, want JF value", got)
	}
	if got := rec.FirstNonEmpty("JO", "VL"); got != "" {
		t.Errorf("FirstNonEmpty on absent tags = %q, want empty", got)
	}
}

func TestYear(t *testing.T) {
	tests := []struct {
		name string
		py   string
		da   string
		want string
	}{
		{"plain PY", "2021", "", "2021"},
		{"PY with month", "2021/03//", "", "2021"},
		{"DA fallback", "", "2019-Oct", "2019"},
		{"PY wins over DA", "2020", "2018", "2020"},
		{"no year", "", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := NewRecord()
			rec.Add("PY", tt.py)
			rec.Add("DA", tt.da)
			if got := rec.Year(); got != tt.want {
				t.Errorf("Year() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCombinedText(t *testing.T) {
	rec := NewRecord()
	rec.Add("TI", "Automated ICD Coding")
	rec.Add("AB", "We  propose a   transformer model.")
	rec.Add("KW", "deep learning")
	rec.Add("KW", "ICD-10")

	want := "automated icd coding we propose a transformer model. deep learning icd-10"
	if got := rec.CombinedText(); got != want {
		t.Errorf("CombinedText() = %q, want %q", got, want)
	}
}

func TestAddDropsEmptyValues(t *testing.T) {
	rec := NewRecord()
	rec.Add("TI", "")
	if _, ok := rec.Tags["TI"]; ok {
		t.Error("Add(\"\") should not create a tag entry")
	}
}

func TestCloneIsDeep(t *testing.T) {
	rec := NewRecord()
	rec.Add("AU", "Smith, J.")
	clone := rec.Clone()
	clone.Add("AU", "Jones, K.")
	clone.AppendNote("tagged")

	if len(rec.Tags["AU"]) != 1 {
		t.Errorf("original author list mutated: %v", rec.Tags["AU"])
	}
	if len(rec.Tags["N1"]) != 0 {
		t.Errorf("original notes mutated: %v", rec.Tags["N1"])
	}
}
