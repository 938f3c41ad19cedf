// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fetch retrieves bibliographic records for a keyphrase from
// academic APIs and returns them as RIS records.
package fetch

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/pdiddy/corpus-curator/internal/ris"
	"github.com/pdiddy/corpus-curator/pkg/types"
)

// Source retrieves records from a single academic API. Each source
// (PubMed, Scopus) implements this interface.
type Source interface {
	Name() string
	Fetch(ctx context.Context, keyphrase string, cfg types.FetchConfig) ([]ris.Record, error)
}

// Output holds the per-source record batches and any source failures.
type Output struct {
	BySource     map[string][]ris.Record
	SourceErrors []string
	Total        int
}

// FetchAll fans the keyphrase out to all sources concurrently. A source
// failure is reported on w and recorded, not fatal: remaining sources
// still contribute. Every returned record carries its source and the
// keyphrase in its provenance.
func FetchAll(ctx context.Context, keyphrase string, sources []Source, cfg types.FetchConfig, w io.Writer) (Output, error) {
	if keyphrase == "" {
		return Output{}, fmt.Errorf("keyphrase is empty")
	}
	if len(sources) == 0 {
		return Output{}, fmt.Errorf("no fetch sources configured")
	}

	type sourceResult struct {
		name    string
		records []ris.Record
		err     error
	}

	ch := make(chan sourceResult, len(sources))
	var wg sync.WaitGroup
	for _, s := range sources {
		wg.Add(1)
		go func(s Source) {
			defer wg.Done()
			records, err := s.Fetch(ctx, keyphrase, cfg)
			ch <- sourceResult{name: s.Name(), records: records, err: err}
		}(s)
	}
	go func() {
		wg.Wait()
		close(ch)
	}()

	out := Output{BySource: make(map[string][]ris.Record)}
	for sr := range ch {
		if sr.err != nil {
			msg := fmt.Sprintf("%s: %v", sr.name, sr.err)
			out.SourceErrors = append(out.SourceErrors, msg)
			fmt.Fprintf(w, "warning: source %s failed: %v\n", sr.name, sr.err)
			continue
		}
		for i := range sr.records {
			sr.records[i].Provenance.Source = sr.name
			sr.records[i].Provenance.Keyphrase = keyphrase
		}
		out.BySource[sr.name] = sr.records
		out.Total += len(sr.records)
		fmt.Fprintf(w, "%s: %d records\n", sr.name, len(sr.records))
	}

	return out, nil
}
