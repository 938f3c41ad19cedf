// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/corpus-curator/internal/fetch"
	"github.com/pdiddy/corpus-curator/internal/secrets"
	"github.com/pdiddy/corpus-curator/pkg/types"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch [keyphrase]",
	Short: "Fetch search results from PubMed and Scopus as RIS",
	Long: `Fetch queries the configured bibliographic APIs for a keyphrase and writes
one RIS file per source into the output directory. PubMed uses the NCBI
E-utilities (esearch + efetch); Scopus uses the Elsevier Scopus Search API
and requires an API key in .secrets/scopus-api-key or --scopus-api-key.

A source failure is a warning, not an error: the remaining sources still
write their results.`,
	Args: cobra.ExactArgs(1),
	RunE: runFetch,
}

var keyphraseSlug = regexp.MustCompile(`[^a-z0-9]+`)

func slugify(keyphrase string) string {
	s := keyphraseSlug.ReplaceAllString(strings.ToLower(keyphrase), "_")
	return strings.Trim(s, "_")
}

func runFetch(cmd *cobra.Command, args []string) error {
	keyphrase := args[0]
	outDir, _ := cmd.Flags().GetString("out")
	sourceList, _ := cmd.Flags().GetStringSlice("source")
	maxResults, _ := cmd.Flags().GetInt("max-results")
	pageSize, _ := cmd.Flags().GetInt("page-size")
	rps, _ := cmd.Flags().GetFloat64("rps")
	timeout, _ := cmd.Flags().GetDuration("timeout")
	pubmedKey, _ := cmd.Flags().GetString("pubmed-api-key")
	pubmedEmail, _ := cmd.Flags().GetString("pubmed-email")
	scopusKey, _ := cmd.Flags().GetString("scopus-api-key")

	cfg := types.FetchConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   timeout,
			UserAgent: "corpus-curator/" + version,
		},
		MaxResults:        maxResults,
		PageSize:          pageSize,
		RequestsPerSecond: rps,
		EnablePubMed:      true,
		EnableScopus:      true,
		PubMedAPIKey:      secretDefault(secrets.KeyPubMedAPI, pubmedKey),
		PubMedEmail:       secretDefault(secrets.KeyPubMedEmail, pubmedEmail),
		ScopusAPIKey:      secretDefault(secrets.KeyScopusAPI, scopusKey),
	}

	// The config file can disable a source; an explicit --source wins.
	if !cmd.Flags().Changed("source") {
		if viper.IsSet("fetch.enable_pubmed") {
			cfg.EnablePubMed = viper.GetBool("fetch.enable_pubmed")
		}
		if viper.IsSet("fetch.enable_scopus") {
			cfg.EnableScopus = viper.GetBool("fetch.enable_scopus")
		}
		sourceList = nil
		if cfg.EnablePubMed {
			sourceList = append(sourceList, "pubmed")
		}
		if cfg.EnableScopus {
			sourceList = append(sourceList, "scopus")
		}
	}

	client := &http.Client{Timeout: cfg.Timeout}
	var sources []fetch.Source
	for _, name := range sourceList {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "pubmed":
			sources = append(sources, fetch.NewPubMedSource(client, cfg.PubMedAPIKey, cfg.PubMedEmail, cfg.RequestsPerSecond))
		case "scopus":
			sources = append(sources, fetch.NewScopusSource(client, cfg.ScopusAPIKey, cfg.RequestsPerSecond))
		default:
			return fmt.Errorf("unknown source %q: use pubmed or scopus", name)
		}
	}

	out, err := fetch.FetchAll(context.Background(), keyphrase, sources, cfg, os.Stderr)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	names := make([]string, 0, len(out.BySource))
	for name := range out.BySource {
		names = append(names, name)
	}
	sort.Strings(names)

	slug := slugify(keyphrase)
	for _, name := range names {
		records := out.BySource[name]
		if len(records) == 0 {
			fmt.Fprintf(os.Stderr, "%s: no records, skipping output file\n", name)
			continue
		}
		path := filepath.Join(outDir, fmt.Sprintf("%s_%s.ris", name, slug))
		if err := writeRecords(path, records); err != nil {
			return err
		}
		fmt.Printf("%s: wrote %d records to %s\n", name, len(records), path)
	}

	fmt.Printf("Total: %d records from %d source(s)\n", out.Total, len(names))
	if len(out.SourceErrors) > 0 {
		fmt.Printf("Failed sources: %d\n", len(out.SourceErrors))
	}
	return nil
}

func init() {
	fetchCmd.Flags().StringSlice("source", []string{"pubmed", "scopus"}, "sources to query (pubmed, scopus)")
	fetchCmd.Flags().String("out", "raw", "output directory for per-source RIS files")
	fetchCmd.Flags().Int("max-results", 0, "maximum records per source (0 = all)")
	fetchCmd.Flags().Int("page-size", 0, "records per API page (0 = source default)")
	fetchCmd.Flags().Float64("rps", 3, "API requests per second")
	fetchCmd.Flags().Duration("timeout", 30*time.Second, "HTTP request timeout")
	fetchCmd.Flags().String("pubmed-api-key", "", "NCBI API key (default: .secrets/pubmed-api-key)")
	fetchCmd.Flags().String("pubmed-email", "", "contact email sent to NCBI (default: .secrets/pubmed-email)")
	fetchCmd.Flags().String("scopus-api-key", "", "Elsevier API key (default: .secrets/scopus-api-key)")

	rootCmd.AddCommand(fetchCmd)
}
