// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/corpus-curator/internal/filter"
	"github.com/pdiddy/corpus-curator/internal/report"
	"github.com/pdiddy/corpus-curator/internal/ris"
	"github.com/pdiddy/corpus-curator/internal/store"
	"github.com/pdiddy/corpus-curator/pkg/types"
)

var filterCmd = &cobra.Command{
	Use:   "filter",
	Short: "Screen records through the filter cascade",
	Long: `Filter runs one screening stage over RIS files. The cascade order is
journal, type, content, methodology; each stage reads the previous stage's
output. Every record receives an explicit keep-or-reject verdict with a
reason, summarized on stdout and optionally persisted to the corpus
database for audit. Rejected records are written in full to a rejected/
subdirectory of the output, so no record is lost to screening.`,
}

var filterJournalCmd = &cobra.Command{
	Use:   "journal [file|dir ...]",
	Short: "Keep records published in the target journal list",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rules, err := filterRules(cmd)
		if err != nil {
			return err
		}
		return runFilterStage(cmd, args, filter.NewJournalFilter(rules.Journals))
	},
}

var filterTypeCmd = &cobra.Command{
	Use:   "type [file|dir ...]",
	Short: "Remove book and chapter reference types",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rules, err := filterRules(cmd)
		if err != nil {
			return err
		}
		return runFilterStage(cmd, args, filter.NewTypeFilter(rules.KeepTypes, rules.DenyTypes))
	},
}

var filterContentCmd = &cobra.Command{
	Use:   "content [file|dir ...]",
	Short: "Keep papers where ICD coding is the primary task",
	Long: `Content scores each record's title, abstract, and keywords against
phrase tables: coding-task phrases and model verbs near "icd" count as
positive evidence, cohort-selection and billing phrases as negative.
The decision thresholds can be tuned in the config file under
filter.content.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rules, err := filterRules(cmd)
		if err != nil {
			return err
		}
		stage, err := filter.NewContentFilter(rules, contentThresholds())
		if err != nil {
			return err
		}
		return runFilterStage(cmd, args, stage)
	},
}

var filterMethodologyCmd = &cobra.Command{
	Use:   "methodology [file|dir ...]",
	Short: "Keep papers that build and evaluate a coding method",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rules, err := filterRules(cmd)
		if err != nil {
			return err
		}
		stage, err := filter.NewMethodologyFilter(rules)
		if err != nil {
			return err
		}
		return runFilterStage(cmd, args, stage)
	},
}

// contentThresholds starts from the tuned defaults and applies any
// filter.content overrides from the config file.
func contentThresholds() types.ContentThresholds {
	th := types.DefaultContentThresholds()
	overrides := map[string]*int{
		"filter.content.strong_positive":       &th.StrongPositive,
		"filter.content.moderate_positive":     &th.ModeratePositive,
		"filter.content.moderate_negative_max": &th.ModerateNegativeMax,
		"filter.content.strong_negative":       &th.StrongNegative,
		"filter.content.title_bonus":           &th.TitleBonus,
		"filter.content.title_penalty":         &th.TitlePenalty,
		"filter.content.signal_cap":            &th.SignalCap,
	}
	for key, dst := range overrides {
		if viper.IsSet(key) {
			*dst = viper.GetInt(key)
		}
	}
	return th
}

func filterRules(cmd *cobra.Command) (*filter.Rules, error) {
	rulesFile, _ := cmd.Flags().GetString("rules")
	if rulesFile == "" {
		rulesFile = viper.GetString("filter.rules_file")
	}
	if rulesFile == "" {
		return filter.DefaultRules(), nil
	}
	return filter.LoadRules(rulesFile)
}

func runFilterStage(cmd *cobra.Command, args []string, stage filter.Stage) error {
	outDir, _ := cmd.Flags().GetString("out")
	storeDir, _ := cmd.Flags().GetString("store-dir")

	files, err := risInputs(args)
	if err != nil {
		return err
	}

	summary := report.NewSummary(stage.Name())
	var allKept []ris.Record
	var allOutcomes []filter.Outcome

	for _, f := range files {
		records, err := ris.ParseFile(f)
		if err != nil {
			return err
		}
		res := filter.Run(stage, records)
		summary.AddFile(filepath.Base(f), res.Stats)
		allKept = append(allKept, res.Kept...)
		allOutcomes = append(allOutcomes, res.Outcomes...)

		if len(res.Kept) > 0 {
			out := filepath.Join(outDir, filepath.Base(f))
			if err := writeRecords(out, res.Kept); err != nil {
				return err
			}
		} else {
			fmt.Fprintf(os.Stderr, "%s: no matching records, output file not created\n", filepath.Base(f))
		}
		if len(res.Rejected) > 0 {
			out := filepath.Join(outDir, "rejected", filepath.Base(f))
			if err := writeRecords(out, res.Rejected); err != nil {
				return err
			}
		}
	}

	summary.Render(os.Stdout)

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	if err := summary.WriteYAML(filepath.Join(outDir, "summary.yaml")); err != nil {
		return err
	}

	if storeDir != "" {
		s, err := store.NewStore(types.StoreConfig{Dir: storeDir})
		if err != nil {
			return err
		}
		defer s.Close()
		runID, err := s.SaveRun(context.Background(), stage.Name(), allKept, allOutcomes)
		if err != nil {
			return err
		}
		fmt.Printf("Saved run %s to %s\n", runID, storeDir)
	}
	return nil
}

func init() {
	filterCmd.PersistentFlags().String("out", "filtered", "output directory for filtered RIS files")
	filterCmd.PersistentFlags().String("rules", "", "YAML file overriding the built-in rule tables")
	filterCmd.PersistentFlags().String("store-dir", "", "persist verdicts to the corpus database in this directory")

	filterCmd.AddCommand(filterJournalCmd)
	filterCmd.AddCommand(filterTypeCmd)
	filterCmd.AddCommand(filterContentCmd)
	filterCmd.AddCommand(filterMethodologyCmd)

	rootCmd.AddCommand(filterCmd)
}
