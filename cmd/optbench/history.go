package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"optbench/internal/report"
	"optbench/internal/results"
	"optbench/internal/suites"
)

var (
	historySuite string
	historyLimit int

	compareSuite     string
	compareThreshold float64

	reportSuite string
	reportRaw   bool

	exportSuite  string
	exportFormat string
	exportOut    string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the available suites and their defaults",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		report.ConfigureColor(cmd.OutOrStdout())
		fmt.Fprintln(cmd.OutOrStdout(), report.SuiteTable(suites.All()))
	},
}

var historyCmd = &cobra.Command{
	Use:         "history",
	Annotations: map[string]string{storeAnnotation: "required"},
	Short:       "Show saved runs",
	Args:        cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		runs, err := store.LoadAll(historySuite)
		if err != nil {
			return fmt.Errorf("failed to load history: %w", err)
		}
		if len(runs) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No saved runs.")
			return nil
		}
		if historyLimit > 0 && len(runs) > historyLimit {
			runs = runs[len(runs)-historyLimit:]
		}

		report.ConfigureColor(cmd.OutOrStdout())
		fmt.Fprintln(cmd.OutOrStdout(), report.HistoryTable(runs, time.Now()))
		return nil
	},
}

var compareCmd = &cobra.Command{
	Use:         "compare",
	Annotations: map[string]string{storeAnnotation: "required"},
	Short:       "Compare the two latest saved runs of a suite",
	Long: `Compare matches the variants of the two most recent saved runs of a suite
by group and label and shows the change in time and throughput. Variants slower
or faster than the threshold percentage are marked.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		suite := compareSuite
		if suite == "" {
			latest, err := store.LoadLatest("")
			if err != nil {
				return fmt.Errorf("failed to load history: %w", err)
			}
			if latest == nil {
				return results.ErrNoRuns
			}
			suite = latest.Suite
		}

		runs, err := store.LoadAll(suite)
		if err != nil {
			return fmt.Errorf("failed to load history: %w", err)
		}
		if len(runs) < 2 {
			return fmt.Errorf("%w: compare needs two runs of %s, found %d", results.ErrNoRuns, suite, len(runs))
		}

		threshold := viper.GetFloat64("compare.threshold")
		if cmd.Flags().Changed("threshold") {
			threshold = compareThreshold
		}

		prev, curr := runs[len(runs)-2], runs[len(runs)-1]
		comps := results.Compare(prev, curr)

		out := cmd.OutOrStdout()
		report.ConfigureColor(out)
		fmt.Fprintf(out, "Comparing %s runs %s and %s (threshold %.1f%%)\n", suite, shortRunID(prev), shortRunID(curr), threshold)
		fmt.Fprintln(out, report.ComparisonTable(comps, threshold))

		regressions := 0
		for _, c := range comps {
			if c.Regressed(threshold) {
				regressions++
			}
		}
		fmt.Fprintf(out, "%d of %d variants regressed\n", regressions, len(comps))
		return nil
	},
}

var reportCmd = &cobra.Command{
	Use:         "report",
	Annotations: map[string]string{storeAnnotation: "required"},
	Short:       "Render the latest saved run as markdown",
	Args:        cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		run, err := store.LoadLatest(reportSuite)
		if err != nil {
			return fmt.Errorf("failed to load history: %w", err)
		}
		if run == nil {
			return results.ErrNoRuns
		}

		md := report.Markdown(*run)
		if reportRaw {
			fmt.Fprint(cmd.OutOrStdout(), md)
			return nil
		}

		out, err := report.Render(md)
		if err != nil {
			// Fallback to plain text
			fmt.Fprint(cmd.OutOrStdout(), md)
			return nil
		}
		fmt.Fprint(cmd.OutOrStdout(), out)
		return nil
	},
}

var exportCmd = &cobra.Command{
	Use:         "export",
	Annotations: map[string]string{storeAnnotation: "required"},
	Short:       "Export saved runs as json, yaml or parquet",
	Args:        cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		runs, err := store.LoadAll(exportSuite)
		if err != nil {
			return fmt.Errorf("failed to load history: %w", err)
		}

		if exportOut == "" || exportOut == "-" {
			return results.Export(cmd.OutOrStdout(), exportFormat, runs)
		}

		f, err := os.Create(exportOut)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", exportOut, err)
		}
		if err := results.Export(f, exportFormat, runs); err != nil {
			f.Close()
			os.Remove(exportOut)
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d runs to %s\n", len(runs), exportOut)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd, historyCmd, compareCmd, reportCmd, exportCmd)

	historyCmd.Flags().StringVar(&historySuite, "suite", "", "Only show runs of this suite")
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "Show at most this many runs (0 for all)")

	compareCmd.Flags().StringVar(&compareSuite, "suite", "", "Suite to compare (default is the suite of the latest run)")
	compareCmd.Flags().Float64Var(&compareThreshold, "threshold", 10.0, "Percentage threshold for regression warning")

	reportCmd.Flags().StringVar(&reportSuite, "suite", "", "Report the latest run of this suite")
	reportCmd.Flags().BoolVar(&reportRaw, "raw", false, "Print markdown without terminal rendering")

	exportCmd.Flags().StringVar(&exportSuite, "suite", "", "Only export runs of this suite")
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "json", "Output format: json, yaml or parquet")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "-", "Output file, - for stdout")
}

func shortRunID(r results.Run) string {
	if len(r.ID) > 8 {
		return r.ID[:8]
	}
	return r.ID
}
