package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"optbench/internal/config"
	"optbench/internal/harness"
	"optbench/internal/results"
	"optbench/internal/suites"
	"optbench/internal/telemetry"
)

var allCmd = &cobra.Command{
	Use:   "all [iterations] [init]",
	Short: "Run every suite in registry order",
	Args:  cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		runSuites(cmd, suites.All(), args)
		return nil
	},
}

func init() {
	for _, s := range suites.All() {
		rootCmd.AddCommand(newSuiteCmd(s))
	}
	rootCmd.AddCommand(allCmd)
}

func newSuiteCmd(s suites.Suite) *cobra.Command {
	return &cobra.Command{
		Use:   s.Name + " [iterations] [init]",
		Short: s.Description,
		Long: fmt.Sprintf(`%s

Defaults: %d iterations, init value %g.
iterations must be a positive integer and init a number; anything else keeps
the default.`, s.Description, s.Defaults.Iterations, s.Defaults.Init),
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			runSuites(cmd, []suites.Suite{s}, args)
			return nil
		},
	}
}

// runSuites echoes the command line and runs each suite. Check failures
// and history or metrics problems are reported but never fail the command.
func runSuites(cmd *cobra.Command, list []suites.Suite, args []string) {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, commandLine)

	var metrics *telemetry.Metrics
	metricsFile := viper.GetString("metrics_file")
	if metricsFile != "" {
		metrics = telemetry.NewMetrics()
	}

	var store results.Store
	if saveRun && configErr != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), "Warning: not saving the run until the configuration is fixed")
	} else if saveRun {
		var err error
		store, err = openStore()
		if err != nil {
			telemetry.LogError("history disabled", err)
			fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %v\n", err)
		} else {
			defer store.Close()
		}
	}

	failures := 0
	for _, s := range list {
		s = s.WithDefaults(config.SuiteParams(s.Name, s.Defaults))
		params := harness.ParseArgs(args, s.Defaults)
		collector := results.NewCollector(s.Name, params, commandLine)

		b := harness.NewBench(out, s.Name, params, collector)
		if metrics != nil {
			b.AddObserver(metrics)
		}
		failures += s.Run(b)

		if store != nil {
			run := collector.Run()
			if err := store.Save(run); err != nil {
				telemetry.LogError("failed to save run", err, "suite", s.Name)
				fmt.Fprintf(cmd.ErrOrStderr(), "Warning: failed to save %s: %v\n", s.Name, err)
			} else {
				telemetry.LogDebug("run saved", "suite", s.Name, "id", run.ID)
			}
		}
	}

	if metrics != nil {
		if err := metrics.WriteTextfile(metricsFile); err != nil {
			telemetry.LogError("metrics not written", err)
			fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %v\n", err)
		}
	}

	if failures > 0 {
		telemetry.LogInfo("checks failed", "count", failures)
	}
}
