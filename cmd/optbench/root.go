package main

import (
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"optbench/internal/config"
	"optbench/internal/results"
	"optbench/internal/telemetry"
)

var (
	exit    = os.Exit
	cfgFile string
	saveRun bool

	// commandLine is echoed at the top of every suite report.
	commandLine = strings.Join(os.Args, " ")

	// newStoreFunc allows swapping the history backend in tests.
	newStoreFunc = results.NewStore

	// configErr holds the configuration problem a suite run is ignoring.
	configErr error

	closeLog = func() error { return nil }
)

// storeAnnotation marks commands that cannot run without a valid store
// configuration.
const storeAnnotation = "optbench/store"

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "optbench",
	Short: "Compiler optimization micro-benchmarks",
	Long: `optbench times families of equivalent numeric kernels written in
progressively more optimizer-hostile forms, checks every result, and prints a
throughput table per group.

Run a suite with "optbench <suite> [iterations] [init]" or every suite with
"optbench all". Saved runs can be listed, compared, rendered and exported.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	rootCmd.SetArgs(positionalArgs(os.Args[1:]))
	err := rootCmd.Execute()
	closeLog()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		fmt.Fprintln(os.Stderr, "Run 'optbench --help' for usage.")
		exit(1)
	}
}

func init() {
	rootCmd.PersistentPreRunE = setup

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./optbench.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose/debug logging")
	rootCmd.PersistentFlags().String("log-file", "", "Append JSON logs to this file")
	rootCmd.PersistentFlags().String("metrics-file", "", "Write Prometheus metrics of the run to this textfile")
	rootCmd.PersistentFlags().BoolVar(&saveRun, "save", false, "Save the run to the history store")
}

// setup loads the configuration and installs the logger. Commands marked
// with storeAnnotation fail on a bad configuration; the others warn and fall
// back to the compiled-in defaults.
func setup(cmd *cobra.Command, args []string) error {
	configErr = config.Load(cfgFile)
	if configErr == nil {
		configErr = config.Validate()
	}
	if configErr != nil {
		viper.Reset()
		config.SetDefaults()
	}
	bindFlags(cmd.Root())

	closeLog()
	closeLog = telemetry.InitLogger(viper.GetBool("verbose"), viper.GetString("log_file"))

	if configErr == nil {
		return nil
	}
	if cmd.Annotations[storeAnnotation] != "" {
		return configErr
	}
	telemetry.LogError("configuration ignored", configErr)
	fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %v\nUsing default settings.\n", configErr)
	return nil
}

// bindFlags lets command line flags override config file and environment values.
func bindFlags(root *cobra.Command) {
	flags := root.PersistentFlags()
	viper.BindPFlag("verbose", flags.Lookup("verbose"))
	viper.BindPFlag("log_file", flags.Lookup("log-file"))
	viper.BindPFlag("metrics_file", flags.Lookup("metrics-file"))
}

// positionalArgs inserts "--" before the first negative number so values
// like "optbench minmax 100 -3" reach the suite instead of the flag parser.
// Flags following that number are moved in front of the "--".
func positionalArgs(args []string) []string {
	for i := 0; i < len(args); i++ {
		a := args[i]
		if a == "--" {
			return args
		}
		if isNegativeNumber(a) {
			return splitOperands(args[:i], args[i:])
		}
		if takesValue(a) {
			i++
		}
	}
	return args
}

func splitOperands(head, rest []string) []string {
	var flags, operands []string
scan:
	for j := 0; j < len(rest); j++ {
		a := rest[j]
		switch {
		case a == "--":
			operands = append(operands, rest[j+1:]...)
			break scan
		case isNegativeNumber(a), !strings.HasPrefix(a, "-"):
			operands = append(operands, a)
		default:
			flags = append(flags, a)
			if takesValue(a) && j+1 < len(rest) {
				j++
				flags = append(flags, rest[j])
			}
		}
	}

	out := append(slices.Clone(head), flags...)
	out = append(out, "--")
	return append(out, operands...)
}

func isNegativeNumber(arg string) bool {
	if !strings.HasPrefix(arg, "-") {
		return false
	}
	_, err := strconv.ParseFloat(arg, 64)
	return err == nil
}

// takesValue reports whether arg is a flag whose value is the next argument.
func takesValue(arg string) bool {
	if !strings.HasPrefix(arg, "-") || strings.Contains(arg, "=") || isNegativeNumber(arg) {
		return false
	}
	f := lookupFlag(rootCmd, arg)
	return f != nil && f.NoOptDefVal == ""
}

func lookupFlag(cmd *cobra.Command, arg string) *pflag.Flag {
	var f *pflag.Flag
	if name, ok := strings.CutPrefix(arg, "--"); ok {
		f = cmd.PersistentFlags().Lookup(name)
		if f == nil {
			f = cmd.Flags().Lookup(name)
		}
	} else if len(arg) == 2 {
		f = cmd.PersistentFlags().ShorthandLookup(arg[1:])
		if f == nil {
			f = cmd.Flags().ShorthandLookup(arg[1:])
		}
	}
	if f != nil {
		return f
	}
	for _, c := range cmd.Commands() {
		if f := lookupFlag(c, arg); f != nil {
			return f
		}
	}
	return nil
}

func openStore() (results.Store, error) {
	store, err := newStoreFunc(config.StoreConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to open history store: %w", err)
	}
	return store, nil
}
