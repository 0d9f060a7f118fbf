package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"packfmt/internal/driver"
	"packfmt/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "packfmt",
	Short: "Decoder and linter for pack/unpack templates",
	Long: `packfmt reads pack/unpack templates ("C*", "S>2 a8 # header") and resolves
every directive into its type, signedness, endianness, size and length.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: loadSettings,
}

// exitError carries a process exit code for failures that were already
// reported (diagnostics printed, usage explained).
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

// main initializes the CLI by setting the command version, registering subcommands and persistent flags, and then executes the root command.
func main() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(directivesCmd)
	rootCmd.AddCommand(versionCmd)

	// Глобальные флаги
	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	rootCmd.PersistentFlags().Bool("timings", false, "show timing information")
	rootCmd.PersistentFlags().Int("max-diagnostics", 100, "maximum number of diagnostics to show")
	rootCmd.PersistentFlags().String("config", "", "path to packfmt.toml (default: search upwards from the working directory)")
	rootCmd.PersistentFlags().String("log-level", "warn", "log level (debug|info|warn|error); also "+envLogLevel)

	os.Exit(run())
}

func run() int {
	err := rootCmd.Execute()
	if err == nil {
		return 0
	}
	var exit *exitError
	if errors.As(err, &exit) {
		return exit.code
	}
	fmt.Fprintf(os.Stderr, "packfmt: %v\n", err)
	var usage *driver.UsageError
	if errors.As(err, &usage) {
		return 2
	}
	return 1
}

// usageFailure classifies err as a usage error (exit status 2).
func usageFailure(err error) error {
	var usage *driver.UsageError
	if errors.As(err, &usage) {
		return err
	}
	return &driver.UsageError{Code: driver.UsageCode(err), Err: err}
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd())) // #nosec G115 -- file descriptors fit in int
}
