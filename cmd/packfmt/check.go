package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"packfmt/internal/diagfmt"
	"packfmt/internal/driver"
	"packfmt/internal/observ"
)

const cacheAppName = "packfmt"

var checkCmd = &cobra.Command{
	Use:   "check [flags] <file|dir>...",
	Short: "Decode every template under the given paths",
	Long: `Check decodes each file given on the command line and every *.pack file
found under the given directories, in parallel, and reports all rejected
templates. The command exits with status 1 if any template failed.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCheck,
}

func init() {
	grammarFlags(checkCmd)
	checkCmd.Flags().String("format", "pretty", "diagnostics format (pretty|json|short)")
	checkCmd.Flags().IntP("jobs", "j", 0, "max parallel decodes (0=auto)")
	checkCmd.Flags().Bool("cache", false, "reuse results of earlier checks from the disk cache")
	checkCmd.Flags().Bool("clear-cache", false, "drop the disk cache before checking")
	checkCmd.Flags().String("ui", "auto", "progress UI (auto|on|off)")
	checkCmd.Flags().String("paths", "auto", "how to print template paths (auto|absolute|relative|basename)")
}

func runCheck(cmd *cobra.Command, args []string) error {
	format, err := stringSetting(cmd, "format", cli.config.Check.Format)
	if err != nil {
		return err
	}
	format = strings.ToLower(strings.TrimSpace(format))
	switch format {
	case "pretty", "json", "short":
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
	jobs, err := intSetting(cmd, "jobs", cli.config.Check.Jobs)
	if err != nil {
		return err
	}
	if jobs < 0 {
		return fmt.Errorf("--jobs must not be negative, got %d", jobs)
	}
	useCache, err := cmd.Flags().GetBool("cache")
	if err != nil {
		return fmt.Errorf("failed to get cache flag: %w", err)
	}
	if !cmd.Flags().Changed("cache") {
		useCache = cli.config.Check.Cache
	}
	clearCache, err := cmd.Flags().GetBool("clear-cache")
	if err != nil {
		return fmt.Errorf("failed to get clear-cache flag: %w", err)
	}
	uiValue, err := cmd.Flags().GetString("ui")
	if err != nil {
		return fmt.Errorf("failed to get ui flag: %w", err)
	}
	uiMode, err := readSwitch("--ui", uiValue)
	if err != nil {
		return err
	}
	pathsValue, err := cmd.Flags().GetString("paths")
	if err != nil {
		return fmt.Errorf("failed to get paths flag: %w", err)
	}
	pathMode, err := diagfmt.ParsePathMode(pathsValue)
	if err != nil {
		return err
	}

	v, variant, err := readGrammar(cmd)
	if err != nil {
		return err
	}

	var timer *observ.Timer
	if cli.timings {
		timer = observ.NewTimer()
	}
	opts := driver.CheckOptions{
		Options: driver.Options{
			Version:        v,
			Variant:        variant,
			MaxDiagnostics: cli.maxDiagnostics,
			Timer:          timer,
		},
		Jobs: jobs,
	}

	if useCache || clearCache {
		cache, cacheErr := driver.OpenDiskCache(cacheAppName)
		if cacheErr != nil {
			// без кеша check всё равно работает
			logger.Warn("disk cache unavailable", "err", cacheErr)
		} else {
			if clearCache {
				if err := cache.DropAll(); err != nil {
					return fmt.Errorf("failed to clear cache: %w", err)
				}
				logger.Info("disk cache cleared")
			}
			if useCache {
				opts.Cache = cache
			}
		}
	}

	ctx := cmd.Context()
	var result *driver.CheckResult
	// прогресс только в терминал и только если вывод не для машины
	if uiMode.decide(format != "json" && isTerminal(os.Stdout)) && !cli.quiet {
		result, err = runCheckWithUI(ctx, "checking templates", args, opts)
	} else {
		result, err = driver.CheckPaths(ctx, args, opts)
	}
	if err != nil {
		return err
	}
	logger.Debug("check finished", "files", len(result.Files), "failed", result.Failed())

	// в json тайминги уходят в сам документ
	if timer != nil && format != "json" {
		defer fmt.Fprint(os.Stderr, timer.Summary())
	}

	bag := result.Merged(cli.maxDiagnostics)
	out := cmd.OutOrStdout()
	switch format {
	case "json":
		if err := diagfmt.JSON(out, bag, result.FileSet, diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         pathMode,
			IncludeNotes:     true,
			Max:              cli.maxDiagnostics,
			Timings:          timer,
		}); err != nil {
			return err
		}
	case "short":
		diagfmt.Short(out, bag, result.FileSet, pathMode)
	default:
		diagfmt.Pretty(out, bag, result.FileSet, diagfmt.PrettyOpts{
			Color:     cli.color.enabled(os.Stdout),
			PathMode:  pathMode,
			ShowNotes: true,
		})
	}

	failed := result.Failed()
	if format != "json" && !cli.quiet {
		cached := 0
		for i := range result.Files {
			if result.Files[i].Cached {
				cached++
			}
		}
		fmt.Fprintf(out, "checked %d template(s): %d ok, %d failed", len(result.Files), len(result.Files)-failed, failed)
		if cached > 0 {
			fmt.Fprintf(out, " (%d from cache)", cached)
		}
		fmt.Fprintln(out)
	}
	if failed > 0 {
		return &exitError{code: 1}
	}
	return nil
}
