package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"packfmt/internal/diagfmt"
	"packfmt/internal/driver"
	"packfmt/internal/observ"
)

var parseCmd = &cobra.Command{
	Use:   "parse [flags] [template]",
	Short: "Decode one pack/unpack template",
	Long: `Parse decodes a template given inline, from a file (--file) or from stdin
(--file -) and prints its directives. A rejected template is reported on
stderr and the command exits with status 1.`,
	Example: `  packfmt parse 'S>2 a8'
  packfmt parse --variant unpack --format json 'U*'
  packfmt parse --file header.pack --format describe`,
	Args: cobra.MaximumNArgs(1),
	RunE: runParse,
}

func init() {
	grammarFlags(parseCmd)
	parseCmd.Flags().StringP("file", "f", "", "read the template from a file ('-' for stdin)")
	parseCmd.Flags().String("format", "pretty", "output format (pretty|json|msgpack|describe)")
}

func runParse(cmd *cobra.Command, args []string) error {
	filePath, err := cmd.Flags().GetString("file")
	if err != nil {
		return fmt.Errorf("failed to get file flag: %w", err)
	}
	format, err := stringSetting(cmd, "format", cli.config.Parse.Format)
	if err != nil {
		return err
	}
	format = strings.ToLower(strings.TrimSpace(format))
	switch format {
	case "pretty", "json", "msgpack", "describe":
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
	switch {
	case len(args) == 1 && filePath != "":
		return fmt.Errorf("pass the template either inline or with --file, not both")
	case len(args) == 0 && filePath == "":
		return fmt.Errorf("missing template: pass it inline or with --file")
	}

	v, variant, err := readGrammar(cmd)
	if err != nil {
		return err
	}

	var timer *observ.Timer
	if cli.timings {
		timer = observ.NewTimer()
	}
	opts := driver.Options{
		Version:        v,
		Variant:        variant,
		MaxDiagnostics: cli.maxDiagnostics,
		Timer:          timer,
	}

	var result *driver.DecodeResult
	switch {
	case filePath == "-":
		data, readErr := io.ReadAll(cmd.InOrStdin())
		if readErr != nil {
			return fmt.Errorf("failed to read stdin: %w", readErr)
		}
		result, err = driver.DecodeString("<stdin>", string(data), opts)
	case filePath != "":
		result, err = driver.DecodeFile(filePath, opts)
	default:
		result, err = driver.DecodeString("<template>", args[0], opts)
	}
	if err != nil {
		return err
	}
	logger.Debug("decoded", "file", result.File().Path, "ok", result.Format != nil)

	if timer != nil {
		defer fmt.Fprint(os.Stderr, timer.Summary())
	}

	if result.Format == nil {
		diagfmt.Pretty(os.Stderr, result.Bag, result.FileSet, diagfmt.PrettyOpts{
			Color:     cli.color.enabled(os.Stderr),
			ShowNotes: true,
		})
		return &exitError{code: 1}
	}

	out := cmd.OutOrStdout()
	switch format {
	case "json":
		return diagfmt.FormatJSON(out, result.Format, result.File())
	case "msgpack":
		return diagfmt.FormatMsgpack(out, result.Format, result.File())
	case "describe":
		return diagfmt.FormatDescribe(out, result.Format)
	default:
		return diagfmt.FormatPretty(out, result.Format, result.FileSet)
	}
}
