package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"packfmt/internal/pack"
)

var directivesCmd = &cobra.Command{
	Use:   "directives [flags]",
	Short: "Print the directive table",
	Long: `Directives lists every letter the grammar knows, with the type, signedness,
endianness and size it resolves to, the modifiers it accepts and its
default length. Letters the chosen variant rejects are marked as such.`,
	Args: cobra.NoArgs,
	RunE: runDirectives,
}

func init() {
	grammarFlags(directivesCmd)
	directivesCmd.Flags().String("format", "pretty", "output format (pretty|json)")
}

type directiveRow struct {
	Letter        string `json:"letter"`
	Type          string `json:"type"`
	Signedness    string `json:"signedness"`
	Endian        string `json:"endian"`
	Size          string `json:"size"`
	Bang          bool   `json:"bang"`
	Endianness    bool   `json:"endianness_modifiers"`
	Supported     bool   `json:"supported"`
	DefaultLength string `json:"default_length"`
}

func runDirectives(cmd *cobra.Command, _ []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	v, variant, err := readGrammar(cmd)
	if err != nil {
		return err
	}
	entries, err := pack.Table(v, variant)
	if err != nil {
		return usageFailure(err)
	}
	rows := make([]directiveRow, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, directiveRow{
			Letter:        string(rune(e.Letter)),
			Type:          e.Type.String(),
			Signedness:    e.Signed.String(),
			Endian:        e.Endian.String(),
			Size:          e.Size.String(),
			Bang:          e.AllowsBang,
			Endianness:    e.AllowsEndian,
			Supported:     e.Supported,
			DefaultLength: defaultLengthText(e),
		})
	}

	switch strings.ToLower(format) {
	case "json":
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	case "pretty":
		renderDirectiveTable(cmd.OutOrStdout(), rows, cli.color.enabled(os.Stdout))
		return nil
	default:
		return fmt.Errorf("unsupported format %q (must be pretty or json)", format)
	}
}

func defaultLengthText(e pack.TableEntry) string {
	if e.DefaultLength == pack.LengthFixed {
		return strconv.FormatUint(e.DefaultCount, 10)
	}
	return e.DefaultLength.String()
}

var directiveHeader = []string{"letter", "type", "signed", "endian", "size", "!", "<>", "default"}

func (r directiveRow) cells() []string {
	return []string{r.Letter, r.Type, r.Signedness, r.Endian, r.Size, yesNo(r.Bang), yesNo(r.Endianness), r.DefaultLength}
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "-"
}

func renderDirectiveTable(w io.Writer, rows []directiveRow, useColor bool) {
	widths := make([]int, len(directiveHeader))
	for i, h := range directiveHeader {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, r := range rows {
		for i, c := range r.cells() {
			widths[i] = max(widths[i], runewidth.StringWidth(c))
		}
	}

	headerStyle := lipgloss.NewStyle()
	letterStyle := lipgloss.NewStyle()
	offStyle := lipgloss.NewStyle()
	if useColor {
		headerStyle = headerStyle.Bold(true).Underline(true)
		letterStyle = letterStyle.Bold(true).Foreground(lipgloss.Color("6"))
		offStyle = offStyle.Faint(true)
	}

	line := func(cells []string, style func(col int) lipgloss.Style) string {
		parts := make([]string, len(cells))
		for i, c := range cells {
			// паддинг до стилизации, ANSI-коды ширину не ломают
			parts[i] = style(i).Render(runewidth.FillRight(c, widths[i]))
		}
		return strings.TrimRight(strings.Join(parts, "  "), " ")
	}

	fmt.Fprintln(w, line(directiveHeader, func(int) lipgloss.Style { return headerStyle }))
	for _, r := range rows {
		style := func(col int) lipgloss.Style {
			switch {
			case !r.Supported:
				return offStyle
			case col == 0:
				return letterStyle
			}
			return lipgloss.NewStyle()
		}
		text := line(r.cells(), style)
		if !r.Supported {
			text += "  (not supported)"
		}
		fmt.Fprintln(w, text)
	}
}
