package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"packfmt/internal/diag"
	"packfmt/internal/source"
)

type palette struct {
	err, warn, info, note, caret, gutter *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:    color.New(color.FgRed, color.Bold),
		warn:   color.New(color.FgYellow, color.Bold),
		info:   color.New(color.FgCyan, color.Bold),
		note:   color.New(color.FgBlue, color.Bold),
		caret:  color.New(color.FgGreen, color.Bold),
		gutter: color.New(color.FgBlue),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.note, p.caret, p.gutter} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(s diag.Severity) *color.Color {
	switch s {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	}
	return p.info
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждого diag печатает:
// <path>:<line>:<col>: <SEV> <CODE>: <Message>
// затем строку шаблона с подчёркиванием ^~~~ по Span, затем Notes.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	p := newPalette(opts.Color)
	for i, d := range bag.Items() {
		if i > 0 {
			fmt.Fprintln(w)
		}
		start, _ := fs.Resolve(d.Primary)
		fmt.Fprintf(w, "%s:%d:%d: %s: %s\n",
			formatPath(fs, d.Primary.File, opts.PathMode), start.Line, start.Col,
			p.severity(d.Severity).Sprintf("%s %s", strings.ToUpper(d.Severity.String()), d.Code.ID()),
			d.Message)
		writeSnippet(w, fs, d.Primary, p, p.caret)

		if !opts.ShowNotes {
			continue
		}
		for _, n := range d.Notes {
			ns, _ := fs.Resolve(n.Span)
			fmt.Fprintf(w, "  %s %s:%d:%d: %s\n", p.note.Sprint("note:"),
				formatPath(fs, n.Span.File, opts.PathMode), ns.Line, ns.Col, n.Msg)
			writeSnippet(w, fs, n.Span, p, p.note)
		}
	}
	if dropped := bag.Dropped(); dropped > 0 {
		fmt.Fprintf(w, "... %d more diagnostic(s) not shown\n", dropped)
	}
}

// writeSnippet печатает строку, в которой начинается span, и подчёркивает его.
// Многострочные span подчёркиваются до конца первой строки.
func writeSnippet(w io.Writer, fs *source.FileSet, sp source.Span, p palette, mark *color.Color) {
	start, end := fs.Resolve(sp)
	line := fs.Get(sp.File).GetLine(start.Line)
	lineNo := fmt.Sprintf("%d", start.Line)
	pad := strings.Repeat(" ", len(lineNo))

	visible := expandTabs(line)
	fmt.Fprintf(w, " %s %s %s\n", p.gutter.Sprint(lineNo), p.gutter.Sprint("|"), visible)

	col := int(start.Col) - 1
	col = min(max(col, 0), len(line))
	endCol := len(line)
	if end.Line == start.Line {
		endCol = min(max(int(end.Col)-1, col), len(line))
	}
	lead := runewidth.StringWidth(expandTabs(line[:col]))
	width := max(runewidth.StringWidth(expandTabs(line[col:endCol])), 1)
	underline := "^" + strings.Repeat("~", width-1)
	fmt.Fprintf(w, " %s %s %s%s\n", pad, p.gutter.Sprint("|"), strings.Repeat(" ", lead), mark.Sprint(underline))
}

func expandTabs(s string) string {
	return strings.ReplaceAll(s, "\t", "    ")
}

// Short prints one line per diagnostic: <path>:<line>:<col>: <SEV> <CODE>: <Message>.
func Short(w io.Writer, bag *diag.Bag, fs *source.FileSet, mode PathMode) {
	for _, d := range bag.Items() {
		start, _ := fs.Resolve(d.Primary)
		fmt.Fprintf(w, "%s:%d:%d: %s %s: %s\n",
			formatPath(fs, d.Primary.File, mode), start.Line, start.Col,
			strings.ToUpper(d.Severity.String()), d.Code.ID(), d.Message)
	}
}
