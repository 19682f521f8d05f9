package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/githubnext/argolint/pkg/console"
	"github.com/githubnext/argolint/pkg/lint"
	"github.com/githubnext/argolint/pkg/manifest"
)

// TextReporter prints a header per document, one line per diagnostic and a
// summary line. Info diagnostics are shown only in verbose mode.
type TextReporter struct {
	w       io.Writer
	verbose bool
}

// NewTextReporter creates a TextReporter writing to w.
func NewTextReporter(w io.Writer, verbose bool) *TextReporter {
	return &TextReporter{w: w, verbose: verbose}
}

func (r *TextReporter) Begin(id manifest.ID) {
	fmt.Fprintln(r.w, console.FormatSectionHeader("# document: "+id.String()))
}

func (r *TextReporter) Report(d lint.Diagnostic) {
	if d.Severity == lint.SeverityInfo && !r.verbose {
		return
	}

	text := d.Message
	if d.Kind != lint.KindNone {
		text = "[" + string(d.Kind) + "] " + text
	}
	if d.Rule != "" {
		text = d.Rule + ": " + text
	}
	text = console.IndentLines(text, "    ")

	switch d.Severity {
	case lint.SeverityError:
		fmt.Fprintln(r.w, console.FormatErrorMessage(text))
	case lint.SeverityWarning:
		fmt.Fprintln(r.w, console.FormatWarningMessage(text))
	default:
		fmt.Fprintln(r.w, console.FormatInfoMessage(text))
	}
}

func (r *TextReporter) End(s lint.Summary) {
	if !s.Candidate && s.Errors > 0 {
		fmt.Fprintln(r.w, console.FormatVerboseMessage("  could not be loaded"))
		return
	}
	if !s.Candidate {
		fmt.Fprintln(r.w, console.FormatVerboseMessage("  skipped, not an Argo CD Application"))
		return
	}
	line := fmt.Sprintf("  %s executed: %s, %s, %s",
		plural(s.RulesExecuted, "rule"), plural(s.Errors, "error"), plural(s.Warnings, "warning"), plural(s.Info, "info"))
	fmt.Fprintln(r.w, console.FormatVerboseMessage(line))
}

// Finish prints the run totals as a table.
func (r *TextReporter) Finish(t Totals) {
	fmt.Fprint(r.w, console.RenderTable(console.TableConfig{
		Title:   "Summary",
		Headers: []string{"Documents", "Applications", "Rules", "Errors", "Warnings", "Info"},
		Rows: [][]string{{
			strconv.Itoa(t.Documents),
			strconv.Itoa(t.Applications),
			strconv.Itoa(t.RulesExecuted),
			strconv.Itoa(t.Errors),
			strconv.Itoa(t.Warnings),
			strconv.Itoa(t.Info),
		}},
	}))
}

func plural(n int, word string) string {
	if n == 1 || word == "info" {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}
