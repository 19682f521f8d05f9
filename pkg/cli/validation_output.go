package cli

import (
	"fmt"
	"io"

	"github.com/githubnext/argolint/pkg/console"
	"github.com/githubnext/argolint/pkg/report"
)

// FormatValidationError formats a command error for the console. Multi-line
// messages keep their structure, with continuation lines indented.
func FormatValidationError(err error) string {
	if err == nil {
		return ""
	}
	return console.FormatErrorMessage(console.IndentLines(err.Error(), "  "))
}

// PrintValidationError writes a formatted error line to w.
//
// Example usage:
//
//	if err := rootCmd.Execute(); err != nil {
//	    cli.PrintValidationError(os.Stderr, err)
//	    os.Exit(1)
//	}
func PrintValidationError(w io.Writer, err error) {
	if err == nil {
		return
	}
	fmt.Fprintln(w, FormatValidationError(err))
}

// PrintValidationSuccess writes the closing line of a passing run.
func PrintValidationSuccess(w io.Writer, t report.Totals) {
	fmt.Fprintln(w, console.FormatSuccessMessage("validation passed: "+describeTotals(t)))
}

func describeTotals(t report.Totals) string {
	return fmt.Sprintf("%d applications in %d documents, %d errors, %d warnings",
		t.Applications, t.Documents, t.Errors, t.Warnings)
}
