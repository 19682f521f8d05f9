// Package report writes the diagnostic stream for humans (text) or machines
// (JSON lines).
package report

import (
	"fmt"
	"io"

	"github.com/githubnext/argolint/pkg/lint"
	"github.com/githubnext/argolint/pkg/logger"
)

var log = logger.New("report:report")

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Totals aggregates every document of a run.
type Totals struct {
	Documents     int
	Applications  int
	RulesExecuted int
	Errors        int
	Warnings      int
	Info          int
}

// Add folds one document summary into the totals.
func (t *Totals) Add(s lint.Summary) {
	t.Documents++
	if s.Candidate {
		t.Applications++
	}
	t.RulesExecuted += s.RulesExecuted
	t.Errors += s.Errors
	t.Warnings += s.Warnings
	t.Info += s.Info
}

// Reporter is a lint.Reporter that can also close a run with its totals.
type Reporter interface {
	lint.Reporter
	Finish(t Totals)
}

// New creates the reporter for format.
func New(format string, w io.Writer, verbose bool) (Reporter, error) {
	log.Printf("Creating %s reporter (verbose=%v)", format, verbose)
	switch format {
	case FormatText, "":
		return NewTextReporter(w, verbose), nil
	case FormatJSON:
		return NewJSONReporter(w), nil
	default:
		return nil, fmt.Errorf("unknown output format %q (want %s or %s)", format, FormatText, FormatJSON)
	}
}
