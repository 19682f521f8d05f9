package report

import (
	"io"

	"github.com/goccy/go-json"

	"github.com/githubnext/argolint/pkg/lint"
	"github.com/githubnext/argolint/pkg/manifest"
)

// jsonEvent is one line of JSON output. Type is "diagnostic", "summary" or
// "totals".
type jsonEvent struct {
	Type     string `json:"type"`
	Source   string `json:"source,omitempty"`
	Index    *int   `json:"index,omitempty"`
	Rule     string `json:"rule,omitempty"`
	Severity string `json:"severity,omitempty"`
	Kind     string `json:"kind,omitempty"`
	Message  string `json:"message,omitempty"`

	Candidate     *bool `json:"candidate,omitempty"`
	Documents     *int  `json:"documents,omitempty"`
	Applications  *int  `json:"applications,omitempty"`
	RulesExecuted *int  `json:"rulesExecuted,omitempty"`
	Errors        *int  `json:"errors,omitempty"`
	Warnings      *int  `json:"warnings,omitempty"`
	Info          *int  `json:"info,omitempty"`
}

// JSONReporter writes one JSON object per line, including info diagnostics.
type JSONReporter struct {
	enc *json.Encoder
	err error
}

// NewJSONReporter creates a JSONReporter writing to w.
func NewJSONReporter(w io.Writer) *JSONReporter {
	return &JSONReporter{enc: json.NewEncoder(w)}
}

// Err returns the first write error, if any.
func (r *JSONReporter) Err() error {
	return r.err
}

func (r *JSONReporter) Begin(manifest.ID) {}

func (r *JSONReporter) Report(d lint.Diagnostic) {
	index := d.Document.Index
	r.write(jsonEvent{
		Type:     "diagnostic",
		Source:   d.Document.Source,
		Index:    &index,
		Rule:     d.Rule,
		Severity: d.Severity.String(),
		Kind:     string(d.Kind),
		Message:  d.Message,
	})
}

func (r *JSONReporter) End(s lint.Summary) {
	index := s.Document.Index
	r.write(jsonEvent{
		Type:          "summary",
		Source:        s.Document.Source,
		Index:         &index,
		Candidate:     &s.Candidate,
		RulesExecuted: &s.RulesExecuted,
		Errors:        &s.Errors,
		Warnings:      &s.Warnings,
		Info:          &s.Info,
	})
}

func (r *JSONReporter) Finish(t Totals) {
	r.write(jsonEvent{
		Type:          "totals",
		Documents:     &t.Documents,
		Applications:  &t.Applications,
		RulesExecuted: &t.RulesExecuted,
		Errors:        &t.Errors,
		Warnings:      &t.Warnings,
		Info:          &t.Info,
	})
}

func (r *JSONReporter) write(ev jsonEvent) {
	if r.err != nil {
		return
	}
	if err := r.enc.Encode(ev); err != nil {
		log.Printf("Failed to write JSON event: %v", err)
		r.err = err
	}
}
