package lint

import (
	"fmt"

	"github.com/githubnext/argolint/pkg/manifest"
)

// Severity of a diagnostic.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return fmt.Sprintf("severity(%d)", int(s))
	}
}

// MarshalText encodes the severity by name.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Kind classifies why a rule failed or warned.
type Kind string

const (
	KindNone                  Kind = ""
	KindMissingField          Kind = "MissingField"
	KindConflictingSourceType Kind = "ConflictingSourceType"
	KindRepositoryUnavailable Kind = "RepositoryUnavailable"
	KindRevisionUnavailable   Kind = "RevisionUnavailable"
	KindPathEscape            Kind = "PathEscape"
	KindPathNotFound          Kind = "PathNotFound"
	KindExternalToolFailure   Kind = "ExternalToolFailure"
	KindExternalToolTimeout   Kind = "ExternalToolTimeout"
	KindUnimplementedCheck    Kind = "UnimplementedCheck"
)

// Diagnostic is one finding about a document. Rule is empty for findings about
// the document as a whole.
type Diagnostic struct {
	Document manifest.ID `json:"-"`
	Rule     string      `json:"rule,omitempty"`
	Severity Severity    `json:"severity"`
	Kind     Kind        `json:"kind,omitempty"`
	Message  string      `json:"message"`
}

// Summary totals one document's validation pass.
type Summary struct {
	Document manifest.ID
	// Candidate is false when the document was skipped by the recognition gate.
	Candidate     bool
	RulesExecuted int
	Info          int
	Warnings      int
	Errors        int
}

func (s *Summary) count(sev Severity) {
	switch sev {
	case SeverityInfo:
		s.Info++
	case SeverityWarning:
		s.Warnings++
	case SeverityError:
		s.Errors++
	}
}

// Add accumulates other into s, for run-wide totals.
func (s *Summary) Add(other Summary) {
	s.RulesExecuted += other.RulesExecuted
	s.Info += other.Info
	s.Warnings += other.Warnings
	s.Errors += other.Errors
}

// Reporter receives the diagnostic stream. For each document Begin is called
// once, then Report for every diagnostic in discovery order, then End.
type Reporter interface {
	Begin(doc manifest.ID)
	Report(d Diagnostic)
	End(s Summary)
}
