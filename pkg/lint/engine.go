// Package lint runs validation rules against Argo CD Application documents.
//
// Rules form a graph discovered while validating: a rule passes, fails, or
// passes and schedules further rules. The engine drives the graph with an
// explicit LIFO worklist, so a rule's continuations run before siblings that
// were queued earlier, and a failure prunes only its own branch.
package lint

import (
	"context"
	"fmt"
	"slices"

	"github.com/githubnext/argolint/pkg/logger"
	"github.com/githubnext/argolint/pkg/manifest"
)

var engineLog = logger.New("lint:engine")

// CheckFunc validates one aspect of a document. It must not modify doc.
type CheckFunc func(ctx context.Context, doc *manifest.Document) Outcome

// Rule is a named validation step.
type Rule struct {
	Name  string
	Check CheckFunc
}

// Note is a diagnostic attached to a passing outcome.
type Note struct {
	Severity Severity
	Kind     Kind
	Message  string
}

// Outcome is the result of running a rule: a failure, or a pass carrying
// continuations and notes.
type Outcome struct {
	failed  bool
	kind    Kind
	message string
	next    []Rule
	notes   []Note
}

// Pass schedules next; the first listed rule runs first.
func Pass(next ...Rule) Outcome {
	return Outcome{next: next}
}

// Fail ends the rule's branch with an error diagnostic.
func Fail(kind Kind, message string) Outcome {
	return Outcome{failed: true, kind: kind, message: message}
}

// Failf is Fail with a formatted message.
func Failf(kind Kind, format string, args ...any) Outcome {
	return Fail(kind, fmt.Sprintf(format, args...))
}

// FailErr fails with the kind derived from err.
func FailErr(err error) Outcome {
	return Fail(Classify(err), err.Error())
}

// Unimplemented passes with a warning that check is not verified yet.
func Unimplemented(check string, next ...Rule) Outcome {
	return Pass(next...).Warn(KindUnimplementedCheck, check+" is not verified")
}

// Failed reports whether the outcome is a failure.
func (o Outcome) Failed() bool { return o.failed }

// Info attaches an informational note to a passing outcome.
func (o Outcome) Info(message string) Outcome {
	return o.note(Note{Severity: SeverityInfo, Message: message})
}

// Warn attaches a warning note to a passing outcome.
func (o Outcome) Warn(kind Kind, message string) Outcome {
	return o.note(Note{Severity: SeverityWarning, Kind: kind, Message: message})
}

func (o Outcome) note(n Note) Outcome {
	o.notes = append(slices.Clone(o.notes), n)
	return o
}

// Engine validates documents against a fixed root rule set.
type Engine struct {
	roots []Rule
}

// NewEngine creates an engine whose root rules run in the given order.
func NewEngine(roots ...Rule) *Engine {
	return &Engine{roots: roots}
}

// Validate runs the rule graph against doc and streams diagnostics to r.
// Documents that are not Argo CD Applications get one info diagnostic and no
// rules. Rule failures never stop the pass.
func (e *Engine) Validate(ctx context.Context, doc *manifest.Document, r Reporter) Summary {
	id := doc.ID()
	summary := Summary{Document: id}
	emit := func(d Diagnostic) {
		d.Document = id
		summary.count(d.Severity)
		r.Report(d)
	}

	r.Begin(id)
	defer func() { r.End(summary) }()

	if !doc.IsApplication() {
		apiVersion, _ := doc.GetString("apiVersion")
		kind, _ := doc.GetString("kind")
		engineLog.Printf("Skipping %s: apiVersion=%q kind=%q", id, apiVersion, kind)
		emit(Diagnostic{
			Severity: SeverityInfo,
			Message:  fmt.Sprintf("not an Argo CD Application (apiVersion=%q, kind=%q), skipped", apiVersion, kind),
		})
		return summary
	}
	summary.Candidate = true

	stack := make([]Rule, 0, len(e.roots))
	stack = pushAll(stack, e.roots)

	for len(stack) > 0 {
		rule := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		summary.RulesExecuted++
		engineLog.Printf("%s: running %s (pending=%d)", id, rule.Name, len(stack))
		out := rule.Check(ctx, doc)

		if out.failed {
			engineLog.Printf("%s: %s failed: %s", id, rule.Name, out.kind)
			emit(Diagnostic{Rule: rule.Name, Severity: SeverityError, Kind: out.kind, Message: out.message})
			continue
		}

		for _, n := range out.notes {
			emit(Diagnostic{Rule: rule.Name, Severity: n.Severity, Kind: n.Kind, Message: n.Message})
		}
		if len(out.next) == 0 && len(out.notes) == 0 {
			emit(Diagnostic{Rule: rule.Name, Severity: SeverityInfo, Message: "satisfied"})
		}
		stack = pushAll(stack, out.next)
	}

	engineLog.Printf("%s: done, rules=%d errors=%d warnings=%d", id, summary.RulesExecuted, summary.Errors, summary.Warnings)
	return summary
}

// pushAll pushes rules in reverse so that rules[0] is popped first.
func pushAll(stack, rules []Rule) []Rule {
	for i := len(rules) - 1; i >= 0; i-- {
		stack = append(stack, rules[i])
	}
	return stack
}
