package report

import (
	"github.com/githubnext/argolint/pkg/lint"
	"github.com/githubnext/argolint/pkg/manifest"
)

// Buffer records one document's diagnostic stream so documents validated in
// parallel can be printed in input order. A Buffer is not safe for concurrent
// use; give each document its own.
type Buffer struct {
	events []event
}

type event struct {
	begin   *manifest.ID
	diag    *lint.Diagnostic
	summary *lint.Summary
}

func (b *Buffer) Begin(id manifest.ID) {
	b.events = append(b.events, event{begin: &id})
}

func (b *Buffer) Report(d lint.Diagnostic) {
	b.events = append(b.events, event{diag: &d})
}

func (b *Buffer) End(s lint.Summary) {
	b.events = append(b.events, event{summary: &s})
}

// Replay forwards the recorded stream to r in the original order.
func (b *Buffer) Replay(r lint.Reporter) {
	for _, ev := range b.events {
		switch {
		case ev.begin != nil:
			r.Begin(*ev.begin)
		case ev.diag != nil:
			r.Report(*ev.diag)
		case ev.summary != nil:
			r.End(*ev.summary)
		}
	}
}

// Len returns the number of recorded events.
func (b *Buffer) Len() int {
	return len(b.events)
}
