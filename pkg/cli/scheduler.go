package cli

import (
	"context"
	"sync"

	"github.com/sourcegraph/conc/pool"

	"github.com/githubnext/argolint/pkg/lint"
	"github.com/githubnext/argolint/pkg/logger"
	"github.com/githubnext/argolint/pkg/report"
)

var schedulerLog = logger.New("cli:scheduler")

// scheduler validates work items with bounded parallelism. Items sharing a
// repository run one after another in input order, so two revisions of one
// repository never interleave on its working tree; distinct repositories run
// in parallel. Output is buffered per item and released in input order.
type scheduler struct {
	engine *lint.Engine
	jobs   int
	out    lint.Reporter

	mu      sync.Mutex
	done    []*itemResult
	next    int
	printed report.Totals
}

type itemResult struct {
	buf     *report.Buffer
	summary lint.Summary
}

// run validates items and returns the totals of every item that was reported.
// Cancellation is observed between items only; an item that has started runs
// to completion.
func (s *scheduler) run(ctx context.Context, items []workItem) (report.Totals, error) {
	s.done = make([]*itemResult, len(items))
	s.next = 0

	groups := groupItems(items)
	schedulerLog.Printf("Scheduling %d items in %d groups with %d workers", len(items), len(groups), s.jobs)

	p := pool.New().WithMaxGoroutines(s.jobs)
	for _, group := range groups {
		p.Go(func() {
			for _, i := range group {
				if ctx.Err() != nil {
					schedulerLog.Printf("Cancelled before %s", items[i].id)
					return
				}
				s.finish(i, s.validate(context.WithoutCancel(ctx), items[i]))
			}
		})
	}
	p.Wait()

	return s.printed, ctx.Err()
}

func (s *scheduler) validate(ctx context.Context, item workItem) *itemResult {
	buf := &report.Buffer{}
	if item.loadErr != nil {
		summary := lint.Summary{Document: item.id, Errors: 1}
		buf.Begin(item.id)
		buf.Report(lint.Diagnostic{Document: item.id, Severity: lint.SeverityError, Message: item.loadErr.Error()})
		buf.End(summary)
		return &itemResult{buf: buf, summary: summary}
	}
	return &itemResult{buf: buf, summary: s.engine.Validate(ctx, item.doc, buf)}
}

// finish records item i and flushes every completed item at the head of the
// input order.
func (s *scheduler) finish(i int, res *itemResult) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.done[i] = res
	for s.next < len(s.done) && s.done[s.next] != nil {
		r := s.done[s.next]
		r.buf.Replay(s.out)
		s.printed.Add(r.summary)
		r.buf = nil
		s.next++
	}
}

// groupItems partitions item indexes by group key, keeping first-appearance
// order of groups and input order within each group.
func groupItems(items []workItem) [][]int {
	index := make(map[string]int)
	var groups [][]int
	for i, item := range items {
		g, ok := index[item.group]
		if !ok {
			g = len(groups)
			index[item.group] = g
			groups = append(groups, nil)
		}
		groups[g] = append(groups[g], i)
	}
	return groups
}
