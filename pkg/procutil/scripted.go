package procutil

import (
	"context"
	"slices"
	"sync"
)

// ScriptedRunner is an in-memory Runner for tests. Every command is recorded;
// Handle decides the outcome and defaults to a successful empty result.
type ScriptedRunner struct {
	Handle func(cmd Command) (Result, error)

	mu    sync.Mutex
	calls []Command
}

// Run implements Runner.
func (s *ScriptedRunner) Run(_ context.Context, cmd Command) (Result, error) {
	s.mu.Lock()
	s.calls = append(s.calls, cmd)
	handle := s.Handle
	s.mu.Unlock()

	if handle == nil {
		return Result{}, nil
	}
	return handle(cmd)
}

// Calls returns a copy of every recorded command.
func (s *ScriptedRunner) Calls() []Command {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.calls)
}

// Count returns how many recorded commands start with name followed by args.
func (s *ScriptedRunner) Count(name string, args ...string) int {
	n := 0
	for _, c := range s.Calls() {
		if c.HasPrefix(name, args...) {
			n++
		}
	}
	return n
}

// HasPrefix reports whether the command is name invoked with args as its
// leading arguments.
func (c Command) HasPrefix(name string, args ...string) bool {
	return c.Name == name && len(c.Args) >= len(args) && slices.Equal(c.Args[:len(args)], args)
}
