// Package procutil is the subprocess boundary: every git, helm and kubectl
// invocation goes through a Runner so callers can be tested without spawning
// processes.
package procutil

import (
	"errors"
	"fmt"
	"strings"

	"github.com/githubnext/argolint/pkg/repoutil"
)

// ErrTimeout is returned when an invocation exceeds its time budget.
var ErrTimeout = errors.New("external tool timed out")

// ErrNotStarted is returned when the executable could not be started, e.g. it is
// not installed or not on PATH.
var ErrNotStarted = errors.New("external tool could not be started")

// Command describes one invocation. Output is always captured, never streamed.
type Command struct {
	Name  string
	Args  []string
	Dir   string
	Stdin []byte
	// Env entries are appended to the current process environment.
	Env []string
}

// String renders the command line for logs and diagnostics, with credentials
// removed from URL arguments.
func (c Command) String() string {
	if len(c.Args) == 0 {
		return c.Name
	}
	args := make([]string, len(c.Args))
	for i, arg := range c.Args {
		args[i] = repoutil.RedactURL(arg)
	}
	return c.Name + " " + strings.Join(args, " ")
}

// Result is the outcome of a command that ran to completion.
type Result struct {
	ExitCode int
	Stdout   []byte
	Stderr   []byte
}

// ExitError reports a non-zero exit status together with the captured stderr.
type ExitError struct {
	Command  string
	ExitCode int
	Stderr   string
}

func (e *ExitError) Error() string {
	stderr := strings.TrimSpace(e.Stderr)
	if stderr == "" {
		return fmt.Sprintf("%s exited with status %d", e.Command, e.ExitCode)
	}
	return fmt.Sprintf("%s exited with status %d: %s", e.Command, e.ExitCode, stderr)
}

// Check converts a completed Result into an *ExitError when the exit status is
// non-zero.
func (r Result) Check(cmd Command) error {
	if r.ExitCode == 0 {
		return nil
	}
	return &ExitError{Command: cmd.String(), ExitCode: r.ExitCode, Stderr: string(r.Stderr)}
}
