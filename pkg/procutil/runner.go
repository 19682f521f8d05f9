package procutil

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/githubnext/argolint/pkg/logger"
	"github.com/githubnext/argolint/pkg/timeutil"
)

var runnerLog = logger.New("procutil:runner")

// Runner executes commands. A nil error with a non-zero Result.ExitCode means
// the tool ran and failed; a non-nil error means it could not run to completion
// (ErrNotStarted, ErrTimeout or context cancellation).
type Runner interface {
	Run(ctx context.Context, cmd Command) (Result, error)
}

// ExecRunner runs commands as local subprocesses.
type ExecRunner struct {
	// Timeout bounds each invocation; zero means no limit.
	Timeout time.Duration
}

// NewExecRunner creates an ExecRunner with the given per-invocation timeout.
func NewExecRunner(timeout time.Duration) *ExecRunner {
	return &ExecRunner{Timeout: timeout}
}

// Run implements Runner.
func (r *ExecRunner) Run(ctx context.Context, cmd Command) (Result, error) {
	runCtx := ctx
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	// #nosec G204 -- arguments come from the manifest under validation and are
	// passed as an argument vector, never through a shell.
	c := exec.CommandContext(runCtx, cmd.Name, cmd.Args...)
	c.Dir = cmd.Dir
	if len(cmd.Env) > 0 {
		c.Env = append(os.Environ(), cmd.Env...)
	}
	if cmd.Stdin != nil {
		c.Stdin = bytes.NewReader(cmd.Stdin)
	}
	var stdout, stderr bytes.Buffer
	c.Stdout = &stdout
	c.Stderr = &stderr
	// Children that inherit the pipes must not keep Wait blocked after a kill.
	c.WaitDelay = 2 * time.Second

	start := time.Now()
	runnerLog.Printf("Running: %s (dir=%s)", cmd, cmd.Dir)
	err := c.Run()
	runnerLog.Printf("Finished: %s in %s", cmd.Name, timeutil.FormatDuration(time.Since(start)))

	res := Result{Stdout: stdout.Bytes(), Stderr: stderr.Bytes()}

	if ctxErr := runCtx.Err(); ctxErr != nil {
		if errors.Is(ctxErr, context.DeadlineExceeded) && ctx.Err() == nil {
			return res, fmt.Errorf("%w after %s: %s", ErrTimeout, r.Timeout, cmd.Name)
		}
		return res, ctxErr
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			res.ExitCode = exitErr.ExitCode()
			runnerLog.Printf("Non-zero exit: %s status=%d", cmd.Name, res.ExitCode)
			return res, nil
		}
		return res, fmt.Errorf("%w: %s: %w", ErrNotStarted, cmd.Name, err)
	}

	return res, nil
}
