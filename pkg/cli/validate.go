package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/githubnext/argolint/pkg/config"
	"github.com/githubnext/argolint/pkg/gitcache"
	"github.com/githubnext/argolint/pkg/lint"
	"github.com/githubnext/argolint/pkg/procutil"
	"github.com/githubnext/argolint/pkg/render"
	"github.com/githubnext/argolint/pkg/report"
)

// ErrValidationFailed is returned when a run reported errors, or warnings
// under --strict.
var ErrValidationFailed = errors.New("validation failed")

// ValidateOptions configures RunValidate.
type ValidateOptions struct {
	Inputs  []string
	Config  *config.Config
	Strict  bool
	Verbose bool

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// Runner executes git, helm and kubectl. Nil runs real subprocesses bounded
	// by Config.Tools.Timeout.
	Runner procutil.Runner
}

// RunValidate validates every document of every input and writes the report to
// Stdout. It returns the run totals, and ErrValidationFailed when the run did
// not pass.
func RunValidate(ctx context.Context, opts ValidateOptions) (report.Totals, error) {
	cfg := opts.Config
	runner := opts.Runner
	if runner == nil {
		runner = procutil.NewExecRunner(cfg.Tools.Timeout)
	}

	cache, err := gitcache.New(cfg.Cache.Dir, runner, gitcache.WithGitBinary(cfg.Tools.Git))
	if err != nil {
		return report.Totals{}, err
	}
	validator := render.New(runner, render.Options{
		HelmBinary:    cfg.Tools.Helm,
		KubectlBinary: cfg.Tools.Kubectl,
		DryRun:        cfg.DryRun.Mode,
		KubeContext:   cfg.DryRun.Context,
	})
	rules := lint.NewApplicationRules(cache, validator)

	reporter, err := report.New(cfg.Output.Format, opts.Stdout, opts.Verbose)
	if err != nil {
		return report.Totals{}, err
	}

	items := loadInputs(expandInputs(opts.Inputs), opts.Stdin)
	validateLog.Printf("Loaded %d documents from %d inputs", len(items), len(opts.Inputs))

	s := &scheduler{engine: rules.NewEngine(), jobs: cfg.Jobs, out: reporter}
	totals, err := s.run(ctx, items)
	reporter.Finish(totals)
	if w, ok := reporter.(interface{ Err() error }); ok && w.Err() != nil {
		return totals, fmt.Errorf("failed to write report: %w", w.Err())
	}
	if err != nil {
		return totals, fmt.Errorf("validation interrupted: %w", err)
	}

	if totals.Errors > 0 || (opts.Strict && totals.Warnings > 0) {
		return totals, fmt.Errorf("%w: %s", ErrValidationFailed, describeTotals(totals))
	}
	if opts.Stderr != nil && cfg.Output.Format != report.FormatJSON {
		PrintValidationSuccess(opts.Stderr, totals)
	}
	return totals, nil
}
