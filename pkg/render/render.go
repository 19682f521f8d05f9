// Package render turns an application source into manifests with the tool its
// content type calls for and validates the result with a kubectl dry-run apply.
//
// Every invocation is fail-closed: a non-zero exit fails validation, and the
// tool's stderr is carried verbatim in the returned error.
package render

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/githubnext/argolint/pkg/logger"
	"github.com/githubnext/argolint/pkg/procutil"
	"github.com/githubnext/argolint/pkg/sourcetype"
)

var log = logger.New("render:validator")

// ErrToolFailure is returned when helm or kubectl exits non-zero or cannot start.
var ErrToolFailure = errors.New("external tool failed")

// Dry-run modes accepted by kubectl apply.
const (
	DryRunClient = "client"
	DryRunServer = "server"
)

// Options configures a Validator.
type Options struct {
	HelmBinary    string
	KubectlBinary string
	// DryRun is "client" (default) or "server".
	DryRun string
	// KubeContext selects a kubeconfig context; empty uses the current one.
	KubeContext string
}

// Validator renders and dry-run applies application sources.
type Validator struct {
	runner  procutil.Runner
	helm    string
	kubectl string
	dryRun  string
	context string
}

// New creates a Validator that invokes tools through runner.
func New(runner procutil.Runner, opts Options) *Validator {
	v := &Validator{
		runner:  runner,
		helm:    "helm",
		kubectl: "kubectl",
		dryRun:  DryRunClient,
		context: opts.KubeContext,
	}
	if opts.HelmBinary != "" {
		v.helm = opts.HelmBinary
	}
	if opts.KubectlBinary != "" {
		v.kubectl = opts.KubectlBinary
	}
	if opts.DryRun != "" {
		v.dryRun = opts.DryRun
	}
	return v
}

// HelmOptions carries the helm-specific source settings.
type HelmOptions struct {
	ReleaseName string
	// ValueFiles are absolute paths, already checked to lie within the repository.
	ValueFiles []string
	// Values is an inline YAML values document piped on stdin.
	Values []byte
}

// DirectoryOptions carries the directory-specific source settings.
type DirectoryOptions struct {
	Recurse bool
}

// Request describes one source to validate.
type Request struct {
	Type      sourcetype.ContentType
	Path      string // absolute path of the source directory
	AppName   string
	Namespace string
	Helm      HelmOptions
	Directory DirectoryOptions
}

// ToolError reports a failed helm or kubectl invocation.
type ToolError struct {
	Stage    string // "render" or "dry-run"
	Command  string
	ExitCode int
	Stderr   string
	Cause    error
}

func (e *ToolError) Error() string {
	msg := fmt.Sprintf("%s failed: %s", e.Stage, e.Command)
	if stderr := strings.TrimSpace(e.Stderr); stderr != "" {
		return msg + ": " + stderr
	}
	if e.ExitCode != 0 {
		return fmt.Sprintf("%s: exit status %d", msg, e.ExitCode)
	}
	if e.Cause != nil {
		return msg + ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap matches ErrToolFailure as well as the underlying cause, so a timeout
// is still recognizable as procutil.ErrTimeout.
func (e *ToolError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrToolFailure}
	}
	return []error{ErrToolFailure, e.Cause}
}

// RenderAndValidate renders req and dry-run applies the output.
func (v *Validator) RenderAndValidate(ctx context.Context, req Request) error {
	log.Printf("Validating %s source at %s", req.Type, req.Path)

	switch req.Type {
	case sourcetype.Helm:
		manifests, err := v.run(ctx, "render", v.helmTemplate(req))
		if err != nil {
			return err
		}
		return v.applyStdin(ctx, manifests)

	case sourcetype.Kustomize:
		manifests, err := v.run(ctx, "render", procutil.Command{
			Name: v.kubectl,
			Args: []string{"kustomize", req.Path},
		})
		if err != nil {
			return err
		}
		return v.applyStdin(ctx, manifests)

	case sourcetype.Directory:
		args := v.applyArgs("-f", req.Path)
		if req.Directory.Recurse {
			args = append(args, "--recursive")
		}
		_, err := v.run(ctx, "dry-run", procutil.Command{Name: v.kubectl, Args: args})
		return err

	default:
		return fmt.Errorf("no renderer for %s sources", req.Type)
	}
}

func (v *Validator) helmTemplate(req Request) procutil.Command {
	release := req.Helm.ReleaseName
	if release == "" {
		release = req.AppName
	}
	args := []string{"template", release, req.Path}
	if req.Namespace != "" {
		args = append(args, "--namespace", req.Namespace)
	}
	for _, f := range req.Helm.ValueFiles {
		args = append(args, "--values", f)
	}
	cmd := procutil.Command{Name: v.helm, Args: args}
	if len(req.Helm.Values) > 0 {
		cmd.Args = append(cmd.Args, "--values", "-")
		cmd.Stdin = req.Helm.Values
	}
	return cmd
}

func (v *Validator) applyStdin(ctx context.Context, manifests []byte) error {
	_, err := v.run(ctx, "dry-run", procutil.Command{
		Name:  v.kubectl,
		Args:  v.applyArgs("-f", "-"),
		Stdin: manifests,
	})
	return err
}

func (v *Validator) applyArgs(extra ...string) []string {
	args := []string{"apply", "--dry-run=" + v.dryRun}
	if v.context != "" {
		args = append(args, "--context", v.context)
	}
	return append(args, extra...)
}

func (v *Validator) run(ctx context.Context, stage string, cmd procutil.Command) ([]byte, error) {
	res, err := v.runner.Run(ctx, cmd)
	if err != nil {
		log.Printf("%s could not complete: %v", cmd.Name, err)
		return nil, &ToolError{Stage: stage, Command: cmd.String(), Stderr: string(res.Stderr), Cause: err}
	}
	if res.ExitCode != 0 {
		log.Printf("%s exited with status %d", cmd.Name, res.ExitCode)
		return nil, &ToolError{
			Stage:    stage,
			Command:  cmd.String(),
			ExitCode: res.ExitCode,
			Stderr:   string(res.Stderr),
			Cause:    res.Check(cmd),
		}
	}
	return res.Stdout, nil
}
