package gitcache

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrRepositoryUnavailable means the repository could not be cloned or fetched
	// (authentication, network, not found).
	ErrRepositoryUnavailable = errors.New("repository unavailable")

	// ErrRevisionUnavailable means the revision does not exist after fetching.
	ErrRevisionUnavailable = errors.New("revision unavailable")

	// ErrPathEscape means a repository-relative path resolves outside the repository.
	ErrPathEscape = errors.New("path escapes repository root")

	// ErrPathNotFound means a repository-relative path does not exist at the
	// checked out revision.
	ErrPathNotFound = errors.New("path not found in repository")
)

// Error carries the failed git operation, the redacted repository URL and the
// tool output that explains the failure.
type Error struct {
	Op     string // clone, fetch, checkout, resolve
	Repo   string // redacted URL
	Detail string // captured stderr or a short explanation
	Kind   error  // one of the Err* sentinels
	Cause  error  // underlying error, e.g. procutil.ErrTimeout
}

func (e *Error) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s %s: %v", e.Op, e.Repo, e.Kind)
	if detail := strings.TrimSpace(e.Detail); detail != "" {
		sb.WriteString(": ")
		sb.WriteString(detail)
	} else if e.Cause != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Cause.Error())
	}
	return sb.String()
}

// Unwrap exposes both the sentinel kind and the cause to errors.Is/As.
func (e *Error) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Cause}
}
