package lint

import (
	"strings"

	"golang.org/x/mod/semver"
)

// revisionKind describes how stable a targetRevision is.
type revisionKind int

const (
	revisionMoving revisionKind = iota // branch, HEAD or a free-form tag
	revisionVersionTag
	revisionCommit
)

// classifyRevision tells pinned commits and version tags apart from references
// that may move between runs. A free-form tag cannot be told apart from a
// branch without asking the repository and counts as moving.
func classifyRevision(revision, commit string) revisionKind {
	if isCommitPrefix(revision, commit) {
		return revisionCommit
	}
	v := revision
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	if semver.IsValid(v) {
		return revisionVersionTag
	}
	return revisionMoving
}

func isCommitPrefix(revision, commit string) bool {
	if len(revision) < 7 || len(revision) > len(commit) {
		return false
	}
	for _, r := range revision {
		if !strings.ContainsRune("0123456789abcdefABCDEF", r) {
			return false
		}
	}
	return strings.HasPrefix(commit, strings.ToLower(revision))
}
