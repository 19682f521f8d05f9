package lint

import (
	"errors"

	"github.com/githubnext/argolint/pkg/gitcache"
	"github.com/githubnext/argolint/pkg/procutil"
	"github.com/githubnext/argolint/pkg/sourcetype"
)

// Classify maps an error from the cache, detector or validator onto a
// diagnostic kind. A timeout wins over whatever operation timed out.
func Classify(err error) Kind {
	switch {
	case errors.Is(err, procutil.ErrTimeout):
		return KindExternalToolTimeout
	case errors.Is(err, sourcetype.ErrConflictingSourceType):
		return KindConflictingSourceType
	case errors.Is(err, gitcache.ErrPathEscape):
		return KindPathEscape
	case errors.Is(err, gitcache.ErrPathNotFound):
		return KindPathNotFound
	case errors.Is(err, gitcache.ErrRevisionUnavailable):
		return KindRevisionUnavailable
	case errors.Is(err, gitcache.ErrRepositoryUnavailable):
		return KindRepositoryUnavailable
	default:
		return KindExternalToolFailure
	}
}
