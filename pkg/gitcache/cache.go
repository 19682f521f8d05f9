// Package gitcache maintains local clones of source repositories, one working
// tree per repository URL, rooted at <cacheRoot>/<sha256(url)>.
//
// Clones persist across runs and are never evicted. All operations on one URL
// are serialized; distinct URLs proceed in parallel.
package gitcache

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/githubnext/argolint/pkg/fileutil"
	"github.com/githubnext/argolint/pkg/logger"
	"github.com/githubnext/argolint/pkg/procutil"
	"github.com/githubnext/argolint/pkg/repoutil"
)

var log = logger.New("gitcache:cache")

// gitEnv keeps git from blocking on credential prompts.
var gitEnv = []string{"GIT_TERMINAL_PROMPT=0"}

// Handle identifies a cached clone.
type Handle struct {
	URL  string
	Path string
}

// Cache owns the clone directory tree under its root.
type Cache struct {
	root   string
	git    string
	runner procutil.Runner
	locks  keyedMutex
}

// Option configures a Cache.
type Option func(*Cache)

// WithGitBinary overrides the git executable (default "git").
func WithGitBinary(path string) Option {
	return func(c *Cache) {
		if path != "" {
			c.git = path
		}
	}
}

// New creates a cache rooted at root, creating the directory when missing.
func New(root string, runner procutil.Runner, opts ...Option) (*Cache, error) {
	cleanRoot, err := fileutil.ValidateAbsolutePath(root)
	if err != nil {
		return nil, fmt.Errorf("invalid cache root: %w", err)
	}
	if err := os.MkdirAll(cleanRoot, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache root %s: %w", cleanRoot, err)
	}

	c := &Cache{root: cleanRoot, git: "git", runner: runner}
	for _, opt := range opts {
		opt(c)
	}
	log.Printf("Cache ready: root=%s, git=%s", c.root, c.git)
	return c, nil
}

// Root returns the cache root directory.
func (c *Cache) Root() string {
	return c.root
}

// PathFor returns the deterministic clone path for url. The URL itself never
// appears in the path.
func (c *Cache) PathFor(url string) string {
	return filepath.Join(c.root, repoutil.HashURL(url))
}

// EnsureCloned returns the handle for url, cloning it first when no clone exists.
// An existing clone is returned without any network access.
func (c *Cache) EnsureCloned(ctx context.Context, url string) (Handle, error) {
	key := repoutil.HashURL(url)
	h := Handle{URL: url, Path: filepath.Join(c.root, key)}

	unlock := c.locks.lock(key)
	defer unlock()

	if fileutil.DirExists(h.Path) {
		log.Printf("Cache hit: %s", repoutil.RedactURL(url))
		return h, nil
	}

	// Clone next to the final location and rename, so an interrupted clone is
	// never mistaken for a cached one.
	tmp, err := os.MkdirTemp(c.root, ".clone-"+key[:12]+"-")
	if err != nil {
		return Handle{}, fmt.Errorf("failed to create clone directory: %w", err)
	}
	defer os.RemoveAll(tmp)

	log.Printf("Cloning %s into %s", repoutil.RedactURL(url), tmp)
	if err := c.runGit(ctx, "clone", url, "", "clone", "--quiet", "--", url, tmp); err != nil {
		return Handle{}, err
	}

	if err := os.Rename(tmp, h.Path); err != nil {
		return Handle{}, fmt.Errorf("failed to move clone into place: %w", err)
	}
	log.Printf("Cloned %s to %s", repoutil.RedactURL(url), h.Path)
	return h, nil
}

// Checkout fetches every remote ref and tag, resolves revision and force-checks
// it out as a detached HEAD. The remote tracking branch origin/<revision> wins
// over a local branch, tag or commit of the same name, so a cached clone never
// serves a stale branch tip. It returns the commit SHA that was checked out.
func (c *Cache) Checkout(ctx context.Context, h Handle, revision string) (string, error) {
	unlock := c.locks.lock(filepath.Base(h.Path))
	defer unlock()

	if err := c.runGit(ctx, "fetch", h.URL, h.Path, "fetch", "--all", "--tags", "--prune", "--force", "--quiet"); err != nil {
		return "", err
	}

	commit, err := c.resolveRevision(ctx, h, revision)
	if err != nil {
		return "", err
	}

	if err := c.runGit(ctx, "checkout", h.URL, h.Path, "checkout", "--force", "--quiet", "--detach", commit); err != nil {
		return "", err
	}
	// Untracked leftovers from a previous revision (e.g. rendered chart
	// dependencies) must not influence content detection.
	if err := c.runGit(ctx, "checkout", h.URL, h.Path, "clean", "-ffdx", "--quiet"); err != nil {
		return "", err
	}

	log.Printf("Checked out %s at %s", repoutil.RedactURL(h.URL), commit)
	return commit, nil
}

func (c *Cache) resolveRevision(ctx context.Context, h Handle, revision string) (string, error) {
	if strings.TrimSpace(revision) == "" || strings.HasPrefix(revision, "-") {
		return "", &Error{Op: "checkout", Repo: repoutil.RedactURL(h.URL), Kind: ErrRevisionUnavailable,
			Detail: fmt.Sprintf("invalid revision %q", revision)}
	}

	candidates := []string{"origin/" + revision, revision}
	for _, candidate := range candidates {
		cmd := procutil.Command{
			Name: c.git,
			Args: []string{"-C", h.Path, "rev-parse", "--verify", "--quiet", candidate + "^{commit}"},
			Env:  gitEnv,
		}
		res, err := c.runner.Run(ctx, cmd)
		if err != nil {
			return "", c.wrap("checkout", h.URL, ErrRevisionUnavailable, err, res.Stderr)
		}
		if res.ExitCode == 0 {
			commit := strings.TrimSpace(string(res.Stdout))
			log.Printf("Resolved %s via %s to %s", revision, candidate, commit)
			return commit, nil
		}
	}

	return "", &Error{Op: "checkout", Repo: repoutil.RedactURL(h.URL), Kind: ErrRevisionUnavailable,
		Detail: fmt.Sprintf("revision %q not found", revision)}
}

// Resolve joins relativePath onto the clone root. A path leaving the clone is
// rejected before the filesystem is consulted.
func (c *Cache) Resolve(h Handle, relativePath string) (string, error) {
	joined, ok := fileutil.JoinWithin(h.Path, relativePath)
	if !ok {
		return "", &Error{Op: "resolve", Repo: repoutil.RedactURL(h.URL), Kind: ErrPathEscape,
			Detail: fmt.Sprintf("%q", relativePath)}
	}
	if _, err := os.Stat(joined); err != nil {
		return "", &Error{Op: "resolve", Repo: repoutil.RedactURL(h.URL), Kind: ErrPathNotFound,
			Detail: fmt.Sprintf("%q", relativePath), Cause: err}
	}
	return joined, nil
}

// runGit runs one git subcommand. dir is passed through -C when set. Any failure
// is reported as ErrRepositoryUnavailable except during checkout, where it
// means the revision could not be materialized.
func (c *Cache) runGit(ctx context.Context, op, url, dir string, args ...string) error {
	if dir != "" {
		args = append([]string{"-C", dir}, args...)
	}
	cmd := procutil.Command{Name: c.git, Args: args, Env: gitEnv}

	kind := ErrRepositoryUnavailable
	if op == "checkout" {
		kind = ErrRevisionUnavailable
	}

	res, err := c.runner.Run(ctx, cmd)
	if err != nil {
		return c.wrap(op, url, kind, err, res.Stderr)
	}
	if exitErr := res.Check(cmd); exitErr != nil {
		return c.wrap(op, url, kind, exitErr, res.Stderr)
	}
	return nil
}

func (c *Cache) wrap(op, url string, kind, cause error, stderr []byte) error {
	// The command line may embed credentials, so it never reaches the message.
	detail := strings.TrimSpace(string(stderr))
	if detail == "" {
		var exitErr *procutil.ExitError
		if errors.As(cause, &exitErr) {
			detail = fmt.Sprintf("git %s exited with status %d", op, exitErr.ExitCode)
		} else {
			detail = cause.Error()
		}
	}
	log.Printf("git %s failed for %s: %s", op, repoutil.RedactURL(url), detail)
	return &Error{Op: op, Repo: repoutil.RedactURL(url), Kind: kind, Detail: detail, Cause: cause}
}
