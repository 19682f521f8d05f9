package lint

import (
	"context"
	"slices"
	"strings"

	"github.com/githubnext/argolint/pkg/constants"
	"github.com/githubnext/argolint/pkg/gitcache"
	"github.com/githubnext/argolint/pkg/logger"
	"github.com/githubnext/argolint/pkg/manifest"
	"github.com/githubnext/argolint/pkg/render"
)

var rulesLog = logger.New("lint:rules")

// RepositoryCache is the part of gitcache.Cache the source rules need.
type RepositoryCache interface {
	EnsureCloned(ctx context.Context, url string) (gitcache.Handle, error)
	Checkout(ctx context.Context, h gitcache.Handle, revision string) (string, error)
	Resolve(h gitcache.Handle, relativePath string) (string, error)
}

// ExternalValidator renders a source and dry-run applies the result.
type ExternalValidator interface {
	RenderAndValidate(ctx context.Context, req render.Request) error
}

// ApplicationRules is the Argo CD Application rule set.
type ApplicationRules struct {
	cache     RepositoryCache
	validator ExternalValidator
}

// NewApplicationRules builds the rule set around its collaborators.
func NewApplicationRules(cache RepositoryCache, validator ExternalValidator) *ApplicationRules {
	return &ApplicationRules{cache: cache, validator: validator}
}

// Roots returns the root rules in execution order.
func (a *ApplicationRules) Roots() []Rule {
	return []Rule{
		{Name: "name", Check: a.checkName},
		{Name: "finalizer", Check: checkFinalizer},
		{Name: "destinationNamespace", Check: checkDestinationNamespace},
		{Name: "destinationServer", Check: checkDestinationServer},
		{Name: "projectExists", Check: checkProjectExists},
	}
}

// NewEngine returns an engine seeded with the Application root rules.
func (a *ApplicationRules) NewEngine() *Engine {
	return NewEngine(a.Roots()...)
}

func missing(path ...string) Outcome {
	return Fail(KindMissingField, "missing ."+strings.Join(path, "."))
}

// requireString returns the non-empty scalar at path, or a MissingField failure.
func requireString(doc *manifest.Document, path ...string) (string, Outcome, bool) {
	v, ok := doc.GetString(path...)
	if !ok || v == "" {
		return "", missing(path...), false
	}
	return v, Outcome{}, true
}

// requireText is requireString for fields Argo CD types as strings. A number or
// boolean is rejected rather than reformatted: `targetRevision: 1.10` would
// otherwise select revision 1.1.
func requireText(doc *manifest.Document, path ...string) (string, Outcome, bool) {
	v, ok := doc.Lookup(path...)
	if !ok || v == nil {
		return "", missing(path...), false
	}
	s, ok := doc.GetText(path...)
	if !ok {
		return "", Failf(KindMissingField, ".%s must be a string, YAML read it as %T %v; quote it in the manifest",
			strings.Join(path, "."), v, v), false
	}
	if s == "" {
		return "", missing(path...), false
	}
	return s, Outcome{}, true
}

func (a *ApplicationRules) checkName(_ context.Context, doc *manifest.Document) Outcome {
	if _, fail, ok := requireString(doc, "metadata", "name"); !ok {
		return fail
	}
	return Pass(a.repoAccessible())
}

func checkFinalizer(_ context.Context, doc *manifest.Document) Outcome {
	finalizers, ok := doc.GetStrings("metadata", "finalizers")
	if !ok {
		return missing("metadata", "finalizers")
	}
	if !slices.Contains(finalizers, constants.ResourcesFinalizer) {
		return Failf(KindMissingField, ".metadata.finalizers does not contain %s", constants.ResourcesFinalizer)
	}
	return Pass()
}

func checkDestinationNamespace(_ context.Context, doc *manifest.Document) Outcome {
	namespace, fail, ok := requireString(doc, "spec", "destination", "namespace")
	if !ok {
		return fail
	}
	if options, _ := doc.GetStrings("spec", "syncPolicy", "syncOptions"); slices.Contains(options, constants.CreateNamespaceSyncOption) {
		rulesLog.Printf("Namespace %s is created on sync", namespace)
		return Pass()
	}
	return Unimplemented("existence of destination namespace " + namespace)
}

func checkDestinationServer(_ context.Context, doc *manifest.Document) Outcome {
	server, fail, ok := requireString(doc, "spec", "destination", "server")
	if !ok {
		return fail
	}
	return Unimplemented("existence of destination server " + server)
}

func checkProjectExists(_ context.Context, doc *manifest.Document) Outcome {
	project, fail, ok := requireString(doc, "spec", "project")
	if !ok {
		return fail
	}
	return Unimplemented("existence of project "+project,
		Rule{Name: "projectAllowsNamespace", Check: checkProjectAllowsNamespace},
		Rule{Name: "projectAllowsServer", Check: checkProjectAllowsServer},
	)
}

func checkProjectAllowsNamespace(_ context.Context, doc *manifest.Document) Outcome {
	project, _ := doc.GetString("spec", "project")
	namespace, _ := doc.GetString("spec", "destination", "namespace")
	return Unimplemented("project " + project + " allowing destination namespace " + namespace)
}

func checkProjectAllowsServer(_ context.Context, doc *manifest.Document) Outcome {
	project, _ := doc.GetString("spec", "project")
	server, _ := doc.GetString("spec", "destination", "server")
	return Unimplemented("project " + project + " allowing destination server " + server)
}
