package lint

import (
	"context"
	"errors"
	"fmt"
	"path"

	"github.com/goccy/go-yaml"

	"github.com/githubnext/argolint/pkg/gitcache"
	"github.com/githubnext/argolint/pkg/manifest"
	"github.com/githubnext/argolint/pkg/render"
	"github.com/githubnext/argolint/pkg/repoutil"
	"github.com/githubnext/argolint/pkg/sourcetype"
)

// The source branch: repoAccessible → revisionAccessible → pathAccessible →
// sourceType → one content rule. Each step hands what it resolved to the next
// through the continuation it returns.

func (a *ApplicationRules) repoAccessible() Rule {
	return Rule{Name: "repoAccessible", Check: func(ctx context.Context, doc *manifest.Document) Outcome {
		url, fail, ok := requireText(doc, "spec", "source", "repoURL")
		if !ok {
			return fail
		}
		h, err := a.cache.EnsureCloned(ctx, url)
		if err != nil {
			return FailErr(err)
		}
		rulesLog.Printf("Repository %s cached at %s", repoutil.RedactURL(url), h.Path)
		return Pass(a.revisionAccessible(h))
	}}
}

func (a *ApplicationRules) revisionAccessible(h gitcache.Handle) Rule {
	return Rule{Name: "revisionAccessible", Check: func(ctx context.Context, doc *manifest.Document) Outcome {
		revision, fail, ok := requireText(doc, "spec", "source", "targetRevision")
		if !ok {
			return fail
		}
		commit, err := a.cache.Checkout(ctx, h, revision)
		if err != nil {
			return FailErr(err)
		}

		out := Pass(a.pathAccessible(h)).Info(fmt.Sprintf("revision %s resolved to commit %s", revision, commit))
		if classifyRevision(revision, commit) == revisionMoving {
			out = out.Info(fmt.Sprintf("revision %s is a moving reference; results hold for commit %s only", revision, commit))
		}
		return out
	}}
}

func (a *ApplicationRules) pathAccessible(h gitcache.Handle) Rule {
	return Rule{Name: "pathAccessible", Check: func(ctx context.Context, doc *manifest.Document) Outcome {
		rel, fail, ok := requireText(doc, "spec", "source", "path")
		if !ok {
			return fail
		}
		dir, err := a.cache.Resolve(h, rel)
		if err != nil {
			return FailErr(err)
		}
		return Pass(a.sourceType(h, rel, dir))
	}}
}

func (a *ApplicationRules) sourceType(h gitcache.Handle, rel, dir string) Rule {
	return Rule{Name: "sourceType", Check: func(ctx context.Context, doc *manifest.Document) Outcome {
		source, _ := doc.GetMap("spec", "source")

		t, declared, err := sourcetype.Detect(source, dir)
		if errors.Is(err, sourcetype.ErrConflictingSourceType) {
			return FailErr(err)
		}
		if err != nil {
			return Failf(KindPathNotFound, "path %s is not a directory: %v", rel, err)
		}

		var next Rule
		switch t {
		case sourcetype.Helm:
			next = a.helmContent(h, rel, dir)
		case sourcetype.Kustomize:
			next = a.kustomizeContent(dir)
		case sourcetype.Directory:
			next = a.directoryContent(dir)
		default:
			next = pluginContent()
		}

		how := "detected from repository contents"
		if declared {
			how = "declared in spec.source"
		}
		return Pass(next).Info(fmt.Sprintf("%s source, %s", t, how))
	}}
}

func (a *ApplicationRules) helmContent(h gitcache.Handle, rel, dir string) Rule {
	return Rule{Name: "helmContent", Check: func(ctx context.Context, doc *manifest.Document) Outcome {
		req, err := a.helmRequest(doc, h, rel, dir)
		if err != nil {
			return FailErr(err)
		}
		if err := a.validator.RenderAndValidate(ctx, req); err != nil {
			return FailErr(err)
		}
		return Pass()
	}}
}

// helmRequest collects the release name, value files and inline values of a
// Helm source. Value files are relative to the chart and must stay inside the
// repository.
func (a *ApplicationRules) helmRequest(doc *manifest.Document, h gitcache.Handle, rel, dir string) (render.Request, error) {
	name, _ := doc.GetString("metadata", "name")
	namespace, _ := doc.GetString("spec", "destination", "namespace")
	req := render.Request{Type: sourcetype.Helm, Path: dir, AppName: name, Namespace: namespace}

	req.Helm.ReleaseName, _ = doc.GetString("spec", "source", "helm", "releaseName")

	files, _ := doc.GetStrings("spec", "source", "helm", "valueFiles")
	for _, f := range files {
		resolved, err := a.cache.Resolve(h, path.Join(rel, f))
		if err != nil {
			return render.Request{}, fmt.Errorf("value file %s: %w", f, err)
		}
		req.Helm.ValueFiles = append(req.Helm.ValueFiles, resolved)
	}

	// valuesObject takes precedence over the values string, as in Argo CD.
	if obj, ok := doc.GetMap("spec", "source", "helm", "valuesObject"); ok && len(obj) > 0 {
		values, err := yaml.Marshal(obj)
		if err != nil {
			return render.Request{}, fmt.Errorf("failed to encode helm valuesObject: %w", err)
		}
		req.Helm.Values = values
	} else if values, ok := doc.GetString("spec", "source", "helm", "values"); ok && values != "" {
		req.Helm.Values = []byte(values)
	}
	return req, nil
}

func (a *ApplicationRules) kustomizeContent(dir string) Rule {
	return Rule{Name: "kustomizeContent", Check: func(ctx context.Context, doc *manifest.Document) Outcome {
		if err := a.validator.RenderAndValidate(ctx, render.Request{Type: sourcetype.Kustomize, Path: dir}); err != nil {
			return FailErr(err)
		}
		return Pass()
	}}
}

func (a *ApplicationRules) directoryContent(dir string) Rule {
	return Rule{Name: "directoryContent", Check: func(ctx context.Context, doc *manifest.Document) Outcome {
		recurse, _ := doc.GetBool("spec", "source", "directory", "recurse")
		req := render.Request{
			Type:      sourcetype.Directory,
			Path:      dir,
			Directory: render.DirectoryOptions{Recurse: recurse},
		}
		if err := a.validator.RenderAndValidate(ctx, req); err != nil {
			return FailErr(err)
		}
		return Pass()
	}}
}

func pluginContent() Rule {
	return Rule{Name: "pluginContent", Check: func(context.Context, *manifest.Document) Outcome {
		return Pass().Info("config management plugin sources are opaque; no content checks run")
	}}
}
