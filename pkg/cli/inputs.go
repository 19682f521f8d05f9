package cli

import (
	"cmp"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strconv"

	"github.com/githubnext/argolint/pkg/fileutil"
	"github.com/githubnext/argolint/pkg/logger"
	"github.com/githubnext/argolint/pkg/manifest"
)

var inputsLog = logger.New("cli:inputs")

// stdinName is the input name that reads standard input.
const stdinName = "-"

// workItem is one document to validate, or the load error that stood in for
// the rest of a source.
type workItem struct {
	id      manifest.ID
	doc     *manifest.Document
	loadErr error
	// group serializes documents that share a source repository.
	group string
}

// expandInputs replaces each directory argument with the YAML files directly
// inside it, sorted by name. Other arguments are kept as given.
func expandInputs(args []string) []string {
	var out []string
	for _, arg := range args {
		if arg == stdinName || !fileutil.DirExists(arg) {
			out = append(out, arg)
			continue
		}
		names, err := fileutil.ListNames(arg)
		if err != nil {
			// Surfaces as a load error for the directory itself.
			out = append(out, arg)
			continue
		}
		for _, name := range names {
			ext := filepath.Ext(name)
			path := filepath.Join(arg, name)
			if (ext == ".yaml" || ext == ".yml") && fileutil.FileExists(path) {
				out = append(out, path)
			}
		}
	}
	inputsLog.Printf("Expanded %d arguments into %d inputs", len(args), len(out))
	return out
}

// loadInputs reads every document of every input in order. A document that
// is not valid YAML becomes a failed item at its own index, and a source that
// cannot be opened yields a single failed item; everything else still runs.
func loadInputs(names []string, stdin io.Reader) []workItem {
	var items []workItem
	for _, name := range names {
		docs, err := loadSource(name, stdin)
		var source []workItem
		for _, doc := range docs {
			source = append(source, workItem{id: doc.ID(), doc: doc})
		}

		var loadErr *manifest.LoadError
		switch {
		case errors.As(err, &loadErr):
			for _, pe := range loadErr.Errors {
				inputsLog.Printf("Skipping %s: %v", pe.ID, pe.Err)
				source = append(source, workItem{id: pe.ID, loadErr: pe})
			}
			slices.SortFunc(source, func(a, b workItem) int { return cmp.Compare(a.id.Index, b.id.Index) })
		case err != nil:
			inputsLog.Printf("Failed to load %s: %v", name, err)
			source = append(source, workItem{id: manifest.ID{Source: name, Index: len(docs)}, loadErr: err})
		}
		items = append(items, source...)
	}

	for i := range items {
		items[i].group = groupKey(i, items[i].doc)
	}
	return items
}

func loadSource(name string, stdin io.Reader) ([]*manifest.Document, error) {
	if name == stdinName {
		return manifest.Load(name, stdin)
	}
	if fileutil.DirExists(name) {
		return nil, fmt.Errorf("cannot read directory %s", name)
	}
	f, err := os.Open(name)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", name, err)
	}
	defer f.Close()
	return manifest.Load(name, f)
}

// groupKey returns the source repository URL for Applications that have one.
// Every other item gets a key of its own.
func groupKey(i int, doc *manifest.Document) string {
	if doc != nil && doc.IsApplication() {
		if url, ok := doc.GetString("spec", "source", "repoURL"); ok && url != "" {
			return "repo:" + url
		}
	}
	return "item:" + strconv.Itoa(i)
}
