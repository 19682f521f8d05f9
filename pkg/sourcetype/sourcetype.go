// Package sourcetype decides which tool renders an application source: an
// explicitly declared sub-type wins, otherwise marker files in the source
// directory decide.
package sourcetype

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/githubnext/argolint/pkg/constants"
	"github.com/githubnext/argolint/pkg/fileutil"
	"github.com/githubnext/argolint/pkg/logger"
)

var log = logger.New("sourcetype:detect")

// ContentType is the rendering tool for an application source.
type ContentType int

const (
	Unknown ContentType = iota
	Helm
	Kustomize
	Directory
	Plugin
)

func (t ContentType) String() string {
	switch t {
	case Helm:
		return "helm"
	case Kustomize:
		return "kustomize"
	case Directory:
		return "directory"
	case Plugin:
		return "plugin"
	default:
		return "unknown"
	}
}

// ErrConflictingSourceType is returned when a source declares more than one sub-type.
var ErrConflictingSourceType = errors.New("conflicting source types")

// explicitFields lists the source sub-type fields in reporting order.
var explicitFields = []struct {
	field string
	typ   ContentType
}{
	{"helm", Helm},
	{"kustomize", Kustomize},
	{"directory", Directory},
	{"plugin", Plugin},
}

// Explicit returns the sub-type declared in an application source. It returns
// Unknown when none is declared and ErrConflictingSourceType, naming every
// declared field, when several are.
func Explicit(source map[string]any) (ContentType, error) {
	var declared []string
	found := Unknown
	for _, f := range explicitFields {
		if v, ok := source[f.field]; ok && v != nil {
			declared = append(declared, f.field)
			found = f.typ
		}
	}

	switch len(declared) {
	case 0:
		return Unknown, nil
	case 1:
		log.Printf("Explicit source type: %s", found)
		return found, nil
	default:
		return Unknown, fmt.Errorf("%w: spec.source declares %s", ErrConflictingSourceType, strings.Join(declared, ", "))
	}
}

// DetectEntries picks a content type from the names of a directory's entries.
// Helm markers win over Kustomize markers; anything else is a plain directory.
func DetectEntries(names []string) ContentType {
	for _, marker := range constants.HelmMarkerFiles {
		if slices.Contains(names, marker) {
			return Helm
		}
	}
	for _, marker := range constants.KustomizeMarkerFiles {
		if slices.Contains(names, marker) {
			return Kustomize
		}
	}
	return Directory
}

// DetectDir lists dir and applies DetectEntries.
func DetectDir(dir string) (ContentType, error) {
	names, err := fileutil.ListNames(dir)
	if err != nil {
		return Unknown, fmt.Errorf("failed to list source directory: %w", err)
	}
	t := DetectEntries(names)
	log.Printf("Detected %s from %d entries in %s", t, len(names), dir)
	return t, nil
}

// Detect combines both steps: an explicit declaration is returned as is,
// otherwise the directory is inspected. declared reports which one decided.
func Detect(source map[string]any, dir string) (t ContentType, declared bool, err error) {
	t, err = Explicit(source)
	if err != nil {
		return Unknown, false, err
	}
	if t != Unknown {
		return t, true, nil
	}
	t, err = DetectDir(dir)
	return t, false, err
}
