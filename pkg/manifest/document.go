// Package manifest holds parsed YAML documents and their identity within the
// input stream.
package manifest

import (
	"fmt"
	"strconv"

	"github.com/githubnext/argolint/pkg/constants"
)

// ID identifies a document by the source it was read from and its position in
// that source's document stream, counted from 0.
type ID struct {
	Source string
	Index  int
}

func (id ID) String() string {
	return fmt.Sprintf("%s[%d]", id.Source, id.Index)
}

// Document is a parsed YAML document. The tree is made of map[string]any,
// []any and scalars and is never modified after loading; callers must treat
// values returned by lookups as read-only.
type Document struct {
	id   ID
	root any
}

// New wraps an already decoded tree.
func New(id ID, root any) *Document {
	return &Document{id: id, root: root}
}

// ID returns the document identity.
func (d *Document) ID() ID {
	return d.id
}

// Root returns the decoded tree; nil for an empty document.
func (d *Document) Root() any {
	return d.root
}

// Lookup walks nested mappings along path.
func (d *Document) Lookup(path ...string) (any, bool) {
	cur := d.root
	for _, key := range path {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = m[key]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// Has reports whether path exists, whatever its value.
func (d *Document) Has(path ...string) bool {
	_, ok := d.Lookup(path...)
	return ok
}

// GetString returns the scalar at path as a string. Numbers and booleans are
// formatted with fmt.Sprint, which does not round-trip their source text
// (`1.10` reads back as "1.1"); use GetText where the exact spelling matters.
func (d *Document) GetString(path ...string) (string, bool) {
	v, ok := d.Lookup(path...)
	if !ok {
		return "", false
	}
	return scalarString(v)
}

// GetText returns the value at path only when YAML typed it as a string.
func (d *Document) GetText(path ...string) (string, bool) {
	v, ok := d.Lookup(path...)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// GetStrings returns the sequence at path, keeping only its scalar items.
func (d *Document) GetStrings(path ...string) ([]string, bool) {
	v, ok := d.Lookup(path...)
	if !ok {
		return nil, false
	}
	items, ok := v.([]any)
	if !ok {
		return nil, false
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := scalarString(item); ok {
			out = append(out, s)
		}
	}
	return out, true
}

// GetMap returns the mapping at path.
func (d *Document) GetMap(path ...string) (map[string]any, bool) {
	v, ok := d.Lookup(path...)
	if !ok {
		return nil, false
	}
	m, ok := v.(map[string]any)
	return m, ok
}

// GetBool returns the boolean at path. The strings "true" and "false" are
// accepted as well.
func (d *Document) GetBool(path ...string) (bool, bool) {
	v, ok := d.Lookup(path...)
	if !ok {
		return false, false
	}
	switch b := v.(type) {
	case bool:
		return b, true
	case string:
		parsed, err := strconv.ParseBool(b)
		return parsed, err == nil
	default:
		return false, false
	}
}

// IsApplication reports whether the document is an Argo CD Application.
func (d *Document) IsApplication() bool {
	apiVersion, _ := d.GetString("apiVersion")
	kind, _ := d.GetString("kind")
	return apiVersion == constants.ApplicationAPIVersion && kind == constants.ApplicationKind
}

func scalarString(v any) (string, bool) {
	switch s := v.(type) {
	case string:
		return s, true
	case bool, int, int64, uint64, float64:
		return fmt.Sprint(s), true
	default:
		return "", false
	}
}
