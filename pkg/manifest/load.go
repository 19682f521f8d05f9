package manifest

import (
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/goccy/go-yaml/lexer"
	"github.com/goccy/go-yaml/token"

	"github.com/githubnext/argolint/pkg/logger"
)

var loadLog = logger.New("manifest:load")

// ParseError reports a document of a stream that is not valid YAML.
type ParseError struct {
	ID  ID
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse %s: %v", e.ID, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// LoadError collects the documents of one stream that failed to parse.
type LoadError struct {
	Source string
	Errors []*ParseError
}

func (e *LoadError) Error() string {
	msgs := make([]string, len(e.Errors))
	for i, pe := range e.Errors {
		msgs[i] = pe.Error()
	}
	return strings.Join(msgs, "\n")
}

func (e *LoadError) Unwrap() []error {
	errs := make([]error, len(e.Errors))
	for i, pe := range e.Errors {
		errs[i] = pe
	}
	return errs
}

// Load decodes every document in a YAML stream. Documents are indexed from 0 in
// stream order; an empty document keeps its index and has a nil root.
//
// Each document is decoded on its own, so a syntax error only costs the
// document it occurs in. The valid documents are returned together with a
// *LoadError naming the index of every broken one.
func Load(source string, r io.Reader) ([]*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", source, err)
	}

	var docs []*Document
	var failures []*ParseError
	for index, chunk := range splitDocuments(string(data)) {
		id := ID{Source: source, Index: index}
		var root any
		if err := yaml.Unmarshal([]byte(chunk), &root); err != nil {
			loadLog.Printf("Document %s is not valid YAML: %v", id, err)
			failures = append(failures, &ParseError{ID: id, Err: err})
			continue
		}
		docs = append(docs, New(id, root))
	}

	loadLog.Printf("Loaded %d documents from %s, %d failed", len(docs), source, len(failures))
	if len(failures) > 0 {
		return docs, &LoadError{Source: source, Errors: failures}
	}
	return docs, nil
}

// splitDocuments cuts a stream into one chunk per document at the `---` markers
// found by the YAML lexer, so markers inside scalars are left alone. Each
// chunk after the first starts with its marker line. Text before the first
// marker is a document only when it holds more than comments.
func splitDocuments(src string) []string {
	if strings.TrimSpace(src) == "" {
		return nil
	}

	var headers []int
	leading := false
	for _, tk := range lexer.Tokenize(src) {
		if tk.Position == nil {
			continue
		}
		switch {
		case tk.Type == token.DocumentHeaderType:
			headers = append(headers, tk.Position.Line)
		case tk.Type == token.CommentType, tk.Type == token.DirectiveType:
		case len(headers) == 0:
			leading = true
		}
	}

	lines := strings.SplitAfter(src, "\n")
	join := func(from, to int) string {
		return strings.Join(lines[from:to], "")
	}

	var chunks []string
	if len(headers) == 0 {
		if leading {
			chunks = append(chunks, src)
		}
		return chunks
	}

	if leading {
		chunks = append(chunks, join(0, headers[0]-1))
	}
	for i, line := range headers {
		end := len(lines)
		if i+1 < len(headers) {
			end = headers[i+1] - 1
		}
		chunks = append(chunks, join(line-1, end))
	}
	return chunks
}
