//go:build !integration

package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/charmbracelet/x/exp/golden"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/githubnext/argolint/pkg/lint"
	"github.com/githubnext/argolint/pkg/manifest"
)

var (
	firstDoc  = manifest.ID{Source: "apps.yaml", Index: 0}
	secondDoc = manifest.ID{Source: "apps.yaml", Index: 1}
)

// sampleStream feeds a fixed two-document stream into r.
func sampleStream(r lint.Reporter) {
	r.Begin(firstDoc)
	r.Report(lint.Diagnostic{Document: firstDoc, Rule: "revisionAccessible", Severity: lint.SeverityInfo,
		Message: "revision main resolved to commit abc123"})
	r.Report(lint.Diagnostic{Document: firstDoc, Rule: "finalizer", Severity: lint.SeverityError,
		Kind: lint.KindMissingField, Message: "missing .metadata.finalizers"})
	r.Report(lint.Diagnostic{Document: firstDoc, Rule: "destinationServer", Severity: lint.SeverityWarning,
		Kind: lint.KindUnimplementedCheck, Message: "existence of destination server https://kubernetes.default.svc is not verified"})
	r.Report(lint.Diagnostic{Document: firstDoc, Rule: "helmContent", Severity: lint.SeverityError,
		Kind: lint.KindExternalToolFailure, Message: "render failed: helm template web /cache/x: Error: template: web/templates/deploy.yaml:3:\nunexpected EOF\n"})
	r.End(lint.Summary{Document: firstDoc, Candidate: true, RulesExecuted: 12, Errors: 2, Warnings: 1, Info: 1})

	r.Begin(secondDoc)
	r.Report(lint.Diagnostic{Document: secondDoc, Severity: lint.SeverityInfo,
		Message: `not an Argo CD Application (apiVersion="v1", kind="ConfigMap"), skipped`})
	r.End(lint.Summary{Document: secondDoc, Info: 1})
}

func TestTextReporter_Golden(t *testing.T) {
	tests := []struct {
		name    string
		verbose bool
	}{
		{name: "plain", verbose: false},
		{name: "verbose", verbose: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			sampleStream(NewTextReporter(&buf, tt.verbose))

			golden.RequireEqual(t, []byte(ansi.Strip(buf.String())))
		})
	}
}

func TestTextReporter_Finish(t *testing.T) {
	var buf bytes.Buffer
	r := NewTextReporter(&buf, false)

	r.Finish(Totals{Documents: 3, Applications: 2, RulesExecuted: 24, Errors: 1, Warnings: 8, Info: 10})

	out := ansi.Strip(buf.String())
	assert.Contains(t, out, "Summary")
	for _, want := range []string{"Documents", "Applications", "Rules", "Errors", "Warnings", "24", "10"} {
		assert.Contains(t, out, want)
	}
}

func TestJSONReporter(t *testing.T) {
	var buf bytes.Buffer
	r := NewJSONReporter(&buf)
	sampleStream(r)
	r.Finish(Totals{Documents: 2, Applications: 1, RulesExecuted: 12, Errors: 2, Warnings: 1, Info: 2})
	require.NoError(t, r.Err())

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 8, "5 diagnostics, 2 summaries and the totals")

	var first map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	assert.Equal(t, "diagnostic", first["type"])
	assert.Equal(t, "apps.yaml", first["source"])
	assert.EqualValues(t, 0, first["index"], "index 0 is not omitted")
	assert.Equal(t, "info", first["severity"])
	assert.Equal(t, "revisionAccessible", first["rule"])
	assert.NotContains(t, first, "kind")

	var failure map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &failure))
	assert.Equal(t, "error", failure["severity"])
	assert.Equal(t, "MissingField", failure["kind"])

	var summary map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[4]), &summary))
	assert.Equal(t, "summary", summary["type"])
	assert.Equal(t, true, summary["candidate"])
	assert.EqualValues(t, 12, summary["rulesExecuted"])
	assert.EqualValues(t, 0, mustGet(t, lines[6], "rulesExecuted"), "zero counts are kept")

	assert.Equal(t, "totals", mustGet(t, lines[7], "type"))
	assert.EqualValues(t, 2, mustGet(t, lines[7], "documents"))
}

func mustGet(t *testing.T, line, key string) any {
	t.Helper()
	var obj map[string]any
	require.NoError(t, json.Unmarshal([]byte(line), &obj))
	v, ok := obj[key]
	require.True(t, ok, "missing %q in %s", key, line)
	return v
}

func TestBuffer_Replay(t *testing.T) {
	var direct, replayed bytes.Buffer
	sampleStream(NewTextReporter(&direct, true))

	buf := &Buffer{}
	sampleStream(buf)
	assert.Equal(t, 9, buf.Len())
	buf.Replay(NewTextReporter(&replayed, true))

	assert.Equal(t, direct.String(), replayed.String())
}

func TestTotals_Add(t *testing.T) {
	var totals Totals
	totals.Add(lint.Summary{Candidate: true, RulesExecuted: 12, Errors: 1, Warnings: 4, Info: 3})
	totals.Add(lint.Summary{Info: 1})

	assert.Equal(t, Totals{Documents: 2, Applications: 1, RulesExecuted: 12, Errors: 1, Warnings: 4, Info: 4}, totals)
}

func TestNew(t *testing.T) {
	r, err := New(FormatJSON, &bytes.Buffer{}, false)
	require.NoError(t, err)
	assert.IsType(t, &JSONReporter{}, r)

	r, err = New(FormatText, &bytes.Buffer{}, false)
	require.NoError(t, err)
	assert.IsType(t, &TextReporter{}, r)

	_, err = New("xml", &bytes.Buffer{}, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "xml")
}
