//go:build !integration

package console

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func withPlainOutput(t *testing.T) {
	t.Helper()
	orig := isTTY
	isTTY = false
	t.Cleanup(func() { isTTY = orig })
}

func TestFormatMessages(t *testing.T) {
	withPlainOutput(t)

	tests := []struct {
		name   string
		format func(string) string
		want   string
	}{
		{name: "error", format: FormatErrorMessage, want: "✗ missing .spec.project"},
		{name: "warning", format: FormatWarningMessage, want: "⚠ missing .spec.project"},
		{name: "info", format: FormatInfoMessage, want: "ℹ missing .spec.project"},
		{name: "success", format: FormatSuccessMessage, want: "✓ missing .spec.project"},
		{name: "verbose", format: FormatVerboseMessage, want: "missing .spec.project"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.format("missing .spec.project"))
		})
	}
}

func TestIndentLines(t *testing.T) {
	assert.Equal(t, "first\n    second\n    third", IndentLines("first\nsecond\nthird\n", "    "))
	assert.Equal(t, "single", IndentLines("single", "  "))
}

func TestRenderTable(t *testing.T) {
	withPlainOutput(t)

	t.Run("empty config renders nothing", func(t *testing.T) {
		assert.Empty(t, RenderTable(TableConfig{}))
	})

	t.Run("headers and cells are rendered", func(t *testing.T) {
		out := RenderTable(TableConfig{
			Title:   "Summary",
			Headers: []string{"Document", "Rules", "Errors"},
			Rows: [][]string{
				{"apps.yaml[0]", "9", "0"},
				{"apps.yaml[1]", "5", "2"},
			},
		})

		assert.Contains(t, out, "Summary\n")
		for _, cell := range []string{"Document", "Rules", "Errors", "apps.yaml[0]", "apps.yaml[1]", "9", "2"} {
			assert.Contains(t, out, cell)
		}
	})
}
