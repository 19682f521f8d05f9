// Package console formats user-facing CLI output: status lines for diagnostics
// and the per-run summary table.
//
// Styling is applied only when stdout is a terminal; redirected output stays
// plain text so it can be diffed and grepped.
package console

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/githubnext/argolint/pkg/logger"
	"github.com/githubnext/argolint/pkg/tty"
)

var consoleLog = logger.New("console:console")

var isTTY = tty.IsStdoutTerminal()

var (
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#D73737", Dark: "#FF6B6B"}).Bold(true)
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#B8860B", Dark: "#FFD93D"})
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#0366D6", Dark: "#79B8FF"})
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#22863A", Dark: "#85E89D"})
	verboseStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#6A737D", Dark: "#959DA5"}).Italic(true)
	headerStyle  = lipgloss.NewStyle().Bold(true)
	borderStyle  = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#D1D5DA", Dark: "#444D56"})
)

func applyStyle(style lipgloss.Style, text string) string {
	if !isTTY {
		return text
	}
	return style.Render(text)
}

// FormatErrorMessage formats an error line.
func FormatErrorMessage(message string) string {
	return applyStyle(errorStyle, "✗ ") + message
}

// FormatWarningMessage formats a warning line.
func FormatWarningMessage(message string) string {
	return applyStyle(warningStyle, "⚠ ") + message
}

// FormatInfoMessage formats an informational line.
func FormatInfoMessage(message string) string {
	return applyStyle(infoStyle, "ℹ ") + message
}

// FormatSuccessMessage formats a success line.
func FormatSuccessMessage(message string) string {
	return applyStyle(successStyle, "✓ ") + message
}

// FormatVerboseMessage formats low-priority detail shown with --verbose.
func FormatVerboseMessage(message string) string {
	return applyStyle(verboseStyle, message)
}

// FormatSectionHeader formats the header printed before each document.
func FormatSectionHeader(header string) string {
	return applyStyle(headerStyle, header)
}

// IndentLines prefixes every line after the first with indent, so multi-line
// tool output attached to a diagnostic stays visually grouped under it.
func IndentLines(text, indent string) string {
	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	return strings.Join(lines, "\n"+indent)
}

// TableConfig describes a table to render.
type TableConfig struct {
	Title   string
	Headers []string
	Rows    [][]string
}

// RenderTable renders a bordered table. An empty configuration renders nothing.
func RenderTable(config TableConfig) string {
	if len(config.Headers) == 0 && len(config.Rows) == 0 {
		return ""
	}
	consoleLog.Printf("Rendering table: title=%q, columns=%d, rows=%d", config.Title, len(config.Headers), len(config.Rows))

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		Headers(config.Headers...).
		Rows(config.Rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle.Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})

	var sb strings.Builder
	if config.Title != "" {
		sb.WriteString(FormatSectionHeader(config.Title))
		sb.WriteString("\n")
	}
	sb.WriteString(t.String())
	sb.WriteString("\n")
	return sb.String()
}
