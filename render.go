package teensymon

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

// severityStyles is the exhaustive severity-to-style table. Indexing by
// Severity keeps the mapping auditable in one place; adding a severity
// without a style here is a compile-time size mismatch.
var severityStyles = [severityCount]lipgloss.Style{
	SeverityNone:     lipgloss.NewStyle(),
	SeverityInfo:     lipgloss.NewStyle(),
	SeverityDebug:    lipgloss.NewStyle().Foreground(lipgloss.Color("12")), // light blue
	SeverityWarning:  lipgloss.NewStyle().Foreground(lipgloss.Color("11")), // light yellow
	SeverityError:    lipgloss.NewStyle().Foreground(lipgloss.Color("9")),  // light red
	SeverityCritical: lipgloss.NewStyle().Foreground(lipgloss.Color("9")),  // light red
}

// Renderer writes classified lines to an output stream, colorized by
// severity. The original line text, tag included, is emitted unmodified.
type Renderer struct {
	w       io.Writer
	noColor bool
}

// NewRenderer returns a Renderer writing styled lines to w
func NewRenderer(w io.Writer) *Renderer {
	return &Renderer{w: w}
}

// NewPlainRenderer returns a Renderer that never emits color escapes,
// for piping output to files or other programs
func NewPlainRenderer(w io.Writer) *Renderer {
	return &Renderer{w: w, noColor: true}
}

// Render writes one line followed by a newline, wrapped in the severity's
// color escape when styling applies
func (r *Renderer) Render(line LogLine) error {
	text := line.Text
	if !r.noColor {
		text = severityStyles[line.Severity].Render(text)
	}
	_, err := fmt.Fprintln(r.w, text)
	return err
}
