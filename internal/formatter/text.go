package formatter

import (
	"fmt"
	"io"

	"github.com/tordrt/erdlayout/internal/layout"
)

// TextFormatter formats a diagram as compact text
type TextFormatter struct {
	writer io.Writer
}

// NewTextFormatter creates a new text formatter
func NewTextFormatter(w io.Writer) *TextFormatter {
	return &TextFormatter{writer: w}
}

// Format writes every entity followed by its outgoing connectors
func (f *TextFormatter) Format(d *layout.Diagram) error {
	for i, e := range d.Entities {
		if i > 0 {
			_, _ = fmt.Fprintln(f.writer) // Blank line between entities
		}
		f.formatEntity(d, e)
	}

	if d.Skipped > 0 || d.CollisionCount() > 0 {
		_, _ = fmt.Fprintln(f.writer)
		_, _ = fmt.Fprintf(f.writer, "SKIPPED: %d, COLLISIONS: %d\n", d.Skipped, d.CollisionCount())
	}
	return nil
}

// FormatEntity formats a single entity (exported for use by multifile formatter)
func (f *TextFormatter) FormatEntity(d *layout.Diagram, e layout.PlacedEntity) {
	f.formatEntity(d, e)
}

func (f *TextFormatter) formatEntity(d *layout.Diagram, e layout.PlacedEntity) {
	_, _ = fmt.Fprintf(f.writer, "ENTITY %s (%s, %s) %sx%s\n",
		e.Name, coord(e.Position.X), coord(e.Position.Y), coord(e.Bounds.Width()), coord(e.Bounds.Height()))

	for _, c := range outgoing(d, e.Name) {
		_, _ = fmt.Fprintf(f.writer, "  %s\n", formatConnector(c))
	}
}

func formatConnector(c layout.Connector) string {
	return fmt.Sprintf("→ %s.%s via %s [%s]", c.Relationship.ToEntity, c.Relationship.ToColumn, c.Path, c.Strategy)
}
