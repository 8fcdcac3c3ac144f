package formatter

import (
	"fmt"
	"io"

	"github.com/tordrt/erdlayout/internal/layout"
)

// MarkdownFormatter formats a diagram as markdown
type MarkdownFormatter struct {
	writer io.Writer
}

// NewMarkdownFormatter creates a new markdown formatter
func NewMarkdownFormatter(w io.Writer) *MarkdownFormatter {
	return &MarkdownFormatter{writer: w}
}

// Format writes one section per relationship cluster
func (f *MarkdownFormatter) Format(d *layout.Diagram) error {
	_, _ = fmt.Fprintln(f.writer, "# Diagram Layout")
	_, _ = fmt.Fprintln(f.writer)
	_, _ = fmt.Fprintf(f.writer, "%d entities, %d connectors, %d with collisions, %d skipped\n\n",
		len(d.Entities), len(d.Connectors), d.CollisionCount(), d.Skipped)

	for i, cluster := range d.Clusters {
		_, _ = fmt.Fprintf(f.writer, "## Cluster %d\n\n", i+1)
		f.formatGroup(d, cluster)
	}

	if rest := unclustered(d); len(rest) > 0 {
		_, _ = fmt.Fprintln(f.writer, "## Unclustered")
		_, _ = fmt.Fprintln(f.writer)
		f.formatGroup(d, rest)
	}
	return nil
}

func (f *MarkdownFormatter) formatGroup(d *layout.Diagram, names []string) {
	for _, name := range names {
		e, ok := d.Entity(name)
		if !ok {
			continue
		}
		f.formatEntity(d, e, "###")
	}
}

// FormatEntity formats a single entity (exported for use by multifile formatter)
func (f *MarkdownFormatter) FormatEntity(d *layout.Diagram, e layout.PlacedEntity) {
	f.formatEntity(d, e, "#")
}

func (f *MarkdownFormatter) formatEntity(d *layout.Diagram, e layout.PlacedEntity, heading string) {
	_, _ = fmt.Fprintf(f.writer, "%s %s\n\n", heading, e.Name)

	placement := "saved"
	if e.Computed {
		placement = "computed"
	}
	_, _ = fmt.Fprintf(f.writer, "- **Position:** (%s, %s), %s\n", coord(e.Position.X), coord(e.Position.Y), placement)
	_, _ = fmt.Fprintf(f.writer, "- **Size:** %s x %s\n", coord(e.Bounds.Width()), coord(e.Bounds.Height()))
	_, _ = fmt.Fprintln(f.writer)

	out := outgoing(d, e.Name)
	if len(out) == 0 {
		return
	}
	_, _ = fmt.Fprintln(f.writer, "**Connectors:**")
	_, _ = fmt.Fprintln(f.writer)
	for _, c := range out {
		collision := ""
		if !c.CollisionFree {
			collision = ", collides"
		}
		_, _ = fmt.Fprintf(f.writer, "- `%s` → `%s.%s` (%s%s): `%s`\n",
			c.Relationship.FromColumn, c.Relationship.ToEntity, c.Relationship.ToColumn, c.Strategy, collision, c.Path)
	}
	_, _ = fmt.Fprintln(f.writer)
}
