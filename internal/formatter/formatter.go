// Package formatter renders a laid out diagram as JSON, text or markdown.
package formatter

import (
	"fmt"
	"io"
	"strconv"

	"github.com/tordrt/erdlayout/internal/layout"
)

const (
	formatJSON     = "json"
	formatMarkdown = "markdown"
	formatText     = "text"
)

// Formatter writes a diagram to its destination
type Formatter interface {
	Format(d *layout.Diagram) error
}

// New returns the single-stream formatter for the named format
func New(format string, w io.Writer) (Formatter, error) {
	switch format {
	case formatJSON:
		return NewJSONFormatter(w), nil
	case formatText:
		return NewTextFormatter(w), nil
	case formatMarkdown:
		return NewMarkdownFormatter(w), nil
	default:
		return nil, fmt.Errorf("unknown format %q", format)
	}
}

// coord prints a coordinate without trailing zeros
func coord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// outgoing returns the connectors that start at the named entity
func outgoing(d *layout.Diagram, name string) []layout.Connector {
	var out []layout.Connector
	for _, c := range d.Connectors {
		if c.Relationship.FromEntity == name {
			out = append(out, c)
		}
	}
	return out
}

// incoming returns the connectors that end at the named entity
func incoming(d *layout.Diagram, name string) []layout.Connector {
	var in []layout.Connector
	for _, c := range d.Connectors {
		if c.Relationship.ToEntity == name {
			in = append(in, c)
		}
	}
	return in
}

// unclustered lists placed entities missing from every cluster, in diagram order
func unclustered(d *layout.Diagram) []string {
	seen := make(map[string]bool)
	for _, cluster := range d.Clusters {
		for _, name := range cluster {
			seen[name] = true
		}
	}
	var rest []string
	for _, e := range d.Entities {
		if !seen[e.Name] {
			rest = append(rest, e.Name)
		}
	}
	return rest
}
