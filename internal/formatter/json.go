package formatter

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/tordrt/erdlayout/internal/layout"
)

// JSONFormatter writes the diagram as indented JSON
type JSONFormatter struct {
	writer io.Writer
}

// NewJSONFormatter creates a new JSON formatter
func NewJSONFormatter(w io.Writer) *JSONFormatter {
	return &JSONFormatter{writer: w}
}

// Format writes d as a single JSON document
func (f *JSONFormatter) Format(d *layout.Diagram) error {
	out := *d
	// empty slices render as [] rather than null
	if out.Entities == nil {
		out.Entities = []layout.PlacedEntity{}
	}
	if out.Connectors == nil {
		out.Connectors = []layout.Connector{}
	}
	if out.Clusters == nil {
		out.Clusters = [][]string{}
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode diagram: %w", err)
	}
	_, err = fmt.Fprintln(f.writer, string(data))
	return err
}
