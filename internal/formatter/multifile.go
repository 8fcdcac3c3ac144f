package formatter

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/tordrt/erdlayout/internal/layout"
)

// MultiFileFormatter writes a diagram to multiple files in a directory
type MultiFileFormatter struct {
	OutputDir    string
	OutputFormat string // "text" or "markdown"
}

// NewMultiFileFormatter creates a new multi-file formatter
func NewMultiFileFormatter(outputDir, format string) *MultiFileFormatter {
	return &MultiFileFormatter{
		OutputDir:    outputDir,
		OutputFormat: format,
	}
}

// Format writes an overview file plus one file per entity
func (f *MultiFileFormatter) Format(d *layout.Diagram) error {
	if err := os.MkdirAll(f.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if err := f.writeFile("_overview", func(w io.Writer) { f.writeOverview(w, d) }); err != nil {
		return fmt.Errorf("failed to write overview: %w", err)
	}

	for _, e := range d.Entities {
		if err := f.writeFile(fileName(e.Name), func(w io.Writer) { f.writeEntity(w, d, e) }); err != nil {
			return fmt.Errorf("failed to write entity file for %s: %w", e.Name, err)
		}
	}

	return nil
}

func (f *MultiFileFormatter) writeFile(base string, write func(io.Writer)) error {
	file, err := os.Create(filepath.Join(f.OutputDir, base+f.getFileExtension()))
	if err != nil {
		return err
	}
	write(file)
	return file.Close()
}

func (f *MultiFileFormatter) writeOverview(w io.Writer, d *layout.Diagram) {
	ext := f.getFileExtension()
	if f.OutputFormat == formatMarkdown {
		_, _ = fmt.Fprintf(w, "# Diagram Overview\n\n")
		_, _ = fmt.Fprintf(w, "Each entity has a corresponding file: `<entity_name>%s`\n\n", ext)
	} else {
		_, _ = fmt.Fprintf(w, "DIAGRAM OVERVIEW\n")
		_, _ = fmt.Fprintf(w, "Each entity has a file: <entity_name>%s\n\n", ext)
	}

	for i, cluster := range d.Clusters {
		members := make([]string, len(cluster))
		copy(members, cluster)
		sort.Strings(members)

		if f.OutputFormat == formatMarkdown {
			_, _ = fmt.Fprintf(w, "- **Cluster %d:** %s\n", i+1, strings.Join(members, ", "))
		} else {
			_, _ = fmt.Fprintf(w, "CLUSTER %d: %s\n", i+1, strings.Join(members, ","))
		}
	}

	summary := fmt.Sprintf("%d connectors, %d with collisions, %d skipped", len(d.Connectors), d.CollisionCount(), d.Skipped)
	if f.OutputFormat == formatMarkdown {
		_, _ = fmt.Fprintf(w, "\n%s\n", summary)
	} else {
		_, _ = fmt.Fprintf(w, "\n%s\n", strings.ToUpper(summary))
	}
}

// writeEntity writes a single entity and the connectors arriving at it
func (f *MultiFileFormatter) writeEntity(w io.Writer, d *layout.Diagram, e layout.PlacedEntity) {
	in := incoming(d, e.Name)

	if f.OutputFormat == formatMarkdown {
		NewMarkdownFormatter(w).FormatEntity(d, e)
		if len(in) > 0 {
			_, _ = fmt.Fprintf(w, "## Referenced by\n\n")
			for _, c := range in {
				_, _ = fmt.Fprintf(w, "- %s.%s → %s [%s]\n",
					c.Relationship.FromEntity, c.Relationship.FromColumn, c.Relationship.ToColumn, c.Strategy)
			}
			_, _ = fmt.Fprintln(w)
		}
		return
	}

	NewTextFormatter(w).FormatEntity(d, e)
	if len(in) > 0 {
		_, _ = fmt.Fprintln(w)
		_, _ = fmt.Fprintln(w, "  REFERENCED BY:")
		for _, c := range in {
			_, _ = fmt.Fprintf(w, "    ← %s.%s via %s\n", c.Relationship.FromEntity, c.Relationship.FromColumn, c.Path)
		}
	}
}

// fileName keeps entity names from escaping the output directory
func fileName(entity string) string {
	return strings.NewReplacer("/", "_", "\\", "_").Replace(entity)
}

func (f *MultiFileFormatter) getFileExtension() string {
	if f.OutputFormat == formatMarkdown {
		return ".md"
	}
	return ".txt"
}
