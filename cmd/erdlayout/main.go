package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/tordrt/erdlayout"
	"github.com/tordrt/erdlayout/internal/config"
	"github.com/tordrt/erdlayout/internal/layout"
	"github.com/tordrt/erdlayout/internal/positions"
)

var (
	dbURL         string
	mysqlURL      string
	sqlitePath    string
	inputFile     string
	outputFile    string
	outputDir     string
	tables        string
	excludeTables string
	schemaName    string
	format        string
	positionsFile string
	savePositions bool
	configFile    string
	verbose       bool
)

var rootCmd = &cobra.Command{
	Use:          "erdlayout",
	Short:        "Lay out entity-relationship diagrams for database schemas",
	Long:         `erdlayout reads a schema from PostgreSQL, MySQL, SQLite or an entities/relationships file, places related tables in clusters, and routes every foreign key around the other tables.`,
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	rootCmd.Flags().StringVar(&dbURL, "db-url", "", "Database URL (postgres://, mysql:// or sqlite://)")
	rootCmd.Flags().StringVar(&mysqlURL, "mysql-url", "", "MySQL connection string")
	rootCmd.Flags().StringVar(&sqlitePath, "sqlite", "", "SQLite database file path")
	rootCmd.Flags().StringVar(&inputFile, "input", "", "Entities/relationships file (YAML or JSON)")
	rootCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default: stdout)")
	rootCmd.Flags().StringVarP(&outputDir, "output-dir", "d", "", "Output directory for multi-file output")
	rootCmd.Flags().StringVarP(&tables, "tables", "t", "", "Specific tables (comma-separated, optional)")
	rootCmd.Flags().StringVarP(&excludeTables, "exclude", "x", "", "Tables to leave out (comma-separated, optional)")
	rootCmd.Flags().StringVarP(&schemaName, "schema", "s", "", "Database schema name (default: public for PostgreSQL)")
	rootCmd.Flags().StringVarP(&format, "format", "f", "", "Output format: json, text or markdown (default: json, markdown with --output-dir)")
	rootCmd.Flags().StringVarP(&positionsFile, "positions", "p", "", "Saved positions file to reuse")
	rootCmd.Flags().BoolVar(&savePositions, "save-positions", false, "Write the final positions back to --positions")
	rootCmd.Flags().StringVarP(&configFile, "config", "c", "", "TOML config file")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

func run(cmd *cobra.Command, args []string) error {
	level := log.InfoLevel
	if verbose {
		level = log.DebugLevel
	}
	logger := newLogger(level)
	ctx := log.WithContext(cmd.Context(), logger)

	source, err := sourceURL(dbURL, mysqlURL, sqlitePath, inputFile)
	if err != nil {
		return err
	}
	if err := validateOutput(outputFile, outputDir, savePositions, positionsFile); err != nil {
		return err
	}

	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}
	// --format wins over the config file
	if !cmd.Flags().Changed("format") {
		format = cfg.Output.Format
	}

	saved := map[string]layout.Point{}
	if positionsFile != "" {
		saved, err = positions.Load(positionsFile)
		if err != nil {
			return err
		}
		logger.Debug("loaded saved positions", "file", positionsFile, "count", len(saved))
	}
	lopts := &erdlayout.LayoutOptions{Positions: saved, Metrics: cfg.Metrics()}

	var diagram *layout.Diagram
	if inputFile != "" {
		diagram, err = layoutInput(ctx, inputFile, lopts)
	} else {
		opts := &erdlayout.Options{
			Tables:        parseTableList(tables),
			ExcludeTables: parseTableList(excludeTables),
			SchemaName:    schemaFor(source, schemaName),
		}
		diagram, err = erdlayout.ExtractAndLayout(ctx, source, opts, lopts)
	}
	if err != nil {
		return fmt.Errorf("failed to build diagram: %w", err)
	}

	if savePositions {
		if err := positions.Save(positionsFile, diagram); err != nil {
			return err
		}
		logger.Info("saved positions", "file", positionsFile, "count", len(diagram.Entities))
	}

	return writeOutput(ctx, diagram)
}

func layoutInput(ctx context.Context, path string, lopts *erdlayout.LayoutOptions) (*layout.Diagram, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input: %w", err)
	}
	defer func() { _ = f.Close() }()

	data, err := positions.ReadERData(f)
	if err != nil {
		return nil, err
	}
	if exclude := parseTableList(excludeTables); len(exclude) > 0 {
		data = excludeEntities(*data, exclude)
	}
	return erdlayout.Layout(ctx, *data, lopts), nil
}

func writeOutput(ctx context.Context, d *layout.Diagram) error {
	outOpts := &erdlayout.OutputOptions{OutputDir: outputDir, Format: format}

	if outputFile != "" {
		f, err := os.Create(outputFile)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer func() {
			if err := f.Close(); err != nil {
				log.FromContext(ctx).Warn("failed to close output file", "err", err)
			}
		}()
		outOpts.Writer = f
	}

	if err := erdlayout.FormatDiagram(d, outOpts); err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}
	return nil
}

// sourceURL checks that exactly one source flag is set and returns it as a
// database URL. An --input file yields an empty URL.
func sourceURL(dbURL, mysqlURL, sqlitePath, input string) (string, error) {
	count := 0
	for _, v := range []string{dbURL, mysqlURL, sqlitePath, input} {
		if v != "" {
			count++
		}
	}
	if count == 0 {
		return "", fmt.Errorf("one of --db-url, --mysql-url, --sqlite, or --input must be specified")
	}
	if count > 1 {
		return "", fmt.Errorf("only one of --db-url, --mysql-url, --sqlite, or --input can be specified")
	}

	switch {
	case mysqlURL != "":
		return "mysql://" + strings.TrimPrefix(mysqlURL, "mysql://"), nil
	case sqlitePath != "":
		return "sqlite://" + sqlitePath, nil
	case dbURL != "":
		return dbURL, nil
	default:
		return "", nil
	}
}

// schemaFor returns the schema to extract. PostgreSQL falls back to public;
// MySQL takes the database name from the DSN unless --schema is given.
func schemaFor(source, schemaName string) string {
	if schemaName != "" {
		return schemaName
	}
	if strings.HasPrefix(source, "postgres://") || strings.HasPrefix(source, "postgresql://") {
		return "public"
	}
	return ""
}

func validateOutput(outputFile, outputDir string, savePositions bool, positionsFile string) error {
	if outputDir != "" && outputFile != "" {
		return fmt.Errorf("cannot use both --output-dir and --output flags")
	}
	if savePositions && positionsFile == "" {
		return fmt.Errorf("--save-positions requires --positions")
	}
	return nil
}

// parseTableList splits a comma-separated flag value, dropping empty entries
func parseTableList(s string) []string {
	if s == "" {
		return nil
	}

	var list []string
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			list = append(list, t)
		}
	}
	return list
}

// excludeEntities drops the named entities and every relationship touching them
func excludeEntities(data layout.ERData, names []string) *layout.ERData {
	excluded := make(map[string]bool, len(names))
	for _, n := range names {
		excluded[n] = true
	}

	out := &layout.ERData{}
	for _, e := range data.Entities {
		if !excluded[e.Name] {
			out.Entities = append(out.Entities, e)
		}
	}
	for _, r := range data.Relationships {
		if !excluded[r.FromEntity] && !excluded[r.ToEntity] {
			out.Relationships = append(out.Relationships, r)
		}
	}
	return out
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
