// Package db reads table, column, key and index metadata from live databases.
package db

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/tordrt/erdlayout/internal/schema"
)

// Extractor reads a schema from a database
type Extractor interface {
	// ExtractSchema extracts the listed tables, or every table when tables is empty
	ExtractSchema(ctx context.Context, tables []string) (*schema.Schema, error)
}

// tableSource is implemented once per database engine
type tableSource interface {
	tableNames(ctx context.Context) ([]string, error)
	columns(ctx context.Context, table string) ([]schema.Column, error)
	primaryKey(ctx context.Context, table string) ([]string, error)
	relations(ctx context.Context, table string) ([]schema.Relation, error)
	indexes(ctx context.Context, table string) ([]schema.Index, error)
}

// extractSchema runs the per-table extraction shared by every engine
func extractSchema(ctx context.Context, src tableSource, requested []string) (*schema.Schema, error) {
	logger := log.FromContext(ctx)

	names := requested
	if len(names) == 0 {
		var err error
		names, err = src.tableNames(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to get table names: %w", err)
		}
	}

	tables := make([]schema.Table, 0, len(names))
	for _, name := range names {
		logger.Debug("extracting table", "table", name)
		table, err := extractTable(ctx, src, name)
		if err != nil {
			return nil, fmt.Errorf("failed to extract table %s: %w", name, err)
		}
		tables = append(tables, *table)
	}

	return &schema.Schema{Tables: tables}, nil
}

func extractTable(ctx context.Context, src tableSource, name string) (*schema.Table, error) {
	table := &schema.Table{Name: name}
	var err error

	if table.Columns, err = src.columns(ctx, name); err != nil {
		return nil, fmt.Errorf("failed to extract columns: %w", err)
	}
	if table.PrimaryKey, err = src.primaryKey(ctx, name); err != nil {
		return nil, fmt.Errorf("failed to extract primary key: %w", err)
	}
	if table.Relations, err = src.relations(ctx, name); err != nil {
		return nil, fmt.Errorf("failed to extract relations: %w", err)
	}
	if table.Indexes, err = src.indexes(ctx, name); err != nil {
		return nil, fmt.Errorf("failed to extract indexes: %w", err)
	}

	return table, nil
}

// scanner is satisfied by both pgx.Rows and *sql.Rows
type scanner interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

// scanStrings collects a single string column from every row
func scanStrings(rows scanner) ([]string, error) {
	var out []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
