package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/tordrt/erdlayout/internal/schema"
)

// SQLiteClient manages the connection to SQLite
type SQLiteClient struct {
	db *sql.DB
}

// NewSQLiteClient opens the database file and pings it
func NewSQLiteClient(ctx context.Context, path string) (*SQLiteClient, error) {
	db, err := sql.Open(sqliteDriver, path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &SQLiteClient{db: db}, nil
}

// NewSQLiteClientFromDB wraps an already opened handle
func NewSQLiteClientFromDB(db *sql.DB) *SQLiteClient {
	return &SQLiteClient{db: db}
}

// Close closes the database connection
func (c *SQLiteClient) Close() error {
	return c.db.Close()
}

// DB returns the underlying handle
func (c *SQLiteClient) DB() *sql.DB {
	return c.db
}

// SQLiteExtractor reads a schema through sqlite_master and PRAGMA queries
type SQLiteExtractor struct {
	db *sql.DB
}

// NewSQLiteExtractor creates a new SQLite schema extractor
func NewSQLiteExtractor(client *SQLiteClient) *SQLiteExtractor {
	return &SQLiteExtractor{db: client.db}
}

// ExtractSchema implements Extractor
func (e *SQLiteExtractor) ExtractSchema(ctx context.Context, tables []string) (*schema.Schema, error) {
	return extractSchema(ctx, e, tables)
}

// quoteIdent quotes a name for use inside a PRAGMA argument
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func (e *SQLiteExtractor) tableNames(ctx context.Context) ([]string, error) {
	rows, err := e.db.QueryContext(ctx, `
		SELECT name
		FROM sqlite_master
		WHERE type = 'table' AND name NOT LIKE 'sqlite_%'
		ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanStrings(rows)
}

type sqliteColumn struct {
	name         string
	colType      string
	notNull      bool
	defaultValue sql.NullString
	pkOrder      int
}

func (e *SQLiteExtractor) tableInfo(ctx context.Context, tableName string) ([]sqliteColumn, error) {
	rows, err := e.db.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%s)", quoteIdent(tableName)))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cols []sqliteColumn
	for rows.Next() {
		var cid, notNull int
		var c sqliteColumn
		if err := rows.Scan(&cid, &c.name, &c.colType, &notNull, &c.defaultValue, &c.pkOrder); err != nil {
			return nil, err
		}
		c.notNull = notNull != 0
		cols = append(cols, c)
	}
	return cols, rows.Err()
}

func (e *SQLiteExtractor) columns(ctx context.Context, tableName string) ([]schema.Column, error) {
	info, err := e.tableInfo(ctx, tableName)
	if err != nil {
		return nil, err
	}

	indexes, err := e.indexes(ctx, tableName)
	if err != nil {
		return nil, err
	}
	unique := make(map[string]bool)
	for _, idx := range indexes {
		if idx.IsUnique && len(idx.Columns) == 1 {
			unique[idx.Columns[0]] = true
		}
	}
	autoUnique, err := e.autoIndexUniqueColumns(ctx, tableName)
	if err != nil {
		return nil, err
	}
	for name := range autoUnique {
		unique[name] = true
	}

	columns := make([]schema.Column, 0, len(info))
	for _, c := range info {
		col := schema.Column{
			Name:     c.name,
			Type:     c.colType,
			Nullable: !c.notNull,
			// primary keys are reported separately
			IsUnique: c.pkOrder == 0 && unique[c.name],
		}
		if c.defaultValue.Valid {
			col.DefaultValue = &c.defaultValue.String
		}
		columns = append(columns, col)
	}
	return columns, nil
}

// autoIndexUniqueColumns finds single-column UNIQUE constraints, which SQLite
// backs with sqlite_autoindex_* indexes that indexes() skips
func (e *SQLiteExtractor) autoIndexUniqueColumns(ctx context.Context, tableName string) (map[string]bool, error) {
	list, err := e.indexList(ctx, tableName)
	if err != nil {
		return nil, err
	}

	out := make(map[string]bool)
	for _, entry := range list {
		if !entry.unique || !strings.HasPrefix(entry.name, "sqlite_autoindex") {
			continue
		}
		cols, err := e.indexColumns(ctx, entry.name)
		if err != nil {
			return nil, err
		}
		if len(cols) == 1 {
			out[cols[0]] = true
		}
	}
	return out, nil
}

func (e *SQLiteExtractor) primaryKey(ctx context.Context, tableName string) ([]string, error) {
	info, err := e.tableInfo(ctx, tableName)
	if err != nil {
		return nil, err
	}

	// pk holds the 1-based position within a composite key
	var pk []string
	for order := 1; ; order++ {
		found := false
		for _, c := range info {
			if c.pkOrder == order {
				pk = append(pk, c.name)
				found = true
			}
		}
		if !found {
			return pk, nil
		}
	}
}

func (e *SQLiteExtractor) relations(ctx context.Context, tableName string) ([]schema.Relation, error) {
	rows, err := e.db.QueryContext(ctx, fmt.Sprintf("PRAGMA foreign_key_list(%s)", quoteIdent(tableName)))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var relations []schema.Relation
	for rows.Next() {
		var id, seq int
		var targetTable, fromCol, onUpdate, onDelete, match string
		var toCol sql.NullString

		if err := rows.Scan(&id, &seq, &targetTable, &fromCol, &toCol, &onUpdate, &onDelete, &match); err != nil {
			return nil, err
		}

		relations = append(relations, schema.Relation{
			SourceColumn: fromCol,
			TargetTable:  targetTable,
			// a NULL target column means the target's primary key
			TargetColumn: toCol.String,
			Cardinality:  "N:1",
		})
	}
	return relations, rows.Err()
}

type sqliteIndexEntry struct {
	name   string
	unique bool
}

func (e *SQLiteExtractor) indexList(ctx context.Context, tableName string) ([]sqliteIndexEntry, error) {
	rows, err := e.db.QueryContext(ctx, fmt.Sprintf("PRAGMA index_list(%s)", quoteIdent(tableName)))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []sqliteIndexEntry
	for rows.Next() {
		var seq, unique, partial int
		var name, origin string
		if err := rows.Scan(&seq, &name, &unique, &origin, &partial); err != nil {
			return nil, err
		}
		list = append(list, sqliteIndexEntry{name: name, unique: unique == 1})
	}
	return list, rows.Err()
}

func (e *SQLiteExtractor) indexColumns(ctx context.Context, indexName string) ([]string, error) {
	rows, err := e.db.QueryContext(ctx, fmt.Sprintf("PRAGMA index_info(%s)", quoteIdent(indexName)))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var columns []string
	for rows.Next() {
		var seqno, cid int
		var name sql.NullString
		if err := rows.Scan(&seqno, &cid, &name); err != nil {
			return nil, err
		}
		if name.Valid {
			columns = append(columns, name.String)
		}
	}
	return columns, rows.Err()
}

func (e *SQLiteExtractor) indexes(ctx context.Context, tableName string) ([]schema.Index, error) {
	list, err := e.indexList(ctx, tableName)
	if err != nil {
		return nil, err
	}

	var indexes []schema.Index
	for _, entry := range list {
		if strings.HasPrefix(entry.name, "sqlite_autoindex") {
			continue
		}
		cols, err := e.indexColumns(ctx, entry.name)
		if err != nil {
			return nil, err
		}
		if len(cols) > 0 {
			indexes = append(indexes, schema.Index{Name: entry.name, IsUnique: entry.unique, Columns: cols})
		}
	}
	return indexes, nil
}
