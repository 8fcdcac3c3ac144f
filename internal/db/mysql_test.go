package db

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockMySQL(t *testing.T) (*MySQLExtractor, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewMySQLExtractor(NewMySQLClientFromDB(db), "shop"), mock
}

func TestMySQLExtractSchema(t *testing.T) {
	ext, mock := newMockMySQL(t)

	mock.ExpectQuery("FROM information_schema.tables").
		WithArgs("shop").
		WillReturnRows(sqlmock.NewRows([]string{"table_name"}).AddRow("orders"))

	mock.ExpectQuery("FROM information_schema.columns").
		WithArgs("shop", "orders", "shop", "orders").
		WillReturnRows(sqlmock.NewRows([]string{"column_name", "column_type", "is_nullable", "column_default", "is_unique", "data_type"}).
			AddRow("id", "int", "NO", nil, false, "int").
			AddRow("user_id", "int", "NO", nil, false, "int").
			AddRow("status", "enum('new','paid')", "YES", "new", false, "enum").
			AddRow("reference", "varchar(32)", "NO", nil, true, "varchar"))

	mock.ExpectQuery("constraint_name = 'PRIMARY'").
		WithArgs("shop", "orders").
		WillReturnRows(sqlmock.NewRows([]string{"column_name"}).AddRow("id"))

	mock.ExpectQuery("referenced_table_name IS NOT NULL").
		WithArgs("shop", "orders").
		WillReturnRows(sqlmock.NewRows([]string{"column_name", "referenced_table_name", "referenced_column_name"}).
			AddRow("user_id", "users", "id"))

	mock.ExpectQuery("FROM information_schema.statistics").
		WithArgs("shop", "orders").
		WillReturnRows(sqlmock.NewRows([]string{"index_name", "is_unique", "column_names"}).
			AddRow("idx_orders_user_status", 0, "user_id,status"))

	s, err := ext.ExtractSchema(context.Background(), nil)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())

	require.Len(t, s.Tables, 1)
	table := s.Tables[0]
	assert.Equal(t, "orders", table.Name)
	assert.Equal(t, []string{"id"}, table.PrimaryKey)

	require.Len(t, table.Columns, 4)
	assert.False(t, table.Columns[0].Nullable)
	assert.Nil(t, table.Columns[0].DefaultValue)
	assert.Equal(t, []string{"new", "paid"}, table.Columns[2].EnumValues)
	require.NotNil(t, table.Columns[2].DefaultValue)
	assert.Equal(t, "new", *table.Columns[2].DefaultValue)
	assert.True(t, table.Columns[3].IsUnique)

	require.Len(t, table.Relations, 1)
	assert.Equal(t, "user_id", table.Relations[0].SourceColumn)
	assert.Equal(t, "users", table.Relations[0].TargetTable)
	assert.Equal(t, "N:1", table.Relations[0].Cardinality)

	require.Len(t, table.Indexes, 1)
	assert.Equal(t, []string{"user_id", "status"}, table.Indexes[0].Columns)
	assert.False(t, table.Indexes[0].IsUnique)
}

func TestMySQLExtractRequestedTables(t *testing.T) {
	ext, mock := newMockMySQL(t)

	// listing tables is skipped when names are given
	mock.ExpectQuery("FROM information_schema.columns").
		WithArgs("shop", "users", "shop", "users").
		WillReturnRows(sqlmock.NewRows([]string{"column_name", "column_type", "is_nullable", "column_default", "is_unique", "data_type"}).
			AddRow("id", "int", "NO", nil, false, "int"))
	mock.ExpectQuery("constraint_name = 'PRIMARY'").
		WillReturnRows(sqlmock.NewRows([]string{"column_name"}).AddRow("id"))
	mock.ExpectQuery("referenced_table_name IS NOT NULL").
		WillReturnRows(sqlmock.NewRows([]string{"column_name", "referenced_table_name", "referenced_column_name"}))
	mock.ExpectQuery("FROM information_schema.statistics").
		WillReturnRows(sqlmock.NewRows([]string{"index_name", "is_unique", "column_names"}))

	s, err := ext.ExtractSchema(context.Background(), []string{"users"})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
	require.Len(t, s.Tables, 1)
	assert.Empty(t, s.Tables[0].Relations)
}

func TestMySQLExtractWrapsQueryErrors(t *testing.T) {
	ext, mock := newMockMySQL(t)

	mock.ExpectQuery("FROM information_schema.columns").
		WillReturnError(assert.AnError)

	_, err := ext.ExtractSchema(context.Background(), []string{"users"})
	require.Error(t, err)
	assert.ErrorIs(t, err, assert.AnError)
	assert.Contains(t, err.Error(), "failed to extract table users")
	assert.Contains(t, err.Error(), "failed to extract columns")
}

func TestParseDatabaseName(t *testing.T) {
	tests := []struct {
		name    string
		dsn     string
		want    string
		wantErr bool
	}{
		{name: "tcp dsn", dsn: "root:secret@tcp(localhost:3306)/shop", want: "shop"},
		{name: "with params", dsn: "root@tcp(db:3306)/inventory?parseTime=true", want: "inventory"},
		{name: "missing database", dsn: "root@tcp(localhost:3306)/", wantErr: true},
		{name: "malformed", dsn: "root@tcp(localhost:3306", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDatabaseName(tt.dsn)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseEnumValues(t *testing.T) {
	tests := []struct {
		columnType string
		want       []string
		wantErr    bool
	}{
		{columnType: "enum('small','medium','large')", want: []string{"small", "medium", "large"}},
		{columnType: "enum('a', 'b')", want: []string{"a", "b"}},
		{columnType: "varchar(10)", want: nil},
		{columnType: "enum(", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.columnType, func(t *testing.T) {
			got, err := parseEnumValues(tt.columnType)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
