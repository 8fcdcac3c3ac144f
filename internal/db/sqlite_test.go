package db

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const shopDDL = `
CREATE TABLE users (
	id INTEGER PRIMARY KEY,
	email TEXT NOT NULL UNIQUE,
	name TEXT
);
CREATE TABLE "order items" (
	order_id INTEGER NOT NULL REFERENCES orders(id),
	product_id INTEGER NOT NULL,
	quantity INTEGER DEFAULT 1,
	PRIMARY KEY (order_id, product_id)
);
CREATE TABLE orders (
	id INTEGER PRIMARY KEY,
	user_id INTEGER NOT NULL REFERENCES users(id),
	reference TEXT
);
CREATE UNIQUE INDEX idx_orders_reference ON orders(reference);
CREATE INDEX idx_orders_user ON orders(user_id);
`

func newSQLiteShop(t *testing.T) *SQLiteClient {
	t.Helper()
	ctx := context.Background()

	client, err := NewSQLiteClient(ctx, filepath.Join(t.TempDir(), "shop.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	_, err = client.DB().ExecContext(ctx, shopDDL)
	require.NoError(t, err)
	return client
}

func TestSQLiteExtractSchema(t *testing.T) {
	client := newSQLiteShop(t)
	ext := NewSQLiteExtractor(client)

	s, err := ext.ExtractSchema(context.Background(), nil)
	require.NoError(t, err)

	var names []string
	for _, table := range s.Tables {
		names = append(names, table.Name)
	}
	assert.Equal(t, []string{"order items", "orders", "users"}, names)

	users, ok := s.Table("users")
	require.True(t, ok)
	assert.Equal(t, []string{"id"}, users.PrimaryKey)
	require.Len(t, users.Columns, 3)
	assert.True(t, users.Columns[1].IsUnique, "email carries a UNIQUE constraint")
	assert.False(t, users.Columns[1].Nullable)
	assert.True(t, users.Columns[2].Nullable)
	assert.Empty(t, users.Indexes, "autoindexes are not reported")

	orders, ok := s.Table("orders")
	require.True(t, ok)
	require.Len(t, orders.Relations, 1)
	assert.Equal(t, "user_id", orders.Relations[0].SourceColumn)
	assert.Equal(t, "users", orders.Relations[0].TargetTable)
	assert.Equal(t, "id", orders.Relations[0].TargetColumn)
	assert.True(t, orders.Columns[2].IsUnique, "reference has a unique index")
	var indexNames []string
	for _, idx := range orders.Indexes {
		indexNames = append(indexNames, idx.Name)
	}
	assert.ElementsMatch(t, []string{"idx_orders_reference", "idx_orders_user"}, indexNames)

	items, ok := s.Table("order items")
	require.True(t, ok)
	assert.Equal(t, []string{"order_id", "product_id"}, items.PrimaryKey)
	require.NotNil(t, items.Columns[2].DefaultValue)
	assert.Equal(t, "1", *items.Columns[2].DefaultValue)
	assert.True(t, items.IsForeignKey("order_id"))
}

func TestSQLiteExtractRequestedTables(t *testing.T) {
	client := newSQLiteShop(t)
	ext := NewSQLiteExtractor(client)

	s, err := ext.ExtractSchema(context.Background(), []string{"orders"})
	require.NoError(t, err)
	require.Len(t, s.Tables, 1)
	assert.Equal(t, "orders", s.Tables[0].Name)
}

func TestSQLiteClientFromDB(t *testing.T) {
	ctx := context.Background()
	handle, err := sql.Open(sqliteDriver, filepath.Join(t.TempDir(), "wrapped.db"))
	require.NoError(t, err)

	client := NewSQLiteClientFromDB(handle)
	t.Cleanup(func() { _ = client.Close() })
	assert.Same(t, handle, client.DB())

	_, err = handle.ExecContext(ctx, shopDDL)
	require.NoError(t, err)

	s, err := NewSQLiteExtractor(client).ExtractSchema(ctx, []string{"users"})
	require.NoError(t, err)
	require.Len(t, s.Tables, 1)
	assert.Equal(t, []string{"id"}, s.Tables[0].PrimaryKey)
}

func TestQuoteIdent(t *testing.T) {
	assert.Equal(t, `"users"`, quoteIdent("users"))
	assert.Equal(t, `"a""b"`, quoteIdent(`a"b`))
}
