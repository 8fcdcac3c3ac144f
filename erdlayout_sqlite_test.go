package erdlayout

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/tordrt/erdlayout/internal/db"
)

func TestExtractAndLayoutSQLite(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "shop.db")

	client, err := db.NewSQLiteClient(ctx, path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	_, err = client.DB().ExecContext(ctx, `
		CREATE TABLE users (id INTEGER PRIMARY KEY, email TEXT);
		CREATE TABLE orders (id INTEGER PRIMARY KEY, user_id INTEGER REFERENCES users(id));
		CREATE TABLE schema_migrations (version TEXT);
	`)
	if err != nil {
		t.Fatalf("create tables: %v", err)
	}
	_ = client.Close()

	d, err := ExtractAndLayout(ctx, "sqlite://"+path,
		&Options{ExcludeTables: []string{"schema_migrations"}}, nil)
	if err != nil {
		t.Fatalf("ExtractAndLayout() error = %v", err)
	}

	if len(d.Entities) != 2 {
		t.Fatalf("got %d entities, want 2", len(d.Entities))
	}
	if _, ok := d.Entity("schema_migrations"); ok {
		t.Error("excluded table was laid out")
	}
	if len(d.Connectors) != 1 || d.Connectors[0].Relationship.FromEntity != "orders" {
		t.Errorf("unexpected connectors: %+v", d.Connectors)
	}
	if d.Skipped != 0 {
		t.Errorf("Skipped = %d, want 0", d.Skipped)
	}
}
