package main

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/tordrt/erdlayout/internal/layout"
)

func TestParseTableList(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{name: "empty", input: "", want: nil},
		{name: "single", input: "users", want: []string{"users"}},
		{name: "trims spaces", input: "users, orders ,products", want: []string{"users", "orders", "products"}},
		{name: "drops empty entries", input: "users,,orders,", want: []string{"users", "orders"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseTableList(tt.input); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("parseTableList(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestSourceURL(t *testing.T) {
	tests := []struct {
		name    string
		dbURL   string
		mysql   string
		sqlite  string
		input   string
		want    string
		wantErr bool
	}{
		{name: "postgres", dbURL: "postgres://localhost/db", want: "postgres://localhost/db"},
		{name: "mysql dsn", mysql: "root@tcp(localhost:3306)/shop", want: "mysql://root@tcp(localhost:3306)/shop"},
		{name: "mysql url", mysql: "mysql://root@tcp(localhost:3306)/shop", want: "mysql://root@tcp(localhost:3306)/shop"},
		{name: "sqlite", sqlite: "app.db", want: "sqlite://app.db"},
		{name: "input file", input: "schema.yaml", want: ""},
		{name: "none", wantErr: true},
		{name: "two sources", dbURL: "postgres://localhost/db", sqlite: "app.db", wantErr: true},
		{name: "input and database", input: "schema.yaml", mysql: "root@/shop", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := sourceURL(tt.dbURL, tt.mysql, tt.sqlite, tt.input)
			if tt.wantErr {
				if err == nil {
					t.Error("sourceURL() expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("sourceURL() unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("sourceURL() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestValidateOutput(t *testing.T) {
	if err := validateOutput("out.json", "docs", false, ""); err == nil {
		t.Error("expected error for both --output and --output-dir")
	}
	if err := validateOutput("", "", true, ""); err == nil {
		t.Error("expected error for --save-positions without --positions")
	}
	if err := validateOutput("out.json", "", true, "positions.yaml"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestExcludeEntities(t *testing.T) {
	data := layout.ERData{
		Entities: []layout.Entity{{Name: "users"}, {Name: "orders"}, {Name: "schema_migrations"}},
		Relationships: []layout.Relationship{
			{FromEntity: "orders", FromColumn: "user_id", ToEntity: "users", ToColumn: "id"},
		},
	}

	got := excludeEntities(data, []string{"users"})
	if len(got.Entities) != 2 || got.Entities[0].Name != "orders" {
		t.Errorf("excludeEntities() entities = %+v", got.Entities)
	}
	if len(got.Relationships) != 0 {
		t.Errorf("excludeEntities() kept %d relationships to an excluded entity", len(got.Relationships))
	}
}

func TestSchemaFor(t *testing.T) {
	tests := []struct {
		name   string
		source string
		schema string
		want   string
	}{
		{name: "postgres default", source: "postgres://localhost/shop", want: "public"},
		{name: "postgresql scheme", source: "postgresql://localhost/shop", want: "public"},
		{name: "postgres explicit", source: "postgres://localhost/shop", schema: "billing", want: "billing"},
		{name: "mysql uses dsn database", source: "mysql://root@tcp(localhost:3306)/shop", want: ""},
		{name: "mysql explicit", source: "mysql://root@tcp(localhost:3306)/shop", schema: "other", want: "other"},
		{name: "sqlite", source: "sqlite://shop.db", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := schemaFor(tt.source, tt.schema); got != tt.want {
				t.Errorf("schemaFor(%q, %q) = %q, want %q", tt.source, tt.schema, got, tt.want)
			}
		})
	}
}

func TestRunInputToOutputDir(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "shop.yaml")
	out := filepath.Join(dir, "out")
	doc := `
entities:
  - name: users
    columns:
      - name: id
        is_primary_key: true
  - name: orders
    columns:
      - name: id
        is_primary_key: true
      - name: user_id
        is_foreign_key: true
relationships:
  - from_entity: orders
    from_column: user_id
    to_entity: users
    to_column: id
`
	if err := os.WriteFile(in, []byte(doc), 0644); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		inputFile, outputDir = "", ""
		rootCmd.SetArgs(nil)
	})

	// no --format: a directory gets markdown
	rootCmd.SetArgs([]string{"--input", in, "-d", out})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	for _, name := range []string{"_overview.md", "users.md", "orders.md"} {
		if _, err := os.Stat(filepath.Join(out, name)); err != nil {
			t.Errorf("expected %s: %v", name, err)
		}
	}
}
