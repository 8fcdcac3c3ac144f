package schema

// Schema represents a database schema as seen by the diagram tool
type Schema struct {
	Tables []Table
}

// Table represents a database table
type Table struct {
	Name       string
	Columns    []Column
	Relations  []Relation
	Indexes    []Index
	PrimaryKey []string
}

// Column represents a table column
type Column struct {
	Name            string
	Type            string
	Nullable        bool
	DefaultValue    *string
	IsUnique        bool
	EnumValues      []string
	CheckConstraint *string
}

// Relation represents a foreign key relationship
type Relation struct {
	TargetTable  string
	TargetColumn string
	SourceColumn string
	Cardinality  string // 1:1, 1:N, N:1
}

// Index represents a database index
type Index struct {
	Name     string
	Columns  []string
	IsUnique bool
}

// Table looks up a table by name
func (s *Schema) Table(name string) (*Table, bool) {
	for i := range s.Tables {
		if s.Tables[i].Name == name {
			return &s.Tables[i], true
		}
	}
	return nil, false
}

// IsPrimaryKey reports whether the column is part of the table's primary key
func (t *Table) IsPrimaryKey(column string) bool {
	for _, pk := range t.PrimaryKey {
		if pk == column {
			return true
		}
	}
	return false
}

// IsForeignKey reports whether the column is the source of a relation
func (t *Table) IsForeignKey(column string) bool {
	for _, rel := range t.Relations {
		if rel.SourceColumn == column {
			return true
		}
	}
	return false
}

// Exclude removes the named tables and any relation pointing at them
func (s *Schema) Exclude(names []string) {
	if len(names) == 0 {
		return
	}

	excluded := make(map[string]bool, len(names))
	for _, name := range names {
		excluded[name] = true
	}

	kept := make([]Table, 0, len(s.Tables))
	for _, table := range s.Tables {
		if excluded[table.Name] {
			continue
		}
		rels := table.Relations[:0:0]
		for _, rel := range table.Relations {
			if !excluded[rel.TargetTable] {
				rels = append(rels, rel)
			}
		}
		table.Relations = rels
		kept = append(kept, table)
	}
	s.Tables = kept
}
