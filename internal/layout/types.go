// Package layout positions entities of a relational schema diagram and routes
// the connectors drawn between them.
//
// The package is a pure function of entities, relationships and any known
// positions. It never performs I/O and never returns errors: malformed input
// degrades to deterministic fallbacks instead.
package layout

// Point is a coordinate in diagram space.
type Point struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Rect is the bounding box of a rendered entity.
type Rect struct {
	Left    float64 `json:"left"`
	Top     float64 `json:"top"`
	Right   float64 `json:"right"`
	Bottom  float64 `json:"bottom"`
	CenterX float64 `json:"center_x"`
	CenterY float64 `json:"center_y"`
}

// NewRect builds a Rect from its top-left corner and size.
func NewRect(x, y, w, h float64) Rect {
	return Rect{
		Left:    x,
		Top:     y,
		Right:   x + w,
		Bottom:  y + h,
		CenterX: x + w/2,
		CenterY: y + h/2,
	}
}

// Width returns the horizontal extent of r.
func (r Rect) Width() float64 { return r.Right - r.Left }

// Height returns the vertical extent of r.
func (r Rect) Height() float64 { return r.Bottom - r.Top }

// Inset returns r shrunk by d on every side. ok is false when nothing is left.
func (r Rect) Inset(d float64) (inner Rect, ok bool) {
	if r.Width() <= 2*d || r.Height() <= 2*d {
		return Rect{}, false
	}
	return NewRect(r.Left+d, r.Top+d, r.Width()-2*d, r.Height()-2*d), true
}

// Column is an entity attribute. Only the flags that affect layout are kept.
type Column struct {
	Name         string `json:"name" yaml:"name"`
	IsPrimaryKey bool   `json:"is_primary_key,omitempty" yaml:"is_primary_key,omitempty"`
	IsForeignKey bool   `json:"is_foreign_key,omitempty" yaml:"is_foreign_key,omitempty"`
}

// Entity is a table-like node. Column order determines row offsets.
type Entity struct {
	Name     string   `json:"name" yaml:"name"`
	Columns  []Column `json:"columns" yaml:"columns"`
	Position *Point   `json:"position,omitempty" yaml:"position,omitempty"`
}

// ColumnIndex returns the row index of the named column, or -1.
func (e Entity) ColumnIndex(name string) int {
	for i, c := range e.Columns {
		if c.Name == name {
			return i
		}
	}
	return -1
}

// Relationship is a foreign-key edge between two entity columns.
type Relationship struct {
	FromEntity string `json:"from_entity" yaml:"from_entity"`
	FromColumn string `json:"from_column" yaml:"from_column"`
	ToEntity   string `json:"to_entity" yaml:"to_entity"`
	ToColumn   string `json:"to_column" yaml:"to_column"`
}

// ERData is the entity/relationship set handed to the engine.
type ERData struct {
	Entities      []Entity       `json:"entities" yaml:"entities"`
	Relationships []Relationship `json:"relationships" yaml:"relationships"`
}

// Entity looks up an entity by name.
func (d *ERData) Entity(name string) (Entity, bool) {
	for _, e := range d.Entities {
		if e.Name == name {
			return e, true
		}
	}
	return Entity{}, false
}
