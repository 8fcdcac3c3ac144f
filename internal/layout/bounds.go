package layout

import "math"

// keyMarker is appended to flagged column labels when sizing a box, e.g. "id PK".
const keyMarker = " PK"

// BoxMetrics describes how an entity box is rendered.
type BoxMetrics struct {
	HeaderHeight float64
	RowHeight    float64
	CharWidth    float64
	Padding      float64
	MinWidth     float64
}

// DefaultBoxMetrics returns the metrics used when the caller supplies none.
func DefaultBoxMetrics() BoxMetrics {
	return BoxMetrics{
		HeaderHeight: 40,
		RowHeight:    25,
		CharWidth:    8,
		Padding:      20,
		MinWidth:     150,
	}
}

// EntitySize returns the rendered width and height of e.
func EntitySize(e Entity, m BoxMetrics) (w, h float64) {
	longest := len(e.Name)
	for _, c := range e.Columns {
		n := len(c.Name)
		if c.IsPrimaryKey || c.IsForeignKey {
			n += len(keyMarker)
		}
		if n > longest {
			longest = n
		}
	}

	w = math.Max(m.MinWidth, float64(longest)*m.CharWidth+2*m.Padding)
	h = m.HeaderHeight + m.RowHeight*float64(len(e.Columns))
	return w, h
}

// EntityBounds returns the box occupied by e when its top-left corner is at pos.
func EntityBounds(e Entity, pos Point, m BoxMetrics) Rect {
	w, h := EntitySize(e, m)
	return NewRect(pos.X, pos.Y, w, h)
}

// ColumnOffset returns the vertical distance from the top of e's box to the
// midline of the named column's row.
func ColumnOffset(e Entity, column string, m BoxMetrics) (float64, bool) {
	idx := e.ColumnIndex(column)
	if idx < 0 {
		return 0, false
	}
	return m.HeaderHeight + float64(idx)*m.RowHeight + m.RowHeight/2, true
}
