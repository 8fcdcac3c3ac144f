package layout

// ConnectionPoints is the pair of border anchors for one connector.
type ConnectionPoints struct {
	From Point `json:"from"`
	To   Point `json:"to"`
}

// ConnectionPointResolver picks where a connector attaches to its two entities.
type ConnectionPointResolver struct {
	metrics  BoxMetrics
	entities map[string]Entity
}

// NewConnectionPointResolver indexes entities by name for column lookups.
func NewConnectionPointResolver(entities []Entity, metrics BoxMetrics) *ConnectionPointResolver {
	index := make(map[string]Entity, len(entities))
	for _, e := range entities {
		if _, dup := index[e.Name]; !dup {
			index[e.Name] = e
		}
	}
	return &ConnectionPointResolver{metrics: metrics, entities: index}
}

// FindOptimalConnectionPoints returns one point on each box border. The
// point sits on the vertical edge facing the other box, at the row of the
// relationship's column, or at the vertical center when rel is nil or the
// column is unknown.
func (r *ConnectionPointResolver) FindOptimalConnectionPoints(fromBounds, toBounds Rect, rel *Relationship) ConnectionPoints {
	fromY, toY := fromBounds.CenterY, toBounds.CenterY
	if rel != nil {
		fromY = r.anchorY(fromBounds, rel.FromEntity, rel.FromColumn)
		toY = r.anchorY(toBounds, rel.ToEntity, rel.ToColumn)
	}

	// Boxes sharing a center column both attach on the right.
	fromX := fromBounds.Right
	if toBounds.CenterX < fromBounds.CenterX {
		fromX = fromBounds.Left
	}
	toX := toBounds.Right
	if fromBounds.CenterX < toBounds.CenterX {
		toX = toBounds.Left
	}

	return ConnectionPoints{
		From: Point{X: fromX, Y: fromY},
		To:   Point{X: toX, Y: toY},
	}
}

func (r *ConnectionPointResolver) anchorY(bounds Rect, entity, column string) float64 {
	if column == "" {
		return bounds.CenterY
	}
	e, ok := r.entities[entity]
	if !ok {
		return bounds.CenterY
	}
	offset, ok := ColumnOffset(e, column, r.metrics)
	if !ok {
		return bounds.CenterY
	}

	y := bounds.Top + offset
	if y > bounds.Bottom {
		y = bounds.Bottom
	}
	return y
}
