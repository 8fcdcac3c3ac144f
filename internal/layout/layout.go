package layout

// PlacedEntity is an entity with its final position and box.
type PlacedEntity struct {
	Name     string `json:"name"`
	Position Point  `json:"position"`
	Bounds   Rect   `json:"bounds"`
	// Computed is true when the engine chose the position.
	Computed bool `json:"computed"`
}

// Connector is a routed relationship.
type Connector struct {
	Relationship  Relationship `json:"relationship"`
	From          Point        `json:"from"`
	To            Point        `json:"to"`
	Points        []Point      `json:"points"`
	Path          string       `json:"path"`
	CollisionFree bool         `json:"collision_free"`
	Strategy      string       `json:"strategy"`
}

// Diagram is the full result of laying out an ERData.
type Diagram struct {
	Entities   []PlacedEntity `json:"entities"`
	Connectors []Connector    `json:"connectors"`
	Clusters   [][]string     `json:"clusters"`
	// Skipped counts relationships naming an entity that is not in the diagram.
	Skipped int `json:"skipped"`
}

// Entity returns the placed entity with the given name.
func (d *Diagram) Entity(name string) (PlacedEntity, bool) {
	for _, e := range d.Entities {
		if e.Name == name {
			return e, true
		}
	}
	return PlacedEntity{}, false
}

// Positions returns every placed position keyed by entity name.
func (d *Diagram) Positions() map[string]Point {
	out := make(map[string]Point, len(d.Entities))
	for _, e := range d.Entities {
		out[e.Name] = e.Position
	}
	return out
}

// CollisionCount returns how many connectors fell back to a colliding path.
func (d *Diagram) CollisionCount() int {
	n := 0
	for _, c := range d.Connectors {
		if !c.CollisionFree {
			n++
		}
	}
	return n
}

// Layout positions every entity of data and routes every relationship.
// Positions in saved take precedence over positions embedded in the entities;
// entities with neither are placed by a ClusteringEngine.
func Layout(data ERData, saved map[string]Point, metrics BoxMetrics) *Diagram {
	engine := NewClusteringEngine()
	engine.SetERData(&data)

	diagram := &Diagram{Clusters: engine.Clusters()}
	placed := make(map[string]int, len(data.Entities))
	bounds := make([]Rect, 0, len(data.Entities))

	for i, e := range data.Entities {
		if _, dup := placed[e.Name]; dup {
			continue
		}

		var pos Point
		computed := false
		if p, ok := saved[e.Name]; ok {
			pos = p
		} else if e.Position != nil {
			pos = *e.Position
		} else {
			pos = engine.CalculateClusteredPosition(e, i)
			computed = true
		}

		b := EntityBounds(e, pos, metrics)
		placed[e.Name] = len(diagram.Entities)
		diagram.Entities = append(diagram.Entities, PlacedEntity{
			Name:     e.Name,
			Position: pos,
			Bounds:   b,
			Computed: computed,
		})
		bounds = append(bounds, b)
	}

	resolver := NewConnectionPointResolver(data.Entities, metrics)
	router := NewSmartRouter(bounds)

	for _, rel := range data.Relationships {
		fromIdx, okFrom := placed[rel.FromEntity]
		toIdx, okTo := placed[rel.ToEntity]
		if !okFrom || !okTo {
			diagram.Skipped++
			continue
		}

		points := resolver.FindOptimalConnectionPoints(
			diagram.Entities[fromIdx].Bounds,
			diagram.Entities[toIdx].Bounds,
			&rel,
		)
		route := router.Route(points.From, points.To)

		diagram.Connectors = append(diagram.Connectors, Connector{
			Relationship:  rel,
			From:          points.From,
			To:            points.To,
			Points:        route.Points,
			Path:          PointsToPathString(route.Points),
			CollisionFree: route.CollisionFree,
			Strategy:      route.Strategy,
		})
	}

	return diagram
}
