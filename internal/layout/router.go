package layout

import "math"

const (
	detourPadding = 20
	routeOffset   = 50
	// ownBoxInset shrinks a connector's own boxes so border contact is not a collision
	ownBoxInset = 0.5
)

// Strategy names reported in Route.Strategy.
const (
	StrategyDirect     = "direct"
	StrategyHorizontal = "horizontal-detour"
	StrategyVertical   = "vertical-detour"
	StrategyOffsetPos  = "offset+50"
	StrategyOffsetNeg  = "offset-50"
	StrategyFallback   = "fallback"
)

// Route is the outcome of routing one connector.
type Route struct {
	Points []Point
	// CollisionFree is false only when every strategy collided and the
	// direct path was returned anyway.
	CollisionFree bool
	Strategy      string
}

// candidate proposes a polyline from 'from' to 'to' given the obstacles.
type candidate struct {
	name     string
	generate func(from, to Point, obstacles []Rect) []Point
}

// strategies run in this order; the first collision-free path wins.
var strategies = []candidate{
	{StrategyDirect, func(from, to Point, _ []Rect) []Point { return directPath(from, to) }},
	{StrategyHorizontal, horizontalDetour},
	{StrategyVertical, verticalDetour},
	{StrategyOffsetPos, func(from, to Point, _ []Rect) []Point { return offsetPath(from, to, routeOffset) }},
	{StrategyOffsetNeg, func(from, to Point, _ []Rect) []Point { return offsetPath(from, to, -routeOffset) }},
}

// SmartRouter builds orthogonal connector paths that avoid entity boxes.
type SmartRouter struct {
	bounds []Rect
}

// NewSmartRouter returns a router over the given entity bounds.
func NewSmartRouter(bounds []Rect) *SmartRouter {
	return &SmartRouter{bounds: bounds}
}

// SetBounds replaces the entity bounds used for collision checks.
func (s *SmartRouter) SetBounds(bounds []Rect) {
	s.bounds = bounds
}

// CreatePolylinePath returns the path string for a connector from 'from' to 'to'.
func (s *SmartRouter) CreatePolylinePath(from, to Point) string {
	return PointsToPathString(s.FindSmartPath(from, to))
}

// FindSmartPath returns the polyline for a connector from 'from' to 'to'.
func (s *SmartRouter) FindSmartPath(from, to Point) []Point {
	return s.Route(from, to).Points
}

// Route tries each strategy in order. Candidates are shaped around the other
// boxes only. The connector's own boxes, those containing an anchor, still
// count as collisions when a path enters their interior; touching their
// border at the anchor is allowed.
func (s *SmartRouter) Route(from, to Point) Route {
	blockers, collisions := s.obstaclesFor(from, to)

	for _, c := range strategies {
		pts := c.generate(from, to, blockers)
		if !PathIntersectsAnyRect(pts, collisions) {
			return Route{Points: pts, CollisionFree: true, Strategy: c.name}
		}
	}

	return Route{Points: directPath(from, to), CollisionFree: false, Strategy: StrategyFallback}
}

// obstaclesFor splits the bounds into the boxes a route is shaped around and
// the full collision set, in which own boxes are replaced by their interior.
func (s *SmartRouter) obstaclesFor(from, to Point) (blockers, collisions []Rect) {
	blockers = make([]Rect, 0, len(s.bounds))
	collisions = make([]Rect, 0, len(s.bounds))
	for _, r := range s.bounds {
		if PointInRect(from, r) || PointInRect(to, r) {
			if inner, ok := r.Inset(ownBoxInset); ok {
				collisions = append(collisions, inner)
			}
			continue
		}
		blockers = append(blockers, r)
		collisions = append(collisions, r)
	}
	return blockers, collisions
}

// directPath bends once at the horizontal midpoint.
func directPath(from, to Point) []Point {
	midX := (from.X + to.X) / 2
	return []Point{
		from,
		{X: midX, Y: from.Y},
		{X: midX, Y: to.Y},
		to,
	}
}

// horizontalDetour moves the vertical leg past every box blocking the first
// horizontal leg.
func horizontalDetour(from, to Point, obstacles []Rect) []Point {
	clearX := (from.X + to.X) / 2
	lo, hi := math.Min(from.X, to.X), math.Max(from.X, to.X)
	rightward := to.X >= from.X

	for _, r := range obstacles {
		if from.Y < r.Top-detourPadding || from.Y > r.Bottom+detourPadding {
			continue
		}
		if r.Right < lo || r.Left > hi {
			continue
		}
		if rightward {
			clearX = math.Max(clearX, r.Right+detourPadding)
		} else {
			clearX = math.Min(clearX, r.Left-detourPadding)
		}
	}

	return []Point{
		from,
		{X: clearX, Y: from.Y},
		{X: clearX, Y: to.Y},
		to,
	}
}

// verticalDetour leaves the source vertically and crosses over at a Y
// beyond every box blocking that vertical leg.
func verticalDetour(from, to Point, obstacles []Rect) []Point {
	clearY := (from.Y + to.Y) / 2
	lo, hi := math.Min(from.Y, to.Y), math.Max(from.Y, to.Y)
	downward := to.Y >= from.Y

	for _, r := range obstacles {
		if from.X < r.Left-detourPadding || from.X > r.Right+detourPadding {
			continue
		}
		if r.Bottom < lo || r.Top > hi {
			continue
		}
		if downward {
			clearY = math.Max(clearY, r.Bottom+detourPadding)
		} else {
			clearY = math.Min(clearY, r.Top-detourPadding)
		}
	}

	return []Point{
		from,
		{X: from.X, Y: clearY},
		{X: to.X, Y: clearY},
		to,
	}
}

// offsetPath zig-zags through the midpoint shifted by offset on both axes.
func offsetPath(from, to Point, offset float64) []Point {
	midX := (from.X+to.X)/2 + offset
	midY := (from.Y+to.Y)/2 + offset
	return []Point{
		from,
		{X: midX, Y: from.Y},
		{X: midX, Y: midY},
		{X: to.X, Y: midY},
		to,
	}
}
