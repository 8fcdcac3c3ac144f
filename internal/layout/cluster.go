package layout

import (
	"math"
	"sort"
)

// Grid fallback used when there is no relationship data.
const (
	gridColumns = 4
	gridOriginX = 50
	gridOriginY = 50
	gridStepX   = 200
	gridStepY   = 150
)

// Cluster anchors: two clusters per row.
const (
	clusterOriginX = 100
	clusterOriginY = 100
	clusterStepX   = 600
	clusterStepY   = 400
	clustersPerRow = 2
)

// Fixed patterns for small clusters.
const (
	patternSpacing = 220
	triangleHeight = 190.5 // patternSpacing * sin(60°)
)

// Force relaxation parameters.
const (
	relaxGridSpacing = 320
	relaxMinSpacing  = 280
	relaxIterations  = 100
	relaxRepulsion   = 0.3
	relaxPull        = 0.005
	relaxPullRadius  = 3 * relaxMinSpacing
	relaxDamping     = 0.8
)

// Availability grid scanned when an entity belongs to no cluster.
const (
	spaceCellWidth  = 200
	spaceCellHeight = 150
	spaceGridSize   = 10
)

// ClusteringEngine assigns initial positions to entities, keeping entities
// that are connected by relationships close to each other.
//
// The computed partition is cached until SetERData is called again. An engine
// is not safe for concurrent use.
type ClusteringEngine struct {
	data *ERData

	// clusters and layouts are nil until first requested
	clusters [][]string
	layouts  map[int][]Point
}

// NewClusteringEngine returns an engine with no data.
func NewClusteringEngine() *ClusteringEngine {
	return &ClusteringEngine{}
}

// SetERData replaces the working set and drops every cached result.
func (c *ClusteringEngine) SetERData(data *ERData) {
	c.data = data
	c.clusters = nil
	c.layouts = nil
}

// CalculateClusteredPosition returns a position for entity. indexHint is the
// entity's ordinal and is only used by the grid fallback.
func (c *ClusteringEngine) CalculateClusteredPosition(entity Entity, indexHint int) Point {
	if c.data == nil || len(c.data.Relationships) == 0 {
		return gridPosition(indexHint)
	}

	clusters := c.Clusters()
	for i, cluster := range clusters {
		for j, name := range cluster {
			if name == entity.Name {
				return c.clusterLayout(i)[j]
			}
		}
	}

	return FindAvailableSpace(c.occupiedPositions())
}

// Clusters returns the connected components of the relationship graph,
// largest first. The result is memoized and must not be modified.
func (c *ClusteringEngine) Clusters() [][]string {
	if c.clusters == nil {
		var data ERData
		if c.data != nil {
			data = *c.data
		}
		c.clusters = BuildRelationshipClusters(data)
	}
	return c.clusters
}

func (c *ClusteringEngine) clusterLayout(i int) []Point {
	if c.layouts == nil {
		c.layouts = make(map[int][]Point)
	}
	if pts, ok := c.layouts[i]; ok {
		return pts
	}

	baseX := float64(clusterOriginX + (i%clustersPerRow)*clusterStepX)
	baseY := float64(clusterOriginY + (i/clustersPerRow)*clusterStepY)
	pts := layoutCluster(baseX, baseY, len(c.clusters[i]))
	c.layouts[i] = pts
	return pts
}

func (c *ClusteringEngine) occupiedPositions() []Point {
	var occupied []Point
	for _, e := range c.data.Entities {
		if e.Position != nil {
			occupied = append(occupied, *e.Position)
		}
	}
	return occupied
}

func gridPosition(index int) Point {
	return Point{
		X: float64(gridOriginX + (index%gridColumns)*gridStepX),
		Y: float64(gridOriginY + (index/gridColumns)*gridStepY),
	}
}

// BuildRelationshipClusters partitions the entities of data into connected
// components. Relationships are undirected here and edges that name an
// unknown entity are ignored. Components are sorted by descending size; ties
// keep the order in which their first member appears in data.Entities.
func BuildRelationshipClusters(data ERData) [][]string {
	known := make(map[string]bool, len(data.Entities))
	var names []string
	for _, e := range data.Entities {
		if known[e.Name] {
			continue
		}
		known[e.Name] = true
		names = append(names, e.Name)
	}

	adjacency := make(map[string][]string, len(names))
	for _, r := range data.Relationships {
		if !known[r.FromEntity] || !known[r.ToEntity] || r.FromEntity == r.ToEntity {
			continue
		}
		adjacency[r.FromEntity] = append(adjacency[r.FromEntity], r.ToEntity)
		adjacency[r.ToEntity] = append(adjacency[r.ToEntity], r.FromEntity)
	}

	processed := make(map[string]bool, len(names))
	var clusters [][]string
	for _, name := range names {
		if processed[name] {
			continue
		}
		clusters = append(clusters, findConnectedEntities(name, adjacency, processed))
	}

	sort.SliceStable(clusters, func(i, j int) bool {
		return len(clusters[i]) > len(clusters[j])
	})
	return clusters
}

// findConnectedEntities collects everything reachable from start in
// depth-first preorder, marking each entity as processed.
func findConnectedEntities(start string, adjacency map[string][]string, processed map[string]bool) []string {
	var cluster []string
	stack := []string{start}

	for len(stack) > 0 {
		name := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if processed[name] {
			continue
		}
		processed[name] = true
		cluster = append(cluster, name)

		// Push in reverse so the first neighbor is visited first.
		neighbors := adjacency[name]
		for i := len(neighbors) - 1; i >= 0; i-- {
			if !processed[neighbors[i]] {
				stack = append(stack, neighbors[i])
			}
		}
	}
	return cluster
}

// layoutCluster places n entities around (baseX, baseY).
func layoutCluster(baseX, baseY float64, n int) []Point {
	switch n {
	case 0:
		return nil
	case 1:
		return []Point{{X: baseX, Y: baseY}}
	case 2:
		return []Point{
			{X: baseX, Y: baseY},
			{X: baseX + patternSpacing, Y: baseY},
		}
	case 3:
		return []Point{
			{X: baseX, Y: baseY},
			{X: baseX + patternSpacing, Y: baseY},
			{X: baseX + patternSpacing/2, Y: baseY + triangleHeight},
		}
	case 4:
		return []Point{
			{X: baseX, Y: baseY},
			{X: baseX + patternSpacing, Y: baseY},
			{X: baseX, Y: baseY + patternSpacing},
			{X: baseX + patternSpacing, Y: baseY + patternSpacing},
		}
	default:
		return relaxCluster(baseX, baseY, n)
	}
}

// relaxCluster starts from a square grid and pushes apart nodes closer than
// relaxMinSpacing. Positions are updated in place, so later nodes in an
// iteration see the already-moved earlier ones.
func relaxCluster(baseX, baseY float64, n int) []Point {
	cols := int(math.Ceil(math.Sqrt(float64(n))))
	rows := (n + cols - 1) / cols

	pts := make([]Point, n)
	for i := range pts {
		pts[i] = Point{
			X: baseX + float64(i%cols)*relaxGridSpacing,
			Y: baseY + float64(i/cols)*relaxGridSpacing,
		}
	}

	center := Point{
		X: baseX + float64(cols-1)*relaxGridSpacing/2,
		Y: baseY + float64(rows-1)*relaxGridSpacing/2,
	}

	for iter := 0; iter < relaxIterations; iter++ {
		for i := range pts {
			var fx, fy float64

			for j := range pts {
				if i == j {
					continue
				}
				dx := pts[i].X - pts[j].X
				dy := pts[i].Y - pts[j].Y
				dist := math.Hypot(dx, dy)
				if dist < relaxMinSpacing {
					f := (relaxMinSpacing - dist) / math.Max(dist, 1) * relaxRepulsion
					fx += dx * f
					fy += dy * f
				}
			}

			cx := center.X - pts[i].X
			cy := center.Y - pts[i].Y
			if math.Hypot(cx, cy) > relaxPullRadius {
				fx += cx * relaxPull
				fy += cy * relaxPull
			}

			pts[i].X += fx * relaxDamping
			pts[i].Y += fy * relaxDamping
		}
	}
	return pts
}

// FindAvailableSpace returns the top-left corner of the first cell of a
// 10x10 grid of 200x150 cells that holds none of the occupied positions,
// scanning row by row. When every cell is taken it returns (50, 50).
func FindAvailableSpace(occupied []Point) Point {
	type cell struct{ col, row int }
	taken := make(map[cell]bool, len(occupied))
	for _, p := range occupied {
		taken[cell{
			col: int(math.Floor(p.X / spaceCellWidth)),
			row: int(math.Floor(p.Y / spaceCellHeight)),
		}] = true
	}

	for row := 0; row < spaceGridSize; row++ {
		for col := 0; col < spaceGridSize; col++ {
			if !taken[cell{col: col, row: row}] {
				return Point{X: float64(col * spaceCellWidth), Y: float64(row * spaceCellHeight)}
			}
		}
	}
	return Point{X: gridOriginX, Y: gridOriginY}
}
