package layout

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// parallelEpsilon is the denominator below which two segments are treated as parallel.
const parallelEpsilon = 1e-4

// SegmentsIntersect reports whether segment p1-p2 crosses segment p3-p4.
// Parallel and collinear segments never intersect.
func SegmentsIntersect(p1, p2, p3, p4 Point) bool {
	denom := (p4.Y-p3.Y)*(p2.X-p1.X) - (p4.X-p3.X)*(p2.Y-p1.Y)
	if math.Abs(denom) < parallelEpsilon {
		return false
	}

	ua := ((p4.X-p3.X)*(p1.Y-p3.Y) - (p4.Y-p3.Y)*(p1.X-p3.X)) / denom
	ub := ((p2.X-p1.X)*(p1.Y-p3.Y) - (p2.Y-p1.Y)*(p1.X-p3.X)) / denom

	return ua >= 0 && ua <= 1 && ub >= 0 && ub <= 1
}

// PointInRect reports whether p lies inside r, borders included.
func PointInRect(p Point, r Rect) bool {
	return p.X >= r.Left && p.X <= r.Right && p.Y >= r.Top && p.Y <= r.Bottom
}

// SegmentIntersectsRect reports whether the segment start-end touches r,
// either by crossing one of its edges or by having an endpoint inside it.
func SegmentIntersectsRect(start, end Point, r Rect) bool {
	if PointInRect(start, r) || PointInRect(end, r) {
		return true
	}

	topLeft := Point{X: r.Left, Y: r.Top}
	topRight := Point{X: r.Right, Y: r.Top}
	bottomLeft := Point{X: r.Left, Y: r.Bottom}
	bottomRight := Point{X: r.Right, Y: r.Bottom}

	return SegmentsIntersect(start, end, topLeft, topRight) ||
		SegmentsIntersect(start, end, topRight, bottomRight) ||
		SegmentsIntersect(start, end, bottomRight, bottomLeft) ||
		SegmentsIntersect(start, end, bottomLeft, topLeft)
}

// PathIntersectsAnyRect reports whether any segment of the polyline touches any rectangle.
func PathIntersectsAnyRect(points []Point, rects []Rect) bool {
	for i := 0; i+1 < len(points); i++ {
		for _, r := range rects {
			if SegmentIntersectsRect(points[i], points[i+1], r) {
				return true
			}
		}
	}
	return false
}

// PointsToPathString renders points as "M x0 y0 L x1 y1 ...".
func PointsToPathString(points []Point) string {
	if len(points) == 0 {
		return ""
	}

	var b strings.Builder
	for i, p := range points {
		if i == 0 {
			b.WriteString("M ")
		} else {
			b.WriteString(" L ")
		}
		b.WriteString(formatCoord(p.X))
		b.WriteByte(' ')
		b.WriteString(formatCoord(p.Y))
	}
	return b.String()
}

// ParsePathString is the inverse of PointsToPathString.
func ParsePathString(path string) ([]Point, error) {
	fields := strings.Fields(path)
	if len(fields) == 0 {
		return nil, nil
	}
	if len(fields)%3 != 0 {
		return nil, fmt.Errorf("malformed path %q: expected command and two coordinates per point", path)
	}

	points := make([]Point, 0, len(fields)/3)
	for i := 0; i < len(fields); i += 3 {
		cmd := fields[i]
		if (i == 0 && cmd != "M") || (i > 0 && cmd != "L") {
			return nil, fmt.Errorf("malformed path %q: unexpected command %q", path, cmd)
		}

		x, err := strconv.ParseFloat(fields[i+1], 64)
		if err != nil {
			return nil, fmt.Errorf("failed to parse x coordinate: %w", err)
		}
		y, err := strconv.ParseFloat(fields[i+2], 64)
		if err != nil {
			return nil, fmt.Errorf("failed to parse y coordinate: %w", err)
		}
		points = append(points, Point{X: x, Y: y})
	}
	return points, nil
}

// formatCoord uses the shortest representation that parses back to the same float.
func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
