package geometry

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// SignedArea computes the signed polygon area with the shoelace formula.
// The sign reflects the winding order; indices wrap so the last vertex
// connects back to the first.
func SignedArea(polygon []ImagePoint) float64 {
	n := len(polygon)
	var sum float64
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		sum += r2.Cross(Point2D(polygon[i]).vec(), Point2D(polygon[j]).vec())
	}
	return sum / 2
}

// Area returns the absolute shoelace area of the polygon. Fewer than three
// vertices enclose nothing and yield exactly 0. Self-intersecting outlines
// are not rejected; their result is the absolute signed sum, not the true
// covered area.
func Area(polygon []ImagePoint) float64 {
	if len(polygon) < 3 {
		return 0
	}
	return math.Abs(SignedArea(polygon))
}

// HitTest returns the index of the first point within radius of p.
// Ties resolve to the lowest index.
func HitTest(points []ImagePoint, p ImagePoint, radius float64) (int, bool) {
	for i, q := range points {
		if q.Distance(p) <= radius {
			return i, true
		}
	}
	return -1, false
}

// SnapToAxis constrains p so the segment anchor→p is horizontal or vertical,
// whichever the raw segment is closer to. Equal deltas snap horizontally.
func SnapToAxis(p, anchor ImagePoint) ImagePoint {
	dx := p.X - anchor.X
	dy := p.Y - anchor.Y
	if math.Abs(dx) >= math.Abs(dy) {
		return ImagePoint{X: p.X, Y: anchor.Y}
	}
	return ImagePoint{X: anchor.X, Y: p.Y}
}

// Perimeter returns the length of the outline. When closed is true the
// closing edge from the last vertex back to the first is included.
func Perimeter(points []ImagePoint, closed bool) float64 {
	if len(points) < 2 {
		return 0
	}
	var sum float64
	for i := 1; i < len(points); i++ {
		sum += points[i-1].Distance(points[i])
	}
	if closed && len(points) >= 3 {
		sum += points[len(points)-1].Distance(points[0])
	}
	return sum
}
