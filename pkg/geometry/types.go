// Package geometry provides basic geometric types used throughout the application.
//
// Points exist in two coordinate spaces. ImagePoint is a pixel position in the
// loaded bitmap, unaffected by zoom, pan or rotation. CanvasPoint is a position
// on the visible viewport surface. The two are distinct types so a value can
// only cross between spaces through an explicit viewport conversion.
package geometry

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Point2D is an untagged 2D vector, used for deltas, offsets and sizes.
type Point2D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// NewPoint2D creates a new Point2D.
func NewPoint2D(x, y float64) Point2D {
	return Point2D{X: x, Y: y}
}

func (p Point2D) vec() r2.Vec {
	return r2.Vec{X: p.X, Y: p.Y}
}

func fromVec(v r2.Vec) Point2D {
	return Point2D{X: v.X, Y: v.Y}
}

// Distance returns the Euclidean distance to another point.
func (p Point2D) Distance(other Point2D) float64 {
	return r2.Norm(r2.Sub(p.vec(), other.vec()))
}

// Add returns the sum of two points.
func (p Point2D) Add(other Point2D) Point2D {
	return fromVec(r2.Add(p.vec(), other.vec()))
}

// Sub returns the difference of two points.
func (p Point2D) Sub(other Point2D) Point2D {
	return fromVec(r2.Sub(p.vec(), other.vec()))
}

// Scale returns the point scaled by a factor.
func (p Point2D) Scale(factor float64) Point2D {
	return fromVec(r2.Scale(factor, p.vec()))
}

// ImagePoint is a position in image space (pixels of the unrotated bitmap).
type ImagePoint Point2D

// Pt is shorthand for an ImagePoint literal.
func Pt(x, y float64) ImagePoint {
	return ImagePoint{X: x, Y: y}
}

// Vec returns the point as an untagged vector.
func (p ImagePoint) Vec() Point2D {
	return Point2D(p)
}

// Distance returns the Euclidean distance to another image point.
func (p ImagePoint) Distance(other ImagePoint) float64 {
	return Point2D(p).Distance(Point2D(other))
}

// Midpoint returns the point halfway between p and other.
func (p ImagePoint) Midpoint(other ImagePoint) ImagePoint {
	return ImagePoint{X: (p.X + other.X) / 2, Y: (p.Y + other.Y) / 2}
}

// CanvasPoint is a position in canvas space (screen pixels of the viewport).
type CanvasPoint Point2D

// Vec returns the point as an untagged vector.
func (p CanvasPoint) Vec() Point2D {
	return Point2D(p)
}

// Offset returns p moved by delta.
func (p CanvasPoint) Offset(delta Point2D) CanvasPoint {
	return CanvasPoint(Point2D(p).Add(delta))
}

// Delta returns the vector from other to p.
func (p CanvasPoint) Delta(other CanvasPoint) Point2D {
	return Point2D(p).Sub(Point2D(other))
}

// Rect represents a rectangle with floating-point coordinates.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Contains returns true if the point is inside the rectangle.
func (r Rect) Contains(p Point2D) bool {
	return p.X >= r.X && p.X <= r.X+r.Width &&
		p.Y >= r.Y && p.Y <= r.Y+r.Height
}

// Size represents a 2D size.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// NewSize creates a new Size.
func NewSize(width, height float64) Size {
	return Size{Width: width, Height: height}
}

// Empty reports whether either dimension is not positive.
func (s Size) Empty() bool {
	return s.Width <= 0 || s.Height <= 0
}

// Swapped returns the size with width and height exchanged.
func (s Size) Swapped() Size {
	return Size{Width: s.Height, Height: s.Width}
}

// AffineTransform represents a 2x3 affine transformation matrix.
// [a b tx]
// [c d ty]
type AffineTransform struct {
	A, B, TX float64
	C, D, TY float64
}

// Identity returns the identity transform.
func Identity() AffineTransform {
	return AffineTransform{A: 1, D: 1}
}

// Translation returns a translation transform.
func Translation(tx, ty float64) AffineTransform {
	return AffineTransform{A: 1, D: 1, TX: tx, TY: ty}
}

// Scale returns a scaling transform.
func Scale(sx, sy float64) AffineTransform {
	return AffineTransform{A: sx, D: sy}
}

// QuarterTurn returns a rotation by steps×90° around the origin. With the
// y axis pointing down, positive steps turn clockwise on screen. The matrix
// entries are exact so repeated turns do not accumulate error.
func QuarterTurn(steps int) AffineTransform {
	switch ((steps % 4) + 4) % 4 {
	case 1:
		return AffineTransform{A: 0, B: -1, C: 1, D: 0}
	case 2:
		return AffineTransform{A: -1, B: 0, C: 0, D: -1}
	case 3:
		return AffineTransform{A: 0, B: 1, C: -1, D: 0}
	default:
		return Identity()
	}
}

// Apply applies the transform to a point.
func (t AffineTransform) Apply(p Point2D) Point2D {
	return Point2D{
		X: t.A*p.X + t.B*p.Y + t.TX,
		Y: t.C*p.X + t.D*p.Y + t.TY,
	}
}

// Compose returns this transform composed with another (this * other):
// other is applied first.
func (t AffineTransform) Compose(other AffineTransform) AffineTransform {
	return AffineTransform{
		A:  t.A*other.A + t.B*other.C,
		B:  t.A*other.B + t.B*other.D,
		TX: t.A*other.TX + t.B*other.TY + t.TX,
		C:  t.C*other.A + t.D*other.C,
		D:  t.C*other.B + t.D*other.D,
		TY: t.C*other.TX + t.D*other.TY + t.TY,
	}
}

// Inverse returns the inverse transform, if it exists.
func (t AffineTransform) Inverse() (AffineTransform, bool) {
	det := t.A*t.D - t.B*t.C
	if math.Abs(det) < 1e-12 {
		return AffineTransform{}, false
	}

	invDet := 1.0 / det
	return AffineTransform{
		A:  t.D * invDet,
		B:  -t.B * invDet,
		TX: (t.B*t.TY - t.D*t.TX) * invDet,
		C:  -t.C * invDet,
		D:  t.A * invDet,
		TY: (t.C*t.TX - t.A*t.TY) * invDet,
	}, true
}

// Clamp limits v to the closed range [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
