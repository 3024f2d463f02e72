// Package polygon implements the traced-outline editor: vertex placement with
// optional axis snapping, closing, hit-testing and vertex dragging.
package polygon

import (
	"plan-measure/pkg/geometry"
)

// MinClosable is the vertex count needed before an outline can be closed.
const MinClosable = 3

// Editor holds an ordered vertex list in image space. Insertion order is the
// boundary traversal order. Once closed, no vertices may be appended; only
// dragging existing vertices or clearing is possible.
type Editor struct {
	vertices []geometry.ImagePoint
	closed   bool
}

// New returns an empty, open editor.
func New() *Editor {
	return &Editor{}
}

// Append adds p as the next vertex. With snap set and at least one vertex
// present, the new segment is forced horizontal or vertical relative to the
// last vertex. It returns false when the outline is closed.
func (e *Editor) Append(p geometry.ImagePoint, snap bool) bool {
	if e.closed {
		return false
	}
	if snap && len(e.vertices) > 0 {
		p = geometry.SnapToAxis(p, e.vertices[len(e.vertices)-1])
	}
	e.vertices = append(e.vertices, p)
	return true
}

// Close marks the outline closed if it has at least three vertices.
// Otherwise the request is ignored and false is returned.
func (e *Editor) Close() bool {
	if !e.CanClose() {
		return false
	}
	e.closed = true
	return true
}

// CanClose reports whether Close would succeed.
func (e *Editor) CanClose() bool {
	return !e.closed && len(e.vertices) >= MinClosable
}

// Closed reports whether the outline is closed.
func (e *Editor) Closed() bool {
	return e.closed
}

// Len returns the number of vertices.
func (e *Editor) Len() int {
	return len(e.vertices)
}

// Vertices returns a copy of the vertex list.
func (e *Editor) Vertices() []geometry.ImagePoint {
	out := make([]geometry.ImagePoint, len(e.vertices))
	copy(out, e.vertices)
	return out
}

// HitTest returns the index of the first vertex within radius of p.
// The radius is in image units; callers derive it from a screen-space
// tolerance via the viewport scale.
func (e *Editor) HitTest(p geometry.ImagePoint, radius float64) (int, bool) {
	return geometry.HitTest(e.vertices, p, radius)
}

// UndoLast removes the most recent vertex of an open outline.
func (e *Editor) UndoLast() bool {
	if !e.CanUndo() {
		return false
	}
	e.vertices = e.vertices[:len(e.vertices)-1]
	return true
}

// CanUndo reports whether UndoLast would remove a vertex.
func (e *Editor) CanUndo() bool {
	return !e.closed && len(e.vertices) > 0
}

// Clear removes all vertices and reopens the outline.
func (e *Editor) Clear() {
	e.vertices = nil
	e.closed = false
}

// PixelArea returns the enclosed area in square image pixels.
func (e *Editor) PixelArea() float64 {
	return geometry.Area(e.vertices)
}

// PixelPerimeter returns the outline length in image pixels, including the
// closing edge once closed.
func (e *Editor) PixelPerimeter() float64 {
	return geometry.Perimeter(e.vertices, e.closed)
}
