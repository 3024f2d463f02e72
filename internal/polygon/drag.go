package polygon

import "plan-measure/pkg/geometry"

// DragSession tracks one vertex being dragged. It lives between the
// pointer-down that grabbed the vertex and the matching pointer-up and is
// owned by whoever handles input; the editor never stores it.
type DragSession struct {
	index     int
	anchor    geometry.ImagePoint
	hasAnchor bool
	ended     bool
}

// Index returns the index of the dragged vertex.
func (d *DragSession) Index() int {
	return d.index
}

// Anchor returns the neighbour used as the axis-snap reference, if any.
func (d *DragSession) Anchor() (geometry.ImagePoint, bool) {
	return d.anchor, d.hasAnchor
}

// Active reports whether the session still accepts updates.
func (d *DragSession) Active() bool {
	return d != nil && !d.ended
}

// End finishes the session; later updates through it are ignored.
func (d *DragSession) End() {
	if d != nil {
		d.ended = true
	}
}

// BeginDrag starts dragging vertex i. The snap anchor is the previous
// vertex, or the next one when i is the first vertex. Dragging works on
// closed outlines too.
func (e *Editor) BeginDrag(i int) (*DragSession, bool) {
	if i < 0 || i >= len(e.vertices) {
		return nil, false
	}
	d := &DragSession{index: i}
	if len(e.vertices) > 1 {
		ai := i - 1
		if i == 0 {
			ai = 1
		}
		d.anchor = e.vertices[ai]
		d.hasAnchor = true
	}
	return d, true
}

// UpdateDrag moves the dragged vertex to p. With snap set the vertex is
// aligned horizontally or vertically to the session's anchor.
func (e *Editor) UpdateDrag(d *DragSession, p geometry.ImagePoint, snap bool) bool {
	if !d.Active() || d.index >= len(e.vertices) {
		return false
	}
	if snap && d.hasAnchor {
		p = geometry.SnapToAxis(p, d.anchor)
	}
	e.vertices[d.index] = p
	return true
}
