package polygon

import (
	"testing"

	"plan-measure/pkg/geometry"

	"github.com/google/go-cmp/cmp"
)

func square(side float64) *Editor {
	e := New()
	e.Append(geometry.Pt(0, 0), false)
	e.Append(geometry.Pt(side, 0), false)
	e.Append(geometry.Pt(side, side), false)
	e.Append(geometry.Pt(0, side), false)
	return e
}

func TestAppendSnap(t *testing.T) {
	e := New()
	e.Append(geometry.Pt(0, 0), true) // first vertex is never snapped
	e.Append(geometry.Pt(10, 3), true)
	e.Append(geometry.Pt(12, 20), true)
	e.Append(geometry.Pt(40, 21), false)

	want := []geometry.ImagePoint{geometry.Pt(0, 0), geometry.Pt(10, 0), geometry.Pt(10, 20), geometry.Pt(40, 21)}
	if d := cmp.Diff(want, e.Vertices()); d != "" {
		t.Errorf("vertices (-want +got):\n%s", d)
	}
}

func TestClose(t *testing.T) {
	e := New()
	e.Append(geometry.Pt(0, 0), false)
	e.Append(geometry.Pt(1, 0), false)
	if e.Close() || e.Closed() {
		t.Fatal("two-vertex outline must not close")
	}
	e.Append(geometry.Pt(1, 1), false)
	if !e.CanClose() || !e.Close() || !e.Closed() {
		t.Fatal("three-vertex outline should close")
	}
	if e.CanClose() {
		t.Error("closed outline reports CanClose")
	}
	if e.Append(geometry.Pt(5, 5), false) || e.Len() != 3 {
		t.Errorf("append after close changed the outline: %v", e.Vertices())
	}
}

func TestAppendThenHitTest(t *testing.T) {
	e := New()
	p := geometry.Pt(123.5, 77.25)
	e.Append(geometry.Pt(0, 0), false)
	e.Append(p, false)
	for _, r := range []float64{1e-9, 0.5, 8} {
		if i, ok := e.HitTest(p, r); !ok || i != 1 {
			t.Errorf("HitTest radius %v = %d, %v; want 1", r, i, ok)
		}
	}
	if _, ok := e.HitTest(geometry.Pt(50, 50), 2); ok {
		t.Error("HitTest far from vertices reported a hit")
	}
}

func TestUndoLast(t *testing.T) {
	e := New()
	if e.UndoLast() {
		t.Error("undo on empty outline succeeded")
	}
	e.Append(geometry.Pt(0, 0), false)
	e.Append(geometry.Pt(1, 0), false)
	if !e.UndoLast() || e.Len() != 1 {
		t.Errorf("undo: len = %d, want 1", e.Len())
	}

	c := square(2)
	c.Close()
	if c.CanUndo() || c.UndoLast() || c.Len() != 4 {
		t.Error("undo on a closed outline must be a no-op")
	}
}

func TestClear(t *testing.T) {
	e := square(2)
	e.Close()
	e.Clear()
	if e.Len() != 0 || e.Closed() {
		t.Errorf("after Clear: len=%d closed=%v", e.Len(), e.Closed())
	}
	if !e.Append(geometry.Pt(1, 1), false) {
		t.Error("append after Clear failed")
	}
}

func TestPixelArea(t *testing.T) {
	if got := square(200).PixelArea(); got != 40000 {
		t.Errorf("PixelArea = %v, want 40000", got)
	}
	e := New()
	e.Append(geometry.Pt(0, 0), false)
	e.Append(geometry.Pt(50, 50), false)
	if got := e.PixelArea(); got != 0 {
		t.Errorf("PixelArea of two vertices = %v, want 0", got)
	}
}

func TestPixelPerimeter(t *testing.T) {
	e := square(10)
	if got := e.PixelPerimeter(); got != 30 {
		t.Errorf("open perimeter = %v, want 30", got)
	}
	e.Close()
	if got := e.PixelPerimeter(); got != 40 {
		t.Errorf("closed perimeter = %v, want 40", got)
	}
}

func TestDrag(t *testing.T) {
	e := square(10)

	d, ok := e.BeginDrag(2)
	if !ok {
		t.Fatal("BeginDrag failed")
	}
	if a, ok := d.Anchor(); !ok || a != geometry.Pt(10, 0) {
		t.Errorf("anchor = %v, %v; want previous vertex (10,0)", a, ok)
	}

	e.UpdateDrag(d, geometry.Pt(13, 25), false)
	if got := e.Vertices()[2]; got != geometry.Pt(13, 25) {
		t.Errorf("unsnapped drag = %v", got)
	}
	e.UpdateDrag(d, geometry.Pt(13, 25), true)
	if got := e.Vertices()[2]; got != geometry.Pt(10, 25) {
		t.Errorf("snapped drag = %v, want (10,25)", got)
	}

	d.End()
	if e.UpdateDrag(d, geometry.Pt(99, 99), false) {
		t.Error("update after End succeeded")
	}
	if got := e.Vertices()[2]; got != geometry.Pt(10, 25) {
		t.Errorf("vertex moved after End: %v", got)
	}
}

func TestDragFirstVertexAnchorsOnNext(t *testing.T) {
	e := square(10)
	e.Close()
	d, ok := e.BeginDrag(0)
	if !ok {
		t.Fatal("BeginDrag on closed outline failed")
	}
	e.UpdateDrag(d, geometry.Pt(2, 7), true)
	// Anchor is vertex 1 (10,0); |dx|=8 > |dy|=7 snaps horizontally.
	if got := e.Vertices()[0]; got != geometry.Pt(2, 0) {
		t.Errorf("vertex 0 = %v, want (2,0)", got)
	}
}

func TestDragSingleVertexIgnoresSnap(t *testing.T) {
	e := New()
	e.Append(geometry.Pt(5, 5), false)
	d, _ := e.BeginDrag(0)
	if _, ok := d.Anchor(); ok {
		t.Error("single vertex should have no anchor")
	}
	e.UpdateDrag(d, geometry.Pt(8, 9), true)
	if got := e.Vertices()[0]; got != geometry.Pt(8, 9) {
		t.Errorf("vertex = %v, want (8,9)", got)
	}
}

func TestBeginDragOutOfRange(t *testing.T) {
	e := square(1)
	if _, ok := e.BeginDrag(4); ok {
		t.Error("BeginDrag(4) succeeded on 4 vertices")
	}
	if _, ok := e.BeginDrag(-1); ok {
		t.Error("BeginDrag(-1) succeeded")
	}
	var d *DragSession
	if d.Active() {
		t.Error("nil session reports active")
	}
}
