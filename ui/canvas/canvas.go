// Package canvas provides the plan canvas: a raster widget that shows the
// session's display list and feeds pointer and wheel input back into it.
package canvas

import (
	"image"
	"image/color"
	"math"
	"sync"

	"plan-measure/internal/app"
	"plan-measure/internal/render"
	"plan-measure/pkg/geometry"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
)

// PlanCanvas displays a measuring session.
type PlanCanvas struct {
	widget.BaseWidget

	session    *app.Session
	rasterizer *render.Rasterizer
	raster     *fynecanvas.Raster

	// Interaction state
	pressed bool
	keys    keyState

	// Last rendered output, written by the raster callback
	outMu      sync.Mutex
	lastOutput *image.RGBA

	// Callbacks
	onPointer func(pos geometry.CanvasPoint) // Cursor position in canvas coordinates
}

var (
	_ desktop.Mouseable   = (*PlanCanvas)(nil)
	_ desktop.Hoverable   = (*PlanCanvas)(nil)
	_ fyne.Scrollable     = (*PlanCanvas)(nil)
	_ fyne.DoubleTappable = (*PlanCanvas)(nil)
	_ fyne.Draggable      = (*PlanCanvas)(nil)
)

// NewPlanCanvas creates a canvas bound to session. The canvas refreshes
// itself whenever the session reports a visible change.
func NewPlanCanvas(session *app.Session, rasterizer *render.Rasterizer) *PlanCanvas {
	pc := &PlanCanvas{
		session:    session,
		rasterizer: rasterizer,
	}
	pc.raster = fynecanvas.NewRaster(pc.draw)
	pc.raster.ScaleMode = fynecanvas.ImageScalePixels
	pc.ExtendBaseWidget(pc)

	for _, ev := range []app.EventType{
		app.EventImageLoaded,
		app.EventPageChanged,
		app.EventViewChanged,
		app.EventCalibrationChanged,
		app.EventPolygonChanged,
		app.EventModeChanged,
	} {
		session.On(ev, func(interface{}) { pc.Refresh() })
	}
	return pc
}

// OnPointer sets a callback invoked with the cursor position on every move.
func (pc *PlanCanvas) OnPointer(cb func(pos geometry.CanvasPoint)) {
	pc.onPointer = cb
}

// LastOutput returns the most recently rendered frame, or nil.
func (pc *PlanCanvas) LastOutput() *image.RGBA {
	pc.outMu.Lock()
	defer pc.outMu.Unlock()
	return pc.lastOutput
}

// draw is the raster drawing function. w and h are in device pixels.
func (pc *PlanCanvas) draw(w, h int) image.Image {
	size := pc.Size()
	if w <= 0 || h <= 0 {
		return image.NewUniform(color.Transparent)
	}
	ratio := 1.0
	if size.Width > 0 {
		ratio = float64(w) / float64(size.Width)
	}
	logicalW := int(math.Round(float64(w) / ratio))
	logicalH := int(math.Round(float64(h) / ratio))

	pc.session.SetCanvasSize(geometry.NewSize(float64(logicalW), float64(logicalH)))
	out := pc.rasterizer.Rasterize(pc.session.DisplayList(), logicalW, logicalH, ratio)
	pc.outMu.Lock()
	pc.lastOutput = out
	pc.outMu.Unlock()
	return out
}

func (pc *PlanCanvas) pointerEvent(ev *desktop.MouseEvent) app.PointerEvent {
	mods := mapModifiers(ev.Modifier)
	pc.keys.sync(mods)
	return app.PointerEvent{
		Position:  canvasPoint(ev.Position),
		Button:    mapButton(ev.Button),
		Modifiers: mods,
	}
}

// MouseDown implements desktop.Mouseable.
func (pc *PlanCanvas) MouseDown(ev *desktop.MouseEvent) {
	pc.pressed = true
	pc.session.PointerDown(pc.pointerEvent(ev))
}

// MouseUp implements desktop.Mouseable.
func (pc *PlanCanvas) MouseUp(ev *desktop.MouseEvent) {
	pc.pressed = false
	pc.session.PointerUp(pc.pointerEvent(ev))
}

// MouseIn implements desktop.Hoverable.
func (pc *PlanCanvas) MouseIn(*desktop.MouseEvent) {}

// MouseMoved implements desktop.Hoverable.
func (pc *PlanCanvas) MouseMoved(ev *desktop.MouseEvent) {
	if pc.onPointer != nil {
		pc.onPointer(canvasPoint(ev.Position))
	}
	if pc.pressed {
		pc.session.PointerMove(pc.pointerEvent(ev))
	}
}

// MouseOut implements desktop.Hoverable.
func (pc *PlanCanvas) MouseOut() {}

// Dragged implements fyne.Draggable. Primary-button drags are delivered here
// rather than through MouseMoved on some drivers.
func (pc *PlanCanvas) Dragged(ev *fyne.DragEvent) {
	pc.session.PointerMove(app.PointerEvent{
		Position:  canvasPoint(ev.Position),
		Button:    app.ButtonPrimary,
		Modifiers: pc.keys.modifiers(),
	})
}

// DragEnd implements fyne.Draggable.
func (pc *PlanCanvas) DragEnd() {
	pc.pressed = false
	pc.session.PointerUp(app.PointerEvent{Button: app.ButtonPrimary})
}

// Scrolled implements fyne.Scrollable. fyne reports wheel-up as a positive
// DY; the session expects the opposite sign.
func (pc *PlanCanvas) Scrolled(ev *fyne.ScrollEvent) {
	pc.session.Wheel(app.WheelEvent{
		Position:  canvasPoint(ev.Position),
		DeltaX:    -float64(ev.Scrolled.DX),
		DeltaY:    -float64(ev.Scrolled.DY),
		Modifiers: pc.keys.modifiers(),
	})
}

// DoubleTapped implements fyne.DoubleTappable.
func (pc *PlanCanvas) DoubleTapped(ev *fyne.PointEvent) {
	pc.session.DoubleClick(app.PointerEvent{
		Position: canvasPoint(ev.Position),
		Button:   app.ButtonPrimary,
	})
}

// CreateRenderer implements fyne.Widget.
func (pc *PlanCanvas) CreateRenderer() fyne.WidgetRenderer {
	return &planCanvasRenderer{canvas: pc}
}

type planCanvasRenderer struct {
	canvas *PlanCanvas
}

func (r *planCanvasRenderer) Layout(size fyne.Size) {
	r.canvas.raster.Resize(size)
}

func (r *planCanvasRenderer) MinSize() fyne.Size {
	return fyne.NewSize(200, 150)
}

func (r *planCanvasRenderer) Refresh() {
	r.canvas.raster.Refresh()
}

func (r *planCanvasRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.canvas.raster}
}

func (r *planCanvasRenderer) Destroy() {}

func canvasPoint(pos fyne.Position) geometry.CanvasPoint {
	return geometry.CanvasPoint{X: float64(pos.X), Y: float64(pos.Y)}
}

func mapButton(b desktop.MouseButton) app.Button {
	switch b {
	case desktop.MouseButtonSecondary:
		return app.ButtonSecondary
	case desktop.MouseButtonTertiary:
		return app.ButtonTertiary
	}
	return app.ButtonPrimary
}

func mapModifiers(m fyne.KeyModifier) app.Modifiers {
	var out app.Modifiers
	if m&fyne.KeyModifierShift != 0 {
		out |= app.ModShift
	}
	if m&fyne.KeyModifierAlt != 0 {
		out |= app.ModAlt
	}
	if m&fyne.KeyModifierControl != 0 {
		out |= app.ModCtrl
	}
	if m&fyne.KeyModifierSuper != 0 {
		out |= app.ModMeta
	}
	return out
}
