// Package viewport maps between canvas space and image space under a
// fit-to-container base scale, user zoom, user pan and 90° rotation steps.
package viewport

import (
	"math"

	"plan-measure/pkg/geometry"
)

// Default zoom limits and wheel response.
const (
	DefaultMinZoom       = 0.2
	DefaultMaxZoom       = 8.0
	DefaultWheelZoomRate = 0.0015
)

// Viewport holds the view state of one canvas showing one image.
// The zero value is not usable; create viewports with New.
type Viewport struct {
	zoom     float64
	pan      geometry.Point2D
	rotation int

	canvas geometry.Size
	image  geometry.Size

	minZoom, maxZoom float64
	wheelRate        float64
}

// Option configures a Viewport.
type Option func(*Viewport)

// WithZoomLimits sets the zoom clamp range used by ZoomAt and SetZoom.
// Invalid ranges are ignored.
func WithZoomLimits(min, max float64) Option {
	return func(v *Viewport) {
		if min > 0 && max >= min {
			v.minZoom, v.maxZoom = min, max
		}
	}
}

// WithWheelZoomRate sets k in the wheel zoom response factor = exp(−Δy·k).
func WithWheelZoomRate(k float64) Option {
	return func(v *Viewport) {
		if k > 0 {
			v.wheelRate = k
		}
	}
}

// New creates a viewport in its reset state.
func New(opts ...Option) *Viewport {
	v := &Viewport{
		zoom:      1,
		minZoom:   DefaultMinZoom,
		maxZoom:   DefaultMaxZoom,
		wheelRate: DefaultWheelZoomRate,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Reset restores zoom 1, zero pan and no rotation.
func (v *Viewport) Reset() {
	v.zoom = 1
	v.pan = geometry.Point2D{}
	v.rotation = 0
}

// SetCanvasSize sets the size of the visible surface in canvas pixels.
func (v *Viewport) SetCanvasSize(size geometry.Size) {
	v.canvas = size
}

// CanvasSize returns the size of the visible surface.
func (v *Viewport) CanvasSize() geometry.Size {
	return v.canvas
}

// SetImageSize sets the unrotated image dimensions in pixels.
func (v *Viewport) SetImageSize(size geometry.Size) {
	v.image = size
}

// ImageSize returns the unrotated image dimensions.
func (v *Viewport) ImageSize() geometry.Size {
	return v.image
}

// Zoom returns the user zoom factor.
func (v *Viewport) Zoom() float64 {
	return v.zoom
}

// SetZoom sets the user zoom factor, clamped to the zoom limits.
func (v *Viewport) SetZoom(zoom float64) {
	if math.IsNaN(zoom) {
		return
	}
	v.zoom = geometry.Clamp(zoom, v.minZoom, v.maxZoom)
}

// Pan returns the pan offset in canvas pixels.
func (v *Viewport) Pan() geometry.Point2D {
	return v.pan
}

// Rotation returns the number of clockwise quarter turns, in [0, 3].
func (v *Viewport) Rotation() int {
	return v.rotation
}

// EffectiveImageSize returns the image size as displayed: width and height
// swap for odd rotation steps.
func (v *Viewport) EffectiveImageSize() geometry.Size {
	if v.rotation%2 == 1 {
		return v.image.Swapped()
	}
	return v.image
}

// FitScale returns the scale that fits the rotated image inside the canvas.
// It is 1 while either size is unknown, so the effective scale stays positive.
func (v *Viewport) FitScale() float64 {
	dims := v.EffectiveImageSize()
	if dims.Empty() || v.canvas.Empty() {
		return 1
	}
	s := math.Min(v.canvas.Width/dims.Width, v.canvas.Height/dims.Height)
	if s <= 0 || math.IsInf(s, 0) || math.IsNaN(s) {
		return 1
	}
	return s
}

// Scale returns the effective scale: fit scale times user zoom.
func (v *Viewport) Scale() float64 {
	return v.FitScale() * v.zoom
}

// Origin returns the canvas position of the rotated image's top-left corner:
// the image is centred in the canvas, then shifted by the pan offset.
func (v *Viewport) Origin() geometry.CanvasPoint {
	return v.originAt(v.Scale(), v.pan)
}

func (v *Viewport) originAt(scale float64, pan geometry.Point2D) geometry.CanvasPoint {
	dims := v.EffectiveImageSize()
	iw, ih := dims.Width, dims.Height
	if iw <= 0 {
		iw = 1
	}
	if ih <= 0 {
		ih = 1
	}
	return geometry.CanvasPoint{
		X: (v.canvas.Width-iw*scale)/2 + pan.X,
		Y: (v.canvas.Height-ih*scale)/2 + pan.Y,
	}
}

// RotationFrame returns the transform from unrotated image space into the
// rotated image frame, whose top-left corner is the displayed top-left.
// It turns the image about its centre.
func (v *Viewport) RotationFrame() geometry.AffineTransform {
	rotated := v.EffectiveImageSize()
	return geometry.Translation(rotated.Width/2, rotated.Height/2).
		Compose(geometry.QuarterTurn(v.rotation)).
		Compose(geometry.Translation(-v.image.Width/2, -v.image.Height/2))
}

// Transform returns the full image→canvas mapping.
func (v *Viewport) Transform() geometry.AffineTransform {
	return v.transformAt(v.Scale(), v.pan)
}

func (v *Viewport) transformAt(scale float64, pan geometry.Point2D) geometry.AffineTransform {
	o := v.originAt(scale, pan)
	return geometry.Translation(o.X, o.Y).
		Compose(geometry.Scale(scale, scale)).
		Compose(v.RotationFrame())
}

// ImageToCanvas converts an image-space point to canvas space.
func (v *Viewport) ImageToCanvas(p geometry.ImagePoint) geometry.CanvasPoint {
	return geometry.CanvasPoint(v.Transform().Apply(p.Vec()))
}

// CanvasToImage converts a canvas-space point to image space.
func (v *Viewport) CanvasToImage(p geometry.CanvasPoint) geometry.ImagePoint {
	inv, ok := v.Transform().Inverse()
	if !ok {
		// Scale is always positive, so this only happens on overflow.
		return geometry.ImagePoint{}
	}
	return geometry.ImagePoint(inv.Apply(p.Vec()))
}

// HitRadius converts a tolerance in canvas pixels to image units, so that
// hit-testing feels the same at every zoom level.
func (v *Viewport) HitRadius(canvasPixels float64) float64 {
	return canvasPixels / v.Scale()
}

// ZoomAt multiplies the zoom by factor (clamped) while keeping the image
// point under cursor fixed on screen.
func (v *Viewport) ZoomAt(cursor geometry.CanvasPoint, factor float64) {
	if factor <= 0 || math.IsNaN(factor) || math.IsInf(factor, 0) {
		return
	}
	before := v.CanvasToImage(cursor)
	v.zoom = geometry.Clamp(v.zoom*factor, v.minZoom, v.maxZoom)

	// Project the same image point at the new scale with the old pan and
	// shift the pan by whatever it drifted.
	projected := geometry.CanvasPoint(v.transformAt(v.Scale(), v.pan).Apply(before.Vec()))
	v.pan = v.pan.Add(cursor.Delta(projected))
}

// PanBy moves the view by delta canvas pixels. Panning is unbounded.
func (v *Viewport) PanBy(delta geometry.Point2D) {
	v.pan = v.pan.Add(delta)
}

// WheelFactor maps a vertical wheel delta to a multiplicative zoom factor.
func (v *Viewport) WheelFactor(deltaY float64) float64 {
	return math.Exp(-deltaY * v.wheelRate)
}

// Wheel applies a wheel gesture at cursor. With the zoom modifier held the
// vertical delta zooms about the cursor; otherwise both axes pan.
func (v *Viewport) Wheel(cursor geometry.CanvasPoint, deltaX, deltaY float64, zoom bool) {
	if zoom {
		v.ZoomAt(cursor, v.WheelFactor(deltaY))
		return
	}
	v.PanBy(geometry.Point2D{X: -deltaX, Y: -deltaY})
}

// Rotate turns the view by steps quarter turns (negative turns
// anticlockwise) and resets zoom and pan so the rotated image is refitted.
func (v *Viewport) Rotate(steps int) {
	v.rotation = (((v.rotation + steps) % 4) + 4) % 4
	v.zoom = 1
	v.pan = geometry.Point2D{}
}
