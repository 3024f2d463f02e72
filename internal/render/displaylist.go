// Package render turns a measurement scene into a flat list of 2D drawing
// operations and rasterizes such lists.
//
// Build is pure: the same Scene always yields the same DisplayList, so the
// pipeline can be tested without a graphics backend. Coordinates inside a
// Save/Restore block are interpreted under the transforms pushed so far;
// Label and Placeholder are always emitted in untransformed canvas space.
package render

import (
	"image"
	"image/color"

	"plan-measure/pkg/geometry"
)

// Op is one drawing operation.
type Op interface {
	isOp()
}

// DisplayList is an ordered sequence of operations.
type DisplayList []Op

// Clear fills the whole surface with a colour, ignoring transforms.
type Clear struct {
	Color color.Color
}

// Placeholder draws centred text when no plan is loaded.
type Placeholder struct {
	Text  string
	Size  float64
	Color color.Color
}

// Save pushes the current transform.
type Save struct{}

// Restore pops the transform pushed by the matching Save.
type Restore struct{}

// Translate moves the origin.
type Translate struct {
	X, Y float64
}

// Scale scales both axes uniformly.
type Scale struct {
	Factor float64
}

// Rotate turns the coordinate system by Steps quarter turns clockwise
// (y axis pointing down).
type Rotate struct {
	Steps int
}

// DrawImage draws an image with its top-left corner at the current origin.
type DrawImage struct {
	Image image.Image
}

// Path is a polyline. Closed paths are filled (when Fill is non-nil) and
// then stroked.
type Path struct {
	Points []geometry.Point2D
	Closed bool
	Stroke color.Color
	Fill   color.Color
	Width  float64
}

// Handle is a filled vertex marker.
type Handle struct {
	Center geometry.Point2D
	Radius float64
	Color  color.Color
}

// Label is outlined text whose baseline starts at At, in canvas space.
type Label struct {
	At           geometry.CanvasPoint
	Text         string
	Size         float64
	Color        color.Color
	Outline      color.Color
	OutlineWidth float64
}

func (Clear) isOp()       {}
func (Placeholder) isOp() {}
func (Save) isOp()        {}
func (Restore) isOp()     {}
func (Translate) isOp()   {}
func (Scale) isOp()       {}
func (Rotate) isOp()      {}
func (DrawImage) isOp()   {}
func (Path) isOp()        {}
func (Handle) isOp()      {}
func (Label) isOp()       {}
