package render

import (
	"fmt"
	"image"

	"plan-measure/internal/viewport"
	"plan-measure/pkg/geometry"
)

// Scene is everything Build needs to draw one frame. Points are in
// unrotated image space.
type Scene struct {
	View  *viewport.Viewport
	Image image.Image
	Style Style

	Calibration         []geometry.ImagePoint
	MillimetersPerPixel float64

	Polygon []geometry.ImagePoint
	Closed  bool

	// Dragging marks ActiveVertex as the vertex under an active drag.
	Dragging     bool
	ActiveVertex int
}

// Build produces the display list for a scene.
func Build(sc Scene) DisplayList {
	st := sc.Style
	list := DisplayList{Clear{Color: st.Background}}

	if sc.Image == nil || sc.View == nil {
		return append(list, Placeholder{Text: st.PlaceholderText, Size: st.PlaceholderSize, Color: st.Placeholder})
	}

	vp := sc.View
	s := vp.Scale()
	origin := vp.Origin()
	img := vp.ImageSize()
	rotated := vp.EffectiveImageSize()

	list = append(list,
		Save{},
		Translate{X: origin.X, Y: origin.Y},
		Scale{Factor: s},
		Translate{X: rotated.Width / 2, Y: rotated.Height / 2},
		Rotate{Steps: vp.Rotation()},
		Translate{X: -img.Width / 2, Y: -img.Height / 2},
		DrawImage{Image: sc.Image},
	)

	width := st.LineWidth / s
	radius := st.HandleRadius / s

	if len(sc.Calibration) == 2 {
		list = append(list, Path{
			Points: toPoints(sc.Calibration),
			Stroke: st.Calibration,
			Width:  width,
		})
	}
	for _, p := range sc.Calibration {
		list = append(list, Handle{Center: p.Vec(), Radius: radius, Color: st.Calibration})
	}

	if len(sc.Polygon) >= 2 {
		path := Path{
			Points: toPoints(sc.Polygon),
			Closed: sc.Closed,
			Stroke: st.PolygonStroke,
			Width:  width,
		}
		if sc.Closed {
			path.Fill = st.PolygonFill
		}
		list = append(list, path)
	}
	for i, p := range sc.Polygon {
		h := Handle{Center: p.Vec(), Radius: radius, Color: st.PolygonStroke}
		if i == 0 {
			h.Color = st.FirstVertex
		}
		if sc.Dragging && i == sc.ActiveVertex {
			h.Radius *= st.ActiveHandleScale
		}
		list = append(list, h)
	}

	list = append(list, Restore{})

	if len(sc.Calibration) == 2 {
		a, b := sc.Calibration[0], sc.Calibration[1]
		mid := vp.ImageToCanvas(a.Midpoint(b))
		list = append(list, Label{
			At:           mid.Offset(geometry.Point2D{X: st.LabelOffset, Y: -st.LabelOffset}),
			Text:         LengthLabel(a.Distance(b), sc.MillimetersPerPixel),
			Size:         st.LabelSize,
			Color:        st.LabelText,
			Outline:      st.LabelOutline,
			OutlineWidth: st.LabelOutlineWidth,
		})
	}
	return list
}

// LengthLabel formats a calibration length: pixels with one decimal, plus
// millimetres when a ratio is known.
func LengthLabel(pixels, mmPerPixel float64) string {
	text := fmt.Sprintf("%.1f px", pixels)
	if mmPerPixel > 0 {
		text += fmt.Sprintf(" (%.1f mm)", pixels*mmPerPixel)
	}
	return text
}

func toPoints(pts []geometry.ImagePoint) []geometry.Point2D {
	out := make([]geometry.Point2D, len(pts))
	for i, p := range pts {
		out[i] = p.Vec()
	}
	return out
}
