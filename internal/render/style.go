package render

import (
	"fmt"
	"image/color"
	"sort"

	"plan-measure/pkg/colorutil"
)

// Style holds the colours and canvas-pixel sizes used by Build. Sizes are
// screen-constant: Build divides them by the effective view scale.
type Style struct {
	Background    color.NRGBA
	Placeholder   color.NRGBA
	Calibration   color.NRGBA
	PolygonStroke color.NRGBA
	PolygonFill   color.NRGBA
	FirstVertex   color.NRGBA
	LabelText     color.NRGBA
	LabelOutline  color.NRGBA

	LineWidth         float64
	HandleRadius      float64
	ActiveHandleScale float64
	LabelSize         float64
	LabelOffset       float64
	LabelOutlineWidth float64
	PlaceholderSize   float64
	PlaceholderText   string
}

// DefaultStyle returns the standard dark palette.
func DefaultStyle() Style {
	return Style{
		Background:    colorutil.Slate900,
		Placeholder:   colorutil.Slate400,
		Calibration:   colorutil.Cyan400,
		PolygonStroke: colorutil.Blue400,
		PolygonFill:   colorutil.WithAlpha(colorutil.Blue400, 0.2),
		FirstVertex:   colorutil.Amber500,
		LabelText:     colorutil.Slate200,
		LabelOutline:  colorutil.Slate900,

		LineWidth:         2,
		HandleRadius:      4,
		ActiveHandleScale: 1.5,
		LabelSize:         12,
		LabelOffset:       6,
		LabelOutlineWidth: 3,
		PlaceholderSize:   16,
		PlaceholderText:   "Open a floor plan to start measuring",
	}
}

// colorSlots maps configuration keys onto style fields.
func (s *Style) colorSlots() map[string]*color.NRGBA {
	return map[string]*color.NRGBA{
		"background":     &s.Background,
		"placeholder":    &s.Placeholder,
		"calibration":    &s.Calibration,
		"polygon_stroke": &s.PolygonStroke,
		"polygon_fill":   &s.PolygonFill,
		"first_vertex":   &s.FirstVertex,
		"label_text":     &s.LabelText,
		"label_outline":  &s.LabelOutline,
	}
}

// WithColors returns a copy of s with the named colours replaced by the
// given hex values. Unknown names and malformed values are errors.
func (s Style) WithColors(colors map[string]string) (Style, error) {
	slots := s.colorSlots()
	names := make([]string, 0, len(colors))
	for name := range colors {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		slot, ok := slots[name]
		if !ok {
			return s, fmt.Errorf("unknown style colour %q", name)
		}
		c, err := colorutil.ParseHex(colors[name])
		if err != nil {
			return s, fmt.Errorf("style colour %s: %w", name, err)
		}
		*slot = c
	}
	return s, nil
}
