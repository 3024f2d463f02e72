// Package area turns a traced outline and a calibration ratio into a
// physical floor area.
package area

import (
	"math"

	"plan-measure/internal/calibration"
	"plan-measure/pkg/geometry"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/floats/scalar"
)

// MaxArea bounds every area this package reports, in square metres. Manual
// overrides above it are ignored and computed areas are capped to it.
const MaxArea = 1e12

// Result is the derived measurement for one outline. All fields are exact;
// rounding happens only in Rounded.
type Result struct {
	// PixelArea is the enclosed area in square image pixels.
	PixelArea float64
	// MetersPerPixel is the calibration ratio the physical area used.
	MetersPerPixel float64
	// PhysicalArea is PixelArea in square metres, 0 without calibration.
	PhysicalArea float64
	// Manual is the parsed manual override, 0 when absent or invalid.
	Manual float64
}

// Compute derives the area of vertices under the given ratio. manualText is
// a user-entered override in square metres; unusable text is ignored.
func Compute(vertices []geometry.ImagePoint, metersPerPixel float64, manualText string) Result {
	r := Result{
		PixelArea: geometry.Area(vertices),
	}
	if v := calibration.ParseQuantity(manualText); v <= MaxArea {
		r.Manual = v
	}
	if metersPerPixel > 0 && !math.IsInf(metersPerPixel, 0) {
		r.MetersPerPixel = metersPerPixel
		r.PhysicalArea = r.PixelArea * metersPerPixel * metersPerPixel
	}
	return r
}

// Reported returns the manual override when present, otherwise the
// physical area, otherwise 0.
func (r Result) Reported() float64 {
	if r.Manual > 0 {
		return r.Manual
	}
	if r.PhysicalArea > 0 {
		return r.PhysicalArea
	}
	return 0
}

// FromManual reports whether Reported comes from the manual override.
func (r Result) FromManual() bool {
	return r.Manual > 0
}

// Rounded returns Reported rounded to the nearest whole square metre.
func (r Result) Rounded() int {
	return Round(r.Reported())
}

// Round rounds a non-negative area to the nearest integer, halves up.
// Values above MaxArea round to MaxArea.
func Round(v float64) int {
	if v <= 0 || math.IsNaN(v) {
		return 0
	}
	return int(scalar.Round(math.Min(v, MaxArea), 0))
}

// Total sums areas and rounds the result.
func Total(areas []float64) int {
	return Round(floats.Sum(areas))
}
