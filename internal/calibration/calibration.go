// Package calibration holds the reference line used to derive a
// pixel-to-physical-length ratio.
package calibration

import (
	"math"
	"strconv"
	"strings"

	"plan-measure/pkg/geometry"
)

// Line is a calibration line: up to two image-space points plus the
// user-entered real length between them, in millimetres.
type Line struct {
	points     []geometry.ImagePoint
	realLength string
}

// New returns an empty calibration line.
func New() *Line {
	return &Line{}
}

// AddOrResetPoint appends p while fewer than two points are set. A click on
// a complete line discards the pair and starts a new line at p.
func (l *Line) AddOrResetPoint(p geometry.ImagePoint) {
	if len(l.points) >= 2 {
		l.points = l.points[:0]
	}
	l.points = append(l.points, p)
}

// Points returns a copy of the stored points.
func (l *Line) Points() []geometry.ImagePoint {
	out := make([]geometry.ImagePoint, len(l.points))
	copy(out, l.points)
	return out
}

// Len returns the number of stored points (0, 1 or 2).
func (l *Line) Len() int {
	return len(l.points)
}

// Complete reports whether both end points are placed.
func (l *Line) Complete() bool {
	return len(l.points) == 2
}

// SetRealLength stores the raw real-length text. It is parsed only when a
// ratio is derived.
func (l *Line) SetRealLength(text string) {
	l.realLength = text
}

// RealLength returns the raw real-length text.
func (l *Line) RealLength() string {
	return l.realLength
}

// RealLengthMM returns the parsed real length in millimetres, or 0 when the
// text is not a positive number.
func (l *Line) RealLengthMM() float64 {
	return ParseQuantity(l.realLength)
}

// Reset clears both points and the real length.
func (l *Line) Reset() {
	l.points = nil
	l.realLength = ""
}

// PixelDistance returns the image-space length of the line, 0 until both
// points are placed.
func (l *Line) PixelDistance() float64 {
	if len(l.points) < 2 {
		return 0
	}
	return l.points[0].Distance(l.points[1])
}

// MetersPerPixel returns the real length of one image pixel in metres.
// It is exactly 0 whenever the pixel distance or the real length is unusable.
func (l *Line) MetersPerPixel() float64 {
	return Ratio(l.PixelDistance(), l.RealLengthMM())
}

// MillimetersPerPixel returns MetersPerPixel in millimetres.
func (l *Line) MillimetersPerPixel() float64 {
	return l.MetersPerPixel() * 1000
}

// Ratio converts a pixel distance and a real length in millimetres into
// metres per pixel. Non-positive or non-finite operands yield 0.
func Ratio(pixelDistance, realLengthMM float64) float64 {
	if !usable(pixelDistance) || !usable(realLengthMM) {
		return 0
	}
	r := (realLengthMM / 1000) / pixelDistance
	if !usable(r) {
		return 0
	}
	return r
}

// ParseQuantity parses user-entered numeric text. Surrounding space is
// ignored and a comma is accepted as the decimal separator. A comma followed
// by exactly three digits reads as thousands grouping and is rejected, as is
// anything that is not a finite positive number; both yield 0.
func ParseQuantity(text string) float64 {
	s := strings.TrimSpace(text)
	if s == "" {
		return 0
	}
	if i := strings.IndexByte(s, ','); i >= 0 && !strings.Contains(s, ".") {
		if grouped(s[i+1:]) {
			return 0
		}
		s = s[:i] + "." + s[i+1:]
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || !usable(v) {
		return 0
	}
	return v
}

// grouped reports whether frac is exactly three digits.
func grouped(frac string) bool {
	if len(frac) != 3 {
		return false
	}
	for _, c := range frac {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

func usable(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}
