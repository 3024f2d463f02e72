// Package colorutil provides shared color utilities for plan rendering.
package colorutil

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// Palette used by the default render style.
var (
	Slate900 = MustHex("#0f172a") // canvas background, label outline
	Slate400 = MustHex("#94a3b8") // placeholder text
	Slate200 = MustHex("#e2e8f0") // label text
	Cyan400  = MustHex("#22d3ee") // calibration line
	Blue400  = MustHex("#60a5fa") // polygon outline
	Amber500 = MustHex("#f59e0b") // first polygon vertex
)

// ParseHex parses a CSS-style hex colour: #rgb, #rrggbb or #rrggbbaa.
// The leading '#' is optional.
func ParseHex(s string) (color.NRGBA, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	switch len(h) {
	case 3:
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]}) + "ff"
	case 6:
		h += "ff"
	case 8:
	default:
		return color.NRGBA{}, fmt.Errorf("invalid colour %q: want #rgb, #rrggbb or #rrggbbaa", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid colour %q: %w", s, err)
	}
	return color.NRGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}

// MustHex is like ParseHex but panics on malformed input. It is meant for
// package-level colour constants.
func MustHex(s string) color.NRGBA {
	c, err := ParseHex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// WithAlpha returns c with its alpha replaced by a (0.0 - 1.0).
func WithAlpha(c color.NRGBA, a float64) color.NRGBA {
	if a < 0 {
		a = 0
	} else if a > 1 {
		a = 1
	}
	c.A = uint8(a*255 + 0.5)
	return c
}

// Hex formats c as #rrggbb, or #rrggbbaa when it is not opaque.
func Hex(c color.NRGBA) string {
	if c.A == 0xff {
		return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}
