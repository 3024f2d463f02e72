package app

import (
	"fmt"
	"strings"

	"plan-measure/internal/polygon"
	"plan-measure/pkg/geometry"
)

// Mode selects what a primary click does on the canvas.
type Mode int

const (
	ModeScale   Mode = iota // clicks place calibration points
	ModePolygon             // clicks add or drag outline vertices
)

func (m Mode) String() string {
	switch m {
	case ModeScale:
		return "scale"
	case ModePolygon:
		return "polygon"
	default:
		return "unknown"
	}
}

// ParseMode is the inverse of Mode.String.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "scale", "calibrate":
		return ModeScale, nil
	case "polygon", "outline":
		return ModePolygon, nil
	}
	return ModeScale, fmt.Errorf("unknown mode %q", s)
}

// Modifiers is a set of held modifier keys.
type Modifiers uint8

const (
	ModShift Modifiers = 1 << iota
	ModAlt
	ModCtrl
	ModMeta
)

// Has reports whether all modifiers in x are held.
func (m Modifiers) Has(x Modifiers) bool {
	return x != 0 && m&x == x
}

// ParseModifier parses a single modifier name.
func ParseModifier(s string) (Modifiers, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "shift":
		return ModShift, nil
	case "alt", "option":
		return ModAlt, nil
	case "ctrl", "control":
		return ModCtrl, nil
	case "meta", "cmd", "super":
		return ModMeta, nil
	}
	return 0, fmt.Errorf("unknown modifier %q", s)
}

// Button identifies a pointer button.
type Button int

const (
	ButtonPrimary Button = iota
	ButtonSecondary
	ButtonTertiary
)

// PointerEvent is a pointer press, move or release in canvas space.
type PointerEvent struct {
	Position  geometry.CanvasPoint
	Button    Button
	Modifiers Modifiers
}

// WheelEvent is a scroll gesture. Deltas follow browser conventions:
// positive DeltaY scrolls down.
type WheelEvent struct {
	Position       geometry.CanvasPoint
	DeltaX, DeltaY float64
	Modifiers      Modifiers
}

// Key identifies the keys the session reacts to.
type Key int

const (
	KeyUnknown Key = iota
	KeySpace
	KeyEscape
	KeyPageUp
	KeyPageDown
	KeyZ
	KeyEnter
	KeyR
)

// KeyEvent is a key press or release.
type KeyEvent struct {
	Key       Key
	Modifiers Modifiers
}

type gestureKind int

const (
	gestureNone gestureKind = iota
	gesturePan
	gestureDrag
)

// gesture is the interaction in progress between pointer down and up.
type gesture struct {
	kind gestureKind
	last geometry.CanvasPoint
	drag *polygon.DragSession
}

func (g *gesture) end() {
	if g.drag != nil {
		g.drag.End()
	}
	*g = gesture{}
}
