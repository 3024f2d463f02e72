package main

import (
	"encoding/json"
	"fmt"
	"os"

	"plan-measure/internal/app"
	"plan-measure/pkg/geometry"
)

// Point is an image-space position written as [x, y].
type Point [2]float64

func (p Point) image() geometry.ImagePoint {
	return geometry.Pt(p[0], p[1])
}

// Script describes one measurement in image coordinates. Numbers for the
// real length and manual area may be given as JSON numbers or strings.
type Script struct {
	Page        int         `json:"page,omitempty"`
	Rotation    int         `json:"rotation,omitempty"`
	Calibration []Point     `json:"calibration,omitempty"`
	RealLength  json.Number `json:"real_length,omitempty"`
	Polygon     []Point     `json:"polygon,omitempty"`
	Snap        bool        `json:"snap,omitempty"`
	Close       *bool       `json:"close,omitempty"`
	ManualArea  json.Number `json:"manual_area,omitempty"`
	Save        bool        `json:"save,omitempty"`
}

// LoadScript reads a script from a JSON file.
func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read script: %w", err)
	}
	var sc Script
	if err := json.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("failed to parse script %s: %w", path, err)
	}
	if n := len(sc.Calibration); n != 0 && n != 2 {
		return nil, fmt.Errorf("calibration needs exactly 2 points, got %d", n)
	}
	return &sc, nil
}

// Apply replays the script against a session that already shows a plan.
// Points are clicked through the same pointer path a user would take.
func (sc *Script) Apply(s *app.Session) error {
	if sc.Page > 1 {
		if err := s.GoToPage(sc.Page); err != nil {
			return err
		}
	}
	if sc.Rotation != 0 {
		s.Rotate(sc.Rotation)
	}

	if len(sc.Calibration) > 0 {
		s.SetMode(app.ModeScale)
		for _, p := range sc.Calibration {
			click(s, p, 0)
		}
	}
	if sc.RealLength != "" {
		s.SetRealLength(sc.RealLength.String())
	}

	if len(sc.Polygon) > 0 {
		s.SetMode(app.ModePolygon)
		var mods app.Modifiers
		if sc.Snap {
			mods = s.Config().SnapModifier
		}
		for _, p := range sc.Polygon {
			click(s, p, mods)
		}
		if sc.Close == nil || *sc.Close {
			s.ClosePolygon()
		}
	}

	if sc.ManualArea != "" {
		s.SetManualArea(sc.ManualArea.String())
	}
	return nil
}

func click(s *app.Session, p Point, mods app.Modifiers) {
	ev := app.PointerEvent{
		Position:  s.CanvasAt(p.image()),
		Button:    app.ButtonPrimary,
		Modifiers: mods,
	}
	s.PointerDown(ev)
	s.PointerUp(ev)
}
