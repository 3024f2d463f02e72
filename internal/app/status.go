package app

import (
	"plan-measure/internal/area"
)

// Status is a snapshot of everything a host needs to display around the
// canvas.
type Status struct {
	Loaded    bool
	Name      string
	Page      int
	PageCount int

	Mode     Mode
	Zoom     float64
	Rotation int
	Panning  bool
	Dragging bool

	CalibrationPoints   int
	PixelDistance       float64
	RealLength          string
	MetersPerPixel      float64
	MillimetersPerPixel float64

	Vertices   int
	Closed     bool
	// Perimeter is the outline length in metres, 0 without calibration.
	Perimeter  float64
	ManualArea string
	Area       area.Result

	CanClose      bool
	CanUndo       bool
	CanSave       bool
	CanSaveManual bool
}

// Status returns a snapshot of the session.
func (s *Session) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m := s.measure()
	st := Status{
		Loaded:   s.pageImage != nil,
		Page:     s.page,
		Mode:     s.mode,
		Zoom:     s.view.Zoom(),
		Rotation: s.view.Rotation(),
		Panning:  s.spaceHeld || s.gesture.kind == gesturePan,
		Dragging: s.gesture.kind == gestureDrag,

		CalibrationPoints:   s.calib.Len(),
		PixelDistance:       s.calib.PixelDistance(),
		RealLength:          s.calib.RealLength(),
		MetersPerPixel:      s.calib.MetersPerPixel(),
		MillimetersPerPixel: s.calib.MillimetersPerPixel(),

		Vertices:   s.poly.Len(),
		Closed:     s.poly.Closed(),
		Perimeter:  s.poly.PixelPerimeter() * s.calib.MetersPerPixel(),
		ManualArea: s.manualArea,
		Area:       m,

		CanClose:      s.poly.CanClose(),
		CanUndo:       s.poly.CanUndo(),
		CanSave:       m.Rounded() > 0,
		CanSaveManual: m.FromManual() && m.Rounded() > 0,
	}
	if s.doc != nil {
		st.Name = s.doc.Name()
		st.PageCount = s.doc.PageCount()
	}
	return st
}
