// Package app holds the measuring session: the state behind one open plan
// and the input handling that edits it.
package app

import (
	"fmt"
	goimage "image"
	"log/slog"
	"sync"
	"time"

	"plan-measure/internal/area"
	"plan-measure/internal/calibration"
	"plan-measure/internal/image"
	"plan-measure/internal/polygon"
	"plan-measure/internal/render"
	"plan-measure/internal/viewport"
	"plan-measure/pkg/geometry"
)

// EventType identifies different session events.
type EventType int

const (
	EventImageLoaded EventType = iota
	EventPageChanged
	EventViewChanged
	EventCalibrationChanged
	EventPolygonChanged
	EventManualAreaChanged
	EventModeChanged
	EventResultsChanged
	EventCloseRequested
)

// EventListener is called when an event occurs.
type EventListener func(data interface{})

type event struct {
	kind EventType
	data interface{}
}

// Session is the state of one measuring session. All methods are safe for
// concurrent use; listeners run on the caller's goroutine after the session
// lock is released.
type Session struct {
	mu sync.RWMutex

	cfg *Config
	log *slog.Logger
	now func() time.Time

	// Document
	doc       image.Document
	page      int
	pageImage goimage.Image

	// Editing
	view       *viewport.Viewport
	mode       Mode
	calib      *calibration.Line
	poly       *polygon.Editor
	manualArea string
	spaceHeld  bool
	gesture    gesture

	results resultList

	// Event listeners
	listeners map[EventType][]EventListener
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithConfig replaces the default configuration.
func WithConfig(cfg *Config) SessionOption {
	return func(s *Session) {
		if cfg != nil {
			s.cfg = cfg
		}
	}
}

// WithLogger sets the logger for session events.
func WithLogger(l *slog.Logger) SessionOption {
	return func(s *Session) {
		if l != nil {
			s.log = l
		}
	}
}

// WithClock overrides the time source used to stamp saved results.
func WithClock(now func() time.Time) SessionOption {
	return func(s *Session) {
		if now != nil {
			s.now = now
		}
	}
}

// NewSession creates an empty session in calibration mode.
func NewSession(opts ...SessionOption) *Session {
	s := &Session{
		cfg:       DefaultConfig(),
		log:       discardLogger(),
		now:       time.Now,
		calib:     calibration.New(),
		poly:      polygon.New(),
		listeners: make(map[EventType][]EventListener),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.view = viewport.New(s.cfg.ViewportOptions()...)
	s.results.window = s.cfg.DuplicateWindow
	return s
}

// On registers an event listener for the specified event type.
func (s *Session) On(event EventType, listener EventListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners[event] = append(s.listeners[event], listener)
}

// Emit triggers all listeners for the specified event type.
func (s *Session) Emit(event EventType, data interface{}) {
	s.mu.RLock()
	listeners := s.listeners[event]
	s.mu.RUnlock()

	for _, listener := range listeners {
		listener(data)
	}
}

func (s *Session) emitAll(events []event) {
	for _, e := range events {
		s.Emit(e.kind, e.data)
	}
}

// Config returns the session configuration. It must not be modified.
func (s *Session) Config() *Config {
	return s.cfg
}

// LoadDocument makes doc the current plan and shows its first page. All
// editing state and the view, including rotation, start fresh.
func (s *Session) LoadDocument(doc image.Document) error {
	img, err := doc.Page(1)
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", doc.Name(), err)
	}

	s.mu.Lock()
	s.gesture.end()
	s.doc, s.page, s.pageImage = doc, 1, img
	s.view.Reset()
	s.view.SetImageSize(image.Size(img))
	s.calib.Reset()
	s.poly.Clear()
	size := s.view.ImageSize()
	s.mu.Unlock()

	s.log.Info("plan loaded", "name", doc.Name(), "pages", doc.PageCount(),
		"width", size.Width, "height", size.Height)
	s.emitAll([]event{
		{EventImageLoaded, doc.Name()},
		{EventViewChanged, nil},
		{EventCalibrationChanged, nil},
		{EventPolygonChanged, nil},
	})
	return nil
}

// GoToPage shows page n of a multi-page document, clamped to the valid
// range. The outline, calibration, zoom and pan are reset; rotation is kept.
func (s *Session) GoToPage(n int) error {
	s.mu.RLock()
	doc, current := s.doc, s.page
	s.mu.RUnlock()
	if doc == nil {
		return nil
	}

	n = max(1, min(n, doc.PageCount()))
	if n == current {
		return nil
	}
	img, err := doc.Page(n)
	if err != nil {
		s.log.Error("page load failed", "name", doc.Name(), "page", n, "error", err)
		return fmt.Errorf("failed to open page %d: %w", n, err)
	}

	s.mu.Lock()
	if s.doc != doc {
		// Replaced while the page was being decoded.
		s.mu.Unlock()
		return nil
	}
	s.gesture.end()
	s.page, s.pageImage = n, img
	rot := s.view.Rotation()
	s.view.Reset()
	s.view.SetImageSize(image.Size(img))
	s.view.Rotate(rot)
	s.calib.Reset()
	s.poly.Clear()
	s.mu.Unlock()

	s.log.Debug("page changed", "page", n)
	s.emitAll([]event{
		{EventPageChanged, n},
		{EventViewChanged, nil},
		{EventCalibrationChanged, nil},
		{EventPolygonChanged, nil},
	})
	return nil
}

// NextPage moves forward one page.
func (s *Session) NextPage() error {
	s.mu.RLock()
	p := s.page
	s.mu.RUnlock()
	return s.GoToPage(p + 1)
}

// PrevPage moves back one page.
func (s *Session) PrevPage() error {
	s.mu.RLock()
	p := s.page
	s.mu.RUnlock()
	return s.GoToPage(p - 1)
}

// ResetAll unloads the plan and clears every input, keeping saved results.
func (s *Session) ResetAll() {
	s.mu.Lock()
	s.gesture.end()
	s.doc, s.page, s.pageImage = nil, 0, nil
	s.view.Reset()
	s.view.SetImageSize(geometry.Size{})
	s.calib.Reset()
	s.poly.Clear()
	s.manualArea = ""
	s.mu.Unlock()

	s.log.Info("session reset")
	s.emitAll([]event{
		{EventImageLoaded, ""},
		{EventViewChanged, nil},
		{EventCalibrationChanged, nil},
		{EventPolygonChanged, nil},
		{EventManualAreaChanged, ""},
	})
}

// SetCanvasSize records the visible canvas size in canvas pixels.
func (s *Session) SetCanvasSize(size geometry.Size) {
	s.mu.Lock()
	if s.view.CanvasSize() == size {
		s.mu.Unlock()
		return
	}
	s.view.SetCanvasSize(size)
	s.mu.Unlock()
	s.Emit(EventViewChanged, nil)
}

// SetMode switches between calibration and outline editing.
func (s *Session) SetMode(m Mode) {
	s.mu.Lock()
	if s.mode == m {
		s.mu.Unlock()
		return
	}
	s.gesture.end()
	s.mode = m
	s.mu.Unlock()

	s.log.Debug("mode changed", "mode", m)
	s.Emit(EventModeChanged, m)
}

// Mode returns the current editing mode.
func (s *Session) Mode() Mode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mode
}

// SetRealLength stores the user-entered real length of the calibration
// line, in millimetres.
func (s *Session) SetRealLength(text string) {
	s.mu.Lock()
	if s.calib.RealLength() == text {
		s.mu.Unlock()
		return
	}
	s.calib.SetRealLength(text)
	s.mu.Unlock()
	s.Emit(EventCalibrationChanged, nil)
}

// SetManualArea stores a user-entered area override in square metres.
func (s *Session) SetManualArea(text string) {
	s.mu.Lock()
	if s.manualArea == text {
		s.mu.Unlock()
		return
	}
	s.manualArea = text
	s.mu.Unlock()
	s.Emit(EventManualAreaChanged, text)
}

// Rotate turns the view by steps quarter turns clockwise. Zoom and pan are
// reset. Calibration and outline are kept unless the configuration asks to
// clear them.
func (s *Session) Rotate(steps int) {
	s.mu.Lock()
	if s.pageImage == nil {
		s.mu.Unlock()
		return
	}
	s.gesture.end()
	s.view.Rotate(steps)
	rot := s.view.Rotation()
	events := []event{{EventViewChanged, rot}}
	if s.cfg.ClearOnRotate {
		s.calib.Reset()
		s.poly.Clear()
		events = append(events, event{EventCalibrationChanged, nil}, event{EventPolygonChanged, nil})
	}
	s.mu.Unlock()

	s.log.Debug("view rotated", "rotation", rot)
	s.emitAll(events)
}

// ZoomBy zooms about the canvas centre.
func (s *Session) ZoomBy(factor float64) {
	s.mu.Lock()
	c := s.view.CanvasSize()
	s.view.ZoomAt(geometry.CanvasPoint{X: c.Width / 2, Y: c.Height / 2}, factor)
	s.mu.Unlock()
	s.Emit(EventViewChanged, nil)
}

// ResetView restores zoom 1 and no pan, keeping rotation.
func (s *Session) ResetView() {
	s.mu.Lock()
	rot := s.view.Rotation()
	s.view.Reset()
	s.view.Rotate(rot)
	s.mu.Unlock()
	s.Emit(EventViewChanged, nil)
}

// ClosePolygon closes the outline if it has enough vertices.
func (s *Session) ClosePolygon() bool {
	s.mu.Lock()
	ok := s.poly.Close()
	s.mu.Unlock()
	if ok {
		s.Emit(EventPolygonChanged, nil)
	}
	return ok
}

// UndoVertex removes the last vertex of an open outline.
func (s *Session) UndoVertex() bool {
	s.mu.Lock()
	ok := s.poly.UndoLast()
	s.mu.Unlock()
	if ok {
		s.Emit(EventPolygonChanged, nil)
	}
	return ok
}

// ClearPolygon removes the outline.
func (s *Session) ClearPolygon() {
	s.mu.Lock()
	s.gesture.end()
	s.poly.Clear()
	s.mu.Unlock()
	s.Emit(EventPolygonChanged, nil)
}

// ClearCalibration removes the calibration points and real length.
func (s *Session) ClearCalibration() {
	s.mu.Lock()
	s.calib.Reset()
	s.mu.Unlock()
	s.Emit(EventCalibrationChanged, nil)
}

// measure returns the current area result. Callers hold the lock.
func (s *Session) measure() area.Result {
	return area.Compute(s.poly.Vertices(), s.calib.MetersPerPixel(), s.manualArea)
}

// Area returns the current measurement.
func (s *Session) Area() area.Result {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.measure()
}

// SaveResult stores the current rounded area and clears the outline so the
// next room can be traced. It refuses non-positive areas.
func (s *Session) SaveResult() (SavedResult, bool) {
	s.mu.Lock()
	rounded := s.measure().Rounded()
	if rounded <= 0 {
		s.mu.Unlock()
		return SavedResult{}, false
	}
	r, added := s.addResultLocked(rounded)
	s.gesture.end()
	s.poly.Clear()
	s.mu.Unlock()

	events := []event{{EventPolygonChanged, nil}}
	if added {
		s.log.Info("result saved", "name", r.Name, "area_m2", r.Area)
		events = append(events, event{EventResultsChanged, r})
	}
	s.emitAll(events)
	return r, added
}

// SaveManualArea stores the manual area override as a result and clears the
// override.
func (s *Session) SaveManualArea() (SavedResult, bool) {
	s.mu.Lock()
	m := s.measure()
	if !m.FromManual() || m.Rounded() <= 0 {
		s.mu.Unlock()
		return SavedResult{}, false
	}
	r, added := s.addResultLocked(m.Rounded())
	s.manualArea = ""
	s.mu.Unlock()

	events := []event{{EventManualAreaChanged, ""}}
	if added {
		s.log.Info("manual result saved", "name", r.Name, "area_m2", r.Area)
		events = append(events, event{EventResultsChanged, r})
	}
	s.emitAll(events)
	return r, added
}

func (s *Session) addResultLocked(rounded int) (SavedResult, bool) {
	name, pages := "", 0
	if s.doc != nil {
		name, pages = s.doc.Name(), s.doc.PageCount()
	}
	name = resultName(name, s.page, pages, len(s.results.items))
	return s.results.add(name, rounded, s.calib.MillimetersPerPixel(), s.now())
}

// RemoveResult deletes a saved result by ID.
func (s *Session) RemoveResult(id int) bool {
	s.mu.Lock()
	ok := s.results.remove(id)
	s.mu.Unlock()
	if ok {
		s.Emit(EventResultsChanged, nil)
	}
	return ok
}

// Results returns the saved results in the order they were saved.
func (s *Session) Results() []SavedResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.results.list()
}

// TotalArea returns the rounded sum of all saved areas.
func (s *Session) TotalArea() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.results.total()
}

// ImageAt converts a canvas position to image space. It reports false when
// no plan is loaded or the position falls outside the image.
func (s *Session) ImageAt(p geometry.CanvasPoint) (geometry.ImagePoint, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.pageImage == nil {
		return geometry.ImagePoint{}, false
	}
	ip := s.view.CanvasToImage(p)
	size := s.view.ImageSize()
	inside := geometry.Rect{Width: size.Width, Height: size.Height}.Contains(ip.Vec())
	return ip, inside
}

// CanvasAt converts an image position to the canvas position it is shown at.
func (s *Session) CanvasAt(p geometry.ImagePoint) geometry.CanvasPoint {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.view.ImageToCanvas(p)
}

// DisplayList renders the current state into drawing operations.
func (s *Session) DisplayList() render.DisplayList {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sc := render.Scene{
		View:                s.view,
		Style:               s.cfg.Style,
		Calibration:         s.calib.Points(),
		MillimetersPerPixel: s.calib.MillimetersPerPixel(),
		Polygon:             s.poly.Vertices(),
		Closed:              s.poly.Closed(),
		Image:               s.pageImage,
	}
	if s.gesture.kind == gestureDrag && s.gesture.drag.Active() {
		sc.Dragging = true
		sc.ActiveVertex = s.gesture.drag.Index()
	}
	return render.Build(sc)
}
