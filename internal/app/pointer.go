package app

// PointerDown starts a gesture. The secondary button, or the primary button
// while Space is held, pans. Otherwise the primary button places a
// calibration point, grabs an outline vertex under the cursor, or appends a
// vertex to an open outline. Presses made while a pan is in progress are
// ignored until it ends.
func (s *Session) PointerDown(ev PointerEvent) {
	s.mu.Lock()
	if s.pageImage == nil || s.gesture.kind == gesturePan {
		s.mu.Unlock()
		return
	}
	s.gesture.end()

	if ev.Button == ButtonSecondary || (ev.Button == ButtonPrimary && s.spaceHeld) {
		s.gesture = gesture{kind: gesturePan, last: ev.Position}
		s.mu.Unlock()
		return
	}
	if ev.Button != ButtonPrimary {
		s.mu.Unlock()
		return
	}

	p := s.view.CanvasToImage(ev.Position)
	var changed EventType = -1

	switch s.mode {
	case ModeScale:
		s.calib.AddOrResetPoint(p)
		changed = EventCalibrationChanged

	case ModePolygon:
		if i, ok := s.poly.HitTest(p, s.view.HitRadius(s.cfg.HitRadius)); ok {
			if d, ok := s.poly.BeginDrag(i); ok {
				s.gesture = gesture{kind: gestureDrag, last: ev.Position, drag: d}
				changed = EventPolygonChanged
			}
			break
		}
		if s.poly.Append(p, ev.Modifiers.Has(s.cfg.SnapModifier)) {
			changed = EventPolygonChanged
		}
	}
	s.mu.Unlock()

	if changed >= 0 {
		s.Emit(changed, nil)
	}
}

// PointerMove continues the active gesture, if any.
func (s *Session) PointerMove(ev PointerEvent) {
	s.mu.Lock()
	var changed EventType = -1

	switch s.gesture.kind {
	case gesturePan:
		s.view.PanBy(ev.Position.Delta(s.gesture.last))
		s.gesture.last = ev.Position
		changed = EventViewChanged

	case gestureDrag:
		p := s.view.CanvasToImage(ev.Position)
		if s.poly.UpdateDrag(s.gesture.drag, p, ev.Modifiers.Has(s.cfg.SnapModifier)) {
			changed = EventPolygonChanged
		}
		s.gesture.last = ev.Position
	}
	s.mu.Unlock()

	if changed >= 0 {
		s.Emit(changed, nil)
	}
}

// PointerUp ends the active gesture.
func (s *Session) PointerUp(PointerEvent) {
	s.endGesture()
}

// Cancel ends the active gesture without further edits, for focus loss and
// similar interruptions. Space is considered released.
func (s *Session) Cancel() {
	s.mu.Lock()
	s.spaceHeld = false
	s.mu.Unlock()
	s.endGesture()
}

func (s *Session) endGesture() {
	s.mu.Lock()
	wasDrag := s.gesture.kind == gestureDrag
	s.gesture.end()
	s.mu.Unlock()

	if wasDrag {
		s.Emit(EventPolygonChanged, nil)
	}
}

// DoubleClick closes the outline in polygon mode.
func (s *Session) DoubleClick(PointerEvent) {
	if s.Mode() != ModePolygon {
		return
	}
	s.ClosePolygon()
}

// Wheel zooms about the cursor while the zoom modifier is held and pans
// otherwise.
func (s *Session) Wheel(ev WheelEvent) {
	s.mu.Lock()
	if s.pageImage == nil {
		s.mu.Unlock()
		return
	}
	s.view.Wheel(ev.Position, ev.DeltaX, ev.DeltaY, ev.Modifiers.Has(s.cfg.WheelZoomModifier))
	s.mu.Unlock()
	s.Emit(EventViewChanged, nil)
}

// KeyDown handles keyboard shortcuts. It reports whether the key was used.
func (s *Session) KeyDown(ev KeyEvent) bool {
	switch ev.Key {
	case KeySpace:
		s.mu.Lock()
		s.spaceHeld = true
		s.mu.Unlock()
		return true

	case KeyEscape:
		s.Cancel()
		s.Emit(EventCloseRequested, nil)
		return true

	case KeyPageDown, KeyPageUp:
		if s.Status().PageCount <= 1 {
			return false
		}
		var err error
		if ev.Key == KeyPageDown {
			err = s.NextPage()
		} else {
			err = s.PrevPage()
		}
		if err != nil {
			s.log.Warn("page navigation failed", "error", err)
		}
		return true

	case KeyZ:
		if ev.Modifiers.Has(ModCtrl) || ev.Modifiers.Has(ModMeta) {
			s.UndoVertex()
			return true
		}

	case KeyEnter:
		return s.ClosePolygon()

	case KeyR:
		if ev.Modifiers.Has(ModShift) {
			s.Rotate(-1)
		} else {
			s.Rotate(1)
		}
		return true
	}
	return false
}

// KeyUp handles key releases.
func (s *Session) KeyUp(ev KeyEvent) {
	if ev.Key != KeySpace {
		return
	}
	s.mu.Lock()
	s.spaceHeld = false
	s.mu.Unlock()
}

// Panning reports whether a pan gesture is in progress or armed by Space.
func (s *Session) Panning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.spaceHeld || s.gesture.kind == gesturePan
}
