package canvas

import (
	"sync"

	"plan-measure/internal/app"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
)

// keyState tracks held modifier keys. fyne key and scroll events carry no
// modifier state of their own.
type keyState struct {
	mu   sync.Mutex
	held app.Modifiers
}

func (k *keyState) modifiers() app.Modifiers {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.held
}

// sync replaces the held set with the modifiers reported by a mouse event.
func (k *keyState) sync(m app.Modifiers) {
	k.mu.Lock()
	k.held = m
	k.mu.Unlock()
}

// press records a key going down and returns it with the modifiers held at
// that moment.
func (k *keyState) press(name fyne.KeyName) app.KeyEvent {
	k.mu.Lock()
	defer k.mu.Unlock()
	if m := modifierKey(name); m != 0 {
		k.held |= m
	}
	return app.KeyEvent{Key: mapKey(name), Modifiers: k.held}
}

func (k *keyState) release(name fyne.KeyName) app.KeyEvent {
	k.mu.Lock()
	defer k.mu.Unlock()
	if m := modifierKey(name); m != 0 {
		k.held &^= m
	}
	return app.KeyEvent{Key: mapKey(name), Modifiers: k.held}
}

func modifierKey(name fyne.KeyName) app.Modifiers {
	switch name {
	case desktop.KeyShiftLeft, desktop.KeyShiftRight:
		return app.ModShift
	case desktop.KeyAltLeft, desktop.KeyAltRight:
		return app.ModAlt
	case desktop.KeyControlLeft, desktop.KeyControlRight:
		return app.ModCtrl
	case desktop.KeySuperLeft, desktop.KeySuperRight:
		return app.ModMeta
	}
	return 0
}

func mapKey(name fyne.KeyName) app.Key {
	switch name {
	case fyne.KeySpace:
		return app.KeySpace
	case fyne.KeyEscape:
		return app.KeyEscape
	case fyne.KeyPageUp:
		return app.KeyPageUp
	case fyne.KeyPageDown:
		return app.KeyPageDown
	case fyne.KeyZ:
		return app.KeyZ
	case fyne.KeyReturn, fyne.KeyEnter:
		return app.KeyEnter
	case fyne.KeyR:
		return app.KeyR
	}
	return app.KeyUnknown
}

// KeyDown forwards a window-level key press to the session. It reports
// whether the session used the key.
func (pc *PlanCanvas) KeyDown(ev *fyne.KeyEvent) bool {
	return pc.session.KeyDown(pc.keys.press(ev.Name))
}

// KeyUp forwards a window-level key release to the session.
func (pc *PlanCanvas) KeyUp(ev *fyne.KeyEvent) {
	pc.session.KeyUp(pc.keys.release(ev.Name))
}
