package app

import (
	"fmt"
	"time"

	"plan-measure/internal/area"
)

// SavedResult is one measured area kept for the session summary.
type SavedResult struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	// Area is the rounded reported area in square metres.
	Area int `json:"area_m2"`
	// MillimetersPerPixel is the calibration in effect, 0 when the area was
	// entered manually without one.
	MillimetersPerPixel float64   `json:"scale_mm_per_px,omitempty"`
	SavedAt             time.Time `json:"saved_at"`
}

// resultList stores saved results in insertion order.
type resultList struct {
	items  []SavedResult
	nextID int
	window time.Duration
}

// add appends a result unless an identical name and area was saved within
// the duplicate window.
func (l *resultList) add(name string, areaM2 int, mmPerPx float64, now time.Time) (SavedResult, bool) {
	for _, r := range l.items {
		if r.Name == name && r.Area == areaM2 && now.Sub(r.SavedAt) < l.window {
			return r, false
		}
	}
	l.nextID++
	r := SavedResult{ID: l.nextID, Name: name, Area: areaM2, MillimetersPerPixel: mmPerPx, SavedAt: now}
	l.items = append(l.items, r)
	return r, true
}

func (l *resultList) remove(id int) bool {
	for i, r := range l.items {
		if r.ID == id {
			l.items = append(l.items[:i], l.items[i+1:]...)
			return true
		}
	}
	return false
}

func (l *resultList) list() []SavedResult {
	out := make([]SavedResult, len(l.items))
	copy(out, l.items)
	return out
}

func (l *resultList) total() int {
	areas := make([]float64, len(l.items))
	for i, r := range l.items {
		areas[i] = float64(r.Area)
	}
	return area.Total(areas)
}

// resultName names a saved result after the document, with a page suffix
// for multi-page documents. Unnamed plans are numbered.
func resultName(docName string, page, pages, saved int) string {
	name := docName
	if name == "" {
		name = fmt.Sprintf("Plan %d", saved+1)
	}
	if pages > 1 {
		name += fmt.Sprintf(" (p. %d)", page)
	}
	return name
}
