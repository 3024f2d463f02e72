package prefs

import (
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "preferences.json")
	p := LoadFrom(path)
	if got := p.Float(KeyWindowWidth, 1280); got != 1280 {
		t.Errorf("fallback = %v", got)
	}

	p.SetFloat(KeyWindowWidth, 1440)
	p.SetString(KeyLastDir, "/plans")
	p.SetBool("flag", true)
	p.AddRecentFile("/plans/a.png")
	p.AddRecentFile("/plans/b.png")
	p.AddRecentFile("/plans/a.png")
	if err := p.Save(); err != nil {
		t.Fatal(err)
	}

	q := LoadFrom(path)
	if q.Float(KeyWindowWidth, 0) != 1440 || q.String(KeyLastDir) != "/plans" || !q.Bool("flag", false) {
		t.Errorf("reloaded values differ: %v %q %v", q.Float(KeyWindowWidth, 0), q.String(KeyLastDir), q.Bool("flag", false))
	}
	if d := cmp.Diff([]string{"/plans/a.png", "/plans/b.png"}, q.RecentFiles()); d != "" {
		t.Errorf("recent files (-want +got):\n%s", d)
	}
}

func TestRecentFilesCapped(t *testing.T) {
	p := LoadFrom(filepath.Join(t.TempDir(), "p.json"))
	for _, name := range []string{"1", "2", "3", "4", "5", "6", "7", "8", "9", "10"} {
		p.AddRecentFile(name)
	}
	got := p.RecentFiles()
	if len(got) != maxRecent || got[0] != "10" {
		t.Errorf("recent = %v", got)
	}
}

func TestSaveIfChanged(t *testing.T) {
	path := filepath.Join(t.TempDir(), "p.json")
	p := LoadFrom(path)
	p.SetString(KeyLastDir, "/x")
	if err := p.SaveIfChanged(); err != nil {
		t.Fatal(err)
	}
	if LoadFrom(path).String(KeyLastDir) != "/x" {
		t.Fatal("SaveIfChanged did not write a dirty value")
	}

	p.SetString(KeyLastDir, "/x")
	p.mu.RLock()
	dirty := p.dirty
	p.mu.RUnlock()
	if dirty {
		t.Error("setting an identical value marked preferences dirty")
	}
}
