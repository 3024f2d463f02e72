package app

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"plan-measure/pkg/colorutil"

	"github.com/google/go-cmp/cmp"
)

func writeConfig(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	for _, path := range []string{"", filepath.Join(t.TempDir(), "absent.yaml")} {
		cfg, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("LoadConfig(%q): %v", path, err)
		}
		if d := cmp.Diff(DefaultConfig(), cfg); d != "" {
			t.Errorf("LoadConfig(%q) differs from defaults (-want +got):\n%s", path, d)
		}
	}
}

func TestLoadConfigYAML(t *testing.T) {
	path := writeConfig(t, "plan-measure.yaml", `
view:
  zoom_max: 4
  clear_on_rotate: true
  wheel_zoom_modifier: ctrl
edit:
  hit_radius: 12
results:
  duplicate_window: 5s
style:
  line_width: 3
  colors:
    calibration: "#ff0000"
log:
  level: debug
  format: json
`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}

	want := DefaultConfig()
	want.MaxZoom = 4
	want.ClearOnRotate = true
	want.WheelZoomModifier = ModCtrl
	want.HitRadius = 12
	want.DuplicateWindow = 5 * time.Second
	want.Style.LineWidth = 3
	want.Style.Calibration = colorutil.MustHex("#ff0000")
	want.LogLevel = slog.LevelDebug
	want.LogFormat = "json"
	if d := cmp.Diff(want, cfg); d != "" {
		t.Errorf("config (-want +got):\n%s", d)
	}
}

func TestLoadConfigEnv(t *testing.T) {
	t.Setenv("PLANMEASURE_VIEW_ZOOM_MIN", "0.5")
	t.Setenv("PLANMEASURE_EDIT_SNAP_MODIFIER", "meta")
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.MinZoom != 0.5 || cfg.SnapModifier != ModMeta {
		t.Errorf("env not applied: min zoom %v, snap %v", cfg.MinZoom, cfg.SnapModifier)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	cases := map[string]string{
		"inverted.yaml": "view:\n  zoom_min: 5\n  zoom_max: 2\n",
		"modifier.yaml": "view:\n  wheel_zoom_modifier: hyper\n",
		"colour.yaml":   "style:\n  colors:\n    background: blue\n",
		"format.yaml":   "log:\n  format: xml\n",
		"level.yaml":    "log:\n  level: loud\n",
		"broken.yaml":   "view: [unterminated\n",
	}
	for name, body := range cases {
		if _, err := LoadConfig(writeConfig(t, name, body)); err == nil {
			t.Errorf("%s: expected an error", name)
		}
	}
}

func TestValidateRepairs(t *testing.T) {
	c := DefaultConfig()
	c.MinZoom = -1
	c.HitRadius = 0
	c.DuplicateWindow = -time.Second
	c.LogFormat = ""
	if err := c.Validate(); err != nil {
		t.Fatal(err)
	}
	if c.MinZoom != 0.2 || c.HitRadius != 8 || c.DuplicateWindow != 0 || c.LogFormat != "text" {
		t.Errorf("not repaired: %+v", c)
	}
}

func TestSessionUsesConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxZoom = 1.5
	cfg.WheelZoomModifier = ModCtrl
	s := newLoaded(t, WithConfig(cfg))

	s.Wheel(WheelEvent{DeltaY: -100, Modifiers: ModAlt})
	if z := s.Status().Zoom; z != 1 {
		t.Errorf("Alt wheel zoomed to %v with Ctrl configured", z)
	}
	for i := 0; i < 20; i++ {
		s.Wheel(WheelEvent{DeltaY: -500, Modifiers: ModCtrl})
	}
	if z := s.Status().Zoom; z != 1.5 {
		t.Errorf("zoom = %v, want clamp at 1.5", z)
	}
}
