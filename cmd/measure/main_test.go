package main

import (
	"bytes"
	"encoding/json"
	"errors"
	goimage "image"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// writePlan writes a blank 2000×1000 PNG. On the default 1200×800 canvas
// it is shown at scale 0.6.
func writePlan(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "plan.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, goimage.NewGray(goimage.Rect(0, 0, 2000, 1000))); err != nil {
		t.Fatal(err)
	}
	return path
}

func writeScript(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "script.json")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

const roomScript = `{
  "calibration": [[100, 100], [1100, 100]],
  "real_length": 5000,
  "polygon": [[100, 100], [1100, 100], [1100, 500], [100, 500]],
  "save": true
}`

func runJSON(t *testing.T, args ...string) Report {
	t.Helper()
	var stdout, stderr bytes.Buffer
	if err := run(append(args, "-json"), &stdout, &stderr); err != nil {
		t.Fatalf("run: %v\nstderr: %s", err, stderr.String())
	}
	var rep Report
	if err := json.Unmarshal(stdout.Bytes(), &rep); err != nil {
		t.Fatalf("decode report: %v\n%s", err, stdout.String())
	}
	return rep
}

func TestMeasureRoom(t *testing.T) {
	dir := t.TempDir()
	rep := runJSON(t, "-image", writePlan(t, dir), "-script", writeScript(t, dir, roomScript))

	if rep.Plan != "plan.png" || rep.Width != 2000 || rep.Height != 1000 {
		t.Errorf("plan = %q %dx%d", rep.Plan, rep.Width, rep.Height)
	}
	if math.Abs(rep.PixelDistance-1000) > 1e-6 || math.Abs(rep.MillimetersPerPixel-5) > 1e-6 {
		t.Errorf("scale = %v px, %v mm/px", rep.PixelDistance, rep.MillimetersPerPixel)
	}
	if !rep.Closed || rep.Vertices != 4 {
		t.Errorf("outline closed=%v vertices=%d", rep.Closed, rep.Vertices)
	}
	if math.Abs(rep.Perimeter-14) > 1e-9 {
		t.Errorf("perimeter = %v m, want 14", rep.Perimeter)
	}
	if math.Abs(rep.PixelArea-400000) > 1e-3 || rep.Rounded != 10 {
		t.Errorf("area = %v px², rounded %d", rep.PixelArea, rep.Rounded)
	}
	if len(rep.Saved) != 1 || rep.Saved[0].Name != "plan.png" || rep.Saved[0].Area != 10 || rep.Total != 10 {
		t.Errorf("saved = %+v, total %d", rep.Saved, rep.Total)
	}
}

func TestMeasureManualArea(t *testing.T) {
	dir := t.TempDir()
	script := writeScript(t, dir, `{"manual_area": "42.4", "save": true}`)
	rep := runJSON(t, "-image", writePlan(t, dir), "-script", script)

	if !rep.Manual || rep.Rounded != 42 {
		t.Errorf("manual=%v rounded=%d", rep.Manual, rep.Rounded)
	}
	if rep.Total != 42 {
		t.Errorf("total = %d", rep.Total)
	}
}

func TestMeasureOpenOutline(t *testing.T) {
	dir := t.TempDir()
	script := writeScript(t, dir, `{"polygon": [[0, 0], [500, 0], [500, 500]], "close": false}`)
	rep := runJSON(t, "-image", writePlan(t, dir), "-script", script)
	if rep.Closed || rep.Vertices != 3 || rep.Rounded != 0 {
		t.Errorf("closed=%v vertices=%d rounded=%d", rep.Closed, rep.Vertices, rep.Rounded)
	}
}

func TestTextReport(t *testing.T) {
	dir := t.TempDir()
	var stdout, stderr bytes.Buffer
	err := run([]string{"-image", writePlan(t, dir), "-script", writeScript(t, dir, roomScript)}, &stdout, &stderr)
	if err != nil {
		t.Fatal(err)
	}
	out := stdout.String()
	for _, want := range []string{
		"Plan: plan.png",
		"Scale: 1000.0 px (5000.0 mm) = 5.0000 mm/px",
		"Area: 10.00 m² (10 m²), 4 vertices",
		"Perimeter: 14.00 m",
		"Saved #1 plan.png: 10 m²",
		"Total: 10 m²",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRenderPNG(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "render.png")
	runJSON(t, "-image", writePlan(t, dir), "-script", writeScript(t, dir, roomScript),
		"-out", out, "-width", "300", "-height", "200", "-scale", "2")

	f, err := os.Open(out)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Width != 600 || cfg.Height != 400 {
		t.Errorf("render is %dx%d, want 600x400", cfg.Width, cfg.Height)
	}
}

func TestRunErrors(t *testing.T) {
	dir := t.TempDir()
	plan := writePlan(t, dir)
	cases := map[string][]string{
		"no image":       {},
		"missing image":  {"-image", filepath.Join(dir, "nope.png")},
		"missing script": {"-image", plan, "-script", filepath.Join(dir, "nope.json")},
		"bad script":     {"-image", plan, "-script", writeScript(t, dir, `{"polygon": [1, 2`)},
	}
	for name, args := range cases {
		var stdout, stderr bytes.Buffer
		if err := run(args, &stdout, &stderr); err == nil {
			t.Errorf("%s: expected an error", name)
		}
	}

	var stdout, stderr bytes.Buffer
	if err := run(nil, &stdout, &stderr); !errors.Is(err, errUsage) {
		t.Errorf("no arguments: err = %v, want usage", err)
	}
}

func TestLoadScriptCalibrationCount(t *testing.T) {
	path := writeScript(t, t.TempDir(), `{"calibration": [[0, 0], [1, 1], [2, 2]]}`)
	if _, err := LoadScript(path); err == nil {
		t.Error("three calibration points accepted")
	}
}

func TestVersionFlag(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if err := run([]string{"-version"}, &stdout, &stderr); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(stdout.String(), "measure ") {
		t.Errorf("version output = %q", stdout.String())
	}
}
