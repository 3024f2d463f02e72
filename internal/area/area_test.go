package area

import (
	"math"
	"testing"

	"plan-measure/internal/calibration"
	"plan-measure/pkg/geometry"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func squareOf(side float64) []geometry.ImagePoint {
	return []geometry.ImagePoint{
		geometry.Pt(300, 300), geometry.Pt(300+side, 300),
		geometry.Pt(300+side, 300+side), geometry.Pt(300, 300+side),
	}
}

func TestEndToEnd(t *testing.T) {
	line := calibration.New()
	line.AddOrResetPoint(geometry.Pt(100, 100))
	line.AddOrResetPoint(geometry.Pt(1100, 100))
	line.SetRealLength("5000")

	r := Compute(squareOf(200), line.MetersPerPixel(), "")
	want := Result{PixelArea: 40000, MetersPerPixel: 0.005, PhysicalArea: 1}
	if d := cmp.Diff(want, r, cmpopts.EquateApprox(0, 1e-12)); d != "" {
		t.Errorf("Compute (-want +got):\n%s", d)
	}
	if r.Rounded() != 1 {
		t.Errorf("Rounded = %d, want 1", r.Rounded())
	}
}

func TestReportedPrecedence(t *testing.T) {
	cases := []struct {
		name    string
		mpp     float64
		manual  string
		want    float64
		rounded int
		manualQ bool
	}{
		{"computed", 0.01, "", 4, 4, false},
		{"manual wins", 0.01, "57.6", 57.6, 58, true},
		{"manual invalid", 0.01, "abc", 4, 4, false},
		{"manual negative", 0.01, "-3", 4, 4, false},
		{"manual without calibration", 0, "12", 12, 12, true},
		{"nothing", 0, "", 0, 0, false},
		{"infinite ratio", math.Inf(1), "", 0, 0, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			r := Compute(squareOf(200), c.mpp, c.manual)
			if math.Abs(r.Reported()-c.want) > 1e-9 {
				t.Errorf("Reported = %v, want %v", r.Reported(), c.want)
			}
			if r.Rounded() != c.rounded {
				t.Errorf("Rounded = %d, want %d", r.Rounded(), c.rounded)
			}
			if r.FromManual() != c.manualQ {
				t.Errorf("FromManual = %v, want %v", r.FromManual(), c.manualQ)
			}
		})
	}
}

func TestDegenerateOutline(t *testing.T) {
	r := Compute([]geometry.ImagePoint{geometry.Pt(0, 0), geometry.Pt(100, 0)}, 0.01, "")
	if r.PixelArea != 0 || r.PhysicalArea != 0 || r.Rounded() != 0 {
		t.Errorf("two-vertex outline measured %+v", r)
	}
}

func TestRoundingIsStable(t *testing.T) {
	r := Compute(squareOf(150), 0.01, "")
	first := r.Rounded()
	for i := 0; i < 3; i++ {
		if r.Rounded() != first {
			t.Fatal("Rounded is not idempotent")
		}
	}
	if r.PhysicalArea != 2.25 {
		t.Errorf("PhysicalArea = %v; rounding leaked into the stored value", r.PhysicalArea)
	}
	if first != 2 {
		t.Errorf("Rounded = %d, want 2", first)
	}
}

func TestRound(t *testing.T) {
	cases := map[float64]int{0: 0, -4: 0, 0.49: 0, 0.5: 1, 2.5: 3, 99.4999: 99, math.NaN(): 0}
	for in, want := range cases {
		if got := Round(in); got != want {
			t.Errorf("Round(%v) = %d, want %d", in, got, want)
		}
	}
}

func TestTotal(t *testing.T) {
	if got := Total([]float64{12, 30, 7}); got != 49 {
		t.Errorf("Total = %d, want 49", got)
	}
	if got := Total(nil); got != 0 {
		t.Errorf("Total(nil) = %d", got)
	}
}

func TestOversizedAreas(t *testing.T) {
	if r := Compute(nil, 0, "1e19"); r.FromManual() || r.Rounded() != 0 {
		t.Errorf("1e19 override: manual=%v rounded=%d", r.FromManual(), r.Rounded())
	}
	if r := Compute(nil, 0, "1e12"); !r.FromManual() || r.Rounded() != 1e12 {
		t.Errorf("1e12 override: manual=%v rounded=%d", r.FromManual(), r.Rounded())
	}
	for _, v := range []float64{1e19, math.Inf(1), math.MaxFloat64} {
		if got := Round(v); got != MaxArea {
			t.Errorf("Round(%v) = %d, want %d", v, got, int(MaxArea))
		}
	}
}
