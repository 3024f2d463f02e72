package colorutil

import (
	"image/color"
	"testing"
)

func TestParseHex(t *testing.T) {
	cases := []struct {
		in   string
		want color.NRGBA
	}{
		{"#22d3ee", color.NRGBA{R: 0x22, G: 0xd3, B: 0xee, A: 0xff}},
		{"60a5fa", color.NRGBA{R: 0x60, G: 0xa5, B: 0xfa, A: 0xff}},
		{"#fff", color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}},
		{" #60a5fa33 ", color.NRGBA{R: 0x60, G: 0xa5, B: 0xfa, A: 0x33}},
	}
	for _, c := range cases {
		got, err := ParseHex(c.in)
		if err != nil {
			t.Errorf("ParseHex(%q): %v", c.in, err)
			continue
		}
		if got != c.want {
			t.Errorf("ParseHex(%q) = %v, want %v", c.in, got, c.want)
		}
	}

	for _, bad := range []string{"", "#12", "#zzzzzz", "#1234567"} {
		if _, err := ParseHex(bad); err == nil {
			t.Errorf("ParseHex(%q) succeeded", bad)
		}
	}
}

func TestHexRoundTrip(t *testing.T) {
	for _, s := range []string{"#0f172a", "#60a5fa33"} {
		if got := Hex(MustHex(s)); got != s {
			t.Errorf("Hex(MustHex(%q)) = %q", s, got)
		}
	}
}

func TestWithAlpha(t *testing.T) {
	if got := WithAlpha(Blue400, 0.2).A; got != 51 {
		t.Errorf("alpha = %d, want 51", got)
	}
	if got := WithAlpha(Blue400, 7).A; got != 255 {
		t.Errorf("alpha = %d, want 255", got)
	}
}
