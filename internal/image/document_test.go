package image

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/tiff"
)

func testImage(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	img.Set(1, 1, color.NRGBA{R: 200, A: 255})
	return img
}

func writeFile(t *testing.T, name string, encode func(*bytes.Buffer) error) string {
	t.Helper()
	var buf bytes.Buffer
	if err := encode(&buf); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestOpenPNG(t *testing.T) {
	path := writeFile(t, "plan.png", func(b *bytes.Buffer) error { return png.Encode(b, testImage(30, 20)) })

	doc, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if doc.Name() != "plan.png" || doc.PageCount() != 1 || doc.Format() != "png" || doc.Path() != path {
		t.Errorf("doc = %q pages=%d format=%q", doc.Name(), doc.PageCount(), doc.Format())
	}
	page, err := doc.Page(1)
	if err != nil {
		t.Fatal(err)
	}
	if s := Size(page); s.Width != 30 || s.Height != 20 {
		t.Errorf("size = %+v", s)
	}
	if _, err := doc.Page(2); !errors.Is(err, ErrPageOutOfRange) {
		t.Errorf("Page(2) err = %v", err)
	}
}

func TestOpenTIFF(t *testing.T) {
	path := writeFile(t, "scan.tif", func(b *bytes.Buffer) error { return tiff.Encode(b, testImage(8, 6), nil) })
	doc, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if doc.Format() != "tiff" {
		t.Errorf("format = %q", doc.Format())
	}
}

func TestOpenUnsupported(t *testing.T) {
	pdf := writeFile(t, "plan.pdf", func(b *bytes.Buffer) error { _, err := b.WriteString("%PDF-1.7"); return err })
	if _, err := Open(pdf); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("pdf err = %v", err)
	}
	dxf := writeFile(t, "plan.dxf", func(b *bytes.Buffer) error { return png.Encode(b, testImage(4, 4)) })
	if _, err := Open(dxf); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("dxf err = %v", err)
	}
	junk := writeFile(t, "plan.png", func(b *bytes.Buffer) error { _, err := b.WriteString("not an image"); return err })
	if _, err := Open(junk); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("junk err = %v", err)
	}
	if _, err := Open(filepath.Join(t.TempDir(), "missing.png")); err == nil || errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("missing file err = %v", err)
	}
}

func TestIsSupportedFormat(t *testing.T) {
	for path, want := range map[string]bool{"a.PNG": true, "b.webp": true, "c.tif": true, "d.pdf": false, "e": false} {
		if got := IsSupportedFormat(path); got != want {
			t.Errorf("IsSupportedFormat(%q) = %v", path, got)
		}
	}
}
