// Package image loads floor plan documents.
package image

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"plan-measure/pkg/geometry"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

var (
	// ErrUnsupportedFormat is returned for files no registered decoder handles,
	// including PDF, which needs an external rasterizer.
	ErrUnsupportedFormat = errors.New("unsupported plan format")
	// ErrPageOutOfRange is returned by Document.Page for an invalid page number.
	ErrPageOutOfRange = errors.New("page out of range")
)

// Document is a loaded plan. Pages are numbered from 1.
type Document interface {
	Name() string
	PageCount() int
	Page(n int) (image.Image, error)
}

// Raster is a single-page document backed by a decoded bitmap.
type Raster struct {
	name   string
	path   string
	format string
	img    image.Image
}

// NewRaster wraps an already decoded image.
func NewRaster(name string, img image.Image) *Raster {
	return &Raster{name: name, img: img}
}

// Open decodes the file at path. Files without a supported image extension,
// PDF included, are rejected before they are read.
func Open(path string) (*Raster, error) {
	if !IsSupportedFormat(path) {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), ErrUnsupportedFormat)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}

	r, err := Decode(filepath.Base(path), bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	r.path = path
	return r, nil
}

// Decode reads a bitmap in any registered format.
func Decode(name string, rd io.Reader) (*Raster, error) {
	img, format, err := image.Decode(rd)
	if errors.Is(err, image.ErrFormat) {
		return nil, fmt.Errorf("%s: %w", name, ErrUnsupportedFormat)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return &Raster{name: name, format: format, img: img}, nil
}

func (r *Raster) Name() string { return r.name }

func (r *Raster) PageCount() int { return 1 }

func (r *Raster) Page(n int) (image.Image, error) {
	if n != 1 {
		return nil, fmt.Errorf("page %d of 1: %w", n, ErrPageOutOfRange)
	}
	return r.img, nil
}

// Path returns the file the raster was opened from, if any.
func (r *Raster) Path() string { return r.path }

// Format is the decoder name reported by image.Decode.
func (r *Raster) Format() string { return r.format }

// Size returns the pixel dimensions of an image.
func Size(img image.Image) geometry.Size {
	if img == nil {
		return geometry.Size{}
	}
	b := img.Bounds()
	return geometry.NewSize(float64(b.Dx()), float64(b.Dy()))
}

// SupportedFormats returns the list of supported file extensions.
func SupportedFormats() []string {
	return []string{".png", ".jpg", ".jpeg", ".gif", ".bmp", ".tiff", ".tif", ".webp"}
}

// IsSupportedFormat checks if the given path has a supported image format.
func IsSupportedFormat(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, format := range SupportedFormats() {
		if ext == format {
			return true
		}
	}
	return false
}
