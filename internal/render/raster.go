package render

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"sync"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
)

// Rasterizer executes display lists on a gg context.
type Rasterizer struct {
	mu    sync.Mutex
	ttf   *truetype.Font
	faces map[float64]font.Face
}

// NewRasterizer parses the embedded Go Regular font used for text.
func NewRasterizer() (*Rasterizer, error) {
	f, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %w", err)
	}
	return &Rasterizer{ttf: f, faces: make(map[float64]font.Face)}, nil
}

func (r *Rasterizer) face(size float64) font.Face {
	size = math.Round(size*2) / 2
	if f, ok := r.faces[size]; ok {
		return f
	}
	f := truetype.NewFace(r.ttf, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	r.faces[size] = f
	return f
}

// Rasterize draws list onto a new width×height canvas. pixelRatio scales the
// backing image for high-density displays; coordinates in the list stay in
// logical canvas pixels.
func (r *Rasterizer) Rasterize(list DisplayList, width, height int, pixelRatio float64) *image.RGBA {
	r.mu.Lock()
	defer r.mu.Unlock()

	if pixelRatio <= 0 || math.IsNaN(pixelRatio) || math.IsInf(pixelRatio, 0) {
		pixelRatio = 1
	}
	w := max(1, int(math.Round(float64(width)*pixelRatio)))
	h := max(1, int(math.Round(float64(height)*pixelRatio)))

	dc := gg.NewContext(w, h)
	dc.Scale(pixelRatio, pixelRatio)

	// gg does not transform stroke widths, so track the accumulated scale
	// alongside the context's own Push/Pop stack.
	scale := pixelRatio
	var stack []float64

	for _, op := range list {
		switch op := op.(type) {
		case Clear:
			dc.SetColor(op.Color)
			dc.Clear()

		case Placeholder:
			x, y := dc.TransformPoint(float64(width)/2, float64(height)/2)
			r.text(dc, op.Text, x, y, 0.5, op.Size*scale, op.Color, nil, 0)

		case Save:
			dc.Push()
			stack = append(stack, scale)

		case Restore:
			if len(stack) == 0 {
				continue
			}
			dc.Pop()
			scale = stack[len(stack)-1]
			stack = stack[:len(stack)-1]

		case Translate:
			dc.Translate(op.X, op.Y)

		case Scale:
			dc.Scale(op.Factor, op.Factor)
			scale *= math.Abs(op.Factor)

		case Rotate:
			dc.Rotate(float64(op.Steps) * math.Pi / 2)

		case DrawImage:
			if op.Image != nil {
				dc.DrawImage(op.Image, 0, 0)
			}

		case Path:
			if len(op.Points) == 0 {
				continue
			}
			dc.NewSubPath()
			dc.MoveTo(op.Points[0].X, op.Points[0].Y)
			for _, p := range op.Points[1:] {
				dc.LineTo(p.X, p.Y)
			}
			if op.Closed {
				dc.ClosePath()
				if op.Fill != nil {
					dc.SetColor(op.Fill)
					dc.FillPreserve()
				}
			}
			dc.SetColor(op.Stroke)
			dc.SetLineWidth(op.Width * scale)
			dc.Stroke()

		case Handle:
			dc.DrawCircle(op.Center.X, op.Center.Y, op.Radius)
			dc.SetColor(op.Color)
			dc.Fill()

		case Label:
			x, y := dc.TransformPoint(op.At.X, op.At.Y)
			r.text(dc, op.Text, x, y, 0, op.Size*scale, op.Color, op.Outline, op.OutlineWidth*scale)
		}
	}

	// Unbalanced Save ops leave state on the context; the image is still valid.
	return imageRGBA(dc.Image())
}

// text draws s with its baseline at device coordinates (x, y). ax is the
// horizontal anchor (0 left, 0.5 centre). A non-nil outline is drawn first
// as offset copies around the glyphs.
func (r *Rasterizer) text(dc *gg.Context, s string, x, y, ax, size float64, fill, outline color.Color, outlineWidth float64) {
	if s == "" || size <= 0 {
		return
	}
	dc.Push()
	defer dc.Pop()

	// Glyphs are rendered at device size, not scaled by the context matrix.
	dc.Identity()
	dc.SetFontFace(r.face(size))

	if outline != nil && outlineWidth > 0 {
		d := outlineWidth / 2
		dc.SetColor(outline)
		for i := 0; i < 8; i++ {
			a := float64(i) * math.Pi / 4
			dc.DrawStringAnchored(s, x+d*math.Cos(a), y+d*math.Sin(a), ax, 0)
		}
	}
	dc.SetColor(fill)
	dc.DrawStringAnchored(s, x, y, ax, 0)
}

func imageRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba
	}
	b := img.Bounds()
	out := image.NewRGBA(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			out.Set(x, y, img.At(x, y))
		}
	}
	return out
}
