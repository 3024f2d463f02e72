// Command measure replays a measurement script against a floor plan and
// reports the calibrated scale and area.
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"plan-measure/internal/app"
	"plan-measure/internal/image"
	"plan-measure/internal/render"
	"plan-measure/internal/version"
	"plan-measure/pkg/geometry"

	"github.com/fogleman/gg"
)

// Report is the outcome of one run.
type Report struct {
	Plan     string `json:"plan"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Page     int    `json:"page"`
	Pages    int    `json:"pages"`
	Rotation int    `json:"rotation"`

	PixelDistance       float64 `json:"pixel_distance"`
	MillimetersPerPixel float64 `json:"mm_per_pixel"`

	Vertices     int     `json:"vertices"`
	Closed       bool    `json:"closed"`
	PixelArea    float64 `json:"pixel_area"`
	SquareMeters float64 `json:"square_meters"`
	Perimeter    float64 `json:"perimeter_m"`
	Manual       bool    `json:"manual"`
	Rounded      int     `json:"rounded"`

	Saved []app.SavedResult `json:"saved,omitempty"`
	Total int               `json:"total"`
}

var errUsage = errors.New("usage")

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, errUsage) {
			fmt.Fprintf(os.Stderr, "measure: %v\n", err)
		}
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("measure", flag.ContinueOnError)
	fs.SetOutput(stderr)
	imagePath := fs.String("image", "", "Path to the floor plan image")
	scriptPath := fs.String("script", "", "Path to the JSON measurement script")
	configPath := fs.String("config", "", "Optional config file (yaml, json or toml)")
	outPath := fs.String("out", "", "Write the rendered canvas to this PNG file")
	width := fs.Int("width", 1200, "Canvas width in pixels")
	height := fs.Int("height", 800, "Canvas height in pixels")
	ratio := fs.Float64("scale", 1, "Pixel ratio of the rendered PNG")
	asJSON := fs.Bool("json", false, "Print the report as JSON")
	verbose := fs.Bool("v", false, "Log session events")
	showVersion := fs.Bool("version", false, "Print version and exit")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	if *showVersion {
		fmt.Fprintln(stdout, version.String("measure"))
		return nil
	}
	if *imagePath == "" {
		fmt.Fprintln(stderr, "Usage: measure -image <plan> [-script <script.json>] [-out render.png] [-json]")
		return errUsage
	}

	cfg, err := app.LoadConfig(*configPath)
	if err != nil {
		return err
	}
	level := cfg.LogLevel
	if *verbose {
		level = slog.LevelDebug
	}
	log := app.NewLogger(stderr, level, cfg.LogFormat)

	doc, err := image.Open(*imagePath)
	if err != nil {
		return err
	}

	s := app.NewSession(app.WithConfig(cfg), app.WithLogger(log))
	s.SetCanvasSize(geometry.NewSize(float64(*width), float64(*height)))
	if err := s.LoadDocument(doc); err != nil {
		return err
	}

	var sc *Script
	if *scriptPath != "" {
		if sc, err = LoadScript(*scriptPath); err != nil {
			return err
		}
		if err := sc.Apply(s); err != nil {
			return err
		}
	}

	rep := buildReport(s, doc)

	if *outPath != "" {
		r, err := render.NewRasterizer()
		if err != nil {
			return err
		}
		img := r.Rasterize(s.DisplayList(), *width, *height, *ratio)
		if err := gg.SavePNG(*outPath, img); err != nil {
			return fmt.Errorf("failed to write %s: %w", *outPath, err)
		}
		log.Info("render written", "path", *outPath)
	}

	// Saving clears the outline, so the report is taken first.
	if sc != nil && sc.Save {
		saveAll(s, rep)
		rep.Saved = s.Results()
		rep.Total = s.TotalArea()
	}

	if *asJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(rep)
	}
	printReport(stdout, rep)
	return nil
}

func buildReport(s *app.Session, doc image.Document) *Report {
	st := s.Status()
	rep := &Report{
		Plan:                st.Name,
		Page:                st.Page,
		Pages:               st.PageCount,
		Rotation:            st.Rotation,
		PixelDistance:       st.PixelDistance,
		MillimetersPerPixel: st.MillimetersPerPixel,
		Vertices:            st.Vertices,
		Closed:              st.Closed,
		PixelArea:           st.Area.PixelArea,
		SquareMeters:        st.Area.Reported(),
		Perimeter:           st.Perimeter,
		Manual:              st.Area.FromManual(),
		Rounded:             st.Area.Rounded(),
		Total:               s.TotalArea(),
	}
	if pg, err := doc.Page(st.Page); err == nil {
		size := image.Size(pg)
		rep.Width, rep.Height = int(size.Width), int(size.Height)
	}
	return rep
}

func saveAll(s *app.Session, rep *Report) {
	if rep.Manual {
		s.SaveManualArea()
		return
	}
	s.SaveResult()
}

func printReport(w io.Writer, rep *Report) {
	fmt.Fprintf(w, "Plan: %s", rep.Plan)
	if rep.Pages > 1 {
		fmt.Fprintf(w, " (page %d of %d)", rep.Page, rep.Pages)
	}
	if rep.Rotation != 0 {
		fmt.Fprintf(w, ", rotated %d°", rep.Rotation*90)
	}
	fmt.Fprintln(w)

	if rep.MillimetersPerPixel > 0 {
		fmt.Fprintf(w, "Scale: %s = %.4f mm/px\n",
			render.LengthLabel(rep.PixelDistance, rep.MillimetersPerPixel), rep.MillimetersPerPixel)
	} else {
		fmt.Fprintln(w, "Scale: not calibrated")
	}

	switch {
	case rep.Manual:
		fmt.Fprintf(w, "Area: %d m² (manual)\n", rep.Rounded)
	case rep.Closed:
		fmt.Fprintf(w, "Area: %.2f m² (%d m²), %d vertices, %.0f px²\n",
			rep.SquareMeters, rep.Rounded, rep.Vertices, rep.PixelArea)
	default:
		fmt.Fprintf(w, "Area: outline open, %d vertices\n", rep.Vertices)
	}
	if rep.Perimeter > 0 && !rep.Manual {
		fmt.Fprintf(w, "Perimeter: %.2f m\n", rep.Perimeter)
	}

	for _, r := range rep.Saved {
		fmt.Fprintf(w, "Saved #%d %s: %d m²\n", r.ID, r.Name, r.Area)
	}
	if len(rep.Saved) > 0 {
		fmt.Fprintf(w, "Total: %d m²\n", rep.Total)
	}
}
