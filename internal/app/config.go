package app

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"time"

	"plan-measure/internal/render"
	"plan-measure/internal/viewport"

	"github.com/spf13/viper"
)

// Configuration keys. Environment variables use the PLANMEASURE_ prefix with
// dots replaced by underscores, e.g. PLANMEASURE_VIEW_ZOOM_MAX.
const (
	CfgZoomMin           = "view.zoom_min"
	CfgZoomMax           = "view.zoom_max"
	CfgWheelZoomRate     = "view.wheel_zoom_rate"
	CfgWheelZoomModifier = "view.wheel_zoom_modifier"
	CfgClearOnRotate     = "view.clear_on_rotate"
	CfgHitRadius         = "edit.hit_radius"
	CfgSnapModifier      = "edit.snap_modifier"
	CfgDuplicateWindow   = "results.duplicate_window"
	CfgLineWidth         = "style.line_width"
	CfgHandleRadius      = "style.handle_radius"
	CfgLabelSize         = "style.label_size"
	CfgStyleColors       = "style.colors"
	CfgLogLevel          = "log.level"
	CfgLogFormat         = "log.format"
	CfgWatchPlan         = "plan.watch"
	CfgWatchInterval     = "plan.watch_interval"
)

const envPrefix = "PLANMEASURE"

// Config holds the tunable behaviour of a measuring session.
type Config struct {
	MinZoom       float64
	MaxZoom       float64
	WheelZoomRate float64
	// WheelZoomModifier turns wheel scrolling into zoom while held.
	WheelZoomModifier Modifiers
	// ClearOnRotate discards calibration and outline on rotation instead of
	// keeping them in image space.
	ClearOnRotate bool

	// HitRadius is the vertex grab tolerance in canvas pixels.
	HitRadius    float64
	SnapModifier Modifiers

	// DuplicateWindow suppresses saving the same name and area twice in
	// quick succession.
	DuplicateWindow time.Duration

	Style render.Style

	LogLevel  slog.Level
	LogFormat string

	WatchPlan     bool
	WatchInterval time.Duration
}

// DefaultConfig returns a Config populated with standard defaults.
func DefaultConfig() *Config {
	return &Config{
		MinZoom:           viewport.DefaultMinZoom,
		MaxZoom:           viewport.DefaultMaxZoom,
		WheelZoomRate:     viewport.DefaultWheelZoomRate,
		WheelZoomModifier: ModAlt,
		HitRadius:         8,
		SnapModifier:      ModShift,
		DuplicateWindow:   2 * time.Second,
		Style:             render.DefaultStyle(),
		LogLevel:          slog.LevelInfo,
		LogFormat:         "text",
		WatchInterval:     2 * time.Second,
	}
}

// Validate clamps values to safe ranges. It fails only for settings that
// cannot be repaired.
func (c *Config) Validate() error {
	if c.MinZoom <= 0 {
		c.MinZoom = viewport.DefaultMinZoom
	}
	if c.MaxZoom <= 0 || c.MaxZoom < c.MinZoom {
		return fmt.Errorf("zoom bounds [%g, %g] are inverted", c.MinZoom, c.MaxZoom)
	}
	if c.WheelZoomRate <= 0 {
		c.WheelZoomRate = viewport.DefaultWheelZoomRate
	}
	if c.HitRadius <= 0 {
		c.HitRadius = 8
	}
	if c.DuplicateWindow < 0 {
		c.DuplicateWindow = 0
	}
	if c.Style.LineWidth <= 0 {
		c.Style.LineWidth = 2
	}
	if c.Style.HandleRadius <= 0 {
		c.Style.HandleRadius = 4
	}
	if c.Style.LabelSize <= 0 {
		c.Style.LabelSize = 12
	}
	if c.WatchInterval <= 0 {
		c.WatchInterval = 2 * time.Second
	}
	switch c.LogFormat {
	case "text", "json":
	case "":
		c.LogFormat = "text"
	default:
		return fmt.Errorf("unknown log format %q", c.LogFormat)
	}
	return nil
}

// ViewportOptions returns the viewport settings derived from c.
func (c *Config) ViewportOptions() []viewport.Option {
	return []viewport.Option{
		viewport.WithZoomLimits(c.MinZoom, c.MaxZoom),
		viewport.WithWheelZoomRate(c.WheelZoomRate),
	}
}

// NewViper returns a viper instance primed with defaults and environment
// bindings.
func NewViper() *viper.Viper {
	d := DefaultConfig()
	v := viper.New()
	v.SetDefault(CfgZoomMin, d.MinZoom)
	v.SetDefault(CfgZoomMax, d.MaxZoom)
	v.SetDefault(CfgWheelZoomRate, d.WheelZoomRate)
	v.SetDefault(CfgWheelZoomModifier, "alt")
	v.SetDefault(CfgClearOnRotate, d.ClearOnRotate)
	v.SetDefault(CfgHitRadius, d.HitRadius)
	v.SetDefault(CfgSnapModifier, "shift")
	v.SetDefault(CfgDuplicateWindow, d.DuplicateWindow)
	v.SetDefault(CfgLineWidth, d.Style.LineWidth)
	v.SetDefault(CfgHandleRadius, d.Style.HandleRadius)
	v.SetDefault(CfgLabelSize, d.Style.LabelSize)
	v.SetDefault(CfgLogLevel, "info")
	v.SetDefault(CfgLogFormat, d.LogFormat)
	v.SetDefault(CfgWatchPlan, d.WatchPlan)
	v.SetDefault(CfgWatchInterval, d.WatchInterval)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// LoadConfig reads configuration from path (json, toml or yaml, chosen by
// extension) layered over defaults and environment. A missing file yields
// the defaults; an empty path skips the file entirely.
func LoadConfig(path string) (*Config, error) {
	v := NewViper()
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.Is(err, fs.ErrNotExist) && !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config %s: %w", path, err)
			}
		}
	}
	return FromViper(v)
}

// FromViper builds a validated Config from v.
func FromViper(v *viper.Viper) (*Config, error) {
	c := DefaultConfig()
	c.MinZoom = v.GetFloat64(CfgZoomMin)
	c.MaxZoom = v.GetFloat64(CfgZoomMax)
	c.WheelZoomRate = v.GetFloat64(CfgWheelZoomRate)
	c.ClearOnRotate = v.GetBool(CfgClearOnRotate)
	c.HitRadius = v.GetFloat64(CfgHitRadius)
	c.DuplicateWindow = v.GetDuration(CfgDuplicateWindow)
	c.Style.LineWidth = v.GetFloat64(CfgLineWidth)
	c.Style.HandleRadius = v.GetFloat64(CfgHandleRadius)
	c.Style.LabelSize = v.GetFloat64(CfgLabelSize)
	c.LogFormat = strings.ToLower(v.GetString(CfgLogFormat))
	c.WatchPlan = v.GetBool(CfgWatchPlan)
	c.WatchInterval = v.GetDuration(CfgWatchInterval)

	var err error
	if c.WheelZoomModifier, err = ParseModifier(v.GetString(CfgWheelZoomModifier)); err != nil {
		return nil, fmt.Errorf("%s: %w", CfgWheelZoomModifier, err)
	}
	if c.SnapModifier, err = ParseModifier(v.GetString(CfgSnapModifier)); err != nil {
		return nil, fmt.Errorf("%s: %w", CfgSnapModifier, err)
	}
	if err := c.LogLevel.UnmarshalText([]byte(v.GetString(CfgLogLevel))); err != nil {
		return nil, fmt.Errorf("%s: %w", CfgLogLevel, err)
	}
	if colors := v.GetStringMapString(CfgStyleColors); len(colors) > 0 {
		if c.Style, err = c.Style.WithColors(colors); err != nil {
			return nil, err
		}
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}
