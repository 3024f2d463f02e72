package app

import (
	"image/color"

	"plan-measure/pkg/colorutil"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// PlanTheme is a dark theme matching the canvas palette.
type PlanTheme struct{}

var _ fyne.Theme = (*PlanTheme)(nil)

func (t *PlanTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	switch name {
	case theme.ColorNameBackground:
		return colorutil.Slate900
	case theme.ColorNamePrimary:
		return colorutil.Blue400
	case theme.ColorNameSelection:
		return colorutil.WithAlpha(colorutil.Cyan400, 0.5)
	case theme.ColorNameForeground:
		return colorutil.Slate200
	case theme.ColorNamePlaceHolder:
		return colorutil.Slate400
	default:
		return theme.DefaultTheme().Color(name, theme.VariantDark)
	}
}

func (t *PlanTheme) Font(style fyne.TextStyle) fyne.Resource {
	return theme.DefaultTheme().Font(style)
}

func (t *PlanTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return theme.DefaultTheme().Icon(name)
}

func (t *PlanTheme) Size(name fyne.ThemeSizeName) float32 {
	switch name {
	case theme.SizeNameScrollBar:
		return 12
	default:
		return theme.DefaultTheme().Size(name)
	}
}
