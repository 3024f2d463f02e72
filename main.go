// Package main provides the entry point for the Plan Measure application.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"plan-measure/internal/app"
	"plan-measure/internal/render"
	"plan-measure/internal/version"
	"plan-measure/ui/mainwindow"
	"plan-measure/ui/prefs"

	fyneapp "fyne.io/fyne/v2/app"
)

const (
	appTitle = "Plan Measure"
	appID    = "io.github.planmeasure"
)

func defaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "plan-measure", "config.yaml")
}

func main() {
	configPath := flag.String("config", defaultConfigPath(), "Path to a config file (yaml, json or toml)")
	showVersion := flag.Bool("version", false, "Print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String("plan-measure"))
		return
	}

	cfg, err := app.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	log := app.NewLogger(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	log.Info("starting", "app", appTitle, "version", version.Version, "config", *configPath)

	rasterizer, err := render.NewRasterizer()
	if err != nil {
		log.Error("failed to initialise renderer", "error", err)
		os.Exit(1)
	}

	session := app.NewSession(app.WithConfig(cfg), app.WithLogger(log))
	appPrefs := prefs.Load()

	fyneApp := fyneapp.NewWithID(appID)
	fyneApp.Settings().SetTheme(&app.PlanTheme{})

	win := mainwindow.New(fyneApp, session, rasterizer, appPrefs, log)

	// Handle command line arguments
	if flag.NArg() > 0 {
		win.OpenPath(flag.Arg(0))
	}

	win.ShowAndRun()
}
