// Package mainwindow provides the main application window.
package mainwindow

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"plan-measure/internal/app"
	"plan-measure/internal/image"
	"plan-measure/internal/render"
	"plan-measure/internal/version"
	"plan-measure/ui/canvas"
	"plan-measure/ui/prefs"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"
)

const (
	defaultWidth  = 1280
	defaultHeight = 800
)

var modeLabels = []string{"Scale", "Polygon"}

// MainWindow is the primary application window.
type MainWindow struct {
	fyne.Window
	app     fyne.App
	session *app.Session
	prefs   *prefs.Prefs
	log     *slog.Logger
	canvas  *canvas.PlanCanvas
	watcher *app.FileWatcher

	// Controls that track session state
	modeGroup    *widget.RadioGroup
	lengthEntry  *widget.Entry
	scaleLabel   *widget.Label
	areaLabel    *widget.Label
	manualEntry  *widget.Entry
	pageLabel    *widget.Label
	prevPageBtn  *widget.Button
	nextPageBtn  *widget.Button
	closeBtn     *widget.Button
	undoBtn      *widget.Button
	saveBtn      *widget.Button
	saveManual   *widget.Button
	resultsList  *widget.List
	totalLabel   *widget.Label
	statusBar    *widget.Label
	results      []app.SavedResult
	recentMenu   *fyne.Menu
	syncingEntry bool
}

// New creates a new main window.
func New(fyneApp fyne.App, session *app.Session, rasterizer *render.Rasterizer, p *prefs.Prefs, log *slog.Logger) *MainWindow {
	win := fyneApp.NewWindow("Plan Measure")

	mw := &MainWindow{
		Window:  win,
		app:     fyneApp,
		session: session,
		prefs:   p,
		log:     log,
		canvas:  canvas.NewPlanCanvas(session, rasterizer),
	}

	mw.setupUI()
	mw.setupMenus()
	mw.setupKeys()
	mw.setupEventHandlers()

	mw.Resize(fyne.NewSize(
		float32(p.Float(prefs.KeyWindowWidth, defaultWidth)),
		float32(p.Float(prefs.KeyWindowHeight, defaultHeight)),
	))
	mw.SetCloseIntercept(mw.onQuit)
	// A release outside the window is never delivered; drop any drag or pan.
	fyneApp.Lifecycle().SetOnExitedForeground(mw.session.Cancel)

	if m, err := app.ParseMode(p.String(prefs.KeyMode)); err == nil {
		session.SetMode(m)
	}
	mw.syncControls()
	return mw
}

// setupUI creates the main UI layout.
func (mw *MainWindow) setupUI() {
	mw.statusBar = widget.NewLabel("Open a floor plan to start measuring")

	toolbar := mw.createToolbar()

	split := container.NewHSplit(mw.createSidePanel(), mw.canvas)
	split.SetOffset(0.25)

	content := container.NewBorder(
		toolbar,                           // top
		container.NewPadded(mw.statusBar), // bottom
		nil,                               // left
		nil,                               // right
		split,                             // center
	)
	mw.SetContent(content)
}

// createToolbar creates the toolbar with file, mode, view and page controls.
func (mw *MainWindow) createToolbar() fyne.CanvasObject {
	mw.modeGroup = widget.NewRadioGroup(modeLabels, func(label string) {
		if m, err := app.ParseMode(label); err == nil {
			mw.session.SetMode(m)
		}
	})
	mw.modeGroup.Horizontal = true
	mw.modeGroup.Required = true

	mw.prevPageBtn = widget.NewButton("<", mw.onPrevPage)
	mw.nextPageBtn = widget.NewButton(">", mw.onNextPage)
	mw.pageLabel = widget.NewLabel("")

	return container.NewHBox(
		widget.NewButton("Open...", mw.onOpen),
		widget.NewSeparator(),
		mw.modeGroup,
		widget.NewSeparator(),
		widget.NewLabel("Zoom:"),
		widget.NewButton("-", func() { mw.session.ZoomBy(1 / 1.25) }),
		widget.NewButton("+", func() { mw.session.ZoomBy(1.25) }),
		widget.NewButton("Reset", mw.session.ResetView),
		widget.NewButton("⟲", func() { mw.session.Rotate(-1) }),
		widget.NewButton("⟳", func() { mw.session.Rotate(1) }),
		widget.NewSeparator(),
		mw.prevPageBtn,
		mw.pageLabel,
		mw.nextPageBtn,
	)
}

// createSidePanel creates the calibration, area and results controls.
func (mw *MainWindow) createSidePanel() fyne.CanvasObject {
	mw.lengthEntry = widget.NewEntry()
	mw.lengthEntry.SetPlaceHolder("Real length (mm)")
	mw.lengthEntry.OnChanged = func(s string) {
		if !mw.syncingEntry {
			mw.session.SetRealLength(s)
		}
	}
	mw.scaleLabel = widget.NewLabel("")

	mw.closeBtn = widget.NewButton("Close", func() { mw.session.ClosePolygon() })
	mw.undoBtn = widget.NewButton("Undo", func() { mw.session.UndoVertex() })
	mw.areaLabel = widget.NewLabel("")

	mw.manualEntry = widget.NewEntry()
	mw.manualEntry.SetPlaceHolder("Manual area (m²)")
	mw.manualEntry.OnChanged = func(s string) {
		if !mw.syncingEntry {
			mw.session.SetManualArea(s)
		}
	}

	mw.saveBtn = widget.NewButton("Save area", mw.onSaveResult)
	mw.saveManual = widget.NewButton("Save manual", mw.onSaveManual)

	mw.resultsList = widget.NewList(
		func() int { return len(mw.results) },
		func() fyne.CanvasObject {
			return container.NewHBox(widget.NewLabel(""), layout.NewSpacer(), widget.NewButton("✕", nil))
		},
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			if id < 0 || id >= len(mw.results) {
				return
			}
			r := mw.results[id]
			row := obj.(*fyne.Container)
			row.Objects[0].(*widget.Label).SetText(fmt.Sprintf("%s: %d m²", r.Name, r.Area))
			row.Objects[2].(*widget.Button).OnTapped = func() { mw.session.RemoveResult(r.ID) }
		},
	)
	mw.totalLabel = widget.NewLabel("")

	calibration := widget.NewCard("Scale", "Click two points of known distance", container.NewVBox(
		mw.lengthEntry,
		mw.scaleLabel,
		widget.NewButton("Clear line", mw.session.ClearCalibration),
	))
	outline := widget.NewCard("Area", "Click the room corners", container.NewVBox(
		container.NewGridWithColumns(3,
			mw.closeBtn,
			mw.undoBtn,
			widget.NewButton("Clear", mw.session.ClearPolygon),
		),
		mw.areaLabel,
		mw.manualEntry,
		container.NewGridWithColumns(2, mw.saveBtn, mw.saveManual),
	))

	top := container.NewVBox(calibration, outline, widget.NewLabel("Saved areas"))
	bottom := container.NewVBox(
		mw.totalLabel,
		widget.NewButton("Reset all", mw.onResetAll),
	)
	return container.NewBorder(top, bottom, nil, nil, mw.resultsList)
}

// setupMenus creates the application menus.
func (mw *MainWindow) setupMenus() {
	mw.recentMenu = fyne.NewMenu("Open Recent")
	mw.rebuildRecent()
	recentItem := fyne.NewMenuItem("Open Recent", nil)
	recentItem.ChildMenu = mw.recentMenu

	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Open Plan...", mw.onOpen),
		recentItem,
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Reset All", mw.onResetAll),
	)

	editMenu := fyne.NewMenu("Edit",
		fyne.NewMenuItem("Undo Vertex", func() { mw.session.UndoVertex() }),
		fyne.NewMenuItem("Close Outline", func() { mw.session.ClosePolygon() }),
		fyne.NewMenuItem("Clear Outline", mw.session.ClearPolygon),
		fyne.NewMenuItem("Clear Scale Line", mw.session.ClearCalibration),
	)

	viewMenu := fyne.NewMenu("View",
		fyne.NewMenuItem("Zoom In", func() { mw.session.ZoomBy(1.25) }),
		fyne.NewMenuItem("Zoom Out", func() { mw.session.ZoomBy(1 / 1.25) }),
		fyne.NewMenuItem("Reset View", mw.session.ResetView),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Rotate Left", func() { mw.session.Rotate(-1) }),
		fyne.NewMenuItem("Rotate Right", func() { mw.session.Rotate(1) }),
	)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", mw.onAbout),
	)

	mw.SetMainMenu(fyne.NewMainMenu(fileMenu, editMenu, viewMenu, helpMenu))
}

func (mw *MainWindow) rebuildRecent() {
	mw.recentMenu.Items = nil
	for _, path := range mw.prefs.RecentFiles() {
		path := path
		mw.recentMenu.Items = append(mw.recentMenu.Items,
			fyne.NewMenuItem(filepath.Base(path), func() { mw.OpenPath(path) }))
	}
	if len(mw.recentMenu.Items) == 0 {
		item := fyne.NewMenuItem("(none)", nil)
		item.Disabled = true
		mw.recentMenu.Items = append(mw.recentMenu.Items, item)
	}
	mw.recentMenu.Refresh()
}

// setupKeys routes window-level keys to the canvas. Keys typed into a
// focused entry never reach these handlers.
func (mw *MainWindow) setupKeys() {
	dc, ok := mw.Canvas().(desktop.Canvas)
	if !ok {
		return
	}
	dc.SetOnKeyDown(func(ev *fyne.KeyEvent) { mw.canvas.KeyDown(ev) })
	dc.SetOnKeyUp(mw.canvas.KeyUp)
}

// setupEventHandlers registers for session events.
func (mw *MainWindow) setupEventHandlers() {
	for _, ev := range []app.EventType{
		app.EventImageLoaded,
		app.EventPageChanged,
		app.EventViewChanged,
		app.EventCalibrationChanged,
		app.EventPolygonChanged,
		app.EventManualAreaChanged,
		app.EventModeChanged,
		app.EventResultsChanged,
	} {
		mw.session.On(ev, func(interface{}) { mw.syncControls() })
	}

	mw.session.On(app.EventImageLoaded, func(data interface{}) {
		st := mw.session.Status()
		if st.Loaded {
			mw.SetTitle("Plan Measure - " + st.Name)
		} else {
			mw.SetTitle("Plan Measure")
		}
	})

	mw.session.On(app.EventModeChanged, func(interface{}) {
		mw.prefs.SetString(prefs.KeyMode, mw.session.Mode().String())
	})

	mw.session.On(app.EventCloseRequested, func(interface{}) {
		if !mw.session.Status().Loaded {
			return
		}
		dialog.ShowConfirm("Close plan", "Discard the current plan and its measurements?", func(ok bool) {
			if ok {
				mw.stopWatching()
				mw.session.ResetAll()
			}
		}, mw.Window)
	})
}

// syncControls updates every control from a session snapshot.
func (mw *MainWindow) syncControls() {
	st := mw.session.Status()

	mw.modeGroup.SetSelected(modeLabels[st.Mode])

	mw.syncingEntry = true
	if mw.lengthEntry.Text != st.RealLength {
		mw.lengthEntry.SetText(st.RealLength)
	}
	if mw.manualEntry.Text != st.ManualArea {
		mw.manualEntry.SetText(st.ManualArea)
	}
	mw.syncingEntry = false

	switch {
	case st.CalibrationPoints < 2:
		mw.scaleLabel.SetText(fmt.Sprintf("%d of 2 points placed", st.CalibrationPoints))
	case st.MillimetersPerPixel > 0:
		mw.scaleLabel.SetText(fmt.Sprintf("%.1f px, %.3f mm/px", st.PixelDistance, st.MillimetersPerPixel))
	default:
		mw.scaleLabel.SetText(fmt.Sprintf("%.1f px, enter the real length", st.PixelDistance))
	}

	switch {
	case st.Area.FromManual():
		mw.areaLabel.SetText(fmt.Sprintf("Manual: %d m²", st.Area.Rounded()))
	case st.Closed:
		mw.areaLabel.SetText(fmt.Sprintf("Area: %d m² (%.2f)", st.Area.Rounded(), st.Area.PhysicalArea))
	default:
		mw.areaLabel.SetText(fmt.Sprintf("%d vertices", st.Vertices))
	}

	setEnabled(mw.closeBtn, st.CanClose)
	setEnabled(mw.undoBtn, st.CanUndo)
	setEnabled(mw.saveBtn, st.CanSave)
	setEnabled(mw.saveManual, st.CanSaveManual)

	multi := st.PageCount > 1
	setEnabled(mw.prevPageBtn, multi && st.Page > 1)
	setEnabled(mw.nextPageBtn, multi && st.Page < st.PageCount)
	if multi {
		mw.pageLabel.SetText(fmt.Sprintf("%d / %d", st.Page, st.PageCount))
	} else {
		mw.pageLabel.SetText("")
	}

	mw.results = mw.session.Results()
	mw.resultsList.Refresh()
	mw.totalLabel.SetText(fmt.Sprintf("Total: %d m²", mw.session.TotalArea()))

	mw.updateStatus(statusText(st))
}

func statusText(st app.Status) string {
	if !st.Loaded {
		return "Open a floor plan to start measuring"
	}
	parts := []string{
		st.Name,
		fmt.Sprintf("zoom %.0f%%", st.Zoom*100),
		fmt.Sprintf("rotation %d°", st.Rotation*90),
	}
	if st.Perimeter > 0 {
		parts = append(parts, fmt.Sprintf("perimeter %.2f m", st.Perimeter))
	}
	switch st.Mode {
	case app.ModeScale:
		parts = append(parts, "click two points of a known length")
	case app.ModePolygon:
		parts = append(parts, "click corners, Shift snaps, double-click closes")
	}
	return strings.Join(parts, "  |  ")
}

func setEnabled(b *widget.Button, on bool) {
	if on {
		b.Enable()
	} else {
		b.Disable()
	}
}

// updateStatus updates the status bar text.
func (mw *MainWindow) updateStatus(text string) {
	mw.statusBar.SetText(text)
}

// lastDir returns the last used directory as a ListableURI, or nil.
func (mw *MainWindow) lastDir() fyne.ListableURI {
	path := mw.prefs.String(prefs.KeyLastDir)
	if path == "" {
		return nil
	}
	listable, err := storage.ListerForURI(storage.NewFileURI(path))
	if err != nil {
		return nil
	}
	return listable
}

// OpenPath loads the plan at path into the session.
func (mw *MainWindow) OpenPath(path string) {
	doc, err := image.Open(path)
	if err != nil {
		mw.log.Error("failed to open plan", "path", path, "error", err)
		dialog.ShowError(err, mw.Window)
		return
	}
	if err := mw.session.LoadDocument(doc); err != nil {
		mw.log.Error("failed to load plan", "path", path, "error", err)
		dialog.ShowError(err, mw.Window)
		return
	}
	mw.log.Info("plan loaded", "path", path, "format", doc.Format())
	mw.remember(path)
	mw.watch(path)
}

func (mw *MainWindow) remember(path string) {
	mw.prefs.SetString(prefs.KeyLastDir, filepath.Dir(path))
	mw.prefs.AddRecentFile(path)
	mw.rebuildRecent()
}

// watch reloads the plan whenever its file changes on disk.
func (mw *MainWindow) watch(path string) {
	mw.stopWatching()
	cfg := mw.session.Config()
	if !cfg.WatchPlan {
		return
	}
	mw.watcher = app.NewFileWatcher(path, cfg.WatchInterval)
	if mw.watcher == nil {
		return
	}
	mw.watcher.OnChange(func(changed string) {
		mw.log.Info("plan changed on disk, reloading", "path", changed)
		doc, err := image.Open(changed)
		if err != nil {
			mw.log.Error("reload failed", "path", changed, "error", err)
			return
		}
		if err := mw.session.LoadDocument(doc); err != nil {
			mw.log.Error("reload failed", "path", changed, "error", err)
		}
	})
	mw.watcher.Start()
}

func (mw *MainWindow) stopWatching() {
	if mw.watcher != nil {
		mw.watcher.Stop()
		mw.watcher = nil
	}
}

// Action handlers

func (mw *MainWindow) onOpen() {
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		reader.Close()
		mw.OpenPath(reader.URI().Path())
	}, mw.Window)
	fd.SetFilter(storage.NewExtensionFileFilter(image.SupportedFormats()))
	if loc := mw.lastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *MainWindow) onPrevPage() {
	if err := mw.session.PrevPage(); err != nil {
		dialog.ShowError(err, mw.Window)
	}
}

func (mw *MainWindow) onNextPage() {
	if err := mw.session.NextPage(); err != nil {
		dialog.ShowError(err, mw.Window)
	}
}

func (mw *MainWindow) onSaveResult() {
	if r, ok := mw.session.SaveResult(); ok {
		mw.updateStatus(fmt.Sprintf("Saved %s: %d m²", r.Name, r.Area))
	}
}

func (mw *MainWindow) onSaveManual() {
	if r, ok := mw.session.SaveManualArea(); ok {
		mw.updateStatus(fmt.Sprintf("Saved %s: %d m²", r.Name, r.Area))
	}
}

func (mw *MainWindow) onResetAll() {
	mw.stopWatching()
	mw.session.ResetAll()
}

func (mw *MainWindow) onQuit() {
	mw.stopWatching()
	size := mw.Canvas().Size()
	mw.prefs.SetFloat(prefs.KeyWindowWidth, float64(size.Width))
	mw.prefs.SetFloat(prefs.KeyWindowHeight, float64(size.Height))
	if err := mw.prefs.SaveIfChanged(); err != nil {
		mw.log.Warn("failed to save preferences", "error", err)
	}
	mw.Close()
}

func (mw *MainWindow) onAbout() {
	dialog.ShowInformation("About Plan Measure",
		fmt.Sprintf("Plan Measure %s\n\n"+
			"Measure room areas on scanned floor plans.\n\n"+
			"Built: %s\n"+
			"Commit: %s",
			version.Version, version.BuildTime, version.GitCommit),
		mw.Window)
}
