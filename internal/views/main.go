package views

import (
	"io"
	"path/filepath"

	"dataviz-studio/internal/controllers"
	"dataviz-studio/internal/logger"
	"dataviz-studio/internal/models"
	"dataviz-studio/internal/progress"
	"dataviz-studio/internal/projection"
	"dataviz-studio/internal/render"
	"dataviz-studio/internal/services"
	"dataviz-studio/internal/views/components"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
)

// Actions are the requests the view forwards to the controller
type Actions interface {
	GenerateData(kind models.GeneratorKind, count int) error
	LoadReader(name string, rc io.ReadCloser) error
	ExportCharts(dir string) error
	ToggleAnimations(enabled bool)
	ToggleLegend(visible bool)
	SetOpacity(opacity float64) error
	Settings() models.ChartSettings
}

// MainView is the application window: controls on the left, chart tabs in the
// center, status bar at the bottom. Its Show* methods must run on fyne's thread.
type MainView struct {
	window       fyne.Window
	exportDir    string
	renderer     *render.Renderer
	logger       logger.Logger
	actions      Actions
	controlPanel *components.ControlPanel
	chartDisplay *components.ChartDisplay
	statusBar    *components.StatusBar
}

var _ controllers.View = (*MainView)(nil)

// NewMainView builds the window content
func NewMainView(window fyne.Window, renderer *render.Renderer, actions Actions, defaultSize int, log logger.Logger) *MainView {
	if log == nil {
		log = logger.Nop()
	}
	mv := &MainView{
		window:       window,
		renderer:     renderer,
		logger:       log,
		actions:      actions,
		controlPanel: components.NewControlPanel(controllers.SampleSizeOptions(), defaultSize, actions.Settings()),
		chartDisplay: components.NewChartDisplay(),
		statusBar:    components.NewStatusBar(),
	}
	mv.buildLayout()
	mv.setupEventHandlers()
	return mv
}

func (mv *MainView) buildLayout() {
	left := container.NewVScroll(container.NewPadded(mv.controlPanel.GetContainer()))
	split := container.NewHSplit(left, mv.chartDisplay.GetContainer())
	split.SetOffset(0.28)

	mv.window.SetContent(container.NewBorder(nil, mv.statusBar.GetContainer(), nil, nil, split))
}

func (mv *MainView) setupEventHandlers() {
	mv.controlPanel.SetGenerateHandler(func(kind models.GeneratorKind, size string) {
		count, err := controllers.ParseSampleSize(size)
		if err == nil {
			err = mv.actions.GenerateData(kind, count)
		}
		if err != nil {
			mv.ShowError(services.StatusGenerationFailed, err)
		}
	})
	mv.controlPanel.SetLoadHandler(mv.showLoadDialog)
	mv.controlPanel.SetExportHandler(mv.showExportDialog)
	mv.controlPanel.SetAnimationHandler(mv.actions.ToggleAnimations)
	mv.controlPanel.SetLegendHandler(mv.actions.ToggleLegend)
	mv.controlPanel.SetOpacityHandler(func(value float64) {
		if err := mv.actions.SetOpacity(value); err != nil {
			mv.ShowError("Invalid opacity", err)
		}
	})
}

// ShowCharts renders every chart kind and swaps the images in
func (mv *MainView) ShowCharts(charts projection.Charts, settings models.ChartSettings) {
	mv.chartDisplay.StopAnimations()
	for _, kind := range render.ChartKinds() {
		img, err := mv.renderer.Image(kind, charts, settings)
		if err != nil {
			mv.logger.Error("MainView", err, map[string]interface{}{"chart": kind.Title()})
		}
		mv.chartDisplay.SetImage(kind, img, settings.AnimationsEnabled)
	}
}

// ShowPreview replaces the data preview text
func (mv *MainView) ShowPreview(text string) {
	mv.controlPanel.SetPreview(text)
}

// ShowDataCount updates the point counter
func (mv *MainView) ShowDataCount(count int) {
	mv.statusBar.SetDataCount(count)
}

// ShowStatus updates the status message and progress visibility
func (mv *MainView) ShowStatus(message string, busy bool) {
	mv.statusBar.SetStatus(message, busy)
}

// ShowProgress updates the progress bar
func (mv *MainView) ShowProgress(event progress.Event) {
	mv.statusBar.SetProgress(event)
}

// ShowError displays an error dialog
func (mv *MainView) ShowError(title string, err error) {
	dialog.ShowError(&titledError{title: title, err: err}, mv.window)
}

func (mv *MainView) showLoadDialog() {
	open := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil {
			mv.ShowError(services.StatusLoadFailed, err)
			return
		}
		if reader == nil {
			return
		}
		if err := mv.actions.LoadReader(reader.URI().Name(), reader); err != nil {
			mv.logger.Warning("MainView", "load rejected", map[string]interface{}{"error": err.Error()})
		}
	}, mv.window)
	open.SetFilter(storage.NewExtensionFileFilter([]string{".csv", ".txt", ".xlsx"}))
	open.Show()
}

// SetExportDir sets the folder the export dialog starts in
func (mv *MainView) SetExportDir(dir string) {
	mv.exportDir = dir
}

func (mv *MainView) showExportDialog() {
	picker := dialog.NewFolderOpen(func(dir fyne.ListableURI, err error) {
		if err != nil {
			mv.ShowError(services.StatusExportFailed, err)
			return
		}
		if dir == nil {
			return
		}
		if err := mv.actions.ExportCharts(dir.Path()); err != nil {
			mv.ShowError(services.StatusExportFailed, err)
		}
	}, mv.window)

	if mv.exportDir != "" {
		if abs, err := filepath.Abs(mv.exportDir); err == nil {
			if location, err := storage.ListerForURI(storage.NewFileURI(abs)); err == nil {
				picker.SetLocation(location)
			}
		}
	}
	picker.Show()
}

// GetWindow returns the main window
func (mv *MainView) GetWindow() fyne.Window {
	return mv.window
}

// ChartDisplay returns the chart tabs component
func (mv *MainView) ChartDisplay() *components.ChartDisplay {
	return mv.chartDisplay
}

// StatusBar returns the status bar component
func (mv *MainView) StatusBar() *components.StatusBar {
	return mv.statusBar
}

// ControlPanel returns the control panel component
func (mv *MainView) ControlPanel() *components.ControlPanel {
	return mv.controlPanel
}

type titledError struct {
	title string
	err   error
}

func (e *titledError) Error() string { return e.title + ": " + e.err.Error() }

func (e *titledError) Unwrap() error { return e.err }
