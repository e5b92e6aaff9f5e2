package controllers

import (
	"io"
	"strconv"
	"strings"
	"sync"

	"dataviz-studio/internal/logger"
	"dataviz-studio/internal/models"
	"dataviz-studio/internal/progress"
	"dataviz-studio/internal/projection"
	"dataviz-studio/internal/services"
)

// Sample size limits offered by the size selector
const (
	MinSampleSize     = 100
	MaxSampleSize     = 100000
	DefaultSampleSize = 1000
)

// ReadyStatus is shown before any run has started
const ReadyStatus = "Ready"

// View is the presentation surface the controller drives. Every method is
// called on the dispatcher, which the GUI binds to fyne's thread.
type View interface {
	ShowCharts(charts projection.Charts, settings models.ChartSettings)
	ShowPreview(text string)
	ShowDataCount(count int)
	ShowStatus(message string, busy bool)
	ShowProgress(event progress.Event)
	ShowError(title string, err error)
}

// MainController connects the dataset, the data service and the view.
// It is also the progress sink handed to the data service.
type MainController struct {
	dataset     *models.Dataset
	config      *models.ChartConfiguration
	logger      logger.Logger
	service     *services.DataService
	unsubscribe func()

	mu     sync.RWMutex
	view   View
	charts projection.Charts
}

// NewMainController creates a controller subscribed to dataset.
// Call AttachService and SetView before the first run.
func NewMainController(dataset *models.Dataset, config *models.ChartConfiguration, log logger.Logger) *MainController {
	if log == nil {
		log = logger.Nop()
	}
	if config == nil {
		config = models.NewChartConfiguration()
	}
	mc := &MainController{
		dataset: dataset,
		config:  config,
		logger:  log,
		charts:  projection.Project(dataset.Snapshot()),
	}
	mc.unsubscribe = dataset.Subscribe(mc.onDatasetReplaced)
	return mc
}

// AttachService sets the service that runs the controller's requests
func (mc *MainController) AttachService(service *services.DataService) {
	mc.service = service
	service.SetCompletionHandler(mc.onOutcome)
}

// SetView attaches the view and pushes the current state to it
func (mc *MainController) SetView(view View) {
	mc.mu.Lock()
	mc.view = view
	mc.mu.Unlock()

	if view == nil {
		return
	}
	view.ShowStatus(ReadyStatus, false)
	mc.onDatasetReplaced(mc.dataset.Snapshot())
}

// GenerateData starts a synthetic run
func (mc *MainController) GenerateData(kind models.GeneratorKind, count int) error {
	if count <= 0 {
		return models.NewValidationError("count", count, "must be positive")
	}
	mc.logger.Info("MainController", "generate requested", map[string]interface{}{
		"kind":  kind.String(),
		"count": count,
	})
	return mc.service.Generate(kind, count)
}

// LoadFile ingests a file on disk
func (mc *MainController) LoadFile(path string) error {
	mc.logger.Info("MainController", "load requested", map[string]interface{}{"path": path})
	return mc.service.LoadFile(path)
}

// LoadReader ingests an opened source; name picks the format by extension
func (mc *MainController) LoadReader(name string, rc io.ReadCloser) error {
	mc.logger.Info("MainController", "load requested", map[string]interface{}{"source": name})
	return mc.service.LoadReader(name, rc)
}

// ExportCharts writes the current charts into dir
func (mc *MainController) ExportCharts(dir string) error {
	mc.logger.Info("MainController", "export requested", map[string]interface{}{"dir": dir})
	return mc.service.Export(dir, mc.config.Settings())
}

// ToggleAnimations switches the chart transition effect
func (mc *MainController) ToggleAnimations(enabled bool) {
	mc.config.SetAnimationsEnabled(enabled)
	mc.refresh()
}

// ToggleLegend shows or hides chart legends
func (mc *MainController) ToggleLegend(visible bool) {
	mc.config.SetLegendVisible(visible)
	mc.refresh()
}

// SetOpacity changes chart opacity; values outside [0.1, 1.0] are rejected
func (mc *MainController) SetOpacity(opacity float64) error {
	if err := mc.config.SetOpacity(opacity); err != nil {
		return err
	}
	mc.refresh()
	return nil
}

// Charts returns the views derived from the current dataset
func (mc *MainController) Charts() projection.Charts {
	mc.mu.RLock()
	defer mc.mu.RUnlock()
	return mc.charts
}

// Settings returns the chart presentation settings
func (mc *MainController) Settings() models.ChartSettings {
	return mc.config.Settings()
}

// OnStatus forwards status text to the view
func (mc *MainController) OnStatus(message string, busy bool) {
	if view := mc.currentView(); view != nil {
		view.ShowStatus(message, busy)
	}
}

// OnProgress forwards progress to the view
func (mc *MainController) OnProgress(event progress.Event) {
	if view := mc.currentView(); view != nil {
		view.ShowProgress(event)
	}
}

// Shutdown detaches from the dataset and stops the service
func (mc *MainController) Shutdown() {
	if mc.unsubscribe != nil {
		mc.unsubscribe()
	}
	if mc.service != nil {
		mc.service.Shutdown()
	}
}

func (mc *MainController) onDatasetReplaced(snapshot models.Snapshot) {
	charts := projection.Project(snapshot)

	mc.mu.Lock()
	mc.charts = charts
	view := mc.view
	mc.mu.Unlock()

	if view == nil {
		return
	}
	view.ShowCharts(charts, mc.config.Settings())
	view.ShowPreview(projection.Preview(snapshot))
	view.ShowDataCount(len(snapshot))
}

func (mc *MainController) onOutcome(outcome services.Outcome) {
	if outcome.Err == nil {
		return
	}
	if view := mc.currentView(); view != nil {
		view.ShowError(failureTitle(outcome.Operation), outcome.Err)
	}
}

func (mc *MainController) refresh() {
	if view := mc.currentView(); view != nil {
		view.ShowCharts(mc.Charts(), mc.config.Settings())
	}
}

func (mc *MainController) currentView() View {
	mc.mu.RLock()
	defer mc.mu.RUnlock()
	return mc.view
}

func failureTitle(op services.Operation) string {
	switch op {
	case services.OperationGenerate:
		return services.StatusGenerationFailed
	case services.OperationLoad:
		return services.StatusLoadFailed
	case services.OperationExport:
		return services.StatusExportFailed
	default:
		return "Operation failed"
	}
}

// ParseSampleSize validates the text of the size selector
func ParseSampleSize(text string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return 0, models.NewValidationError("size", text, "must be a whole number")
	}
	if n < MinSampleSize || n > MaxSampleSize {
		return 0, models.NewValidationError("size", n, "must be between 100 and 100000")
	}
	return n, nil
}

// SampleSizeOptions lists the selectable sizes in ascending order
func SampleSizeOptions() []string {
	sizes := []int{100, 500, 1000, 5000, 10000, 50000, 100000}
	out := make([]string, len(sizes))
	for i, s := range sizes {
		out[i] = strconv.Itoa(s)
	}
	return out
}
