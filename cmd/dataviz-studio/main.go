package main

import (
	"context"
	"fmt"
	"log"
	"runtime"
	"time"

	"dataviz-studio/internal/config"
	"dataviz-studio/internal/controllers"
	"dataviz-studio/internal/dispatch"
	"dataviz-studio/internal/logger"
	"dataviz-studio/internal/models"
	"dataviz-studio/internal/render"
	"dataviz-studio/internal/services"
	"dataviz-studio/internal/shutdown"
	"dataviz-studio/internal/views"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
)

// MetricsInterval is how often runtime and service statistics are logged
const MetricsInterval = 30 * time.Second

const (
	AppName    = "Data Visualization Studio"
	AppID      = "com.dataviz.studio"
	AppVersion = "1.0.0"
)

// Application holds the wired components for one GUI session
type Application struct {
	fyneApp fyne.App
	window  fyne.Window
	config  *config.Config
	logger  logger.Logger

	dispatcher *dispatch.Dispatcher
	pool       *services.WorkerPool
	service    *services.DataService
	controller *controllers.MainController
	view       *views.MainView

	shutdown *shutdown.Manager
}

func main() {
	ctx := context.Background()

	cfg, err := config.Load(ctx)
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	application := NewApplication(cfg)
	application.Run()
}

// NewApplication builds the models, services, controller and view and wires them together
func NewApplication(cfg *config.Config) *Application {
	appLogger := logger.New(cfg.LogLevel, cfg.LogFormat)

	app.SetMetadata(fyne.AppMetadata{
		ID:      AppID,
		Name:    AppName,
		Version: AppVersion,
	})
	fyneApp := app.NewWithID(AppID)

	window := fyneApp.NewWindow(AppName)
	window.Resize(fyne.NewSize(1200, 800))
	window.CenterOnScreen()

	appLogger.Info("Application", "starting", map[string]interface{}{
		"version":    AppVersion,
		"go_version": runtime.Version(),
		"workers":    cfg.Workers,
		"chart_size": fmt.Sprintf("%dx%d", cfg.ChartWidth, cfg.ChartHeight),
	})

	// Every result and progress update lands on fyne's thread
	dispatcher := dispatch.NewDispatcher(fyne.Do)

	dataset := models.NewDataset()
	chartConfig := models.NewChartConfiguration()
	controller := controllers.NewMainController(dataset, chartConfig, appLogger)

	renderer := render.NewRenderer(cfg.ChartWidth, cfg.ChartHeight)
	exporter := render.NewExporter(renderer, appLogger)
	pool := services.NewWorkerPool(cfg.Workers, cfg.QueueSize, appLogger)

	service := services.NewDataService(
		dataset,
		services.NewDataGenerator(services.GaussianNoise),
		services.NewDataIngester(),
		exporter,
		pool,
		dispatcher,
		controller,
		appLogger,
	)
	controller.AttachService(service)

	view := views.NewMainView(window, renderer, controller, controllers.DefaultSampleSize, appLogger)
	view.SetExportDir(cfg.ExportDir)

	manager := shutdown.NewManager(appLogger, shutdown.DefaultTimeout)
	manager.Register("dispatcher", dispatcher)
	manager.Register("controller", controller)

	application := &Application{
		fyneApp:    fyneApp,
		window:     window,
		config:     cfg,
		logger:     appLogger,
		dispatcher: dispatcher,
		pool:       pool,
		service:    service,
		controller: controller,
		view:       view,
		shutdown:   manager,
	}
	application.setupWindowEvents()

	return application
}

// Run starts the dispatcher, queues the startup dataset and blocks in fyne's event loop
func (a *Application) Run() {
	go a.dispatcher.Run(a.shutdown.Context())

	a.dispatcher.Post(func() {
		a.controller.SetView(a.view)
	})

	if err := a.controller.GenerateData(a.config.SampleGeneratorKind(), a.config.SampleSize); err != nil {
		a.logger.Error("Application", err, map[string]interface{}{"stage": "startup dataset"})
	}

	go a.startPerformanceMonitoring()

	a.shutdown.Listen(func() {
		fyne.Do(a.fyneApp.Quit)
	})

	a.window.ShowAndRun()

	a.shutdown.Shutdown()
	a.logger.Info("Application", "terminated", nil)
}

func (a *Application) setupWindowEvents() {
	a.window.SetCloseIntercept(func() {
		a.logger.Info("Application", "window close requested", nil)
		a.shutdown.Shutdown()
		a.window.Close()
	})
}

func (a *Application) startPerformanceMonitoring() {
	ticker := time.NewTicker(MetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.logPerformanceMetrics()
		case <-a.shutdown.Done():
			return
		}
	}
}

func (a *Application) logPerformanceMetrics() {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	stats := a.service.Stats()
	fields := map[string]interface{}{
		"go_memory_mb":    memStats.Alloc / 1024 / 1024,
		"go_gc_runs":      memStats.NumGC,
		"goroutines":      runtime.NumGoroutine(),
		"active_workers":  a.pool.ActiveCount(),
		"pending_results": a.dispatcher.Pending(),
		"runs_succeeded":  stats.Succeeded,
		"runs_failed":     stats.Failed,
		"dataset_points":  a.service.Dataset().Size(),
	}
	if stats.LastOutcome != nil {
		fields["last_operation"] = string(stats.LastOutcome.Operation)
		fields["last_duration_ms"] = stats.LastOutcome.Duration.Milliseconds()
	}
	a.logger.Debug("Application", "performance metrics", fields)
}
