package services

import (
	"context"
	"io"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"dataviz-studio/internal/dispatch"
	"dataviz-studio/internal/logger"
	"dataviz-studio/internal/models"
	"dataviz-studio/internal/progress"
	"dataviz-studio/internal/projection"
)

// Operation identifies the kind of background run
type Operation string

const (
	OperationGenerate Operation = "generate"
	OperationLoad     Operation = "load"
	OperationExport   Operation = "export"
)

// Status messages shown to the user
const (
	StatusGenerationDone   = "Data generation completed"
	StatusGenerationFailed = "Data generation failed"
	StatusLoading          = "Loading CSV file..."
	StatusLoadDone         = "CSV data loaded successfully"
	StatusLoadFailed       = "Failed to load CSV data"
	StatusExporting        = "Exporting charts..."
	StatusExportDone       = "Charts exported successfully"
	StatusExportFailed     = "Chart export failed"
)

// Outcome describes a finished background run. Err is nil on success.
type Outcome struct {
	Operation Operation
	Source    string
	Points    int
	Skipped   int
	Files     []string
	Duration  time.Duration
	Err       error
}

// Exporter writes the chart views of a snapshot into a directory
type Exporter interface {
	Export(dir string, charts projection.Charts, settings models.ChartSettings) ([]string, error)
}

// ServiceStats summarizes completed runs
type ServiceStats struct {
	Succeeded   int
	Failed      int
	LastOutcome *Outcome
}

// DataService runs generation, loading and export on the worker pool and
// delivers every result on the dispatcher. The dataset is only replaced on
// the dispatcher, and only when a run succeeds.
type DataService struct {
	dataset    *models.Dataset
	generator  *DataGenerator
	ingester   *DataIngester
	exporter   Exporter
	pool       *WorkerPool
	dispatcher *dispatch.Dispatcher
	sink       progress.Sink
	logger     logger.Logger

	mu         sync.RWMutex
	onComplete func(Outcome)
	stats      ServiceStats
}

// NewDataService wires the service. exporter may be nil when export is not needed.
func NewDataService(
	dataset *models.Dataset,
	generator *DataGenerator,
	ingester *DataIngester,
	exporter Exporter,
	pool *WorkerPool,
	dispatcher *dispatch.Dispatcher,
	sink progress.Sink,
	log logger.Logger,
) *DataService {
	if log == nil {
		log = logger.Nop()
	}
	return &DataService{
		dataset:    dataset,
		generator:  generator,
		ingester:   ingester,
		exporter:   exporter,
		pool:       pool,
		dispatcher: dispatcher,
		sink:       sink,
		logger:     log,
	}
}

// SetCompletionHandler registers fn to run on the dispatcher after every run
func (ds *DataService) SetCompletionHandler(fn func(Outcome)) {
	ds.mu.Lock()
	defer ds.mu.Unlock()
	ds.onComplete = fn
}

// Generate submits a synthetic data run
func (ds *DataService) Generate(kind models.GeneratorKind, count int) error {
	ds.status("Generating "+kind.String()+" data...", true)

	return ds.submit(OperationGenerate, kind.String(), StatusGenerationFailed, func(ctx context.Context) {
		start := time.Now()
		reporter := progress.NewDispatchedReporter(ds.dispatcher, ds.sink)

		points, err := ds.generator.Generate(ctx, kind, count, reporter)
		outcome := Outcome{
			Operation: OperationGenerate,
			Source:    kind.String(),
			Points:    len(points),
			Duration:  time.Since(start),
			Err:       err,
		}
		ds.finish(outcome, points, StatusGenerationDone, StatusGenerationFailed)
	})
}

// LoadFile submits an ingestion run for a file on disk
func (ds *DataService) LoadFile(path string) error {
	ds.status(StatusLoading, true)

	return ds.submit(OperationLoad, path, StatusLoadFailed, func(ctx context.Context) {
		start := time.Now()
		reporter := progress.NewDispatchedReporter(ds.dispatcher, ds.sink)

		result, err := ds.ingester.IngestFile(ctx, path, reporter)
		ds.finishLoad(path, result, err, start)
	})
}

// LoadReader submits an ingestion run for an already opened source.
// The reader is closed when the run ends; name selects the format by extension.
func (ds *DataService) LoadReader(name string, rc io.ReadCloser) error {
	ds.status(StatusLoading, true)

	err := ds.submit(OperationLoad, name, StatusLoadFailed, func(ctx context.Context) {
		defer rc.Close()
		start := time.Now()
		reporter := progress.NewDispatchedReporter(ds.dispatcher, ds.sink)

		var (
			result IngestResult
			err    error
		)
		if strings.EqualFold(filepath.Ext(name), ".xlsx") {
			result, err = ds.ingester.IngestXLSX(ctx, name, rc, reporter)
		} else {
			result, err = ds.ingester.IngestCSV(ctx, name, rc, reporter)
		}
		ds.finishLoad(name, result, err, start)
	})
	if err != nil {
		rc.Close()
	}
	return err
}

// Export renders the current dataset's charts into dir on the worker pool
func (ds *DataService) Export(dir string, settings models.ChartSettings) error {
	if ds.exporter == nil {
		return models.NewValidationError("exporter", nil, "no exporter configured")
	}
	ds.status(StatusExporting, true)

	snapshot := ds.dataset.Snapshot()
	return ds.submit(OperationExport, dir, StatusExportFailed, func(ctx context.Context) {
		start := time.Now()
		files, err := ds.exporter.Export(dir, projection.Project(snapshot), settings)
		outcome := Outcome{
			Operation: OperationExport,
			Source:    dir,
			Points:    len(snapshot),
			Files:     files,
			Duration:  time.Since(start),
			Err:       err,
		}
		ds.finish(outcome, nil, StatusExportDone, StatusExportFailed)
	})
}

// Stats returns counters of finished runs
func (ds *DataService) Stats() ServiceStats {
	ds.mu.RLock()
	defer ds.mu.RUnlock()
	return ds.stats
}

// Dataset returns the dataset this service replaces
func (ds *DataService) Dataset() *models.Dataset {
	return ds.dataset
}

func (ds *DataService) finishLoad(source string, result IngestResult, err error, start time.Time) {
	outcome := Outcome{
		Operation: OperationLoad,
		Source:    source,
		Points:    len(result.Points),
		Skipped:   result.Skipped,
		Duration:  time.Since(start),
		Err:       err,
	}
	ds.finish(outcome, result.Points, StatusLoadDone, StatusLoadFailed)
}

// finish hands the outcome to the dispatcher. Datasets are replaced only there.
func (ds *DataService) finish(outcome Outcome, points []models.DataPoint, okStatus, failStatus string) {
	ds.dispatcher.Post(func() {
		if outcome.Err != nil {
			ds.logger.Error("DataService", outcome.Err, map[string]interface{}{
				"operation": string(outcome.Operation),
				"source":    outcome.Source,
			})
			ds.sink.OnStatus(failStatus, false)
		} else {
			if outcome.Operation != OperationExport {
				ds.dataset.Replace(points)
			}
			ds.logger.Info("DataService", string(outcome.Operation)+" completed", map[string]interface{}{
				"source":      outcome.Source,
				"points":      outcome.Points,
				"skipped":     outcome.Skipped,
				"duration_ms": outcome.Duration.Milliseconds(),
			})
			ds.sink.OnStatus(okStatus, false)
		}
		ds.record(outcome)
	})
}

func (ds *DataService) submit(op Operation, source, failStatus string, task Task) error {
	err := ds.pool.Submit(task)
	if err == nil {
		return nil
	}

	ds.logger.Error("DataService", err, map[string]interface{}{
		"operation": string(op),
		"source":    source,
	})
	outcome := Outcome{Operation: op, Source: source, Err: err}
	ds.dispatcher.Post(func() {
		ds.sink.OnStatus(failStatus, false)
		ds.record(outcome)
	})
	return err
}

func (ds *DataService) record(outcome Outcome) {
	ds.mu.Lock()
	if outcome.Err != nil {
		ds.stats.Failed++
	} else {
		ds.stats.Succeeded++
	}
	last := outcome
	ds.stats.LastOutcome = &last
	handler := ds.onComplete
	ds.mu.Unlock()

	if handler != nil {
		handler(outcome)
	}
}

func (ds *DataService) status(message string, busy bool) {
	progress.Status(ds.dispatcher, ds.sink, message, busy)
}

// Shutdown stops the worker pool
func (ds *DataService) Shutdown() {
	ds.pool.Shutdown()
}
