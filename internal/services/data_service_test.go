package services

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"dataviz-studio/internal/dispatch"
	"dataviz-studio/internal/models"
	"dataviz-studio/internal/progress"
	"dataviz-studio/internal/projection"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type statusEntry struct {
	message string
	busy    bool
}

type recordingSink struct {
	mu       sync.Mutex
	statuses []statusEntry
	events   []progress.Event
}

func (s *recordingSink) OnStatus(message string, busy bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.statuses = append(s.statuses, statusEntry{message, busy})
}

func (s *recordingSink) OnProgress(event progress.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
}

func (s *recordingSink) Statuses() []statusEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]statusEntry(nil), s.statuses...)
}

func (s *recordingSink) Events() []progress.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]progress.Event(nil), s.events...)
}

type fakeExporter struct {
	mu     sync.Mutex
	charts projection.Charts
	err    error
}

func (f *fakeExporter) Export(dir string, charts projection.Charts, settings models.ChartSettings) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.charts = charts
	if f.err != nil {
		return nil, &ExportError{Path: dir, Cause: f.err}
	}
	return []string{dir + "/line.png"}, nil
}

type serviceFixture struct {
	service  *DataService
	dataset  *models.Dataset
	sink     *recordingSink
	pool     *WorkerPool
	outcomes chan Outcome
}

func newServiceFixture(t *testing.T, exporter Exporter) *serviceFixture {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	dispatcher := dispatch.NewDispatcher(nil)
	go dispatcher.Run(ctx)

	f := &serviceFixture{
		dataset:  models.NewDataset(),
		sink:     &recordingSink{},
		pool:     NewWorkerPool(2, 8, nil),
		outcomes: make(chan Outcome, 8),
	}
	f.service = NewDataService(
		f.dataset,
		NewDataGenerator(func() NoiseSource { return ConstantNoise(0) }),
		NewDataIngester(),
		exporter,
		f.pool,
		dispatcher,
		f.sink,
		nil,
	)
	f.service.SetCompletionHandler(func(o Outcome) { f.outcomes <- o })

	t.Cleanup(func() {
		f.service.Shutdown()
		dispatcher.Stop()
		cancel()
	})
	return f
}

func (f *serviceFixture) await(t *testing.T) Outcome {
	t.Helper()
	select {
	case o := <-f.outcomes:
		return o
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for outcome")
		return Outcome{}
	}
}

func TestGenerateReplacesDataset(t *testing.T) {
	f := newServiceFixture(t, nil)

	require.NoError(t, f.service.Generate(models.KindLinear, 25))
	outcome := f.await(t)

	require.NoError(t, outcome.Err)
	assert.Equal(t, OperationGenerate, outcome.Operation)
	assert.Equal(t, 25, outcome.Points)
	assert.Equal(t, 25, f.dataset.Size())
	assert.Equal(t, 48.0, f.dataset.Snapshot()[24].Y)

	statuses := f.sink.Statuses()
	require.NotEmpty(t, statuses)
	assert.Equal(t, statusEntry{"Generating Linear data...", true}, statuses[0])
	assert.Equal(t, statusEntry{StatusGenerationDone, false}, statuses[len(statuses)-1])

	events := f.sink.Events()
	require.NotEmpty(t, events)
	assert.Equal(t, progress.NewEvent(25, 25), events[len(events)-1])

	stats := f.service.Stats()
	assert.Equal(t, 1, stats.Succeeded)
	assert.Equal(t, 0, stats.Failed)
}

func TestLoadReaderReplacesDataset(t *testing.T) {
	f := newServiceFixture(t, nil)

	rc := io.NopCloser(strings.NewReader("h1,h2\n1,2,CatA\n3,4\nbad,row,x\n"))
	require.NoError(t, f.service.LoadReader("sample.csv", rc))
	outcome := f.await(t)

	require.NoError(t, outcome.Err)
	assert.Equal(t, 2, outcome.Points)
	assert.Equal(t, 1, outcome.Skipped)
	assert.Equal(t, models.Snapshot{
		models.NewDataPoint(1, 2, "CatA"),
		models.NewDataPoint(3, 4, "Data"),
	}, f.dataset.Snapshot())

	statuses := f.sink.Statuses()
	assert.Equal(t, statusEntry{StatusLoading, true}, statuses[0])
	assert.Equal(t, statusEntry{StatusLoadDone, false}, statuses[len(statuses)-1])
}

func TestEmptyLoadStillReplaces(t *testing.T) {
	f := newServiceFixture(t, nil)
	f.dataset.Replace([]models.DataPoint{models.NewDataPoint(1, 1, "A")})

	require.NoError(t, f.service.LoadReader("empty.csv", io.NopCloser(strings.NewReader("x,y\n"))))
	outcome := f.await(t)

	require.NoError(t, outcome.Err)
	assert.True(t, f.dataset.IsEmpty())
}

func TestFailedLoadKeepsPreviousDataset(t *testing.T) {
	f := newServiceFixture(t, nil)
	previous := []models.DataPoint{models.NewDataPoint(9, 9, "Keep")}
	f.dataset.Replace(previous)

	rc := io.NopCloser(&failingReader{data: []byte("h\n1,2\n")})
	require.NoError(t, f.service.LoadReader("flaky.csv", rc))
	outcome := f.await(t)

	var ingestErr *IngestionError
	require.ErrorAs(t, outcome.Err, &ingestErr)
	assert.Equal(t, models.Snapshot(previous), f.dataset.Snapshot())

	statuses := f.sink.Statuses()
	assert.Equal(t, statusEntry{StatusLoadFailed, false}, statuses[len(statuses)-1])
	assert.Equal(t, 1, f.service.Stats().Failed)
}

func TestLoadFileMissingReportsFailure(t *testing.T) {
	f := newServiceFixture(t, nil)

	require.NoError(t, f.service.LoadFile(t.TempDir()+"/missing.csv"))
	outcome := f.await(t)

	assert.Error(t, outcome.Err)
	assert.True(t, f.dataset.IsEmpty())
}

func TestGenerateInvalidCountKeepsDataset(t *testing.T) {
	f := newServiceFixture(t, nil)
	f.dataset.Replace([]models.DataPoint{models.NewDataPoint(1, 1, "A")})

	require.NoError(t, f.service.Generate(models.KindLinear, 0))
	outcome := f.await(t)

	var genErr *GenerationError
	require.ErrorAs(t, outcome.Err, &genErr)
	assert.Equal(t, 1, f.dataset.Size())
}

type closeTracker struct {
	io.Reader
	closed bool
}

func (c *closeTracker) Close() error {
	c.closed = true
	return nil
}

func TestSubmitAfterShutdownFails(t *testing.T) {
	f := newServiceFixture(t, nil)
	f.pool.Shutdown()

	err := f.service.Generate(models.KindLinear, 10)
	assert.ErrorIs(t, err, ErrPoolClosed)

	outcome := f.await(t)
	assert.ErrorIs(t, outcome.Err, ErrPoolClosed)

	rc := &closeTracker{Reader: strings.NewReader("")}
	assert.ErrorIs(t, f.service.LoadReader("x.csv", rc), ErrPoolClosed)
	assert.True(t, rc.closed)
	f.await(t)
}

func TestExportProjectsCurrentSnapshot(t *testing.T) {
	exporter := &fakeExporter{}
	f := newServiceFixture(t, exporter)
	f.dataset.Replace([]models.DataPoint{
		models.NewDataPoint(0, 1, "A"),
		models.NewDataPoint(1, -2, "B"),
	})

	require.NoError(t, f.service.Export("/tmp/out", models.DefaultChartSettings()))
	outcome := f.await(t)

	require.NoError(t, outcome.Err)
	assert.Equal(t, OperationExport, outcome.Operation)
	assert.Equal(t, []string{"/tmp/out/line.png"}, outcome.Files)
	assert.Equal(t, 2, f.dataset.Size())

	exporter.mu.Lock()
	charts := exporter.charts
	exporter.mu.Unlock()
	assert.Len(t, charts.Line.Points, 2)
	assert.Len(t, charts.Bar, 2)

	statuses := f.sink.Statuses()
	assert.Equal(t, statusEntry{StatusExportDone, false}, statuses[len(statuses)-1])
}

func TestExportFailureReported(t *testing.T) {
	f := newServiceFixture(t, &fakeExporter{err: errors.New("disk full")})

	require.NoError(t, f.service.Export("/tmp/out", models.DefaultChartSettings()))
	outcome := f.await(t)

	var exportErr *ExportError
	require.ErrorAs(t, outcome.Err, &exportErr)
	statuses := f.sink.Statuses()
	assert.Equal(t, statusEntry{StatusExportFailed, false}, statuses[len(statuses)-1])
}

func TestExportWithoutExporter(t *testing.T) {
	f := newServiceFixture(t, nil)

	var verr *models.ValidationError
	assert.ErrorAs(t, f.service.Export("/tmp/out", models.DefaultChartSettings()), &verr)
}
