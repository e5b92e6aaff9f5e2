package services

import (
	"bufio"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"dataviz-studio/internal/models"
	"dataviz-studio/internal/progress"

	"github.com/xuri/excelize/v2"
)

const (
	// IngestProgressInterval is how many accepted rows pass between progress reports
	IngestProgressInterval = 100
	// DefaultCategory is assigned to rows without a third column
	DefaultCategory = "Data"
)

// IngestResult is the outcome of a completed ingestion run
type IngestResult struct {
	Points  []models.DataPoint
	Skipped int
}

// DataIngester parses tabular sources into data points. The first row is
// always treated as a header; malformed rows are counted and dropped.
type DataIngester struct{}

// NewDataIngester creates an ingester
func NewDataIngester() *DataIngester {
	return &DataIngester{}
}

// IngestFile opens path and ingests it as a workbook (.xlsx) or comma separated text
func (di *DataIngester) IngestFile(ctx context.Context, path string, report progress.Reporter) (IngestResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return IngestResult{}, &IngestionError{Source: path, Cause: err}
	}
	defer f.Close()

	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return di.IngestXLSX(ctx, path, f, report)
	}
	return di.IngestCSV(ctx, path, f, report)
}

// IngestCSV reads comma separated lines from r. Quoting is not supported.
// An I/O error aborts the run without a partial result.
func (di *DataIngester) IngestCSV(ctx context.Context, source string, r io.Reader, report progress.Reporter) (IngestResult, error) {
	acc := newRowAccumulator(report)
	reader := bufio.NewReader(r)
	header := true

	for {
		line, readErr := reader.ReadString('\n')
		if readErr != nil && !errors.Is(readErr, io.EOF) {
			return IngestResult{}, &IngestionError{Source: source, Cause: readErr}
		}
		if readErr != nil && line == "" {
			break
		}
		if err := ctx.Err(); err != nil {
			return IngestResult{}, &IngestionError{Source: source, Cause: err}
		}

		line = strings.TrimRight(line, "\r\n")
		if header {
			header = false
		} else {
			acc.add(strings.Split(line, ","))
		}

		if readErr != nil {
			break
		}
	}

	return acc.finish(), nil
}

// IngestXLSX reads the first worksheet of a workbook with the same row rules as IngestCSV
func (di *DataIngester) IngestXLSX(ctx context.Context, source string, r io.Reader, report progress.Reporter) (IngestResult, error) {
	book, err := excelize.OpenReader(r)
	if err != nil {
		return IngestResult{}, &IngestionError{Source: source, Cause: err}
	}
	defer book.Close()

	sheets := book.GetSheetList()
	if len(sheets) == 0 {
		return newRowAccumulator(report).finish(), nil
	}

	rows, err := book.Rows(sheets[0])
	if err != nil {
		return IngestResult{}, &IngestionError{Source: source, Cause: err}
	}
	defer rows.Close()

	acc := newRowAccumulator(report)
	header := true
	for rows.Next() {
		if err := ctx.Err(); err != nil {
			return IngestResult{}, &IngestionError{Source: source, Cause: err}
		}

		cols, err := rows.Columns()
		if err != nil {
			return IngestResult{}, &IngestionError{Source: source, Cause: err}
		}
		if header {
			header = false
			continue
		}
		acc.add(cols)
	}
	if err := rows.Error(); err != nil {
		return IngestResult{}, &IngestionError{Source: source, Cause: err}
	}

	return acc.finish(), nil
}

// ParseRow converts split fields into a data point.
// Trailing empty fields are ignored before the two-column minimum is checked.
func ParseRow(fields []string) (models.DataPoint, bool) {
	n := len(fields)
	for n > 0 && fields[n-1] == "" {
		n--
	}
	if n < 2 {
		return models.DataPoint{}, false
	}

	x, err := strconv.ParseFloat(strings.TrimSpace(fields[0]), 64)
	if err != nil {
		return models.DataPoint{}, false
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(fields[1]), 64)
	if err != nil {
		return models.DataPoint{}, false
	}

	category := DefaultCategory
	if n > 2 {
		category = strings.TrimSpace(fields[2])
	}
	return models.NewDataPoint(x, y, category), true
}

type rowAccumulator struct {
	report  progress.Reporter
	points  []models.DataPoint
	skipped int
}

func newRowAccumulator(report progress.Reporter) *rowAccumulator {
	if report == nil {
		report = progress.Discard
	}
	return &rowAccumulator{report: report}
}

func (a *rowAccumulator) add(fields []string) {
	dp, ok := ParseRow(fields)
	if !ok {
		a.skipped++
		return
	}
	a.points = append(a.points, dp)
	if len(a.points)%IngestProgressInterval == 0 {
		a.report.Report(len(a.points), progress.Indeterminate)
	}
}

func (a *rowAccumulator) finish() IngestResult {
	a.report.Report(len(a.points), len(a.points))
	return IngestResult{Points: a.points, Skipped: a.skipped}
}
