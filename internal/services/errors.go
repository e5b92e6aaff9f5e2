package services

import (
	"errors"
	"fmt"

	"dataviz-studio/internal/models"
)

var (
	// ErrQueueFull is returned when the worker pool cannot accept more tasks
	ErrQueueFull = errors.New("worker queue is full")
	// ErrPoolClosed is returned when submitting after shutdown
	ErrPoolClosed = errors.New("worker pool is shut down")
)

// GenerationError reports a synthetic data run that did not complete
type GenerationError struct {
	Kind  models.GeneratorKind
	Cause error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generating %s data: %v", e.Kind, e.Cause)
}

func (e *GenerationError) Unwrap() error { return e.Cause }

// IngestionError reports a source that could not be read to completion
type IngestionError struct {
	Source string
	Cause  error
}

func (e *IngestionError) Error() string {
	return fmt.Sprintf("reading %s: %v", e.Source, e.Cause)
}

func (e *IngestionError) Unwrap() error { return e.Cause }

// ExportError reports a chart file that could not be written
type ExportError struct {
	Path  string
	Cause error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("exporting %s: %v", e.Path, e.Cause)
}

func (e *ExportError) Unwrap() error { return e.Cause }

// panicError turns a recovered panic value into an error
func panicError(r interface{}) error {
	if err, ok := r.(error); ok {
		return fmt.Errorf("panic: %w", err)
	}
	return fmt.Errorf("panic: %v", r)
}
