package models

import (
	"fmt"
	"sync"
)

const (
	MinOpacity     = 0.1
	MaxOpacity     = 1.0
	DefaultOpacity = 0.8
)

// ChartSettings are presentation flags handed to the rendering layer.
// They never influence the projected data.
type ChartSettings struct {
	AnimationsEnabled bool
	LegendVisible     bool
	Opacity           float64
}

// DefaultChartSettings mirrors the initial state of the chart controls
func DefaultChartSettings() ChartSettings {
	return ChartSettings{
		AnimationsEnabled: true,
		LegendVisible:     true,
		Opacity:           DefaultOpacity,
	}
}

// ChartConfiguration guards the chart settings shared between the controller and the view
type ChartConfiguration struct {
	mu       sync.RWMutex
	settings ChartSettings
}

// NewChartConfiguration creates a configuration holding the default settings
func NewChartConfiguration() *ChartConfiguration {
	return &ChartConfiguration{settings: DefaultChartSettings()}
}

// Settings returns a copy of the current settings
func (cc *ChartConfiguration) Settings() ChartSettings {
	cc.mu.RLock()
	defer cc.mu.RUnlock()
	return cc.settings
}

// SetAnimationsEnabled toggles chart animations
func (cc *ChartConfiguration) SetAnimationsEnabled(enabled bool) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.settings.AnimationsEnabled = enabled
}

// SetLegendVisible toggles chart legends
func (cc *ChartConfiguration) SetLegendVisible(visible bool) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.settings.LegendVisible = visible
}

// SetOpacity updates chart opacity, rejecting values outside the slider range
func (cc *ChartConfiguration) SetOpacity(opacity float64) error {
	if opacity < MinOpacity || opacity > MaxOpacity {
		return NewValidationError("opacity", opacity, fmt.Sprintf("value must be between %.1f and %.1f", MinOpacity, MaxOpacity))
	}

	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.settings.Opacity = opacity
	return nil
}

// ValidationError represents an invalid setting or request parameter
type ValidationError struct {
	Parameter string
	Value     interface{}
	Message   string
}

// NewValidationError creates a new validation error
func NewValidationError(parameter string, value interface{}, message string) *ValidationError {
	return &ValidationError{
		Parameter: parameter,
		Value:     value,
		Message:   message,
	}
}

// Error returns the error message
func (ve *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for parameter '%s' with value '%v': %s",
		ve.Parameter, ve.Value, ve.Message)
}
