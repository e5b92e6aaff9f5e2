package components

import (
	"fmt"

	"dataviz-studio/internal/progress"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
)

// StatusBar shows the status message, run progress and the data point count
type StatusBar struct {
	container   *fyne.Container
	statusLabel *widget.Label
	countLabel  *widget.Label
	progress    *ProgressBar
}

// NewStatusBar creates a new status bar component
func NewStatusBar() *StatusBar {
	sb := &StatusBar{
		statusLabel: widget.NewLabel("Ready"),
		countLabel:  widget.NewLabel(countText(0)),
		progress:    NewProgressBar(),
	}
	sb.container = container.NewHBox(
		sb.statusLabel,
		sb.progress.GetContainer(),
		layout.NewSpacer(),
		sb.countLabel,
	)
	return sb
}

// SetStatus updates the message. A finished run hides and resets progress.
func (sb *StatusBar) SetStatus(message string, busy bool) {
	sb.statusLabel.SetText(message)
	if busy {
		sb.progress.Start()
	} else {
		sb.progress.Reset()
	}
}

// GetStatus returns the current status message
func (sb *StatusBar) GetStatus() string {
	return sb.statusLabel.Text
}

// SetProgress shows a progress report
func (sb *StatusBar) SetProgress(event progress.Event) {
	sb.progress.Update(event)
}

// SetDataCount updates the point counter
func (sb *StatusBar) SetDataCount(count int) {
	sb.countLabel.SetText(countText(count))
}

// GetDataCount returns the counter text
func (sb *StatusBar) GetDataCount() string {
	return sb.countLabel.Text
}

// Progress exposes the progress component
func (sb *StatusBar) Progress() *ProgressBar {
	return sb.progress
}

// GetContainer returns the status bar container
func (sb *StatusBar) GetContainer() *fyne.Container {
	return sb.container
}

func countText(count int) string {
	return fmt.Sprintf("Data Points: %d", count)
}

// ProgressBar switches between a determinate bar and an infinite one
// depending on whether the run knows its total.
type ProgressBar struct {
	container   *fyne.Container
	determinate *widget.ProgressBar
	infinite    *widget.ProgressBarInfinite
	visible     bool
}

// NewProgressBar creates a hidden progress bar
func NewProgressBar() *ProgressBar {
	pb := &ProgressBar{
		determinate: widget.NewProgressBar(),
		infinite:    widget.NewProgressBarInfinite(),
	}
	pb.infinite.Stop()
	pb.infinite.Hide()
	pb.container = container.NewGridWrap(fyne.NewSize(200, pb.determinate.MinSize().Height),
		container.NewStack(pb.determinate, pb.infinite))
	pb.container.Hide()
	return pb
}

// Start shows the bar at zero
func (pb *ProgressBar) Start() {
	pb.showDeterminate()
	pb.determinate.SetValue(0)
	pb.setVisible(true)
}

// Update applies a report; indeterminate reports switch to the infinite bar
func (pb *ProgressBar) Update(event progress.Event) {
	if event.Indeterminate {
		pb.determinate.Hide()
		pb.infinite.Show()
		pb.infinite.Start()
	} else {
		pb.showDeterminate()
		pb.determinate.SetValue(event.Fraction())
	}
	pb.setVisible(true)
}

// Reset hides the bar and clears its value
func (pb *ProgressBar) Reset() {
	pb.showDeterminate()
	pb.determinate.SetValue(0)
	pb.setVisible(false)
}

// GetProgress returns the determinate value
func (pb *ProgressBar) GetProgress() float64 {
	return pb.determinate.Value
}

// IsVisible reports whether the bar is shown
func (pb *ProgressBar) IsVisible() bool {
	return pb.visible
}

// IsIndeterminate reports whether the infinite bar is active
func (pb *ProgressBar) IsIndeterminate() bool {
	return pb.infinite.Visible()
}

// GetContainer returns the progress bar container
func (pb *ProgressBar) GetContainer() *fyne.Container {
	return pb.container
}

func (pb *ProgressBar) showDeterminate() {
	pb.infinite.Stop()
	pb.infinite.Hide()
	pb.determinate.Show()
}

func (pb *ProgressBar) setVisible(visible bool) {
	pb.visible = visible
	if visible {
		pb.container.Show()
	} else {
		pb.container.Hide()
	}
}
