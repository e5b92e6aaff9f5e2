package components

import (
	"fmt"
	"strconv"

	"dataviz-studio/internal/models"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// ControlPanel is the left-hand panel with data actions, chart settings and the preview
type ControlPanel struct {
	container *fyne.Container

	generateButton *widget.Button
	sizeEntry      *widget.SelectEntry
	kindSelect     *widget.Select
	loadButton     *widget.Button
	exportButton   *widget.Button

	animationCheck *widget.Check
	legendCheck    *widget.Check
	opacitySlider  *widget.Slider
	opacityLabel   *widget.Label

	preview *widget.Label

	generateHandler  func(kind models.GeneratorKind, size string)
	loadHandler      func()
	exportHandler    func()
	animationHandler func(bool)
	legendHandler    func(bool)
	opacityHandler   func(float64)
}

// NewControlPanel creates the panel. sizes fills the size selector; defaultSize is preselected.
func NewControlPanel(sizes []string, defaultSize int, settings models.ChartSettings) *ControlPanel {
	cp := &ControlPanel{}
	cp.createComponents(sizes, defaultSize, settings)
	cp.buildLayout()
	cp.setupEventHandlers()
	return cp
}

func (cp *ControlPanel) createComponents(sizes []string, defaultSize int, settings models.ChartSettings) {
	cp.generateButton = widget.NewButton("Generate Sample Data", nil)
	cp.generateButton.Importance = widget.HighImportance

	cp.sizeEntry = widget.NewSelectEntry(sizes)
	cp.sizeEntry.SetText(strconv.Itoa(defaultSize))

	cp.kindSelect = widget.NewSelect(models.GeneratorKindNames(), nil)
	cp.kindSelect.SetSelected(models.KindLinear.String())

	cp.loadButton = widget.NewButton("Load CSV Data", nil)
	cp.exportButton = widget.NewButton("Export Charts", nil)

	cp.animationCheck = widget.NewCheck("Enable Animations", nil)
	cp.animationCheck.SetChecked(settings.AnimationsEnabled)
	cp.legendCheck = widget.NewCheck("Show Legends", nil)
	cp.legendCheck.SetChecked(settings.LegendVisible)

	cp.opacitySlider = widget.NewSlider(models.MinOpacity, models.MaxOpacity)
	cp.opacitySlider.Step = 0.05
	cp.opacitySlider.SetValue(settings.Opacity)
	cp.opacityLabel = widget.NewLabel(opacityText(settings.Opacity))

	cp.preview = widget.NewLabel("")
	cp.preview.TextStyle = fyne.TextStyle{Monospace: true}
}

func (cp *ControlPanel) buildLayout() {
	dataSection := container.NewVBox(
		widget.NewLabelWithStyle("Data Controls", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewLabel("Dataset Size:"),
		cp.sizeEntry,
		widget.NewLabel("Data Type:"),
		cp.kindSelect,
		cp.generateButton,
		widget.NewSeparator(),
		cp.loadButton,
		cp.exportButton,
	)

	settingsSection := container.NewVBox(
		widget.NewLabelWithStyle("Chart Settings", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		cp.animationCheck,
		cp.legendCheck,
		cp.opacityLabel,
		cp.opacitySlider,
	)

	previewScroll := container.NewScroll(cp.preview)
	previewScroll.SetMinSize(fyne.NewSize(280, 240))

	cp.container = container.NewVBox(
		dataSection,
		widget.NewSeparator(),
		settingsSection,
		widget.NewSeparator(),
		widget.NewLabelWithStyle("Data Preview", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		previewScroll,
	)
}

func (cp *ControlPanel) setupEventHandlers() {
	cp.generateButton.OnTapped = func() {
		if cp.generateHandler != nil {
			cp.generateHandler(models.ParseGeneratorKind(cp.kindSelect.Selected), cp.sizeEntry.Text)
		}
	}
	cp.loadButton.OnTapped = func() {
		if cp.loadHandler != nil {
			cp.loadHandler()
		}
	}
	cp.exportButton.OnTapped = func() {
		if cp.exportHandler != nil {
			cp.exportHandler()
		}
	}
	cp.animationCheck.OnChanged = func(checked bool) {
		if cp.animationHandler != nil {
			cp.animationHandler(checked)
		}
	}
	cp.legendCheck.OnChanged = func(checked bool) {
		if cp.legendHandler != nil {
			cp.legendHandler(checked)
		}
	}
	cp.opacitySlider.OnChanged = func(value float64) {
		cp.opacityLabel.SetText(opacityText(value))
	}
	// Re-rendering happens once the drag ends
	cp.opacitySlider.OnChangeEnded = func(value float64) {
		if cp.opacityHandler != nil {
			cp.opacityHandler(value)
		}
	}
}

// SetGenerateHandler sets the handler for the generate button
func (cp *ControlPanel) SetGenerateHandler(handler func(kind models.GeneratorKind, size string)) {
	cp.generateHandler = handler
}

// SetLoadHandler sets the handler for the load button
func (cp *ControlPanel) SetLoadHandler(handler func()) {
	cp.loadHandler = handler
}

// SetExportHandler sets the handler for the export button
func (cp *ControlPanel) SetExportHandler(handler func()) {
	cp.exportHandler = handler
}

// SetAnimationHandler sets the handler for the animation toggle
func (cp *ControlPanel) SetAnimationHandler(handler func(bool)) {
	cp.animationHandler = handler
}

// SetLegendHandler sets the handler for the legend toggle
func (cp *ControlPanel) SetLegendHandler(handler func(bool)) {
	cp.legendHandler = handler
}

// SetOpacityHandler sets the handler for the opacity slider
func (cp *ControlPanel) SetOpacityHandler(handler func(float64)) {
	cp.opacityHandler = handler
}

// SetPreview replaces the preview text
func (cp *ControlPanel) SetPreview(text string) {
	cp.preview.SetText(text)
}

// GetPreview returns the preview text
func (cp *ControlPanel) GetPreview() string {
	return cp.preview.Text
}

// GetContainer returns the panel container
func (cp *ControlPanel) GetContainer() *fyne.Container {
	return cp.container
}

func opacityText(value float64) string {
	return fmt.Sprintf("Chart Opacity: %.2f", value)
}
