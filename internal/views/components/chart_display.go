package components

import (
	"image"
	"time"

	"dataviz-studio/internal/render"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
)

const (
	ChartAreaWidth  = 720
	ChartAreaHeight = 420

	fadeDuration = 400 * time.Millisecond
)

// ChartDisplay holds one tab per chart kind
type ChartDisplay struct {
	tabs   *container.AppTabs
	images map[render.ChartKind]*canvas.Image
	fades  []*fyne.Animation
}

// NewChartDisplay creates the chart tabs with placeholder images
func NewChartDisplay() *ChartDisplay {
	cd := &ChartDisplay{images: make(map[render.ChartKind]*canvas.Image)}

	items := make([]*container.TabItem, 0, len(render.ChartKinds()))
	for _, kind := range render.ChartKinds() {
		img := canvas.NewImageFromImage(render.Placeholder(ChartAreaWidth, ChartAreaHeight, render.NoDataText))
		img.FillMode = canvas.ImageFillContain
		img.ScaleMode = canvas.ImageScaleSmooth
		img.SetMinSize(fyne.NewSize(ChartAreaWidth, ChartAreaHeight))
		cd.images[kind] = img

		items = append(items, container.NewTabItem(kind.Title(), container.NewScroll(img)))
	}
	cd.tabs = container.NewAppTabs(items...)
	return cd
}

// SetImage replaces one chart. With animate set the new image fades in.
func (cd *ChartDisplay) SetImage(kind render.ChartKind, img image.Image, animate bool) {
	target, ok := cd.images[kind]
	if !ok || img == nil {
		return
	}
	target.Image = img

	if !animate {
		target.Translucency = 0
		target.Refresh()
		return
	}

	fade := fyne.NewAnimation(fadeDuration, func(done float32) {
		target.Translucency = float64(1 - done)
		target.Refresh()
	})
	fade.Curve = fyne.AnimationEaseOut
	cd.fades = append(cd.fades, fade)
	fade.Start()
}

// StopAnimations halts running fades and shows charts fully opaque
func (cd *ChartDisplay) StopAnimations() {
	for _, fade := range cd.fades {
		fade.Stop()
	}
	cd.fades = cd.fades[:0]
	for _, img := range cd.images {
		img.Translucency = 0
		img.Refresh()
	}
}

// Image returns the currently shown image of a chart
func (cd *ChartDisplay) Image(kind render.ChartKind) image.Image {
	if img, ok := cd.images[kind]; ok {
		return img.Image
	}
	return nil
}

// SelectedKind returns the chart kind of the active tab
func (cd *ChartDisplay) SelectedKind() render.ChartKind {
	i := cd.tabs.SelectedIndex()
	if i < 0 {
		return render.ChartLine
	}
	return render.ChartKinds()[i]
}

// GetContainer returns the tab container
func (cd *ChartDisplay) GetContainer() fyne.CanvasObject {
	return cd.tabs
}
