package render

import (
	"os"
	"path/filepath"

	"dataviz-studio/internal/logger"
	"dataviz-studio/internal/models"
	"dataviz-studio/internal/projection"
	"dataviz-studio/internal/services"
)

// Exporter writes every chart view as a PNG plus one interactive HTML page
type Exporter struct {
	renderer *Renderer
	logger   logger.Logger
}

// NewExporter creates an exporter drawing with renderer
func NewExporter(renderer *Renderer, log logger.Logger) *Exporter {
	if log == nil {
		log = logger.Nop()
	}
	return &Exporter{renderer: renderer, logger: log}
}

// Export writes the files into dir, creating it when missing, and returns
// the written paths in chart order. The first failure stops the export.
func (e *Exporter) Export(dir string, views projection.Charts, settings models.ChartSettings) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, &services.ExportError{Path: dir, Cause: err}
	}

	files := make([]string, 0, len(ChartKinds())+1)
	for _, kind := range ChartKinds() {
		path := filepath.Join(dir, kind.FileName())

		data, err := e.renderer.PNG(kind, views, settings)
		if err != nil {
			return files, &services.ExportError{Path: path, Cause: err}
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return files, &services.ExportError{Path: path, Cause: err}
		}
		files = append(files, path)
	}

	path := filepath.Join(dir, HTMLFileName)
	if err := e.writeHTML(path, views, settings); err != nil {
		return files, &services.ExportError{Path: path, Cause: err}
	}
	files = append(files, path)

	e.logger.Debug("Exporter", "charts written", map[string]interface{}{
		"dir":   dir,
		"files": len(files),
	})
	return files, nil
}

func (e *Exporter) writeHTML(path string, views projection.Charts, settings models.ChartSettings) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := e.renderer.WriteHTML(f, views, settings); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
