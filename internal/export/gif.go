// Package export renders frame sequences into animated GIF files.
package export

import (
	"fmt"
	"image"
	"image/color/palette"
	"image/draw"
	"image/gif"
	"log/slog"
	"os"

	"github.com/tacmap/tacmap/internal/assets"
	"github.com/tacmap/tacmap/internal/render"
	"github.com/tacmap/tacmap/pkg/core"
)

// DefaultFrameDelayMS is the frame delay when the caller passes zero.
const DefaultFrameDelayMS = 500

// Exporter renders each frame onto a fresh copy of the base raster and
// encodes the sequence as an animated GIF.
type Exporter struct {
	renderer *render.Renderer
	assets   *assets.Store
	logger   *slog.Logger
}

// NewExporter creates an exporter.
func NewExporter(renderer *render.Renderer, store *assets.Store, logger *slog.Logger) *Exporter {
	return &Exporter{
		renderer: renderer,
		assets:   store,
		logger:   logger,
	}
}

// WriteGIF renders the frames and writes an endlessly looping GIF to path.
// All frames are rendered before the file is created, so a render failure
// leaves no partial output behind. delayMS is the per-frame delay.
func (e *Exporter) WriteGIF(path, mapName string, frames []core.Frame, level core.ViewLevel, delayMS int) error {
	if delayMS <= 0 {
		delayMS = DefaultFrameDelayMS
	}
	// GIF delays are in hundredths of a second, floor one tick
	delay := delayMS / 10
	if delay < 1 {
		delay = 1
	}

	base, err := e.assets.Base(mapName, level)
	if err != nil {
		return err
	}

	anim := &gif.GIF{LoopCount: 0}
	for i, frame := range frames {
		s := render.NewSurface(base)
		if err := e.renderer.Render(s, mapName, frame, level); err != nil {
			return fmt.Errorf("frame %d: %w", i, err)
		}

		img := s.Image()
		paletted := image.NewPaletted(img.Bounds(), palette.Plan9)
		draw.FloydSteinberg.Draw(paletted, img.Bounds(), img, image.Point{})

		anim.Image = append(anim.Image, paletted)
		anim.Delay = append(anim.Delay, delay)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error creating %s: %w", path, err)
	}

	if err := gif.EncodeAll(f, anim); err != nil {
		f.Close()
		os.Remove(path)
		return fmt.Errorf("error encoding %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("error closing %s: %w", path, err)
	}

	e.logger.Info("wrote animation",
		"path", path,
		"map", mapName,
		"frames", len(frames),
		"delayMs", delayMS)

	return nil
}
