package heatmap

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"math"

	"go.opentelemetry.io/otel/metric"

	"github.com/tacmap/tacmap/internal/assets"
	"github.com/tacmap/tacmap/internal/geo"
	"github.com/tacmap/tacmap/internal/mapdata"
	"github.com/tacmap/tacmap/internal/render"
	"github.com/tacmap/tacmap/pkg/core"
)

// DefaultBaseAlpha is the cell opacity when the caller does not set one.
const DefaultBaseAlpha = 0.5

// The base raster is dimmed under the density layer so the cells read
// clearly.
const baseDim = 0.5

// Options tune the density layer appearance.
type Options struct {
	// Colormap name, empty selects the default.
	Colormap string
	// BaseAlpha is the flat cell opacity. Zero means DefaultBaseAlpha.
	BaseAlpha float64
	// VaryAlpha rescales opacity with cell weight instead of using
	// BaseAlpha flat.
	VaryAlpha bool
	// VaryAlphaRange is the [min, max] opacity pair for VaryAlpha. Nil
	// means [0, BaseAlpha].
	VaryAlphaRange []float64
}

// Result is a synthesized density layer.
type Result struct {
	Image image.Image
	// Dropped counts input points excluded because they sit on the other
	// level of a two-level map.
	Dropped int
}

// Synthesizer builds density layers over base map rasters.
type Synthesizer struct {
	reg    *mapdata.Registry
	assets *assets.Store
	logger *slog.Logger

	layers  metric.Int64Counter
	dropped metric.Int64Counter
}

// NewSynthesizer creates a synthesizer. Uses the global OTel meter for
// metrics (no-op if not configured).
func NewSynthesizer(reg *mapdata.Registry, store *assets.Store, logger *slog.Logger) (*Synthesizer, error) {
	s := &Synthesizer{
		reg:    reg,
		assets: store,
		logger: logger,
	}

	m := meter()

	var err error
	s.layers, err = m.Int64Counter(
		"heatmap.layers.synthesized",
		metric.WithDescription("Total density layers synthesized"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating layers counter: %w", err)
	}

	s.dropped, err = m.Int64Counter(
		"heatmap.points.dropped",
		metric.WithDescription("Total points dropped for being on the other map level"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating dropped counter: %w", err)
	}

	return s, nil
}

// Synthesize aggregates the points with the estimator and composites the
// resulting cells over the dimmed base raster for the given view level.
// Points on the other level are dropped, counted, and reported in the
// result rather than failing the call.
func (s *Synthesizer) Synthesize(mapName string, points []core.Position3D, est Estimator, level core.ViewLevel, opts Options) (*Result, error) {
	proj, err := s.reg.Get(mapName)
	if err != nil {
		return nil, err
	}
	if est.gridSize() < 1 {
		return nil, fmt.Errorf("%w: %d", ErrGridSize, est.gridSize())
	}
	grad, err := Colormap(opts.Colormap)
	if err != nil {
		return nil, err
	}
	if opts.BaseAlpha == 0 {
		opts.BaseAlpha = DefaultBaseAlpha
	}
	alphaLo, alphaHi, err := alphaBounds(opts)
	if err != nil {
		return nil, err
	}

	kept := make([]pixel, 0, len(points))
	for _, p := range points {
		lower := p.Z < proj.LowerLevelMax
		if lower != (level == core.ViewLower) {
			continue
		}
		kept = append(kept, pixel{
			x: geo.Transform(proj, p.X, geo.AxisX),
			y: geo.Transform(proj, p.Y, geo.AxisY),
		})
	}
	dropped := len(points) - len(kept)
	if dropped > 0 {
		s.logger.Warn("dropped points on the other map level",
			"map", mapName,
			"level", level.String(),
			"dropped", dropped,
			"kept", len(kept))
	}

	base, err := s.assets.Base(mapName, level)
	if err != nil {
		return nil, err
	}
	surface := render.NewDimmedSurface(base, baseDim)

	var cells []cell
	suppressBelow := 0.0
	switch e := est.(type) {
	case Hexbin:
		cells = hexbin(kept, e.GridSize)
	case Histogram:
		cells = hist2d(kept, e.GridSize)
	case KDE:
		cells = kde(kept, e.GridSize)
		suppressBelow = e.LowerBound
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnknownEstimator, est)
	}

	drawCells(surface, est, cells, grad, alphaLo, alphaHi, suppressBelow)

	ctx := context.Background()
	s.layers.Add(ctx, 1)
	s.dropped.Add(ctx, int64(dropped))

	return &Result{Image: surface.Image(), Dropped: dropped}, nil
}

// alphaBounds resolves the [min, max] opacity pair. A flat alpha collapses
// both bounds to BaseAlpha.
func alphaBounds(opts Options) (lo, hi float64, err error) {
	if !opts.VaryAlpha {
		return opts.BaseAlpha, opts.BaseAlpha, nil
	}
	rng := opts.VaryAlphaRange
	if rng == nil {
		return 0, opts.BaseAlpha, nil
	}
	if len(rng) != 2 {
		return 0, 0, fmt.Errorf("%w: want 2 elements, got %d", ErrAlphaRange, len(rng))
	}
	if rng[0] < 0 || rng[0] > 1 || rng[1] < 0 || rng[1] > 1 {
		return 0, 0, fmt.Errorf("%w: values must be in [0, 1], got %v", ErrAlphaRange, rng)
	}
	if rng[0] > rng[1] {
		return 0, 0, fmt.Errorf("%w: min %v exceeds max %v", ErrAlphaRange, rng[0], rng[1])
	}
	return rng[0], rng[1], nil
}

func scaleAlpha(t, lo, hi float64) float64 {
	return lo + t*(hi-lo)
}

func drawCells(surface *render.Surface, est Estimator, cells []cell, grad Gradient, alphaLo, alphaHi, suppressBelow float64) {
	if len(cells) == 0 {
		return
	}

	maxW := 0.0
	minW := math.Inf(1)
	for _, c := range cells {
		maxW = math.Max(maxW, c.weight)
		minW = math.Min(minW, c.weight)
	}
	if maxW == 0 {
		return
	}

	_, isHist := est.(Histogram)
	dc := surface.Context()
	for _, c := range cells {
		if c.weight == 0 || c.weight < suppressBelow*maxW {
			continue
		}

		t := c.weight / maxW
		colorT := t
		if isHist {
			// counts span orders of magnitude, so the color scale is
			// logarithmic
			if maxW == minW {
				colorT = 1
			} else {
				colorT = math.Log(c.weight/minW) / math.Log(maxW/minW)
			}
		}

		col := grad.At(colorT)
		dc.SetRGBA(col.R, col.G, col.B, scaleAlpha(t, alphaLo, alphaHi))
		if _, ok := est.(Hexbin); ok {
			dc.DrawRegularPolygon(6, c.x, c.y, c.w, 0)
		} else {
			dc.DrawRectangle(c.x-c.w/2, c.y-c.h/2, c.w, c.h)
		}
		dc.Fill()
	}
}
