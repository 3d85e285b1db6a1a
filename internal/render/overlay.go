// Package render draws annotated point overlays onto a base map raster.
// All validation happens before the first pixel is touched so a failed call
// leaves the surface unmodified.
package render

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/fogleman/gg"
	colorful "github.com/lucasb-eyer/go-colorful"
	"go.opentelemetry.io/otel/metric"

	"github.com/tacmap/tacmap/internal/geo"
	"github.com/tacmap/tacmap/internal/mapdata"
	"github.com/tacmap/tacmap/pkg/core"
)

// ErrCountMismatch is returned when annotations are supplied but their count
// differs from the point count.
var ErrCountMismatch = errors.New("point and annotation counts differ")

// Renderer draws annotated frames onto surfaces. Safe for concurrent use as
// long as each call gets its own surface.
type Renderer struct {
	reg    *mapdata.Registry
	logger *slog.Logger

	framesRendered metric.Int64Counter
	pointsDrawn    metric.Int64Counter
}

// NewRenderer creates a renderer backed by the given projection registry.
// Uses the global OTel meter for metrics (no-op if not configured).
func NewRenderer(reg *mapdata.Registry, logger *slog.Logger) (*Renderer, error) {
	r := &Renderer{
		reg:    reg,
		logger: logger,
	}

	m := meter()

	var err error
	r.framesRendered, err = m.Int64Counter(
		"render.frames.rendered",
		metric.WithDescription("Total overlay frames rendered"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating frames counter: %w", err)
	}

	r.pointsDrawn, err = m.Int64Counter(
		"render.points.drawn",
		metric.WithDescription("Total points drawn onto surfaces"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating points counter: %w", err)
	}

	return r, nil
}

// Render draws every point of the frame onto the surface at the given view
// level. Annotations are optional; when absent every point gets defaults.
func (r *Renderer) Render(s *Surface, mapName string, frame core.Frame, level core.ViewLevel) error {
	proj, err := r.reg.Get(mapName)
	if err != nil {
		return err
	}

	if len(frame.Annotations) != 0 && len(frame.Annotations) != len(frame.Points) {
		return fmt.Errorf("%w: %d points, %d annotations",
			ErrCountMismatch, len(frame.Points), len(frame.Annotations))
	}

	// Normalize into a private slice; the caller's annotations stay
	// untouched. Every color resolves up front so a bad annotation cannot
	// fail the call after part of the frame has been drawn.
	anns := make([]core.Annotation, len(frame.Points))
	colors := make([]colorful.Color, len(anns))
	for i := range anns {
		if len(frame.Annotations) == 0 {
			anns[i] = core.DefaultAnnotation()
		} else {
			anns[i] = frame.Annotations[i].Normalized()
		}
		c, err := ParseColor(anns[i].Color)
		if err != nil {
			return fmt.Errorf("annotation %d: %w", i, err)
		}
		colors[i] = c
	}

	dc := s.Context()
	drawn := 0
	for i, pos := range frame.Points {
		ann := anns[i]

		lower := pos.Z < proj.LowerLevelMax
		alpha := resolveAlpha(ann.Health, lower, level)

		px := geo.Transform(proj, pos.X, geo.AxisX)
		py := geo.Transform(proj, pos.Y, geo.AxisY)
		if alpha == 0 {
			continue
		}

		drawPoint(dc, px, py, ann, colors[i], alpha)
		drawn++
	}

	ctx := context.Background()
	r.framesRendered.Add(ctx, 1)
	r.pointsDrawn.Add(ctx, int64(drawn))

	r.logger.Debug("rendered frame",
		"map", mapName,
		"level", level.String(),
		"points", len(frame.Points),
		"drawn", drawn)

	return nil
}

// resolveAlpha applies the baseline opacity and the level-visibility rule.
// Dead points start dim, points on the hidden level of a two-level map are
// dimmed further or suppressed entirely.
func resolveAlpha(health *int, pointLower bool, level core.ViewLevel) float64 {
	alpha := 1.0
	if health != nil && *health == 0 {
		alpha = 0.15
	}

	switch {
	case pointLower && level == core.ViewUpper:
		alpha *= 0.4
	case !pointLower && level == core.ViewLower:
		alpha = 0
	}
	return alpha
}

func drawPoint(dc *gg.Context, px, py float64, ann core.Annotation, c colorful.Color, alpha float64) {
	// outline marker underneath, color marker on top
	dc.SetRGBA(0, 0, 0, alpha)
	fillMarker(dc, ann.Marker, px, py, ann.Size)
	dc.SetRGBA(c.R, c.G, c.B, alpha)
	fillMarker(dc, ann.Marker, px, py, ann.Size*0.9)

	barH := ann.Size * 2
	barL := ann.Size * 6
	yOff := ann.Size * 3.5

	alive := ann.Health != nil && *ann.Health > 0
	if alive {
		hp := float64(*ann.Health)
		armor := 0.0
		if ann.Armor != nil {
			armor = float64(*ann.Armor)
		}

		barX := px - barL/2
		hpY := py + yOff
		armorY := hpY + barH

		drawBar(dc, barX, hpY, barL, barH, namedColors["red"], alpha)
		drawBar(dc, barX, hpY, barL*hp/100, barH, namedColors["green"], alpha)
		drawBar(dc, barX, armorY, barL, barH, namedColors["lightgrey"], alpha)
		if armor > 0 {
			drawBar(dc, barX, armorY, barL*armor/100, barH, namedColors["grey"], alpha)
		}
	}

	if ann.Facing != nil && alive {
		yaw := ann.Facing.Yaw * math.Pi / 180
		pitch := ann.Facing.Pitch * math.Pi / 180
		dx := math.Cos(yaw) * math.Cos(pitch)
		dy := math.Sin(yaw) * math.Cos(pitch)
		length := ann.Size * 2

		dc.SetRGBA(0, 0, 0, alpha)
		dc.SetLineWidth(1)
		dc.DrawLine(px, py, px+dx*length, py+dy*length)
		dc.Stroke()
	}

	if ann.Label != "" {
		dc.SetRGBA(1, 1, 1, alpha)
		dc.DrawStringAnchored(ann.Label, px, py+yOff+1.25*barH, 0.5, 0)
	}
}

func fillMarker(dc *gg.Context, shape string, x, y, size float64) {
	switch shape {
	case core.MarkerSquare:
		dc.DrawRectangle(x-size/2, y-size/2, size, size)
	case core.MarkerTriangle:
		dc.DrawRegularPolygon(3, x, y, size/2, 0)
	default:
		dc.DrawCircle(x, y, size/2)
	}
	dc.Fill()
}

func drawBar(dc *gg.Context, x, y, w, h float64, fill colorful.Color, alpha float64) {
	dc.DrawRectangle(x, y, w, h)
	dc.SetRGBA(fill.R, fill.G, fill.B, alpha)
	dc.FillPreserve()
	dc.SetRGBA(0, 0, 0, alpha)
	dc.SetLineWidth(1)
	dc.Stroke()
}
