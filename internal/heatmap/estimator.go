// Package heatmap aggregates projected point clouds into density layers and
// composites them over a dimmed base raster.
package heatmap

import (
	"errors"
	"fmt"
)

// Sentinel errors. All validation happens before any aggregation work.
var (
	ErrUnknownEstimator = errors.New("unknown heatmap method")
	ErrGridSize         = errors.New("grid size must be at least 1")
	ErrAlphaRange       = errors.New("invalid alpha range")
)

// Estimator selects how a point cloud is aggregated into cells.
type Estimator interface {
	gridSize() int
	estimator()
}

// Hexbin aggregates points into a hexagonal lattice with GridSize cells
// along the x axis.
type Hexbin struct {
	GridSize int
}

// Histogram aggregates points into a GridSize x GridSize rectangular bin
// grid with a logarithmic color scale.
type Histogram struct {
	GridSize int
}

// KDE fits a Gaussian kernel density estimate and evaluates it on a
// GridSize x GridSize grid. Cells below LowerBound times the peak density
// are suppressed.
type KDE struct {
	GridSize   int
	LowerBound float64
}

func (h Hexbin) gridSize() int    { return h.GridSize }
func (h Histogram) gridSize() int { return h.GridSize }
func (k KDE) gridSize() int       { return k.GridSize }

func (Hexbin) estimator()    {}
func (Histogram) estimator() {}
func (KDE) estimator()       {}

// ParseEstimator maps a method name to an estimator. kdeLowerBound only
// applies to "kde".
func ParseEstimator(method string, gridSize int, kdeLowerBound float64) (Estimator, error) {
	switch method {
	case "hex":
		return Hexbin{GridSize: gridSize}, nil
	case "hist":
		return Histogram{GridSize: gridSize}, nil
	case "kde":
		return KDE{GridSize: gridSize, LowerBound: kdeLowerBound}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownEstimator, method)
}
