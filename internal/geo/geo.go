// Package geo converts world coordinates to radar image pixel coordinates.
// Every transform is a pure affine lookup against the calibration registry;
// nothing here holds mutable state.
package geo

import (
	"errors"
	"strconv"
	"strings"

	geom "github.com/peterstace/simplefeatures/geom"

	"github.com/tacmap/tacmap/internal/mapdata"
	"github.com/tacmap/tacmap/pkg/core"
)

// ErrInvalidCoordinates is returned when a coordinate string cannot be parsed.
var ErrInvalidCoordinates = errors.New("invalid coordinates provided")

// Axis selects which world axis a transform applies to.
type Axis int

const (
	AxisX Axis = iota
	AxisY
)

// Transform converts one world coordinate to a pixel coordinate. The y axis
// is sign-inverted relative to x because image rows grow downward while
// world north grows upward. Exactly linear in v.
func Transform(p mapdata.Projection, v float64, axis Axis) float64 {
	if axis == AxisY {
		return (p.OriginY - v) / p.Scale
	}
	return (v - p.OriginX) / p.Scale
}

// Projector resolves map names against the registry and projects positions.
type Projector struct {
	reg *mapdata.Registry
}

// NewProjector creates a projector over the given registry.
func NewProjector(reg *mapdata.Registry) *Projector {
	return &Projector{reg: reg}
}

// Pixel projects a world position to image pixel coordinates.
func (pj *Projector) Pixel(mapName string, pos core.Position3D) (x, y float64, err error) {
	p, err := pj.reg.Get(mapName)
	if err != nil {
		return 0, 0, err
	}
	return Transform(p, pos.X, AxisX), Transform(p, pos.Y, AxisY), nil
}

// IsLowerLevel reports whether a position belongs to the map's lower radar
// level. Always false for single-level maps (threshold -Inf).
func (pj *Projector) IsLowerLevel(mapName string, pos core.Position3D) (bool, error) {
	p, err := pj.reg.Get(mapName)
	if err != nil {
		return false, err
	}
	return pos.Z < p.LowerLevelMax, nil
}

// PositionFromString parses an "x,y" or "x,y,z" string into a Position3D.
func PositionFromString(coords string) (core.Position3D, error) {
	parts := strings.Split(strings.TrimSpace(coords), ",")
	if len(parts) < 2 {
		return core.Position3D{}, ErrInvalidCoordinates
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return core.Position3D{}, ErrInvalidCoordinates
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return core.Position3D{}, ErrInvalidCoordinates
	}
	var z float64
	if len(parts) > 2 {
		z, err = strconv.ParseFloat(strings.TrimSpace(parts[2]), 64)
		if err != nil {
			return core.Position3D{}, ErrInvalidCoordinates
		}
	}
	return core.Position3D{X: x, Y: y, Z: z}, nil
}

// PointFromPosition builds an XYZ geometry point from a world position.
// Geometry data is stored in WKB, which lets SQLite round-trip positions
// through the inherent Scan/Value functions.
func PointFromPosition(pos core.Position3D) geom.Point {
	return geom.NewPoint(
		geom.Coordinates{
			XY:   geom.XY{X: pos.X, Y: pos.Y},
			Z:    pos.Z,
			Type: geom.CoordinatesType(geom.DimXYZ),
		},
	)
}

// PositionFromPoint is the inverse of PointFromPosition.
func PositionFromPoint(pt geom.Point) core.Position3D {
	coord, ok := pt.Coordinates()
	if !ok {
		return core.Position3D{}
	}
	return core.Position3D{X: coord.XY.X, Y: coord.XY.Y, Z: coord.Z}
}
