// Package mapdata holds the per-map calibration table that ties world
// coordinates to radar image pixels. The table is built once at startup and
// never mutated afterwards, so concurrent readers need no locking.
package mapdata

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"sort"
)

// ErrUnknownMap is returned when no calibration is registered for a map name.
var ErrUnknownMap = errors.New("no calibration registered for map")

// Projection is the affine calibration for one map. OriginX/OriginY are the
// world coordinates of the radar image's upper-left corner; Scale is world
// units per pixel. LowerLevelMax is the z height below which a position
// belongs to the map's lower level; -Inf means the map has a single level.
type Projection struct {
	OriginX       float64
	OriginY       float64
	Scale         float64
	Rotate        bool
	Zoom          float64
	LowerLevelMax float64
}

// HasLowerLevel reports whether the map has a lower radar level at all.
func (p Projection) HasLowerLevel() bool {
	return !math.IsInf(p.LowerLevelMax, -1)
}

// Registry is the immutable map name -> Projection table.
type Registry struct {
	maps map[string]Projection
}

// Default returns a registry holding the compiled-in calibration table.
func Default() *Registry {
	maps := make(map[string]Projection, len(defaultTable))
	for name, p := range defaultTable {
		maps[name] = p
	}
	return &Registry{maps: maps}
}

// Get looks up the calibration for a map. Wraps ErrUnknownMap when the map
// name has no entry.
func (r *Registry) Get(name string) (Projection, error) {
	p, ok := r.maps[name]
	if !ok {
		return Projection{}, fmt.Errorf("%w: %q", ErrUnknownMap, name)
	}
	return p, nil
}

// Names returns all registered map names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.maps))
	for name := range r.maps {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// projectionOverride mirrors the calibration file entry format. JSON cannot
// encode -Inf, so a missing lowerLevelMax means "single level".
type projectionOverride struct {
	PosX          float64  `json:"pos_x"`
	PosY          float64  `json:"pos_y"`
	Scale         float64  `json:"scale"`
	Rotate        bool     `json:"rotate"`
	Zoom          float64  `json:"zoom"`
	LowerLevelMax *float64 `json:"lowerLevelMax"`
}

// LoadFile returns a registry with the compiled-in defaults merged with the
// entries of a JSON calibration file (map name -> entry). File entries win.
func LoadFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading calibration file: %w", err)
	}

	overrides := map[string]projectionOverride{}
	if err := json.Unmarshal(data, &overrides); err != nil {
		return nil, fmt.Errorf("error parsing calibration file: %w", err)
	}

	reg := Default()
	for name, o := range overrides {
		if o.Scale <= 0 {
			return nil, fmt.Errorf("calibration for %q: scale must be positive, got %v", name, o.Scale)
		}
		p := Projection{
			OriginX:       o.PosX,
			OriginY:       o.PosY,
			Scale:         o.Scale,
			Rotate:        o.Rotate,
			Zoom:          o.Zoom,
			LowerLevelMax: math.Inf(-1),
		}
		if o.LowerLevelMax != nil {
			p.LowerLevelMax = *o.LowerLevelMax
		}
		reg.maps[name] = p
	}
	return reg, nil
}
