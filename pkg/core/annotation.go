package core

// Marker shapes supported by the overlay renderer.
const (
	MarkerCircle   = "circle"
	MarkerSquare   = "square"
	MarkerTriangle = "triangle"
)

// Defaults applied when an annotation leaves a field unset.
const (
	DefaultMarker = MarkerCircle
	DefaultColor  = "red"
	DefaultSize   = 10.0
)

// Facing is a view direction in degrees.
type Facing struct {
	Pitch float64 `json:"pitch"`
	Yaw   float64 `json:"yaw"`
}

// Annotation carries the optional per-point display settings for one
// plotted position. Health and Armor are percentages in [0,100]; nil means
// "not tracked" and suppresses the status bars entirely.
type Annotation struct {
	Marker string  `json:"marker,omitempty"`
	Color  string  `json:"color,omitempty"`
	Size   float64 `json:"size,omitempty"`
	Health *int    `json:"health,omitempty"`
	Armor  *int    `json:"armor,omitempty"`
	Facing *Facing `json:"facing,omitempty"`
	Label  string  `json:"label,omitempty"`
}

// DefaultAnnotation returns an annotation with all defaults filled in.
func DefaultAnnotation() Annotation {
	return Annotation{
		Marker: DefaultMarker,
		Color:  DefaultColor,
		Size:   DefaultSize,
	}
}

// Normalized returns a copy with zero-valued display fields replaced by
// their defaults.
func (a Annotation) Normalized() Annotation {
	if a.Marker == "" {
		a.Marker = DefaultMarker
	}
	if a.Color == "" {
		a.Color = DefaultColor
	}
	if a.Size <= 0 {
		a.Size = DefaultSize
	}
	return a
}
