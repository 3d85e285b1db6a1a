package core

// ViewLevel selects which vertical layer of a multi-level map a render
// targets.
type ViewLevel int

const (
	ViewUpper ViewLevel = iota
	ViewLower
)

func (v ViewLevel) String() string {
	if v == ViewLower {
		return "lower"
	}
	return "upper"
}

// ParseViewLevel converts "upper"/"lower" into a ViewLevel. Anything else
// (including "") is the upper level.
func ParseViewLevel(s string) ViewLevel {
	if s == "lower" {
		return ViewLower
	}
	return ViewUpper
}

// Frame is one time slice of annotated positions. Order is display order.
// Annotations may be nil (all defaults); when present the count must match
// Points.
type Frame struct {
	Points      []Position3D `json:"points"`
	Annotations []Annotation `json:"annotations,omitempty"`
}
