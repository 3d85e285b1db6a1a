package heatmap

import (
	"errors"
	"fmt"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// ErrUnknownColormap is returned for a colormap name that is not registered.
var ErrUnknownColormap = errors.New("unknown colormap")

// DefaultColormap is used when no colormap name is given.
const DefaultColormap = "rdylgn"

// Gradient interpolates linearly between evenly spaced color stops.
type Gradient struct {
	stops []colorful.Color
}

// At returns the gradient color at t, clamped to [0, 1].
func (g Gradient) At(t float64) colorful.Color {
	if t <= 0 {
		return g.stops[0]
	}
	if t >= 1 {
		return g.stops[len(g.stops)-1]
	}
	pos := t * float64(len(g.stops)-1)
	i := int(pos)
	return g.stops[i].BlendRgb(g.stops[i+1], pos-float64(i))
}

func mustHex(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		panic(err)
	}
	return c
}

var colormaps = map[string]Gradient{
	// ColorBrewer RdYlGn-11, low density red through green
	"rdylgn": {stops: []colorful.Color{
		mustHex("#a50026"), mustHex("#d73027"), mustHex("#f46d43"),
		mustHex("#fdae61"), mustHex("#fee08b"), mustHex("#ffffbf"),
		mustHex("#d9ef8b"), mustHex("#a6d96a"), mustHex("#66bd63"),
		mustHex("#1a9850"), mustHex("#006837"),
	}},
	"viridis": {stops: []colorful.Color{
		mustHex("#440154"), mustHex("#482878"), mustHex("#3e4989"),
		mustHex("#31688e"), mustHex("#26828e"), mustHex("#1f9e89"),
		mustHex("#35b779"), mustHex("#6ece58"), mustHex("#b5de2b"),
		mustHex("#fde725"),
	}},
	"turbo": {stops: []colorful.Color{
		mustHex("#30123b"), mustHex("#4145ab"), mustHex("#4675ed"),
		mustHex("#39a2fc"), mustHex("#1bcfd4"), mustHex("#24eca6"),
		mustHex("#61fc6c"), mustHex("#a4fc3b"), mustHex("#d1e834"),
		mustHex("#f3c63a"), mustHex("#fe9b2d"), mustHex("#f36315"),
		mustHex("#d93806"), mustHex("#b11901"), mustHex("#7a0402"),
	}},
}

// Colormap resolves a colormap by name. The empty string selects the
// default.
func Colormap(name string) (Gradient, error) {
	if name == "" {
		name = DefaultColormap
	}
	g, ok := colormaps[strings.ToLower(name)]
	if !ok {
		return Gradient{}, fmt.Errorf("%w: %q", ErrUnknownColormap, name)
	}
	return g, nil
}
