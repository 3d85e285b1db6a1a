package render

import (
	"errors"
	"fmt"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// ErrUnknownColor is returned for a color that is neither a known name nor
// a hex value.
var ErrUnknownColor = errors.New("unknown color")

// namedColors covers the names annotation producers actually emit.
var namedColors = map[string]colorful.Color{
	"black":     {R: 0, G: 0, B: 0},
	"white":     {R: 1, G: 1, B: 1},
	"red":       {R: 1, G: 0, B: 0},
	"green":     {R: 0, G: 0.5, B: 0},
	"lime":      {R: 0, G: 1, B: 0},
	"blue":      {R: 0, G: 0, B: 1},
	"yellow":    {R: 1, G: 1, B: 0},
	"orange":    {R: 1, G: 0.647, B: 0},
	"cyan":      {R: 0, G: 1, B: 1},
	"magenta":   {R: 1, G: 0, B: 1},
	"purple":    {R: 0.5, G: 0, B: 0.5},
	"grey":      {R: 0.502, G: 0.502, B: 0.502},
	"gray":      {R: 0.502, G: 0.502, B: 0.502},
	"lightgrey": {R: 0.827, G: 0.827, B: 0.827},
	"lightgray": {R: 0.827, G: 0.827, B: 0.827},
	"skyblue":   {R: 0.529, G: 0.808, B: 0.922},
}

// ParseColor resolves a color name or "#rrggbb" hex value.
func ParseColor(s string) (colorful.Color, error) {
	if strings.HasPrefix(s, "#") {
		c, err := colorful.Hex(s)
		if err != nil {
			return colorful.Color{}, fmt.Errorf("%w: %q", ErrUnknownColor, s)
		}
		return c, nil
	}
	if c, ok := namedColors[strings.ToLower(s)]; ok {
		return c, nil
	}
	return colorful.Color{}, fmt.Errorf("%w: %q", ErrUnknownColor, s)
}
