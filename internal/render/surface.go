package render

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/fogleman/gg"
	"golang.org/x/image/font/basicfont"
)

// Surface is the mutable canvas for one render call. It owns its pixel
// buffer exclusively; callers acquire a fresh surface per call and drop it
// when the rendered image has been taken.
type Surface struct {
	dc *gg.Context
}

// NewSurface creates a surface with the base raster drawn at full opacity.
func NewSurface(base image.Image) *Surface {
	dc := gg.NewContextForImage(base)
	dc.SetFontFace(basicfont.Face7x13)
	return &Surface{dc: dc}
}

// NewDimmedSurface creates a surface with the base raster composited over
// black at the given opacity. Heatmaps dim the base so the density layer
// reads clearly.
func NewDimmedSurface(base image.Image, alpha float64) *Surface {
	b := base.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), image.NewUniform(color.Black), image.Point{}, draw.Src)

	mask := image.NewUniform(color.Alpha{A: uint8(alpha*255 + 0.5)})
	draw.DrawMask(rgba, rgba.Bounds(), base, b.Min, mask, image.Point{}, draw.Over)

	dc := gg.NewContextForRGBA(rgba)
	dc.SetFontFace(basicfont.Face7x13)
	return &Surface{dc: dc}
}

// Context exposes the drawing context.
func (s *Surface) Context() *gg.Context {
	return s.dc
}

// Size returns the canvas dimensions in pixels.
func (s *Surface) Size() (w, h int) {
	return s.dc.Width(), s.dc.Height()
}

// Image returns the rendered raster.
func (s *Surface) Image() image.Image {
	return s.dc.Image()
}
