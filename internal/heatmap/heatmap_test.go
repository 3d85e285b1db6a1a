package heatmap

import (
	"image"
	"image/color"
	"image/png"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tacmap/tacmap/internal/assets"
	"github.com/tacmap/tacmap/internal/mapdata"
	"github.com/tacmap/tacmap/pkg/core"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.White)
		}
	}
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

func newTestSynthesizer(t *testing.T, dir string) *Synthesizer {
	t.Helper()
	s, err := NewSynthesizer(mapdata.Default(), assets.NewStore(dir), testLogger())
	require.NoError(t, err)
	return s
}

func TestParseEstimator(t *testing.T) {
	est, err := ParseEstimator("hex", 10, 0)
	require.NoError(t, err)
	assert.Equal(t, Hexbin{GridSize: 10}, est)

	est, err = ParseEstimator("hist", 25, 0)
	require.NoError(t, err)
	assert.Equal(t, Histogram{GridSize: 25}, est)

	est, err = ParseEstimator("kde", 40, 0.15)
	require.NoError(t, err)
	assert.Equal(t, KDE{GridSize: 40, LowerBound: 0.15}, est)

	_, err = ParseEstimator("invalid", 10, 0)
	assert.ErrorIs(t, err, ErrUnknownEstimator)
}

func TestAlphaBounds(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		wantLo  float64
		wantHi  float64
		wantErr bool
	}{
		{name: "flat", opts: Options{BaseAlpha: 0.7}, wantLo: 0.7, wantHi: 0.7},
		{name: "vary default range", opts: Options{BaseAlpha: 0.6, VaryAlpha: true}, wantLo: 0, wantHi: 0.6},
		{name: "vary explicit", opts: Options{VaryAlpha: true, VaryAlphaRange: []float64{0.2, 0.9}}, wantLo: 0.2, wantHi: 0.9},
		{name: "equal bounds", opts: Options{VaryAlpha: true, VaryAlphaRange: []float64{0.5, 0.5}}, wantLo: 0.5, wantHi: 0.5},
		{name: "three elements", opts: Options{VaryAlpha: true, VaryAlphaRange: []float64{0.5, 0.5, 0.5}}, wantErr: true},
		{name: "reversed", opts: Options{VaryAlpha: true, VaryAlphaRange: []float64{0.9, 0.1}}, wantErr: true},
		{name: "below zero", opts: Options{VaryAlpha: true, VaryAlphaRange: []float64{-0.1, 0.5}}, wantErr: true},
		{name: "above one", opts: Options{VaryAlpha: true, VaryAlphaRange: []float64{0, 1.5}}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lo, hi, err := alphaBounds(tt.opts)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrAlphaRange)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.wantLo, lo, 1e-9)
			assert.InDelta(t, tt.wantHi, hi, 1e-9)
		})
	}
}

func TestScaleAlpha(t *testing.T) {
	assert.InDelta(t, 0.9, scaleAlpha(1, 0.2, 0.9), 1e-9, "max weight hits the upper bound")
	assert.InDelta(t, 0.2, scaleAlpha(0, 0.2, 0.9), 1e-9)
	assert.InDelta(t, 0.55, scaleAlpha(0.5, 0.2, 0.9), 1e-9)
}

func TestColormap(t *testing.T) {
	g, err := Colormap("")
	require.NoError(t, err)

	low := g.At(0)
	assert.InDelta(t, 0xa5/255.0, low.R, 1e-3)
	high := g.At(1)
	assert.InDelta(t, 0x68/255.0, high.G, 1e-3)

	_, err = Colormap("RdYlGn")
	assert.NoError(t, err, "names are case insensitive")
	_, err = Colormap("viridis")
	assert.NoError(t, err)
	_, err = Colormap("turbo")
	assert.NoError(t, err)

	_, err = Colormap("plasma")
	assert.ErrorIs(t, err, ErrUnknownColormap)
}

func TestGradientAt_Clamps(t *testing.T) {
	g, err := Colormap("viridis")
	require.NoError(t, err)
	assert.Equal(t, g.At(0), g.At(-3))
	assert.Equal(t, g.At(1), g.At(42))
}

func TestHexbin_Counts(t *testing.T) {
	// two tight clusters far apart land in two cells
	pts := []pixel{
		{0, 0}, {0.1, 0}, {0, 0.1},
		{100, 100}, {100.1, 100},
	}
	cells := hexbin(pts, 4)

	total := 0.0
	for _, c := range cells {
		total += c.weight
	}
	assert.InDelta(t, float64(len(pts)), total, 1e-9, "every point lands in exactly one cell")
	assert.Len(t, cells, 2)
}

func TestHexbin_SinglePoint(t *testing.T) {
	cells := hexbin([]pixel{{5, 5}}, 10)
	require.Len(t, cells, 1)
	assert.InDelta(t, 1, cells[0].weight, 1e-9)
}

func TestHexbin_Empty(t *testing.T) {
	assert.Nil(t, hexbin(nil, 10))
}

func TestHist2d_Counts(t *testing.T) {
	pts := []pixel{
		{0, 0}, {1, 1},
		{9, 9}, {10, 10},
		{0, 10},
	}
	cells := hist2d(pts, 2)

	total := 0.0
	for _, c := range cells {
		total += c.weight
		assert.Greater(t, c.weight, 0.0, "only non-empty bins are returned")
	}
	assert.InDelta(t, float64(len(pts)), total, 1e-9)
	assert.Len(t, cells, 3)
}

func TestKDE_NeedsTwoPoints(t *testing.T) {
	assert.Nil(t, kde(nil, 10))
	assert.Nil(t, kde([]pixel{{1, 1}}, 10))
}

func TestKDE_PeaksAtCluster(t *testing.T) {
	pts := []pixel{
		{0, 0}, {1, 0}, {0, 1}, {1, 1}, {0.5, 0.5},
		{100, 100},
	}
	cells := kde(pts, 5)
	require.NotEmpty(t, cells)

	best := cells[0]
	for _, c := range cells {
		assert.Greater(t, c.weight, 0.0)
		if c.weight > best.weight {
			best = c
		}
	}
	assert.Less(t, best.x, 50.0, "density peaks near the cluster")
	assert.Less(t, best.y, 50.0)
}

func TestSynthesize_Validation(t *testing.T) {
	s := newTestSynthesizer(t, t.TempDir())
	pts := []core.Position3D{{X: -2476, Y: 3239}}

	_, err := s.Synthesize("de_nowhere", pts, Hexbin{GridSize: 10}, core.ViewUpper, Options{})
	assert.ErrorIs(t, err, mapdata.ErrUnknownMap)

	_, err = s.Synthesize("de_dust2", pts, Hexbin{GridSize: 0}, core.ViewUpper, Options{})
	assert.ErrorIs(t, err, ErrGridSize)

	_, err = s.Synthesize("de_dust2", pts, Hexbin{GridSize: 10}, core.ViewUpper, Options{Colormap: "plasma"})
	assert.ErrorIs(t, err, ErrUnknownColormap)

	_, err = s.Synthesize("de_dust2", pts, Hexbin{GridSize: 10}, core.ViewUpper,
		Options{VaryAlpha: true, VaryAlphaRange: []float64{0.9, 0.1}})
	assert.ErrorIs(t, err, ErrAlphaRange)
}

func TestSynthesize_MissingAsset(t *testing.T) {
	s := newTestSynthesizer(t, t.TempDir())
	_, err := s.Synthesize("de_dust2", nil, Hexbin{GridSize: 10}, core.ViewUpper, Options{})
	assert.ErrorIs(t, err, assets.ErrNotFound)
}

func TestSynthesize_DropsOtherLevel(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "de_nuke.png"), 32, 32)
	s := newTestSynthesizer(t, dir)

	// de_nuke lower level threshold is -495
	pts := []core.Position3D{
		{X: -3400, Y: 2800, Z: 0},
		{X: -3400, Y: 2800, Z: -600},
		{X: -3300, Y: 2700, Z: 0},
	}

	res, err := s.Synthesize("de_nuke", pts, Hexbin{GridSize: 5}, core.ViewUpper, Options{})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Dropped)
	assert.Equal(t, 32, res.Image.Bounds().Dx())
}

func TestSynthesize_HistOnBase(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "de_dust2.png"), 64, 64)
	s := newTestSynthesizer(t, dir)

	pts := []core.Position3D{
		{X: -2476 + 10*4.4, Y: 3239 - 10*4.4},
		{X: -2476 + 11*4.4, Y: 3239 - 11*4.4},
		{X: -2476 + 50*4.4, Y: 3239 - 50*4.4},
	}

	res, err := s.Synthesize("de_dust2", pts, Histogram{GridSize: 4}, core.ViewUpper,
		Options{VaryAlpha: true, VaryAlphaRange: []float64{0.2, 0.9}})
	require.NoError(t, err)
	assert.Zero(t, res.Dropped)
	require.NotNil(t, res.Image)
}

func TestSynthesize_KDETooFewPoints(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "de_dust2.png"), 16, 16)
	s := newTestSynthesizer(t, dir)

	// a single point cannot support a bandwidth estimate; the layer is
	// just the dimmed base
	res, err := s.Synthesize("de_dust2", []core.Position3D{{X: -2476, Y: 3239}},
		KDE{GridSize: 10, LowerBound: 0.1}, core.ViewUpper, Options{})
	require.NoError(t, err)
	assert.NotNil(t, res.Image)
}
