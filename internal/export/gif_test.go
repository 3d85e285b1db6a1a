package export

import (
	"image"
	"image/color"
	"image/gif"
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
	"github.com/tacmap/tacmap/internal/render"
	"github.com/tacmap/tacmap/pkg/core"
)

func newTestExporter(t *testing.T) (*Exporter, string) {
	t.Helper()

	dir := t.TempDir()
	img := image.NewRGBA(image.Rect(0, 0, 32, 32))
	for y := 0; y < 32; y++ {
		for x := 0; x < 32; x++ {
			img.Set(x, y, color.White)
		}
	}
	f, err := os.Create(filepath.Join(dir, "de_dust2.png"))
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	r, err := render.NewRenderer(mapdata.Default(), logger)
	require.NoError(t, err)

	return NewExporter(r, assets.NewStore(dir), logger), t.TempDir()
}

func testFrames(n int) []core.Frame {
	frames := make([]core.Frame, n)
	for i := range frames {
		frames[i] = core.Frame{
			Points: []core.Position3D{{X: -2476 + float64(i)*4.4, Y: 3239}},
		}
	}
	return frames
}

func TestWriteGIF(t *testing.T) {
	e, out := newTestExporter(t)
	path := filepath.Join(out, "match.gif")

	require.NoError(t, e.WriteGIF(path, "de_dust2", testFrames(3), core.ViewUpper, 500))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	anim, err := gif.DecodeAll(f)
	require.NoError(t, err)
	assert.Len(t, anim.Image, 3)
	assert.Equal(t, 0, anim.LoopCount, "loops forever")
	// 500ms is 50 hundredths of a second
	assert.Equal(t, []int{50, 50, 50}, anim.Delay)
	assert.Equal(t, 32, anim.Image[0].Bounds().Dx())
}

func TestWriteGIF_DefaultDelay(t *testing.T) {
	e, out := newTestExporter(t)
	path := filepath.Join(out, "match.gif")

	require.NoError(t, e.WriteGIF(path, "de_dust2", testFrames(1), core.ViewUpper, 0))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	anim, err := gif.DecodeAll(f)
	require.NoError(t, err)
	assert.Equal(t, []int{50}, anim.Delay)
}

func TestWriteGIF_TinyDelayFloorsToOneTick(t *testing.T) {
	e, out := newTestExporter(t)
	path := filepath.Join(out, "match.gif")

	require.NoError(t, e.WriteGIF(path, "de_dust2", testFrames(1), core.ViewUpper, 3))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	anim, err := gif.DecodeAll(f)
	require.NoError(t, err)
	assert.Equal(t, []int{1}, anim.Delay)
}

func TestWriteGIF_RenderErrorLeavesNoFile(t *testing.T) {
	e, out := newTestExporter(t)
	path := filepath.Join(out, "match.gif")

	frames := testFrames(2)
	frames[1].Annotations = []core.Annotation{
		core.DefaultAnnotation(),
		core.DefaultAnnotation(),
	}

	err := e.WriteGIF(path, "de_dust2", frames, core.ViewUpper, 500)
	assert.ErrorIs(t, err, render.ErrCountMismatch)

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestWriteGIF_MissingBase(t *testing.T) {
	e, out := newTestExporter(t)
	err := e.WriteGIF(filepath.Join(out, "x.gif"), "de_mirage", testFrames(1), core.ViewUpper, 500)
	assert.ErrorIs(t, err, assets.ErrNotFound)
}
