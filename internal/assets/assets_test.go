package assets

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tacmap/tacmap/pkg/core"
)

func writePNG(t *testing.T, path string, w, h int, c color.Color) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

func TestImageName(t *testing.T) {
	assert.Equal(t, "de_nuke.png", ImageName("de_nuke", core.ViewUpper))
	assert.Equal(t, "de_nuke_lower.png", ImageName("de_nuke", core.ViewLower))
}

func TestBase_LoadsAndCaches(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "de_dust2.png"), 16, 8, color.White)

	s := NewStore(dir)
	img, err := s.Base("de_dust2", core.ViewUpper)
	require.NoError(t, err)
	assert.Equal(t, 16, img.Bounds().Dx())
	assert.Equal(t, 8, img.Bounds().Dy())

	// second load comes from cache even if the file disappears
	require.NoError(t, os.Remove(filepath.Join(dir, "de_dust2.png")))
	img2, err := s.Base("de_dust2", core.ViewUpper)
	require.NoError(t, err)
	assert.Equal(t, img, img2)
}

func TestBase_LowerLevelName(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "de_nuke_lower.png"), 4, 4, color.Black)

	s := NewStore(dir)
	_, err := s.Base("de_nuke", core.ViewLower)
	require.NoError(t, err)

	// the upper-level raster was never written
	_, err = s.Base("de_nuke", core.ViewUpper)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBase_Missing(t *testing.T) {
	s := NewStore(t.TempDir())
	_, err := s.Base("de_missing", core.ViewUpper)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBase_CorruptFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "de_bad.png"), []byte("not a png"), 0644))

	s := NewStore(dir)
	_, err := s.Base("de_bad", core.ViewUpper)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}
