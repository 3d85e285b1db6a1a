// Package assets resolves the base radar raster for a (map, view level)
// pair from a local assets directory. Decoded images are cached because the
// frame exporter requests the same base once per frame.
package assets

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"sync"

	"github.com/tacmap/tacmap/pkg/core"
)

// ErrNotFound is returned when no radar image exists for a map and level.
var ErrNotFound = errors.New("map image not found")

// Store loads and caches base radar images.
type Store struct {
	dir string

	mu     sync.Mutex
	images map[string]image.Image
}

// NewStore creates a store rooted at dir.
func NewStore(dir string) *Store {
	return &Store{
		dir:    dir,
		images: make(map[string]image.Image),
	}
}

// ImageName returns the file name for a map's radar at the given level:
// "<map>.png" for the upper level, "<map>_lower.png" for the lower.
func ImageName(mapName string, level core.ViewLevel) string {
	if level == core.ViewLower {
		return mapName + "_lower.png"
	}
	return mapName + ".png"
}

// Base returns the radar image for a map and view level. Wraps ErrNotFound
// when the file does not exist.
func (s *Store) Base(mapName string, level core.ViewLevel) (image.Image, error) {
	name := ImageName(mapName, level)

	s.mu.Lock()
	img, ok := s.images[name]
	s.mu.Unlock()
	if ok {
		return img, nil
	}

	path := filepath.Join(s.dir, name)
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("error opening map image %s: %w", path, err)
	}
	defer f.Close()

	img, err = png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("error decoding map image %s: %w", path, err)
	}

	s.mu.Lock()
	s.images[name] = img
	s.mu.Unlock()
	return img, nil
}
