package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/tacmap/tacmap/internal/assets"
	"github.com/tacmap/tacmap/internal/config"
	"github.com/tacmap/tacmap/internal/export"
	"github.com/tacmap/tacmap/internal/geo"
	"github.com/tacmap/tacmap/internal/heatmap"
	"github.com/tacmap/tacmap/internal/influx"
	"github.com/tacmap/tacmap/internal/mapdata"
	"github.com/tacmap/tacmap/internal/render"
	"github.com/tacmap/tacmap/internal/store"
	"github.com/tacmap/tacmap/pkg/core"
)

// newRegistry builds the projection registry, merging the optional
// calibration file over the built-in table.
func newRegistry() (*mapdata.Registry, error) {
	mapsFile := config.GetRenderConfig().MapsFile
	if mapsFile == "" {
		return mapdata.Default(), nil
	}
	return mapdata.LoadFile(mapsFile)
}

func newAssets() *assets.Store {
	return assets.NewStore(config.GetRenderConfig().AssetsDir)
}

// newInflux connects the optional timing sink. Returns nil when disabled or
// unreachable.
func newInflux(logger *slog.Logger) *influx.Manager {
	if !config.GetBool("influx.enabled") {
		return nil
	}
	zlog := zerolog.New(os.Stderr).With().Timestamp().Logger()
	m := influx.NewManager(zlog)
	if err := m.Connect(); err != nil {
		logger.Warn("InfluxDB sink unavailable", "error", err)
		return nil
	}
	return m
}

// loadFrames reads a JSON file holding either one frame object or an array
// of frames.
func loadFrames(path string) ([]core.Frame, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading %s: %w", path, err)
	}

	var frames []core.Frame
	if err := json.Unmarshal(data, &frames); err == nil {
		return frames, nil
	}

	var frame core.Frame
	if err := json.Unmarshal(data, &frame); err != nil {
		return nil, fmt.Errorf("error parsing %s: %w", path, err)
	}
	return []core.Frame{frame}, nil
}

// loadPositions reads positions either as a JSON array or as "x,y,z" lines.
func loadPositions(path string) ([]core.Position3D, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading %s: %w", path, err)
	}

	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "[") {
		var positions []core.Position3D
		if err := json.Unmarshal(data, &positions); err != nil {
			return nil, fmt.Errorf("error parsing %s: %w", path, err)
		}
		return positions, nil
	}

	var positions []core.Position3D
	scanner := bufio.NewScanner(strings.NewReader(trimmed))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		pos, err := geo.PositionFromString(line)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		positions = append(positions, pos)
	}
	return positions, scanner.Err()
}

// storePath resolves the database path, falling back to the configured one.
func storePath(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	return config.GetStoreConfig().Path
}

// framesFromDB loads a recorded match and returns its frames and map name.
func framesFromDB(dbPath string, matchID uint) ([]core.Frame, string, error) {
	zlog := zerolog.New(os.Stderr).With().Timestamp().Logger()
	m := store.NewManager(dbPath, zlog)
	if err := m.Connect(); err != nil {
		return nil, "", err
	}
	defer m.Close()

	match, err := m.GetMatch(matchID)
	if err != nil {
		return nil, "", err
	}
	frames, err := m.Frames(matchID)
	if err != nil {
		return nil, "", err
	}
	return frames, match.MapName, nil
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error creating %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		os.Remove(path)
		return fmt.Errorf("error encoding %s: %w", path, err)
	}
	return f.Close()
}

func cmdRender(logger *slog.Logger, args []string) int {
	fs := flag.NewFlagSet("render", flag.ContinueOnError)
	mapName := fs.String("map", "", "map name (required unless -match is set)")
	in := fs.String("in", "", "frame JSON file")
	dbPath := fs.String("db", "", "match database path (defaults to store.path)")
	matchID := fs.Uint("match", 0, "match id, selects the database source")
	frameIdx := fs.Int("frame", 0, "frame index to render")
	level := fs.String("level", "upper", "view level: upper or lower")
	out := fs.String("out", "render.png", "output PNG path")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	var frames []core.Frame
	var err error
	switch {
	case *matchID != 0:
		var dbMap string
		frames, dbMap, err = framesFromDB(storePath(*dbPath), *matchID)
		if *mapName == "" {
			mapName = &dbMap
		}
	case *in != "":
		frames, err = loadFrames(*in)
	default:
		fmt.Fprintln(os.Stderr, "render: one of -in or -match is required")
		return 2
	}
	if err != nil {
		logger.Error("Failed to load frames", "error", err)
		return 1
	}
	if *frameIdx < 0 || *frameIdx >= len(frames) {
		logger.Error("Frame index out of range", "frame", *frameIdx, "frames", len(frames))
		return 1
	}
	frame := frames[*frameIdx]

	reg, err := newRegistry()
	if err != nil {
		logger.Error("Failed to load map calibrations", "error", err)
		return 1
	}
	renderer, err := render.NewRenderer(reg, logger)
	if err != nil {
		logger.Error("Failed to create renderer", "error", err)
		return 1
	}

	viewLevel := core.ParseViewLevel(*level)
	base, err := newAssets().Base(*mapName, viewLevel)
	if err != nil {
		logger.Error("Failed to load map image", "error", err, "map", *mapName)
		return 1
	}

	sink := newInflux(logger)
	if sink != nil {
		defer sink.Close()
	}

	started := time.Now()
	surface := render.NewSurface(base)
	if err := renderer.Render(surface, *mapName, frame, viewLevel); err != nil {
		logger.Error("Render failed", "error", err)
		return 1
	}
	if sink != nil {
		sink.WriteRenderTiming("render", *mapName, time.Since(started), len(frame.Points))
	}

	if err := writePNG(*out, surface.Image()); err != nil {
		logger.Error("Failed to write output", "error", err)
		return 1
	}
	logger.Info("Wrote render", "path", *out, "map", *mapName, "points", len(frame.Points))
	return 0
}

func cmdHeatmap(logger *slog.Logger, args []string) int {
	cfg := config.GetHeatmapConfig()

	fs := flag.NewFlagSet("heatmap", flag.ContinueOnError)
	mapName := fs.String("map", "", "map name (required unless -match is set)")
	in := fs.String("in", "", "positions file (JSON array or x,y,z lines)")
	dbPath := fs.String("db", "", "match database path (defaults to store.path)")
	matchID := fs.Uint("match", 0, "match id, selects the database source")
	method := fs.String("method", "hex", "aggregation method: hex, hist or kde")
	grid := fs.Int("grid", cfg.GridSize, "cells per axis")
	colormap := fs.String("colormap", cfg.Colormap, "colormap name")
	alpha := fs.Float64("alpha", cfg.Alpha, "flat cell opacity")
	vary := fs.Bool("vary", false, "scale opacity with cell weight")
	varyRange := fs.String("range", "", "opacity range as min,max when -vary is set")
	kdeBound := fs.Float64("kde-bound", cfg.KDELowerBound, "suppress KDE cells below this fraction of the peak")
	level := fs.String("level", "upper", "view level: upper or lower")
	out := fs.String("out", "heatmap.png", "output PNG path")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	var positions []core.Position3D
	var err error
	switch {
	case *matchID != 0:
		var frames []core.Frame
		var dbMap string
		frames, dbMap, err = framesFromDB(storePath(*dbPath), *matchID)
		if *mapName == "" {
			mapName = &dbMap
		}
		for _, f := range frames {
			positions = append(positions, f.Points...)
		}
	case *in != "":
		positions, err = loadPositions(*in)
	default:
		fmt.Fprintln(os.Stderr, "heatmap: one of -in or -match is required")
		return 2
	}
	if err != nil {
		logger.Error("Failed to load positions", "error", err)
		return 1
	}

	est, err := heatmap.ParseEstimator(*method, *grid, *kdeBound)
	if err != nil {
		logger.Error("Invalid method", "error", err)
		return 1
	}

	opts := heatmap.Options{
		Colormap:  *colormap,
		BaseAlpha: *alpha,
		VaryAlpha: *vary,
	}
	if *varyRange != "" {
		opts.VaryAlphaRange, err = parseAlphaRange(*varyRange)
		if err != nil {
			logger.Error("Invalid alpha range", "error", err)
			return 1
		}
	}

	reg, err := newRegistry()
	if err != nil {
		logger.Error("Failed to load map calibrations", "error", err)
		return 1
	}
	synth, err := heatmap.NewSynthesizer(reg, newAssets(), logger)
	if err != nil {
		logger.Error("Failed to create synthesizer", "error", err)
		return 1
	}

	sink := newInflux(logger)
	if sink != nil {
		defer sink.Close()
	}

	started := time.Now()
	res, err := synth.Synthesize(*mapName, positions, est, core.ParseViewLevel(*level), opts)
	if err != nil {
		logger.Error("Heatmap synthesis failed", "error", err)
		return 1
	}
	if sink != nil {
		sink.WriteRenderTiming("heatmap", *mapName, time.Since(started), len(positions))
	}

	if err := writePNG(*out, res.Image); err != nil {
		logger.Error("Failed to write output", "error", err)
		return 1
	}
	logger.Info("Wrote heatmap",
		"path", *out,
		"map", *mapName,
		"method", *method,
		"points", len(positions),
		"dropped", res.Dropped)
	return 0
}

func cmdGIF(logger *slog.Logger, args []string) int {
	fs := flag.NewFlagSet("gif", flag.ContinueOnError)
	mapName := fs.String("map", "", "map name (required unless -match is set)")
	in := fs.String("in", "", "frames JSON file")
	dbPath := fs.String("db", "", "match database path (defaults to store.path)")
	matchID := fs.Uint("match", 0, "match id, selects the database source")
	level := fs.String("level", "upper", "view level: upper or lower")
	delay := fs.Int("delay", config.GetRenderConfig().FrameDelayMS, "frame delay in milliseconds")
	out := fs.String("out", "match.gif", "output GIF path")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	var frames []core.Frame
	var err error
	switch {
	case *matchID != 0:
		var dbMap string
		frames, dbMap, err = framesFromDB(storePath(*dbPath), *matchID)
		if *mapName == "" {
			mapName = &dbMap
		}
	case *in != "":
		frames, err = loadFrames(*in)
	default:
		fmt.Fprintln(os.Stderr, "gif: one of -in or -match is required")
		return 2
	}
	if err != nil {
		logger.Error("Failed to load frames", "error", err)
		return 1
	}
	if len(frames) == 0 {
		logger.Error("No frames to export")
		return 1
	}

	reg, err := newRegistry()
	if err != nil {
		logger.Error("Failed to load map calibrations", "error", err)
		return 1
	}
	renderer, err := render.NewRenderer(reg, logger)
	if err != nil {
		logger.Error("Failed to create renderer", "error", err)
		return 1
	}

	sink := newInflux(logger)
	if sink != nil {
		defer sink.Close()
	}

	started := time.Now()
	exporter := export.NewExporter(renderer, newAssets(), logger)
	if err := exporter.WriteGIF(*out, *mapName, frames, core.ParseViewLevel(*level), *delay); err != nil {
		logger.Error("GIF export failed", "error", err)
		return 1
	}
	if sink != nil {
		sink.WriteRenderTiming("gif", *mapName, time.Since(started), len(frames))
	}
	return 0
}

func cmdMaps(logger *slog.Logger, args []string) int {
	fs := flag.NewFlagSet("maps", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return 2
	}

	reg, err := newRegistry()
	if err != nil {
		logger.Error("Failed to load map calibrations", "error", err)
		return 1
	}

	for _, name := range reg.Names() {
		p, err := reg.Get(name)
		if err != nil {
			continue
		}
		if p.HasLowerLevel() {
			fmt.Printf("%s (has lower level)\n", name)
		} else {
			fmt.Println(name)
		}
	}
	return 0
}

// parseAlphaRange parses "min,max" into a two-element slice. Range validity
// is checked by the synthesizer.
func parseAlphaRange(s string) ([]float64, error) {
	parts := strings.Split(s, ",")
	rng := make([]float64, 0, len(parts))
	for _, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid alpha range %q: %w", s, err)
		}
		rng = append(rng, v)
	}
	return rng, nil
}
