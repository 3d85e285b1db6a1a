package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_WithValidConfigFile(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	cfg := `{
		"logLevel": "debug",
		"render": { "assetsDir": "/srv/radar", "frameDelayMs": 250 },
		"heatmap": { "gridSize": 40 }
	}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tacmap.cfg.json"), []byte(cfg), 0644))

	err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "debug", viper.GetString("logLevel"))
	assert.Equal(t, "/srv/radar", viper.GetString("render.assetsDir"))
	assert.Equal(t, 250, viper.GetInt("render.frameDelayMs"))
	assert.Equal(t, 40, viper.GetInt("heatmap.gridSize"))
	// untouched keys keep their defaults
	assert.Equal(t, "rdylgn", viper.GetString("heatmap.colormap"))
}

func TestLoad_DefaultValues(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tacmap.cfg.json"), []byte(`{}`), 0644))

	err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "info", viper.GetString("logLevel"))
	assert.Equal(t, "./tacmaplogs", viper.GetString("logsDir"))
	assert.Equal(t, "./maps", viper.GetString("render.assetsDir"))
	assert.Equal(t, "", viper.GetString("render.mapsFile"))
	assert.Equal(t, 500, viper.GetInt("render.frameDelayMs"))
	assert.Equal(t, 10, viper.GetInt("heatmap.gridSize"))
	assert.Equal(t, "rdylgn", viper.GetString("heatmap.colormap"))
	assert.Equal(t, 0.5, viper.GetFloat64("heatmap.alpha"))
	assert.Equal(t, 0.1, viper.GetFloat64("heatmap.kdeLowerBound"))
	assert.Equal(t, "./tacmap.db", viper.GetString("store.path"))
	assert.Equal(t, false, viper.GetBool("influx.enabled"))
	assert.Equal(t, "localhost", viper.GetString("influx.host"))
	assert.Equal(t, "8086", viper.GetString("influx.port"))
	assert.Equal(t, "tacmap-metrics", viper.GetString("influx.org"))
	assert.Equal(t, false, viper.GetBool("otel.enabled"))
	assert.Equal(t, "tacmap", viper.GetString("otel.serviceName"))
	assert.Equal(t, "5s", viper.GetString("otel.batchTimeout"))
	assert.Equal(t, "", viper.GetString("otel.endpoint"))
	assert.Equal(t, true, viper.GetBool("otel.insecure"))
}

func TestLoad_MissingFile(t *testing.T) {
	t.Cleanup(viper.Reset)

	err := Load("/nonexistent/path")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

func TestGetOTelConfig(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	cfg := `{ "otel": { "enabled": true, "endpoint": "collector:4318", "batchTimeout": "10s" } }`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tacmap.cfg.json"), []byte(cfg), 0644))
	require.NoError(t, Load(dir))

	got := GetOTelConfig()
	assert.True(t, got.Enabled)
	assert.Equal(t, "tacmap", got.ServiceName)
	assert.Equal(t, 10*time.Second, got.BatchTimeout)
	assert.Equal(t, "collector:4318", got.Endpoint)
	assert.True(t, got.Insecure)
}

func TestGetRenderConfig(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tacmap.cfg.json"), []byte(`{}`), 0644))
	require.NoError(t, Load(dir))

	got := GetRenderConfig()
	assert.Equal(t, "./maps", got.AssetsDir)
	assert.Equal(t, "", got.MapsFile)
	assert.Equal(t, 500, got.FrameDelayMS)
}

func TestGetHeatmapConfig(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	cfg := `{ "heatmap": { "colormap": "viridis", "alpha": 0.8 } }`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tacmap.cfg.json"), []byte(cfg), 0644))
	require.NoError(t, Load(dir))

	got := GetHeatmapConfig()
	assert.Equal(t, 10, got.GridSize)
	assert.Equal(t, "viridis", got.Colormap)
	assert.Equal(t, 0.8, got.Alpha)
	assert.Equal(t, 0.1, got.KDELowerBound)
}

func TestGetInfluxConfig(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	cfg := `{ "influx": { "enabled": true, "token": "secret", "bucket": "perf" } }`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tacmap.cfg.json"), []byte(cfg), 0644))
	require.NoError(t, Load(dir))

	got := GetInfluxConfig()
	assert.True(t, got.Enabled)
	assert.Equal(t, "secret", got.Token)
	assert.Equal(t, "perf", got.Bucket)
	assert.Equal(t, "http", got.Protocol)
}

func TestGetStoreConfig(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tacmap.cfg.json"), []byte(`{}`), 0644))
	require.NoError(t, Load(dir))

	assert.Equal(t, "./tacmap.db", GetStoreConfig().Path)
}

func TestGetString(t *testing.T) {
	t.Cleanup(viper.Reset)
	viper.Set("testKey", "testValue")
	assert.Equal(t, "testValue", GetString("testKey"))
}

func TestGetInt(t *testing.T) {
	t.Cleanup(viper.Reset)
	viper.Set("testInt", 42)
	assert.Equal(t, 42, GetInt("testInt"))
}

func TestGetBool(t *testing.T) {
	t.Cleanup(viper.Reset)
	viper.Set("testBool", true)
	assert.Equal(t, true, GetBool("testBool"))
}
