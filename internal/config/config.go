// Package config loads the JSON configuration file and exposes typed views
// over viper.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// OTelConfig holds the OpenTelemetry settings.
type OTelConfig struct {
	Enabled      bool
	ServiceName  string
	BatchTimeout time.Duration
	Endpoint     string
	Insecure     bool
}

// InfluxConfig holds the InfluxDB metrics sink settings.
type InfluxConfig struct {
	Enabled  bool
	Host     string
	Port     string
	Protocol string
	Token    string
	Org      string
	Bucket   string
}

// RenderConfig holds the renderer and export defaults.
type RenderConfig struct {
	AssetsDir    string
	MapsFile     string
	FrameDelayMS int
}

// StoreConfig holds the match database settings.
type StoreConfig struct {
	Path string
}

// HeatmapConfig holds the density layer defaults.
type HeatmapConfig struct {
	GridSize      int
	Colormap      string
	Alpha         float64
	KDELowerBound float64
}

// Load reads configuration from the JSON file in configDir and sets default
// values.
func Load(configDir string) error {
	// Set default values
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("logsDir", "./tacmaplogs")

	viper.SetDefault("render.assetsDir", "./maps")
	viper.SetDefault("render.mapsFile", "")
	viper.SetDefault("render.frameDelayMs", 500)

	viper.SetDefault("heatmap.gridSize", 10)
	viper.SetDefault("heatmap.colormap", "rdylgn")
	viper.SetDefault("heatmap.alpha", 0.5)
	viper.SetDefault("heatmap.kdeLowerBound", 0.1)

	viper.SetDefault("store.path", "./tacmap.db")

	viper.SetDefault("influx.enabled", false)
	viper.SetDefault("influx.host", "localhost")
	viper.SetDefault("influx.port", "8086")
	viper.SetDefault("influx.protocol", "http")
	viper.SetDefault("influx.token", "")
	viper.SetDefault("influx.org", "tacmap-metrics")
	viper.SetDefault("influx.bucket", "render_performance")

	viper.SetDefault("otel.enabled", false)
	viper.SetDefault("otel.serviceName", "tacmap")
	viper.SetDefault("otel.batchTimeout", "5s")
	viper.SetDefault("otel.endpoint", "")
	viper.SetDefault("otel.insecure", true)

	viper.SetConfigName("tacmap.cfg.json")
	viper.AddConfigPath(configDir)
	viper.SetConfigType("json")

	err := viper.ReadInConfig()
	if err != nil {
		return fmt.Errorf("error reading config file: %v", err)
	}

	return nil
}

// GetOTelConfig returns the OpenTelemetry settings.
func GetOTelConfig() OTelConfig {
	return OTelConfig{
		Enabled:      viper.GetBool("otel.enabled"),
		ServiceName:  viper.GetString("otel.serviceName"),
		BatchTimeout: viper.GetDuration("otel.batchTimeout"),
		Endpoint:     viper.GetString("otel.endpoint"),
		Insecure:     viper.GetBool("otel.insecure"),
	}
}

// GetInfluxConfig returns the InfluxDB settings.
func GetInfluxConfig() InfluxConfig {
	return InfluxConfig{
		Enabled:  viper.GetBool("influx.enabled"),
		Host:     viper.GetString("influx.host"),
		Port:     viper.GetString("influx.port"),
		Protocol: viper.GetString("influx.protocol"),
		Token:    viper.GetString("influx.token"),
		Org:      viper.GetString("influx.org"),
		Bucket:   viper.GetString("influx.bucket"),
	}
}

// GetRenderConfig returns the renderer defaults.
func GetRenderConfig() RenderConfig {
	return RenderConfig{
		AssetsDir:    viper.GetString("render.assetsDir"),
		MapsFile:     viper.GetString("render.mapsFile"),
		FrameDelayMS: viper.GetInt("render.frameDelayMs"),
	}
}

// GetHeatmapConfig returns the density layer defaults.
func GetHeatmapConfig() HeatmapConfig {
	return HeatmapConfig{
		GridSize:      viper.GetInt("heatmap.gridSize"),
		Colormap:      viper.GetString("heatmap.colormap"),
		Alpha:         viper.GetFloat64("heatmap.alpha"),
		KDELowerBound: viper.GetFloat64("heatmap.kdeLowerBound"),
	}
}

// GetStoreConfig returns the match database settings.
func GetStoreConfig() StoreConfig {
	return StoreConfig{
		Path: viper.GetString("store.path"),
	}
}

// GetString returns a string config value.
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt returns an int config value.
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetBool returns a bool config value.
func GetBool(key string) bool {
	return viper.GetBool(key)
}
