// Package influx ships render timing measurements to InfluxDB. The sink is
// optional, a failed connection downgrades to a no-op rather than failing
// the render.
package influx

import (
	"context"
	"errors"
	"fmt"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	influxdb2_api "github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

// Manager handles the InfluxDB connection and writes.
type Manager struct {
	Client  influxdb2.Client
	Writer  influxdb2_api.WriteAPI
	IsValid bool
	Logger  zerolog.Logger
}

// NewManager creates a new InfluxDB manager.
func NewManager(log zerolog.Logger) *Manager {
	return &Manager{
		IsValid: false,
		Logger:  log,
	}
}

// Connect establishes a connection to InfluxDB.
func (m *Manager) Connect() error {
	if !viper.GetBool("influx.enabled") {
		return errors.New("influx.enabled is false")
	}

	m.Client = influxdb2.NewClientWithOptions(
		fmt.Sprintf(
			"%s://%s:%s",
			viper.GetString("influx.protocol"),
			viper.GetString("influx.host"),
			viper.GetString("influx.port"),
		),
		viper.GetString("influx.token"),
		influxdb2.DefaultOptions().
			SetBatchSize(500).
			SetFlushInterval(1000),
	)

	// validate client connection health
	running, err := m.Client.Ping(context.Background())
	if err != nil || !running {
		m.IsValid = false
		m.Logger.Warn().Err(err).Msg("InfluxDB client failed to initialize, timings will not be recorded")
		return nil
	}

	m.Writer = m.Client.WriteAPI(
		viper.GetString("influx.org"),
		viper.GetString("influx.bucket"),
	)
	m.IsValid = true
	m.Logger.Info().Msg("InfluxDB client initialized")

	return nil
}

// WriteRenderTiming records one timed render operation. No-op when the sink
// is unavailable.
func (m *Manager) WriteRenderTiming(operation, mapName string, elapsed time.Duration, points int) {
	if !m.IsValid || m.Writer == nil {
		return
	}

	p := influxdb2.NewPoint(
		"render_timing",
		map[string]string{
			"operation": operation,
			"map":       mapName,
		},
		map[string]interface{}{
			"elapsed_ms": elapsed.Milliseconds(),
			"points":     points,
		},
		time.Now(),
	)
	m.Writer.WritePoint(p)
}

// Close flushes pending writes and shuts the client down.
func (m *Manager) Close() {
	if m.Writer != nil {
		m.Writer.Flush()
	}
	if m.Client != nil {
		m.Client.Close()
	}
}
