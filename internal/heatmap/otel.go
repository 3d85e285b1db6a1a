package heatmap

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/tacmap/tacmap/internal/heatmap"

func meter() metric.Meter {
	return otel.Meter(instrumentationName)
}
