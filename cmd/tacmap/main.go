// Command tacmap renders recorded match positions onto radar images:
// single-frame overlays, density heatmaps and animated frame sequences.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	sdklog "go.opentelemetry.io/otel/sdk/log"

	"github.com/tacmap/tacmap/internal/config"
	"github.com/tacmap/tacmap/internal/logging"
	intOtel "github.com/tacmap/tacmap/internal/otel"
)

const appName = "tacmap"

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	sessionStart := time.Now()

	// bootstrap console logging until the config is read
	logManager := logging.NewManager()
	logManager.Setup(nil, "info", nil)
	logger := logManager.Logger()

	if len(args) < 1 {
		usage()
		return 2
	}

	// missing config file is fine, defaults cover everything
	if err := config.Load("."); err != nil {
		logger.Warn("No config file loaded, using defaults", "error", err)
	}

	var logFile *os.File
	logsDir := config.GetString("logsDir")
	if err := os.MkdirAll(logsDir, 0755); err != nil {
		logger.Error("Failed to create logs directory", "error", err, "path", logsDir)
	} else {
		logPath := logging.LogFilePath(logsDir, appName, sessionStart)
		f, err := os.OpenFile(logPath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
		if err != nil {
			logger.Error("Failed to create/open log file", "error", err, "path", logPath)
		} else {
			logFile = f
			defer logFile.Close()
		}
	}

	var provider *intOtel.Provider
	otelCfg := config.GetOTelConfig()
	if otelCfg.Enabled {
		p, err := intOtel.New(intOtel.Config{
			Enabled:      otelCfg.Enabled,
			ServiceName:  otelCfg.ServiceName,
			BatchTimeout: otelCfg.BatchTimeout,
			LogWriter:    logFile,
			Endpoint:     otelCfg.Endpoint,
			Insecure:     otelCfg.Insecure,
		})
		if err != nil {
			logger.Error("Failed to initialize OTel provider", "error", err)
		} else {
			provider = p
		}
	}

	var logProvider *sdklog.LoggerProvider
	if provider != nil {
		logProvider = provider.LoggerProvider()
	}
	logManager.Setup(logFile, config.GetString("logLevel"), logProvider)
	logger = logManager.Logger()

	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := logManager.Flush(ctx); err != nil {
			fmt.Fprintln(os.Stderr, "log flush failed:", err)
		}
		if provider != nil {
			if err := provider.Shutdown(ctx); err != nil {
				fmt.Fprintln(os.Stderr, "otel shutdown failed:", err)
			}
		}
	}()

	cmd, rest := strings.ToLower(args[0]), args[1:]
	switch cmd {
	case "render":
		return cmdRender(logger, rest)
	case "heatmap":
		return cmdHeatmap(logger, rest)
	case "gif":
		return cmdGIF(logger, rest)
	case "maps":
		return cmdMaps(logger, rest)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", cmd)
		usage()
		return 2
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `usage: %s <command> [flags]

commands:
  render    draw an annotated frame onto a map image
  heatmap   synthesize a density layer from positions
  gif       export a frame sequence as an animated GIF
  maps      list known maps

run "%s <command> -h" for the flags of each command
`, appName, appName)
}
