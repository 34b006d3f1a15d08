package cmd

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/bnema/chat-tracker/internal/adapters/metrics"
	reportrender "github.com/bnema/chat-tracker/internal/adapters/render/report"
	"github.com/bnema/chat-tracker/internal/application"
	"github.com/bnema/chat-tracker/internal/config"
	"github.com/bnema/chat-tracker/internal/logging"
	"github.com/bnema/chat-tracker/internal/ports"
	"github.com/bnema/chat-tracker/internal/tracker"
	"github.com/prometheus/client_golang/prometheus"
)

type app struct {
	config         config.Config
	logger         *slog.Logger
	tracker        *tracker.Tracker
	registry       *prometheus.Registry
	replayService  *application.ReplayService
	reportService  *application.ReportService
	reportRenderer func(application.Report, reportrender.RenderOptions) (string, error)
}

// wireApp builds a fresh tracker per invocation; replay state is never
// persisted between runs.
func wireApp(cfg config.Config, logOutput io.Writer) (*app, error) {
	logger := logging.New(logging.Config{
		Level:   cfg.LogLevel,
		JSON:    cfg.LogJSON,
		Output:  logOutput,
		Service: "chattracker",
	})

	core := tracker.New(cfg.Buckets, tracker.WithLogger(logger))

	registry := prometheus.NewRegistry()
	instrumented, err := metrics.NewTracker(core, registry)
	if err != nil {
		return nil, fmt.Errorf("wire tracker metrics: %w", err)
	}

	clock := ports.SystemClock{}

	logger.Debug("tracker wired",
		"buckets", cfg.Buckets,
		"config_file", cfg.File,
		"strict", cfg.Strict,
		"format", string(cfg.Format),
	)

	return &app{
		config:         cfg,
		logger:         logger,
		tracker:        core,
		registry:       registry,
		replayService:  application.NewReplayService(instrumented, core, clock, logger),
		reportService:  application.NewReportService(core, clock),
		reportRenderer: reportrender.Render,
	}, nil
}
