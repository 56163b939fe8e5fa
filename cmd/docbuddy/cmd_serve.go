// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/AleutianAI/DocBuddy/pkg/ux"
	"github.com/AleutianAI/DocBuddy/services/document"
	"github.com/AleutianAI/DocBuddy/services/document/telemetry"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

var (
	servePort           int    // Port to listen on
	serveDebug          bool   // Gin debug mode with request logging
	serveTemplates      string // Template override file
	serveTraceExporter  string // Trace exporter override
	serveMetricExporter string // Metric exporter override
	serveOTLPEndpoint   string // OTLP receiver endpoint
)

// =============================================================================
// COMMAND DEFINITION
// =============================================================================

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the documentation HTTP API",
	Long: `Serves the documentation engine over HTTP. Sources are posted as
JSON and come back documented; nothing is read from or written to disk.

Endpoints:
  POST /v1/docbuddy/document
  POST /v1/docbuddy/inspect
  GET  /v1/docbuddy/kinds
  GET  /v1/docbuddy/health
  GET  /v1/docbuddy/ready
  GET  /metrics

Examples:
  docbuddy serve
  docbuddy serve --port 9090 --debug
  docbuddy serve --trace-exporter otlp --otlp-endpoint collector:4317`,
	Run: runServeCommand,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "Port to listen on")
	serveCmd.Flags().BoolVar(&serveDebug, "debug", false,
		"Enable gin debug mode with request logging")
	serveCmd.Flags().StringVar(&serveTemplates, "templates", "",
		"Template override file (YAML)")
	serveCmd.Flags().StringVar(&serveTraceExporter, "trace-exporter", "",
		"Trace exporter: otlp, stdout, or none")
	serveCmd.Flags().StringVar(&serveMetricExporter, "metric-exporter", "",
		"Metric exporter: prometheus, stdout, or none")
	serveCmd.Flags().StringVar(&serveOTLPEndpoint, "otlp-endpoint", "",
		"OTLP receiver endpoint for traces")

	rootCmd.AddCommand(serveCmd)
}

// =============================================================================
// COMMAND IMPLEMENTATION
// =============================================================================

// runServeCommand runs the HTTP API until interrupted.
func runServeCommand(cmd *cobra.Command, args []string) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tcfg := telemetry.ServerConfig()
	tcfg.ServiceVersion = document.ServiceVersion
	if serveTraceExporter != "" {
		tcfg.TraceExporter = serveTraceExporter
	}
	if serveMetricExporter != "" {
		tcfg.MetricExporter = serveMetricExporter
	}
	if serveOTLPEndpoint != "" {
		tcfg.OTLPEndpoint = serveOTLPEndpoint
	}

	shutdown, err := telemetry.Init(ctx, tcfg)
	if err != nil {
		ux.Error(fmt.Sprintf("Starting telemetry: %v", err))
		os.Exit(1)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(sctx); err != nil {
			logger.Slog().Error("Telemetry shutdown failed", "error", err)
		}
	}()

	cfg := serviceConfig()
	if serveTemplates != "" {
		cfg.TemplatesPath = serveTemplates
	}
	// Every endpoint documents posted source in memory. The digest cache
	// tracks files on disk, so opening it here would only hold its lock.
	cfg.CacheEnabled = false

	svc, err := document.NewService(cfg, logger.Slog())
	if err != nil {
		ux.Error(fmt.Sprintf("Starting service: %v", err))
		os.Exit(1)
	}
	defer svc.Close(context.Background())

	if serveDebug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	if serveDebug {
		router.Use(gin.Logger())
	}
	router.Use(otelgin.Middleware(tcfg.ServiceName))

	router.GET("/metrics", gin.WrapH(telemetry.MetricsHandler()))

	v1 := router.Group("/v1")
	document.RegisterRoutes(v1, document.NewHandlers(svc))

	addr := fmt.Sprintf(":%d", servePort)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	logger.Slog().Info("Server listening", "addr", addr, "version", document.ServiceVersion)
	ux.Box("DocBuddy API", fmt.Sprintf(
		"Listening on http://localhost%s\nTry: curl http://localhost%s/v1/docbuddy/health\nPress Ctrl+C to stop",
		addr, addr))

	select {
	case <-ctx.Done():
		logger.Slog().Info("Shutting down")
		sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(sctx); err != nil {
			logger.Slog().Error("Server shutdown failed", "error", err)
		}
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			ux.Error(fmt.Sprintf("Server failed: %v", err))
			os.Exit(1)
		}
	}
}
