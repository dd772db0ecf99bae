// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/AleutianAI/AleutianDesk/services/assistant/config"
	"github.com/AleutianAI/AleutianDesk/services/assistant/contextstore"
	"github.com/AleutianAI/AleutianDesk/services/assistant/executor"
	"github.com/AleutianAI/AleutianDesk/services/assistant/extract"
	"github.com/AleutianAI/AleutianDesk/services/assistant/observability"
	"github.com/AleutianAI/AleutianDesk/services/assistant/pipeline"
	"github.com/AleutianAI/AleutianDesk/services/assistant/router"
	"github.com/AleutianAI/AleutianDesk/services/assistant/routes"
	"github.com/AleutianAI/AleutianDesk/services/assistant/store"
	"github.com/AleutianAI/AleutianDesk/services/llm"

	// --- OpenTelemetry imports ---
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

func initTracer(endpoint string) (func(context.Context), error) {
	ctx := context.Background()

	conn, err := grpc.NewClient(endpoint,
		grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, err
	}
	traceExporter, err := otlptracegrpc.New(ctx, otlptracegrpc.WithGRPCConn(conn))
	if err != nil {
		return nil, err
	}
	res, err := resource.New(ctx,
		resource.WithAttributes(semconv.ServiceNameKey.String("assistant-service")))
	if err != nil {
		return nil, err
	}
	bsp := sdktrace.NewBatchSpanProcessor(traceExporter)
	traceProvider := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithResource(res),
		sdktrace.WithSpanProcessor(bsp))
	otel.SetTracerProvider(traceProvider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.
		TraceContext{}, propagation.Baggage{}))

	return func(ctx context.Context) {
		ctx, cancel := context.WithTimeout(ctx, time.Second*5)
		defer cancel()
		if err := traceExporter.Shutdown(ctx); err != nil {
			slog.Error("failed to shutdown OTLP exporter", "error", err)
		}
	}, nil
}

// buildLLMClient selects the backend. A missing credential is not fatal:
// the assistant keeps running on its deterministic fallbacks.
func buildLLMClient(cfg config.Config) llm.Client {
	var client llm.Client
	switch cfg.LLMBackend {
	case "disabled":
		slog.Info("LLM backend disabled, running on deterministic fallbacks only")
		client = llm.NewDisabledClient()
	case "openai", "":
		openaiClient, err := llm.NewOpenAIClient()
		if err != nil {
			slog.Warn("Could not configure the OpenAI backend, running on deterministic fallbacks only",
				"error", err)
			client = llm.NewDisabledClient()
		} else {
			slog.Info("Using OpenAI LLM backend")
			client = openaiClient
		}
	default:
		slog.Warn("LLM_BACKEND_TYPE not recognized, running on deterministic fallbacks only",
			"backend", cfg.LLMBackend)
		client = llm.NewDisabledClient()
	}
	return llm.WithDeadline(client, time.Duration(cfg.LLMTimeoutSeconds)*time.Second)
}

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	configPath := os.Getenv("ASSISTANT_CONFIG_PATH")
	if configPath == "" {
		configPath = "assistant.yaml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	// --- Init the tracer ---
	if cfg.OTELEndpoint != "" {
		cleanup, err := initTracer(cfg.OTELEndpoint)
		if err != nil {
			log.Fatalf("failed to setup the OTLP tracer: %v", err)
		}
		defer cleanup(context.Background())
	} else {
		slog.Info("OTEL_EXPORTER_OTLP_ENDPOINT not set, tracing disabled")
	}

	registry := prometheus.NewRegistry()
	metrics := observability.NewPipelineMetrics(registry)

	llmClient := buildLLMClient(cfg)

	commandLog, err := store.OpenCommandLog(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("failed to open the command log: %v", err)
	}
	defer commandLog.Close()

	// The in-memory collaborators back the standalone binary. The web
	// app's CRUD layer replaces them in the composed deployment.
	mem := store.NewMemory()

	exec := executor.New(executor.Deps{
		Events:   mem.Events(),
		Tasks:    mem.Tasks(),
		Projects: mem.Projects(),
		Clients:  mem.Clients(),
		Bookings: mem.Bookings(),
		Settings: mem.Settings(),
		Log:      commandLog,
		LLM:      llmClient,
		Metrics:  metrics,
	})
	svc := pipeline.New(
		router.New(llmClient, metrics),
		extract.New(llmClient, metrics),
		exec,
		commandLog,
		contextstore.NewMemoryStore(cfg.ContextMaxEntries, time.Duration(cfg.ContextTTLMinutes)*time.Minute),
		metrics,
	)

	engine := gin.Default()
	engine.Use(otelgin.Middleware("assistant-service"))
	routes.SetupRoutes(engine, svc, commandLog, registry)

	log.Println("Starting the assistant server on port ", cfg.Port)
	if err := engine.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
