// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package observability provides Prometheus metrics for the assistant.
//
// # Description
//
// Counters and histograms for the command pipeline:
//   - Commands processed (by type and final status)
//   - Effects recorded (by effect type)
//   - Routing fallback activations (silent LLM degradation made visible)
//   - LLM call latency (by purpose: routing, extraction, generation)
//
// # Integration
//
// Metrics are exposed via the /metrics endpoint. All operations are
// thread-safe via Prometheus's internal locking.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsNamespace = "aleutiandesk"

const assistantSubsystem = "assistant"

// PipelineMetrics holds all Prometheus metrics for command processing.
// Initialize once at startup via NewPipelineMetrics().
type PipelineMetrics struct {
	// CommandsTotal counts processed commands.
	// Labels: command_type, status (success, needs_clarification, error)
	CommandsTotal *prometheus.CounterVec

	// EffectsTotal counts recorded effects. Labels: effect_type
	EffectsTotal *prometheus.CounterVec

	// FallbackTotal counts deterministic-fallback activations.
	// Labels: stage (routing, extraction), domain
	FallbackTotal *prometheus.CounterVec

	// LLMLatencySeconds measures LLM call duration.
	// Labels: purpose (routing, extraction, generation), status
	LLMLatencySeconds *prometheus.HistogramVec
}

func NewPipelineMetrics(reg prometheus.Registerer) *PipelineMetrics {
	factory := promauto.With(reg)
	return &PipelineMetrics{
		CommandsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: assistantSubsystem,
			Name:      "commands_total",
			Help:      "Commands processed by type and final status.",
		}, []string{"command_type", "status"}),
		EffectsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: assistantSubsystem,
			Name:      "effects_total",
			Help:      "Command effects recorded by effect type.",
		}, []string{"effect_type"}),
		FallbackTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: assistantSubsystem,
			Name:      "fallback_total",
			Help:      "Deterministic fallback activations by stage and domain.",
		}, []string{"stage", "domain"}),
		LLMLatencySeconds: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: assistantSubsystem,
			Name:      "llm_latency_seconds",
			Help:      "LLM call latency by purpose and status.",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 10),
		}, []string{"purpose", "status"}),
	}
}
