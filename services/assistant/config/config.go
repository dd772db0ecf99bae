// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package config loads the assistant's settings from an optional yaml
// file with environment overrides on top. Env always wins so container
// deployments can override a baked-in file without rebuilding.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Port              string `yaml:"port"`
	DatabasePath      string `yaml:"database_path"`
	LLMBackend        string `yaml:"llm_backend"` // "openai" or "disabled"
	LLMTimeoutSeconds int    `yaml:"llm_timeout_seconds"`
	ContextMaxEntries int    `yaml:"context_max_entries"`
	ContextTTLMinutes int    `yaml:"context_ttl_minutes"`
	OTELEndpoint      string `yaml:"otel_endpoint"`
}

func Default() Config {
	return Config{
		Port:              "12310",
		DatabasePath:      "assistant.db",
		LLMBackend:        "openai",
		LLMTimeoutSeconds: 15,
		ContextMaxEntries: 1024,
		ContextTTLMinutes: 30,
	}
}

// Load reads path (when it exists) over the defaults, then applies env
// overrides. A missing file is not an error; a malformed one is.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		raw, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			slog.Info("No config file found, using defaults and env", "path", path)
		case err != nil:
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(raw, &cfg); err != nil {
				return Config{}, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}

	applyEnv(&cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("ASSISTANT_PORT"); v != "" {
		cfg.Port = v
	}
	if v := os.Getenv("ASSISTANT_DB_PATH"); v != "" {
		cfg.DatabasePath = v
	}
	if v := os.Getenv("LLM_BACKEND_TYPE"); v != "" {
		cfg.LLMBackend = v
	}
	if v := os.Getenv("LLM_TIMEOUT_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.LLMTimeoutSeconds = n
		} else {
			slog.Warn("LLM_TIMEOUT_SECONDS is not a positive integer, keeping previous value",
				"value", v, "seconds", cfg.LLMTimeoutSeconds)
		}
	}
	if v := os.Getenv("ASSISTANT_CONTEXT_MAX_ENTRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.ContextMaxEntries = n
		} else {
			slog.Warn("ASSISTANT_CONTEXT_MAX_ENTRIES is not a positive integer, keeping previous value",
				"value", v, "entries", cfg.ContextMaxEntries)
		}
	}
	if v := os.Getenv("ASSISTANT_CONTEXT_TTL_MINUTES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.ContextTTLMinutes = n
		} else {
			slog.Warn("ASSISTANT_CONTEXT_TTL_MINUTES is not a positive integer, keeping previous value",
				"value", v, "minutes", cfg.ContextTTLMinutes)
		}
	}
	if v := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"); v != "" {
		cfg.OTELEndpoint = v
	}
}
