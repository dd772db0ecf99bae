// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "assistant.yaml")
	require.NoError(t, os.WriteFile(path, []byte("port: \"9000\"\nllm_backend: disabled\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, "disabled", cfg.LLMBackend)
	// Values the file does not mention keep their defaults.
	assert.Equal(t, 15, cfg.LLMTimeoutSeconds)
}

func TestLoad_EnvWinsOverFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "assistant.yaml")
	require.NoError(t, os.WriteFile(path, []byte("port: \"9000\"\n"), 0o600))
	t.Setenv("ASSISTANT_PORT", "9100")
	t.Setenv("LLM_TIMEOUT_SECONDS", "30")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "9100", cfg.Port)
	assert.Equal(t, 30, cfg.LLMTimeoutSeconds)
}

func TestLoad_BadEnvValueKeepsPrevious(t *testing.T) {
	t.Setenv("LLM_TIMEOUT_SECONDS", "soon")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 15, cfg.LLMTimeoutSeconds)
}

func TestLoad_ContextEnvOverrides(t *testing.T) {
	t.Setenv("ASSISTANT_CONTEXT_MAX_ENTRIES", "64")
	t.Setenv("ASSISTANT_CONTEXT_TTL_MINUTES", "5")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 64, cfg.ContextMaxEntries)
	assert.Equal(t, 5, cfg.ContextTTLMinutes)
}

func TestLoad_BadContextTTLKeepsPrevious(t *testing.T) {
	t.Setenv("ASSISTANT_CONTEXT_TTL_MINUTES", "-1")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 30, cfg.ContextTTLMinutes)
}

func TestLoad_MalformedFileIsAnError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "assistant.yaml")
	require.NoError(t, os.WriteFile(path, []byte("port: [unterminated"), 0o600))

	_, err := Load(path)
	assert.Error(t, err)
}
