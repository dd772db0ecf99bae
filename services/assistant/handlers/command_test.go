// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/AleutianDesk/services/assistant/contextstore"
	"github.com/AleutianAI/AleutianDesk/services/assistant/datatypes"
	"github.com/AleutianAI/AleutianDesk/services/assistant/executor"
	"github.com/AleutianAI/AleutianDesk/services/assistant/extract"
	"github.com/AleutianAI/AleutianDesk/services/assistant/pipeline"
	"github.com/AleutianAI/AleutianDesk/services/assistant/router"
	"github.com/AleutianAI/AleutianDesk/services/assistant/store"
	"github.com/AleutianAI/AleutianDesk/services/llm"
)

// =============================================================================
// Test Setup
// =============================================================================

func init() {
	// Set Gin to test mode to reduce noise in test output
	gin.SetMode(gin.TestMode)
}

// newTestPipeline wires a full pipeline over the in-memory store with the
// disabled LLM backend so every stage runs on its deterministic path.
func newTestPipeline() (*pipeline.Service, *store.Memory) {
	mem := store.NewMemory()
	client := llm.NewDisabledClient()
	exec := executor.New(executor.Deps{
		Events:   mem.Events(),
		Tasks:    mem.Tasks(),
		Projects: mem.Projects(),
		Clients:  mem.Clients(),
		Bookings: mem.Bookings(),
		Settings: mem.Settings(),
		Log:      mem.CommandLog(),
		LLM:      client,
	})
	svc := pipeline.New(
		router.New(client, nil),
		extract.New(client, nil),
		exec,
		mem.CommandLog(),
		contextstore.NewMemoryStore(0, 0),
		nil,
	)
	return svc, mem
}

// createTestRouter creates a Gin router with the specified handler for testing.
func createTestRouter(method, path string, handler gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	switch method {
	case "POST":
		router.POST(path, handler)
	case "GET":
		router.GET(path, handler)
	}
	return router
}

// performRequest executes an HTTP request against the test router.
func performRequest(router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		jsonBytes, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(jsonBytes)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req, _ := http.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// =============================================================================
// HandleCommand Tests
// =============================================================================

func TestHandleCommand_SchedulesEvent(t *testing.T) {
	svc, mem := newTestPipeline()
	r := createTestRouter("POST", "/api/command", HandleCommand(svc))

	w := performRequest(r, "POST", "/api/command", CommandRequest{
		UserID:  "u1",
		Message: "schedule meeting with Dana tomorrow at 3pm",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp pipeline.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "success", resp.Status)
	require.NotNil(t, resp.Calendar)
	assert.True(t, resp.Calendar.Success)

	events, err := mem.Events().ListByUser(context.Background(), "u1")
	require.NoError(t, err)
	assert.Len(t, events, 1)
}

func TestHandleCommand_UnclearMessageAsksForClarification(t *testing.T) {
	svc, _ := newTestPipeline()
	r := createTestRouter("POST", "/api/command", HandleCommand(svc))

	w := performRequest(r, "POST", "/api/command", CommandRequest{
		UserID:  "u1",
		Message: "hmm",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp pipeline.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "needs_clarification", resp.Status)
	assert.NotEmpty(t, resp.Clarification)
	assert.Equal(t, []string{"request_type"}, resp.MissingFields)
}

func TestHandleCommand_InvalidBody(t *testing.T) {
	svc, _ := newTestPipeline()
	r := createTestRouter("POST", "/api/command", HandleCommand(svc))

	req, _ := http.NewRequest("POST", "/api/command", bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleCommand_MissingMessage(t *testing.T) {
	svc, _ := newTestPipeline()
	r := createTestRouter("POST", "/api/command", HandleCommand(svc))

	w := performRequest(r, "POST", "/api/command", map[string]string{
		"userId": "u1",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleCommand_DefaultsUserID(t *testing.T) {
	svc, mem := newTestPipeline()
	r := createTestRouter("POST", "/api/command", HandleCommand(svc))

	w := performRequest(r, "POST", "/api/command", map[string]string{
		"message": "schedule a meeting tomorrow morning",
	})
	require.Equal(t, http.StatusOK, w.Code)

	events, err := mem.Events().ListByUser(context.Background(), "default")
	require.NoError(t, err)
	assert.Len(t, events, 1)
}

// =============================================================================
// History Tests
// =============================================================================

func TestListCommandHistory_ReturnsNewestFirst(t *testing.T) {
	mem := store.NewMemory()
	log := mem.CommandLog()
	for _, prompt := range []string{"first", "second"} {
		_, err := log.CreateCommand(context.Background(), datatypes.CommandRecord{
			UserID:      "u1",
			UserPrompt:  prompt,
			CommandType: datatypes.CommandTypeGeneral,
			Status:      datatypes.CommandStatusSuccess,
		})
		require.NoError(t, err)
	}

	r := createTestRouter("GET", "/api/commands", ListCommandHistory(log))
	w := performRequest(r, "GET", "/api/commands?userId=u1", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Commands []datatypes.CommandRecord `json:"commands"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Commands, 2)
}

func TestListCommandHistory_RequiresUserID(t *testing.T) {
	mem := store.NewMemory()
	r := createTestRouter("GET", "/api/commands", ListCommandHistory(mem.CommandLog()))

	w := performRequest(r, "GET", "/api/commands", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListCommandEffects_EmptyForUnknownCommand(t *testing.T) {
	mem := store.NewMemory()
	r := createTestRouter("GET", "/api/commands/:commandId/effects", ListCommandEffects(mem.CommandLog()))

	w := performRequest(r, "GET", "/api/commands/nope/effects", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Effects []datatypes.CommandEffect `json:"effects"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Empty(t, resp.Effects)
}

// =============================================================================
// HealthCheck Tests
// =============================================================================

func TestHealthCheck_ReturnsOK(t *testing.T) {
	r := createTestRouter("GET", "/health", HealthCheck)
	w := performRequest(r, "GET", "/health", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ok")
}
