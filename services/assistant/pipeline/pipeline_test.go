// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package pipeline

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/AleutianDesk/services/assistant/contextstore"
	"github.com/AleutianAI/AleutianDesk/services/assistant/datatypes"
	"github.com/AleutianAI/AleutianDesk/services/assistant/executor"
	"github.com/AleutianAI/AleutianDesk/services/assistant/extract"
	"github.com/AleutianAI/AleutianDesk/services/assistant/router"
	"github.com/AleutianAI/AleutianDesk/services/assistant/store"
	"github.com/AleutianAI/AleutianDesk/services/llm"
)

const testUser = "u1"

// scriptedLLM replays CompleteJSON responses in order: the first goes to
// routing, the rest to extraction. Once exhausted it degrades.
type scriptedLLM struct {
	responses []string
	calls     int
	reply     string
}

func (s *scriptedLLM) Generate(ctx context.Context, systemPrompt, userPrompt string, params llm.GenerationParams) (string, error) {
	if s.reply == "" {
		return "", llm.ErrUnavailable
	}
	return s.reply, nil
}

func (s *scriptedLLM) CompleteJSON(ctx context.Context, systemPrompt, userPrompt string) ([]byte, error) {
	if s.calls >= len(s.responses) {
		return nil, llm.ErrUnavailable
	}
	raw := s.responses[s.calls]
	s.calls++
	return []byte(raw), nil
}

func newTestService(t *testing.T, client llm.Client) (*Service, *store.Memory, *contextstore.MemoryStore) {
	t.Helper()
	mem := store.NewMemory()
	contexts := contextstore.NewMemoryStore(0, 0)
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
	svc := New(
		router.New(client, nil),
		extract.New(client, nil),
		exec,
		mem.CommandLog(),
		contexts,
		nil,
	)
	return svc, mem, contexts
}

func commandEffects(t *testing.T, mem *store.Memory, commandID string) []datatypes.CommandEffect {
	t.Helper()
	effs, err := mem.CommandLog().ListEffects(context.Background(), commandID)
	require.NoError(t, err)
	return effs
}

func lastCommand(t *testing.T, mem *store.Memory) datatypes.CommandRecord {
	t.Helper()
	cmds, err := mem.CommandLog().ListCommands(context.Background(), testUser, 1)
	require.NoError(t, err)
	require.Len(t, cmds, 1)
	return cmds[0]
}

func TestProcess_TaskCommandEndToEnd(t *testing.T) {
	client := &scriptedLLM{responses: []string{
		`{
			"task_prompt": "Add a task to call Maria, priority urgent, due today",
			"conversation_context": "User wants an urgent task to call Maria today",
			"missing_fields": []
		}`,
		`{
			"title": "Call Maria",
			"priority": "urgent",
			"deadline": "2025-06-11",
			"has_optional_details": true
		}`,
	}}
	svc, mem, contexts := newTestService(t, client)

	resp, err := svc.Process(context.Background(), testUser, "Add task to call Maria urgent today", "")
	require.NoError(t, err)

	assert.Equal(t, "success", resp.Status)
	require.NotNil(t, resp.Task)
	assert.True(t, resp.Task.Success)
	assert.True(t, strings.HasPrefix(resp.Task.Message, "Created task:"), "got %q", resp.Task.Message)
	assert.Empty(t, resp.TaskError)

	tasks, err := mem.Tasks().ListByUser(context.Background(), testUser)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "Call Maria", tasks[0].Title)
	assert.Equal(t, "urgent", tasks[0].Priority)
	require.NotNil(t, tasks[0].Deadline)
	assert.Equal(t, time.June, tasks[0].Deadline.Month())
	assert.Equal(t, 11, tasks[0].Deadline.Day())

	rec := lastCommand(t, mem)
	assert.Equal(t, datatypes.CommandStatusSuccess, rec.Status)
	effs := commandEffects(t, mem, rec.ID)
	require.Len(t, effs, 1)
	assert.Equal(t, "create_task", effs[0].EffectType)

	stored, ok := contexts.Get(testUser)
	assert.True(t, ok)
	assert.Equal(t, "User wants an urgent task to call Maria today", stored)
}

func TestProcess_CountQuerySkipsExtractionAndEffects(t *testing.T) {
	// Disabled backend: routing uses the keyword scanner, and a real
	// extraction attempt would error. The count path must never reach it.
	svc, mem, _ := newTestService(t, llm.NewDisabledClient())

	_, err := mem.Tasks().Create(context.Background(), datatypes.Task{UserID: testUser, Title: "Invoice Acme", Status: "to_do", Priority: "medium"})
	require.NoError(t, err)
	_, err = mem.Tasks().Create(context.Background(), datatypes.Task{UserID: testUser, Title: "Send contract", Status: "done", Priority: "high"})
	require.NoError(t, err)

	resp, err := svc.Process(context.Background(), testUser, "how many tasks do I have", "")
	require.NoError(t, err)

	assert.Equal(t, "success", resp.Status)
	require.NotNil(t, resp.Task)
	assert.True(t, resp.Task.Success)
	assert.Contains(t, resp.Task.Message, "2")
	assert.Empty(t, resp.TaskError)

	rec := lastCommand(t, mem)
	assert.Equal(t, datatypes.CommandStatusSuccess, rec.Status)
	assert.Empty(t, commandEffects(t, mem, rec.ID))
}

func TestProcess_LanguageShortcutWithoutBackend(t *testing.T) {
	svc, mem, _ := newTestService(t, llm.NewDisabledClient())

	resp, err := svc.Process(context.Background(), testUser, "switch my language to Spanish", "")
	require.NoError(t, err)

	assert.Equal(t, "success", resp.Status)
	require.NotNil(t, resp.Settings)
	assert.True(t, resp.Settings.Success)

	settings, err := mem.Settings().Get(context.Background(), testUser)
	require.NoError(t, err)
	assert.Equal(t, "es", settings["language"])

	rec := lastCommand(t, mem)
	effs := commandEffects(t, mem, rec.ID)
	require.Len(t, effs, 1)
	assert.Equal(t, "update_settings", effs[0].EffectType)
}

func TestProcess_CalendarFallbackWithoutBackend(t *testing.T) {
	svc, mem, _ := newTestService(t, llm.NewDisabledClient())

	resp, err := svc.Process(context.Background(), testUser, "schedule meeting with Dana tomorrow at 3pm", "")
	require.NoError(t, err)

	assert.Equal(t, "success", resp.Status)
	require.NotNil(t, resp.Calendar)
	assert.True(t, resp.Calendar.Success)

	events, err := mem.Events().ListByUser(context.Background(), testUser)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Contains(t, events[0].Title, "Dana")
	assert.Equal(t, 15, events[0].StartTime.Hour())
	assert.Equal(t, events[0].StartTime.Add(time.Hour), events[0].EndTime)
}

func TestProcess_UnmatchedMessageAsksForClarification(t *testing.T) {
	svc, mem, _ := newTestService(t, llm.NewDisabledClient())

	resp, err := svc.Process(context.Background(), testUser, "hmm", "")
	require.NoError(t, err)

	assert.Equal(t, "needs_clarification", resp.Status)
	assert.NotEmpty(t, resp.Clarification)
	assert.Equal(t, []string{"request_type"}, resp.MissingFields)

	rec := lastCommand(t, mem)
	assert.Equal(t, datatypes.CommandStatusNeedsClarification, rec.Status)
	assert.Empty(t, commandEffects(t, mem, rec.ID))
}

func TestProcess_MultiDomainWithOneBranchFailing(t *testing.T) {
	// Routing succeeds for two domains; the task extraction response is
	// exhausted so that branch degrades while calendar still lands.
	client := &scriptedLLM{responses: []string{
		`{
			"calendar_prompt": "Schedule a meeting with Dana tomorrow at 3pm",
			"task_prompt": "Add a task to prepare the agenda",
			"conversation_context": "User wants a meeting with Dana and an agenda task"
		}`,
	}}
	svc, mem, _ := newTestService(t, client)

	resp, err := svc.Process(context.Background(), testUser, "Schedule a meeting with Dana tomorrow at 3pm and add a task to prepare the agenda", "")
	require.NoError(t, err)

	assert.Equal(t, "success", resp.Status)
	require.NotNil(t, resp.Calendar)
	assert.True(t, resp.Calendar.Success)
	assert.Nil(t, resp.Task)
	assert.NotEmpty(t, resp.TaskError)

	events, err := mem.Events().ListByUser(context.Background(), testUser)
	require.NoError(t, err)
	assert.Len(t, events, 1)

	// A degraded branch never fails the command itself.
	rec := lastCommand(t, mem)
	assert.Equal(t, datatypes.CommandStatusSuccess, rec.Status)
}

func TestProcess_PriorContextFromStore(t *testing.T) {
	client := &scriptedLLM{responses: []string{
		`{
			"calendar_prompt": "Cancel the meeting with Dana",
			"conversation_context": "User cancelled the meeting with Dana"
		}`,
	}}
	svc, mem, contexts := newTestService(t, client)
	contexts.Update(testUser, "User scheduled a meeting with Dana")

	_, err := mem.Events().Create(context.Background(), datatypes.Event{
		UserID:    testUser,
		Title:     "Meeting with Dana",
		StartTime: time.Now().Add(24 * time.Hour),
		EndTime:   time.Now().Add(25 * time.Hour),
	})
	require.NoError(t, err)

	resp, err := svc.Process(context.Background(), testUser, "actually cancel it", "")
	require.NoError(t, err)
	require.NotNil(t, resp.Calendar)

	// The stored context from the previous turn was handed to routing.
	stored, ok := contexts.Get(testUser)
	assert.True(t, ok)
	assert.Equal(t, "User cancelled the meeting with Dana", stored)
}

func TestProcess_MessageDraft(t *testing.T) {
	client := &scriptedLLM{
		responses: []string{
			`{
				"message_prompt": "Draft an away reply",
				"conversation_context": "User wants an away reply"
			}`,
		},
		reply: "Thanks for reaching out! I'm away until Monday and will reply then.",
	}
	svc, mem, _ := newTestService(t, client)

	resp, err := svc.Process(context.Background(), testUser, "set up an away reply", "")
	require.NoError(t, err)

	require.NotNil(t, resp.Message)
	assert.True(t, resp.Message.Success)
	assert.Contains(t, resp.Message.Message, "away until Monday")

	rec := lastCommand(t, mem)
	effs := commandEffects(t, mem, rec.ID)
	require.Len(t, effs, 1)
	assert.Equal(t, "generate_message", effs[0].EffectType)
}
