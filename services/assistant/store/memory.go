// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/AleutianAI/AleutianDesk/services/assistant/datatypes"
)

// Memory is an in-process implementation of every collaborator interface.
// Each mutation is a single operation under one mutex, matching the
// single-row atomicity the real CRUD layer provides. No cross-operation
// transaction is offered; a find-or-create race between two concurrent
// commands can produce duplicate clients, same as in production.
type Memory struct {
	mu       sync.RWMutex
	events   map[string]datatypes.Event
	tasks    map[string]datatypes.Task
	projects map[string]datatypes.Project
	clients  map[string]datatypes.Client
	bookings map[string]datatypes.Booking
	settings map[string]map[string]string
	commands map[string]datatypes.CommandRecord
	effects  map[string][]datatypes.CommandEffect
}

func NewMemory() *Memory {
	return &Memory{
		events:   make(map[string]datatypes.Event),
		tasks:    make(map[string]datatypes.Task),
		projects: make(map[string]datatypes.Project),
		clients:  make(map[string]datatypes.Client),
		bookings: make(map[string]datatypes.Booking),
		settings: make(map[string]map[string]string),
		commands: make(map[string]datatypes.CommandRecord),
		effects:  make(map[string][]datatypes.CommandEffect),
	}
}

// Events returns the Events view of the store.
func (m *Memory) Events() Events     { return (*memEvents)(m) }
func (m *Memory) Tasks() Tasks       { return (*memTasks)(m) }
func (m *Memory) Projects() Projects { return (*memProjects)(m) }
func (m *Memory) Clients() Clients   { return (*memClients)(m) }
func (m *Memory) Bookings() Bookings { return (*memBookings)(m) }
func (m *Memory) Settings() Settings { return (*memSettings)(m) }

type memEvents Memory

func (s *memEvents) ListByUser(_ context.Context, userID string) ([]datatypes.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []datatypes.Event
	for _, ev := range s.events {
		if ev.UserID == userID {
			out = append(out, ev)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out, nil
}

func (s *memEvents) Create(_ context.Context, ev datatypes.Event) (datatypes.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}
	if ev.CreatedAt.IsZero() {
		ev.CreatedAt = time.Now().UTC()
	}
	s.events[ev.ID] = ev
	return ev, nil
}

func (s *memEvents) Update(_ context.Context, ev datatypes.Event) (datatypes.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.events[ev.ID]; !ok {
		return datatypes.Event{}, fmt.Errorf("event %s: %w", ev.ID, ErrNotFound)
	}
	s.events[ev.ID] = ev
	return ev, nil
}

func (s *memEvents) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.events[id]; !ok {
		return fmt.Errorf("event %s: %w", id, ErrNotFound)
	}
	delete(s.events, id)
	return nil
}

type memTasks Memory

func (s *memTasks) ListByUser(_ context.Context, userID string) ([]datatypes.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []datatypes.Task
	for _, t := range s.tasks {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *memTasks) Create(_ context.Context, t datatypes.Task) (datatypes.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}
	s.tasks[t.ID] = t
	return t, nil
}

func (s *memTasks) Update(_ context.Context, t datatypes.Task) (datatypes.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tasks[t.ID]; !ok {
		return datatypes.Task{}, fmt.Errorf("task %s: %w", t.ID, ErrNotFound)
	}
	s.tasks[t.ID] = t
	return t, nil
}

func (s *memTasks) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tasks[id]; !ok {
		return fmt.Errorf("task %s: %w", id, ErrNotFound)
	}
	delete(s.tasks, id)
	return nil
}

type memProjects Memory

func (s *memProjects) ListByUser(_ context.Context, userID string) ([]datatypes.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []datatypes.Project
	for _, p := range s.projects {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *memProjects) Create(_ context.Context, p datatypes.Project) (datatypes.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	s.projects[p.ID] = p
	return p, nil
}

func (s *memProjects) Update(_ context.Context, p datatypes.Project) (datatypes.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.projects[p.ID]; !ok {
		return datatypes.Project{}, fmt.Errorf("project %s: %w", p.ID, ErrNotFound)
	}
	s.projects[p.ID] = p
	return p, nil
}

type memClients Memory

func (s *memClients) ListByUser(_ context.Context, userID string) ([]datatypes.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []datatypes.Client
	for _, c := range s.clients {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *memClients) Create(_ context.Context, c datatypes.Client) (datatypes.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	s.clients[c.ID] = c
	return c, nil
}

type memBookings Memory

func (s *memBookings) ListByUser(_ context.Context, userID string) ([]datatypes.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []datatypes.Booking
	for _, b := range s.bookings {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *memBookings) Create(_ context.Context, b datatypes.Booking) (datatypes.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	if b.CreatedAt.IsZero() {
		b.CreatedAt = time.Now().UTC()
	}
	s.bookings[b.ID] = b
	return b, nil
}

type memSettings Memory

func (s *memSettings) Get(_ context.Context, userID string) (map[string]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]string, len(s.settings[userID]))
	for k, v := range s.settings[userID] {
		out[k] = v
	}
	return out, nil
}

func (s *memSettings) Apply(_ context.Context, userID string, patch datatypes.SettingsPatch) (map[string]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur := s.settings[userID]
	if cur == nil {
		cur = make(map[string]string)
		s.settings[userID] = cur
	}
	for k, v := range patch {
		cur[k] = v
	}
	out := make(map[string]string, len(cur))
	for k, v := range cur {
		out[k] = v
	}
	return out, nil
}

// CommandLog returns the in-memory command log view.
func (m *Memory) CommandLog() CommandLog { return (*memCommandLog)(m) }

type memCommandLog Memory

func (s *memCommandLog) CreateCommand(_ context.Context, rec datatypes.CommandRecord) (datatypes.CommandRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	s.commands[rec.ID] = rec
	return rec, nil
}

func (s *memCommandLog) UpdateCommandStatus(_ context.Context, id string, status datatypes.CommandStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.commands[id]
	if !ok {
		return fmt.Errorf("command %s not found", id)
	}
	rec.Status = status
	s.commands[id] = rec
	return nil
}

func (s *memCommandLog) RecordEffect(_ context.Context, eff datatypes.CommandEffect) (datatypes.CommandEffect, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.commands[eff.CommandID]; !ok {
		return datatypes.CommandEffect{}, fmt.Errorf("command %s not found", eff.CommandID)
	}
	if eff.ID == "" {
		eff.ID = uuid.NewString()
	}
	if eff.CreatedAt.IsZero() {
		eff.CreatedAt = time.Now().UTC()
	}
	s.effects[eff.CommandID] = append(s.effects[eff.CommandID], eff)
	return eff, nil
}

func (s *memCommandLog) ListCommands(_ context.Context, userID string, limit int) ([]datatypes.CommandRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []datatypes.CommandRecord
	for _, rec := range s.commands {
		if rec.UserID == userID {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *memCommandLog) ListEffects(_ context.Context, commandID string) ([]datatypes.CommandEffect, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]datatypes.CommandEffect, len(s.effects[commandID]))
	copy(out, s.effects[commandID])
	return out, nil
}
