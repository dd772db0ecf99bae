// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package store defines the narrow interfaces the assistant uses to reach
// the CRUD collaborators, plus the assistant's own command/effect log.
// The web app's real CRUD layer satisfies these in production; the
// in-memory implementations here back tests and the standalone binary.
package store

import (
	"context"
	"errors"

	"github.com/AleutianAI/AleutianDesk/services/assistant/datatypes"
)

// ErrNotFound marks an update or delete whose target does not exist.
// Callers check it with errors.Is to separate a stale reference from a
// datastore failure.
var ErrNotFound = errors.New("record not found")

type Events interface {
	ListByUser(ctx context.Context, userID string) ([]datatypes.Event, error)
	Create(ctx context.Context, ev datatypes.Event) (datatypes.Event, error)
	Update(ctx context.Context, ev datatypes.Event) (datatypes.Event, error)
	Delete(ctx context.Context, id string) error
}

type Tasks interface {
	ListByUser(ctx context.Context, userID string) ([]datatypes.Task, error)
	Create(ctx context.Context, t datatypes.Task) (datatypes.Task, error)
	Update(ctx context.Context, t datatypes.Task) (datatypes.Task, error)
	Delete(ctx context.Context, id string) error
}

type Projects interface {
	ListByUser(ctx context.Context, userID string) ([]datatypes.Project, error)
	Create(ctx context.Context, p datatypes.Project) (datatypes.Project, error)
	Update(ctx context.Context, p datatypes.Project) (datatypes.Project, error)
}

type Clients interface {
	ListByUser(ctx context.Context, userID string) ([]datatypes.Client, error)
	Create(ctx context.Context, c datatypes.Client) (datatypes.Client, error)
}

type Bookings interface {
	ListByUser(ctx context.Context, userID string) ([]datatypes.Booking, error)
	Create(ctx context.Context, b datatypes.Booking) (datatypes.Booking, error)
}

// Settings applies a flat patch and returns the merged settings for the
// user. Values are already normalized by the executor.
type Settings interface {
	Get(ctx context.Context, userID string) (map[string]string, error)
	Apply(ctx context.Context, userID string, patch datatypes.SettingsPatch) (map[string]string, error)
}

// CommandLog persists command records and their append-only effects.
type CommandLog interface {
	CreateCommand(ctx context.Context, rec datatypes.CommandRecord) (datatypes.CommandRecord, error)
	UpdateCommandStatus(ctx context.Context, id string, status datatypes.CommandStatus) error
	RecordEffect(ctx context.Context, eff datatypes.CommandEffect) (datatypes.CommandEffect, error)
	ListCommands(ctx context.Context, userID string, limit int) ([]datatypes.CommandRecord, error)
	ListEffects(ctx context.Context, commandID string) ([]datatypes.CommandEffect, error)
}
