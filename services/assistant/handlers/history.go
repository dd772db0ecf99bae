// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/codes"

	"github.com/AleutianAI/AleutianDesk/services/assistant/store"
)

const defaultHistoryLimit = 50

// ListCommandHistory returns the user's recent commands, newest first.
func ListCommandHistory(log store.CommandLog) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, span := commandTracer.Start(c.Request.Context(), "ListCommandHistory")
		defer span.End()

		userID := c.Query("userId")
		if userID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "userId query parameter is required"})
			return
		}
		limit := defaultHistoryLimit
		if raw := c.Query("limit"); raw != "" {
			if n, err := strconv.Atoi(raw); err == nil && n > 0 {
				limit = n
			}
		}

		cmds, err := log.ListCommands(ctx, userID, limit)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			slog.Error("Failed to list command history", "user_id", userID, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"commands": cmds})
	}
}

// ListCommandEffects returns the audit rows for one command.
func ListCommandEffects(log store.CommandLog) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, span := commandTracer.Start(c.Request.Context(), "ListCommandEffects")
		defer span.End()

		commandID := c.Param("commandId")
		effs, err := log.ListEffects(ctx, commandID)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			slog.Error("Failed to list command effects", "command_id", commandID, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"effects": effs})
	}
}
