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

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"

	"github.com/AleutianAI/AleutianDesk/services/assistant/pipeline"
)

var commandTracer = otel.Tracer("aleutian.assistant.handlers")

type CommandRequest struct {
	Message             string `json:"message" binding:"required"`
	UserID              string `json:"userId"`
	ConversationContext string `json:"conversationContext"`
}

// Auth is handled by the fronting web app; an absent userId means the
// single-tenant default user.
const defaultUserID = "default"

// HandleCommand is the single natural-language entry point. The pipeline
// folds per-domain failures into the response body, so anything that
// reaches the error path here is an infrastructure problem.
func HandleCommand(svc *pipeline.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, span := commandTracer.Start(c.Request.Context(), "HandleCommand")
		defer span.End()

		var req CommandRequest
		if err := c.BindJSON(&req); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			slog.Error("Failed to parse the command request", "error", err)
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		if req.UserID == "" {
			req.UserID = defaultUserID
		}

		resp, err := svc.Process(ctx, req.UserID, req.Message, req.ConversationContext)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			slog.Error("Command pipeline failed", "user_id", req.UserID, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{
				"message": "Something went wrong processing your request.",
				"error":   err.Error(),
			})
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}
