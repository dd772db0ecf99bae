// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/AleutianAI/AleutianDesk/services/assistant/handlers"
	"github.com/AleutianAI/AleutianDesk/services/assistant/pipeline"
	"github.com/AleutianAI/AleutianDesk/services/assistant/store"
)

func SetupRoutes(router *gin.Engine, svc *pipeline.Service, log store.CommandLog,
	registry *prometheus.Registry) {

	router.GET("/health", handlers.HealthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	api := router.Group("/api")
	{
		api.POST("/command", handlers.HandleCommand(svc))
		api.GET("/commands", handlers.ListCommandHistory(log))
		api.GET("/commands/:commandId/effects", handlers.ListCommandEffects(log))
	}
}
