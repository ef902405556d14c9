// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package triage

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers all triage routes with the router group.
//
// Description:
//
//	Registers the /v1/triage/* endpoints. The router group should
//	already have any required middleware applied.
//
// Endpoints:
//
//	POST /v1/triage/diagnose - Run one incident diagnosis
//	GET  /v1/triage/tools - List the registered diagnostic tools
//	GET  /v1/triage/health - Liveness check
//
// Inputs:
//
//	rg - Gin router group (typically /v1)
//	handlers - The handlers instance
func RegisterRoutes(rg *gin.RouterGroup, handlers *Handlers) {
	triage := rg.Group("/triage")
	{
		triage.POST("/diagnose", handlers.HandleDiagnose)
		triage.GET("/tools", handlers.HandleListTools)
		triage.GET("/health", handlers.HandleHealth)
	}
}
