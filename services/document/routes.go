// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package document

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers all DocBuddy routes with the router.
//
// Description:
//
//	Registers all /v1/docbuddy/* endpoints with the given Gin router
//	group. The router group should already have any required middleware
//	applied.
//
// Inputs:
//
//	rg - Gin router group (typically /v1)
//	handlers - The handlers instance
//
// Endpoints:
//
//	POST /v1/docbuddy/document - Document one source
//	POST /v1/docbuddy/inspect - Report documentation state per construct
//	GET  /v1/docbuddy/kinds - List registered construct kinds
//	GET  /v1/docbuddy/health - Health check
//	GET  /v1/docbuddy/ready - Readiness check
//
// Example:
//
//	service, _ := document.NewService(document.DefaultServiceConfig(), logger)
//	handlers := document.NewHandlers(service)
//
//	v1 := router.Group("/v1")
//	document.RegisterRoutes(v1, handlers)
func RegisterRoutes(rg *gin.RouterGroup, handlers *Handlers) {
	docbuddy := rg.Group("/docbuddy")
	{
		// Documentation passes
		docbuddy.POST("/document", handlers.HandleDocument)
		docbuddy.POST("/inspect", handlers.HandleInspect)

		// Introspection
		docbuddy.GET("/kinds", handlers.HandleKinds)

		// Health checks
		docbuddy.GET("/health", handlers.HandleHealth)
		docbuddy.GET("/ready", handlers.HandleReady)
	}
}
