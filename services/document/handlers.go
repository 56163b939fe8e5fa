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
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/AleutianAI/DocBuddy/services/document/ast"
	"github.com/AleutianAI/DocBuddy/services/document/diffview"
)

// ServiceVersion is the DocBuddy service version.
const ServiceVersion = "0.1.0"

// Handlers contains the HTTP handlers for DocBuddy.
type Handlers struct {
	svc *Service
}

// NewHandlers creates handlers for the given service.
func NewHandlers(svc *Service) *Handlers {
	return &Handlers{svc: svc}
}

// HandleDocument handles POST /v1/docbuddy/document.
//
// Description:
//
//	Runs one in-memory documentation pass over the posted source and
//	returns the documented output with counts and warnings. Dry runs
//	attach a unified diff of the proposed insertions.
//
// Request Body:
//
//	DocumentRequest
//
// Response:
//
//	200 OK: DocumentResponse
//	400 Bad Request: Validation or parse error
//	413 Request Entity Too Large: Source exceeds the size limit
//	500 Internal Server Error: Processing error
func (h *Handlers) HandleDocument(c *gin.Context) {
	requestID := getOrCreateRequestID(c)
	logger := slog.With("request_id", requestID, "handler", "HandleDocument")

	var req DocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Invalid request body",
			Code:  "INVALID_REQUEST",
		})
		return
	}

	path := req.FilePath
	if path == "" {
		path = "source.cs"
	}

	logger.Info("Documenting source",
		"file", path,
		"source_bytes", len(req.Source),
		"dry_run", req.DryRun)

	res, err := h.svc.DocumentSource(c.Request.Context(), []byte(req.Source), path)
	if err != nil {
		statusCode, errCode := documentStatus(err)
		logger.Error("Documentation failed", "error", err)
		c.JSON(statusCode, ErrorResponse{
			Error: err.Error(),
			Code:  errCode,
		})
		return
	}

	resp := DocumentResponse{
		Output:     string(res.Output),
		Documented: res.Documented,
		Existing:   res.Existing,
		Skipped:    res.Skipped,
		Warnings:   res.Warnings,
		Changed:    res.Changed,
	}
	if req.DryRun && res.Changed {
		resp.Diff = renderDiff(logger, path, []byte(req.Source), res)
	}

	logger.Info("Source documented",
		"documented", resp.Documented,
		"existing", resp.Existing,
		"skipped", resp.Skipped)

	c.JSON(http.StatusOK, resp)
}

// HandleInspect handles POST /v1/docbuddy/inspect.
//
// Description:
//
//	Parses the posted source and reports each construct's documentation
//	state without synthesizing anything.
//
// Request Body:
//
//	InspectRequest
//
// Response:
//
//	200 OK: InspectResponse
//	400 Bad Request: Validation or parse error
//	413 Request Entity Too Large: Source exceeds the size limit
func (h *Handlers) HandleInspect(c *gin.Context) {
	requestID := getOrCreateRequestID(c)
	logger := slog.With("request_id", requestID, "handler", "HandleInspect")

	var req InspectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Invalid request body",
			Code:  "INVALID_REQUEST",
		})
		return
	}

	path := req.FilePath
	if path == "" {
		path = "source.cs"
	}

	reports, err := h.svc.Inspect(c.Request.Context(), []byte(req.Source), path)
	if err != nil {
		statusCode, errCode := documentStatus(err)
		logger.Error("Inspection failed", "error", err)
		c.JSON(statusCode, ErrorResponse{
			Error: err.Error(),
			Code:  errCode,
		})
		return
	}

	resp := InspectResponse{
		FilePath:   path,
		Constructs: reports,
		Total:      len(reports),
	}
	for _, r := range reports {
		if r.Documented {
			resp.Documented++
		} else {
			resp.Undocumented++
		}
	}

	c.JSON(http.StatusOK, resp)
}

// HandleKinds handles GET /v1/docbuddy/kinds.
func (h *Handlers) HandleKinds(c *gin.Context) {
	c.JSON(http.StatusOK, KindsResponse{Kinds: h.svc.Kinds()})
}

// HandleHealth handles GET /v1/docbuddy/health.
//
// Description:
//
//	Returns the health status of the service. Always returns 200 OK
//	if the service is running.
func (h *Handlers) HandleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:  "healthy",
		Version: ServiceVersion,
	})
}

// HandleReady handles GET /v1/docbuddy/ready.
//
// Description:
//
//	Returns the readiness status of the service. Ready means the parser
//	registry and the template-driven strategies are loaded.
//
// Response:
//
//	200 OK: ReadyResponse (Ready=true) - Service is fully ready
//	503 Service Unavailable: ReadyResponse (Ready=false)
func (h *Handlers) HandleReady(c *gin.Context) {
	kinds := h.svc.Kinds()
	resp := ReadyResponse{
		Ready:      len(kinds) > 0,
		Kinds:      len(kinds),
		Extensions: h.svc.Extensions(),
	}
	if !resp.Ready {
		c.JSON(http.StatusServiceUnavailable, resp)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// documentStatus maps service errors to HTTP status and error codes.
func documentStatus(err error) (int, string) {
	switch {
	case errors.Is(err, ErrEmptySource):
		return http.StatusBadRequest, "EMPTY_SOURCE"
	case errors.Is(err, ast.ErrUnsupportedFile):
		return http.StatusBadRequest, "UNSUPPORTED_FILE"
	case errors.Is(err, ast.ErrInvalidContent):
		return http.StatusBadRequest, "INVALID_CONTENT"
	case errors.Is(err, ErrParseFailed):
		return http.StatusBadRequest, "PARSE_FAILED"
	case errors.Is(err, ast.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE"
	default:
		return http.StatusInternalServerError, "INTERNAL"
	}
}

// renderDiff formats the insertion plan as a unified diff. Failures degrade
// to an empty diff with a warning, never a failed response.
func renderDiff(logger *slog.Logger, path string, source []byte, res *Result) string {
	unified, err := diffview.Unified(path, source, res.Edits)
	if err != nil {
		logger.Warn("Diff render failed", "error", err)
		return ""
	}
	return unified
}

// getOrCreateRequestID returns the request ID from the X-Request-ID header,
// generating one when absent. The ID is echoed on the response.
func getOrCreateRequestID(c *gin.Context) string {
	requestID := c.GetHeader("X-Request-ID")
	if requestID == "" {
		requestID = uuid.NewString()
	}
	c.Header("X-Request-ID", requestID)
	return requestID
}
