// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package triage

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/AleutianAI/TriageFOSS/pkg/validation"
	"github.com/AleutianAI/TriageFOSS/services/triage/agent"
)

// Handlers contains the HTTP handlers for the triage service.
//
// Thread Safety: Handlers is safe for concurrent use; each request
// runs its own incident state.
type Handlers struct {
	loop            *agent.Loop
	registry        *agent.Registry
	defaultMaxSteps int
}

// NewHandlers creates handlers wrapping the diagnosis loop.
//
// Inputs:
//
//	loop - The diagnosis loop. Must not be nil.
//	registry - The tool registry, for the tools endpoint.
//	defaultMaxSteps - Step budget used when a request does not set one.
func NewHandlers(loop *agent.Loop, registry *agent.Registry, defaultMaxSteps int) *Handlers {
	if defaultMaxSteps <= 0 {
		defaultMaxSteps = agent.DefaultMaxSteps
	}
	return &Handlers{
		loop:            loop,
		registry:        registry,
		defaultMaxSteps: defaultMaxSteps,
	}
}

// HandleDiagnose handles POST /v1/triage/diagnose.
//
// Description:
//
//	Runs one full diagnosis for the given goal and service and returns
//	the final incident state, including the complete observation
//	history and the conclusion.
//
// Response:
//
//	200 OK: DiagnoseResponse
//	400 Bad Request: Validation error
//	502 Bad Gateway: Oracle transport, decision, or data-source fault
//	500 Internal Server Error: Unexpected failure
//
// Thread Safety: This method is safe for concurrent use.
func (h *Handlers) HandleDiagnose(c *gin.Context) {
	requestID := getOrCreateRequestID(c)
	logger := slog.With("request_id", requestID, "handler", "HandleDiagnose")

	var req DiagnoseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Invalid request body",
			Code:  CodeInvalidRequest,
		})
		return
	}

	if err := validation.ValidateService(req.Service); err != nil {
		logger.Warn("Invalid service name", "error", err)
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: err.Error(),
			Code:  CodeInvalidRequest,
		})
		return
	}

	maxSteps := req.MaxSteps
	if maxSteps == 0 {
		maxSteps = h.defaultMaxSteps
	}

	state := agent.NewIncidentState(req.Goal, req.Service)
	logger = logger.With("incident_id", state.ID, "service", req.Service)

	if _, err := h.loop.Run(c.Request.Context(), state, maxSteps); err != nil {
		status, code := classifyRunError(err)
		logger.Error("Diagnosis run failed", "error", err, "code", code)
		c.JSON(status, ErrorResponse{
			Error: err.Error(),
			Code:  code,
		})
		return
	}

	observations := state.Observations
	if observations == nil {
		observations = []agent.Observation{}
	}

	c.JSON(http.StatusOK, DiagnoseResponse{
		IncidentID:   state.ID,
		Goal:         state.Goal,
		Service:      state.Service,
		Steps:        state.Steps,
		Done:         state.Done,
		Conclusion:   state.Conclusion,
		Observations: observations,
	})
}

// HandleListTools handles GET /v1/triage/tools.
func (h *Handlers) HandleListTools(c *gin.Context) {
	c.JSON(http.StatusOK, ToolsResponse{Tools: h.registry.Names()})
}

// HandleHealth handles GET /v1/triage/health.
func (h *Handlers) HandleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// classifyRunError maps loop failures to HTTP status and error code.
func classifyRunError(err error) (int, string) {
	switch {
	case errors.Is(err, agent.ErrMalformedDecision), errors.Is(err, agent.ErrUnknownTool):
		return http.StatusBadGateway, CodeOracleFault
	case errors.Is(err, agent.ErrNilState), errors.Is(err, agent.ErrInvalidStepBudget):
		return http.StatusInternalServerError, CodeInternalError
	default:
		// Oracle transport and tool data-source failures both surface
		// as upstream faults.
		return http.StatusBadGateway, CodeUpstreamError
	}
}

// getOrCreateRequestID returns the request ID from the X-Request-ID
// header, generating one if absent, and echoes it on the response.
func getOrCreateRequestID(c *gin.Context) string {
	requestID := c.GetHeader("X-Request-ID")
	if requestID == "" {
		requestID = uuid.NewString()
	}
	c.Header("X-Request-ID", requestID)
	return requestID
}
