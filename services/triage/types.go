// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package triage exposes the incident diagnosis loop over HTTP.
package triage

import "github.com/AleutianAI/TriageFOSS/services/triage/agent"

// DiagnoseRequest is the request body for POST /v1/triage/diagnose.
type DiagnoseRequest struct {
	// Goal describes the incident trigger, e.g. "Users report elevated
	// error rates on checkout".
	Goal string `json:"goal" binding:"required"`

	// Service is the subject service identifier.
	Service string `json:"service" binding:"required"`

	// MaxSteps optionally overrides the configured step budget.
	MaxSteps int `json:"max_steps" binding:"omitempty,gte=1,lte=50"`
}

// DiagnoseResponse is the response body for POST /v1/triage/diagnose.
type DiagnoseResponse struct {
	IncidentID   string              `json:"incident_id"`
	Goal         string              `json:"goal"`
	Service      string              `json:"service"`
	Steps        int                 `json:"steps"`
	Done         bool                `json:"done"`
	Conclusion   string              `json:"conclusion"`
	Observations []agent.Observation `json:"observations"`
}

// ToolsResponse is the response body for GET /v1/triage/tools.
type ToolsResponse struct {
	Tools []string `json:"tools"`
}

// ErrorResponse is the standard error body.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}
