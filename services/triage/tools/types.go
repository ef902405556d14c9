// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package tools implements the diagnostic tools the triage agent can
// invoke: metrics, logs, deployments, and dependency health checks.
//
// Each tool is a pure function of its backing data file. A lookup miss
// ("service unknown") is reported as a not-ok Result, never an error;
// errors are reserved for data-source access faults (unreadable or
// malformed backing files).
//
// Thread Safety:
//
//	All tools and the Store are safe for concurrent use.
package tools

// ServiceMetrics holds the metrics snapshot for one service.
type ServiceMetrics struct {
	CPUPercent  float64 `json:"cpu_percent"`
	LatencyMS   float64 `json:"latency_ms"`
	RequestRate float64 `json:"request_rate,omitempty"`
}

// LogRecord is a single application log line.
type LogRecord struct {
	Level     string `json:"level"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp,omitempty"`
}

// Deployment describes the most recent deployment of a service.
type Deployment struct {
	Version    string `json:"version"`
	DeployedAt string `json:"deployed_at,omitempty"`
	DeployedBy string `json:"deployed_by,omitempty"`
}

// Result is the envelope every diagnostic tool returns.
//
// OK is false when the backing data has no record for the requested
// service; Error then carries a short description. On success the
// field group matching the tool is populated and the rest stay nil.
type Result struct {
	OK      bool   `json:"ok"`
	Service string `json:"service,omitempty"`
	Error   string `json:"error,omitempty"`

	// check_metrics
	Metrics *ServiceMetrics `json:"metrics,omitempty"`

	// check_logs
	ErrorCount   *int        `json:"error_count,omitempty"`
	RecentErrors []LogRecord `json:"recent_errors,omitempty"`

	// check_deployments
	Deployment *Deployment `json:"deployment,omitempty"`

	// check_dependencies
	Dependencies         []string `json:"dependencies,omitempty"`
	DegradedDependencies []string `json:"degraded_dependencies,omitempty"`
}

// NotOK builds a failed lookup result.
func NotOK(description string) *Result {
	return &Result{OK: false, Error: description}
}
