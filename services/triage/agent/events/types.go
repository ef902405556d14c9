// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package events provides trace events for the triage agent loop.
//
// Events let external consumers (the CLI trace printer, logging, a UI)
// observe each diagnosis step without coupling to the loop
// implementation. Emitting events is not part of the loop's core
// contract; a loop without an emitter runs identically.
//
// Thread Safety:
//
//	All types in this package are designed for concurrent use.
package events

import "time"

// Type identifies the kind of event.
type Type string

const (
	// TypeRunStarted is emitted once when a diagnosis run begins.
	TypeRunStarted Type = "run_started"

	// TypeStepCompleted is emitted after each tool execution.
	TypeStepCompleted Type = "step_completed"

	// TypeRunCompleted is emitted when a run terminates normally.
	TypeRunCompleted Type = "run_completed"
)

// StopReason records which authority terminated a run.
type StopReason string

const (
	// StopOracleDone means the model declared the diagnosis finished.
	StopOracleDone StopReason = "oracle_done"

	// StopEvidencePolicy means the application-level evidence rule fired.
	StopEvidencePolicy StopReason = "evidence_policy"

	// StopStepBudget means the run exhausted its step budget.
	StopStepBudget StopReason = "step_budget"
)

// Event represents one observable moment in a diagnosis run.
//
// Thread Safety: Event structs are immutable after creation.
type Event struct {
	// ID is a unique identifier for this event.
	ID string `json:"id"`

	// Type identifies the kind of event.
	Type Type `json:"type"`

	// IncidentID links the event to a diagnosis run.
	IncidentID string `json:"incident_id"`

	// Timestamp is when the event occurred.
	Timestamp time.Time `json:"timestamp"`

	// Step is the step number when this event occurred (0 before the
	// first tool execution).
	Step int `json:"step"`

	// Data contains event-specific data: RunStartedData,
	// StepCompletedData, or RunCompletedData.
	Data any `json:"data,omitempty"`
}

// RunStartedData is the data for run_started events.
type RunStartedData struct {
	Goal     string `json:"goal"`
	Service  string `json:"service"`
	MaxSteps int    `json:"max_steps"`
}

// StepCompletedData is the data for step_completed events.
type StepCompletedData struct {
	// Thought is the model's stated reasoning for the step.
	Thought string `json:"thought,omitempty"`

	// Tool is the registry key of the tool that ran.
	Tool string `json:"tool"`

	// Service is the service the tool was asked about.
	Service string `json:"service"`

	// Result is the tool's structured result. Consumers must treat it
	// as read-only.
	Result any `json:"result"`
}

// RunCompletedData is the data for run_completed events.
type RunCompletedData struct {
	Reason     StopReason `json:"reason"`
	Steps      int        `json:"steps"`
	Conclusion string     `json:"conclusion"`
}
