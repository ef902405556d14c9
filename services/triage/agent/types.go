// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package agent implements the triage diagnosis loop.
//
// The loop drives an external reasoning model (the oracle) through a
// bounded reason-act-observe cycle: the oracle picks one diagnostic
// tool per step, the loop executes it deterministically, appends the
// observation, and decides when to stop. Three authorities can end a
// run: the oracle declaring itself done, the application-level
// evidence policy, and the step budget. Every non-fatal exit produces
// a non-empty conclusion.
//
// Thread Safety:
//
//	An IncidentState is owned by exactly one running loop and must not
//	be shared. Independent runs with separate states may execute
//	concurrently; Loop itself holds no per-run state.
package agent

import (
	"context"

	"github.com/AleutianAI/TriageFOSS/services/triage/tools"
	"github.com/google/uuid"
)

// Registry keys for the fixed diagnostic tool catalogue.
const (
	ToolCheckMetrics      = "check_metrics"
	ToolCheckLogs         = "check_logs"
	ToolCheckDeployments  = "check_deployments"
	ToolCheckDependencies = "check_dependencies"
)

// DefaultConclusion is used when the oracle finishes without supplying
// a conclusion of its own.
const DefaultConclusion = "Incident analysis completed by agent."

// ToolArgs is the argument record passed to a tool invocation.
type ToolArgs struct {
	Service string `json:"service"`
}

// Observation records one completed tool invocation. Immutable once
// appended to an incident state.
type Observation struct {
	// Step is the 1-based sequence number of this observation.
	Step int `json:"step"`

	// Thought is the oracle's stated reasoning (may be empty).
	Thought string `json:"thought,omitempty"`

	// Tool is the registry key of the invoked tool.
	Tool string `json:"tool"`

	// Args is the argument record passed to the tool.
	Args ToolArgs `json:"args"`

	// Result is the structured record the tool returned.
	Result *tools.Result `json:"result"`
}

// IncidentState is the mutable state of one diagnosis run.
//
// Description:
//
//	Goal and Service are immutable after creation. Observations is
//	append-only with insertion order equal to step order; Steps always
//	equals len(Observations) after a completed step. Done transitions
//	false to true exactly once and never reverts, and a done state
//	always carries a conclusion before the run returns.
//
// Thread Safety: Not safe for concurrent use; exclusively owned by the
// loop executing the run.
type IncidentState struct {
	// ID uniquely identifies this run.
	ID string `json:"incident_id"`

	// Goal is the free-text incident trigger description.
	Goal string `json:"goal"`

	// Service is the subject service identifier.
	Service string `json:"service"`

	// Observations is the chronological tool execution history.
	Observations []Observation `json:"observations"`

	// Steps counts completed tool executions.
	Steps int `json:"steps"`

	// Done reports whether a stopping authority has fired.
	Done bool `json:"done"`

	// Conclusion is the root-cause summary. Set at most once.
	Conclusion string `json:"conclusion,omitempty"`
}

// NewIncidentState creates the state for a fresh diagnosis run.
//
// Inputs:
//
//	goal - Free-text description of the incident trigger.
//	service - Identifier of the subject service.
//
// Outputs:
//
//	*IncidentState - State with a generated incident ID.
func NewIncidentState(goal, service string) *IncidentState {
	return &IncidentState{
		ID:      uuid.NewString(),
		Goal:    goal,
		Service: service,
	}
}

// UsedTools returns the set of distinct tool names in the history.
func (s *IncidentState) UsedTools() map[string]struct{} {
	used := make(map[string]struct{}, len(s.Observations))
	for _, obs := range s.Observations {
		used[obs.Tool] = struct{}{}
	}
	return used
}

// Action is a tool invocation requested by the oracle.
type Action struct {
	Tool string   `json:"tool"`
	Args ToolArgs `json:"args"`
}

// Decision is one parsed oracle response: either a continue decision
// carrying an Action, or a finish decision carrying a Conclusion.
// Never both; ParseDecision enforces the tagged union.
type Decision struct {
	// Thought is the oracle's reasoning for this step.
	Thought string `json:"thought"`

	// Action is the requested tool call. Nil on finish decisions.
	Action *Action `json:"action,omitempty"`

	// Conclusion is the oracle's root-cause summary. Only meaningful
	// when Done is true; may be empty.
	Conclusion string `json:"conclusion,omitempty"`

	// Done reports whether the oracle declared the diagnosis finished.
	Done bool `json:"done"`
}

// Tool is one diagnostic capability in the registry.
//
// Implementations must be pure functions of their backing data source:
// a lookup miss returns a not-ok result, and the error return is
// reserved for data-source access faults.
type Tool interface {
	// Name returns the fixed registry key.
	Name() string

	// Check runs the diagnostic for a service.
	Check(service string) (*tools.Result, error)
}

// Oracle selects the next action for a run.
//
// The adapter serializes the running state, calls the external
// reasoning service, and returns its textual output verbatim. Tests
// substitute a scripted implementation.
type Oracle interface {
	// Decide returns the oracle's raw response for the current state.
	Decide(ctx context.Context, state *IncidentState) (string, error)
}
