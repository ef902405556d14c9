// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package agent

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/AleutianAI/TriageFOSS/services/triage/agent/events"
)

// DefaultMaxSteps bounds a run when the caller does not choose a budget.
const DefaultMaxSteps = 6

// Loop drives the reason-act-observe cycle for one incident at a time.
//
// Description:
//
//	Each iteration asks the oracle for a decision, parses it, dispatches
//	the requested tool, and appends the structured result to the
//	incident history. Three independent authorities can end a run: the
//	oracle's explicit finish, the evidence policy, and the step budget.
//	Integration faults (malformed decisions, unknown tools, oracle
//	transport failures, data-source failures) abort the run with an
//	error and no conclusion; every other exit leaves a non-empty
//	conclusion on the state.
//
// Thread Safety: Run is safe for concurrent use with different states.
// A single IncidentState must not be shared across concurrent runs.
type Loop struct {
	oracle   Oracle
	registry *Registry
	emitter  *events.Emitter
}

// LoopOption configures a Loop.
type LoopOption func(*Loop)

// WithEmitter attaches an event emitter for live run tracing.
func WithEmitter(emitter *events.Emitter) LoopOption {
	return func(l *Loop) {
		l.emitter = emitter
	}
}

// NewLoop creates a diagnosis loop over the given oracle and tools.
func NewLoop(oracle Oracle, registry *Registry, opts ...LoopOption) *Loop {
	l := &Loop{
		oracle:   oracle,
		registry: registry,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Run executes the diagnosis loop until a stopping authority fires.
//
// Description:
//
//	Mutates the given state in place: observations accumulate one per
//	executed tool, Steps counts executed tools, and on any non-fault
//	exit Done/Conclusion describe the outcome. The loop performs at
//	most maxSteps tool executions. A step budget exhaustion leaves Done
//	false but still produces a deterministic conclusion from the
//	observation history.
//
// Inputs:
//
//	ctx - Context for cancellation and deadlines, checked each iteration.
//	state - The incident to diagnose. Must be non-nil.
//	maxSteps - Upper bound on tool executions. Must be positive.
//
// Outputs:
//
//	*IncidentState - The same state, for chaining.
//	error - Non-nil only for integration faults or cancellation; the
//	        state carries no conclusion in that case.
func (l *Loop) Run(ctx context.Context, state *IncidentState, maxSteps int) (*IncidentState, error) {
	if state == nil {
		return nil, ErrNilState
	}
	if maxSteps <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidStepBudget, maxSteps)
	}

	logger := slog.Default().With(
		slog.String("incident_id", state.ID),
		slog.String("service", state.Service),
	)
	logger.Info("Starting diagnosis run",
		slog.String("goal", state.Goal),
		slog.Int("max_steps", maxSteps),
	)

	if l.emitter != nil {
		l.emitter.SetIncidentID(state.ID)
		l.emitter.SetStep(0)
		l.emitter.Emit(events.TypeRunStarted, events.RunStartedData{
			Goal:     state.Goal,
			Service:  state.Service,
			MaxSteps: maxSteps,
		})
	}

	reason := events.StopStepBudget

	for !state.Done && state.Steps < maxSteps {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("diagnosis canceled: %w", err)
		}

		raw, err := l.oracle.Decide(ctx, state)
		if err != nil {
			return nil, err
		}

		decision, err := ParseDecision(raw)
		if err != nil {
			return nil, err
		}

		if decision.Done {
			state.Done = true
			state.Conclusion = decision.Conclusion
			if state.Conclusion == "" {
				state.Conclusion = DefaultConclusion
			}
			reason = events.StopOracleDone
			logger.Info("Oracle signaled finish", slog.Int("steps", state.Steps))
			break
		}

		tool, err := l.registry.Resolve(decision.Action.Tool)
		if err != nil {
			return nil, err
		}

		result, err := tool.Check(decision.Action.Args.Service)
		if err != nil {
			return nil, fmt.Errorf("tool %s failed: %w", decision.Action.Tool, err)
		}

		state.Observations = append(state.Observations, Observation{
			Step:    state.Steps + 1,
			Thought: decision.Thought,
			Tool:    decision.Action.Tool,
			Args:    decision.Action.Args,
			Result:  result,
		})
		state.Steps++

		logger.Debug("Step completed",
			slog.Int("step", state.Steps),
			slog.String("tool", decision.Action.Tool),
		)
		if l.emitter != nil {
			l.emitter.SetStep(state.Steps)
			l.emitter.Emit(events.TypeStepCompleted, events.StepCompletedData{
				Thought: decision.Thought,
				Tool:    decision.Action.Tool,
				Service: decision.Action.Args.Service,
				Result:  result,
			})
		}

		if EnoughEvidence(state.Observations) {
			state.Done = true
			state.Conclusion = Summarize(state.Observations)
			reason = events.StopEvidencePolicy
			logger.Info("Evidence policy satisfied", slog.Int("steps", state.Steps))
			break
		}
	}

	// The step budget can expire with the oracle still undecided; the
	// run must still end with a conclusion.
	if state.Conclusion == "" {
		state.Conclusion = Summarize(state.Observations)
	}

	logger.Info("Diagnosis run completed",
		slog.String("reason", string(reason)),
		slog.Int("steps", state.Steps),
	)
	if l.emitter != nil {
		l.emitter.Emit(events.TypeRunCompleted, events.RunCompletedData{
			Reason:     reason,
			Steps:      state.Steps,
			Conclusion: state.Conclusion,
		})
	}

	return state, nil
}
