// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package agent

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/TriageFOSS/services/llm"
	"github.com/AleutianAI/TriageFOSS/services/triage/agent/events"
	"github.com/AleutianAI/TriageFOSS/services/triage/tools"
)

// scriptedOracle replays a fixed sequence of raw responses. When the
// script runs out it repeats the last entry.
type scriptedOracle struct {
	script []string
	err    error
	calls  int
}

func (o *scriptedOracle) Decide(_ context.Context, _ *IncidentState) (string, error) {
	o.calls++
	if o.err != nil {
		return "", o.err
	}
	if len(o.script) == 0 {
		return "", errors.New("scripted oracle has no responses")
	}
	i := o.calls - 1
	if i >= len(o.script) {
		i = len(o.script) - 1
	}
	return o.script[i], nil
}

func continueRaw(tool, service string) string {
	return fmt.Sprintf(
		`{"thought": "checking %s", "action": {"tool": %q, "args": {"service": %q}}}`,
		tool, tool, service,
	)
}

func finishRaw(conclusion string) string {
	return fmt.Sprintf(`{"thought": "enough signal", "conclusion": %q, "done": true}`, conclusion)
}

// testRegistry builds a registry of stub tools whose results exercise
// the summarizer heuristics.
func testRegistry() (*Registry, map[string]*stubTool) {
	stubs := map[string]*stubTool{
		ToolCheckMetrics: {
			name: ToolCheckMetrics,
			result: &tools.Result{
				OK:      true,
				Metrics: &tools.ServiceMetrics{CPUPercent: 92.5, LatencyMS: 640},
			},
		},
		ToolCheckLogs: {
			name: ToolCheckLogs,
			result: &tools.Result{
				OK:         true,
				ErrorCount: llm.IntPtr(4),
			},
		},
		ToolCheckDeployments: {
			name: ToolCheckDeployments,
			result: &tools.Result{
				OK:         true,
				Deployment: &tools.Deployment{Version: "v2.14.1"},
			},
		},
		ToolCheckDependencies: {
			name: ToolCheckDependencies,
			result: &tools.Result{
				OK:                   true,
				DegradedDependencies: []string{"payments-api"},
			},
		},
	}

	registry := NewRegistry()
	for _, stub := range stubs {
		registry.Register(stub)
	}
	return registry, stubs
}

func TestLoopOracleFinish(t *testing.T) {
	registry, stubs := testRegistry()
	oracle := &scriptedOracle{script: []string{
		continueRaw(ToolCheckMetrics, "checkout-service"),
		finishRaw("Bad deploy of v2.14.1 saturated CPU."),
	}}
	loop := NewLoop(oracle, registry)

	state, err := loop.Run(context.Background(), NewIncidentState("latency spike", "checkout-service"), DefaultMaxSteps)
	require.NoError(t, err)

	assert.True(t, state.Done)
	assert.Equal(t, "Bad deploy of v2.14.1 saturated CPU.", state.Conclusion)
	assert.Equal(t, 1, state.Steps)
	assert.Len(t, state.Observations, state.Steps)
	assert.Equal(t, 2, oracle.calls)
	assert.Equal(t, 1, stubs[ToolCheckMetrics].callCount())
	assert.Equal(t, []string{"checkout-service"}, stubs[ToolCheckMetrics].calls)
}

func TestLoopOracleFinishWithoutConclusion(t *testing.T) {
	registry, _ := testRegistry()
	oracle := &scriptedOracle{script: []string{`{"done": true}`}}
	loop := NewLoop(oracle, registry)

	state, err := loop.Run(context.Background(), NewIncidentState("latency spike", "checkout-service"), DefaultMaxSteps)
	require.NoError(t, err)

	assert.True(t, state.Done)
	assert.Equal(t, DefaultConclusion, state.Conclusion)
	assert.Zero(t, state.Steps)
	assert.Empty(t, state.Observations)
}

func TestLoopEvidencePolicyStop(t *testing.T) {
	registry, _ := testRegistry()
	// The oracle never finishes; the evidence rule must cut it off
	// after metrics, logs, and one more distinct signal.
	oracle := &scriptedOracle{script: []string{
		continueRaw(ToolCheckMetrics, "checkout-service"),
		continueRaw(ToolCheckLogs, "checkout-service"),
		continueRaw(ToolCheckDependencies, "checkout-service"),
		continueRaw(ToolCheckDeployments, "checkout-service"),
	}}
	loop := NewLoop(oracle, registry)

	state, err := loop.Run(context.Background(), NewIncidentState("latency spike", "checkout-service"), DefaultMaxSteps)
	require.NoError(t, err)

	assert.True(t, state.Done)
	assert.Equal(t, 3, state.Steps)
	assert.Len(t, state.Observations, 3)
	assert.Equal(t, 3, oracle.calls)
	assert.Equal(t,
		"Likely root cause: High CPU usage detected. High service latency observed. "+
			"Application errors found in logs. Degraded dependency: payments-api.",
		state.Conclusion,
	)
}

func TestLoopStepBudgetExhaustion(t *testing.T) {
	registry, stubs := testRegistry()
	// An oracle stuck on one tool never satisfies the evidence rule.
	oracle := &scriptedOracle{script: []string{
		continueRaw(ToolCheckMetrics, "checkout-service"),
	}}
	loop := NewLoop(oracle, registry)

	state, err := loop.Run(context.Background(), NewIncidentState("latency spike", "checkout-service"), 4)
	require.NoError(t, err)

	assert.False(t, state.Done)
	assert.Equal(t, 4, state.Steps)
	assert.Len(t, state.Observations, 4)
	assert.Equal(t, 4, stubs[ToolCheckMetrics].callCount())
	// The repeated clause appears once per observation.
	assert.Equal(t,
		"Likely root cause: "+
			"High CPU usage detected. High service latency observed. "+
			"High CPU usage detected. High service latency observed. "+
			"High CPU usage detected. High service latency observed. "+
			"High CPU usage detected. High service latency observed.",
		state.Conclusion,
	)
}

func TestLoopNeverExceedsBudget(t *testing.T) {
	for _, maxSteps := range []int{1, 2, 3, 6, 10} {
		registry, _ := testRegistry()
		oracle := &scriptedOracle{script: []string{
			continueRaw(ToolCheckDeployments, "checkout-service"),
		}}
		loop := NewLoop(oracle, registry)

		state, err := loop.Run(context.Background(), NewIncidentState("latency spike", "checkout-service"), maxSteps)
		require.NoError(t, err)

		assert.LessOrEqual(t, state.Steps, maxSteps)
		assert.Len(t, state.Observations, state.Steps)
		assert.NotEmpty(t, state.Conclusion)
	}
}

func TestLoopObservationStepNumbers(t *testing.T) {
	registry, _ := testRegistry()
	oracle := &scriptedOracle{script: []string{
		continueRaw(ToolCheckMetrics, "checkout-service"),
		continueRaw(ToolCheckLogs, "checkout-service"),
		continueRaw(ToolCheckDeployments, "checkout-service"),
	}}
	loop := NewLoop(oracle, registry)

	state, err := loop.Run(context.Background(), NewIncidentState("latency spike", "checkout-service"), DefaultMaxSteps)
	require.NoError(t, err)

	for i, obs := range state.Observations {
		assert.Equal(t, i+1, obs.Step)
	}
}

func TestLoopUnknownToolFault(t *testing.T) {
	registry, _ := testRegistry()
	oracle := &scriptedOracle{script: []string{
		continueRaw("restart_service", "checkout-service"),
	}}
	loop := NewLoop(oracle, registry)

	state := NewIncidentState("latency spike", "checkout-service")
	_, err := loop.Run(context.Background(), state, DefaultMaxSteps)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownTool))
	assert.Empty(t, state.Conclusion)
	assert.False(t, state.Done)
}

func TestLoopMalformedDecisionFault(t *testing.T) {
	registry, _ := testRegistry()
	oracle := &scriptedOracle{script: []string{"the metrics look fine to me"}}
	loop := NewLoop(oracle, registry)

	state := NewIncidentState("latency spike", "checkout-service")
	_, err := loop.Run(context.Background(), state, DefaultMaxSteps)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMalformedDecision))
	assert.Empty(t, state.Conclusion)
}

func TestLoopOracleTransportFault(t *testing.T) {
	registry, _ := testRegistry()
	transportErr := errors.New("connection refused")
	oracle := &scriptedOracle{err: transportErr}
	loop := NewLoop(oracle, registry)

	state := NewIncidentState("latency spike", "checkout-service")
	_, err := loop.Run(context.Background(), state, DefaultMaxSteps)
	require.Error(t, err)
	assert.True(t, errors.Is(err, transportErr))
	assert.Empty(t, state.Conclusion)
}

func TestLoopToolFault(t *testing.T) {
	registry, stubs := testRegistry()
	stubs[ToolCheckLogs].err = errors.New("logs.json: permission denied")
	oracle := &scriptedOracle{script: []string{
		continueRaw(ToolCheckLogs, "checkout-service"),
	}}
	loop := NewLoop(oracle, registry)

	state := NewIncidentState("latency spike", "checkout-service")
	_, err := loop.Run(context.Background(), state, DefaultMaxSteps)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "check_logs")
	assert.Empty(t, state.Observations)
	assert.Empty(t, state.Conclusion)
}

func TestLoopNilState(t *testing.T) {
	registry, _ := testRegistry()
	loop := NewLoop(&scriptedOracle{}, registry)

	_, err := loop.Run(context.Background(), nil, DefaultMaxSteps)
	assert.True(t, errors.Is(err, ErrNilState))
}

func TestLoopInvalidBudget(t *testing.T) {
	registry, _ := testRegistry()
	loop := NewLoop(&scriptedOracle{}, registry)

	for _, maxSteps := range []int{0, -1} {
		_, err := loop.Run(context.Background(), NewIncidentState("goal", "svc"), maxSteps)
		assert.True(t, errors.Is(err, ErrInvalidStepBudget), "maxSteps=%d", maxSteps)
	}
}

func TestLoopContextCanceled(t *testing.T) {
	registry, _ := testRegistry()
	oracle := &scriptedOracle{script: []string{
		continueRaw(ToolCheckMetrics, "checkout-service"),
	}}
	loop := NewLoop(oracle, registry)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := loop.Run(ctx, NewIncidentState("latency spike", "checkout-service"), DefaultMaxSteps)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Zero(t, oracle.calls)
}

func TestLoopEmitsEvents(t *testing.T) {
	registry, _ := testRegistry()
	oracle := &scriptedOracle{script: []string{
		continueRaw(ToolCheckMetrics, "checkout-service"),
		finishRaw("CPU saturation."),
	}}

	emitter := events.NewEmitter()
	var seen []events.Type
	emitter.Subscribe(func(event *events.Event) {
		seen = append(seen, event.Type)
	})

	loop := NewLoop(oracle, registry, WithEmitter(emitter))
	state, err := loop.Run(context.Background(), NewIncidentState("latency spike", "checkout-service"), DefaultMaxSteps)
	require.NoError(t, err)

	require.Equal(t, []events.Type{
		events.TypeRunStarted,
		events.TypeStepCompleted,
		events.TypeRunCompleted,
	}, seen)

	buffered := emitter.Buffer()
	require.Len(t, buffered, 3)
	for _, event := range buffered {
		assert.Equal(t, state.ID, event.IncidentID)
	}

	completed, ok := buffered[2].Data.(events.RunCompletedData)
	require.True(t, ok)
	assert.Equal(t, events.StopOracleDone, completed.Reason)
	assert.Equal(t, 1, completed.Steps)
	assert.Equal(t, "CPU saturation.", completed.Conclusion)
}

func TestLoopEmitsEvidencePolicyReason(t *testing.T) {
	registry, _ := testRegistry()
	oracle := &scriptedOracle{script: []string{
		continueRaw(ToolCheckMetrics, "checkout-service"),
		continueRaw(ToolCheckLogs, "checkout-service"),
		continueRaw(ToolCheckDependencies, "checkout-service"),
	}}

	emitter := events.NewEmitter()
	loop := NewLoop(oracle, registry, WithEmitter(emitter))
	_, err := loop.Run(context.Background(), NewIncidentState("latency spike", "checkout-service"), DefaultMaxSteps)
	require.NoError(t, err)

	buffered := emitter.Buffer()
	require.NotEmpty(t, buffered)
	last := buffered[len(buffered)-1]
	require.Equal(t, events.TypeRunCompleted, last.Type)
	assert.Equal(t, events.StopEvidencePolicy, last.Data.(events.RunCompletedData).Reason)
}

func TestLoopWithLLMOracle(t *testing.T) {
	registry, _ := testRegistry()
	client := llm.NewMockClient().
		QueueResponse(continueRaw(ToolCheckMetrics, "checkout-service")).
		QueueResponse(continueRaw(ToolCheckLogs, "checkout-service")).
		QueueResponse(finishRaw("Recent deploy regressed checkout latency."))
	loop := NewLoop(NewLLMOracle(client), registry)

	state, err := loop.Run(context.Background(), NewIncidentState("Checkout latency above SLO", "checkout-service"), DefaultMaxSteps)
	require.NoError(t, err)

	assert.True(t, state.Done)
	assert.Equal(t, "Recent deploy regressed checkout latency.", state.Conclusion)
	assert.Equal(t, 2, state.Steps)
	assert.Equal(t, 3, client.CallCount())
}
