// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package agent

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/TriageFOSS/services/llm"
	"github.com/AleutianAI/TriageFOSS/services/triage/tools"
)

func TestLLMOracleDecide(t *testing.T) {
	client := llm.NewMockClient().QueueResponse(
		`{"thought": "check metrics first", "action": {"tool": "check_metrics", "args": {"service": "checkout-service"}}}`,
	)
	oracle := NewLLMOracle(client)

	state := NewIncidentState("Users report elevated error rates", "checkout-service")
	state.Observations = append(state.Observations, Observation{
		Step: 1,
		Tool: ToolCheckLogs,
		Args: ToolArgs{Service: "checkout-service"},
		Result: &tools.Result{
			OK:         true,
			ErrorCount: llm.IntPtr(4),
		},
	})
	state.Steps = 1

	raw, err := oracle.Decide(context.Background(), state)
	require.NoError(t, err)
	assert.Contains(t, raw, "check_metrics")

	calls := client.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, SystemPrompt, calls[0].System)

	// The user payload is the serialized incident state.
	var payload struct {
		Goal         string        `json:"goal"`
		Service      string        `json:"service"`
		Observations []Observation `json:"observations"`
	}
	require.NoError(t, json.Unmarshal([]byte(calls[0].User), &payload))
	assert.Equal(t, "Users report elevated error rates", payload.Goal)
	assert.Equal(t, "checkout-service", payload.Service)
	require.Len(t, payload.Observations, 1)
	assert.Equal(t, ToolCheckLogs, payload.Observations[0].Tool)

	// Deterministic sampling.
	require.NotNil(t, calls[0].Params.Temperature)
	assert.Equal(t, float32(0), *calls[0].Params.Temperature)
}

func TestLLMOracleDecideNilState(t *testing.T) {
	oracle := NewLLMOracle(llm.NewMockClient())

	_, err := oracle.Decide(context.Background(), nil)
	assert.True(t, errors.Is(err, ErrNilState))
}

func TestLLMOracleDecideTransportError(t *testing.T) {
	transportErr := errors.New("connection refused")
	client := llm.NewMockClient().WithError(transportErr)
	oracle := NewLLMOracle(client)

	_, err := oracle.Decide(context.Background(), NewIncidentState("latency spike", "checkout-service"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, transportErr))
}
