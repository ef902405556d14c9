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
	"fmt"

	"github.com/AleutianAI/TriageFOSS/services/llm"
)

// LLMOracle asks a chat-completion model for the next decision.
//
// Description:
//
//	Serializes the incident state (goal, service, full observation
//	history) as the user message, pairs it with the fixed system
//	prompt, and returns the model's raw textual reply. Temperature is
//	pinned to zero so repeated runs over the same history stay as
//	reproducible as the backing model allows. The oracle never parses
//	the reply; that is the decision parser's job.
//
// Thread Safety: Safe for concurrent use if the underlying client is.
type LLMOracle struct {
	client llm.Client
}

// oraclePayload is the user-message shape sent to the model.
type oraclePayload struct {
	Goal         string        `json:"goal"`
	Service      string        `json:"service"`
	Observations []Observation `json:"observations"`
}

// NewLLMOracle creates an oracle backed by the given model client.
func NewLLMOracle(client llm.Client) *LLMOracle {
	return &LLMOracle{client: client}
}

// Decide requests the next decision for the given incident state.
//
// Inputs:
//
//	ctx   - Context for cancellation and deadlines.
//	state - The incident state to reason over. Must be non-nil.
//
// Outputs:
//
//	string - The model's raw reply, expected to be a decision JSON object.
//	error  - Transport or serialization failure; the caller treats any
//	         error here as a fatal integration fault.
func (o *LLMOracle) Decide(ctx context.Context, state *IncidentState) (string, error) {
	if state == nil {
		return "", ErrNilState
	}

	payload, err := json.Marshal(oraclePayload{
		Goal:         state.Goal,
		Service:      state.Service,
		Observations: state.Observations,
	})
	if err != nil {
		return "", fmt.Errorf("marshaling oracle payload: %w", err)
	}

	reply, err := o.client.Generate(ctx, SystemPrompt, string(payload), llm.GenerationParams{
		Temperature: llm.Float32Ptr(0),
	})
	if err != nil {
		return "", fmt.Errorf("oracle request failed: %w", err)
	}
	return reply, nil
}
