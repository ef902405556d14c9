// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package agent

import "errors"

// Sentinel errors for the triage agent.
var (
	// ErrMalformedDecision indicates the oracle's output did not decode
	// to one of the two known decision shapes. Fatal to the run.
	ErrMalformedDecision = errors.New("malformed oracle decision")

	// ErrUnknownTool indicates the oracle requested a tool outside the
	// fixed registry. Fatal to the run.
	ErrUnknownTool = errors.New("unknown tool requested by oracle")

	// ErrNilState indicates Run was called without an incident state.
	ErrNilState = errors.New("incident state must not be nil")

	// ErrInvalidStepBudget indicates a non-positive max steps value.
	ErrInvalidStepBudget = errors.New("step budget must be positive")
)
