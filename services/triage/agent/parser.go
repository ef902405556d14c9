// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package agent

import (
	"encoding/json"
	"fmt"
	"strings"
)

// maxQuotedRaw caps how much offending oracle output is echoed into an
// error message.
const maxQuotedRaw = 512

// ParseDecision decodes and validates one raw oracle response.
//
// Description:
//
//	The response must be a single JSON object matching exactly one of
//	the two known shapes: a continue decision with an action, or a
//	finish decision with done=true. Anything else is a configuration
//	or integration fault and is rejected with the offending text
//	attached; the caller must not retry or guess.
//
// Inputs:
//
//	raw - The oracle's unparsed textual output.
//
// Outputs:
//
//	*Decision - The validated decision.
//	error - Wraps ErrMalformedDecision on any shape violation.
func ParseDecision(raw string) (*Decision, error) {
	var decision Decision
	if err := json.Unmarshal([]byte(raw), &decision); err != nil {
		return nil, fmt.Errorf("%w: %v: %s", ErrMalformedDecision, err, quoteRaw(raw))
	}

	if decision.Done {
		// Finish decisions carry a conclusion, never an action.
		if decision.Action != nil {
			return nil, fmt.Errorf("%w: finish decision carries an action: %s", ErrMalformedDecision, quoteRaw(raw))
		}
		return &decision, nil
	}

	if decision.Action == nil {
		return nil, fmt.Errorf("%w: continue decision missing action: %s", ErrMalformedDecision, quoteRaw(raw))
	}
	if decision.Action.Tool == "" {
		return nil, fmt.Errorf("%w: action missing tool name: %s", ErrMalformedDecision, quoteRaw(raw))
	}

	return &decision, nil
}

// quoteRaw trims and truncates raw oracle output for error messages.
func quoteRaw(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if len(trimmed) > maxQuotedRaw {
		trimmed = trimmed[:maxQuotedRaw] + "..."
	}
	return fmt.Sprintf("%q", trimmed)
}
