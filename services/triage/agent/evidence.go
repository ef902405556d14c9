// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package agent

// EnoughEvidence is the application-level stopping rule.
//
// Description:
//
//	Pure predicate over the observation history, independent of the
//	oracle's own judgment. True iff metrics and logs have both been
//	checked and at least one additional distinct signal has been
//	gathered (three or more distinct tools overall). This guarantees a
//	run cannot spin on a model that never self-terminates, inside the
//	step budget.
//
// Inputs:
//
//	observations - The accumulated history, in step order.
//
// Outputs:
//
//	bool - True when the history holds sufficient evidence.
func EnoughEvidence(observations []Observation) bool {
	used := make(map[string]struct{}, len(observations))
	for _, obs := range observations {
		used[obs.Tool] = struct{}{}
	}

	_, metrics := used[ToolCheckMetrics]
	_, logs := used[ToolCheckLogs]
	return metrics && logs && len(used) >= 3
}
