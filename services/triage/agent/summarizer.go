// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package agent

import "strings"

// Summarize folds the observation history into a deterministic
// conclusion string.
//
// Description:
//
//	Walks the history in step order and appends one clause per
//	matched heuristic: high CPU, high latency, logged errors, a recent
//	deployment (presence of the check alone triggers this), and any
//	degraded dependencies. Clauses are not deduplicated; repeated
//	identical checks produce repeated clauses. The same history always
//	yields the same string.
//
// Inputs:
//
//	observations - The accumulated history, in step order.
//
// Outputs:
//
//	string - "Likely root cause: " followed by the space-joined clauses.
func Summarize(observations []Observation) string {
	var clauses []string

	for _, obs := range observations {
		result := obs.Result
		if result == nil {
			continue
		}

		switch obs.Tool {
		case ToolCheckMetrics:
			if result.Metrics == nil {
				continue
			}
			if result.Metrics.CPUPercent > 80 {
				clauses = append(clauses, "High CPU usage detected.")
			}
			if result.Metrics.LatencyMS > 500 {
				clauses = append(clauses, "High service latency observed.")
			}

		case ToolCheckLogs:
			if result.ErrorCount != nil && *result.ErrorCount > 0 {
				clauses = append(clauses, "Application errors found in logs.")
			}

		case ToolCheckDeployments:
			clauses = append(clauses, "Recent deployment detected.")

		case ToolCheckDependencies:
			if len(result.DegradedDependencies) > 0 {
				clauses = append(clauses,
					"Degraded dependency: "+strings.Join(result.DegradedDependencies, ", ")+".")
			}
		}
	}

	return "Likely root cause: " + strings.Join(clauses, " ")
}
