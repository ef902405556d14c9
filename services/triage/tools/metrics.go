// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package tools

import (
	"encoding/json"
	"fmt"
)

// MetricsTool reports CPU, latency, and request-rate metrics for a
// service from the metrics data file.
type MetricsTool struct {
	store *Store
}

// NewMetricsTool creates the metrics check backed by the given store.
func NewMetricsTool(store *Store) *MetricsTool {
	return &MetricsTool{store: store}
}

// Name returns the registry key for this tool.
func (t *MetricsTool) Name() string {
	return "check_metrics"
}

// Check looks up the metrics snapshot for a service.
//
// Outputs:
//
//	*Result - ok with Metrics set, or not-ok when the service is unknown.
//	error - Non-nil only for data-source access faults.
func (t *MetricsTool) Check(service string) (*Result, error) {
	raw, ok, err := t.store.Lookup(MetricsFile, service)
	if err != nil {
		return nil, err
	}
	if !ok {
		return NotOK("Service not found"), nil
	}

	var metrics ServiceMetrics
	if err := json.Unmarshal(raw, &metrics); err != nil {
		return nil, fmt.Errorf("decoding metrics for %s: %w", service, err)
	}

	return &Result{
		OK:      true,
		Service: service,
		Metrics: &metrics,
	}, nil
}
