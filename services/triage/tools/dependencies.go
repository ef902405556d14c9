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
	"sort"
)

// dependencyRecord is the on-disk shape of one service's entry in the
// dependencies data file.
type dependencyRecord struct {
	DependsOn        []string          `json:"depends_on"`
	DependencyHealth map[string]string `json:"dependency_health"`
}

// DependenciesTool reports the upstream dependencies of a service and
// which of them are degraded, from the dependencies data file.
type DependenciesTool struct {
	store *Store
}

// NewDependenciesTool creates the dependencies check backed by the given store.
func NewDependenciesTool(store *Store) *DependenciesTool {
	return &DependenciesTool{store: store}
}

// Name returns the registry key for this tool.
func (t *DependenciesTool) Name() string {
	return "check_dependencies"
}

// Check looks up dependency health for a service.
//
// Description:
//
//	A dependency with any health status other than "healthy" counts as
//	degraded. Degraded names are sorted so the result is deterministic
//	regardless of map iteration order.
//
// Outputs:
//
//	*Result - ok with Dependencies and DegradedDependencies set, or
//	not-ok when the service is unknown.
//	error - Non-nil only for data-source access faults.
func (t *DependenciesTool) Check(service string) (*Result, error) {
	raw, ok, err := t.store.Lookup(DependenciesFile, service)
	if err != nil {
		return nil, err
	}
	if !ok {
		return NotOK("No dependency data"), nil
	}

	var record dependencyRecord
	if err := json.Unmarshal(raw, &record); err != nil {
		return nil, fmt.Errorf("decoding dependencies for %s: %w", service, err)
	}

	var degraded []string
	for name, status := range record.DependencyHealth {
		if status != "healthy" {
			degraded = append(degraded, name)
		}
	}
	sort.Strings(degraded)

	return &Result{
		OK:                   true,
		Service:              service,
		Dependencies:         record.DependsOn,
		DegradedDependencies: degraded,
	}, nil
}
