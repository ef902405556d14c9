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

// DeploymentsTool reports the most recent deployment of a service from
// the deployments data file.
type DeploymentsTool struct {
	store *Store
}

// NewDeploymentsTool creates the deployments check backed by the given store.
func NewDeploymentsTool(store *Store) *DeploymentsTool {
	return &DeploymentsTool{store: store}
}

// Name returns the registry key for this tool.
func (t *DeploymentsTool) Name() string {
	return "check_deployments"
}

// Check looks up the latest deployment for a service.
//
// Outputs:
//
//	*Result - ok with Deployment set, or not-ok when the service is unknown.
//	error - Non-nil only for data-source access faults.
func (t *DeploymentsTool) Check(service string) (*Result, error) {
	raw, ok, err := t.store.Lookup(DeploymentsFile, service)
	if err != nil {
		return nil, err
	}
	if !ok {
		return NotOK("No deployment info"), nil
	}

	var deployment Deployment
	if err := json.Unmarshal(raw, &deployment); err != nil {
		return nil, fmt.Errorf("decoding deployment for %s: %w", service, err)
	}

	return &Result{
		OK:         true,
		Service:    service,
		Deployment: &deployment,
	}, nil
}
