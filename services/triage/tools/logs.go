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

// maxRecentErrors caps the error log lines included in a result.
const maxRecentErrors = 3

// LogsTool counts ERROR-level log lines for a service from the logs
// data file. A service with no log data reports zero errors rather
// than a failed lookup.
type LogsTool struct {
	store *Store
}

// NewLogsTool creates the logs check backed by the given store.
func NewLogsTool(store *Store) *LogsTool {
	return &LogsTool{store: store}
}

// Name returns the registry key for this tool.
func (t *LogsTool) Name() string {
	return "check_logs"
}

// Check counts error logs for a service.
//
// Outputs:
//
//	*Result - Always ok; ErrorCount and up to 3 RecentErrors populated.
//	error - Non-nil only for data-source access faults.
func (t *LogsTool) Check(service string) (*Result, error) {
	raw, ok, err := t.store.Lookup(LogsFile, service)
	if err != nil {
		return nil, err
	}

	var records []LogRecord
	if ok {
		if err := json.Unmarshal(raw, &records); err != nil {
			return nil, fmt.Errorf("decoding logs for %s: %w", service, err)
		}
	}

	var errorLogs []LogRecord
	for _, record := range records {
		if record.Level == "ERROR" {
			errorLogs = append(errorLogs, record)
		}
	}

	recent := errorLogs
	if len(recent) > maxRecentErrors {
		recent = recent[:maxRecentErrors]
	}

	count := len(errorLogs)
	return &Result{
		OK:           true,
		Service:      service,
		ErrorCount:   &count,
		RecentErrors: recent,
	}, nil
}
