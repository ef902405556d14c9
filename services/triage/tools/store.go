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
	"os"
	"path/filepath"
	"sync"
)

// Backing data files, one per tool, each keyed by service name.
const (
	MetricsFile      = "metrics.json"
	LogsFile         = "logs.json"
	DeploymentsFile  = "deployments.json"
	DependenciesFile = "dependencies.json"
)

// Store reads and caches the JSON data files backing the tools.
//
// Description:
//
//	Each file maps service name to a tool-specific record. Files are
//	read lazily on first access and cached; Invalidate drops a cached
//	file so the next access re-reads it (the fsnotify Watcher calls
//	Invalidate on file changes).
//
// Thread Safety: Store is safe for concurrent use.
type Store struct {
	dir string

	mu    sync.RWMutex
	cache map[string]map[string]json.RawMessage
}

// NewStore creates a store over the given data directory.
//
// Inputs:
//
//	dir - Directory containing the backing JSON files.
//
// Outputs:
//
//	*Store - The store. Files are not read until first access.
func NewStore(dir string) *Store {
	return &Store{
		dir:   dir,
		cache: make(map[string]map[string]json.RawMessage),
	}
}

// Dir returns the backing data directory.
func (s *Store) Dir() string {
	return s.dir
}

// Lookup returns the raw record for a service from one data file.
//
// Description:
//
//	Loads and caches the file if needed. A missing service key is not
//	an error; the second return distinguishes "no record" from a
//	present record.
//
// Inputs:
//
//	file - One of the *File constants.
//	service - The service name to look up.
//
// Outputs:
//
//	json.RawMessage - The raw record, nil when absent.
//	bool - True if the service has a record.
//	error - Non-nil only for access faults (unreadable or malformed file).
func (s *Store) Lookup(file, service string) (json.RawMessage, bool, error) {
	records, err := s.load(file)
	if err != nil {
		return nil, false, err
	}

	raw, ok := records[service]
	return raw, ok, nil
}

// Invalidate drops the cached contents of one file, or every file when
// name is empty.
func (s *Store) Invalidate(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if name == "" {
		s.cache = make(map[string]map[string]json.RawMessage)
		return
	}
	delete(s.cache, name)
}

// load returns the parsed contents of one data file, reading it on
// cache miss.
func (s *Store) load(name string) (map[string]json.RawMessage, error) {
	s.mu.RLock()
	records, ok := s.cache[name]
	s.mu.RUnlock()
	if ok {
		return records, nil
	}

	path := filepath.Join(s.dir, name)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading data file %s: %w", path, err)
	}

	records = make(map[string]json.RawMessage)
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parsing data file %s: %w", path, err)
	}

	s.mu.Lock()
	s.cache[name] = records
	s.mu.Unlock()

	return records, nil
}
