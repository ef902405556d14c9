// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package llm

import (
	"context"
	"sync"
	"time"
)

// MockClient is a scripted LLM client for testing.
//
// Queued responses are returned in order; when the queue is empty the
// default response is returned. Every call is recorded for assertions.
//
// Thread Safety: MockClient is safe for concurrent use.
type MockClient struct {
	mu sync.Mutex

	model           string
	responses       []string
	defaultResponse string
	calls           []GenerateCall
	errorToReturn   error
	responseFunc    func(system, user string) (string, error)
}

// GenerateCall records one call to Generate.
type GenerateCall struct {
	System    string
	User      string
	Params    GenerationParams
	Timestamp time.Time
}

// NewMockClient creates a new mock LLM client.
func NewMockClient() *MockClient {
	return &MockClient{
		model:           "mock-model",
		defaultResponse: `{"thought": "mock", "conclusion": "mock conclusion", "done": true}`,
	}
}

// WithModel sets the model name.
func (c *MockClient) WithModel(model string) *MockClient {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.model = model
	return c
}

// WithError configures the client to return an error on every call.
func (c *MockClient) WithError(err error) *MockClient {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.errorToReturn = err
	return c
}

// WithResponseFunc sets a dynamic response function.
func (c *MockClient) WithResponseFunc(f func(system, user string) (string, error)) *MockClient {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.responseFunc = f
	return c
}

// QueueResponse appends a raw response to the queue.
func (c *MockClient) QueueResponse(raw string) *MockClient {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.responses = append(c.responses, raw)
	return c
}

// SetDefaultResponse sets the response returned when the queue is empty.
func (c *MockClient) SetDefaultResponse(raw string) *MockClient {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.defaultResponse = raw
	return c
}

// Calls returns a copy of all recorded calls.
func (c *MockClient) Calls() []GenerateCall {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]GenerateCall, len(c.calls))
	copy(out, c.calls)
	return out
}

// CallCount returns the number of Generate calls made.
func (c *MockClient) CallCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.calls)
}

// Generate implements the Client interface.
func (c *MockClient) Generate(ctx context.Context, system, user string, params GenerationParams) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.calls = append(c.calls, GenerateCall{
		System:    system,
		User:      user,
		Params:    params,
		Timestamp: time.Now(),
	})

	if c.errorToReturn != nil {
		return "", c.errorToReturn
	}

	if c.responseFunc != nil {
		return c.responseFunc(system, user)
	}

	if len(c.responses) > 0 {
		raw := c.responses[0]
		c.responses = c.responses[1:]
		return raw, nil
	}

	return c.defaultResponse, nil
}

// Model implements the Client interface.
func (c *MockClient) Model() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.model
}
