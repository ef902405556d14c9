// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package llm provides the model client interface for the triage agent.
//
// The package defines a narrow interface that any chat-completion
// backend can implement. The production implementation speaks the
// OpenAI-compatible wire protocol; tests use the MockClient.
//
// Thread Safety:
//
//	All types in this package are safe for concurrent use.
package llm

import "context"

// GenerationParams controls sampling for a single generation.
type GenerationParams struct {
	Temperature *float32 `json:"temperature,omitempty"`
	TopP        *float32 `json:"top_p,omitempty"`
	MaxTokens   *int     `json:"max_tokens,omitempty"`
	Stop        []string `json:"stop,omitempty"`
}

// Client defines the standard interface for any LLM backend.
//
// Implementations must be safe for concurrent use.
type Client interface {
	// Generate sends a system instruction plus a user payload to the
	// model and returns the raw completion text verbatim.
	//
	// Inputs:
	//   ctx - Context for cancellation and timeout.
	//   system - The system instruction.
	//   user - The user message content.
	//   params - Sampling parameters.
	//
	// Outputs:
	//   string - The unparsed model output.
	//   error - Non-nil if the request failed.
	Generate(ctx context.Context, system, user string, params GenerationParams) (string, error)

	// Model returns the model identifier in use.
	Model() string
}

// Float32Ptr returns a pointer to v. Convenience for GenerationParams.
func Float32Ptr(v float32) *float32 { return &v }

// IntPtr returns a pointer to v. Convenience for GenerationParams.
func IntPtr(v int) *int { return &v }
