// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package llm

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// OpenAIClient calls an OpenAI-compatible chat completions endpoint.
//
// A custom base URL makes this work against any provider speaking the
// OpenAI wire protocol (Groq, Together, a local vLLM, etc.).
//
// Thread Safety: OpenAIClient is safe for concurrent use.
type OpenAIClient struct {
	client *openai.Client
	model  string
}

// OpenAIOptions configures an OpenAIClient.
type OpenAIOptions struct {
	// BaseURL overrides the API endpoint. Empty uses api.openai.com.
	BaseURL string

	// Model is the model identifier. Empty falls back to OPENAI_MODEL
	// then "gpt-4o-mini".
	Model string

	// APIKey is the bearer token. Empty falls back to OPENAI_API_KEY,
	// then the container secret at /run/secrets/openai_api_key.
	APIKey string
}

// NewOpenAIClient creates a client for an OpenAI-compatible backend.
//
// Description:
//
//	Resolves the API key from opts, environment, or container secret,
//	in that order. Returns an error when no key can be found.
//
// Inputs:
//
//	opts - Client options. Zero value uses environment defaults.
//
// Outputs:
//
//	*OpenAIClient - The configured client.
//	error - Non-nil if no API key is available.
func NewOpenAIClient(opts OpenAIOptions) (*OpenAIClient, error) {
	apiKey := opts.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	if apiKey == "" {
		secretPath := "/run/secrets/openai_api_key"
		apiKeyBytes, err := os.ReadFile(secretPath)
		if err == nil {
			apiKey = strings.TrimSpace(string(apiKeyBytes))
			slog.Info("Read the OpenAI API key from container secrets")
		} else {
			slog.Error("OPENAI_API_KEY environment variable not set and secret not found", "path", secretPath)
			return nil, fmt.Errorf("OPENAI_API_KEY environment variable not set")
		}
	}

	model := opts.Model
	if model == "" {
		model = os.Getenv("OPENAI_MODEL")
	}
	if model == "" {
		model = "gpt-4o-mini"
		slog.Warn("no model configured, defaulting to gpt-4o-mini")
	}

	config := openai.DefaultConfig(apiKey)
	if opts.BaseURL != "" {
		config.BaseURL = opts.BaseURL
	}

	slog.Info("Initializing OpenAI-compatible client", "model", model, "base_url", config.BaseURL)
	return &OpenAIClient{
		client: openai.NewClientWithConfig(config),
		model:  model,
	}, nil
}

// Generate implements the Client interface.
func (o *OpenAIClient) Generate(ctx context.Context, system, user string, params GenerationParams) (string, error) {
	slog.Debug("Generating text", "model", o.model)

	req := openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
	}
	if params.Temperature != nil {
		req.Temperature = *params.Temperature
	}
	if params.TopP != nil {
		req.TopP = *params.TopP
	}
	if params.MaxTokens != nil {
		req.MaxCompletionTokens = *params.MaxTokens
	}
	if len(params.Stop) > 0 {
		req.Stop = params.Stop
	}

	resp, err := o.client.CreateChatCompletion(ctx, req)
	if err != nil {
		slog.Error("chat completion call failed", "error", err)
		return "", fmt.Errorf("chat completion call failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		slog.Warn("model returned no choices")
		return "", fmt.Errorf("model returned no choices")
	}

	slog.Debug("Received model response", "finish_reason", resp.Choices[0].FinishReason)
	return resp.Choices[0].Message.Content, nil
}

// Model implements the Client interface.
func (o *OpenAIClient) Model() string {
	return o.model
}
