// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package config loads triage service configuration with priority:
// environment > file > defaults.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// validate is the shared validator instance for config checking.
var validate = validator.New()

// Config is the top-level triage configuration.
//
// Thread Safety: Safe to read concurrently. Not safe to modify after
// loading.
type Config struct {
	// Agent contains diagnosis loop settings.
	Agent AgentConfig `json:"agent" yaml:"agent"`

	// Model contains reasoning model settings.
	Model ModelConfig `json:"model" yaml:"model"`

	// Data contains backing data-source settings.
	Data DataConfig `json:"data" yaml:"data"`

	// Server contains HTTP server settings.
	Server ServerConfig `json:"server" yaml:"server"`

	// Logging contains log output settings.
	Logging LoggingConfig `json:"logging" yaml:"logging"`
}

// AgentConfig contains diagnosis loop settings.
type AgentConfig struct {
	// MaxSteps bounds tool executions per run.
	MaxSteps int `json:"max_steps" yaml:"max_steps" validate:"gte=1,lte=50"`
}

// ModelConfig contains reasoning model settings.
type ModelConfig struct {
	// BaseURL is the OpenAI-compatible endpoint. Empty means the
	// default OpenAI endpoint.
	BaseURL string `json:"base_url" yaml:"base_url" validate:"omitempty,url"`

	// Name is the model identifier.
	Name string `json:"name" yaml:"name" validate:"required"`
}

// DataConfig contains backing data-source settings.
type DataConfig struct {
	// Dir holds the JSON data files the tools read.
	Dir string `json:"dir" yaml:"dir" validate:"required"`

	// Watch reloads data files when they change on disk.
	Watch bool `json:"watch" yaml:"watch"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	// Addr is the listen address for serve mode.
	Addr string `json:"addr" yaml:"addr" validate:"required"`
}

// LoggingConfig contains log output settings.
type LoggingConfig struct {
	// Level is the minimum log level (debug, info, warn, error).
	Level string `json:"level" yaml:"level" validate:"oneof=debug info warn error"`

	// Dir is an optional directory for JSON log files.
	Dir string `json:"dir" yaml:"dir"`
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		Agent: AgentConfig{
			MaxSteps: 6,
		},
		Model: ModelConfig{
			Name: "gpt-4o-mini",
		},
		Data: DataConfig{
			Dir:   "data",
			Watch: false,
		},
		Server: ServerConfig{
			Addr: ":8097",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load loads configuration with priority: env > file > defaults.
//
// Inputs:
//
//	path - Path to a YAML config file. Empty or missing files are not
//	       an error; defaults apply.
//
// Outputs:
//
//	Config - The merged configuration.
//	error - Non-nil if a file exists but is invalid, or if the merged
//	        configuration fails validation.
func Load(path string) (Config, error) {
	config := Default()

	if path != "" {
		if err := loadFile(path, &config); err != nil {
			return config, fmt.Errorf("load config file: %w", err)
		}
	}

	loadEnv(&config)

	if err := config.Validate(); err != nil {
		return config, fmt.Errorf("invalid config: %w", err)
	}

	return config, nil
}

// Validate checks the configuration against its declared constraints.
func (c Config) Validate() error {
	return validate.Struct(c)
}

func loadFile(path string, config *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return yaml.Unmarshal(data, config)
}

func loadEnv(config *Config) {
	if v := os.Getenv("TRIAGE_MAX_STEPS"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			config.Agent.MaxSteps = i
		}
	}
	if v := os.Getenv("TRIAGE_MODEL_BASE_URL"); v != "" {
		config.Model.BaseURL = v
	}
	if v := os.Getenv("TRIAGE_MODEL_NAME"); v != "" {
		config.Model.Name = v
	}
	if v := os.Getenv("TRIAGE_DATA_DIR"); v != "" {
		config.Data.Dir = v
	}
	if v := os.Getenv("TRIAGE_DATA_WATCH"); v != "" {
		config.Data.Watch = v == "true" || v == "1"
	}
	if v := os.Getenv("TRIAGE_SERVER_ADDR"); v != "" {
		config.Server.Addr = v
	}
	if v := os.Getenv("TRIAGE_LOG_LEVEL"); v != "" {
		config.Logging.Level = v
	}
	if v := os.Getenv("TRIAGE_LOG_DIR"); v != "" {
		config.Logging.Dir = v
	}
}
