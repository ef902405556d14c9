// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/TriageFOSS/pkg/logging"
	"github.com/AleutianAI/TriageFOSS/services/triage/config"
)

// --- Global Command Variables ---
var (
	configPath string
	goal       string
	maxSteps   int
	modelName  string
	baseURL    string
	dataDir    string
	watchData  bool
	serveAddr  string
	logLevel   string

	cfg    config.Config
	logger *logging.Logger

	rootCmd = &cobra.Command{
		Use:   "triage",
		Short: "An agent that diagnoses production incidents from service telemetry",
		Long: `Triage runs a bounded reason-act-observe loop: a reasoning model
picks diagnostic checks (metrics, logs, deployments, dependencies), the
tool results accumulate as evidence, and the run ends with a root-cause
conclusion.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.Load(configPath)
			if err != nil {
				return err
			}

			// Flags override file and environment.
			if cmd.Flags().Changed("max-steps") {
				cfg.Agent.MaxSteps = maxSteps
			}
			if modelName != "" {
				cfg.Model.Name = modelName
			}
			if baseURL != "" {
				cfg.Model.BaseURL = baseURL
			}
			if dataDir != "" {
				cfg.Data.Dir = dataDir
			}
			if cmd.Flags().Changed("watch") {
				cfg.Data.Watch = watchData
			}
			if serveAddr != "" {
				cfg.Server.Addr = serveAddr
			}
			if logLevel != "" {
				cfg.Logging.Level = logLevel
			}

			logger = logging.New(logging.Config{
				Level:   logging.ParseLevel(cfg.Logging.Level),
				LogDir:  cfg.Logging.Dir,
				Service: "triage",
			})
			slog.SetDefault(logger.Slog())
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				_ = logger.Close()
			}
		},
	}

	diagnoseCmd = &cobra.Command{
		Use:   "diagnose [service]",
		Short: "Run one incident diagnosis for a service",
		Args:  cobra.ExactArgs(1),
		RunE:  runDiagnose, // Defined in cmd_diagnose.go
	}

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Serve the diagnosis loop over HTTP",
		RunE:  runServe, // Defined in cmd_serve.go
	}
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "triage.yaml", "Path to the config file")
	rootCmd.PersistentFlags().StringVar(&modelName, "model", "", "Reasoning model identifier")
	rootCmd.PersistentFlags().StringVar(&baseURL, "base-url", "", "OpenAI-compatible endpoint (e.g. a local Ollama server)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "Directory holding the telemetry data files")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Minimum log level (debug, info, warn, error)")

	rootCmd.AddCommand(diagnoseCmd)
	diagnoseCmd.Flags().StringVarP(&goal, "goal", "g", "Service latency is high", "Incident description driving the diagnosis")
	diagnoseCmd.Flags().IntVar(&maxSteps, "max-steps", 6, "Maximum diagnostic checks per run")

	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default from config)")
	serveCmd.Flags().BoolVar(&watchData, "watch", false, "Reload data files when they change on disk")
}
