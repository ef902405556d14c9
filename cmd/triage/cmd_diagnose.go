// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/TriageFOSS/pkg/ux"
	"github.com/AleutianAI/TriageFOSS/pkg/validation"
	"github.com/AleutianAI/TriageFOSS/services/llm"
	"github.com/AleutianAI/TriageFOSS/services/triage/agent"
	"github.com/AleutianAI/TriageFOSS/services/triage/agent/events"
	"github.com/AleutianAI/TriageFOSS/services/triage/tools"
)

// buildRegistry wires the four diagnostic tools over one data store.
func buildRegistry(store *tools.Store) *agent.Registry {
	registry := agent.NewRegistry()
	registry.Register(tools.NewMetricsTool(store))
	registry.Register(tools.NewLogsTool(store))
	registry.Register(tools.NewDeploymentsTool(store))
	registry.Register(tools.NewDependenciesTool(store))
	return registry
}

// runDiagnose runs one diagnosis from the command line and prints the
// live reasoning trace plus the final incident summary.
func runDiagnose(cmd *cobra.Command, args []string) error {
	service := args[0]
	if err := validation.ValidateService(service); err != nil {
		return err
	}

	client, err := llm.NewOpenAIClient(llm.OpenAIOptions{
		BaseURL: cfg.Model.BaseURL,
		Model:   cfg.Model.Name,
	})
	if err != nil {
		return fmt.Errorf("creating model client: %w", err)
	}

	store := tools.NewStore(cfg.Data.Dir)
	registry := buildRegistry(store)

	emitter := events.NewEmitter()
	emitter.Subscribe(printStep, events.TypeStepCompleted)

	loop := agent.NewLoop(agent.NewLLMOracle(client), registry, agent.WithEmitter(emitter))
	state := agent.NewIncidentState(goal, service)

	ux.Title(fmt.Sprintf("Diagnosing %s", service))
	ux.Muted(fmt.Sprintf("goal: %s", goal))

	if _, err := loop.Run(cmd.Context(), state, cfg.Agent.MaxSteps); err != nil {
		return fmt.Errorf("diagnosis failed: %w", err)
	}

	printSummary(state)
	return nil
}

// printStep renders one completed step, mirroring the live trace.
func printStep(event *events.Event) {
	data, ok := event.Data.(events.StepCompletedData)
	if !ok {
		return
	}

	fmt.Printf("\n[Step %d]\n", event.Step)
	if data.Thought != "" {
		fmt.Printf("Thought: %s\n", data.Thought)
	}
	fmt.Printf("Action: %s(service=%s)\n", data.Tool, data.Service)

	if result, ok := data.Result.(*tools.Result); ok {
		fmt.Printf("Observation: %s\n", describeResult(result))
	}
}

// describeResult renders a one-line observation for the trace.
func describeResult(result *tools.Result) string {
	switch {
	case result.Metrics != nil:
		return fmt.Sprintf("CPU=%g%%, Latency=%gms", result.Metrics.CPUPercent, result.Metrics.LatencyMS)
	case result.ErrorCount != nil:
		return fmt.Sprintf("%d error logs found", *result.ErrorCount)
	case result.Deployment != nil:
		return fmt.Sprintf("Recent deployment %s", result.Deployment.Version)
	case result.Dependencies != nil || result.DegradedDependencies != nil:
		if len(result.DegradedDependencies) > 0 {
			return "Degraded dependency -> " + strings.Join(result.DegradedDependencies, ", ")
		}
		return "All dependencies healthy"
	case !result.OK:
		return result.Error
	default:
		return "no data"
	}
}

// printSummary renders the final incident summary and conclusion.
func printSummary(state *agent.IncidentState) {
	fmt.Println()
	ux.Title("--- INCIDENT SUMMARY ---")
	for _, obs := range state.Observations {
		fmt.Printf("\nStep %d: %s\n", obs.Step, obs.Tool)
		if obs.Result != nil {
			fmt.Println(describeResult(obs.Result))
		}
	}

	fmt.Println()
	ux.Box("Conclusion", state.Conclusion)
}
