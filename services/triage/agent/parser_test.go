// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package agent

import (
	"errors"
	"strings"
	"testing"
)

func TestParseDecisionContinue(t *testing.T) {
	raw := `{
		"thought": "CPU could explain the latency spike",
		"action": {"tool": "check_metrics", "args": {"service": "checkout-service"}}
	}`

	decision, err := ParseDecision(raw)
	if err != nil {
		t.Fatalf("ParseDecision() error = %v", err)
	}
	if decision.Done {
		t.Error("continue decision parsed as done")
	}
	if decision.Action == nil {
		t.Fatal("continue decision has nil action")
	}
	if decision.Action.Tool != ToolCheckMetrics {
		t.Errorf("tool = %q, want %q", decision.Action.Tool, ToolCheckMetrics)
	}
	if decision.Action.Args.Service != "checkout-service" {
		t.Errorf("service = %q, want checkout-service", decision.Action.Args.Service)
	}
	if decision.Thought != "CPU could explain the latency spike" {
		t.Errorf("thought = %q", decision.Thought)
	}
}

func TestParseDecisionFinish(t *testing.T) {
	raw := `{"thought": "enough signal", "conclusion": "Bad deploy of v2.14.1.", "done": true}`

	decision, err := ParseDecision(raw)
	if err != nil {
		t.Fatalf("ParseDecision() error = %v", err)
	}
	if !decision.Done {
		t.Error("finish decision not marked done")
	}
	if decision.Conclusion != "Bad deploy of v2.14.1." {
		t.Errorf("conclusion = %q", decision.Conclusion)
	}
	if decision.Action != nil {
		t.Error("finish decision should carry no action")
	}
}

func TestParseDecisionFinishEmptyConclusion(t *testing.T) {
	// The parser accepts a finish without a conclusion; the loop
	// substitutes the default.
	decision, err := ParseDecision(`{"done": true}`)
	if err != nil {
		t.Fatalf("ParseDecision() error = %v", err)
	}
	if !decision.Done {
		t.Error("expected done")
	}
	if decision.Conclusion != "" {
		t.Errorf("conclusion = %q, want empty", decision.Conclusion)
	}
}

func TestParseDecisionRejects(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"empty input", ""},
		{"not json", "I think we should check the metrics next."},
		{"truncated json", `{"thought": "hmm", "action": {"tool":`},
		{"missing action", `{"thought": "pondering"}`},
		{"action without tool", `{"action": {"args": {"service": "checkout-service"}}}`},
		{"finish with action", `{"done": true, "action": {"tool": "check_logs", "args": {"service": "x"}}}`},
		{"wrong top-level type", `["check_metrics"]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseDecision(tt.raw)
			if err == nil {
				t.Fatalf("ParseDecision(%q) succeeded, want error", tt.raw)
			}
			if !errors.Is(err, ErrMalformedDecision) {
				t.Errorf("error = %v, want ErrMalformedDecision", err)
			}
		})
	}
}

func TestParseDecisionErrorQuotesRaw(t *testing.T) {
	_, err := ParseDecision("not a decision at all")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), `"not a decision at all"`) {
		t.Errorf("error does not quote the offending text: %v", err)
	}
}

func TestParseDecisionErrorTruncatesLongRaw(t *testing.T) {
	raw := strings.Repeat("x", 4096)
	_, err := ParseDecision(raw)
	if err == nil {
		t.Fatal("expected error")
	}
	if len(err.Error()) > maxQuotedRaw+256 {
		t.Errorf("error message too long: %d bytes", len(err.Error()))
	}
	if !strings.Contains(err.Error(), "...") {
		t.Error("truncated quote missing ellipsis")
	}
}
