// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmitDeliversToSubscriber(t *testing.T) {
	emitter := NewEmitter(WithIncidentID("inc-1"))

	var received []*Event
	emitter.Subscribe(func(event *Event) {
		received = append(received, event)
	})

	emitter.SetStep(2)
	emitter.Emit(TypeStepCompleted, StepCompletedData{Tool: "check_logs", Service: "checkout-service"})

	require.Len(t, received, 1)
	assert.Equal(t, TypeStepCompleted, received[0].Type)
	assert.Equal(t, "inc-1", received[0].IncidentID)
	assert.Equal(t, 2, received[0].Step)

	data, ok := received[0].Data.(StepCompletedData)
	require.True(t, ok)
	assert.Equal(t, "check_logs", data.Tool)
}

func TestTypeFilteredSubscription(t *testing.T) {
	emitter := NewEmitter()

	var count int
	emitter.Subscribe(func(event *Event) { count++ }, TypeRunCompleted)

	emitter.Emit(TypeRunStarted, RunStartedData{})
	emitter.Emit(TypeStepCompleted, StepCompletedData{})
	emitter.Emit(TypeRunCompleted, RunCompletedData{Reason: StopStepBudget})

	assert.Equal(t, 1, count)
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	emitter := NewEmitter()

	var count int
	id := emitter.Subscribe(func(event *Event) { count++ })

	emitter.Emit(TypeRunStarted, RunStartedData{})
	require.True(t, emitter.Unsubscribe(id))
	emitter.Emit(TypeRunStarted, RunStartedData{})

	assert.Equal(t, 1, count)
	assert.False(t, emitter.Unsubscribe(id))
}

func TestHandlerPanicIsRecovered(t *testing.T) {
	emitter := NewEmitter()

	emitter.Subscribe(func(event *Event) { panic("boom") })

	var survived bool
	emitter.Subscribe(func(event *Event) { survived = true })

	assert.NotPanics(t, func() {
		emitter.Emit(TypeRunStarted, RunStartedData{})
	})
	assert.True(t, survived)
}

func TestBufferKeepsEmissionOrderAndCap(t *testing.T) {
	emitter := NewEmitter(WithBufferSize(2))

	emitter.Emit(TypeRunStarted, nil)
	emitter.Emit(TypeStepCompleted, nil)
	emitter.Emit(TypeRunCompleted, nil)

	buffered := emitter.Buffer()
	require.Len(t, buffered, 2)
	assert.Equal(t, TypeStepCompleted, buffered[0].Type)
	assert.Equal(t, TypeRunCompleted, buffered[1].Type)
}
