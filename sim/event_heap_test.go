package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubEvent is a minimal event for heap ordering tests.
type stubEvent struct {
	BaseEvent
}

func (e *stubEvent) Execute(sim *Simulator) {}

func stub(at float64, id uint64, typ EventType) *stubEvent {
	return &stubEvent{BaseEvent{timestamp: at, eventID: id, eventType: typ}}
}

func TestEventHeap_OrdersByTimestamp(t *testing.T) {
	h := NewEventHeap()
	h.Schedule(stub(3.0, 1, EventTypePassengerSpawn))
	h.Schedule(stub(1.0, 2, EventTypePassengerSpawn))
	h.Schedule(stub(2.0, 3, EventTypePassengerSpawn))

	assert.Equal(t, 1.0, h.PopNext().Timestamp())
	assert.Equal(t, 2.0, h.PopNext().Timestamp())
	assert.Equal(t, 3.0, h.PopNext().Timestamp())
	assert.Nil(t, h.PopNext())
}

func TestEventHeap_TypePriorityBreaksTimestampTies(t *testing.T) {
	h := NewEventHeap()
	h.Schedule(stub(5.0, 1, EventTypeServiceDone))
	h.Schedule(stub(5.0, 2, EventTypePassengerSpawn))
	h.Schedule(stub(5.0, 3, EventTypeCapacityChange))
	h.Schedule(stub(5.0, 4, EventTypeFlightArrival))

	// Capacity changes run before arrivals, spawns and completions at the
	// same instant.
	assert.Equal(t, EventTypeCapacityChange, h.PopNext().Type())
	assert.Equal(t, EventTypeFlightArrival, h.PopNext().Type())
	assert.Equal(t, EventTypePassengerSpawn, h.PopNext().Type())
	assert.Equal(t, EventTypeServiceDone, h.PopNext().Type())
}

func TestEventHeap_EventIDBreaksFullTies(t *testing.T) {
	h := NewEventHeap()
	h.Schedule(stub(5.0, 9, EventTypePassengerSpawn))
	h.Schedule(stub(5.0, 2, EventTypePassengerSpawn))
	h.Schedule(stub(5.0, 4, EventTypePassengerSpawn))

	assert.Equal(t, uint64(2), h.PopNext().EventID())
	assert.Equal(t, uint64(4), h.PopNext().EventID())
	assert.Equal(t, uint64(9), h.PopNext().EventID())
}

func TestEventHeap_Peek(t *testing.T) {
	h := NewEventHeap()
	assert.Nil(t, h.Peek())

	h.Schedule(stub(2.0, 1, EventTypePassengerSpawn))
	h.Schedule(stub(1.0, 2, EventTypePassengerSpawn))

	require.NotNil(t, h.Peek())
	assert.Equal(t, 1.0, h.Peek().Timestamp())
	assert.Equal(t, 2, h.Len())
}
