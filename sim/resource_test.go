package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newPoolTestSim builds a bare simulator for pool tests. The pool under test
// is wired in as the TCN station so snapshots have all stations to read.
func newPoolTestSim(pool Resource) *Simulator {
	return &Simulator{
		sss:      &DisabledResource{},
		easypass: &DisabledResource{},
		eu:       &DisabledResource{},
		tcn:      pool,
		events:   NewEventHeap(),
	}
}

func TestBoundedPool_GrantsImmediatelyWhenIdle(t *testing.T) {
	pool := NewBoundedPool(StationTCN, 2)
	s := newPoolTestSim(pool)
	s.Clock = 7.5

	granted := -1.0
	pool.Request(s, PriorityHigh, func(now float64) { granted = now })
	assert.Equal(t, 7.5, granted)
	assert.Equal(t, 1, pool.InService())
	assert.Equal(t, 0, pool.QueueLen())
}

func TestBoundedPool_PriorityThenFIFO(t *testing.T) {
	pool := NewBoundedPool(StationTCN, 1)
	s := newPoolTestSim(pool)

	var order []string
	pool.Request(s, PriorityHigh, func(now float64) { order = append(order, "first") })
	pool.Request(s, PriorityLow, func(now float64) { order = append(order, "low-1") })
	pool.Request(s, PriorityLow, func(now float64) { order = append(order, "low-2") })
	pool.Request(s, PriorityHigh, func(now float64) { order = append(order, "high-1") })
	pool.Request(s, PriorityHigh, func(now float64) { order = append(order, "high-2") })

	require.Equal(t, []string{"first"}, order)
	assert.Equal(t, 4, pool.QueueLen())

	for i := 0; i < 4; i++ {
		pool.Release(s)
	}
	// High-priority waiters jump the earlier low-priority ones; FIFO holds
	// within each priority.
	assert.Equal(t, []string{"first", "high-1", "high-2", "low-1", "low-2"}, order)
}

func TestBoundedPool_GrowAddsIdleAndDispatches(t *testing.T) {
	pool := NewBoundedPool(StationTCN, 1)
	s := newPoolTestSim(pool)

	granted := 0
	for i := 0; i < 3; i++ {
		pool.Request(s, PriorityHigh, func(now float64) { granted++ })
	}
	require.Equal(t, 1, granted)

	pool.SetTargetCapacity(s, 3)
	assert.Equal(t, 3, granted)
	assert.Equal(t, 3, pool.Capacity())
	assert.Equal(t, 3, pool.InService())
}

func TestBoundedPool_ShrinkWaitsForBusyTokens(t *testing.T) {
	pool := NewBoundedPool(StationTCN, 3)
	s := newPoolTestSim(pool)

	for i := 0; i < 2; i++ {
		pool.Request(s, PriorityHigh, func(now float64) {})
	}
	require.Equal(t, 2, pool.InService())

	// One idle token is removed immediately, the other removal waits for a
	// release.
	pool.SetTargetCapacity(s, 1)
	assert.Equal(t, 1, pool.TargetCapacity())
	assert.Equal(t, 2, pool.Capacity())
	assert.Equal(t, 1, pool.PendingRemovals())

	pool.Release(s)
	assert.Equal(t, 1, pool.Capacity())
	assert.Equal(t, 0, pool.PendingRemovals())

	// The remaining token keeps circulating normally.
	pool.Release(s)
	assert.Equal(t, 1, pool.Capacity())
	assert.Equal(t, 0, pool.InService())
}

func TestBoundedPool_ShrinkNeverPreempts(t *testing.T) {
	pool := NewBoundedPool(StationTCN, 2)
	s := newPoolTestSim(pool)

	served := 0
	for i := 0; i < 2; i++ {
		pool.Request(s, PriorityHigh, func(now float64) { served++ })
	}
	pool.SetTargetCapacity(s, 0)

	// Both services are still running after the decrease.
	assert.Equal(t, 2, served)
	assert.Equal(t, 2, pool.InService())
	assert.Equal(t, 2, pool.PendingRemovals())
}

func TestBoundedPool_GrowCancelsPendingRemovals(t *testing.T) {
	pool := NewBoundedPool(StationTCN, 2)
	s := newPoolTestSim(pool)

	for i := 0; i < 2; i++ {
		pool.Request(s, PriorityHigh, func(now float64) {})
	}
	pool.SetTargetCapacity(s, 0)
	require.Equal(t, 2, pool.PendingRemovals())

	pool.SetTargetCapacity(s, 3)
	assert.Equal(t, 0, pool.PendingRemovals())
	assert.Equal(t, 3, pool.Capacity())
	assert.Equal(t, 3, pool.TargetCapacity())
}

func TestDisabledResource_ZeroWait(t *testing.T) {
	d := &DisabledResource{}
	s := newPoolTestSim(d)
	s.Clock = 12.0

	granted := -1.0
	d.Request(s, PriorityLow, func(now float64) { granted = now })
	assert.Equal(t, 12.0, granted)
	assert.Equal(t, 0, d.QueueLen())
	assert.Equal(t, 0, d.InService())
	assert.Equal(t, 0, d.Capacity())
	d.Release(s)
}
