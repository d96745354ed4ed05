package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRollingMeanWait_GridSpansOperatingDay(t *testing.T) {
	t0 := testDay(6, 0)
	points := RollingMeanWaitByGroup(nil, t0, []Group{GroupTCNV}, 15, 5)

	// 06:00 to 24:00 in 5-minute steps, inclusive.
	require.Len(t, points, 217)
	assert.Equal(t, 0.0, points[0].TMin)
	assert.Equal(t, 1080.0, points[len(points)-1].TMin)
	for _, p := range points {
		assert.Equal(t, 0.0, p.MeanWait)
	}
}

func TestRollingMeanWait_WindowMembership(t *testing.T) {
	t0 := testDay(6, 0)
	results := []PassengerResult{
		{Group: GroupTCNV, ArrivalMin: 10, WaitTCN: 4},
	}
	points := RollingMeanWaitByGroup(results, t0, []Group{GroupTCNV, GroupTCNAT}, 15, 5)

	byT := make(map[float64]float64)
	for _, p := range points {
		byT[p.TMin] = p.MeanWait
	}

	// The window is [t-15, t]: the arrival at minute 10 is visible at grid
	// points 10 through 25 and nowhere else. The lower edge is inclusive,
	// so at t=25 the sample sits exactly on the boundary and still counts.
	assert.Equal(t, 0.0, byT[5.0])
	assert.Equal(t, 4.0, byT[10.0])
	assert.Equal(t, 4.0, byT[15.0])
	assert.Equal(t, 4.0, byT[20.0])
	assert.Equal(t, 4.0, byT[25.0])
	assert.Equal(t, 0.0, byT[30.0])
}

func TestRollingMeanWait_AveragesWithinWindow(t *testing.T) {
	t0 := testDay(6, 0)
	results := []PassengerResult{
		{Group: GroupTCNV, ArrivalMin: 58, WaitTCN: 10},
		{Group: GroupTCNV, ArrivalMin: 59, WaitEU: 20},
		{Group: GroupTCNAT, ArrivalMin: 60, WaitEasypass: 30},
		{Group: GroupEUManual, ArrivalMin: 60, WaitEU: 500}, // filtered out
	}
	points := RollingMeanWaitByGroup(results, t0, []Group{GroupTCNV, GroupTCNAT}, 15, 5)

	byT := make(map[float64]float64)
	for _, p := range points {
		byT[p.TMin] = p.MeanWait
	}
	assert.InDelta(t, 20.0, byT[60.0], 1e-9)
	assert.InDelta(t, 20.0, byT[70.0], 1e-9)
	// At t=75 the arrivals at 58 and 59 have left the window; the one at
	// exactly 60 remains on the inclusive edge.
	assert.InDelta(t, 30.0, byT[75.0], 1e-9)
	assert.Equal(t, 0.0, byT[80.0])
}

func TestRollingMeanWait_GridIsAnchoredToDayNotRunStart(t *testing.T) {
	// A run starting at 08:30 still reports on the 06:00 grid.
	t0 := testDay(8, 30)
	results := []PassengerResult{
		{Group: GroupEUManual, ArrivalMin: 0, WaitEU: 7},
	}
	points := RollingMeanWaitByGroup(results, t0, []Group{GroupEUManual}, 15, 5)

	require.NotEmpty(t, points)
	assert.Equal(t, -150.0, points[0].TMin)

	byT := make(map[float64]float64)
	for _, p := range points {
		byT[p.TMin] = p.MeanWait
	}
	assert.Equal(t, 7.0, byT[0.0])
	assert.Equal(t, 7.0, byT[15.0])
	assert.Equal(t, 0.0, byT[20.0])
}
