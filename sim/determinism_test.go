package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func determinismFixture() ([]Flight, *SimConfig) {
	cfg := DefaultSimConfig()
	cfg.Stands = StandDistances{"A1": 300, "B2": 450}
	cfg.CapTCNSchedule = UniformSchedule(2)
	cfg.CapEUSchedule = UniformSchedule(2)

	flights := []Flight{
		{Key: "f1", Number: "LH123", Stand: "A1", Terminal: "T1", BlockIn: testDay(8, 0), Passengers: 90},
		{Key: "f2", Number: "OS456", Stand: "REMOTE", Terminal: "T1", BlockIn: testDay(8, 20), Passengers: 120},
		{Key: "f3", Number: "EW789", Stand: "B2", Terminal: "T1", BlockIn: testDay(9, 5), Passengers: 60},
	}
	return flights, cfg
}

func TestSameSeedIdenticalResults(t *testing.T) {
	flights, cfg := determinismFixture()

	run := func() *Simulator {
		s, err := NewSimulator(flights, cfg.Clone(), testDay(8, 0), 42, 0)
		require.NoError(t, err)
		s.Run()
		return s
	}

	s1 := run()
	s2 := run()

	require.Equal(t, s1.Spawned, s2.Spawned)
	require.Equal(t, s1.Completed, s2.Completed)
	assert.Equal(t, s1.Results, s2.Results)
	assert.Equal(t, s1.Snapshots, s2.Snapshots)
}

func TestDifferentSeedDifferentResults(t *testing.T) {
	flights, cfg := determinismFixture()

	s1, err := NewSimulator(flights, cfg.Clone(), testDay(8, 0), 42, 0)
	require.NoError(t, err)
	s1.Run()

	s2, err := NewSimulator(flights, cfg.Clone(), testDay(8, 0), 43, 0)
	require.NoError(t, err)
	s2.Run()

	assert.NotEqual(t, s1.Results, s2.Results)
}
