package sim

import (
	"fmt"
	"time"
)

// Flight is one arriving flight. Immutable once created.
type Flight struct {
	Key        string    // unique identity, e.g. "20260501-0730_07A_LH123"
	Number     string    // flight number
	Stand      string    // aircraft parking position; determines walk vs bus
	Terminal   string    // control area the flight feeds, e.g. "T1"
	BlockIn    time.Time // scheduled block-in time (absolute)
	Passengers int       // passengers to simulate
}

// ArrivalMin returns the flight's arrival as minutes relative to t0.
func (f *Flight) ArrivalMin(t0 time.Time) float64 {
	return f.BlockIn.Sub(t0).Minutes()
}

// EarliestBlockIn returns the earliest block-in time across flights, which
// serves as t=0 of a run. False when the flight list is empty.
func EarliestBlockIn(flights []Flight) (time.Time, bool) {
	if len(flights) == 0 {
		return time.Time{}, false
	}
	t0 := flights[0].BlockIn
	for _, f := range flights[1:] {
		if f.BlockIn.Before(t0) {
			t0 = f.BlockIn
		}
	}
	return t0, true
}

// SplitByTerminal partitions flights into per-terminal lists, preserving
// input order within each terminal.
func SplitByTerminal(flights []Flight) map[string][]Flight {
	byTerm := make(map[string][]Flight)
	for _, f := range flights {
		byTerm[f.Terminal] = append(byTerm[f.Terminal], f)
	}
	return byTerm
}

// StandDistances maps a stand to its walking distance to the control area in
// meters. A stand that is absent or mapped to 0 has no fixed walking route
// and is served by bus; that is a documented input convention, not an error.
type StandDistances map[string]float64

// DistanceFor returns the walking distance for a stand, 0 when unknown.
func (d StandDistances) DistanceFor(stand string) float64 {
	return d[stand]
}

func (f *Flight) String() string {
	return fmt.Sprintf("Flight %s (%s, stand %s, %d pax)", f.Number, f.Key, f.Stand, f.Passengers)
}
