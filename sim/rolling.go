// Rolling-mean wait time series over the operating day, used by the
// capacity controller to detect service-level breaches.

package sim

import (
	"sort"
	"time"
)

// RollingPoint is one sample of a rolling-mean series: the grid time in
// minutes relative to the run start and the mean total wait of passengers
// arriving within the trailing window [t-window, t]. Both bounds are
// inclusive so that batch arrivals landing exactly on a window edge are
// counted.
type RollingPoint struct {
	TMin     float64
	MeanWait float64
}

// RollingMeanWaitByGroup computes the rolling mean of total wait time for
// the given groups on a fixed step grid spanning 06:00 to 24:00 of the day
// the run starts. Grid points whose window contains no arrival report a mean
// of zero.
func RollingMeanWaitByGroup(results []PassengerResult, t0 time.Time, groups []Group, windowMin, stepMin float64) []RollingPoint {
	wanted := make(map[Group]bool, len(groups))
	for _, g := range groups {
		wanted[g] = true
	}

	type sample struct {
		at   float64
		wait float64
	}
	var samples []sample
	for _, r := range results {
		if wanted[r.Group] {
			samples = append(samples, sample{at: r.ArrivalMin, wait: r.WaitTotal()})
		}
	}
	sort.Slice(samples, func(i, j int) bool { return samples[i].at < samples[j].at })

	dayStart := time.Date(t0.Year(), t0.Month(), t0.Day(), 0, 0, 0, 0, t0.Location())
	gridStart := dayStart.Add(6 * time.Hour).Sub(t0).Minutes()
	gridEnd := dayStart.Add(24 * time.Hour).Sub(t0).Minutes()

	n := int((gridEnd-gridStart)/stepMin) + 1
	points := make([]RollingPoint, 0, n)

	// Two-pointer window over arrival-sorted samples.
	lo, hi := 0, 0
	windowSum := 0.0
	for i := 0; i < n; i++ {
		t := gridStart + float64(i)*stepMin
		for hi < len(samples) && samples[hi].at <= t {
			windowSum += samples[hi].wait
			hi++
		}
		for lo < hi && samples[lo].at < t-windowMin {
			windowSum -= samples[lo].wait
			lo++
		}
		mean := 0.0
		if hi > lo {
			mean = windowSum / float64(hi-lo)
		}
		points = append(points, RollingPoint{TMin: t, MeanWait: mean})
	}
	return points
}
