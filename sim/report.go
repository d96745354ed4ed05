// Typed aggregation over the engine's result streams: per-group and
// per-flight summaries, mix target-vs-actual checks, and queue peaks.

package sim

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// KPIWaitThresholdMin is the fixed threshold for the share-over-threshold
// indicator.
const KPIWaitThresholdMin = 30.0

// GroupSummary aggregates passengers of one group. TCN_V passengers are
// refined by registration status.
type GroupSummary struct {
	Group      string
	Count      int
	SharePct   float64
	MeanWait   float64
	P95Wait    float64
	MeanSystem float64
}

// FlightSummary aggregates passengers of one flight.
type FlightSummary struct {
	Flight     string
	Count      int
	MeanWait   float64
	P95Wait    float64
	MeanSystem float64
	P95System  float64
}

// MixCheckRow compares a group's realized share against its configured one.
type MixCheckRow struct {
	Group     Group
	Count     int
	ActualPct float64
	TargetPct float64
	DiffPts   float64
}

// QueuePeak is the largest queue observed in a run.
type QueuePeak struct {
	MaxLen  int
	TMin    float64
	Station Station
}

// RunSummary is the aggregated view of one engine run.
type RunSummary struct {
	Total            int
	P95WaitTotal     float64
	PctOverThreshold float64 // share of passengers waiting > KPIWaitThresholdMin

	ByGroup  []GroupSummary
	ByFlight []FlightSummary
	MixCheck []MixCheckRow
	Peak     QueuePeak
}

// Summarize aggregates a run's results and snapshots.
func Summarize(results []PassengerResult, snapshots []QueueSnapshot, cfg *SimConfig) *RunSummary {
	s := &RunSummary{Total: len(results)}
	if len(results) > 0 {
		waits := make([]float64, len(results))
		over := 0
		for i, r := range results {
			waits[i] = r.WaitTotal()
			if waits[i] > KPIWaitThresholdMin {
				over++
			}
		}
		s.P95WaitTotal = quantile95(waits)
		s.PctOverThreshold = 100.0 * float64(over) / float64(len(results))
	}

	s.ByGroup = summarizeGroups(results)
	s.ByFlight = summarizeFlights(results)
	s.MixCheck = mixCheck(results, cfg)
	s.Peak = queuePeak(snapshots)
	return s
}

func summarizeGroups(results []PassengerResult) []GroupSummary {
	byGroup := make(map[string][]PassengerResult)
	for _, r := range results {
		key := r.GroupWithEES()
		byGroup[key] = append(byGroup[key], r)
	}

	var out []GroupSummary
	for key, rs := range byGroup {
		waits := make([]float64, len(rs))
		systems := make([]float64, len(rs))
		for i, r := range rs {
			waits[i] = r.WaitTotal()
			systems[i] = r.SystemMin
		}
		out = append(out, GroupSummary{
			Group:      key,
			Count:      len(rs),
			SharePct:   100.0 * float64(len(rs)) / float64(max(1, len(results))),
			MeanWait:   stat.Mean(waits, nil),
			P95Wait:    quantile95(waits),
			MeanSystem: stat.Mean(systems, nil),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Group < out[j].Group
	})
	return out
}

func summarizeFlights(results []PassengerResult) []FlightSummary {
	byFlight := make(map[string][]PassengerResult)
	for _, r := range results {
		byFlight[r.Flight] = append(byFlight[r.Flight], r)
	}

	var out []FlightSummary
	for flight, rs := range byFlight {
		waits := make([]float64, len(rs))
		systems := make([]float64, len(rs))
		for i, r := range rs {
			waits[i] = r.WaitTotal()
			systems[i] = r.SystemMin
		}
		out = append(out, FlightSummary{
			Flight:     flight,
			Count:      len(rs),
			MeanWait:   stat.Mean(waits, nil),
			P95Wait:    quantile95(waits),
			MeanSystem: stat.Mean(systems, nil),
			P95System:  quantile95(systems),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Flight < out[j].Flight
	})
	return out
}

func mixCheck(results []PassengerResult, cfg *SimConfig) []MixCheckRow {
	counts := make(map[Group]int)
	for _, r := range results {
		counts[r.Group]++
	}
	targets := map[Group]float64{
		GroupEasypass: cfg.ShareEasypass,
		GroupEUManual: cfg.ShareEUManual,
		GroupTCNAT:    cfg.ShareTCNAT,
		GroupTCNV:     cfg.ShareTCNV,
	}

	rows := make([]MixCheckRow, 0, len(Groups))
	for _, g := range Groups {
		actual := 0.0
		if len(results) > 0 {
			actual = float64(counts[g]) / float64(len(results))
		}
		rows = append(rows, MixCheckRow{
			Group:     g,
			Count:     counts[g],
			ActualPct: 100.0 * actual,
			TargetPct: 100.0 * targets[g],
			DiffPts:   100.0 * (actual - targets[g]),
		})
	}
	return rows
}

func queuePeak(snapshots []QueueSnapshot) QueuePeak {
	var peak QueuePeak
	for _, snap := range snapshots {
		for _, st := range Stations {
			if q := snap.QueueFor(st); q > peak.MaxLen {
				peak = QueuePeak{MaxLen: q, TMin: snap.TMin, Station: st}
			}
		}
	}
	return peak
}

// Print displays the aggregated run summary.
func (s *RunSummary) Print(terminal string) {
	fmt.Printf("=== Terminal %s ===\n", terminal)
	fmt.Printf("Passengers           : %d\n", s.Total)
	fmt.Printf("P95 total wait       : %.1f min\n", s.P95WaitTotal)
	fmt.Printf("Share > %.0f min wait : %.1f %%\n", KPIWaitThresholdMin, s.PctOverThreshold)
	if s.Peak.MaxLen > 0 {
		fmt.Printf("Max queue            : %d pax at %s (t=%.1f min)\n", s.Peak.MaxLen, s.Peak.Station, s.Peak.TMin)
	}
	fmt.Println("By group:")
	for _, g := range s.ByGroup {
		fmt.Printf("  %-28s %6d (%5.1f %%)  mean wait %6.2f  p95 wait %6.2f  mean system %6.2f\n",
			g.Group, g.Count, g.SharePct, g.MeanWait, g.P95Wait, g.MeanSystem)
	}
	fmt.Println("By flight:")
	for _, f := range s.ByFlight {
		fmt.Printf("  %-10s %6d  mean wait %6.2f  p95 wait %6.2f  p95 system %6.2f\n",
			f.Flight, f.Count, f.MeanWait, f.P95Wait, f.P95System)
	}
}

// quantile95 returns the empirical 95th percentile.
func quantile95(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	sorted := make([]float64, len(vals))
	copy(sorted, vals)
	sort.Float64s(sorted)
	return stat.Quantile(0.95, stat.Empirical, sorted, nil)
}
