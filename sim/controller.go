// The capacity controller: an outer loop that re-runs the engine and grows
// counter capacity schedules until a service-level target is met, the
// ceilings are hit, or the iteration budget runs out. The search is greedy
// and monotone: within one controller run capacities only ever increase.

package sim

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// ControllerStatus is the terminal state of a capacity search. Non-converged
// outcomes are normal, reportable results, not errors.
type ControllerStatus string

const (
	StatusConverged             ControllerStatus = "Converged"
	StatusStuckAtCeiling        ControllerStatus = "StuckAtCeiling"
	StatusIterationLimitReached ControllerStatus = "IterationLimitReached"
)

// ServiceLevelPresets are the named service-level targets (maximum rolling
// mean wait in minutes).
var ServiceLevelPresets = map[string]float64{
	"SL1": 10.0,
	"SL2": 20.0,
	"SL3": 30.0,
	"SL4": 45.0,
}

// Breach analysis defaults: 15-minute rolling window sampled every 5
// minutes.
const (
	DefaultBreachWindowMin = 15.0
	DefaultBreachStepMin   = 5.0
)

// TerminalPlan describes one terminal's flights, static station setup, and
// the capacity bounds of the search.
type TerminalPlan struct {
	Name    string
	Flights []Flight

	SSSEnabled  bool
	CapSSS      int
	CapEasypass int

	MinTCNCapacity int
	MaxTCNCapacity int
	MinEUCapacity  int
	MaxEUCapacity  int
}

// ControllerConfig configures a capacity search.
type ControllerConfig struct {
	// Base is the config template shared by all iterations and terminals.
	// Schedules and static capacities on it are replaced per terminal.
	Base      *SimConfig
	Terminals []TerminalPlan

	// ServiceLevelMin is the maximum acceptable rolling mean wait (minutes).
	ServiceLevelMin float64
	MaxIterations   int

	// Seed is held constant across iterations so that only capacity differs
	// between them.
	Seed       int64
	HorizonMin float64 // 0 selects the engine default

	WindowMin float64 // 0 selects DefaultBreachWindowMin
	StepMin   float64 // 0 selects DefaultBreachStepMin
}

// TerminalOutcome is the final state of one terminal: the schedules used by
// the last engine run and that run's full output.
type TerminalOutcome struct {
	Name        string
	TCNSchedule CapacitySchedule
	EUSchedule  CapacitySchedule
	Results     []PassengerResult
	Snapshots   []QueueSnapshot
}

// ControllerResult is the outcome of a capacity search.
type ControllerResult struct {
	Status     ControllerStatus
	Iterations int
	Outcomes   []TerminalOutcome
}

// Print displays the terminal's final capacity schedules.
func (o *TerminalOutcome) Print() {
	fmt.Printf("=== Capacities %s ===\n", o.Name)
	for _, interval := range o.TCNSchedule.SortedIntervals() {
		fmt.Printf("  %s  TCN %2d  EU %2d\n", interval, o.TCNSchedule[interval], o.EUSchedule[interval])
	}
}

// RunCapacitySearch executes the iterative search. Terminals are fully
// independent and run concurrently within an iteration; iterations
// themselves are strictly sequential because each one's capacities depend on
// the previous one's measured breaches.
func RunCapacitySearch(cfg ControllerConfig) (*ControllerResult, error) {
	if cfg.MaxIterations < 1 {
		return nil, configErrorf("controller needs at least 1 iteration, got %d", cfg.MaxIterations)
	}
	if len(cfg.Terminals) == 0 {
		return nil, configErrorf("controller needs at least one terminal")
	}
	window := cfg.WindowMin
	if window <= 0 {
		window = DefaultBreachWindowMin
	}
	step := cfg.StepMin
	if step <= 0 {
		step = DefaultBreachStepMin
	}

	var allFlights []Flight
	for _, plan := range cfg.Terminals {
		allFlights = append(allFlights, plan.Flights...)
	}
	t0, ok := EarliestBlockIn(allFlights)
	if !ok {
		return nil, configErrorf("controller needs at least one flight")
	}

	// Working schedules, initialized to the minimum at every 15-minute
	// interval of the operating day.
	tcnScheds := make([]CapacitySchedule, len(cfg.Terminals))
	euScheds := make([]CapacitySchedule, len(cfg.Terminals))
	for i, plan := range cfg.Terminals {
		tcnScheds[i] = UniformSchedule(plan.MinTCNCapacity)
		euScheds[i] = UniformSchedule(plan.MinEUCapacity)
	}

	result := &ControllerResult{Outcomes: make([]TerminalOutcome, len(cfg.Terminals))}

	for iter := 1; iter <= cfg.MaxIterations; iter++ {
		sims := make([]*Simulator, len(cfg.Terminals))
		errs := make([]error, len(cfg.Terminals))

		var wg sync.WaitGroup
		for i, plan := range cfg.Terminals {
			runCfg := cfg.Base.Clone()
			runCfg.CapTCNSchedule = tcnScheds[i].Clone()
			runCfg.CapEUSchedule = euScheds[i].Clone()
			runCfg.SSSEnabled = plan.SSSEnabled
			runCfg.CapSSS = plan.CapSSS
			if !plan.SSSEnabled {
				runCfg.CapSSS = 0
			}
			runCfg.CapEasypass = plan.CapEasypass

			wg.Add(1)
			go func(i int, plan TerminalPlan, runCfg *SimConfig) {
				defer wg.Done()
				s, err := NewSimulator(plan.Flights, runCfg, t0, cfg.Seed, cfg.HorizonMin)
				if err != nil {
					errs[i] = fmt.Errorf("terminal %s: %w", plan.Name, err)
					return
				}
				s.Run()
				sims[i] = s
			}(i, plan, runCfg)
		}
		wg.Wait()
		for _, err := range errs {
			if err != nil {
				return nil, err
			}
		}

		result.Iterations = iter
		for i, plan := range cfg.Terminals {
			result.Outcomes[i] = TerminalOutcome{
				Name:        plan.Name,
				TCNSchedule: sims[i].Config.CapTCNSchedule,
				EUSchedule:  sims[i].Config.CapEUSchedule,
				Results:     sims[i].Results,
				Snapshots:   sims[i].Snapshots,
			}
		}

		anyBreach := false
		capacityChanged := false
		for i, plan := range cfg.Terminals {
			tcnBreaches := breachedIntervals(sims[i].Results, t0,
				[]Group{GroupTCNV, GroupTCNAT}, cfg.ServiceLevelMin, window, step)
			euBreaches := breachedIntervals(sims[i].Results, t0,
				[]Group{GroupEUManual}, cfg.ServiceLevelMin, window, step)
			logrus.Infof("iteration %d, terminal %s: %d TCN / %d EU breached interval(s)",
				iter, plan.Name, len(tcnBreaches), len(euBreaches))

			if len(tcnBreaches)+len(euBreaches) > 0 {
				anyBreach = true
			}
			if bumpSchedule(tcnScheds[i], tcnBreaches, plan.MaxTCNCapacity) {
				capacityChanged = true
			}
			if bumpSchedule(euScheds[i], euBreaches, plan.MaxEUCapacity) {
				capacityChanged = true
			}
		}

		if !anyBreach {
			result.Status = StatusConverged
			logrus.Infof("service level reached in iteration %d", iter)
			return result, nil
		}
		if !capacityChanged {
			result.Status = StatusStuckAtCeiling
			logrus.Infof("capacity ceiling reached in iteration %d with outstanding breaches", iter)
			return result, nil
		}
	}

	result.Status = StatusIterationLimitReached
	logrus.Infof("iteration limit of %d reached with outstanding breaches", cfg.MaxIterations)
	return result, nil
}

// bumpSchedule raises each breached interval by one counter, capped at the
// ceiling. Intervals not present in the schedule (outside the operating day)
// are ignored. Reports whether any capacity changed.
func bumpSchedule(sched CapacitySchedule, intervals []string, ceiling int) bool {
	changed := false
	for _, interval := range intervals {
		if capVal, ok := sched[interval]; ok && capVal < ceiling {
			sched[interval] = capVal + 1
			changed = true
		}
	}
	return changed
}

// breachedIntervals maps every rolling-mean sample above the target onto its
// enclosing 15-minute wall-clock interval and returns the distinct interval
// keys in time order.
func breachedIntervals(results []PassengerResult, t0 time.Time, groups []Group, targetMin, windowMin, stepMin float64) []string {
	points := RollingMeanWaitByGroup(results, t0, groups, windowMin, stepMin)

	seen := make(map[string]bool)
	var keys []string
	for _, p := range points {
		if p.MeanWait <= targetMin {
			continue
		}
		at := t0.Add(time.Duration(p.TMin * float64(time.Minute)))
		minOfDay := at.Hour()*60 + at.Minute()
		key := intervalKey(minOfDay - minOfDay%15)
		if !seen[key] {
			seen[key] = true
			keys = append(keys, key)
		}
	}
	sort.Slice(keys, func(i, j int) bool {
		mi, _ := parseIntervalStart(keys[i])
		mj, _ := parseIntervalStart(keys[j])
		return mi < mj
	})
	return keys
}
