// CapacitySchedule maps time-of-day intervals to counter capacities.
// Interval keys follow the "HH:MM-HH:MM" convention of the operating plans
// this simulator consumes, e.g. "06:15-06:30". Only the start time of an
// interval is significant for capacity changes; the configured capacity
// holds until the next entry.

package sim

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

// minutesPerDay is used for the time-of-day arithmetic below.
const minutesPerDay = 24 * 60

// CapacitySchedule is an ordered mapping from time-of-day to integer
// capacity. Entries wrap across midnight: before the first entry of a day,
// the last entry of the previous day is in effect.
type CapacitySchedule map[string]int

// CapacityChange is one scheduled capacity adjustment, expressed in
// simulated minutes relative to the run start.
type CapacityChange struct {
	AtMin    float64
	Capacity int
}

// scheduleEntry is a parsed schedule key.
type scheduleEntry struct {
	startMinOfDay int
	capacity      int
}

// parseIntervalStart extracts the start minute-of-day from an interval key.
// "06:15-06:30" and "6-9" are both accepted, matching the plan formats seen
// in the wild.
func parseIntervalStart(key string) (int, error) {
	start, _, ok := strings.Cut(key, "-")
	if !ok {
		return 0, fmt.Errorf("interval key %q has no '-' separator", key)
	}
	if h, m, ok := strings.Cut(start, ":"); ok {
		hour, err := strconv.Atoi(h)
		if err != nil {
			return 0, fmt.Errorf("interval key %q: bad hour: %w", key, err)
		}
		minute, err := strconv.Atoi(m)
		if err != nil {
			return 0, fmt.Errorf("interval key %q: bad minute: %w", key, err)
		}
		if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
			return 0, fmt.Errorf("interval key %q: time of day out of range", key)
		}
		return hour*60 + minute, nil
	}
	hour, err := strconv.Atoi(start)
	if err != nil {
		return 0, fmt.Errorf("interval key %q: bad hour: %w", key, err)
	}
	if hour < 0 || hour > 23 {
		return 0, fmt.Errorf("interval key %q: hour out of range", key)
	}
	return hour * 60, nil
}

// Validate checks all interval keys and capacity values. A nil or empty
// schedule is valid: the pool simply starts and stays at zero capacity.
func (s CapacitySchedule) Validate() error {
	for key, capVal := range s {
		if _, err := parseIntervalStart(key); err != nil {
			return err
		}
		if capVal < 0 {
			return fmt.Errorf("interval %q has capacity %d, want >= 0", key, capVal)
		}
	}
	return nil
}

// Clone returns a copy of the schedule.
func (s CapacitySchedule) Clone() CapacitySchedule {
	if s == nil {
		return nil
	}
	cp := make(CapacitySchedule, len(s))
	for k, v := range s {
		cp[k] = v
	}
	return cp
}

// SortedIntervals returns the interval keys ordered by start time of day.
func (s CapacitySchedule) SortedIntervals() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		mi, _ := parseIntervalStart(keys[i])
		mj, _ := parseIntervalStart(keys[j])
		if mi != mj {
			return mi < mj
		}
		return keys[i] < keys[j]
	})
	return keys
}

// entries returns the parsed schedule sorted by start minute of day.
func (s CapacitySchedule) entries() []scheduleEntry {
	es := make([]scheduleEntry, 0, len(s))
	for key, capVal := range s {
		start, err := parseIntervalStart(key)
		if err != nil {
			// Validate catches malformed keys before a run starts.
			panic(err)
		}
		es = append(es, scheduleEntry{startMinOfDay: start, capacity: capVal})
	}
	sort.Slice(es, func(i, j int) bool { return es[i].startMinOfDay < es[j].startMinOfDay })
	return es
}

// InitialCapacity returns the capacity in effect at the run start t0: the
// latest entry at or before t0's time of day, wrapping to the last entry of
// the day when t0 lies before the first entry. Zero for an empty schedule.
func (s CapacitySchedule) InitialCapacity(t0 time.Time) int {
	es := s.entries()
	if len(es) == 0 {
		return 0
	}
	startMinOfDay := t0.Hour()*60 + t0.Minute()
	capVal := es[len(es)-1].capacity
	for _, e := range es {
		if startMinOfDay >= e.startMinOfDay {
			capVal = e.capacity
		}
	}
	return capVal
}

// Occurrences expands the schedule into the capacity changes that fall after
// t0, ordered by time. Each entry is projected onto the day of t0 and the
// following day via its daily cron schedule, which covers runs that cross
// midnight; runs are bounded well below 48 hours by the horizon.
func (s CapacitySchedule) Occurrences(t0 time.Time) []CapacityChange {
	var changes []CapacityChange
	for _, e := range s.entries() {
		spec := fmt.Sprintf("%d %d * * *", e.startMinOfDay%60, e.startMinOfDay/60)
		daily, err := cron.ParseStandard(spec)
		if err != nil {
			panic(fmt.Sprintf("capacity schedule: bad cron spec %q: %v", spec, err))
		}
		first := daily.Next(t0) // strictly after t0
		second := daily.Next(first)
		for _, at := range []time.Time{first, second} {
			changes = append(changes, CapacityChange{
				AtMin:    at.Sub(t0).Minutes(),
				Capacity: e.capacity,
			})
		}
	}
	sort.Slice(changes, func(i, j int) bool { return changes[i].AtMin < changes[j].AtMin })
	return changes
}

// intervalKey formats a 15-minute interval key for the interval starting at
// the given minute of day, e.g. 375 -> "06:15-06:30". The interval ending at
// midnight is rendered "23:45-00:00".
func intervalKey(startMinOfDay int) string {
	endMinOfDay := (startMinOfDay + 15) % minutesPerDay
	return fmt.Sprintf("%02d:%02d-%02d:%02d",
		startMinOfDay/60, startMinOfDay%60, endMinOfDay/60, endMinOfDay%60)
}

// OperatingDayIntervals returns the 15-minute interval keys of the operating
// day, 06:00 through 24:00.
func OperatingDayIntervals() []string {
	var keys []string
	for m := 6 * 60; m < minutesPerDay; m += 15 {
		keys = append(keys, intervalKey(m))
	}
	return keys
}

// UniformSchedule builds a schedule holding the same capacity in every
// 15-minute interval of the operating day. This is the starting point of the
// capacity controller's search.
func UniformSchedule(capacity int) CapacitySchedule {
	s := make(CapacitySchedule)
	for _, key := range OperatingDayIntervals() {
		s[key] = capacity
	}
	return s
}
