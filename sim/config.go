package sim

import (
	"fmt"
	"math"
)

// ConfigurationError reports an invalid SimConfig. Configs are rejected
// before a run starts; the engine never discovers configuration problems
// mid-simulation.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "invalid simulation config: " + e.Reason
}

func configErrorf(format string, args ...any) error {
	return &ConfigurationError{Reason: fmt.Sprintf(format, args...)}
}

// SimConfig holds every parameter of one simulation run. A SimConfig is
// immutable for the duration of a run and owned exclusively by that run; the
// capacity controller clones it per iteration instead of sharing it.
type SimConfig struct {
	// Time-of-day capacity schedules for the manual counters.
	CapTCNSchedule CapacitySchedule
	CapEUSchedule  CapacitySchedule

	// Static capacities.
	CapSSS      int
	CapEasypass int

	// SSSEnabled toggles the self-service kiosk station. When false the SSS
	// pool is disabled: zero capacity, zero wait.
	SSSEnabled bool

	// SSS service time, Gaussian (seconds).
	MeanSSSSeconds float64
	SdSSSSeconds   float64

	// TCN counter service time for visa-subject passengers, log-normal in
	// log-space (seconds), split by registration status.
	MuTCNVRegSeconds      float64
	SigmaTCNVRegSeconds   float64
	MuTCNVUnregSeconds    float64
	SigmaTCNVUnregSeconds float64
	MaxTCNVSeconds        float64

	// Easypass service time, log-normal (seconds).
	MuEasypassSeconds    float64
	SigmaEasypassSeconds float64
	MaxEasypassSeconds   float64

	// EU counter service time, log-normal (seconds).
	MuEUSeconds    float64
	SigmaEUSeconds float64
	MaxEUSeconds   float64

	// Share of third-country passengers already EES-registered.
	EESRegisteredShare float64

	// Deboarding: fixed door-open offset plus a uniform integer delay
	// between consecutive passengers (walk path only).
	DeboardOffsetMin       float64
	DeboardDelayMinSeconds int
	DeboardDelayMaxSeconds int

	// Fixed inter-passenger changeover at a counter (seconds).
	ChangeoverSeconds float64

	// Walking speed draw per passenger (m/s).
	WalkSpeedMeanMps  float64
	WalkSpeedSdMps    float64
	WalkSpeedFloorMps float64

	// Bus transport for stands without a fixed walking route.
	BusCapacity      int
	BusFillTimeMin   float64
	BusTravelTimeMin float64

	// Passenger mix shares; must sum to 1.0.
	ShareEasypass float64
	ShareEUManual float64
	ShareTCNAT    float64
	ShareTCNV     float64

	// Routing policy for TCN_AT passengers. Nil means the default fixed
	// Easypass target.
	TCNATRouting TCNATPolicy

	// Walking distance per stand. Stands absent from the table are
	// bus-served.
	Stands StandDistances
}

// DefaultSimConfig returns a config populated with the standard process
// parameters. Capacity schedules are left nil and must be set (or replaced
// with static capacities by the caller) before use.
func DefaultSimConfig() *SimConfig {
	return &SimConfig{
		CapSSS:      6,
		CapEasypass: 8,
		SSSEnabled:  true,

		MeanSSSSeconds: 34.0,
		SdSSSSeconds:   20.4,

		MuTCNVRegSeconds:      3.92,
		SigmaTCNVRegSeconds:   0.54,
		MuTCNVUnregSeconds:    3.92,
		SigmaTCNVUnregSeconds: 0.54,
		MaxTCNVSeconds:        180.0,

		MuEasypassSeconds:    2.76,
		SigmaEasypassSeconds: 0.34,
		MaxEasypassSeconds:   90.0,

		MuEUSeconds:    3.76,
		SigmaEUSeconds: 0.5,
		MaxEUSeconds:   180.0,

		EESRegisteredShare: 0.75,

		DeboardOffsetMin:       5.0,
		DeboardDelayMinSeconds: 2,
		DeboardDelayMaxSeconds: 8,
		ChangeoverSeconds:      0.0,

		WalkSpeedMeanMps:  1.25,
		WalkSpeedSdMps:    0.25,
		WalkSpeedFloorMps: 0.5,

		BusCapacity:      80,
		BusFillTimeMin:   7.0,
		BusTravelTimeMin: 2.5,

		ShareEasypass: 0.49,
		ShareEUManual: 0.21,
		ShareTCNAT:    0.15,
		ShareTCNV:     0.15,
	}
}

// Clone returns a deep copy of the config, including capacity schedules.
// The routing policy and stand table are shared: both are read-only.
func (c *SimConfig) Clone() *SimConfig {
	cp := *c
	cp.CapTCNSchedule = c.CapTCNSchedule.Clone()
	cp.CapEUSchedule = c.CapEUSchedule.Clone()
	return &cp
}

// mixShares returns the group shares in assignment order.
func (c *SimConfig) mixShares() []float64 {
	return []float64{c.ShareEasypass, c.ShareEUManual, c.ShareTCNAT, c.ShareTCNV}
}

// Validate rejects invalid configs with a ConfigurationError. It is called
// by NewSimulator before any event is scheduled.
func (c *SimConfig) Validate() error {
	shares := c.mixShares()
	sum := 0.0
	for i, s := range shares {
		if math.IsNaN(s) || s < 0 || s > 1 {
			return configErrorf("mix share for %s is %v, want within [0, 1]", Groups[i], s)
		}
		sum += s
	}
	if math.Abs(sum-1.0) > 1e-9 {
		return configErrorf("mix shares sum to %v, want 1.0", sum)
	}
	if math.IsNaN(c.EESRegisteredShare) || c.EESRegisteredShare < 0 || c.EESRegisteredShare > 1 {
		return configErrorf("ees registered share is %v, want within [0, 1]", c.EESRegisteredShare)
	}

	if c.CapSSS < 0 {
		return configErrorf("SSS capacity is %d, want >= 0", c.CapSSS)
	}
	if c.CapEasypass < 0 {
		return configErrorf("Easypass capacity is %d, want >= 0", c.CapEasypass)
	}
	if err := c.CapTCNSchedule.Validate(); err != nil {
		return configErrorf("TCN schedule: %v", err)
	}
	if err := c.CapEUSchedule.Validate(); err != nil {
		return configErrorf("EU schedule: %v", err)
	}

	for _, p := range []struct {
		name string
		val  float64
	}{
		{"SSS mean (s)", c.MeanSSSSeconds},
		{"SSS sd (s)", c.SdSSSSeconds},
		{"TCN max (s)", c.MaxTCNVSeconds},
		{"Easypass max (s)", c.MaxEasypassSeconds},
		{"EU max (s)", c.MaxEUSeconds},
		{"changeover (s)", c.ChangeoverSeconds},
		{"deboard offset (min)", c.DeboardOffsetMin},
		{"bus fill time (min)", c.BusFillTimeMin},
		{"bus travel time (min)", c.BusTravelTimeMin},
		{"walk speed mean (m/s)", c.WalkSpeedMeanMps},
		{"walk speed sd (m/s)", c.WalkSpeedSdMps},
	} {
		if math.IsNaN(p.val) || math.IsInf(p.val, 0) || p.val < 0 {
			return configErrorf("%s is %v, want a finite non-negative value", p.name, p.val)
		}
	}
	// Log-space mu may legitimately be negative (values below 1s); sigma <= 0
	// selects the deterministic fallback, so only non-finite values are
	// rejected here.
	for _, p := range []struct {
		name string
		val  float64
	}{
		{"TCN mu registered", c.MuTCNVRegSeconds},
		{"TCN sigma registered", c.SigmaTCNVRegSeconds},
		{"TCN mu unregistered", c.MuTCNVUnregSeconds},
		{"TCN sigma unregistered", c.SigmaTCNVUnregSeconds},
		{"Easypass mu", c.MuEasypassSeconds},
		{"Easypass sigma", c.SigmaEasypassSeconds},
		{"EU mu", c.MuEUSeconds},
		{"EU sigma", c.SigmaEUSeconds},
	} {
		if math.IsNaN(p.val) || math.IsInf(p.val, 0) {
			return configErrorf("%s is %v, want a finite value", p.name, p.val)
		}
	}

	if c.WalkSpeedFloorMps <= 0 || math.IsNaN(c.WalkSpeedFloorMps) || math.IsInf(c.WalkSpeedFloorMps, 0) {
		return configErrorf("walk speed floor is %v, want > 0", c.WalkSpeedFloorMps)
	}
	if c.BusCapacity < 1 {
		return configErrorf("bus capacity is %d, want >= 1", c.BusCapacity)
	}
	if c.DeboardDelayMinSeconds < 0 || c.DeboardDelayMaxSeconds < c.DeboardDelayMinSeconds {
		return configErrorf("deboard delay range [%d, %d] s is invalid", c.DeboardDelayMinSeconds, c.DeboardDelayMaxSeconds)
	}
	return nil
}
