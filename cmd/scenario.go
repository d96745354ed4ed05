// Scenario file loading. A scenario is the already-normalized input of a
// run: flights, stand distances, process parameters and terminal setups.
// Raw flight-plan parsing (CSV/XLSX) happens upstream and is out of scope.

package cmd

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/flywithfelix/sim-ees/sim"
)

// Scenario is the YAML shape of a scenario file.
type Scenario struct {
	Flights []ScenarioFlight   `yaml:"flights"`
	Stands  map[string]float64 `yaml:"stands"` // stand -> walking distance (m)

	Mix struct {
		Easypass float64 `yaml:"easypass"`
		EUManual float64 `yaml:"eu_manual"`
		TCNAT    float64 `yaml:"tcn_at"`
		TCNV     float64 `yaml:"tcn_v"`
	} `yaml:"mix"`

	EESRegisteredShare *float64 `yaml:"ees_registered_share"`
	TCNATTarget        string   `yaml:"tcn_at_target"` // EASYPASS|EU|TCN|BEST_OF_TWO

	Terminals []ScenarioTerminal `yaml:"terminals"`

	// Static schedules for plain `run` invocations. The optimize command
	// builds its own uniform starting schedules instead.
	CapTCNSchedule map[string]int `yaml:"cap_tcn_schedule"`
	CapEUSchedule  map[string]int `yaml:"cap_eu_schedule"`
}

// ScenarioFlight is one normalized flight record.
type ScenarioFlight struct {
	Key        string    `yaml:"key"`
	Number     string    `yaml:"number"`
	Stand      string    `yaml:"stand"`
	Terminal   string    `yaml:"terminal"`
	BlockIn    time.Time `yaml:"block_in"`
	Passengers int       `yaml:"passengers"`
}

// ScenarioTerminal is one terminal's station setup and capacity bounds.
type ScenarioTerminal struct {
	Name        string `yaml:"name"`
	SSSEnabled  bool   `yaml:"sss_enabled"`
	CapSSS      int    `yaml:"cap_sss"`
	CapEasypass int    `yaml:"cap_easypass"`

	MinTCNCapacity int `yaml:"min_tcn_capacity"`
	MaxTCNCapacity int `yaml:"max_tcn_capacity"`
	MinEUCapacity  int `yaml:"min_eu_capacity"`
	MaxEUCapacity  int `yaml:"max_eu_capacity"`
}

// LoadScenario reads and decodes a scenario file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("parse scenario %s: %w", path, err)
	}
	return &sc, nil
}

// SimFlights converts the scenario flights into engine records, preserving
// order.
func (sc *Scenario) SimFlights() []sim.Flight {
	flights := make([]sim.Flight, 0, len(sc.Flights))
	for i, f := range sc.Flights {
		key := f.Key
		if key == "" {
			key = fmt.Sprintf("%s_%s_%s_%d", f.BlockIn.Format("20060102-1504"), f.Stand, f.Number, i)
		}
		flights = append(flights, sim.Flight{
			Key:        key,
			Number:     f.Number,
			Stand:      f.Stand,
			Terminal:   f.Terminal,
			BlockIn:    f.BlockIn,
			Passengers: f.Passengers,
		})
	}
	return flights
}

// BuildConfig turns the scenario into a SimConfig based on the standard
// defaults. Mix shares of all zero keep the defaults.
func (sc *Scenario) BuildConfig() (*sim.SimConfig, error) {
	cfg := sim.DefaultSimConfig()
	cfg.Stands = sim.StandDistances(sc.Stands)

	if sc.Mix.Easypass+sc.Mix.EUManual+sc.Mix.TCNAT+sc.Mix.TCNV > 0 {
		cfg.ShareEasypass = sc.Mix.Easypass
		cfg.ShareEUManual = sc.Mix.EUManual
		cfg.ShareTCNAT = sc.Mix.TCNAT
		cfg.ShareTCNV = sc.Mix.TCNV
	}
	if sc.EESRegisteredShare != nil {
		cfg.EESRegisteredShare = *sc.EESRegisteredShare
	}
	if sc.CapTCNSchedule != nil {
		cfg.CapTCNSchedule = sim.CapacitySchedule(sc.CapTCNSchedule)
	}
	if sc.CapEUSchedule != nil {
		cfg.CapEUSchedule = sim.CapacitySchedule(sc.CapEUSchedule)
	}

	switch sc.TCNATTarget {
	case "", "EASYPASS":
		cfg.TCNATRouting = sim.FixedTargetPolicy{Target: sim.StationEasypass}
	case "EU":
		cfg.TCNATRouting = sim.FixedTargetPolicy{Target: sim.StationEU}
	case "TCN":
		cfg.TCNATRouting = sim.FixedTargetPolicy{Target: sim.StationTCN}
	case "BEST_OF_TWO":
		cfg.TCNATRouting = sim.BestOfTwoPolicy{}
	default:
		return nil, fmt.Errorf("unknown tcn_at_target %q", sc.TCNATTarget)
	}
	return cfg, nil
}

// TerminalPlans builds the controller's terminal plans, splitting scenario
// flights by terminal.
func (sc *Scenario) TerminalPlans() []sim.TerminalPlan {
	byTerminal := sim.SplitByTerminal(sc.SimFlights())
	plans := make([]sim.TerminalPlan, 0, len(sc.Terminals))
	for _, t := range sc.Terminals {
		plans = append(plans, sim.TerminalPlan{
			Name:           t.Name,
			Flights:        byTerminal[t.Name],
			SSSEnabled:     t.SSSEnabled,
			CapSSS:         t.CapSSS,
			CapEasypass:    t.CapEasypass,
			MinTCNCapacity: t.MinTCNCapacity,
			MaxTCNCapacity: t.MaxTCNCapacity,
			MinEUCapacity:  t.MinEUCapacity,
			MaxEUCapacity:  t.MaxEUCapacity,
		})
	}
	return plans
}
