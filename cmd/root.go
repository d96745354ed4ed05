package cmd

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/flywithfelix/sim-ees/sim"
)

var (
	// CLI flags shared by the subcommands.
	scenarioPath string  // Path to the YAML scenario file
	seed         int64   // Seed for the run-scoped random stream
	horizonMin   float64 // Optional explicit horizon (simulated minutes)
	logLevel     string  // Log verbosity level

	// Capacity search flags.
	serviceLevel  string  // Named service-level preset (SL1..SL4)
	serviceTarget float64 // Explicit target in minutes; overrides the preset
	maxIterations int     // Iteration cap of the capacity search
)

// rootCmd is the base command for the CLI.
var rootCmd = &cobra.Command{
	Use:   "sim-ees",
	Short: "Discrete-event simulator for airport border-control processes",
}

func setupLogging() {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		logrus.Fatalf("Invalid log level: %s", logLevel)
	}
	logrus.SetLevel(level)
}

// runCmd executes a single simulation per terminal with the scenario's
// static capacity schedules.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one simulation of the configured scenario",
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()

		sc, err := LoadScenario(scenarioPath)
		if err != nil {
			logrus.Fatalf("Could not load scenario: %v", err)
		}
		cfg, err := sc.BuildConfig()
		if err != nil {
			logrus.Fatalf("Invalid scenario: %v", err)
		}

		flights := sc.SimFlights()
		t0, ok := sim.EarliestBlockIn(flights)
		if !ok {
			logrus.Fatalf("Scenario has no flights")
		}

		for _, plan := range sc.TerminalPlans() {
			runCfg := cfg.Clone()
			runCfg.SSSEnabled = plan.SSSEnabled
			runCfg.CapSSS = plan.CapSSS
			runCfg.CapEasypass = plan.CapEasypass
			if runCfg.CapTCNSchedule == nil {
				runCfg.CapTCNSchedule = sim.UniformSchedule(plan.MinTCNCapacity)
			}
			if runCfg.CapEUSchedule == nil {
				runCfg.CapEUSchedule = sim.UniformSchedule(plan.MinEUCapacity)
			}

			s, err := sim.NewSimulator(plan.Flights, runCfg, t0, seed, horizonMin)
			if err != nil {
				logrus.Fatalf("Terminal %s: %v", plan.Name, err)
			}
			s.Run()
			sim.Summarize(s.Results, s.Snapshots, runCfg).Print(plan.Name)
		}
	},
}

// optimizeCmd runs the iterative capacity search.
var optimizeCmd = &cobra.Command{
	Use:   "optimize",
	Short: "Search the minimum capacity schedules meeting the service level",
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()

		sc, err := LoadScenario(scenarioPath)
		if err != nil {
			logrus.Fatalf("Could not load scenario: %v", err)
		}
		cfg, err := sc.BuildConfig()
		if err != nil {
			logrus.Fatalf("Invalid scenario: %v", err)
		}

		target := serviceTarget
		if target <= 0 {
			preset, ok := sim.ServiceLevelPresets[serviceLevel]
			if !ok {
				logrus.Fatalf("Unknown service level %q", serviceLevel)
			}
			target = preset
		}

		result, err := sim.RunCapacitySearch(sim.ControllerConfig{
			Base:            cfg,
			Terminals:       sc.TerminalPlans(),
			ServiceLevelMin: target,
			MaxIterations:   maxIterations,
			Seed:            seed,
			HorizonMin:      horizonMin,
		})
		if err != nil {
			logrus.Fatalf("Capacity search failed: %v", err)
		}

		logrus.Infof("capacity search finished: %s after %d iteration(s)", result.Status, result.Iterations)
		for _, outcome := range result.Outcomes {
			outcome.Print()
			sim.Summarize(outcome.Results, outcome.Snapshots, cfg).Print(outcome.Name)
		}
	},
}

// Execute runs the CLI root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands.
func init() {
	for _, c := range []*cobra.Command{runCmd, optimizeCmd} {
		c.Flags().StringVar(&scenarioPath, "scenario", "scenario.yaml", "Path to the scenario YAML file")
		c.Flags().Int64Var(&seed, "seed", 42, "Seed for the run random stream")
		c.Flags().Float64Var(&horizonMin, "horizon", 0, "Simulation horizon in minutes (0 = derived from flights)")
		c.Flags().StringVar(&logLevel, "log", "info", "Log level (trace, debug, info, warn, error, fatal, panic)")
	}

	optimizeCmd.Flags().StringVar(&serviceLevel, "service-level", "SL2", "Service level preset (SL1, SL2, SL3, SL4)")
	optimizeCmd.Flags().Float64Var(&serviceTarget, "service-target", 0, "Explicit service target in minutes (overrides --service-level)")
	optimizeCmd.Flags().IntVar(&maxIterations, "max-iterations", 20, "Maximum capacity search iterations")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(optimizeCmd)
}
