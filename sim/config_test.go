package sim

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validTestConfig() *SimConfig {
	cfg := DefaultSimConfig()
	cfg.CapTCNSchedule = UniformSchedule(2)
	cfg.CapEUSchedule = UniformSchedule(3)
	return cfg
}

func TestValidate_DefaultsPass(t *testing.T) {
	assert.NoError(t, validTestConfig().Validate())
	// Nil schedules are valid: the pools just stay at zero.
	assert.NoError(t, DefaultSimConfig().Validate())
}

func TestValidate_Rejections(t *testing.T) {
	cases := map[string]func(*SimConfig){
		"shares do not sum to 1": func(c *SimConfig) { c.ShareEasypass = 0.9 },
		"negative share":         func(c *SimConfig) { c.ShareTCNV = -0.1; c.ShareEasypass = 0.74 },
		"nan share":              func(c *SimConfig) { c.ShareEUManual = math.NaN() },
		"ees share above 1":      func(c *SimConfig) { c.EESRegisteredShare = 1.5 },
		"negative sss cap":       func(c *SimConfig) { c.CapSSS = -1 },
		"negative easypass cap":  func(c *SimConfig) { c.CapEasypass = -2 },
		"bad tcn schedule key":   func(c *SimConfig) { c.CapTCNSchedule = CapacitySchedule{"bogus": 1} },
		"negative eu schedule":   func(c *SimConfig) { c.CapEUSchedule = CapacitySchedule{"06:00-06:15": -1} },
		"negative sss mean":      func(c *SimConfig) { c.MeanSSSSeconds = -1 },
		"infinite easypass max":  func(c *SimConfig) { c.MaxEasypassSeconds = math.Inf(1) },
		"nan eu mu":              func(c *SimConfig) { c.MuEUSeconds = math.NaN() },
		"zero walk floor":        func(c *SimConfig) { c.WalkSpeedFloorMps = 0 },
		"zero bus capacity":      func(c *SimConfig) { c.BusCapacity = 0 },
		"reversed deboard range": func(c *SimConfig) { c.DeboardDelayMinSeconds = 9; c.DeboardDelayMaxSeconds = 2 },
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := validTestConfig()
			mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			var cfgErr *ConfigurationError
			assert.True(t, errors.As(err, &cfgErr), "want ConfigurationError, got %T", err)
		})
	}
}

func TestValidate_NegativeMuAllowed(t *testing.T) {
	// Sub-second services have negative log-space mu; that is legitimate.
	cfg := validTestConfig()
	cfg.MuEasypassSeconds = -0.5
	assert.NoError(t, cfg.Validate())
}

func TestConfigClone_DeepCopiesSchedules(t *testing.T) {
	cfg := validTestConfig()
	cp := cfg.Clone()
	cp.CapTCNSchedule["06:00-06:15"] = 99
	cp.ShareEasypass = 0

	assert.Equal(t, 2, cfg.CapTCNSchedule["06:00-06:15"])
	assert.Equal(t, 0.49, cfg.ShareEasypass)
}

func TestNewSimulator_RejectsInvalidConfig(t *testing.T) {
	cfg := validTestConfig()
	cfg.ShareEasypass = 2.0
	_, err := NewSimulator(nil, cfg, testDay(8, 0), 1, 0)
	require.Error(t, err)
	var cfgErr *ConfigurationError
	assert.True(t, errors.As(err, &cfgErr))
}
