package sim

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssignGroups_SharesConverge(t *testing.T) {
	cfg := DefaultSimConfig()
	rng := NewRunRNG(42)
	n := 50000

	counts := make(map[Group]int)
	for _, g := range assignGroups(cfg, rng, n) {
		counts[g]++
	}

	for gi, g := range Groups {
		actual := float64(counts[g]) / float64(n)
		target := cfg.mixShares()[gi]
		if math.Abs(actual-target) > 0.01 {
			t.Errorf("group %s share = %.3f, want ≈ %.3f", g, actual, target)
		}
	}
}

func TestAssignGroups_ZeroWeightNeverSelected(t *testing.T) {
	cfg := DefaultSimConfig()
	cfg.ShareEasypass = 0
	cfg.ShareEUManual = 0.5
	cfg.ShareTCNAT = 0
	cfg.ShareTCNV = 0.5

	rng := NewRunRNG(42)
	for i, g := range assignGroups(cfg, rng, 10000) {
		if g == GroupEasypass || g == GroupTCNAT {
			t.Fatalf("passenger %d assigned zero-weight group %s", i, g)
		}
	}
}

func TestAssignGroups_SingleGroup(t *testing.T) {
	cfg := DefaultSimConfig()
	cfg.ShareEasypass = 1
	cfg.ShareEUManual = 0
	cfg.ShareTCNAT = 0
	cfg.ShareTCNV = 0

	rng := NewRunRNG(1)
	for _, g := range assignGroups(cfg, rng, 100) {
		require.Equal(t, GroupEasypass, g)
	}
}

func TestDrawEESStatus(t *testing.T) {
	cfg := DefaultSimConfig()
	rng := NewRunRNG(42)

	assert.Equal(t, EESNone, drawEESStatus(cfg, rng, GroupEasypass))
	assert.Equal(t, EESNone, drawEESStatus(cfg, rng, GroupEUManual))

	n := 20000
	registered := 0
	for i := 0; i < n; i++ {
		if drawEESStatus(cfg, rng, GroupTCNV) == EESRegistered {
			registered++
		}
	}
	share := float64(registered) / float64(n)
	if math.Abs(share-cfg.EESRegisteredShare) > 0.01 {
		t.Errorf("registered share = %.3f, want ≈ %.2f", share, cfg.EESRegisteredShare)
	}
}

func TestFixedTargetPolicy(t *testing.T) {
	p := FixedTargetPolicy{Target: StationTCN}
	assert.Equal(t, StationTCN, p.Select(nil))
}

func TestBestOfTwoPolicy_PicksLowerLoad(t *testing.T) {
	easypass := NewBoundedPool(StationEasypass, 2)
	eu := NewBoundedPool(StationEU, 2)
	s := &Simulator{sss: &DisabledResource{}, easypass: easypass, eu: eu, tcn: &DisabledResource{}}

	// Equal load: Easypass wins ties.
	assert.Equal(t, StationEasypass, BestOfTwoPolicy{}.Select(s))

	easypass.Request(s, PriorityHigh, func(now float64) {})
	easypass.Request(s, PriorityHigh, func(now float64) {})
	easypass.Request(s, PriorityHigh, func(now float64) {})
	assert.Equal(t, StationEU, BestOfTwoPolicy{}.Select(s))
}

func TestTCNATRoutingDefault(t *testing.T) {
	cfg := DefaultSimConfig()
	require.Nil(t, cfg.TCNATRouting)
	assert.Equal(t, FixedTargetPolicy{Target: StationEasypass}, cfg.tcnATRouting())

	cfg.TCNATRouting = BestOfTwoPolicy{}
	assert.Equal(t, BestOfTwoPolicy{}, cfg.tcnATRouting())
}

func TestGroupWithEES(t *testing.T) {
	r := PassengerResult{Group: GroupTCNV, EESStatus: EESRegistered}
	assert.Equal(t, "TCN_V_EES_registered", r.GroupWithEES())

	r = PassengerResult{Group: GroupTCNAT, EESStatus: EESUnregistered}
	assert.Equal(t, "TCN_AT", r.GroupWithEES())

	r = PassengerResult{Group: GroupEasypass}
	assert.Equal(t, "EASYPASS", r.GroupWithEES())
}
