// Passenger group assignment and routing policies.

package sim

// assignGroups draws a mix group for each of n passengers using the
// configured shares as weights. Exactly one weighted draw is consumed per
// passenger, in passenger-index order; zero-weight groups are never
// selected.
func assignGroups(cfg *SimConfig, rng *RunRNG, n int) []Group {
	weights := cfg.mixShares()
	total := 0.0
	for _, w := range weights {
		total += w
	}

	groups := make([]Group, n)
	for i := 0; i < n; i++ {
		draw := rng.Float64() * total
		cum := 0.0
		picked := false
		for gi, w := range weights {
			cum += w
			if draw < cum && w > 0 {
				groups[i] = Groups[gi]
				picked = true
				break
			}
		}
		if !picked {
			// draw == total can fall past the last bucket; assign the last
			// group with positive weight.
			for gi := len(weights) - 1; gi >= 0; gi-- {
				if weights[gi] > 0 {
					groups[i] = Groups[gi]
					break
				}
			}
		}
	}
	return groups
}

// drawEESStatus assigns a registration status for third-country passengers.
// The Bernoulli draw is consumed for every TCN passenger, including those
// later routed away from any registration-dependent station, so the random
// stream stays aligned.
func drawEESStatus(cfg *SimConfig, rng *RunRNG, g Group) EESStatus {
	if !g.RequiresRegistrationStatus() {
		return EESNone
	}
	if rng.Float64() < cfg.EESRegisteredShare {
		return EESRegistered
	}
	return EESUnregistered
}

// TCNATPolicy selects the station a TCN_AT passenger is routed to. The
// decision is made at the instant the passenger is ready to request service,
// so load-sensitive policies see the current queues.
type TCNATPolicy interface {
	Select(sim *Simulator) Station
}

// FixedTargetPolicy always routes TCN_AT passengers to one configured
// station (Easypass, EU or TCN).
type FixedTargetPolicy struct {
	Target Station
}

func (p FixedTargetPolicy) Select(sim *Simulator) Station {
	return p.Target
}

// BestOfTwoPolicy routes each TCN_AT passenger to whichever of Easypass and
// EU currently carries the lower load, measured as waiting plus in-service
// passengers per open counter. Easypass wins ties.
type BestOfTwoPolicy struct{}

func (p BestOfTwoPolicy) Select(sim *Simulator) Station {
	if stationLoad(sim.easypass) <= stationLoad(sim.eu) {
		return StationEasypass
	}
	return StationEU
}

func stationLoad(res Resource) float64 {
	capacity := res.Capacity()
	if capacity < 1 {
		capacity = 1
	}
	return float64(res.QueueLen()+res.InService()) / float64(capacity)
}

// tcnATRouting returns the configured TCN_AT policy, defaulting to a fixed
// Easypass target.
func (c *SimConfig) tcnATRouting() TCNATPolicy {
	if c.TCNATRouting != nil {
		return c.TCNATRouting
	}
	return FixedTargetPolicy{Target: StationEasypass}
}
