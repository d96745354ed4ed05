// Bounded random duration draws. All service times and walking speeds come
// through these samplers so that one run consumes its random stream in a
// fixed, reproducible order.

package sim

import "math"

// DefaultDurationFloor is the minimum value (in seconds) any sampled
// service duration can take.
const DefaultDurationFloor = 0.05

// BoundedGaussian draws N(mean, sd) clamped below to floor.
func BoundedGaussian(rng *RunRNG, mean, sd, floor float64) float64 {
	return math.Max(floor, rng.NormFloat64()*sd+mean)
}

// BoundedLogNormal draws from a log-normal distribution parameterized in
// log-space and clamps the result to [floor, cap].
//
// sigma <= 0 degenerates to the deterministic value exp(mu), still clamped
// to the same bounds. No draw is consumed in that case; this mirrors a
// single-spike distribution and is not an error.
func BoundedLogNormal(rng *RunRNG, mu, sigma, capVal, floor float64) float64 {
	if sigma <= 0 {
		return math.Min(capVal, math.Max(floor, math.Exp(mu)))
	}
	val := math.Exp(rng.NormFloat64()*sigma + mu)
	return math.Min(capVal, math.Max(floor, val))
}

// walkTimeMin samples a walking duration in minutes for the given distance.
// The speed draw is floored so a passenger never walks slower than the
// configured minimum speed.
func walkTimeMin(cfg *SimConfig, rng *RunRNG, distanceM float64) float64 {
	speed := math.Max(cfg.WalkSpeedFloorMps, rng.NormFloat64()*cfg.WalkSpeedSdMps+cfg.WalkSpeedMeanMps)
	return distanceM / speed / 60.0
}

// serviceTimeMin samples a service duration in minutes for one passenger at
// one station. Distribution parameters are configured in seconds.
func serviceTimeMin(cfg *SimConfig, rng *RunRNG, station Station, group Group, ees EESStatus) float64 {
	switch station {
	case StationSSS:
		return BoundedGaussian(rng, cfg.MeanSSSSeconds, cfg.SdSSSSeconds, DefaultDurationFloor) / 60.0

	case StationEasypass:
		return BoundedLogNormal(rng, cfg.MuEasypassSeconds, cfg.SigmaEasypassSeconds, cfg.MaxEasypassSeconds, DefaultDurationFloor) / 60.0

	case StationEU:
		return BoundedLogNormal(rng, cfg.MuEUSeconds, cfg.SigmaEUSeconds, cfg.MaxEUSeconds, DefaultDurationFloor) / 60.0

	case StationTCN:
		if ees == EESRegistered {
			return BoundedLogNormal(rng, cfg.MuTCNVRegSeconds, cfg.SigmaTCNVRegSeconds, cfg.MaxTCNVSeconds, DefaultDurationFloor) / 60.0
		}
		return BoundedLogNormal(rng, cfg.MuTCNVUnregSeconds, cfg.SigmaTCNVUnregSeconds, cfg.MaxTCNVSeconds, DefaultDurationFloor) / 60.0
	}
	panic("serviceTimeMin: unknown station " + string(station))
}
