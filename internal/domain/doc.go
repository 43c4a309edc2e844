// Package domain models the fuzzy flight-risk assessment.
//
// # Inputs
//
// A [Reading] carries up to six flight-condition measurements keyed by
// [Factor]:
//
//	speed         knots
//	acceleration  rate of speed change
//	temperature   outside air temperature, °C
//	humidity      relative humidity, %
//	wind_speed    current wind speed
//	visibility    visibility distance, km
//
// Readings may be partial. Factors absent from a reading are skipped by the
// engine and do not appear in the result.
//
// # Fuzzy Model
//
// Each factor has three triangular fuzzy sets named low, medium, and high.
// A [Triangle] (a, b, c) rises linearly from 0 at a to 1 at b and falls back
// to 0 at c. The sets of one factor overlap so that no interior point of the
// universe is left uncovered, but their degrees are not required to sum to 1.
//
// Values outside a factor's universe are not clamped. Beyond the outer
// breakpoints every set evaluates to 0, so the factor contributes no risk.
//
// # Scoring
//
// The memberships of one factor collapse to a crisp risk using fixed anchors
// per linguistic class:
//
//	risk = low*0.2 + medium*0.5 + high*0.8
//
// The crisp risks are combined with the registry weights (which sum to 1):
//
//	total = Σ risk_f * weight_f        over factors present in the reading
//	score = round(total * 100)         half away from zero
//
// Missing factors are dropped rather than renormalized, so a partial reading
// is scored against a total weight below 1.
//
// Levels:
//
//	score ≤ 30       low
//	31 ≤ score ≤ 70  medium
//	score > 70       high
//
// The engine is a pure function of the reading and the immutable [Registry];
// assessments may run concurrently without coordination.
package domain
