package core

import "math"

// The kernel works in a single consistent unit system: kilometres,
// seconds, radians. Angular rates follow the angular convention
// omega = sqrt(mu / r^3); positive rates are counter-clockwise. Linear
// speeds appear only inside the delta-v formulas.

const twoPi = 2 * math.Pi

// CircularAngularRate returns the Keplerian angular rate (rad/s) of a body
// on a circular orbit of the given radius.
func CircularAngularRate(radiusKm, mu float64) (float64, error) {
	if radiusKm <= 0 {
		return 0, &InvalidParameterError{Param: "radius", Value: radiusKm}
	}
	if mu <= 0 {
		return 0, &InvalidParameterError{Param: "mu", Value: mu}
	}
	return math.Sqrt(mu / (radiusKm * radiusKm * radiusKm)), nil
}

// HohmannTransferTime returns the one-way duration of a Hohmann transfer
// between circular orbits of radii r1 and r2: half the period of the
// transfer ellipse with semi-major axis (r1+r2)/2. r1 == r2 is the
// degenerate zero-duration case.
func HohmannTransferTime(r1, r2, mu float64) (float64, error) {
	if r1 <= 0 {
		return 0, &InvalidParameterError{Param: "r1", Value: r1}
	}
	if r2 <= 0 {
		return 0, &InvalidParameterError{Param: "r2", Value: r2}
	}
	if mu <= 0 {
		return 0, &InvalidParameterError{Param: "mu", Value: mu}
	}
	if r1 == r2 {
		return 0, nil
	}
	a := (r1 + r2) / 2
	return math.Pi * math.Sqrt(a*a*a/mu), nil
}

// HohmannDeltaV returns the two impulsive burns of a Hohmann transfer from
// r1 to r2, both as magnitudes. The sum is symmetric with the return trip.
func HohmannDeltaV(r1, r2, mu float64) (dv1, dv2 float64, err error) {
	if r1 <= 0 {
		return 0, 0, &InvalidParameterError{Param: "r1", Value: r1}
	}
	if r2 <= 0 {
		return 0, 0, &InvalidParameterError{Param: "r2", Value: r2}
	}
	if mu <= 0 {
		return 0, 0, &InvalidParameterError{Param: "mu", Value: mu}
	}
	if r1 == r2 {
		return 0, 0, nil
	}
	a := (r1 + r2) / 2
	v1 := math.Sqrt(mu / r1)
	v2 := math.Sqrt(mu / r2)
	vDepart := math.Sqrt(mu * (2/r1 - 1/a))
	vArrive := math.Sqrt(mu * (2/r2 - 1/a))
	return math.Abs(vDepart - v1), math.Abs(v2 - vArrive), nil
}

// PositionOnCircle evaluates the analytic circular-orbit position at time
// t for a body with the given initial phase and angular rate.
func PositionOnCircle(radiusKm, angularRate, initialPhase, t float64) (x, y float64) {
	theta := initialPhase + angularRate*t
	return radiusKm * math.Cos(theta), radiusKm * math.Sin(theta)
}

// normalizeAngle folds an angle into [0, 2*pi).
func normalizeAngle(a float64) float64 {
	a = math.Mod(a, twoPi)
	if a < 0 {
		a += twoPi
	}
	return a
}
