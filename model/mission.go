package model

// Planet is the central body of a mission. Origin is always (0,0); all
// positions are expressed in kilometres relative to it.
type Planet struct {
	RadiusKm float64
	// Mu is the gravitational parameter GM in km^3/s^2.
	Mu float64
}

// LaunchPad is a fixed point on the planet surface, identified by its
// angular position from the +x axis. Pads are immutable candidate mission
// origins.
type LaunchPad struct {
	ID       string
	AngleRad float64
}

// Orbit is a circular coplanar path around the planet. AngularRate is in
// rad/s; positive rates rotate counter-clockwise. The rate is either the
// Keplerian rate derived from the planet's mu or a configured override,
// fixed at load time.
type Orbit struct {
	ID          string
	RadiusKm    float64
	AngularRate float64
}

// Satellite is bound to exactly one orbit and fully described by its
// initial phase at mission epoch t=0. Its position at any time is the
// analytic function of (orbit rate, initial phase, t); it carries no
// simulation state.
type Satellite struct {
	ID              string
	OrbitID         string
	InitialPhaseRad float64
}

// TrajectorySample is one sampled tanker position. Samples are derived
// from the analytic piecewise trajectory, never authoritative.
type TrajectorySample struct {
	T float64
	X float64
	Y float64
}
