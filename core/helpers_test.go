package core

import (
	"math"
	"testing"

	"github.com/signalsfoundry/mission-planner/model"
)

const (
	testPlanetRadius = 6378.0
	testMu           = 398600.0
)

// within fails unless got is within tol of want.
func within(t *testing.T, name string, got, want, tol float64) {
	t.Helper()
	if math.Abs(got-want) > tol {
		t.Fatalf("%s = %g, want %g (tolerance %g)", name, got, want, tol)
	}
}

func mustRate(t *testing.T, radius float64) float64 {
	t.Helper()
	rate, err := CircularAngularRate(radius, testMu)
	if err != nil {
		t.Fatalf("CircularAngularRate(%g): %v", radius, err)
	}
	return rate
}

// twoOrbitScenario is the canonical test mission: one pad, two target
// orbits at 8000 and 11000 km, one satellite on each.
func twoOrbitScenario(t *testing.T) *Scenario {
	t.Helper()
	return &Scenario{
		Planet: model.Planet{RadiusKm: testPlanetRadius, Mu: testMu},
		Pads: []model.LaunchPad{
			{ID: "pad-1", AngleRad: 0},
		},
		Orbits: []model.Orbit{
			{ID: "orbit-a", RadiusKm: 8000, AngularRate: mustRate(t, 8000)},
			{ID: "orbit-b", RadiusKm: 11000, AngularRate: mustRate(t, 11000)},
		},
		Satellites: []model.Satellite{
			{ID: "sat-a", OrbitID: "orbit-a", InitialPhaseRad: 40 * math.Pi / 180},
			{ID: "sat-b", OrbitID: "orbit-b", InitialPhaseRad: 200 * math.Pi / 180},
		},
		TransferRadiusKm: 7000,
		RefuelDurationS:  600,
	}
}

func eventTimes(events []model.MissionEvent, kind model.EventKind) []float64 {
	var out []float64
	for _, ev := range events {
		if ev.Kind == kind {
			out = append(out, ev.Time)
		}
	}
	return out
}
