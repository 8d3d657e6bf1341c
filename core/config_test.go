package core

import (
	"errors"
	"math"
	"strings"
	"testing"
)

const validConfig = `
{
  "planet": { "radius": 6378, "mu": 398600 },
  "launchpads": [
    { "id": "pad-1", "angleDegrees": 0 },
    { "id": "pad-2", "angleDegrees": 180 }
  ],
  "orbits": [
    { "id": "orbit-high", "radiusKm": 11000 },
    { "id": "orbit-low", "radiusKm": 8000 }
  ],
  "satellites": [
    { "id": "sat-1", "orbitId": "orbit-low", "initialAngleDegrees": 40 },
    { "id": "sat-2", "orbitId": "orbit-high", "initialAngleDegrees": 200 }
  ]
}
`

func TestLoadScenarioDefaults(t *testing.T) {
	scn, err := LoadScenario(strings.NewReader(validConfig))
	if err != nil {
		t.Fatalf("LoadScenario returned error: %v", err)
	}

	if len(scn.Pads) != 2 || len(scn.Orbits) != 2 || len(scn.Satellites) != 2 {
		t.Fatalf("unexpected scenario shape: %d pads, %d orbits, %d satellites",
			len(scn.Pads), len(scn.Orbits), len(scn.Satellites))
	}

	// Orbits come out sorted by radius regardless of input order.
	if scn.Orbits[0].ID != "orbit-low" || scn.Orbits[1].ID != "orbit-high" {
		t.Fatalf("orbits not sorted by radius: %s, %s", scn.Orbits[0].ID, scn.Orbits[1].ID)
	}

	// Default staging orbit sits 90% of the way to the lowest target.
	wantTransfer := 6378 + 0.9*(8000-6378)
	within(t, "transfer radius", scn.TransferRadiusKm, wantTransfer, 1e-9)

	if scn.RefuelDurationS != DefaultRefuelDurationSeconds {
		t.Fatalf("refuel duration = %g, want default %g", scn.RefuelDurationS, DefaultRefuelDurationSeconds)
	}

	// Angles converted to radians.
	within(t, "pad-2 angle", scn.Pads[1].AngleRad, math.Pi, 1e-12)

	// Keplerian rate applied when no speed override is present.
	within(t, "orbit-low rate", scn.Orbits[0].AngularRate, mustRate(t, 8000), 1e-15)
}

func TestLoadScenarioSpeedOverride(t *testing.T) {
	cfg := `
{
  "planet": { "radius": 6378, "mu": 398600 },
  "launchpads": [ { "id": "pad-1", "angleDegrees": 0 } ],
  "orbits": [ { "id": "orbit-a", "radiusKm": 8000, "speedKmPerS": 4.0 } ],
  "satellites": [ { "id": "sat-1", "orbitId": "orbit-a", "initialAngleDegrees": 0 } ]
}
`
	scn, err := LoadScenario(strings.NewReader(cfg))
	if err != nil {
		t.Fatalf("LoadScenario returned error: %v", err)
	}
	within(t, "overridden rate", scn.Orbits[0].AngularRate, 4.0/8000, 1e-15)
}

func TestLoadScenarioOverrides(t *testing.T) {
	cfg := `
{
  "planet": { "radius": 6378, "mu": 398600 },
  "launchpads": [ { "id": "pad-1", "angleDegrees": 0 } ],
  "orbits": [ { "id": "orbit-a", "radiusKm": 8000 } ],
  "satellites": [ { "id": "sat-1", "orbitId": "orbit-a", "initialAngleDegrees": 0 } ],
  "transferOrbitRadiusKm": 7000,
  "refuelDurationSeconds": 120,
  "sampleStepSeconds": 5
}
`
	scn, err := LoadScenario(strings.NewReader(cfg))
	if err != nil {
		t.Fatalf("LoadScenario returned error: %v", err)
	}
	within(t, "transfer radius", scn.TransferRadiusKm, 7000, 0)
	within(t, "refuel duration", scn.RefuelDurationS, 120, 0)
	within(t, "sample step", scn.SampleStepS, 5, 0)
}

func TestLoadScenarioRejectsInvalid(t *testing.T) {
	cases := []struct {
		name string
		cfg  string
	}{
		{"zero planet radius", `{"planet":{"radius":0,"mu":398600},"launchpads":[{"id":"p","angleDegrees":0}],"orbits":[{"id":"o","radiusKm":8000}],"satellites":[{"id":"s","orbitId":"o","initialAngleDegrees":0}]}`},
		{"zero mu", `{"planet":{"radius":6378,"mu":0},"launchpads":[{"id":"p","angleDegrees":0}],"orbits":[{"id":"o","radiusKm":8000}],"satellites":[{"id":"s","orbitId":"o","initialAngleDegrees":0}]}`},
		{"no pads", `{"planet":{"radius":6378,"mu":398600},"launchpads":[],"orbits":[{"id":"o","radiusKm":8000}],"satellites":[{"id":"s","orbitId":"o","initialAngleDegrees":0}]}`},
		{"no orbits", `{"planet":{"radius":6378,"mu":398600},"launchpads":[{"id":"p","angleDegrees":0}],"orbits":[],"satellites":[{"id":"s","orbitId":"o","initialAngleDegrees":0}]}`},
		{"no satellites", `{"planet":{"radius":6378,"mu":398600},"launchpads":[{"id":"p","angleDegrees":0}],"orbits":[{"id":"o","radiusKm":8000}],"satellites":[]}`},
		{"duplicate pad id", `{"planet":{"radius":6378,"mu":398600},"launchpads":[{"id":"p","angleDegrees":0},{"id":"p","angleDegrees":90}],"orbits":[{"id":"o","radiusKm":8000}],"satellites":[{"id":"s","orbitId":"o","initialAngleDegrees":0}]}`},
		{"pad angle 360", `{"planet":{"radius":6378,"mu":398600},"launchpads":[{"id":"p","angleDegrees":360}],"orbits":[{"id":"o","radiusKm":8000}],"satellites":[{"id":"s","orbitId":"o","initialAngleDegrees":0}]}`},
		{"orbit below surface", `{"planet":{"radius":6378,"mu":398600},"launchpads":[{"id":"p","angleDegrees":0}],"orbits":[{"id":"o","radiusKm":6000}],"satellites":[{"id":"s","orbitId":"o","initialAngleDegrees":0}]}`},
		{"duplicate orbit radius", `{"planet":{"radius":6378,"mu":398600},"launchpads":[{"id":"p","angleDegrees":0}],"orbits":[{"id":"o1","radiusKm":8000},{"id":"o2","radiusKm":8000}],"satellites":[{"id":"s","orbitId":"o1","initialAngleDegrees":0}]}`},
		{"unknown orbit ref", `{"planet":{"radius":6378,"mu":398600},"launchpads":[{"id":"p","angleDegrees":0}],"orbits":[{"id":"o","radiusKm":8000}],"satellites":[{"id":"s","orbitId":"nope","initialAngleDegrees":0}]}`},
		{"satellite angle negative", `{"planet":{"radius":6378,"mu":398600},"launchpads":[{"id":"p","angleDegrees":0}],"orbits":[{"id":"o","radiusKm":8000}],"satellites":[{"id":"s","orbitId":"o","initialAngleDegrees":-10}]}`},
		{"negative speed override", `{"planet":{"radius":6378,"mu":398600},"launchpads":[{"id":"p","angleDegrees":0}],"orbits":[{"id":"o","radiusKm":8000,"speedKmPerS":-1}],"satellites":[{"id":"s","orbitId":"o","initialAngleDegrees":0}]}`},
		{"transfer radius above lowest orbit", `{"planet":{"radius":6378,"mu":398600},"launchpads":[{"id":"p","angleDegrees":0}],"orbits":[{"id":"o","radiusKm":8000}],"satellites":[{"id":"s","orbitId":"o","initialAngleDegrees":0}],"transferOrbitRadiusKm":9000}`},
		{"negative refuel duration", `{"planet":{"radius":6378,"mu":398600},"launchpads":[{"id":"p","angleDegrees":0}],"orbits":[{"id":"o","radiusKm":8000}],"satellites":[{"id":"s","orbitId":"o","initialAngleDegrees":0}],"refuelDurationSeconds":-5}`},
		{"zero sample step", `{"planet":{"radius":6378,"mu":398600},"launchpads":[{"id":"p","angleDegrees":0}],"orbits":[{"id":"o","radiusKm":8000}],"satellites":[{"id":"s","orbitId":"o","initialAngleDegrees":0}],"sampleStepSeconds":0}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := LoadScenario(strings.NewReader(tc.cfg))
			var invalid *InvalidConfigurationError
			if !errors.As(err, &invalid) {
				t.Fatalf("expected InvalidConfigurationError, got %v", err)
			}
		})
	}
}

func TestSatellitesOnSortsByID(t *testing.T) {
	scn, err := LoadScenario(strings.NewReader(`
{
  "planet": { "radius": 6378, "mu": 398600 },
  "launchpads": [ { "id": "pad-1", "angleDegrees": 0 } ],
  "orbits": [ { "id": "orbit-a", "radiusKm": 8000 } ],
  "satellites": [
    { "id": "sat-z", "orbitId": "orbit-a", "initialAngleDegrees": 10 },
    { "id": "sat-a", "orbitId": "orbit-a", "initialAngleDegrees": 20 }
  ]
}
`))
	if err != nil {
		t.Fatalf("LoadScenario returned error: %v", err)
	}
	sats := scn.satellitesOn("orbit-a")
	if len(sats) != 2 || sats[0].ID != "sat-a" || sats[1].ID != "sat-z" {
		t.Fatalf("satellitesOn not sorted by id: %+v", sats)
	}
	if got := scn.satellitesOn("missing"); len(got) != 0 {
		t.Fatalf("satellitesOn(missing) = %+v, want empty", got)
	}
}
