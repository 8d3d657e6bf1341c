package core

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"sort"

	"github.com/signalsfoundry/mission-planner/model"
)

// DefaultRefuelDurationSeconds is the dwell applied per serviced satellite
// when the configuration does not override it.
const DefaultRefuelDurationSeconds = 600.0

// Scenario is a validated, immutable mission configuration. Orbits are
// sorted by strictly increasing radius; satellite orbit references are
// resolved. One Scenario is shared read-only by all pad evaluations.
type Scenario struct {
	Planet           model.Planet
	Pads             []model.LaunchPad
	Orbits           []model.Orbit
	Satellites       []model.Satellite
	TransferRadiusKm float64
	RefuelDurationS  float64
	SampleStepS      float64 // 0 = derive from mission duration
}

// internal JSON shapes - unexported so the wire format can evolve freely.
type missionConfigJSON struct {
	Planet                 planetJSON      `json:"planet"`
	Launchpads             []launchpadJSON `json:"launchpads"`
	Orbits                 []orbitJSON     `json:"orbits"`
	Satellites             []satelliteJSON `json:"satellites"`
	TransferOrbitRadiusKm  *float64        `json:"transferOrbitRadiusKm"`
	RefuelDurationSeconds  *float64        `json:"refuelDurationSeconds"`
	SampleStepSeconds      *float64        `json:"sampleStepSeconds"`
}

type planetJSON struct {
	Radius float64 `json:"radius"`
	Mu     float64 `json:"mu"`
}

type launchpadJSON struct {
	ID           string  `json:"id"`
	AngleDegrees float64 `json:"angleDegrees"`
}

type orbitJSON struct {
	ID       string   `json:"id"`
	RadiusKm float64  `json:"radiusKm"`
	// Optional linear speed override in km/s; converted to an angular
	// rate and preferred over the Keplerian rate when present.
	SpeedKmPerS *float64 `json:"speedKmPerS"`
}

type satelliteJSON struct {
	ID                  string  `json:"id"`
	OrbitID             string  `json:"orbitId"`
	InitialAngleDegrees float64 `json:"initialAngleDegrees"`
}

// LoadScenario decodes a Mission Configuration from r and validates it.
// All violations fail fast with InvalidConfigurationError before any
// trajectory computation.
func LoadScenario(r io.Reader) (*Scenario, error) {
	var cfg missionConfigJSON
	dec := json.NewDecoder(r)
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode mission configuration: %w", err)
	}
	return buildScenario(&cfg)
}

func buildScenario(cfg *missionConfigJSON) (*Scenario, error) {
	if cfg.Planet.Radius <= 0 {
		return nil, invalidConfigf("planet radius must be positive, got %g", cfg.Planet.Radius)
	}
	if cfg.Planet.Mu <= 0 {
		return nil, invalidConfigf("planet mu must be positive, got %g", cfg.Planet.Mu)
	}
	if len(cfg.Launchpads) == 0 {
		return nil, invalidConfigf("at least one launchpad is required")
	}
	if len(cfg.Orbits) == 0 {
		return nil, invalidConfigf("at least one orbit is required")
	}
	if len(cfg.Satellites) == 0 {
		return nil, invalidConfigf("at least one satellite is required")
	}

	scn := &Scenario{
		Planet:          model.Planet{RadiusKm: cfg.Planet.Radius, Mu: cfg.Planet.Mu},
		RefuelDurationS: DefaultRefuelDurationSeconds,
	}

	padIDs := make(map[string]struct{}, len(cfg.Launchpads))
	for _, p := range cfg.Launchpads {
		if p.ID == "" {
			return nil, invalidConfigf("launchpad with empty id")
		}
		if _, dup := padIDs[p.ID]; dup {
			return nil, invalidConfigf("duplicate launchpad id %q", p.ID)
		}
		padIDs[p.ID] = struct{}{}
		if p.AngleDegrees < 0 || p.AngleDegrees >= 360 {
			return nil, invalidConfigf("launchpad %q angle %g outside [0,360)", p.ID, p.AngleDegrees)
		}
		scn.Pads = append(scn.Pads, model.LaunchPad{
			ID:       p.ID,
			AngleRad: p.AngleDegrees * math.Pi / 180,
		})
	}

	orbitIDs := make(map[string]struct{}, len(cfg.Orbits))
	for _, o := range cfg.Orbits {
		if o.ID == "" {
			return nil, invalidConfigf("orbit with empty id")
		}
		if _, dup := orbitIDs[o.ID]; dup {
			return nil, invalidConfigf("duplicate orbit id %q", o.ID)
		}
		orbitIDs[o.ID] = struct{}{}
		if o.RadiusKm <= 0 {
			return nil, invalidConfigf("orbit %q radius must be positive, got %g", o.ID, o.RadiusKm)
		}
		if o.RadiusKm <= cfg.Planet.Radius {
			return nil, invalidConfigf("orbit %q radius %g must exceed planet radius %g", o.ID, o.RadiusKm, cfg.Planet.Radius)
		}

		rate, err := CircularAngularRate(o.RadiusKm, cfg.Planet.Mu)
		if err != nil {
			return nil, invalidConfigf("orbit %q: %v", o.ID, err)
		}
		if o.SpeedKmPerS != nil {
			v := *o.SpeedKmPerS
			if v < 0 {
				return nil, invalidConfigf("orbit %q speed override must be non-negative, got %g", o.ID, v)
			}
			rate = v / o.RadiusKm
		}
		scn.Orbits = append(scn.Orbits, model.Orbit{
			ID:          o.ID,
			RadiusKm:    o.RadiusKm,
			AngularRate: rate,
		})
	}

	sort.Slice(scn.Orbits, func(i, j int) bool { return scn.Orbits[i].RadiusKm < scn.Orbits[j].RadiusKm })
	for i := 1; i < len(scn.Orbits); i++ {
		if scn.Orbits[i].RadiusKm == scn.Orbits[i-1].RadiusKm {
			return nil, invalidConfigf("orbits %q and %q share radius %g; radii must be strictly increasing",
				scn.Orbits[i-1].ID, scn.Orbits[i].ID, scn.Orbits[i].RadiusKm)
		}
	}

	satIDs := make(map[string]struct{}, len(cfg.Satellites))
	for _, s := range cfg.Satellites {
		if s.ID == "" {
			return nil, invalidConfigf("satellite with empty id")
		}
		if _, dup := satIDs[s.ID]; dup {
			return nil, invalidConfigf("duplicate satellite id %q", s.ID)
		}
		satIDs[s.ID] = struct{}{}
		if _, ok := orbitIDs[s.OrbitID]; !ok {
			return nil, invalidConfigf("satellite %q references unknown orbit %q", s.ID, s.OrbitID)
		}
		if s.InitialAngleDegrees < 0 || s.InitialAngleDegrees >= 360 {
			return nil, invalidConfigf("satellite %q initial angle %g outside [0,360)", s.ID, s.InitialAngleDegrees)
		}
		scn.Satellites = append(scn.Satellites, model.Satellite{
			ID:              s.ID,
			OrbitID:         s.OrbitID,
			InitialPhaseRad: s.InitialAngleDegrees * math.Pi / 180,
		})
	}

	lowest := scn.Orbits[0].RadiusKm
	if cfg.TransferOrbitRadiusKm != nil {
		tr := *cfg.TransferOrbitRadiusKm
		if tr <= cfg.Planet.Radius || tr >= lowest {
			return nil, invalidConfigf("transfer orbit radius %g must lie strictly between planet radius %g and lowest orbit %g",
				tr, cfg.Planet.Radius, lowest)
		}
		scn.TransferRadiusKm = tr
	} else {
		// Default staging orbit: 90% of the way from the surface to the
		// lowest target orbit.
		scn.TransferRadiusKm = cfg.Planet.Radius + 0.9*(lowest-cfg.Planet.Radius)
	}

	if cfg.RefuelDurationSeconds != nil {
		if *cfg.RefuelDurationSeconds < 0 {
			return nil, invalidConfigf("refuel duration must be non-negative, got %g", *cfg.RefuelDurationSeconds)
		}
		scn.RefuelDurationS = *cfg.RefuelDurationSeconds
	}
	if cfg.SampleStepSeconds != nil {
		if *cfg.SampleStepSeconds <= 0 {
			return nil, invalidConfigf("sample step must be positive, got %g", *cfg.SampleStepSeconds)
		}
		scn.SampleStepS = *cfg.SampleStepSeconds
	}

	return scn, nil
}

// satellitesOn returns the satellites bound to the given orbit, ordered by
// id for deterministic sequencing.
func (s *Scenario) satellitesOn(orbitID string) []model.Satellite {
	var out []model.Satellite
	for _, sat := range s.Satellites {
		if sat.OrbitID == orbitID {
			out = append(out, sat)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// fastestLinearSpeed returns the largest linear speed (km/s) reachable in
// the scenario, used as a continuity sanity bound for sampled output.
func (s *Scenario) fastestLinearSpeed() float64 {
	max := 0.0
	consider := func(r, rate float64) {
		if v := math.Abs(rate) * r; v > max {
			max = v
		}
	}
	tRate, _ := CircularAngularRate(s.TransferRadiusKm, s.Planet.Mu)
	consider(s.TransferRadiusKm, tRate)
	for _, o := range s.Orbits {
		consider(o.RadiusKm, o.AngularRate)
		// Transfer-ellipse perigee speed from the surface is the fastest
		// point of any leg.
		if dv1, _, err := HohmannDeltaV(s.Planet.RadiusKm, o.RadiusKm, s.Planet.Mu); err == nil {
			surface := math.Sqrt(s.Planet.Mu / s.Planet.RadiusKm)
			if v := surface + dv1; v > max {
				max = v
			}
		}
	}
	return max
}
