package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/signalsfoundry/mission-planner/internal/logging"
	"github.com/signalsfoundry/mission-planner/model"
)

// MissionPlan is the full evaluation of one launch pad: the piecewise
// analytic trajectory of the tanker, the ordered event timeline, and the
// delta-v budget accumulated across all burns.
type MissionPlan struct {
	PadID    string
	PadIndex int
	Duration float64
	Path     *Path
	Events   []model.MissionEvent

	// TotalDeltaV sums every impulsive burn (km/s); diagnostic only.
	TotalDeltaV float64
}

// missionState is the single mutable value threaded through one Plan call.
// It is owned by that call stack; nothing is shared across evaluations.
type missionState struct {
	time   float64
	radius float64
	rate   float64
	phase  float64

	path   Path
	events []model.MissionEvent
	deltaV float64
}

func (st *missionState) emit(t float64, kind model.EventKind, format string, args ...interface{}) {
	st.events = append(st.events, model.MissionEvent{
		Time:        t,
		Kind:        kind,
		Description: fmt.Sprintf(format, args...),
	})
}

// loiter advances the state along its current circular orbit for d seconds.
func (st *missionState) loiter(d float64) {
	if d <= 0 {
		return
	}
	st.path.append(newArcSegment(st.radius, st.rate, st.phase, st.time, st.time+d))
	st.phase = normalizeAngle(st.phase + st.rate*d)
	st.time += d
}

// transfer flies a Hohmann half-ellipse to the given radius and rate,
// charging both burns to the delta-v budget.
func (st *missionState) transfer(toRadius, toRate, duration, mu float64) error {
	dv1, dv2, err := HohmannDeltaV(st.radius, toRadius, mu)
	if err != nil {
		return err
	}
	seg := newTransferSegment(st.radius, toRadius, st.phase, st.time, duration)
	st.path.append(seg)
	st.deltaV += dv1 + dv2
	st.time += duration
	st.radius = toRadius
	st.rate = toRate
	st.phase = seg.arrivalAngle()
	return nil
}

// servicedOrbit records one orbit visited outbound, for the return pass.
type servicedOrbit struct {
	orbit model.Orbit
	sats  []model.Satellite
}

// Sequencer turns one launch pad into a complete mission plan. It owns no
// state between calls; the scenario is read-only.
type Sequencer struct {
	Scenario *Scenario
	Log      logging.Logger
}

func NewSequencer(scn *Scenario, log logging.Logger) *Sequencer {
	if log == nil {
		log = logging.Noop()
	}
	return &Sequencer{Scenario: scn, Log: log}
}

// satPhaseAt is the analytic satellite phase at time t; satellites never
// carry propagated state.
func satPhaseAt(sat model.Satellite, orbit model.Orbit, t float64) float64 {
	return normalizeAngle(sat.InitialPhaseRad + orbit.AngularRate*t)
}

// Plan runs the linear mission state machine for one pad:
// launch, ascent to the transfer orbit, outbound legs in increasing radius
// (deploy, rendezvous, refuel), return legs in decreasing radius
// (collect every shuttle), then deorbit and landing.
//
// A rendezvous leg with no window aborts the whole pad with
// MissionInfeasibleError. Kernel-level InvalidParameterError propagates
// unwrapped: a validated scenario must never produce one.
func (s *Sequencer) Plan(ctx context.Context, pad model.LaunchPad, padIndex int) (*MissionPlan, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	scn := s.Scenario
	mu := scn.Planet.Mu

	transferRate, err := CircularAngularRate(scn.TransferRadiusKm, mu)
	if err != nil {
		return nil, err
	}

	st := &missionState{
		radius: scn.Planet.RadiusKm,
		rate:   0,
		phase:  pad.AngleRad,
	}

	// Ascent. Launch is immediate at t=0; all phasing happens in orbit.
	ascent, err := HohmannTransferTime(scn.Planet.RadiusKm, scn.TransferRadiusKm, mu)
	if err != nil {
		return nil, err
	}
	st.emit(0, model.EventLaunch, "Tanker launched from pad %s", pad.ID)
	if err := st.transfer(scn.TransferRadiusKm, transferRate, ascent, mu); err != nil {
		return nil, err
	}
	st.emit(st.time, model.EventArriveTransferOrbit, "Tanker circularized on transfer orbit at %.0f km", scn.TransferRadiusKm)

	// Outbound pass: strictly increasing radius.
	var serviced []servicedOrbit
	for _, orbit := range scn.Orbits {
		sats := scn.satellitesOn(orbit.ID)
		if len(sats) == 0 {
			continue
		}
		target := sats[0]

		legTime, err := HohmannTransferTime(st.radius, orbit.RadiusKm, mu)
		if err != nil {
			return nil, err
		}
		sol, err := SolveRendezvous(st.phase, st.rate, satPhaseAt(target, orbit, st.time), orbit.AngularRate, legTime)
		if err != nil {
			if errors.Is(err, ErrNoRendezvousWindow) {
				return nil, &MissionInfeasibleError{
					PadID: pad.ID,
					Err:   fmt.Errorf("outbound leg to orbit %s (satellite %s): %w", orbit.ID, target.ID, err),
				}
			}
			return nil, err
		}

		st.loiter(sol.Wait)
		shuttle := "shuttle-" + orbit.ID
		st.emit(st.time, model.EventDeployShuttle, "Shuttle %s deployed for orbit %s", shuttle, orbit.ID)
		st.emit(st.time, model.EventShuttleDepart, "Shuttle %s departing toward satellite %s", shuttle, target.ID)
		if err := st.transfer(orbit.RadiusKm, orbit.AngularRate, legTime, mu); err != nil {
			return nil, err
		}

		// Refuel dwell, one slot per satellite sharing the orbit;
		// co-orbital drift between them is folded into the dwell.
		for i, sat := range sats {
			start := st.time + float64(i)*scn.RefuelDurationS
			st.emit(start, model.EventShuttleRendezvous, "Shuttle %s rendezvoused with satellite %s", shuttle, sat.ID)
			st.emit(start+scn.RefuelDurationS, model.EventShuttleRefuelDone, "Satellite %s refueled", sat.ID)
		}
		st.loiter(float64(len(sats)) * scn.RefuelDurationS)

		serviced = append(serviced, servicedOrbit{orbit: orbit, sats: sats})
	}
	if len(serviced) == 0 {
		return nil, &MissionInfeasibleError{PadID: pad.ID, Err: errors.New("no orbit carries a satellite to service")}
	}

	// The topmost shuttle is collected where the tanker already is.
	top := serviced[len(serviced)-1]
	st.emit(st.time, model.EventShuttleReturn, "Shuttle shuttle-%s rejoined tanker", top.orbit.ID)
	st.emit(st.time, model.EventRecoverShuttle, "Shuttle shuttle-%s recovered at orbit %s", top.orbit.ID, top.orbit.ID)

	// Return pass: strictly decreasing radius, each leg timed against the
	// shuttle loitering with its satellite.
	beginEmitted := false
	for i := len(serviced) - 2; i >= 0; i-- {
		lower := serviced[i]
		target := lower.sats[0]

		legTime, err := HohmannTransferTime(st.radius, lower.orbit.RadiusKm, mu)
		if err != nil {
			return nil, err
		}
		sol, err := SolveRendezvous(st.phase, st.rate, satPhaseAt(target, lower.orbit, st.time), lower.orbit.AngularRate, legTime)
		if err != nil {
			if errors.Is(err, ErrNoRendezvousWindow) {
				return nil, &MissionInfeasibleError{
					PadID: pad.ID,
					Err:   fmt.Errorf("return leg to orbit %s: %w", lower.orbit.ID, err),
				}
			}
			return nil, err
		}

		st.loiter(sol.Wait)
		if !beginEmitted {
			st.emit(st.time, model.EventBeginReturnTransfer, "Tanker beginning return transfers")
			beginEmitted = true
		}
		if err := st.transfer(lower.orbit.RadiusKm, lower.orbit.AngularRate, legTime, mu); err != nil {
			return nil, err
		}
		shuttle := "shuttle-" + lower.orbit.ID
		st.emit(st.time, model.EventShuttleReturn, "Shuttle %s rejoined tanker", shuttle)
		st.emit(st.time, model.EventRecoverShuttle, "Shuttle %s recovered at orbit %s", shuttle, lower.orbit.ID)
	}

	// Back down to the staging orbit. No moving target: depart at once.
	legTime, err := HohmannTransferTime(st.radius, scn.TransferRadiusKm, mu)
	if err != nil {
		return nil, err
	}
	if !beginEmitted {
		st.emit(st.time, model.EventBeginReturnTransfer, "Tanker beginning return transfers")
	}
	if err := st.transfer(scn.TransferRadiusKm, transferRate, legTime, mu); err != nil {
		return nil, err
	}
	st.emit(st.time, model.EventArriveReturnOrbit, "Tanker back on transfer orbit at %.0f km", scn.TransferRadiusKm)

	// Deorbit and land, near the original launch angle.
	descent, err := HohmannTransferTime(scn.TransferRadiusKm, scn.Planet.RadiusKm, mu)
	if err != nil {
		return nil, err
	}
	st.emit(st.time, model.EventDeorbitBurn, "Deorbit burn initiated")
	if err := st.transfer(scn.Planet.RadiusKm, 0, descent, mu); err != nil {
		return nil, err
	}
	st.emit(st.time, model.EventLanding, "Tanker landed near pad %s", pad.ID)

	plan := &MissionPlan{
		PadID:       pad.ID,
		PadIndex:    padIndex,
		Duration:    st.time,
		Path:        &st.path,
		Events:      st.events,
		TotalDeltaV: st.deltaV,
	}
	s.Log.Debug(ctx, "pad plan complete",
		logging.String("pad_id", pad.ID),
		logging.Any("duration_s", plan.Duration),
		logging.Any("delta_v_kms", plan.TotalDeltaV),
		logging.Int("events", len(plan.Events)),
	)
	return plan, nil
}
