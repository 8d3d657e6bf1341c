package core

import "math"

// rateEpsilon bounds what counts as "equal angular rates" in the phasing
// equation. Below this the relative drift over any plausible wait is lost
// in floating-point noise.
const rateEpsilon = 1e-12

// phaseEpsilon is the alignment tolerance used when the chaser and target
// do not drift relative to each other.
const phaseEpsilon = 1e-9

// Rendezvous is a solved transfer window. Wait is the loiter duration
// before the departure burn; ArrivalAngle is the fixed Hohmann arrival
// point (departure angle + pi), where the target will be at arrival.
type Rendezvous struct {
	Wait         float64
	ArrivalAngle float64
}

// SolveRendezvous computes the smallest non-negative wait such that a
// Hohmann transfer departing after the wait arrives exactly on the target.
// Phases are the chaser's and target's angular positions now; rates are
// their angular rates on their current circular orbits. transferTime is
// the one-way Hohmann duration to the target's orbit.
//
// The arrival point of a Hohmann transfer is 180 degrees from departure,
// so the condition is
//
//	targetPhase + targetRate*(wait+transferTime) = chaserPhase + chaserRate*wait + pi  (mod 2*pi)
//
// which is linear in wait. When the rates are equal the phases either
// already align (wait 0) or never will: ErrNoRendezvousWindow.
func SolveRendezvous(chaserPhase, chaserRate, targetPhase, targetRate, transferTime float64) (Rendezvous, error) {
	if transferTime < 0 {
		return Rendezvous{}, &InvalidParameterError{Param: "transferTime", Value: transferTime}
	}

	// Phase the chaser's arrival point must make up, folded to [0, 2*pi).
	delta := normalizeAngle(chaserPhase + math.Pi - targetPhase - targetRate*transferTime)
	dOmega := targetRate - chaserRate

	if math.Abs(dOmega) < rateEpsilon {
		if delta < phaseEpsilon || twoPi-delta < phaseEpsilon {
			return rendezvousAt(0, chaserPhase, chaserRate)
		}
		return Rendezvous{}, ErrNoRendezvousWindow
	}

	wait := delta / dOmega
	if wait < 0 {
		// Periodic ambiguity: shift by one synodic period to the first
		// non-negative solution.
		wait += twoPi / math.Abs(dOmega)
	}
	return rendezvousAt(wait, chaserPhase, chaserRate)
}

func rendezvousAt(wait, chaserPhase, chaserRate float64) (Rendezvous, error) {
	return Rendezvous{
		Wait:         wait,
		ArrivalAngle: normalizeAngle(chaserPhase + chaserRate*wait + math.Pi),
	}, nil
}
