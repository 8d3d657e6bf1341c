package core

import (
	"errors"
	"fmt"
)

// ErrNoRendezvousWindow is returned by the timing solver when the phasing
// equation has no admissible non-negative solution (equal angular rates
// with misaligned phases). Callers must treat it explicitly; the solver
// never falls back to a zero wait.
var ErrNoRendezvousWindow = errors.New("no rendezvous window")

// InvalidConfigurationError reports a malformed or semantically invalid
// mission configuration. It is raised before any simulation runs.
type InvalidConfigurationError struct {
	Reason string
}

func (e *InvalidConfigurationError) Error() string {
	return "invalid configuration: " + e.Reason
}

func invalidConfigf(format string, args ...interface{}) error {
	return &InvalidConfigurationError{Reason: fmt.Sprintf(format, args...)}
}

// InvalidParameterError guards kernel functions against non-physical
// inputs. Surfacing one from a validated configuration indicates a logic
// defect, so it is never converted to MissionInfeasibleError.
type InvalidParameterError struct {
	Param string
	Value float64
}

func (e *InvalidParameterError) Error() string {
	return fmt.Sprintf("invalid parameter %s=%g", e.Param, e.Value)
}

// MissionInfeasibleError marks a single launch pad that cannot complete
// the full servicing sequence. The optimizer excludes the pad and keeps
// evaluating the others.
type MissionInfeasibleError struct {
	PadID string
	Err   error
}

func (e *MissionInfeasibleError) Error() string {
	return fmt.Sprintf("mission infeasible from pad %q: %v", e.PadID, e.Err)
}

func (e *MissionInfeasibleError) Unwrap() error { return e.Err }

// NoFeasibleLaunchPadError is the aggregate failure when every candidate
// pad was infeasible. Causes is keyed by pad ID.
type NoFeasibleLaunchPadError struct {
	Causes map[string]error
}

func (e *NoFeasibleLaunchPadError) Error() string {
	return fmt.Sprintf("no feasible launch pad among %d candidates", len(e.Causes))
}
