package core

import "github.com/signalsfoundry/mission-planner/model"

// Sampling bounds when no explicit step is configured: aim for about a
// thousand points, never fewer than minSamples or more than maxSamples.
const (
	targetSamples = 1000
	minSamples    = 200
	maxSamples    = 5000
)

// sampleStep picks the output cadence for a mission of the given duration.
// A configured step wins as long as the resulting sample count stays within
// the clamp; otherwise the step is adjusted to the nearest bound.
func sampleStep(duration, configured float64) float64 {
	if duration <= 0 {
		return 1
	}
	if configured > 0 {
		switch n := duration / configured; {
		case n > maxSamples:
			return duration / maxSamples
		case n < minSamples:
			return duration / minSamples
		default:
			return configured
		}
	}
	return duration / targetSamples
}

// BuildResult samples the plan's analytic path at a fixed cadence from t=0
// through the landing time inclusive and assembles the external result:
// trajectory samples plus the event timeline.
func BuildResult(plan *MissionPlan, configuredStepS float64) *model.MissionResult {
	duration := plan.Duration
	step := sampleStep(duration, configuredStepS)

	var samples []model.TrajectorySample
	for i := 0; ; i++ {
		t := float64(i) * step
		if t >= duration {
			break
		}
		x, y := plan.Path.PositionAt(t)
		samples = append(samples, model.TrajectorySample{T: t, X: x, Y: y})
	}
	// The final sample lands exactly on the mission end.
	x, y := plan.Path.PositionAt(duration)
	samples = append(samples, model.TrajectorySample{T: duration, X: x, Y: y})

	events := make([]model.MissionEvent, len(plan.Events))
	copy(events, plan.Events)

	return &model.MissionResult{
		ChosenLaunchpadID:    plan.PadID,
		TotalDurationSeconds: duration,
		Trajectory:           samples,
		Events:               events,
	}
}
