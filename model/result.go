package model

import (
	"encoding/json"
	"fmt"
)

// MissionResult is the output contract consumed by the playback layer:
// the chosen pad, total duration, the sampled tanker trajectory and the
// timestamped event list, both ascending in time.
type MissionResult struct {
	ChosenLaunchpadID    string
	TotalDurationSeconds float64
	Trajectory           []TrajectorySample
	Events               []MissionEvent
}

// resultJSON mirrors the wire shape: trajectory rows are [t, x, y] arrays
// and event rows are [t, description] pairs.
type resultJSON struct {
	ChosenLaunchpadID    string            `json:"chosenLaunchpadId"`
	TotalDurationSeconds float64           `json:"totalDurationSeconds"`
	Trajectory           [][3]float64      `json:"trajectory"`
	Events               []json.RawMessage `json:"events"`
}

// MarshalJSON renders the external Mission Result contract.
func (r MissionResult) MarshalJSON() ([]byte, error) {
	out := resultJSON{
		ChosenLaunchpadID:    r.ChosenLaunchpadID,
		TotalDurationSeconds: r.TotalDurationSeconds,
		Trajectory:           make([][3]float64, 0, len(r.Trajectory)),
		Events:               make([]json.RawMessage, 0, len(r.Events)),
	}
	for _, s := range r.Trajectory {
		out.Trajectory = append(out.Trajectory, [3]float64{s.T, s.X, s.Y})
	}
	for _, ev := range r.Events {
		row, err := json.Marshal([]interface{}{ev.Time, ev.Description})
		if err != nil {
			return nil, err
		}
		out.Events = append(out.Events, row)
	}
	return json.Marshal(out)
}

// UnmarshalJSON parses the wire contract back into a MissionResult. Event
// kinds are not part of the wire shape and come back empty.
func (r *MissionResult) UnmarshalJSON(data []byte) error {
	var in resultJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	r.ChosenLaunchpadID = in.ChosenLaunchpadID
	r.TotalDurationSeconds = in.TotalDurationSeconds
	r.Trajectory = make([]TrajectorySample, 0, len(in.Trajectory))
	for _, row := range in.Trajectory {
		r.Trajectory = append(r.Trajectory, TrajectorySample{T: row[0], X: row[1], Y: row[2]})
	}
	r.Events = make([]MissionEvent, 0, len(in.Events))
	for i, raw := range in.Events {
		var pair []json.RawMessage
		if err := json.Unmarshal(raw, &pair); err != nil {
			return fmt.Errorf("event %d: %w", i, err)
		}
		if len(pair) != 2 {
			return fmt.Errorf("event %d: want [t, description], got %d elements", i, len(pair))
		}
		var ev MissionEvent
		if err := json.Unmarshal(pair[0], &ev.Time); err != nil {
			return fmt.Errorf("event %d timestamp: %w", i, err)
		}
		if err := json.Unmarshal(pair[1], &ev.Description); err != nil {
			return fmt.Errorf("event %d description: %w", i, err)
		}
		r.Events = append(r.Events, ev)
	}
	return nil
}
