package model

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestMissionResultMarshalShape(t *testing.T) {
	res := MissionResult{
		ChosenLaunchpadID:    "pad-2",
		TotalDurationSeconds: 120.5,
		Trajectory: []TrajectorySample{
			{T: 0, X: 6378, Y: 0},
			{T: 60, X: 0, Y: 7000},
		},
		Events: []MissionEvent{
			{Time: 0, Kind: EventLaunch, Description: "Tanker launched from pad pad-2"},
		},
	}

	data, err := json.Marshal(res)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	s := string(data)

	if !strings.Contains(s, `"chosenLaunchpadId":"pad-2"`) {
		t.Fatalf("missing pad id: %s", s)
	}
	if !strings.Contains(s, `"trajectory":[[0,6378,0],[60,0,7000]]`) {
		t.Fatalf("trajectory not [t,x,y] rows: %s", s)
	}
	if !strings.Contains(s, `"events":[[0,"Tanker launched from pad pad-2"]]`) {
		t.Fatalf("events not [t,description] pairs: %s", s)
	}
}

func TestMissionResultUnmarshalRoundTrip(t *testing.T) {
	in := `{
		"chosenLaunchpadId": "pad-1",
		"totalDurationSeconds": 42,
		"trajectory": [[0, 1, 2], [10, 3, 4]],
		"events": [[0, "launch"], [42, "landing"]]
	}`

	var res MissionResult
	if err := json.Unmarshal([]byte(in), &res); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if res.ChosenLaunchpadID != "pad-1" || res.TotalDurationSeconds != 42 {
		t.Fatalf("header fields wrong: %+v", res)
	}
	if len(res.Trajectory) != 2 || res.Trajectory[1] != (TrajectorySample{T: 10, X: 3, Y: 4}) {
		t.Fatalf("trajectory wrong: %+v", res.Trajectory)
	}
	if len(res.Events) != 2 || res.Events[1].Description != "landing" || res.Events[1].Time != 42 {
		t.Fatalf("events wrong: %+v", res.Events)
	}
}

func TestMissionResultUnmarshalRejectsBadEvent(t *testing.T) {
	in := `{"chosenLaunchpadId":"p","totalDurationSeconds":1,"trajectory":[],"events":[[1]]}`
	var res MissionResult
	if err := json.Unmarshal([]byte(in), &res); err == nil {
		t.Fatalf("expected error for malformed event row")
	}
}
