package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/signalsfoundry/mission-planner/model"
)

func testResult() *model.MissionResult {
	return &model.MissionResult{
		ChosenLaunchpadID:    "pad-1",
		TotalDurationSeconds: 4242.5,
		Trajectory: []model.TrajectorySample{
			{T: 0, X: 6378, Y: 0},
			{T: 10, X: 6377, Y: 120},
		},
		Events: []model.MissionEvent{
			{Time: 0, Kind: model.EventLaunch, Description: "Tanker launched from pad pad-1"},
			{Time: 4242.5, Kind: model.EventLanding, Description: "Tanker landed near pad pad-1"},
		},
	}
}

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "plans.db"), nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSaveAndGetPlan(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	id, err := s.SavePlan(ctx, testResult())
	if err != nil {
		t.Fatalf("SavePlan: %v", err)
	}
	if id == "" {
		t.Fatalf("SavePlan returned empty id")
	}

	got, err := s.GetPlan(ctx, id)
	if err != nil {
		t.Fatalf("GetPlan: %v", err)
	}
	if got.ChosenLaunchpadID != "pad-1" {
		t.Fatalf("pad = %q, want pad-1", got.ChosenLaunchpadID)
	}
	if got.TotalDurationSeconds != 4242.5 {
		t.Fatalf("duration = %g, want 4242.5", got.TotalDurationSeconds)
	}
	if len(got.Trajectory) != 2 || len(got.Events) != 2 {
		t.Fatalf("round-trip lost data: %d samples, %d events", len(got.Trajectory), len(got.Events))
	}
	if got.Events[0].Description != "Tanker launched from pad pad-1" {
		t.Fatalf("event description corrupted: %q", got.Events[0].Description)
	}
}

func TestGetPlanNotFound(t *testing.T) {
	s := openTestStore(t)
	_, err := s.GetPlan(context.Background(), "no-such-id")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGetPlanDetectsCorruption(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	id, err := s.SavePlan(ctx, testResult())
	if err != nil {
		t.Fatalf("SavePlan: %v", err)
	}

	// Flip the recorded digest; the payload no longer verifies.
	if _, err := s.db.ExecContext(ctx,
		`UPDATE mission_plans SET digest = ? WHERE id = ?`, "deadbeef", id); err != nil {
		t.Fatalf("corrupt digest: %v", err)
	}

	_, err = s.GetPlan(ctx, id)
	if !errors.Is(err, ErrDigestMismatch) {
		t.Fatalf("expected ErrDigestMismatch, got %v", err)
	}
}

func TestListPlans(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	first, err := s.SavePlan(ctx, testResult())
	if err != nil {
		t.Fatalf("SavePlan: %v", err)
	}
	second, err := s.SavePlan(ctx, testResult())
	if err != nil {
		t.Fatalf("SavePlan: %v", err)
	}

	plans, err := s.ListPlans(ctx)
	if err != nil {
		t.Fatalf("ListPlans: %v", err)
	}
	if len(plans) != 2 {
		t.Fatalf("got %d plans, want 2", len(plans))
	}
	ids := map[string]bool{plans[0].ID: true, plans[1].ID: true}
	if !ids[first] || !ids[second] {
		t.Fatalf("listing missing saved ids: %+v", plans)
	}
	for _, p := range plans {
		if p.ChosenLaunchpadID != "pad-1" || p.DurationSeconds != 4242.5 {
			t.Fatalf("summary fields wrong: %+v", p)
		}
	}
}

func TestCompressRoundTrip(t *testing.T) {
	src := []byte(`{"k":"v","n":[1,2,3,4,5,6,7,8,9,10]}`)
	packed, err := compress(src)
	if err != nil {
		t.Fatalf("compress: %v", err)
	}
	got, err := decompress(packed)
	if err != nil {
		t.Fatalf("decompress: %v", err)
	}
	if string(got) != string(src) {
		t.Fatalf("round trip mismatch: %q", got)
	}
}
