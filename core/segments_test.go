package core

import (
	"math"
	"testing"
)

func TestTransferSegmentEndpoints(t *testing.T) {
	seg := newTransferSegment(7000, 11000, 0.8, 100, 2000)

	x, y := seg.PositionAt(100)
	within(t, "start radius", math.Hypot(x, y), 7000, 1e-6)
	within(t, "start angle", math.Atan2(y, x), normalizeAngle(0.8), 1e-9)

	x, y = seg.PositionAt(2100)
	within(t, "end radius", math.Hypot(x, y), 11000, 1e-6)
	within(t, "arrival angle", seg.arrivalAngle(), normalizeAngle(0.8+math.Pi), 1e-12)
}

func TestTransferSegmentDescending(t *testing.T) {
	seg := newTransferSegment(11000, 7000, 0, 0, 2000)

	x, y := seg.PositionAt(0)
	within(t, "start radius", math.Hypot(x, y), 11000, 1e-6)
	x, y = seg.PositionAt(2000)
	within(t, "end radius", math.Hypot(x, y), 7000, 1e-6)

	// Radius shrinks monotonically on the descending half-ellipse.
	prev := math.Inf(1)
	for i := 0; i <= 20; i++ {
		x, y := seg.PositionAt(float64(i) * 100)
		r := math.Hypot(x, y)
		if r > prev+1e-9 {
			t.Fatalf("radius grew on descending leg: %g -> %g at step %d", prev, r, i)
		}
		prev = r
	}
}

func TestTransferSegmentRadiusBounded(t *testing.T) {
	seg := newTransferSegment(7000, 11000, 0, 0, 3000)
	for i := 0; i <= 50; i++ {
		x, y := seg.PositionAt(float64(i) * 60)
		r := math.Hypot(x, y)
		if r < 7000-1e-6 || r > 11000+1e-6 {
			t.Fatalf("radius %g outside [7000, 11000] at step %d", r, i)
		}
	}
}

func TestArcSegmentSweep(t *testing.T) {
	rate := mustRate(t, 8000)
	seg := newArcSegment(8000, rate, 1.0, 50, 50+1000)

	x, y := seg.PositionAt(50)
	within(t, "start x", x, 8000*math.Cos(1.0), 1e-6)
	within(t, "start y", y, 8000*math.Sin(1.0), 1e-6)

	within(t, "end phase", seg.endPhase(), normalizeAngle(1.0+rate*1000), 1e-12)
}

func TestPathPositionAtClampsOutsideRange(t *testing.T) {
	var p Path
	rate := mustRate(t, 8000)
	p.append(newArcSegment(8000, rate, 0, 0, 100))

	x0, y0 := p.PositionAt(-5)
	xs, ys := p.PositionAt(0)
	if x0 != xs || y0 != ys {
		t.Fatalf("position before start should clamp: (%g,%g) vs (%g,%g)", x0, y0, xs, ys)
	}
}

func TestPathDropsZeroDurationSegments(t *testing.T) {
	var p Path
	p.append(newArcSegment(8000, 1e-3, 0, 100, 100))
	if len(p.segments) != 0 {
		t.Fatalf("zero-duration segment was kept")
	}
	if p.Duration() != 0 {
		t.Fatalf("empty path duration = %g, want 0", p.Duration())
	}
}

func TestPathValidateContinuity(t *testing.T) {
	rate := mustRate(t, 7000)
	transferTime, _ := HohmannTransferTime(7000, 11000, testMu)

	var p Path
	arc := newArcSegment(7000, rate, 0.3, 0, 500)
	p.append(arc)
	p.append(newTransferSegment(7000, 11000, arc.endPhase(), 500, transferTime))

	if err := p.validateContinuity(1e-6); err != nil {
		t.Fatalf("continuous path reported discontinuity: %v", err)
	}

	// A path whose second segment departs from the wrong angle is caught.
	var bad Path
	bad.append(newArcSegment(7000, rate, 0.3, 0, 500))
	bad.append(newTransferSegment(7000, 11000, 0.3+1, 500, transferTime))
	if err := bad.validateContinuity(1e-6); err == nil {
		t.Fatalf("expected discontinuity error for mismatched join")
	}
}
