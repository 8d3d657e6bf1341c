package core

import (
	"fmt"
	"math"
	"sort"
)

// A Segment is one contiguous analytic leg of the mission trajectory with
// a closed-form position function valid on [Start, End]. The sequence of
// segments is the authoritative description of motion; sampled points are
// derived from it.
type Segment interface {
	Start() float64
	End() float64
	PositionAt(t float64) (x, y float64)
}

// arcSegment is a circular loiter arc: constant radius, constant angular
// rate, phase anchored at the segment start.
type arcSegment struct {
	radius     float64
	rate       float64
	startPhase float64
	start, end float64
}

func newArcSegment(radius, rate, startPhase, start, end float64) *arcSegment {
	return &arcSegment{radius: radius, rate: rate, startPhase: startPhase, start: start, end: end}
}

func (s *arcSegment) Start() float64 { return s.start }
func (s *arcSegment) End() float64   { return s.end }

func (s *arcSegment) PositionAt(t float64) (float64, float64) {
	return PositionOnCircle(s.radius, s.rate, s.startPhase, t-s.start)
}

// endPhase is the angular position at the end of the arc.
func (s *arcSegment) endPhase() float64 {
	return normalizeAngle(s.startPhase + s.rate*(s.end-s.start))
}

// transferSegment is one half of a Hohmann transfer ellipse from r1 to r2,
// departing at startAngle. The true anomaly sweeps half the ellipse
// linearly in time, so the radius is exactly r1 at start and exactly r2 at
// end while the position angle advances by pi.
type transferSegment struct {
	r1, r2     float64
	a, e       float64
	startAngle float64
	start, end float64
}

func newTransferSegment(r1, r2, startAngle, start, duration float64) *transferSegment {
	a := (r1 + r2) / 2
	e := math.Abs(r2-r1) / (r1 + r2)
	return &transferSegment{
		r1: r1, r2: r2,
		a: a, e: e,
		startAngle: startAngle,
		start:      start,
		end:        start + duration,
	}
}

func (s *transferSegment) Start() float64 { return s.start }
func (s *transferSegment) End() float64   { return s.end }

func (s *transferSegment) PositionAt(t float64) (float64, float64) {
	progress := 0.0
	if s.end > s.start {
		progress = (t - s.start) / (s.end - s.start)
	}
	if progress < 0 {
		progress = 0
	} else if progress > 1 {
		progress = 1
	}

	// Outbound legs start at perigee (nu=0), descending legs at apogee
	// (nu=pi); either way the sweep covers half the ellipse.
	nu0 := 0.0
	if s.r1 > s.r2 {
		nu0 = math.Pi
	}
	nu := nu0 + math.Pi*progress
	r := s.a * (1 - s.e*s.e) / (1 + s.e*math.Cos(nu))

	theta := s.startAngle + math.Pi*progress
	return r * math.Cos(theta), r * math.Sin(theta)
}

// arrivalAngle is the position angle at the end of the transfer.
func (s *transferSegment) arrivalAngle() float64 {
	return normalizeAngle(s.startAngle + math.Pi)
}

// Path is the ordered, time-contiguous concatenation of mission segments.
type Path struct {
	segments []Segment
}

// append adds a segment; zero-duration segments are dropped.
func (p *Path) append(s Segment) {
	if s.End() <= s.Start() {
		return
	}
	p.segments = append(p.segments, s)
}

// Duration returns the end time of the final segment.
func (p *Path) Duration() float64 {
	if len(p.segments) == 0 {
		return 0
	}
	return p.segments[len(p.segments)-1].End()
}

// PositionAt evaluates the segment covering t. Times before the first
// segment clamp to its start; times after the last clamp to its end.
func (p *Path) PositionAt(t float64) (x, y float64) {
	n := len(p.segments)
	if n == 0 {
		return 0, 0
	}
	i := sort.Search(n, func(i int) bool { return p.segments[i].End() >= t })
	if i == n {
		i = n - 1
	}
	return p.segments[i].PositionAt(t)
}

// validateContinuity checks that segment times are contiguous and the
// position is continuous at every join within tol kilometres.
func (p *Path) validateContinuity(tol float64) error {
	for i := 1; i < len(p.segments); i++ {
		prev, next := p.segments[i-1], p.segments[i]
		if math.Abs(prev.End()-next.Start()) > 1e-6 {
			return fmt.Errorf("segment %d starts at t=%g, previous ends at t=%g", i, next.Start(), prev.End())
		}
		px, py := prev.PositionAt(prev.End())
		nx, ny := next.PositionAt(next.Start())
		if math.Hypot(nx-px, ny-py) > tol {
			return fmt.Errorf("segment %d discontinuous at t=%g: (%g,%g) -> (%g,%g)", i, next.Start(), px, py, nx, ny)
		}
	}
	return nil
}
