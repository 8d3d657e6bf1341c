package playback

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/signalsfoundry/mission-planner/model"
)

// Mode describes how the Player advances mission time.
type Mode int

const (
	// RealTime advances one mission second per wall-clock second.
	RealTime Mode = iota
	// Accelerated advances Speed mission seconds per wall-clock second.
	Accelerated
)

// Player replays a planned mission against wall-clock time, interpolating
// the sampled trajectory and surfacing events as their timestamps pass.
type Player struct {
	mu     sync.RWMutex
	result *model.MissionResult

	Tick  time.Duration
	Mode  Mode
	Speed float64 // mission seconds per wall second in Accelerated mode

	elapsed   float64
	listeners []func(t float64, x, y float64)
	onEvent   []func(model.MissionEvent)
}

// NewPlayer constructs a player over a finished mission result. tick is the
// wall-clock cadence; speed only applies in Accelerated mode and defaults
// to 1 when non-positive.
func NewPlayer(result *model.MissionResult, tick time.Duration, mode Mode, speed float64) *Player {
	if speed <= 0 {
		speed = 1
	}
	return &Player{
		result: result,
		Tick:   tick,
		Mode:   mode,
		Speed:  speed,
	}
}

// Elapsed returns the current mission time in seconds.
func (p *Player) Elapsed() float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.elapsed
}

// PositionAt linearly interpolates the sampled trajectory at mission time t.
// Times outside the sampled range clamp to the first or last sample.
func (p *Player) PositionAt(t float64) (x, y float64) {
	samples := p.result.Trajectory
	n := len(samples)
	if n == 0 {
		return 0, 0
	}
	if t <= samples[0].T {
		return samples[0].X, samples[0].Y
	}
	if t >= samples[n-1].T {
		return samples[n-1].X, samples[n-1].Y
	}
	i := sort.Search(n, func(i int) bool { return samples[i].T >= t })
	lo, hi := samples[i-1], samples[i]
	if hi.T == lo.T {
		return hi.X, hi.Y
	}
	f := (t - lo.T) / (hi.T - lo.T)
	return lo.X + f*(hi.X-lo.X), lo.Y + f*(hi.Y-lo.Y)
}

// EventsBetween returns the mission events with timestamps in (from, to].
func (p *Player) EventsBetween(from, to float64) []model.MissionEvent {
	var out []model.MissionEvent
	for _, ev := range p.result.Events {
		if ev.Time > from && ev.Time <= to {
			out = append(out, ev)
		}
	}
	return out
}

// AddListener registers a callback invoked with the interpolated position on
// every tick. Listeners must be registered before Start.
func (p *Player) AddListener(fn func(t, x, y float64)) {
	p.listeners = append(p.listeners, fn)
}

// OnEvent registers a callback invoked once per mission event, in order, as
// playback passes each event's timestamp.
func (p *Player) OnEvent(fn func(model.MissionEvent)) {
	p.onEvent = append(p.onEvent, fn)
}

// Start replays the mission in a separate goroutine and returns a channel
// closed when playback reaches the end of the mission or ctx is cancelled.
func (p *Player) Start(ctx context.Context) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)

		step := p.Tick.Seconds()
		if p.Mode == Accelerated {
			step *= p.Speed
		}
		total := p.result.TotalDurationSeconds

		ticker := time.NewTicker(p.Tick)
		defer ticker.Stop()

		prev := 0.0
		// The opening tick covers t=0 itself so the launch event fires.
		p.deliver(-1, 0)
		for prev < total {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}

			next := prev + step
			if next > total {
				next = total
			}
			p.mu.Lock()
			p.elapsed = next
			p.mu.Unlock()

			p.deliver(prev, next)
			prev = next
		}
	}()
	return done
}

func (p *Player) deliver(from, to float64) {
	x, y := p.PositionAt(to)
	for _, fn := range p.listeners {
		fn(to, x, y)
	}
	for _, ev := range p.EventsBetween(from, to) {
		for _, fn := range p.onEvent {
			fn(ev)
		}
	}
}
