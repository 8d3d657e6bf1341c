package observability

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PlannerCollector bundles Prometheus metrics for the planning pipeline and
// provides a ready-made /metrics handler.
type PlannerCollector struct {
	gatherer prometheus.Gatherer

	// Missions counts finished optimizations, labeled by outcome
	// (planned, infeasible, error).
	Missions *prometheus.CounterVec
	// PadsEvaluated counts per-pad evaluations, labeled feasible/infeasible.
	PadsEvaluated *prometheus.CounterVec
	// PlanningDuration observes wall-clock optimization latency.
	PlanningDuration prometheus.Histogram

	ScenarioPads       prometheus.Gauge
	ScenarioOrbits     prometheus.Gauge
	ScenarioSatellites prometheus.Gauge
}

// NewPlannerCollector registers planner Prometheus metrics against the
// provided registerer, defaulting to the global Prometheus registry when nil.
// Already-registered collectors of the same shape are reused, so repeated
// construction in one process is safe.
func NewPlannerCollector(reg prometheus.Registerer) (*PlannerCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	missions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "planner_missions_total",
		Help: "Total number of mission optimizations, labeled by outcome.",
	}, []string{"outcome"})
	missions, err := registerCounterVec(reg, missions, "planner_missions_total")
	if err != nil {
		return nil, err
	}

	pads := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "planner_pads_evaluated_total",
		Help: "Total number of launch pad evaluations, labeled by result.",
	}, []string{"result"})
	pads, err = registerCounterVec(reg, pads, "planner_pads_evaluated_total")
	if err != nil {
		return nil, err
	}

	duration, err := registerHistogram(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "planner_planning_duration_seconds",
		Help:    "Wall-clock time spent optimizing one mission.",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
	}), "planner_planning_duration_seconds")
	if err != nil {
		return nil, err
	}

	padsGauge, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "scenario_launchpads",
		Help: "Number of launch pads in the loaded scenario.",
	}), "scenario_launchpads")
	if err != nil {
		return nil, err
	}
	orbits, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "scenario_orbits",
		Help: "Number of target orbits in the loaded scenario.",
	}), "scenario_orbits")
	if err != nil {
		return nil, err
	}
	sats, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "scenario_satellites",
		Help: "Number of satellites in the loaded scenario.",
	}), "scenario_satellites")
	if err != nil {
		return nil, err
	}

	return &PlannerCollector{
		gatherer:           gatherer,
		Missions:           missions,
		PadsEvaluated:      pads,
		PlanningDuration:   duration,
		ScenarioPads:       padsGauge,
		ScenarioOrbits:     orbits,
		ScenarioSatellites: sats,
	}, nil
}

// Handler exposes a ready-to-use /metrics handler.
func (c *PlannerCollector) Handler() http.Handler {
	gatherer := c.gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// SetScenarioCounts drives the scenario gauges from a freshly loaded
// configuration.
func (c *PlannerCollector) SetScenarioCounts(pads, orbits, satellites int) {
	if c == nil {
		return
	}
	if c.ScenarioPads != nil {
		c.ScenarioPads.Set(float64(pads))
	}
	if c.ScenarioOrbits != nil {
		c.ScenarioOrbits.Set(float64(orbits))
	}
	if c.ScenarioSatellites != nil {
		c.ScenarioSatellites.Set(float64(satellites))
	}
}

// RecordMission records one finished optimization.
func (c *PlannerCollector) RecordMission(outcome string, seconds float64) {
	if c == nil {
		return
	}
	if c.Missions != nil {
		c.Missions.WithLabelValues(outcome).Inc()
	}
	if c.PlanningDuration != nil {
		c.PlanningDuration.Observe(seconds)
	}
}

// RecordPad records one per-pad evaluation result.
func (c *PlannerCollector) RecordPad(result string) {
	if c == nil || c.PadsEvaluated == nil {
		return
	}
	c.PadsEvaluated.WithLabelValues(result).Inc()
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerHistogram(reg prometheus.Registerer, h prometheus.Histogram, name string) (prometheus.Histogram, error) {
	if err := reg.Register(h); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Histogram); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return h, nil
}

func registerGauge(reg prometheus.Registerer, gauge prometheus.Gauge, name string) (prometheus.Gauge, error) {
	if err := reg.Register(gauge); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Gauge); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return gauge, nil
}
