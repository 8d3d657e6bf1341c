package core

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/signalsfoundry/mission-planner/internal/logging"
	"github.com/signalsfoundry/mission-planner/internal/observability"
)

const tracerName = "github.com/signalsfoundry/mission-planner/core"

// Optimizer evaluates every launch pad of a scenario concurrently and picks
// the one with the shortest total mission duration.
type Optimizer struct {
	Scenario *Scenario
	Log      logging.Logger
	Metrics  *observability.PlannerCollector // optional
}

func NewOptimizer(scn *Scenario, log logging.Logger, metrics *observability.PlannerCollector) *Optimizer {
	if log == nil {
		log = logging.Noop()
	}
	return &Optimizer{Scenario: scn, Log: log, Metrics: metrics}
}

// padOutcome is one goroutine's result slot; each goroutine writes only its
// own index, so no locking is needed beyond the WaitGroup.
type padOutcome struct {
	plan *MissionPlan
	err  error
}

// Plan evaluates all pads and returns the fastest feasible plan. Ties on
// duration resolve to the lowest pad index, so results are deterministic
// regardless of goroutine scheduling. If every pad is infeasible the error
// is a NoFeasibleLaunchPadError carrying the per-pad causes. Context
// cancellation abandons the optimization and discards partial results.
func (o *Optimizer) Plan(ctx context.Context) (*MissionPlan, error) {
	started := time.Now()
	tracer := otel.Tracer(tracerName)
	ctx, span := tracer.Start(ctx, "optimizer.Plan")
	span.SetAttributes(attribute.Int("pads", len(o.Scenario.Pads)))
	defer span.End()

	seq := NewSequencer(o.Scenario, o.Log)
	outcomes := make([]padOutcome, len(o.Scenario.Pads))

	var wg sync.WaitGroup
	for i, pad := range o.Scenario.Pads {
		wg.Add(1)
		go func() {
			defer wg.Done()
			padCtx, padSpan := tracer.Start(ctx, "optimizer.evaluatePad")
			padSpan.SetAttributes(
				attribute.String("pad_id", pad.ID),
				attribute.Int("pad_index", i),
			)
			defer padSpan.End()

			plan, err := seq.Plan(padCtx, pad, i)
			outcomes[i] = padOutcome{plan: plan, err: err}
			if err != nil {
				padSpan.SetStatus(codes.Error, err.Error())
				return
			}
			padSpan.SetAttributes(attribute.Float64("duration_s", plan.Duration))
		}()
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		span.SetStatus(codes.Error, err.Error())
		o.Metrics.RecordMission("error", time.Since(started).Seconds())
		return nil, err
	}

	var best *MissionPlan
	causes := make(map[string]error, len(outcomes))
	for i, out := range outcomes {
		pad := o.Scenario.Pads[i]
		switch {
		case out.err != nil:
			var infeasible *MissionInfeasibleError
			if !errors.As(out.err, &infeasible) {
				// Parameter or context errors are defects of the whole run,
				// not of one pad.
				span.SetStatus(codes.Error, out.err.Error())
				o.Metrics.RecordMission("error", time.Since(started).Seconds())
				return nil, out.err
			}
			causes[pad.ID] = out.err
			o.Metrics.RecordPad("infeasible")
			o.Log.Info(ctx, "pad infeasible",
				logging.String("pad_id", pad.ID),
				logging.String("cause", out.err.Error()),
			)
		default:
			o.Metrics.RecordPad("feasible")
			if best == nil || out.plan.Duration < best.Duration {
				best = out.plan
			}
		}
	}

	if best == nil {
		span.SetStatus(codes.Error, "no feasible launch pad")
		o.Metrics.RecordMission("infeasible", time.Since(started).Seconds())
		return nil, &NoFeasibleLaunchPadError{Causes: causes}
	}

	o.Metrics.RecordMission("planned", time.Since(started).Seconds())
	o.Log.Info(ctx, "mission planned",
		logging.String("pad_id", best.PadID),
		logging.Any("duration_s", best.Duration),
		logging.Any("delta_v_kms", best.TotalDeltaV),
	)
	span.SetAttributes(
		attribute.String("chosen_pad", best.PadID),
		attribute.Float64("duration_s", best.Duration),
	)
	return best, nil
}
