package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/signalsfoundry/mission-planner/core"
	"github.com/signalsfoundry/mission-planner/internal/logging"
	"github.com/signalsfoundry/mission-planner/internal/observability"
	"github.com/signalsfoundry/mission-planner/internal/store"
	"github.com/signalsfoundry/mission-planner/model"
	"github.com/signalsfoundry/mission-planner/playback"
)

func main() {
	configPath := flag.String("config", "configs/mission.json", "Path to the mission configuration JSON")
	outPath := flag.String("out", "", "Write the mission result JSON here (default stdout)")
	stepS := flag.Float64("step", 0, "Trajectory sample step in seconds (0 = use config / derive)")
	storePath := flag.String("store", "", "Optional SQLite database to persist the plan into")
	timeout := flag.Duration("timeout", 30*time.Second, "Planning timeout")
	play := flag.Bool("play", false, "Replay the mission on stdout after planning")
	speed := flag.Float64("speed", 60, "Playback speed in mission seconds per wall second")
	tick := flag.Duration("tick", time.Second, "Playback tick interval")
	flag.Parse()

	log := logging.NewFromEnv()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	shutdownTracing, err := observability.InitTracing(ctx, observability.TracingConfigFromEnv(), log)
	if err != nil {
		fatal(ctx, log, "failed to initialise tracing", err)
	}
	defer observability.ShutdownWithTimeout(context.Background(), shutdownTracing, log)

	collector, err := observability.NewPlannerCollector(nil)
	if err != nil {
		fatal(ctx, log, "failed to initialise metrics collector", err)
	}

	f, err := os.Open(*configPath)
	if err != nil {
		fatal(ctx, log, "failed to open mission configuration", err)
	}
	scn, err := core.LoadScenario(f)
	f.Close()
	if err != nil {
		fatal(ctx, log, "invalid mission configuration", err)
	}
	collector.SetScenarioCounts(len(scn.Pads), len(scn.Orbits), len(scn.Satellites))
	log.Info(ctx, "scenario loaded",
		logging.String("config", *configPath),
		logging.Int("pads", len(scn.Pads)),
		logging.Int("orbits", len(scn.Orbits)),
		logging.Int("satellites", len(scn.Satellites)),
	)

	planCtx, cancel := context.WithTimeout(ctx, *timeout)
	defer cancel()

	opt := core.NewOptimizer(scn, log, collector)
	plan, err := opt.Plan(planCtx)
	if err != nil {
		var noPad *core.NoFeasibleLaunchPadError
		if errors.As(err, &noPad) {
			log.Error(ctx, "no feasible launch pad", logging.String("error", err.Error()))
			os.Exit(2)
		}
		fatal(ctx, log, "planning failed", err)
	}

	step := *stepS
	if step == 0 {
		step = scn.SampleStepS
	}
	result := core.BuildResult(plan, step)

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		fatal(ctx, log, "failed to encode mission result", err)
	}
	if *outPath == "" {
		fmt.Println(string(data))
	} else if err := os.WriteFile(*outPath, data, 0o644); err != nil {
		fatal(ctx, log, "failed to write mission result", err)
	}

	if *storePath != "" {
		db, err := store.Open(*storePath, log)
		if err != nil {
			fatal(ctx, log, "failed to open plan store", err)
		}
		defer db.Close()
		id, err := db.SavePlan(ctx, result)
		if err != nil {
			fatal(ctx, log, "failed to persist plan", err)
		}
		log.Info(ctx, "plan persisted", logging.String("plan_id", id), logging.String("store", *storePath))
	}

	if *play {
		replay(ctx, result, *tick, *speed)
	}
}

func replay(ctx context.Context, result *model.MissionResult, tick time.Duration, speed float64) {
	player := playback.NewPlayer(result, tick, playback.Accelerated, speed)
	player.AddListener(func(t, x, y float64) {
		fmt.Printf("[t=%8.1fs] tanker @ (%.1f, %.1f) km\n", t, x, y)
	})
	player.OnEvent(func(ev model.MissionEvent) {
		fmt.Printf("[t=%8.1fs] *** %s\n", ev.Time, ev.Description)
	})
	<-player.Start(ctx)
}

func fatal(ctx context.Context, log logging.Logger, msg string, err error) {
	log.Error(ctx, msg, logging.String("error", err.Error()))
	os.Exit(1)
}
