package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/signalsfoundry/mission-planner/internal/logging"
	"github.com/signalsfoundry/mission-planner/internal/observability"
	"github.com/signalsfoundry/mission-planner/internal/store"
)

func main() {
	addr := flag.String("addr", ":8087", "TCP address the HTTP API listens on")
	storePath := flag.String("store", "", "Optional SQLite database for persisted plans")
	planTimeout := flag.Duration("plan-timeout", 30*time.Second, "Per-request planning timeout")
	flag.Parse()

	log := logging.NewFromEnv()
	ctx := context.Background()

	shutdownTracing, err := observability.InitTracing(ctx, observability.TracingConfigFromEnv(), log)
	if err != nil {
		log.Error(ctx, "failed to initialise tracing", logging.String("error", err.Error()))
		os.Exit(1)
	}
	defer observability.ShutdownWithTimeout(context.Background(), shutdownTracing, log)

	collector, err := observability.NewPlannerCollector(nil)
	if err != nil {
		log.Error(ctx, "failed to initialise metrics collector", logging.String("error", err.Error()))
		os.Exit(1)
	}

	var st *store.Store
	if *storePath != "" {
		st, err = store.Open(*storePath, log)
		if err != nil {
			log.Error(ctx, "failed to open plan store",
				logging.String("path", *storePath), logging.String("error", err.Error()))
			os.Exit(1)
		}
		defer st.Close()
	}

	srv := &http.Server{
		Addr:    *addr,
		Handler: newServer(log, collector, st, *planTimeout).routes(),
	}

	log.Info(ctx, "starting mission planner API", logging.String("addr", *addr))
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error(ctx, "HTTP server exited", logging.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	stopCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	<-stopCtx.Done()

	log.Info(ctx, "shutting down mission planner API")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}
