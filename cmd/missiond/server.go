package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"golang.org/x/time/rate"

	"github.com/signalsfoundry/mission-planner/core"
	"github.com/signalsfoundry/mission-planner/internal/logging"
	"github.com/signalsfoundry/mission-planner/internal/observability"
	"github.com/signalsfoundry/mission-planner/internal/store"
	"github.com/signalsfoundry/mission-planner/model"
)

// server carries the HTTP surface's dependencies. The plan store is
// optional; without it POST /api/plan still works but nothing persists.
type server struct {
	log         logging.Logger
	metrics     *observability.PlannerCollector
	store       *store.Store
	limiter     *rate.Limiter
	planTimeout time.Duration
	sampleStepS float64
}

func newServer(log logging.Logger, metrics *observability.PlannerCollector, st *store.Store, planTimeout time.Duration) *server {
	if log == nil {
		log = logging.Noop()
	}
	if planTimeout <= 0 {
		planTimeout = 30 * time.Second
	}
	return &server{
		log:         log,
		metrics:     metrics,
		store:       st,
		limiter:     rate.NewLimiter(10, 20),
		planTimeout: planTimeout,
	}
}

func (s *server) routes() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.withRequestID, s.withRateLimit)
	r.HandleFunc("/api/plan", s.handlePlan).Methods(http.MethodPost)
	r.HandleFunc("/api/plans", s.handleListPlans).Methods(http.MethodGet)
	r.HandleFunc("/api/plans/{id}", s.handleGetPlan).Methods(http.MethodGet)
	r.HandleFunc("/healthz", s.handleHealthz).Methods(http.MethodGet)
	if s.metrics != nil {
		r.Handle("/metrics", s.metrics.Handler()).Methods(http.MethodGet)
	}
	return r
}

func (s *server) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, reqLog := logging.WithRequestLogger(r.Context(), s.log)
		w.Header().Set("X-Request-Id", logging.RequestIDFromContext(ctx))
		ctx = logging.ContextWithLogger(ctx, reqLog)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.limiter.Allow() {
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *server) logger(r *http.Request) logging.Logger {
	if l := logging.LoggerFromContext(r.Context()); l != nil {
		return l
	}
	return s.log
}

// planResponse is the POST /api/plan payload: the stored id (when a store
// is configured) plus the full mission result contract.
type planResponse struct {
	ID     string               `json:"id,omitempty"`
	Result *model.MissionResult `json:"result"`
}

func (s *server) handlePlan(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := s.logger(r)

	scn, err := core.LoadScenario(r.Body)
	if err != nil {
		var invalid *core.InvalidConfigurationError
		if errors.As(err, &invalid) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusBadRequest, "malformed mission configuration: "+err.Error())
		return
	}
	s.metrics.SetScenarioCounts(len(scn.Pads), len(scn.Orbits), len(scn.Satellites))

	planCtx, cancel := context.WithTimeout(ctx, s.planTimeout)
	defer cancel()

	opt := core.NewOptimizer(scn, log, s.metrics)
	plan, err := opt.Plan(planCtx)
	if err != nil {
		var noPad *core.NoFeasibleLaunchPadError
		switch {
		case errors.As(err, &noPad):
			writeError(w, http.StatusUnprocessableEntity, err.Error())
		case errors.Is(err, planCtx.Err()):
			writeError(w, http.StatusGatewayTimeout, "planning timed out")
		default:
			log.Error(ctx, "planning failed", logging.String("error", err.Error()))
			writeError(w, http.StatusInternalServerError, "planning failed")
		}
		return
	}

	step := s.sampleStepS
	if step == 0 {
		step = scn.SampleStepS
	}
	result := core.BuildResult(plan, step)

	resp := planResponse{Result: result}
	if s.store != nil {
		id, err := s.store.SavePlan(ctx, result)
		if err != nil {
			log.Error(ctx, "failed to persist plan", logging.String("error", err.Error()))
			writeError(w, http.StatusInternalServerError, "failed to persist plan")
			return
		}
		resp.ID = id
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *server) handleListPlans(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusNotFound, "no plan store configured")
		return
	}
	plans, err := s.store.ListPlans(r.Context())
	if err != nil {
		s.logger(r).Error(r.Context(), "failed to list plans", logging.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "failed to list plans")
		return
	}
	if plans == nil {
		plans = []store.PlanSummary{}
	}
	writeJSON(w, http.StatusOK, plans)
}

func (s *server) handleGetPlan(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusNotFound, "no plan store configured")
		return
	}
	id := mux.Vars(r)["id"]
	res, err := s.store.GetPlan(r.Context(), id)
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "plan not found")
	case err != nil:
		s.logger(r).Error(r.Context(), "failed to load plan",
			logging.String("plan_id", id), logging.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "failed to load plan")
	default:
		writeJSON(w, http.StatusOK, planResponse{ID: id, Result: res})
	}
}

func (s *server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
