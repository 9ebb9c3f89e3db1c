// pipeline-service
//
// Recruiting funnel backend for the Young Talents board.
// Exposes a REST API used by the board UI to implement:
//   - moveCard(candidateId, targetStatus) — guarded stage transitions
//   - confirm/cancel                      — data collection before a move lands
//   - analyze/questions                   — AI enrichment of candidate profiles
//   - CSV import/export                   — bulk candidate exchange
//
// Candidate state lives in memory; snapshots and the move history go to an
// external key-value store (memory, Redis or PostgreSQL). When Redis backs
// persistence, moves are also published as EVENT_CANDIDATE_MOVED.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"youngtalents/pipeline-service/internal/config"
	"youngtalents/pipeline-service/internal/enrich"
	"youngtalents/pipeline-service/internal/events"
	"youngtalents/pipeline-service/internal/funnel"
	"youngtalents/pipeline-service/internal/persist"
	"youngtalents/pipeline-service/internal/scheduler"
	"youngtalents/pipeline-service/internal/settings"
	"youngtalents/pipeline-service/internal/store"
)

const version = "1.0.0"

func main() {
	// ── Config ──────────────────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[pipeline] Config error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	// ── Persistence ──────────────────────────────────────────────────────────
	var (
		kv        persist.KV
		publisher funnel.EventPublisher = funnel.NopPublisher{}
	)
	switch cfg.PersistBackend {
	case "redis":
		log.Println("[pipeline] Connecting to Redis…")
		rdb, err := persist.NewRedis(ctx, cfg.RedisURL)
		if err != nil {
			log.Fatalf("[pipeline] Redis: %v", err)
		}
		defer rdb.Close()
		kv = rdb
		publisher = events.NewRedisPublisher(rdb.Client(), logger)
		log.Println("[pipeline] Redis connected ✓")
	case "postgres":
		log.Println("[pipeline] Connecting to PostgreSQL…")
		pg, err := persist.NewPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("[pipeline] PostgreSQL: %v", err)
		}
		defer pg.Close()
		kv = pg
		log.Println("[pipeline] PostgreSQL connected ✓")
	default:
		kv = persist.NewMemory()
	}

	// ── Stores ───────────────────────────────────────────────────────────────
	candidates := store.NewCandidateStore()
	if err := candidates.Restore(ctx, kv); err != nil {
		log.Fatalf("[pipeline] Restore snapshot: %v", err)
	}
	log.Printf("[pipeline] %d candidate(s) restored", candidates.Count())

	jobs := store.NewJobCatalog(store.SeedJobs())
	templates := store.NewTemplateStore(store.SeedTemplates())

	// ── Enrichment ───────────────────────────────────────────────────────────
	llm := enrich.NewLLMClient(enrich.LLMConfig{
		BaseURL: cfg.LLMBaseURL,
		APIKey:  cfg.LLMAPIKey,
		Model:   cfg.LLMModel,
	}, nil)
	enricher := enrich.NewEnricher(llm, candidates, jobs, logger)

	// ── Coordinator ──────────────────────────────────────────────────────────
	coord := funnel.NewCoordinator(candidates, kv, publisher, funnel.Policy{
		StrictSequential: cfg.StrictSequential,
		RejectWhenBusy:   cfg.RejectWhenBusy,
	}, logger)

	// ── HTTP server ──────────────────────────────────────────────────────────
	mux := http.NewServeMux()
	mux.HandleFunc("/health", healthHandler)

	snapshot := func(r *http.Request) {
		if err := candidates.Snapshot(r.Context(), kv); err != nil {
			logger.Warn("snapshot failed", "error", err)
		}
	}
	funnel.NewHandler(candidates, jobs, coord, enricher, snapshot).RegisterRoutes(mux)
	settings.NewHandler(templates, candidates, kv).RegisterRoutes(mux)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		log.Printf("[pipeline] v%s listening on :%s", version, cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("[pipeline] HTTP server error: %v", err)
		}
	}()

	// ── Scheduler ────────────────────────────────────────────────────────────
	var sched *scheduler.Scheduler
	if cfg.SweepIntervalHours > 0 {
		sched = scheduler.New(enricher, candidates, kv, cfg.SweepIntervalHours)
		if err := sched.Start(ctx); err != nil {
			log.Fatalf("[pipeline] Scheduler: %v", err)
		}
	}

	// ── Graceful shutdown ────────────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("[pipeline] Shutting down…")
	if sched != nil {
		sched.Stop()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[pipeline] Shutdown error: %v", err)
	}
	if err := candidates.Snapshot(shutdownCtx, kv); err != nil {
		log.Printf("[pipeline] Final snapshot error: %v", err)
	}
	log.Println("[pipeline] Stopped.")
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"status":  "ok",
		"service": "pipeline-service",
		"version": version,
	})
}
