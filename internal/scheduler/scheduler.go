// Package scheduler wires up the cron job that periodically scores
// candidates still missing an AI analysis.
package scheduler

import (
	"context"
	"fmt"
	"log"

	"github.com/robfig/cron/v3"

	"youngtalents/pipeline-service/internal/enrich"
	"youngtalents/pipeline-service/internal/funnel"
	"youngtalents/pipeline-service/internal/persist"
	"youngtalents/pipeline-service/internal/store"
)

// Scheduler wraps robfig/cron and manages the enrichment sweep.
type Scheduler struct {
	cron       *cron.Cron
	enricher   *enrich.Enricher
	candidates *store.CandidateStore
	kv         persist.KV
	spec       string // cron spec, e.g. "@every 6h"
}

// New creates a Scheduler that fires every intervalHours hours.
func New(enricher *enrich.Enricher, candidates *store.CandidateStore, kv persist.KV, intervalHours int) *Scheduler {
	return &Scheduler{
		cron:       cron.New(cron.WithLogger(cron.DefaultLogger)),
		enricher:   enricher,
		candidates: candidates,
		kv:         kv,
		spec:       fmt.Sprintf("@every %dh", intervalHours),
	}
}

// Start registers the job and starts the scheduler. Also runs one sweep
// immediately so fresh imports get scored without waiting for the first
// tick.
func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.spec, func() {
		s.Sweep(ctx)
	})
	if err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}

	s.cron.Start()
	log.Printf("[scheduler] Cron started — spec: %s", s.spec)

	go s.Sweep(ctx)
	return nil
}

// Stop gracefully shuts down the scheduler.
func (s *Scheduler) Stop() {
	s.cron.Stop()
	log.Println("[scheduler] Cron stopped")
}

// Sweep analyzes every candidate that has no score yet. Rejected
// candidates are skipped: their process is closed.
func (s *Scheduler) Sweep(ctx context.Context) {
	pending := 0
	for _, cand := range s.candidates.All() {
		if cand.AIScore != nil || cand.Status == string(funnel.StageReprovado) {
			continue
		}
		pending++
		if _, ok := s.enricher.Analyze(ctx, cand.ID); !ok {
			log.Printf("[scheduler] candidate %s disappeared mid-sweep", cand.ID)
		}
	}

	if pending == 0 {
		return
	}
	log.Printf("[scheduler] Sweep complete — analyzed %d candidate(s)", pending)

	if s.kv != nil {
		if err := s.candidates.Snapshot(ctx, s.kv); err != nil {
			log.Printf("[scheduler] snapshot after sweep failed: %v", err)
		}
	}
}
