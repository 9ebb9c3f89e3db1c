package funnel

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"youngtalents/pipeline-service/internal/model"
	"youngtalents/pipeline-service/internal/persist"
)

// CandidateStore is the slice of the store the coordinator needs: lookups
// and atomic whole-record updates.
type CandidateStore interface {
	Get(id string) (model.Candidate, bool)
	Update(id string, mutate func(*model.Candidate)) (model.Candidate, bool)
}

// EventPublisher broadcasts applied moves. Publishing is best-effort; a
// failed publish never blocks or reverts a move.
type EventPublisher interface {
	CandidateMoved(ctx context.Context, candidateID string, from, to Stage)
}

// NopPublisher discards events.
type NopPublisher struct{}

func (NopPublisher) CandidateMoved(context.Context, string, Stage, Stage) {}

// Policy tunes the coordinator's optional guards. Both default to the
// permissive original behaviour: stages may be skipped in either direction,
// and a new move request silently replaces a pending one.
type Policy struct {
	StrictSequential bool
	RejectWhenBusy   bool
}

// Outcome classifies the result of a move request.
type Outcome string

const (
	OutcomeApplied  Outcome = "applied"   // status updated immediately
	OutcomeNoop     Outcome = "noop"      // already at the target stage
	OutcomeNotFound Outcome = "not_found" // unknown candidate, silently ignored
	OutcomePending  Outcome = "pending"   // awaiting data collection
	OutcomeRejected Outcome = "rejected"  // refused by policy
)

// MoveResult is what a move request produced. Candidate is set for applied
// and noop outcomes; Missing carries the collection contract for pending
// ones; Reason explains rejections.
type MoveResult struct {
	Outcome   Outcome
	Candidate model.Candidate
	Missing   []FieldSpec
	Reason    string
}

type pendingMove struct {
	candidateID string
	target      Stage
	missing     []Field
}

// Coordinator orchestrates guarded stage transitions. It holds a single
// pending-move slot: at most one data-collection interaction is open at a
// time, matching single-operator usage.
type Coordinator struct {
	store     CandidateStore
	history   persist.KV
	publisher EventPublisher
	policy    Policy
	log       *slog.Logger

	mu      sync.Mutex
	pending *pendingMove
}

// NewCoordinator wires a Coordinator. history and publisher may be nil to
// disable move journaling and event publishing; a nil logger falls back to
// slog.Default.
func NewCoordinator(store CandidateStore, history persist.KV, publisher EventPublisher, policy Policy, log *slog.Logger) *Coordinator {
	if publisher == nil {
		publisher = NopPublisher{}
	}
	if log == nil {
		log = slog.Default()
	}
	return &Coordinator{
		store:     store,
		history:   history,
		publisher: publisher,
		policy:    policy,
		log:       log,
	}
}

// RequestMove asks to move a candidate to target. When the target's
// requirements are already satisfied the move is applied on the spot;
// otherwise the missing fields are recorded in the pending slot and
// returned so the UI can open a data-collection interaction. The status
// field is only ever written here and in Confirm.
func (co *Coordinator) RequestMove(ctx context.Context, candidateID string, target Stage) MoveResult {
	cand, ok := co.store.Get(candidateID)
	if !ok {
		return MoveResult{Outcome: OutcomeNotFound}
	}

	// Moving to the current stage is never an error, just a no-op.
	if cand.Status == string(target) {
		return MoveResult{Outcome: OutcomeNoop, Candidate: cand}
	}

	if co.policy.StrictSequential && !StrictStepAllowed(Stage(cand.Status), target) {
		return MoveResult{
			Outcome: OutcomeRejected,
			Reason:  fmt.Sprintf("transition %s → %s skips the sequence", cand.Status, target),
		}
	}

	missing := MissingFields(cand, target)
	if len(missing) == 0 {
		updated, ok := co.store.Update(candidateID, func(c *model.Candidate) {
			c.Status = string(target)
		})
		if !ok {
			return MoveResult{Outcome: OutcomeNotFound}
		}
		// A direct apply supersedes any open interaction for this candidate;
		// the stale contract must not stay confirmable.
		co.clearPending(candidateID)
		co.recordMove(ctx, candidateID, Stage(cand.Status), target)
		return MoveResult{Outcome: OutcomeApplied, Candidate: updated}
	}

	co.mu.Lock()
	defer co.mu.Unlock()
	if co.pending != nil && co.policy.RejectWhenBusy {
		return MoveResult{
			Outcome: OutcomeRejected,
			Reason:  "another move is awaiting data collection",
		}
	}
	co.pending = &pendingMove{candidateID: candidateID, target: target, missing: missing}

	return MoveResult{Outcome: OutcomePending, Missing: Specs(missing)}
}

// Confirm completes a pending move with the collected values. Validation is
// all-or-nothing: on failure the pending slot survives so the interaction
// stays open. On success the status change and collected fields land in the
// store as a single atomic merge.
func (co *Coordinator) Confirm(ctx context.Context, candidateID string, sub Submission) (model.Candidate, error) {
	co.mu.Lock()
	p := co.pending
	co.mu.Unlock()

	if p == nil || p.candidateID != candidateID {
		return model.Candidate{}, ErrNoPendingMove
	}

	if err := ValidateSubmission(p.missing, sub); err != nil {
		return model.Candidate{}, err
	}

	var from Stage
	updated, ok := co.store.Update(candidateID, func(c *model.Candidate) {
		from = Stage(c.Status)
		*c = applySubmission(*c, p.missing, sub)
		c.Status = string(p.target)
	})
	if !ok {
		// Candidate vanished between request and confirm; drop the slot.
		co.clearPending(candidateID)
		return model.Candidate{}, ErrNotFound
	}

	co.clearPending(candidateID)
	co.recordMove(ctx, candidateID, from, p.target)
	return updated, nil
}

// Cancel abandons the pending move for the candidate, leaving every field
// untouched. Reports whether a pending move was actually cleared.
func (co *Coordinator) Cancel(candidateID string) bool {
	return co.clearPending(candidateID)
}

// PendingFor returns the open data-collection contract for a candidate, so
// the UI can re-render the interaction after a validation failure.
func (co *Coordinator) PendingFor(candidateID string) (Stage, []FieldSpec, bool) {
	co.mu.Lock()
	defer co.mu.Unlock()
	if co.pending == nil || co.pending.candidateID != candidateID {
		return "", nil, false
	}
	return co.pending.target, Specs(co.pending.missing), true
}

func (co *Coordinator) clearPending(candidateID string) bool {
	co.mu.Lock()
	defer co.mu.Unlock()
	if co.pending == nil || co.pending.candidateID != candidateID {
		return false
	}
	co.pending = nil
	return true
}

// recordMove journals the applied move and publishes the board event. Both
// are non-fatal.
func (co *Coordinator) recordMove(ctx context.Context, candidateID string, from, to Stage) {
	if co.history != nil {
		entry, _ := json.Marshal(map[string]string{
			"candidateId": candidateID,
			"from":        string(from),
			"to":          string(to),
			"at":          time.Now().UTC().Format(time.RFC3339),
		})
		if err := co.history.Append(ctx, persist.KeyMoveHistory, entry); err != nil {
			co.log.Warn("append move history failed", "candidateId", candidateID, "err", err)
		}
	}
	co.publisher.CandidateMoved(ctx, candidateID, from, to)
}

// ─── Sentinel errors ─────────────────────────────────────────────────────────

// ErrNotFound is returned when a candidate disappears mid-interaction.
var ErrNotFound = fmt.Errorf("candidate not found")

// ErrNoPendingMove is returned by Confirm when no data collection is open
// for the candidate.
var ErrNoPendingMove = fmt.Errorf("no pending move for candidate")

// ValidationError wraps a user-facing validation message.
type ValidationError struct{ Msg string }

func (e *ValidationError) Error() string { return e.Msg }
