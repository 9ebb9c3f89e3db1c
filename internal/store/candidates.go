// Package store holds the in-memory collections owned by the pipeline
// service. Records are replaced whole on every update (copy-on-write), so
// concurrent readers never observe a half-written candidate.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"youngtalents/pipeline-service/internal/model"
	"youngtalents/pipeline-service/internal/persist"
)

const candidateSnapshotKey = "pipeline:candidates"

// Query filters a candidate listing. Zero-value fields are ignored.
type Query struct {
	Stage string // exact stage match
	Text  string // matched against name and email
	Role  string // case-insensitive substring
	City  string // case-insensitive substring
}

// CandidateStore is the single owner of candidate records.
type CandidateStore struct {
	mu    sync.RWMutex
	byID  map[string]model.Candidate
	order []string
}

// NewCandidateStore returns an empty store.
func NewCandidateStore() *CandidateStore {
	return &CandidateStore{byID: make(map[string]model.Candidate)}
}

// Add stores a candidate, assigning a fresh id when absent, and returns the
// stored record.
func (s *CandidateStore) Add(c model.Candidate) model.Candidate {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	c.UpdatedAt = now

	if _, exists := s.byID[c.ID]; !exists {
		s.order = append(s.order, c.ID)
	}
	s.byID[c.ID] = c.Clone()
	return c
}

// Get returns a copy of the candidate with the given id.
func (s *CandidateStore) Get(id string) (model.Candidate, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.byID[id]
	if !ok {
		return model.Candidate{}, false
	}
	return c.Clone(), true
}

// Update applies mutate to a copy of the matching record and swaps the copy
// in as one atomic replacement. A missing id is a no-op and reports false.
func (s *CandidateStore) Update(id string, mutate func(*model.Candidate)) (model.Candidate, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.byID[id]
	if !ok {
		return model.Candidate{}, false
	}
	next := current.Clone()
	mutate(&next)
	next.ID = current.ID // identity is immutable after creation
	next.UpdatedAt = time.Now().UTC()
	s.byID[id] = next
	return next.Clone(), true
}

// All returns every candidate in insertion order.
func (s *CandidateStore) All() []model.Candidate {
	return s.Filter(Query{})
}

// Filter returns candidates matching q, in insertion order.
func (s *CandidateStore) Filter(q Query) []model.Candidate {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Candidate, 0, len(s.order))
	for _, id := range s.order {
		c := s.byID[id]
		if matches(c, q) {
			out = append(out, c.Clone())
		}
	}
	return out
}

// Count returns the number of stored candidates.
func (s *CandidateStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}

func matches(c model.Candidate, q Query) bool {
	if q.Stage != "" && c.Status != q.Stage {
		return false
	}
	if q.Text != "" {
		text := strings.ToLower(q.Text)
		if !strings.Contains(strings.ToLower(c.Name), text) &&
			!strings.Contains(strings.ToLower(c.Email), text) {
			return false
		}
	}
	if q.Role != "" && !strings.Contains(strings.ToLower(c.Role), strings.ToLower(q.Role)) {
		return false
	}
	if q.City != "" && !strings.Contains(strings.ToLower(c.City), strings.ToLower(q.City)) {
		return false
	}
	return true
}

// Snapshot serialises the full collection to the persistence collaborator.
func (s *CandidateStore) Snapshot(ctx context.Context, kv persist.KV) error {
	data, err := json.Marshal(s.All())
	if err != nil {
		return fmt.Errorf("marshal candidates: %w", err)
	}
	if err := kv.Set(ctx, candidateSnapshotKey, data); err != nil {
		return fmt.Errorf("persist candidates: %w", err)
	}
	return nil
}

// Restore loads a previously written snapshot. A missing key leaves the
// store empty without error.
func (s *CandidateStore) Restore(ctx context.Context, kv persist.KV) error {
	data, err := kv.Get(ctx, candidateSnapshotKey)
	if err != nil {
		if err == persist.ErrKeyNotFound {
			return nil
		}
		return fmt.Errorf("load candidates: %w", err)
	}

	var candidates []model.Candidate
	if err := json.Unmarshal(data, &candidates); err != nil {
		return fmt.Errorf("unmarshal candidates: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.byID = make(map[string]model.Candidate, len(candidates))
	s.order = s.order[:0]
	for _, c := range candidates {
		if c.ID == "" {
			continue
		}
		s.byID[c.ID] = c.Clone()
		s.order = append(s.order, c.ID)
	}
	return nil
}
