package store

import (
	"strings"
	"sync"

	"github.com/google/uuid"

	"youngtalents/pipeline-service/internal/model"
)

// TemplateStore manages the stage-triggered email templates configured on
// the settings page. Templates never fire on a move; they are plain
// configuration records.
type TemplateStore struct {
	mu    sync.RWMutex
	byID  map[string]model.EmailTemplate
	order []string
}

// NewTemplateStore returns a store seeded with the given templates.
func NewTemplateStore(seed []model.EmailTemplate) *TemplateStore {
	s := &TemplateStore{byID: make(map[string]model.EmailTemplate)}
	for _, t := range seed {
		s.Save(t)
	}
	return s
}

// Save inserts or replaces a template, assigning an id when absent, and
// returns the stored record.
func (s *TemplateStore) Save(t model.EmailTemplate) model.EmailTemplate {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if _, exists := s.byID[t.ID]; !exists {
		s.order = append(s.order, t.ID)
	}
	s.byID[t.ID] = t
	return t
}

// Get returns the template with the given id.
func (s *TemplateStore) Get(id string) (model.EmailTemplate, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.byID[id]
	return t, ok
}

// Delete removes a template; a missing id is a no-op.
func (s *TemplateStore) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[id]; !ok {
		return
	}
	delete(s.byID, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// All returns every template in insertion order.
func (s *TemplateStore) All() []model.EmailTemplate {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.EmailTemplate, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.byID[id])
	}
	return out
}

// ForStage returns the active templates whose trigger matches the stage name.
func (s *TemplateStore) ForStage(stage string) []model.EmailTemplate {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []model.EmailTemplate
	for _, id := range s.order {
		t := s.byID[id]
		if t.Active && t.TriggerStatus == stage {
			out = append(out, t)
		}
	}
	return out
}

// RenderPreview substitutes the {nome} and {vaga} placeholders with the
// candidate's name and role, returning subject and body.
func RenderPreview(t model.EmailTemplate, c model.Candidate) (string, string) {
	replacer := strings.NewReplacer("{nome}", c.Name, "{vaga}", c.Role)
	return replacer.Replace(t.Subject), replacer.Replace(t.Body)
}
