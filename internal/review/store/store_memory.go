package store

import (
	"context"
	"fmt"
	"sync"

	"guardpost/internal/review/models"
)

// InMemoryStore keeps evaluations in memory, in insertion order. Used in
// tests and local development.
type InMemoryStore struct {
	mu          sync.RWMutex
	evaluations []models.Evaluation
}

// NewMemory constructs an empty in-memory evaluation store.
func NewMemory() *InMemoryStore {
	return &InMemoryStore{}
}

func (s *InMemoryStore) Append(_ context.Context, e *models.Evaluation) error {
	if e == nil {
		return fmt.Errorf("evaluation is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.evaluations = append(s.evaluations, *e)
	return nil
}

func (s *InMemoryStore) ListAll(_ context.Context) ([]models.Evaluation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Evaluation, len(s.evaluations))
	copy(out, s.evaluations)
	return out, nil
}
