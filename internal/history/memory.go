package history

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryRepository is the demo-mode history store. Contents live for the
// process lifetime only, which is exactly the behavior the assistant demo
// wants: everything resets on restart.
type MemoryRepository struct {
	mu            sync.RWMutex
	consultations map[string][]Consultation
	searches      map[string][]SearchEntry
}

// NewMemoryRepository creates an empty in-memory history store.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		consultations: make(map[string][]Consultation),
		searches:      make(map[string][]SearchEntry),
	}
}

// SaveConsultation stores a consultation in memory.
func (r *MemoryRepository) SaveConsultation(_ context.Context, userID string, req *ConsultationCreateRequest) (*Consultation, error) {
	consultation := Consultation{
		ID:          uuid.New(),
		UserID:      userID,
		Query:       req.Query,
		Summary:     req.Summary,
		KeyFindings: req.KeyFindings,
		Confidence:  req.Confidence,
		CreatedAt:   time.Now(),
	}

	r.mu.Lock()
	r.consultations[userID] = append([]Consultation{consultation}, r.consultations[userID]...)
	r.mu.Unlock()

	return &consultation, nil
}

// ListConsultations returns the user's consultations, newest first.
func (r *MemoryRepository) ListConsultations(_ context.Context, userID string, limit int) ([]Consultation, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	stored := r.consultations[userID]
	if len(stored) > limit {
		stored = stored[:limit]
	}
	out := make([]Consultation, len(stored))
	copy(out, stored)
	return out, nil
}

// RecordSearch appends a search term to the user's history.
func (r *MemoryRepository) RecordSearch(_ context.Context, userID, term string) error {
	entry := SearchEntry{
		ID:        uuid.New(),
		UserID:    userID,
		Term:      term,
		CreatedAt: time.Now(),
	}

	r.mu.Lock()
	r.searches[userID] = append([]SearchEntry{entry}, r.searches[userID]...)
	r.mu.Unlock()

	return nil
}

// ListSearches returns the user's search history, newest first.
func (r *MemoryRepository) ListSearches(_ context.Context, userID string, limit int) ([]SearchEntry, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	stored := r.searches[userID]
	if len(stored) > limit {
		stored = stored[:limit]
	}
	out := make([]SearchEntry, len(stored))
	copy(out, stored)
	return out, nil
}
