package profile

import (
	"context"
	"sync"
	"time"
)

// MemoryRepository keeps profiles in process memory. It backs demo mode and
// serves as the fallback when Redis is unreachable at startup.
type MemoryRepository struct {
	mu       sync.RWMutex
	profiles map[string]Profile

	now func() time.Time
}

// NewMemoryRepository creates an empty in-memory profile store.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		profiles: make(map[string]Profile),
		now:      time.Now,
	}
}

// Get returns the user's profile, materializing defaults on first access.
func (r *MemoryRepository) Get(_ context.Context, userID string) (Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.profiles[userID]
	if !ok {
		p = DefaultProfile(userID, r.now())
		r.profiles[userID] = p
	}
	return p, nil
}

// Put replaces the user's profile.
func (r *MemoryRepository) Put(_ context.Context, userID string, p Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p.UserID = userID
	p.UpdatedAt = r.now()
	r.profiles[userID] = p
	return nil
}

// Update applies a partial change and returns the resulting profile.
func (r *MemoryRepository) Update(_ context.Context, userID string, u Update) (Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.profiles[userID]
	if !ok {
		p = DefaultProfile(userID, r.now())
	}
	p = p.apply(u, r.now())
	r.profiles[userID] = p
	return p, nil
}
