// Package history stores saved consultations and research search history per
// user. The site runs in demo mode with an in-memory repository; configuring
// a database swaps in the PostgreSQL implementation without touching callers.
package history

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// DefaultListLimit caps history listings when the caller does not specify one.
const DefaultListLimit = 20

// ErrNotFound is returned when a requested history record does not exist.
var ErrNotFound = errors.New("history record not found")

// Consultation is one saved research consultation.
type Consultation struct {
	ID          uuid.UUID      `db:"id" json:"id"`
	UserID      string         `db:"user_id" json:"user_id"`
	Query       string         `db:"query" json:"query"`
	Summary     string         `db:"summary" json:"summary"`
	KeyFindings pq.StringArray `db:"key_findings" json:"key_findings"`
	Confidence  float64        `db:"confidence" json:"confidence"`
	CreatedAt   time.Time      `db:"created_at" json:"created_at"`
}

// SearchEntry is one recorded research search.
type SearchEntry struct {
	ID        uuid.UUID `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"user_id"`
	Term      string    `db:"term" json:"term"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// ConsultationCreateRequest is the payload for saving a consultation.
type ConsultationCreateRequest struct {
	Query       string   `json:"query" binding:"required"`
	Summary     string   `json:"summary" binding:"required"`
	KeyFindings []string `json:"key_findings"`
	Confidence  float64  `json:"confidence"`
}

// Repository stores consultations and search history scoped by user id.
type Repository interface {
	// SaveConsultation persists a consultation and returns it with id and timestamp set.
	SaveConsultation(ctx context.Context, userID string, req *ConsultationCreateRequest) (*Consultation, error)
	// ListConsultations returns the user's consultations, newest first, up to limit.
	ListConsultations(ctx context.Context, userID string, limit int) ([]Consultation, error)
	// RecordSearch appends a search term to the user's history.
	RecordSearch(ctx context.Context, userID, term string) error
	// ListSearches returns the user's search history, newest first, up to limit.
	ListSearches(ctx context.Context, userID string, limit int) ([]SearchEntry, error)
}
