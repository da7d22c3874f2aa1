package history

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // PostgreSQL driver
)

const (
	defaultMaxOpenConns    = 25
	defaultMaxIdleConns    = 5
	defaultConnMaxLifetime = 5 * time.Minute
	defaultPingTimeout     = 5 * time.Second
)

// NewPostgresConnection creates a pooled PostgreSQL connection.
func NewPostgresConnection(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(defaultMaxOpenConns)
	db.SetMaxIdleConns(defaultMaxIdleConns)
	db.SetConnMaxLifetime(defaultConnMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), defaultPingTimeout)
	defer cancel()

	if pingErr := db.PingContext(ctx); pingErr != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", pingErr)
	}

	return db, nil
}

// PostgresRepository is the database-backed history repository.
type PostgresRepository struct {
	db *sqlx.DB
}

// NewPostgresRepository creates a repository over an existing connection.
func NewPostgresRepository(db *sqlx.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// SaveConsultation persists a consultation.
func (r *PostgresRepository) SaveConsultation(ctx context.Context, userID string, req *ConsultationCreateRequest) (*Consultation, error) {
	consultation := &Consultation{
		ID:          uuid.New(),
		UserID:      userID,
		Query:       req.Query,
		Summary:     req.Summary,
		KeyFindings: req.KeyFindings,
		Confidence:  req.Confidence,
		CreatedAt:   time.Now(),
	}

	query := `
		INSERT INTO consultations (id, user_id, query, summary, key_findings, confidence, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, user_id, query, summary, key_findings, confidence, created_at
	`

	err := r.db.QueryRowxContext(
		ctx, query,
		consultation.ID, consultation.UserID, consultation.Query, consultation.Summary,
		consultation.KeyFindings, consultation.Confidence, consultation.CreatedAt,
	).StructScan(consultation)
	if err != nil {
		return nil, fmt.Errorf("failed to save consultation: %w", err)
	}

	return consultation, nil
}

// ListConsultations returns the user's consultations, newest first.
func (r *PostgresRepository) ListConsultations(ctx context.Context, userID string, limit int) ([]Consultation, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	consultations := []Consultation{}
	query := `
		SELECT id, user_id, query, summary, key_findings, confidence, created_at
		FROM consultations
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	if err := r.db.SelectContext(ctx, &consultations, query, userID, limit); err != nil {
		return nil, fmt.Errorf("failed to list consultations: %w", err)
	}

	return consultations, nil
}

// RecordSearch appends a search term to the user's history.
func (r *PostgresRepository) RecordSearch(ctx context.Context, userID, term string) error {
	query := `
		INSERT INTO search_history (id, user_id, term, created_at)
		VALUES ($1, $2, $3, $4)
	`

	if _, err := r.db.ExecContext(ctx, query, uuid.New(), userID, term, time.Now()); err != nil {
		return fmt.Errorf("failed to record search: %w", err)
	}
	return nil
}

// ListSearches returns the user's search history, newest first.
func (r *PostgresRepository) ListSearches(ctx context.Context, userID string, limit int) ([]SearchEntry, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	entries := []SearchEntry{}
	query := `
		SELECT id, user_id, term, created_at
		FROM search_history
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	if err := r.db.SelectContext(ctx, &entries, query, userID, limit); err != nil {
		return nil, fmt.Errorf("failed to list search history: %w", err)
	}

	return entries, nil
}
