// Package profile persists per-user profile documents behind a minimal
// key-value repository interface. Nothing in the content core depends on the
// backing store; any document database can satisfy Repository.
package profile

import (
	"context"
	"time"
)

// Profile is the per-user profile document.
type Profile struct {
	UserID      string      `json:"user_id"`
	DisplayName string      `json:"display_name"`
	Specialty   string      `json:"specialty"`
	Province    string      `json:"province"`
	Preferences Preferences `json:"preferences"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// Preferences holds the research assistant preferences.
type Preferences struct {
	EvidenceLevel         string `json:"evidence_level"`
	IncludePatientContext bool   `json:"include_patient_context"`
	ResultLimit           int    `json:"result_limit"`
	Language              string `json:"language"`
}

// Update carries a partial profile change; nil fields are left untouched.
type Update struct {
	DisplayName *string      `json:"display_name,omitempty"`
	Specialty   *string      `json:"specialty,omitempty"`
	Province    *string      `json:"province,omitempty"`
	Preferences *Preferences `json:"preferences,omitempty"`
}

// Repository is the key-value profile store, keyed by user id.
type Repository interface {
	// Get returns the user's profile, materializing defaults on first access.
	Get(ctx context.Context, userID string) (Profile, error)
	// Put replaces the user's profile.
	Put(ctx context.Context, userID string, p Profile) error
	// Update applies a partial change and returns the resulting profile.
	Update(ctx context.Context, userID string, u Update) (Profile, error)
}

// DefaultProfile returns the profile created on a user's first access.
func DefaultProfile(userID string, now time.Time) Profile {
	return Profile{
		UserID: userID,
		Preferences: Preferences{
			EvidenceLevel:         "high",
			IncludePatientContext: false,
			ResultLimit:           10,
			Language:              "en",
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// apply merges an update into a profile.
func (p Profile) apply(u Update, now time.Time) Profile {
	if u.DisplayName != nil {
		p.DisplayName = *u.DisplayName
	}
	if u.Specialty != nil {
		p.Specialty = *u.Specialty
	}
	if u.Province != nil {
		p.Province = *u.Province
	}
	if u.Preferences != nil {
		p.Preferences = *u.Preferences
	}
	p.UpdatedAt = now
	return p
}
