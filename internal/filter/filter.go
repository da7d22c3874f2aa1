// Package filter computes the visible subset of a content collection for a
// category and free-text selection. Every function is a pure, stable,
// order-preserving filter over a records snapshot; nothing here allocates
// state or touches I/O.
package filter

import (
	"strings"

	"github.com/clinicflow/content-service/internal/store"
)

// AllCategories is the sentinel category that disables category filtering.
const AllCategories = "All"

// State is the ephemeral, session-scoped filter selection.
type State struct {
	Category string `json:"category"`
	Term     string `json:"term"`
}

// DefaultState returns the initial selection: all categories, no search term.
func DefaultState() State {
	return State{Category: AllCategories}
}

// ByCategory returns the subsequence of records whose category exactly equals
// the argument. The AllCategories sentinel returns the input unchanged.
// Matching is case-sensitive; relative order is preserved.
func ByCategory(records []store.ContentRecord, category string) []store.ContentRecord {
	if category == AllCategories {
		return records
	}

	var out []store.ContentRecord
	for _, rec := range records {
		if rec.Category == category {
			out = append(out, rec)
		}
	}
	return out
}

// Search returns the subsequence of records where the lowercased term is a
// substring of the lowercased title, summary, author, or any tag. An empty
// term returns the input unchanged. The term is deliberately not trimmed:
// an all-whitespace term matches only records whose text contains that
// whitespace, mirroring how the site has always behaved.
func Search(records []store.ContentRecord, term string) []store.ContentRecord {
	if term == "" {
		return records
	}

	needle := strings.ToLower(term)
	var out []store.ContentRecord
	for _, rec := range records {
		if matches(&rec, needle) {
			out = append(out, rec)
		}
	}
	return out
}

func matches(rec *store.ContentRecord, needle string) bool {
	if strings.Contains(strings.ToLower(rec.Title), needle) {
		return true
	}
	if strings.Contains(strings.ToLower(rec.Summary), needle) {
		return true
	}
	if rec.Author != "" && strings.Contains(strings.ToLower(rec.Author), needle) {
		return true
	}
	for _, tag := range rec.Tags {
		if strings.Contains(strings.ToLower(tag), needle) {
			return true
		}
	}
	return false
}

// Apply computes the visible set for a filter state: category first, then
// search. Both are pure predicate filters, so the composition is AND
// semantics regardless of ordering.
func Apply(records []store.ContentRecord, state State) []store.ContentRecord {
	return Search(ByCategory(records, state.Category), state.Term)
}

// RelatedTo returns up to maxCount other records sharing the record's
// category, excluding the record itself, in catalog order. Selection is by
// shared category only; there is no relevance ranking.
func RelatedTo(rec store.ContentRecord, records []store.ContentRecord, maxCount int) []store.ContentRecord {
	if maxCount <= 0 {
		return nil
	}

	var out []store.ContentRecord
	for _, candidate := range records {
		if candidate.Key == rec.Key {
			continue
		}
		if candidate.Category != rec.Category {
			continue
		}
		out = append(out, candidate)
		if len(out) == maxCount {
			break
		}
	}
	return out
}
