package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicflow/content-service/internal/store"
)

func catalog() []store.ContentRecord {
	return []store.ContentRecord{
		{Key: "a", Title: "EMR Integration Basics", Summary: "Connecting clinic systems", Category: "Technology", Author: "Dana Wells", Tags: []string{"emr", "integration"}},
		{Key: "b", Title: "PHIPA Compliance Guide", Summary: "Privacy rules for Ontario clinics", Category: "Compliance", Author: "Sam Archer", Tags: []string{"privacy", "ontario"}},
		{Key: "c", Title: "Billing Codes Explained", Summary: "OHIP billing walkthrough", Category: "Operations", Author: "Dana Wells", Tags: []string{"billing"}},
		{Key: "d", Title: "Clinic Staffing Models", Summary: "Scaling front desk teams", Category: "Operations", Author: "Riley Chen", Tags: []string{"staffing", "operations"}},
	}
}

func keys(records []store.ContentRecord) []string {
	out := make([]string, 0, len(records))
	for _, rec := range records {
		out = append(out, rec.Key)
	}
	return out
}

func TestDefaultState(t *testing.T) {
	state := DefaultState()
	assert.Equal(t, AllCategories, state.Category)
	assert.Empty(t, state.Term)
}

func TestByCategory(t *testing.T) {
	records := catalog()

	tests := []struct {
		name     string
		category string
		want     []string
	}{
		{"all sentinel returns everything", AllCategories, []string{"a", "b", "c", "d"}},
		{"exact match", "Operations", []string{"c", "d"}},
		{"case sensitive", "operations", nil},
		{"unknown category", "Marketing", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ByCategory(records, tt.category)
			assert.Equal(t, tt.want, keys(got))
		})
	}
}

func TestByCategorySentinelIsIdentity(t *testing.T) {
	records := catalog()
	got := ByCategory(records, AllCategories)
	require.Len(t, got, len(records))
	assert.Equal(t, keys(records), keys(got))
}

func TestSearch(t *testing.T) {
	records := catalog()

	tests := []struct {
		name string
		term string
		want []string
	}{
		{"empty term returns everything", "", []string{"a", "b", "c", "d"}},
		{"title match case insensitive", "phipa", []string{"b"}},
		{"summary match", "ohip", []string{"c"}},
		{"author match", "dana", []string{"a", "c"}},
		{"tag match", "staffing", []string{"d"}},
		{"substring not whole word", "integ", []string{"a"}},
		{"no match", "cardiology", nil},
		{"whitespace term is literal", "   ", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Search(records, tt.term)
			assert.Equal(t, tt.want, keys(got))
		})
	}
}

func TestSearchPreservesOrder(t *testing.T) {
	records := catalog()
	got := Search(records, "clinic")
	// Matches must come back in catalog order regardless of which field hit.
	assert.Equal(t, []string{"a", "b", "d"}, keys(got))
}

func TestApplyComposesCategoryAndSearch(t *testing.T) {
	records := catalog()

	got := Apply(records, State{Category: "Operations", Term: "billing"})
	assert.Equal(t, []string{"c"}, keys(got))

	got = Apply(records, State{Category: "Operations", Term: "phipa"})
	assert.Empty(t, got)

	got = Apply(records, DefaultState())
	assert.Equal(t, keys(records), keys(got))
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	records := catalog()
	before := keys(records)

	Apply(records, State{Category: "Compliance", Term: "privacy"})

	assert.Equal(t, before, keys(records))
}

func TestRelatedTo(t *testing.T) {
	records := catalog()

	tests := []struct {
		name     string
		rec      store.ContentRecord
		maxCount int
		want     []string
	}{
		{"excludes self", records[2], 5, []string{"d"}},
		{"caps at maxCount", store.ContentRecord{Key: "z", Category: "Operations"}, 1, []string{"c"}},
		{"zero max", records[0], 0, nil},
		{"no shared category", store.ContentRecord{Key: "z", Category: "Marketing"}, 3, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RelatedTo(tt.rec, records, tt.maxCount)
			assert.Equal(t, tt.want, keys(got))
		})
	}
}
