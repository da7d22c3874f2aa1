package resolver

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicflow/content-service/internal/store"
)

func testStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.New(map[store.Collection][]store.ContentRecord{
		store.CollectionBlog: {
			{Key: "sample-post", Title: "Sample Post", Summary: "s", Category: "Documentation"},
			{Key: "intake-forms", Title: "Intake Forms", Summary: "s", Category: "Operations"},
			{Key: "waitlists", Title: "Waitlists", Summary: "s", Category: "Operations"},
		},
		store.CollectionLocations: {
			{Key: "toronto", Title: "Toronto", Summary: "s", Category: "Ontario"},
		},
	})
	require.NoError(t, err)
	return s
}

func TestResolve(t *testing.T) {
	r := New(testStore(t))

	rec, err := r.Resolve(store.CollectionBlog, "sample-post")
	require.NoError(t, err)
	assert.Equal(t, "Sample Post", rec.Title)
}

func TestResolveUnknownKey(t *testing.T) {
	r := New(testStore(t))

	tests := []struct {
		name       string
		collection store.Collection
		param      string
	}{
		{"unknown key", store.CollectionBlog, "sample-post-2"},
		{"wrong case", store.CollectionBlog, "Sample-Post"},
		{"empty param", store.CollectionBlog, ""},
		{"unknown collection", "podcasts", "sample-post"},
		{"key from other collection", store.CollectionLocations, "sample-post"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.Resolve(tt.collection, tt.param)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrNotFound))
		})
	}
}

func TestParamsCoverEveryRecord(t *testing.T) {
	r := New(testStore(t))

	params := r.Params(store.CollectionBlog)
	assert.Equal(t, []string{"sample-post", "intake-forms", "waitlists"}, params)

	for _, param := range params {
		_, err := r.Resolve(store.CollectionBlog, param)
		assert.NoError(t, err)
	}
}

func TestResolveCategory(t *testing.T) {
	r := New(testStore(t))

	records, err := r.ResolveCategory(store.CollectionBlog, "operations")
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "intake-forms", records[0].Key)
	assert.Equal(t, "waitlists", records[1].Key)
}

func TestResolveCategoryEmptyIsNotFound(t *testing.T) {
	r := New(testStore(t))

	_, err := r.ResolveCategory(store.CollectionBlog, "marketing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))

	// Labels are not slugs; the raw label must not resolve.
	_, err = r.ResolveCategory(store.CollectionBlog, "Operations")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestCategoriesMatchResolveCategory(t *testing.T) {
	r := New(testStore(t))

	refs := r.Categories(store.CollectionBlog)
	require.Equal(t, []CategoryRef{
		{Label: "Documentation", Slug: "documentation"},
		{Label: "Operations", Slug: "operations"},
	}, refs)

	// Every generated category link must resolve to a non-empty page.
	for _, ref := range refs {
		records, err := r.ResolveCategory(store.CollectionBlog, ref.Slug)
		require.NoError(t, err)
		assert.NotEmpty(t, records)
	}
}

func TestSitemap(t *testing.T) {
	r := New(testStore(t))

	routes := r.Sitemap()

	paths := make([]string, len(routes))
	for i, route := range routes {
		paths[i] = route.Path
	}

	assert.Contains(t, paths, "/blog/sample-post")
	assert.Contains(t, paths, "/blog/category/operations")
	assert.Contains(t, paths, "/locations/toronto")
	assert.Contains(t, paths, "/locations/category/ontario")
	// 4 detail pages + 3 category pages.
	assert.Len(t, routes, 7)
}
