// Package resolver maps route parameters onto content records and enumerates
// every valid parameter for static page generation.
package resolver

import (
	"errors"
	"fmt"

	"github.com/clinicflow/content-service/internal/store"
)

// ErrNotFound is returned when a route parameter has no matching record.
// Callers must turn it into a terminal page-not-found response.
var ErrNotFound = errors.New("content not found")

// Resolver resolves route parameters against an injected content catalog.
type Resolver struct {
	store *store.Store
}

// New creates a resolver over the given catalog.
func New(s *store.Store) *Resolver {
	return &Resolver{store: s}
}

// Resolve returns the record for the exact route parameter. The parameter is
// not transformed in any way; an unknown collection or key yields ErrNotFound.
func (r *Resolver) Resolve(collection store.Collection, param string) (store.ContentRecord, error) {
	rec, ok := r.store.ByKey(collection, param)
	if !ok {
		return store.ContentRecord{}, fmt.Errorf("%w: %s/%s", ErrNotFound, collection, param)
	}
	return rec, nil
}

// Params enumerates every valid route parameter for the collection, in
// catalog order. Any parameter outside this set resolves to ErrNotFound.
func (r *Resolver) Params(collection store.Collection) []string {
	return r.store.Keys(collection)
}

// ResolveCategory returns every record whose normalized category matches the
// incoming slug, in catalog order. Zero matches yield ErrNotFound: a category
// page with no members does not exist.
func (r *Resolver) ResolveCategory(collection store.Collection, slug string) ([]store.ContentRecord, error) {
	var out []store.ContentRecord
	for _, rec := range r.store.All(collection) {
		if store.Slugify(rec.Category) == slug {
			out = append(out, rec)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: %s/category/%s", ErrNotFound, collection, slug)
	}
	return out, nil
}

// CategoryRef pairs a category label with its route slug.
type CategoryRef struct {
	Label string `json:"label"`
	Slug  string `json:"slug"`
}

// Categories returns the collection's distinct categories with their slugs,
// in first appearance order. The slugs here are the same normalization
// ResolveCategory matches against.
func (r *Resolver) Categories(collection store.Collection) []CategoryRef {
	labels := r.store.Categories(collection)
	refs := make([]CategoryRef, len(labels))
	for i, label := range labels {
		refs[i] = CategoryRef{Label: label, Slug: store.Slugify(label)}
	}
	return refs
}

// Route describes one static page the frontend must generate.
type Route struct {
	Collection string `json:"collection"`
	Path       string `json:"path"`
}

// Sitemap enumerates every static route across all shipped collections:
// one detail page per record and one category page per distinct category.
func (r *Resolver) Sitemap() []Route {
	var routes []Route
	for _, collection := range store.Collections() {
		if !r.store.Has(collection) {
			continue
		}
		for _, key := range r.store.Keys(collection) {
			routes = append(routes, Route{
				Collection: string(collection),
				Path:       fmt.Sprintf("/%s/%s", collection, key),
			})
		}
		for _, ref := range r.Categories(collection) {
			routes = append(routes, Route{
				Collection: string(collection),
				Path:       fmt.Sprintf("/%s/category/%s", collection, ref.Slug),
			})
		}
	}
	return routes
}
