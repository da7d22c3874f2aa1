package api

import (
	"time"

	"github.com/clinicflow/content-service/internal/filter"
	"github.com/clinicflow/content-service/internal/markdown"
	"github.com/clinicflow/content-service/internal/resolver"
	"github.com/clinicflow/content-service/internal/seo"
	"github.com/clinicflow/content-service/internal/store"
)

// displayTagLimit is how many tags listing cards show.
const displayTagLimit = 3

// ErrorResponse represents an error response. Content 404s carry the fallback
// metadata bundle so the not-found page still renders meta tags.
type ErrorResponse struct {
	Error     string      `json:"error"`
	Code      string      `json:"code"`
	Timestamp time.Time   `json:"timestamp"`
	Metadata  *seo.Bundle `json:"metadata,omitempty"`
}

// RecordSummary is the listing-card projection of a content record.
type RecordSummary struct {
	Key          string    `json:"key"`
	Title        string    `json:"title"`
	Summary      string    `json:"summary"`
	Category     string    `json:"category"`
	CategorySlug string    `json:"category_slug"`
	Author       string    `json:"author,omitempty"`
	DisplayTags  []string  `json:"display_tags,omitempty"`
	PublishedAt  time.Time `json:"published_at"`
}

func summarize(rec store.ContentRecord) RecordSummary {
	tags := rec.Tags
	if len(tags) > displayTagLimit {
		tags = tags[:displayTagLimit]
	}
	return RecordSummary{
		Key:          rec.Key,
		Title:        rec.Title,
		Summary:      rec.Summary,
		Category:     rec.Category,
		CategorySlug: store.Slugify(rec.Category),
		Author:       rec.Author,
		DisplayTags:  tags,
		PublishedAt:  rec.PublishedAt,
	}
}

func summarizeAll(records []store.ContentRecord) []RecordSummary {
	out := make([]RecordSummary, len(records))
	for i, rec := range records {
		out[i] = summarize(rec)
	}
	return out
}

// ListResponse is the payload for collection listing requests.
type ListResponse struct {
	Collection string                 `json:"collection"`
	Filter     filter.State           `json:"filter"`
	Total      int                    `json:"total"`
	NoResults  bool                   `json:"no_results"`
	Categories []resolver.CategoryRef `json:"categories"`
	Records    []RecordSummary        `json:"records"`
}

// DetailResponse is the payload for a record detail page.
type DetailResponse struct {
	Collection string               `json:"collection"`
	Record     store.ContentRecord  `json:"record"`
	Metadata   seo.Bundle           `json:"metadata"`
	BodyBlocks []markdown.Block     `json:"body_blocks,omitempty"`
	BodyHTML   string               `json:"body_html,omitempty"`
	Related    []RecordSummary      `json:"related"`
}

// CategoryResponse is the payload for a category listing page.
type CategoryResponse struct {
	Collection string               `json:"collection"`
	Category   resolver.CategoryRef `json:"category"`
	Metadata   seo.Bundle           `json:"metadata"`
	Records    []RecordSummary      `json:"records"`
}

// KeysResponse enumerates the valid route parameters of a collection.
type KeysResponse struct {
	Collection string   `json:"collection"`
	Keys       []string `json:"keys"`
}

// CategoriesResponse lists a collection's categories with slugs.
type CategoriesResponse struct {
	Collection string                 `json:"collection"`
	Categories []resolver.CategoryRef `json:"categories"`
}

// SitemapResponse enumerates every static route the frontend must generate.
type SitemapResponse struct {
	BaseURL string           `json:"base_url"`
	Routes  []resolver.Route `json:"routes"`
}
