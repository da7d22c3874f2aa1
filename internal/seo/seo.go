// Package seo derives the per-page metadata bundle from a resolved content
// record. Generation is pure string interpolation of record fields into fixed
// templates per collection, plus a schema.org structured-data object. No I/O,
// no randomness: the same record always yields the same bundle.
package seo

import (
	"fmt"
	"strings"

	"github.com/clinicflow/content-service/internal/store"
)

// Site holds the static organizational facts interpolated into every bundle.
type Site struct {
	Name         string
	BaseURL      string
	Organization string
	LogoURL      string
}

// OpenGraph holds the Open Graph subset of the bundle.
type OpenGraph struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
}

// Bundle is the SEO metadata for one page. The shape is identical across
// collections; only StructuredData's internal schema varies by entity type.
type Bundle struct {
	Title          string         `json:"title"`
	Description    string         `json:"description"`
	Keywords       string         `json:"keywords"`
	Canonical      string         `json:"canonical"`
	OpenGraph      OpenGraph      `json:"openGraph"`
	StructuredData map[string]any `json:"structuredData"`
}

// Generator builds metadata bundles for a fixed site identity.
type Generator struct {
	site Site
}

// New creates a metadata generator.
func New(site Site) *Generator {
	return &Generator{site: site}
}

// ForRecord derives the metadata bundle for a record's detail page.
func (g *Generator) ForRecord(collection store.Collection, rec store.ContentRecord) Bundle {
	canonical := fmt.Sprintf("%s/%s/%s", strings.TrimRight(g.site.BaseURL, "/"), collection, rec.Key)
	title := g.pageTitle(collection, rec)

	return Bundle{
		Title:       title,
		Description: rec.Summary,
		Keywords:    g.keywords(rec),
		Canonical:   canonical,
		OpenGraph: OpenGraph{
			Title:       title,
			Description: rec.Summary,
			URL:         canonical,
		},
		StructuredData: g.structuredData(collection, rec, canonical),
	}
}

// ForCategory derives the metadata bundle for a category listing page.
func (g *Generator) ForCategory(collection store.Collection, label, slug string, count int) Bundle {
	canonical := fmt.Sprintf("%s/%s/category/%s", strings.TrimRight(g.site.BaseURL, "/"), collection, slug)
	title := fmt.Sprintf("%s | %s", label, g.site.Name)
	description := fmt.Sprintf("%d articles and resources about %s from %s.", count, label, g.site.Name)

	return Bundle{
		Title:       title,
		Description: description,
		Keywords:    strings.Join([]string{label, g.site.Name}, ", "),
		Canonical:   canonical,
		OpenGraph: OpenGraph{
			Title:       title,
			Description: description,
			URL:         canonical,
		},
		StructuredData: map[string]any{
			"@context":    "https://schema.org",
			"@type":       "CollectionPage",
			"name":        title,
			"description": description,
			"url":         canonical,
		},
	}
}

// NotFound returns the minimal fallback bundle for the page-not-found case.
// Metadata generation never fails; an absent record degrades to this.
func (g *Generator) NotFound() Bundle {
	title := fmt.Sprintf("Page Not Found | %s", g.site.Name)
	description := fmt.Sprintf("The page you are looking for does not exist on %s.", g.site.Name)
	return Bundle{
		Title:       title,
		Description: description,
		OpenGraph: OpenGraph{
			Title:       title,
			Description: description,
			URL:         g.site.BaseURL,
		},
		Canonical: g.site.BaseURL,
	}
}

func (g *Generator) pageTitle(collection store.Collection, rec store.ContentRecord) string {
	if collection == store.CollectionBlog {
		return fmt.Sprintf("%s | %s Blog", rec.Title, g.site.Name)
	}
	return fmt.Sprintf("%s | %s", rec.Title, g.site.Name)
}

func (g *Generator) keywords(rec store.ContentRecord) string {
	parts := make([]string, 0, len(rec.Tags)+2)
	parts = append(parts, rec.Tags...)
	if rec.Category != "" {
		parts = append(parts, rec.Category)
	}
	parts = append(parts, g.site.Name)
	return strings.Join(parts, ", ")
}

func (g *Generator) structuredData(collection store.Collection, rec store.ContentRecord, canonical string) map[string]any {
	switch collection {
	case store.CollectionBlog, store.CollectionCompetitors:
		return g.article(rec, canonical)
	case store.CollectionLocations, store.CollectionSpecialties:
		if faq := g.faqEntities(rec); len(faq) > 0 {
			return map[string]any{
				"@context": "https://schema.org",
				"@graph": []map[string]any{
					g.service(rec, canonical),
					{
						"@context":   "https://schema.org",
						"@type":      "FAQPage",
						"mainEntity": faq,
					},
				},
			}
		}
		return g.service(rec, canonical)
	default:
		return g.service(rec, canonical)
	}
}

func (g *Generator) article(rec store.ContentRecord, canonical string) map[string]any {
	data := map[string]any{
		"@context":      "https://schema.org",
		"@type":         "Article",
		"headline":      rec.Title,
		"description":   rec.Summary,
		"url":           canonical,
		"datePublished": rec.PublishedAt.Format("2006-01-02"),
		"publisher":     g.organization(),
	}
	if rec.Author != "" {
		data["author"] = map[string]any{
			"@type": "Person",
			"name":  rec.Author,
		}
	}
	return data
}

func (g *Generator) service(rec store.ContentRecord, canonical string) map[string]any {
	data := map[string]any{
		"@context":    "https://schema.org",
		"@type":       "Service",
		"name":        rec.Title,
		"description": rec.Summary,
		"url":         canonical,
		"provider":    g.organization(),
	}
	if cities, ok := rec.Attr("major_cities"); ok && cities.IsList() {
		areas := make([]map[string]any, len(cities.Values))
		for i, city := range cities.Values {
			areas[i] = map[string]any{"@type": "City", "name": city}
		}
		data["areaServed"] = areas
	}
	return data
}

func (g *Generator) organization() map[string]any {
	org := map[string]any{
		"@type": "Organization",
		"name":  g.site.Organization,
		"url":   g.site.BaseURL,
	}
	if g.site.LogoURL != "" {
		org["logo"] = g.site.LogoURL
	}
	return org
}

// faqQuestions maps known FAQ attribute keys to their page question text.
var faqQuestions = map[string]string{
	"faq_residency": "Where is patient data stored?",
	"faq_billing":   "How does claim submission work?",
	"faq_privacy":   "How is patient privacy protected?",
	"faq_scribe":    "How does the ambient scribe handle this specialty?",
	"faq_agencies":  "Which billing channels are supported?",
}

// faqEntities collects faq_* attributes into FAQPage question entities,
// in deterministic order of the known-question table.
func (g *Generator) faqEntities(rec store.ContentRecord) []map[string]any {
	var entities []map[string]any
	for _, key := range []string{"faq_residency", "faq_billing", "faq_privacy", "faq_scribe", "faq_agencies"} {
		answer, ok := rec.Attr(key)
		if !ok {
			continue
		}
		entities = append(entities, map[string]any{
			"@type": "Question",
			"name":  faqQuestions[key],
			"acceptedAnswer": map[string]any{
				"@type": "Answer",
				"text":  answer.Text(),
			},
		})
	}
	return entities
}
