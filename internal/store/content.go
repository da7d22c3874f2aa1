// Package store holds the compiled-in content catalog for the marketing site.
//
// Records are authored as YAML files embedded in the binary, parsed once at
// startup, and never mutated afterwards. The resulting Store is passed by
// reference to the resolver and filter layers.
package store

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Collection identifies one of the content collections.
type Collection string

// Shipped collections.
const (
	CollectionBlog        Collection = "blog"
	CollectionLocations   Collection = "locations"
	CollectionSpecialties Collection = "specialties"
	CollectionCompetitors Collection = "competitors"
	CollectionSolutions   Collection = "solutions"
)

// Collections lists every shipped collection in canonical order.
func Collections() []Collection {
	return []Collection{
		CollectionBlog,
		CollectionLocations,
		CollectionSpecialties,
		CollectionCompetitors,
		CollectionSolutions,
	}
}

// AttrValue is an entity-specific attribute value: either a single string or an
// ordered list of strings. It round-trips through YAML and JSON in both shapes.
type AttrValue struct {
	Value  string
	Values []string
}

// IsList reports whether the attribute holds an ordered list.
func (a AttrValue) IsList() bool {
	return a.Values != nil
}

// Text returns the scalar value, or the list joined with ", " for list values.
func (a AttrValue) Text() string {
	if a.IsList() {
		return strings.Join(a.Values, ", ")
	}
	return a.Value
}

// UnmarshalYAML accepts either a scalar string or a sequence of strings.
func (a *AttrValue) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		a.Values = nil
		return node.Decode(&a.Value)
	case yaml.SequenceNode:
		a.Value = ""
		return node.Decode(&a.Values)
	default:
		return fmt.Errorf("attribute must be a string or a list of strings (line %d)", node.Line)
	}
}

// MarshalJSON emits the scalar or the list, matching the authored shape.
func (a AttrValue) MarshalJSON() ([]byte, error) {
	if a.IsList() {
		return json.Marshal(a.Values)
	}
	return json.Marshal(a.Value)
}

// UnmarshalJSON accepts either a string or an array of strings.
func (a *AttrValue) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "[") {
		a.Value = ""
		return json.Unmarshal(data, &a.Values)
	}
	a.Values = nil
	return json.Unmarshal(data, &a.Value)
}

// ContentRecord is a single static content entity: a blog post, location
// profile, specialty profile, competitor profile, or solution profile.
type ContentRecord struct {
	Key         string               `json:"key" yaml:"key"`
	Title       string               `json:"title" yaml:"title"`
	Summary     string               `json:"summary" yaml:"summary"`
	Category    string               `json:"category" yaml:"category"`
	Author      string               `json:"author,omitempty" yaml:"author"`
	Tags        []string             `json:"tags,omitempty" yaml:"tags"`
	Body        string               `json:"body,omitempty" yaml:"body"`
	Attributes  map[string]AttrValue `json:"attributes,omitempty" yaml:"attributes"`
	PublishedAt time.Time            `json:"published_at" yaml:"published_at"`
}

// Attr returns the named attribute and whether it exists.
func (r *ContentRecord) Attr(name string) (AttrValue, bool) {
	v, ok := r.Attributes[name]
	return v, ok
}

// AttrText returns the textual form of the named attribute, or "" if absent.
func (r *ContentRecord) AttrText(name string) string {
	if v, ok := r.Attributes[name]; ok {
		return v.Text()
	}
	return ""
}

// Slugify normalizes a category label into its URL slug: lowercased, spaces
// collapsed to single hyphens. It is the single normalization used both when
// generating category links and when resolving a slug back to records.
func Slugify(category string) string {
	slug := strings.ToLower(strings.TrimSpace(category))
	slug = strings.Join(strings.Fields(slug), "-")
	return slug
}
