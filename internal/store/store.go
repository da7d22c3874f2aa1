package store

import (
	"embed"
	"fmt"
	"io/fs"
	"sort"

	"gopkg.in/yaml.v3"
)

//go:embed data/*.yml
var contentFS embed.FS

// Store is the immutable content catalog. All lookups are read-only; a Store
// is safe for concurrent use once constructed.
type Store struct {
	collections map[Collection][]ContentRecord
	byKey       map[Collection]map[string]int
}

// collectionFiles maps each collection to its embedded YAML document.
var collectionFiles = map[Collection]string{
	CollectionBlog:        "data/blog.yml",
	CollectionLocations:   "data/locations.yml",
	CollectionSpecialties: "data/specialties.yml",
	CollectionCompetitors: "data/competitors.yml",
	CollectionSolutions:   "data/solutions.yml",
}

// Load parses the embedded content catalog and validates it.
func Load() (*Store, error) {
	return LoadFS(contentFS)
}

// LoadFS parses a content catalog from the given filesystem. Exposed so tests
// can load fixture catalogs.
func LoadFS(fsys fs.FS) (*Store, error) {
	collections := make(map[Collection][]ContentRecord, len(collectionFiles))

	for collection, path := range collectionFiles {
		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}

		var records []ContentRecord
		if err := yaml.Unmarshal(data, &records); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}

		collections[collection] = records
	}

	return New(collections)
}

// New builds a Store from pre-assembled collections, preserving declaration
// order. It fails if any record violates a catalog invariant: missing or
// duplicate keys, empty titles or summaries, or two distinct categories that
// collide after slug normalization.
func New(collections map[Collection][]ContentRecord) (*Store, error) {
	s := &Store{
		collections: make(map[Collection][]ContentRecord, len(collections)),
		byKey:       make(map[Collection]map[string]int, len(collections)),
	}

	for collection, records := range collections {
		index := make(map[string]int, len(records))
		slugOwners := make(map[string]string)

		for i := range records {
			rec := &records[i]
			if rec.Key == "" {
				return nil, fmt.Errorf("%s: record %d has no key", collection, i)
			}
			if rec.Title == "" || rec.Summary == "" {
				return nil, fmt.Errorf("%s/%s: title and summary are required", collection, rec.Key)
			}
			if _, dup := index[rec.Key]; dup {
				return nil, fmt.Errorf("%s: duplicate key %q", collection, rec.Key)
			}
			index[rec.Key] = i

			if rec.Category != "" {
				slug := Slugify(rec.Category)
				if owner, seen := slugOwners[slug]; seen && owner != rec.Category {
					return nil, fmt.Errorf("%s: categories %q and %q collide on slug %q",
						collection, owner, rec.Category, slug)
				}
				slugOwners[slug] = rec.Category
			}
		}

		s.collections[collection] = records
		s.byKey[collection] = index
	}

	return s, nil
}

// All returns every record in the collection in declaration order. The
// returned slice is the store's own and must not be mutated.
func (s *Store) All(collection Collection) []ContentRecord {
	return s.collections[collection]
}

// ByKey returns the record with the exact key, if present. No case
// normalization or fuzzy matching is applied.
func (s *Store) ByKey(collection Collection, key string) (ContentRecord, bool) {
	index, ok := s.byKey[collection]
	if !ok {
		return ContentRecord{}, false
	}
	i, ok := index[key]
	if !ok {
		return ContentRecord{}, false
	}
	return s.collections[collection][i], true
}

// Keys returns every record key in the collection in declaration order.
// The result is always consistent with All.
func (s *Store) Keys(collection Collection) []string {
	records := s.collections[collection]
	keys := make([]string, len(records))
	for i := range records {
		keys[i] = records[i].Key
	}
	return keys
}

// Has reports whether the collection exists in the catalog.
func (s *Store) Has(collection Collection) bool {
	_, ok := s.collections[collection]
	return ok
}

// Categories returns the distinct category labels of the collection in first
// appearance order.
func (s *Store) Categories(collection Collection) []string {
	seen := make(map[string]bool)
	var categories []string
	for _, rec := range s.collections[collection] {
		if rec.Category == "" || seen[rec.Category] {
			continue
		}
		seen[rec.Category] = true
		categories = append(categories, rec.Category)
	}
	return categories
}

// Size returns the total number of records across all collections.
func (s *Store) Size() int {
	total := 0
	for _, records := range s.collections {
		total += len(records)
	}
	return total
}

// CollectionNames returns the catalog's collection names sorted alphabetically.
func (s *Store) CollectionNames() []string {
	names := make([]string, 0, len(s.collections))
	for c := range s.collections {
		names = append(names, string(c))
	}
	sort.Strings(names)
	return names
}
