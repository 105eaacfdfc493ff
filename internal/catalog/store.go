// Package catalog holds the in-memory record store and the query, sort, and
// suggestion engines that operate on its snapshots.
package catalog

import (
	"sort"
	"sync"

	"github.com/openscholar/journal-catalog-service/internal/domain"
)

// Store is the in-memory ordered collection of normalized journals: the
// working set for every query. There is one logical writer (the load/refresh
// pipeline plus the add-journal path); snapshots are replaced wholesale and
// never mutated in place, so readers can keep using a snapshot they obtained
// while a replacement lands.
type Store struct {
	mu       sync.RWMutex
	journals []domain.Journal
}

// NewStore creates an empty record store.
func NewStore() *Store {
	return &Store{}
}

// Replace swaps the whole snapshot for a deduplicated copy of the given
// batch. Returns the size of the snapshot after deduplication.
func (s *Store) Replace(batch []domain.Journal) int {
	deduped := Dedupe(batch)
	s.mu.Lock()
	s.journals = deduped
	s.mu.Unlock()
	return len(deduped)
}

// Insert prepends one journal to the current snapshot, used for the
// optimistic local insert of a user-added record. The previous snapshot
// slice is left untouched.
func (s *Store) Insert(j domain.Journal) {
	s.mu.Lock()
	next := make([]domain.Journal, 0, len(s.journals)+1)
	next = append(next, j)
	next = append(next, s.journals...)
	s.journals = next
	s.mu.Unlock()
}

// Snapshot returns the current journal list. The returned slice is never
// mutated by the store; callers must treat it as read-only.
func (s *Store) Snapshot() []domain.Journal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.journals
}

// Len returns the size of the current snapshot.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.journals)
}

// Areas returns the distinct subject areas across the current snapshot,
// sorted alphabetically. Used to populate the facet sidebar.
func (s *Store) Areas() []string {
	seen := make(map[string]struct{})
	var areas []string
	for _, j := range s.Snapshot() {
		for _, a := range j.SubjectAreas {
			if _, ok := seen[a]; ok {
				continue
			}
			seen[a] = struct{}{}
			areas = append(areas, a)
		}
	}
	sort.Strings(areas)
	return areas
}

// Dedupe collapses a batch to at most one journal per identity key
// (lower-cased, trimmed name). The first occurrence wins; records whose key
// is empty are dropped. Relative order is preserved.
func Dedupe(batch []domain.Journal) []domain.Journal {
	seen := make(map[string]struct{}, len(batch))
	deduped := make([]domain.Journal, 0, len(batch))
	for _, j := range batch {
		key := j.Key()
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		deduped = append(deduped, j)
	}
	return deduped
}
