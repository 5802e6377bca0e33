// ABOUTME: In-memory cache of the most recently fetched entity lists
// ABOUTME: Used to resolve customer ids to display names when rendering
package store

import (
	"sync"

	"crmdesk/models"
)

// UnknownCustomer is rendered when a customer id cannot be resolved.
const UnknownCustomer = "Unknown"

// Store caches the last fetched list per entity kind. It is not a source
// of truth: every successful list load replaces the cached list wholesale,
// lists are never merged, and nothing survives process exit.
type Store struct {
	mu    sync.RWMutex
	lists map[models.Kind][]models.Record
}

func New() *Store {
	return &Store{lists: make(map[models.Kind][]models.Record)}
}

// Replace swaps the cached list for a kind with the given records.
func (s *Store) Replace(kind models.Kind, records []models.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lists[kind] = records
}

// Records returns the cached list for a kind, or nil if never loaded.
func (s *Store) Records(kind models.Kind) []models.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lists[kind]
}

// Customers returns the cached customer list.
func (s *Store) Customers() []models.Record {
	return s.Records(models.KindCustomers)
}

// CustomerName resolves a customer id to its display name. A missing or
// unresolvable id yields UnknownCustomer, never an error.
func (s *Store) CustomerName(id string) string {
	if id == "" {
		return UnknownCustomer
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.lists[models.KindCustomers] {
		if c.ID() == id {
			return c.Str("name")
		}
	}
	return UnknownCustomer
}
