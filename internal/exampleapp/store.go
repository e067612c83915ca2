package exampleapp

import (
	"errors"
	"sync"
)

// ErrItemNotFound is returned for unknown item identifiers.
var ErrItemNotFound = errors.New("exampleapp: item not found")

// Store keeps items and their case attachments in memory.
type Store struct {
	mu    sync.RWMutex
	items map[string]Item
	cases map[caseKey][]byte
}

type caseKey struct {
	item string
	name string
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		items: make(map[string]Item),
		cases: make(map[caseKey][]byte),
	}
}

// Put stores an item under its Property1, replacing any previous one.
func (s *Store) Put(item Item) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[item.Property1] = item
}

// Get returns the item with the given identifier.
func (s *Store) Get(id string) (Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, ok := s.items[id]
	if !ok {
		return Item{}, ErrItemNotFound
	}
	return item, nil
}

// List returns all items keyed by identifier.
func (s *Store) List() map[string]Item {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]Item, len(s.items))
	for id, item := range s.items {
		out[id] = item
	}
	return out
}

// Delete removes an item and its cases.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[id]; !ok {
		return ErrItemNotFound
	}
	delete(s.items, id)
	for key := range s.cases {
		if key.item == id {
			delete(s.cases, key)
		}
	}
	return nil
}

// PutCase stores a case attachment for an item.
func (s *Store) PutCase(item, name string, body []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cases[caseKey{item: item, name: name}] = body
}

// Case returns a case attachment.
func (s *Store) Case(item, name string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	body, ok := s.cases[caseKey{item: item, name: name}]
	return body, ok
}
