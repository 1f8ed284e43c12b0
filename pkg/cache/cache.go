// Package cache provides a concurrency-safe in-memory store with secondary
// indexes. The memory session backend uses it to resolve sessions by token
// and enumerate them per principal from one structure.
package cache

import (
	"errors"
	"sync"
)

// ErrIndexNotFound is returned by Find for an unregistered index name.
var ErrIndexNotFound = errors.New("index not found")

type index[K comparable, V any] struct {
	extract func(V) any
	buckets map[any]map[K]struct{}
}

func (ix *index[K, V]) link(key K, value V) {
	b := ix.extract(value)
	bucket, ok := ix.buckets[b]
	if !ok {
		bucket = make(map[K]struct{})
		ix.buckets[b] = bucket
	}
	bucket[key] = struct{}{}
}

func (ix *index[K, V]) unlink(key K, value V) {
	b := ix.extract(value)
	bucket, ok := ix.buckets[b]
	if !ok {
		return
	}
	delete(bucket, key)
	if len(bucket) == 0 {
		delete(ix.buckets, b)
	}
}

// Indexed maps keys to values and keeps every registered secondary index in
// step with writes.
type Indexed[K comparable, V any] struct {
	mu      sync.RWMutex
	items   map[K]V
	indexes map[string]*index[K, V]
}

// NewIndexed creates an empty indexed store.
func NewIndexed[K comparable, V any]() *Indexed[K, V] {
	return &Indexed[K, V]{
		items:   make(map[K]V),
		indexes: make(map[string]*index[K, V]),
	}
}

// AddIndex registers a secondary index keyed by whatever extract returns.
// Items already present are indexed immediately.
func (s *Indexed[K, V]) AddIndex(name string, extract func(V) any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ix := &index[K, V]{
		extract: extract,
		buckets: make(map[any]map[K]struct{}),
	}
	s.indexes[name] = ix
	for key, value := range s.items {
		ix.link(key, value)
	}
}

// Set stores the value under key, replacing any previous value and moving
// its index entries.
func (s *Indexed[K, V]) Set(key K, value V) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if old, ok := s.items[key]; ok {
		for _, ix := range s.indexes {
			ix.unlink(key, old)
		}
	}
	s.items[key] = value
	for _, ix := range s.indexes {
		ix.link(key, value)
	}
}

// Get returns the value stored under key.
func (s *Indexed[K, V]) Get(key K) (V, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.items[key]
	return value, ok
}

// Del removes the value under key and its index entries.
func (s *Indexed[K, V]) Del(key K) {
	s.mu.Lock()
	defer s.mu.Unlock()

	old, ok := s.items[key]
	if !ok {
		return
	}
	for _, ix := range s.indexes {
		ix.unlink(key, old)
	}
	delete(s.items, key)
}

// Find returns every value whose indexed attribute equals value.
func (s *Indexed[K, V]) Find(name string, value any) ([]V, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ix, ok := s.indexes[name]
	if !ok {
		return nil, ErrIndexNotFound
	}
	bucket := ix.buckets[value]
	results := make([]V, 0, len(bucket))
	for key := range bucket {
		results = append(results, s.items[key])
	}
	return results, nil
}

// Filter returns every value for which keep is true.
func (s *Indexed[K, V]) Filter(keep func(V) bool) []V {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var results []V
	for _, value := range s.items {
		if keep(value) {
			results = append(results, value)
		}
	}
	return results
}
