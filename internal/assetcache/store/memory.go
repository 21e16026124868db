package store

import (
	"context"
	"slices"
	"sync"

	"grimoire/internal/assetcache/models"
	"grimoire/pkg/platform/sentinel"
)

// InMemoryBucketStore keeps buckets in process memory. Entries are copied
// on the way in and out.
type InMemoryBucketStore struct {
	mu      sync.RWMutex
	buckets map[string]map[string]models.Entry
}

// NewInMemoryBucketStore creates an empty in-memory bucket store.
func NewInMemoryBucketStore() *InMemoryBucketStore {
	return &InMemoryBucketStore{buckets: make(map[string]map[string]models.Entry)}
}

// Open creates the bucket if it does not exist yet.
func (s *InMemoryBucketStore) Open(_ context.Context, bucket string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bucketLocked(bucket)
	return nil
}

func (s *InMemoryBucketStore) Put(_ context.Context, bucket string, entry models.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bucketLocked(bucket)[entry.URL] = entry.Clone()
	return nil
}

// PutAll stores every entry under one lock, so readers see all or none.
func (s *InMemoryBucketStore) PutAll(_ context.Context, bucket string, entries []models.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b := s.bucketLocked(bucket)
	for _, e := range entries {
		b[e.URL] = e.Clone()
	}
	return nil
}

func (s *InMemoryBucketStore) Match(_ context.Context, bucket, url string) (models.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.buckets[bucket][url]
	if !ok {
		return models.Entry{}, sentinel.ErrNotFound
	}
	return e.Clone(), nil
}

// Keys lists bucket names in sorted order.
func (s *InMemoryBucketStore) Keys(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.buckets))
	for name := range s.buckets {
		names = append(names, name)
	}
	slices.Sort(names)
	return names, nil
}

func (s *InMemoryBucketStore) Delete(_ context.Context, bucket string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.buckets, bucket)
	return nil
}

func (s *InMemoryBucketStore) bucketLocked(name string) map[string]models.Entry {
	b, ok := s.buckets[name]
	if !ok {
		b = make(map[string]models.Entry)
		s.buckets[name] = b
	}
	return b
}
