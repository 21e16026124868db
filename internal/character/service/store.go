package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"reflect"
	"slices"
	"sync"
	"time"

	"grimoire/internal/character/metrics"
	"grimoire/internal/character/models"
	"grimoire/pkg/platform/sentinel"
)

// DefaultKey is the durable key the record is saved under.
const DefaultKey = "fichaKael"

// Durable is the key-value storage the record is synchronized with.
type Durable interface {
	GetItem(ctx context.Context, key string) ([]byte, error)
	SetItem(ctx context.Context, key string, value []byte) error
	RemoveItem(ctx context.Context, key string) error
}

// Store owns the single character record. Memory is the source of truth;
// every successful mutation is followed by a full-record durable write.
type Store struct {
	mu      sync.Mutex
	record  models.Record
	durable Durable
	key     string
	logger  *slog.Logger
	metrics *metrics.Metrics
}

type Option func(*Store)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Store) {
		s.metrics = m
	}
}

// WithKey overrides DefaultKey.
func WithKey(key string) Option {
	return func(s *Store) {
		if key != "" {
			s.key = key
		}
	}
}

// New constructs a Store holding the default record. Call Load to pick up
// the durable copy.
func New(durable Durable, opts ...Option) *Store {
	s := &Store{
		record:  models.Default(),
		durable: durable,
		key:     DefaultKey,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// recordFields addresses each top-level group of a record by its serialized key.
var recordFields = map[string]func(r *models.Record) any{
	"header":        func(r *models.Record) any { return &r.Header },
	"attributes":    func(r *models.Record) any { return &r.Attributes },
	"proficiencies": func(r *models.Record) any { return &r.Proficiencies },
	"traits":        func(r *models.Record) any { return &r.Traits },
	"feats":         func(r *models.Record) any { return &r.Feats },
	"allies":        func(r *models.Record) any { return &r.Allies },
	"combat":        func(r *models.Record) any { return &r.Combat },
	"spells":        func(r *models.Record) any { return &r.Spells },
	"story":         func(r *models.Record) any { return &r.Story },
	"inventory":     func(r *models.Record) any { return &r.Inventory },
	"notes":         func(r *models.Record) any { return &r.Notes },
}

// Load resets the record to the default and merges the durable copy over it,
// one top-level group at a time. Keys saved under the original Portuguese
// names are accepted at every depth, and a saved list replaces the default
// list whole. A missing, unreadable or corrupt copy leaves
// the default in place; Load itself never fails.
func (s *Store) Load(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.record = models.Default()

	data, err := s.durable.GetItem(ctx, s.key)
	if err != nil {
		if !errors.Is(err, sentinel.ErrNotFound) {
			s.logger.WarnContext(ctx, "durable read failed, using default record", "key", s.key, "error", err)
		}
		s.metrics.IncrementLoad(metrics.LoadDefault)
		return
	}

	groups, err := canonicalDocument(data)
	if err != nil {
		s.logger.WarnContext(ctx, "durable record is corrupt, using default record", "key", s.key, "error", err)
		s.metrics.IncrementLoad(metrics.LoadCorrupt)
		return
	}

	for _, name := range slices.Sorted(maps.Keys(groups)) {
		field, ok := recordFields[name]
		if !ok {
			continue
		}
		next := s.record.Clone()
		target := field(&next)
		resetPresentLists(reflect.ValueOf(target), groups[name])
		if err := json.Unmarshal(groups[name], target); err != nil {
			s.logger.WarnContext(ctx, "ignoring malformed durable field", "key", s.key, "field", name, "error", err)
			continue
		}
		s.record = next
	}
	s.record.Normalize()
	s.metrics.IncrementLoad(metrics.LoadMerged)
}

// SetField coerces raw into the field at path and persists the record.
// An invalid path returns models.ErrInvalidPath and changes nothing.
func (s *Store) SetField(ctx context.Context, path, raw string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.record.Clone()
	if err := next.Set(path, raw); err != nil {
		return err
	}
	s.commit(ctx, next, "set_field")
	return nil
}

// AddEntry appends a placeholder entry to collection, applies the template
// fields and persists once. It returns the index of the new entry.
func (s *Store) AddEntry(ctx context.Context, collection string, template map[string]string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.record.Clone()
	idx, err := next.Append(collection, template)
	if err != nil {
		return 0, err
	}
	s.commit(ctx, next, "add_entry")
	return idx, nil
}

// MergeHeader sets several header fields in one mutation and one write.
// Keys are header field names (English or the original Portuguese).
func (s *Store) MergeHeader(ctx context.Context, fields map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.record.Clone()
	for _, name := range slices.Sorted(maps.Keys(fields)) {
		if err := next.Set("header."+name, fields[name]); err != nil {
			return err
		}
	}
	s.commit(ctx, next, "merge_header")
	return nil
}

// Reset removes the durable copy and returns the store to the default
// record. When the removal fails nothing changes.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.durable.RemoveItem(ctx, s.key); err != nil {
		return fmt.Errorf("remove durable record: %w", err)
	}
	s.record = models.Default()
	s.metrics.IncrementMutation("reset")
	s.logger.InfoContext(ctx, "character record reset", "key", s.key)
	return nil
}

// Snapshot returns a deep copy of the current record.
func (s *Store) Snapshot() models.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.record.Clone()
}

// commit must be called with mu held.
func (s *Store) commit(ctx context.Context, next models.Record, op string) {
	s.record = next
	s.metrics.IncrementMutation(op)
	if err := s.persist(ctx); err != nil {
		s.logger.ErrorContext(ctx, "durable write failed, keeping in-memory record", "key", s.key, "op", op, "error", err)
	}
}

func (s *Store) persist(ctx context.Context) error {
	start := time.Now()
	data, err := json.Marshal(s.record)
	if err == nil {
		err = s.durable.SetItem(ctx, s.key, data)
	}
	s.metrics.ObservePersist(time.Since(start), err)
	if err != nil {
		return fmt.Errorf("persist record: %w", err)
	}
	return nil
}
