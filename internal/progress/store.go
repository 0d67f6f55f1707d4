package progress

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"contentflow/internal/model"
	"contentflow/internal/observability"
)

var (
	// ErrNotFound is returned for ids the store does not hold.
	ErrNotFound = errors.New("generation not found")
	// ErrExists is returned when creating a record under an id already in use.
	ErrExists = errors.New("generation already exists")
)

// Clock supplies the current time.
type Clock func() time.Time

// Store keeps generation records in memory. Every read returns a snapshot.
type Store struct {
	mu      sync.RWMutex
	records map[string]*model.GenerationRecord
	ttl     time.Duration
	now     Clock
	metrics *observability.Metrics
}

// Option customises a Store.
type Option func(*Store)

// WithMetrics reports the store size to m.
func WithMetrics(m *observability.Metrics) Option {
	return func(s *Store) { s.metrics = m }
}

// New creates an empty store. Terminal records idle for longer than ttl are evicted by Sweep;
// a ttl of zero keeps records forever. A nil clock uses time.Now.
func New(ttl time.Duration, clock Clock, opts ...Option) *Store {
	if clock == nil {
		clock = time.Now
	}
	s := &Store{
		records: make(map[string]*model.GenerationRecord),
		ttl:     ttl,
		now:     clock,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create inserts a copy of rec.
func (s *Store) Create(rec *model.GenerationRecord) error {
	if rec == nil || rec.ID == "" {
		return fmt.Errorf("%w: record without id", ErrInvalidPatch)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[rec.ID]; ok {
		return fmt.Errorf("%w: %s", ErrExists, rec.ID)
	}
	c := rec.Clone()
	if c.UpdatedAt.IsZero() {
		c.UpdatedAt = s.now()
	}
	s.records[rec.ID] = c
	s.metrics.SetProgressRecords(len(s.records))
	return nil
}

// Get returns a deep copy of the record.
func (s *Store) Get(id string) (*model.GenerationRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[id]
	if !ok {
		return nil, false
	}
	return rec.Clone(), true
}

// Apply runs patches against the record as one atomic batch. If any patch fails the record is
// left untouched.
func (s *Store) Apply(id string, patches ...Patch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	next := rec
	for _, p := range patches {
		reduced, err := Reduce(next, p)
		if err != nil {
			return err
		}
		next = reduced
	}
	if next == rec {
		return nil
	}
	next.UpdatedAt = s.now()
	s.records[id] = next
	return nil
}

// List returns snapshots of every record, newest first.
func (s *Store) List() []*model.GenerationRecord {
	s.mu.RLock()
	out := make([]*model.GenerationRecord, 0, len(s.records))
	for _, rec := range s.records {
		out = append(out, rec.Clone())
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].StartTime.Equal(out[j].StartTime) {
			return out[i].ID < out[j].ID
		}
		return out[i].StartTime.After(out[j].StartTime)
	})
	return out
}

// Delete removes a record and reports whether it existed.
func (s *Store) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[id]; !ok {
		return false
	}
	delete(s.records, id)
	s.metrics.SetProgressRecords(len(s.records))
	return true
}

// Len is the number of records held.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Sweep evicts terminal records whose last update is older than the TTL and returns how many
// were removed. Running generations are never evicted.
func (s *Store) Sweep(now time.Time) int {
	if s.ttl <= 0 {
		return 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	evicted := 0
	for id, rec := range s.records {
		if rec.Status.Terminal() && now.Sub(rec.UpdatedAt) > s.ttl {
			delete(s.records, id)
			evicted++
		}
	}
	if evicted > 0 {
		s.metrics.SetProgressRecords(len(s.records))
	}
	return evicted
}

// Run sweeps every interval until ctx is done.
func (s *Store) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 || s.ttl <= 0 {
		<-ctx.Done()
		return nil
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			s.Sweep(s.now())
		}
	}
}
