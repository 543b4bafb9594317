package timetable

import (
	"sync"
	"time"

	"github.com/MuhaddisFarooq/Smart-Recruit-Buch-sub000/core"
)

// Store is the in-memory arena of entries.
// Every mutation re-runs the Validator under the write lock, so it is atomic w.r.t. concurrent readers & writers.
type Store struct {
	mu        sync.RWMutex
	entries   map[int64]*Entry
	lastID    int64
	validator Validator
	nowFunc   func() time.Time
}

func NewStore(v Validator) *Store {
	return &Store{
		entries:   make(map[int64]*Entry),
		validator: v,
		nowFunc:   func() time.Time { return time.Now().UTC() },
	}
}

// sameDay returns the entries sharing e's scope & day. Callers must hold the lock.
func (s *Store) sameDay(e Entry) []Entry {
	res := make([]Entry, 0)
	for _, other := range s.entries {
		if other.Day == e.Day && other.Scope == e.Scope {
			res = append(res, *other)
		}
	}
	return res
}

func (s *Store) snapshot(filter QueryFilter) []Entry {
	res := make([]Entry, 0)
	for _, e := range s.entries {
		if filter.Match(*e) {
			res = append(res, *e)
		}
	}
	return res
}

// Add validates & stores e under a new id.
func (s *Store) Add(e Entry) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e.ID = 0
	if err := s.validator.Validate(e, s.sameDay(e)); err != nil {
		return 0, err
	}

	now := s.nowFunc()
	if e.CreatedAt.IsZero() {
		e.CreatedAt = now
	}
	if e.UpdatedAt.IsZero() {
		e.UpdatedAt = e.CreatedAt
	}

	s.lastID++
	e.ID = s.lastID
	s.entries[e.ID] = &e
	return e.ID, nil
}

// Update replaces every mutable field of the entry identified by id. ID & CreatedAt are kept.
func (s *Store) Update(id int64, e Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	orig, ok := s.entries[id]
	if !ok {
		return ErrNotFound
	}

	e.ID = id
	e.CreatedAt = orig.CreatedAt
	if err := s.validator.Validate(e, s.sameDay(e)); err != nil {
		return err
	}
	if e.UpdatedAt.IsZero() || !e.UpdatedAt.After(orig.UpdatedAt) {
		e.UpdatedAt = s.nowFunc()
	}

	s.entries[id] = &e
	return nil
}

// Remove deletes the entry; removing an unknown (or already removed) id is an error.
func (s *Store) Remove(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[id]; !ok {
		return ErrNotFound
	}
	delete(s.entries, id)
	return nil
}

func (s *Store) Get(id int64) (Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if e, ok := s.entries[id]; ok {
		return *e, nil
	}
	return Entry{}, ErrNotFound
}

// ListByScope returns a snapshot of the scope's entries in chronological order.
func (s *Store) ListByScope(scope Scope) []Entry {
	return s.Query(ScopeFilter(scope), nil)
}

func (s *Store) Query(filter QueryFilter, ordering []core.DBOrdering) []Entry {
	s.mu.RLock()
	entries := s.snapshot(filter)
	s.mu.RUnlock()

	SortEntries(entries, ordering)
	return entries
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Reset drops every entry. Ids are not reused.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[int64]*Entry)
}
