// Package memory keeps documents in process memory. It backs local
// development (STORE_BACKEND=memory) and the service tests.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/msgtobala/user-story-generator/internal/store"
)

type Store struct {
	mu   sync.RWMutex
	now  func() time.Time
	docs map[string]map[string]*entry
}

type entry struct {
	fields    map[string]json.RawMessage
	createdAt time.Time
	updatedAt time.Time
}

func New() *Store {
	return &Store{
		now:  time.Now,
		docs: make(map[string]map[string]*entry),
	}
}

// WithClock replaces the time source; tests use it to control ordering.
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

func (s *Store) List(_ context.Context, collection string) ([]store.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]store.Document, 0, len(s.docs[collection]))
	for id, e := range s.docs[collection] {
		doc, err := e.document(id)
		if err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].UpdatedAt.Equal(out[j].UpdatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	return out, nil
}

func (s *Store) Get(_ context.Context, collection, id string) (*store.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.docs[collection][id]
	if !ok {
		return nil, store.ErrNotFound
	}
	doc, err := e.document(id)
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func (s *Store) Create(_ context.Context, collection string, data json.RawMessage) (string, error) {
	fields, err := decodeFields(data)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.docs[collection] == nil {
		s.docs[collection] = make(map[string]*entry)
	}
	id := uuid.NewString()
	now := s.now()
	s.docs[collection][id] = &entry{fields: fields, createdAt: now, updatedAt: now}
	return id, nil
}

func (s *Store) Update(_ context.Context, collection, id string, patch json.RawMessage) error {
	fields, err := decodeFields(patch)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.docs[collection][id]
	if !ok {
		return store.ErrNotFound
	}
	for k, v := range fields {
		e.fields[k] = v
	}
	e.updatedAt = s.now()
	return nil
}

func (s *Store) Delete(_ context.Context, collection, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.docs[collection][id]; !ok {
		return store.ErrNotFound
	}
	delete(s.docs[collection], id)
	return nil
}

func (e *entry) document(id string) (store.Document, error) {
	data, err := json.Marshal(e.fields)
	if err != nil {
		return store.Document{}, fmt.Errorf("marshal document %s: %w", id, err)
	}
	return store.Document{ID: id, Data: data, CreatedAt: e.createdAt, UpdatedAt: e.updatedAt}, nil
}

func decodeFields(data json.RawMessage) (map[string]json.RawMessage, error) {
	fields := make(map[string]json.RawMessage)
	if len(data) == 0 {
		return fields, nil
	}
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("document must be a JSON object: %w", err)
	}
	return fields, nil
}

var _ store.Store = (*Store)(nil)
