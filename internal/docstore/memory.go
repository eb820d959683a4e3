// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package docstore

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore keeps documents in process memory. It backs the demo mode and
// serves as the fake store in tests.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string][]Document
	now         func() time.Time
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		collections: make(map[string][]Document),
		now:         time.Now,
	}
}

func (s *MemoryStore) index(collection, id string) int {
	for i, d := range s.collections[collection] {
		if d.ID == id {
			return i
		}
	}
	return -1
}

func cloneDocument(d Document) (Document, error) {
	data, err := normalize(d.Data)
	if err != nil {
		return Document{}, err
	}
	d.Data = data
	return d, nil
}

// List returns the documents of collection matching q.
func (s *MemoryStore) List(_ context.Context, collection string, q Query) ([]Document, error) {
	if err := validateQuery(q); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := applyQuery(s.collections[collection], q)
	out := make([]Document, 0, len(matched))
	for _, d := range matched {
		c, err := cloneDocument(d)
		if err != nil {
			return nil, fmt.Errorf("copying document %s: %w", d.ID, err)
		}
		out = append(out, c)
	}
	return out, nil
}

// Get returns one document by identifier.
func (s *MemoryStore) Get(_ context.Context, collection, id string) (*Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.index(collection, id)
	if i < 0 {
		return nil, ErrNotFound
	}
	c, err := cloneDocument(s.collections[collection][i])
	if err != nil {
		return nil, fmt.Errorf("copying document %s: %w", id, err)
	}
	return &c, nil
}

// Create inserts a document.
func (s *MemoryStore) Create(_ context.Context, collection, id string, data Fields) (*Document, error) {
	body, err := normalize(data)
	if err != nil {
		return nil, fmt.Errorf("encoding document: %w", err)
	}
	if id == "" {
		id = uuid.NewString()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.index(collection, id) >= 0 {
		return nil, ErrAlreadyExists
	}
	now := s.now().UTC()
	doc := Document{ID: id, Data: body, CreatedAt: now, UpdatedAt: now}
	s.collections[collection] = append(s.collections[collection], doc)

	c, err := cloneDocument(doc)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Update merges patch into an existing document.
func (s *MemoryStore) Update(_ context.Context, collection, id string, patch Fields) (*Document, error) {
	if err := validatePatch(patch); err != nil {
		return nil, err
	}
	p, err := normalize(patch)
	if err != nil {
		return nil, fmt.Errorf("encoding patch: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.index(collection, id)
	if i < 0 {
		return nil, ErrNotFound
	}
	doc := &s.collections[collection][i]
	merge(doc.Data, p)
	doc.UpdatedAt = s.now().UTC()

	c, err := cloneDocument(*doc)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Delete removes a document.
func (s *MemoryStore) Delete(_ context.Context, collection, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.index(collection, id)
	if i < 0 {
		return ErrNotFound
	}
	docs := s.collections[collection]
	s.collections[collection] = append(docs[:i:i], docs[i+1:]...)
	return nil
}

// Count returns the number of documents in collection.
func (s *MemoryStore) Count(_ context.Context, collection string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.collections[collection]), nil
}

// Ping always succeeds.
func (s *MemoryStore) Ping(context.Context) error { return nil }

// Close is a no-op.
func (s *MemoryStore) Close() error { return nil }
