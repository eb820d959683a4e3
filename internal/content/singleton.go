// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package content

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/olegiv/portfolio-go/internal/docstore"
)

// CanonicalID is the fixed identifier of the document in a single-document
// collection.
const CanonicalID = "main"

// Singleton serves a collection that holds exactly one canonical document.
type Singleton[T any] struct {
	store      docstore.Store
	domain     Domain
	collection string
	logger     *slog.Logger
}

func newSingleton[T any](store docstore.Store, domain Domain, collection string, logger *slog.Logger) *Singleton[T] {
	return &Singleton[T]{store: store, domain: domain, collection: collection, logger: logger}
}

// document returns the canonical document. Collections written by older
// tooling have no CanonicalID entry; the first listed document stands in.
func (s *Singleton[T]) document(ctx context.Context) (*docstore.Document, error) {
	doc, err := s.store.Get(ctx, s.collection, CanonicalID)
	if err == nil {
		return doc, nil
	}
	if !errors.Is(err, docstore.ErrNotFound) {
		return nil, fmt.Errorf("fetching %s: %w", s.domain, err)
	}

	docs, err := s.store.List(ctx, s.collection, docstore.Query{Limit: 1})
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", s.domain, err)
	}
	if len(docs) == 0 {
		return nil, nil
	}
	return &docs[0], nil
}

// Fetch returns the canonical document, nil when the collection is empty, or
// the store error.
func (s *Singleton[T]) Fetch(ctx context.Context) (*T, error) {
	doc, err := s.document(ctx)
	if err != nil || doc == nil {
		return nil, err
	}
	var v T
	if err := docstore.Decode(doc, &v); err != nil {
		return nil, fmt.Errorf("fetching %s: %w", s.domain, err)
	}
	return &v, nil
}

// Get is Fetch with failures logged and reported as nil.
func (s *Singleton[T]) Get(ctx context.Context) *T {
	v, err := s.Fetch(ctx)
	if err != nil {
		s.logger.Error("error fetching content", "domain", s.domain, "error", err)
		return nil
	}
	return v
}

// Create stores v as the canonical document. A second canonical document is
// rejected with docstore.ErrAlreadyExists.
func (s *Singleton[T]) Create(ctx context.Context, v *T) (*T, error) {
	fields, err := docstore.Encode(v)
	if err != nil {
		return nil, err
	}
	doc, err := s.store.Create(ctx, s.collection, CanonicalID, fields)
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", s.domain, err)
	}
	var out T
	if err := docstore.Decode(doc, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Update re-fetches the canonical document and applies patch to it. With no
// canonical document it does nothing and returns nil, nil.
func (s *Singleton[T]) Update(ctx context.Context, patch docstore.Fields) (*T, error) {
	doc, err := s.document(ctx)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, nil
	}

	updated, err := s.store.Update(ctx, s.collection, doc.ID, patch)
	if err != nil {
		return nil, fmt.Errorf("updating %s: %w", s.domain, err)
	}
	var out T
	if err := docstore.Decode(updated, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
