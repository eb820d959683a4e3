// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package docstore provides collection-scoped document storage with a small
// query surface (equality filters, ascending order, limit) over several
// backends: SQLite, Firestore, Redis and memory.
package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"time"
)

// IDKey is the key under which a document identifier is exposed to typed
// content. It is never stored inside the document body.
const IDKey = "$id"

// Sentinel errors returned by every backend.
var (
	ErrNotFound      = errors.New("document not found")
	ErrAlreadyExists = errors.New("document already exists")
	ErrInvalidField  = errors.New("invalid field name")
)

// Fields is the body of a document.
type Fields map[string]any

// Document is one stored record.
type Document struct {
	ID        string
	Data      Fields
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Filter matches documents whose Field equals Value.
type Filter struct {
	Field string
	Value any
}

// Query narrows a List call. The zero value lists the whole collection in
// insertion order.
type Query struct {
	Filters []Filter
	OrderBy string // ascending; empty keeps insertion order
	Limit   int    // <= 0 means no limit
}

// Where returns a copy of q with an additional equality filter.
func (q Query) Where(field string, value any) Query {
	q.Filters = append(append([]Filter(nil), q.Filters...), Filter{Field: field, Value: value})
	return q
}

// Store is implemented by every document backend.
type Store interface {
	List(ctx context.Context, collection string, q Query) ([]Document, error)
	Get(ctx context.Context, collection, id string) (*Document, error)
	// Create inserts a document. An empty id asks the store to generate one.
	Create(ctx context.Context, collection, id string, data Fields) (*Document, error)
	// Update merges the top-level keys of patch into an existing document.
	Update(ctx context.Context, collection, id string, patch Fields) (*Document, error)
	Delete(ctx context.Context, collection, id string) error
	Count(ctx context.Context, collection string) (int, error)
	Ping(ctx context.Context) error
	Close() error
}

var fieldPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ValidateField reports whether name can be used as a filter, order or
// patch key.
func ValidateField(name string) error {
	if !fieldPattern.MatchString(name) {
		return fmt.Errorf("%w: %q", ErrInvalidField, name)
	}
	return nil
}

func validateQuery(q Query) error {
	for _, f := range q.Filters {
		if err := ValidateField(f.Field); err != nil {
			return err
		}
	}
	if q.OrderBy != "" {
		return ValidateField(q.OrderBy)
	}
	return nil
}

func validatePatch(patch Fields) error {
	for k := range patch {
		if err := ValidateField(k); err != nil {
			return err
		}
	}
	return nil
}

// Encode converts typed content into document fields. The identifier key is
// dropped so it never ends up inside the stored body.
func Encode(v any) (Fields, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encoding document: %w", err)
	}
	var f Fields
	if err := json.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("encoding document: %w", err)
	}
	delete(f, IDKey)
	return f, nil
}

// Decode fills v from doc, exposing doc.ID under IDKey.
func Decode(doc *Document, v any) error {
	data := make(Fields, len(doc.Data)+1)
	for k, val := range doc.Data {
		data[k] = val
	}
	data[IDKey] = doc.ID

	b, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("decoding document %s: %w", doc.ID, err)
	}
	if err := json.Unmarshal(b, v); err != nil {
		return fmt.Errorf("decoding document %s: %w", doc.ID, err)
	}
	return nil
}

// normalize returns a deep copy of f with JSON-shaped values (float64
// numbers, []any, map[string]any).
func normalize(f Fields) (Fields, error) {
	if f == nil {
		return Fields{}, nil
	}
	b, err := json.Marshal(f)
	if err != nil {
		return nil, err
	}
	var out Fields
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	delete(out, IDKey)
	return out, nil
}

// merge applies a top-level patch onto base in place.
func merge(base, patch Fields) {
	for k, v := range patch {
		if k == IDKey {
			continue
		}
		base[k] = v
	}
}
