// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package docstore

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"cloud.google.com/go/firestore/apiv1/firestorepb"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// FirestoreStore is the hosted backend. Collections map one to one onto
// Firestore collections of the configured database.
type FirestoreStore struct {
	client *firestore.Client
}

// NewFirestoreStore connects to databaseID in projectID using application
// default credentials.
func NewFirestoreStore(ctx context.Context, projectID, databaseID string) (*FirestoreStore, error) {
	if projectID == "" {
		return nil, fmt.Errorf("projectID must be provided to create a firestore client")
	}
	if databaseID == "" {
		databaseID = firestore.DefaultDatabaseID
	}
	client, err := firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	if err != nil {
		return nil, fmt.Errorf("failed to create Firestore client: %w", err)
	}
	return &FirestoreStore{client: client}, nil
}

func snapshotDocument(snap *firestore.DocumentSnapshot) Document {
	return Document{
		ID:        snap.Ref.ID,
		Data:      Fields(snap.Data()),
		CreatedAt: snap.CreateTime,
		UpdatedAt: snap.UpdateTime,
	}
}

func translateError(err error) error {
	switch status.Code(err) {
	case codes.NotFound:
		return ErrNotFound
	case codes.AlreadyExists:
		return ErrAlreadyExists
	}
	return err
}

// List returns the documents of collection matching q. Without an order the
// result follows Firestore's document id order.
func (s *FirestoreStore) List(ctx context.Context, collection string, q Query) ([]Document, error) {
	if err := validateQuery(q); err != nil {
		return nil, err
	}

	query := s.client.Collection(collection).Query
	for _, f := range q.Filters {
		query = query.Where(f.Field, "==", f.Value)
	}
	if q.OrderBy != "" {
		query = query.OrderBy(q.OrderBy, firestore.Asc)
	}
	if q.Limit > 0 {
		query = query.Limit(q.Limit)
	}

	snaps, err := query.Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", collection, err)
	}
	docs := make([]Document, 0, len(snaps))
	for _, snap := range snaps {
		docs = append(docs, snapshotDocument(snap))
	}
	return docs, nil
}

// Get returns one document by identifier.
func (s *FirestoreStore) Get(ctx context.Context, collection, id string) (*Document, error) {
	snap, err := s.client.Collection(collection).Doc(id).Get(ctx)
	if err != nil {
		if translateError(err) == ErrNotFound {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("getting %s/%s: %w", collection, id, err)
	}
	doc := snapshotDocument(snap)
	return &doc, nil
}

// Create inserts a document, failing when the id is taken.
func (s *FirestoreStore) Create(ctx context.Context, collection, id string, data Fields) (*Document, error) {
	body, err := normalize(data)
	if err != nil {
		return nil, fmt.Errorf("encoding document: %w", err)
	}
	if id == "" {
		id = uuid.NewString()
	}

	wr, err := s.client.Collection(collection).Doc(id).Create(ctx, map[string]any(body))
	if err != nil {
		if translateError(err) == ErrAlreadyExists {
			return nil, ErrAlreadyExists
		}
		return nil, fmt.Errorf("creating %s/%s: %w", collection, id, err)
	}
	return &Document{ID: id, Data: body, CreatedAt: wr.UpdateTime, UpdatedAt: wr.UpdateTime}, nil
}

// Update merges the top-level keys of patch into an existing document.
func (s *FirestoreStore) Update(ctx context.Context, collection, id string, patch Fields) (*Document, error) {
	if err := validatePatch(patch); err != nil {
		return nil, err
	}
	p, err := normalize(patch)
	if err != nil {
		return nil, fmt.Errorf("encoding patch: %w", err)
	}

	ref := s.client.Collection(collection).Doc(id)
	if len(p) > 0 {
		updates := make([]firestore.Update, 0, len(p))
		for k, v := range p {
			updates = append(updates, firestore.Update{Path: k, Value: v})
		}
		if _, err := ref.Update(ctx, updates); err != nil {
			if translateError(err) == ErrNotFound {
				return nil, ErrNotFound
			}
			return nil, fmt.Errorf("updating %s/%s: %w", collection, id, err)
		}
	}
	return s.Get(ctx, collection, id)
}

// Delete removes a document, failing when it does not exist.
func (s *FirestoreStore) Delete(ctx context.Context, collection, id string) error {
	if _, err := s.client.Collection(collection).Doc(id).Delete(ctx, firestore.Exists); err != nil {
		if translateError(err) == ErrNotFound {
			return ErrNotFound
		}
		return fmt.Errorf("deleting %s/%s: %w", collection, id, err)
	}
	return nil
}

// Count runs a server-side count aggregation.
func (s *FirestoreStore) Count(ctx context.Context, collection string) (int, error) {
	res, err := s.client.Collection(collection).NewAggregationQuery().WithCount("all").Get(ctx)
	if err != nil {
		return 0, fmt.Errorf("counting %s: %w", collection, err)
	}
	v, ok := res["all"].(*firestorepb.Value)
	if !ok {
		return 0, fmt.Errorf("counting %s: unexpected aggregation result %T", collection, res["all"])
	}
	return int(v.GetIntegerValue()), nil
}

// Ping lists at most one collection to prove the credentials and database.
func (s *FirestoreStore) Ping(ctx context.Context) error {
	_, err := s.client.Collections(ctx).Next()
	if err == iterator.Done {
		return nil
	}
	if err != nil {
		return fmt.Errorf("pinging firestore: %w", err)
	}
	return nil
}

// Close releases the client.
func (s *FirestoreStore) Close() error {
	return s.client.Close()
}
