// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package docstore

import (
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RedisStore keeps each collection in one hash keyed by document id. Query
// evaluation happens in process after HGETALL.
type RedisStore struct {
	client *redis.Client
	prefix string
	now    func() time.Time
}

// RedisStoreOptions configures the Redis store.
type RedisStoreOptions struct {
	// URL is the Redis connection URL (e.g., redis://localhost:6379/0)
	URL string

	// Prefix is prepended to all keys (e.g., "portfolio:")
	Prefix string

	// PoolSize is the maximum number of connections (0 = use default)
	PoolSize int

	ConnectTimeout time.Duration
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
}

// DefaultRedisStoreOptions returns sensible defaults.
func DefaultRedisStoreOptions() RedisStoreOptions {
	return RedisStoreOptions{
		Prefix:         "portfolio:",
		PoolSize:       10,
		ConnectTimeout: 5 * time.Second,
		ReadTimeout:    3 * time.Second,
		WriteTimeout:   3 * time.Second,
	}
}

// NewRedisStore connects and pings the server.
func NewRedisStore(ctx context.Context, opts RedisStoreOptions) (*RedisStore, error) {
	if opts.URL == "" {
		return nil, errors.New("redis URL is required")
	}

	redisOpts, err := redis.ParseURL(opts.URL)
	if err != nil {
		return nil, fmt.Errorf("parsing redis URL: %w", err)
	}
	if opts.PoolSize > 0 {
		redisOpts.PoolSize = opts.PoolSize
	}
	if opts.ConnectTimeout > 0 {
		redisOpts.DialTimeout = opts.ConnectTimeout
	}
	if opts.ReadTimeout > 0 {
		redisOpts.ReadTimeout = opts.ReadTimeout
	}
	if opts.WriteTimeout > 0 {
		redisOpts.WriteTimeout = opts.WriteTimeout
	}

	client := redis.NewClient(redisOpts)

	pingCtx, cancel := context.WithTimeout(ctx, cmp.Or(opts.ConnectTimeout, 5*time.Second))
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connecting to redis: %w", err)
	}

	return &RedisStore{client: client, prefix: opts.Prefix, now: time.Now}, nil
}

// redisRecord is the JSON value stored per hash field.
type redisRecord struct {
	Seq       int64     `json:"seq"`
	Data      Fields    `json:"data"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (s *RedisStore) collectionKey(collection string) string {
	return s.prefix + "docs:" + collection
}

func (s *RedisStore) seqKey(collection string) string {
	return s.prefix + "seq:" + collection
}

func decodeRecord(id, raw string) (redisRecord, Document, error) {
	var rec redisRecord
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return rec, Document{}, fmt.Errorf("decoding document %s: %w", id, err)
	}
	if rec.Data == nil {
		rec.Data = Fields{}
	}
	return rec, Document{ID: id, Data: rec.Data, CreatedAt: rec.CreatedAt, UpdatedAt: rec.UpdatedAt}, nil
}

// List returns the documents of collection matching q.
func (s *RedisStore) List(ctx context.Context, collection string, q Query) ([]Document, error) {
	if err := validateQuery(q); err != nil {
		return nil, err
	}

	all, err := s.client.HGetAll(ctx, s.collectionKey(collection)).Result()
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", collection, err)
	}

	type entry struct {
		seq int64
		doc Document
	}
	entries := make([]entry, 0, len(all))
	for id, raw := range all {
		rec, doc, err := decodeRecord(id, raw)
		if err != nil {
			return nil, fmt.Errorf("listing %s: %w", collection, err)
		}
		entries = append(entries, entry{seq: rec.Seq, doc: doc})
	}
	slices.SortFunc(entries, func(a, b entry) int { return cmp.Compare(a.seq, b.seq) })

	docs := make([]Document, len(entries))
	for i, e := range entries {
		docs[i] = e.doc
	}
	return applyQuery(docs, q), nil
}

// Get returns one document by identifier.
func (s *RedisStore) Get(ctx context.Context, collection, id string) (*Document, error) {
	raw, err := s.client.HGet(ctx, s.collectionKey(collection), id).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting %s/%s: %w", collection, id, err)
	}
	_, doc, err := decodeRecord(id, raw)
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// Create inserts a document with HSETNX so an existing id is never replaced.
func (s *RedisStore) Create(ctx context.Context, collection, id string, data Fields) (*Document, error) {
	body, err := normalize(data)
	if err != nil {
		return nil, fmt.Errorf("encoding document: %w", err)
	}
	if id == "" {
		id = uuid.NewString()
	}

	seq, err := s.client.Incr(ctx, s.seqKey(collection)).Result()
	if err != nil {
		return nil, fmt.Errorf("creating %s/%s: %w", collection, id, err)
	}
	now := s.now().UTC()
	raw, err := json.Marshal(redisRecord{Seq: seq, Data: body, CreatedAt: now, UpdatedAt: now})
	if err != nil {
		return nil, fmt.Errorf("encoding document: %w", err)
	}

	ok, err := s.client.HSetNX(ctx, s.collectionKey(collection), id, raw).Result()
	if err != nil {
		return nil, fmt.Errorf("creating %s/%s: %w", collection, id, err)
	}
	if !ok {
		return nil, ErrAlreadyExists
	}
	return &Document{ID: id, Data: body, CreatedAt: now, UpdatedAt: now}, nil
}

// Update merges patch into an existing document. Concurrent writers resolve
// as last write wins.
func (s *RedisStore) Update(ctx context.Context, collection, id string, patch Fields) (*Document, error) {
	if err := validatePatch(patch); err != nil {
		return nil, err
	}
	p, err := normalize(patch)
	if err != nil {
		return nil, fmt.Errorf("encoding patch: %w", err)
	}

	key := s.collectionKey(collection)
	raw, err := s.client.HGet(ctx, key, id).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("updating %s/%s: %w", collection, id, err)
	}
	rec, _, err := decodeRecord(id, raw)
	if err != nil {
		return nil, err
	}

	merge(rec.Data, p)
	rec.UpdatedAt = s.now().UTC()
	out, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("encoding document: %w", err)
	}
	if err := s.client.HSet(ctx, key, id, out).Err(); err != nil {
		return nil, fmt.Errorf("updating %s/%s: %w", collection, id, err)
	}
	return &Document{ID: id, Data: rec.Data, CreatedAt: rec.CreatedAt, UpdatedAt: rec.UpdatedAt}, nil
}

// Delete removes a document.
func (s *RedisStore) Delete(ctx context.Context, collection, id string) error {
	n, err := s.client.HDel(ctx, s.collectionKey(collection), id).Result()
	if err != nil {
		return fmt.Errorf("deleting %s/%s: %w", collection, id, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Count returns the number of documents in collection.
func (s *RedisStore) Count(ctx context.Context, collection string) (int, error) {
	n, err := s.client.HLen(ctx, s.collectionKey(collection)).Result()
	if err != nil {
		return 0, fmt.Errorf("counting %s: %w", collection, err)
	}
	return int(n), nil
}

// Ping checks the connection.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close releases the client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
