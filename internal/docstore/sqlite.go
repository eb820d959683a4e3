// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package docstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// SQLiteStore keeps documents as JSON text in the documents table created by
// the store migrations. Queries are pushed down with json_extract.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLiteStore wraps an open, migrated database. The caller owns db.
func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db, now: time.Now}
}

const sqliteTimeLayout = time.RFC3339Nano

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (*Document, error) {
	var (
		doc                  Document
		data                 string
		createdAt, updatedAt string
	)
	if err := row.Scan(&doc.ID, &data, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(data), &doc.Data); err != nil {
		return nil, fmt.Errorf("decoding document %s: %w", doc.ID, err)
	}
	doc.CreatedAt, _ = time.Parse(sqliteTimeLayout, createdAt)
	doc.UpdatedAt, _ = time.Parse(sqliteTimeLayout, updatedAt)
	return &doc, nil
}

// sqlValue converts a filter value into something SQLite compares equal to
// the result of json_extract.
func sqlValue(v any) any {
	switch n := normalizeValue(v).(type) {
	case bool:
		if n {
			return 1
		}
		return 0
	case nil, float64, string:
		return n
	default:
		b, _ := json.Marshal(n)
		return string(b)
	}
}

func jsonPath(field string) string {
	return "$." + field
}

// List returns the documents of collection matching q.
func (s *SQLiteStore) List(ctx context.Context, collection string, q Query) ([]Document, error) {
	if err := validateQuery(q); err != nil {
		return nil, err
	}

	var b strings.Builder
	b.WriteString(`SELECT id, data, created_at, updated_at FROM documents WHERE collection = ?`)
	args := []any{collection}
	for _, f := range q.Filters {
		b.WriteString(` AND json_extract(data, ?) = ?`)
		args = append(args, jsonPath(f.Field), sqlValue(f.Value))
	}
	if q.OrderBy != "" {
		b.WriteString(` ORDER BY json_extract(data, ?) ASC, seq ASC`)
		args = append(args, jsonPath(q.OrderBy))
	} else {
		b.WriteString(` ORDER BY seq ASC`)
	}
	if q.Limit > 0 {
		b.WriteString(` LIMIT ?`)
		args = append(args, q.Limit)
	}

	rows, err := s.db.QueryContext(ctx, b.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", collection, err)
	}
	defer func() { _ = rows.Close() }()

	var docs []Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("listing %s: %w", collection, err)
		}
		docs = append(docs, *doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing %s: %w", collection, err)
	}
	return docs, nil
}

// Get returns one document by identifier.
func (s *SQLiteStore) Get(ctx context.Context, collection, id string) (*Document, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, data, created_at, updated_at FROM documents WHERE collection = ? AND id = ?`,
		collection, id)
	doc, err := scanDocument(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting %s/%s: %w", collection, id, err)
	}
	return doc, nil
}

// Create inserts a document.
func (s *SQLiteStore) Create(ctx context.Context, collection, id string, data Fields) (*Document, error) {
	body, err := normalize(data)
	if err != nil {
		return nil, fmt.Errorf("encoding document: %w", err)
	}
	raw, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encoding document: %w", err)
	}
	if id == "" {
		id = uuid.NewString()
	}

	now := s.now().UTC()
	stamp := now.Format(sqliteTimeLayout)
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO documents (collection, id, data, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		collection, id, string(raw), stamp, stamp)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrAlreadyExists
		}
		return nil, fmt.Errorf("creating %s/%s: %w", collection, id, err)
	}
	return &Document{ID: id, Data: body, CreatedAt: now, UpdatedAt: now}, nil
}

// Update merges patch into an existing document.
func (s *SQLiteStore) Update(ctx context.Context, collection, id string, patch Fields) (*Document, error) {
	if err := validatePatch(patch); err != nil {
		return nil, err
	}
	p, err := normalize(patch)
	if err != nil {
		return nil, fmt.Errorf("encoding patch: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("starting transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	doc, err := scanDocument(tx.QueryRowContext(ctx,
		`SELECT id, data, created_at, updated_at FROM documents WHERE collection = ? AND id = ?`,
		collection, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("updating %s/%s: %w", collection, id, err)
	}

	if doc.Data == nil {
		doc.Data = Fields{}
	}
	merge(doc.Data, p)
	raw, err := json.Marshal(doc.Data)
	if err != nil {
		return nil, fmt.Errorf("encoding document: %w", err)
	}
	doc.UpdatedAt = s.now().UTC()

	if _, err := tx.ExecContext(ctx,
		`UPDATE documents SET data = ?, updated_at = ? WHERE collection = ? AND id = ?`,
		string(raw), doc.UpdatedAt.Format(sqliteTimeLayout), collection, id); err != nil {
		return nil, fmt.Errorf("updating %s/%s: %w", collection, id, err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing update: %w", err)
	}
	return doc, nil
}

// Delete removes a document.
func (s *SQLiteStore) Delete(ctx context.Context, collection, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE collection = ? AND id = ?`, collection, id)
	if err != nil {
		return fmt.Errorf("deleting %s/%s: %w", collection, id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting %s/%s: %w", collection, id, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Count returns the number of documents in collection.
func (s *SQLiteStore) Count(ctx context.Context, collection string) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM documents WHERE collection = ?`, collection).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting %s: %w", collection, err)
	}
	return n, nil
}

// Ping checks the database connection.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close is a no-op; the database belongs to the caller.
func (s *SQLiteStore) Close() error { return nil }

func isUniqueViolation(err error) bool {
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
