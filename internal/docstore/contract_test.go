// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package docstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runContract exercises the behaviour every backend must share.
func runContract(t *testing.T, newStore func(t *testing.T) Store) {
	t.Run("create and get", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		created, err := s.Create(ctx, "quotes", "", Fields{"text": "Ship it", "order": 1})
		require.NoError(t, err)
		require.NotEmpty(t, created.ID)

		got, err := s.Get(ctx, "quotes", created.ID)
		require.NoError(t, err)
		assert.Equal(t, "Ship it", got.Data["text"])
		assert.EqualValues(t, 1, got.Data["order"])
		assert.NotContains(t, got.Data, IDKey)
	})

	t.Run("create with taken id", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		_, err := s.Create(ctx, "personal_info", "main", Fields{"name": "First"})
		require.NoError(t, err)
		_, err = s.Create(ctx, "personal_info", "main", Fields{"name": "Second"})
		assert.ErrorIs(t, err, ErrAlreadyExists)

		got, err := s.Get(ctx, "personal_info", "main")
		require.NoError(t, err)
		assert.Equal(t, "First", got.Data["name"])
	})

	t.Run("get missing", func(t *testing.T) {
		s := newStore(t)
		_, err := s.Get(context.Background(), "quotes", "nope")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("list keeps insertion order", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		for _, id := range []string{"c", "a", "b"} {
			_, err := s.Create(ctx, "skills", id, Fields{"sectionTitle": id})
			require.NoError(t, err)
		}

		docs, err := s.List(ctx, "skills", Query{})
		require.NoError(t, err)
		assert.Equal(t, []string{"c", "a", "b"}, ids(docs))
	})

	t.Run("list orders ascending and limits", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		for _, o := range []struct {
			id    string
			order int
		}{{"q2", 2}, {"q0", 0}, {"q1", 1}} {
			_, err := s.Create(ctx, "quotes", o.id, Fields{"order": o.order})
			require.NoError(t, err)
		}

		docs, err := s.List(ctx, "quotes", Query{OrderBy: "order"})
		require.NoError(t, err)
		assert.Equal(t, []string{"q0", "q1", "q2"}, ids(docs))

		docs, err = s.List(ctx, "quotes", Query{OrderBy: "order", Limit: 2})
		require.NoError(t, err)
		assert.Equal(t, []string{"q0", "q1"}, ids(docs))
	})

	t.Run("list filters on equality", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		for i, featured := range []bool{true, false, true, false, false} {
			_, err := s.Create(ctx, "projects", string(rune('a'+i)), Fields{"featured": featured, "order": 10 - i})
			require.NoError(t, err)
		}

		docs, err := s.List(ctx, "projects", Query{}.Where("featured", true))
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"a", "c"}, ids(docs))

		docs, err = s.List(ctx, "projects", Query{OrderBy: "order"}.Where("featured", true))
		require.NoError(t, err)
		assert.Equal(t, []string{"c", "a"}, ids(docs))
	})

	t.Run("list rejects bad field", func(t *testing.T) {
		s := newStore(t)
		_, err := s.List(context.Background(), "projects", Query{OrderBy: "order); DROP TABLE documents; --"})
		assert.ErrorIs(t, err, ErrInvalidField)
	})

	t.Run("update merges top-level keys", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		_, err := s.Create(ctx, "personal_info", "main", Fields{"name": "Old", "title": "Dev", "email": "a@b.c"})
		require.NoError(t, err)

		updated, err := s.Update(ctx, "personal_info", "main", Fields{"name": "New"})
		require.NoError(t, err)
		assert.Equal(t, "New", updated.Data["name"])
		assert.Equal(t, "Dev", updated.Data["title"])

		got, err := s.Get(ctx, "personal_info", "main")
		require.NoError(t, err)
		assert.Equal(t, "New", got.Data["name"])
		assert.Equal(t, "a@b.c", got.Data["email"])
	})

	t.Run("update missing", func(t *testing.T) {
		s := newStore(t)
		_, err := s.Update(context.Background(), "personal_info", "main", Fields{"name": "x"})
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("delete removes exactly one", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		for _, id := range []string{"p1", "p2", "p3"} {
			_, err := s.Create(ctx, "projects", id, Fields{"title": id})
			require.NoError(t, err)
		}

		require.NoError(t, s.Delete(ctx, "projects", "p2"))
		docs, err := s.List(ctx, "projects", Query{})
		require.NoError(t, err)
		assert.Equal(t, []string{"p1", "p3"}, ids(docs))

		assert.ErrorIs(t, s.Delete(ctx, "projects", "p2"), ErrNotFound)
		n, err := s.Count(ctx, "projects")
		require.NoError(t, err)
		assert.Equal(t, 2, n)
	})

	t.Run("collections are isolated", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		_, err := s.Create(ctx, "quotes", "x", Fields{})
		require.NoError(t, err)

		n, err := s.Count(ctx, "projects")
		require.NoError(t, err)
		assert.Zero(t, n)
		require.NoError(t, s.Ping(ctx))
	})
}

func ids(docs []Document) []string {
	out := make([]string, len(docs))
	for i, d := range docs {
		out[i] = d.ID
	}
	return out
}

func TestMemoryStore(t *testing.T) {
	runContract(t, func(t *testing.T) Store {
		return NewMemoryStore()
	})
}
