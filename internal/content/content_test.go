// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package content

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/portfolio-go/internal/docstore"
	"github.com/olegiv/portfolio-go/internal/model"
)

var errUnavailable = errors.New("store unavailable")

// brokenStore fails every read and delete.
type brokenStore struct{ *docstore.MemoryStore }

func newBrokenStore() brokenStore {
	return brokenStore{docstore.NewMemoryStore()}
}

func (brokenStore) List(context.Context, string, docstore.Query) ([]docstore.Document, error) {
	return nil, errUnavailable
}

func (brokenStore) Get(context.Context, string, string) (*docstore.Document, error) {
	return nil, errUnavailable
}

func (brokenStore) Delete(context.Context, string, string) error {
	return errUnavailable
}

func newTestServices(t *testing.T) (*Services, *docstore.MemoryStore, *bytes.Buffer) {
	t.Helper()
	store := docstore.NewMemoryStore()
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	return NewServices(store, DefaultCollections(), logger), store, &logs
}

func seed(t *testing.T, store docstore.Store, collection, id string, v any) {
	t.Helper()
	fields, err := docstore.Encode(v)
	require.NoError(t, err)
	_, err = store.Create(context.Background(), collection, id, fields)
	require.NoError(t, err)
}

func TestSingletonGet_Empty(t *testing.T) {
	svc, _, _ := newTestServices(t)
	ctx := context.Background()

	assert.Nil(t, svc.Personal.Get(ctx))
	assert.Nil(t, svc.Skills.Get(ctx))
	assert.Nil(t, svc.Achievements.Get(ctx))
	assert.Nil(t, svc.Navigation.Get(ctx))
	assert.Nil(t, svc.Images.Get(ctx))
}

func TestSingletonGet_FirstDocument(t *testing.T) {
	svc, store, _ := newTestServices(t)
	seed(t, store, "personal_info", "legacy-1", model.PersonalInfo{Name: "First"})
	seed(t, store, "personal_info", "legacy-2", model.PersonalInfo{Name: "Second"})

	got := svc.Personal.Get(context.Background())
	require.NotNil(t, got)
	assert.Equal(t, "First", got.Name)
	assert.Equal(t, "legacy-1", got.ID)
}

func TestSingletonGet_PrefersCanonical(t *testing.T) {
	svc, store, _ := newTestServices(t)
	seed(t, store, "skills", "legacy", model.SkillsData{SectionTitle: "old"})
	seed(t, store, "skills", CanonicalID, model.SkillsData{SectionTitle: "skills"})

	got := svc.Skills.Get(context.Background())
	require.NotNil(t, got)
	assert.Equal(t, "skills", got.SectionTitle)
}

func TestSingletonGet_FailureIsLoggedNil(t *testing.T) {
	var logs bytes.Buffer
	svc := NewServices(newBrokenStore(), DefaultCollections(), slog.New(slog.NewTextHandler(&logs, nil)))

	assert.Nil(t, svc.Images.Get(context.Background()))
	assert.Contains(t, logs.String(), "error fetching content")

	_, err := svc.Images.Fetch(context.Background())
	assert.ErrorIs(t, err, errUnavailable)
}

func TestSingletonCreate_RejectsSecond(t *testing.T) {
	svc, _, _ := newTestServices(t)
	ctx := context.Background()

	created, err := svc.Navigation.Create(ctx, &model.NavigationData{Logo: model.Logo{Text: "Me"}})
	require.NoError(t, err)
	assert.Equal(t, CanonicalID, created.ID)

	_, err = svc.Navigation.Create(ctx, &model.NavigationData{Logo: model.Logo{Text: "Other"}})
	assert.ErrorIs(t, err, docstore.ErrAlreadyExists)
}

func TestSingletonUpdate(t *testing.T) {
	svc, store, _ := newTestServices(t)
	ctx := context.Background()

	got, err := svc.Personal.Update(ctx, docstore.Fields{"name": "Nobody"})
	require.NoError(t, err)
	assert.Nil(t, got, "update without a canonical document is a no-op")

	seed(t, store, "personal_info", "legacy", model.PersonalInfo{Name: "Old", Title: "Dev", Email: "old@example.com"})
	got, err = svc.Personal.Update(ctx, docstore.Fields{"name": "New", "email": "new@example.com"})
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "legacy", got.ID)
	assert.Equal(t, "New", got.Name)
	assert.Equal(t, "Dev", got.Title)
	assert.Equal(t, "new@example.com", got.Email)
}

func TestQuotesGetAll_Ordered(t *testing.T) {
	svc, store, _ := newTestServices(t)
	for _, order := range []int{2, 0, 1} {
		seed(t, store, "quotes", "", model.Quote{Text: "q", Author: "a", Order: order})
	}

	data := svc.Quotes.GetAll(context.Background())
	require.Len(t, data.Quotes, 3)
	for i, q := range data.Quotes {
		assert.Equal(t, i, q.Order)
	}
}

func TestQuotesGetRandom(t *testing.T) {
	svc, store, _ := newTestServices(t)
	ctx := context.Background()

	assert.Nil(t, svc.Quotes.GetRandom(ctx))

	for i, author := range []string{"Knuth", "Hopper", "Dijkstra"} {
		seed(t, store, "quotes", "", model.Quote{Text: "t", Author: author, Order: i})
	}
	svc.Quotes.intN = func(n int) int {
		assert.Equal(t, 3, n, "random index must range over the full list")
		return 1
	}
	got := svc.Quotes.GetRandom(ctx)
	require.NotNil(t, got)
	assert.Equal(t, "Hopper", got.Author)
}

func TestQuotesFailure(t *testing.T) {
	var logs bytes.Buffer
	svc := NewServices(newBrokenStore(), DefaultCollections(), slog.New(slog.NewTextHandler(&logs, nil)))

	assert.Empty(t, svc.Quotes.GetAll(context.Background()).Quotes)
	assert.Nil(t, svc.Quotes.GetRandom(context.Background()))
	assert.Contains(t, logs.String(), "error fetching quotes")
}

func TestCounts(t *testing.T) {
	svc, store, _ := newTestServices(t)
	seed(t, store, "projects", "", model.Project{Title: "a"})
	seed(t, store, "projects", "", model.Project{Title: "b"})
	seed(t, store, "quotes", "", model.Quote{Text: "c"})

	counts := svc.Counts(context.Background())
	require.Len(t, counts, len(Domains))

	byDomain := map[Domain]int{}
	for _, c := range counts {
		require.NoError(t, c.Err)
		byDomain[c.Domain] = c.Count
	}
	assert.Equal(t, 2, byDomain[DomainProjects])
	assert.Equal(t, 1, byDomain[DomainQuotes])
	assert.Equal(t, 0, byDomain[DomainPersonal])
	assert.Equal(t, "personal_info", svc.Collection(DomainPersonal))
}
