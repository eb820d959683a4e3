// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package fallback

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/portfolio-go/internal/content"
	"github.com/olegiv/portfolio-go/internal/docstore"
	"github.com/olegiv/portfolio-go/internal/model"
)

func TestLoadSite_EmptyStore(t *testing.T) {
	logger, _ := newLogger()
	svc := content.NewServices(docstore.NewMemoryStore(), content.DefaultCollections(), logger)

	site := LoadSite(context.Background(), logger, svc)

	assert.False(t, site.Loading())
	require.NotNil(t, site.Personal)
	require.NotNil(t, site.Projects)
	assert.NotNil(t, site.Skills)
	assert.NotNil(t, site.Achievements)
	assert.NotNil(t, site.Quotes)
	assert.NotNil(t, site.Navigation)
	assert.NotNil(t, site.Images)
	assert.Empty(t, site.Featured)
	assert.Nil(t, site.Quote)
}

func TestLoadSite_StoredContent(t *testing.T) {
	logger, _ := newLogger()
	store := docstore.NewMemoryStore()
	svc := content.NewServices(store, content.DefaultCollections(), logger)
	ctx := context.Background()

	_, err := svc.Personal.Create(ctx, &model.PersonalInfo{Name: "Stored Name"})
	require.NoError(t, err)
	_, err = svc.Projects.Create(ctx, model.Project{Title: "Featured", Featured: true, Order: 1})
	require.NoError(t, err)
	_, err = svc.Quotes.Create(ctx, model.Quote{Text: "Only one", Author: "Me"})
	require.NoError(t, err)

	site := LoadSite(ctx, logger, svc)

	assert.Equal(t, "Stored Name", site.Personal.Name)
	require.Len(t, site.Projects.Projects, 1)
	require.Len(t, site.Featured, 1)
	assert.Equal(t, "Featured", site.Featured[0].Title)
	require.NotNil(t, site.Quote)
	assert.Equal(t, "Only one", site.Quote.Text)
}

func TestSiteLoading(t *testing.T) {
	assert.True(t, (&Site{}).Loading())
	assert.True(t, (&Site{Personal: &model.PersonalInfo{}}).Loading())
	assert.False(t, (&Site{Personal: &model.PersonalInfo{}, Navigation: &model.NavigationData{}}).Loading())
}
