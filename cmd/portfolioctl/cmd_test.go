// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/portfolio-go/internal/content"
	"github.com/olegiv/portfolio-go/internal/docstore"
	"github.com/olegiv/portfolio-go/internal/store"
	"github.com/olegiv/portfolio-go/internal/testutil"
)

// testBackend opens a fresh connection to one database file per command, so
// that closing the backend does not affect the assertions.
type testBackend struct {
	dbPath string
	store  docstore.Store
}

func newTestBackend(t *testing.T) *testBackend {
	t.Helper()
	return &testBackend{
		dbPath: filepath.Join(t.TempDir(), "portfolio.db"),
		store:  docstore.NewMemoryStore(),
	}
}

func (tb *testBackend) open(ctx context.Context) (*backend, error) {
	db, err := store.NewDB(tb.dbPath)
	if err != nil {
		return nil, err
	}
	if err := store.MigrateContext(ctx, db); err != nil {
		return nil, err
	}
	logger := testutil.TestLoggerSilent()
	return &backend{
		db:       db,
		store:    tb.store,
		services: content.NewServices(tb.store, content.DefaultCollections(), logger),
		logger:   logger,
	}, nil
}

func (tb *testBackend) services() *content.Services {
	return content.NewServices(tb.store, content.DefaultCollections(), testutil.TestLoggerSilent())
}

func execute(t *testing.T, open opener, stdin string, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd(open)
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestValidateAdmin(t *testing.T) {
	tests := []struct {
		name    string
		in      adminInput
		wantErr string
	}{
		{"valid", adminInput{"Admin", "admin@example.com", "password123", "password123"}, ""},
		{"missing name", adminInput{" ", "admin@example.com", "password123", "password123"}, "name is required"},
		{"missing email", adminInput{"Admin", "", "password123", "password123"}, "email is required"},
		{"short password", adminInput{"Admin", "admin@example.com", "short", "short"}, "at least 8 characters"},
		{"mismatch", adminInput{"Admin", "admin@example.com", "password123", "password124"}, "passwords do not match"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateAdmin(tt.in)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestPromptAdmin(t *testing.T) {
	t.Run("prompts for everything", func(t *testing.T) {
		var in adminInput
		var out bytes.Buffer
		err := promptAdmin(strings.NewReader("Admin\nadmin@example.com\npassword123\npassword123\n"), &out, &in)
		require.NoError(t, err)
		assert.Equal(t, adminInput{"Admin", "admin@example.com", "password123", "password123"}, in)
		assert.Contains(t, out.String(), "Confirm Password")
	})

	t.Run("flag password skips confirmation", func(t *testing.T) {
		in := adminInput{email: "admin@example.com", password: "password123"}
		var out bytes.Buffer
		require.NoError(t, promptAdmin(strings.NewReader("Admin\n"), &out, &in))
		assert.Equal(t, "Admin", in.name)
		assert.Equal(t, in.password, in.confirm)
		assert.NotContains(t, out.String(), "Email")
	})

	t.Run("input ends early", func(t *testing.T) {
		var in adminInput
		err := promptAdmin(strings.NewReader("Admin\n"), &bytes.Buffer{}, &in)
		assert.Error(t, err)
	})
}

func TestCreateAdminCommand(t *testing.T) {
	tb := newTestBackend(t)

	out, err := execute(t, tb.open, "Admin\nAdmin@Example.com\npassword123\npassword123\n", "create-admin")
	require.NoError(t, err)
	assert.Contains(t, out, "Admin user created.")

	b, err := tb.open(context.Background())
	require.NoError(t, err)
	defer b.Close()
	user, err := store.New(b.db).GetUserByEmail(context.Background(), "admin@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Admin", user.Name)

	_, err = execute(t, tb.open, "",
		"create-admin", "--name", "Again", "--email", "admin@example.com", "--password", "password456")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already registered")
}

func TestCreateAdminCommand_MismatchDoesNotOpenBackend(t *testing.T) {
	opened := false
	open := func(context.Context) (*backend, error) {
		opened = true
		return nil, errors.New("unexpected")
	}

	_, err := execute(t, open, "Admin\nadmin@example.com\npassword123\npassword321\n", "create-admin")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "passwords do not match")
	assert.False(t, opened)
}

func TestMigrateCommand_Bundled(t *testing.T) {
	tb := newTestBackend(t)

	out, err := execute(t, tb.open, "", "migrate")
	require.NoError(t, err)
	assert.Contains(t, out, "Migration completed successfully.")

	ctx := context.Background()
	svc := tb.services()
	for _, d := range []content.Domain{
		content.DomainPersonal, content.DomainSkills, content.DomainAchievements,
		content.DomainNavigation, content.DomainImages,
	} {
		n, err := tb.store.Count(ctx, svc.Collection(d))
		require.NoError(t, err)
		assert.Equal(t, 1, n, "domain %s", d)
	}

	personal, err := svc.Personal.Fetch(ctx)
	require.NoError(t, err)
	require.NotNil(t, personal)
	assert.Equal(t, "Alex Carter", personal.Name)

	projects, err := svc.Projects.FetchAll(ctx)
	require.NoError(t, err)
	require.Len(t, projects.Projects, 4)
	for i, p := range projects.Projects {
		assert.Equal(t, i+1, p.Order)
		assert.Equal(t, i < 3, p.Featured, "project %s", p.Title)
		assert.NotEmpty(t, p.ID)
	}
	assert.Len(t, svc.Projects.GetFeatured(ctx), 3)

	quotes, err := svc.Quotes.FetchAll(ctx)
	require.NoError(t, err)
	require.Len(t, quotes.Quotes, 3)
	for i, q := range quotes.Quotes {
		assert.Equal(t, i, q.Order)
	}
}

func TestMigrateCommand_StopsAtFirstFailure(t *testing.T) {
	tb := newTestBackend(t)

	_, err := execute(t, tb.open, "", "migrate")
	require.NoError(t, err)

	_, err = execute(t, tb.open, "", "migrate")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "migration failed at personal")
	assert.ErrorIs(t, err, docstore.ErrAlreadyExists)

	n, err := tb.store.Count(context.Background(), tb.services().Collection(content.DomainProjects))
	require.NoError(t, err)
	assert.Equal(t, 4, n, "projects are not copied twice")
}

func TestMigrateCommand_FromDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "personal.yaml"), []byte(`
name: Sam Example
title: Platform engineer
email: sam@example.com
socialLinks:
  - name: GitHub
    url: https://github.com/sam
    icon: github
`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "projects.json"), []byte(`{
  "projects": [
    {"id": 5, "title": "Later", "technologies": ["Go"]},
    {"id": 2, "title": "Earlier", "technologies": ["Rust"]}
  ]
}`), 0o644))

	tb := newTestBackend(t)
	out, err := execute(t, tb.open, "", "migrate", "--from", dir)
	require.NoError(t, err)
	assert.Contains(t, out, filepath.Join(dir, "personal.yaml"))
	assert.Contains(t, out, "skills from bundled content")

	ctx := context.Background()
	svc := tb.services()
	personal, err := svc.Personal.Fetch(ctx)
	require.NoError(t, err)
	require.NotNil(t, personal)
	assert.Equal(t, "Sam Example", personal.Name)
	require.Len(t, personal.SocialLinks, 1)
	assert.Equal(t, "https://github.com/sam", personal.SocialLinks[0].URL)

	projects, err := svc.Projects.FetchAll(ctx)
	require.NoError(t, err)
	require.Len(t, projects.Projects, 2)
	assert.Equal(t, "Earlier", projects.Projects[0].Title)
	assert.True(t, projects.Projects[0].Featured)
	assert.Equal(t, "Later", projects.Projects[1].Title)
	assert.False(t, projects.Projects[1].Featured)
}

func TestReadSeed_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "skills.yml"), []byte("categories: [unclosed"), 0o644))

	_, _, err := readSeed(dir, content.DomainSkills)
	assert.Error(t, err)
}

// unreachableStore fails every ping.
type unreachableStore struct {
	*docstore.MemoryStore
}

func (unreachableStore) Ping(context.Context) error { return errors.New("connection refused") }

func TestTestConnectionCommand(t *testing.T) {
	tb := newTestBackend(t)
	_, err := execute(t, tb.open, "", "migrate")
	require.NoError(t, err)

	out, err := execute(t, tb.open, "", "test-connection")
	require.NoError(t, err)
	assert.Contains(t, out, "Connection OK")
	assert.Contains(t, out, "personal_info")
	assert.Contains(t, out, "Documents")

	tb.store = unreachableStore{docstore.NewMemoryStore()}
	out, err = execute(t, tb.open, "", "test-connection")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "content store is unreachable")
	assert.Contains(t, out, "Connection failed")
}

func TestRenderCounts(t *testing.T) {
	rendered := renderCounts([]content.CollectionCount{
		{Domain: content.DomainProjects, Collection: "projects", Count: 4},
		{Domain: content.DomainQuotes, Collection: "quotes", Err: errors.New("denied")},
	})
	assert.Contains(t, rendered, "projects")
	assert.Contains(t, rendered, "4")
	assert.Contains(t, rendered, "error: denied")
}
