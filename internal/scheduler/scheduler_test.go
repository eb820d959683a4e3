// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/portfolio-go/internal/model"
	"github.com/olegiv/portfolio-go/internal/store"
	"github.com/olegiv/portfolio-go/internal/testutil"
)

func TestScheduler_AddAndJobs(t *testing.T) {
	s := New(testutil.TestLoggerSilent())

	require.NoError(t, s.Add("b-job", "second", "@every 1h", func() {}))
	require.NoError(t, s.Add("a-job", "first", "@daily", func() {}))
	assert.Error(t, s.Add("a-job", "dup", "@daily", func() {}))
	assert.Error(t, s.Add("bad", "invalid schedule", "not a schedule", func() {}))

	jobs := s.Jobs()
	require.Len(t, jobs, 2)
	assert.Equal(t, "a-job", jobs[0].Name)
	assert.Equal(t, "@daily", jobs[0].Schedule)
	assert.Equal(t, "b-job", jobs[1].Name)
}

func TestScheduler_StartStop(t *testing.T) {
	s := New(testutil.TestLoggerSilent())
	require.NoError(t, s.Add("noop", "", "@every 1h", func() {}))

	s.Start()
	jobs := s.Jobs()
	require.Len(t, jobs, 1)
	assert.False(t, jobs[0].NextRun.IsZero())
	s.Stop()
}

type fakePinger struct{ err error }

func (p *fakePinger) Ping(context.Context) error { return p.err }

func TestStoreHealth(t *testing.T) {
	pinger := &fakePinger{}
	h := NewStoreHealth(pinger)
	assert.False(t, h.Last().OK)
	assert.True(t, h.Last().CheckedAt.IsZero())

	result := h.Probe(context.Background())
	assert.True(t, result.OK)
	assert.Equal(t, result, h.Last())

	pinger.err = errors.New("unreachable")
	result = h.Probe(context.Background())
	assert.False(t, result.OK)
	assert.EqualError(t, h.Last().Err, "unreachable")
}

func TestAddStoreProbe_ProbesImmediately(t *testing.T) {
	s := New(testutil.TestLoggerSilent())
	h := NewStoreHealth(&fakePinger{})

	require.NoError(t, s.AddStoreProbe(h, "@every 5m"))
	assert.True(t, h.Last().OK)
	assert.Len(t, s.Jobs(), 1)
}

func TestAddEventPurge(t *testing.T) {
	db := testutil.TestDB(t)
	q := store.New(db)
	ctx := context.Background()

	old := time.Now().Add(-40 * 24 * time.Hour)
	require.NoError(t, q.CreateEvent(ctx, store.CreateEventParams{
		Level: model.EventLevelWarning, Category: model.EventCategorySystem, Message: "old", Metadata: "{}", CreatedAt: old,
	}))
	require.NoError(t, q.CreateEvent(ctx, store.CreateEventParams{
		Level: model.EventLevelWarning, Category: model.EventCategorySystem, Message: "new", Metadata: "{}", CreatedAt: time.Now(),
	}))

	s := New(testutil.TestLoggerSilent())
	require.NoError(t, s.AddEventPurge(q, 0))
	assert.Empty(t, s.Jobs(), "zero retention schedules nothing")

	require.NoError(t, s.AddEventPurge(q, 30*24*time.Hour))
	require.Len(t, s.Jobs(), 1)

	// Run the registered job directly.
	entries := s.cron.Entries()
	require.Len(t, entries, 1)
	entries[0].Job.Run()

	events, err := q.ListRecentEvents(ctx, 10)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "new", events[0].Message)
}

type countingPruner struct{ calls int }

func (p *countingPruner) Prune() int {
	p.calls++
	return 1
}

func TestAddLoginPrune(t *testing.T) {
	s := New(testutil.TestLoggerSilent())
	p := &countingPruner{}
	require.NoError(t, s.AddLoginPrune(p))

	s.cron.Entries()[0].Job.Run()
	assert.Equal(t, 1, p.calls)
}
