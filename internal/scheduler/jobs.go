// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package scheduler

import (
	"context"
	"sync"
	"time"
)

const (
	probeTimeout = 10 * time.Second
	purgeTimeout = time.Minute
)

// Pinger reports whether the document store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// EventPurger removes activity log entries older than a cutoff.
type EventPurger interface {
	DeleteEventsBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// Pruner drops expired in-memory state and returns how much it dropped.
type Pruner interface {
	Prune() int
}

// Health is the outcome of the last store probe.
type Health struct {
	OK        bool
	CheckedAt time.Time
	Err       error
}

// StoreHealth probes the document store and keeps the last result.
type StoreHealth struct {
	store Pinger
	now   func() time.Time

	mu   sync.RWMutex
	last Health
}

// NewStoreHealth returns a prober for store. Nothing is known until the
// first Probe.
func NewStoreHealth(store Pinger) *StoreHealth {
	return &StoreHealth{store: store, now: time.Now}
}

// Probe pings the store and records the result.
func (h *StoreHealth) Probe(ctx context.Context) Health {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	err := h.store.Ping(ctx)
	result := Health{OK: err == nil, CheckedAt: h.now(), Err: err}

	h.mu.Lock()
	h.last = result
	h.mu.Unlock()
	return result
}

// Last returns the most recent probe result.
func (h *StoreHealth) Last() Health {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.last
}

// AddStoreProbe schedules h. The first probe runs immediately so readiness
// is known before the first request.
func (s *Scheduler) AddStoreProbe(h *StoreHealth, schedule string) error {
	probe := func() {
		if result := h.Probe(context.Background()); !result.OK {
			s.logger.Warn("document store health probe failed", "error", result.Err)
		}
	}
	probe()
	return s.Add("store-health", "Ping the document store", schedule, probe)
}

// AddEventPurge schedules a daily removal of events older than retention.
// A non-positive retention keeps events forever and schedules nothing.
func (s *Scheduler) AddEventPurge(p EventPurger, retention time.Duration) error {
	if retention <= 0 {
		return nil
	}
	return s.Add("event-purge", "Delete old activity log entries", "@daily", func() {
		ctx, cancel := context.WithTimeout(context.Background(), purgeTimeout)
		defer cancel()

		deleted, err := p.DeleteEventsBefore(ctx, time.Now().Add(-retention))
		if err != nil {
			s.logger.Error("failed to purge events", "error", err)
			return
		}
		if deleted > 0 {
			s.logger.Info("purged old events", "count", deleted)
		}
	})
}

// AddLoginPrune schedules cleanup of expired login lockouts.
func (s *Scheduler) AddLoginPrune(p Pruner) error {
	return s.Add("login-prune", "Forget expired login lockouts", "@every 10m", func() {
		if n := p.Prune(); n > 0 {
			s.logger.Debug("pruned login attempts", "count", n)
		}
	})
}
