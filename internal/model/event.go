// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"time"
)

// Event levels
const (
	EventLevelInfo    = "info"
	EventLevelWarning = "warning"
	EventLevelError   = "error"
)

// Event categories
const (
	EventCategoryAuth    = "auth"
	EventCategoryContent = "content"
	EventCategoryContact = "contact"
	EventCategorySystem  = "system"
)

// Event is one entry of the activity log shown in the admin panel.
type Event struct {
	ID        int64
	Level     string
	Category  string
	Message   string
	Metadata  string // JSON string
	CreatedAt time.Time
}

// LevelClass maps the level to the badge style used by the admin templates.
func (e Event) LevelClass() string {
	switch e.Level {
	case EventLevelError:
		return "danger"
	case EventLevelWarning:
		return "warning"
	default:
		return "muted"
	}
}
