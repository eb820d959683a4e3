// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package docstore

import (
	"cmp"
	"encoding/json"
	"slices"
)

// applyQuery evaluates q over docs, which must already be in insertion
// order. It is shared by the backends that cannot push queries down.
func applyQuery(docs []Document, q Query) []Document {
	filters := make([]Filter, len(q.Filters))
	for i, f := range q.Filters {
		filters[i] = Filter{Field: f.Field, Value: normalizeValue(f.Value)}
	}

	out := make([]Document, 0, len(docs))
	for _, d := range docs {
		if matches(d, filters) {
			out = append(out, d)
		}
	}

	if q.OrderBy != "" {
		slices.SortStableFunc(out, func(a, b Document) int {
			return compareValues(a.Data[q.OrderBy], b.Data[q.OrderBy])
		})
	}
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out
}

func matches(d Document, filters []Filter) bool {
	for _, f := range filters {
		v, ok := d.Data[f.Field]
		if !ok || !valuesEqual(v, f.Value) {
			return false
		}
	}
	return true
}

func normalizeValue(v any) any {
	b, err := json.Marshal(v)
	if err != nil {
		return v
	}
	var out any
	if err := json.Unmarshal(b, &out); err != nil {
		return v
	}
	return out
}

func valuesEqual(a, b any) bool {
	if rank(a) != rank(b) {
		return false
	}
	return compareValues(a, b) == 0
}

// rank orders value kinds the way SQLite does: missing, numbers, text, rest.
// Booleans sort with numbers as 0 and 1.
func rank(v any) int {
	switch v.(type) {
	case nil:
		return 0
	case bool, float64, int, int64:
		return 1
	case string:
		return 2
	default:
		return 3
	}
}

func number(v any) float64 {
	switch n := v.(type) {
	case bool:
		if n {
			return 1
		}
		return 0
	case float64:
		return n
	case int:
		return float64(n)
	case int64:
		return float64(n)
	}
	return 0
}

func compareValues(a, b any) int {
	ra, rb := rank(a), rank(b)
	if ra != rb {
		return cmp.Compare(ra, rb)
	}
	switch ra {
	case 1:
		return cmp.Compare(number(a), number(b))
	case 2:
		return cmp.Compare(a.(string), b.(string))
	}
	return 0
}
