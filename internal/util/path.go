// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import (
	"errors"
	"path/filepath"
	"strings"
)

// ErrPathTraversal reports a path that escapes its base directory.
var ErrPathTraversal = errors.New("path escapes base directory")

// SafeJoinPath joins components onto base and fails with ErrPathTraversal
// when the cleaned result is not inside base.
func SafeJoinPath(base string, components ...string) (string, error) {
	absBase, err := filepath.Abs(base)
	if err != nil {
		return "", err
	}
	full := filepath.Join(append([]string{absBase}, components...)...)
	if full != absBase && !strings.HasPrefix(full, absBase+string(filepath.Separator)) {
		return "", ErrPathTraversal
	}
	return full, nil
}
