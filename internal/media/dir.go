// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package media

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/olegiv/portfolio-go/internal/util"
)

// DirSource reads media from a local directory.
type DirSource struct {
	root string
}

// NewDirSource returns a source rooted at dir.
func NewDirSource(dir string) *DirSource {
	return &DirSource{root: dir}
}

// Open opens root/name. Directories are reported as not found.
func (d *DirSource) Open(_ context.Context, name string) (*Object, error) {
	cleaned, err := CleanName(name)
	if err != nil {
		return nil, err
	}
	full, err := util.SafeJoinPath(d.root, filepath.FromSlash(cleaned))
	if err != nil {
		return nil, ErrInvalidName
	}

	f, err := os.Open(full)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	if info.IsDir() {
		_ = f.Close()
		return nil, ErrNotFound
	}
	return &Object{Body: f, Size: info.Size(), ModTime: info.ModTime()}, nil
}
