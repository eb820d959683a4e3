// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package media

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/storage"
)

// BucketSource reads media from a Cloud Storage bucket.
type BucketSource struct {
	client *storage.Client
	bucket *storage.BucketHandle
}

// NewBucketSource connects to Cloud Storage with application default
// credentials.
func NewBucketSource(ctx context.Context, bucket string) (*BucketSource, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("creating storage client: %w", err)
	}
	return &BucketSource{client: client, bucket: client.Bucket(bucket)}, nil
}

// Open starts reading the object called name.
func (b *BucketSource) Open(ctx context.Context, name string) (*Object, error) {
	cleaned, err := CleanName(name)
	if err != nil {
		return nil, err
	}
	reader, err := b.bucket.Object(cleaned).NewReader(ctx)
	if err != nil {
		return nil, bucketError(cleaned, err)
	}
	return &Object{
		Body:        reader,
		ContentType: reader.Attrs.ContentType,
		Size:        reader.Attrs.Size,
		ModTime:     reader.Attrs.LastModified,
	}, nil
}

// Close releases the storage client.
func (b *BucketSource) Close() error {
	return b.client.Close()
}

func bucketError(name string, err error) error {
	if errors.Is(err, storage.ErrObjectNotExist) || errors.Is(err, storage.ErrBucketNotExist) {
		return ErrNotFound
	}
	return fmt.Errorf("reading object %s: %w", name, err)
}
