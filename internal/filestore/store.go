// Package filestore keeps generated sources in an object store. Commands and
// the output package depend on Store only; minio is the provider.
package filestore

import (
	"context"
	"time"
)

// Store holds generated source files in buckets.
type Store interface {
	// Ping checks the backend answers with the configured credentials.
	Ping(ctx context.Context) error

	Close() error

	// EnsureBucket creates bucket unless it exists. Safe to call per run.
	EnsureBucket(ctx context.Context, bucket string) error

	// Put stores body under key, replacing an earlier version.
	Put(ctx context.Context, bucket, key string, body []byte, opts PutOptions) (*Object, error)

	Stat(ctx context.Context, bucket, key string) (*Object, error)

	// PresignGet returns a download URL valid for ttl.
	PresignGet(ctx context.Context, bucket, key string, ttl time.Duration) (string, error)
}
