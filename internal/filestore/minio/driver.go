// Package minio stores generated sources in a MinIO (or any S3 compatible)
// bucket.
//
//	cfg := filestore.DefaultConfig("localhost:9000", "minioadmin", "minioadmin")
//	store, err := minio.New(ctx, cfg)
//	...
//	obj, err := store.Put(ctx, cfg.Bucket, "com/acme/entity/SCTestEntity.java", src, filestore.PutOptions{})
package minio

import (
	"bytes"
	"context"
	"time"

	miniogo "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/koustreak/schemagen/internal/errs"
	"github.com/koustreak/schemagen/internal/filestore"
)

// Store is a filestore.Store backed by a minio-go client. Safe for
// concurrent use.
type Store struct {
	client *miniogo.Client
	region string
}

var _ filestore.Store = (*Store)(nil)

// New checks cfg, builds the client and pings the server.
func New(ctx context.Context, cfg *filestore.Config) (*Store, error) {
	if problems := cfg.Check(); len(problems) > 0 {
		return nil, errs.WithDetails(errs.ErrKindConfiguration, "invalid object store config", problems)
	}

	client, err := miniogo.New(cfg.Endpoint, &miniogo.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, errs.Wrap(errs.ErrKindConnectionFailed, "minio client for "+cfg.Endpoint, err)
	}

	s := &Store{client: client, region: cfg.Region}
	if err := s.Ping(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) Ping(ctx context.Context) error {
	if _, err := s.client.ListBuckets(ctx); err != nil {
		return mapError(err, "ping")
	}
	return nil
}

// Close releases nothing; the client keeps no session.
func (s *Store) Close() error { return nil }

func (s *Store) EnsureBucket(ctx context.Context, bucket string) error {
	ok, err := s.client.BucketExists(ctx, bucket)
	switch {
	case err != nil:
		return mapError(err, "lookup bucket "+bucket)
	case ok:
		return nil
	}

	err = s.client.MakeBucket(ctx, bucket, miniogo.MakeBucketOptions{Region: s.region})
	if err != nil && miniogo.ToErrorResponse(err).Code != "BucketAlreadyOwnedByYou" {
		return mapError(err, "create bucket "+bucket)
	}
	return nil
}

func (s *Store) Put(ctx context.Context, bucket, key string, body []byte, opts filestore.PutOptions) (*filestore.Object, error) {
	ct := opts.ContentType
	if ct == "" {
		ct = filestore.ContentTypeOf(key)
	}

	up, err := s.client.PutObject(ctx, bucket, key, bytes.NewReader(body), int64(len(body)), miniogo.PutObjectOptions{
		ContentType:  ct,
		UserMetadata: opts.Metadata,
	})
	if err != nil {
		return nil, mapError(err, "put "+bucket+"/"+key)
	}
	return &filestore.Object{
		Bucket:      bucket,
		Key:         key,
		Size:        up.Size,
		ContentType: ct,
		ETag:        up.ETag,
		VersionID:   up.VersionID,
		Modified:    up.LastModified,
	}, nil
}

func (s *Store) Stat(ctx context.Context, bucket, key string) (*filestore.Object, error) {
	st, err := s.client.StatObject(ctx, bucket, key, miniogo.StatObjectOptions{})
	if err != nil {
		return nil, mapError(err, "stat "+bucket+"/"+key)
	}
	return &filestore.Object{
		Bucket:      bucket,
		Key:         st.Key,
		Size:        st.Size,
		ContentType: st.ContentType,
		ETag:        st.ETag,
		VersionID:   st.VersionID,
		Modified:    st.LastModified,
	}, nil
}

func (s *Store) PresignGet(ctx context.Context, bucket, key string, ttl time.Duration) (string, error) {
	u, err := s.client.PresignedGetObject(ctx, bucket, key, ttl, nil)
	if err != nil {
		return "", mapError(err, "presign "+bucket+"/"+key)
	}
	return u.String(), nil
}
