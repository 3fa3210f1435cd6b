// Package output delivers generated source files to a local directory tree
// or to an object store.
package output

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/koustreak/schemagen/internal/errs"
	"github.com/koustreak/schemagen/internal/filestore"
	"github.com/koustreak/schemagen/internal/logger"
)

// Writer stores one generated file and returns where it ended up.
type Writer interface {
	Write(ctx context.Context, dir, name string, content []byte) (string, error)
}

// --- local directory ---

// DirWriter writes files below the local filesystem, creating directories
// on demand.
type DirWriter struct {
	// Root anchors relative target directories. Empty means the working
	// directory.
	Root string
}

// NewDirWriter returns a DirWriter anchored at root.
func NewDirWriter(root string) *DirWriter {
	return &DirWriter{Root: root}
}

// Write creates dir if needed and writes name into it, replacing any
// existing file. It returns the absolute file path.
func (w *DirWriter) Write(ctx context.Context, dir, name string, content []byte) (string, error) {
	log := logger.FromContext(ctx)

	target := dir
	if !filepath.IsAbs(target) && w.Root != "" {
		target = filepath.Join(w.Root, target)
	}
	abs, err := filepath.Abs(target)
	if err != nil {
		return "", errs.Wrap(errs.ErrKindIO, "resolve directory "+dir, err)
	}

	switch fi, err := os.Stat(abs); {
	case err == nil && !fi.IsDir():
		return "", errs.Newf(errs.ErrKindIO, "%s exists and is not a directory", abs)
	case err == nil:
		log.With().Str("dir", abs).Logger().Debug("directory already exists")
	case os.IsNotExist(err):
		if err := os.MkdirAll(abs, 0o755); err != nil {
			return "", errs.Wrap(errs.ErrKindIO, "create directory "+abs, err)
		}
		log.With().Str("dir", abs).Logger().Info("directory created")
	default:
		return "", errs.Wrap(errs.ErrKindIO, "stat directory "+abs, err)
	}

	file := filepath.Join(abs, name)
	if err := os.WriteFile(file, content, 0o644); err != nil {
		return "", errs.Wrap(errs.ErrKindIO, "write "+file, err)
	}
	return file, nil
}

// --- object storage ---

// ObjectWriter uploads files to a bucket of a filestore.Store. The target
// directory becomes the key prefix.
type ObjectWriter struct {
	store      filestore.Store
	bucket     string
	prefix     string
	presignTTL time.Duration
}

// ObjectOption configures an ObjectWriter.
type ObjectOption func(*ObjectWriter)

// WithPrefix prepends prefix to every key.
func WithPrefix(prefix string) ObjectOption {
	return func(w *ObjectWriter) { w.prefix = strings.Trim(prefix, "/") }
}

// WithPresignedLocations makes Write return a download URL valid for ttl
// instead of a minio:// location.
func WithPresignedLocations(ttl time.Duration) ObjectOption {
	return func(w *ObjectWriter) { w.presignTTL = ttl }
}

// NewObjectWriter returns a writer that stores files in bucket.
func NewObjectWriter(store filestore.Store, bucket string, opts ...ObjectOption) *ObjectWriter {
	w := &ObjectWriter{store: store, bucket: bucket}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write uploads content as <prefix>/<dir>/<name>, creating the bucket if
// needed.
func (w *ObjectWriter) Write(ctx context.Context, dir, name string, content []byte) (string, error) {
	if err := w.store.EnsureBucket(ctx, w.bucket); err != nil {
		return "", errs.Wrap(errs.ErrKindIO, "ensure bucket "+w.bucket, err)
	}

	key := ObjectKey(w.prefix, dir, name)
	obj, err := w.store.Put(ctx, w.bucket, key, content, filestore.PutOptions{
		ContentType: filestore.ContentTypeOf(name),
		Metadata:    map[string]string{"source-dir": dir},
	})
	if err != nil {
		return "", errs.Wrap(errs.ErrKindIO, fmt.Sprintf("put %s/%s", w.bucket, key), err)
	}

	if w.presignTTL > 0 {
		url, err := w.store.PresignGet(ctx, w.bucket, key, w.presignTTL)
		if err != nil {
			return "", errs.Wrap(errs.ErrKindIO, "presign "+key, err)
		}
		return url, nil
	}
	return obj.Location(), nil
}

// ObjectKey turns a filesystem directory into an object key below prefix.
// Drive letters and leading separators are dropped; both separator styles
// become "/".
func ObjectKey(prefix, dir, name string) string {
	d := strings.ReplaceAll(dir, `\`, "/")
	if len(d) >= 2 && d[1] == ':' {
		d = d[2:]
	}
	return strings.TrimPrefix(path.Join(prefix, path.Clean("/"+d), name), "/")
}
