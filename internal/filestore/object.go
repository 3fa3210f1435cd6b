package filestore

import (
	"path"
	"time"
)

// Content types of stored sources.
const (
	ContentTypeJava = "text/x-java-source; charset=utf-8"
	ContentTypeText = "text/plain; charset=utf-8"
)

// Object describes one stored file.
type Object struct {
	Bucket      string
	Key         string
	Size        int64
	ContentType string
	ETag        string
	VersionID   string // empty unless the bucket is versioned
	Modified    time.Time
}

// Location is the bucket-qualified address reported for an object.
func (o *Object) Location() string {
	return "minio://" + o.Bucket + "/" + o.Key
}

// PutOptions are the optional attributes of an upload.
type PutOptions struct {
	ContentType string
	Metadata    map[string]string
}

// ContentTypeOf picks the content type from the extension of name.
func ContentTypeOf(name string) string {
	if path.Ext(name) == ".java" {
		return ContentTypeJava
	}
	return ContentTypeText
}
