package filestore

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfig_Check(t *testing.T) {
	assert.Empty(t, DefaultConfig("localhost:9000", "k", "s").Check())

	cfg := &Config{Provider: ProviderMinIO, Endpoint: " ", Bucket: "gen"}
	assert.Equal(t, []string{"endpoint: required"}, cfg.Check())
}

func TestContentTypeOf(t *testing.T) {
	assert.Equal(t, ContentTypeJava, ContentTypeOf("SCTestEntity.java"))
	assert.Equal(t, ContentTypeText, ContentTypeOf("run.yaml"))
	assert.Equal(t, ContentTypeText, ContentTypeOf("java"))
}

func TestObject_Location(t *testing.T) {
	o := &Object{Bucket: "gen", Key: "dao/ISCTestDao.java"}
	assert.Equal(t, "minio://gen/dao/ISCTestDao.java", o.Location())
}
