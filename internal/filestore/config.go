package filestore

import (
	"fmt"
	"strings"
)

// Provider names an object store implementation.
type Provider string

const ProviderMinIO Provider = "minio"

// Config is the output.minio section of the config file.
type Config struct {
	Provider  Provider `mapstructure:"provider" yaml:"provider"`
	Endpoint  string   `mapstructure:"endpoint" yaml:"endpoint"` // host:port
	AccessKey string   `mapstructure:"access_key" yaml:"access_key"`
	SecretKey string   `mapstructure:"secret_key" yaml:"secret_key"`
	UseSSL    bool     `mapstructure:"use_ssl" yaml:"use_ssl"`
	Region    string   `mapstructure:"region" yaml:"region"`

	// Bucket receives the generated sources and is created on first use.
	Bucket string `mapstructure:"bucket" yaml:"bucket"`

	// Prefix goes in front of every key, e.g. "generated/".
	Prefix string `mapstructure:"prefix" yaml:"prefix"`
}

// DefaultConfig returns a local MinIO config writing to the schemagen bucket.
func DefaultConfig(endpoint, accessKey, secretKey string) *Config {
	return &Config{
		Provider:  ProviderMinIO,
		Endpoint:  endpoint,
		AccessKey: accessKey,
		SecretKey: secretKey,
		Bucket:    "schemagen",
	}
}

// Check lists the problems of c as "field: reason".
func (c *Config) Check() []string {
	var problems []string
	if c.Provider != "" && c.Provider != ProviderMinIO {
		problems = append(problems, fmt.Sprintf("provider: unsupported %q", c.Provider))
	}
	if strings.TrimSpace(c.Endpoint) == "" {
		problems = append(problems, "endpoint: required")
	}
	if strings.TrimSpace(c.Bucket) == "" {
		problems = append(problems, "bucket: required")
	}
	return problems
}
