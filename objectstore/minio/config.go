package minio

import (
	"fmt"

	"github.com/minio/minio-go/v7"
)

// DefaultRegion matches the region the web application's bucket lives in.
const DefaultRegion = "us-east-2"

// Config holds S3/MinIO connection configuration.
type Config struct {
	// Endpoint is the server host and port (e.g., "s3.us-east-2.amazonaws.com" or "localhost:9000")
	Endpoint string

	// AccessKey is the access key ID for authentication
	AccessKey string

	// SecretKey is the secret access key for authentication
	SecretKey string

	// UseSSL enables HTTPS connections
	UseSSL bool

	// Region is the bucket region (default: us-east-2)
	Region string

	// Prefix is an optional prefix prepended to every object key
	Prefix string

	// Client is an optional pre-configured MinIO client
	// If provided, Endpoint/AccessKey/SecretKey are ignored
	Client *minio.Client
}

// validate checks if the configuration is valid.
// Either Client OR (Endpoint + AccessKey + SecretKey) must be provided.
func (c *Config) validate() error {
	if c.Client != nil {
		return nil
	}

	if c.Endpoint == "" {
		return fmt.Errorf("endpoint is required when client is not provided")
	}
	if c.AccessKey == "" {
		return fmt.Errorf("access key is required when client is not provided")
	}
	if c.SecretKey == "" {
		return fmt.Errorf("secret key is required when client is not provided")
	}

	return nil
}
