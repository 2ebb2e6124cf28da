/*
Package storage reads objects from S3-compatible storage. The backend uses it to
pull the product catalog CSV.
*/
package storage

import "context"

// ServiceConfig holds the connection settings for the object store.
type ServiceConfig struct {
	S3BucketName      string
	S3Endpoint        string
	S3AccessKeyID     string
	S3SecretAccessKey string
}

// ObjectStore fetches whole objects by key.
type ObjectStore interface {
	// Fetch downloads the object stored under key.
	Fetch(ctx context.Context, key string) ([]byte, error)
}

// NewObjectStore returns the S3 implementation for cfg.
func NewObjectStore(ctx context.Context, cfg ServiceConfig) (ObjectStore, error) {
	return newS3Client(ctx, cfg)
}
